package sii

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// El ingestor del SII rechaza caracteres extendidos en los campos de texto
// libre del DTE, por lo que todo nombre/descripción pasa por Sanitize antes
// de serializarse.

// stripDiacritics descompone (NFD) y elimina las marcas combinantes, de modo
// que "Consulta Oftalmológica" queda como "Consulta Oftalmologica".
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Sanitize normaliza un texto libre para el DTE: quita tildes y diéresis,
// conserva solo alfanuméricos y puntuación básica, colapsa el resto y trunca
// a max caracteres. Es idempotente: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string, max int) string {
	out, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		out = s
	}
	var sb strings.Builder
	sb.Grow(len(out))
	for _, r := range out {
		if allowedRune(r) {
			sb.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(sb.String())
	if max > 0 && len(cleaned) > max {
		cleaned = strings.TrimSpace(cleaned[:max])
	}
	return cleaned
}

// SanitizeItemText aplica el largo máximo estándar de los campos de detalle.
func SanitizeItemText(s string) string {
	return Sanitize(s, MaxItemNameLen)
}

// allowedRune define la lista blanca de caracteres aceptados por el SII:
// ASCII alfanumérico y puntuación comercial habitual. La eñe llega aquí ya
// descompuesta por NFD, por lo que sobrevive como "n".
func allowedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '.', r == ',', r == ';', r == ':', r == '-', r == '_',
		r == '(', r == ')', r == '/', r == '+', r == '%', r == '#', r == '*':
		return true
	default:
		return false
	}
}
