package sii

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateRUT valida que el RUT (con o sin puntos/espacios) tenga un dígito
// verificador correcto según el algoritmo módulo 11 del SII.
// rut puede ser "76.123.456-0", "76123456-0" o "76123456K".
func ValidateRUT(rut string) error {
	body, dv, err := splitRUT(rut)
	if err != nil {
		return err
	}
	expected := computeDV(body)
	if dv != expected {
		return fmt.Errorf("sii: dígito verificador del RUT inválido: esperado %c, recibido %c", expected, dv)
	}
	return nil
}

// NormalizeRUT devuelve el RUT en forma canónica "cuerpo-DV" sin puntos ni
// espacios y con la K en mayúscula. Es la forma que exige el XML del DTE
// (RUTEmisor, RUTRecep) y los campos del endpoint de envío.
func NormalizeRUT(rut string) (string, error) {
	body, dv, err := splitRUT(rut)
	if err != nil {
		return "", err
	}
	return body + "-" + string(dv), nil
}

// SplitRUT separa el RUT normalizado en cuerpo y dígito verificador,
// tal como los pide el endpoint de envío (campos rut/dv por separado).
func SplitRUT(rut string) (body, dv string, err error) {
	b, d, err := splitRUT(rut)
	if err != nil {
		return "", "", err
	}
	return b, string(d), nil
}

// ComputeDV calcula el dígito verificador para el cuerpo del RUT (solo dígitos).
func ComputeDV(body string) (byte, error) {
	for _, r := range body {
		if !unicode.IsDigit(r) {
			return 0, fmt.Errorf("sii: el cuerpo del RUT debe ser numérico, se recibió %q", body)
		}
	}
	if body == "" {
		return 0, fmt.Errorf("sii: cuerpo de RUT vacío")
	}
	return computeDV(body), nil
}

// splitRUT limpia puntos/espacios/guiones y separa cuerpo y DV.
// El último carácter siempre se interpreta como dígito verificador.
func splitRUT(rut string) (string, byte, error) {
	var cleaned []byte
	for _, r := range rut {
		switch {
		case unicode.IsDigit(r):
			cleaned = append(cleaned, byte(r))
		case r == 'k' || r == 'K':
			cleaned = append(cleaned, 'K')
		case r == '.' || r == '-' || r == ' ':
			// separadores de formato, se descartan
		default:
			return "", 0, fmt.Errorf("sii: carácter inválido %q en RUT %q", r, rut)
		}
	}
	if len(cleaned) < 2 {
		return "", 0, fmt.Errorf("sii: RUT demasiado corto: %q", rut)
	}
	body := string(cleaned[:len(cleaned)-1])
	dv := cleaned[len(cleaned)-1]
	if strings.ContainsRune(body, 'K') {
		return "", 0, fmt.Errorf("sii: la K solo puede ser dígito verificador en %q", rut)
	}
	return body, dv, nil
}

// computeDV aplica módulo 11 con pesos 2..7 cíclicos desde el dígito menos
// significativo. 11 → '0', 10 → 'K'.
func computeDV(body string) byte {
	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch rest := 11 - (sum % 11); rest {
	case 11:
		return '0'
	case 10:
		return 'K'
	default:
		return byte('0' + rest)
	}
}
