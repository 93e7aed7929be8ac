package sii_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/sii"
)

func TestSanitize_QuitaDiacriticos(t *testing.T) {
	cases := map[string]string{
		"Consulta Oftalmológica": "Consulta Oftalmologica",
		"Vacuna Séxtuple Canina": "Vacuna Sextuple Canina",
		"Baño medicado":          "Bano medicado",
		"Peluquería über-rápida": "Peluqueria uber-rapida",
	}
	for in, want := range cases {
		assert.Equal(t, want, sii.Sanitize(in, 0), "entrada %q", in)
	}
}

func TestSanitize_ListaBlanca(t *testing.T) {
	// Los caracteres fuera de la lista blanca desaparecen sin dejar rastro.
	assert.Equal(t, "Atencion urgencia 50%", sii.Sanitize("¡Atención urgencia 50%!", 0))
	assert.Equal(t, "corte de unas", sii.Sanitize("corte de uñas <script>", 0)[:13])
}

func TestSanitize_Idempotente(t *testing.T) {
	inputs := []string{
		"Consulta Oftalmológica",
		"Desparasitación interna/externa (cachorro)",
		"ya-limpio 100%",
	}
	for _, in := range inputs {
		once := sii.SanitizeItemText(in)
		twice := sii.SanitizeItemText(once)
		assert.Equal(t, once, twice, "sanitizar dos veces debe ser estable para %q", in)
	}
}

func TestSanitize_Trunca(t *testing.T) {
	long := strings.Repeat("a", 500)
	got := sii.Sanitize(long, sii.MaxItemNameLen)
	assert.Len(t, got, sii.MaxItemNameLen)
}

func TestSanitize_SinCaracteresExtendidosEnSalida(t *testing.T) {
	got := sii.SanitizeItemText("Ñandú émbolo 日本語 ©®")
	for _, r := range got {
		assert.Less(t, int(r), 128, "la salida debe ser ASCII puro, apareció %q", r)
	}
}
