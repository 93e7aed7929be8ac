package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSwagger_ArchivoAusenteNoDetieneElArranque(t *testing.T) {
	app := fiber.New()

	var ok bool
	require.NotPanics(t, func() {
		ok = registerSwagger(app, filepath.Join(t.TempDir(), "no-existe.json"))
	})
	assert.False(t, ok, "sin spec no se monta la UI, pero la app sigue viva")
}

func TestRegisterSwagger_ArchivoPresenteMontaUI(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "swagger.json")
	spec := `{"swagger":"2.0","info":{"title":"t","version":"1"},"paths":{}}`
	require.NoError(t, os.WriteFile(specPath, []byte(spec), 0o644))

	app := fiber.New()

	var ok bool
	require.NotPanics(t, func() {
		ok = registerSwagger(app, specPath)
	})
	assert.True(t, ok)
}

func TestSwaggerJSON_EmbarcadoEsValido(t *testing.T) {
	// El archivo que se despliega junto al binario debe existir y ser
	// swagger 2.0 parseable; si falta, el arranque pierde la UI de docs.
	raw, err := os.ReadFile("../../docs/swagger.json")
	require.NoError(t, err)

	var doc struct {
		Swagger string                     `json:"swagger"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Contains(t, doc.Paths, "/boletas")
	assert.Contains(t, doc.Paths, "/auth/login")
}
