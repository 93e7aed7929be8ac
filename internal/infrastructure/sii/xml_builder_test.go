package sii

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
)

func contextoDePrueba() *BoletaBuildContext {
	fecha := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	return &BoletaBuildContext{
		Boleta: &entity.Boleta{
			Folio:       1042,
			Date:        fecha,
			NetTotal:    decimal.NewFromInt(21008),
			ExemptTotal: decimal.NewFromInt(5000),
			TaxTotal:    decimal.NewFromInt(1992),
			GrandTotal:  decimal.NewFromInt(30000),
		},
		Clinic: &entity.Clinic{
			Name:    "Clínica Veterinaria Ñuñoa",
			RUT:     "76.123.456-0",
			Giro:    "Servicios veterinarios",
			Acteco:  "750001",
			Address: "Av. Irarrázaval 1234",
			Comuna:  "Ñuñoa",
		},
		Tutor: &entity.Tutor{
			Name:    "María José Pérez",
			RUT:     "11111111-1",
			Address: "Los Alerces 567",
		},
		Details: []*entity.BoletaDetail{
			{LineNumber: 1, Name: "Consulta", Quantity: decimal.NewFromInt(1),
				UnitPrice: decimal.NewFromInt(25000), Amount: decimal.NewFromInt(25000)},
			{LineNumber: 2, Name: "Certificado sanitario", Quantity: decimal.NewFromInt(1),
				UnitPrice: decimal.NewFromInt(5000), Amount: decimal.NewFromInt(5000), Exempt: true},
		},
		Resolution: &ResolutionData{Number: "80", Date: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)},
	}
}

// parseaDTE parsea el XML generado. La declaración dice ISO-8859-1, así que el
// decoder necesita un CharsetReader (el contenido sanitizado es ASCII puro).
func parseaDTE(t *testing.T, raw []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	require.NoError(t, doc.ReadFromBytes(raw))
	return doc
}

func TestBuild_DeclaracionYRaiz(t *testing.T) {
	raw, err := NewXMLBuilderService().Build(contextoDePrueba())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(raw), `<?xml version="1.0" encoding="ISO-8859-1"?>`),
		"la declaración debe decir ISO-8859-1, el validador del SII la revisa")

	doc := parseaDTE(t, raw)
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "DTE", root.Tag)
	documento := root.SelectElement("Documento")
	require.NotNil(t, documento)
	assert.Equal(t, "F1042T39", documento.SelectAttrValue("ID", ""),
		"el ID del Documento es la URI de Reference de la firma")
}

func TestBuild_OrdenDeElementosFijo(t *testing.T) {
	raw, err := NewXMLBuilderService().Build(contextoDePrueba())
	require.NoError(t, err)

	documento := parseaDTE(t, raw).Root().SelectElement("Documento")
	require.NotNil(t, documento)

	var orden []string
	for _, el := range documento.ChildElements() {
		orden = append(orden, el.Tag)
	}
	assert.Equal(t, []string{"Encabezado", "Detalle", "Detalle", "Referencia"}, orden)

	encabezado := documento.SelectElement("Encabezado")
	var cabecera []string
	for _, el := range encabezado.ChildElements() {
		cabecera = append(cabecera, el.Tag)
	}
	assert.Equal(t, []string{"IdDoc", "Emisor", "Receptor", "Totales"}, cabecera)

	idDoc := encabezado.SelectElement("IdDoc")
	assert.Equal(t, "39", idDoc.SelectElement("TipoDTE").Text())
	assert.Equal(t, "1042", idDoc.SelectElement("Folio").Text())
	assert.Equal(t, "2026-03-15", idDoc.SelectElement("FchEmis").Text())

	// Los detalles salen en orden ascendente de NroLinDet
	detalles := documento.SelectElements("Detalle")
	assert.Equal(t, "1", detalles[0].SelectElement("NroLinDet").Text())
	assert.Equal(t, "2", detalles[1].SelectElement("NroLinDet").Text())
}

func TestBuild_RUTsNormalizadosYTextosSanitizados(t *testing.T) {
	raw, err := NewXMLBuilderService().Build(contextoDePrueba())
	require.NoError(t, err)

	encabezado := parseaDTE(t, raw).Root().SelectElement("Documento").SelectElement("Encabezado")
	emisor := encabezado.SelectElement("Emisor")
	assert.Equal(t, "76123456-0", emisor.SelectElement("RUTEmisor").Text(),
		"forma canónica cuerpo-DV sin puntos")
	assert.Equal(t, "Clinica Veterinaria Nunoa", emisor.SelectElement("RznSoc").Text())
	assert.Equal(t, "Av. Irarrazaval 1234", emisor.SelectElement("DirOrigen").Text())

	receptor := encabezado.SelectElement("Receptor")
	assert.Equal(t, "11111111-1", receptor.SelectElement("RUTRecep").Text())
	assert.Equal(t, "Maria Jose Perez", receptor.SelectElement("RznSocRecep").Text())
}

func TestBuild_TotalesEnterosYDesgloseExento(t *testing.T) {
	raw, err := NewXMLBuilderService().Build(contextoDePrueba())
	require.NoError(t, err)

	totales := parseaDTE(t, raw).Root().SelectElement("Documento").
		SelectElement("Encabezado").SelectElement("Totales")
	assert.Equal(t, "21008", totales.SelectElement("MntNeto").Text())
	assert.Equal(t, "5000", totales.SelectElement("MntExe").Text())
	assert.Equal(t, "1992", totales.SelectElement("IVA").Text())
	assert.Equal(t, "30000", totales.SelectElement("MntTotal").Text())

	detalles := parseaDTE(t, raw).Root().SelectElement("Documento").SelectElements("Detalle")
	assert.Nil(t, detalles[0].SelectElement("IndExe"), "línea afecta no lleva IndExe")
	assert.Equal(t, "1", detalles[1].SelectElement("IndExe").Text())
	assert.Equal(t, "25000", detalles[0].SelectElement("MontoItem").Text())
}

func TestBuild_SinReceptorOmiteBloque(t *testing.T) {
	ctx := contextoDePrueba()
	ctx.Tutor = nil
	raw, err := NewXMLBuilderService().Build(ctx)
	require.NoError(t, err)

	encabezado := parseaDTE(t, raw).Root().SelectElement("Documento").SelectElement("Encabezado")
	assert.Nil(t, encabezado.SelectElement("Receptor"))
	var cabecera []string
	for _, el := range encabezado.ChildElements() {
		cabecera = append(cabecera, el.Tag)
	}
	assert.Equal(t, []string{"IdDoc", "Emisor", "Totales"}, cabecera)
}

func TestBuild_SinExentoOmiteMntExe(t *testing.T) {
	ctx := contextoDePrueba()
	ctx.Boleta.ExemptTotal = decimal.Zero
	ctx.Boleta.GrandTotal = decimal.NewFromInt(25000)
	ctx.Details = ctx.Details[:1]
	raw, err := NewXMLBuilderService().Build(ctx)
	require.NoError(t, err)

	totales := parseaDTE(t, raw).Root().SelectElement("Documento").
		SelectElement("Encabezado").SelectElement("Totales")
	assert.Nil(t, totales.SelectElement("MntExe"))
}

func TestBuild_ReferenciaALaResolucion(t *testing.T) {
	raw, err := NewXMLBuilderService().Build(contextoDePrueba())
	require.NoError(t, err)

	ref := parseaDTE(t, raw).Root().SelectElement("Documento").SelectElement("Referencia")
	require.NotNil(t, ref)
	assert.Equal(t, "80", ref.SelectElement("FolioRef").Text())
	assert.Equal(t, "2024-08-01", ref.SelectElement("FchRef").Text())
}

func TestBuild_ContextoIncompletoEsError(t *testing.T) {
	svc := NewXMLBuilderService()

	_, err := svc.Build(nil)
	assert.Error(t, err)

	ctx := contextoDePrueba()
	ctx.Details = nil
	_, err = svc.Build(ctx)
	assert.Error(t, err)

	ctx = contextoDePrueba()
	ctx.Boleta.Folio = 0
	_, err = svc.Build(ctx)
	assert.Error(t, err)

	ctx = contextoDePrueba()
	ctx.Clinic.RUT = "no-es-un-rut"
	_, err = svc.Build(ctx)
	assert.Error(t, err)
}
