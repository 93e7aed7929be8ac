package sii_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/sii"
)

func lineaSimple(nombre string, qty, precio int64) sii.LineInput {
	return sii.LineInput{
		Name:      nombre,
		Quantity:  decimal.NewFromInt(qty),
		UnitPrice: decimal.NewFromInt(precio),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Vector exacto de referencia: una consulta de $25.000 sin descuento debe
// producir bruto 25000, neto round(25000/1.19) = 21008 e IVA 1992. Si alguien
// toca la tasa, el orden de redondeo o la derivación del neto, este test cae.
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildLines_VectorConsulta(t *testing.T) {
	details, totals, err := sii.BuildLines([]sii.LineInput{lineaSimple("Consulta", 1, 25000)})
	require.NoError(t, err)
	require.Len(t, details, 1)

	assert.Equal(t, "25000", details[0].Amount.String())
	assert.Equal(t, "21008", totals.Net.String(), "neto = round(25000/1.19)")
	assert.Equal(t, "1992", totals.Tax.String(), "IVA = bruto - neto")
	assert.Equal(t, "25000", totals.Grand.String())
	assert.True(t, totals.Exempt.IsZero())
}

func TestBuildLines_RedondeoPorLineaAntesDeSumar(t *testing.T) {
	// Dos líneas con descuento que produce fracción: 3 x 333 con 10% = 899.1
	// → 899 por línea. El agregado debe ser la suma de los montos ya
	// redondeados (1798), no el redondeo de la suma exacta (1798.2 → 1798
	// aquí coincide; el caso fuerte es 899.5).
	item := sii.LineInput{
		Name:        "Vacuna",
		Quantity:    decimal.NewFromInt(3),
		UnitPrice:   decimal.NewFromInt(333),
		DiscountPct: decimal.NewFromInt(10),
	}
	details, totals, err := sii.BuildLines([]sii.LineInput{item, item})
	require.NoError(t, err)
	assert.Equal(t, "899", details[0].Amount.String())
	assert.Equal(t, "899", details[1].Amount.String())
	assert.Equal(t, "1798", totals.Grand.String())
}

func TestBuildLines_InvarianteNetoMasIVA(t *testing.T) {
	// Para cualquier combinación afecta: neto + IVA == bruto afecto, y el
	// neto queda a ±1 de bruto/1.19 por redondeo entero.
	casos := [][]sii.LineInput{
		{lineaSimple("Consulta", 1, 25000)},
		{lineaSimple("Desparasitacion", 2, 7990), lineaSimple("Antipulgas", 1, 12500)},
		{lineaSimple("Control", 7, 3333), lineaSimple("Radiografia", 1, 45000), lineaSimple("Sedacion", 1, 18000)},
	}
	for i, items := range casos {
		_, totals, err := sii.BuildLines(items)
		require.NoError(t, err, "caso %d", i)
		assert.True(t, totals.Net.Add(totals.Tax).Equal(totals.Grand.Sub(totals.Exempt)),
			"caso %d: neto+IVA debe igualar el bruto afecto", i)
	}
}

func TestBuildLines_Idempotente(t *testing.T) {
	items := []sii.LineInput{lineaSimple("Consulta", 1, 25000), lineaSimple("Vacuna", 2, 15990)}
	_, t1, err1 := sii.BuildLines(items)
	_, t2, err2 := sii.BuildLines(items)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.True(t, t1.Grand.Equal(t2.Grand) && t1.Net.Equal(t2.Net) && t1.Tax.Equal(t2.Tax),
		"el mismo input siempre produce los mismos totales")
}

func TestBuildLines_DescuentoTotalEsValido(t *testing.T) {
	item := sii.LineInput{
		Name:        "Control post operatorio",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.NewFromInt(15000),
		DiscountPct: decimal.NewFromInt(100),
	}
	details, totals, err := sii.BuildLines([]sii.LineInput{item, lineaSimple("Consulta", 1, 25000)})
	require.NoError(t, err, "descuento 100% no se rechaza")
	assert.True(t, details[0].Amount.IsZero(), "la línea con 100% de descuento vale 0")
	assert.Equal(t, "25000", totals.Grand.String(), "y no aporta a ningún total")
}

func TestBuildLines_LineasExentasVanAMntExe(t *testing.T) {
	items := []sii.LineInput{
		lineaSimple("Consulta", 1, 25000),
		{Name: "Certificado sanitario", Quantity: decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(5000), Exempt: true},
	}
	_, totals, err := sii.BuildLines(items)
	require.NoError(t, err)
	assert.Equal(t, "5000", totals.Exempt.String())
	assert.Equal(t, "21008", totals.Net.String(), "el neto se deriva solo del monto afecto")
	assert.Equal(t, "1992", totals.Tax.String())
	assert.Equal(t, "30000", totals.Grand.String(), "total = afecto + exento")
}

func TestBuildLines_SesentaYUnaLineasRechaza(t *testing.T) {
	items := make([]sii.LineInput, 61)
	for i := range items {
		items[i] = lineaSimple(fmt.Sprintf("Servicio %d", i), 1, 1000)
	}
	details, _, err := sii.BuildLines(items)
	assert.Nil(t, details, "no debe construirse documento parcial")
	var verr *sii.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields[0], "máximo 60")
}

func TestBuildLines_SinLineas(t *testing.T) {
	_, _, err := sii.BuildLines(nil)
	var verr *sii.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestBuildLines_ViolacionesSeEnumeranTodas(t *testing.T) {
	items := []sii.LineInput{
		{Name: "", Quantity: decimal.Zero, UnitPrice: decimal.NewFromInt(-5)},
		{Name: "Vacuna", Quantity: decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(1000), DiscountPct: decimal.NewFromInt(150)},
	}
	_, _, err := sii.BuildLines(items)
	var verr *sii.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4, "nombre, cantidad, precio y descuento violados")
	assert.Contains(t, verr.Error(), "items[0].quantity")
	assert.Contains(t, verr.Error(), "items[1].discountPct")
}

func TestBuildLines_SanitizaTextos(t *testing.T) {
	items := []sii.LineInput{{
		Name:        "Peluquería canina ©",
		Description: "Baño y corte ñoño",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.NewFromInt(12000),
	}}
	details, _, err := sii.BuildLines(items)
	require.NoError(t, err)
	assert.Equal(t, "Peluqueria canina", details[0].Name)
	assert.Equal(t, "Bano y corte nono", details[0].Description)
}
