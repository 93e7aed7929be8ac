// Package sii contiene la lógica de dominio para construir el documento
// tributario canónico de una boleta electrónica: validación de líneas,
// redondeo por línea y desglose neto/IVA/exento.
package sii

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
	pkgsii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/sii"
)

// LineInput es una línea solicitada por el caller, aún sin validar.
type LineInput struct {
	Name        string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal // 0..100
	Exempt      bool
}

// Totals desglose monetario de la boleta. Siempre derivable de las líneas:
// neto = round(afecto / 1.19), IVA = afecto - neto, total = afecto + exento.
type Totals struct {
	Net    decimal.Decimal // MntNeto
	Exempt decimal.Decimal // MntExe
	Tax    decimal.Decimal // IVA
	Grand  decimal.Decimal // MntTotal
}

// ValidationError enumera cada campo violado. Se construye completo antes de
// rechazar: el caller recibe todas las violaciones de una vez y ninguna línea
// llega a materializarse.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "boleta inválida: " + strings.Join(e.Fields, ", ")
}

// BuildLines valida las líneas solicitadas y construye los detalles de la
// boleta con sus montos redondeados por línea (antes de sumar, como exige la
// conciliación del SII), junto con los totales agregados.
//
// Reglas: 1 a 60 líneas; cantidad y precio unitario positivos; descuento en
// [0,100]. Un descuento del 100% produce monto 0 y es válido. Las líneas
// exentas se acumulan en MntExe y quedan fuera de la derivación neto/IVA.
func BuildLines(items []LineInput) ([]*entity.BoletaDetail, Totals, error) {
	var verr ValidationError
	if len(items) == 0 {
		verr.Fields = append(verr.Fields, "items: se requiere al menos una línea")
	}
	if len(items) > pkgsii.MaxDetailLines {
		verr.Fields = append(verr.Fields,
			fmt.Sprintf("items: máximo %d líneas, se recibieron %d", pkgsii.MaxDetailLines, len(items)))
	}

	hundred := decimal.NewFromInt(100)
	for i, it := range items {
		if pkgsii.SanitizeItemText(it.Name) == "" {
			verr.Fields = append(verr.Fields, fmt.Sprintf("items[%d].name: requerido", i))
		}
		if !it.Quantity.IsPositive() {
			verr.Fields = append(verr.Fields, fmt.Sprintf("items[%d].quantity: debe ser positiva", i))
		}
		if !it.UnitPrice.IsPositive() {
			verr.Fields = append(verr.Fields, fmt.Sprintf("items[%d].unitPrice: debe ser positivo", i))
		}
		if it.DiscountPct.IsNegative() || it.DiscountPct.GreaterThan(hundred) {
			verr.Fields = append(verr.Fields, fmt.Sprintf("items[%d].discountPct: fuera de [0,100]", i))
		}
	}
	if len(verr.Fields) > 0 {
		return nil, Totals{}, &verr
	}

	details := make([]*entity.BoletaDetail, 0, len(items))
	var afecto, exento decimal.Decimal
	for i, it := range items {
		factor := decimal.NewFromInt(1).Sub(it.DiscountPct.Div(hundred))
		amount := it.UnitPrice.Mul(it.Quantity).Mul(factor).Round(0)
		d := &entity.BoletaDetail{
			LineNumber:  i + 1,
			Name:        pkgsii.SanitizeItemText(it.Name),
			Description: pkgsii.SanitizeItemText(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			DiscountPct: it.DiscountPct,
			Amount:      amount,
			Exempt:      it.Exempt,
		}
		if it.Exempt {
			exento = exento.Add(amount)
		} else {
			afecto = afecto.Add(amount)
		}
		details = append(details, d)
	}

	net := afecto.Div(pkgsii.IVARate).Round(0)
	totals := Totals{
		Net:    net,
		Exempt: exento,
		Tax:    afecto.Sub(net),
		Grand:  afecto.Add(exento),
	}
	return details, totals, nil
}
