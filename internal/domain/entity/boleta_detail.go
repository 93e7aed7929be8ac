package entity

import "github.com/shopspring/decimal"

// BoletaDetail es una línea de detalle de la boleta. Inmutable una vez
// adjunta a su boleta: cualquier corrección implica emitir una boleta nueva.
type BoletaDetail struct {
	ID          string
	BoletaID    string
	LineNumber  int    // NroLinDet, 1..N contiguo
	Name        string // NmbItem, ya sanitizado
	Description string // DscItem opcional, ya sanitizado
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal // 0..100
	Amount      decimal.Decimal // MontoItem, redondeado por línea
	Exempt      bool            // IndExe: la línea va a MntExe, no al neto/IVA
}
