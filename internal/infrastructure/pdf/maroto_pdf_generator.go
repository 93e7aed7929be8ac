// Package pdf implementa la representación gráfica de la boleta electrónica
// (DTE tipo 39) para entrega al tutor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + RUT  │  Recuadro SII: BOLETA N°     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Giro / Dirección / Comuna / Contacto                │
//	│  RECEPTOR: Tutor + RUT (opcional)                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Desc% | Monto          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Neto / Exento / IVA 19% / TOTAL                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER SII: Track ID + QR + Leyenda legal                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/application/billing"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
	pkgsii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/sii"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 140, Green: 21, Blue: 21}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.BoletaPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

var _ appbilling.BoletaPDFGenerator = (*MarotoPDFGenerator)(nil)

// GenerateBoletaPDF genera el PDF y devuelve sus bytes. tutor puede ser nil
// (boleta sin receptor identificado).
func (g *MarotoPDFGenerator) GenerateBoletaPDF(
	_ context.Context,
	boleta *entity.Boleta,
	clinic *entity.Clinic,
	tutor *entity.Tutor,
	details []appbilling.BoletaDetailForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Boleta Electrónica", true).
		WithAuthor(clinic.Name, true).
		Build()

	m := maroto.New(cfg)

	// Header principal
	m.AddRows(headerRow(boleta, clinic))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(clinic))
	if tutor != nil {
		m.AddRows(receptorRow(tutor))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de detalles
	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(details) {
		m.AddRows(r)
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(boleta))

	// Footer SII
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range siiFooterRows(boleta, clinic) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + RUT (izq) y recuadro estilo SII con el folio (der).
func headerRow(boleta *entity.Boleta, clinic *entity.Clinic) core.Row {
	fecha := boleta.Date.Format("02/01/2006")
	rut := clinic.RUT
	if canonical, err := pkgsii.NormalizeRUT(rut); err == nil {
		rut = canonical
	}

	return row.New(20).Add(
		col.New(7).Add(
			text.New(clinic.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUT: "+rut, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
			text.New(clinic.Giro, props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("BOLETA ELECTRÓNICA", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("N° %d", boleta.Folio), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha emisión: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// emisorRow: datos del emisor (clínica).
func emisorRow(clinic *entity.Clinic) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s, %s   |   Tel: %s   |   Email: %s",
				nonEmpty(clinic.Address, "—"),
				nonEmpty(clinic.Comuna, "—"),
				nonEmpty(clinic.Phone, "—"),
				nonEmpty(clinic.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// receptorRow: datos del tutor (receptor opcional de la boleta).
func receptorRow(tutor *entity.Tutor) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("RECEPTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(tutor.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("RUT: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(tutor.RUT, "—"),
				nonEmpty(tutor.Email, "—"),
				nonEmpty(tutor.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalles.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción del producto/servicio", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Desc.%", 1, align.Center),
		h("Monto", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea de detalle. Las líneas exentas se marcan
// con (E) junto al monto.
func tableDetailRows(details []appbilling.BoletaDetailForPDF) []core.Row {
	result := make([]core.Row, 0, len(details))
	for _, d := range details {
		name := d.Name
		if d.Description != "" {
			name = name + " — " + d.Description
		}
		monto := "$" + formatMoney(d.Amount.StringFixed(0))
		if d.Exempt {
			monto += " (E)"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				d.Quantity.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(d.UnitPrice.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				d.DiscountPct.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				monto,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha. El exento solo aparece
// cuando la boleta tiene líneas exentas.
func totalsRow(boleta *entity.Boleta) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	labels := []core.Component{label("Monto neto:")}
	values := []core.Component{value("$" + formatMoney(boleta.NetTotal.StringFixed(0)))}
	if boleta.ExemptTotal.IsPositive() {
		labels = append(labels, label("Monto exento:"))
		values = append(values, value("$"+formatMoney(boleta.ExemptTotal.StringFixed(0))))
	}
	labels = append(labels, label("IVA 19%:"), grandLabel("TOTAL:"))
	values = append(values,
		value("$"+formatMoney(boleta.TaxTotal.StringFixed(0))),
		grandValue("$"+formatMoney(boleta.GrandTotal.StringFixed(0))),
	)

	return row.New(30).Add(
		col.New(3),
		col.New(3).Add(labels...),
		col.New(3).Add(values...),
		col.New(3),
	)
}

// siiFooterRows: track ID + QR de verificación + leyenda legal.
func siiFooterRows(boleta *entity.Boleta, clinic *entity.Clinic) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("INFORMACIÓN ELECTRÓNICA SII", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if boleta.TrackID != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Track ID de envío: "+boleta.TrackID, props.Text{
				Size: 7, Color: colorGray, Top: 1, Left: 2,
			}),
		)))
	}

	rows = append(rows, row.New(3))

	// QR con los datos mínimos de verificación del documento
	qrData := fmt.Sprintf("RUT=%s;TD=%s;F=%d;FE=%s;MT=%s",
		clinic.RUT, pkgsii.DTETypeBoleta, boleta.Folio,
		boleta.Date.Format("2006-01-02"), boleta.GrandTotal.StringFixed(0),
	)
	rows = append(rows, row.New(45).Add(
		col.New(4).Add(code.NewQr(qrData, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Verifique este documento en www.sii.cl", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("BOLETA ELECTRÓNICA", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 20,
				Left: 3, Color: colorPrimary,
			}),
		),
	))

	// Leyenda legal
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Boleta electrónica emitida conforme a la Resolución Exenta SII N° 74 de 2020. "+
				"Conserve este documento como respaldo de su compra.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
