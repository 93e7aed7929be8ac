package sii

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	pkgsii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/sii"
)

// El validador del SII exige que la declaración diga ISO-8859-1 aunque el
// contenido sanitizado sea ASCII puro. La declaración se escribe a mano porque
// encoding/xml solo emite UTF-8.
const xmlDeclaration = `<?xml version="1.0" encoding="ISO-8859-1"?>` + "\n"

// XMLBuilderService construye el XML del DTE boleta (sin firma).
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build genera el []byte del documento DTE según el esquema de boleta del SII.
// El orden de elementos es fijo: IdDoc → Emisor → [Receptor] → Totales →
// Detalle (ascendente) → Referencia a la resolución. Un contexto incompleto
// (sin boleta, emisor, líneas o folio) es un error de programación del caller,
// no una condición recuperable.
func (s *XMLBuilderService) Build(ctx *BoletaBuildContext) ([]byte, error) {
	if ctx == nil || ctx.Boleta == nil || ctx.Clinic == nil {
		return nil, fmt.Errorf("sii: faltan boleta o clínica en el contexto")
	}
	if len(ctx.Details) == 0 {
		return nil, fmt.Errorf("sii: la boleta no tiene líneas de detalle")
	}
	if ctx.Boleta.Folio <= 0 {
		return nil, fmt.Errorf("sii: folio no asignado")
	}

	rutEmisor, err := pkgsii.NormalizeRUT(ctx.Clinic.RUT)
	if err != nil {
		return nil, fmt.Errorf("sii: RUT del emisor: %w", err)
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	// Root <DTE> y <Documento>. El atributo ID es la URI de Reference de la
	// firma enveloped que inyectará el signer.
	root := xml.StartElement{
		Name: xml.Name{Local: "DTE"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "version"}, Value: "1.0"}},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}
	doc := xml.StartElement{
		Name: xml.Name{Local: "Documento"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "ID"}, Value: DocumentID(ctx.Boleta.Folio)}},
	}
	_ = enc.EncodeToken(doc)

	// ---- Encabezado: IdDoc, Emisor, [Receptor], Totales (orden fijo)
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "Encabezado"}})

	issueDate := ctx.Boleta.Date
	if ctx.IssueDate != nil {
		issueDate = *ctx.IssueDate
	}
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "IdDoc"}})
	writeEl(enc, "TipoDTE", pkgsii.DTETypeBoleta)
	writeEl(enc, "Folio", strconv.FormatInt(ctx.Boleta.Folio, 10))
	writeEl(enc, "FchEmis", issueDate.Format("2006-01-02"))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "IdDoc"}})

	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "Emisor"}})
	writeEl(enc, "RUTEmisor", rutEmisor)
	writeEl(enc, "RznSoc", pkgsii.SanitizeItemText(ctx.Clinic.Name))
	writeEl(enc, "GiroEmis", pkgsii.SanitizeItemText(ctx.Clinic.Giro))
	if ctx.Clinic.Acteco != "" {
		writeEl(enc, "Acteco", ctx.Clinic.Acteco)
	}
	writeEl(enc, "DirOrigen", pkgsii.SanitizeItemText(ctx.Clinic.Address))
	writeEl(enc, "CmnaOrigen", pkgsii.SanitizeItemText(ctx.Clinic.Comuna))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "Emisor"}})

	if ctx.Tutor != nil {
		rutRecep, err := pkgsii.NormalizeRUT(ctx.Tutor.RUT)
		if err != nil {
			return nil, fmt.Errorf("sii: RUT del receptor: %w", err)
		}
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "Receptor"}})
		writeEl(enc, "RUTRecep", rutRecep)
		writeEl(enc, "RznSocRecep", pkgsii.SanitizeItemText(ctx.Tutor.Name))
		if ctx.Tutor.Address != "" {
			writeEl(enc, "DirRecep", pkgsii.SanitizeItemText(ctx.Tutor.Address))
		}
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "Receptor"}})
	}

	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "Totales"}})
	writeEl(enc, "MntNeto", formatMonto(ctx.Boleta.NetTotal))
	if ctx.Boleta.ExemptTotal.IsPositive() {
		writeEl(enc, "MntExe", formatMonto(ctx.Boleta.ExemptTotal))
	}
	writeEl(enc, "IVA", formatMonto(ctx.Boleta.TaxTotal))
	writeEl(enc, "MntTotal", formatMonto(ctx.Boleta.GrandTotal))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "Totales"}})

	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "Encabezado"}})

	// ---- Detalle: una entrada por línea, en orden ascendente de NroLinDet
	for _, d := range ctx.Details {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "Detalle"}})
		writeEl(enc, "NroLinDet", strconv.Itoa(d.LineNumber))
		if d.Exempt {
			writeEl(enc, "IndExe", "1")
		}
		writeEl(enc, "NmbItem", pkgsii.SanitizeItemText(d.Name))
		if desc := pkgsii.SanitizeItemText(d.Description); desc != "" {
			writeEl(enc, "DscItem", desc)
		}
		writeEl(enc, "QtyItem", d.Quantity.String())
		writeEl(enc, "PrcItem", formatMonto(d.UnitPrice))
		if d.DiscountPct.IsPositive() {
			writeEl(enc, "DescuentoPct", d.DiscountPct.Round(0).StringFixed(0))
		}
		writeEl(enc, "MontoItem", formatMonto(d.Amount))
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "Detalle"}})
	}

	// ---- Referencia a la resolución que autoriza la emisión (config estática)
	if ctx.Resolution != nil {
		_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "Referencia"}})
		writeEl(enc, "NroLinRef", "1")
		writeEl(enc, "TpoDocRef", "SET")
		writeEl(enc, "FolioRef", ctx.Resolution.Number)
		writeEl(enc, "FchRef", ctx.Resolution.Date.Format("2006-01-02"))
		writeEl(enc, "RazonRef", "Resolucion que autoriza la emision")
		_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "Referencia"}})
	}

	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "Documento"}})
	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}

	return encodeLatin1(buf.Bytes())
}

// DocumentID identificador del nodo Documento, referenciado por la firma
// (Reference URI="#F{folio}T39").
func DocumentID(folio int64) string {
	return fmt.Sprintf("F%dT%s", folio, pkgsii.DTETypeBoleta)
}

// encodeLatin1 antepone la declaración XML y transcodifica el cuerpo a
// ISO-8859-1. La sanitización deja todo en ASCII, así que la conversión no
// puede fallar en la práctica; el error se conserva por si un campo no
// sanitizado (un RUT corrupto en DB) se cuela hasta aquí.
func encodeLatin1(body []byte) ([]byte, error) {
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewEncoder(), body)
	if err != nil {
		return nil, fmt.Errorf("sii: el XML contiene caracteres fuera de ISO-8859-1: %w", err)
	}
	return append([]byte(xmlDeclaration), out...), nil
}

func writeEl(enc *xml.Encoder, local, value string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: local}})
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: local}})
}

// formatMonto serializa un monto CLP como entero (la moneda no tiene
// subunidad en este contexto).
func formatMonto(d decimal.Decimal) string {
	return d.Round(0).StringFixed(0)
}
