// Package sii contiene catálogos, reglas y contratos para la emisión de
// Documentos Tributarios Electrónicos (DTE) ante el SII (Chile).
package sii

import "github.com/shopspring/decimal"

// =============================================================================
// Tipos de DTE (códigos oficiales SII)
// =============================================================================

const (
	// DTETypeBoleta es la boleta electrónica afecta (tipo 39), el único
	// documento que emite este backend.
	DTETypeBoleta = "39"
	// DTETypeBoletaExenta boleta electrónica exenta (tipo 41); reservado.
	DTETypeBoletaExenta = "41"
)

// =============================================================================
// IVA: tasa fija jurisdiccional. No es configurable por llamada.
// =============================================================================

// IVARate factor 1.19 para derivar el neto desde el monto bruto afecto:
// neto = round(afecto / 1.19), IVA = afecto - neto.
var IVARate = decimal.NewFromFloat(1.19)

// =============================================================================
// Límites del esquema de boleta (impuestos por el validador del SII)
// =============================================================================

const (
	// MaxDetailLines máximo de líneas de detalle por boleta.
	MaxDetailLines = 60
	// MaxItemNameLen largo máximo de NmbItem/DscItem tras sanitizar.
	MaxItemNameLen = 300
)

// =============================================================================
// Modos de operación del pipeline (config SII_MODE)
// =============================================================================

const (
	// ModeDemo genera y "firma" con marcador inerte, sin red ni criptografía.
	ModeDemo = "demo"
	// ModeCertification firma y envía al ambiente de certificación del SII.
	ModeCertification = "certification"
	// ModeProduction firma y envía al ambiente productivo del SII.
	ModeProduction = "production"
)

// =============================================================================
// Estados normalizados de la respuesta del SII
// =============================================================================

const (
	OutcomeAccepted   = "accepted"
	OutcomeRejected   = "rejected"
	OutcomeProcessing = "processing"
	OutcomeError      = "error"
)
