package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida SII de una boleta. El avance es siempre hacia
// adelante: EMITIDA → FIRMADA → ENVIADA → (ACEPTADA | RECHAZADA | ERROR_ENVIO).
// RECHAZADA, ERROR_* y ACEPTADA son terminales (no se modela anulación).
const (
	SIIStatusEmitida         = "EMITIDA"          // guardada, folio reservado, sin firmar
	SIIStatusFirmada         = "FIRMADA"          // XML firmado, pendiente de envío
	SIIStatusEnviada         = "ENVIADA"          // entregada al SII, esperando resolución
	SIIStatusAceptada        = "ACEPTADA"         // aceptada por el SII (o simulada en demo)
	SIIStatusRechazada       = "RECHAZADA"        // rechazada por el SII con glosas
	SIIStatusErrorEnvio      = "ERROR_ENVIO"      // fallo de transporte o respuesta inválida
	SIIStatusErrorGeneracion = "ERROR_GENERACION" // falló la construcción o la firma del XML
)

// Boleta representa la cabecera de una boleta electrónica (DTE tipo 39) junto
// con su estado de correlación ante el SII. El XML firmado y la respuesta
// cruda del SII se conservan para auditoría.
type Boleta struct {
	ID          string
	ClinicID    string
	TutorID     string // receptor opcional; vacío = boleta sin receptor identificado
	Folio       int64
	Date        time.Time
	NetTotal    decimal.Decimal // MntNeto
	ExemptTotal decimal.Decimal // MntExe
	TaxTotal    decimal.Decimal // IVA
	GrandTotal  decimal.Decimal // MntTotal

	SIIStatus    string
	XMLSigned    string    // XML firmado completo (contenido ISO-8859-1)
	TrackID      string    // identificador asignado por el SII tras el envío
	SIIErrors    string    // glosas de rechazo o mensaje de error de transporte
	RawResponse  string    // última respuesta cruda del SII (texto o JSON)
	SubmittedAt  *time.Time
	LastPolledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
