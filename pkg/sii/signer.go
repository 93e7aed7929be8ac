// Package sii: contratos de firma y envío para el pipeline de boleta electrónica.

package sii

import "context"

// Signer firma el XML de un DTE y devuelve el XML con la firma incorporada.
// Hay dos implementaciones, elegidas una sola vez al configurar la aplicación:
// la firma XML-DSig real (modos certification/production) y el pass-through
// de demostración que solo inserta un marcador inerte.
type Signer interface {
	// Sign toma el XML del DTE (sin firma) y retorna el XML firmado.
	Sign(xmlBytes []byte) ([]byte, error)
	// Demo indica si las firmas de este Signer carecen de validez
	// criptográfica. Los consumidores deben consultarlo antes de confiar
	// en el documento firmado.
	Demo() bool
}

// SubmitResult resultado normalizado de la entrega al SII.
type SubmitResult struct {
	Outcome string // accepted | rejected | error
	TrackID string // identificador de seguimiento asignado por el SII
	Message string // detalle humano (rechazo o error de transporte)
	Raw     string // respuesta cruda del SII, se conserva para auditoría
}

// StatusResult resultado normalizado de la consulta de estado por track ID.
type StatusResult struct {
	Outcome string   // accepted | rejected | processing | error
	Errors  []string // glosas de rechazo reportadas por el SII
	Raw     string
}

// SubmissionBackend es la contraparte de envío del par de estrategias: la
// implementación real hace HTTP contra el SII; la de demostración sintetiza
// aceptaciones sin tocar la red. Los fallos de pasarela se reportan siempre
// como Outcome "error", nunca se reintentan internamente.
type SubmissionBackend interface {
	// Submit entrega el XML firmado al SII identificando al emisor por su RUT.
	Submit(ctx context.Context, signedXML []byte, issuerRUT string) (*SubmitResult, error)
	// QueryStatus consulta el estado de un envío previo por su track ID.
	QueryStatus(ctx context.Context, trackID, issuerRUT string) (*StatusResult, error)
}
