package dto

import "github.com/shopspring/decimal"

// CreateTutorRequest body para POST /api/tutores.
type CreateTutorRequest struct {
	Name    string `json:"name"`
	RUT     string `json:"rut"`
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// TutorResponse tutor (receptor de boleta) en respuestas.
type TutorResponse struct {
	ID       string `json:"id"`
	ClinicID string `json:"clinic_id"`
	Name     string `json:"name"`
	RUT      string `json:"rut"`
	Address  string `json:"address,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// EmitBoletaRequest body para POST /api/boletas.
// TutorID es opcional: una boleta puede emitirse sin receptor identificado.
type EmitBoletaRequest struct {
	TutorID string              `json:"tutor_id,omitempty"`
	Items   []BoletaItemRequest `json:"items"`
}

// BoletaItemRequest línea de boleta (servicio o producto de la clínica).
type BoletaItemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct,omitempty"`
	Exempt      bool            `json:"exempt,omitempty"`
}

// BoletaResponse boleta con detalle para GET /api/boletas/:id.
type BoletaResponse struct {
	ID          string                 `json:"id"`
	ClinicID    string                 `json:"clinic_id"`
	TutorID     string                 `json:"tutor_id,omitempty"`
	TutorName   string                 `json:"tutor_name,omitempty"`
	Folio       int64                  `json:"folio"`
	Date        string                 `json:"date"`
	NetTotal    decimal.Decimal        `json:"net_total"`
	ExemptTotal decimal.Decimal        `json:"exempt_total"`
	TaxTotal    decimal.Decimal        `json:"tax_total"`
	GrandTotal  decimal.Decimal        `json:"grand_total"`
	SIIStatus   string                 `json:"sii_status"`
	TrackID     string                 `json:"track_id,omitempty"`
	Details     []BoletaDetailResponse `json:"details"`
}

// BoletaDetailResponse línea de detalle en la respuesta.
type BoletaDetailResponse struct {
	ID          string          `json:"id"`
	LineNumber  int             `json:"line_number"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	Amount      decimal.Decimal `json:"amount"`
	Exempt      bool            `json:"exempt"`
}

// BoletaSIIStatusDTO respuesta ligera para el endpoint de polling
// POST /api/boletas/:id/poll.
// El frontend consulta este endpoint periódicamente hasta que sii_status sea
// terminal (ACEPTADA, RECHAZADA o ERROR_*).
type BoletaSIIStatusDTO struct {
	ID        string `json:"id"`
	Folio     int64  `json:"folio"`
	SIIStatus string `json:"sii_status"` // EMITIDA|FIRMADA|ENVIADA|ACEPTADA|RECHAZADA|ERROR_ENVIO|ERROR_GENERACION
	TrackID   string `json:"track_id"`   // identificador de seguimiento del SII
	Errors    string `json:"errors"`     // glosas de rechazo del SII (vacío si OK)
}
