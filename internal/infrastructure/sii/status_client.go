package sii

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	pkgsii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/sii"
)

// QueryStatus consulta el estado de un envío previo. Misma tolerancia de
// forma dual (JSON o texto) que Submit; una consulta por ciclo de sondeo,
// el scheduler externo decide cuándo reintentar.
func (c *HTTPSubmissionBackend) QueryStatus(ctx context.Context, trackID, issuerRUT string) (*pkgsii.StatusResult, error) {
	rutBody, dv, err := pkgsii.SplitRUT(issuerRUT)
	if err != nil {
		return nil, fmt.Errorf("sii: RUT del emisor: %w", err)
	}
	if trackID == "" {
		return nil, fmt.Errorf("sii: track ID vacío")
	}

	q := url.Values{}
	q.Set("rut", rutBody)
	q.Set("dv", dv)
	q.Set("track_id", trackID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.statusURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("sii: crear request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &pkgsii.StatusResult{
			Outcome: pkgsii.OutcomeError,
			Errors:  []string{fmt.Sprintf("fallo de red al consultar estado: %v", err)},
		}, nil
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &pkgsii.StatusResult{
			Outcome: pkgsii.OutcomeError,
			Errors:  []string{fmt.Sprintf("leer respuesta de estado: %v", err)},
		}, nil
	}

	return parseStatusResponse(rawBody), nil
}

// ── Parseo de la respuesta de estado ──────────────────────────────────────────

type statusResponseJSON struct {
	Status string   `json:"estado"`
	Errors []string `json:"detalle_rep_rech"`
}

// Códigos de estado que reporta el SII para un envío.
//
//	EPR / DOK  aceptado
//	RCH / RCT / RFR  rechazado (con glosas)
//	SOK / CRT / PDR / -11  aún en proceso
func parseStatusResponse(raw []byte) *pkgsii.StatusResult {
	result := &pkgsii.StatusResult{Raw: string(raw)}

	var js statusResponseJSON
	if err := json.Unmarshal(raw, &js); err == nil && js.Status != "" {
		result.Errors = js.Errors
		result.Outcome = outcomeFromStatusCode(js.Status)
		return result
	}

	text := strings.ToUpper(string(raw))
	switch {
	case strings.Contains(text, "EPR") || strings.Contains(text, "ACEPTADO"):
		result.Outcome = pkgsii.OutcomeAccepted
	case strings.Contains(text, "RCH") || strings.Contains(text, "RECHAZADO"):
		result.Outcome = pkgsii.OutcomeRejected
		result.Errors = []string{strings.TrimSpace(string(raw))}
	case strings.Contains(text, "SOK") || strings.Contains(text, "EN PROCESO"):
		result.Outcome = pkgsii.OutcomeProcessing
	default:
		result.Outcome = pkgsii.OutcomeError
		result.Errors = []string{"respuesta de estado no reconocida"}
	}
	return result
}

func outcomeFromStatusCode(code string) string {
	switch strings.ToUpper(code) {
	case "EPR", "DOK", "ACEPTADO":
		return pkgsii.OutcomeAccepted
	case "RCH", "RCT", "RFR", "RECHAZADO":
		return pkgsii.OutcomeRejected
	case "SOK", "CRT", "PDR", "-11", "EN PROCESO":
		return pkgsii.OutcomeProcessing
	default:
		return pkgsii.OutcomeError
	}
}
