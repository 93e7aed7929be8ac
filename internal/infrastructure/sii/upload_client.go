package sii

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	pkgsii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/sii"
)

// ── Endpoints por ambiente ─────────────────────────────────────────────────────

const (
	uploadURLCert = "https://pangal.sii.cl/recursos/v1/boleta.electronica.envio"
	uploadURLProd = "https://rahue.sii.cl/recursos/v1/boleta.electronica.envio"
	statusURLCert = "https://apicert.sii.cl/recursos/v1/boleta.electronica.envio"
	statusURLProd = "https://api.sii.cl/recursos/v1/boleta.electronica.envio"

	// submitTimeout acota la llamada al SII para no colgar el flujo de
	// emisión. Un timeout no garantiza que el envío no haya llegado: la
	// reconciliación es vía QueryStatus, no reintento.
	submitTimeout = 30 * time.Second
)

// EndpointsForEnvironment devuelve las URLs de envío y consulta según el
// ambiente ("certification" o "production").
func EndpointsForEnvironment(env string) (uploadURL, statusURL string, err error) {
	switch env {
	case pkgsii.ModeProduction:
		return uploadURLProd, statusURLProd, nil
	case pkgsii.ModeCertification:
		return uploadURLCert, statusURLCert, nil
	default:
		return "", "", fmt.Errorf("sii: ambiente desconocido %q (usar 'certification' o 'production')", env)
	}
}

// HTTPSubmissionBackend implementa pkg/sii.SubmissionBackend contra los
// endpoints REST del SII. Usa net/http de la stdlib; no requiere librerías
// de terceros.
type HTTPSubmissionBackend struct {
	httpClient *http.Client
	uploadURL  string
	statusURL  string
}

// NewHTTPSubmissionBackend construye el cliente con el timeout acotado.
func NewHTTPSubmissionBackend(uploadURL, statusURL string) *HTTPSubmissionBackend {
	return &HTTPSubmissionBackend{
		httpClient: &http.Client{Timeout: submitTimeout},
		uploadURL:  uploadURL,
		statusURL:  statusURL,
	}
}

// Submit entrega el XML firmado al SII como multipart/form-data. Los fallos
// de red (timeout, conexión) se mapean a Outcome "error" con el mensaje
// subyacente: se reportan, nunca se reintentan aquí.
func (c *HTTPSubmissionBackend) Submit(ctx context.Context, signedXML []byte, issuerRUT string) (*pkgsii.SubmitResult, error) {
	rutBody, dv, err := pkgsii.SplitRUT(issuerRUT)
	if err != nil {
		return nil, fmt.Errorf("sii: RUT del emisor: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	// El emisor actúa también como remitente del envío.
	fields := []struct{ name, value string }{
		{"rutSender", rutBody},
		{"dvSender", dv},
		{"rutCompany", rutBody},
		{"dvCompany", dv},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("sii: armar multipart: %w", err)
		}
	}
	// La parte del archivo va con Content-Type text/xml, no el
	// application/octet-stream que CreateFormFile pondría por defecto.
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="archivo"; filename="boleta.xml"`)
	header.Set("Content-Type", "text/xml")
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("sii: armar multipart: %w", err)
	}
	if _, err := part.Write(signedXML); err != nil {
		return nil, fmt.Errorf("sii: escribir XML en multipart: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("sii: cerrar multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("sii: crear request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &pkgsii.SubmitResult{
			Outcome: pkgsii.OutcomeError,
			Message: fmt.Sprintf("fallo de red al enviar al SII: %v", err),
		}, nil
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return &pkgsii.SubmitResult{
			Outcome: pkgsii.OutcomeError,
			Message: fmt.Sprintf("leer respuesta del SII: %v", err),
		}, nil
	}

	return parseSubmitResponse(rawBody), nil
}

// ── Parseo de la respuesta de envío ───────────────────────────────────────────

// El endpoint responde con dos formas heterogéneas: JSON estructurado con un
// campo de estado, o texto libre con marcadores reconocibles. El parser
// intenta primero la forma estructurada y cae al escaneo de texto; ambas ramas
// convergen en el mismo resultado normalizado para que nadie aguas abajo
// tenga que mirar la forma cruda.

type submitResponseJSON struct {
	Status  string `json:"status"`
	TrackID string `json:"trackid"`
	Detail  string `json:"detail"`
}

func parseSubmitResponse(raw []byte) *pkgsii.SubmitResult {
	result := &pkgsii.SubmitResult{Raw: string(raw)}

	var js submitResponseJSON
	if err := json.Unmarshal(raw, &js); err == nil && (js.Status != "" || js.TrackID != "") {
		result.TrackID = js.TrackID
		result.Message = js.Detail
		switch strings.ToUpper(js.Status) {
		case "0", "OK", "REC", "ACEPTADO":
			result.Outcome = pkgsii.OutcomeAccepted
		case "RCH", "RECHAZADO":
			result.Outcome = pkgsii.OutcomeRejected
		default:
			// JSON con estado desconocido: si trae track ID el envío entró
			if js.TrackID != "" {
				result.Outcome = pkgsii.OutcomeAccepted
			} else {
				result.Outcome = pkgsii.OutcomeError
				if result.Message == "" {
					result.Message = "estado desconocido en respuesta JSON: " + js.Status
				}
			}
		}
		return result
	}

	// Forma de texto libre
	text := strings.ToUpper(string(raw))
	if track := extractTextMarker(string(raw), "TRACKID="); track != "" {
		result.TrackID = track
		result.Outcome = pkgsii.OutcomeAccepted
		return result
	}
	if strings.Contains(text, "RECHAZADO") || strings.Contains(text, "UPLOAD NO DECLARADO") {
		result.Outcome = pkgsii.OutcomeRejected
		result.Message = strings.TrimSpace(string(raw))
		return result
	}
	result.Outcome = pkgsii.OutcomeError
	result.Message = "respuesta del SII no reconocida"
	return result
}

// extractTextMarker devuelve el token que sigue al marcador en texto libre
// ("TRACKID=12345\n..." → "12345"). Se busca y se corta sobre el mismo string
// en mayúsculas: ToUpper puede cambiar el largo en bytes de algunos runes y
// desalinear los índices contra el original.
func extractTextMarker(raw, marker string) string {
	upper := strings.ToUpper(raw)
	idx := strings.Index(upper, marker)
	if idx < 0 {
		return ""
	}
	rest := upper[idx+len(marker):]
	end := strings.IndexFunc(rest, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ' ' || r == '&'
	})
	if end < 0 {
		end = len(rest)
	}
	return strings.TrimSpace(rest[:end])
}

var _ pkgsii.SubmissionBackend = (*HTTPSubmissionBackend)(nil)
