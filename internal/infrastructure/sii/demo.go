package sii

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgsii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/sii"
)

// DemoSubmissionBackend sintetiza aceptaciones sin tocar la red. Cada Submit
// devuelve un track ID fresco con prefijo DEMO- para que nunca se confunda
// con uno asignado por el SII.
type DemoSubmissionBackend struct{}

// NewDemoSubmissionBackend crea el backend de demostración.
func NewDemoSubmissionBackend() *DemoSubmissionBackend {
	return &DemoSubmissionBackend{}
}

// Submit implementa pkg/sii.SubmissionBackend.
func (b *DemoSubmissionBackend) Submit(ctx context.Context, signedXML []byte, issuerRUT string) (*pkgsii.SubmitResult, error) {
	if len(signedXML) == 0 {
		return nil, fmt.Errorf("sii: XML vacío")
	}
	if _, _, err := pkgsii.SplitRUT(issuerRUT); err != nil {
		return nil, fmt.Errorf("sii: RUT del emisor: %w", err)
	}
	return &pkgsii.SubmitResult{
		Outcome: pkgsii.OutcomeAccepted,
		TrackID: "DEMO-" + uuid.NewString(),
		Message: "envío simulado, sin contacto con el SII",
	}, nil
}

// QueryStatus reporta aceptación inmediata para cualquier track ID de demo.
func (b *DemoSubmissionBackend) QueryStatus(ctx context.Context, trackID, issuerRUT string) (*pkgsii.StatusResult, error) {
	if trackID == "" {
		return nil, fmt.Errorf("sii: track ID vacío")
	}
	return &pkgsii.StatusResult{
		Outcome: pkgsii.OutcomeAccepted,
		Raw:     "estado simulado, sin contacto con el SII",
	}, nil
}

var _ pkgsii.SubmissionBackend = (*DemoSubmissionBackend)(nil)
