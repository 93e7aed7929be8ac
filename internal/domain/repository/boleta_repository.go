package repository

import (
	"context"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
)

// BoletaRepository define el puerto de persistencia para Boleta y detalles.
type BoletaRepository interface {
	Create(ctx context.Context, boleta *entity.Boleta) error
	CreateDetail(ctx context.Context, detail *entity.BoletaDetail) error
	// Update actualiza todos los campos SII de la boleta: sii_status,
	// xml_signed, track_id, sii_errors, raw_response, submitted_at,
	// last_polled_at.
	Update(ctx context.Context, boleta *entity.Boleta) error
	GetByID(ctx context.Context, id string) (*entity.Boleta, error)
	GetByTrackID(ctx context.Context, trackID string) (*entity.Boleta, error)
	GetDetailsByBoletaID(ctx context.Context, boletaID string) ([]*entity.BoletaDetail, error)
	ListByClinic(ctx context.Context, clinicID string, limit, offset int) ([]*entity.Boleta, error)
}
