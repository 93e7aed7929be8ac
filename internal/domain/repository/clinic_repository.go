package repository

import (
	"context"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
)

// ClinicRepository define el puerto de persistencia para Clinic (emisor).
type ClinicRepository interface {
	Create(ctx context.Context, clinic *entity.Clinic) error
	GetByID(ctx context.Context, id string) (*entity.Clinic, error)
	Update(ctx context.Context, clinic *entity.Clinic) error
	// NextFolio reserva y devuelve el siguiente folio de la clínica de forma
	// atómica. Dos emisiones concurrentes nunca reciben el mismo folio.
	NextFolio(ctx context.Context, clinicID string) (int64, error)
}
