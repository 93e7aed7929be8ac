package repository

import (
	"context"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
)

// TutorRepository define el puerto de persistencia para Tutor (receptor).
type TutorRepository interface {
	Create(ctx context.Context, tutor *entity.Tutor) error
	GetByID(ctx context.Context, id string) (*entity.Tutor, error)
	GetByRUT(ctx context.Context, clinicID, rut string) (*entity.Tutor, error)
	Update(ctx context.Context, tutor *entity.Tutor) error
	ListByClinic(ctx context.Context, clinicID string, limit, offset int) ([]*entity.Tutor, error)
	Delete(ctx context.Context, id string) error
}
