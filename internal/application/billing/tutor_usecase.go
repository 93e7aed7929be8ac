package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/application/dto"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/repository"
	pkgsii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/sii"
)

// TutorUseCase casos de uso para tutores (receptores de boleta).
type TutorUseCase struct {
	repo repository.TutorRepository
}

// NewTutorUseCase construye el caso de uso.
func NewTutorUseCase(repo repository.TutorRepository) *TutorUseCase {
	return &TutorUseCase{repo: repo}
}

// Create crea un nuevo tutor. El RUT se valida (módulo 11) y se guarda en
// forma canónica para que el XML y los endpoints del SII no tengan que
// re-normalizar.
func (uc *TutorUseCase) Create(ctx context.Context, clinicID string, in dto.CreateTutorRequest) (*dto.TutorResponse, error) {
	if in.Name == "" || in.RUT == "" {
		return nil, domain.ErrInvalidInput
	}
	rut, err := pkgsii.NormalizeRUT(in.RUT)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if err := pkgsii.ValidateRUT(rut); err != nil {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByRUT(ctx, clinicID, rut)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	tutor := &entity.Tutor{
		ID:        uuid.New().String(),
		ClinicID:  clinicID,
		Name:      in.Name,
		RUT:       rut,
		Address:   in.Address,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, tutor); err != nil {
		return nil, err
	}
	return tutorResponse(tutor), nil
}

// List lista tutores de la clínica.
func (uc *TutorUseCase) List(ctx context.Context, clinicID string, limit, offset int) ([]*dto.TutorResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByClinic(ctx, clinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TutorResponse, 0, len(list))
	for _, t := range list {
		out = append(out, tutorResponse(t))
	}
	return out, nil
}

// Get obtiene un tutor verificando pertenencia a la clínica.
func (uc *TutorUseCase) Get(ctx context.Context, clinicID, id string) (*dto.TutorResponse, error) {
	tutor, err := uc.repo.GetByID(ctx, id)
	if err != nil || tutor == nil {
		return nil, domain.ErrNotFound
	}
	if tutor.ClinicID != clinicID {
		return nil, domain.ErrForbidden
	}
	return tutorResponse(tutor), nil
}

func tutorResponse(t *entity.Tutor) *dto.TutorResponse {
	return &dto.TutorResponse{
		ID:       t.ID,
		ClinicID: t.ClinicID,
		Name:     t.Name,
		RUT:      t.RUT,
		Address:  t.Address,
		Email:    t.Email,
		Phone:    t.Phone,
	}
}
