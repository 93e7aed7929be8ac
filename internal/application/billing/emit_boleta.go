package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/application/dto"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/repository"
	domainsii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/sii"
)

// EmitBoletaUseCase emite una boleta: valida y construye las líneas, reserva
// folio, persiste en EMITIDA y ejecuta el pipeline SII de forma síncrona.
type EmitBoletaUseCase struct {
	boletaRepo   repository.BoletaRepository
	clinicRepo   repository.ClinicRepository
	tutorRepo    repository.TutorRepository
	orchestrator *DTEOrchestrator
}

// NewEmitBoletaUseCase construye el caso de uso.
func NewEmitBoletaUseCase(
	boletaRepo repository.BoletaRepository,
	clinicRepo repository.ClinicRepository,
	tutorRepo repository.TutorRepository,
	orchestrator *DTEOrchestrator,
) *EmitBoletaUseCase {
	return &EmitBoletaUseCase{
		boletaRepo:   boletaRepo,
		clinicRepo:   clinicRepo,
		tutorRepo:    tutorRepo,
		orchestrator: orchestrator,
	}
}

// EmitBoleta ejecuta la emisión completa. Una violación de las reglas de
// líneas (vacías, más de 60, montos no positivos) rechaza el request entero
// antes de reservar folio o persistir nada.
func (uc *EmitBoletaUseCase) EmitBoleta(ctx context.Context, clinicID string, in dto.EmitBoletaRequest) (*dto.BoletaResponse, error) {
	clinic, err := uc.clinicRepo.GetByID(ctx, clinicID)
	if err != nil || clinic == nil {
		return nil, domain.ErrNotFound
	}

	var tutor *entity.Tutor
	if in.TutorID != "" {
		tutor, err = uc.tutorRepo.GetByID(ctx, in.TutorID)
		if err != nil || tutor == nil {
			return nil, domain.ErrNotFound
		}
		if tutor.ClinicID != clinicID {
			return nil, domain.ErrForbidden
		}
	}

	// ── 1. Validar y construir líneas (sin efectos laterales) ─────────────────
	lines := make([]domainsii.LineInput, len(in.Items))
	for i, item := range in.Items {
		lines[i] = domainsii.LineInput{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			DiscountPct: item.DiscountPct,
			Exempt:      item.Exempt,
		}
	}
	details, totals, err := domainsii.BuildLines(lines)
	if err != nil {
		return nil, err
	}

	// ── 2. Reservar folio (atómico por clínica) ───────────────────────────────
	folio, err := uc.clinicRepo.NextFolio(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	// ── 3. Persistir cabecera y detalles en EMITIDA ───────────────────────────
	now := time.Now()
	boleta := &entity.Boleta{
		ID:          uuid.New().String(),
		ClinicID:    clinicID,
		TutorID:     in.TutorID,
		Folio:       folio,
		Date:        now,
		NetTotal:    totals.Net,
		ExemptTotal: totals.Exempt,
		TaxTotal:    totals.Tax,
		GrandTotal:  totals.Grand,
		SIIStatus:   entity.SIIStatusEmitida,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.boletaRepo.Create(ctx, boleta); err != nil {
		return nil, err
	}
	for _, d := range details {
		d.ID = uuid.New().String()
		d.BoletaID = boleta.ID
		if err := uc.boletaRepo.CreateDetail(ctx, d); err != nil {
			return nil, err
		}
	}

	// ── 4. Pipeline SII: XML → firma → envío ──────────────────────────────────
	if err := uc.orchestrator.Process(ctx, boleta.ID); err != nil {
		return nil, err
	}

	// Re-fetch para reflejar el estado final que dejó el orquestador.
	boleta, err = uc.boletaRepo.GetByID(ctx, boleta.ID)
	if err != nil || boleta == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(boleta, tutorName(tutor), details), nil
}

// GetBoleta obtiene una boleta por ID con su detalle completo.
func (uc *EmitBoletaUseCase) GetBoleta(ctx context.Context, clinicID, id string) (*dto.BoletaResponse, error) {
	boleta, err := uc.boletaRepo.GetByID(ctx, id)
	if err != nil || boleta == nil {
		return nil, domain.ErrNotFound
	}
	if boleta.ClinicID != clinicID {
		return nil, domain.ErrForbidden
	}
	details, err := uc.boletaRepo.GetDetailsByBoletaID(ctx, id)
	if err != nil {
		return nil, err
	}
	var tutor *entity.Tutor
	if boleta.TutorID != "" {
		tutor, _ = uc.tutorRepo.GetByID(ctx, boleta.TutorID)
	}
	return uc.toResponse(boleta, tutorName(tutor), details), nil
}

// ListBoletas lista las boletas de la clínica, más recientes primero.
func (uc *EmitBoletaUseCase) ListBoletas(ctx context.Context, clinicID string, limit, offset int) ([]*dto.BoletaResponse, error) {
	boletas, err := uc.boletaRepo.ListByClinic(ctx, clinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BoletaResponse, 0, len(boletas))
	for _, b := range boletas {
		out = append(out, uc.toResponse(b, "", nil))
	}
	return out, nil
}

// PollStatus consulta el estado SII de la boleta y devuelve el DTO ligero de
// polling.
func (uc *EmitBoletaUseCase) PollStatus(ctx context.Context, clinicID, id string) (*dto.BoletaSIIStatusDTO, error) {
	boleta, err := uc.boletaRepo.GetByID(ctx, id)
	if err != nil || boleta == nil {
		return nil, domain.ErrNotFound
	}
	if boleta.ClinicID != clinicID {
		return nil, domain.ErrForbidden
	}
	boleta, err = uc.orchestrator.PollStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.BoletaSIIStatusDTO{
		ID:        boleta.ID,
		Folio:     boleta.Folio,
		SIIStatus: boleta.SIIStatus,
		TrackID:   boleta.TrackID,
		Errors:    boleta.SIIErrors,
	}, nil
}

func tutorName(t *entity.Tutor) string {
	if t == nil {
		return ""
	}
	return t.Name
}

func (uc *EmitBoletaUseCase) toResponse(b *entity.Boleta, tutorName string, details []*entity.BoletaDetail) *dto.BoletaResponse {
	resp := &dto.BoletaResponse{
		ID:          b.ID,
		ClinicID:    b.ClinicID,
		TutorID:     b.TutorID,
		TutorName:   tutorName,
		Folio:       b.Folio,
		Date:        b.Date.Format("2006-01-02"),
		NetTotal:    b.NetTotal,
		ExemptTotal: b.ExemptTotal,
		TaxTotal:    b.TaxTotal,
		GrandTotal:  b.GrandTotal,
		SIIStatus:   b.SIIStatus,
		TrackID:     b.TrackID,
		Details:     make([]dto.BoletaDetailResponse, 0, len(details)),
	}
	for _, d := range details {
		resp.Details = append(resp.Details, dto.BoletaDetailResponse{
			ID:          d.ID,
			LineNumber:  d.LineNumber,
			Name:        d.Name,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
			DiscountPct: d.DiscountPct,
			Amount:      d.Amount,
			Exempt:      d.Exempt,
		})
	}
	return resp
}
