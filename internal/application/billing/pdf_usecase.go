package billing

import (
	"context"
	"fmt"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una boleta electrónica.
// Solo se permite si la boleta ya fue firmada: una boleta en EMITIDA o con
// error de generación no tiene documento que representar.
type PDFUseCase struct {
	boletaRepo repository.BoletaRepository
	clinicRepo repository.ClinicRepository
	tutorRepo  repository.TutorRepository
	generator  BoletaPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	boletaRepo repository.BoletaRepository,
	clinicRepo repository.ClinicRepository,
	tutorRepo repository.TutorRepository,
	generator BoletaPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		boletaRepo: boletaRepo,
		clinicRepo: clinicRepo,
		tutorRepo:  tutorRepo,
		generator:  generator,
	}
}

// DownloadBoletaPDF recupera todos los datos de la boleta, verifica que ya
// está firmada y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la boleta no existe.
//   - domain.ErrForbidden        si la boleta no pertenece a la clínica del token.
//   - domain.ErrInvalidInput     si la boleta aún no está firmada.
func (uc *PDFUseCase) DownloadBoletaPDF(
	ctx context.Context,
	clinicID, boletaID string,
) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar boleta ──────────────────────────────────────────────────────
	boleta, err := uc.boletaRepo.GetByID(ctx, boletaID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener boleta: %w", err)
	}
	if boleta == nil {
		return nil, "", domain.ErrNotFound
	}
	if boleta.ClinicID != clinicID {
		return nil, "", domain.ErrForbidden
	}

	// ── 2. Validar que ya fue firmada ─────────────────────────────────────────
	if boleta.SIIStatus == entity.SIIStatusEmitida ||
		boleta.SIIStatus == entity.SIIStatusErrorGeneracion || boleta.XMLSigned == "" {
		return nil, "", fmt.Errorf("%w: la boleta está en estado %s, sin documento firmado que representar",
			domain.ErrInvalidInput, boleta.SIIStatus)
	}

	// ── 3. Cargar clínica ─────────────────────────────────────────────────────
	clinic, err := uc.clinicRepo.GetByID(ctx, clinicID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener clínica: %w", err)
	}
	if clinic == nil {
		return nil, "", domain.ErrNotFound
	}

	// ── 4. Cargar tutor (si la boleta tiene receptor) ─────────────────────────
	var tutor *entity.Tutor
	if boleta.TutorID != "" {
		tutor, _ = uc.tutorRepo.GetByID(ctx, boleta.TutorID)
	}

	// ── 5. Cargar detalles ────────────────────────────────────────────────────
	rawDetails, err := uc.boletaRepo.GetDetailsByBoletaID(ctx, boletaID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener detalles: %w", err)
	}
	details := make([]BoletaDetailForPDF, 0, len(rawDetails))
	for _, d := range rawDetails {
		details = append(details, BoletaDetailForPDF{BoletaDetail: *d})
	}

	// ── 6. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateBoletaPDF(ctx, boleta, clinic, tutor, details)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("boleta_%d.pdf", boleta.Folio)
	return pdfBytes, filename, nil
}
