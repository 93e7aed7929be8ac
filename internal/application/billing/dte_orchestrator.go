package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/repository"
	infrasii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/infrastructure/sii"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/logger"
	pkgsii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/sii"
)

// DTEOrchestrator orquesta el ciclo completo de generación y envío al SII:
//
//	XML boleta → Firma XML-DSig → Envío multipart → Update DB → (poll) → Update DB
//
// El par de estrategias (signer, backend) se elige una sola vez al configurar
// la aplicación: demo (marcador inerte + aceptación simulada) o real
// (certificado + endpoints del SII). Ningún método vuelve a mirar el modo.
//
// Cada boleta se procesa de forma síncrona e independiente; el único estado
// compartido entre requests es el certificado cargado, que es de solo lectura.
type DTEOrchestrator struct {
	boletaRepo repository.BoletaRepository
	clinicRepo repository.ClinicRepository
	tutorRepo  repository.TutorRepository
	xmlBuilder DTESerializer
	signer     pkgsii.Signer
	backend    pkgsii.SubmissionBackend
	resolution *infrasii.ResolutionData
	log        *logger.Logger
}

// NewDTEOrchestrator construye el orquestador con todas sus dependencias.
func NewDTEOrchestrator(
	boletaRepo repository.BoletaRepository,
	clinicRepo repository.ClinicRepository,
	tutorRepo repository.TutorRepository,
	xmlBuilder DTESerializer,
	signer pkgsii.Signer,
	backend pkgsii.SubmissionBackend,
	resolution *infrasii.ResolutionData,
	log *logger.Logger,
) *DTEOrchestrator {
	return &DTEOrchestrator{
		boletaRepo: boletaRepo,
		clinicRepo: clinicRepo,
		tutorRepo:  tutorRepo,
		xmlBuilder: xmlBuilder,
		signer:     signer,
		backend:    backend,
		resolution: resolution,
		log:        log,
	}
}

// Process ejecuta el pipeline sobre una boleta ya persistida en EMITIDA.
// Siempre deja el sii_status actualizado antes de retornar: FIRMADA y luego
// ENVIADA/ACEPTADA/RECHAZADA en el camino feliz, ERROR_GENERACION o
// ERROR_ENVIO si algo falla. Los fallos de generación y firma se devuelven
// como error; el resultado del envío se reporta solo vía estado (el SII puede
// rechazar sin que eso sea un error del programa).
func (o *DTEOrchestrator) Process(ctx context.Context, boletaID string) error {
	// ═══════════════════════════════════════════════════════════════════════════
	// 0. Re-fetch datos frescos
	// ═══════════════════════════════════════════════════════════════════════════
	boleta, err := o.boletaRepo.GetByID(ctx, boletaID)
	if err != nil || boleta == nil {
		return fmt.Errorf("boleta %s no encontrada: %w", boletaID, err)
	}
	if boleta.SIIStatus != entity.SIIStatusEmitida {
		o.log.Warn().Str("boleta_id", boletaID).Str("estado", boleta.SIIStatus).
			Msg("estado inesperado (¿ya procesada?), saltando")
		return nil
	}

	clinic, err := o.clinicRepo.GetByID(ctx, boleta.ClinicID)
	if err != nil || clinic == nil {
		return o.markGenerationError(ctx, boleta, "fetch-clinic",
			fmt.Sprintf("clínica %s no encontrada: %v", boleta.ClinicID, err))
	}

	var tutor *entity.Tutor
	if boleta.TutorID != "" {
		tutor, err = o.tutorRepo.GetByID(ctx, boleta.TutorID)
		if err != nil || tutor == nil {
			return o.markGenerationError(ctx, boleta, "fetch-tutor",
				fmt.Sprintf("tutor %s no encontrado: %v", boleta.TutorID, err))
		}
	}

	details, err := o.boletaRepo.GetDetailsByBoletaID(ctx, boletaID)
	if err != nil {
		return o.markGenerationError(ctx, boleta, "fetch-details",
			fmt.Sprintf("error obteniendo detalles: %v", err))
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 1. Construir XML del DTE
	// ═══════════════════════════════════════════════════════════════════════════
	xmlBytes, err := o.xmlBuilder.Build(&infrasii.BoletaBuildContext{
		Boleta:     boleta,
		Clinic:     clinic,
		Tutor:      tutor,
		Details:    details,
		Resolution: o.resolution,
	})
	if err != nil {
		return o.markGenerationError(ctx, boleta, "xml-build", err.Error())
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 2. Firmar (XML-DSig real o marcador de demo, según la estrategia activa)
	// ═══════════════════════════════════════════════════════════════════════════
	signedXML, err := o.signer.Sign(xmlBytes)
	if err != nil {
		return o.markGenerationError(ctx, boleta, "xml-sign", err.Error())
	}

	boleta.XMLSigned = string(signedXML)
	boleta.SIIStatus = entity.SIIStatusFirmada
	boleta.UpdatedAt = time.Now()
	if err := o.boletaRepo.Update(ctx, boleta); err != nil {
		return fmt.Errorf("persistir FIRMADA: %w", err)
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 3. Envío al SII
	// ═══════════════════════════════════════════════════════════════════════════
	result, err := o.backend.Submit(ctx, signedXML, clinic.RUT)
	if err != nil {
		// Error del caller (RUT corrupto en DB), no del SII.
		return o.markGenerationError(ctx, boleta, "submit", err.Error())
	}

	// ═══════════════════════════════════════════════════════════════════════════
	// 4. Persistir resultado del envío
	// ═══════════════════════════════════════════════════════════════════════════
	now := time.Now()
	boleta.TrackID = result.TrackID
	boleta.RawResponse = result.Raw
	boleta.SubmittedAt = &now
	boleta.UpdatedAt = now

	switch result.Outcome {
	case pkgsii.OutcomeAccepted:
		// El SII recibió el envío; la resolución definitiva llega vía poll.
		// En demo el backend acepta de inmediato y el poll confirma.
		boleta.SIIStatus = entity.SIIStatusEnviada
		o.log.Info().Str("boleta_id", boletaID).Int64("folio", boleta.Folio).
			Str("track_id", result.TrackID).Msg("boleta recibida por el SII")
	case pkgsii.OutcomeRejected:
		boleta.SIIStatus = entity.SIIStatusRechazada
		boleta.SIIErrors = result.Message
		o.log.Warn().Str("boleta_id", boletaID).Str("glosas", result.Message).
			Msg("boleta rechazada en el envío")
	default:
		boleta.SIIStatus = entity.SIIStatusErrorEnvio
		boleta.SIIErrors = result.Message
		o.log.Error().Str("boleta_id", boletaID).Str("detalle", result.Message).
			Msg("error de transporte al enviar la boleta")
	}

	if err := o.boletaRepo.Update(ctx, boleta); err != nil {
		return fmt.Errorf("persistir estado de envío %s: %w", boleta.SIIStatus, err)
	}
	return nil
}

// PollStatus consulta el estado de una boleta ya enviada y persiste la
// transición si la hay. Un track ID desconocido (boleta inexistente o nunca
// enviada) retorna domain.ErrTrackIDUnknown sin mutar nada: "nunca lo
// enviamos" se distingue de "nos lo rechazaron". Estados terminales se
// devuelven tal cual, sin consultar al SII de nuevo.
func (o *DTEOrchestrator) PollStatus(ctx context.Context, boletaID string) (*entity.Boleta, error) {
	boleta, err := o.boletaRepo.GetByID(ctx, boletaID)
	if err != nil {
		return nil, err
	}
	if boleta == nil {
		return nil, domain.ErrNotFound
	}
	if boleta.TrackID == "" {
		return nil, domain.ErrTrackIDUnknown
	}
	if isTerminal(boleta.SIIStatus) {
		return boleta, nil
	}

	clinic, err := o.clinicRepo.GetByID(ctx, boleta.ClinicID)
	if err != nil || clinic == nil {
		return nil, fmt.Errorf("clínica %s no encontrada: %v", boleta.ClinicID, err)
	}

	status, err := o.backend.QueryStatus(ctx, boleta.TrackID, clinic.RUT)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	boleta.LastPolledAt = &now
	boleta.RawResponse = status.Raw
	boleta.UpdatedAt = now

	switch status.Outcome {
	case pkgsii.OutcomeAccepted:
		boleta.SIIStatus = entity.SIIStatusAceptada
	case pkgsii.OutcomeRejected:
		boleta.SIIStatus = entity.SIIStatusRechazada
		boleta.SIIErrors = strings.Join(status.Errors, "; ")
	case pkgsii.OutcomeProcessing:
		// sigue ENVIADA; solo se registra el sondeo
	default:
		boleta.SIIStatus = entity.SIIStatusErrorEnvio
		boleta.SIIErrors = strings.Join(status.Errors, "; ")
	}

	if err := o.boletaRepo.Update(ctx, boleta); err != nil {
		return nil, fmt.Errorf("persistir estado de poll %s: %w", boleta.SIIStatus, err)
	}
	return boleta, nil
}

// DemoMode indica si las firmas y envíos activos son simulados.
func (o *DTEOrchestrator) DemoMode() bool {
	return o.signer.Demo()
}

func isTerminal(status string) bool {
	switch status {
	case entity.SIIStatusAceptada, entity.SIIStatusRechazada,
		entity.SIIStatusErrorEnvio, entity.SIIStatusErrorGeneracion:
		return true
	}
	return false
}

// markGenerationError deja la boleta en ERROR_GENERACION y devuelve el error
// para el caller. El detalle queda en sii_errors para auditoría.
func (o *DTEOrchestrator) markGenerationError(ctx context.Context, boleta *entity.Boleta, step, msg string) error {
	boleta.SIIStatus = entity.SIIStatusErrorGeneracion
	boleta.SIIErrors = msg
	boleta.UpdatedAt = time.Now()
	if err := o.boletaRepo.Update(ctx, boleta); err != nil {
		o.log.Error().Str("boleta_id", boleta.ID).Err(err).
			Msg("no se pudo persistir ERROR_GENERACION")
	}
	o.log.Error().Str("boleta_id", boleta.ID).Str("paso", step).Str("detalle", msg).
		Msg("fallo generando la boleta")
	return fmt.Errorf("%s: %s", step, msg)
}
