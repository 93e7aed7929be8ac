package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/application/billing"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/application/dto"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain"
	domainsii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/sii"
)

// BoletaHandler maneja las peticiones HTTP de boletas electrónicas (protegido).
type BoletaHandler struct {
	emitUC *billing.EmitBoletaUseCase
	pdfUC  *billing.PDFUseCase
}

// NewBoletaHandler construye el handler.
func NewBoletaHandler(emitUC *billing.EmitBoletaUseCase, pdfUC *billing.PDFUseCase) *BoletaHandler {
	return &BoletaHandler{emitUC: emitUC, pdfUC: pdfUC}
}

// Emit emite una boleta: reserva folio, construye el DTE, firma y envía al SII.
// POST /api/boletas
func (h *BoletaHandler) Emit(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.EmitBoletaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	boleta, err := h.emitUC.EmitBoleta(c.Context(), clinicID, in)
	if err != nil {
		var verr *domainsii.ValidationError
		if errors.As(err, &verr) {
			// Todas las violaciones de una vez; no se reservó folio.
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
				Code:    "VALIDATION",
				Message: "la boleta tiene líneas inválidas",
				Fields:  verr.Fields,
			})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "clínica o tutor no encontrado"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	// La emisión siempre persiste la boleta aunque el envío falle: el estado
	// SII viaja en el cuerpo (ENVIADA, RECHAZADA, ERROR_ENVIO...).
	return c.Status(fiber.StatusCreated).JSON(boleta)
}

// List lista las boletas de la clínica, más recientes primero.
// GET /api/boletas
func (h *BoletaHandler) List(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	boletas, err := h.emitUC.ListBoletas(c.Context(), clinicID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{
		"data": boletas,
		"page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID obtiene el detalle completo de una boleta.
// GET /api/boletas/:id
func (h *BoletaHandler) GetByID(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	boleta, err := h.emitUC.GetBoleta(c.Context(), clinicID, id)
	if err != nil {
		return h.mapBoletaError(c, err)
	}
	return c.JSON(boleta)
}

// PollStatus consulta al SII el estado de la boleta y actualiza el registro.
// POST /api/boletas/:id/poll
func (h *BoletaHandler) PollStatus(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	status, err := h.emitUC.PollStatus(c.Context(), clinicID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTrackIDUnknown) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_SUBMITTED", Message: "la boleta aún no tiene track id; no ha sido enviada al SII"})
		}
		return h.mapBoletaError(c, err)
	}
	return c.JSON(status)
}

// DownloadPDF descarga la representación gráfica de la boleta.
// GET /api/boletas/:id/pdf
func (h *BoletaHandler) DownloadPDF(c *fiber.Ctx) error {
	clinicID := GetClinicID(c)
	if clinicID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	pdfBytes, filename, err := h.pdfUC.DownloadBoletaPDF(c.Context(), clinicID, id)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_READY", Message: err.Error()})
		}
		return h.mapBoletaError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(pdfBytes)
}

func (h *BoletaHandler) mapBoletaError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "boleta no encontrada"})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
