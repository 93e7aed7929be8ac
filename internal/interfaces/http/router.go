package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/application/auth"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/application/billing"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	TutorUC   *billing.TutorUseCase
	EmitUC    *billing.EmitBoletaUseCase
	PDFUC     *billing.PDFUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Tutores (protegido)
	tutores := protected.Group("/tutores")
	tutorHandler := NewTutorHandler(deps.TutorUC)
	tutores.Post("/", tutorHandler.Create)
	tutores.Get("/", tutorHandler.List)
	tutores.Get("/:id", tutorHandler.GetByID)

	// Boletas (protegido). La emisión queda restringida a quienes atienden
	// caja; la consulta es para cualquier usuario de la clínica.
	boletas := protected.Group("/boletas")
	boletaHandler := NewBoletaHandler(deps.EmitUC, deps.PDFUC)
	boletas.Post("/",
		RequireRole(entity.RoleAdmin, entity.RoleVeterinario, entity.RoleRecepcionista),
		boletaHandler.Emit)
	boletas.Get("/", boletaHandler.List)
	boletas.Get("/:id", boletaHandler.GetByID)
	boletas.Post("/:id/poll", boletaHandler.PollStatus)
	boletas.Get("/:id/pdf", boletaHandler.DownloadPDF)
}
