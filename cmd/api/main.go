package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/application/auth"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/application/billing"
	infrapdf "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/infrastructure/pdf"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/infrastructure/postgres"
	infrasii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/infrastructure/sii"
	siisigner "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/infrastructure/sii/signer"
	httpRouter "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/interfaces/http"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/config"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/logger"
	pkgsii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/sii"
)

// registerSwagger monta la UI de documentación en /docs si el archivo de
// especificación existe. swagger.New hace panic cuando no puede leer el
// archivo, así que se verifica antes; un despliegue sin swagger.json arranca
// igual, solo sin la UI.
func registerSwagger(app *fiber.App, filePath string) bool {
	if _, err := os.Stat(filePath); err != nil {
		return false
	}
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: filePath,
		Path:     "docs",
		Title:    "VetConnect FAVET API",
	}))
	return true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
		Name:  cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("sii_mode", cfg.SII.Mode).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	clinicRepo := postgres.NewClinicRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	tutorRepo := postgres.NewTutorRepository(pool)
	boletaRepo := postgres.NewBoletaRepository(pool)

	// Estrategia SII: firmador y backend de envío se eligen UNA vez al
	// arrancar según SII_MODE. El resto del pipeline no distingue modos.
	var dteSigner pkgsii.Signer
	var backend pkgsii.SubmissionBackend
	var resolution *infrasii.ResolutionData

	if cfg.SII.Mode == config.SIIModeDemo {
		dteSigner = siisigner.NewDemoSigner()
		backend = infrasii.NewDemoSubmissionBackend()
		resolution = &infrasii.ResolutionData{Number: "0", Date: time.Now()}
		log.Warn().Msg("modo DEMO: las boletas llevan marcador de demostración y no se envían al SII")
	} else {
		// El certificado se carga una sola vez; el firmador lo retiene
		// inmutable durante toda la vida del proceso.
		cert, err := siisigner.LoadFromP12(cfg.SII.CertPath, cfg.SII.CertPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("cargar certificado .p12")
		}
		signerSvc, err := siisigner.NewXMLDSigService(cert)
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar firmador XMLDSig")
		}
		dteSigner = signerSvc

		uploadURL, statusURL := cfg.SII.UploadURL, cfg.SII.StatusURL
		if uploadURL == "" || statusURL == "" {
			defUpload, defStatus, err := infrasii.EndpointsForEnvironment(cfg.SII.Mode)
			if err != nil {
				log.Fatal().Err(err).Msg("resolver endpoints SII")
			}
			if uploadURL == "" {
				uploadURL = defUpload
			}
			if statusURL == "" {
				statusURL = defStatus
			}
		}
		backend = infrasii.NewHTTPSubmissionBackend(uploadURL, statusURL)
		resolution = &infrasii.ResolutionData{
			Number: cfg.SII.ResolutionNumber,
			Date:   cfg.SII.ParsedResolutionDate(),
		}

		if info, err := signerSvc.CertificateInfo(); err == nil {
			log.Info().
				Str("subject", info.Subject).
				Time("not_after", info.NotAfter).
				Msg("certificado digital cargado")
		}
	}

	xmlBuilder := infrasii.NewXMLBuilderService()
	orchestrator := billing.NewDTEOrchestrator(
		boletaRepo, clinicRepo, tutorRepo,
		xmlBuilder, dteSigner, backend, resolution, log,
	)

	emitUC := billing.NewEmitBoletaUseCase(boletaRepo, clinicRepo, tutorRepo, orchestrator)
	tutorUC := billing.NewTutorUseCase(tutorRepo)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := billing.NewPDFUseCase(boletaRepo, clinicRepo, tutorRepo, pdfGenerator)
	authUC := auth.NewAuthUseCase(userRepo, clinicRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	if !registerSwagger(app, "./docs/swagger.json") {
		log.Warn().Str("path", "./docs/swagger.json").Msg("swagger.json no encontrado, UI de documentación deshabilitada")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "sii_mode": cfg.SII.Mode})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		TutorUC:   tutorUC,
		EmitUC:    emitUC,
		PDFUC:     pdfUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
