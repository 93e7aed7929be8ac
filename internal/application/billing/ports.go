package billing

import (
	"context"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
	infrasii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/infrastructure/sii"
)

// DTESerializer construye el XML del DTE a partir del contexto completo de la
// boleta. La implementación concreta vive en infrastructure/sii; los tests del
// orquestador inyectan un fake.
type DTESerializer interface {
	Build(ctx *infrasii.BoletaBuildContext) ([]byte, error)
}

// BoletaDetailForPDF línea de detalle enriquecida para la representación
// gráfica.
type BoletaDetailForPDF struct {
	entity.BoletaDetail
}

// BoletaPDFGenerator genera la representación gráfica (PDF) de una boleta.
type BoletaPDFGenerator interface {
	GenerateBoletaPDF(
		ctx context.Context,
		boleta *entity.Boleta,
		clinic *entity.Clinic,
		tutor *entity.Tutor, // puede ser nil
		details []BoletaDetailForPDF,
	) ([]byte, error)
}
