// Package sii implementa la generación del XML de boleta electrónica (DTE
// tipo 39) según el esquema del SII (Chile), su envío por HTTP y la consulta
// de estado por track ID.
package sii

import (
	"time"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
)

// ResolutionData datos de la resolución del SII que autoriza la emisión
// electrónica. Es configuración estática del emisor, no depende de la boleta.
type ResolutionData struct {
	Number string    // número de resolución (ej: 80)
	Date   time.Time // fecha de la resolución
}

// BoletaBuildContext contexto con todos los datos necesarios para construir
// el XML de la boleta. Tutor puede ser nil (boleta sin receptor identificado).
type BoletaBuildContext struct {
	Boleta     *entity.Boleta
	Clinic     *entity.Clinic // emisor
	Tutor      *entity.Tutor  // receptor opcional
	Details    []*entity.BoletaDetail
	Resolution *ResolutionData

	// IssueDate sobreescribe Boleta.Date si la fecha de emisión difiere de la
	// fecha de creación del registro (reemisión de borradores antiguos).
	IssueDate *time.Time
}
