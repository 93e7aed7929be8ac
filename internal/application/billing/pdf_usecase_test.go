package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
)

// fakePDFGenerator registra la llamada y devuelve bytes fijos.
type fakePDFGenerator struct {
	llamado   bool
	gotTutor  *entity.Tutor
	gotLineas int
}

func (g *fakePDFGenerator) GenerateBoletaPDF(
	_ context.Context,
	_ *entity.Boleta,
	_ *entity.Clinic,
	tutor *entity.Tutor,
	details []BoletaDetailForPDF,
) ([]byte, error) {
	g.llamado = true
	g.gotTutor = tutor
	g.gotLineas = len(details)
	return []byte("%PDF-fake"), nil
}

func pdfUseCaseDemo(t *testing.T) (*PDFUseCase, *fakeBoletaRepo, *fakeClinicRepo, *fakePDFGenerator) {
	t.Helper()
	boletaRepo := newFakeBoletaRepo()
	clinicRepo := &fakeClinicRepo{clinic: &entity.Clinic{
		ID:   "clinic-1",
		Name: "Clinica Test",
		RUT:  "76123456-0",
	}}
	tutorRepo := &fakeTutorRepo{tutores: map[string]*entity.Tutor{}}
	gen := &fakePDFGenerator{}
	return NewPDFUseCase(boletaRepo, clinicRepo, tutorRepo, gen), boletaRepo, clinicRepo, gen
}

func TestDownloadBoletaPDF_Firmada(t *testing.T) {
	uc, boletaRepo, _, gen := pdfUseCaseDemo(t)

	firmada := &entity.Boleta{
		ID:        "b-firmada",
		ClinicID:  "clinic-1",
		Folio:     42,
		SIIStatus: entity.SIIStatusEnviada,
		XMLSigned: "<DTE>firmado</DTE>",
	}
	require.NoError(t, boletaRepo.Create(context.Background(), firmada))
	require.NoError(t, boletaRepo.CreateDetail(context.Background(), &entity.BoletaDetail{
		BoletaID: "b-firmada", LineNumber: 1, Name: "Consulta",
	}))

	pdfBytes, filename, err := uc.DownloadBoletaPDF(context.Background(), "clinic-1", "b-firmada")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdfBytes)
	assert.Equal(t, "boleta_42.pdf", filename)
	assert.True(t, gen.llamado)
	assert.Nil(t, gen.gotTutor, "boleta sin receptor pasa tutor nil al generador")
	assert.Equal(t, 1, gen.gotLineas)
}

func TestDownloadBoletaPDF_SinFirmarEsInvalido(t *testing.T) {
	uc, boletaRepo, _, gen := pdfUseCaseDemo(t)

	emitida := &entity.Boleta{
		ID:        "b-emitida",
		ClinicID:  "clinic-1",
		Folio:     7,
		SIIStatus: entity.SIIStatusEmitida,
	}
	require.NoError(t, boletaRepo.Create(context.Background(), emitida))

	_, _, err := uc.DownloadBoletaPDF(context.Background(), "clinic-1", "b-emitida")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, gen.llamado)
}

func TestDownloadBoletaPDF_ClinicaAusenteEsNotFound(t *testing.T) {
	uc, boletaRepo, clinicRepo, gen := pdfUseCaseDemo(t)

	firmada := &entity.Boleta{
		ID:        "b-huerfana",
		ClinicID:  "clinic-1",
		Folio:     9,
		SIIStatus: entity.SIIStatusAceptada,
		XMLSigned: "<DTE/>",
	}
	require.NoError(t, boletaRepo.Create(context.Background(), firmada))
	clinicRepo.clinic = nil

	_, _, err := uc.DownloadBoletaPDF(context.Background(), "clinic-1", "b-huerfana")
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"clínica ausente sin error de repo es not found, no un wrap de nil")
	assert.False(t, gen.llamado)
}

func TestDownloadBoletaPDF_OtraClinicaEsForbidden(t *testing.T) {
	uc, boletaRepo, _, _ := pdfUseCaseDemo(t)

	ajena := &entity.Boleta{
		ID:        "b-ajena",
		ClinicID:  "clinic-2",
		Folio:     3,
		SIIStatus: entity.SIIStatusAceptada,
		XMLSigned: "<DTE/>",
	}
	require.NoError(t, boletaRepo.Create(context.Background(), ajena))

	_, _, err := uc.DownloadBoletaPDF(context.Background(), "clinic-1", "b-ajena")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
