package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/repository"
)

var _ repository.BoletaRepository = (*BoletaRepo)(nil)

// BoletaRepo implementación del puerto BoletaRepository sobre PostgreSQL.
// Los montos van en columnas NUMERIC y llegan como shopspring/decimal vía el
// codec registrado en el pool.
type BoletaRepo struct {
	pool *pgxpool.Pool
}

// NewBoletaRepository construye el adaptador de persistencia para boletas.
func NewBoletaRepository(pool *pgxpool.Pool) *BoletaRepo {
	return &BoletaRepo{pool: pool}
}

const boletaColumns = `id, clinic_id, tutor_id, folio, date,
	net_total, exempt_total, tax_total, grand_total,
	sii_status, xml_signed, track_id, sii_errors, raw_response,
	submitted_at, last_polled_at, created_at, updated_at`

// Create persiste la cabecera de la boleta.
func (r *BoletaRepo) Create(ctx context.Context, b *entity.Boleta) error {
	query := `
		INSERT INTO boletas (` + boletaColumns + `)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.pool.Exec(ctx, query,
		b.ID, b.ClinicID, b.TutorID, b.Folio, b.Date,
		b.NetTotal, b.ExemptTotal, b.TaxTotal, b.GrandTotal,
		b.SIIStatus, b.XMLSigned, b.TrackID, b.SIIErrors, b.RawResponse,
		b.SubmittedAt, b.LastPolledAt, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert boleta: %w", err)
	}
	return nil
}

// CreateDetail persiste una línea de detalle.
func (r *BoletaRepo) CreateDetail(ctx context.Context, d *entity.BoletaDetail) error {
	query := `
		INSERT INTO boleta_details (id, boleta_id, line_number, name, description,
			quantity, unit_price, discount_pct, amount, exempt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(ctx, query,
		d.ID, d.BoletaID, d.LineNumber, d.Name, d.Description,
		d.Quantity, d.UnitPrice, d.DiscountPct, d.Amount, d.Exempt,
	)
	if err != nil {
		return fmt.Errorf("insert boleta detail: %w", err)
	}
	return nil
}

// Update actualiza todos los campos SII de la boleta.
func (r *BoletaRepo) Update(ctx context.Context, b *entity.Boleta) error {
	query := `
		UPDATE boletas SET
			sii_status = $2, xml_signed = $3, track_id = $4, sii_errors = $5,
			raw_response = $6, submitted_at = $7, last_polled_at = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		b.ID, b.SIIStatus, b.XMLSigned, b.TrackID, b.SIIErrors,
		b.RawResponse, b.SubmittedAt, b.LastPolledAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update boleta: %w", err)
	}
	return nil
}

// GetByID obtiene una boleta por ID.
func (r *BoletaRepo) GetByID(ctx context.Context, id string) (*entity.Boleta, error) {
	return r.getOne(ctx, `SELECT `+boletaSelectColumns+` FROM boletas WHERE id = $1`, id)
}

// GetByTrackID obtiene una boleta por su identificador de seguimiento SII.
func (r *BoletaRepo) GetByTrackID(ctx context.Context, trackID string) (*entity.Boleta, error) {
	return r.getOne(ctx, `SELECT `+boletaSelectColumns+` FROM boletas WHERE track_id = $1`, trackID)
}

const boletaSelectColumns = `id, clinic_id, COALESCE(tutor_id, ''), folio, date,
	net_total, exempt_total, tax_total, grand_total,
	sii_status, xml_signed, track_id, sii_errors, raw_response,
	submitted_at, last_polled_at, created_at, updated_at`

func (r *BoletaRepo) getOne(ctx context.Context, query string, arg any) (*entity.Boleta, error) {
	var b entity.Boleta
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&b.ID, &b.ClinicID, &b.TutorID, &b.Folio, &b.Date,
		&b.NetTotal, &b.ExemptTotal, &b.TaxTotal, &b.GrandTotal,
		&b.SIIStatus, &b.XMLSigned, &b.TrackID, &b.SIIErrors, &b.RawResponse,
		&b.SubmittedAt, &b.LastPolledAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get boleta: %w", err)
	}
	return &b, nil
}

// GetDetailsByBoletaID obtiene las líneas en orden ascendente.
func (r *BoletaRepo) GetDetailsByBoletaID(ctx context.Context, boletaID string) ([]*entity.BoletaDetail, error) {
	query := `
		SELECT id, boleta_id, line_number, name, description,
			quantity, unit_price, discount_pct, amount, exempt
		FROM boleta_details WHERE boleta_id = $1 ORDER BY line_number ASC`
	rows, err := r.pool.Query(ctx, query, boletaID)
	if err != nil {
		return nil, fmt.Errorf("list boleta details: %w", err)
	}
	defer rows.Close()
	var list []*entity.BoletaDetail
	for rows.Next() {
		var d entity.BoletaDetail
		if err := rows.Scan(&d.ID, &d.BoletaID, &d.LineNumber, &d.Name, &d.Description,
			&d.Quantity, &d.UnitPrice, &d.DiscountPct, &d.Amount, &d.Exempt); err != nil {
			return nil, fmt.Errorf("scan boleta detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// ListByClinic lista boletas de la clínica, más recientes primero.
func (r *BoletaRepo) ListByClinic(ctx context.Context, clinicID string, limit, offset int) ([]*entity.Boleta, error) {
	query := `SELECT ` + boletaSelectColumns + `
		FROM boletas WHERE clinic_id = $1 ORDER BY folio DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, clinicID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list boletas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Boleta
	for rows.Next() {
		var b entity.Boleta
		if err := rows.Scan(
			&b.ID, &b.ClinicID, &b.TutorID, &b.Folio, &b.Date,
			&b.NetTotal, &b.ExemptTotal, &b.TaxTotal, &b.GrandTotal,
			&b.SIIStatus, &b.XMLSigned, &b.TrackID, &b.SIIErrors, &b.RawResponse,
			&b.SubmittedAt, &b.LastPolledAt, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan boleta: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
