package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/entity"
	"github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/internal/domain/repository"
)

var _ repository.ClinicRepository = (*ClinicRepo)(nil)

// ClinicRepo implementación del puerto ClinicRepository sobre PostgreSQL.
type ClinicRepo struct {
	pool *pgxpool.Pool
}

// NewClinicRepository construye el adaptador de persistencia para clínicas.
func NewClinicRepository(pool *pgxpool.Pool) *ClinicRepo {
	return &ClinicRepo{pool: pool}
}

// Create persiste una nueva clínica.
func (r *ClinicRepo) Create(ctx context.Context, c *entity.Clinic) error {
	query := `
		INSERT INTO clinics (id, name, rut, giro, acteco, address, comuna, phone, email, last_folio, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.RUT, c.Giro, c.Acteco, c.Address, c.Comuna, c.Phone, c.Email,
		c.LastFolio, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert clinic: %w", err)
	}
	return nil
}

// GetByID obtiene una clínica por ID.
func (r *ClinicRepo) GetByID(ctx context.Context, id string) (*entity.Clinic, error) {
	query := `
		SELECT id, name, rut, giro, acteco, address, comuna, phone, email, last_folio, created_at, updated_at
		FROM clinics WHERE id = $1`
	var c entity.Clinic
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.RUT, &c.Giro, &c.Acteco, &c.Address, &c.Comuna, &c.Phone, &c.Email,
		&c.LastFolio, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	return &c, nil
}

// Update actualiza los datos de la clínica (no toca last_folio; eso es
// exclusivo de NextFolio).
func (r *ClinicRepo) Update(ctx context.Context, c *entity.Clinic) error {
	query := `
		UPDATE clinics SET name = $2, rut = $3, giro = $4, acteco = $5, address = $6,
			comuna = $7, phone = $8, email = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.RUT, c.Giro, c.Acteco, c.Address, c.Comuna, c.Phone, c.Email, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update clinic: %w", err)
	}
	return nil
}

// NextFolio reserva el siguiente folio con un UPDATE atómico. El row lock del
// UPDATE serializa emisiones concurrentes de la misma clínica: dos boletas
// nunca comparten folio.
func (r *ClinicRepo) NextFolio(ctx context.Context, clinicID string) (int64, error) {
	var folio int64
	err := r.pool.QueryRow(ctx, `
		UPDATE clinics SET last_folio = last_folio + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING last_folio`, clinicID).Scan(&folio)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("next folio: %w", err)
	}
	return folio, nil
}
