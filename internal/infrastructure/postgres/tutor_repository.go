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

var _ repository.TutorRepository = (*TutorRepo)(nil)

// TutorRepo implementación del puerto TutorRepository sobre PostgreSQL.
type TutorRepo struct {
	pool *pgxpool.Pool
}

// NewTutorRepository construye el adaptador de persistencia para tutores.
func NewTutorRepository(pool *pgxpool.Pool) *TutorRepo {
	return &TutorRepo{pool: pool}
}

const tutorColumns = `id, clinic_id, name, rut, address, email, phone, created_at, updated_at`

// Create persiste un nuevo tutor. El RUT viene ya en forma canónica desde el
// caso de uso; (clinic_id, rut) es único.
func (r *TutorRepo) Create(ctx context.Context, t *entity.Tutor) error {
	query := `INSERT INTO tutores (` + tutorColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(ctx, query,
		t.ID, t.ClinicID, t.Name, t.RUT, t.Address, t.Email, t.Phone, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tutor: %w", err)
	}
	return nil
}

// GetByID obtiene un tutor por ID.
func (r *TutorRepo) GetByID(ctx context.Context, id string) (*entity.Tutor, error) {
	return r.getOne(ctx, `SELECT `+tutorColumns+` FROM tutores WHERE id = $1`, id)
}

// GetByRUT obtiene un tutor por RUT dentro de una clínica.
func (r *TutorRepo) GetByRUT(ctx context.Context, clinicID, rut string) (*entity.Tutor, error) {
	query := `SELECT ` + tutorColumns + ` FROM tutores WHERE clinic_id = $1 AND rut = $2`
	var t entity.Tutor
	err := r.pool.QueryRow(ctx, query, clinicID, rut).Scan(
		&t.ID, &t.ClinicID, &t.Name, &t.RUT, &t.Address, &t.Email, &t.Phone, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tutor by rut: %w", err)
	}
	return &t, nil
}

func (r *TutorRepo) getOne(ctx context.Context, query string, arg any) (*entity.Tutor, error) {
	var t entity.Tutor
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&t.ID, &t.ClinicID, &t.Name, &t.RUT, &t.Address, &t.Email, &t.Phone, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tutor: %w", err)
	}
	return &t, nil
}

// Update actualiza un tutor.
func (r *TutorRepo) Update(ctx context.Context, t *entity.Tutor) error {
	query := `
		UPDATE tutores SET name = $2, rut = $3, address = $4, email = $5, phone = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, t.ID, t.Name, t.RUT, t.Address, t.Email, t.Phone, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update tutor: %w", err)
	}
	return nil
}

// ListByClinic lista tutores de la clínica con paginación.
func (r *TutorRepo) ListByClinic(ctx context.Context, clinicID string, limit, offset int) ([]*entity.Tutor, error) {
	query := `SELECT ` + tutorColumns + `
		FROM tutores WHERE clinic_id = $1 ORDER BY name ASC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, clinicID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tutores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tutor
	for rows.Next() {
		var t entity.Tutor
		if err := rows.Scan(&t.ID, &t.ClinicID, &t.Name, &t.RUT, &t.Address, &t.Email, &t.Phone, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tutor: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// Delete elimina un tutor por ID.
func (r *TutorRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tutores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tutor: %w", err)
	}
	return nil
}
