package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código SQLSTATE de unique_violation. Lo gatillan el RUT único por clínica
// en tutores, el email único en usuarios y el folio único por clínica en
// boletas.
const codeUniqueViolation = "23505"

// isUniqueViolation verifica si un error es una violación de constraint único.
// El fallback por substring cubre errores envueltos por drivers o proxies que
// no exponen *pgconn.PgError.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}
