package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/umkmhub/umkm-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
	sqlStateInsufficientPriv    = "42501"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == sqlStateUniqueViolation
}

// mapError traduce el error del driver a un error de dominio usando el código SQLSTATE,
// nunca el texto del mensaje. op identifica la operación en el error envuelto.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	switch pgCode(err) {
	case sqlStateUniqueViolation:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicate, err)
	case sqlStateInsufficientPriv:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrForbidden, err)
	case sqlStateForeignKeyViolation, sqlStateCheckViolation:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidInput, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
