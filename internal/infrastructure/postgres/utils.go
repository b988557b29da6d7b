package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tu-usuario/almacen-api/internal/domain"
)

// Querier abstrae pool y transacción: los repositorios funcionan igual
// atados a un *pgxpool.Pool o a una pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeLockNotAvailable    = "55P03"
	codeSerializationFail   = "40001"
	codeDeadlockDetected    = "40P01"
)

// translateErr mapea errores de PostgreSQL a los sentinelas de dominio.
// La contención transitoria (lock timeout, deadlock, serialización) se vuelve
// ErrRetryable: la transacción abortó sin aplicar nada.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return domain.ErrDuplicate
	case codeForeignKeyViolation:
		return domain.ErrConflict
	case codeCheckViolation:
		// El único CHECK del esquema es quantity >= 0: un underflow que
		// escapó a la verificación bajo lock.
		return domain.ErrInsufficientStock
	case codeLockNotAvailable, codeSerializationFail, codeDeadlockDetected:
		return domain.ErrRetryable
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
