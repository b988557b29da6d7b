package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/almacen-api/internal/application/ledger"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// lockWait cota de espera por la fila del artículo. Superada, la transacción
// aborta con 55P03 y el caller recibe domain.ErrRetryable.
const lockWait = "3s"

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con repos
// atados a la tx. El asiento del movimiento y el ajuste de existencia viajan
// en la misma transacción: commit conjunto o rollback conjunto.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, acota la espera de locks, ejecuta fn con repos
// atados a la tx y hace Commit o Rollback. Los errores de contención se
// traducen a domain.ErrRetryable.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	itemRepo repository.StockItemRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// SET LOCAL: el límite muere con la transacción
	if _, err := tx.Exec(ctx, "SET LOCAL lock_timeout = '"+lockWait+"'"); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}

	movRepo := NewMovementRepository(tx)
	itemRepo := NewStockItemRepository(tx)

	if err := fn(movRepo, itemRepo); err != nil {
		return translateErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateErr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
