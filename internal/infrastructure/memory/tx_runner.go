package memory

import (
	"context"
	"sync"

	"github.com/tu-usuario/almacen-api/internal/application/ledger"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta unidades de trabajo del ledger sobre el Store. Serializa
// las transacciones con un mutex (equivalente funcional del FOR UPDATE) y,
// si fn falla, restaura el estado previo: la unidad abortada no deja efectos
// parciales.
type TxRunner struct {
	store *Store
	txMu  sync.Mutex
}

// NewTxRunner construye el runner sobre un Store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repositorios atados al Store bajo exclusión mutua.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	itemRepo repository.StockItemRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := r.store.take()
	err := fn(NewMovementRepository(r.store), NewStockItemRepository(r.store))
	if err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}
