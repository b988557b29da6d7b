package ledger

import (
	"context"

	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el asiento del movimiento y el
// ajuste de existencia se confirman juntos o no se confirman en absoluto.
//
// El runner debe traducir la contención transitoria (lock timeout, deadlock,
// fallo de serialización) a domain.ErrRetryable: la unidad de trabajo
// abortada no dejó efectos parciales.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		itemRepo repository.StockItemRepository,
	) error) error
}
