package repository

import "github.com/tu-usuario/almacen-api/internal/domain/entity"

// Estados de stock para filtrar listados.
const (
	StockStatusLow    = "low"    // stock <= umbral de reorden
	StockStatusNormal = "normal" // stock > umbral
)

// ItemFilter filtros de listado de artículos.
type ItemFilter struct {
	CategoryID  string
	Condition   string
	StockStatus string // "", "low", "normal"
	Search      string // búsqueda por nombre (ILIKE)
	Limit       int
	Offset      int
}

// StockItemRepository define el puerto de persistencia para StockItem.
// SetQuantity existe solo para el ledger: debe invocarse con la fila ya
// bloqueada (GetForUpdate) dentro de la misma transacción.
type StockItemRepository interface {
	Create(item *entity.StockItem) error
	GetByID(id string) (*entity.StockItem, error)
	// GetForUpdate lee el artículo bloqueando su fila (SELECT ... FOR UPDATE).
	GetForUpdate(id string) (*entity.StockItem, error)
	// Update modifica campos no-stock (nunca Quantity).
	Update(item *entity.StockItem) error
	// SetQuantity fija la existencia; solo el ledger la invoca bajo lock.
	SetQuantity(id string, quantity int64) error
	List(f ItemFilter) ([]*entity.StockItem, error)
	Count(f ItemFilter) (int, error)
	Delete(id string) error
	LowStock() ([]*entity.StockItem, error)
	DamagedOrExpired() ([]*entity.StockItem, error)
}
