package repository

import (
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// MovementFilter filtros de listado de movimientos.
type MovementFilter struct {
	Kind         string // "", IN, OUT, ADJUSTMENT
	ItemID       string
	Counterparty string // proveedor o motivo exacto
	From, To     *time.Time
	Limit        int
	Offset       int
}

// MovementRepository define el puerto de persistencia para los asientos del
// ledger. Sin Update ni Delete: un movimiento es inmutable una vez creado.
type MovementRepository interface {
	Create(m *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	List(f MovementFilter) ([]*entity.Movement, error)
	Count(f MovementFilter) (int, error)
	// CountByItem cuenta movimientos de un artículo (guard de borrado del catálogo).
	CountByItem(itemID string) (int, error)
	// SignedSumByItem devuelve Σ(entradas) - Σ(salidas) + Σ(ajustes) de un
	// artículo; permite verificar que la existencia actual es recomputable.
	SignedSumByItem(itemID string) (int64, error)
}
