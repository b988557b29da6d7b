package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condición física de un artículo.
const (
	ConditionGood    = "good"
	ConditionDamaged = "damaged"
	ConditionExpired = "expired"
)

// ValidCondition indica si s es una condición reconocida.
func ValidCondition(s string) bool {
	switch s {
	case ConditionGood, ConditionDamaged, ConditionExpired:
		return true
	}
	return false
}

// StockItem representa un artículo del inventario con su existencia actual.
// Quantity solo se modifica a través del ledger de movimientos; el invariante
// Quantity >= 0 lo garantiza la ruta atómica de registro (y un CHECK en la DB).
type StockItem struct {
	ID         string
	Name       string
	CategoryID string
	Unit       string // etiqueta de unidad de medida: "kg", "caja", "unidad"...
	Quantity   int64
	Threshold  int64 // punto de reorden: stock <= Threshold dispara alerta
	UnitValue  decimal.Decimal
	Condition  string
	Location   string
	ExpiryDate *time.Time
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Category se rellena en lecturas con JOIN; nil en escrituras.
	Category *Category
}

// LowStock indica si el artículo está en o por debajo de su punto de reorden.
func (s *StockItem) LowStock() bool {
	return s.Quantity <= s.Threshold
}
