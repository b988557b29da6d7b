package entity

import "time"

// Tipos de movimiento del ledger.
const (
	MovementKindIn         = "IN"         // entrada (compra/recepción)
	MovementKindOut        = "OUT"        // salida (consumo/despacho)
	MovementKindAdjustment = "ADJUSTMENT" // corrección manual con delta firmado
)

// Movement es un asiento inmutable del ledger: una cantidad que entró o salió
// de un artículo. Nunca se edita ni se borra; una corrección se modela como un
// nuevo movimiento ADJUSTMENT compensatorio.
type Movement struct {
	ID     string
	ItemID string
	Kind   string
	// Quantity se almacena positiva para IN/OUT (el signo lo implica Kind).
	// Para ADJUSTMENT conserva el delta firmado.
	Quantity     int64
	Date         time.Time
	Counterparty string // proveedor en IN, código de motivo en OUT, etiqueta libre en ADJUSTMENT
	Note         string
	CreatedBy    string
	CreatedAt    time.Time

	// Campos de lectura (JOIN), vacíos en escrituras.
	ItemName      string
	ItemUnit      string
	CreatedByName string
}

// SignedQuantity devuelve el efecto del movimiento sobre el stock.
func (m *Movement) SignedQuantity() int64 {
	if m.Kind == MovementKindOut {
		return -m.Quantity
	}
	return m.Quantity
}
