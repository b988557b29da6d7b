package dto

import (
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// InboundRequest body para registrar una entrada de stock.
type InboundRequest struct {
	ItemID   string     `json:"item_id" validate:"required"`
	Quantity int64      `json:"quantity" validate:"required,min=1"`
	Date     *time.Time `json:"date,omitempty"`
	Supplier string     `json:"supplier" validate:"required"`
	Note     string     `json:"note"`
}

// OutboundRequest body para registrar una salida de stock.
type OutboundRequest struct {
	ItemID   string     `json:"item_id" validate:"required"`
	Quantity int64      `json:"quantity" validate:"required,min=1"`
	Date     *time.Time `json:"date,omitempty"`
	Reason   string     `json:"reason" validate:"required"`
	Note     string     `json:"note"`
}

// AdjustmentRequest body para una corrección manual con delta firmado.
type AdjustmentRequest struct {
	ItemID string     `json:"item_id" validate:"required"`
	Delta  int64      `json:"delta" validate:"required"`
	Date   *time.Time `json:"date,omitempty"`
	Label  string     `json:"label"`
	Note   string     `json:"note"`
}

// MovementFilterRequest filtros de listado de movimientos (query params).
type MovementFilterRequest struct {
	PageRequest
	Kind         string     `query:"kind"`
	ItemID       string     `query:"item_id"`
	Counterparty string     `query:"counterparty"`
	From         *time.Time `query:"from"`
	To           *time.Time `query:"to"`
}

// MovementResponse salida de un asiento del ledger.
type MovementResponse struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"item_id"`
	ItemName      string    `json:"item_name,omitempty"`
	ItemUnit      string    `json:"item_unit,omitempty"`
	Kind          string    `json:"kind"`
	Quantity      int64     `json:"quantity"`
	Date          time.Time `json:"date"`
	Counterparty  string    `json:"counterparty,omitempty"`
	Note          string    `json:"note,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedByName string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BalanceResponse verificación de consistencia de un artículo: la existencia
// actual contra la suma firmada de sus movimientos.
type BalanceResponse struct {
	ItemID     string `json:"item_id"`
	Consistent bool   `json:"consistent"`
}

// NewMovementResponse mapea la entidad a su DTO.
func NewMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ItemID:        m.ItemID,
		ItemName:      m.ItemName,
		ItemUnit:      m.ItemUnit,
		Kind:          m.Kind,
		Quantity:      m.Quantity,
		Date:          m.Date,
		Counterparty:  m.Counterparty,
		Note:          m.Note,
		CreatedBy:     m.CreatedBy,
		CreatedByName: m.CreatedByName,
		CreatedAt:     m.CreatedAt,
	}
}

// NewMovementListResponse mapea una página de movimientos.
func NewMovementListResponse(movs []*entity.Movement, limit, offset, total int) MovementListResponse {
	out := MovementListResponse{
		Items: make([]MovementResponse, 0, len(movs)),
		Page:  PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, m := range movs {
		out.Items = append(out.Items, NewMovementResponse(m))
	}
	return out
}
