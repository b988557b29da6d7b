package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// CreateItemRequest entrada para crear un artículo. InitialQuantity se
// asienta como movimiento de alta inicial, no como escritura directa.
type CreateItemRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	CategoryID      string          `json:"category_id" validate:"required"`
	Unit            string          `json:"unit" validate:"required"`
	InitialQuantity int64           `json:"initial_quantity" validate:"min=0"`
	Threshold       int64           `json:"threshold" validate:"min=0"`
	UnitValue       decimal.Decimal `json:"unit_value"`
	Condition       string          `json:"condition"`
	Location        string          `json:"location" validate:"required"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	Notes           string          `json:"notes"`
}

// UpdateItemRequest entrada para editar campos no-stock (punteros nil = sin cambio).
type UpdateItemRequest struct {
	Name       *string          `json:"name" validate:"omitempty,min=1,max=200"`
	CategoryID *string          `json:"category_id"`
	Unit       *string          `json:"unit"`
	Threshold  *int64           `json:"threshold" validate:"omitempty,min=0"`
	UnitValue  *decimal.Decimal `json:"unit_value"`
	Condition  *string          `json:"condition"`
	Location   *string          `json:"location"`
	ExpiryDate *time.Time       `json:"expiry_date,omitempty"`
	Notes      *string          `json:"notes"`
}

// CorrectQuantityRequest entrada para una corrección manual de existencia.
type CorrectQuantityRequest struct {
	Delta int64  `json:"delta" validate:"required"`
	Note  string `json:"note"`
}

// ItemFilterRequest filtros de listado de artículos (query params).
type ItemFilterRequest struct {
	PageRequest
	CategoryID  string `query:"category_id"`
	Condition   string `query:"condition"`
	StockStatus string `query:"stock_status"`
	Search      string `query:"search"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	Unit         string          `json:"unit"`
	Quantity     int64           `json:"quantity"`
	Threshold    int64           `json:"threshold"`
	UnitValue    decimal.Decimal `json:"unit_value"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Condition    string          `json:"condition"`
	Location     string          `json:"location"`
	LowStock     bool            `json:"low_stock"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// NewItemResponse mapea la entidad a su DTO.
func NewItemResponse(it *entity.StockItem) ItemResponse {
	r := ItemResponse{
		ID:         it.ID,
		Name:       it.Name,
		CategoryID: it.CategoryID,
		Unit:       it.Unit,
		Quantity:   it.Quantity,
		Threshold:  it.Threshold,
		UnitValue:  it.UnitValue,
		TotalValue: it.UnitValue.Mul(decimal.NewFromInt(it.Quantity)),
		Condition:  it.Condition,
		Location:   it.Location,
		LowStock:   it.LowStock(),
		ExpiryDate: it.ExpiryDate,
		Notes:      it.Notes,
		CreatedAt:  it.CreatedAt,
		UpdatedAt:  it.UpdatedAt,
	}
	if it.Category != nil {
		r.CategoryName = it.Category.Name
	}
	return r
}

// NewItemListResponse mapea una página de artículos.
func NewItemListResponse(items []*entity.StockItem, limit, offset, total int) ItemListResponse {
	out := ItemListResponse{
		Items: make([]ItemResponse, 0, len(items)),
		Page:  PageResponse{Limit: limit, Offset: offset, Total: total},
	}
	for _, it := range items {
		out.Items = append(out.Items, NewItemResponse(it))
	}
	return out
}
