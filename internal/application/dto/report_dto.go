package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-api/internal/application/report"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// StockReportResponse reporte de existencias valorizado.
type StockReportResponse struct {
	Items   []StockReportItemResponse `json:"items"`
	Summary StockSummaryResponse      `json:"summary"`
}

// StockReportItemResponse fila del reporte de existencias.
type StockReportItemResponse struct {
	Item       ItemResponse    `json:"item"`
	TotalValue decimal.Decimal `json:"total_value"`
	Status     string          `json:"status"`
}

// StockSummaryResponse totales del reporte de existencias.
type StockSummaryResponse struct {
	TotalItems    int             `json:"total_items"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LowStockCount int             `json:"low_stock_count"`
}

// MovementReportResponse reporte de movimientos de un período.
type MovementReportResponse struct {
	Items         []MovementResponse           `json:"items"`
	TotalCount    int                          `json:"total_count"`
	TotalQuantity int64                        `json:"total_quantity"`
	ByReason      []ReasonBreakdownResponse    `json:"by_reason,omitempty"`
}

// ReasonBreakdownResponse salidas agrupadas por motivo.
type ReasonBreakdownResponse struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
	Total  int64  `json:"total"`
}

// ShrinkageReportResponse reporte de merma (dañados/vencidos).
type ShrinkageReportResponse struct {
	Items         []ShrinkageItemResponse `json:"items"`
	TotalItems    int                     `json:"total_items"`
	EstimatedLoss decimal.Decimal         `json:"estimated_loss"`
	DamagedCount  int                     `json:"damaged_count"`
	ExpiredCount  int                     `json:"expired_count"`
}

// ShrinkageItemResponse fila del reporte de merma.
type ShrinkageItemResponse struct {
	Item          ItemResponse    `json:"item"`
	EstimatedLoss decimal.Decimal `json:"estimated_loss"`
}

// MonthlyTotalResponse serie mensual de entradas/salidas.
type MonthlyTotalResponse struct {
	Month    int   `json:"month"`
	Inbound  int64 `json:"inbound"`
	Outbound int64 `json:"outbound"`
}

// ItemConsumptionResponse consumo acumulado de un artículo.
type ItemConsumptionResponse struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
	Total  int64  `json:"total"`
}

// DashboardResponse indicadores de cabecera del panel.
type DashboardResponse struct {
	TotalItems         int             `json:"total_items"`
	TotalValue         decimal.Decimal `json:"total_value"`
	MonthInboundTotal  int64           `json:"month_inbound_total"`
	MonthOutboundTotal int64           `json:"month_outbound_total"`
	LowStockCount      int             `json:"low_stock_count"`
}

// NewStockReportResponse mapea el reporte de existencias a su DTO.
func NewStockReportResponse(r *report.StockReport) StockReportResponse {
	out := StockReportResponse{
		Items: make([]StockReportItemResponse, 0, len(r.Items)),
		Summary: StockSummaryResponse{
			TotalItems:    r.Summary.TotalItems,
			TotalValue:    r.Summary.TotalValue,
			LowStockCount: r.Summary.LowStockCount,
		},
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, StockReportItemResponse{
			Item:       NewItemResponse(it.Item),
			TotalValue: it.TotalValue,
			Status:     it.Status,
		})
	}
	return out
}

// NewMovementReportResponse mapea el reporte de movimientos a su DTO.
func NewMovementReportResponse(r *report.MovementReport) MovementReportResponse {
	out := MovementReportResponse{
		Items:         make([]MovementResponse, 0, len(r.Items)),
		TotalCount:    r.TotalCount,
		TotalQuantity: r.TotalQuantity,
	}
	for _, m := range r.Items {
		out.Items = append(out.Items, NewMovementResponse(m))
	}
	for _, rb := range r.ByReason {
		out.ByReason = append(out.ByReason, ReasonBreakdownResponse(rb))
	}
	return out
}

// NewShrinkageReportResponse mapea el reporte de merma a su DTO.
func NewShrinkageReportResponse(r *report.ShrinkageReport) ShrinkageReportResponse {
	out := ShrinkageReportResponse{
		Items:         make([]ShrinkageItemResponse, 0, len(r.Items)),
		TotalItems:    r.TotalItems,
		EstimatedLoss: r.EstimatedLoss,
		DamagedCount:  r.DamagedCount,
		ExpiredCount:  r.ExpiredCount,
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, ShrinkageItemResponse{
			Item:          NewItemResponse(it.Item),
			EstimatedLoss: it.EstimatedLoss,
		})
	}
	return out
}

// NewMonthlyTotalResponses mapea la serie mensual.
func NewMonthlyTotalResponses(totals []repository.MonthlyTotal) []MonthlyTotalResponse {
	out := make([]MonthlyTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, MonthlyTotalResponse(t))
	}
	return out
}

// NewDashboardResponse mapea los indicadores del panel.
func NewDashboardResponse(s *report.DashboardStats) DashboardResponse {
	return DashboardResponse{
		TotalItems:         s.TotalItems,
		TotalValue:         s.TotalValue,
		MonthInboundTotal:  s.MonthInboundTotal,
		MonthOutboundTotal: s.MonthOutboundTotal,
		LowStockCount:      s.LowStockCount,
	}
}
