package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// StockReportRow fila del reporte de existencias con valor y estado.
type StockReportRow struct {
	Item       *entity.StockItem
	TotalValue decimal.Decimal // quantity × unit_value
	Status     string          // "out", "low", "ok"
}

// MonthlyTotal totales de entrada/salida de un mes.
type MonthlyTotal struct {
	Month    int // 1..12
	Inbound  int64
	Outbound int64
}

// ItemConsumption consumo acumulado (salidas) de un artículo.
type ItemConsumption struct {
	ItemID string
	Name   string
	Total  int64
}

// ReasonBreakdown salidas agrupadas por motivo.
type ReasonBreakdown struct {
	Reason string
	Count  int
	Total  int64
}

// ReportRepository consultas de solo lectura sobre estado confirmado
// (aislamiento read committed; nunca observa un movimiento a medio aplicar).
type ReportRepository interface {
	TotalInventoryValue(ctx context.Context) (decimal.Decimal, error)
	MonthlyMovementTotals(ctx context.Context, year int) ([]MonthlyTotal, error)
	// MonthTotals devuelve entradas y salidas de un mes puntual (dashboard).
	MonthTotals(ctx context.Context, year, month int) (inbound, outbound int64, err error)
	TopConsumedItems(ctx context.Context, limit int) ([]ItemConsumption, error)
	OutboundByReason(ctx context.Context, from, to *time.Time) ([]ReasonBreakdown, error)
	CountItems(ctx context.Context) (int, error)
	CountLowStockItems(ctx context.Context) (int, error)
}
