package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// UseCase es el lector de agregaciones: cálculos de solo lectura sobre el
// estado confirmado del ledger y el catálogo. Nunca muta; dos invocaciones
// sin movimientos intermedios devuelven exactamente lo mismo.
type UseCase struct {
	reportRepo repository.ReportRepository
	itemRepo   repository.StockItemRepository
	movRepo    repository.MovementRepository
}

// NewUseCase construye el lector de reportes.
func NewUseCase(
	reportRepo repository.ReportRepository,
	itemRepo repository.StockItemRepository,
	movRepo repository.MovementRepository,
) *UseCase {
	return &UseCase{reportRepo: reportRepo, itemRepo: itemRepo, movRepo: movRepo}
}

// Estados de una fila del reporte de existencias.
const (
	StockStatusOut = "out" // existencia cero
	StockStatusLow = "low" // en o por debajo del umbral
	StockStatusOK  = "ok"
)

// StockReport reporte de existencias valorizado.
type StockReport struct {
	Items   []StockReportItem
	Summary StockSummary
}

// StockReportItem fila del reporte de existencias.
type StockReportItem struct {
	Item       *entity.StockItem
	TotalValue decimal.Decimal
	Status     string
}

// StockSummary totales del reporte de existencias.
type StockSummary struct {
	TotalItems    int
	TotalValue    decimal.Decimal
	LowStockCount int
}

// BuildStockReport arma el reporte de existencias, opcionalmente filtrado por
// categoría, con valor por artículo (quantity × unit_value) y estado.
func (uc *UseCase) BuildStockReport(ctx context.Context, categoryID string) (*StockReport, error) {
	items, err := uc.itemRepo.List(repository.ItemFilter{CategoryID: categoryID, Limit: 1000})
	if err != nil {
		return nil, err
	}

	r := &StockReport{Summary: StockSummary{TotalItems: len(items), TotalValue: decimal.Zero}}
	for _, it := range items {
		value := it.UnitValue.Mul(decimal.NewFromInt(it.Quantity))
		status := StockStatusOK
		switch {
		case it.Quantity == 0:
			status = StockStatusOut
		case it.LowStock():
			status = StockStatusLow
		}
		if it.LowStock() {
			r.Summary.LowStockCount++
		}
		r.Summary.TotalValue = r.Summary.TotalValue.Add(value)
		r.Items = append(r.Items, StockReportItem{Item: it, TotalValue: value, Status: status})
	}
	return r, nil
}

// MovementReport reporte de movimientos de un período.
type MovementReport struct {
	Items         []*entity.Movement
	TotalCount    int
	TotalQuantity int64
	ByReason      []repository.ReasonBreakdown // solo salidas
}

// BuildInboundReport lista entradas del período con totales.
func (uc *UseCase) BuildInboundReport(ctx context.Context, from, to *time.Time) (*MovementReport, error) {
	return uc.buildMovementReport(ctx, entity.MovementKindIn, from, to, false)
}

// BuildOutboundReport lista salidas del período con totales y desglose por motivo.
func (uc *UseCase) BuildOutboundReport(ctx context.Context, from, to *time.Time) (*MovementReport, error) {
	return uc.buildMovementReport(ctx, entity.MovementKindOut, from, to, true)
}

func (uc *UseCase) buildMovementReport(ctx context.Context, kind string, from, to *time.Time, withReasons bool) (*MovementReport, error) {
	movs, err := uc.movRepo.List(repository.MovementFilter{Kind: kind, From: from, To: to, Limit: 1000})
	if err != nil {
		return nil, err
	}
	r := &MovementReport{Items: movs, TotalCount: len(movs)}
	for _, m := range movs {
		r.TotalQuantity += m.Quantity
	}
	if withReasons {
		byReason, err := uc.reportRepo.OutboundByReason(ctx, from, to)
		if err != nil {
			return nil, err
		}
		r.ByReason = byReason
	}
	return r, nil
}

// ShrinkageReport reporte de merma: artículos dañados o vencidos.
type ShrinkageReport struct {
	Items         []ShrinkageItem
	TotalItems    int
	EstimatedLoss decimal.Decimal
	DamagedCount  int
	ExpiredCount  int
}

// ShrinkageItem fila del reporte de merma.
type ShrinkageItem struct {
	Item          *entity.StockItem
	EstimatedLoss decimal.Decimal
}

// BuildShrinkageReport valora la pérdida estimada del stock dañado/vencido.
func (uc *UseCase) BuildShrinkageReport(ctx context.Context) (*ShrinkageReport, error) {
	items, err := uc.itemRepo.DamagedOrExpired()
	if err != nil {
		return nil, err
	}
	r := &ShrinkageReport{TotalItems: len(items), EstimatedLoss: decimal.Zero}
	for _, it := range items {
		loss := it.UnitValue.Mul(decimal.NewFromInt(it.Quantity))
		r.EstimatedLoss = r.EstimatedLoss.Add(loss)
		switch it.Condition {
		case entity.ConditionDamaged:
			r.DamagedCount++
		case entity.ConditionExpired:
			r.ExpiredCount++
		}
		r.Items = append(r.Items, ShrinkageItem{Item: it, EstimatedLoss: loss})
	}
	return r, nil
}

// TotalInventoryValue Σ quantity × unit_value de todo el catálogo.
func (uc *UseCase) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	return uc.reportRepo.TotalInventoryValue(ctx)
}

// MonthlyChart serie mensual de entradas/salidas de un año.
func (uc *UseCase) MonthlyChart(ctx context.Context, year int) ([]repository.MonthlyTotal, error) {
	return uc.reportRepo.MonthlyMovementTotals(ctx, year)
}

// TopConsumedItems artículos con mayor salida acumulada.
func (uc *UseCase) TopConsumedItems(ctx context.Context, limit int) ([]repository.ItemConsumption, error) {
	if limit <= 0 {
		limit = 8
	}
	return uc.reportRepo.TopConsumedItems(ctx, limit)
}
