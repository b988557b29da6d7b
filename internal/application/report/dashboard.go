package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DashboardStats indicadores de cabecera del panel.
type DashboardStats struct {
	TotalItems         int
	TotalValue         decimal.Decimal
	MonthInboundTotal  int64
	MonthOutboundTotal int64
	LowStockCount      int
}

// DashboardStats recolecta los indicadores del mes en curso. Las consultas
// son independientes entre sí y se lanzan en paralelo; cada una ve estado
// confirmado (read committed), suficiente para un panel informativo.
func (uc *UseCase) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := time.Now()
	stats := &DashboardStats{TotalValue: decimal.Zero}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.reportRepo.CountItems(gctx)
		stats.TotalItems = n
		return err
	})
	g.Go(func() error {
		v, err := uc.reportRepo.TotalInventoryValue(gctx)
		stats.TotalValue = v
		return err
	})
	g.Go(func() error {
		in, out, err := uc.reportRepo.MonthTotals(gctx, now.Year(), int(now.Month()))
		stats.MonthInboundTotal = in
		stats.MonthOutboundTotal = out
		return err
	})
	g.Go(func() error {
		n, err := uc.reportRepo.CountLowStockItems(gctx)
		stats.LowStockCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
