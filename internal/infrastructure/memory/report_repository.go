package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// ReportRepo agregaciones de solo lectura sobre el estado en memoria. Replica
// los cálculos del adaptador de PostgreSQL para que los tests de reportes y
// dashboard corran sin base de datos.
type ReportRepo struct {
	s *Store
}

// NewReportRepository crea un repositorio de reportes sobre el store.
func NewReportRepository(s *Store) *ReportRepo {
	return &ReportRepo{s: s}
}

func (r *ReportRepo) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, it := range r.s.items {
		total = total.Add(it.UnitValue.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total, nil
}

func (r *ReportRepo) MonthlyMovementTotals(ctx context.Context, year int) ([]repository.MonthlyTotal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	totals := make([]repository.MonthlyTotal, 12)
	for i := range totals {
		totals[i].Month = i + 1
	}
	for _, m := range r.s.movements {
		if m.Date.Year() != year {
			continue
		}
		t := &totals[int(m.Date.Month())-1]
		switch m.Kind {
		case entity.MovementKindIn:
			t.Inbound += m.Quantity
		case entity.MovementKindOut:
			t.Outbound += m.Quantity
		}
	}
	return totals, nil
}

func (r *ReportRepo) MonthTotals(ctx context.Context, year, month int) (int64, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var inbound, outbound int64
	for _, m := range r.s.movements {
		if m.Date.Year() != year || int(m.Date.Month()) != month {
			continue
		}
		switch m.Kind {
		case entity.MovementKindIn:
			inbound += m.Quantity
		case entity.MovementKindOut:
			outbound += m.Quantity
		}
	}
	return inbound, outbound, nil
}

func (r *ReportRepo) TopConsumedItems(ctx context.Context, limit int) ([]repository.ItemConsumption, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byItem := make(map[string]int64)
	for _, m := range r.s.movements {
		if m.Kind == entity.MovementKindOut {
			byItem[m.ItemID] += m.Quantity
		}
	}
	out := make([]repository.ItemConsumption, 0, len(byItem))
	for itemID, total := range byItem {
		c := repository.ItemConsumption{ItemID: itemID, Total: total}
		if it, ok := r.s.items[itemID]; ok {
			c.Name = it.Name
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].ItemID < out[j].ItemID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReportRepo) OutboundByReason(ctx context.Context, from, to *time.Time) ([]repository.ReasonBreakdown, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byReason := make(map[string]*repository.ReasonBreakdown)
	for _, m := range r.s.movements {
		if m.Kind != entity.MovementKindOut {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		b, ok := byReason[m.Counterparty]
		if !ok {
			b = &repository.ReasonBreakdown{Reason: m.Counterparty}
			byReason[m.Counterparty] = b
		}
		b.Count++
		b.Total += m.Quantity
	}
	out := make([]repository.ReasonBreakdown, 0, len(byReason))
	for _, b := range byReason {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Reason < out[j].Reason
	})
	return out, nil
}

func (r *ReportRepo) CountItems(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.items), nil
}

func (r *ReportRepo) CountLowStockItems(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, it := range r.s.items {
		if it.LowStock() {
			n++
		}
	}
	return n, nil
}
