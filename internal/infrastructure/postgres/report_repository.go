package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura. Todas operan sobre el
// pool en read committed, por lo que solo ven movimientos confirmados.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// TotalInventoryValue suma quantity × unit_value de todos los artículos.
func (r *ReportRepo) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity * unit_value), 0) FROM stock_items`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total inventory value: %w", translateErr(err))
	}
	return total, nil
}

// MonthlyMovementTotals devuelve los 12 meses de un año con las unidades
// entradas y salidas; los meses sin movimientos salen en cero.
func (r *ReportRepo) MonthlyMovementTotals(ctx context.Context, year int) ([]repository.MonthlyTotal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT EXTRACT(MONTH FROM date)::int AS month,
		       COALESCE(SUM(quantity) FILTER (WHERE kind = $2), 0),
		       COALESCE(SUM(quantity) FILTER (WHERE kind = $3), 0)
		FROM movements
		WHERE EXTRACT(YEAR FROM date)::int = $1
		GROUP BY month`,
		year, entity.MovementKindIn, entity.MovementKindOut)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", translateErr(err))
	}
	defer rows.Close()

	totals := make([]repository.MonthlyTotal, 12)
	for i := range totals {
		totals[i].Month = i + 1
	}
	for rows.Next() {
		var month int
		var in, out int64
		if err := rows.Scan(&month, &in, &out); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", translateErr(err))
		}
		if month >= 1 && month <= 12 {
			totals[month-1].Inbound = in
			totals[month-1].Outbound = out
		}
	}
	return totals, rows.Err()
}

// MonthTotals devuelve entradas y salidas de un mes puntual.
func (r *ReportRepo) MonthTotals(ctx context.Context, year, month int) (int64, int64, error) {
	var in, out int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity) FILTER (WHERE kind = $3), 0),
		       COALESCE(SUM(quantity) FILTER (WHERE kind = $4), 0)
		FROM movements
		WHERE EXTRACT(YEAR FROM date)::int = $1
		  AND EXTRACT(MONTH FROM date)::int = $2`,
		year, month, entity.MovementKindIn, entity.MovementKindOut).Scan(&in, &out)
	if err != nil {
		return 0, 0, fmt.Errorf("month totals: %w", translateErr(err))
	}
	return in, out, nil
}

// TopConsumedItems artículos con mayor volumen de salidas.
func (r *ReportRepo) TopConsumedItems(ctx context.Context, limit int) ([]repository.ItemConsumption, error) {
	rows, err := r.q.Query(ctx, `
		SELECT m.item_id, i.name, SUM(m.quantity)
		FROM movements m
		JOIN stock_items i ON i.id = m.item_id
		WHERE m.kind = $1
		GROUP BY m.item_id, i.name
		ORDER BY SUM(m.quantity) DESC
		LIMIT $2`,
		entity.MovementKindOut, limit)
	if err != nil {
		return nil, fmt.Errorf("top consumed: %w", translateErr(err))
	}
	defer rows.Close()

	var items []repository.ItemConsumption
	for rows.Next() {
		var ic repository.ItemConsumption
		if err := rows.Scan(&ic.ItemID, &ic.Name, &ic.Total); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", translateErr(err))
		}
		items = append(items, ic)
	}
	return items, rows.Err()
}

// OutboundByReason salidas agrupadas por motivo dentro del rango dado.
func (r *ReportRepo) OutboundByReason(ctx context.Context, from, to *time.Time) ([]repository.ReasonBreakdown, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT counterparty, COUNT(*), SUM(quantity)
		FROM movements
		WHERE kind = $1`)
	args := []interface{}{entity.MovementKindOut}
	if from != nil {
		args = append(args, *from)
		sb.WriteString(" AND date >= $" + strconv.Itoa(len(args)))
	}
	if to != nil {
		args = append(args, *to)
		sb.WriteString(" AND date <= $" + strconv.Itoa(len(args)))
	}
	sb.WriteString(`
		GROUP BY counterparty
		ORDER BY SUM(quantity) DESC`)

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("outbound by reason: %w", translateErr(err))
	}
	defer rows.Close()

	var out []repository.ReasonBreakdown
	for rows.Next() {
		var rb repository.ReasonBreakdown
		if err := rows.Scan(&rb.Reason, &rb.Count, &rb.Total); err != nil {
			return nil, fmt.Errorf("scan reason: %w", translateErr(err))
		}
		out = append(out, rb)
	}
	return out, rows.Err()
}

// CountItems total de artículos en catálogo.
func (r *ReportRepo) CountItems(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", translateErr(err))
	}
	return n, nil
}

// CountLowStockItems artículos con existencias en o bajo su umbral.
func (r *ReportRepo) CountLowStockItems(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM stock_items WHERE quantity <= threshold`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count low stock: %w", translateErr(err))
	}
	return n, nil
}
