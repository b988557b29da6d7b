package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL.
// Solo inserta y lee: la tabla movements no tiene UPDATE ni DELETE en el core.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementSelect = `
	SELECT m.id, m.item_id, m.kind, m.quantity, m.date, m.counterparty,
	       m.note, m.created_by, m.created_at,
	       i.name, i.unit, u.name
	FROM movements m
	LEFT JOIN stock_items i ON i.id = m.item_id
	LEFT JOIN users u ON u.id = m.created_by`

// Create inserta un asiento del ledger.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO movements (
			id, item_id, kind, quantity, date, counterparty, note, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ItemID, m.Kind, m.Quantity, m.Date, m.Counterparty,
		nullableText(m.Note), m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", translateErr(err))
	}
	return nil
}

// GetByID obtiene un asiento con artículo y autor.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	row := r.q.QueryRow(context.Background(), movementSelect+` WHERE m.id = $1`, id)
	return scanMovement(row)
}

// List lista asientos según filtros, más recientes primero.
func (r *MovementRepo) List(f repository.MovementFilter) ([]*entity.Movement, error) {
	sql, args := buildMovementFilter(movementSelect, f, true)
	rows, err := r.q.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", translateErr(err))
	}
	defer rows.Close()

	var movs []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movs = append(movs, m)
	}
	return movs, rows.Err()
}

// Count cuenta asientos según filtros.
func (r *MovementRepo) Count(f repository.MovementFilter) (int, error) {
	sql, args := buildMovementFilter(`SELECT COUNT(*) FROM movements m`, f, false)
	var count int
	if err := r.q.QueryRow(context.Background(), sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count movements: %w", translateErr(err))
	}
	return count, nil
}

// CountByItem cuenta los asientos de un artículo (guard de borrado).
func (r *MovementRepo) CountByItem(itemID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM movements WHERE item_id = $1`, itemID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count movements by item: %w", translateErr(err))
	}
	return count, nil
}

// SignedSumByItem suma firmada de todos los movimientos de un artículo.
// OUT resta; IN y ADJUSTMENT (ya firmado) suman.
func (r *MovementRepo) SignedSumByItem(itemID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(CASE WHEN kind = $2 THEN -quantity ELSE quantity END), 0)
		FROM movements WHERE item_id = $1`,
		itemID, entity.MovementKindOut).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("signed sum by item: %w", translateErr(err))
	}
	return sum, nil
}

func buildMovementFilter(base string, f repository.MovementFilter, paginate bool) (string, []any) {
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString(" WHERE 1=1")
	var args []any

	if f.Kind != "" {
		args = append(args, f.Kind)
		sb.WriteString(" AND m.kind = $" + strconv.Itoa(len(args)))
	}
	if f.ItemID != "" {
		args = append(args, f.ItemID)
		sb.WriteString(" AND m.item_id = $" + strconv.Itoa(len(args)))
	}
	if f.Counterparty != "" {
		args = append(args, f.Counterparty)
		sb.WriteString(" AND m.counterparty = $" + strconv.Itoa(len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		sb.WriteString(" AND m.date >= $" + strconv.Itoa(len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		sb.WriteString(" AND m.date <= $" + strconv.Itoa(len(args)))
	}
	if paginate {
		sb.WriteString(" ORDER BY m.created_at DESC")
		limit := f.Limit
		if limit <= 0 {
			limit = 20
		}
		args = append(args, limit)
		sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
		if f.Offset > 0 {
			args = append(args, f.Offset)
			sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
		}
	}
	return sb.String(), args
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var note, itemName, itemUnit, userName *string
	err := row.Scan(
		&m.ID, &m.ItemID, &m.Kind, &m.Quantity, &m.Date, &m.Counterparty,
		&note, &m.CreatedBy, &m.CreatedAt, &itemName, &itemUnit, &userName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan movement: %w", translateErr(err))
	}
	if note != nil {
		m.Note = *note
	}
	if itemName != nil {
		m.ItemName = *itemName
	}
	if itemUnit != nil {
		m.ItemUnit = *itemUnit
	}
	if userName != nil {
		m.CreatedByName = *userName
	}
	return &m, nil
}
