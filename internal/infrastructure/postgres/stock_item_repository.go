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

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL
// (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador de artículos. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

const itemColumns = `
	i.id, i.name, i.category_id, i.unit, i.quantity, i.threshold, i.unit_value,
	i.condition, i.location, i.expiry_date, i.notes, i.created_at, i.updated_at,
	c.name, c.description`

const itemSelect = `
	SELECT ` + itemColumns + `
	FROM stock_items i
	LEFT JOIN categories c ON c.id = i.category_id`

// Create inserta un artículo. La existencia inicial siempre es la del struct
// (cero desde el catálogo; el alta inicial entra como movimiento).
func (r *StockItemRepo) Create(item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (
			id, name, category_id, unit, quantity, threshold, unit_value,
			condition, location, expiry_date, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.CategoryID, item.Unit, item.Quantity,
		item.Threshold, item.UnitValue, item.Condition, item.Location,
		item.ExpiryDate, nullableText(item.Notes), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock item: %w", translateErr(err))
	}
	return nil
}

// GetByID obtiene un artículo con su categoría.
func (r *StockItemRepo) GetByID(id string) (*entity.StockItem, error) {
	row := r.q.QueryRow(context.Background(), itemSelect+` WHERE i.id = $1`, id)
	return scanItem(row)
}

// GetForUpdate obtiene el artículo bloqueando su fila (SELECT ... FOR UPDATE).
// El lock vive hasta el commit/rollback de la transacción del Querier; toda
// verificación y escritura de existencia debe hacerse con este lock tomado.
func (r *StockItemRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	query := `
		SELECT id, name, category_id, unit, quantity, threshold, unit_value,
		       condition, location, expiry_date, notes, created_at, updated_at
		FROM stock_items WHERE id = $1
		FOR UPDATE`
	var s entity.StockItem
	var notes *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Name, &s.CategoryID, &s.Unit, &s.Quantity, &s.Threshold,
		&s.UnitValue, &s.Condition, &s.Location, &s.ExpiryDate, &notes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get stock item for update: %w", translateErr(err))
	}
	if notes != nil {
		s.Notes = *notes
	}
	return &s, nil
}

// Update modifica campos no-stock. Quantity queda fuera a propósito.
func (r *StockItemRepo) Update(item *entity.StockItem) error {
	query := `
		UPDATE stock_items SET
			name = $2, category_id = $3, unit = $4, threshold = $5,
			unit_value = $6, condition = $7, location = $8, expiry_date = $9,
			notes = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.CategoryID, item.Unit, item.Threshold,
		item.UnitValue, item.Condition, item.Location, item.ExpiryDate,
		nullableText(item.Notes), item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock item: %w", translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetQuantity fija la existencia. Solo el ledger la invoca, con la fila ya
// bloqueada por GetForUpdate en la misma transacción; el CHECK quantity >= 0
// del esquema es la última línea de defensa.
func (r *StockItemRepo) SetQuantity(id string, quantity int64) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE stock_items SET quantity = $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("set quantity: %w", translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista artículos según filtros, ordenados por última actualización.
func (r *StockItemRepo) List(f repository.ItemFilter) ([]*entity.StockItem, error) {
	sql, args := buildItemFilter(itemSelect, f, true)
	rows, err := r.q.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", translateErr(err))
	}
	defer rows.Close()
	return scanItems(rows)
}

// Count cuenta artículos según filtros (paginación).
func (r *StockItemRepo) Count(f repository.ItemFilter) (int, error) {
	sql, args := buildItemFilter(`SELECT COUNT(*) FROM stock_items i`, f, false)
	var count int
	if err := r.q.QueryRow(context.Background(), sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count stock items: %w", translateErr(err))
	}
	return count, nil
}

// Delete elimina un artículo. El guard de historial lo aplica el catálogo;
// la FK RESTRICT de movements responde si una escritura concurrente lo burla.
func (r *StockItemRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM stock_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock item: %w", translateErr(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LowStock artículos en o por debajo del punto de reorden, los más críticos primero.
func (r *StockItemRepo) LowStock() ([]*entity.StockItem, error) {
	rows, err := r.q.Query(context.Background(),
		itemSelect+` WHERE i.quantity <= i.threshold ORDER BY i.quantity ASC`)
	if err != nil {
		return nil, fmt.Errorf("low stock items: %w", translateErr(err))
	}
	defer rows.Close()
	return scanItems(rows)
}

// DamagedOrExpired artículos en condición dañado o vencido.
func (r *StockItemRepo) DamagedOrExpired() ([]*entity.StockItem, error) {
	rows, err := r.q.Query(context.Background(),
		itemSelect+` WHERE i.condition IN ($1, $2) ORDER BY i.updated_at DESC`,
		entity.ConditionDamaged, entity.ConditionExpired)
	if err != nil {
		return nil, fmt.Errorf("damaged items: %w", translateErr(err))
	}
	defer rows.Close()
	return scanItems(rows)
}

// buildItemFilter arma el WHERE dinámico compartido por List y Count.
func buildItemFilter(base string, f repository.ItemFilter, paginate bool) (string, []any) {
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString(" WHERE 1=1")
	var args []any

	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		sb.WriteString(" AND i.category_id = $" + strconv.Itoa(len(args)))
	}
	if f.Condition != "" {
		args = append(args, f.Condition)
		sb.WriteString(" AND i.condition = $" + strconv.Itoa(len(args)))
	}
	switch f.StockStatus {
	case repository.StockStatusLow:
		sb.WriteString(" AND i.quantity <= i.threshold")
	case repository.StockStatusNormal:
		sb.WriteString(" AND i.quantity > i.threshold")
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		sb.WriteString(" AND i.name ILIKE $" + strconv.Itoa(len(args)))
	}
	if paginate {
		sb.WriteString(" ORDER BY i.updated_at DESC")
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

func scanItem(row pgx.Row) (*entity.StockItem, error) {
	var s entity.StockItem
	var notes, catName, catDesc *string
	err := row.Scan(
		&s.ID, &s.Name, &s.CategoryID, &s.Unit, &s.Quantity, &s.Threshold,
		&s.UnitValue, &s.Condition, &s.Location, &s.ExpiryDate, &notes,
		&s.CreatedAt, &s.UpdatedAt, &catName, &catDesc,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan stock item: %w", translateErr(err))
	}
	if notes != nil {
		s.Notes = *notes
	}
	if catName != nil {
		s.Category = &entity.Category{ID: s.CategoryID, Name: *catName}
		if catDesc != nil {
			s.Category.Description = *catDesc
		}
	}
	return &s, nil
}

func scanItems(rows pgx.Rows) ([]*entity.StockItem, error) {
	var items []*entity.StockItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
