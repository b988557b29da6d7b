package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación en memoria de StockItemRepository.
type StockItemRepo struct {
	s *Store
}

// NewStockItemRepository construye el adaptador de artículos sobre el Store.
func NewStockItemRepository(s *Store) *StockItemRepo {
	return &StockItemRepo{s: s}
}

// Create inserta un artículo; id repetido -> ErrDuplicate.
func (r *StockItemRepo) Create(item *entity.StockItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

// GetByID obtiene un artículo con su categoría.
func (r *StockItemRepo) GetByID(id string) (*entity.StockItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := cloneItem(it)
	if cat, ok := r.s.categories[cp.CategoryID]; ok {
		cp.Category = cloneCategory(cat)
	}
	return cp, nil
}

// GetForUpdate lee el artículo para modificarlo. La exclusión la da el
// TxRunner, que serializa las transacciones completas.
func (r *StockItemRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	it, ok := r.s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneItem(it), nil
}

// Update modifica campos no-stock; Quantity se conserva.
func (r *StockItemRepo) Update(item *entity.StockItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := cloneItem(item)
	cp.Quantity = cur.Quantity
	cp.CreatedAt = cur.CreatedAt
	r.s.items[item.ID] = cp
	return nil
}

// SetQuantity fija la existencia bajo la transacción del ledger.
func (r *StockItemRepo) SetQuantity(id string, quantity int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailSetQuantity; err != nil {
		return err
	}
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if quantity < 0 {
		// Última defensa, como el CHECK del esquema.
		return domain.ErrInsufficientStock
	}
	it.Quantity = quantity
	it.UpdatedAt = time.Now()
	return nil
}

// List lista artículos según filtros, últimas actualizaciones primero.
func (r *StockItemRepo) List(f repository.ItemFilter) ([]*entity.StockItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := r.filtered(f)
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	from, to := paginate(f.Limit, f.Offset, len(matched))
	out := make([]*entity.StockItem, 0, to-from)
	for _, it := range matched[from:to] {
		cp := cloneItem(it)
		if cat, ok := r.s.categories[cp.CategoryID]; ok {
			cp.Category = cloneCategory(cat)
		}
		out = append(out, cp)
	}
	return out, nil
}

// Count cuenta artículos según filtros.
func (r *StockItemRepo) Count(f repository.ItemFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.filtered(f)), nil
}

// Delete elimina un artículo; con movimientos registrados -> ErrConflict
// (equivalente a la FK RESTRICT de movements).
func (r *StockItemRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[id]; !ok {
		return domain.ErrNotFound
	}
	for _, m := range r.s.movements {
		if m.ItemID == id {
			return domain.ErrConflict
		}
	}
	delete(r.s.items, id)
	return nil
}

// LowStock artículos en o por debajo del punto de reorden.
func (r *StockItemRepo) LowStock() ([]*entity.StockItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.StockItem
	for _, it := range r.s.items {
		if it.LowStock() {
			out = append(out, cloneItem(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out, nil
}

// DamagedOrExpired artículos en condición dañado o vencido.
func (r *StockItemRepo) DamagedOrExpired() ([]*entity.StockItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.StockItem
	for _, it := range r.s.items {
		if it.Condition == entity.ConditionDamaged || it.Condition == entity.ConditionExpired {
			out = append(out, cloneItem(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// filtered aplica ItemFilter; llamar con el lock tomado.
func (r *StockItemRepo) filtered(f repository.ItemFilter) []*entity.StockItem {
	var out []*entity.StockItem
	for _, it := range r.s.items {
		if f.CategoryID != "" && it.CategoryID != f.CategoryID {
			continue
		}
		if f.Condition != "" && it.Condition != f.Condition {
			continue
		}
		switch f.StockStatus {
		case repository.StockStatusLow:
			if !it.LowStock() {
				continue
			}
		case repository.StockStatusNormal:
			if it.LowStock() {
				continue
			}
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, it)
	}
	return out
}
