package memory

import (
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria de MovementRepository. Solo inserta
// y lee, igual que el adaptador de PostgreSQL.
type MovementRepo struct {
	s *Store
}

// NewMovementRepository construye el adaptador de movimientos sobre el Store.
func NewMovementRepository(s *Store) *MovementRepo {
	return &MovementRepo{s: s}
}

// Create inserta un asiento del ledger.
func (r *MovementRepo) Create(m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.FailCreateMovement; err != nil {
		return err
	}
	if _, ok := r.s.movements[m.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.s.items[m.ItemID]; !ok {
		return domain.ErrConflict
	}
	r.s.movements[m.ID] = cloneMovement(m)
	r.s.movementOrder = append(r.s.movementOrder, m.ID)
	return nil
}

// GetByID obtiene un asiento con artículo y autor.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.enrich(m), nil
}

// List lista asientos según filtros, más recientes primero.
func (r *MovementRepo) List(f repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []*entity.Movement
	for _, id := range reversed(r.s.movementOrder) {
		m := r.s.movements[id]
		if r.matches(m, f) {
			matched = append(matched, m)
		}
	}
	from, to := paginate(f.Limit, f.Offset, len(matched))
	out := make([]*entity.Movement, 0, to-from)
	for _, m := range matched[from:to] {
		out = append(out, r.enrich(m))
	}
	return out, nil
}

// Count cuenta asientos según filtros.
func (r *MovementRepo) Count(f repository.MovementFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, m := range r.s.movements {
		if r.matches(m, f) {
			n++
		}
	}
	return n, nil
}

// CountByItem cuenta los asientos de un artículo.
func (r *MovementRepo) CountByItem(itemID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, m := range r.s.movements {
		if m.ItemID == itemID {
			n++
		}
	}
	return n, nil
}

// SignedSumByItem suma firmada de los movimientos de un artículo.
func (r *MovementRepo) SignedSumByItem(itemID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var sum int64
	for _, m := range r.s.movements {
		if m.ItemID == itemID {
			sum += m.SignedQuantity()
		}
	}
	return sum, nil
}

func (r *MovementRepo) matches(m *entity.Movement, f repository.MovementFilter) bool {
	if f.Kind != "" && m.Kind != f.Kind {
		return false
	}
	if f.ItemID != "" && m.ItemID != f.ItemID {
		return false
	}
	if f.Counterparty != "" && m.Counterparty != f.Counterparty {
		return false
	}
	if f.From != nil && m.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && m.Date.After(*f.To) {
		return false
	}
	return true
}

// enrich rellena los campos de lectura; llamar con el lock tomado.
func (r *MovementRepo) enrich(m *entity.Movement) *entity.Movement {
	cp := cloneMovement(m)
	if it, ok := r.s.items[m.ItemID]; ok {
		cp.ItemName = it.Name
		cp.ItemUnit = it.Unit
	}
	if u, ok := r.s.users[m.CreatedBy]; ok {
		cp.CreatedByName = u.Name
	}
	return cp
}
