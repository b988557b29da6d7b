package memory

import (
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación en memoria de AuditRepository.
type AuditRepo struct {
	s *Store
}

// NewAuditRepository construye el adaptador de auditoría sobre el Store.
func NewAuditRepository(s *Store) *AuditRepo {
	return &AuditRepo{s: s}
}

// Create inserta un asiento de auditoría.
func (r *AuditRepo) Create(e *entity.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.audit[e.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.audit[e.ID] = cloneAuditEntry(e)
	r.s.auditOrder = append(r.s.auditOrder, e.ID)
	return nil
}

// List lista asientos según filtros, más recientes primero.
func (r *AuditRepo) List(f repository.AuditFilter) ([]*entity.AuditEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []*entity.AuditEntry
	for _, id := range reversed(r.s.auditOrder) {
		e := r.s.audit[id]
		if matchesAudit(e, f) {
			matched = append(matched, e)
		}
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	from, to := paginate(limit, f.Offset, len(matched))
	out := make([]*entity.AuditEntry, 0, to-from)
	for _, e := range matched[from:to] {
		out = append(out, r.enrich(e))
	}
	return out, nil
}

// Count cuenta asientos según filtros.
func (r *AuditRepo) Count(f repository.AuditFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, e := range r.s.audit {
		if matchesAudit(e, f) {
			n++
		}
	}
	return n, nil
}

// ListByUser últimos asientos de un usuario.
func (r *AuditRepo) ListByUser(userID string, limit int) ([]*entity.AuditEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.AuditEntry
	for _, id := range reversed(r.s.auditOrder) {
		e := r.s.audit[id]
		if e.UserID != userID {
			continue
		}
		out = append(out, r.enrich(e))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// DeleteOlderThan poda por retención; devuelve asientos eliminados.
func (r *AuditRepo) DeleteOlderThan(days int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -days)
	var deleted int64
	remaining := r.s.auditOrder[:0]
	for _, id := range r.s.auditOrder {
		if r.s.audit[id].CreatedAt.Before(cutoff) {
			delete(r.s.audit, id)
			deleted++
			continue
		}
		remaining = append(remaining, id)
	}
	r.s.auditOrder = remaining
	return deleted, nil
}

func matchesAudit(e *entity.AuditEntry, f repository.AuditFilter) bool {
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.EntityType != "" && e.EntityType != f.EntityType {
		return false
	}
	if f.From != nil && e.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// enrich rellena nombre y email del autor; llamar con el lock tomado.
func (r *AuditRepo) enrich(e *entity.AuditEntry) *entity.AuditEntry {
	cp := cloneAuditEntry(e)
	if u, ok := r.s.users[e.UserID]; ok {
		cp.UserName = u.Name
		cp.UserEmail = u.Email
	}
	return cp
}
