// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Se usa en tests y como backend efímero de desarrollo; replica la
// semántica de los adaptadores de PostgreSQL (orden de listados, filtros,
// errores de dominio).
package memory

import (
	"sync"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// Store estado compartido de todos los repositorios en memoria. Los
// repositorios toman el lock por operación; el TxRunner además serializa
// transacciones completas entre sí.
type Store struct {
	mu sync.RWMutex

	items         map[string]*entity.StockItem
	movements     map[string]*entity.Movement
	notifications map[string]*entity.Notification
	audit         map[string]*entity.AuditEntry
	categories    map[string]*entity.Category
	users         map[string]*entity.User

	// Orden de inserción, para listados "más reciente primero" estables
	// incluso con timestamps idénticos.
	movementOrder []string
	notifOrder    []string
	auditOrder    []string

	// Hooks de fallo: si no son nil, la operación correspondiente falla con
	// ese error. Permiten probar que una transacción abortada no deja
	// efectos parciales.
	FailCreateMovement error
	FailSetQuantity    error
}

// NewStore crea un estado vacío.
func NewStore() *Store {
	return &Store{
		items:         make(map[string]*entity.StockItem),
		movements:     make(map[string]*entity.Movement),
		notifications: make(map[string]*entity.Notification),
		audit:         make(map[string]*entity.AuditEntry),
		categories:    make(map[string]*entity.Category),
		users:         make(map[string]*entity.User),
	}
}

// snapshot copia profunda del estado mutado por una transacción del ledger
// (artículos y movimientos). Las demás colecciones solo se escriben fuera de
// transacción, así que no participan del rollback.
type snapshot struct {
	items         map[string]*entity.StockItem
	movements     map[string]*entity.Movement
	movementOrder []string
}

func (s *Store) take() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		items:         make(map[string]*entity.StockItem, len(s.items)),
		movements:     make(map[string]*entity.Movement, len(s.movements)),
		movementOrder: append([]string(nil), s.movementOrder...),
	}
	for id, it := range s.items {
		snap.items[id] = cloneItem(it)
	}
	for id, m := range s.movements {
		snap.movements[id] = cloneMovement(m)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = snap.items
	s.movements = snap.movements
	s.movementOrder = snap.movementOrder
}

func cloneItem(it *entity.StockItem) *entity.StockItem {
	cp := *it
	if it.ExpiryDate != nil {
		d := *it.ExpiryDate
		cp.ExpiryDate = &d
	}
	if it.Category != nil {
		c := *it.Category
		cp.Category = &c
	}
	return &cp
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	cp := *m
	return &cp
}

func cloneNotification(n *entity.Notification) *entity.Notification {
	cp := *n
	return &cp
}

func cloneAuditEntry(e *entity.AuditEntry) *entity.AuditEntry {
	cp := *e
	if e.Detail != nil {
		cp.Detail = append([]byte(nil), e.Detail...)
	}
	return &cp
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		cp.LastLogin = &t
	}
	return &cp
}

func cloneCategory(c *entity.Category) *entity.Category {
	cp := *c
	return &cp
}

// reversed devuelve una copia de ids en orden inverso (más reciente primero).
func reversed(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

func paginate(limit, offset, n int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := offset + limit
	if end > n {
		end = n
	}
	return offset, end
}
