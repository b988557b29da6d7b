package memory

import (
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación en memoria de NotificationRepository.
type NotificationRepo struct {
	s *Store
}

// NewNotificationRepository construye el adaptador de notificaciones sobre el Store.
func NewNotificationRepository(s *Store) *NotificationRepo {
	return &NotificationRepo{s: s}
}

// Create inserta una notificación.
func (r *NotificationRepo) Create(n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.notifications[n.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.notifications[n.ID] = cloneNotification(n)
	r.s.notifOrder = append(r.s.notifOrder, n.ID)
	return nil
}

// GetByID obtiene una notificación.
func (r *NotificationRepo) GetByID(id string) (*entity.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneNotification(n), nil
}

// ListForUser lista la unión de broadcast y dirigidas al usuario,
// más recientes primero.
func (r *NotificationRepo) ListForUser(userID string, f repository.NotificationFilter) ([]*entity.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []*entity.Notification
	for _, id := range reversed(r.s.notifOrder) {
		n := r.s.notifications[id]
		if visibleTo(n, userID) && matchesNotification(n, f) {
			matched = append(matched, n)
		}
	}
	from, to := paginate(f.Limit, f.Offset, len(matched))
	out := make([]*entity.Notification, 0, to-from)
	for _, n := range matched[from:to] {
		out = append(out, cloneNotification(n))
	}
	return out, nil
}

// CountForUser cuenta las visibles para el usuario según filtros.
func (r *NotificationRepo) CountForUser(userID string, f repository.NotificationFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, notif := range r.s.notifications {
		if visibleTo(notif, userID) && matchesNotification(notif, f) {
			n++
		}
	}
	return n, nil
}

// MarkRead marca una notificación como leída.
func (r *NotificationRepo) MarkRead(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.Read = true
	return nil
}

// MarkAllRead marca como leídas todas las visibles para el usuario.
func (r *NotificationRepo) MarkAllRead(userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if visibleTo(n, userID) {
			n.Read = true
		}
	}
	return nil
}

// UnreadCount cuenta las no leídas visibles para el usuario.
func (r *NotificationRepo) UnreadCount(userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, notif := range r.s.notifications {
		if visibleTo(notif, userID) && !notif.Read {
			n++
		}
	}
	return n, nil
}

// DeleteAllForUser elimina todas las visibles para el usuario.
func (r *NotificationRepo) DeleteAllForUser(userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	remaining := r.s.notifOrder[:0]
	for _, id := range r.s.notifOrder {
		if visibleTo(r.s.notifications[id], userID) {
			delete(r.s.notifications, id)
			continue
		}
		remaining = append(remaining, id)
	}
	r.s.notifOrder = remaining
	return nil
}

func visibleTo(n *entity.Notification, userID string) bool {
	if n.Recipient.IsBroadcast() {
		return true
	}
	target, _ := n.Recipient.UserID()
	return target == userID
}

func matchesNotification(n *entity.Notification, f repository.NotificationFilter) bool {
	if f.Read != nil && n.Read != *f.Read {
		return false
	}
	if f.Severity != "" && n.Severity != f.Severity {
		return false
	}
	return true
}
