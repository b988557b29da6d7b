package repository

import "github.com/tu-usuario/almacen-api/internal/domain/entity"

// NotificationFilter filtros de listado de notificaciones.
type NotificationFilter struct {
	Read     *bool
	Severity string
	Limit    int
	Offset   int
}

// NotificationRepository define el puerto de persistencia para notificaciones.
// Las consultas por usuario devuelven la unión de broadcast y dirigidas.
type NotificationRepository interface {
	Create(n *entity.Notification) error
	GetByID(id string) (*entity.Notification, error)
	ListForUser(userID string, f NotificationFilter) ([]*entity.Notification, error)
	CountForUser(userID string, f NotificationFilter) (int, error)
	MarkRead(id string) error
	MarkAllRead(userID string) error
	UnreadCount(userID string) (int, error)
	DeleteAllForUser(userID string) error
}
