package dto

import (
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// NotificationFilterRequest filtros de listado de notificaciones (query params).
type NotificationFilterRequest struct {
	PageRequest
	Read     *bool  `query:"read"`
	Severity string `query:"severity"`
}

// NotificationResponse salida de una notificación. Broadcast indica que es
// visible para todos los usuarios; en ese caso UserID va vacío.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Broadcast bool      `json:"broadcast"`
	UserID    string    `json:"user_id,omitempty"`
	Severity  string    `json:"severity"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse lista paginada de notificaciones.
type NotificationListResponse struct {
	Items  []NotificationResponse `json:"items"`
	Unread int                    `json:"unread"`
	Page   PageResponse           `json:"page"`
}

// NewNotificationResponse mapea la entidad a su DTO.
func NewNotificationResponse(n *entity.Notification) NotificationResponse {
	r := NotificationResponse{
		ID:        n.ID,
		Broadcast: n.Recipient.IsBroadcast(),
		Severity:  n.Severity,
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if id, ok := n.Recipient.UserID(); ok {
		r.UserID = id
	}
	return r
}
