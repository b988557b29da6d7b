package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// UseCase publica y administra notificaciones. La vista de un usuario es la
// unión de las broadcast y las dirigidas a él; tras creada, lo único mutable
// es la marca de leído.
type UseCase struct {
	repo repository.NotificationRepository
}

// NewUseCase construye el publicador de notificaciones.
func NewUseCase(repo repository.NotificationRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Publish crea una notificación para el destinatario indicado.
func (uc *UseCase) Publish(recipient entity.Recipient, severity, title, body string) (*entity.Notification, error) {
	switch severity {
	case entity.SeverityInfo, entity.SeveritySuccess, entity.SeverityWarning, entity.SeverityDanger:
	default:
		return nil, domain.ErrInvalidInput
	}
	if title == "" || body == "" {
		return nil, domain.ErrInvalidInput
	}
	n := &entity.Notification{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Severity:  severity,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(n); err != nil {
		return nil, err
	}
	return n, nil
}

// List devuelve las notificaciones visibles para el usuario con su total.
func (uc *UseCase) List(userID string, f repository.NotificationFilter) ([]*entity.Notification, int, error) {
	items, err := uc.repo.ListForUser(userID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.repo.CountForUser(userID, f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// MarkRead marca una notificación como leída.
func (uc *UseCase) MarkRead(id string) error {
	if _, err := uc.repo.GetByID(id); err != nil {
		return err
	}
	return uc.repo.MarkRead(id)
}

// MarkAllRead marca como leídas todas las visibles para el usuario.
func (uc *UseCase) MarkAllRead(userID string) error {
	return uc.repo.MarkAllRead(userID)
}

// UnreadCount cuenta las no leídas visibles para el usuario.
func (uc *UseCase) UnreadCount(userID string) (int, error) {
	return uc.repo.UnreadCount(userID)
}

// DeleteAll elimina todas las visibles para el usuario.
func (uc *UseCase) DeleteAll(userID string) error {
	return uc.repo.DeleteAllForUser(userID)
}
