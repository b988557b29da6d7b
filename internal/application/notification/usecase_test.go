package notification_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-api/internal/application/notification"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/internal/infrastructure/memory"
)

func newUseCase(t *testing.T) *notification.UseCase {
	t.Helper()
	return notification.NewUseCase(memory.NewNotificationRepository(memory.NewStore()))
}

func TestPublish_Validaciones(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.Publish(entity.BroadcastRecipient(), "critico", "t", "b")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "severidad desconocida")

	_, err = uc.Publish(entity.BroadcastRecipient(), entity.SeverityInfo, "", "b")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin título")

	_, err = uc.Publish(entity.BroadcastRecipient(), entity.SeverityInfo, "t", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin cuerpo")
}

// La vista de un usuario es la unión de las broadcast y las dirigidas a él;
// las dirigidas a otros usuarios no aparecen.
func TestList_UnionBroadcastYDirigidas(t *testing.T) {
	uc := newUseCase(t)
	alice := uuid.New().String()
	bob := uuid.New().String()

	_, err := uc.Publish(entity.BroadcastRecipient(), entity.SeverityInfo, "Para todos", "cuerpo")
	require.NoError(t, err)
	_, err = uc.Publish(entity.TargetedAt(alice), entity.SeverityWarning, "Solo Alice", "cuerpo")
	require.NoError(t, err)
	_, err = uc.Publish(entity.TargetedAt(bob), entity.SeverityWarning, "Solo Bob", "cuerpo")
	require.NoError(t, err)

	ns, total, err := uc.List(alice, repository.NotificationFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	titles := make([]string, 0, len(ns))
	for _, n := range ns {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Para todos")
	assert.Contains(t, titles, "Solo Alice")
	assert.NotContains(t, titles, "Solo Bob")
}

func TestList_FiltraPorSeveridadYLeidas(t *testing.T) {
	uc := newUseCase(t)
	user := uuid.New().String()

	_, err := uc.Publish(entity.BroadcastRecipient(), entity.SeverityInfo, "Info", "cuerpo")
	require.NoError(t, err)
	warn, err := uc.Publish(entity.BroadcastRecipient(), entity.SeverityWarning, "Alerta", "cuerpo")
	require.NoError(t, err)

	ns, total, err := uc.List(user, repository.NotificationFilter{Severity: entity.SeverityWarning, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, ns, 1)
	assert.Equal(t, "Alerta", ns[0].Title)

	require.NoError(t, uc.MarkRead(warn.ID))
	unread := false
	ns, _, err = uc.List(user, repository.NotificationFilter{Read: &unread, Limit: 10})
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, "Info", ns[0].Title)
}

func TestUnreadCountYMarkAllRead(t *testing.T) {
	uc := newUseCase(t)
	user := uuid.New().String()

	for i := 0; i < 3; i++ {
		_, err := uc.Publish(entity.BroadcastRecipient(), entity.SeverityInfo, "Aviso", "cuerpo")
		require.NoError(t, err)
	}
	_, err := uc.Publish(entity.TargetedAt(user), entity.SeverityDanger, "Urgente", "cuerpo")
	require.NoError(t, err)

	n, err := uc.UnreadCount(user)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	require.NoError(t, uc.MarkAllRead(user))
	n, err = uc.UnreadCount(user)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMarkRead_Inexistente(t *testing.T) {
	uc := newUseCase(t)
	err := uc.MarkRead(uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAll_SoloLasVisibles(t *testing.T) {
	uc := newUseCase(t)
	alice := uuid.New().String()
	bob := uuid.New().String()

	_, err := uc.Publish(entity.BroadcastRecipient(), entity.SeverityInfo, "Para todos", "cuerpo")
	require.NoError(t, err)
	_, err = uc.Publish(entity.TargetedAt(bob), entity.SeverityInfo, "Solo Bob", "cuerpo")
	require.NoError(t, err)

	require.NoError(t, uc.DeleteAll(alice))

	_, total, err := uc.List(alice, repository.NotificationFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	// Lo dirigido a Bob sobrevive a la limpieza de Alice.
	_, total, err = uc.List(bob, repository.NotificationFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
