package audit_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-api/internal/application/audit"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/internal/infrastructure/memory"
)

func newUseCase(t *testing.T) (*audit.UseCase, *memory.AuditRepo) {
	t.Helper()
	repo := memory.NewAuditRepository(memory.NewStore())
	return audit.NewUseCase(repo), repo
}

func TestRecord_GuardaQuienHizoQue(t *testing.T) {
	uc, _ := newUseCase(t)
	actor := uuid.New().String()

	entry, err := uc.Record(actor, entity.AuditActionCreate, "stock_item", "item-1",
		map[string]interface{}{"name": "Harina"})
	require.NoError(t, err)

	assert.Equal(t, actor, entry.UserID)
	assert.Equal(t, entity.AuditActionCreate, entry.Action)
	assert.Equal(t, "stock_item", entry.EntityType)
	assert.JSONEq(t, `{"name":"Harina"}`, string(entry.Detail))
}

func TestRecord_Validaciones(t *testing.T) {
	uc, _ := newUseCase(t)

	_, err := uc.Record("", entity.AuditActionCreate, "stock_item", "x", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin actor")

	_, err = uc.Record(uuid.New().String(), "", "stock_item", "x", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin acción")
}

func TestList_FiltraPorUsuarioYTipo(t *testing.T) {
	uc, _ := newUseCase(t)
	alice := uuid.New().String()
	bob := uuid.New().String()

	_, err := uc.Record(alice, entity.AuditActionCreate, "stock_item", "i1", nil)
	require.NoError(t, err)
	_, err = uc.Record(alice, entity.AuditActionLogin, "user", alice, nil)
	require.NoError(t, err)
	_, err = uc.Record(bob, entity.AuditActionDelete, "stock_item", "i2", nil)
	require.NoError(t, err)

	entries, total, err := uc.List(repository.AuditFilter{UserID: alice, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, e := range entries {
		assert.Equal(t, alice, e.UserID)
	}

	_, total, err = uc.List(repository.AuditFilter{EntityType: "stock_item", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestForUser_MasRecientePrimero(t *testing.T) {
	uc, _ := newUseCase(t)
	actor := uuid.New().String()

	_, err := uc.Record(actor, entity.AuditActionCreate, "stock_item", "i1", nil)
	require.NoError(t, err)
	_, err = uc.Record(actor, entity.AuditActionUpdate, "stock_item", "i1", nil)
	require.NoError(t, err)

	entries, err := uc.ForUser(actor, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.AuditActionUpdate, entries[0].Action)
}

func TestPrune_BorraSoloFueraDeLaVentana(t *testing.T) {
	uc, repo := newUseCase(t)
	actor := uuid.New().String()

	// Un asiento viejo insertado directo, fuera de la ventana de retención.
	old := &entity.AuditEntry{
		ID:        uuid.New().String(),
		UserID:    actor,
		Action:    entity.AuditActionCreate,
		CreatedAt: time.Now().AddDate(0, 0, -90),
	}
	require.NoError(t, repo.Create(old))
	_, err := uc.Record(actor, entity.AuditActionUpdate, "stock_item", "i1", nil)
	require.NoError(t, err)

	deleted, err := uc.Prune(30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	entries, err := uc.ForUser(actor, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AuditActionUpdate, entries[0].Action)
}

func TestPrune_VentanaInvalida(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Prune(0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
