package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-api/internal/application/catalog"
	"github.com/tu-usuario/almacen-api/internal/application/ledger"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/internal/infrastructure/memory"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memory.Store
	uc       *catalog.UseCase
	ledgerUC *ledger.UseCase
	movRepo  *memory.MovementRepo
	actorID  string
	category *entity.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	itemRepo := memory.NewStockItemRepository(store)
	movRepo := memory.NewMovementRepository(store)
	categoryRepo := memory.NewCategoryRepository(store)
	auditRepo := memory.NewAuditRepository(store)
	userRepo := memory.NewUserRepository(store)
	log := logger.Nop()

	ledgerUC := ledger.NewUseCase(
		memory.NewTxRunner(store),
		itemRepo, movRepo,
		memory.NewNotificationRepository(store),
		auditRepo, userRepo, log,
	)
	uc := catalog.NewUseCase(itemRepo, categoryRepo, movRepo, auditRepo, ledgerUC, log)

	now := time.Now()
	category := &entity.Category{
		ID:        uuid.New().String(),
		Name:      "Granos",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, categoryRepo.Create(category))

	return &fixture{
		store:    store,
		uc:       uc,
		ledgerUC: ledgerUC,
		movRepo:  movRepo,
		actorID:  uuid.New().String(),
		category: category,
	}
}

func (f *fixture) createInput() catalog.CreateItemInput {
	return catalog.CreateItemInput{
		Name:       "Arroz blanco",
		CategoryID: f.category.ID,
		Unit:       "kg",
		Threshold:  10,
		UnitValue:  decimal.NewFromFloat(3500.50),
		Location:   "estante A1",
		ActorID:    f.actorID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Artículos
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateItem_ConStockInicial_AsientaAjuste(t *testing.T) {
	f := newFixture(t)
	in := f.createInput()
	in.InitialQuantity = 40

	item, err := f.uc.CreateItem(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(40), item.Quantity)
	assert.Equal(t, entity.ConditionGood, item.Condition, "condición por defecto")

	// El alta inicial debe existir como ajuste del ledger, no como una
	// cantidad escrita a mano: la existencia es recomputable desde el día uno.
	movs, err := f.movRepo.List(repository.MovementFilter{ItemID: item.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementKindAdjustment, movs[0].Kind)
	assert.Equal(t, int64(40), movs[0].Quantity)

	ok, err := f.ledgerUC.CheckItemBalance(item.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateItem_SinStockInicial_NaceEnCero(t *testing.T) {
	f := newFixture(t)

	item, err := f.uc.CreateItem(context.Background(), f.createInput())
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.Quantity)

	movs, err := f.movRepo.List(repository.MovementFilter{ItemID: item.ID, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, movs, "sin stock inicial no debe haber asiento")
}

func TestCreateItem_CategoriaInexistente(t *testing.T) {
	f := newFixture(t)
	in := f.createInput()
	in.CategoryID = uuid.New().String()

	_, err := f.uc.CreateItem(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateItem_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*catalog.CreateItemInput)
	}{
		{"sin nombre", func(in *catalog.CreateItemInput) { in.Name = "" }},
		{"sin unidad", func(in *catalog.CreateItemInput) { in.Unit = "" }},
		{"sin ubicación", func(in *catalog.CreateItemInput) { in.Location = "" }},
		{"stock inicial negativo", func(in *catalog.CreateItemInput) { in.InitialQuantity = -1 }},
		{"umbral negativo", func(in *catalog.CreateItemInput) { in.Threshold = -1 }},
		{"valor unitario negativo", func(in *catalog.CreateItemInput) { in.UnitValue = decimal.NewFromInt(-5) }},
		{"condición desconocida", func(in *catalog.CreateItemInput) { in.Condition = "oxidado" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := f.createInput()
			tc.mutate(&in)
			_, err := f.uc.CreateItem(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUpdateItem_CamposParciales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, err := f.uc.CreateItem(ctx, f.createInput())
	require.NoError(t, err)

	newName := "Arroz integral"
	newThreshold := int64(25)
	updated, err := f.uc.UpdateItem(item.ID, catalog.UpdateItemInput{
		Name:      &newName,
		Threshold: &newThreshold,
		ActorID:   f.actorID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Arroz integral", updated.Name)
	assert.Equal(t, int64(25), updated.Threshold)
	// Los campos no enviados quedan intactos.
	assert.Equal(t, "kg", updated.Unit)
	assert.Equal(t, "estante A1", updated.Location)
}

func TestUpdateItem_NoTocaLaExistencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.createInput()
	in.InitialQuantity = 30
	item, err := f.uc.CreateItem(ctx, in)
	require.NoError(t, err)

	name := "Renombrado"
	updated, err := f.uc.UpdateItem(item.ID, catalog.UpdateItemInput{Name: &name, ActorID: f.actorID})
	require.NoError(t, err)
	assert.Equal(t, int64(30), updated.Quantity, "update de catálogo jamás modifica la existencia")
}

func TestCorrectQuantity_PasaPorElLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.createInput()
	in.InitialQuantity = 10
	item, err := f.uc.CreateItem(ctx, in)
	require.NoError(t, err)

	mov, err := f.uc.CorrectQuantity(ctx, item.ID, -4, "conteo físico", f.actorID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementKindAdjustment, mov.Kind)

	got, err := f.uc.GetItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.Quantity)

	// Una corrección que dejaría la existencia negativa se rechaza completa.
	_, err = f.uc.CorrectQuantity(ctx, item.ID, -10, "", f.actorID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestDeleteItem_ConMovimientos_Conflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := f.createInput()
	in.InitialQuantity = 5
	item, err := f.uc.CreateItem(ctx, in)
	require.NoError(t, err)

	// El alta inicial ya dejó un asiento: el artículo tiene historial.
	err = f.uc.DeleteItem(item.ID, f.actorID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.GetItem(item.ID)
	assert.NoError(t, err, "el artículo debe seguir existiendo tras el rechazo")
}

func TestDeleteItem_SinMovimientos_Elimina(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item, err := f.uc.CreateItem(ctx, f.createInput())
	require.NoError(t, err)

	require.NoError(t, f.uc.DeleteItem(item.ID, f.actorID))

	_, err = f.uc.GetItem(item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListItems_FiltrosYPaginacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Arroz", "Aceite de oliva", "Avena"} {
		in := f.createInput()
		in.Name = name
		_, err := f.uc.CreateItem(ctx, in)
		require.NoError(t, err)
	}

	// Búsqueda por nombre, insensible a mayúsculas.
	items, total, err := f.uc.ListItems(repository.ItemFilter{Search: "aceite", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Aceite de oliva", items[0].Name)

	// Paginación: total completo, página recortada.
	items, total, err = f.uc.ListItems(repository.ItemFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 2)
}

func TestLowStockItems_SoloBajoElUmbral(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	low := f.createInput()
	low.Name = "Casi agotado"
	low.InitialQuantity = 3
	low.Threshold = 5
	_, err := f.uc.CreateItem(ctx, low)
	require.NoError(t, err)

	ok := f.createInput()
	ok.Name = "Bien surtido"
	ok.InitialQuantity = 50
	ok.Threshold = 5
	_, err = f.uc.CreateItem(ctx, ok)
	require.NoError(t, err)

	items, err := f.uc.LowStockItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Casi agotado", items[0].Name)
}

func TestDamagedOrExpiredItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	damaged := f.createInput()
	damaged.Name = "Caja golpeada"
	damaged.Condition = entity.ConditionDamaged
	_, err := f.uc.CreateItem(ctx, damaged)
	require.NoError(t, err)

	good := f.createInput()
	good.Name = "Caja sana"
	_, err = f.uc.CreateItem(ctx, good)
	require.NoError(t, err)

	items, err := f.uc.DamagedOrExpiredItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Caja golpeada", items[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateCategory_NombreDuplicado(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateCategory("Limpieza", "", f.actorID)
	require.NoError(t, err)

	_, err = f.uc.CreateCategory("Limpieza", "otra descripción", f.actorID)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdateCategory_RenombraYValidaDuplicado(t *testing.T) {
	f := newFixture(t)

	cat, err := f.uc.CreateCategory("Bebidas", "", f.actorID)
	require.NoError(t, err)
	_, err = f.uc.CreateCategory("Lácteos", "", f.actorID)
	require.NoError(t, err)

	updated, err := f.uc.UpdateCategory(cat.ID, "Bebidas frías", "con nevera", f.actorID)
	require.NoError(t, err)
	assert.Equal(t, "Bebidas frías", updated.Name)
	assert.Equal(t, "con nevera", updated.Description)

	_, err = f.uc.UpdateCategory(cat.ID, "Lácteos", "", f.actorID)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestDeleteCategory_ConArticulos_Conflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateItem(ctx, f.createInput())
	require.NoError(t, err)

	err = f.uc.DeleteCategory(f.category.ID, f.actorID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDeleteCategory_Vacia_Elimina(t *testing.T) {
	f := newFixture(t)

	cat, err := f.uc.CreateCategory("Temporal", "", f.actorID)
	require.NoError(t, err)
	require.NoError(t, f.uc.DeleteCategory(cat.ID, f.actorID))

	_, err = f.uc.GetCategory(cat.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
