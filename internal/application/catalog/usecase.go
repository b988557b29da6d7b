package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-api/internal/application/ledger"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// UseCase administra el catálogo: artículos y categorías. No toca la
// existencia directamente: el alta inicial y las correcciones manuales pasan
// por el ledger (misma ruta atómica que cualquier movimiento), de modo que el
// invariante de stock no-negativo tiene un único punto de aplicación.
type UseCase struct {
	itemRepo     repository.StockItemRepository
	categoryRepo repository.CategoryRepository
	movRepo      repository.MovementRepository
	auditRepo    repository.AuditRepository
	ledger       *ledger.UseCase
	log          *logger.Logger
}

// NewUseCase construye el caso de uso de catálogo.
func NewUseCase(
	itemRepo repository.StockItemRepository,
	categoryRepo repository.CategoryRepository,
	movRepo repository.MovementRepository,
	auditRepo repository.AuditRepository,
	ledgerUC *ledger.UseCase,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		movRepo:      movRepo,
		auditRepo:    auditRepo,
		ledger:       ledgerUC,
		log:          log.Component("catalog"),
	}
}

// CreateItemInput campos para crear un artículo.
type CreateItemInput struct {
	Name            string
	CategoryID      string
	Unit            string
	InitialQuantity int64
	Threshold       int64
	UnitValue       decimal.Decimal
	Condition       string
	Location        string
	ExpiryDate      *time.Time
	Notes           string
	ActorID         string
}

// UpdateItemInput campos no-stock editables. Punteros nil = sin cambio.
type UpdateItemInput struct {
	Name       *string
	CategoryID *string
	Unit       *string
	Threshold  *int64
	UnitValue  *decimal.Decimal
	Condition  *string
	Location   *string
	ExpiryDate *time.Time
	Notes      *string
	ActorID    string
}

// CreateItem crea el artículo con existencia cero y, si hay stock inicial,
// lo asienta como un ADJUSTMENT del ledger. Así la existencia de todo
// artículo es siempre la suma firmada de sus movimientos.
func (uc *UseCase) CreateItem(ctx context.Context, in CreateItemInput) (*entity.StockItem, error) {
	if in.Name == "" || in.CategoryID == "" || in.Unit == "" || in.Location == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialQuantity < 0 || in.Threshold < 0 || in.UnitValue.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	condition := in.Condition
	if condition == "" {
		condition = entity.ConditionGood
	}
	if !entity.ValidCondition(condition) {
		return nil, domain.ErrInvalidInput
	}
	if cat, err := uc.categoryRepo.GetByID(in.CategoryID); err != nil || cat == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	item := &entity.StockItem{
		ID:         uuid.New().String(),
		Name:       in.Name,
		CategoryID: in.CategoryID,
		Unit:       in.Unit,
		Quantity:   0,
		Threshold:  in.Threshold,
		UnitValue:  in.UnitValue,
		Condition:  condition,
		Location:   in.Location,
		ExpiryDate: in.ExpiryDate,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}

	uc.audit(in.ActorID, entity.AuditActionCreate, item.ID, map[string]interface{}{"name": item.Name})

	if in.InitialQuantity > 0 {
		if _, err := uc.ledger.RecordAdjustment(ctx, ledger.AdjustmentInput{
			ItemID:  item.ID,
			Delta:   in.InitialQuantity,
			Label:   "alta inicial",
			ActorID: in.ActorID,
		}); err != nil {
			return nil, err
		}
	}
	return uc.itemRepo.GetByID(item.ID)
}

// GetItem devuelve un artículo por id.
func (uc *UseCase) GetItem(id string) (*entity.StockItem, error) {
	return uc.itemRepo.GetByID(id)
}

// ListItems lista artículos con filtros y total para paginación.
func (uc *UseCase) ListItems(f repository.ItemFilter) ([]*entity.StockItem, int, error) {
	items, err := uc.itemRepo.List(f)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.itemRepo.Count(f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// LowStockItems artículos en o por debajo del punto de reorden.
func (uc *UseCase) LowStockItems() ([]*entity.StockItem, error) {
	return uc.itemRepo.LowStock()
}

// DamagedOrExpiredItems artículos en condición dañado o vencido.
func (uc *UseCase) DamagedOrExpiredItems() ([]*entity.StockItem, error) {
	return uc.itemRepo.DamagedOrExpired()
}

// UpdateItem modifica campos no-stock. La existencia jamás se edita aquí:
// una corrección de cantidad es RecordAdjustment en el ledger.
func (uc *UseCase) UpdateItem(id string, in UpdateItemInput) (*entity.StockItem, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = *in.Name
	}
	if in.CategoryID != nil {
		if cat, err := uc.categoryRepo.GetByID(*in.CategoryID); err != nil || cat == nil {
			return nil, domain.ErrNotFound
		}
		item.CategoryID = *in.CategoryID
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.Threshold != nil {
		if *in.Threshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.Threshold = *in.Threshold
	}
	if in.UnitValue != nil {
		if in.UnitValue.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.UnitValue = *in.UnitValue
	}
	if in.Condition != nil {
		if !entity.ValidCondition(*in.Condition) {
			return nil, domain.ErrInvalidInput
		}
		item.Condition = *in.Condition
	}
	if in.Location != nil {
		item.Location = *in.Location
	}
	if in.ExpiryDate != nil {
		item.ExpiryDate = in.ExpiryDate
	}
	if in.Notes != nil {
		item.Notes = *in.Notes
	}
	item.UpdatedAt = time.Now()

	if err := uc.itemRepo.Update(item); err != nil {
		return nil, err
	}
	uc.audit(in.ActorID, entity.AuditActionUpdate, item.ID, map[string]interface{}{"name": item.Name})
	return uc.itemRepo.GetByID(id)
}

// DeleteItem elimina un artículo solo si ningún movimiento lo referencia;
// con historial devuelve ErrConflict (integridad referencial del ledger).
func (uc *UseCase) DeleteItem(id, actorID string) error {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	count, err := uc.movRepo.CountByItem(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrConflict
	}
	if err := uc.itemRepo.Delete(id); err != nil {
		return err
	}
	uc.audit(actorID, entity.AuditActionDelete, id, map[string]interface{}{"name": item.Name})
	return nil
}

// CorrectQuantity corrección manual de existencia: delega en el ledger para
// preservar la ruta atómica compare-and-set y el asiento de auditoría.
func (uc *UseCase) CorrectQuantity(ctx context.Context, itemID string, delta int64, note, actorID string) (*entity.Movement, error) {
	return uc.ledger.RecordAdjustment(ctx, ledger.AdjustmentInput{
		ItemID:  itemID,
		Delta:   delta,
		Label:   "corrección manual",
		Note:    note,
		ActorID: actorID,
	})
}

func (uc *UseCase) audit(actorID, action, itemID string, detail map[string]interface{}) {
	payload, _ := json.Marshal(detail)
	entry := &entity.AuditEntry{
		ID:         uuid.New().String(),
		UserID:     actorID,
		Action:     action,
		EntityType: "stock_item",
		EntityID:   itemID,
		Detail:     payload,
		CreatedAt:  time.Now(),
	}
	if err := uc.auditRepo.Create(entry); err != nil {
		uc.log.Error().Err(err).Str("item_id", itemID).Msg("auditoría de catálogo")
	}
}
