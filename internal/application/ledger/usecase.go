package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

// UseCase es el ledger de movimientos: el único escritor de la existencia de
// un artículo. Cada registro bloquea la fila del artículo (SELECT FOR UPDATE),
// inserta el asiento y ajusta la cantidad dentro de una transacción; el
// invariante Quantity >= 0 se verifica con la fila bloqueada, nunca con una
// lectura previa separada.
//
// Los efectos posteriores (auditoría, notificaciones, alerta de stock bajo)
// se ejecutan solo tras el commit y son best-effort: su fallo se registra en
// el log pero no revierte el movimiento ya confirmado.
type UseCase struct {
	txRunner  TxRunner
	itemRepo  repository.StockItemRepository
	movRepo   repository.MovementRepository
	notifRepo repository.NotificationRepository
	auditRepo repository.AuditRepository
	userRepo  repository.UserRepository
	log       *logger.Logger
}

// NewUseCase construye el ledger. itemRepo y movRepo aquí son los atados al
// pool (lecturas y efectos post-commit); los de la transacción los provee el
// TxRunner.
func NewUseCase(
	txRunner TxRunner,
	itemRepo repository.StockItemRepository,
	movRepo repository.MovementRepository,
	notifRepo repository.NotificationRepository,
	auditRepo repository.AuditRepository,
	userRepo repository.UserRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		itemRepo:  itemRepo,
		movRepo:   movRepo,
		notifRepo: notifRepo,
		auditRepo: auditRepo,
		userRepo:  userRepo,
		log:       log.Component("ledger"),
	}
}

// InboundInput entrada para registrar una recepción de stock.
type InboundInput struct {
	ItemID   string
	Quantity int64
	Date     time.Time
	Supplier string
	Note     string
	ActorID  string
}

// OutboundInput entrada para registrar una salida de stock.
type OutboundInput struct {
	ItemID   string
	Quantity int64
	Date     time.Time
	Reason   string
	Note     string
	ActorID  string
}

// AdjustmentInput entrada para una corrección manual con delta firmado.
// Un delta negativo que dejaría la existencia por debajo de cero falla con
// ErrInsufficientStock, igual que una salida.
type AdjustmentInput struct {
	ItemID  string
	Delta   int64
	Date    time.Time
	Label   string
	Note    string
	ActorID string
}

// RecordInbound registra una entrada: inserta el asiento y suma Quantity en
// la misma transacción. Siempre procede si el artículo existe y Quantity > 0
// (no hay cota superior de stock).
func (uc *UseCase) RecordInbound(ctx context.Context, in InboundInput) (*entity.Movement, error) {
	if in.ItemID == "" || in.Quantity <= 0 || in.Supplier == "" || in.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	mov := &entity.Movement{
		ID:           uuid.New().String(),
		ItemID:       in.ItemID,
		Kind:         entity.MovementKindIn,
		Quantity:     in.Quantity,
		Date:         movementDate(in.Date),
		Counterparty: in.Supplier,
		Note:         in.Note,
		CreatedBy:    in.ActorID,
		CreatedAt:    time.Now(),
	}

	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, itemRepo repository.StockItemRepository) error {
		item, err := itemRepo.GetForUpdate(in.ItemID)
		if err != nil {
			return err
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		return itemRepo.SetQuantity(item.ID, item.Quantity+in.Quantity)
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(mov, entity.AuditActionInbound, false)
	return mov, nil
}

// RecordOutbound registra una salida. La verificación de existencia
// suficiente y el decremento ocurren con la fila bloqueada: de dos salidas
// concurrentes que juntas exceden el stock, exactamente una recibe
// ErrInsufficientStock y la otra confirma.
func (uc *UseCase) RecordOutbound(ctx context.Context, in OutboundInput) (*entity.Movement, error) {
	if in.ItemID == "" || in.Quantity <= 0 || in.Reason == "" || in.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	mov := &entity.Movement{
		ID:           uuid.New().String(),
		ItemID:       in.ItemID,
		Kind:         entity.MovementKindOut,
		Quantity:     in.Quantity,
		Date:         movementDate(in.Date),
		Counterparty: in.Reason,
		Note:         in.Note,
		CreatedBy:    in.ActorID,
		CreatedAt:    time.Now(),
	}

	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, itemRepo repository.StockItemRepository) error {
		item, err := itemRepo.GetForUpdate(in.ItemID)
		if err != nil {
			return err
		}
		if item.Quantity < in.Quantity {
			return domain.ErrInsufficientStock
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		return itemRepo.SetQuantity(item.ID, item.Quantity-in.Quantity)
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(mov, entity.AuditActionOutbound, true)
	return mov, nil
}

// RecordAdjustment registra una corrección manual por la misma ruta atómica.
// Las correcciones de movimientos previos se modelan así: un nuevo asiento
// compensatorio, nunca la edición del asiento original.
func (uc *UseCase) RecordAdjustment(ctx context.Context, in AdjustmentInput) (*entity.Movement, error) {
	if in.ItemID == "" || in.Delta == 0 || in.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	label := in.Label
	if label == "" {
		label = "ajuste manual"
	}
	mov := &entity.Movement{
		ID:           uuid.New().String(),
		ItemID:       in.ItemID,
		Kind:         entity.MovementKindAdjustment,
		Quantity:     in.Delta,
		Date:         movementDate(in.Date),
		Counterparty: label,
		Note:         in.Note,
		CreatedBy:    in.ActorID,
		CreatedAt:    time.Now(),
	}

	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, itemRepo repository.StockItemRepository) error {
		item, err := itemRepo.GetForUpdate(in.ItemID)
		if err != nil {
			return err
		}
		newQty := item.Quantity + in.Delta
		if newQty < 0 {
			return domain.ErrInsufficientStock
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		return itemRepo.SetQuantity(item.ID, newQty)
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(mov, entity.AuditActionAdjustment, in.Delta < 0)
	return mov, nil
}

// GetMovement devuelve un asiento por id.
func (uc *UseCase) GetMovement(id string) (*entity.Movement, error) {
	return uc.movRepo.GetByID(id)
}

// ListMovements lista asientos con filtros y paginación.
func (uc *UseCase) ListMovements(f repository.MovementFilter) ([]*entity.Movement, int, error) {
	movs, err := uc.movRepo.List(f)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.movRepo.Count(f)
	if err != nil {
		return nil, 0, err
	}
	return movs, total, nil
}

// CheckItemBalance verifica el invariante recomputable: la existencia actual
// debe igualar la suma firmada de todos los movimientos del artículo (los
// artículos nacen con existencia cero; el alta inicial es un ADJUSTMENT).
func (uc *UseCase) CheckItemBalance(itemID string) (bool, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return false, err
	}
	sum, err := uc.movRepo.SignedSumByItem(itemID)
	if err != nil {
		return false, err
	}
	return item.Quantity == sum && item.Quantity >= 0, nil
}

func movementDate(d time.Time) time.Time {
	if d.IsZero() {
		return time.Now()
	}
	return d
}
