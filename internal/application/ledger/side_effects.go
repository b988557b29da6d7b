package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// afterCommit ejecuta las consecuencias de un movimiento ya confirmado:
// asiento de auditoría, notificación broadcast y, para salidas, la alerta de
// stock bajo releyendo la cantidad confirmada (no la previa al movimiento).
// Ningún fallo aquí revierte el movimiento: se registra y se sigue.
func (uc *UseCase) afterCommit(mov *entity.Movement, auditAction string, checkThreshold bool) {
	item, err := uc.itemRepo.GetByID(mov.ItemID)
	if err != nil {
		uc.log.Error().Err(err).Str("item_id", mov.ItemID).Msg("relectura post-commit del artículo")
		item = nil
	}

	uc.recordAudit(mov, item, auditAction)
	uc.publishMovementNotification(mov, item)

	if checkThreshold && item != nil && item.LowStock() {
		uc.publishLowStockNotification(item)
	}
}

func (uc *UseCase) recordAudit(mov *entity.Movement, item *entity.StockItem, action string) {
	detail := map[string]interface{}{
		"movement_id": mov.ID,
		"quantity":    mov.Quantity,
		"kind":        mov.Kind,
	}
	if item != nil {
		detail["item_name"] = item.Name
	}
	payload, _ := json.Marshal(detail)

	entry := &entity.AuditEntry{
		ID:         uuid.New().String(),
		UserID:     mov.CreatedBy,
		Action:     action,
		EntityType: "stock_item",
		EntityID:   mov.ItemID,
		Detail:     payload,
		CreatedAt:  time.Now(),
	}
	if err := uc.auditRepo.Create(entry); err != nil {
		uc.log.Error().Err(err).Str("movement_id", mov.ID).Msg("auditoría post-commit")
	}
}

func (uc *UseCase) publishMovementNotification(mov *entity.Movement, item *entity.StockItem) {
	itemName := mov.ItemID
	unit := ""
	if item != nil {
		itemName = item.Name
		unit = item.Unit
	}
	actorName := uc.actorName(mov.CreatedBy)

	var severity, title, body string
	switch mov.Kind {
	case entity.MovementKindIn:
		severity = entity.SeveritySuccess
		title = "Entrada registrada"
		body = fmt.Sprintf("%d %s de %s ingresados por %s", mov.Quantity, unit, itemName, actorName)
	case entity.MovementKindOut:
		severity = entity.SeverityWarning
		title = "Salida registrada"
		body = fmt.Sprintf("%d %s de %s despachados por %s", mov.Quantity, unit, itemName, actorName)
	default:
		severity = entity.SeverityInfo
		title = "Ajuste de inventario"
		body = fmt.Sprintf("Ajuste de %+d %s sobre %s por %s", mov.Quantity, unit, itemName, actorName)
	}

	n := &entity.Notification{
		ID:        uuid.New().String(),
		Recipient: entity.BroadcastRecipient(),
		Severity:  severity,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := uc.notifRepo.Create(n); err != nil {
		uc.log.Error().Err(err).Str("movement_id", mov.ID).Msg("notificación post-commit")
	}
}

func (uc *UseCase) publishLowStockNotification(item *entity.StockItem) {
	n := &entity.Notification{
		ID:        uuid.New().String(),
		Recipient: entity.BroadcastRecipient(),
		Severity:  entity.SeverityWarning,
		Title:     "Stock bajo",
		Body: fmt.Sprintf("%s quedó en %d %s, en o por debajo del mínimo de %d",
			item.Name, item.Quantity, item.Unit, item.Threshold),
		CreatedAt: time.Now(),
	}
	if err := uc.notifRepo.Create(n); err != nil {
		uc.log.Error().Err(err).Str("item_id", item.ID).Msg("alerta de stock bajo")
	}
}

func (uc *UseCase) actorName(userID string) string {
	u, err := uc.userRepo.GetByID(userID)
	if err != nil || u == nil {
		return userID
	}
	return u.Name
}
