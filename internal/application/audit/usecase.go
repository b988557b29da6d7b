package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// UseCase expone el log de auditoría: registro append-only y lecturas.
type UseCase struct {
	repo repository.AuditRepository
}

// NewUseCase construye el caso de uso de auditoría.
func NewUseCase(repo repository.AuditRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Record registra "quién hizo qué sobre qué entidad". detail es opcional.
func (uc *UseCase) Record(actorID, action, entityType, entityID string, detail map[string]interface{}) (*entity.AuditEntry, error) {
	if actorID == "" || action == "" {
		return nil, domain.ErrInvalidInput
	}
	var payload json.RawMessage
	if detail != nil {
		payload, _ = json.Marshal(detail)
	}
	entry := &entity.AuditEntry{
		ID:         uuid.New().String(),
		UserID:     actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     payload,
		CreatedAt:  time.Now(),
	}
	if err := uc.repo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List devuelve asientos con filtros y total.
func (uc *UseCase) List(f repository.AuditFilter) ([]*entity.AuditEntry, int, error) {
	entries, err := uc.repo.List(f)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.repo.Count(f)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ForUser devuelve los últimos asientos de un usuario.
func (uc *UseCase) ForUser(userID string, limit int) ([]*entity.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return uc.repo.ListByUser(userID, limit)
}

// Prune borra asientos anteriores a la ventana de retención (mantenimiento).
func (uc *UseCase) Prune(days int) (int64, error) {
	if days <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return uc.repo.DeleteOlderThan(days)
}
