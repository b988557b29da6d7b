package repository

import (
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// AuditFilter filtros de listado del log de auditoría.
type AuditFilter struct {
	UserID     string
	EntityType string
	From, To   *time.Time
	Limit      int
	Offset     int
}

// AuditRepository define el puerto de persistencia del log de auditoría.
// Append-only: sin Update; DeleteOlderThan es mantenimiento (retención), no
// parte de la superficie del core.
type AuditRepository interface {
	Create(e *entity.AuditEntry) error
	List(f AuditFilter) ([]*entity.AuditEntry, error)
	Count(f AuditFilter) (int, error)
	ListByUser(userID string, limit int) ([]*entity.AuditEntry, error)
	DeleteOlderThan(days int) (int64, error)
}
