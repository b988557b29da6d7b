package entity

import (
	"encoding/json"
	"time"
)

// Acciones de auditoría comunes.
const (
	AuditActionCreate     = "create"
	AuditActionUpdate     = "update"
	AuditActionDelete     = "delete"
	AuditActionInbound    = "movement_in"
	AuditActionOutbound   = "movement_out"
	AuditActionAdjustment = "movement_adjustment"
	AuditActionLogin      = "login"
)

// AuditEntry registra "quién hizo qué sobre qué entidad". Append-only: el
// core no expone update ni delete (la poda por retención es mantenimiento
// externo).
type AuditEntry struct {
	ID         string
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Detail     json.RawMessage
	CreatedAt  time.Time

	// Campos de lectura (JOIN con users).
	UserName  string
	UserEmail string
}
