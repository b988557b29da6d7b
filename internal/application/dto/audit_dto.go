package dto

import (
	"encoding/json"
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// AuditFilterRequest filtros de listado de auditoría (query params).
type AuditFilterRequest struct {
	PageRequest
	UserID     string     `query:"user_id"`
	EntityType string     `query:"entity_type"`
	From       *time.Time `query:"from"`
	To         *time.Time `query:"to"`
}

// AuditEntryResponse salida de un asiento de auditoría.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	UserName   string          `json:"user_name,omitempty"`
	UserEmail  string          `json:"user_email,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id,omitempty"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AuditListResponse lista paginada de asientos de auditoría.
type AuditListResponse struct {
	Items []AuditEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// NewAuditEntryResponse mapea la entidad a su DTO.
func NewAuditEntryResponse(e *entity.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		UserName:   e.UserName,
		UserEmail:  e.UserEmail,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Detail:     e.Detail,
		CreatedAt:  e.CreatedAt,
	}
}
