package entity

import "time"

// Roles de usuario.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User es un operador de la aplicación. El actor de cada movimiento y
// asiento de auditoría referencia a esta entidad.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Status       string
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
