package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los adaptadores HTTP los traducen a códigos de estado; el ledger nunca
// devuelve un error genérico para un resultado de negocio esperado.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// ErrRetryable indica contención transitoria (lock timeout, deadlock,
	// fallo de serialización). La unidad de trabajo no aplicó ningún cambio,
	// por lo que el caller puede reintentar sin riesgo.
	ErrRetryable = errors.New("operación no disponible temporalmente, reintente")
)
