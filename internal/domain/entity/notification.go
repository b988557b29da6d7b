package entity

import "time"

// Severidades de notificación.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)

// Recipient es el destinatario de una notificación: broadcast (visible para
// todos los usuarios) o dirigida a un usuario concreto. Se modela como
// variante etiquetada en lugar de un user_id anulable; el NULL queda
// confinado al adaptador de persistencia.
type Recipient struct {
	userID string
}

// BroadcastRecipient construye el destinatario "todos los usuarios".
func BroadcastRecipient() Recipient {
	return Recipient{}
}

// TargetedAt construye un destinatario dirigido a un usuario.
func TargetedAt(userID string) Recipient {
	return Recipient{userID: userID}
}

// IsBroadcast indica si la notificación es visible para todos.
func (r Recipient) IsBroadcast() bool { return r.userID == "" }

// UserID devuelve el usuario destino y ok=false si es broadcast.
func (r Recipient) UserID() (string, bool) {
	return r.userID, r.userID != ""
}

// Notification es una alerta visible en la aplicación. Se crea solo como
// efecto de un movimiento confirmado o un cruce de umbral; tras creada, el
// único campo mutable es Read.
type Notification struct {
	ID        string
	Recipient Recipient
	Severity  string
	Title     string
	Body      string
	Read      bool
	CreatedAt time.Time
}
