package entity

import "time"

// Tipos de notificación.
const (
	NotificationInfo     = "info"
	NotificationSuccess  = "success"
	NotificationWarning  = "warning"
	NotificationError    = "error"
	NotificationLowStock = "low_stock"
)

// Notification aviso dirigido a un usuario.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      string
	Read      bool
	CreatedAt time.Time
}
