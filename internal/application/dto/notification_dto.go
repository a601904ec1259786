package dto

import "time"

// CreateNotificationRequest entrada para crear una notificación propia.
type CreateNotificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NotificationResponse salida de una notificación.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// UnreadCountResponse conteo de no leídas.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

// MarkAllReadResponse cuántas notificaciones cambiaron.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
