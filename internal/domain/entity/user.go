package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User dueño de los datos. Cada fila de negocio referencia exactamente un User.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	FullName     string
	BusinessName string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
