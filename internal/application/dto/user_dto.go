package dto

import "time"

// RegisterRequest entrada para registro (auth).
type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"full_name"`
	BusinessName string `json:"business_name"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	BusinessName string    `json:"business_name,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// AdminUpdateUserRequest cambia email y/o password de un usuario.
type AdminUpdateUserRequest struct {
	UserID      string  `json:"user_id"`
	NewEmail    *string `json:"new_email"`
	NewPassword *string `json:"new_password"`
}

// AdminUpdateUserResponse {message, user}.
type AdminUpdateUserResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// DBPoolStats estado del pool de conexiones.
type DBPoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

// SystemHealthResponse panel de salud: métricas reales del proceso y de la base de datos.
type SystemHealthResponse struct {
	Status            string      `json:"status"` // ok | degraded
	Database          string      `json:"database"`
	DBPool            DBPoolStats `json:"db_pool"`
	TotalRequests     float64     `json:"total_requests"`
	ErrorRate         float64     `json:"error_rate"`
	AvgLatencyMs      float64     `json:"avg_latency_ms"`
	Goroutines        float64     `json:"goroutines"`
	ResidentMemoryMB  float64     `json:"resident_memory_mb"`
	LiveSessions      float64     `json:"live_sessions"`
	AIGenerations     float64     `json:"ai_generations"`
	RealtimeEvents    float64     `json:"realtime_events"`
	RealtimeListeners int         `json:"realtime_subscriptions"`
	CheckedAt         string      `json:"checked_at"`
}
