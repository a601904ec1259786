package dto

import "time"

// BackupVersion única versión de respaldo aceptada al restaurar.
const BackupVersion = "1.0"

// BackupFile respaldo JSON completo de los datos del usuario.
type BackupFile struct {
	Version       string                 `json:"version"`
	ExportedAt    time.Time              `json:"exported_at"`
	Products      []ProductResponse      `json:"products"`
	Sales         []SaleResponse         `json:"sales"`
	Notifications []NotificationResponse `json:"notifications"`
}

// ImportResult resumen de una restauración.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
