// Package realtime distribuye los cambios de filas de la base de datos a los suscriptores
// del proceso. Cada llamada a Subscribe crea una suscripción propia, sin deduplicar.
package realtime

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Tipos de evento. EventAll coincide con cualquiera.
const (
	EventAll    = "*"
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// ChangeEvent un cambio de fila tal como lo publica el trigger de la base de datos.
// Record trae solo las columnas de identidad (id, user_id).
type ChangeEvent struct {
	Schema     string         `json:"schema"`
	Table      string         `json:"table"`
	Event      string         `json:"event"`
	Record     map[string]any `json:"record"`
	ReceivedAt time.Time      `json:"received_at"`
}

// UserID devuelve record.user_id como string, o "" si no viene.
func (e ChangeEvent) UserID() string {
	return e.Value("user_id")
}

// Value devuelve el valor de una columna del record como string.
func (e ChangeEvent) Value(column string) string {
	v, ok := e.Record[column]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// DecodeChange parsea el payload JSON de NOTIFY.
func DecodeChange(payload []byte) (ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ChangeEvent{}, fmt.Errorf("decode change payload: %w", err)
	}
	if ev.Table == "" || ev.Event == "" {
		return ChangeEvent{}, fmt.Errorf("decode change payload: faltan table/event")
	}
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now()
	}
	return ev, nil
}
