package http

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/umkmhub/umkm-api/internal/application/livesync"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
	"github.com/umkmhub/umkm-api/internal/realtime"
	"github.com/umkmhub/umkm-api/pkg/logger"
)

const changeBuffer = 32

// streamableTables tablas que un cliente puede observar.
var streamableTables = map[string]bool{
	livesync.TableProducts:      true,
	livesync.TableSales:         true,
	livesync.TableAIGenerations: true,
	livesync.TableNotifications: true,
}

// RealtimeHandler expone el change feed del usuario y el stream de notificaciones.
type RealtimeHandler struct {
	hub           *realtime.Hub
	notifications repository.NotificationRepository
	streamer      *Streamer
	log           *logger.Logger
}

// NewRealtimeHandler construye el handler.
func NewRealtimeHandler(hub *realtime.Hub, notifications repository.NotificationRepository, streamer *Streamer, log *logger.Logger) *RealtimeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RealtimeHandler{hub: hub, notifications: notifications, streamer: streamer, log: log.Named("realtime-http")}
}

// parseTables valida ?tables=a,b. Vacío = todas las observables.
func parseTables(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{
			livesync.TableProducts, livesync.TableSales, livesync.TableAIGenerations, livesync.TableNotifications,
		}, nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		if !streamableTables[t] {
			return nil, fmt.Errorf("tabla %q: %w", t, domain.ErrInvalidInput)
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("tables vacío: %w", domain.ErrInvalidInput)
	}
	return out, nil
}

// Stream godoc
// @Summary      Cambios en vivo (SSE)
// @Description  Emite "change" con {schema, table, event, record, received_at} para cada fila del usuario
// @Description  que cambia en las tablas pedidas. Una sola suscripción por conexión.
// @Tags         realtime
// @Security     Bearer
// @Produce      text/event-stream
// @Param        tables  query  string  false  "products,sales_transactions,ai_generations,notifications"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/realtime/stream [get]
func (h *RealtimeHandler) Stream(c *fiber.Ctx) error {
	tables, err := parseTables(c.Query("tables"))
	if err != nil {
		return respondError(c, err)
	}
	userID := GetUserID(c)
	events := make(chan realtime.ChangeEvent, changeBuffer)
	forward := func(ev realtime.ChangeEvent) {
		select {
		case events <- ev:
		default:
			h.log.Warn().Str("user_id", userID).Str("table", ev.Table).Msg("cliente lento, evento descartado")
		}
	}

	descs := make([]realtime.Descriptor, 0, len(tables))
	for _, t := range tables {
		descs = append(descs, realtime.Descriptor{
			Table:    t,
			Event:    realtime.EventAll,
			Filter:   realtime.UserFilter(userID),
			Callback: forward,
		})
	}
	sub, err := h.hub.Subscribe("sse:"+userID, descs...)
	if err != nil {
		return respondError(c, err)
	}

	return h.streamer.Stream(c, func(ctx context.Context, out *eventWriter, ping <-chan time.Time) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-sub.Done():
				return nil
			case ev := <-events:
				if err := out.Event("change", ev); err != nil {
					return err
				}
			case <-ping:
				if err := out.Ping(); err != nil {
					return err
				}
			}
		}
	}, sub.Close)
}

// Notifications godoc
// @Summary      Notificaciones en vivo (SSE)
// @Description  Emite "notifications" con {items, unread} al abrir y tras cada cambio. Cerrar la conexión
// @Description  (logout) libera la suscripción.
// @Tags         realtime
// @Security     Bearer
// @Produce      text/event-stream
// @Success      200
// @Router       /api/notifications/stream [get]
func (h *RealtimeHandler) Notifications(c *fiber.Ctx) error {
	sess := livesync.NewNotificationSession(h.notifications, GetUserID(c), h.log)
	if err := sess.Start(h.streamer.base, h.hub); err != nil {
		return respondError(c, err)
	}
	return h.streamer.Stream(c, func(ctx context.Context, out *eventWriter, ping <-chan time.Time) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case snap := <-sess.Updates():
				if err := out.Event("notifications", snap); err != nil {
					return err
				}
			case <-ping:
				if err := out.Ping(); err != nil {
					return err
				}
			}
		}
	}, sess.Close)
}
