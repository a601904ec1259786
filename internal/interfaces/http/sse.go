package http

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/umkmhub/umkm-api/pkg/logger"
	"github.com/umkmhub/umkm-api/pkg/metrics"
	"github.com/valyala/fasthttp"
)

// Streamer abre streams server-sent-events sobre la conexión fasthttp.
// base es el contexto de vida del servidor: al cancelarse todos los streams terminan.
type Streamer struct {
	base      context.Context
	keepAlive time.Duration
	metrics   *metrics.Metrics
	log       *logger.Logger
}

// NewStreamer construye el Streamer. keepAlive <= 0 usa 25s.
func NewStreamer(base context.Context, keepAlive time.Duration, m *metrics.Metrics, log *logger.Logger) *Streamer {
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Streamer{base: base, keepAlive: keepAlive, metrics: m, log: log.Named("sse")}
}

// eventWriter escribe eventos SSE codificados con el JSONEncoder de la app.
type eventWriter struct {
	w   *bufio.Writer
	enc utils.JSONMarshal
}

// Event escribe "event: name" + "data: <json>" y hace flush. Un error indica cliente desconectado.
func (e *eventWriter) Event(name string, v any) error {
	data, err := e.enc(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return e.w.Flush()
}

// Ping comentario de keep-alive.
func (e *eventWriter) Ping() error {
	if _, err := e.w.WriteString(": ping\n\n"); err != nil {
		return err
	}
	return e.w.Flush()
}

// streamFunc corre mientras el stream está abierto. Debe volver cuando ctx termina
// o cuando una escritura falla. ping marca cada intervalo de keep-alive.
type streamFunc func(ctx context.Context, out *eventWriter, ping <-chan time.Time) error

// Stream responde text/event-stream y ejecuta run en el writer de fasthttp.
// cleanup se llama siempre al terminar el stream (cerrar sesiones y suscripciones).
func (s *Streamer) Stream(c *fiber.Ctx, run streamFunc, cleanup func()) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	enc := c.App().Config().JSONEncoder
	path := c.Path()
	ctx, cancel := context.WithCancel(s.base)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		s.metrics.SessionOpened()
		ticker := time.NewTicker(s.keepAlive)
		defer func() {
			ticker.Stop()
			cancel()
			if cleanup != nil {
				cleanup()
			}
			s.metrics.SessionClosed()
		}()

		out := &eventWriter{w: w, enc: enc}
		if err := out.Ping(); err != nil {
			return
		}
		if err := run(ctx, out, ticker.C); err != nil && ctx.Err() == nil {
			s.log.Info().Err(err).Str("path", path).Msg("stream cerrado")
		}
	}))
	return nil
}
