// Package metrics expone la instrumentación Prometheus del servicio: métricas HTTP,
// contadores de dominio y una lectura resumida para el panel de salud del sistema.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los colectores registrados en un registry propio.
// Todos los métodos aceptan receptor nil para que los componentes funcionen sin instrumentación.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	statusCategory  *prometheus.CounterVec
	dbDuration      *prometheus.HistogramVec
	salesOps        *prometheus.CounterVec
	aiGenerations   *prometheus.CounterVec
	realtimeEvents  *prometheus.CounterVec
	liveSessions    prometheus.Gauge
}

// New crea y registra los colectores con el prefijo dado (ej. "umkm").
func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		statusCategory: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		}, []string{"category"}),
		dbDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		salesOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_sales_operations_total",
			Help: "Sales mutations by operation and result",
		}, []string{"operation", "result"}),
		aiGenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_ai_generations_total",
			Help: "AI text generations by type and result",
		}, []string{"type", "result"}),
		realtimeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_realtime_events_total",
			Help: "Change events received from the database feed",
		}, []string{"table", "event"}),
		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_live_sessions",
			Help: "Open server-sent-event sessions",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.requestDuration, m.statusCategory, m.dbDuration,
		m.salesOps, m.aiGenerations, m.realtimeEvents, m.liveSessions,
	)
	return m
}

// Registry devuelve el registry (para colectores adicionales como el del pool).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler devuelve el handler HTTP de exposición /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware registra contador, duración y categoría de estado de cada request Fiber.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		path := c.Route().Path
		statusStr := strconv.Itoa(status)

		m.requests.WithLabelValues(c.Method(), path, statusStr).Inc()
		m.requestDuration.WithLabelValues(c.Method(), path, statusStr).Observe(time.Since(start).Seconds())
		if cat := statusCategory(status); cat != "" {
			m.statusCategory.WithLabelValues(cat).Inc()
		}
		return err
	}
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}

// TrackDB devuelve una función que observa la duración de una operación de base de datos.
//
//	defer m.TrackDB("sales.record")()
func (m *Metrics) TrackDB(operation string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.dbDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// SalesOperation cuenta una mutación de ventas (record, update, delete) con su resultado.
func (m *Metrics) SalesOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.salesOps.WithLabelValues(operation, result(err)).Inc()
}

// AIGeneration cuenta una generación de texto por tipo.
func (m *Metrics) AIGeneration(genType string, err error) {
	if m == nil {
		return
	}
	m.aiGenerations.WithLabelValues(genType, result(err)).Inc()
}

// RealtimeEvent cuenta un evento del change feed.
func (m *Metrics) RealtimeEvent(table, event string) {
	if m == nil {
		return
	}
	m.realtimeEvents.WithLabelValues(table, event).Inc()
}

// SessionOpened / SessionClosed mantienen el gauge de sesiones SSE abiertas.
func (m *Metrics) SessionOpened() {
	if m != nil {
		m.liveSessions.Inc()
	}
}

func (m *Metrics) SessionClosed() {
	if m != nil {
		m.liveSessions.Dec()
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
