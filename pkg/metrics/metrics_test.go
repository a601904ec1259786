package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umkmhub/umkm-api/pkg/metrics"
)

func TestMiddleware_SnapshotCuentaErrores(t *testing.T) {
	m := metrics.New("test")
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/boom", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusInternalServerError) })
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	for _, path := range []string{"/ok", "/ok", "/ok", "/boom", "/missing"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	snap, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 5.0, snap.TotalRequests)
	assert.Equal(t, 1.0, snap.ServerErrors)
	assert.Equal(t, 1.0, snap.ClientErrors)
	assert.InDelta(t, 0.2, snap.ErrorRate, 1e-9)
	assert.GreaterOrEqual(t, snap.AvgLatencySeconds, 0.0)
}

func TestDomainCounters(t *testing.T) {
	m := metrics.New("dom")
	m.AIGeneration("pricing_suggestion", nil)
	m.AIGeneration("general", errors.New("x"))
	m.RealtimeEvent("products", "INSERT")
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	snap, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 2.0, snap.AIGenerations)
	assert.Equal(t, 1.0, snap.RealtimeEvents)
	assert.Equal(t, 1.0, snap.LiveSessions)
}

func TestNilMetrics_NoPanic(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.SalesOperation("record", nil)
		m.AIGeneration("general", nil)
		m.RealtimeEvent("products", "DELETE")
		m.SessionOpened()
		m.SessionClosed()
		m.TrackDB("x")()
		_, _ = m.Snapshot()
	})
}
