package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umkmhub/umkm-api/internal/domain"
	apphttp "github.com/umkmhub/umkm-api/internal/interfaces/http"
	"github.com/umkmhub/umkm-api/internal/realtime"
)

func TestErrorHandler_MapeaErroresDeDominio(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"forbidden", fmt.Errorf("update user: %w", domain.ErrForbidden), http.StatusForbidden, "FORBIDDEN", "Akses Ditolak"},
		{"not found", fmt.Errorf("producto x: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND", "producto x: recurso no encontrado"},
		{"stock", domain.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK", ""},
		{"version", domain.ErrUnsupportedVersion, http.StatusUnprocessableEntity, "UNSUPPORTED_VERSION", ""},
		{"validation", fmt.Errorf("quantity: %w", domain.ErrInvalidInput), http.StatusBadRequest, "VALIDATION", ""},
		{"fiber", fiber.NewError(fiber.StatusTeapot, "tetera"), http.StatusTeapot, "HTTP_ERROR", "tetera"},
		{"backend", errors.New("duplicate key value violates unique constraint"), http.StatusInternalServerError, "INTERNAL", "duplicate key value violates unique constraint"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
			app.Get("/", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tc.code, body["code"])
			if tc.message != "" {
				assert.Equal(t, tc.message, body["message"])
			}
		})
	}
}

func TestRealtimeStream_TablaDesconocida_Retorna400(t *testing.T) {
	hub := realtime.NewHub(nil)
	defer hub.Close()
	h := apphttp.NewRealtimeHandler(hub, nil, apphttp.NewStreamer(t.Context(), 0, nil, nil), nil)

	app := fiber.New()
	app.Get("/stream", h.Stream)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/stream?tables=products,users", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp)["code"])
	assert.Equal(t, 0, hub.Len(), "no debe quedar ninguna suscripción abierta")
}
