package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/umkmhub/umkm-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxResponseBytes tope de lectura del cuerpo de respuesta.
const maxResponseBytes = 256 * 1024

// Option ajusta un adaptador (URL base para tests, cliente HTTP propio).
type Option func(*httpSettings)

type httpSettings struct {
	baseURL string
	client  *http.Client
}

// WithBaseURL reemplaza la URL base de la API.
func WithBaseURL(u string) Option {
	return func(s *httpSettings) { s.baseURL = u }
}

// WithHTTPClient reemplaza el cliente HTTP.
func WithHTTPClient(c *http.Client) Option {
	return func(s *httpSettings) { s.client = c }
}

func newSettings(defaultURL string, opts []Option) httpSettings {
	s := httpSettings{
		baseURL: defaultURL,
		// timeout de red; el use case pone además context.WithTimeout
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// do ejecuta req y devuelve el cuerpo si el status es 200. Si no, usa errMsg para extraer
// el mensaje del proveedor.
func do(ctx context.Context, client *http.Client, req *http.Request, provider string, errMsg func([]byte) string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: %s timeout o cancelación: %w: %w", provider, domain.ErrAIUnavailable, ctx.Err())
		}
		return nil, fmt.Errorf("AI: %s llamada HTTP fallida: %w: %w", provider, domain.ErrAIUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("AI: %s leer respuesta: %w", provider, err)
	}
	if resp.StatusCode != http.StatusOK {
		if msg := errMsg(raw); msg != "" {
			return nil, fmt.Errorf("AI: %s error %d: %s: %w", provider, resp.StatusCode, msg, domain.ErrAIUnavailable)
		}
		return nil, fmt.Errorf("AI: %s HTTP %d: %w", provider, resp.StatusCode, domain.ErrAIUnavailable)
	}
	return raw, nil
}
