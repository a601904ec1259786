package ai

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/umkmhub/umkm-api/internal/application/ports"
	"github.com/umkmhub/umkm-api/internal/domain"
)

// Verificar en tiempo de compilación que AnthropicService implementa LLMService.
var _ ports.LLMService = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// AnthropicService adaptador de LLMService sobre la Messages API de Anthropic.
type AnthropicService struct {
	apiKey string
	model  string
	http   httpSettings
}

// NewAnthropicService construye el adaptador con la API key y el modelo configurados.
func NewAnthropicService(apiKey, model string, opts ...Option) *AnthropicService {
	return &AnthropicService{apiKey: apiKey, model: model, http: newSettings(anthropicMessagesURL, opts)}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText envía un único mensaje de usuario y devuelve los bloques de texto de la respuesta.
func (s *AnthropicService) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: ANTHROPIC_API_KEY no configurado: %w", domain.ErrAIUnavailable)
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     s.model,
		MaxTokens: 1024,
		System:    systemPrompt,
		Messages:  []anthropicMessage{{Role: "user", Content: userPrompt}},
	})
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.http.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	raw, err := do(ctx, s.http.client, req, "Anthropic", func(b []byte) string {
		var e anthropicResponse
		if json.Unmarshal(b, &e) == nil && e.Error != nil {
			return fmt.Sprintf("(%s) %s", e.Error.Type, e.Error.Message)
		}
		return ""
	})
	if err != nil {
		return "", err
	}

	var resp anthropicResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Anthropic: %w", err)
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("AI: Claude devolvió respuesta vacía: %w", domain.ErrAIUnavailable)
	}
	return text, nil
}
