package ai

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/umkmhub/umkm-api/internal/application/ports"
	"github.com/umkmhub/umkm-api/internal/domain"
)

// Verificar en tiempo de compilación que GeminiService implementa LLMService.
var _ ports.LLMService = (*GeminiService)(nil)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiService adaptador de LLMService sobre la API REST de Google Gemini (generateContent).
type GeminiService struct {
	apiKey string
	model  string
	http   httpSettings
}

// NewGeminiService construye el adaptador. model suele ser "gemini-1.5-flash".
func NewGeminiService(apiKey, model string, opts ...Option) *GeminiService {
	return &GeminiService{apiKey: apiKey, model: model, http: newSettings(geminiBaseURL, opts)}
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateText llama a generateContent y concatena las partes del primer candidato.
func (s *GeminiService) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: GEMINI_API_KEY no configurado: %w", domain.ErrAIUnavailable)
	}

	payload := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: userPrompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     0.7,
			MaxOutputTokens: 1024,
		},
	}
	if systemPrompt != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(s.http.baseURL, "/"), url.PathEscape(s.model), url.QueryEscape(s.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := do(ctx, s.http.client, req, "Gemini", func(b []byte) string {
		var e geminiResponse
		if json.Unmarshal(b, &e) == nil && e.Error != nil {
			return e.Error.Message
		}
		return ""
	})
	if err != nil {
		return "", err
	}

	var resp geminiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("AI: Gemini devolvió respuesta vacía: %w", domain.ErrAIUnavailable)
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
