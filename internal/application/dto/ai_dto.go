package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// GenerateRequest cuerpo de la función de IA: prompt libre, tipo y contexto de producto opcional.
type GenerateRequest struct {
	Prompt      string         `json:"prompt"`
	Type        string         `json:"type"`
	ProductID   string         `json:"product_id,omitempty"`
	ProductData map[string]any `json:"productData,omitempty"`
}

// GenerateResponse {success, generatedText} o {success:false, error}.
type GenerateResponse struct {
	Success       bool   `json:"success"`
	GeneratedText string `json:"generatedText,omitempty"`
	Error         string `json:"error,omitempty"`
}

// SuggestPriceRequest pide precio sugerido para un producto existente.
type SuggestPriceRequest struct {
	ProductID string `json:"product_id"`
	Notes     string `json:"notes,omitempty"`
}

// SuggestPriceResponse precio sugerido y su origen: "ai" si se extrajo del texto, "heuristic" si no.
type SuggestPriceResponse struct {
	ProductID      string          `json:"product_id"`
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
	Source         string          `json:"source"`
	Rationale      string          `json:"rationale,omitempty"`
	Warning        string          `json:"warning,omitempty"`
}

// AIGenerationResponse registro de una generación.
type AIGenerationResponse struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id,omitempty"`
	ProductID        string          `json:"product_id,omitempty"`
	GenerationType   string          `json:"generation_type"`
	InputData        json.RawMessage `json:"input_data,omitempty"`
	GeneratedContent string          `json:"generated_content"`
	CreatedAt        time.Time       `json:"created_at"`
}
