package entity

import (
	"encoding/json"
	"time"
)

// Tipos de generación de texto soportados por el proxy de IA.
const (
	GenerationProductDescription = "product_description"
	GenerationMarketingCaption   = "marketing_caption"
	GenerationPricingSuggestion  = "pricing_suggestion"
	GenerationBusinessInsight    = "business_insight"
	GenerationCustomerReply      = "customer_reply"
	GenerationGeneral            = "general"
)

// AIGeneration registro append-only de cada texto generado (conteo de uso y auditoría).
type AIGeneration struct {
	ID               string
	UserID           string
	ProductID        string // vacío si no hubo producto
	GenerationType   string
	InputData        json.RawMessage
	GeneratedContent string
	CreatedAt        time.Time
}
