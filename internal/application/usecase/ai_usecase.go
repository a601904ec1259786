package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/application/ports"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
	"github.com/umkmhub/umkm-api/pkg/logger"
	"github.com/umkmhub/umkm-api/pkg/metrics"
)

var aiJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Origen del precio sugerido.
const (
	PriceSourceAI        = "ai"
	PriceSourceHeuristic = "heuristic"
)

// heuristicMarkup margen aplicado al costo cuando el modelo no devuelve un monto.
var heuristicMarkup = decimal.RequireFromString("1.3")

// rupiahRe primer monto en Rupiah: "Rp 15.000", "Rp15,000", "rp. 12500", "Rp 12.500,50".
var rupiahRe = regexp.MustCompile(`(?i)rp\.?\s*([0-9]{1,3}(?:[.,][0-9]{3})+|[0-9]+)(?:,([0-9]{1,2}))?`)

var systemPrompts = map[string]string{
	entity.GenerationProductDescription: "Kamu adalah copywriter e-commerce untuk UMKM Indonesia. " +
		"Tulis deskripsi produk yang menarik, jujur, dan mudah dibaca dalam bahasa Indonesia. Maksimal 150 kata.",
	entity.GenerationMarketingCaption: "Kamu adalah social media specialist untuk UMKM. " +
		"Buat caption promosi singkat untuk Instagram atau WhatsApp, dengan ajakan bertindak dan 3 sampai 5 hashtag relevan.",
	entity.GenerationPricingSuggestion: "Kamu adalah konsultan harga untuk UMKM Indonesia. " +
		"Berikan satu harga jual yang disarankan dalam format \"Rp <angka>\" di baris pertama, lalu alasan singkat.",
	entity.GenerationBusinessInsight: "Kamu adalah analis bisnis untuk UMKM. " +
		"Berikan insight praktis dan langkah konkret berdasarkan data yang diberikan.",
	entity.GenerationCustomerReply: "Kamu adalah customer service yang ramah untuk sebuah UMKM. " +
		"Tulis balasan yang sopan, singkat, dan solutif untuk pesan pelanggan.",
	entity.GenerationGeneral: "Kamu adalah asisten bisnis untuk pelaku UMKM Indonesia. Jawab dengan jelas dan ringkas.",
}

// SystemPromptFor devuelve la plantilla del tipo; tipos desconocidos usan la general.
func SystemPromptFor(genType string) (string, string) {
	if p, ok := systemPrompts[genType]; ok {
		return genType, p
	}
	return entity.GenerationGeneral, systemPrompts[entity.GenerationGeneral]
}

// productContext campos reconocidos de productData; el resto se ignora.
type productContext struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Category    string `mapstructure:"category"`
	Price       string `mapstructure:"price"`
	Cost        string `mapstructure:"cost"`
	Stock       string `mapstructure:"stock"`
}

func (p productContext) empty() bool {
	return p == productContext{}
}

func (p productContext) render() string {
	var sb strings.Builder
	sb.WriteString("\n\nData produk:")
	line := func(label, v string) {
		if v != "" {
			fmt.Fprintf(&sb, "\n- %s: %s", label, v)
		}
	}
	line("Nama", p.Name)
	line("Kategori", p.Category)
	line("Deskripsi", p.Description)
	line("Harga", p.Price)
	line("Modal", p.Cost)
	line("Stok", p.Stock)
	return sb.String()
}

func decodeProductContext(data map[string]any) (productContext, error) {
	var pc productContext
	if len(data) == 0 {
		return pc, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &pc,
	})
	if err != nil {
		return pc, err
	}
	if err := dec.Decode(data); err != nil {
		return pc, fmt.Errorf("productData: %v: %w", err, domain.ErrInvalidInput)
	}
	return pc, nil
}

func contextFromProduct(p *entity.Product) productContext {
	pc := productContext{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Stock:       fmt.Sprint(p.Stock),
	}
	if p.Price.Valid {
		pc.Price = p.Price.Decimal.String()
	}
	if p.Cost.Valid {
		pc.Cost = p.Cost.Decimal.String()
	}
	return pc
}

// AIUseCase proxy de generación de texto: elige el prompt de sistema por tipo, llama al LLM con
// timeout y deja constancia de cada generación exitosa.
type AIUseCase struct {
	llm      ports.LLMService
	gens     repository.AIGenerationRepository
	products repository.ProductRepository
	timeout  time.Duration
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewAIUseCase construye el caso de uso inyectando el puerto LLMService.
func NewAIUseCase(
	llm ports.LLMService,
	gens repository.AIGenerationRepository,
	products repository.ProductRepository,
	timeout time.Duration,
	log *logger.Logger,
	m *metrics.Metrics,
) *AIUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AIUseCase{llm: llm, gens: gens, products: products, timeout: timeout, log: log.Named("ai"), metrics: m}
}

// Generate contrato de la función de IA. Los fallos del proveedor se devuelven como
// {success:false, error}; solo los errores de entrada o permisos salen como error.
func (uc *AIUseCase) Generate(ctx context.Context, userID string, in dto.GenerateRequest) (*dto.GenerateResponse, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("prompt es obligatorio: %w", domain.ErrInvalidInput)
	}
	genType, system := SystemPromptFor(in.Type)

	pc, err := decodeProductContext(in.ProductData)
	if err != nil {
		return nil, err
	}
	// product_id siempre se valida, aunque venga product_data: el registro queda ligado a ese producto.
	if in.ProductID != "" {
		product, err := uc.ownedProduct(ctx, userID, in.ProductID)
		if err != nil {
			return nil, err
		}
		if pc.empty() {
			pc = contextFromProduct(product)
		}
	}
	userPrompt := prompt
	if !pc.empty() {
		userPrompt += pc.render()
	}

	text, err := uc.call(ctx, genType, system, userPrompt)
	if err != nil {
		uc.log.Warn().Err(err).Str("type", genType).Str("user_id", userID).Msg("generación IA fallida")
		return &dto.GenerateResponse{Success: false, Error: err.Error()}, nil
	}

	uc.record(ctx, userID, in.ProductID, genType, map[string]any{
		"prompt":      prompt,
		"type":        genType,
		"productData": in.ProductData,
	}, text)
	return &dto.GenerateResponse{Success: true, GeneratedText: text}, nil
}

// SuggestPrice pide al modelo un precio para un producto propio y extrae el primer monto en Rupiah.
// Si el modelo falla o no devuelve un monto usa costo × 1.3, luego el precio actual, luego 0.
func (uc *AIUseCase) SuggestPrice(ctx context.Context, userID string, in dto.SuggestPriceRequest) (*dto.SuggestPriceResponse, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("product_id es obligatorio: %w", domain.ErrInvalidInput)
	}
	product, err := uc.ownedProduct(ctx, userID, in.ProductID)
	if err != nil {
		return nil, err
	}

	genType, system := SystemPromptFor(entity.GenerationPricingSuggestion)
	userPrompt := "Berapa harga jual yang tepat untuk produk ini?" + contextFromProduct(product).render()
	if notes := strings.TrimSpace(in.Notes); notes != "" {
		userPrompt += "\n\nCatatan: " + notes
	}

	resp := &dto.SuggestPriceResponse{ProductID: product.ID}
	text, err := uc.call(ctx, genType, system, userPrompt)
	if err != nil {
		uc.log.Warn().Err(err).Str("product_id", product.ID).Msg("sugerencia de precio sin IA, usando heurística")
		resp.SuggestedPrice = HeuristicPrice(product)
		resp.Source = PriceSourceHeuristic
		resp.Warning = err.Error()
		return resp, nil
	}

	uc.record(ctx, userID, product.ID, genType, map[string]any{"product_id": product.ID, "notes": in.Notes}, text)
	resp.Rationale = text
	if price, ok := ParseRupiah(text); ok {
		resp.SuggestedPrice = price
		resp.Source = PriceSourceAI
		return resp, nil
	}
	resp.SuggestedPrice = HeuristicPrice(product)
	resp.Source = PriceSourceHeuristic
	resp.Warning = "respuesta sin monto en Rupiah"
	return resp, nil
}

// ListGenerations historial de generaciones del usuario (más recientes primero).
func (uc *AIUseCase) ListGenerations(ctx context.Context, userID string) ([]dto.AIGenerationResponse, error) {
	gens, err := uc.gens.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToAIGenerationResponses(gens), nil
}

func (uc *AIUseCase) call(ctx context.Context, genType, system, userPrompt string) (text string, err error) {
	defer func() { uc.metrics.AIGeneration(genType, err) }()
	if uc.llm == nil {
		return "", domain.ErrAIUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	text, err = uc.llm.GenerateText(ctx, system, userPrompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("respuesta vacía: %w", domain.ErrAIUnavailable)
	}
	return text, nil
}

// record guarda la generación; un fallo aquí no invalida el texto ya generado.
func (uc *AIUseCase) record(ctx context.Context, userID, productID, genType string, input map[string]any, text string) {
	raw, err := aiJSON.Marshal(input)
	if err != nil {
		raw = []byte("{}")
	}
	gen := &entity.AIGeneration{
		ID:               uuid.New().String(),
		UserID:           userID,
		ProductID:        productID,
		GenerationType:   genType,
		InputData:        raw,
		GeneratedContent: text,
		CreatedAt:        time.Now(),
	}
	if err := uc.gens.Create(ctx, gen); err != nil {
		uc.log.Error().Err(err).Str("type", genType).Msg("no se pudo registrar la generación IA")
	}
}

func (uc *AIUseCase) ownedProduct(ctx context.Context, userID, id string) (*entity.Product, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("producto %s: %w", id, err)
		}
		return nil, err
	}
	if product.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

// ParseRupiah extrae el primer monto "Rp ..." del texto. Los separadores de miles (punto o coma)
// se descartan; una coma final con 1 o 2 dígitos se toma como decimales.
func ParseRupiah(text string) (decimal.Decimal, bool) {
	m := rupiahRe.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero, false
	}
	digits := strings.NewReplacer(".", "", ",", "").Replace(m[1])
	if m[2] != "" {
		digits += "." + m[2]
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// HeuristicPrice costo × 1.3 redondeado a entero; sin costo, el precio actual; sin ambos, 0.
func HeuristicPrice(p *entity.Product) decimal.Decimal {
	if p.Cost.Valid && p.Cost.Decimal.IsPositive() {
		return p.Cost.Decimal.Mul(heuristicMarkup).Round(0)
	}
	if p.Price.Valid {
		return p.Price.Decimal
	}
	return decimal.Zero
}

// ToAIGenerationResponses mapea entidades a DTO.
func ToAIGenerationResponses(gens []*entity.AIGeneration) []dto.AIGenerationResponse {
	out := make([]dto.AIGenerationResponse, 0, len(gens))
	for _, g := range gens {
		out = append(out, dto.AIGenerationResponse{
			ID:               g.ID,
			UserID:           g.UserID,
			ProductID:        g.ProductID,
			GenerationType:   g.GenerationType,
			InputData:        g.InputData,
			GeneratedContent: g.GeneratedContent,
			CreatedAt:        g.CreatedAt,
		})
	}
	return out
}
