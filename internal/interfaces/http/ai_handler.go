package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/application/usecase"
	"github.com/umkmhub/umkm-api/internal/domain"
)

// AIHandler maneja los endpoints de generación de texto asistida por IA.
type AIHandler struct {
	uc *usecase.AIUseCase
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.AIUseCase) *AIHandler {
	return &AIHandler{uc: uc}
}

// Generate godoc
// @Summary      Generar texto con IA
// @Description  Contrato {prompt, type, productData?} → {success, generatedText} o {success:false, error}.
// @Description  type: product_description, marketing_caption, pricing_suggestion, business_insight,
// @Description  customer_reply, general (desconocido = general). 502 si el proveedor falla.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerateRequest  true  "prompt obligatorio"
// @Success      200   {object}  dto.GenerateResponse
// @Failure      400   {object}  dto.GenerateResponse
// @Failure      502   {object}  dto.GenerateResponse
// @Router       /api/ai/generate [post]
func (h *AIHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.GenerateResponse{Success: false, Error: "cuerpo de la petición inválido"})
	}
	out, err := h.uc.Generate(c.Context(), GetUserID(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.GenerateResponse{Success: false, Error: err.Error()})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.GenerateResponse{Success: false, Error: forbiddenMessage})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.GenerateResponse{Success: false, Error: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.GenerateResponse{Success: false, Error: err.Error()})
	}
	if !out.Success {
		return c.Status(fiber.StatusBadGateway).JSON(out)
	}
	return c.JSON(out)
}

// SuggestPrice godoc
// @Summary      Sugerir precio de venta
// @Description  Extrae el primer monto en Rupiah de la respuesta del modelo; si no hay, usa costo × 1.3,
// @Description  luego el precio actual, luego 0. source: ai | heuristic.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SuggestPriceRequest  true  "product_id"
// @Success      200   {object}  dto.SuggestPriceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/ai/suggest-price [post]
func (h *AIHandler) SuggestPrice(c *fiber.Ctx) error {
	var in dto.SuggestPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SuggestPrice(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListGenerations godoc
// @Summary      Historial de generaciones del usuario
// @Tags         ai
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AIGenerationResponse
// @Router       /api/ai/generations [get]
func (h *AIHandler) ListGenerations(c *fiber.Ctx) error {
	out, err := h.uc.ListGenerations(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
