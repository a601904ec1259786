package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/application/sales"
)

// SalesHandler registra, edita y lista ventas.
type SalesHandler struct {
	uc *sales.UseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *sales.UseCase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar venta
// @Description  Descuenta el stock en la misma transacción. 409 si la cantidad supera el stock.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordSaleRequest  true  "product_id, quantity, price opcional"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordSale(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD o RFC3339)"
// @Param        to          query  string  false  "Hasta (YYYY-MM-DD o RFC3339)"
// @Param        order       query  string  false  "asc | desc"
// @Param        limit       query  int     false  "Límite"
// @Success      200  {object}  dto.SalesListResponse
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *fiber.Ctx) error {
	var in dto.SalesListRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar venta
// @Description  Ajusta el stock en stock − (nueva cantidad − cantidad anterior).
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleRequest  true  "quantity y/o price"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [put]
func (h *SalesHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateSale(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta
// @Description  Devuelve la cantidad vendida al stock.
// @Tags         sales
// @Security     Bearer
// @Param        id  path  string  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SalesHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteSale(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
