package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/application/usecase"
	"github.com/umkmhub/umkm-api/internal/scheduler"
)

// DigestScheduler lo que el panel de admin necesita del resumen de stock bajo.
type DigestScheduler interface {
	Status() scheduler.DigestStatus
	TriggerManualSync(ctx context.Context) bool
}

// AdminHandler operaciones de administración (solo rol admin).
type AdminHandler struct {
	uc     *usecase.AdminUseCase
	digest DigestScheduler
}

// NewAdminHandler construye el handler. digest puede ser nil si el agendador está apagado.
func NewAdminHandler(uc *usecase.AdminUseCase, digest DigestScheduler) *AdminHandler {
	return &AdminHandler{uc: uc, digest: digest}
}

// UpdateUser godoc
// @Summary      Actualizar usuario
// @Description  Cambia email y/o contraseña de otro usuario. Respuesta {message, user}.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdminUpdateUserRequest  true  "user_id, new_email?, new_password?"
// @Success      200   {object}  dto.AdminUpdateUserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/update-user [post]
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var in dto.AdminUpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateUser(c.Context(), GetUserID(c), GetRole(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListUsers godoc
// @Summary      Listar usuarios
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.UserResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ListUsers(c.Context(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListAIGenerations godoc
// @Summary      Auditoría de generaciones de IA
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "tipo de generación"
// @Param        limit   query  int     false  "máximo 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.AIGenerationResponse
// @Router       /api/admin/ai-generations [get]
func (h *AdminHandler) ListAIGenerations(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ListAIGenerations(c.Context(), c.Query("type"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SystemHealth godoc
// @Summary      Salud del sistema
// @Description  Requests, tasa de 5xx y latencia media leídas del registry Prometheus, más el pool de la DB.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SystemHealthResponse
// @Router       /api/admin/system-health [get]
func (h *AdminHandler) SystemHealth(c *fiber.Ctx) error {
	out, err := h.uc.SystemHealth(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SchedulerStatus godoc
// @Summary      Estado del resumen de stock bajo
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  scheduler.DigestStatus
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/scheduler [get]
func (h *AdminHandler) SchedulerStatus(c *fiber.Ctx) error {
	if h.digest == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SCHEDULER_DISABLED", Message: "agendador deshabilitado"})
	}
	return c.JSON(h.digest.Status())
}

// RunScheduler godoc
// @Summary      Ejecutar el resumen de stock bajo ahora
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      202  {object}  scheduler.DigestStatus
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/scheduler/run [post]
func (h *AdminHandler) RunScheduler(c *fiber.Ctx) error {
	if h.digest == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SCHEDULER_DISABLED", Message: "agendador deshabilitado"})
	}
	if !h.digest.TriggerManualSync(c.UserContext()) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_RUNNING", Message: "ya hay una corrida en curso"})
	}
	return c.Status(fiber.StatusAccepted).JSON(h.digest.Status())
}
