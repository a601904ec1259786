package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/application/usecase"
)

// NotificationHandler CRUD de notificaciones del usuario.
type NotificationHandler struct {
	uc *usecase.NotificationUseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List godoc
// @Summary      Listar notificaciones
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.NotificationResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UnreadCount godoc
// @Summary      Contar no leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UnreadCountResponse
// @Router       /api/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	out, err := h.uc.UnreadCount(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear notificación
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateNotificationRequest  true  "title, message, type"
// @Success      201   {object}  dto.NotificationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/notifications [post]
func (h *NotificationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateNotificationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// MarkRead godoc
// @Summary      Marcar como leída
// @Tags         notifications
// @Security     Bearer
// @Param        id  path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead godoc
// @Summary      Marcar todas como leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MarkAllReadResponse
// @Router       /api/notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	out, err := h.uc.MarkAllRead(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar notificación
// @Tags         notifications
// @Security     Bearer
// @Param        id  path  string  true  "ID"
// @Success      204
// @Router       /api/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
