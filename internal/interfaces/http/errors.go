package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/domain"
)

// forbiddenMessage texto mostrado al usuario ante una denegación de permisos.
const forbiddenMessage = "Akses Ditolak"

// errorMapping relación error de dominio → estado HTTP y código.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUnsupportedVersion, fiber.StatusUnprocessableEntity, "UNSUPPORTED_VERSION"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrAIUnavailable, fiber.StatusServiceUnavailable, "AI_UNAVAILABLE"},
}

// respondError traduce err a {code, message}. Los errores de escritura conservan el mensaje
// del backend; ErrForbidden siempre se muestra como "Akses Ditolak".
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			msg := err.Error()
			if m.err == domain.ErrForbidden {
				msg = forbiddenMessage
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler handler de errores de Fiber para errores no manejados por los handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}
