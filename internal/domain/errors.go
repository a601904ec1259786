package domain

import "errors"

// Errores de dominio (sin dependencias externas). La capa HTTP los traduce a códigos estructurados.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrUnsupportedVersion = errors.New("versión de respaldo no soportada")
	ErrAIUnavailable      = errors.New("servicio de IA no disponible")
)
