package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Price y Cost son opcionales.
type CreateProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Stock       int              `json:"stock"`
	IsActive    *bool            `json:"is_active"` // nil = true
}

// UpdateProductRequest entrada para editar un producto; nil = sin cambio.
// ClearPrice / ClearCost vacían el valor (NULL).
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	ClearPrice  bool             `json:"clear_price"`
	ClearCost   bool             `json:"clear_cost"`
	Stock       *int             `json:"stock"`
	IsActive    *bool            `json:"is_active"`
}

// ProductResponse salida de un producto. Price/Cost nil si no tienen valor.
type ProductResponse struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Stock       int              `json:"stock"`
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductListResponse colección completa del usuario.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
