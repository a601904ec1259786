package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de un usuario (UMKM).
// Price y Cost son opcionales; Stock nunca es negativo y solo cambia por edición o por ventas.
type Product struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Category    string // vacío = sin categoría
	Price       decimal.NullDecimal
	Cost        decimal.NullDecimal
	Stock       int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PriceOrZero devuelve el precio, o cero si es nulo.
func (p *Product) PriceOrZero() decimal.Decimal {
	if p.Price.Valid {
		return p.Price.Decimal
	}
	return decimal.Zero
}

// CostOrZero devuelve el costo, o cero si es nulo.
func (p *Product) CostOrZero() decimal.Decimal {
	if p.Cost.Valid {
		return p.Cost.Decimal
	}
	return decimal.Zero
}
