package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesTransaction venta manual registrada por el usuario.
// Price es el precio unitario al momento de la venta; Total = Quantity × Price.
type SalesTransaction struct {
	ID          string
	UserID      string
	ProductID   string
	ProductName string // solo lectura (JOIN con products)
	Quantity    int
	Price       decimal.Decimal
	Total       decimal.Decimal
	CreatedAt   time.Time
}

// Recalculate actualiza Total a partir de Quantity y Price.
func (s *SalesTransaction) Recalculate() {
	s.Total = s.Price.Mul(decimal.NewFromInt(int64(s.Quantity)))
}
