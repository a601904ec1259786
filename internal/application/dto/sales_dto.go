package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordSaleRequest registrar una venta. Price nil = precio actual del producto.
type RecordSaleRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
}

// UpdateSaleRequest editar cantidad y/o precio de una venta.
type UpdateSaleRequest struct {
	Quantity *int             `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
}

// SalesListRequest filtros de consulta (from/to en RFC3339 o YYYY-MM-DD).
type SalesListRequest struct {
	ProductID string `query:"product_id"`
	From      string `query:"from"`
	To        string `query:"to"`
	Order     string `query:"order"` // asc | desc
	Limit     int    `query:"limit"`
}

// SaleResponse salida de una venta. StockAfter es el stock del producto tras la mutación.
type SaleResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"created_at"`
	StockAfter  *int            `json:"stock_after,omitempty"`
}

// SalesListResponse ventas del usuario.
type SalesListResponse struct {
	Items []SaleResponse `json:"items"`
	Total int            `json:"total"`
}
