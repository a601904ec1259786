package dto

import "github.com/umkmhub/umkm-api/internal/domain/metrics"

// ChartResponse serie para gráficos de torta o barras (nombre, valor, color).
type ChartResponse struct {
	Items []metrics.Bucket `json:"items"`
	Total int              `json:"total"`
}

// SalesReportRequest rango del reporte; fechas YYYY-MM-DD o RFC3339. Vacío = últimos 30 días.
type SalesReportRequest struct {
	From string `query:"from"`
	To   string `query:"to"`
}

// SalesReportResponse ingreso realizado en el rango, serie diaria y productos más vendidos.
type SalesReportResponse struct {
	From        string                 `json:"from"`
	To          string                 `json:"to"`
	Totals      metrics.SalesTotals    `json:"totals"`
	Daily       []metrics.DailyPoint   `json:"daily"`
	TopProducts []metrics.ProductSales `json:"top_products"`
}
