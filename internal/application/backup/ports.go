package backup

import (
	"time"

	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/metrics"
)

// Report datos ya calculados que los renderizadores vuelcan a Excel, texto o PDF.
type Report struct {
	BusinessName string
	OwnerEmail   string
	GeneratedAt  time.Time
	From         time.Time
	To           time.Time
	Inventory    metrics.InventoryValue
	Sales        metrics.SalesTotals
	Daily        []metrics.DailyPoint
	TopProducts  []metrics.ProductSales
	LowStock     []*entity.Product
	Products     []*entity.Product
	SalesRows    []*entity.SalesTransaction
}

// ReportRenderer puerto hacia los formatos de exportación (implementado en infrastructure/export).
type ReportRenderer interface {
	Excel(r *Report) ([]byte, error)
	Text(r *Report) ([]byte, error)
	PDF(r *Report) ([]byte, error)
}
