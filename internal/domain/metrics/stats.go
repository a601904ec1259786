package metrics

import (
	"time"

	"github.com/umkmhub/umkm-api/internal/domain/entity"
)

// DashboardStats agregado no persistido que alimenta el dashboard.
// Inventory (potencial, sobre stock) y Sales (realizado, sobre ventas) se reportan por separado.
type DashboardStats struct {
	TotalProducts int            `json:"total_products"`
	Inventory     InventoryValue `json:"inventory"`
	Sales         SalesTotals    `json:"sales"`
	AIGenerations int            `json:"ai_generations"`
	LowStockCount int            `json:"low_stock_count"`
	Categories    []Bucket       `json:"categories"`
	AIUsage       []Bucket       `json:"ai_usage"`
	TopProducts   []ProductSales `json:"top_products"`
	Last7Days     []DailyPoint   `json:"last_7_days"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// BuildDashboardStats combina todas las métricas derivadas a partir de las tres colecciones.
func BuildDashboardStats(products []*entity.Product, sales []*entity.SalesTransaction, gens []*entity.AIGeneration, lowStockThreshold int, now time.Time) DashboardStats {
	return DashboardStats{
		TotalProducts: len(products),
		Inventory:     ComputeInventoryValue(products),
		Sales:         RealizedRevenue(sales),
		AIGenerations: len(gens),
		LowStockCount: len(LowStock(products, lowStockThreshold)),
		Categories:    CategoryHistogram(products),
		AIUsage:       AITypeHistogram(gens),
		TopProducts:   TopProducts(sales, 5),
		Last7Days:     DailySales(sales, now.AddDate(0, 0, -6), now, now.Location()),
		GeneratedAt:   now,
	}
}
