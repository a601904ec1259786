// Package metrics contiene las métricas derivadas del dashboard: funciones puras sobre las
// colecciones ya cargadas (productos, ventas, generaciones de IA), sin acceso a la base de datos.
package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
)

// FallbackColor color para cualquier clave ausente de la paleta.
const FallbackColor = "#94A3B8"

// CategoryColors paleta fija de categorías frecuentes en UMKM.
var CategoryColors = map[string]string{
	"Makanan":    "#F97316",
	"Minuman":    "#0EA5E9",
	"Fashion":    "#EC4899",
	"Kerajinan":  "#A16207",
	"Elektronik": "#6366F1",
	"Kecantikan": "#D946EF",
	"Kesehatan":  "#22C55E",
	"Jasa":       "#14B8A6",
}

// AITypeColors paleta fija por tipo de generación.
var AITypeColors = map[string]string{
	entity.GenerationProductDescription: "#3B82F6",
	entity.GenerationMarketingCaption:   "#10B981",
	entity.GenerationPricingSuggestion:  "#F59E0B",
	entity.GenerationBusinessInsight:    "#8B5CF6",
	entity.GenerationCustomerReply:      "#EF4444",
	entity.GenerationGeneral:            "#64748B",
}

// ColorFor busca key en la paleta; si no existe devuelve FallbackColor.
func ColorFor(palette map[string]string, key string) string {
	if c, ok := palette[key]; ok {
		return c
	}
	return FallbackColor
}

// InventoryValue valor potencial del stock actual de los productos activos.
// Omzet = Σ(price × stock); Laba = Σ((price − cost) × stock). Precio o costo nulo cuenta como 0.
// No es ingreso realizado: para ventas reales ver RealizedRevenue.
type InventoryValue struct {
	Omzet          decimal.Decimal `json:"potential_omzet"`
	Laba           decimal.Decimal `json:"potential_laba"`
	ActiveProducts int             `json:"active_products"`
	TotalStock     int             `json:"total_stock"`
}

// ComputeInventoryValue calcula InventoryValue sobre los productos con IsActive = true.
func ComputeInventoryValue(products []*entity.Product) InventoryValue {
	out := InventoryValue{Omzet: decimal.Zero, Laba: decimal.Zero}
	for _, p := range products {
		if p == nil || !p.IsActive {
			continue
		}
		stock := decimal.NewFromInt(int64(p.Stock))
		price := p.PriceOrZero()
		out.Omzet = out.Omzet.Add(price.Mul(stock))
		out.Laba = out.Laba.Add(price.Sub(p.CostOrZero()).Mul(stock))
		out.ActiveProducts++
		out.TotalStock += p.Stock
	}
	return out
}

// Bucket una barra/porción de un gráfico.
type Bucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// CategoryHistogram cuenta productos por categoría. Las filas sin categoría se excluyen.
func CategoryHistogram(products []*entity.Product) []Bucket {
	counts := make(map[string]int)
	for _, p := range products {
		if p == nil {
			continue
		}
		cat := strings.TrimSpace(p.Category)
		if cat == "" {
			continue
		}
		counts[cat]++
	}
	return toBuckets(counts, CategoryColors)
}

// AITypeHistogram cuenta generaciones por tipo; tipos fuera de la paleta usan FallbackColor.
func AITypeHistogram(gens []*entity.AIGeneration) []Bucket {
	counts := make(map[string]int)
	for _, g := range gens {
		if g == nil || g.GenerationType == "" {
			continue
		}
		counts[g.GenerationType]++
	}
	return toBuckets(counts, AITypeColors)
}

// toBuckets ordena por valor descendente y luego por nombre para una salida estable.
func toBuckets(counts map[string]int, palette map[string]string) []Bucket {
	out := make([]Bucket, 0, len(counts))
	for name, n := range counts {
		out = append(out, Bucket{Name: name, Value: n, Color: ColorFor(palette, name)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SalesTotals ingreso realizado a partir de ventas registradas.
type SalesTotals struct {
	Revenue      decimal.Decimal `json:"realized_revenue"`
	Transactions int             `json:"transactions"`
	UnitsSold    int             `json:"units_sold"`
}

// RealizedRevenue suma Total de cada venta.
func RealizedRevenue(sales []*entity.SalesTransaction) SalesTotals {
	out := SalesTotals{Revenue: decimal.Zero}
	for _, s := range sales {
		if s == nil {
			continue
		}
		out.Revenue = out.Revenue.Add(s.Total)
		out.Transactions++
		out.UnitsSold += s.Quantity
	}
	return out
}

// DailyPoint ventas de un día calendario.
type DailyPoint struct {
	Date         string          `json:"date"` // YYYY-MM-DD
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int             `json:"transactions"`
	UnitsSold    int             `json:"units_sold"`
}

// DailySales agrupa ventas por día en loc entre from y to (ambos inclusive, por fecha).
// Los días sin ventas aparecen con ceros para que el gráfico no tenga huecos.
func DailySales(sales []*entity.SalesTransaction, from, to time.Time, loc *time.Location) []DailyPoint {
	if loc == nil {
		loc = time.UTC
	}
	start := truncateDay(from.In(loc))
	end := truncateDay(to.In(loc))
	if end.Before(start) {
		return []DailyPoint{}
	}

	index := make(map[string]int)
	var out []DailyPoint
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		index[key] = len(out)
		out = append(out, DailyPoint{Date: key, Revenue: decimal.Zero})
	}
	for _, s := range sales {
		if s == nil {
			continue
		}
		i, ok := index[s.CreatedAt.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		out[i].Revenue = out[i].Revenue.Add(s.Total)
		out[i].Transactions++
		out[i].UnitsSold += s.Quantity
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ProductSales acumulado de ventas de un producto.
type ProductSales struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitsSold   int             `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// TopProducts devuelve los limit productos con mayor ingreso realizado.
func TopProducts(sales []*entity.SalesTransaction, limit int) []ProductSales {
	byID := make(map[string]*ProductSales)
	for _, s := range sales {
		if s == nil {
			continue
		}
		ps, ok := byID[s.ProductID]
		if !ok {
			ps = &ProductSales{ProductID: s.ProductID, ProductName: s.ProductName, Revenue: decimal.Zero}
			byID[s.ProductID] = ps
		}
		ps.UnitsSold += s.Quantity
		ps.Revenue = ps.Revenue.Add(s.Total)
	}
	out := make([]ProductSales, 0, len(byID))
	for _, ps := range byID {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// LowStock productos activos con stock <= threshold, menor stock primero.
func LowStock(products []*entity.Product, threshold int) []*entity.Product {
	var out []*entity.Product
	for _, p := range products {
		if p != nil && p.IsActive && p.Stock <= threshold {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out
}
