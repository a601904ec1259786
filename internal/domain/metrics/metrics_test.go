package metrics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/metrics"
)

func dec(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func TestComputeInventoryValue_SoloActivos(t *testing.T) {
	products := []*entity.Product{
		{ID: "a", Price: dec(10000), Cost: dec(7000), Stock: 10, IsActive: true},
		{ID: "b", Price: dec(20000), Cost: dec(15000), Stock: 0, IsActive: true},
		{ID: "c", Price: dec(0), Cost: dec(500), Stock: 3, IsActive: false},
	}

	v := metrics.ComputeInventoryValue(products)

	// a: 10000×10 = 100000 ; laba (10000−7000)×10 = 30000. b contribuye 0 (stock 0). c inactivo.
	assert.True(t, decimal.NewFromInt(100000).Equal(v.Omzet), "omzet = %s", v.Omzet)
	assert.True(t, decimal.NewFromInt(30000).Equal(v.Laba), "laba = %s", v.Laba)
	assert.Equal(t, 2, v.ActiveProducts)
	assert.Equal(t, 10, v.TotalStock)
}

func TestComputeInventoryValue_PrecioYCostoNulosCuentanComoCero(t *testing.T) {
	products := []*entity.Product{
		// costo nulo: laba = price × stock
		{ID: "sin-costo", Price: dec(5000), Stock: 2, IsActive: true},
		// precio cero con costo: laba negativa
		{ID: "gratis", Price: dec(0), Cost: dec(1000), Stock: 4, IsActive: true},
		// sin precio ni costo
		{ID: "vacio", Stock: 7, IsActive: true},
	}

	v := metrics.ComputeInventoryValue(products)

	assert.True(t, decimal.NewFromInt(10000).Equal(v.Omzet), "omzet = %s", v.Omzet)
	assert.True(t, decimal.NewFromInt(10000-4000).Equal(v.Laba), "laba = %s", v.Laba)
	assert.Equal(t, 3, v.ActiveProducts)
}

func TestComputeInventoryValue_Vacio(t *testing.T) {
	v := metrics.ComputeInventoryValue(nil)
	assert.True(t, v.Omzet.IsZero())
	assert.True(t, v.Laba.IsZero())
	assert.Zero(t, v.ActiveProducts)
}

func TestCategoryHistogram_ExcluyeSinCategoria(t *testing.T) {
	products := []*entity.Product{
		{Category: "Makanan"},
		{Category: "Makanan"},
		{Category: "Minuman"},
		{Category: ""},
		{Category: "   "},
		{Category: "Otomotif"},
		nil,
	}

	got := metrics.CategoryHistogram(products)

	require.Len(t, got, 3)
	assert.Equal(t, metrics.Bucket{Name: "Makanan", Value: 2, Color: metrics.CategoryColors["Makanan"]}, got[0])
	assert.Equal(t, "Minuman", got[1].Name)
	assert.Equal(t, "Otomotif", got[2].Name)
	assert.Equal(t, metrics.FallbackColor, got[2].Color)
	for _, b := range got {
		assert.NotEmpty(t, b.Name)
		assert.NotEqual(t, "undefined", b.Name)
	}
}

func TestAITypeHistogram_TipoDesconocidoUsaColorPorDefecto(t *testing.T) {
	gens := []*entity.AIGeneration{
		{GenerationType: entity.GenerationMarketingCaption},
		{GenerationType: entity.GenerationMarketingCaption},
		{GenerationType: "video_script"},
	}

	got := metrics.AITypeHistogram(gens)

	require.Len(t, got, 2)
	assert.Equal(t, entity.GenerationMarketingCaption, got[0].Name)
	assert.Equal(t, 2, got[0].Value)
	assert.Equal(t, metrics.AITypeColors[entity.GenerationMarketingCaption], got[0].Color)
	assert.Equal(t, "video_script", got[1].Name)
	assert.Equal(t, metrics.FallbackColor, got[1].Color)
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, "#F97316", metrics.ColorFor(metrics.CategoryColors, "Makanan"))
	assert.Equal(t, metrics.FallbackColor, metrics.ColorFor(metrics.CategoryColors, "Lainnya"))
	assert.Equal(t, metrics.FallbackColor, metrics.ColorFor(nil, "x"))
}

// Escenario de punta a punta: tres productos con stock 10/0/3 y precios 10000/20000/0.
func TestEscenario_TresProductos(t *testing.T) {
	products := []*entity.Product{
		{ID: "p1", Name: "Keripik", Price: dec(10000), Cost: dec(6000), Stock: 10, IsActive: true},
		{ID: "p2", Name: "Sambal", Price: dec(20000), Cost: dec(12000), Stock: 0, IsActive: true},
		{ID: "p3", Name: "Sampel", Price: dec(0), Stock: 3, IsActive: false},
	}

	v := metrics.ComputeInventoryValue(products)
	assert.Equal(t, "100000", v.Omzet.String())
	assert.Equal(t, "40000", v.Laba.String())

	// Activando el tercero: precio 0 y costo nulo no suman nada.
	products[2].IsActive = true
	v = metrics.ComputeInventoryValue(products)
	assert.Equal(t, "100000", v.Omzet.String())
	assert.Equal(t, "40000", v.Laba.String())
	assert.Equal(t, 3, v.ActiveProducts)

	low := metrics.LowStock(products, 5)
	require.Len(t, low, 2)
	assert.Equal(t, "p2", low[0].ID)
	assert.Equal(t, "p3", low[1].ID)
}

func TestRealizedRevenue(t *testing.T) {
	sales := []*entity.SalesTransaction{
		{Quantity: 2, Total: decimal.NewFromInt(20000)},
		{Quantity: 1, Total: decimal.NewFromInt(15000)},
	}
	got := metrics.RealizedRevenue(sales)
	assert.Equal(t, "35000", got.Revenue.String())
	assert.Equal(t, 2, got.Transactions)
	assert.Equal(t, 3, got.UnitsSold)
}

func TestDailySales_RellenaDiasSinVentas(t *testing.T) {
	day := func(d int, h int) time.Time { return time.Date(2024, 3, d, h, 0, 0, 0, time.UTC) }
	sales := []*entity.SalesTransaction{
		{Quantity: 1, Total: decimal.NewFromInt(1000), CreatedAt: day(1, 9)},
		{Quantity: 2, Total: decimal.NewFromInt(3000), CreatedAt: day(1, 18)},
		{Quantity: 1, Total: decimal.NewFromInt(500), CreatedAt: day(3, 10)},
		{Quantity: 9, Total: decimal.NewFromInt(9000), CreatedAt: day(9, 10)}, // fuera de rango
	}

	got := metrics.DailySales(sales, day(1, 0), day(3, 23), time.UTC)

	require.Len(t, got, 3)
	assert.Equal(t, "2024-03-01", got[0].Date)
	assert.Equal(t, "4000", got[0].Revenue.String())
	assert.Equal(t, 2, got[0].Transactions)
	assert.Equal(t, 0, got[1].Transactions)
	assert.True(t, got[1].Revenue.IsZero())
	assert.Equal(t, "500", got[2].Revenue.String())
}

func TestDailySales_RangoInvertido(t *testing.T) {
	now := time.Now()
	assert.Empty(t, metrics.DailySales(nil, now, now.AddDate(0, 0, -1), nil))
}

func TestTopProducts(t *testing.T) {
	sales := []*entity.SalesTransaction{
		{ProductID: "a", ProductName: "A", Quantity: 1, Total: decimal.NewFromInt(100)},
		{ProductID: "b", ProductName: "B", Quantity: 5, Total: decimal.NewFromInt(500)},
		{ProductID: "a", ProductName: "A", Quantity: 1, Total: decimal.NewFromInt(100)},
		{ProductID: "c", ProductName: "C", Quantity: 1, Total: decimal.NewFromInt(50)},
	}
	got := metrics.TopProducts(sales, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ProductID)
	assert.Equal(t, "a", got[1].ProductID)
	assert.Equal(t, 2, got[1].UnitsSold)
}
