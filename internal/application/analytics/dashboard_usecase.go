// Package analytics contiene los casos de uso de estadísticas del dashboard y reportes de ventas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/metrics"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

const (
	reportTopProducts  = 10
	defaultReportRange = 30 // días
	maxReportRange     = 366
)

// DashboardUseCase calcula las métricas derivadas a partir de las colecciones del usuario.
// No hay agregación en SQL: se cargan las filas y se reutilizan las funciones puras de domain/metrics,
// igual que hace la sesión en vivo.
type DashboardUseCase struct {
	products  repository.ProductRepository
	sales     repository.SalesRepository
	gens      repository.AIGenerationRepository
	threshold int
	loc       *time.Location
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso. loc define el día calendario de las series (nil = UTC).
func NewDashboardUseCase(
	products repository.ProductRepository,
	sales repository.SalesRepository,
	gens repository.AIGenerationRepository,
	lowStockThreshold int,
	loc *time.Location,
) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardUseCase{
		products:  products,
		sales:     sales,
		gens:      gens,
		threshold: lowStockThreshold,
		loc:       loc,
		now:       time.Now,
	}
}

// GetStats construye DashboardStats. Las tres lecturas van en paralelo; si una falla se cancela el resto.
func (uc *DashboardUseCase) GetStats(ctx context.Context, userID string) (*metrics.DashboardStats, error) {
	var (
		products []*entity.Product
		sales    []*entity.SalesTransaction
		gens     []*entity.AIGeneration
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = uc.products.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		sales, err = uc.sales.List(gctx, repository.SalesFilter{UserID: userID})
		return err
	})
	g.Go(func() (err error) {
		gens, err = uc.gens.ListByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	stats := metrics.BuildDashboardStats(products, sales, gens, uc.threshold, uc.now().In(uc.loc))
	return &stats, nil
}

// GetCategoryChart histograma de productos por categoría.
func (uc *DashboardUseCase) GetCategoryChart(ctx context.Context, userID string) (*dto.ChartResponse, error) {
	products, err := uc.products.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return chart(metrics.CategoryHistogram(products)), nil
}

// GetAIUsageChart histograma de generaciones por tipo.
func (uc *DashboardUseCase) GetAIUsageChart(ctx context.Context, userID string) (*dto.ChartResponse, error) {
	gens, err := uc.gens.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return chart(metrics.AITypeHistogram(gens)), nil
}

// GetSalesReport ingreso realizado y serie diaria en [from, to].
func (uc *DashboardUseCase) GetSalesReport(ctx context.Context, userID string, in dto.SalesReportRequest) (*dto.SalesReportResponse, error) {
	from, to, err := uc.reportRange(in)
	if err != nil {
		return nil, err
	}
	end := to.AddDate(0, 0, 1)
	sales, err := uc.sales.List(ctx, repository.SalesFilter{
		UserID:    userID,
		From:      &from,
		To:        &end,
		Ascending: true,
	})
	if err != nil {
		return nil, err
	}
	return &dto.SalesReportResponse{
		From:        from.Format(time.DateOnly),
		To:          to.Format(time.DateOnly),
		Totals:      metrics.RealizedRevenue(sales),
		Daily:       metrics.DailySales(sales, from, to, uc.loc),
		TopProducts: metrics.TopProducts(sales, reportTopProducts),
	}, nil
}

// reportRange devuelve el primer y último día (inclusive) a medianoche en uc.loc.
func (uc *DashboardUseCase) reportRange(in dto.SalesReportRequest) (time.Time, time.Time, error) {
	today := midnight(uc.now().In(uc.loc))
	to := today
	if in.To != "" {
		t, err := uc.parseDay(in.To)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	from := to.AddDate(0, 0, -(defaultReportRange - 1))
	if in.From != "" {
		t, err := uc.parseDay(in.From)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("from posterior a to: %w", domain.ErrInvalidInput)
	}
	// from y to cuentan ambos: como mucho maxReportRange días de calendario.
	if !to.Before(from.AddDate(0, 0, maxReportRange)) {
		return time.Time{}, time.Time{}, fmt.Errorf("rango máximo %d días: %w", maxReportRange, domain.ErrInvalidInput)
	}
	return from, to, nil
}

func (uc *DashboardUseCase) parseDay(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, uc.loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha %q: %w", s, domain.ErrInvalidInput)
	}
	return midnight(t.In(uc.loc)), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func chart(items []metrics.Bucket) *dto.ChartResponse {
	total := 0
	for _, b := range items {
		total += b.Value
	}
	return &dto.ChartResponse{Items: items, Total: total}
}
