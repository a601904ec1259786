package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/umkmhub/umkm-api/internal/application/analytics"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/application/livesync"
	"github.com/umkmhub/umkm-api/internal/realtime"
	"github.com/umkmhub/umkm-api/pkg/logger"
)

// DashboardHandler estadísticas del dashboard, puntuales y en vivo.
type DashboardHandler struct {
	uc        *appanalytics.DashboardUseCase
	sources   livesync.DashboardSources
	threshold int
	resync    time.Duration
	hub       *realtime.Hub
	streamer  *Streamer
	log       *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(
	uc *appanalytics.DashboardUseCase,
	sources livesync.DashboardSources,
	lowStockThreshold int,
	resync time.Duration,
	hub *realtime.Hub,
	streamer *Streamer,
	log *logger.Logger,
) *DashboardHandler {
	return &DashboardHandler{uc: uc, sources: sources, threshold: lowStockThreshold, resync: resync, hub: hub, streamer: streamer, log: log}
}

// GetStats godoc
// @Summary      Estadísticas del dashboard
// @Description  inventory: potential_omzet y potential_laba de los productos activos (precio × stock y
// @Description  (precio − costo) × stock), active_products y total_stock. sales: realized_revenue,
// @Description  transactions y units_sold sobre todas las ventas. Además total_products, low_stock_count,
// @Description  categorías, uso de IA por tipo, top 5 productos y ventas de los últimos 7 días.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  metrics.DashboardStats
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	out, err := h.uc.GetStats(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Live godoc
// @Summary      Dashboard en vivo (SSE)
// @Description  Emite "stats" con DashboardStats al abrir y cada vez que cambian productos, ventas
// @Description  o generaciones del usuario. Además recarga todo cada REALTIME_RESYNC_SECONDS por si se
// @Description  perdieron eventos durante una reconexión del change feed. EventSource puede
// @Description  autenticarse con ?access_token=.
// @Tags         dashboard
// @Security     Bearer
// @Produce      text/event-stream
// @Success      200
// @Router       /api/dashboard/live [get]
func (h *DashboardHandler) Live(c *fiber.Ctx) error {
	sess := livesync.NewDashboardSession(h.sources, GetUserID(c), h.threshold, h.log)
	if err := sess.Start(h.streamer.base, h.hub); err != nil {
		return respondError(c, err)
	}
	return h.streamer.Stream(c, func(ctx context.Context, out *eventWriter, ping <-chan time.Time) error {
		var resync <-chan time.Time
		if h.resync > 0 {
			t := time.NewTicker(h.resync)
			defer t.Stop()
			resync = t.C
		}
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-resync:
				sess.Refresh(ctx)
			case stats := <-sess.Updates():
				if err := out.Event("stats", stats); err != nil {
					return err
				}
			case <-ping:
				if err := out.Ping(); err != nil {
					return err
				}
			}
		}
	}, sess.Close)
}

// AnalyticsHandler gráficos y reporte de ventas.
type AnalyticsHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *appanalytics.DashboardUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Categories godoc
// @Summary      Productos por categoría
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ChartResponse
// @Router       /api/analytics/categories [get]
func (h *AnalyticsHandler) Categories(c *fiber.Ctx) error {
	out, err := h.uc.GetCategoryChart(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AIUsage godoc
// @Summary      Generaciones de IA por tipo
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ChartResponse
// @Router       /api/analytics/ai-usage [get]
func (h *AnalyticsHandler) AIUsage(c *fiber.Ctx) error {
	out, err := h.uc.GetAIUsageChart(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Sales godoc
// @Summary      Reporte de ventas por rango
// @Description  from/to en YYYY-MM-DD (inclusive). Por defecto los últimos 30 días; máximo 366.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200   {object}  dto.SalesReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/analytics/sales [get]
func (h *AnalyticsHandler) Sales(c *fiber.Ctx) error {
	var in dto.SalesReportRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.GetSalesReport(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
