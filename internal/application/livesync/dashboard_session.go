package livesync

import (
	"context"
	"sync"
	"time"

	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/metrics"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
	"github.com/umkmhub/umkm-api/internal/realtime"
	"github.com/umkmhub/umkm-api/pkg/logger"
)

// Nombres de tabla del change feed.
const (
	TableProducts      = "products"
	TableSales         = "sales_transactions"
	TableAIGenerations = "ai_generations"
	TableNotifications = "notifications"
)

// DashboardSources repositorios de los que se alimenta una sesión de dashboard.
type DashboardSources struct {
	Products      repository.ProductRepository
	Sales         repository.SalesRepository
	AIGenerations repository.AIGenerationRepository
}

// DashboardSession mantiene productos, ventas y generaciones de un usuario y emite DashboardStats
// recalculadas solo cuando cambia alguna de las tres colecciones.
type DashboardSession struct {
	userID    string
	threshold int
	now       func() time.Time

	Products      *Store[*entity.Product]
	Sales         *Store[*entity.SalesTransaction]
	AIGenerations *Store[*entity.AIGeneration]

	stats   memo[[3]uint64, metrics.DashboardStats]
	updates chan metrics.DashboardStats
	emitted [3]uint64
	sent    bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDashboardSession crea los stores del usuario. No lee nada hasta Start.
func NewDashboardSession(src DashboardSources, userID string, lowStockThreshold int, log *logger.Logger) *DashboardSession {
	if log == nil {
		log = logger.Nop()
	}
	l := log.Named("dashboard-session")
	return &DashboardSession{
		userID:    userID,
		threshold: lowStockThreshold,
		now:       time.Now,
		Products: NewStore(TableProducts, func(ctx context.Context) ([]*entity.Product, error) {
			return src.Products.ListByUser(ctx, userID)
		}, l),
		Sales: NewStore(TableSales, func(ctx context.Context) ([]*entity.SalesTransaction, error) {
			return src.Sales.List(ctx, repository.SalesFilter{UserID: userID})
		}, l),
		AIGenerations: NewStore(TableAIGenerations, func(ctx context.Context) ([]*entity.AIGeneration, error) {
			return src.AIGenerations.ListByUser(ctx, userID)
		}, l),
		updates: make(chan metrics.DashboardStats, 1),
	}
}

// Start hace la carga inicial, enlaza los stores al hub (filtrados por dueño) y arranca la emisión.
// Los errores de lectura no impiden arrancar: la sesión muestra lo que haya y reintenta con el próximo cambio.
func (d *DashboardSession) Start(ctx context.Context, hub *realtime.Hub) error {
	ctx, d.cancel = context.WithCancel(ctx)
	filter := realtime.UserFilter(d.userID)

	_ = d.Products.Fetch(ctx)
	_ = d.Sales.Fetch(ctx)
	_ = d.AIGenerations.Fetch(ctx)

	if err := d.Products.Bind(ctx, hub, realtime.Descriptor{Table: TableProducts, Event: realtime.EventAll, Filter: filter}); err != nil {
		d.Close()
		return err
	}
	if err := d.Sales.Bind(ctx, hub, realtime.Descriptor{Table: TableSales, Event: realtime.EventAll, Filter: filter}); err != nil {
		d.Close()
		return err
	}
	if err := d.AIGenerations.Bind(ctx, hub, realtime.Descriptor{Table: TableAIGenerations, Event: realtime.EventInsert, Filter: filter}); err != nil {
		d.Close()
		return err
	}

	d.publish()
	d.wg.Add(1)
	go d.loop(ctx)
	return nil
}

func (d *DashboardSession) loop(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.Products.Changes():
		case <-d.Sales.Changes():
		case <-d.AIGenerations.Changes():
		}
		d.publish()
	}
}

// publish deja en updates solo la última versión. Solo la llaman Start y loop.
func (d *DashboardSession) publish() {
	key := d.key()
	if d.sent && key == d.emitted {
		return
	}
	stats := d.Stats()
	d.emitted, d.sent = key, true
	select {
	case <-d.updates:
	default:
	}
	d.updates <- stats
}

func (d *DashboardSession) key() [3]uint64 {
	return [3]uint64{d.Products.Version(), d.Sales.Version(), d.AIGenerations.Version()}
}

// Stats devuelve las métricas actuales (memoizadas por versión de los stores).
func (d *DashboardSession) Stats() metrics.DashboardStats {
	s, _ := d.stats.get(d.key(), func() metrics.DashboardStats {
		return metrics.BuildDashboardStats(
			d.Products.Items(), d.Sales.Items(), d.AIGenerations.Items(), d.threshold, d.now(),
		)
	})
	return s
}

// Updates emite DashboardStats cada vez que cambian.
func (d *DashboardSession) Updates() <-chan metrics.DashboardStats {
	return d.updates
}

// Refresh fuerza un refetch de las tres colecciones (tras una mutación sin evento esperado).
func (d *DashboardSession) Refresh(ctx context.Context) {
	_ = d.Products.Refetch(ctx)
	_ = d.Sales.Refetch(ctx)
	_ = d.AIGenerations.Refetch(ctx)
}

// Close cancela la sesión y libera sus suscripciones.
func (d *DashboardSession) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	d.Products.Close()
	d.Sales.Close()
	d.AIGenerations.Close()
	d.wg.Wait()
}
