package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/umkmhub/umkm-api/internal/application/sales"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
	"github.com/umkmhub/umkm-api/pkg/metrics"
)

var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool    *pgxpool.Pool
	metrics *metrics.Metrics
}

// NewTxRunner construye el runner con el pool. m puede ser nil.
func NewTxRunner(pool *pgxpool.Pool, m *metrics.Metrics) *TxRunner {
	return &TxRunner{pool: pool, metrics: m}
}

// Run inicia una transacción, ejecuta fn con los repositorios de productos y ventas atados a la tx
// y hace Commit. Cualquier error de fn (o del commit) deja la tx revertida: la fila de venta y el
// ajuste de stock se aplican juntos o no se aplican.
func (r *TxRunner) Run(ctx context.Context, fn func(products repository.ProductRepository, sales repository.SalesRepository) error) error {
	defer r.metrics.TrackDB("tx")()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductRepository(tx), NewSalesRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
