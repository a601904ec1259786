package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

const salesTable = "sales_transactions st"

var salesColumns = []string{
	"st.id", "st.user_id", "st.product_id", "COALESCE(p.name, '')",
	"st.quantity", "st.price", "st.total", "st.created_at",
}

// psql builder con placeholders $n.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// SalesRepo implementación de SalesRepository sobre PostgreSQL (usable con pool o tx).
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

func (r *SalesRepo) selectSales() squirrel.SelectBuilder {
	return psql.Select(salesColumns...).
		From(salesTable).
		LeftJoin("products p ON p.id = st.product_id")
}

func scanSale(row pgx.Row) (*entity.SalesTransaction, error) {
	var s entity.SalesTransaction
	if err := row.Scan(&s.ID, &s.UserID, &s.ProductID, &s.ProductName,
		&s.Quantity, &s.Price, &s.Total, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la venta. Total ya viene calculado por el caso de uso.
func (r *SalesRepo) Create(ctx context.Context, s *entity.SalesTransaction) error {
	query, args, err := psql.Insert("sales_transactions").
		Columns("id", "user_id", "product_id", "quantity", "price", "total", "created_at").
		Values(s.ID, s.UserID, s.ProductID, s.Quantity, s.Price, s.Total, s.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert sale: %w", err)
	}
	_, err = r.q.Exec(ctx, query, args...)
	return mapError("insert sale", err)
}

// GetByID obtiene una venta por ID con el nombre del producto.
func (r *SalesRepo) GetByID(ctx context.Context, id string) (*entity.SalesTransaction, error) {
	query, args, err := r.selectSales().Where(squirrel.Eq{"st.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get sale: %w", err)
	}
	s, err := scanSale(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError("get sale", err)
	}
	return s, nil
}

// GetForUpdate como GetByID pero bloquea la fila de la venta; dos ediciones concurrentes de la misma
// venta se serializan y la segunda lee la cantidad ya confirmada por la primera.
func (r *SalesRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesTransaction, error) {
	query, args, err := r.selectSales().Where(squirrel.Eq{"st.id": id}).Suffix("FOR UPDATE OF st").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get sale for update: %w", err)
	}
	s, err := scanSale(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapError("get sale for update", err)
	}
	return s, nil
}

// Update reescribe cantidad, precio y total.
func (r *SalesRepo) Update(ctx context.Context, s *entity.SalesTransaction) error {
	query, args, err := psql.Update("sales_transactions").
		Set("quantity", s.Quantity).
		Set("price", s.Price).
		Set("total", s.Total).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update sale: %w", err)
	}
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return mapError("update sale", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la venta.
func (r *SalesRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales_transactions WHERE id = $1`, id)
	if err != nil {
		return mapError("delete sale", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List compone los predicados opcionales del filtro.
func (r *SalesRepo) List(ctx context.Context, f repository.SalesFilter) ([]*entity.SalesTransaction, error) {
	b := r.selectSales()
	if f.UserID != "" {
		b = b.Where(squirrel.Eq{"st.user_id": f.UserID})
	}
	if f.ProductID != "" {
		b = b.Where(squirrel.Eq{"st.product_id": f.ProductID})
	}
	if f.From != nil {
		b = b.Where(squirrel.GtOrEq{"st.created_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(squirrel.Lt{"st.created_at": *f.To})
	}
	if f.Ascending {
		b = b.OrderBy("st.created_at ASC")
	} else {
		b = b.OrderBy("st.created_at DESC")
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sales: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list sales", err)
	}
	defer rows.Close()

	list := make([]*entity.SalesTransaction, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
