package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, user_id, name, COALESCE(description, ''), COALESCE(category, ''),
	price, cost, stock, is_active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Category,
		&p.Price, &p.Cost, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, user_id, name, description, category, price, cost, stock, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.UserID, p.Name, p.Description, p.Category,
		p.Price, p.Cost, p.Stock, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	return mapError("insert product", err)
}

// GetByID obtiene un producto por ID. domain.ErrNotFound si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("get product", err)
	}
	return p, nil
}

// Update actualiza los campos descriptivos. El stock no se toca aquí: lo cambian AdjustStock y SetStock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = NULLIF($3, ''), category = NULLIF($4, ''),
			price = $5, cost = $6, is_active = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Category, p.Price, p.Cost, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return mapError("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStock fija el stock absoluto (edición manual o restauración de backup).
func (r *ProductRepo) SetStock(ctx context.Context, id string, stock int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return mapError("set stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapError("delete product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByUser devuelve la colección completa del usuario (sin paginación), más recientes primero.
func (r *ProductRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, mapError("list products", err)
	}
	return collectProducts(rows)
}

// AdjustStock aplica delta en una sola sentencia. La condición stock + delta >= 0 se evalúa
// sobre la fila bloqueada por el UPDATE, así dos ventas concurrentes no pueden dejar stock negativo.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING stock`, id, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, mapError("adjust stock", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, mapError("adjust stock", err)
	}
	if !exists {
		return 0, domain.ErrNotFound
	}
	return 0, fmt.Errorf("adjust stock %s by %d: %w", id, delta, domain.ErrInsufficientStock)
}

// ListLowStock productos activos con stock <= threshold de todos los usuarios (job programado).
func (r *ProductRepo) ListLowStock(ctx context.Context, threshold int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE is_active AND stock <= $1
		ORDER BY user_id, stock ASC`, threshold)
	if err != nil {
		return nil, mapError("list low stock", err)
	}
	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
