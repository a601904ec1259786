package repository

import (
	"context"

	"github.com/umkmhub/umkm-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Update escribe los campos descriptivos; nunca el stock.
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Product, error)

	// AdjustStock suma delta al stock en una sola sentencia condicional y devuelve el stock resultante.
	// Si el resultado fuera negativo no modifica nada y devuelve domain.ErrInsufficientStock.
	AdjustStock(ctx context.Context, id string, delta int) (int, error)

	// SetStock fija el stock a un valor absoluto.
	SetStock(ctx context.Context, id string, stock int) error

	// ListLowStock devuelve los productos activos con stock <= threshold, de todos los usuarios.
	ListLowStock(ctx context.Context, threshold int) ([]*entity.Product, error)
}
