package repository

import (
	"context"
	"time"

	"github.com/umkmhub/umkm-api/internal/domain/entity"
)

// SalesFilter predicados opcionales para listar ventas (equivalente a .eq/.gte/.lt/.order/.limit).
type SalesFilter struct {
	UserID    string
	ProductID string
	From      *time.Time // inclusive
	To        *time.Time // exclusive
	Ascending bool       // por defecto created_at DESC
	Limit     int        // 0 = sin límite
}

// SalesRepository define el puerto de persistencia para SalesTransaction.
type SalesRepository interface {
	Create(ctx context.Context, sale *entity.SalesTransaction) error
	GetByID(ctx context.Context, id string) (*entity.SalesTransaction, error)
	// GetForUpdate lee la venta y bloquea su fila hasta el fin de la tx (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.SalesTransaction, error)
	Update(ctx context.Context, sale *entity.SalesTransaction) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter SalesFilter) ([]*entity.SalesTransaction, error)
}
