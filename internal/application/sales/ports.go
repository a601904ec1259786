package sales

import (
	"context"

	"github.com/umkmhub/umkm-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con repositorios de productos y ventas atados a ella.
// Si fn devuelve error nada de lo escrito dentro persiste.
type TxRunner interface {
	Run(ctx context.Context, fn func(products repository.ProductRepository, sales repository.SalesRepository) error) error
}
