// Package sales registra, edita y elimina ventas manteniendo el stock del producto en la misma
// transacción que la fila de venta.
package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
	"github.com/umkmhub/umkm-api/pkg/logger"
	"github.com/umkmhub/umkm-api/pkg/metrics"
)

// UseCase mutaciones de ventas con reconciliación de stock.
type UseCase struct {
	tx            TxRunner
	products      repository.ProductRepository
	sales         repository.SalesRepository
	notifications repository.NotificationRepository
	threshold     int
	log           *logger.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
}

// NewUseCase construye el caso de uso. notifications puede ser nil (sin avisos de stock bajo).
func NewUseCase(
	tx TxRunner,
	products repository.ProductRepository,
	sales repository.SalesRepository,
	notifications repository.NotificationRepository,
	lowStockThreshold int,
	log *logger.Logger,
	m *metrics.Metrics,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		tx:            tx,
		products:      products,
		sales:         sales,
		notifications: notifications,
		threshold:     lowStockThreshold,
		log:           log.Named("sales"),
		metrics:       m,
		now:           time.Now,
	}
}

// RecordSale registra una venta. Rechaza quantity > stock antes de escribir nada; luego, en una tx,
// inserta la fila y descuenta el stock con la actualización condicional (que también protege
// contra una venta concurrente entre la lectura y la escritura).
func (uc *UseCase) RecordSale(ctx context.Context, userID string, in dto.RecordSaleRequest) (resp *dto.SaleResponse, err error) {
	defer func() { uc.metrics.SalesOperation("record", err) }()

	if in.ProductID == "" || in.Quantity < 1 {
		return nil, fmt.Errorf("record sale: quantity debe ser >= 1: %w", domain.ErrInvalidInput)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, fmt.Errorf("record sale: price negativo: %w", domain.ErrInvalidInput)
	}

	product, err := uc.ownedProduct(ctx, uc.products, userID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if in.Quantity > product.Stock {
		return nil, fmt.Errorf("record sale: pedido %d, disponible %d: %w", in.Quantity, product.Stock, domain.ErrInsufficientStock)
	}

	sale := &entity.SalesTransaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    in.Quantity,
		Price:       product.PriceOrZero(),
		CreatedAt:   uc.now(),
	}
	if in.Price != nil {
		sale.Price = *in.Price
	}
	sale.Recalculate()

	var stockAfter int
	err = uc.tx.Run(ctx, func(products repository.ProductRepository, sales repository.SalesRepository) error {
		if err := sales.Create(ctx, sale); err != nil {
			return err
		}
		stock, err := products.AdjustStock(ctx, product.ID, -sale.Quantity)
		if err != nil {
			return err
		}
		stockAfter = stock
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterStockChange(ctx, product, stockAfter)
	return ToSaleResponse(sale, &stockAfter), nil
}

// UpdateSale cambia cantidad y/o precio. El stock recibe −(nueva − anterior) en la misma tx.
func (uc *UseCase) UpdateSale(ctx context.Context, userID, saleID string, in dto.UpdateSaleRequest) (resp *dto.SaleResponse, err error) {
	defer func() { uc.metrics.SalesOperation("update", err) }()

	if in.Quantity != nil && *in.Quantity < 1 {
		return nil, fmt.Errorf("update sale: quantity debe ser >= 1: %w", domain.ErrInvalidInput)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, fmt.Errorf("update sale: price negativo: %w", domain.ErrInvalidInput)
	}

	var (
		updated    *entity.SalesTransaction
		stockAfter int
		delta      int
	)
	err = uc.tx.Run(ctx, func(products repository.ProductRepository, sales repository.SalesRepository) error {
		sale, err := uc.ownedSale(ctx, sales, userID, saleID)
		if err != nil {
			return err
		}
		oldQty := sale.Quantity
		if in.Quantity != nil {
			sale.Quantity = *in.Quantity
		}
		if in.Price != nil {
			sale.Price = *in.Price
		}
		sale.Recalculate()
		if err := sales.Update(ctx, sale); err != nil {
			return err
		}

		delta = -(sale.Quantity - oldQty)
		if delta != 0 {
			stock, err := products.AdjustStock(ctx, sale.ProductID, delta)
			if err != nil {
				return err
			}
			stockAfter = stock
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	if delta == 0 {
		return ToSaleResponse(updated, nil), nil
	}
	if product, perr := uc.products.GetByID(ctx, updated.ProductID); perr == nil {
		uc.afterStockChange(ctx, product, stockAfter)
	}
	return ToSaleResponse(updated, &stockAfter), nil
}

// DeleteSale elimina la venta y devuelve su cantidad al stock en la misma tx.
func (uc *UseCase) DeleteSale(ctx context.Context, userID, saleID string) (err error) {
	defer func() { uc.metrics.SalesOperation("delete", err) }()

	return uc.tx.Run(ctx, func(products repository.ProductRepository, sales repository.SalesRepository) error {
		sale, err := uc.ownedSale(ctx, sales, userID, saleID)
		if err != nil {
			return err
		}
		if err := sales.Delete(ctx, sale.ID); err != nil {
			return err
		}
		_, err = products.AdjustStock(ctx, sale.ProductID, sale.Quantity)
		return err
	})
}

// List ventas del usuario con los filtros opcionales.
func (uc *UseCase) List(ctx context.Context, userID string, in dto.SalesListRequest) (*dto.SalesListResponse, error) {
	filter := repository.SalesFilter{
		UserID:    userID,
		ProductID: in.ProductID,
		Ascending: in.Order == "asc",
		Limit:     in.Limit,
	}
	var err error
	if filter.From, err = parseBound(in.From, false); err != nil {
		return nil, err
	}
	if filter.To, err = parseBound(in.To, true); err != nil {
		return nil, err
	}

	list, err := uc.sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToSaleResponse(s, nil))
	}
	return &dto.SalesListResponse{Items: items, Total: len(items)}, nil
}

// parseBound acepta RFC3339 o YYYY-MM-DD. Para el límite superior una fecha sola incluye el día entero.
func parseBound(s string, upper bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("fecha %q: %w", s, domain.ErrInvalidInput)
	}
	if upper {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}

func (uc *UseCase) ownedProduct(ctx context.Context, repo repository.ProductRepository, userID, productID string) (*entity.Product, error) {
	p, err := repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// ownedSale bloquea la fila de la venta dentro de la tx: la cantidad anterior usada para compensar
// el stock es la confirmada, no una lectura vieja.
func (uc *UseCase) ownedSale(ctx context.Context, repo repository.SalesRepository, userID, saleID string) (*entity.SalesTransaction, error) {
	s, err := repo.GetForUpdate(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// afterStockChange crea el aviso de stock bajo. Va después del commit y es best effort:
// un fallo aquí no revierte la venta.
func (uc *UseCase) afterStockChange(ctx context.Context, product *entity.Product, stockAfter int) {
	if uc.notifications == nil || product == nil || stockAfter > uc.threshold {
		return
	}
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    product.UserID,
		Title:     "Stok menipis",
		Message:   fmt.Sprintf("Stok %s tinggal %d unit.", product.Name, stockAfter),
		Type:      entity.NotificationLowStock,
		CreatedAt: uc.now(),
	}
	if stockAfter == 0 {
		n.Title = "Stok habis"
		n.Message = fmt.Sprintf("Stok %s sudah habis.", product.Name)
	}
	if err := uc.notifications.Create(ctx, n); err != nil && !errors.Is(err, context.Canceled) {
		uc.log.Warn().Err(err).Str("product_id", product.ID).Msg("no se pudo crear aviso de stock bajo")
	}
}

// ToSaleResponse mapea la entidad; stockAfter nil si la operación no tocó el stock.
func ToSaleResponse(s *entity.SalesTransaction, stockAfter *int) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:          s.ID,
		ProductID:   s.ProductID,
		ProductName: s.ProductName,
		Quantity:    s.Quantity,
		Price:       s.Price,
		Total:       s.Total,
		CreatedAt:   s.CreatedAt,
		StockAfter:  stockAfter,
	}
}
