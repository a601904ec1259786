package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos del usuario.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto del usuario. is_active por defecto true.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("name es obligatorio: %w", domain.ErrInvalidInput)
	}
	if err := validateAmounts(in.Price, in.Cost, in.Stock); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Price:       nullable(in.Price),
		Cost:        nullable(in.Cost),
		Stock:       in.Stock,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto propio.
func (uc *ProductUseCase) GetByID(ctx context.Context, userID, id string) (*dto.ProductResponse, error) {
	product, err := uc.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Update edita un producto propio. El stock se puede fijar a mano (inventario inicial o conteo).
func (uc *ProductUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	stock := product.Stock
	if in.Stock != nil {
		stock = *in.Stock
	}
	if err := validateAmounts(in.Price, in.Cost, stock); err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("name vacío: %w", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	switch {
	case in.ClearPrice:
		product.Price = decimal.NullDecimal{}
	case in.Price != nil:
		product.Price = nullable(in.Price)
	}
	switch {
	case in.ClearCost:
		product.Cost = decimal.NullDecimal{}
	case in.Cost != nil:
		product.Cost = nullable(in.Cost)
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	// Sin stock en el body no se reescribe: el valor leído puede estar viejo si hubo ventas entre medias.
	if in.Stock != nil {
		if err := uc.repo.SetStock(ctx, product.ID, stock); err != nil {
			return nil, err
		}
		product.Stock = stock
	}
	return ToProductResponse(product), nil
}

// List colección completa del usuario.
func (uc *ProductUseCase) List(ctx context.Context, userID string) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// Delete elimina un producto propio (borrado físico; sus ventas se eliminan en cascada).
func (uc *ProductUseCase) Delete(ctx context.Context, userID, id string) error {
	if _, err := uc.owned(ctx, userID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) owned(ctx context.Context, userID, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func validateAmounts(price, cost *decimal.Decimal, stock int) error {
	if price != nil && price.IsNegative() {
		return fmt.Errorf("price negativo: %w", domain.ErrInvalidInput)
	}
	if cost != nil && cost.IsNegative() {
		return fmt.Errorf("cost negativo: %w", domain.ErrInvalidInput)
	}
	if stock < 0 {
		return fmt.Errorf("stock negativo: %w", domain.ErrInvalidInput)
	}
	return nil
}

func nullable(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

// ToProductResponse convierte la entidad a DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Price.Valid {
		v := p.Price.Decimal
		out.Price = &v
	}
	if p.Cost.Valid {
		v := p.Cost.Decimal
		out.Cost = &v
	}
	return out
}
