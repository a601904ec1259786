// Package backup exporta e importa los datos del usuario (respaldo JSON) y arma los reportes
// descargables en Excel, texto plano y PDF.
package backup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/application/sales"
	"github.com/umkmhub/umkm-api/internal/application/usecase"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/metrics"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
	"github.com/umkmhub/umkm-api/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const reportDays = 30

// UseCase respaldo y reportes de un usuario.
type UseCase struct {
	users         repository.UserRepository
	products      repository.ProductRepository
	sales         repository.SalesRepository
	notifications repository.NotificationRepository
	renderer      ReportRenderer
	threshold     int
	loc           *time.Location
	log           *logger.Logger
	now           func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	users repository.UserRepository,
	products repository.ProductRepository,
	salesRepo repository.SalesRepository,
	notifications repository.NotificationRepository,
	renderer ReportRenderer,
	lowStockThreshold int,
	loc *time.Location,
	log *logger.Logger,
) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		users:         users,
		products:      products,
		sales:         salesRepo,
		notifications: notifications,
		renderer:      renderer,
		threshold:     lowStockThreshold,
		loc:           loc,
		log:           log.Named("backup"),
		now:           time.Now,
	}
}

// Export arma el respaldo JSON con la versión literal "1.0".
func (uc *UseCase) Export(ctx context.Context, userID string) (*dto.BackupFile, error) {
	var (
		products      []*entity.Product
		salesRows     []*entity.SalesTransaction
		notifications []*entity.Notification
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = uc.products.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		salesRows, err = uc.sales.List(gctx, repository.SalesFilter{UserID: userID})
		return err
	})
	g.Go(func() (err error) {
		notifications, err = uc.notifications.ListByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("backup export: %w", err)
	}

	out := &dto.BackupFile{
		Version:       dto.BackupVersion,
		ExportedAt:    uc.now().UTC(),
		Products:      make([]dto.ProductResponse, 0, len(products)),
		Sales:         make([]dto.SaleResponse, 0, len(salesRows)),
		Notifications: usecase.ToNotificationResponses(notifications),
	}
	for _, p := range products {
		out.Products = append(out.Products, *usecase.ToProductResponse(p))
	}
	for _, s := range salesRows {
		out.Sales = append(out.Sales, *sales.ToSaleResponse(s, nil))
	}
	return out, nil
}

// Import restaura los productos del respaldo sobre la cuenta del usuario. Las ventas y
// notificaciones del archivo no se reescriben: el stock ya refleja las ventas.
// Un producto cuyo id pertenece a otra cuenta se omite.
func (uc *UseCase) Import(ctx context.Context, userID string, file *dto.BackupFile) (*dto.ImportResult, error) {
	if file == nil {
		return nil, fmt.Errorf("backup vacío: %w", domain.ErrInvalidInput)
	}
	if file.Version != dto.BackupVersion {
		return nil, fmt.Errorf("versión %q: %w", file.Version, domain.ErrUnsupportedVersion)
	}

	res := &dto.ImportResult{}
	for i := range file.Products {
		in := &file.Products[i]
		outcome, err := uc.importProduct(ctx, userID, in)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("produk %q: %v", in.Name, err))
			continue
		}
		switch outcome {
		case "created":
			res.Created++
		case "updated":
			res.Updated++
		default:
			res.Skipped++
		}
	}
	uc.log.Info().
		Str("user_id", userID).
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("skipped", res.Skipped).
		Msg("respaldo restaurado")
	return res, nil
}

func (uc *UseCase) importProduct(ctx context.Context, userID string, in *dto.ProductResponse) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", fmt.Errorf("name vacío: %w", domain.ErrInvalidInput)
	}
	if in.Stock < 0 || (in.Price != nil && in.Price.IsNegative()) || (in.Cost != nil && in.Cost.IsNegative()) {
		return "", fmt.Errorf("valores negativos: %w", domain.ErrInvalidInput)
	}

	id := in.ID
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.New().String()
	}
	now := uc.now()
	p := &entity.Product{
		ID:          id,
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Stock:       in.Stock,
		IsActive:    in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Price != nil {
		p.Price.Decimal, p.Price.Valid = *in.Price, true
	}
	if in.Cost != nil {
		p.Cost.Decimal, p.Cost.Valid = *in.Cost, true
	}
	if !in.CreatedAt.IsZero() {
		p.CreatedAt = in.CreatedAt
	}

	existing, err := uc.products.GetByID(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := uc.products.Create(ctx, p); err != nil {
			return "", err
		}
		return "created", nil
	case err != nil:
		return "", err
	case existing.UserID != userID:
		return "skipped", nil
	}
	p.CreatedAt = existing.CreatedAt
	if err := uc.products.Update(ctx, p); err != nil {
		return "", err
	}
	if err := uc.products.SetStock(ctx, p.ID, p.Stock); err != nil {
		return "", err
	}
	return "updated", nil
}

// BuildReport calcula el reporte de los últimos 30 días más el estado actual del inventario.
func (uc *UseCase) BuildReport(ctx context.Context, userID string) (*Report, error) {
	now := uc.now().In(uc.loc)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	from := to.AddDate(0, 0, -(reportDays - 1))

	var (
		user     *entity.User
		products []*entity.Product
		allSales []*entity.SalesTransaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = uc.users.GetByID(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		products, err = uc.products.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		allSales, err = uc.sales.List(gctx, repository.SalesFilter{UserID: userID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	end := to.AddDate(0, 0, 1)
	var window []*entity.SalesTransaction
	for _, s := range allSales {
		if !s.CreatedAt.Before(from) && s.CreatedAt.Before(end) {
			window = append(window, s)
		}
	}

	return &Report{
		BusinessName: user.BusinessName,
		OwnerEmail:   user.Email,
		GeneratedAt:  now,
		From:         from,
		To:           to,
		Inventory:    metrics.ComputeInventoryValue(products),
		Sales:        metrics.RealizedRevenue(window),
		Daily:        metrics.DailySales(window, from, to, uc.loc),
		TopProducts:  metrics.TopProducts(window, 10),
		LowStock:     metrics.LowStock(products, uc.threshold),
		Products:     products,
		SalesRows:    allSales,
	}, nil
}

// ExportExcel libro con hojas Produk y Penjualan.
func (uc *UseCase) ExportExcel(ctx context.Context, userID string) ([]byte, error) {
	return uc.render(ctx, userID, uc.renderer.Excel)
}

// ExportText reporte en texto plano.
func (uc *UseCase) ExportText(ctx context.Context, userID string) ([]byte, error) {
	return uc.render(ctx, userID, uc.renderer.Text)
}

// ExportPDF reporte de ventas en PDF.
func (uc *UseCase) ExportPDF(ctx context.Context, userID string) ([]byte, error) {
	return uc.render(ctx, userID, uc.renderer.PDF)
}

func (uc *UseCase) render(ctx context.Context, userID string, fn func(*Report) ([]byte, error)) ([]byte, error) {
	r, err := uc.BuildReport(ctx, userID)
	if err != nil {
		return nil, err
	}
	out, err := fn(r)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return out, nil
}
