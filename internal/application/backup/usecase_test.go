package backup_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/umkmhub/umkm-api/internal/application/backup"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository/mocks"
)

type fakeRenderer struct{ got *backup.Report }

func (f *fakeRenderer) Excel(r *backup.Report) ([]byte, error) { f.got = r; return []byte("xlsx"), nil }
func (f *fakeRenderer) Text(r *backup.Report) ([]byte, error)  { f.got = r; return []byte("txt"), nil }
func (f *fakeRenderer) PDF(r *backup.Report) ([]byte, error)   { f.got = r; return []byte("%PDF"), nil }

type fixture struct {
	uc            *backup.UseCase
	users         *mocks.MockUserRepository
	products      *mocks.MockProductRepository
	sales         *mocks.MockSalesRepository
	notifications *mocks.MockNotificationRepository
	renderer      *fakeRenderer
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	f := fixture{
		users:         mocks.NewMockUserRepository(ctrl),
		products:      mocks.NewMockProductRepository(ctrl),
		sales:         mocks.NewMockSalesRepository(ctrl),
		notifications: mocks.NewMockNotificationRepository(ctrl),
		renderer:      &fakeRenderer{},
	}
	f.uc = backup.NewUseCase(f.users, f.products, f.sales, f.notifications, f.renderer, 5, time.UTC, nil)
	return f
}

func TestExport_VersionLiteral(t *testing.T) {
	f := newFixture(t)
	f.products.EXPECT().ListByUser(gomock.Any(), "u1").Return([]*entity.Product{{ID: "p1", UserID: "u1", Name: "Kopi"}}, nil)
	f.sales.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*entity.SalesTransaction{{ID: "s1", ProductID: "p1", Quantity: 1}}, nil)
	f.notifications.EXPECT().ListByUser(gomock.Any(), "u1").Return(nil, nil)

	out, err := f.uc.Export(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "1.0", out.Version)
	assert.Len(t, out.Products, 1)
	assert.Len(t, out.Sales, 1)
	assert.NotNil(t, out.Notifications)
}

func TestImport_VersionNoSoportada(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Import(context.Background(), "u1", &dto.BackupFile{Version: "2.0"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedVersion)

	_, err = f.uc.Import(context.Background(), "u1", &dto.BackupFile{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedVersion)
}

func TestImport_UpsertSoloPropios(t *testing.T) {
	f := newFixture(t)
	mine := uuid.New().String()
	foreign := uuid.New().String()
	fresh := uuid.New().String()
	price := decimal.NewFromInt(12000)

	f.products.EXPECT().GetByID(gomock.Any(), mine).Return(&entity.Product{ID: mine, UserID: "u1", CreatedAt: time.Unix(100, 0)}, nil)
	f.products.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *entity.Product) error {
		assert.Equal(t, "u1", p.UserID)
		assert.Equal(t, "Kopi Baru", p.Name)
		assert.True(t, p.Price.Valid)
		assert.Equal(t, time.Unix(100, 0), p.CreatedAt)
		return nil
	})
	f.products.EXPECT().SetStock(gomock.Any(), mine, 3).Return(nil)
	f.products.EXPECT().GetByID(gomock.Any(), foreign).Return(&entity.Product{ID: foreign, UserID: "otro"}, nil)
	f.products.EXPECT().GetByID(gomock.Any(), fresh).Return(nil, domain.ErrNotFound)
	f.products.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *entity.Product) error {
		assert.Equal(t, fresh, p.ID)
		assert.Equal(t, "u1", p.UserID)
		return nil
	})

	res, err := f.uc.Import(context.Background(), "u1", &dto.BackupFile{
		Version: "1.0",
		Products: []dto.ProductResponse{
			{ID: mine, Name: "Kopi Baru", Price: &price, Stock: 3, IsActive: true},
			{ID: foreign, Name: "Ajeno", Stock: 1},
			{ID: fresh, Name: "Teh", Stock: 9, IsActive: true},
			{ID: uuid.New().String(), Name: "", Stock: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Errors, 1)
}

func TestExportText_ArmaReporte(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()
	f.users.EXPECT().GetByID(gomock.Any(), "u1").Return(&entity.User{ID: "u1", BusinessName: "Toko"}, nil)
	f.products.EXPECT().ListByUser(gomock.Any(), "u1").Return([]*entity.Product{
		{ID: "p1", Stock: 1, IsActive: true, Price: decimal.NewNullDecimal(decimal.NewFromInt(1000))},
	}, nil)
	f.sales.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*entity.SalesTransaction{
		{ID: "s1", ProductID: "p1", Quantity: 2, Total: decimal.NewFromInt(2000), CreatedAt: now},
		{ID: "s0", ProductID: "p1", Quantity: 1, Total: decimal.NewFromInt(1000), CreatedAt: now.AddDate(0, 0, -90)},
	}, nil)

	out, err := f.uc.ExportText(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "txt", string(out))
	require.NotNil(t, f.renderer.got)
	assert.Equal(t, "Toko", f.renderer.got.BusinessName)
	assert.Equal(t, 1, f.renderer.got.Sales.Transactions, "solo ventas de los últimos 30 días")
	assert.Len(t, f.renderer.got.SalesRows, 2)
	assert.Len(t, f.renderer.got.LowStock, 1)
	assert.Len(t, f.renderer.got.Daily, 30)
}
