package livesync_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/umkmhub/umkm-api/internal/application/livesync"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/metrics"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
	"github.com/umkmhub/umkm-api/internal/domain/repository/mocks"
	"github.com/umkmhub/umkm-api/internal/realtime"
)

func product(id string, price int64, stock int) *entity.Product {
	return &entity.Product{
		ID: id, UserID: "u1", Name: id, Category: "Makanan",
		Price: decimal.NewNullDecimal(decimal.NewFromInt(price)), Stock: stock, IsActive: true,
	}
}

func nextStats(t *testing.T, ch <-chan metrics.DashboardStats) metrics.DashboardStats {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó actualización del dashboard")
		return metrics.DashboardStats{}
	}
}

func TestDashboardSession_EmiteAlCambiarProductos(t *testing.T) {
	ctrl := gomock.NewController(t)
	products := mocks.NewMockProductRepository(ctrl)
	sales := mocks.NewMockSalesRepository(ctrl)
	gens := mocks.NewMockAIGenerationRepository(ctrl)

	gomock.InOrder(
		products.EXPECT().ListByUser(gomock.Any(), "u1").Return([]*entity.Product{product("p1", 10000, 10)}, nil),
		products.EXPECT().ListByUser(gomock.Any(), "u1").Return([]*entity.Product{
			product("p1", 10000, 10), product("p2", 5000, 2),
		}, nil),
	)
	sales.EXPECT().List(gomock.Any(), repository.SalesFilter{UserID: "u1"}).Return([]*entity.SalesTransaction{}, nil)
	gens.EXPECT().ListByUser(gomock.Any(), "u1").Return(nil, errors.New("timeout")) // lectura fallida: se ignora

	hub := realtime.NewHub(nil)
	sess := livesync.NewDashboardSession(livesync.DashboardSources{
		Products: products, Sales: sales, AIGenerations: gens,
	}, "u1", 5, nil)
	require.NoError(t, sess.Start(context.Background(), hub))
	defer sess.Close()

	first := nextStats(t, sess.Updates())
	assert.Equal(t, 1, first.TotalProducts)
	assert.Equal(t, "100000", first.Inventory.Omzet.String())
	assert.Equal(t, 0, first.AIGenerations)

	hub.Publish(realtime.ChangeEvent{
		Table: livesync.TableProducts, Event: realtime.EventInsert,
		Record: map[string]any{"id": "p2", "user_id": "u1"},
	})

	second := nextStats(t, sess.Updates())
	assert.Equal(t, 2, second.TotalProducts)
	assert.Equal(t, "110000", second.Inventory.Omzet.String())
	assert.Equal(t, 1, second.LowStockCount)
}

func TestDashboardSession_CloseLiberaSuscripciones(t *testing.T) {
	ctrl := gomock.NewController(t)
	products := mocks.NewMockProductRepository(ctrl)
	sales := mocks.NewMockSalesRepository(ctrl)
	gens := mocks.NewMockAIGenerationRepository(ctrl)
	products.EXPECT().ListByUser(gomock.Any(), "u1").Return(nil, nil)
	sales.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
	gens.EXPECT().ListByUser(gomock.Any(), "u1").Return(nil, nil)

	hub := realtime.NewHub(nil)
	sess := livesync.NewDashboardSession(livesync.DashboardSources{Products: products, Sales: sales, AIGenerations: gens}, "u1", 5, nil)
	require.NoError(t, sess.Start(context.Background(), hub))
	assert.Equal(t, 3, hub.Len())

	sess.Close()
	assert.Equal(t, 0, hub.Len())
}

// Refresh recarga las tres colecciones sin que llegue ningún evento del hub.
func TestDashboardSession_RefreshSinEventos(t *testing.T) {
	ctrl := gomock.NewController(t)
	products := mocks.NewMockProductRepository(ctrl)
	sales := mocks.NewMockSalesRepository(ctrl)
	gens := mocks.NewMockAIGenerationRepository(ctrl)

	gomock.InOrder(
		products.EXPECT().ListByUser(gomock.Any(), "u1").Return([]*entity.Product{product("p1", 10000, 10)}, nil),
		products.EXPECT().ListByUser(gomock.Any(), "u1").Return([]*entity.Product{product("p1", 10000, 4)}, nil),
	)
	gomock.InOrder(
		sales.EXPECT().List(gomock.Any(), repository.SalesFilter{UserID: "u1"}).Return(nil, nil),
		sales.EXPECT().List(gomock.Any(), repository.SalesFilter{UserID: "u1"}).Return([]*entity.SalesTransaction{
			{ID: "s1", UserID: "u1", ProductID: "p1", Quantity: 6, Price: decimal.NewFromInt(10000), Total: decimal.NewFromInt(60000)},
		}, nil),
	)
	gens.EXPECT().ListByUser(gomock.Any(), "u1").Return(nil, nil).Times(2)

	hub := realtime.NewHub(nil)
	sess := livesync.NewDashboardSession(livesync.DashboardSources{
		Products: products, Sales: sales, AIGenerations: gens,
	}, "u1", 5, nil)
	require.NoError(t, sess.Start(context.Background(), hub))
	defer sess.Close()

	first := nextStats(t, sess.Updates())
	assert.Equal(t, "100000", first.Inventory.Omzet.String())
	assert.True(t, first.Sales.Revenue.IsZero())

	sess.Refresh(context.Background())

	require.Eventually(t, func() bool {
		st := sess.Stats()
		return st.Inventory.Omzet.String() == "40000" && st.Sales.Revenue.String() == "60000"
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, sess.Stats().LowStockCount)
}

func TestNotificationSession_ConteoNoLeidas(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockNotificationRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().ListByUser(gomock.Any(), "u1").Return([]*entity.Notification{
			{ID: "n1", Read: false}, {ID: "n2", Read: true},
		}, nil),
		repo.EXPECT().ListByUser(gomock.Any(), "u1").Return([]*entity.Notification{
			{ID: "n3", Read: false}, {ID: "n1", Read: false}, {ID: "n2", Read: true},
		}, nil),
	)

	hub := realtime.NewHub(nil)
	sess := livesync.NewNotificationSession(repo, "u1", nil)
	require.NoError(t, sess.Start(context.Background(), hub))
	defer sess.Close()
	assert.Equal(t, 1, hub.Len(), "una sola suscripción por sesión")

	first := <-sess.Updates()
	assert.Equal(t, 1, first.Unread)

	hub.Publish(realtime.ChangeEvent{Table: livesync.TableNotifications, Event: realtime.EventInsert,
		Record: map[string]any{"id": "n3", "user_id": "u1"}})

	select {
	case snap := <-sess.Updates():
		assert.Equal(t, 2, snap.Unread)
		assert.Len(t, snap.Items, 3)
	case <-time.After(2 * time.Second):
		t.Fatal("no llegó snapshot de notificaciones")
	}
}
