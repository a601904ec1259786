package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/application/usecase"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository/mocks"
)

func TestNotification_Create_TipoPorDefectoInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockNotificationRepository(ctrl)
	uc := usecase.NewNotificationUseCase(repo)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n *entity.Notification) error {
		assert.Equal(t, "u1", n.UserID)
		assert.Equal(t, entity.NotificationInfo, n.Type)
		assert.False(t, n.Read)
		return nil
	})

	out, err := uc.Create(context.Background(), "u1", dto.CreateNotificationRequest{Title: "Halo", Message: "Selamat datang"})
	require.NoError(t, err)
	assert.Equal(t, "Halo", out.Title)
}

func TestNotification_Create_Invalida(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := usecase.NewNotificationUseCase(mocks.NewMockNotificationRepository(ctrl))

	_, err := uc.Create(context.Background(), "u1", dto.CreateNotificationRequest{Title: "", Message: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), "u1", dto.CreateNotificationRequest{Title: "t", Message: "x", Type: "promo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNotification_ContadoresYMarcado(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockNotificationRepository(ctrl)
	uc := usecase.NewNotificationUseCase(repo)

	repo.EXPECT().CountUnread(gomock.Any(), "u1").Return(4, nil)
	repo.EXPECT().MarkAllRead(gomock.Any(), "u1").Return(int64(4), nil)
	repo.EXPECT().MarkRead(gomock.Any(), "n1", "u1").Return(domain.ErrNotFound)

	unread, err := uc.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, unread.Unread)

	all, err := uc.MarkAllRead(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Updated)

	assert.ErrorIs(t, uc.MarkRead(context.Background(), "u1", "n1"), domain.ErrNotFound)
}
