package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/application/usecase"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository/mocks"
	"github.com/umkmhub/umkm-api/pkg/metrics"
)

func strPtr(s string) *string { return &s }

func TestAdmin_UpdateUser_EmailYPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	uc := usecase.NewAdminUseCase(users, nil, usecase.HealthProbe{}, nil)

	users.EXPECT().UpdateCredentials(gomock.Any(), "u2", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id string, email, hash *string) (*entity.User, error) {
			require.NotNil(t, email)
			require.NotNil(t, hash)
			assert.Equal(t, "nuevo@toko.id", *email)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*hash), []byte("rahasia123")))
			return &entity.User{ID: id, Email: *email, PasswordHash: *hash, Role: entity.RoleUser}, nil
		})

	resp, err := uc.UpdateUser(context.Background(), "admin1", entity.RoleAdmin, dto.AdminUpdateUserRequest{
		UserID:      "u2",
		NewEmail:    strPtr("  Nuevo@Toko.ID "),
		NewPassword: strPtr("rahasia123"),
	})
	require.NoError(t, err)
	assert.Equal(t, "User updated successfully", resp.Message)
	assert.Equal(t, "nuevo@toko.id", resp.User.Email)
}

func TestAdmin_UpdateUser_SoloPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	uc := usecase.NewAdminUseCase(users, nil, usecase.HealthProbe{}, nil)

	users.EXPECT().UpdateCredentials(gomock.Any(), "u2", nil, gomock.Not(nil)).
		Return(&entity.User{ID: "u2", Email: "a@b.co", Role: entity.RoleUser}, nil)

	_, err := uc.UpdateUser(context.Background(), "admin1", entity.RoleAdmin, dto.AdminUpdateUserRequest{
		UserID: "u2", NewPassword: strPtr("123456"),
	})
	require.NoError(t, err)
}

func TestAdmin_UpdateUser_NoAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := usecase.NewAdminUseCase(mocks.NewMockUserRepository(ctrl), nil, usecase.HealthProbe{}, nil)

	_, err := uc.UpdateUser(context.Background(), "u1", entity.RoleUser, dto.AdminUpdateUserRequest{
		UserID: "u2", NewPassword: strPtr("123456"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAdmin_UpdateUser_Validaciones(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := usecase.NewAdminUseCase(mocks.NewMockUserRepository(ctrl), nil, usecase.HealthProbe{}, nil)
	ctx := context.Background()

	_, err := uc.UpdateUser(ctx, "a", entity.RoleAdmin, dto.AdminUpdateUserRequest{NewPassword: strPtr("123456")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateUser(ctx, "a", entity.RoleAdmin, dto.AdminUpdateUserRequest{UserID: "u2"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateUser(ctx, "a", entity.RoleAdmin, dto.AdminUpdateUserRequest{UserID: "u2", NewPassword: strPtr("123")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateUser(ctx, "a", entity.RoleAdmin, dto.AdminUpdateUserRequest{UserID: "u2", NewEmail: strPtr("no-es-email")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdmin_UpdateUser_NoExiste(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	uc := usecase.NewAdminUseCase(users, nil, usecase.HealthProbe{}, nil)
	users.EXPECT().UpdateCredentials(gomock.Any(), "zz", gomock.Any(), nil).Return(nil, domain.ErrUserNotFound)

	_, err := uc.UpdateUser(context.Background(), "a", entity.RoleAdmin, dto.AdminUpdateUserRequest{
		UserID: "zz", NewEmail: strPtr("x@y.co"),
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAdmin_ListAIGenerations_AcotaPagina(t *testing.T) {
	ctrl := gomock.NewController(t)
	gens := mocks.NewMockAIGenerationRepository(ctrl)
	uc := usecase.NewAdminUseCase(nil, gens, usecase.HealthProbe{}, nil)

	gens.EXPECT().ListAll(gomock.Any(), "general", 100, 0).
		Return([]*entity.AIGeneration{{ID: "g1", GenerationType: "general"}}, nil)

	out, err := uc.ListAIGenerations(context.Background(), "general", dto.PageRequest{Limit: 500, Offset: -3})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "g1", out[0].ID)
}

func TestAdmin_SystemHealth(t *testing.T) {
	m := metrics.New("health")
	m.AIGeneration("general", nil)
	m.SessionOpened()

	uc := usecase.NewAdminUseCase(nil, nil, usecase.HealthProbe{
		Metrics:       m,
		Ping:          func(context.Context) error { return nil },
		PoolStats:     func() dto.DBPoolStats { return dto.DBPoolStats{TotalConns: 3, MaxConns: 10} },
		Subscriptions: func() int { return 2 },
	}, nil)

	resp, err := uc.SystemHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1.0, resp.AIGenerations)
	assert.Equal(t, 1.0, resp.LiveSessions)
	assert.Equal(t, int32(10), resp.DBPool.MaxConns)
	assert.Equal(t, 2, resp.RealtimeListeners)
}

func TestAdmin_SystemHealth_DBCaida(t *testing.T) {
	uc := usecase.NewAdminUseCase(nil, nil, usecase.HealthProbe{
		Ping: func(context.Context) error { return errors.New("connection refused") },
	}, nil)

	resp, err := uc.SystemHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "down", resp.Database)
}
