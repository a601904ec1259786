package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/umkmhub/umkm-api/internal/application/auth"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
	"github.com/umkmhub/umkm-api/pkg/logger"
	"github.com/umkmhub/umkm-api/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

// SnapshotSource lectura agregada de métricas (implementada por *metrics.Metrics).
type SnapshotSource interface {
	Snapshot() (metrics.Snapshot, error)
}

// HealthProbe fuentes del panel de salud; los campos nil se omiten.
type HealthProbe struct {
	Metrics       SnapshotSource
	Ping          func(ctx context.Context) error
	PoolStats     func() dto.DBPoolStats
	Subscriptions func() int
}

// AdminUseCase operaciones reservadas al rol admin.
type AdminUseCase struct {
	users  repository.UserRepository
	gens   repository.AIGenerationRepository
	health HealthProbe
	log    *logger.Logger
}

// NewAdminUseCase construye el caso de uso.
func NewAdminUseCase(users repository.UserRepository, gens repository.AIGenerationRepository, health HealthProbe, log *logger.Logger) *AdminUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminUseCase{users: users, gens: gens, health: health, log: log.Named("admin")}
}

// UpdateUser cambia email y/o password de cualquier usuario. callerRole debe ser admin.
func (uc *AdminUseCase) UpdateUser(ctx context.Context, callerID, callerRole string, in dto.AdminUpdateUserRequest) (*dto.AdminUpdateUserResponse, error) {
	if callerRole != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.UserID) == "" {
		return nil, fmt.Errorf("user_id es obligatorio: %w", domain.ErrInvalidInput)
	}
	if in.NewEmail == nil && in.NewPassword == nil {
		return nil, fmt.Errorf("new_email o new_password es obligatorio: %w", domain.ErrInvalidInput)
	}

	var email, hash *string
	if in.NewEmail != nil {
		e, err := auth.NormalizeEmail(*in.NewEmail)
		if err != nil {
			return nil, err
		}
		email = &e
	}
	if in.NewPassword != nil {
		if len(*in.NewPassword) < auth.MinPasswordLength {
			return nil, fmt.Errorf("password: mínimo %d caracteres: %w", auth.MinPasswordLength, domain.ErrInvalidInput)
		}
		h, err := bcrypt.GenerateFromPassword([]byte(*in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		s := string(h)
		hash = &s
	}

	user, err := uc.users.UpdateCredentials(ctx, in.UserID, email, hash)
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("admin_id", callerID).
		Str("user_id", user.ID).
		Bool("email_changed", email != nil).
		Bool("password_changed", hash != nil).
		Msg("credenciales de usuario actualizadas")

	return &dto.AdminUpdateUserResponse{
		Message: "User updated successfully",
		User:    *auth.ToUserResponse(user),
	}, nil
}

// ListUsers listado paginado de usuarios.
func (uc *AdminUseCase) ListUsers(ctx context.Context, page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	users, err := uc.users.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}

// ListAIGenerations auditoría de generaciones de todos los usuarios, filtrable por tipo.
func (uc *AdminUseCase) ListAIGenerations(ctx context.Context, genType string, page dto.PageRequest) ([]dto.AIGenerationResponse, error) {
	page.DefaultPage()
	gens, err := uc.gens.ListAll(ctx, genType, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return ToAIGenerationResponses(gens), nil
}

// SystemHealth lee las métricas Prometheus del proceso y prueba la base de datos.
func (uc *AdminUseCase) SystemHealth(ctx context.Context) (*dto.SystemHealthResponse, error) {
	resp := &dto.SystemHealthResponse{Status: "ok", Database: "up", CheckedAt: time.Now().UTC().Format(time.RFC3339)}

	if uc.health.Metrics != nil {
		snap, err := uc.health.Metrics.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("system health: %w", err)
		}
		resp.TotalRequests = snap.TotalRequests
		resp.ErrorRate = snap.ErrorRate
		resp.AvgLatencyMs = snap.AvgLatencySeconds * 1000
		resp.Goroutines = snap.Goroutines
		resp.ResidentMemoryMB = snap.ResidentMemory / (1024 * 1024)
		resp.LiveSessions = snap.LiveSessions
		resp.AIGenerations = snap.AIGenerations
		resp.RealtimeEvents = snap.RealtimeEvents
	}
	if uc.health.Ping != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := uc.health.Ping(pingCtx); err != nil {
			uc.log.Warn().Err(err).Msg("ping a la base de datos falló")
			resp.Status = "degraded"
			resp.Database = "down"
		}
	}
	if uc.health.PoolStats != nil {
		resp.DBPool = uc.health.PoolStats()
	}
	if uc.health.Subscriptions != nil {
		resp.RealtimeListeners = uc.health.Subscriptions()
	}
	return resp, nil
}
