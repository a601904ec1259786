package repository

import (
	"context"

	"github.com/umkmhub/umkm-api/internal/domain/entity"
)

// AIGenerationRepository registro append-only: no hay Update ni Delete.
type AIGenerationRepository interface {
	Create(ctx context.Context, gen *entity.AIGeneration) error
	ListByUser(ctx context.Context, userID string) ([]*entity.AIGeneration, error)
	// ListAll listado de auditoría para administradores (más recientes primero).
	ListAll(ctx context.Context, generationType string, limit, offset int) ([]*entity.AIGeneration, error)
}
