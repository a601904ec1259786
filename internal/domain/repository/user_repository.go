package repository

import (
	"context"

	"github.com/umkmhub/umkm-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateCredentials cambia email y/o hash de password; nil = sin cambio.
	UpdateCredentials(ctx context.Context, id string, email, passwordHash *string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
}
