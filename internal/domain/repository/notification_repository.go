package repository

import (
	"context"

	"github.com/umkmhub/umkm-api/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia para Notification.
// Las operaciones por ID filtran también por userID; si no hay fila devuelven domain.ErrNotFound.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}
