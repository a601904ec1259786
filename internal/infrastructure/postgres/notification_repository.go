package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implementación de NotificationRepository sobre PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create persiste la notificación.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, message, type, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.Read, n.CreatedAt)
	return mapError("insert notification", err)
}

// ListByUser devuelve todas las notificaciones del usuario, más recientes primero.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Notification, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, title, message, type, read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, mapError("list notifications", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Notification, error) {
		var n entity.Notification
		err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt)
		return &n, err
	})
}

// CountUnread cuenta las no leídas (equivalente a la consulta head/count).
func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`, userID).Scan(&n)
	if err != nil {
		return 0, mapError("count unread notifications", err)
	}
	return n, nil
}

// MarkRead marca una notificación del usuario como leída.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError("mark notification read", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marca todas las no leídas del usuario y devuelve cuántas cambiaron.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE notifications SET read = true WHERE user_id = $1 AND NOT read`, userID)
	if err != nil {
		return 0, mapError("mark all notifications read", err)
	}
	return cmd.RowsAffected(), nil
}

// Delete elimina una notificación del usuario.
func (r *NotificationRepo) Delete(ctx context.Context, id, userID string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError("delete notification", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
