package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
)

var notificationTypes = map[string]bool{
	entity.NotificationInfo:     true,
	entity.NotificationSuccess:  true,
	entity.NotificationWarning:  true,
	entity.NotificationError:    true,
	entity.NotificationLowStock: true,
}

// NotificationUseCase CRUD de notificaciones del usuario.
type NotificationUseCase struct {
	repo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// List todas las notificaciones del usuario.
func (uc *NotificationUseCase) List(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToNotificationResponses(list), nil
}

// UnreadCount conteo de no leídas.
func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (*dto.UnreadCountResponse, error) {
	n, err := uc.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{Unread: n}, nil
}

// Create crea una notificación para el propio usuario. Tipo vacío = info.
func (uc *NotificationUseCase) Create(ctx context.Context, userID string, in dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Message) == "" {
		return nil, fmt.Errorf("title y message son obligatorios: %w", domain.ErrInvalidInput)
	}
	typ := in.Type
	if typ == "" {
		typ = entity.NotificationInfo
	}
	if !notificationTypes[typ] {
		return nil, fmt.Errorf("tipo %q: %w", typ, domain.ErrInvalidInput)
	}
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Message:   in.Message,
		Type:      typ,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	out := ToNotificationResponses([]*entity.Notification{n})
	return &out[0], nil
}

// MarkRead marca como leída.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, id string) error {
	return uc.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead marca todas como leídas.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (*dto.MarkAllReadResponse, error) {
	n, err := uc.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.MarkAllReadResponse{Updated: n}, nil
}

// Delete elimina una notificación propia.
func (uc *NotificationUseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.repo.Delete(ctx, id, userID)
}

// ToNotificationResponses convierte entidades a DTO.
func ToNotificationResponses(list []*entity.Notification) []dto.NotificationResponse {
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, dto.NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}
