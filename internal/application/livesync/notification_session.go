package livesync

import (
	"context"
	"sync"

	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
	"github.com/umkmhub/umkm-api/internal/realtime"
	"github.com/umkmhub/umkm-api/pkg/logger"
)

// NotificationSnapshot lista y conteo de no leídas en un instante.
type NotificationSnapshot struct {
	Items  []*entity.Notification `json:"items"`
	Unread int                    `json:"unread"`
}

// NotificationSession una única suscripción a notifications por conexión del usuario.
// Se cierra al terminar la conexión (logout).
type NotificationSession struct {
	userID  string
	Store   *Store[*entity.Notification]
	snap    memo[uint64, NotificationSnapshot]
	updates chan NotificationSnapshot

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewNotificationSession crea el store de notificaciones del usuario.
func NewNotificationSession(repo repository.NotificationRepository, userID string, log *logger.Logger) *NotificationSession {
	if log == nil {
		log = logger.Nop()
	}
	return &NotificationSession{
		userID: userID,
		Store: NewStore(TableNotifications, func(ctx context.Context) ([]*entity.Notification, error) {
			return repo.ListByUser(ctx, userID)
		}, log.Named("notification-session")),
		updates: make(chan NotificationSnapshot, 1),
	}
}

// Start carga, se suscribe a cualquier cambio de notificaciones del usuario y emite snapshots.
func (n *NotificationSession) Start(ctx context.Context, hub *realtime.Hub) error {
	ctx, n.cancel = context.WithCancel(ctx)
	_ = n.Store.Fetch(ctx)
	if err := n.Store.Bind(ctx, hub, realtime.Descriptor{
		Table:  TableNotifications,
		Event:  realtime.EventAll,
		Filter: realtime.UserFilter(n.userID),
	}); err != nil {
		n.Close()
		return err
	}

	n.push()
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-n.Store.Changes():
				n.push()
			}
		}
	}()
	return nil
}

func (n *NotificationSession) push() {
	s := n.Snapshot()
	select {
	case <-n.updates:
	default:
	}
	n.updates <- s
}

// Snapshot estado actual memoizado por versión del store.
func (n *NotificationSession) Snapshot() NotificationSnapshot {
	s, _ := n.snap.get(n.Store.Version(), func() NotificationSnapshot {
		items := n.Store.Items()
		unread := 0
		for _, it := range items {
			if !it.Read {
				unread++
			}
		}
		return NotificationSnapshot{Items: items, Unread: unread}
	})
	return s
}

// Updates emite un snapshot tras cada cambio.
func (n *NotificationSession) Updates() <-chan NotificationSnapshot {
	return n.updates
}

// Close libera la suscripción.
func (n *NotificationSession) Close() {
	if n.cancel != nil {
		n.cancel()
	}
	n.Store.Close()
	n.wg.Wait()
}
