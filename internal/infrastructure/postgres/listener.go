package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/umkmhub/umkm-api/internal/realtime"
	"github.com/umkmhub/umkm-api/pkg/logger"
)

// ChangeChannel canal en el que el trigger umkm_notify_change publica (migración 000002).
const ChangeChannel = "umkm_changes"

// ChangePublisher recibe los eventos decodificados del change feed (realtime.Hub).
type ChangePublisher interface {
	Publish(ev realtime.ChangeEvent)
}

// Listener mantiene un LISTEN sobre una conexión dedicada y publica cada NOTIFY en el hub.
// Si la conexión cae espera reconnect y vuelve a empezar; es la única política de reconexión.
type Listener struct {
	pool      *pgxpool.Pool
	channel   string
	reconnect time.Duration
	pub       ChangePublisher
	log       *logger.Logger
}

// NewListener construye el listener sobre ChangeChannel. reconnect <= 0 usa 5s.
func NewListener(pool *pgxpool.Pool, reconnect time.Duration, pub ChangePublisher, log *logger.Logger) *Listener {
	if reconnect <= 0 {
		reconnect = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Listener{pool: pool, channel: ChangeChannel, reconnect: reconnect, pub: pub, log: log.Named("listener")}
}

// Run bloquea hasta que ctx se cancela.
func (l *Listener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			l.log.Info().Msg("listener detenido")
			return
		}
		l.log.Warn().Err(err).Dur("retry_in", l.reconnect).Msg("change feed interrumpido")
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.reconnect):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	pc, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire: %w", err)
	}
	// La conexión queda fuera del pool: no debe volver con un LISTEN activo.
	conn := pc.Hijack()
	defer func() { _ = conn.Close(context.Background()) }()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}
	l.log.Info().Str("channel", l.channel).Msg("escuchando change feed")

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("wait notification: %w", err)
		}
		ev, err := realtime.DecodeChange([]byte(n.Payload))
		if err != nil {
			l.log.Warn().Err(err).Str("payload", n.Payload).Msg("payload de cambio ignorado")
			continue
		}
		l.log.Trace().Str("table", ev.Table).Str("event", ev.Event).Msg("cambio recibido")
		l.pub.Publish(ev)
	}
}
