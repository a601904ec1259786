// Package livesync mantiene en memoria colecciones por usuario que se recargan completas
// cuando llega un cambio del hub o cuando se pide un refetch manual.
package livesync

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/umkmhub/umkm-api/internal/realtime"
	"github.com/umkmhub/umkm-api/pkg/logger"
)

// Loader lee la colección completa actual.
type Loader[T any] func(ctx context.Context) ([]T, error)

// Store colección reemplazada completa en cada fetch exitoso.
// Cada fetch toma un número de secuencia al empezar; un resultado más viejo que el último
// aplicado se descarta, así un fetch lento no pisa uno más nuevo.
type Store[T any] struct {
	name string
	load Loader[T]
	log  *logger.Logger

	mu      sync.RWMutex
	items   []T
	version uint64
	applied uint64
	loaded  bool

	seq     atomic.Uint64
	changes chan struct{}

	subMu sync.Mutex
	sub   *realtime.Subscription
}

// NewStore crea un store vacío. log puede ser nil.
func NewStore[T any](name string, load Loader[T], log *logger.Logger) *Store[T] {
	if log == nil {
		log = logger.Nop()
	}
	return &Store[T]{
		name:    name,
		load:    load,
		log:     log,
		changes: make(chan struct{}, 1),
	}
}

// Fetch lee la colección y la reemplaza. Un error de lectura se registra y deja el estado
// anterior intacto; se devuelve para quien quiera saberlo.
func (s *Store[T]) Fetch(ctx context.Context) error {
	seq := s.seq.Add(1)
	items, err := s.load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("store", s.name).Uint64("seq", seq).Msg("lectura fallida, se conserva el estado anterior")
		return fmt.Errorf("fetch %s: %w", s.name, err)
	}

	s.mu.Lock()
	if seq <= s.applied {
		s.mu.Unlock()
		s.log.Debug().Str("store", s.name).Uint64("seq", seq).Uint64("applied", s.applied).Msg("resultado viejo descartado")
		return nil
	}
	s.items = items
	s.applied = seq
	s.version++
	s.loaded = true
	s.mu.Unlock()

	s.signal()
	return nil
}

// Refetch invalidación manual; misma semántica que Fetch.
func (s *Store[T]) Refetch(ctx context.Context) error {
	return s.Fetch(ctx)
}

// Items copia de la colección actual.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Version aumenta en cada reemplazo aplicado. Sirve como clave de memoización.
func (s *Store[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Loaded indica si hubo al menos un fetch exitoso.
func (s *Store[T]) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Changes recibe una señal (coalescida) después de cada reemplazo.
func (s *Store[T]) Changes() <-chan struct{} {
	return s.changes
}

func (s *Store[T]) signal() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Bind suscribe el store al hub: cualquier cambio que coincida con los descriptores dispara un Fetch
// con ctx. Los Callback de los descriptores se ignoran. Un segundo Bind reemplaza la suscripción anterior.
func (s *Store[T]) Bind(ctx context.Context, hub *realtime.Hub, descriptors ...realtime.Descriptor) error {
	bound := make([]realtime.Descriptor, len(descriptors))
	for i, d := range descriptors {
		d.Callback = func(realtime.ChangeEvent) {
			if ctx.Err() != nil {
				return
			}
			_ = s.Fetch(ctx)
		}
		bound[i] = d
	}
	sub, err := hub.Subscribe(s.name, bound...)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.name, err)
	}

	s.subMu.Lock()
	prev := s.sub
	s.sub = sub
	s.subMu.Unlock()
	if prev != nil {
		prev.Close()
	}
	return nil
}

// Close libera la suscripción al hub, si la hay.
func (s *Store[T]) Close() {
	s.subMu.Lock()
	sub := s.sub
	s.sub = nil
	s.subMu.Unlock()
	if sub != nil {
		sub.Close()
	}
}
