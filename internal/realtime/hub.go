package realtime

import (
	"fmt"
	"sync"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/umkmhub/umkm-api/pkg/logger"
	"github.com/umkmhub/umkm-api/pkg/metrics"
)

const defaultBufferSize = 64

// Hub reparte cada ChangeEvent publicado a las suscripciones cuyos descriptores coinciden.
// Cada suscripción entrega en su propia goroutine; no hay orden entre suscripciones.
type Hub struct {
	mu         sync.RWMutex
	subs       map[string]*Subscription
	bufferSize int
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// Option configura el Hub.
type Option func(*Hub)

// WithBufferSize tamaño de la cola por suscripción (por defecto 64).
func WithBufferSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

// WithMetrics cuenta los eventos publicados.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Hub) { h.metrics = m }
}

// NewHub crea un hub vacío. log puede ser nil.
func NewHub(log *logger.Logger, opts ...Option) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	h := &Hub{
		subs:       make(map[string]*Subscription),
		bufferSize: defaultBufferSize,
		log:        log.Named("realtime"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registra una suscripción nueva con los descriptores dados y arranca su entrega.
// name solo identifica la suscripción en logs (equivale al nombre del canal).
func (h *Hub) Subscribe(name string, descriptors ...Descriptor) (*Subscription, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("subscribe %s: sin descriptores", name)
	}
	list := make([]compiled, 0, len(descriptors))
	for _, d := range descriptors {
		c, err := compile(d)
		if err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", name, err)
		}
		list = append(list, c)
	}
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: id: %w", name, err)
	}

	s := &Subscription{
		id:    id,
		name:  name,
		hub:   h,
		descs: list,
		queue: make(chan ChangeEvent, h.bufferSize),
		done:  make(chan struct{}),
	}
	h.mu.Lock()
	h.subs[id] = s
	h.mu.Unlock()

	go s.run()
	h.log.Debug().Str("subscription", id).Str("name", name).Int("descriptors", len(list)).Msg("suscripción abierta")
	return s, nil
}

// Publish encola ev en cada suscripción interesada sin bloquear. Si la cola está llena el evento
// se descarta para esa suscripción y se registra en el log.
func (h *Hub) Publish(ev ChangeEvent) {
	h.metrics.RealtimeEvent(ev.Table, ev.Event)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		if !s.wants(ev) {
			continue
		}
		select {
		case s.queue <- ev:
		default:
			s.dropped.Add(1)
			h.log.Warn().Str("subscription", s.id).Str("name", s.name).
				Str("table", ev.Table).Str("event", ev.Event).Msg("cola llena, evento descartado")
		}
	}
}

// Len número de suscripciones abiertas.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close cierra todas las suscripciones (apagado del servidor).
func (h *Hub) Close() {
	h.mu.RLock()
	subs := make([]*Subscription, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.RUnlock()
	for _, s := range subs {
		s.Close()
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

// Subscription handle de una suscripción. Close es idempotente.
type Subscription struct {
	id      string
	name    string
	hub     *Hub
	descs   []compiled
	queue   chan ChangeEvent
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

// ID identificador único de la suscripción.
func (s *Subscription) ID() string { return s.id }

// Done se cierra cuando la suscripción termina.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Dropped cuántos eventos se descartaron por cola llena.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// Close quita la suscripción del hub y detiene la entrega. Puede llamarse desde un callback.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s.id)
		close(s.done)
		s.hub.log.Debug().Str("subscription", s.id).Str("name", s.name).Msg("suscripción cerrada")
	})
}

func (s *Subscription) wants(ev ChangeEvent) bool {
	for _, d := range s.descs {
		if d.matches(ev) {
			return true
		}
	}
	return false
}

func (s *Subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.queue:
			for _, d := range s.descs {
				select {
				case <-s.done:
					return
				default:
				}
				if d.matches(ev) {
					s.invoke(d.cb, ev)
				}
			}
		}
	}
}

func (s *Subscription) invoke(cb Callback, ev ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.hub.log.Error().Str("subscription", s.id).Interface("panic", r).Msg("callback de suscripción")
		}
	}()
	cb(ev)
}
