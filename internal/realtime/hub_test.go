package realtime_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umkmhub/umkm-api/internal/domain"
	"github.com/umkmhub/umkm-api/internal/realtime"
)

func change(table, event, userID string) realtime.ChangeEvent {
	return realtime.ChangeEvent{
		Schema: "public",
		Table:  table,
		Event:  event,
		Record: map[string]any{"id": "row-1", "user_id": userID},
	}
}

// recorder acumula eventos recibidos por un callback.
type recorder struct {
	mu     sync.Mutex
	events []realtime.ChangeEvent
}

func (r *recorder) cb(ev realtime.ChangeEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestHub_FiltraPorTablaEventoYFiltro(t *testing.T) {
	hub := realtime.NewHub(nil)
	var rec recorder
	sub, err := hub.Subscribe("products-u1", realtime.Descriptor{
		Table:    "products",
		Event:    realtime.EventAll,
		Filter:   realtime.UserFilter("u1"),
		Callback: rec.cb,
	})
	require.NoError(t, err)
	defer sub.Close()

	hub.Publish(change("products", realtime.EventInsert, "u1"))
	hub.Publish(change("products", realtime.EventUpdate, "u2"))           // otro dueño
	hub.Publish(change("sales_transactions", realtime.EventInsert, "u1")) // otra tabla
	hub.Publish(change("products", realtime.EventDelete, "u1"))

	require.Eventually(t, func() bool { return rec.len() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 2, rec.len())
}

func TestHub_EventoEspecifico(t *testing.T) {
	hub := realtime.NewHub(nil)
	var rec recorder
	sub, err := hub.Subscribe("inserts", realtime.Descriptor{Table: "notifications", Event: "insert", Callback: rec.cb})
	require.NoError(t, err)
	defer sub.Close()

	hub.Publish(change("notifications", realtime.EventUpdate, "u1"))
	hub.Publish(change("notifications", realtime.EventInsert, "u1"))

	require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, realtime.EventInsert, rec.events[0].Event)
}

func TestHub_SuscripcionesNoSeDeduplican(t *testing.T) {
	hub := realtime.NewHub(nil)
	var a, b recorder
	d := realtime.Descriptor{Table: "products", Callback: nil}

	d.Callback = a.cb
	s1, err := hub.Subscribe("same", d)
	require.NoError(t, err)
	d.Callback = b.cb
	s2, err := hub.Subscribe("same", d)
	require.NoError(t, err)
	assert.NotEqual(t, s1.ID(), s2.ID())
	assert.Equal(t, 2, hub.Len())

	hub.Publish(change("products", realtime.EventInsert, "u1"))
	require.Eventually(t, func() bool { return a.len() == 1 && b.len() == 1 }, time.Second, 5*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.Len())
}

func TestSubscription_CloseDetieneEntrega(t *testing.T) {
	hub := realtime.NewHub(nil)
	var rec recorder
	sub, err := hub.Subscribe("x", realtime.Descriptor{Table: "products", Callback: rec.cb})
	require.NoError(t, err)

	sub.Close()
	sub.Close() // idempotente
	<-sub.Done()

	hub.Publish(change("products", realtime.EventInsert, "u1"))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, rec.len())
	assert.Equal(t, 0, hub.Len())
}

func TestHub_ColaLlenaDescartaSinBloquear(t *testing.T) {
	hub := realtime.NewHub(nil, realtime.WithBufferSize(1))
	release := make(chan struct{})
	var rec recorder
	sub, err := hub.Subscribe("lento", realtime.Descriptor{Table: "products", Callback: func(ev realtime.ChangeEvent) {
		<-release
		rec.cb(ev)
	}})
	require.NoError(t, err)
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Publish(change("products", realtime.EventUpdate, "u1"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish no debe bloquear con la cola llena")
	}
	close(release)

	assert.GreaterOrEqual(t, sub.Dropped(), uint64(8))
	require.Eventually(t, func() bool { return rec.len() >= 1 }, time.Second, 5*time.Millisecond)
	assert.LessOrEqual(t, rec.len(), 2)
}

func TestHub_CallbackConPanicNoMataLaSuscripcion(t *testing.T) {
	hub := realtime.NewHub(nil)
	var rec recorder
	calls := 0
	sub, err := hub.Subscribe("panic", realtime.Descriptor{Table: "products", Callback: func(ev realtime.ChangeEvent) {
		calls++
		if calls == 1 {
			panic("boom")
		}
		rec.cb(ev)
	}})
	require.NoError(t, err)
	defer sub.Close()

	hub.Publish(change("products", realtime.EventInsert, "u1"))
	hub.Publish(change("products", realtime.EventInsert, "u1"))
	require.Eventually(t, func() bool { return rec.len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSubscribe_DescriptoresInvalidos(t *testing.T) {
	hub := realtime.NewHub(nil)
	noop := func(realtime.ChangeEvent) {}

	_, err := hub.Subscribe("vacio")
	assert.Error(t, err)

	_, err = hub.Subscribe("sin-cb", realtime.Descriptor{Table: "products"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = hub.Subscribe("op", realtime.Descriptor{Table: "products", Filter: "user_id=gt.5", Callback: noop})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = hub.Subscribe("evento", realtime.Descriptor{Table: "products", Event: "TRUNCATE", Callback: noop})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, 0, hub.Len())
}

func TestDecodeChange(t *testing.T) {
	ev, err := realtime.DecodeChange([]byte(`{"schema":"public","table":"products","event":"UPDATE","record":{"id":"p1","user_id":"u1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "products", ev.Table)
	assert.Equal(t, "u1", ev.UserID())
	assert.Equal(t, "p1", ev.Value("id"))
	assert.False(t, ev.ReceivedAt.IsZero())

	_, err = realtime.DecodeChange([]byte(`{"record":{}}`))
	assert.Error(t, err)
	_, err = realtime.DecodeChange([]byte(`no-json`))
	assert.Error(t, err)
}
