package livesync_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umkmhub/umkm-api/internal/application/livesync"
	"github.com/umkmhub/umkm-api/internal/realtime"
)

func TestStore_FetchReemplazaCompleto(t *testing.T) {
	data := [][]string{{"a", "b", "c"}, {"d"}}
	var call atomic.Int32
	s := livesync.NewStore("items", func(context.Context) ([]string, error) {
		return data[call.Add(1)-1], nil
	}, nil)

	assert.False(t, s.Loaded())
	require.NoError(t, s.Fetch(context.Background()))
	assert.Equal(t, []string{"a", "b", "c"}, s.Items())
	assert.Equal(t, uint64(1), s.Version())

	require.NoError(t, s.Refetch(context.Background()))
	assert.Equal(t, []string{"d"}, s.Items(), "sin merge: la colección se reemplaza entera")
	assert.Equal(t, uint64(2), s.Version())
	assert.True(t, s.Loaded())
}

func TestStore_ErrorDeLecturaConservaEstado(t *testing.T) {
	fail := false
	s := livesync.NewStore("items", func(context.Context) ([]int, error) {
		if fail {
			return nil, errors.New("connection reset")
		}
		return []int{1, 2}, nil
	}, nil)
	require.NoError(t, s.Fetch(context.Background()))

	fail = true
	err := s.Fetch(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []int{1, 2}, s.Items())
	assert.Equal(t, uint64(1), s.Version())
}

func TestStore_FetchViejoNoPisaAlNuevo(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var call atomic.Int32
	s := livesync.NewStore("items", func(context.Context) ([]string, error) {
		if call.Add(1) == 1 {
			close(started)
			<-release // primer fetch lento
			return []string{"viejo"}, nil
		}
		return []string{"nuevo"}, nil
	}, nil)

	done := make(chan error)
	go func() { done <- s.Fetch(context.Background()) }()
	<-started

	require.NoError(t, s.Fetch(context.Background()))
	assert.Equal(t, []string{"nuevo"}, s.Items())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"nuevo"}, s.Items(), "el resultado del fetch lento debe descartarse")
	assert.Equal(t, uint64(1), s.Version())
}

func TestStore_RefetchAvisaYConservaAnteError(t *testing.T) {
	var call atomic.Int32
	s := livesync.NewStore("items", func(context.Context) ([]string, error) {
		switch call.Add(1) {
		case 1:
			return []string{"a"}, nil
		case 2:
			return []string{"a", "b"}, nil
		default:
			return nil, errors.New("connection reset")
		}
	}, nil)
	require.NoError(t, s.Fetch(context.Background()))
	<-s.Changes()

	require.NoError(t, s.Refetch(context.Background()))
	select {
	case <-s.Changes():
	default:
		t.Fatal("Refetch debe señalar el cambio")
	}
	assert.Equal(t, []string{"a", "b"}, s.Items())
	assert.Equal(t, uint64(2), s.Version())

	assert.Error(t, s.Refetch(context.Background()))
	assert.Equal(t, []string{"a", "b"}, s.Items())
	assert.Equal(t, uint64(2), s.Version())
	select {
	case <-s.Changes():
		t.Fatal("un refetch fallido no debe señalar")
	default:
	}
}

func TestStore_ItemsDevuelveCopia(t *testing.T) {
	s := livesync.NewStore("items", func(context.Context) ([]int, error) { return []int{1}, nil }, nil)
	require.NoError(t, s.Fetch(context.Background()))
	got := s.Items()
	got[0] = 99
	assert.Equal(t, []int{1}, s.Items())
}

func TestStore_BindRefetchEnCambio(t *testing.T) {
	hub := realtime.NewHub(nil)
	var calls atomic.Int32
	s := livesync.NewStore("products", func(context.Context) ([]int32, error) {
		n := calls.Add(1)
		return []int32{n}, nil
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Bind(ctx, hub, realtime.Descriptor{Table: "products", Filter: realtime.UserFilter("u1")}))
	defer s.Close()

	hub.Publish(realtime.ChangeEvent{Table: "products", Event: realtime.EventInsert, Record: map[string]any{"user_id": "u2"}})
	hub.Publish(realtime.ChangeEvent{Table: "products", Event: realtime.EventInsert, Record: map[string]any{"user_id": "u1"}})

	require.Eventually(t, func() bool { return s.Version() == 1 }, time.Second, 5*time.Millisecond)
	select {
	case <-s.Changes():
	case <-time.After(time.Second):
		t.Fatal("se esperaba señal de cambio")
	}
	assert.Equal(t, int32(1), calls.Load(), "el evento de otro usuario no debe disparar fetch")

	s.Close()
	assert.Equal(t, 0, hub.Len())
}

func TestStore_BindReemplazaSuscripcion(t *testing.T) {
	hub := realtime.NewHub(nil)
	s := livesync.NewStore("x", func(context.Context) ([]int, error) { return nil, nil }, nil)
	ctx := context.Background()
	require.NoError(t, s.Bind(ctx, hub, realtime.Descriptor{Table: "products"}))
	require.NoError(t, s.Bind(ctx, hub, realtime.Descriptor{Table: "products"}))
	assert.Equal(t, 1, hub.Len())
	s.Close()
	assert.Equal(t, 0, hub.Len())
}
