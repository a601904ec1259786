package livesync

import "sync"

// memo guarda el último valor calculado y lo recalcula solo si cambia la clave.
type memo[K comparable, V any] struct {
	mu  sync.Mutex
	key K
	val V
	ok  bool
}

func (m *memo[K, V]) get(key K, compute func() V) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ok && m.key == key {
		return m.val, false
	}
	m.val = compute()
	m.key = key
	m.ok = true
	return m.val, true
}
