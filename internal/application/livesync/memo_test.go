package livesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemo_RecalculaSoloSiCambiaLaClave(t *testing.T) {
	var m memo[[2]uint64, int]
	calls := 0
	compute := func() int { calls++; return calls }

	v, changed := m.get([2]uint64{1, 1}, compute)
	assert.Equal(t, 1, v)
	assert.True(t, changed)

	v, changed = m.get([2]uint64{1, 1}, compute)
	assert.Equal(t, 1, v)
	assert.False(t, changed)

	v, _ = m.get([2]uint64{1, 2}, compute)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, calls)
}
