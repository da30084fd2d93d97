package txbridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotLease(t *testing.T) {
	t.Run("issues at most one lease at a time", func(t *testing.T) {
		slot := NewSlot("value")

		first, ok := slot.Lease()
		require.True(t, ok)
		assert.Equal(t, "value", first.Value())

		_, ok = slot.Lease()
		assert.False(t, ok, "second lease while first is outstanding")

		first.Release()

		second, ok := slot.Lease()
		require.True(t, ok)
		assert.Equal(t, "value", second.Value())
	})

	t.Run("empty slot does not lease", func(t *testing.T) {
		slot := NewSlot(1)
		v, ok := slot.IntoInner()
		require.True(t, ok)
		assert.Equal(t, 1, v)

		_, ok = slot.Lease()
		assert.False(t, ok)
	})
}

func TestLeaseRelease(t *testing.T) {
	t.Run("returns the replacement value", func(t *testing.T) {
		slot := NewSlot("original")
		lease, ok := slot.Lease()
		require.True(t, ok)

		lease.Set("replaced")
		lease.Release()

		v, ok := slot.IntoInner()
		require.True(t, ok)
		assert.Equal(t, "replaced", v)
	})

	t.Run("is idempotent", func(t *testing.T) {
		slot := NewSlot(42)
		lease, ok := slot.Lease()
		require.True(t, ok)

		lease.Release()
		lease.Set(99)
		lease.Release()

		v, ok := slot.IntoInner()
		require.True(t, ok)
		assert.Equal(t, 42, v, "second release must not overwrite the slot")
	})
}

func TestLeaseSteal(t *testing.T) {
	slot := NewSlot("gone")
	lease, ok := slot.Lease()
	require.True(t, ok)

	assert.Equal(t, "gone", lease.Steal())

	_, ok = slot.Lease()
	assert.False(t, ok, "stolen slot must never lease again")

	_, ok = slot.IntoInner()
	assert.False(t, ok, "stolen slot drains empty")

	assert.Zero(t, lease.Steal(), "second steal yields the zero value")
}

func TestNewLeasedSlot(t *testing.T) {
	slot, lease := NewLeasedSlot("preloaded")

	_, ok := slot.IntoInner()
	assert.False(t, ok, "cannot drain while the construction lease is out")

	_, ok = slot.Lease()
	assert.False(t, ok)

	lease.Release()

	v, ok := slot.IntoInner()
	require.True(t, ok)
	assert.Equal(t, "preloaded", v)
}
