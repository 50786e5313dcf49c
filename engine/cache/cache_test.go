package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_DirtyAfterConstruct(t *testing.T) {
	c := New(42)
	assert.True(t, c.IsDirty())

	c.Clear()
	assert.False(t, c.IsDirty())

	*c.Value() = 7
	assert.False(t, c.IsDirty(), "writes through Value are not intercepted")
	assert.Equal(t, 7, c.Get())

	c.MarkDirty()
	assert.True(t, c.IsDirty())
}

func TestCache_SetMarksDirty(t *testing.T) {
	c := New("a")
	c.Clear()
	c.Set("b")

	assert.True(t, c.IsDirty())
	assert.Equal(t, "b", c.Get())
}

func TestSliceCache_FixedLength(t *testing.T) {
	src := []int{1, 2, 3}
	c := NewSlice(src)
	require.Equal(t, 3, c.Len())
	assert.True(t, c.IsDirty())

	src[0] = 100
	_ = append(src, 4)
	assert.Equal(t, []int{1, 2, 3}, c.Values())

	c.Clear()
	*c.At(1) = 20
	c.MarkDirty()
	assert.True(t, c.IsDirty())
	assert.Equal(t, []int{1, 20, 3}, c.Values())
}

func TestSliceCache_Empty(t *testing.T) {
	c := NewSlice[int](nil)
	assert.Equal(t, 0, c.Len())
	assert.True(t, c.IsDirty())
}
