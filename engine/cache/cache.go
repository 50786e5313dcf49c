package cache

// Cache co-locates a value with a flag recording whether it changed since its last GPU upload.
// The cache does not intercept writes: owners mutate through Value and call MarkDirty themselves.
type Cache[T any] struct {
	value T
	dirty bool
}

// New wraps value in a Cache. A new cache is dirty so the first frame uploads it.
//
// Parameters:
//   - value: the initial value
//
// Returns:
//   - *Cache[T]: the dirty cache
func New[T any](value T) *Cache[T] {
	return &Cache[T]{value: value, dirty: true}
}

// Value returns a pointer to the wrapped value for in-place mutation.
func (c *Cache[T]) Value() *T {
	return &c.value
}

// Get returns a copy of the wrapped value.
func (c *Cache[T]) Get() T {
	return c.value
}

// Set replaces the wrapped value and marks the cache dirty.
func (c *Cache[T]) Set(value T) {
	c.value = value
	c.dirty = true
}

// IsDirty reports whether the value changed since the last Clear.
func (c *Cache[T]) IsDirty() bool {
	return c.dirty
}

// MarkDirty flags the value as needing an upload.
func (c *Cache[T]) MarkDirty() {
	c.dirty = true
}

// Clear marks the value as synced. Call it only after the GPU write for the value has been issued.
func (c *Cache[T]) Clear() {
	c.dirty = false
}

// SliceCache is a Cache over a sequence whose length is fixed at construction.
type SliceCache[T any] struct {
	values []T
	dirty  bool
}

// NewSlice wraps values in a SliceCache. The slice is copied so later appends by the caller
// cannot change the cached length. A new cache is dirty.
//
// Parameters:
//   - values: the initial elements
//
// Returns:
//   - *SliceCache[T]: the dirty cache
func NewSlice[T any](values []T) *SliceCache[T] {
	cp := make([]T, len(values))
	copy(cp, values)
	return &SliceCache[T]{values: cp, dirty: true}
}

// Values returns the backing slice. Elements may be mutated in place; the length must not change.
func (c *SliceCache[T]) Values() []T {
	return c.values
}

// At returns a pointer to element i for in-place mutation.
func (c *SliceCache[T]) At(i int) *T {
	return &c.values[i]
}

// Len returns the fixed number of elements.
func (c *SliceCache[T]) Len() int {
	return len(c.values)
}

// IsDirty reports whether any element changed since the last Clear.
func (c *SliceCache[T]) IsDirty() bool {
	return c.dirty
}

// MarkDirty flags the sequence as needing an upload.
func (c *SliceCache[T]) MarkDirty() {
	c.dirty = true
}

// Clear marks the sequence as synced. Call it only after the GPU writes for every element have been issued.
func (c *SliceCache[T]) Clear() {
	c.dirty = false
}
