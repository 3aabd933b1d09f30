package model

// Cache memoizes a derived property of content nodes by node identity.
// The compute function may call Get recursively for child nodes.
// Cache is not safe for concurrent use; create one per traversal.
type Cache[T any] struct {
	compute func(Content) T
	values  map[Content]T
}

func NewCache[T any](compute func(Content) T) *Cache[T] {
	return &Cache[T]{compute: compute, values: make(map[Content]T)}
}

// Get returns cached value for c, computing it on first request.
func (c *Cache[T]) Get(node Content) T {
	if v, found := c.values[node]; found {
		return v
	}

	v := c.compute(node)
	c.values[node] = v
	return v
}

// Len returns the number of cached values.
func (c *Cache[T]) Len() int {
	return len(c.values)
}
