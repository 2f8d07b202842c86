package utils

// Curry lazily computes a value once and hands back the cached result.
type Curry[T any] struct {
	set bool
	val T
}

func (c *Curry[T]) Value(setter func() T) T {
	if c.set {
		return c.val
	}
	c.set = true
	c.val = setter()
	return c.val
}

func (c *Curry[T]) Set(val T) {
	c.set = true
	c.val = val
}

func (c *Curry[T]) Reset() {
	var zero T
	c.set = false
	c.val = zero
}

func (c *Curry[T]) IsSet() bool {
	return c.set
}
