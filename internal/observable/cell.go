package observable

import "sync"

// Cell holds a single value and notifies subscribers synchronously on every Set.
// New subscribers immediately receive the current value.
type Cell[T any] struct {
	mu        sync.Mutex
	value     T
	nextID    int
	listeners map[int]func(T)
	order     []int
}

// NewCell creates a cell seeded with value.
func NewCell[T any](value T) *Cell[T] {
	return &Cell[T]{value: value, listeners: make(map[int]func(T))}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set stores value and notifies listeners in subscription order.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	c.value = value
	fns := c.snapshotLocked()
	c.mu.Unlock()
	for _, fn := range fns {
		fn(value)
	}
}

// Subscribe registers fn, replays the current value to it and returns an
// unsubscribe function.
func (c *Cell[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	if c.listeners == nil {
		c.listeners = make(map[int]func(T))
	}
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	c.order = append(c.order, id)
	current := c.value
	c.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.listeners, id)
			for i, v := range c.order {
				if v == id {
					c.order = append(c.order[:i], c.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (c *Cell[T]) snapshotLocked() []func(T) {
	if len(c.order) == 0 {
		return nil
	}
	out := make([]func(T), 0, len(c.order))
	for _, id := range c.order {
		if fn, ok := c.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}
