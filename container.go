package rustbreak

import (
	"sync"

	"go.uber.org/atomic"
)

// container holds the in-memory value behind a reader/writer lock. It never
// touches the backend; persistence is orchestrated above it.
//
// Go's sync.RWMutex does not poison on its own, so the container tracks
// abnormal termination itself: a panic inside a write-class closure marks the
// container poisoned before the panic continues, and every later access fails
// with ErrPoisoned. A panic inside a read closure does not poison, since no
// mutable access was held and the value is still self-consistent.
type container[T any] struct {
	mtx      sync.RWMutex
	value    T
	poisoned *atomic.Bool
}

func newContainer[T any](value T) *container[T] {
	return &container[T]{
		value:    value,
		poisoned: atomic.NewBool(false),
	}
}

// read runs fn with shared access to the value. fn must not modify it.
func (c *container[T]) read(fn func(value *T)) error {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	// checked under the lock: a panicking writer sets the flag before it
	// unlocks, so anyone acquiring afterwards sees it
	if c.poisoned.Load() {
		return ErrPoisoned
	}

	fn(&c.value)

	return nil
}

// write runs fn with exclusive access to the value, blocking until all
// current readers and writers release.
func (c *container[T]) write(fn func(value *T)) error {
	c.mtx.Lock()

	if c.poisoned.Load() {
		c.mtx.Unlock()
		return ErrPoisoned
	}

	defer func() {
		if r := recover(); r != nil {
			c.poisoned.Store(true)
			c.mtx.Unlock()
			panic(r)
		}

		c.mtx.Unlock()
	}()

	fn(&c.value)

	return nil
}

// replace swaps the entire value under the exclusive lock.
func (c *container[T]) replace(value T) error {
	return c.write(func(v *T) {
		*v = value
	})
}
