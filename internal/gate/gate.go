// Package gate guards a single value with exclusive access: writers wait as
// long as it takes, readers give up after a deadline.
package gate

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// Gate owns a value of type T. The value is only reachable inside the
// callbacks passed to Update and TryView.
type Gate[T any] struct {
	sem    *semaphore.Weighted
	value  T
	closed atomic.Bool
}

// New wraps value in a gate.
func New[T any](value T) *Gate[T] {
	return &Gate[T]{
		sem:   semaphore.NewWeighted(1),
		value: value,
	}
}

// Update waits for exclusive access and runs fn with the value.
// Returns false if the gate has been closed.
func (g *Gate[T]) Update(fn func(T)) bool {
	if g.closed.Load() {
		return false
	}
	if err := g.sem.Acquire(context.Background(), 1); err != nil {
		return false
	}
	defer g.sem.Release(1)

	if g.closed.Load() {
		return false
	}
	fn(g.value)
	return true
}

// TryView runs fn with the value if access can be obtained within timeout.
// A false return is expected under contention and is not an error.
func (g *Gate[T]) TryView(timeout time.Duration, fn func(T)) bool {
	if g.closed.Load() {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer g.sem.Release(1)

	if g.closed.Load() {
		return false
	}
	fn(g.value)
	return true
}

// Close waits for the current holder to finish and refuses all later access.
func (g *Gate[T]) Close() {
	if err := g.sem.Acquire(context.Background(), 1); err != nil {
		return
	}
	g.closed.Store(true)
	g.sem.Release(1)
}

// Closed reports whether Close has been called.
func (g *Gate[T]) Closed() bool {
	return g.closed.Load()
}
