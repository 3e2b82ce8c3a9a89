// Package event carries ticks and key presses from their producers to the
// single consumer that owns the game world.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vovakirdan/heapdefence/internal/core"
)

// ErrClosed is returned when pushing to a queue that has been closed.
var ErrClosed = errors.New("event: queue closed")

// Kind distinguishes the two event sources.
type Kind int

const (
	KindTick Kind = iota
	KindKey
)

// String returns the event kind name.
func (k Kind) String() string {
	switch k {
	case KindTick:
		return "tick"
	case KindKey:
		return "key"
	default:
		return "unknown"
	}
}

// Event is one queued item. Input is only meaningful for KindKey.
type Event struct {
	Kind  Kind
	Input core.InputEvent
}

// Tick returns a timer event.
func Tick() Event {
	return Event{Kind: KindTick}
}

// Key returns a key event.
func Key(in core.InputEvent) Event {
	return Event{Kind: KindKey, Input: in}
}

// Queue is a fixed-capacity FIFO with one lossy and one lossless push.
// Any number of goroutines may push; one goroutine pops.
type Queue struct {
	items chan Event
	done  chan struct{}
	once  sync.Once
}

// NewQueue allocates a queue holding at most capacity events.
func NewQueue(capacity int) (*Queue, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("event: queue capacity must be positive, got %d", capacity)
	}
	return &Queue{
		items: make(chan Event, capacity),
		done:  make(chan struct{}),
	}, nil
}

// TryPush enqueues ev if there is room and reports whether it did.
// A full or closed queue drops the event.
func (q *Queue) TryPush(ev Event) bool {
	select {
	case <-q.done:
		return false
	default:
	}

	select {
	case q.items <- ev:
		return true
	default:
		return false
	}
}

// Push waits for room and enqueues ev. It fails only when ctx is done or
// the queue is closed.
func (q *Queue) Push(ctx context.Context, ev Event) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}

	select {
	case q.items <- ev:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop waits up to timeout for the next event. ok is false on timeout.
func (q *Queue) Pop(timeout time.Duration) (ev Event, ok bool) {
	select {
	case ev = <-q.items:
		return ev, true
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev = <-q.items:
		return ev, true
	case <-timer.C:
		return Event{}, false
	}
}

// Close releases every blocked pusher. Events already queued can still be
// popped. Close is idempotent.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.items)
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return cap(q.items)
}
