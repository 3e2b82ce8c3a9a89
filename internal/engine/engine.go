// Package engine runs a Heap Defence world: a timer feeds ticks, key
// presses are queued behind them, and a single consumer applies both to the
// world under an exclusive gate while renderers peek at it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/heapdefence/internal/config"
	"github.com/vovakirdan/heapdefence/internal/core"
	"github.com/vovakirdan/heapdefence/internal/event"
	"github.com/vovakirdan/heapdefence/internal/games/heapdefence"
	"github.com/vovakirdan/heapdefence/internal/gate"
)

// ErrStarted is returned by Run when the engine has already been run.
var ErrStarted = errors.New("engine: already started")

// Options configures an engine.
type Options struct {
	TickInterval  time.Duration // Timer period
	PopTimeout    time.Duration // Longest idle wait of the consumer
	QueueCapacity int
	Logger        *log.Logger // Optional; discards output when nil
}

// OptionsFrom builds engine options from the loaded configuration.
func OptionsFrom(cfg config.HeapDefenceConfig, logger *log.Logger) Options {
	return Options{
		TickInterval:  cfg.TickInterval(),
		PopTimeout:    cfg.Timing.PopTimeout,
		QueueCapacity: cfg.Queue.Capacity,
		Logger:        logger,
	}
}

// Summary describes a finished run.
type Summary struct {
	StartedAt    time.Time
	Duration     time.Duration
	Ticks        int64
	DroppedTicks int64
	BoxesSpawned int64
	RowsCleared  int64
	Crushes      int64
}

// Engine owns a world for the length of one run.
type Engine struct {
	opts   Options
	logger *log.Logger

	queue  *event.Queue
	world  *gate.Gate[*heapdefence.World]
	redraw chan struct{}

	started atomic.Bool
	dropped atomic.Int64
	stats   heapdefence.Stats // written by the consumer only
}

// New prepares an engine around world. Nothing runs until Run is called.
func New(world *heapdefence.World, opts Options) (*Engine, error) {
	if world == nil {
		return nil, errors.New("engine: nil world")
	}
	if opts.TickInterval <= 0 {
		return nil, fmt.Errorf("engine: tick interval must be positive, got %s", opts.TickInterval)
	}
	if opts.PopTimeout <= 0 {
		return nil, fmt.Errorf("engine: pop timeout must be positive, got %s", opts.PopTimeout)
	}

	queue, err := event.NewQueue(opts.QueueCapacity)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Engine{
		opts:   opts,
		logger: logger,
		queue:  queue,
		world:  gate.New(world),
		redraw: make(chan struct{}, 1),
	}, nil
}

// Input queues a key event, waiting for room if the queue is full.
// Returns event.ErrClosed once the engine has shut down.
func (e *Engine) Input(ctx context.Context, in core.InputEvent) error {
	return e.queue.Push(ctx, event.Key(in))
}

// Stop asks the engine to exit by queueing a Back press.
func (e *Engine) Stop() {
	if err := e.Input(context.Background(), core.Press(core.KeyBack)); err != nil && !errors.Is(err, event.ErrClosed) {
		e.logger.Warn("stop request lost", "error", err)
	}
}

// Redraw signals after every processed event. It is closed when the run
// has ended and the world has been released.
func (e *Engine) Redraw() <-chan struct{} {
	return e.redraw
}

// Snapshot copies the world into dst if it can be read within timeout.
// A false return means the frame should be skipped.
func (e *Engine) Snapshot(timeout time.Duration, dst *heapdefence.Snapshot) bool {
	return e.world.TryView(timeout, func(w *heapdefence.World) {
		w.SnapshotInto(dst)
	})
}

// Run processes events until the world reaches Exit. Cancelling ctx is
// turned into a Back press, so the world always leaves through Exit.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	if !e.started.CompareAndSwap(false, true) {
		return Summary{}, ErrStarted
	}

	started := time.Now()
	e.logger.Info("engine started",
		"tick", e.opts.TickInterval,
		"queue", e.queue.Cap(),
	)

	loops, stopLoops := context.WithCancel(context.Background())
	var g errgroup.Group
	g.Go(func() error {
		e.tickLoop(loops)
		return nil
	})
	g.Go(func() error {
		return e.watch(ctx, loops)
	})

	e.consume()

	// Teardown order: timer, display, queue, world.
	stopLoops()
	err := g.Wait()
	close(e.redraw)
	e.queue.Close()
	e.world.Close()

	summary := Summary{
		StartedAt:    started,
		Duration:     time.Since(started),
		Ticks:        e.stats.Ticks,
		DroppedTicks: e.dropped.Load(),
		BoxesSpawned: e.stats.BoxesSpawned,
		RowsCleared:  e.stats.RowsCleared,
		Crushes:      e.stats.Crushes,
	}
	e.logger.Info("engine stopped",
		"duration", summary.Duration,
		"ticks", summary.Ticks,
		"dropped", summary.DroppedTicks,
	)
	return summary, err
}

// tickLoop pushes a tick every interval. Ticks that do not fit are dropped.
func (e *Engine) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(e.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !e.queue.TryPush(event.Tick()) {
				if e.dropped.Add(1) == 1 {
					e.logger.Debug("event queue full, dropping ticks")
				}
			}
		}
	}
}

// watch converts cancellation of the caller's context into a Back press.
func (e *Engine) watch(ctx, loops context.Context) error {
	select {
	case <-loops.Done():
		return nil
	case <-ctx.Done():
	}

	e.logger.Debug("context done, requesting exit", "cause", ctx.Err())
	err := e.queue.Push(loops, event.Key(core.Press(core.KeyBack)))
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, event.ErrClosed) {
		return fmt.Errorf("engine: request exit: %w", err)
	}
	return nil
}

// consume is the only writer of the world.
func (e *Engine) consume() {
	for {
		ev, ok := e.queue.Pop(e.opts.PopTimeout)
		if !ok {
			continue
		}

		var status heapdefence.Status
		e.world.Update(func(w *heapdefence.World) {
			before := w.Status()
			switch ev.Kind {
			case event.KindTick:
				w.Tick()
			case event.KindKey:
				w.HandleKey(ev.Input)
			}
			status = w.Status()
			e.stats = w.Stats()

			if status != before {
				e.logger.Debug("status changed", "from", before, "to", status, "event", ev.Kind)
			}
		})
		e.notify()

		if status == heapdefence.StatusExit {
			return
		}
	}
}

func (e *Engine) notify() {
	select {
	case e.redraw <- struct{}{}:
	default:
	}
}
