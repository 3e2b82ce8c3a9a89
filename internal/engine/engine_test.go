package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/heapdefence/internal/config"
	"github.com/vovakirdan/heapdefence/internal/core"
	"github.com/vovakirdan/heapdefence/internal/event"
	"github.com/vovakirdan/heapdefence/internal/games/heapdefence"
)

func testOptions() Options {
	return Options{
		TickInterval:  time.Millisecond,
		PopTimeout:    10 * time.Millisecond,
		QueueCapacity: 8,
	}
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	w, err := heapdefence.NewWorld(heapdefence.DefaultConfig(), 1)
	require.NoError(t, err)
	e, err := New(w, opts)
	require.NoError(t, err)
	return e
}

type runResult struct {
	summary Summary
	err     error
}

func start(ctx context.Context, e *Engine) <-chan runResult {
	out := make(chan runResult, 1)
	go func() {
		s, err := e.Run(ctx)
		out <- runResult{s, err}
	}()
	return out
}

func wait(t *testing.T, done <-chan runResult) runResult {
	t.Helper()
	select {
	case r := <-done:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
		return runResult{}
	}
}

func boxes(s *heapdefence.Snapshot) int {
	n := 0
	for _, b := range s.Cells {
		if b.Exists() {
			n++
		}
	}
	return n
}

func TestNewValidation(t *testing.T) {
	w, err := heapdefence.NewWorld(heapdefence.DefaultConfig(), 1)
	require.NoError(t, err)

	_, err = New(nil, testOptions())
	assert.Error(t, err)

	opts := testOptions()
	opts.TickInterval = 0
	_, err = New(w, opts)
	assert.Error(t, err)

	opts = testOptions()
	opts.PopTimeout = 0
	_, err = New(w, opts)
	assert.Error(t, err)

	opts = testOptions()
	opts.QueueCapacity = 0
	_, err = New(w, opts)
	assert.Error(t, err)
}

func TestOptionsFrom(t *testing.T) {
	opts := OptionsFrom(config.Default(), nil)
	assert.Equal(t, 125*time.Millisecond, opts.TickInterval)
	assert.Equal(t, 100*time.Millisecond, opts.PopTimeout)
	assert.Equal(t, 8, opts.QueueCapacity)
}

func TestBackStopsRun(t *testing.T) {
	e := newTestEngine(t, testOptions())
	done := start(context.Background(), e)

	// Run until the first box has spawned.
	var snap heapdefence.Snapshot
	require.Eventually(t, func() bool {
		return e.Snapshot(time.Millisecond, &snap) && boxes(&snap) > 0
	}, 5*time.Second, time.Millisecond)

	require.NoError(t, e.Input(context.Background(), core.Press(core.KeyBack)))
	r := wait(t, done)

	require.NoError(t, r.err)
	assert.GreaterOrEqual(t, r.summary.Ticks, int64(15))
	assert.GreaterOrEqual(t, r.summary.BoxesSpawned, int64(1))
	assert.False(t, r.summary.StartedAt.IsZero())
	assert.Positive(t, r.summary.Duration)

	_, open := <-e.Redraw()
	for open {
		_, open = <-e.Redraw()
	}

	assert.ErrorIs(t, e.Input(context.Background(), core.Press(core.KeyUp)), event.ErrClosed)
	assert.False(t, e.Snapshot(time.Millisecond, &snap), "world is released after the run")
}

func TestPauseKeepsRunning(t *testing.T) {
	e := newTestEngine(t, testOptions())
	done := start(context.Background(), e)

	require.NoError(t, e.Input(context.Background(), core.Press(core.KeyDown)))

	var snap heapdefence.Snapshot
	require.Eventually(t, func() bool {
		return e.Snapshot(time.Millisecond, &snap) && snap.Status == heapdefence.StatusPaused
	}, time.Second, time.Millisecond)

	require.NoError(t, e.Input(context.Background(), core.Press(core.KeyOk)))
	require.Eventually(t, func() bool {
		return e.Snapshot(time.Millisecond, &snap) && snap.Status == heapdefence.StatusInProgress
	}, time.Second, time.Millisecond)

	e.Stop()
	r := wait(t, done)
	require.NoError(t, r.err)
}

func TestContextCancelBecomesBack(t *testing.T) {
	e := newTestEngine(t, testOptions())
	ctx, cancel := context.WithCancel(context.Background())
	done := start(ctx, e)

	time.Sleep(10 * time.Millisecond)
	cancel()

	r := wait(t, done)
	require.NoError(t, r.err)
}

func TestRunTwice(t *testing.T) {
	e := newTestEngine(t, testOptions())
	done := start(context.Background(), e)
	e.Stop()
	wait(t, done)

	_, err := e.Run(context.Background())
	assert.ErrorIs(t, err, ErrStarted)
}

func TestTicksDroppedWhileWorldHeld(t *testing.T) {
	opts := testOptions()
	opts.QueueCapacity = 2
	e := newTestEngine(t, opts)

	// Hold the world so the consumer stalls and the queue fills up.
	release := make(chan struct{})
	held := make(chan struct{})
	go e.world.Update(func(*heapdefence.World) {
		close(held)
		<-release
	})
	<-held

	done := start(context.Background(), e)
	time.Sleep(50 * time.Millisecond)
	close(release)

	e.Stop()
	r := wait(t, done)
	require.NoError(t, r.err)
	assert.Positive(t, r.summary.DroppedTicks)
}

func TestRedrawSignals(t *testing.T) {
	e := newTestEngine(t, testOptions())
	done := start(context.Background(), e)

	select {
	case _, ok := <-e.Redraw():
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("no redraw after ticks")
	}

	e.Stop()
	wait(t, done)
}
