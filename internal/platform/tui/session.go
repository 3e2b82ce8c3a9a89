package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/heapdefence/internal/config"
	"github.com/vovakirdan/heapdefence/internal/core"
	"github.com/vovakirdan/heapdefence/internal/engine"
	"github.com/vovakirdan/heapdefence/internal/games/heapdefence"
	"github.com/vovakirdan/heapdefence/internal/storage"
)

// End reasons recorded in the journal.
const (
	EndQuit       = "quit"
	EndDisconnect = "disconnect"
)

// SessionOptions describes one game to be played.
type SessionOptions struct {
	Config  config.HeapDefenceConfig
	Runtime core.RuntimeConfig // TickRate overrides the configured timer frequency when set
	Player  string
	Mode    string // storage.ModeLocal or storage.ModeSSH
	Logger  *log.Logger
}

type runResult struct {
	summary engine.Summary
	err     error
}

// Session is one world, its engine and the model displaying it.
type Session struct {
	id     string
	opts   SessionOptions
	engine *engine.Engine
	model  Model
	result chan runResult
}

// NewSession builds everything a game needs. Nothing runs until Start.
func NewSession(opts SessionOptions) (*Session, error) {
	cfg := opts.Config
	if opts.Runtime.TickRate > 0 {
		cfg.Timing.UpdateFreq = opts.Runtime.TickRate
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.With("session", id[:8])

	world, err := heapdefence.NewWorld(heapdefence.ConfigFrom(cfg), opts.Runtime.ResolveSeed())
	if err != nil {
		return nil, fmt.Errorf("tui: create world: %w", err)
	}

	eng, err := engine.New(world, engine.OptionsFrom(cfg, logger))
	if err != nil {
		return nil, fmt.Errorf("tui: create engine: %w", err)
	}

	model := NewModel(eng, cfg.Field.Width, cfg.Field.Height,
		cfg.Timing.RenderTimeout, cfg.Render.OverlayFrame)
	// Known terminal size until the first WindowSizeMsg arrives.
	model.width = opts.Runtime.ScreenW
	model.height = opts.Runtime.ScreenH

	opts.Config = cfg
	opts.Logger = logger
	return &Session{
		id:     id,
		opts:   opts,
		engine: eng,
		model:  model,
		result: make(chan runResult, 1),
	}, nil
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	return s.id
}

// Model returns the Bubble Tea model for this session.
func (s *Session) Model() Model {
	return s.model
}

// Engine returns the session's engine.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// Start runs the engine in the background. Cancelling ctx ends the game
// as if Back had been pressed.
func (s *Session) Start(ctx context.Context) {
	go func() {
		summary, err := s.engine.Run(ctx)
		s.result <- runResult{summary, err}
	}()
}

// Stop asks the engine to exit.
func (s *Session) Stop() {
	s.engine.Stop()
}

// Wait blocks until the engine has torn down and returns its summary.
func (s *Session) Wait() (engine.Summary, error) {
	r := <-s.result
	return r.summary, r.err
}

// Record turns a run summary into a journal entry.
func (s *Session) Record(sum engine.Summary, reason string) storage.SessionRecord {
	return storage.SessionRecord{
		SessionID:    s.id,
		Player:       s.opts.Player,
		Mode:         s.opts.Mode,
		EndReason:    reason,
		StartedAt:    sum.StartedAt,
		Duration:     sum.Duration,
		Ticks:        sum.Ticks,
		DroppedTicks: sum.DroppedTicks,
		BoxesSpawned: sum.BoxesSpawned,
		RowsCleared:  sum.RowsCleared,
		Crushes:      sum.Crushes,
	}
}
