package heapdefence

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/heapdefence/internal/config"
	"github.com/vovakirdan/heapdefence/internal/core"
)

// Status is the process-wide game mode.
type Status int

const (
	StatusInProgress Status = iota
	StatusPaused
	StatusOver
	StatusExit
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "InProgress"
	case StatusPaused:
		return "Paused"
	case StatusOver:
		return "Over"
	case StatusExit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// Overlay selects the full-screen animation shown instead of the grid.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayPause
	OverlayGameOver
)

// Config holds the simulation parameters.
type Config struct {
	Width          int // Grid columns
	Height         int // Grid rows
	BoxHeight      int // Fall offset of a freshly moved box (ticks per row)
	GenerationRate int // Spawn a box every N in-progress ticks
	Variants       int // Number of box sprites
}

// ConfigFrom extracts the simulation parameters from a loaded configuration.
func ConfigFrom(c config.HeapDefenceConfig) Config {
	return Config{
		Width:          c.Field.Width,
		Height:         c.Field.Height,
		BoxHeight:      c.Boxes.Height,
		GenerationRate: c.Boxes.GenerationRate,
		Variants:       c.Boxes.Variants,
	}
}

// DefaultConfig returns the classic 12x6 field.
func DefaultConfig() Config {
	return ConfigFrom(config.Default())
}

// Stats are running counters for one session. They survive deaths and are
// only used for the session journal.
type Stats struct {
	Ticks        int64
	BoxesSpawned int64
	RowsCleared  int64
	Crushes      int64
}

// World is the whole mutable game state: the grid, the character, the
// game status and the selected overlay. It is not safe for concurrent use;
// the engine guards it with a gate.
type World struct {
	cfg     Config
	grid    *Grid
	person  Person
	status  Status
	overlay Overlay

	spawnTicks int
	rng        *rand.Rand
	stats      Stats
}

// NewWorld allocates a world with an empty grid and the character on the floor.
func NewWorld(cfg Config, seed int64) (*World, error) {
	if cfg.Width < 3 || cfg.Height < 3 {
		return nil, fmt.Errorf("heapdefence: grid %dx%d is too small", cfg.Width, cfg.Height)
	}
	if cfg.BoxHeight < 1 || cfg.BoxHeight > config.MaxBoxHeight {
		return nil, fmt.Errorf("heapdefence: box height %d out of range 1..%d", cfg.BoxHeight, config.MaxBoxHeight)
	}
	if cfg.GenerationRate < 1 {
		return nil, fmt.Errorf("heapdefence: generation rate must be positive, got %d", cfg.GenerationRate)
	}
	if cfg.Variants < 1 || cfg.Variants > config.MaxVariants {
		return nil, fmt.Errorf("heapdefence: variants %d out of range 1..%d", cfg.Variants, config.MaxVariants)
	}

	w := &World{
		cfg:    cfg,
		grid:   NewGrid(cfg.Width, cfg.Height),
		status: StatusInProgress,
		rng:    rand.New(rand.NewSource(seed)),
	}
	w.reset()
	return w, nil
}

// Config returns the simulation parameters.
func (w *World) Config() Config {
	return w.cfg
}

// Grid returns the playing field.
func (w *World) Grid() *Grid {
	return w.grid
}

// Person returns a copy of the character state.
func (w *World) Person() Person {
	return w.person
}

// Status returns the current game status.
func (w *World) Status() Status {
	return w.status
}

// Overlay returns the overlay selected for the current status.
func (w *World) Overlay() Overlay {
	return w.overlay
}

// Stats returns the session counters.
func (w *World) Stats() Stats {
	return w.stats
}

// reset empties the grid and puts the character back at its start cell.
func (w *World) reset() {
	w.grid.Reset()
	w.person = newPerson(w.grid)
	w.spawnTicks = 0
}

// Tick advances the simulation by one timer tick. Outside InProgress the
// world is frozen.
func (w *World) Tick() {
	if w.status != StatusInProgress {
		return
	}
	w.stats.Ticks++

	if w.person.crushed(w.grid) {
		w.status = StatusOver
		w.overlay = OverlayGameOver
		w.stats.Crushes++
		w.reset()
		return
	}

	w.grid.DropPass(w.cfg.BoxHeight)
	w.spawn()
	w.stats.RowsCleared += int64(w.grid.ClearRows())
	w.person.step(w.grid)
}

// spawn drops a box on every GenerationRate-th tick.
func (w *World) spawn() {
	w.spawnTicks++
	if w.spawnTicks < w.cfg.GenerationRate {
		return
	}
	w.spawnTicks = 0

	if w.grid.SpawnBox(w.rng, w.cfg.BoxHeight, w.cfg.Variants) {
		w.stats.BoxesSpawned++
	}
}

// HandleKey applies a key event to the game-status state machine.
// Only Press and Repeat events are acted upon.
func (w *World) HandleKey(in core.InputEvent) {
	if !in.Kind.Actionable() {
		return
	}

	switch w.status {
	case StatusInProgress:
		switch in.Key {
		case core.KeyUp:
			w.person.jump()
		case core.KeyLeft:
			w.person.walk(-1)
		case core.KeyRight:
			w.person.walk(1)
		case core.KeyBack:
			w.status = StatusExit
		default:
			w.status = StatusPaused
			w.overlay = OverlayPause
		}

	case StatusPaused, StatusOver:
		switch in.Key {
		case core.KeyOk:
			w.status = StatusInProgress
			w.overlay = OverlayNone
		case core.KeyBack:
			w.status = StatusExit
		}

	case StatusExit:
		// Terminal.
	}
}

// Snapshot is a read-only copy of everything the renderer needs.
type Snapshot struct {
	Width     int
	Height    int
	BoxHeight int
	Cells     []Box
	Person    Person
	Status    Status
	Overlay   Overlay
}

// At returns the cell at (x, y) of the snapshot.
func (s *Snapshot) At(x, y int) Box {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return 0
	}
	return s.Cells[y*s.Width+x]
}

// SnapshotInto copies the world into dst, reusing its cell buffer.
func (w *World) SnapshotInto(dst *Snapshot) {
	dst.Width = w.grid.Width()
	dst.Height = w.grid.Height()
	dst.BoxHeight = w.cfg.BoxHeight
	dst.Cells = w.grid.CopyCells(dst.Cells)
	dst.Person = w.person
	dst.Status = w.status
	dst.Overlay = w.overlay
}

// Snapshot returns a fresh copy of the world.
func (w *World) Snapshot() Snapshot {
	var s Snapshot
	w.SnapshotInto(&s)
	return s
}
