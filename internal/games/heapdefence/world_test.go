package heapdefence

import (
	"reflect"
	"testing"

	"github.com/vovakirdan/heapdefence/internal/core"
)

func newTestWorld(t *testing.T, seed int64) *World {
	t.Helper()
	w, err := NewWorld(DefaultConfig(), seed)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	expected := Config{Width: 12, Height: 6, BoxHeight: 10, GenerationRate: 15, Variants: 5}
	if cfg != expected {
		t.Errorf("DefaultConfig() = %+v, expected %+v", cfg, expected)
	}
}

func TestNewWorldValidation(t *testing.T) {
	base := DefaultConfig()
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"narrow grid", func(c *Config) { c.Width = 2 }},
		{"short grid", func(c *Config) { c.Height = 1 }},
		{"zero box height", func(c *Config) { c.BoxHeight = 0 }},
		{"box height overflows cell", func(c *Config) { c.BoxHeight = 16 }},
		{"zero generation rate", func(c *Config) { c.GenerationRate = 0 }},
		{"no variants", func(c *Config) { c.Variants = 0 }},
		{"too many variants", func(c *Config) { c.Variants = 6 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.modify(&cfg)
			if _, err := NewWorld(cfg, 1); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNewWorldInitialState(t *testing.T) {
	w := newTestWorld(t, 1)

	if w.Status() != StatusInProgress || w.Overlay() != OverlayNone {
		t.Errorf("initial status %v overlay %v", w.Status(), w.Overlay())
	}
	if w.Grid().Count() != 0 {
		t.Errorf("initial grid holds %d boxes", w.Grid().Count())
	}
	if p := w.Person(); p.X != 6 || p.Y != 5 {
		t.Errorf("initial person at (%d,%d)", p.X, p.Y)
	}
}

func TestFirstSpawn(t *testing.T) {
	w := newTestWorld(t, 42)
	cfg := w.Config()

	for i := 1; i < cfg.GenerationRate; i++ {
		w.Tick()
		if w.Grid().Count() != 0 {
			t.Fatalf("box spawned early at tick %d", i)
		}
	}
	w.Tick()

	if w.Grid().Count() != 1 {
		t.Fatalf("expected one box after %d ticks, got %d", cfg.GenerationRate, w.Grid().Count())
	}
	found := 0
	for x := 0; x < cfg.Width; x++ {
		b := w.Grid().At(x, 0)
		if b.Exists() {
			found++
			if b.Offset() != cfg.BoxHeight {
				t.Errorf("spawned box offset = %d, expected %d", b.Offset(), cfg.BoxHeight)
			}
		}
	}
	if found != 1 {
		t.Errorf("expected the box in row 0, found %d there", found)
	}
	if p := w.Person(); p.X != 6 || p.Y != 5 {
		t.Errorf("person moved to (%d,%d) without input", p.X, p.Y)
	}
}

func TestSpawnCadence(t *testing.T) {
	w := newTestWorld(t, 3)
	for i := 0; i < 3*w.Config().GenerationRate; i++ {
		w.Tick()
	}
	if got := w.Stats().BoxesSpawned; got != 3 {
		t.Errorf("BoxesSpawned = %d, expected 3", got)
	}
	if got := w.Stats().Ticks; got != 45 {
		t.Errorf("Ticks = %d, expected 45", got)
	}
}

func TestCrushResetsWorld(t *testing.T) {
	w := newTestWorld(t, 5)
	for i := 0; i < 20; i++ {
		w.Tick()
	}
	w.HandleKey(core.Press(core.KeyLeft))
	w.Tick()

	p := w.Person()
	w.Grid().Set(p.X, p.Y-1, NewBox(0, 0))
	w.Tick()

	if w.Status() != StatusOver || w.Overlay() != OverlayGameOver {
		t.Fatalf("after crush status=%v overlay=%v", w.Status(), w.Overlay())
	}
	if w.Grid().Count() != 0 {
		t.Errorf("grid not reset: %d boxes", w.Grid().Count())
	}
	if got, want := w.Person(), newPerson(w.Grid()); got != want {
		t.Errorf("person not reset: %+v, expected %+v", got, want)
	}
	if w.Stats().Crushes != 1 {
		t.Errorf("Crushes = %d, expected 1", w.Stats().Crushes)
	}

	// A restart begins the spawn cadence from scratch.
	w.HandleKey(core.Press(core.KeyOk))
	for i := 1; i < w.Config().GenerationRate; i++ {
		w.Tick()
	}
	if w.Grid().Count() != 0 {
		t.Error("spawn counter survived the reset")
	}
}

func TestPauseFreezesWorld(t *testing.T) {
	w := newTestWorld(t, 11)
	for i := 0; i < 40; i++ {
		w.Tick()
	}
	w.HandleKey(core.Press(core.KeyRight))
	w.Tick()
	before := w.Snapshot()

	w.HandleKey(core.Press(core.KeyDown))
	if w.Status() != StatusPaused || w.Overlay() != OverlayPause {
		t.Fatalf("Down should pause, got %v/%v", w.Status(), w.Overlay())
	}
	ticks := w.Stats().Ticks
	for i := 0; i < 100; i++ {
		w.Tick()
	}
	if w.Stats().Ticks != ticks {
		t.Error("ticks counted while paused")
	}

	w.HandleKey(core.Press(core.KeyOk))
	after := w.Snapshot()

	if after.Status != StatusInProgress || after.Overlay != OverlayNone {
		t.Fatalf("Ok should resume, got %v/%v", after.Status, after.Overlay)
	}
	if !reflect.DeepEqual(before.Cells, after.Cells) {
		t.Error("grid changed across pause")
	}
	if before.Person != after.Person {
		t.Errorf("person changed across pause: %+v -> %+v", before.Person, after.Person)
	}
}

func TestStatusTransitions(t *testing.T) {
	keys := []core.Key{core.KeyUp, core.KeyDown, core.KeyLeft, core.KeyRight, core.KeyOk, core.KeyBack}

	expected := map[Status]map[core.Key]Status{
		StatusInProgress: {
			core.KeyUp:    StatusInProgress,
			core.KeyDown:  StatusPaused,
			core.KeyLeft:  StatusInProgress,
			core.KeyRight: StatusInProgress,
			core.KeyOk:    StatusPaused,
			core.KeyBack:  StatusExit,
		},
		StatusPaused: {
			core.KeyUp:    StatusPaused,
			core.KeyDown:  StatusPaused,
			core.KeyLeft:  StatusPaused,
			core.KeyRight: StatusPaused,
			core.KeyOk:    StatusInProgress,
			core.KeyBack:  StatusExit,
		},
		StatusOver: {
			core.KeyUp:    StatusOver,
			core.KeyDown:  StatusOver,
			core.KeyLeft:  StatusOver,
			core.KeyRight: StatusOver,
			core.KeyOk:    StatusInProgress,
			core.KeyBack:  StatusExit,
		},
		StatusExit: {
			core.KeyUp:    StatusExit,
			core.KeyDown:  StatusExit,
			core.KeyLeft:  StatusExit,
			core.KeyRight: StatusExit,
			core.KeyOk:    StatusExit,
			core.KeyBack:  StatusExit,
		},
	}

	for from, row := range expected {
		for _, key := range keys {
			t.Run(from.String()+"/"+key.String(), func(t *testing.T) {
				w := newTestWorld(t, 1)
				w.status = from
				w.HandleKey(core.Press(key))
				if w.Status() != row[key] {
					t.Errorf("%v + %v -> %v, expected %v", from, key, w.Status(), row[key])
				}
			})
		}
	}
}

func TestInProgressKeysReachPerson(t *testing.T) {
	w := newTestWorld(t, 1)

	w.HandleKey(core.Press(core.KeyLeft))
	if p := w.Person(); p.HTick != 1 || p.Dir != -1 {
		t.Errorf("Left: h_tick=%d dir=%d", p.HTick, p.Dir)
	}
	w.HandleKey(core.Press(core.KeyUp))
	if p := w.Person(); p.VTick != 1 {
		t.Errorf("Up: v_tick=%d", p.VTick)
	}
}

func TestKeyKindsFiltered(t *testing.T) {
	tests := []struct {
		kind core.KeyKind
		acts bool
	}{
		{core.KindPress, true},
		{core.KindRepeat, true},
		{core.KindRelease, false},
		{core.KindShort, false},
		{core.KindLong, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			w := newTestWorld(t, 1)
			w.HandleKey(core.InputEvent{Key: core.KeyBack, Kind: tt.kind})
			if got := w.Status() == StatusExit; got != tt.acts {
				t.Errorf("Back/%v exited=%v, expected %v", tt.kind, got, tt.acts)
			}
		})
	}
}

func TestExitIsTerminal(t *testing.T) {
	w := newTestWorld(t, 1)
	w.HandleKey(core.Press(core.KeyBack))
	for i := 0; i < 50; i++ {
		w.Tick()
	}
	if w.Stats().Ticks != 0 {
		t.Error("world ticked after Exit")
	}
	if w.Status() != StatusExit {
		t.Errorf("status = %v", w.Status())
	}
}

func TestDeterminism(t *testing.T) {
	w1 := newTestWorld(t, 12345)
	w2 := newTestWorld(t, 12345)

	for i := 0; i < 500; i++ {
		if i%37 == 0 {
			w1.HandleKey(core.Press(core.KeyLeft))
			w2.HandleKey(core.Press(core.KeyLeft))
		}
		if i%53 == 0 {
			w1.HandleKey(core.Press(core.KeyUp))
			w2.HandleKey(core.Press(core.KeyUp))
		}
		w1.Tick()
		w2.Tick()
	}

	if !reflect.DeepEqual(w1.Snapshot(), w2.Snapshot()) {
		t.Error("same seed and inputs produced different worlds")
	}
	if w1.Stats() != w2.Stats() {
		t.Errorf("stats differ: %+v vs %+v", w1.Stats(), w2.Stats())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	w := newTestWorld(t, 1)
	w.Grid().Set(0, 5, NewBox(1, 0))

	var snap Snapshot
	w.SnapshotInto(&snap)
	w.Grid().Clear(0, 5)

	if !snap.At(0, 5).Exists() {
		t.Error("snapshot aliases the live grid")
	}
	if snap.At(-1, 0).Exists() || snap.At(0, 99).Exists() {
		t.Error("out-of-range snapshot reads should be empty")
	}
	if snap.Width != 12 || snap.Height != 6 || snap.BoxHeight != 10 {
		t.Errorf("snapshot dims %dx%d box %d", snap.Width, snap.Height, snap.BoxHeight)
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusInProgress: "InProgress",
		StatusPaused:     "Paused",
		StatusOver:       "Over",
		StatusExit:       "Exit",
		Status(42):       "Unknown",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("%d.String() = %q, expected %q", int(s), s.String(), want)
		}
	}
}
