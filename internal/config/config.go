// Package config provides YAML-based configuration loading for Heap Defence.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// MaxBoxHeight is the largest fall offset a packed box cell can hold.
const MaxBoxHeight = 15

// MaxVariants is the number of distinct box sprites.
const MaxVariants = 5

// HeapDefenceConfig contains all configuration for the game and its runtime.
type HeapDefenceConfig struct {
	Field  FieldConfig  `yaml:"field"`
	Boxes  BoxConfig    `yaml:"boxes"`
	Timing TimingConfig `yaml:"timing"`
	Queue  QueueConfig  `yaml:"queue"`
	Render RenderConfig `yaml:"render"`
}

// FieldConfig defines the playing grid in cells.
type FieldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BoxConfig defines box animation and generation parameters.
type BoxConfig struct {
	Height         int `yaml:"height"`          // Fall animation length in pixels (= ticks per row)
	GenerationRate int `yaml:"generation_rate"` // Spawn a box every N in-progress ticks
	Variants       int `yaml:"variants"`        // Number of box sprites to choose from
}

// TimingConfig defines the tick source and the two bounded waits.
type TimingConfig struct {
	UpdateFreq    int           `yaml:"update_freq"`    // Ticks per second
	PopTimeout    time.Duration `yaml:"pop_timeout"`    // Consumer wait for the next event
	RenderTimeout time.Duration `yaml:"render_timeout"` // Renderer wait for the world gate
}

// QueueConfig defines the event queue.
type QueueConfig struct {
	Capacity int `yaml:"capacity"`
}

// RenderConfig defines presentation timing.
type RenderConfig struct {
	OverlayFrame time.Duration `yaml:"overlay_frame"` // Frame interval of overlay and walk animations
}

// Validate checks that the configuration can build a world and a runtime.
func (c HeapDefenceConfig) Validate() error {
	switch {
	case c.Field.Width < 3:
		return fmt.Errorf("%w: field.width must be at least 3, got %d", ErrInvalid, c.Field.Width)
	case c.Field.Height < 3:
		return fmt.Errorf("%w: field.height must be at least 3, got %d", ErrInvalid, c.Field.Height)
	case c.Boxes.Height < 1 || c.Boxes.Height > MaxBoxHeight:
		return fmt.Errorf("%w: boxes.height must be in 1..%d, got %d", ErrInvalid, MaxBoxHeight, c.Boxes.Height)
	case c.Boxes.GenerationRate < 1:
		return fmt.Errorf("%w: boxes.generation_rate must be positive, got %d", ErrInvalid, c.Boxes.GenerationRate)
	case c.Boxes.Variants < 1 || c.Boxes.Variants > MaxVariants:
		return fmt.Errorf("%w: boxes.variants must be in 1..%d, got %d", ErrInvalid, MaxVariants, c.Boxes.Variants)
	case c.Timing.UpdateFreq < 1:
		return fmt.Errorf("%w: timing.update_freq must be positive, got %d", ErrInvalid, c.Timing.UpdateFreq)
	case c.Timing.PopTimeout <= 0:
		return fmt.Errorf("%w: timing.pop_timeout must be positive", ErrInvalid)
	case c.Timing.RenderTimeout <= 0:
		return fmt.Errorf("%w: timing.render_timeout must be positive", ErrInvalid)
	case c.Queue.Capacity < 1:
		return fmt.Errorf("%w: queue.capacity must be positive, got %d", ErrInvalid, c.Queue.Capacity)
	case c.Render.OverlayFrame <= 0:
		return fmt.Errorf("%w: render.overlay_frame must be positive", ErrInvalid)
	}
	return nil
}

// TickInterval returns the period of the tick source.
func (c HeapDefenceConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Timing.UpdateFreq)
}
