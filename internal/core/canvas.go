package core

import "time"

// Canvas is the draw sink the renderer talks to. Coordinates are screen
// cells; anything that falls outside the canvas is clipped.
type Canvas interface {
	// Clear blanks the whole canvas.
	Clear()

	// SetColor selects the pen color used by icons that carry no color of their own.
	SetColor(c Color)

	// DrawIcon draws a static image with its top-left corner at (x, y).
	DrawIcon(x, y int, icon *Icon)

	// DrawAnimation draws the current frame of an animation at (x, y).
	DrawAnimation(x, y int, anim *Animation)
}

// Icon is a small rune bitmap. Spaces are transparent.
type Icon struct {
	Rows  []string
	Color Color // ColorDefault means "use the pen color"
}

// NewIcon creates an icon from its rows, top to bottom.
func NewIcon(color Color, rows ...string) *Icon {
	return &Icon{Rows: rows, Color: color}
}

// Width returns the width of the widest row in runes.
func (i *Icon) Width() int {
	w := 0
	for _, row := range i.Rows {
		if n := len([]rune(row)); n > w {
			w = n
		}
	}
	return w
}

// Height returns the number of rows.
func (i *Icon) Height() int {
	return len(i.Rows)
}

// Animation is a looping sequence of icons. Its frame is derived from wall
// clock time since Start, so it keeps advancing no matter how often it is drawn.
type Animation struct {
	Frames   []*Icon
	Interval time.Duration

	started time.Time
	now     func() time.Time
}

// NewAnimation creates a started animation cycling through frames.
func NewAnimation(interval time.Duration, frames ...*Icon) *Animation {
	a := &Animation{
		Frames:   frames,
		Interval: interval,
		now:      time.Now,
	}
	a.Start()
	return a
}

// Start rewinds the animation to its first frame.
func (a *Animation) Start() {
	if a.now == nil {
		a.now = time.Now
	}
	a.started = a.now()
}

// Current returns the frame that should be visible right now.
func (a *Animation) Current() *Icon {
	if len(a.Frames) == 0 {
		return nil
	}
	if a.Interval <= 0 || a.now == nil {
		return a.Frames[0]
	}
	elapsed := a.now().Sub(a.started)
	idx := int(elapsed/a.Interval) % len(a.Frames)
	return a.Frames[idx]
}
