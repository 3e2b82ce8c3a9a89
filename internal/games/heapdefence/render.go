package heapdefence

import "github.com/vovakirdan/heapdefence/internal/core"

// Field origin on the canvas, inside the one-cell frame border.
const (
	originX = 1
	originY = 1
)

// ScreenSize returns the canvas size needed to draw a gridW x gridH field.
func ScreenSize(gridW, gridH int) (int, int) {
	return gridW*CellW + 2, gridH*CellH + 2
}

// Render draws one frame of the snapshot. While the game is paused or over
// only the overlay animation is drawn.
func Render(c core.Canvas, snap *Snapshot, sp *Sprites) {
	c.Clear()

	if snap.Status != StatusInProgress {
		renderOverlay(c, snap, sp)
		return
	}

	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			b := snap.At(x, y)
			if !b.Exists() {
				continue
			}
			sx, sy := boxOrigin(x, y, b, snap.BoxHeight)
			c.DrawIcon(sx, sy, sp.box(b.Variant()))
		}
	}

	renderPerson(c, snap.Person, sp)

	// The frame goes last so boxes still sliding into the spawn row stay hidden.
	c.SetColor(core.ColorGray)
	c.DrawIcon(0, 0, sp.Frame)
}

func renderOverlay(c core.Canvas, snap *Snapshot, sp *Sprites) {
	anim := sp.Pause
	if snap.Overlay == OverlayGameOver {
		anim = sp.GameOver
	}
	frame := anim.Current()
	if frame == nil {
		return
	}
	w, h := ScreenSize(snap.Width, snap.Height)
	x := core.Clamp((w-frame.Width())/2, 0, w)
	y := core.Clamp((h-frame.Height())/2, 0, h)
	c.DrawAnimation(x, y, anim)
}

// boxOrigin returns where a box at grid cell (x, y) is drawn. A box that
// has not landed yet is drawn partway up toward the row it came from.
func boxOrigin(x, y int, b Box, boxHeight int) (int, int) {
	sx := originX + x*CellW
	sy := originY + y*CellH
	if boxHeight > 0 {
		sy -= b.Offset() * CellH / boxHeight
	}
	return sx, sy
}

func renderPerson(c core.Canvas, p Person, sp *Sprites) {
	dx, dy := personShift(p)
	// The sprite is two cells tall with its feet in the person's cell.
	sx := originX + p.X*CellW + dx
	sy := originY + (p.Y-1)*CellH + dy

	if p.HTick > hAttempt {
		if p.FacingRight {
			c.DrawAnimation(sx, sy, sp.WalkRight)
		} else {
			c.DrawAnimation(sx, sy, sp.WalkLeft)
		}
		return
	}
	c.DrawIcon(sx, sy, sp.Stand)
}

// personShift returns the interpolation offset of the sprite. The grid
// position changes at the start of a move; the sprite catches up over the
// following frames.
func personShift(p Person) (dx, dy int) {
	if p.HTick > hAttempt && p.Dir != 0 {
		dx = p.Dir * (p.HTick - hResetAt) * CellW / (hResetAt - hAttempt)
	}
	v := p.VTick
	if (v > vJump && v < vPeak) || (v < vIdle && v > vLanding) {
		dy = (vPeak - core.Abs(v)) * CellH / (vPeak - vJump)
		if v < 0 {
			dy = -dy
		}
	}
	return dx, dy
}

// box returns the icon for a variant, wrapping unknown variants.
func (s *Sprites) box(variant int) *core.Icon {
	return s.Boxes[variant%len(s.Boxes)]
}
