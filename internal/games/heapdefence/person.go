package heapdefence

// Horizontal counter thresholds.
const (
	hIdle    = 0
	hAttempt = 1
	hResetAt = 5
)

// Vertical counter thresholds. Positive values rise, negative values fall.
const (
	vIdle    = 0
	vJump    = 1
	vPeak    = 6
	vLanding = -6
)

// HorizontalPhase names the stages of a one-cell walk or push.
type HorizontalPhase int

const (
	HorizontalIdle       HorizontalPhase = iota // no move in progress
	HorizontalAttempting                        // legality check runs this tick
	HorizontalCommitting                        // move done, sprite sliding into place
	HorizontalResetting                         // last frame, back to idle next
)

// String returns the phase name.
func (p HorizontalPhase) String() string {
	switch p {
	case HorizontalIdle:
		return "Idle"
	case HorizontalAttempting:
		return "Attempting"
	case HorizontalCommitting:
		return "Committing"
	case HorizontalResetting:
		return "Resetting"
	default:
		return "Unknown"
	}
}

// VerticalPhase names the stages of a jump or a fall.
type VerticalPhase int

const (
	VerticalIdle      VerticalPhase = iota // standing, or about to fall
	VerticalFalling                        // dropped a row, sprite catching up
	VerticalRising                         // jumped a row, sprite catching up
	VerticalResetting                      // last frame of a rise or fall
)

// String returns the phase name.
func (p VerticalPhase) String() string {
	switch p {
	case VerticalIdle:
		return "Idle"
	case VerticalFalling:
		return "Falling"
	case VerticalRising:
		return "Rising"
	case VerticalResetting:
		return "Resetting"
	default:
		return "Unknown"
	}
}

// Person is the player character. It occupies one grid cell (its feet);
// the sprite is two cells tall, which is why a box directly above kills it.
type Person struct {
	X, Y        int
	Dir         int // -1 left, 1 right, 0 while HTick is 0
	HTick       int // 0..5
	VTick       int // -6..6
	FacingRight bool
}

// newPerson returns a person standing on the floor in the middle of the grid.
func newPerson(g *Grid) Person {
	return Person{X: g.Width() / 2, Y: g.Last()}
}

// HorizontalPhase returns the named phase of the horizontal counter.
func (p Person) HorizontalPhase() HorizontalPhase {
	switch {
	case p.HTick == hIdle:
		return HorizontalIdle
	case p.HTick == hAttempt:
		return HorizontalAttempting
	case p.HTick >= hResetAt:
		return HorizontalResetting
	default:
		return HorizontalCommitting
	}
}

// VerticalPhase returns the named phase of the vertical counter.
func (p Person) VerticalPhase() VerticalPhase {
	switch {
	case p.VTick == vIdle:
		return VerticalIdle
	case p.VTick >= vPeak || p.VTick <= vLanding:
		return VerticalResetting
	case p.VTick > 0:
		return VerticalRising
	default:
		return VerticalFalling
	}
}

// walk requests a one-cell move. Ignored while a previous move is still running.
func (p *Person) walk(dir int) {
	p.FacingRight = dir > 0
	if p.HTick != hIdle {
		return
	}
	p.HTick = hAttempt
	p.Dir = dir
}

// jump requests a jump. Ignored while rising or falling.
func (p *Person) jump() {
	if p.VTick == vIdle {
		p.VTick = vJump
	}
}

// crushed reports whether a box sits directly above the person.
func (p Person) crushed(g *Grid) bool {
	return p.Y > 0 && g.Occupied(p.X, p.Y-1)
}

// onGround reports whether the person stands on the floor or on a box.
func (p Person) onGround(g *Grid) bool {
	return p.Y == g.Last() || g.Occupied(p.X, p.Y+1)
}

// step advances both motion counters by one tick.
func (p *Person) step(g *Grid) {
	p.stepHorizontal(g)
	p.stepVertical(g)

	// A rising person smashes through whatever it jumps into.
	if p.VTick > 0 {
		g.Clear(p.X, p.Y)
		if p.Y > 0 {
			g.Clear(p.X, p.Y-1)
		}
	}
}

func (p *Person) stepHorizontal(g *Grid) {
	switch p.HorizontalPhase() {
	case HorizontalIdle:
	case HorizontalAttempting:
		p.HTick++
		if !p.horizontalMove(g) {
			p.HTick = hIdle
			p.Dir = 0
		}
	case HorizontalResetting:
		p.HTick = hIdle
		p.Dir = 0
	default:
		p.HTick++
	}
}

func (p *Person) stepVertical(g *Grid) {
	switch p.VerticalPhase() {
	case VerticalIdle:
		if !p.onGround(g) {
			p.Y++
			p.VTick = -1
		}
	case VerticalResetting:
		p.VTick = vIdle
	case VerticalRising:
		if p.VTick != vJump {
			p.VTick++
			return
		}
		if p.onGround(g) && p.Y > 0 {
			p.Y--
			p.VTick++
			return
		}
		// Nothing to push off from; drop the jump and let gravity take over.
		p.VTick = vIdle
	case VerticalFalling:
		p.VTick--
	}
}

// horizontalMove tries to step (or push a box) one cell in p.Dir.
func (p *Person) horizontalMove(g *Grid) bool {
	if p.Dir == 0 {
		return false
	}

	nx, ny := p.X+p.Dir, p.Y
	if nx < 0 || nx >= g.Width() {
		return false
	}

	if !g.Occupied(nx, ny) {
		if !groundedAt(g, nx, ny) {
			return false
		}
		p.X = nx
		return true
	}

	if !pushable(g, nx, ny, p.Dir) {
		return false
	}
	g.Set(nx+p.Dir, ny, g.At(nx, ny))
	g.Clear(nx, ny)
	p.X = nx
	return true
}

// groundedAt reports whether stepping into (x, y) leaves the person on
// something: the floor, an empty cell (a fall follows), or a landed box.
func groundedAt(g *Grid, x, y int) bool {
	if y == g.Last() {
		return true
	}
	below := g.At(x, y+1)
	return !below.Exists() || below.Landed()
}

// pushable reports whether the box at (x, y) can slide one cell in dir:
// it needs two rows of headroom with nothing stacked on it, and an empty
// in-bounds cell on the far side.
func pushable(g *Grid, x, y, dir int) bool {
	if y < 2 || g.Occupied(x, y-1) {
		return false
	}
	nx := x + dir
	if nx < 0 || nx >= g.Width() {
		return false
	}
	return !g.Occupied(nx, y)
}
