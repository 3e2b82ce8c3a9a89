package heapdefence

import "math/rand"

// SpawnBox drops a new box into a random empty column of the spawn row.
// Returns false without touching the grid when the spawn row is full.
func (g *Grid) SpawnBox(rng *rand.Rand, boxHeight, variants int) bool {
	if g.spawnRowFull() {
		return false
	}

	// Retry until an empty column comes up; the spawn row is rarely crowded.
	x := rng.Intn(g.width)
	for g.Occupied(x, 0) {
		x = rng.Intn(g.width)
	}

	g.Set(x, 0, NewBox(rng.Intn(variants), boxHeight))
	return true
}

func (g *Grid) spawnRowFull() bool {
	for x := 0; x < g.width; x++ {
		if !g.Occupied(x, 0) {
			return false
		}
	}
	return true
}

// DropPass advances gravity by one step.
//
// Rows are walked from the floor up so that a box which moves down during
// this pass leaves a hole the box above it can only use on the next pass.
func (g *Grid) DropPass(boxHeight int) {
	for y := g.Last(); y > 0; y-- {
		for x := 0; x < g.width; x++ {
			current := g.cell(x, y)
			upper := g.cell(x, y-1)

			if y == g.Last() {
				current.settle()
			}
			upper.settle()

			if !current.Exists() && upper.Exists() && upper.Landed() {
				*upper = upper.WithOffset(boxHeight)
				g.swap(x, y, x, y-1)
			}
		}
	}
}

// ClearRows removes the floor row while it is full and every box in it has
// landed. Boxes above only come down through DropPass, so the loop usually
// runs once; it is bounded by the grid height regardless.
// Returns the number of rows removed.
func (g *Grid) ClearRows() int {
	cleared := 0
	for cleared < g.height && g.floorRowComplete() {
		floor := g.Last() * g.width
		clear(g.cells[floor : floor+g.width])
		cleared++
	}
	return cleared
}

func (g *Grid) floorRowComplete() bool {
	for x := 0; x < g.width; x++ {
		b := g.At(x, g.Last())
		if !b.Exists() || !b.Landed() {
			return false
		}
	}
	return true
}
