// Package heapdefence implements the Heap Defence simulation: boxes fall
// into a fixed grid one row at a time, full floor rows vanish, and a small
// character walks, pushes boxes and jumps to avoid being crushed.
package heapdefence

// Box is one grid cell packed into a byte:
//
//	bit 7     exists
//	bits 4-6  sprite variant
//	bits 0-3  fall offset (pixels still to fall before the box has landed)
//
// The zero Box is an empty cell.
type Box uint8

const (
	boxOffsetMask  Box = 0x0f
	boxVariantMask Box = 0x70
	boxExistsBit   Box = 0x80

	boxVariantShift = 4
)

// NewBox returns an existing box with the given variant and fall offset.
func NewBox(variant, offset int) Box {
	return boxExistsBit |
		Box(variant<<boxVariantShift)&boxVariantMask |
		Box(offset)&boxOffsetMask
}

// Exists reports whether the cell holds a box.
func (b Box) Exists() bool {
	return b&boxExistsBit != 0
}

// Variant returns the sprite variant of the box.
func (b Box) Variant() int {
	return int(b&boxVariantMask) >> boxVariantShift
}

// Offset returns how far the box still has to fall into its cell.
func (b Box) Offset() int {
	return int(b & boxOffsetMask)
}

// Landed reports whether the box has finished falling into its cell.
func (b Box) Landed() bool {
	return b.Offset() == 0
}

// WithOffset returns the box with its fall offset replaced.
func (b Box) WithOffset(offset int) Box {
	return b&^boxOffsetMask | Box(offset)&boxOffsetMask
}

// settle moves the box one pixel closer to landing.
func (b *Box) settle() {
	if b.Offset() > 0 {
		*b--
	}
}

// Grid is the fixed playing field. Row 0 is the spawn row, row Last() is the floor.
type Grid struct {
	width  int
	height int
	cells  []Box
}

// NewGrid allocates an empty width x height grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Box, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// Last returns the index of the floor row.
func (g *Grid) Last() int {
	return g.height - 1
}

// InBounds reports whether (x, y) is a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the cell at (x, y). Out-of-bounds reads return an empty cell.
func (g *Grid) At(x, y int) Box {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.cells[y*g.width+x]
}

// Set stores a cell. Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, b Box) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = b
}

// Clear empties the cell at (x, y).
func (g *Grid) Clear(x, y int) {
	g.Set(x, y, 0)
}

// Occupied reports whether a box sits at (x, y).
func (g *Grid) Occupied(x, y int) bool {
	return g.At(x, y).Exists()
}

func (g *Grid) cell(x, y int) *Box {
	return &g.cells[y*g.width+x]
}

func (g *Grid) swap(x1, y1, x2, y2 int) {
	a, b := g.cell(x1, y1), g.cell(x2, y2)
	*a, *b = *b, *a
}

// Reset empties every cell.
func (g *Grid) Reset() {
	clear(g.cells)
}

// Count returns the number of boxes on the grid.
func (g *Grid) Count() int {
	n := 0
	for _, b := range g.cells {
		if b.Exists() {
			n++
		}
	}
	return n
}

// CopyCells copies the cells row-major into dst, growing it if needed.
func (g *Grid) CopyCells(dst []Box) []Box {
	if cap(dst) < len(g.cells) {
		dst = make([]Box, len(g.cells))
	}
	dst = dst[:len(g.cells)]
	copy(dst, g.cells)
	return dst
}
