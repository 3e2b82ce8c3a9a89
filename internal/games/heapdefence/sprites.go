package heapdefence

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vovakirdan/heapdefence/internal/core"
)

// Terminal cells per grid cell. The person sprite is one cell wide and two tall.
const (
	CellW = 4
	CellH = 2
)

// Sprites holds every icon and animation the renderer draws.
// Animations are started once and keep running for the life of the display.
type Sprites struct {
	Boxes     []*core.Icon
	Stand     *core.Icon
	WalkLeft  *core.Animation
	WalkRight *core.Animation
	Pause     *core.Animation
	GameOver  *core.Animation
	Frame     *core.Icon
}

// NewSprites builds the sprite set for a grid of the given size.
func NewSprites(gridW, gridH int, frameInterval time.Duration) *Sprites {
	return &Sprites{
		Boxes: []*core.Icon{
			core.NewIcon(core.ColorOrange, "[##]", "[##]"),
			core.NewIcon(core.ColorYellow, "╔══╗", "╚══╝"),
			core.NewIcon(core.ColorCyan, "▛▀▀▜", "▙▄▄▟"),
			core.NewIcon(core.ColorGreen, "┏━━┓", "┗━━┛"),
			core.NewIcon(core.ColorMagenta, "/##\\", "\\##/"),
		},
		Stand: core.NewIcon(core.ColorWhite, " () ", "/||\\", " || ", " /\\ "),
		WalkLeft: core.NewAnimation(frameInterval/2,
			core.NewIcon(core.ColorWhite, " () ", "/|| ", " || ", " |\\ "),
			core.NewIcon(core.ColorWhite, " () ", " ||\\", " || ", " /| "),
		),
		WalkRight: core.NewAnimation(frameInterval/2,
			core.NewIcon(core.ColorWhite, " () ", " ||\\", " || ", " /| "),
			core.NewIcon(core.ColorWhite, " () ", "/|| ", " || ", " |\\ "),
		),
		Pause: core.NewAnimation(frameInterval,
			centered(core.ColorYellow,
				"H E A P   D E F E N C E",
				"",
				"P A U S E D",
				"",
				"OK resume    BACK quit",
			),
			centered(core.ColorYellow,
				"H E A P   D E F E N C E",
				"",
				"",
				"",
				"OK resume    BACK quit",
			),
		),
		GameOver: core.NewAnimation(frameInterval,
			centered(core.ColorRed,
				"G A M E   O V E R",
				"",
				"crushed by the heap",
				"",
				"OK restart   BACK quit",
			),
			centered(core.ColorOrange,
				"G A M E   O V E R",
				"",
				"",
				"",
				"OK restart   BACK quit",
			),
		),
		Frame: frameIcon(gridW*CellW+2, gridH*CellH+2),
	}
}

// frameIcon draws the field border in the pen color; the inside is transparent.
func frameIcon(w, h int) *core.Icon {
	rows := make([]string, h)
	inner := w - 2
	rows[0] = "┌" + strings.Repeat("─", inner) + "┐"
	for y := 1; y < h-1; y++ {
		rows[y] = "│" + strings.Repeat(" ", inner) + "│"
	}
	rows[h-1] = "└" + strings.Repeat("▀", inner) + "┘"
	return core.NewIcon(core.ColorDefault, rows...)
}

// centered pads every row so the text lines up around a common center.
func centered(color core.Color, rows ...string) *core.Icon {
	w := 0
	for _, r := range rows {
		w = max(w, utf8.RuneCountInString(r))
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = strings.Repeat(" ", (w-utf8.RuneCountInString(r))/2) + r
	}
	return core.NewIcon(color, out...)
}
