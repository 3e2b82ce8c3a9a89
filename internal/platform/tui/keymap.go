package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/heapdefence/internal/core"
)

// KeyMap binds terminal keys to the six game keys.
// It centralizes key bindings, feeds the help footer and is testable.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Ok    key.Binding
	Back  key.Binding
}

// DefaultKeyMap returns the default bindings. Ctrl+C is a Back press so an
// interrupt leaves through the normal exit path.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w", "jump"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s", "pause"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		Ok: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "resume"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "q", "ctrl+c"),
			key.WithHelp("esc/q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to show in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Ok, k.Back}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up},
		{k.Down, k.Ok, k.Back},
	}
}

// MapKey translates a key message to a game key press.
// ok is false for keys that are not bound.
func (k KeyMap) MapKey(msg tea.KeyMsg) (in core.InputEvent, ok bool) {
	switch {
	case key.Matches(msg, k.Up):
		return core.Press(core.KeyUp), true
	case key.Matches(msg, k.Down):
		return core.Press(core.KeyDown), true
	case key.Matches(msg, k.Left):
		return core.Press(core.KeyLeft), true
	case key.Matches(msg, k.Right):
		return core.Press(core.KeyRight), true
	case key.Matches(msg, k.Ok):
		return core.Press(core.KeyOk), true
	case key.Matches(msg, k.Back):
		return core.Press(core.KeyBack), true
	}
	return core.InputEvent{}, false
}
