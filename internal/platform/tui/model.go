package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/heapdefence/internal/core"
	"github.com/vovakirdan/heapdefence/internal/engine"
	"github.com/vovakirdan/heapdefence/internal/event"
	"github.com/vovakirdan/heapdefence/internal/games/heapdefence"
)

var (
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
)

// Model is the Bubble Tea model for one running game. It never touches the
// world directly: keys go through the engine's queue and frames come from
// snapshots taken under a bounded wait.
type Model struct {
	engine  *engine.Engine
	sprites *heapdefence.Sprites
	screen  *core.Screen
	snap    *heapdefence.Snapshot
	frame   string // Last successfully rendered frame

	keys KeyMap
	help help.Model

	renderTimeout time.Duration
	animInterval  time.Duration

	width    int
	height   int
	quitting bool
}

// NewModel creates a model drawing the given engine's world.
func NewModel(eng *engine.Engine, gridW, gridH int, renderTimeout, animInterval time.Duration) Model {
	sw, sh := heapdefence.ScreenSize(gridW, gridH)
	h := help.New()
	h.ShowAll = false

	m := Model{
		engine:        eng,
		sprites:       heapdefence.NewSprites(gridW, gridH, animInterval),
		screen:        core.NewScreen(sw, sh),
		snap:          &heapdefence.Snapshot{},
		keys:          DefaultKeyMap(),
		help:          h,
		renderTimeout: renderTimeout,
		animInterval:  animInterval,
	}
	m.refresh()
	return m
}

// Init starts listening for redraws and the animation clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitRedraw(m.engine.Redraw()),
		animTickCmd(m.animInterval),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case redrawMsg:
		m.refresh()
		return m, waitRedraw(m.engine.Redraw())

	case animTickMsg:
		if m.quitting {
			return m, nil
		}
		m.refresh()
		return m, animTickCmd(m.animInterval)

	case engineDoneMsg:
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleKey forwards bound keys to the engine. The push waits for queue
// space, so key presses are never lost.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	in, ok := m.keys.MapKey(msg)
	if !ok {
		return m, nil
	}

	if err := m.engine.Input(context.Background(), in); errors.Is(err, event.ErrClosed) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// refresh renders a new frame if the world can be read in time.
// Otherwise the previous frame stays on screen.
func (m *Model) refresh() {
	if !m.engine.Snapshot(m.renderTimeout, m.snap) {
		return
	}
	heapdefence.Render(m.screen, m.snap, m.sprites)
	m.frame = RenderScreen(m.screen)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sw, sh := m.screen.Width(), m.screen.Height()
	if m.width > 0 && (m.width < sw || m.height < sh+1) {
		return warningStyle.Render(fmt.Sprintf(
			"Terminal too small: need %dx%d, have %dx%d", sw, sh+1, m.width, m.height))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		m.frame,
		helpStyle.Render(m.help.View(m.keys)),
	)
	if m.width == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// IsQuitting returns true once the engine has shut down.
func (m Model) IsQuitting() bool {
	return m.quitting
}
