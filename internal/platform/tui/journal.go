package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/heapdefence/internal/storage"
)

// maxJournalRows is how many sessions the browser loads.
const maxJournalRows = 200

// JournalKeyMap defines the key bindings for the journal browser.
type JournalKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to show in the mini help view.
func (k JournalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Reload, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k JournalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultJournalKeyMap returns the default journal bindings.
func DefaultJournalKeyMap() JournalKeyMap {
	return JournalKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// JournalModel browses the session journal in a table.
type JournalModel struct {
	store    *storage.Store
	records  []storage.SessionRecord
	totals   storage.Totals
	loadErr  error
	table    table.Model
	help     help.Model
	keys     JournalKeyMap
	width    int
	height   int
	now      func() time.Time
	quitting bool
}

// NewJournalModel creates a journal browser over store.
func NewJournalModel(store *storage.Store, width, height int) JournalModel {
	m := JournalModel{
		store:  store,
		help:   help.New(),
		keys:   DefaultJournalKeyMap(),
		width:  width,
		height: height,
		now:    time.Now,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates the table sized to the window.
func (m *JournalModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Started", Width: 16},
		{Title: "Player", Width: 12},
		{Title: "Mode", Width: 6},
		{Title: "Played", Width: 10},
		{Title: "Rows", Width: 6},
		{Title: "Crushes", Width: 8},
		{Title: "End", Width: 11},
	}

	height := m.height - 8 // Title, totals, help and borders
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads the journal and refreshes the table rows.
func (m *JournalModel) load() {
	m.records, m.loadErr = nil, nil
	if m.store == nil {
		m.updateRows()
		return
	}

	m.records, m.loadErr = m.store.RecentSessions(maxJournalRows)
	if m.loadErr == nil {
		m.totals, m.loadErr = m.store.Totals()
	}
	m.updateRows()
}

func (m *JournalModel) updateRows() {
	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		rows[i] = table.Row{
			humanize.RelTime(r.StartedAt, m.now(), "ago", "from now"),
			r.Player,
			r.Mode,
			r.Duration.Round(time.Second).String(),
			humanize.Comma(r.RowsCleared),
			humanize.Comma(r.Crushes),
			r.EndReason,
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the journal model.
func (m JournalModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the journal browser.
func (m JournalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the journal.
func (m JournalModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(centerText(titleStyle.Render("HEAP DEFENCE SESSIONS"), m.width))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	switch {
	case m.loadErr != nil:
		b.WriteString(warningStyle.Render("Cannot read journal: " + m.loadErr.Error()))
	case len(m.records) == 0:
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(boxStyle.Render(emptyStyle.Render("No sessions recorded yet.")))
	default:
		b.WriteString(boxStyle.Render(m.table.View()))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("%s sessions, %s played, %s rows cleared",
			humanize.Comma(m.totals.Sessions),
			m.totals.Played.Round(time.Second),
			humanize.Comma(m.totals.RowsCleared),
		)))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunJournal runs the journal browser until the user quits.
func RunJournal(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewJournalModel(store, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
