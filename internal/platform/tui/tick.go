// Package tui is the terminal front end: it turns key messages into game
// key presses, repaints whenever the engine processes an event and serves
// the same experience over SSH via Wish.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// animTickMsg repaints the overlay animations, which advance with the
// clock even while the world is frozen.
type animTickMsg time.Time

// redrawMsg is sent after the engine has processed an event.
type redrawMsg struct{}

// engineDoneMsg is sent once the engine has shut down.
type engineDoneMsg struct{}

// animTickCmd returns a command that sends an animTickMsg after interval.
func animTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// waitRedraw blocks on the engine's redraw channel.
func waitRedraw(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return engineDoneMsg{}
		}
		return redrawMsg{}
	}
}
