package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/heapdefence/internal/platform/tui"
	"github.com/vovakirdan/heapdefence/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in the current terminal.

Controls:
  Left/Right (A/D, H/L)  - Walk, or push a box
  Up/W/K                 - Jump
  Enter/Space            - Pause and resume
  Esc/Q/Ctrl+C           - Quit

The game restarts on its own after you are crushed. Every finished
session is written to the journal (see 'heapdefence stats').

Examples:
  heapdefence play
  heapdefence play --seed 42
  heapdefence play --config ./my-heapdefence.yaml --log ./play.log --debug`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(nil, "heapdefence")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	player := os.Getenv("USER")
	if player == "" {
		player = "anonymous"
	}

	sess, err := tui.NewSession(tui.SessionOptions{
		Config:  cfg,
		Runtime: runtimeConfig(width, height),
		Player:  player,
		Mode:    storage.ModeLocal,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	sess.Start(ctx)

	p := tea.NewProgram(sess.Model(), tea.WithAltScreen())
	_, runErr := p.Run()

	// The engine may still be running if the program failed.
	sess.Stop()
	summary, engErr := sess.Wait()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
	if engErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", engErr)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open session journal", "error", err)
		return
	}
	defer store.Close()

	if _, err := store.SaveSession(sess.Record(summary, tui.EndQuit)); err != nil {
		logger.Warn("could not save session", "error", err)
		return
	}
	fmt.Printf("Played %s, cleared %d rows, crushed %d times.\n",
		summary.Duration.Round(time.Second), summary.RowsCleared, summary.Crushes)
}
