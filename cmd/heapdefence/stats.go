package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/heapdefence/internal/platform/tui"
	"github.com/vovakirdan/heapdefence/internal/storage"
)

var (
	flagStatsLimit int
	flagBrowse     bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the session journal",
	Long: `List the most recent sessions and the journal totals.

Examples:
  heapdefence stats
  heapdefence stats --limit 25
  heapdefence stats --browse     # Interactive table`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagStatsLimit, "limit", 10, "Number of sessions to list")
	statsCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Browse the journal interactively")
}

func runStats(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagBrowse {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunJournal(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sessions, err := store.RecentSessions(flagStatsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Heap Defence - Session Journal")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'heapdefence play' to start one!")
		return
	}

	fmt.Printf("  %-14s  %-12s  %-5s  %-10s  %6s  %7s  %s\n",
		"Started", "Player", "Mode", "Played", "Rows", "Crushes", "End")
	fmt.Printf("  %-14s  %-12s  %-5s  %-10s  %6s  %7s  %s\n",
		"-------", "------", "----", "------", "----", "-------", "---")
	for _, s := range sessions {
		fmt.Printf("  %-14s  %-12s  %-5s  %-10s  %6s  %7s  %s\n",
			humanize.Time(s.StartedAt),
			s.Player,
			s.Mode,
			s.Duration.Round(time.Second).String(),
			humanize.Comma(s.RowsCleared),
			humanize.Comma(s.Crushes),
			s.EndReason,
		)
	}

	totals, err := store.Totals()
	if err == nil {
		fmt.Println()
		fmt.Printf("Total: %s sessions, %s played, %s ticks, %s rows cleared, %s crushes\n",
			humanize.Comma(totals.Sessions),
			totals.Played.Round(time.Second),
			humanize.Comma(totals.Ticks),
			humanize.Comma(totals.RowsCleared),
			humanize.Comma(totals.Crushes),
		)
	}
}
