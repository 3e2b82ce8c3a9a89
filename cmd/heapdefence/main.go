// heapdefence is a terminal rendition of Heap Defence: dodge the falling
// boxes, push them into place and clear full rows.
//
// Usage:
//
//	heapdefence play     - Play in this terminal
//	heapdefence serve    - Start SSH server for remote play
//	heapdefence stats    - Show the session journal
//	heapdefence config   - Print the effective configuration
//
// Global flags:
//
//	--fps <rate>     - Override the timer frequency (default: from config)
//	--seed <value>   - Set RNG seed for reproducible gameplay
//	--db <path>      - Set journal path (default: ~/.arcade/heapdefence.db)
//	--config <path>  - Load configuration from a YAML file
//	--log <path>     - Write logs to a file
//	--debug          - Log status transitions
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/heapdefence/internal/config"
	"github.com/vovakirdan/heapdefence/internal/core"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLogPath string
	flagDebug   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "heapdefence",
	Short: "Heap Defence - Dodge and stack falling boxes in your terminal",
	Long: `Heap Defence drops boxes onto a small field. Walk under them, push
them aside, jump onto them and fill whole rows to clear them. A box that
lands on you ends the game.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  stats    - Show the session journal
  config   - Print the effective configuration

Examples:
  heapdefence play
  heapdefence play --fps 12 --seed 42
  heapdefence serve --ssh :2222 --http :8080
  heapdefence stats --browse`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = timing.update_freq from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/heapdefence.db", "Path to session journal")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}

// runtimeConfig collects the process-level overrides from the global flags.
func runtimeConfig(width, height int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// loadConfig loads the game configuration and applies --fps.
func loadConfig() (config.HeapDefenceConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagFPS > 0 {
		cfg.Timing.UpdateFreq = flagFPS
	}
	return cfg, cfg.Validate()
}

// newLogger builds the process logger. When fallback is nil and --log is
// empty, logs are discarded. The returned closer must be called on exit.
func newLogger(fallback io.Writer, prefix string) (*log.Logger, func(), error) {
	out := fallback
	closer := func() {}
	if flagLogPath != "" {
		f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = func() { _ = f.Close() }
	}
	if out == nil {
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closer, nil
}
