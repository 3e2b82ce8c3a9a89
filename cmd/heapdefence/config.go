package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/heapdefence/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration a game would start with, after the search
path, --config and --fps have been applied. The output is valid YAML
and can be saved as a starting point for a custom config.

Search path:
  1. --config <path>
  2. ~/.arcade/configs/heapdefence.yaml
  3. ./configs/heapdefence.yaml
  4. Built-in defaults

Examples:
  heapdefence config
  heapdefence config --fps 12 > my-heapdefence.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func runConfig(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.Write(os.Stdout, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
