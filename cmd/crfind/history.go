package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/campusreels/crfind/internal/config"
	"github.com/campusreels/crfind/internal/history"
	"github.com/campusreels/crfind/internal/logger"
)

var historyClear bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show pick history statistics",
	Long: `Show how many picks the interactive finder has recorded. Picked entries
rank higher in future sessions, with a boost that decays over time.

Examples:
  crfind history
  crfind history --clear`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "erase all recorded picks")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	hist := history.New(filepath.Join(cfg.Data.Dir, "history.gob"))
	if err := <-hist.LoadAsync(); err != nil {
		logger.Debug("Failed to load history: %v", err)
	}

	if historyClear {
		hist.Clear()
		if err := hist.Save(); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		printSuccess("History cleared")
		return nil
	}

	totalPicks, uniqueEntries := hist.Stats()
	fmt.Printf("Total picks:    %d\n", totalPicks)
	fmt.Printf("Unique entries: %d\n", uniqueEntries)

	return nil
}
