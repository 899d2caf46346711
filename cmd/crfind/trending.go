package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusreels/crfind/internal/config"
	"github.com/campusreels/crfind/internal/search"
	"github.com/campusreels/crfind/internal/store"
)

var trendingLimit int

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Print the most used tags across the library",
	Long: `Rank tags by how many library items carry them and print the top of
the list, most used first.

Examples:
  crfind trending
  crfind trending --limit 3`,
	Args: cobra.NoArgs,
	RunE: runTrending,
}

func init() {
	trendingCmd.Flags().IntVarP(&trendingLimit, "limit", "n", 0, "maximum number of tags (defaults to search.trending_limit)")
	rootCmd.AddCommand(trendingCmd)
}

func runTrending(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	st := store.New(cfg.Data.Dir)
	lib, err := st.ReadLibrary()
	if err != nil {
		return err
	}

	limit := trendingLimit
	if limit <= 0 {
		limit = cfg.Search.TrendingLimit
	}

	tags := search.New(lib).TrendingTags(limit)
	if len(tags) == 0 {
		printMuted("No tags in the library yet.")
		return nil
	}

	for i, tag := range tags {
		fmt.Printf("%2d. %s\n", i+1, tag)
	}

	return nil
}
