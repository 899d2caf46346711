package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campusreels/crfind/internal/config"
	"github.com/campusreels/crfind/internal/search"
	"github.com/campusreels/crfind/internal/store"
)

var suggestLimit int

var suggestCmd = &cobra.Command{
	Use:   "suggest <partial-query>",
	Short: "Print autocomplete suggestions for a partial query",
	Long: `Propose completions for a partial query from tags, course IDs and
author names across the library, one per line.

Examples:
  crfind suggest alg
  crfind suggest cse
  crfind suggest alex --limit 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 0, "maximum number of suggestions (defaults to search.suggest_limit)")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	st := store.New(cfg.Data.Dir)
	lib, err := st.ReadLibrary()
	if err != nil {
		return err
	}

	limit := suggestLimit
	if limit <= 0 {
		limit = cfg.Search.SuggestLimit
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	suggestions := search.New(lib).Suggestions(query, limit)

	if len(suggestions) == 0 {
		printMuted("No suggestions for: " + query)
		return nil
	}

	for _, s := range suggestions {
		fmt.Println(s)
	}

	return nil
}
