package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/campusreels/crfind/internal/config"
	"github.com/campusreels/crfind/internal/index"
	"github.com/campusreels/crfind/internal/logger"
	"github.com/campusreels/crfind/internal/store"
)

var deepLimit int

var deepCmd = &cobra.Command{
	Use:   "deep <query...>",
	Short: "Full-text search over post and pointer bodies",
	Long: `Search the full bodies of posts and pointers, not just the excerpts the
regular finder sees. Tolerates small typos and matches word prefixes.

Examples:
  crfind deep "edge cases"
  crfind deep integraton        # typo still finds integration
  crfind deep liate --limit 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDeep,
}

func init() {
	deepCmd.Flags().IntVarP(&deepLimit, "limit", "n", 0, "maximum number of results (defaults to search.max_results)")
	rootCmd.AddCommand(deepCmd)
}

func runDeep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	indexPath := filepath.Join(cfg.Data.Dir, "deep.bleve")
	if !index.Exists(indexPath) {
		return fmt.Errorf("deep index not found, run 'crfind seed' first")
	}

	di, recreated, err := index.NewDeepIndexWithAutoRecreate(indexPath)
	if err != nil {
		return fmt.Errorf("failed to open deep index: %w", err)
	}
	defer func() {
		if err := di.Close(); err != nil {
			logger.Debug("Failed to close deep index: %v", err)
		}
	}()

	// A format bump empties the index; refill it from the library
	if recreated {
		logger.Warn("Deep index format changed, rebuilding...")
		st := store.New(cfg.Data.Dir)
		lib, err := st.ReadLibrary()
		if err != nil {
			return err
		}
		docs := index.DocumentsFor(lib.Posts(), lib.Pointers())
		if err := di.AddBatch(docs); err != nil {
			return fmt.Errorf("failed to rebuild deep index: %w", err)
		}
		logger.Success("Deep index rebuilt: %d documents", len(docs))
	}

	limit := deepLimit
	if limit <= 0 {
		limit = cfg.Search.MaxResults
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	matches, err := di.Search(query, limit)
	if err != nil {
		return fmt.Errorf("deep search failed: %w", err)
	}

	if len(matches) == 0 {
		printMuted("No matches for: " + query)
		return nil
	}

	for _, match := range matches {
		printDeepMatch(match, showScores)
	}

	return nil
}
