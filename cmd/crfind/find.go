package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/campusreels/crfind/internal/config"
	"github.com/campusreels/crfind/internal/search"
	"github.com/campusreels/crfind/internal/store"
)

var (
	findKinds  []string
	findCourse string
	findTags   []string
	findSince  string
	findUntil  string
	findLimit  int
)

var findCmd = &cobra.Command{
	Use:   "find [query...]",
	Short: "Search the library and print ranked results",
	Long: `Search the content library and print matches to stdout, best first.
Supports multi-word queries; every whitespace-separated term scores
independently and an exact phrase match earns a bonus.

Examples:
  crfind find calculus
  crfind find binary search
  crfind find tips --kind pointer --course CSE310
  crfind find exam --since 2026-08-01
  crfind find notes --tag algorithms --tag complexity`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().StringSliceVar(&findKinds, "kind", nil, "restrict to content kinds (reel, post, pointer, user, course)")
	findCmd.Flags().StringVar(&findCourse, "course", "", "restrict to a course ID")
	findCmd.Flags().StringSliceVar(&findTags, "tag", nil, "restrict to entries carrying at least one of these tags")
	findCmd.Flags().StringVar(&findSince, "since", "", "only entries created on or after this date (YYYY-MM-DD)")
	findCmd.Flags().StringVar(&findUntil, "until", "", "only entries created on or before this date (YYYY-MM-DD)")
	findCmd.Flags().IntVarP(&findLimit, "limit", "n", 0, "maximum number of results (defaults to search.max_results)")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	st := store.New(cfg.Data.Dir)
	lib, err := st.ReadLibrary()
	if err != nil {
		return err
	}

	filters, err := parseFilters(findKinds, findCourse, findTags, findSince, findUntil)
	if err != nil {
		return err
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	results := search.New(lib).Search(query, filters)

	limit := findLimit
	if limit <= 0 {
		limit = cfg.Search.MaxResults
	}
	if len(results) > limit {
		results = results[:limit]
	}

	if len(results) == 0 {
		printMuted("No matches for: " + query)
		return nil
	}

	for _, entry := range results {
		printEntry(entry, showScores)
	}

	return nil
}

// parseFilters converts the flag values into engine filters
// Empty values impose no restriction
func parseFilters(kinds []string, course string, tags []string, since, until string) (*search.Filters, error) {
	if len(kinds) == 0 && course == "" && len(tags) == 0 && since == "" && until == "" {
		return nil, nil
	}

	filters := &search.Filters{
		CourseID: course,
		Tags:     tags,
	}

	for _, name := range kinds {
		kind, err := search.ParseKind(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return nil, err
		}
		filters.Kinds = append(filters.Kinds, kind)
	}

	if since != "" || until != "" {
		dr := &search.DateRange{End: math.MaxInt64}
		if since != "" {
			start, err := parseDay(since)
			if err != nil {
				return nil, fmt.Errorf("invalid --since date: %w", err)
			}
			dr.Start = start
		}
		if until != "" {
			end, err := parseDay(until)
			if err != nil {
				return nil, fmt.Errorf("invalid --until date: %w", err)
			}
			// Inclusive of the whole day
			dr.End = end + 24*int64(time.Hour/time.Millisecond) - 1
		}
		filters.DateRange = dr
	}

	return filters, nil
}

// parseDay parses a YYYY-MM-DD date into milliseconds since epoch (UTC midnight)
func parseDay(s string) (int64, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}
