package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/campusreels/crfind/internal/config"
	"github.com/campusreels/crfind/internal/logger"
	"github.com/campusreels/crfind/internal/search"
	"github.com/campusreels/crfind/internal/store"
	"github.com/campusreels/crfind/internal/tui"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"     // Version from git tag or "dev"
	commit    = "unknown" // Git commit hash (used in version output)
	buildTime = "unknown" // Build timestamp (used in version output)
)

var (
	verbose    bool // Flag to enable verbose logging
	showScores bool // Flag to show score breakdown (relevance + history)
)

var rootCmd = &cobra.Command{
	Use:   "crfind [flags] [query...]",
	Short: "CampusReels Finder - fast search across your local content library",
	Long: `crfind is a CLI tool that provides instant search across your CampusReels
content library: reels, posts, pointers, people and courses.
Everything runs against a local library, no network access required.

Getting Started:
  1. Run: crfind seed (to create a sample library)
  2. Run: crfind (interactive mode) or crfind <query> (search and pick)

Examples:
  crfind                    # Interactive finder
  crfind quicksort          # Interactive finder pre-filtered to "quicksort"
  crfind find calculus      # Direct search, results printed to stdout
  crfind find tips --kind pointer --course CSE310
  crfind suggest alg        # Autocomplete suggestions
  crfind trending           # Most used tags
  crfind deep "edge cases"  # Full-body search over posts and pointers

Configuration:
  Settings live in ~/.config/crfind/config.yaml or environment:
    CRFIND_DATA_DIR=/path/to/library`,
	RunE: runFinder,
	// Accept any number of arguments as search query
	Args: cobra.ArbitraryArgs,
	// Don't suggest commands when args don't match subcommands
	SuggestionsMinimumDistance: 2,
}

// runFinder handles the default interactive behavior
func runFinder(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	st := store.New(cfg.Data.Dir)
	lib, err := st.ReadLibrary()
	if err != nil {
		return err
	}

	// Join all args to support multi-word queries: "crfind big o"
	query := strings.TrimSpace(strings.Join(args, " "))

	return runInteractive(lib, query, cfg)
}

// runInteractive launches the interactive TUI with optional initial query
func runInteractive(lib *store.Library, initialQuery string, cfg *config.Config) error {
	if lib.Size() == 0 {
		fmt.Println("Library is empty. Run 'crfind seed' to create sample content.")
		return nil
	}

	engine := search.New(lib)
	st := store.New(cfg.Data.Dir)

	// Reload callback: re-read the library from disk so edits made while
	// the finder is open become visible on ctrl+r
	reload := func() tea.Cmd {
		return func() tea.Msg {
			fresh, err := st.ReadLibrary()
			if err != nil {
				return tui.ReloadCompleteMsg{Err: err}
			}
			return tui.ReloadCompleteMsg{Repo: fresh}
		}
	}

	m := tui.New(engine, initialQuery, reload, cfg.Data.Dir, cfg, showScores, version)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	// Check if user picked an entry
	if model, ok := finalModel.(tui.Model); ok {
		if key := model.Selected(); key != "" {
			printPicked(st, key)
		}
	}

	return nil
}

// printPicked prints the picked entry to stdout (for copying or script usage)
// The library is re-read so a mid-session reload is reflected
func printPicked(st *store.Store, key string) {
	lib, err := st.ReadLibrary()
	if err != nil {
		logger.Debug("Failed to re-read library: %v", err)
		fmt.Println(key)
		return
	}

	for _, entry := range search.New(lib).Entries() {
		if entry.Key() == key {
			printEntry(entry, false)
			return
		}
	}

	// Entry vanished between pick and print
	fmt.Println(key)
}

func init() {
	// Set version info
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)

	// Add flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&showScores, "scores", false, "show score breakdown (relevance + history)")

	// Set up verbose mode before command execution
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
		logger.Debug("Verbose mode enabled")
	}
}

func main() {
	// Enable interspersed flags (flags can appear anywhere in the command line)
	rootCmd.Flags().SetInterspersed(true)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
