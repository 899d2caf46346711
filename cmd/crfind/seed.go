package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/campusreels/crfind/internal/config"
	"github.com/campusreels/crfind/internal/index"
	"github.com/campusreels/crfind/internal/logger"
	"github.com/campusreels/crfind/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a sample content library",
	Long: `Write a sample CampusReels library (reels, posts, pointers, people and
courses) into the data directory and build the deep index over it.
An existing library is replaced.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	st := store.New(cfg.Data.Dir)
	now := time.Now()
	lib := store.SeedLibrary(now)

	logger.Info("Writing sample library to %s...", st.LibraryPath())
	if err := st.WriteLibrary(lib); err != nil {
		logger.Error("Failed to write library")
		return err
	}
	logger.Success("Library written: %d reels, %d posts, %d pointers, %d users, %d courses",
		len(lib.Reels()), len(lib.Posts()), len(lib.Pointers()),
		len(lib.Users()), len(lib.Courses()))

	// Index post and pointer bodies for full-text search
	if err := buildDeepIndex(lib, cfg.Data.Dir); err != nil {
		logger.Warn("Deep indexing failed: %v", err)
		logger.Info("Body search ('crfind deep') will be unavailable. Run 'crfind seed' again to retry.")
		// Don't fail the entire seed if indexing fails
	}

	if err := st.SaveLastSeedTime(now); err != nil {
		logger.Warn("Failed to save seed timestamp: %v", err)
	} else {
		logger.Debug("Seed timestamp saved: %s", now.Format(time.RFC3339))
	}

	logger.Info("\nRun 'crfind' to search the library interactively")

	return nil
}

// buildDeepIndex rebuilds the deep index from scratch for the given library
// Seed replaces the library wholesale, so the index starts fresh too
func buildDeepIndex(lib *store.Library, dataDir string) error {
	logger.Info("Indexing post and pointer bodies...")
	start := time.Now()

	indexPath := filepath.Join(dataDir, "deep.bleve")
	if err := os.RemoveAll(indexPath); err != nil {
		return fmt.Errorf("failed to remove old deep index: %w", err)
	}

	di, err := index.NewDeepIndex(indexPath)
	if err != nil {
		return fmt.Errorf("failed to create deep index: %w", err)
	}
	defer func() {
		if err := di.Close(); err != nil {
			logger.Debug("Failed to close deep index: %v", err)
		}
	}()

	docs := index.DocumentsFor(lib.Posts(), lib.Pointers())

	// Index in batches of 100
	for i := 0; i < len(docs); i += 100 {
		end := i + 100
		if end > len(docs) {
			end = len(docs)
		}
		if err := di.AddBatch(docs[i:end]); err != nil {
			return fmt.Errorf("failed to index batch: %w", err)
		}
	}

	logger.Success("Indexed %d documents in %v", len(docs), time.Since(start))

	return nil
}
