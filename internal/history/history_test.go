package history

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestHistory_RecordAndGetScore(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	// Initially, score should be 0
	if score := h.GetScore("reel/reel1"); score != 0 {
		t.Errorf("Expected score 0 for new entry, got %d", score)
	}

	h.RecordPick("reel/reel1")

	// Score should now be ~10 (1 pick * 10) with minimal decay (truncated to int)
	score := h.GetScore("reel/reel1")
	if score < 9 {
		t.Errorf("Expected score >= 9, got %d", score)
	}

	// Multiple picks increase score
	h.RecordPick("reel/reel1")
	h.RecordPick("reel/reel1")

	newScore := h.GetScore("reel/reel1")
	if newScore <= score {
		t.Errorf("Expected score to increase after more picks")
	}
}

func TestHistory_SaveAndLoad(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.gob")

	h1 := New(historyPath)
	h1.RecordPick("reel/reel1")
	h1.RecordPick("post/post1")
	h1.RecordPick("reel/reel1")

	if err := h1.Save(); err != nil {
		t.Fatalf("Failed to save history: %v", err)
	}

	h2 := New(historyPath)
	errCh := h2.LoadAsync()
	if err := <-errCh; err != nil {
		t.Fatalf("Failed to load history: %v", err)
	}

	// 2 picks ~19, 1 pick ~9 after decay truncation
	if score := h2.GetScore("reel/reel1"); score < 19 {
		t.Errorf("Expected score >= 19 for reel/reel1, got %d", score)
	}
	if score := h2.GetScore("post/post1"); score < 9 {
		t.Errorf("Expected score >= 9 for post/post1, got %d", score)
	}
}

func TestHistory_LoadAsync_NonExistent(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "nonexistent.gob"))

	errCh := h.LoadAsync()
	if err := <-errCh; err != nil {
		t.Errorf("Loading non-existent file should not return error, got: %v", err)
	}
}

func TestHistory_GetAllScores(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	h.RecordPick("reel/reel1")
	h.RecordPick("post/post1")
	h.RecordPick("reel/reel1")

	scores := h.GetAllScores()

	if len(scores) != 2 {
		t.Errorf("Expected 2 scores, got %d", len(scores))
	}

	if scores["reel/reel1"] <= scores["post/post1"] {
		t.Error("reel/reel1 should have higher score than post/post1")
	}
}

func TestHistory_Stats(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	h.RecordPick("reel/reel1")
	h.RecordPick("post/post1")
	h.RecordPick("reel/reel1")

	total, unique := h.Stats()

	if total != 3 {
		t.Errorf("Expected 3 total picks, got %d", total)
	}
	if unique != 2 {
		t.Errorf("Expected 2 unique entries, got %d", unique)
	}
}

func TestHistory_RecencyDecay(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	// Backdate one entry 30 days
	h.mu.Lock()
	h.picks["reel/stale"] = PickInfo{
		Count:    1,
		LastUsed: time.Now().Add(-30 * 24 * time.Hour),
	}
	h.dirty = true
	h.mu.Unlock()

	h.RecordPick("reel/fresh")

	oldScore := h.GetScore("reel/stale")
	newScore := h.GetScore("reel/fresh")

	// Both have 1 pick, but the fresh one decayed less
	if newScore <= oldScore {
		t.Errorf("Recent entry should have higher score. Old: %d, New: %d", oldScore, newScore)
	}
}

func TestHistory_Clear(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	h.RecordPick("reel/reel1")
	h.RecordPick("post/post1")

	h.Clear()

	if score := h.GetScore("reel/reel1"); score != 0 {
		t.Errorf("Expected score 0 after clear, got %d", score)
	}

	total, unique := h.Stats()
	if total != 0 || unique != 0 {
		t.Errorf("Expected empty stats after clear, got total=%d, unique=%d", total, unique)
	}
}

func TestHistory_ConcurrentAccess(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	done := make(chan bool)

	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				h.RecordPick("reel/reel1")
				_ = h.GetScore("reel/reel1")
				_ = h.GetAllScores()
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	total, _ := h.Stats()
	if total != 1000 {
		t.Errorf("Expected 1000 picks, got %d", total)
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name     string
		query1   string
		query2   string
		samehash bool
	}{
		{
			name:     "same query lowercase",
			query1:   "calculus",
			query2:   "Calculus",
			samehash: true,
		},
		{
			name:     "whitespace trimming",
			query1:   "  calculus  ",
			query2:   "calculus",
			samehash: true,
		},
		{
			name:     "multiple spaces collapsed",
			query1:   "binary    search",
			query2:   "binary search",
			samehash: true,
		},
		{
			name:     "different queries",
			query1:   "calculus",
			query2:   "physics",
			samehash: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash1 := normalizeQuery(tt.query1)
			hash2 := normalizeQuery(tt.query2)

			if tt.samehash && hash1 != hash2 {
				t.Errorf("Expected same hash for %q and %q", tt.query1, tt.query2)
			}
			if !tt.samehash && hash1 == hash2 {
				t.Errorf("Expected different hash for %q and %q", tt.query1, tt.query2)
			}
		})
	}
}

func TestHistory_RecordPickWithQuery(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	h.RecordPickWithQuery("calculus", "pointer/pointer6")
	h.RecordPickWithQuery("calculus", "pointer/pointer6")
	h.RecordPickWithQuery("physics", "post/post2")

	// Global history updated too
	if score := h.GetScore("pointer/pointer6"); score < 19 {
		t.Errorf("Expected global score >= 19, got %d", score)
	}

	h.mu.RLock()
	queryHash := normalizeQuery("calculus")
	if h.queryPicks[queryHash] == nil {
		t.Error("Expected query-scoped history for 'calculus'")
	}
	if info, exists := h.queryPicks[queryHash]["pointer/pointer6"]; !exists {
		t.Error("Expected query-scoped entry for pointer/pointer6")
	} else if info.Count != 2 {
		t.Errorf("Expected query-scoped count 2, got %d", info.Count)
	}
	h.mu.RUnlock()
}

func TestHistory_GetScoreForQuery(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	h.RecordPick("reel/reel1")
	h.RecordPickWithQuery("quicksort", "reel/reel1")
	h.RecordPickWithQuery("quicksort", "reel/reel1")

	globalScore := h.GetScore("reel/reel1")
	queryScore := h.GetScoreForQuery("quicksort", "reel/reel1")

	// Query score should be significantly higher (3x boost)
	if queryScore <= globalScore {
		t.Errorf("Query score (%d) should be higher than global score (%d)", queryScore, globalScore)
	}

	otherQueryScore := h.GetScoreForQuery("calculus", "reel/reel1")
	if otherQueryScore >= queryScore {
		t.Errorf("Other query score should be lower than matching query score")
	}
}

func TestHistory_GetAllScoresForQuery(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	h.RecordPick("reel/reel1")
	h.RecordPickWithQuery("calculus", "pointer/pointer2")
	h.RecordPickWithQuery("calculus", "pointer/pointer2")
	h.RecordPick("post/post1")

	scores := h.GetAllScoresForQuery("calculus")

	if len(scores) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(scores))
	}

	if scores["pointer/pointer2"] <= scores["reel/reel1"] {
		t.Error("pointer/pointer2 should have higher score due to query boost")
	}
	if scores["pointer/pointer2"] <= scores["post/post1"] {
		t.Error("pointer/pointer2 should have higher score due to query boost")
	}
}

func TestHistory_QueryBoostWithEmptyQuery(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	h.RecordPick("reel/reel1")

	score := h.GetScoreForQuery("", "reel/reel1")
	if score < 9 {
		t.Errorf("Expected score >= 9 even with empty query, got %d", score)
	}

	scores := h.GetAllScoresForQuery("")
	if len(scores) != 1 {
		t.Errorf("Expected 1 entry with empty query, got %d", len(scores))
	}
}

func TestHistory_SaveAndLoadWithQuery(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.gob")

	h1 := New(historyPath)
	h1.RecordPickWithQuery("calculus", "pointer/pointer6")
	h1.RecordPickWithQuery("calculus", "pointer/pointer6")
	h1.RecordPick("post/post1")

	if err := h1.Save(); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	h2 := New(historyPath)
	errCh := h2.LoadAsync()
	if err := <-errCh; err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	queryScore := h2.GetScoreForQuery("calculus", "pointer/pointer6")
	if queryScore == 0 {
		t.Error("Query-scoped data not loaded correctly")
	}
}

func TestCalculateDecayMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		days     float64
		wantZero bool
		wantHalf bool
	}{
		{
			name: "0 days - no decay",
			days: 0,
		},
		{
			name:     "30 days - half life",
			days:     30,
			wantHalf: true,
		},
		{
			name: "100 days - at boundary",
			days: 100,
		},
		{
			name:     "101 days - beyond max age",
			days:     101,
			wantZero: true,
		},
		{
			name:     "200 days - way beyond",
			days:     200,
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calculateDecayMultiplier(tt.days)

			if tt.wantZero && result != 0 {
				t.Errorf("Expected 0 for %f days, got %f", tt.days, result)
			}
			if !tt.wantZero && result == 0 {
				t.Errorf("Expected non-zero for %f days, got 0", tt.days)
			}
			if tt.wantHalf && (result < 0.49 || result > 0.51) {
				t.Errorf("Expected ~0.5 for half-life, got %f", result)
			}
			if tt.days == 0 && (result < 0.99 || result > 1.01) {
				t.Errorf("Expected ~1.0 for 0 days, got %f", result)
			}
		})
	}
}

func TestHistory_CleanupOldEntries(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	h.mu.Lock()
	h.picks["reel/ancient"] = PickInfo{
		Count:    5,
		LastUsed: time.Now().Add(-150 * 24 * time.Hour),
	}
	queryHash := normalizeQuery("calculus")
	h.queryPicks[queryHash] = map[string]PickInfo{
		"reel/ancient": {Count: 1, LastUsed: time.Now().Add(-200 * 24 * time.Hour)},
	}
	h.mu.Unlock()

	h.RecordPick("reel/fresh")

	removed := h.CleanupOldEntries()
	if removed != 2 {
		t.Errorf("Expected 2 entries removed, got %d", removed)
	}

	if score := h.GetScore("reel/ancient"); score != 0 {
		t.Errorf("Expected 0 score for removed entry, got %d", score)
	}
	if score := h.GetScore("reel/fresh"); score == 0 {
		t.Error("Fresh entry should still have score")
	}

	// Emptied query hash is dropped entirely
	h.mu.RLock()
	_, exists := h.queryPicks[queryHash]
	h.mu.RUnlock()
	if exists {
		t.Error("Empty query hash should be removed")
	}
}

func TestHistory_CleanupOldEntries_NoOldEntries(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	h.RecordPick("reel/reel1")
	h.RecordPick("post/post1")

	h.mu.Lock()
	h.dirty = false
	h.mu.Unlock()

	removed := h.CleanupOldEntries()
	if removed != 0 {
		t.Errorf("Expected 0 entries removed, got %d", removed)
	}

	// Should not set dirty flag if nothing removed
	if h.dirty {
		t.Error("History should not be dirty if nothing was cleaned")
	}
}

func TestHistory_GetScore_VeryOldEntry(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	h.mu.Lock()
	h.picks["reel/ancient"] = PickInfo{
		Count:    100, // High count does not outlive the age cutoff
		LastUsed: time.Now().Add(-200 * 24 * time.Hour),
	}
	h.mu.Unlock()

	if score := h.GetScore("reel/ancient"); score != 0 {
		t.Errorf("Expected 0 score for very old entry, got %d", score)
	}
}

func TestHistory_GetAllScores_SkipsOldEntries(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	h.mu.Lock()
	h.picks["reel/ancient"] = PickInfo{
		Count:    10,
		LastUsed: time.Now().Add(-200 * 24 * time.Hour),
	}
	h.mu.Unlock()

	h.RecordPick("reel/fresh")

	scores := h.GetAllScores()

	if len(scores) != 1 {
		t.Errorf("Expected 1 score (old entry skipped), got %d", len(scores))
	}
	if _, exists := scores["reel/ancient"]; exists {
		t.Error("Old entry should not be in scores")
	}
	if _, exists := scores["reel/fresh"]; !exists {
		t.Error("Fresh entry should be in scores")
	}
}

func TestHistory_DirtyFlag(t *testing.T) {
	h := New(filepath.Join(t.TempDir(), "history.gob"))

	if h.dirty {
		t.Error("New history should not be dirty")
	}

	h.RecordPick("reel/reel1")
	if !h.dirty {
		t.Error("History should be dirty after recording a pick")
	}

	if err := h.Save(); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if h.dirty {
		t.Error("History should not be dirty after save")
	}
}

func TestHistory_Save_NotDirty(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.gob")

	h := New(historyPath)
	h.RecordPick("reel/reel1")

	if err := h.Save(); err != nil {
		t.Fatalf("First save failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	stat1, _ := os.Stat(historyPath)

	// Save again (not dirty, should skip)
	if err := h.Save(); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	stat2, _ := os.Stat(historyPath)
	if !stat1.ModTime().Equal(stat2.ModTime()) {
		t.Error("File should not be modified when saving non-dirty history")
	}
}

func TestHistory_Save_DirectoryCreation(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "nested", "deep", "history.gob")

	h := New(historyPath)
	h.RecordPick("reel/reel1")

	if err := h.Save(); err != nil {
		t.Fatalf("Save with directory creation failed: %v", err)
	}

	if _, err := os.Stat(historyPath); os.IsNotExist(err) {
		t.Error("History file should exist after save")
	}
}

func TestHistory_LoadAsync_CorruptedFile(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "corrupted.gob")

	if err := os.WriteFile(historyPath, []byte("not a valid gob file"), 0600); err != nil {
		t.Fatalf("Failed to create corrupted file: %v", err)
	}

	h := New(historyPath)
	errCh := h.LoadAsync()
	if err := <-errCh; err == nil {
		t.Error("Expected error loading corrupted file")
	}
}

func TestHistory_Save_RenameError(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.gob")

	// A directory at the target path blocks the rename
	if err := os.Mkdir(historyPath, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	h := New(historyPath)
	h.RecordPick("reel/reel1")

	err := h.Save()
	if err == nil {
		t.Error("Expected Rename error, got nil")
	}
	if err != nil && !strings.Contains(err.Error(), "failed to rename temp file") {
		t.Errorf("Expected 'failed to rename temp file' in error, got: %v", err)
	}

	tempPath := historyPath + ".tmp"
	if _, err := os.Stat(tempPath); !os.IsNotExist(err) {
		t.Error("Temp file should be cleaned up after rename error")
	}
}

func TestHistory_Save_MkdirError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows: chmod doesn't work the same way")
	}
	if os.Getuid() == 0 {
		t.Skip("Skipping permission test when running as root")
	}

	tempDir := t.TempDir()

	readOnlyDir := filepath.Join(tempDir, "readonly")
	if err := os.Mkdir(readOnlyDir, 0555); err != nil {
		t.Fatalf("Failed to create readonly directory: %v", err)
	}
	defer os.Chmod(readOnlyDir, 0755) // Cleanup

	historyPath := filepath.Join(readOnlyDir, "subdir", "history.gob")

	h := New(historyPath)
	h.RecordPick("reel/reel1")

	err := h.Save()
	if err == nil {
		t.Error("Expected MkdirAll error, got nil")
	}
	if err != nil && !strings.Contains(err.Error(), "failed to create history directory") {
		t.Errorf("Expected 'failed to create history directory' in error, got: %v", err)
	}
}

func TestHistory_LoadAsync_CleansStaleEntries(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.gob")

	h1 := New(historyPath)
	h1.mu.Lock()
	h1.picks["reel/ancient"] = PickInfo{
		Count:    5,
		LastUsed: time.Now().Add(-150 * 24 * time.Hour),
	}
	h1.mu.Unlock()
	h1.RecordPick("reel/fresh")

	if err := h1.Save(); err != nil {
		t.Fatalf("Failed to save initial history: %v", err)
	}

	h2 := New(historyPath)
	errCh := h2.LoadAsync()
	if err := <-errCh; err != nil {
		t.Fatalf("Failed to load history: %v", err)
	}

	// Give the background save goroutine time to complete
	time.Sleep(100 * time.Millisecond)

	if score := h2.GetScore("reel/ancient"); score != 0 {
		t.Errorf("Stale entry should have score 0, got %d", score)
	}
	if score := h2.GetScore("reel/fresh"); score == 0 {
		t.Error("Fresh entry should have non-zero score")
	}
}
