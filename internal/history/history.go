// Package history tracks which entries get opened, with exponential decay
// Scores feed the interactive finder's empty-query ordering so recently and
// frequently opened content floats to the top
package history

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	// halfLifeDays is the number of days for a score to decay to 50%
	halfLifeDays = 30.0
	// maxAgeDays is the maximum age for history entries (older entries are ignored/cleaned)
	maxAgeDays = 100.0
	// decayLambda is the decay constant: ln(2) / half_life
	decayLambda = 0.693147 / halfLifeDays // ≈ 0.0231

	// globalWeight and queryWeight scale pick counts into scores
	// Query-scoped picks count triple so "what I open for this query"
	// beats "what I open in general"
	globalWeight = 10
	queryWeight  = 30
)

// PickInfo tracks how often and how recently an entry was opened
type PickInfo struct {
	Count    int
	LastUsed time.Time
}

// historyData is the serializable representation of history
// Keys are entry identity keys ("kind/id") for global picks and
// hashed normalized queries for the query-scoped map
type historyData struct {
	Picks      map[string]PickInfo
	QueryPicks map[string]map[string]PickInfo
}

// History manages open-frequency tracking for finder entries
type History struct {
	picks      map[string]PickInfo
	queryPicks map[string]map[string]PickInfo
	mu         sync.RWMutex
	filePath   string
	dirty      bool
}

// New creates a new History instance backed by the given file path
func New(filePath string) *History {
	return &History{
		picks:      make(map[string]PickInfo),
		queryPicks: make(map[string]map[string]PickInfo),
		filePath:   filePath,
	}
}

// LoadAsync loads history from disk asynchronously
// Returns a channel that will receive an error (or nil on success)
func (h *History) LoadAsync() <-chan error {
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)

		cleanPath := filepath.Clean(h.filePath)
		file, err := os.Open(cleanPath)
		if err != nil {
			if os.IsNotExist(err) {
				// First run, nothing recorded yet
				errCh <- nil
				return
			}
			errCh <- fmt.Errorf("failed to open history file: %w", err)
			return
		}
		defer file.Close() //nolint:errcheck // Deferred close on read-only file

		var data historyData
		if err := gob.NewDecoder(file).Decode(&data); err != nil {
			errCh <- fmt.Errorf("failed to decode history: %w", err)
			return
		}

		h.mu.Lock()
		if data.Picks != nil {
			h.picks = data.Picks
		}
		if data.QueryPicks != nil {
			h.queryPicks = data.QueryPicks
		}
		h.dirty = false
		h.mu.Unlock()

		// Drop stale entries so the file doesn't grow without bound
		if removed := h.CleanupOldEntries(); removed > 0 {
			go func() {
				_ = h.Save() // Best-effort background cleanup
			}()
		}

		errCh <- nil
	}()

	return errCh
}

// RecordPick records that the given entry key was opened
func (h *History) RecordPick(key string) {
	h.RecordPickWithQuery("", key)
}

// RecordPickWithQuery records an opened entry together with the query that
// surfaced it. A blank query only updates the global counts.
func (h *History) RecordPickWithQuery(query, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()

	info := h.picks[key]
	info.Count++
	info.LastUsed = now
	h.picks[key] = info

	if query != "" {
		queryHash := normalizeQuery(query)
		if h.queryPicks[queryHash] == nil {
			h.queryPicks[queryHash] = make(map[string]PickInfo)
		}
		queryInfo := h.queryPicks[queryHash][key]
		queryInfo.Count++
		queryInfo.LastUsed = now
		h.queryPicks[queryHash][key] = queryInfo
	}

	h.dirty = true
}

// calculateDecayMultiplier returns the exponential decay multiplier for the
// given age. Uses e^(-λt) where λ = ln(2) / half_life.
// Returns 0 for entries older than maxAgeDays.
func calculateDecayMultiplier(daysSinceLastUse float64) float64 {
	if daysSinceLastUse > maxAgeDays {
		return 0.0
	}
	return math.Exp(-decayLambda * daysSinceLastUse)
}

func decayedScore(info PickInfo, weight int) float64 {
	daysSinceLastUse := time.Since(info.LastUsed).Hours() / 24
	multiplier := calculateDecayMultiplier(daysSinceLastUse)
	if multiplier <= 0 {
		return 0
	}
	return float64(info.Count*weight) * multiplier
}

// GetScore returns the decayed open-frequency score for an entry key
// Entries last opened more than 100 days ago score 0
func (h *History) GetScore(key string) int {
	return h.GetScoreForQuery("", key)
}

// GetScoreForQuery returns the score for an entry, boosted when the same
// entry was previously opened for the same normalized query
func (h *History) GetScoreForQuery(query, key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0.0

	if info, exists := h.picks[key]; exists {
		total += decayedScore(info, globalWeight)
	}

	if query != "" {
		queryHash := normalizeQuery(query)
		if info, exists := h.queryPicks[queryHash][key]; exists {
			total += decayedScore(info, queryWeight)
		}
	}

	return int(total)
}

// GetAllScores returns decayed scores for every tracked entry key
func (h *History) GetAllScores() map[string]int {
	return h.GetAllScoresForQuery("")
}

// GetAllScoresForQuery returns scores for all tracked entries, boosted by
// query-scoped picks for the given query
func (h *History) GetAllScoresForQuery(query string) map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	scores := make(map[string]float64, len(h.picks))
	for key, info := range h.picks {
		if s := decayedScore(info, globalWeight); s > 0 {
			scores[key] = s
		}
	}

	if query != "" {
		queryHash := normalizeQuery(query)
		for key, info := range h.queryPicks[queryHash] {
			if s := decayedScore(info, queryWeight); s > 0 {
				scores[key] += s
			}
		}
	}

	intScores := make(map[string]int, len(scores))
	for key, score := range scores {
		intScores[key] = int(score)
	}
	return intScores
}

// Save writes the history to disk if it changed since the last save
// The write is atomic: a temp file is renamed over the target
func (h *History) Save() error {
	h.mu.RLock()
	if !h.dirty {
		h.mu.RUnlock()
		return nil
	}
	h.mu.RUnlock()

	cleanPath := filepath.Clean(h.filePath)

	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tempPath := cleanPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	encoder := gob.NewEncoder(file)

	h.mu.RLock()
	data := historyData{
		Picks:      h.picks,
		QueryPicks: h.queryPicks,
	}
	err = encoder.Encode(data)
	h.mu.RUnlock()

	if err != nil {
		_ = file.Close()        //nolint:errcheck // Cleanup on error; ignore Close error
		_ = os.Remove(tempPath) //nolint:errcheck // Cleanup temp file; ignore Remove error
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tempPath) //nolint:errcheck // Cleanup temp file; ignore Remove error
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, cleanPath); err != nil {
		_ = os.Remove(tempPath) //nolint:errcheck // Cleanup temp file; ignore Remove error
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	h.mu.Lock()
	h.dirty = false
	h.mu.Unlock()

	return nil
}

// Stats returns statistics about the history
func (h *History) Stats() (totalPicks int, uniqueEntries int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	uniqueEntries = len(h.picks)
	for _, info := range h.picks {
		totalPicks += info.Count
	}

	return totalPicks, uniqueEntries
}

// Clear removes all history
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.picks = make(map[string]PickInfo)
	h.queryPicks = make(map[string]map[string]PickInfo)
	h.dirty = true
}

// CleanupOldEntries removes history entries older than maxAgeDays
func (h *History) CleanupOldEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	removed := 0

	for key, info := range h.picks {
		if now.Sub(info.LastUsed).Hours()/24 > maxAgeDays {
			delete(h.picks, key)
			removed++
		}
	}

	for queryHash, picks := range h.queryPicks {
		for key, info := range picks {
			if now.Sub(info.LastUsed).Hours()/24 > maxAgeDays {
				delete(picks, key)
				removed++
			}
		}
		if len(picks) == 0 {
			delete(h.queryPicks, queryHash)
		}
	}

	if removed > 0 {
		h.dirty = true
	}

	return removed
}

// normalizeQuery normalizes a query string for consistent history tracking
func normalizeQuery(query string) string {
	// Lowercase, trim whitespace, collapse multiple spaces
	normalized := strings.ToLower(strings.TrimSpace(query))
	normalized = strings.Join(strings.Fields(normalized), " ")

	// Hash the normalized query for compact storage
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:8]) // Use first 8 bytes (16 hex chars)
}
