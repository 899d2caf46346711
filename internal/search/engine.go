// Package search implements the in-memory relevance engine over the content library
package search

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/campusreels/crfind/internal/types"
)

// Scoring weights. The phrase bonus applies when the whole query appears as
// a substring of the entry's searchable text; term bonuses are additive per
// whitespace-separated query term.
const (
	phraseBonus      = 100.0
	titleTermBonus   = 50.0
	descTermBonus    = 30.0
	tagTermBonus     = 40.0
	authorTermBonus  = 35.0
	recencyBonusMax  = 20.0
	excerptLen       = 100
	millisPerDay     = 86_400_000
	defaultSuggested = 5
	defaultTrending  = 10
)

// Repository exposes read access to the five content collections
// Accessors are in-memory and infallible; the engine never mutates them
type Repository interface {
	Reels() []types.Reel
	Posts() []types.Post
	Pointers() []types.Pointer
	Users() []types.User
	Courses() []types.Course
}

// Engine answers free-text queries against a flattened index of the repository
// The index is built lazily on first use and owned exclusively by the engine;
// Invalidate discards it so the next query sees current repository state
type Engine struct {
	repo Repository
	now  func() time.Time

	mu      sync.Mutex
	entries []Entry        // insertion order of the build scan
	keys    map[string]int // entry key -> position in entries
	indexed bool
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides the time source used for recency scoring
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given repository
func New(repo Repository, opts ...Option) *Engine {
	e := &Engine{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invalidate discards the cached index
// The next Search/Suggestions/TrendingTags call rebuilds it from the repository
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.indexed = false
	e.entries = nil
	e.keys = nil
}

// ensureIndexed builds the index if it has not been built since construction
// or the last Invalidate. The build replaces the index wholesale.
func (e *Engine) ensureIndexed() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.indexed {
		return
	}

	e.entries = e.entries[:0]
	e.keys = make(map[string]int)

	// Resolve reel/post authors to display names, falling back to the
	// raw user ID when no profile matches
	users := e.repo.Users()
	nameByID := make(map[string]string, len(users))
	for _, u := range users {
		nameByID[u.ID] = u.Name
	}
	resolveName := func(userID string) string {
		if name, ok := nameByID[userID]; ok && name != "" {
			return name
		}
		return userID
	}

	for _, reel := range e.repo.Reels() {
		author := resolveName(reel.UserID)
		e.add(Entry{
			Kind:        KindReel,
			ID:          reel.ID,
			Title:       reel.Caption,
			Description: "Reel by " + author,
			Author:      author,
			CourseID:    reel.CourseID,
			Tags:        reel.Tags,
			CreatedAt:   reel.CreatedAt,
		})
	}

	for _, post := range e.repo.Posts() {
		e.add(Entry{
			Kind:        KindPost,
			ID:          post.ID,
			Title:       post.Title,
			Description: types.Excerpt(post.Body, excerptLen),
			Author:      resolveName(post.UserID),
			CourseID:    post.CourseID,
			Tags:        post.Tags,
			CreatedAt:   post.CreatedAt,
		})
	}

	for _, ptr := range e.repo.Pointers() {
		e.add(Entry{
			Kind:        KindPointer,
			ID:          ptr.ID,
			Title:       ptr.Title,
			Description: types.Excerpt(ptr.Body, excerptLen),
			CourseID:    ptr.CourseID,
			Tags:        ptr.Tags,
			CreatedAt:   ptr.CreatedAt,
		})
	}

	for _, user := range users {
		e.add(Entry{
			Kind:        KindUser,
			ID:          user.ID,
			Title:       user.Name,
			Description: user.Handle(),
			Tags:        user.Courses,
		})
	}

	for _, course := range e.repo.Courses() {
		e.add(Entry{
			Kind:        KindCourse,
			ID:          course.ID,
			Title:       course.Title,
			Description: course.Code,
			Tags:        []string{course.Code},
		})
	}

	e.indexed = true
}

// add inserts an entry, replacing an earlier one with the same identity key
func (e *Engine) add(entry Entry) {
	if pos, ok := e.keys[entry.Key()]; ok {
		e.entries[pos] = entry
		return
	}
	e.keys[entry.Key()] = len(e.entries)
	e.entries = append(e.entries, entry)
}

// Search returns entries relevant to the query sorted by descending score,
// respecting the optional filters. A blank query returns nil immediately.
// Tie order between equal scores is not guaranteed.
func (e *Engine) Search(query string, filters *Filters) []Entry {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	e.ensureIndexed()

	queryLower := strings.ToLower(query)
	terms := strings.Fields(queryLower)
	nowMillis := e.now().UnixMilli()

	var results []Entry
	for i := range e.entries {
		entry := &e.entries[i]
		if !filters.allows(entry) {
			continue
		}

		score := scoreEntry(entry, queryLower, terms)
		if score <= 0 {
			continue
		}

		// Recency boost: decays linearly to zero over 20 days, only for
		// time-ranked entries and only on top of a textual match
		if entry.CreatedAt > 0 {
			ageDays := float64(nowMillis-entry.CreatedAt) / millisPerDay
			if boost := recencyBonusMax - ageDays; boost > 0 {
				score += boost
			}
		}

		scored := *entry
		scored.Score = score
		results = append(results, scored)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// scoreEntry computes the textual relevance of one entry, without recency
func scoreEntry(entry *Entry, queryLower string, terms []string) float64 {
	title := strings.ToLower(entry.Title)
	desc := strings.ToLower(entry.Description)
	author := strings.ToLower(entry.Author)
	tags := make([]string, len(entry.Tags))
	for i, tag := range entry.Tags {
		tags[i] = strings.ToLower(tag)
	}

	score := 0.0

	// Exact phrase match over the concatenated searchable text
	searchable := title + " " + desc + " " + strings.Join(tags, " ")
	if strings.Contains(searchable, queryLower) {
		score += phraseBonus
	}

	// Per-term field matches, additive across fields and terms
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += titleTermBonus
		}
		if strings.Contains(desc, term) {
			score += descTermBonus
		}
		for _, tag := range tags {
			if strings.Contains(tag, term) {
				score += tagTermBonus
				break
			}
		}
		if author != "" && strings.Contains(author, term) {
			score += authorTermBonus
		}
	}

	return score
}

// Suggestions proposes completions for a partial query from tags, course IDs
// and author names, deduplicated, in first-seen order across the index scan
// A limit <= 0 falls back to the default of 5
func (e *Engine) Suggestions(query string, limit int) []string {
	if limit <= 0 {
		limit = defaultSuggested
	}

	e.ensureIndexed()

	queryLower := strings.ToLower(query)
	seen := make(map[string]bool)
	var suggestions []string
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		suggestions = append(suggestions, s)
	}

	for i := range e.entries {
		entry := &e.entries[i]
		for _, tag := range entry.Tags {
			if strings.Contains(strings.ToLower(tag), queryLower) {
				add(tag)
			}
		}
		if entry.CourseID != "" && strings.Contains(strings.ToLower(entry.CourseID), queryLower) {
			add(entry.CourseID)
		}
		if entry.Author != "" && strings.Contains(strings.ToLower(entry.Author), queryLower) {
			add(entry.Author)
		}
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// TrendingTags reports the most frequent tags across the whole index,
// ranked by raw occurrence count with ties broken by first appearance
// A limit <= 0 falls back to the default of 10
func (e *Engine) TrendingTags(limit int) []string {
	if limit <= 0 {
		limit = defaultTrending
	}

	e.ensureIndexed()

	counts := make(map[string]int)
	var order []string
	for i := range e.entries {
		for _, tag := range e.entries[i].Tags {
			if counts[tag] == 0 {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// Entries returns a snapshot of the current index in build order,
// forcing a lazy build if needed. Used by the TUI for empty-query browsing.
func (e *Engine) Entries() []Entry {
	e.ensureIndexed()

	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Entry, len(e.entries))
	copy(out, e.entries)
	return out
}

// Size returns the number of indexed entries, forcing a lazy build if needed
func (e *Engine) Size() int {
	e.ensureIndexed()

	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entries)
}
