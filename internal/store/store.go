// Package store persists the CampusReels content library in a local data directory
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/campusreels/crfind/internal/types"
)

const libraryFileName = "library.json"

// ErrLibraryNotFound is returned when the library file does not exist yet
var ErrLibraryNotFound = errors.New("library not found, run 'crfind seed' first")

// Library holds the five content collections
// It satisfies the search engine's Repository interface
type Library struct {
	ReelItems    []types.Reel    `json:"reels"`
	PostItems    []types.Post    `json:"posts"`
	PointerItems []types.Pointer `json:"pointers"`
	UserItems    []types.User    `json:"users"`
	CourseItems  []types.Course  `json:"courses"`
}

// Reels returns the reel collection
func (l *Library) Reels() []types.Reel { return l.ReelItems }

// Posts returns the post collection
func (l *Library) Posts() []types.Post { return l.PostItems }

// Pointers returns the pointer collection
func (l *Library) Pointers() []types.Pointer { return l.PointerItems }

// Users returns the user collection
func (l *Library) Users() []types.User { return l.UserItems }

// Courses returns the course collection
func (l *Library) Courses() []types.Course { return l.CourseItems }

// Size returns the total number of items across all collections
func (l *Library) Size() int {
	return len(l.ReelItems) + len(l.PostItems) + len(l.PointerItems) +
		len(l.UserItems) + len(l.CourseItems)
}

// Store manages the local content library
type Store struct {
	dir string
}

// New creates a new Store instance
func New(dir string) *Store {
	return &Store{dir: dir}
}

// EnsureDir ensures the data directory exists
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.dir, 0755)
}

// LibraryPath returns the full path to the library file
func (s *Store) LibraryPath() string {
	return filepath.Join(s.dir, libraryFileName)
}

// Exists checks if the library file exists
func (s *Store) Exists() bool {
	_, err := os.Stat(s.LibraryPath())
	return err == nil
}

// WriteLibrary writes the full library to disk
// The write is atomic: a temp file is renamed over the target
func (s *Store) WriteLibrary(lib *Library) error {
	if err := s.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode library: %w", err)
	}

	tempPath := s.LibraryPath() + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write library file: %w", err)
	}

	if err := os.Rename(tempPath, s.LibraryPath()); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to replace library file: %w", err)
	}

	return nil
}

// ReadLibrary reads the full library from disk
// Items with missing optional fields load as zero values; the search layer
// degrades gracefully rather than failing on them
func (s *Store) ReadLibrary() (*Library, error) {
	data, err := os.ReadFile(s.LibraryPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLibraryNotFound
		}
		return nil, fmt.Errorf("failed to open library file: %w", err)
	}

	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("failed to decode library file: %w", err)
	}

	// Drop records without an identity; everything else is searchable as-is
	lib.ReelItems = filterReels(lib.ReelItems)
	lib.PostItems = filterPosts(lib.PostItems)
	lib.PointerItems = filterPointers(lib.PointerItems)
	lib.UserItems = filterUsers(lib.UserItems)
	lib.CourseItems = filterCourses(lib.CourseItems)

	return &lib, nil
}

func filterReels(in []types.Reel) []types.Reel {
	out := in[:0]
	for _, r := range in {
		if r.ID == "" {
			continue
		}
		r.Tags = types.NormalizeTags(r.Tags)
		out = append(out, r)
	}
	return out
}

func filterPosts(in []types.Post) []types.Post {
	out := in[:0]
	for _, p := range in {
		if p.ID == "" {
			continue
		}
		p.Tags = types.NormalizeTags(p.Tags)
		out = append(out, p)
	}
	return out
}

func filterPointers(in []types.Pointer) []types.Pointer {
	out := in[:0]
	for _, p := range in {
		if p.ID == "" {
			continue
		}
		p.Tags = types.NormalizeTags(p.Tags)
		out = append(out, p)
	}
	return out
}

func filterUsers(in []types.User) []types.User {
	out := in[:0]
	for _, u := range in {
		if u.ID == "" {
			continue
		}
		u.Courses = types.NormalizeTags(u.Courses)
		out = append(out, u)
	}
	return out
}

func filterCourses(in []types.Course) []types.Course {
	out := in[:0]
	for _, c := range in {
		if c.ID == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SaveLastSeedTime saves the timestamp of the last successful seed
func (s *Store) SaveLastSeedTime(t time.Time) error {
	if err := s.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	timestampPath := filepath.Join(s.dir, ".last_seed_time")
	data := []byte(t.Format(time.RFC3339))

	if err := os.WriteFile(timestampPath, data, 0644); err != nil {
		return fmt.Errorf("failed to save seed timestamp: %w", err)
	}

	return nil
}

// LoadLastSeedTime loads the timestamp of the last successful seed
// Returns zero time if the file doesn't exist (never seeded)
func (s *Store) LoadLastSeedTime() (time.Time, error) {
	timestampPath := filepath.Join(s.dir, ".last_seed_time")

	data, err := os.ReadFile(timestampPath)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to read seed timestamp: %w", err)
	}

	t, err := time.Parse(time.RFC3339, string(data))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse seed timestamp: %w", err)
	}

	return t, nil
}

// AddReel prepends a reel to the library and persists it
func (s *Store) AddReel(reel types.Reel) error {
	return s.update(func(lib *Library) {
		lib.ReelItems = append([]types.Reel{reel}, lib.ReelItems...)
	})
}

// AddPost prepends a post to the library and persists it
func (s *Store) AddPost(post types.Post) error {
	return s.update(func(lib *Library) {
		lib.PostItems = append([]types.Post{post}, lib.PostItems...)
	})
}

// AddPointer prepends a pointer to the library and persists it
func (s *Store) AddPointer(pointer types.Pointer) error {
	return s.update(func(lib *Library) {
		lib.PointerItems = append([]types.Pointer{pointer}, lib.PointerItems...)
	})
}

func (s *Store) update(mutate func(*Library)) error {
	lib, err := s.ReadLibrary()
	if err != nil {
		return err
	}
	mutate(lib)
	return s.WriteLibrary(lib)
}
