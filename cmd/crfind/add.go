package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/campusreels/crfind/internal/config"
	"github.com/campusreels/crfind/internal/index"
	"github.com/campusreels/crfind/internal/logger"
	"github.com/campusreels/crfind/internal/store"
	"github.com/campusreels/crfind/internal/types"
)

var (
	addUser   string
	addCourse string
	addBody   string
	addTags   []string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add content to the library",
	Long: `Add a reel, post or pointer to the library. New items go to the front
of their collection, the way fresh content surfaces first.

Examples:
  crfind add reel "Heap sort visualized" --user user1 --course CSE310 --tag heaps
  crfind add post "Midterm Survival Guide" --user user2 --body "Sleep. Hydrate. Office hours."
  crfind add pointer "Unit Circle Shortcut" --course MAT265 --body "ASTC: All Students Take Calculus."`,
}

var addReelCmd = &cobra.Command{
	Use:   "reel <caption>",
	Short: "Add a reel",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAddReel,
}

var addPostCmd = &cobra.Command{
	Use:   "post <title>",
	Short: "Add a post",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAddPost,
}

var addPointerCmd = &cobra.Command{
	Use:   "pointer <title>",
	Short: "Add a pointer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAddPointer,
}

func init() {
	addCmd.PersistentFlags().StringVar(&addUser, "user", "", "author user ID")
	addCmd.PersistentFlags().StringVar(&addCourse, "course", "", "course ID the item belongs to")
	addCmd.PersistentFlags().StringVar(&addBody, "body", "", "body text (markdown allowed)")
	addCmd.PersistentFlags().StringSliceVar(&addTags, "tag", nil, "tags (repeatable)")

	addCmd.AddCommand(addReelCmd)
	addCmd.AddCommand(addPostCmd)
	addCmd.AddCommand(addPointerCmd)
	rootCmd.AddCommand(addCmd)
}

func runAddReel(cmd *cobra.Command, args []string) error {
	reel, err := newReel(strings.Join(args, " "), addUser, addCourse, addTags, time.Now())
	if err != nil {
		return err
	}

	_, st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.AddReel(reel); err != nil {
		return err
	}

	printSuccess("Added reel: " + reel.Caption)
	printDestination(st, reel.CourseID)
	return nil
}

func runAddPost(cmd *cobra.Command, args []string) error {
	post, err := newPost(strings.Join(args, " "), addBody, addUser, addCourse, addTags, time.Now())
	if err != nil {
		return err
	}

	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.AddPost(post); err != nil {
		return err
	}

	indexBody(cfg.Data.Dir, index.DeepDocument{
		Key:      "post/" + post.ID,
		Kind:     "post",
		Title:    post.Title,
		Body:     index.PlainText(post.Body),
		CourseID: post.CourseID,
		Tags:     post.Tags,
	})

	printSuccess("Added post: " + post.Title)
	printDestination(st, post.CourseID)
	return nil
}

func runAddPointer(cmd *cobra.Command, args []string) error {
	pointer, err := newPointer(strings.Join(args, " "), addBody, addCourse, addTags, time.Now())
	if err != nil {
		return err
	}

	cfg, st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.AddPointer(pointer); err != nil {
		return err
	}

	indexBody(cfg.Data.Dir, index.DeepDocument{
		Key:      "pointer/" + pointer.ID,
		Kind:     "pointer",
		Title:    pointer.Title,
		Body:     index.PlainText(pointer.Body),
		CourseID: pointer.CourseID,
		Tags:     pointer.Tags,
	})

	printSuccess("Added pointer: " + pointer.Title)
	printDestination(st, pointer.CourseID)
	return nil
}

func openStore() (*config.Config, *store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, store.New(cfg.Data.Dir), nil
}

// newReel validates the flag values and builds a reel record
func newReel(caption, userID, courseID string, tags []string, now time.Time) (types.Reel, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return types.Reel{}, errors.New("reel caption must not be empty")
	}
	if userID == "" {
		return types.Reel{}, errors.New("--user is required for reels")
	}

	return types.Reel{
		ID:        uuid.NewString(),
		UserID:    userID,
		CourseID:  courseID,
		Caption:   caption,
		Tags:      types.NormalizeTags(tags),
		CreatedAt: now.UnixMilli(),
	}, nil
}

// newPost validates the flag values and builds a post record
func newPost(title, body, userID, courseID string, tags []string, now time.Time) (types.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return types.Post{}, errors.New("post title must not be empty")
	}
	if userID == "" {
		return types.Post{}, errors.New("--user is required for posts")
	}
	if strings.TrimSpace(body) == "" {
		return types.Post{}, errors.New("--body is required for posts")
	}

	return types.Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		CourseID:  courseID,
		Title:     title,
		Body:      body,
		Tags:      types.NormalizeTags(tags),
		CreatedAt: now.UnixMilli(),
	}, nil
}

// newPointer validates the flag values and builds a pointer record
// Pointers are course tips and carry no author
func newPointer(title, body, courseID string, tags []string, now time.Time) (types.Pointer, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return types.Pointer{}, errors.New("pointer title must not be empty")
	}
	if strings.TrimSpace(body) == "" {
		return types.Pointer{}, errors.New("--body is required for pointers")
	}

	return types.Pointer{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		Title:     title,
		Body:      body,
		Tags:      types.NormalizeTags(tags),
		CreatedAt: now.UnixMilli(),
	}, nil
}

// printDestination reports which course the item landed in, using the
// course's display form when the library knows it
func printDestination(st *store.Store, courseID string) {
	if courseID == "" {
		return
	}

	lib, err := st.ReadLibrary()
	if err != nil {
		logger.Debug("Failed to re-read library: %v", err)
		printMuted("Course: " + courseID)
		return
	}
	printMuted("Course: " + courseLabel(lib, courseID))
}

// courseLabel resolves a course ID to its display form, e.g.
// "[CSE310] Data Structures & Algorithms", falling back to the raw ID
func courseLabel(lib *store.Library, courseID string) string {
	for _, course := range lib.Courses() {
		if course.ID == courseID {
			return course.DisplayString()
		}
	}
	return courseID
}

// indexBody adds a freshly written body to the deep index when one exists
// A missing or incompatible index is not an error; seed rebuilds it
func indexBody(dataDir string, doc index.DeepDocument) {
	indexPath := filepath.Join(dataDir, "deep.bleve")
	if !index.Exists(indexPath) {
		return
	}

	di, err := index.NewDeepIndex(indexPath)
	if err != nil {
		logger.Warn("Deep index not updated: %v", err)
		return
	}
	defer func() {
		if err := di.Close(); err != nil {
			logger.Debug("Failed to close deep index: %v", err)
		}
	}()

	if err := di.Add(doc); err != nil {
		logger.Warn("Deep index not updated: %v", err)
	}
}
