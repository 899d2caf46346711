// Package types defines the CampusReels content records stored in the library
package types

import "strings"

// Reel represents a short-form video post
type Reel struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	CourseID  string   `json:"courseId,omitempty"`
	VideoURL  string   `json:"videoUrl,omitempty"`
	ThumbURL  string   `json:"thumbUrl,omitempty"`
	Caption   string   `json:"caption"`
	Tags      []string `json:"tags"`
	Likes     int      `json:"likes"`
	Comments  int      `json:"comments"`
	Shares    int      `json:"shares,omitempty"`
	Views     int      `json:"views,omitempty"`
	CreatedAt int64    `json:"createdAt"` // milliseconds since epoch
}

// Post represents a long-form text post (body may contain Markdown)
type Post struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	CourseID  string   `json:"courseId,omitempty"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
	Likes     int      `json:"likes"`
	Comments  int      `json:"comments"`
	CreatedAt int64    `json:"createdAt"` // milliseconds since epoch
}

// Pointer represents a short tip attached to a course
type Pointer struct {
	ID        string   `json:"id"`
	CourseID  string   `json:"courseId,omitempty"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
	Upvotes   int      `json:"upvotes"`
	CreatedAt int64    `json:"createdAt"` // milliseconds since epoch
}

// User represents a student profile
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Avatar   string   `json:"avatar,omitempty"`
	Name     string   `json:"name"`
	Courses  []string `json:"courses"` // enrolled course IDs
}

// Course represents a university course
type Course struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
	Cover string `json:"cover,omitempty"`
}

// Handle returns the user's @-handle for display
// Example: "@alex_chen"
func (u User) Handle() string {
	return "@" + u.Username
}

// DisplayString returns formatted display string in style: [CODE] Title
// For code "CSE310" and title "Data Structures & Algorithms"
// Returns: "[CSE310] Data Structures & Algorithms"
func (c Course) DisplayString() string {
	if c.Code == "" {
		return c.Title
	}
	return "[" + c.Code + "] " + c.Title
}

// Excerpt returns the body truncated to max characters with a trailing
// ellipsis appended only when truncation occurred
// Truncation counts runes so multi-byte text is never split mid-character
func Excerpt(body string, max int) string {
	runes := []rune(body)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return body
}

// NormalizeTags trims whitespace and drops empty tags, preserving order
// Duplicates are kept: the search index counts repeated tags individually
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
