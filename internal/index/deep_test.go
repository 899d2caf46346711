package index

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"

	"github.com/campusreels/crfind/internal/types"
)

func testDocs() []DeepDocument {
	return []DeepDocument{
		{
			Key:      "post/post1",
			Kind:     "post",
			Title:    "Big O Notation Cheat Sheet",
			Body:     "Understanding time complexity is crucial for coding interviews. Binary search runs in logarithmic time.",
			CourseID: "CSE310",
			Tags:     []string{"algorithms", "complexity"},
		},
		{
			Key:      "pointer/pointer1",
			Kind:     "pointer",
			Title:    "Binary Search Implementation Tips",
			Body:     "Always check for edge cases: empty array, single element, target not found.",
			CourseID: "CSE310",
			Tags:     []string{"binarysearch", "tips"},
		},
		{
			Key:      "post/post3",
			Kind:     "post",
			Title:    "Calculus Integration Techniques",
			Body:     "Integration by parts, substitution, and partial fractions.",
			CourseID: "MAT265",
			Tags:     []string{"calculus", "integration"},
		},
	}
}

func newTestIndex(t *testing.T) *DeepIndex {
	t.Helper()

	di, err := NewDeepIndex(filepath.Join(t.TempDir(), "deep.bleve"))
	if err != nil {
		t.Fatalf("NewDeepIndex: %v", err)
	}
	t.Cleanup(func() { _ = di.Close() })

	if err := di.AddBatch(testDocs()); err != nil {
		t.Fatalf("AddBatch: %v", err)
	}
	return di
}

func TestDeepIndex_SearchBody(t *testing.T) {
	di := newTestIndex(t)

	// "edge cases" only appears in the pointer body, never in a title
	matches, err := di.Search("edge cases", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("Expected body-only match, got none")
	}

	found := false
	for _, m := range matches {
		if m.Key == "pointer/pointer1" {
			found = true
			if m.Kind != "pointer" {
				t.Errorf("Kind = %q, want pointer", m.Kind)
			}
			if m.CourseID != "CSE310" {
				t.Errorf("CourseID = %q, want CSE310", m.CourseID)
			}
		}
	}
	if !found {
		t.Error("pointer/pointer1 should match a body-only query")
	}
}

func TestDeepIndex_TitleBoost(t *testing.T) {
	di := newTestIndex(t)

	// "binary search" appears in pointer1's title and in post1's body;
	// the title match should rank first
	matches, err := di.Search("binary search", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) < 2 {
		t.Fatalf("Expected at least 2 matches, got %d", len(matches))
	}
	if matches[0].Key != "pointer/pointer1" {
		t.Errorf("First match = %s, want pointer/pointer1 (title boost)", matches[0].Key)
	}
}

func TestDeepIndex_EmptyQuery(t *testing.T) {
	di := newTestIndex(t)

	matches, err := di.Search("", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Empty query should return no matches, got %d", len(matches))
	}
}

func TestDeepIndex_Snippet(t *testing.T) {
	di := newTestIndex(t)

	matches, err := di.Search("integration", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("Expected matches for 'integration'")
	}

	for _, m := range matches {
		if strings.Contains(m.Snippet, "<mark>") || strings.Contains(m.Snippet, "</mark>") {
			t.Errorf("Snippet should have highlight tags stripped: %q", m.Snippet)
		}
	}
}

func TestExtractSnippet_TruncatesOnRuneBoundary(t *testing.T) {
	// No highlight fragments forces the body truncation fallback
	body := strings.Repeat("∫ xⁿ dx = xⁿ⁺¹/(n+1) + C. ", 20)
	hit := &search.DocumentMatch{
		Fields: map[string]interface{}{"Body": body},
	}

	snippet := extractSnippet(hit)
	if !strings.HasSuffix(snippet, "...") {
		t.Errorf("Long body should be truncated with ellipsis: %q", snippet)
	}
	if !utf8.ValidString(snippet) {
		t.Errorf("Snippet split a multi-byte character: %q", snippet)
	}
	if got := len([]rune(strings.TrimSuffix(snippet, "..."))); got != 150 {
		t.Errorf("Snippet length = %d runes, want 150", got)
	}
}

func TestExtractSnippet_ShortBodyUntouched(t *testing.T) {
	hit := &search.DocumentMatch{
		Fields: map[string]interface{}{"Body": "Integration by parts."},
	}

	if got := extractSnippet(hit); got != "Integration by parts." {
		t.Errorf("extractSnippet = %q", got)
	}
}

func TestDeepIndex_Count(t *testing.T) {
	di := newTestIndex(t)

	count, err := di.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	// Version metadata document is not counted
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}
}

func TestDeepIndex_Delete(t *testing.T) {
	di := newTestIndex(t)

	if err := di.Delete("post/post1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	count, err := di.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count after delete = %d, want 2", count)
	}
}

func TestDeepIndex_ReopenExisting(t *testing.T) {
	indexPath := filepath.Join(t.TempDir(), "deep.bleve")

	di, err := NewDeepIndex(indexPath)
	if err != nil {
		t.Fatalf("NewDeepIndex: %v", err)
	}
	if err := di.Add(testDocs()[0]); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := di.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen: same version, data intact
	di2, err := NewDeepIndex(indexPath)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	defer di2.Close()

	count, err := di2.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("Count after reopen = %d, want 1", count)
	}
}

func TestDeepIndex_VersionMismatch(t *testing.T) {
	indexPath := filepath.Join(t.TempDir(), "deep.bleve")

	// Create an index whose version document carries a stale version
	raw, err := bleve.New(indexPath, buildIndexMapping())
	if err != nil {
		t.Fatalf("bleve.New: %v", err)
	}
	if err := raw.Index(versionDocID, versionDocument{Version: IndexVersion + 1}); err != nil {
		t.Fatalf("Index version doc: %v", err)
	}
	if err := raw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, err = NewDeepIndex(indexPath)
	if !errors.Is(err, ErrIndexVersionMismatch) {
		t.Errorf("Expected ErrIndexVersionMismatch, got: %v", err)
	}
}

func TestDeepIndex_AutoRecreate(t *testing.T) {
	indexPath := filepath.Join(t.TempDir(), "deep.bleve")

	raw, err := bleve.New(indexPath, buildIndexMapping())
	if err != nil {
		t.Fatalf("bleve.New: %v", err)
	}
	if err := raw.Index(versionDocID, versionDocument{Version: IndexVersion + 1}); err != nil {
		t.Fatalf("Index version doc: %v", err)
	}
	if err := raw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	di, recreated, err := NewDeepIndexWithAutoRecreate(indexPath)
	if err != nil {
		t.Fatalf("NewDeepIndexWithAutoRecreate: %v", err)
	}
	defer di.Close()

	if !recreated {
		t.Error("Expected recreated flag on version mismatch")
	}

	count, err := di.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("Recreated index should be empty, got %d documents", count)
	}
}

func TestExists(t *testing.T) {
	indexPath := filepath.Join(t.TempDir(), "deep.bleve")

	if Exists(indexPath) {
		t.Error("Exists should be false before creation")
	}

	di, err := NewDeepIndex(indexPath)
	if err != nil {
		t.Fatalf("NewDeepIndex: %v", err)
	}
	defer di.Close()

	if !Exists(indexPath) {
		t.Error("Exists should be true after creation")
	}
}

func TestDocumentsFor(t *testing.T) {
	posts := []types.Post{
		{ID: "post1", Title: "Notes", Body: "# Heading\n\nSome **bold** text.", CourseID: "BIO101", Tags: []string{"biology"}},
	}
	pointers := []types.Pointer{
		{ID: "pointer1", Title: "Tip", Body: "Plain advice.", CourseID: "MAT265", Tags: []string{"calculus"}},
	}

	docs := DocumentsFor(posts, pointers)

	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(docs))
	}
	if docs[0].Key != "post/post1" || docs[0].Kind != "post" {
		t.Errorf("First doc = %s/%s, want post/post1", docs[0].Kind, docs[0].Key)
	}
	if docs[1].Key != "pointer/pointer1" || docs[1].Kind != "pointer" {
		t.Errorf("Second doc = %s/%s, want pointer/pointer1", docs[1].Kind, docs[1].Key)
	}

	// Markdown stripped from post bodies
	if strings.Contains(docs[0].Body, "#") || strings.Contains(docs[0].Body, "**") {
		t.Errorf("Body should have markdown stripped: %q", docs[0].Body)
	}
	if !strings.Contains(docs[0].Body, "bold") {
		t.Errorf("Body should keep text content: %q", docs[0].Body)
	}
}

func TestStripHTMLTags(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<mark>binary</mark> search", "binary search"},
		{"no tags here", "no tags here"},
		{"<a href=\"x\">link</a>", "link"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := stripHTMLTags(tt.input); got != tt.expected {
			t.Errorf("stripHTMLTags(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
