// Package index provides full-text search over post and pointer bodies using Bleve
// The relevance engine only sees 100-char excerpts; this index covers the full
// text so "crfind deep" can find matches the excerpt cut off
package index

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/campusreels/crfind/internal/types"
)

const (
	// IndexVersion is the current version of the index schema
	// Increment this when making breaking changes to the index structure
	IndexVersion = 1

	// Version metadata document ID (reserved, never used for actual content)
	versionDocID = "__index_version__"
)

// ErrIndexVersionMismatch indicates the index schema version is incompatible
var ErrIndexVersionMismatch = errors.New("index version mismatch")

// DeepIndex manages the bleve index over full content bodies
type DeepIndex struct {
	index bleve.Index
	path  string
}

// versionDocument stores the index schema version
type versionDocument struct {
	Version int `json:"version"`
}

// NewDeepIndex creates or opens a deep index
// Returns ErrIndexVersionMismatch if an existing index has an incompatible version
func NewDeepIndex(indexPath string) (*DeepIndex, error) {
	var index bleve.Index
	var err error

	if _, statErr := os.Stat(indexPath); os.IsNotExist(statErr) {
		indexMapping := buildIndexMapping()
		index, err = bleve.New(indexPath, indexMapping)
		if err != nil {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}

		versionDoc := versionDocument{Version: IndexVersion}
		if err := index.Index(versionDocID, versionDoc); err != nil {
			_ = index.Close() // Ignore close error on error path
			return nil, fmt.Errorf("failed to store index version: %w", err)
		}
	} else {
		index, err = bleve.Open(indexPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open index: %w", err)
		}

		// Check version compatibility by searching for the version document
		searchReq := bleve.NewSearchRequest(bleve.NewDocIDQuery([]string{versionDocID}))
		searchReq.Fields = []string{"version"}
		searchRes, err := index.Search(searchReq)
		if err != nil || len(searchRes.Hits) == 0 {
			_ = index.Close() // Ignore close error on error path
			return nil, fmt.Errorf("%w: index has no version metadata", ErrIndexVersionMismatch)
		}

		storedVersion := 0
		if versionField, ok := searchRes.Hits[0].Fields["version"].(float64); ok {
			storedVersion = int(versionField)
		}

		if storedVersion != IndexVersion {
			_ = index.Close() // Ignore close error on error path
			return nil, fmt.Errorf("%w: index version %d, current version %d",
				ErrIndexVersionMismatch, storedVersion, IndexVersion)
		}
	}

	return &DeepIndex{
		index: index,
		path:  indexPath,
	}, nil
}

// NewDeepIndexWithAutoRecreate creates or opens a deep index, recreating it
// from scratch when the stored schema version no longer matches
// The second return value reports whether a recreate happened so the caller
// knows the index needs refilling
func NewDeepIndexWithAutoRecreate(indexPath string) (*DeepIndex, bool, error) {
	deepIndex, err := NewDeepIndex(indexPath)
	if err != nil {
		if errors.Is(err, ErrIndexVersionMismatch) {
			if err := os.RemoveAll(indexPath); err != nil {
				return nil, false, fmt.Errorf("failed to remove old index: %w", err)
			}

			deepIndex, err = NewDeepIndex(indexPath)
			if err != nil {
				return nil, false, fmt.Errorf("failed to create new index after version mismatch: %w", err)
			}

			return deepIndex, true, nil
		}

		return nil, false, err
	}

	return deepIndex, false, nil
}

// buildIndexMapping creates the index mapping for deep documents
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	// Standard analyzer (supports stemming and stop words)
	indexMapping.DefaultAnalyzer = standard.Name

	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = standard.Name
	titleFieldMapping.Store = true
	titleFieldMapping.Index = true
	docMapping.AddFieldMappingsAt("Title", titleFieldMapping)

	// Body: full-text field with term vectors for snippet highlighting
	bodyFieldMapping := bleve.NewTextFieldMapping()
	bodyFieldMapping.Analyzer = standard.Name
	bodyFieldMapping.Store = true
	bodyFieldMapping.Index = true
	bodyFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("Body", bodyFieldMapping)

	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = standard.Name
	tagsFieldMapping.Store = true
	tagsFieldMapping.Index = true
	docMapping.AddFieldMappingsAt("Tags", tagsFieldMapping)

	// Kind and CourseID: stored for result construction, not searched
	kindFieldMapping := bleve.NewTextFieldMapping()
	kindFieldMapping.Store = true
	kindFieldMapping.Index = false
	docMapping.AddFieldMappingsAt("Kind", kindFieldMapping)

	courseFieldMapping := bleve.NewTextFieldMapping()
	courseFieldMapping.Store = true
	courseFieldMapping.Index = false
	docMapping.AddFieldMappingsAt("CourseID", courseFieldMapping)

	keyFieldMapping := bleve.NewTextFieldMapping()
	keyFieldMapping.Store = true
	keyFieldMapping.Index = false
	docMapping.AddFieldMappingsAt("Key", keyFieldMapping)

	indexMapping.DefaultMapping = docMapping

	return indexMapping
}

// buildFieldQuery creates a query for a specific field with multi-token support
// Combines MatchQuery (fuzzy, distance=1) + PrefixQuery so both typos and
// partial words match. Multiple tokens are ANDed together.
func buildFieldQuery(tokens []string, field string, boost float64) query.Query {
	if len(tokens) == 0 {
		return bleve.NewMatchNoneQuery()
	}

	tokenQueries := make([]query.Query, 0, len(tokens))
	for _, token := range tokens {
		matchQ := bleve.NewMatchQuery(token)
		matchQ.SetField(field)
		matchQ.SetFuzziness(1) // Allow 1 edit distance for typo tolerance

		prefixQ := bleve.NewPrefixQuery(token)
		prefixQ.SetField(field)

		tokenQueries = append(tokenQueries, bleve.NewDisjunctionQuery(matchQ, prefixQ))
	}

	if len(tokenQueries) == 1 {
		dq, _ := tokenQueries[0].(*query.DisjunctionQuery)
		dq.SetBoost(boost)
		return dq
	}

	conjunction := bleve.NewConjunctionQuery(tokenQueries...)
	conjunction.SetBoost(boost)
	return conjunction
}

// Add indexes a single deep document
func (di *DeepIndex) Add(doc DeepDocument) error {
	return di.index.Index(doc.Key, doc)
}

// AddBatch indexes multiple deep documents in a batch
func (di *DeepIndex) AddBatch(docs []DeepDocument) error {
	batch := di.index.NewBatch()

	for _, doc := range docs {
		if err := batch.Index(doc.Key, doc); err != nil {
			return fmt.Errorf("failed to add document %s to batch: %w", doc.Key, err)
		}
	}

	return di.index.Batch(batch)
}

// Search performs a full-text search across Title, Tags, and Body
// Field boosting: Title (10x), Tags (5x), Body (1x)
func (di *DeepIndex) Search(queryStr string, maxResults int) ([]DeepMatch, error) {
	if queryStr == "" {
		return []DeepMatch{}, nil
	}

	queryLower := strings.ToLower(queryStr)
	tokens := strings.Fields(queryLower)

	titleQuery := buildFieldQuery(tokens, "Title", 10.0)
	tagsQuery := buildFieldQuery(tokens, "Tags", 5.0)
	bodyQuery := buildFieldQuery(tokens, "Body", 1.0)

	// Tokenized full-text fallback over the body
	bodyMatch := bleve.NewMatchQuery(queryStr)
	bodyMatch.SetField("Body")
	bodyMatch.SetBoost(1.0)

	boolQuery := bleve.NewDisjunctionQuery(titleQuery, tagsQuery, bodyQuery, bodyMatch)

	searchRequest := bleve.NewSearchRequestOptions(boolQuery, maxResults, 0, false)
	searchRequest.Highlight = bleve.NewHighlight()
	searchRequest.Fields = []string{"Key", "Kind", "Title", "Body", "CourseID"}

	searchResults, err := di.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	matches := make([]DeepMatch, 0, len(searchResults.Hits))
	for _, hit := range searchResults.Hits {
		if hit.ID == versionDocID {
			continue
		}

		key, _ := hit.Fields["Key"].(string)
		kind, _ := hit.Fields["Kind"].(string)
		title, _ := hit.Fields["Title"].(string)
		courseID, _ := hit.Fields["CourseID"].(string)

		matches = append(matches, DeepMatch{
			Key:      key,
			Kind:     kind,
			Title:    title,
			CourseID: courseID,
			Snippet:  extractSnippet(hit),
			Score:    hit.Score,
		})
	}

	return matches, nil
}

// extractSnippet extracts a relevant snippet from a search hit
func extractSnippet(hit *search.DocumentMatch) string {
	// Highlighted fragments first
	if len(hit.Fragments) > 0 && len(hit.Fragments["Body"]) > 0 {
		fragments := hit.Fragments["Body"]
		if len(fragments) > 2 {
			fragments = fragments[:2]
		}
		snippet := strings.Join(fragments, " ... ")
		// Bleve wraps matches in <mark> tags
		return stripHTMLTags(snippet)
	}

	// Fallback: truncate the body on rune boundaries
	if body, ok := hit.Fields["Body"].(string); ok {
		runes := []rune(body)
		if len(runes) > 150 {
			return string(runes[:150]) + "..."
		}
		return body
	}

	return ""
}

// stripHTMLTags removes HTML tags from a string
func stripHTMLTags(s string) string {
	var result strings.Builder
	inTag := false
	for _, ch := range s {
		if ch == '<' {
			inTag = true
		} else if ch == '>' {
			inTag = false
		} else if !inTag {
			result.WriteRune(ch)
		}
	}
	return result.String()
}

// Delete removes a document from the index
func (di *DeepIndex) Delete(key string) error {
	return di.index.Delete(key)
}

// Count returns the number of indexed documents, excluding version metadata
func (di *DeepIndex) Count() (uint64, error) {
	count, err := di.index.DocCount()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		count-- // Version document
	}
	return count, nil
}

// Close closes the index
func (di *DeepIndex) Close() error {
	return di.index.Close()
}

// Exists checks if the index exists at the given path
func Exists(indexPath string) bool {
	_, err := os.Stat(indexPath)
	return !os.IsNotExist(err)
}

// DocumentsFor builds deep documents from post and pointer collections
// Markdown bodies are stripped to plain text before indexing
func DocumentsFor(posts []types.Post, pointers []types.Pointer) []DeepDocument {
	docs := make([]DeepDocument, 0, len(posts)+len(pointers))

	for _, post := range posts {
		docs = append(docs, DeepDocument{
			Key:      "post/" + post.ID,
			Kind:     "post",
			Title:    post.Title,
			Body:     PlainText(post.Body),
			CourseID: post.CourseID,
			Tags:     post.Tags,
		})
	}

	for _, ptr := range pointers {
		docs = append(docs, DeepDocument{
			Key:      "pointer/" + ptr.ID,
			Kind:     "pointer",
			Title:    ptr.Title,
			Body:     PlainText(ptr.Body),
			CourseID: ptr.CourseID,
			Tags:     ptr.Tags,
		})
	}

	return docs
}
