package index

// DeepDocument represents a full-body document in the deep index
// Key is the entry identity key ("kind/id"), shared with the relevance engine
type DeepDocument struct {
	Key      string
	Kind     string // "post" or "pointer"
	Title    string
	Body     string // Markdown stripped to plain text before indexing
	CourseID string
	Tags     []string
}

// DeepMatch represents a search result from the deep index
type DeepMatch struct {
	Key      string
	Kind     string
	Title    string
	CourseID string
	Snippet  string  // Context snippet around the matched text
	Score    float64 // Relevance score from bleve
}
