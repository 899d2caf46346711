package search

import "fmt"

// Kind is the closed category of an indexed entry
type Kind int

const (
	// KindReel is a short-form video post
	KindReel Kind = iota
	// KindPost is a long-form text post
	KindPost
	// KindPointer is a short course tip
	KindPointer
	// KindUser is a student profile
	KindUser
	// KindCourse is a university course
	KindCourse
)

// String returns the wire/display name of the kind
func (k Kind) String() string {
	switch k {
	case KindReel:
		return "reel"
	case KindPost:
		return "post"
	case KindPointer:
		return "pointer"
	case KindUser:
		return "user"
	case KindCourse:
		return "course"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a kind name to its Kind value
func ParseKind(s string) (Kind, error) {
	switch s {
	case "reel":
		return KindReel, nil
	case "post":
		return KindPost, nil
	case "pointer":
		return KindPointer, nil
	case "user":
		return KindUser, nil
	case "course":
		return KindCourse, nil
	}
	return 0, fmt.Errorf("unknown kind: %q (want reel, post, pointer, user or course)", s)
}

// Entry is a single searchable record derived from one library item
type Entry struct {
	Kind        Kind
	ID          string
	Title       string
	Description string
	Author      string   // resolved display name; empty for kinds without an owner
	CourseID    string   // empty when the item is not course-scoped
	Tags        []string // duplicates are not de-duplicated
	CreatedAt   int64    // milliseconds since epoch; 0 means not time-ranked
	Score       float64  // relevance, populated only on entries returned from Search
}

// Key returns the entry's identity key, unique within the index
// Example: "pointer/pointer1"
func (e Entry) Key() string {
	return e.Kind.String() + "/" + e.ID
}

// DateRange bounds CreatedAt inclusively, in milliseconds since epoch
type DateRange struct {
	Start int64
	End   int64
}

// Filters restrict search results before scoring
// Zero values mean "no restriction" for each field
type Filters struct {
	Kinds     []Kind     // entry kind must be one of these
	CourseID  string     // exact match on the entry's CourseID
	Tags      []string   // entry must carry at least one of these tags (exact match)
	DateRange *DateRange // entries outside the range are excluded, including zero-timestamp ones
}

func (f *Filters) allows(e *Entry) bool {
	if f == nil {
		return true
	}
	if len(f.Kinds) > 0 {
		found := false
		for _, k := range f.Kinds {
			if e.Kind == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.CourseID != "" && e.CourseID != f.CourseID {
		return false
	}
	if len(f.Tags) > 0 {
		found := false
	outer:
		for _, want := range f.Tags {
			for _, have := range e.Tags {
				if have == want {
					found = true
					break outer
				}
			}
		}
		if !found {
			return false
		}
	}
	if f.DateRange != nil {
		if e.CreatedAt < f.DateRange.Start || e.CreatedAt > f.DateRange.End {
			return false
		}
	}
	return true
}
