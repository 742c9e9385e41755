package sections

import "strings"

// Kind classifies a boundary marker.
type Kind string

const (
	Part    Kind = "part"
	Chapter Kind = "chapter"
)

// KindOf classifies a heading by its leading keyword.
func KindOf(title string) Kind {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(title)), "part") {
		return Part
	}
	return Chapter
}

// Boundary marks where a section starts.
type Boundary struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
}

// Key identifies a section. Boundaries sharing a key collapse onto one section.
type Key struct {
	Kind  Kind
	Title string
}

func (b Boundary) Key() Key { return Key{Kind: b.Kind, Title: b.Title} }

type Section struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
	Body  string `json:"-"`
}

func (s Section) Key() Key { return Key{Kind: s.Kind, Title: s.Title} }

// Detector produces ordered boundary markers for a document's text.
type Detector interface {
	Detect(text string) []Boundary
}

// Partitioner carves text into sections matching the given boundaries.
type Partitioner interface {
	Partition(text string, boundaries []Boundary) Result
}

// Result holds the sections in boundary order plus the boundaries that could
// not be located in the text.
type Result struct {
	Sections []Section
	Dropped  []Boundary
}
