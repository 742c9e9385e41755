package sections

import (
	"regexp"
	"strings"
)

// OutlineEntry is one node of a document outline (PDF bookmarks).
type OutlineEntry struct {
	Title    string
	Children []OutlineEntry
}

// OutlineDetector derives boundaries from a document outline instead of the
// text. Entries whose title never appears in the text are skipped.
type OutlineDetector struct {
	entries []OutlineEntry
}

func NewOutlineDetector(entries []OutlineEntry) *OutlineDetector {
	return &OutlineDetector{entries: entries}
}

func (d *OutlineDetector) Detect(text string) []Boundary {
	var out []Boundary
	var walk func(entries []OutlineEntry, depth int)
	walk = func(entries []OutlineEntry, depth int) {
		for _, e := range entries {
			title := strings.TrimSpace(e.Title)
			if title != "" && containsFold(text, title) {
				kind := KindOf(title)
				if depth == 1 && len(e.Children) > 0 {
					kind = Part
				}
				out = append(out, Boundary{Kind: kind, Title: title})
			}
			walk(e.Children, depth+1)
		}
	}
	walk(d.entries, 1)
	return out
}

func containsFold(text, title string) bool {
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(title))
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
