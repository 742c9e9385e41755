package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	OverallFileName  = "Overall_Summary.txt"
	ContentsFileName = "Contents.txt"

	summarySuffix = "_Summary.txt"
	maxNameRunes  = 50
)

var nonAlnum = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// SanitizeTitle makes a section title safe to use as a file name: runs of
// anything but letters and digits become one underscore, and the result is
// cut to a fixed length.
func SanitizeTitle(title string) string {
	s := nonAlnum.ReplaceAllString(title, "_")
	s = strings.Trim(s, "_")
	if r := []rune(s); len(r) > maxNameRunes {
		s = strings.TrimRight(string(r[:maxNameRunes]), "_")
	}
	if s == "" {
		return "Section"
	}
	return s
}

// SummaryFileName is the output file for a section's summary.
func SummaryFileName(title string) string { return SanitizeTitle(title) + summarySuffix }

// Namer hands out section summary file names that are unique within one run.
// Names are compared without case, and the overall and contents file names
// are never handed out. A repeated name gets a numeric suffix (_2, _3, ...).
type Namer struct {
	used map[string]bool
}

func NewNamer() *Namer {
	n := &Namer{used: map[string]bool{}}
	n.reserve(OverallFileName)
	n.reserve(ContentsFileName)
	return n
}

func (n *Namer) reserve(name string) { n.used[strings.ToLower(name)] = true }

// Name returns the file name for title and marks it as taken.
func (n *Namer) Name(title string) string {
	base := SanitizeTitle(title)
	name := base + summarySuffix
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		name = fmt.Sprintf("%s_%d%s", base, i, summarySuffix)
	}
	n.reserve(name)
	return name
}
