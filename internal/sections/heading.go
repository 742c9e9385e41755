package sections

import (
	"fmt"
	"regexp"
	"strings"
)

// Structure selects which heading keywords start a section.
type Structure string

const (
	// PartsAndChapters treats both PART and CHAPTER headings as boundaries.
	PartsAndChapters Structure = "parts"
	// ChaptersOnly ignores PART headings and yields a flat chapter list.
	ChaptersOnly Structure = "chapters"
)

func ParseStructure(s string) (Structure, error) {
	switch Structure(strings.ToLower(strings.TrimSpace(s))) {
	case PartsAndChapters, "":
		return PartsAndChapters, nil
	case ChaptersOnly:
		return ChaptersOnly, nil
	default:
		return "", fmt.Errorf("unknown structure %q (want parts|chapters)", s)
	}
}

// Heading patterns: keyword, a numeral in digits or upper-case Roman glyphs,
// then whatever follows up to the end of the line.
var (
	partOrChapterRe = regexp.MustCompile(`(?i:\b(?:part|chapter))[ \t]+(?:\d+|[IVXLCDM]+)\b[^\n]*`)
	chapterRe       = regexp.MustCompile(`(?i:\bchapter)[ \t]+(?:\d+|[IVXLCDM]+)\b[^\n]*`)
)

// HeadingDetector finds boundaries by matching heading lines in the text.
// A keyword inside running prose is indistinguishable from a real heading.
type HeadingDetector struct {
	re *regexp.Regexp
}

func NewHeadingDetector(s Structure) *HeadingDetector {
	if s == ChaptersOnly {
		return &HeadingDetector{re: chapterRe}
	}
	return &HeadingDetector{re: partOrChapterRe}
}

func (d *HeadingDetector) Detect(text string) []Boundary {
	var out []Boundary
	for _, m := range d.re.FindAllString(text, -1) {
		title := strings.TrimSpace(m)
		if title == "" {
			continue
		}
		out = append(out, Boundary{Kind: KindOf(title), Title: title})
	}
	return out
}
