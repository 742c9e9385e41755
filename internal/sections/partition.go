package sections

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// TextPartitioner locates each boundary title in the text and cuts the text
// between consecutive located titles.
type TextPartitioner struct {
	log *zap.Logger
}

func NewTextPartitioner(log *zap.Logger) *TextPartitioner {
	if log == nil {
		log = zap.NewNop()
	}
	return &TextPartitioner{log: log}
}

type located struct {
	b     Boundary
	start int
}

// Partition searches titles case-insensitively and strictly forward, so a
// title is only found after the previous located one. Unlocatable boundaries
// are dropped. Repeated keys keep their first position and the later body.
func (p *TextPartitioner) Partition(text string, boundaries []Boundary) Result {
	var res Result
	var found []located
	cursor := 0
	for _, b := range boundaries {
		start, end, ok := indexFold(text, b.Title, cursor)
		if !ok {
			p.log.Warn("section title not found in text, skipping",
				zap.String("kind", string(b.Kind)),
				zap.String("title", b.Title))
			res.Dropped = append(res.Dropped, b)
			continue
		}
		found = append(found, located{b: b, start: start})
		cursor = end
	}

	index := map[Key]int{}
	for i, l := range found {
		stop := len(text)
		if i+1 < len(found) {
			stop = found[i+1].start
		}
		sec := Section{
			Kind:  l.b.Kind,
			Title: l.b.Title,
			Body:  strings.TrimSpace(text[l.start:stop]),
		}
		if j, dup := index[sec.Key()]; dup {
			p.log.Warn("duplicate section heading, keeping the later body",
				zap.String("title", sec.Title))
			res.Sections[j].Body = sec.Body
			continue
		}
		index[sec.Key()] = len(res.Sections)
		res.Sections = append(res.Sections, sec)
	}
	return res
}

// indexFold finds title in text at or after from, ignoring case. Offsets are
// byte offsets into text.
func indexFold(text, title string, from int) (int, int, bool) {
	if title == "" || from > len(text) {
		return 0, 0, false
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(title))
	if err != nil {
		return 0, 0, false
	}
	loc := re.FindStringIndex(text[from:])
	if loc == nil {
		return 0, 0, false
	}
	return from + loc[0], from + loc[1], true
}
