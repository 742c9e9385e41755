package summarize

import "unicode/utf8"

// Chunk splits body into contiguous slices of exactly size characters; the
// last slice may be shorter. An empty body yields no chunks. Sizes are
// counted in runes so multi-byte text is never cut mid-character.
func Chunk(body string, size int) []string {
	if body == "" {
		return nil
	}
	if size <= 0 {
		return []string{body}
	}
	var out []string
	start, n := 0, 0
	for i := range body {
		if n == size {
			out = append(out, body[start:i])
			start, n = i, 0
		}
		n++
	}
	return append(out, body[start:])
}

// Truncate returns at most max leading characters of s.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
