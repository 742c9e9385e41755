package pipeline

import (
	"fmt"
	"strings"

	"github.com/thywilljoshua/booksum/internal/sections"
)

// renderContents lists the detected parts and chapters, nested, with the
// summary file written for each. Sections without a summary are marked.
func renderContents(tree []sections.Node, files map[sections.Key]string) string {
	var b strings.Builder
	b.WriteString("Contents\n========\n\n")
	var write func(nodes []sections.Node, depth int)
	write = func(nodes []sections.Node, depth int) {
		for _, n := range nodes {
			file, ok := files[n.Section.Key()]
			if !ok {
				file = "(no summary)"
			}
			b.WriteString(fmt.Sprintf("%s- %s -> %s\n", strings.Repeat("  ", depth), n.Section.Title, file))
			write(n.Children, depth+1)
		}
	}
	write(tree, 0)
	return b.String()
}
