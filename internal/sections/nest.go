package sections

// Node is a section with the chapters it contains.
type Node struct {
	Section  Section
	Children []Node
}

// Nest turns the flat section list into a tree: every chapter that follows a
// part belongs to that part, chapters before the first part stay top-level.
func Nest(secs []Section) []Node {
	var roots []Node
	parent := -1
	for _, s := range secs {
		if s.Kind == Part {
			roots = append(roots, Node{Section: s})
			parent = len(roots) - 1
			continue
		}
		if parent == -1 {
			roots = append(roots, Node{Section: s})
			continue
		}
		roots[parent].Children = append(roots[parent].Children, Node{Section: s})
	}
	return roots
}
