package easel

import "time"

// debugLog reports render timing and the size of the display list.
func (s *Stage) debugLog(elapsed time.Duration) {
	nodes, depth := countNodes(&s.Container, 1)
	Logger().Debug("render",
		"stage", s.ID,
		"elapsed", elapsed,
		"nodes", nodes,
		"depth", depth)
}

// countNodes returns the number of nodes in the subtree rooted at ct,
// ct included, and the deepest level reached.
func countNodes(ct *Container, level int) (count, depth int) {
	count, depth = 1, level
	for _, child := range ct.children {
		if sub, ok := child.(*Container); ok {
			n, d := countNodes(sub, level+1)
			count += n
			depth = max(depth, d)
			continue
		}
		count++
		depth = max(depth, level+1)
	}
	return count, depth
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parentNode() {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("tree depth exceeds threshold",
			"depth", depth, "threshold", debugMaxTreeDepth, "node", n.Name)
	}
}

// debugCheckChildCount warns if a container has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(ct *Container) {
	if len(ct.children) > debugMaxChildCount {
		Logger().Warn("child count exceeds threshold",
			"node", ct.Name, "children", len(ct.children), "threshold", debugMaxChildCount)
	}
}
