// ABOUTME: BFS over reverse edges for finding paths from boxes to roots
// ABOUTME: Answers "what keeps this box alive" for leak debugging

package graph

// Path is a chain of boxes from a target (first element) to a root (last
// element), following referrer edges.
type Path struct {
	IDs []BoxID
}

// PathsToRoots finds up to maxPaths referrer chains from a box to members of
// the root set, shortest first. A box that is itself rooted yields the
// single-element path. Cycles are cut per-path, so mutually referencing
// garbage produces no spurious chains.
func PathsToRoots(g Graph, from BoxID, maxPaths int) []Path {
	if maxPaths <= 0 {
		return nil
	}
	if g.GetObject(from) == nil {
		return nil
	}

	reverse := BuildReverseEdges(g)

	rootSet := make(map[BoxID]bool)
	for _, id := range g.GetRoots().IDs {
		rootSet[id] = true
	}

	if rootSet[from] {
		return []Path{{IDs: []BoxID{from}}}
	}

	type searchNode struct {
		id   BoxID
		path []BoxID
	}

	var result []Path
	queue := []searchNode{{id: from, path: []BoxID{from}}}

	for len(queue) > 0 && len(result) < maxPaths {
		node := queue[0]
		queue = queue[1:]

		for _, referrer := range reverse[node.id] {
			inPath := false
			for _, id := range node.path {
				if id == referrer {
					inPath = true
					break
				}
			}
			if inPath {
				continue
			}

			next := make([]BoxID, len(node.path)+1)
			copy(next, node.path)
			next[len(node.path)] = referrer

			if rootSet[referrer] {
				result = append(result, Path{IDs: next})
				if len(result) >= maxPaths {
					break
				}
			} else {
				queue = append(queue, searchNode{id: referrer, path: next})
			}
		}
	}

	return result
}

// Reachable computes the set of boxes reachable from the root set following
// forward edges. This is exactly the survivor set a mark phase over the same
// snapshot would produce.
func Reachable(g Graph) map[BoxID]bool {
	seen := make(map[BoxID]bool)
	stack := append([]BoxID(nil), g.GetRoots().IDs...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		obj := g.GetObject(id)
		if obj == nil {
			continue
		}
		seen[id] = true
		for _, ref := range obj.Refs {
			if !seen[ref] {
				stack = append(stack, ref)
			}
		}
	}
	return seen
}
