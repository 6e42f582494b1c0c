// ABOUTME: Retained-size analysis over snapshot graphs
// ABOUTME: The bytes a single box's reclamation would give back

package graph

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// RetainedSize computes the retained size of every reachable box: the total
// bytes the collector would reclaim if that box alone became unreachable.
// An object retains exactly the boxes it dominates, so retained sizes are
// subtree sums over the dominator tree. Returns a map from box ID to bytes.
func RetainedSize(g Graph) map[BoxID]uint64 {
	idom := Dominators(g)
	tree := DominatorTree(idom)

	sizes := make(map[BoxID]uint64)
	g.ForEachObject(func(obj *Object) {
		sizes[obj.ID] = obj.Size
	})
	sizes[0] = 0

	retained := make(map[BoxID]uint64, len(tree))
	var subtree func(BoxID) uint64
	subtree = func(node BoxID) uint64 {
		if size, done := retained[node]; done {
			return size
		}
		size := sizes[node]
		for _, child := range tree[node] {
			size += subtree(child)
		}
		retained[node] = size
		return size
	}

	// Deterministic traversal order keeps the memoization independent of
	// map iteration.
	nodes := maps.Keys(tree)
	slices.Sort(nodes)
	for _, node := range nodes {
		subtree(node)
	}

	delete(retained, 0)
	return retained
}

// RetainedSizeOf computes retained sizes for selected boxes only, sharing
// one dominator computation across the targets.
func RetainedSizeOf(g Graph, targets []BoxID) map[BoxID]uint64 {
	if len(targets) == 0 {
		return map[BoxID]uint64{}
	}

	idom := Dominators(g)
	tree := DominatorTree(idom)

	sizes := make(map[BoxID]uint64)
	g.ForEachObject(func(obj *Object) {
		sizes[obj.ID] = obj.Size
	})
	sizes[0] = 0

	memo := make(map[BoxID]uint64)
	var subtree func(BoxID) uint64
	subtree = func(node BoxID) uint64 {
		if size, done := memo[node]; done {
			return size
		}
		size := sizes[node]
		for _, child := range tree[node] {
			size += subtree(child)
		}
		memo[node] = size
		return size
	}

	result := make(map[BoxID]uint64, len(targets))
	for _, target := range targets {
		if _, exists := sizes[target]; exists && target != 0 {
			result[target] = subtree(target)
		}
	}
	return result
}
