// ABOUTME: Builds reverse edges for snapshot traversal
// ABOUTME: Maps boxes to their referrers for paths-to-roots

package graph

import "golang.org/x/exp/slices"

// ReverseEdges maps each box to the boxes that refer to it.
type ReverseEdges map[BoxID][]BoxID

// BuildReverseEdges creates the referrer map for a snapshot. Referrer lists
// come out sorted so traversals over them are deterministic.
func BuildReverseEdges(g Graph) ReverseEdges {
	reverse := make(ReverseEdges)

	g.ForEachObject(func(obj *Object) {
		for _, target := range obj.Refs {
			reverse[target] = append(reverse[target], obj.ID)
		}
	})

	for _, referrers := range reverse {
		slices.Sort(referrers)
	}

	return reverse
}
