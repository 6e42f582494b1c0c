// ABOUTME: Captures live collector heaps as snapshot graphs
// ABOUTME: Bridges the gc engine to the graph analysis algorithms

// Package dump captures heap snapshots from a live collector and moves them
// in and out of a JSON interchange format, so retainer analysis can run
// in-process or offline against a saved snapshot.
package dump

import (
	"github.com/prateek/trigc/gc"
	"github.com/prateek/trigc/graph"
)

// Capture walks a quiescent heap and returns it as a snapshot graph:
// one object per live box, edges as reported by each box's trace function,
// and the root set taken from root counts. The snapshot is fully detached
// from the heap; subsequent allocation or collection does not affect it.
func Capture(h *gc.Heap) graph.Graph {
	g := graph.NewSnapshot()
	var roots []graph.BoxID

	h.Walk(func(info gc.ObjectInfo) {
		refs := make([]graph.BoxID, len(info.Refs))
		for i, r := range info.Refs {
			refs[i] = graph.BoxID(r)
		}
		g.AddObject(&graph.Object{
			ID:   graph.BoxID(info.ID),
			Type: info.Type,
			Size: info.Size,
			Refs: refs,
		})
		if info.RootCount > 0 {
			roots = append(roots, graph.BoxID(info.ID))
		}
	})

	if roots == nil {
		roots = []graph.BoxID{}
	}
	g.SetRoots(graph.Roots{IDs: roots})
	return g
}
