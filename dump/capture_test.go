// ABOUTME: Tests for capturing live collector heaps as snapshots
// ABOUTME: Captured graphs must mirror boxes, edges, and roots exactly

package dump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prateek/trigc/gc"
	"github.com/prateek/trigc/graph"
)

type capNode struct {
	label string
	next  gc.Cell[capNode]
}

func (n *capNode) Trace(tr *gc.Tracer) {
	n.next.Trace(tr)
}

func TestCaptureEmptyHeap(t *testing.T) {
	ctx := gc.NewContext(false, 0)
	defer ctx.Close()

	g := Capture(ctx.Heap())
	assert.Equal(t, 0, g.NumObjects())
	assert.Empty(t, g.GetRoots().IDs)
}

func TestCaptureMirrorsHeap(t *testing.T) {
	ctx := gc.NewContext(false, 0)
	defer ctx.Close()

	a := gc.Alloc(ctx, capNode{label: "a"})
	defer a.Release()
	b := gc.Alloc(ctx, capNode{label: "b"})
	a.Get().next.Store(b.Unrooted())
	b.Release()
	leaf := gc.Alloc(ctx, 7)
	defer leaf.Release()

	g := Capture(ctx.Heap())
	require.Equal(t, 3, g.NumObjects())

	// Two rooted boxes: a and the leaf.
	assert.Len(t, g.GetRoots().IDs, 2)

	// a's edge leads to an unrooted capNode.
	var aObj *graph.Object
	g.ForEachObject(func(obj *graph.Object) {
		if obj.Type == "dump.capNode" && len(obj.Refs) == 1 {
			aObj = obj
		}
	})
	require.NotNil(t, aObj)
	bObj := g.GetObject(aObj.Refs[0])
	require.NotNil(t, bObj)
	assert.Equal(t, "dump.capNode", bObj.Type)
	assert.Empty(t, bObj.Refs)

	rooted := make(map[graph.BoxID]bool)
	for _, id := range g.GetRoots().IDs {
		rooted[id] = true
	}
	assert.True(t, rooted[aObj.ID])
	assert.False(t, rooted[bObj.ID])
}

func TestCaptureIsDetached(t *testing.T) {
	ctx := gc.NewContext(false, 0)
	defer ctx.Close()

	v := gc.Alloc(ctx, capNode{label: "v"})
	g := Capture(ctx.Heap())
	require.Equal(t, 1, g.NumObjects())

	v.Release()
	ctx.Collect()

	// The snapshot still describes the heap as it was.
	assert.Equal(t, 1, g.NumObjects())
	assert.Len(t, g.GetRoots().IDs, 1)
}

func TestCaptureFeedsAnalysis(t *testing.T) {
	// A captured heap plugs straight into the retainer analyses.
	ctx := gc.NewContext(false, 0)
	defer ctx.Close()

	root := gc.Alloc(ctx, capNode{label: "root"})
	defer root.Release()
	mid := gc.Alloc(ctx, capNode{label: "mid"})
	tail := gc.Alloc(ctx, capNode{label: "tail"})
	root.Get().next.Store(mid.Unrooted())
	mid.Get().next.Store(tail.Unrooted())
	mid.Release()
	tail.Release()

	g := Capture(ctx.Heap())
	rootID := g.GetRoots().IDs[0]

	reachable := graph.Reachable(g)
	assert.Len(t, reachable, 3)

	idom := graph.Dominators(g)
	retained := graph.RetainedSize(g)
	boxSize := g.GetObject(rootID).Size
	assert.Equal(t, 3*boxSize, retained[rootID])
	assert.Equal(t, graph.BoxID(0), idom[rootID])

	var tailID graph.BoxID
	g.ForEachObject(func(obj *graph.Object) {
		if len(obj.Refs) == 0 {
			tailID = obj.ID
		}
	})
	paths := graph.PathsToRoots(g, tailID, 10)
	require.Len(t, paths, 1)
	assert.Len(t, paths[0].IDs, 3)
}
