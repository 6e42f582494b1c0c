// ABOUTME: Package documentation for the collector engine
// ABOUTME: Overview of handles, tracing, cells, and collection modes

// Package gc implements a concurrent tri-color mark-and-sweep garbage
// collector for values managed outside Go's own heap discipline: boxes are
// reclaimed by reachability from explicit roots, cyclic structures included,
// and finalizers run deterministically when a box goes away.
//
// A Context owns the mutator-facing surface. Alloc places a value in a
// managed box and returns a Rooted handle; Rooted handles carry root units
// that anchor the trace, Unrooted handles are plain words for embedding
// inside managed values, and Cell stores an embeddable handle behind the
// write barrier so mutation stays safe while marking runs concurrently.
// Values with managed edges implement Trace; everything else is treated as
// a leaf.
//
//	type Node struct {
//		Value int
//		Next  gc.Cell[Node]
//	}
//
//	func (n *Node) Trace(tr *gc.Tracer) { n.Next.Trace(tr) }
//
//	ctx := gc.NewContext(true, 100*time.Millisecond)
//	defer ctx.Close()
//	n := gc.Alloc(ctx, Node{Value: 1})
//	defer n.Release()
//
// Collection runs stop-the-world (Collect), in bounded increments
// (CollectIncremental), or automatically on a background goroutine paced by
// a byte threshold. A Heap may be shared across goroutines; each goroutine
// wraps it in its own Context.
package gc
