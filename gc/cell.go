// ABOUTME: Write-barrier cell for mutable managed edges inside managed values
// ABOUTME: Store shades the incoming target while marking is in progress

package gc

import (
	"sync/atomic"
	"unsafe"
)

// Cell holds a mutable Unrooted handle inside a managed value. All in-place
// updates of managed edges must go through a Cell: a raw field store during
// concurrent marking can hide an object from the collector, a Cell store
// cannot. The zero Cell holds a nil handle and is ready for use.
//
// Store applies a Dijkstra-style insertion barrier: if the ambient heap is
// marking, the incoming target is shaded before the new value is published,
// so no black object ever points at a white one. The barrier reaches the
// heap through the ambient current-heap slot maintained by Context; in a
// program running several heaps at once, the Context bound to the heap that
// owns the cell must be the one installed.
type Cell[T any] struct {
	p unsafe.Pointer // *Header
}

// NewCell returns a cell holding u. No barrier applies: a cell being
// constructed is not yet reachable from any scanned object.
func NewCell[T any](u Unrooted[T]) Cell[T] {
	return Cell[T]{p: unsafe.Pointer(u.h)}
}

// Load returns the current handle.
func (c *Cell[T]) Load() Unrooted[T] {
	return Unrooted[T]{h: (*Header)(atomic.LoadPointer(&c.p))}
}

// Store publishes a new handle, shading its target first if a marking phase
// is in progress.
func (c *Cell[T]) Store(u Unrooted[T]) {
	if h := currentHeap.Load(); h != nil && h.isMarking() {
		h.markGray(u.h)
	}
	atomic.StorePointer(&c.p, unsafe.Pointer(u.h))
}

// Trace reports the cell's current target as an outgoing edge.
func (c *Cell[T]) Trace(tr *Tracer) {
	tr.Visit((*Header)(atomic.LoadPointer(&c.p)))
}
