// ABOUTME: Per-goroutine Context facade and the ambient current-heap slot
// ABOUTME: Allocation, manual collection drivers, and heap handoff live here

package gc

import (
	"sync/atomic"
	"time"
)

// currentHeap is the ambient heap the write barrier consults. The original
// design keeps this in thread-local storage; goroutines migrate between OS
// threads, so the Go rendition is a process-wide slot with save/restore
// around each Context's lifetime. It is what lets Unrooted handles and cells
// stay one word wide instead of carrying a heap pointer each.
var currentHeap atomic.Pointer[Heap]

// Context is the mutator-facing facade over a shared Heap. A Context is
// bound to the goroutine that created it and is not safe for concurrent
// use; the Heap behind it is, so cross-goroutine embedders hand the Heap
// over and wrap it in a fresh Context on the receiving side. Creating a
// Context installs its heap as the ambient current heap; Close restores the
// previous one, so Contexts nest.
type Context struct {
	heap  *Heap
	prev  *Heap
	owned bool
	done  bool
}

// NewContext creates a fresh Heap and binds a Context to it. With automatic
// set, a background collector polls every interval and runs incremental
// cycles once the heap outgrows its threshold. Closing this Context closes
// the Heap.
func NewContext(automatic bool, interval time.Duration) *Context {
	h := NewHeap()
	if automatic {
		h.startCollector(interval, defaultStepBudget)
	}
	return bind(h, true)
}

// FromHeap binds a Context on the current goroutine to an existing shared
// Heap. Closing this Context does not close the Heap.
func FromHeap(h *Heap) *Context {
	return bind(h, false)
}

func bind(h *Heap, owned bool) *Context {
	return &Context{
		heap:  h,
		prev:  currentHeap.Swap(h),
		owned: owned,
	}
}

// Alloc places value in a managed box on the context's heap and returns a
// pre-rooted handle to it. Allocation never runs a collection cycle on the
// calling goroutine; pacing is the background collector's job.
func Alloc[T any](c *Context, value T) Rooted[T] {
	return allocate(c.heap, value)
}

// Collect runs a full stop-the-world collection cycle.
func (c *Context) Collect() {
	c.heap.Collect()
}

// CollectIncremental runs a collection cycle bounded to stepBudget gray
// objects per marking step.
func (c *Context) CollectIncremental(stepBudget int) {
	c.heap.CollectIncremental(stepBudget)
}

// Heap exposes the shared heap, for handoff to other goroutines.
func (c *Context) Heap() *Heap {
	return c.heap
}

// Close unbinds the Context, restoring the previously ambient heap, and —
// for Contexts that created their heap — closes the heap, stopping the
// background collector and releasing every remaining box. Close is
// idempotent.
func (c *Context) Close() {
	if c.done {
		return
	}
	c.done = true
	currentHeap.CompareAndSwap(c.heap, c.prev)
	if c.owned {
		c.heap.Close()
	}
}
