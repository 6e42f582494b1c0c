// ABOUTME: Per-object header, type-erased vtable, and managed box layout
// ABOUTME: The header sits at offset 0 of every box, enabling header<->box casts

package gc

import (
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Header is the fixed-layout prefix of every managed box. Field order is a
// contract: {color, rootCount, next, vtable}, with the header at offset 0 of
// the box, so vtable functions can recover the box from a header pointer by
// a constant-offset cast. Its size does not depend on the boxed value.
type Header struct {
	color     atomicColor
	rootCount atomic.Uint64
	next      atomic.Pointer[Header]
	vtable    *VTable
}

func (h *Header) incRoot() {
	h.rootCount.Add(1)
}

func (h *Header) decRoot() {
	h.rootCount.Add(^uint64(0))
}

// isRoot reports whether at least one Rooted handle references the box.
func (h *Header) isRoot() bool {
	return h.rootCount.Load() > 0
}

// VTable is the immutable per-type descriptor record. One instance exists
// per concrete boxed type and lives for the process lifetime.
type VTable struct {
	// size and align describe the storage of the full box (header + value).
	size  uintptr
	align uintptr
	// elem is the boxed value's type, used by heap walks and dumps.
	elem reflect.Type
	// noTrace marks types with no managed edges; their trace is a no-op and
	// markers may blacken them without queueing.
	noTrace bool
	trace   func(*Header, *Tracer)
	drop    func(*Header)
}

// Size returns the storage size of a box described by the vtable.
func (vt *VTable) Size() uintptr { return vt.size }

// Finalizer is implemented by managed values that need teardown when their
// box is reclaimed. Finalize runs exactly once, on the goroutine that sweeps
// or closes the heap, before the value's storage is released.
type Finalizer interface {
	Finalize()
}

// box is the managed composite: header followed by the user value. The
// header being the first field pins it at offset 0 (asserted in
// layout_assert.go), which is what makes the *Header <-> *box[T] casts in
// the vtable functions legal.
type box[T any] struct {
	header Header
	data   T
}

// vtables interns one VTable per concrete type for the process lifetime.
var vtables sync.Map // reflect.Type -> *VTable

func vtableFor[T any]() *VTable {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	if vt, ok := vtables.Load(rt); ok {
		return vt.(*VTable)
	}
	vt := &VTable{
		size:  unsafe.Sizeof(box[T]{}),
		align: unsafe.Alignof(box[T]{}),
		elem:  rt,
		drop:  dropBox[T],
	}
	if _, ok := any((*T)(nil)).(Trace); ok {
		vt.trace = traceBox[T]
	} else {
		vt.noTrace = true
		vt.trace = traceNone
	}
	actual, _ := vtables.LoadOrStore(rt, vt)
	return actual.(*VTable)
}

func traceNone(*Header, *Tracer) {}

func traceBox[T any](h *Header, tr *Tracer) {
	b := (*box[T])(unsafe.Pointer(h))
	any(&b.data).(Trace).Trace(tr)
}

// dropBox runs the value's finalizer, then clears the slot so storage owned
// by the value (string or slice backing, nested handles) is released. The
// box itself is returned to the allocator once the sweep unlinks it.
func dropBox[T any](h *Header) {
	b := (*box[T])(unsafe.Pointer(h))
	if f, ok := any(&b.data).(Finalizer); ok {
		f.Finalize()
	}
	var zero T
	b.data = zero
}

func headerID(h *Header) uint64 {
	return uint64(uintptr(unsafe.Pointer(h)))
}
