// ABOUTME: Quiescent enumeration of live boxes with their managed edges
// ABOUTME: Feeds the graph/dump introspection layer without touching colors

package gc

// ObjectInfo describes one live box as seen by a heap walk.
type ObjectInfo struct {
	// ID identifies the box for the duration of the walk (its header
	// address). IDs are unique among live boxes but may be reused after a
	// box is reclaimed.
	ID uint64
	// Type is the boxed value's Go type.
	Type string
	// Size is the storage size of the full box, header included.
	Size uint64
	// RootCount is the number of root units held on the box.
	RootCount uint64
	// Refs lists the IDs of boxes this box refers to through its managed
	// edges, as reported by its Trace implementation.
	Refs []uint64
}

// Walk calls fn for every live box. The walk excludes collection cycles for
// its duration, so it observes a consistent heap; edges are gathered by
// running each box's trace function with a recording tracer, which does not
// shade. Boxes allocated while the walk is in progress may or may not be
// observed.
func (h *Heap) Walk(fn func(ObjectInfo)) {
	h.collectMu.Lock()
	defer h.collectMu.Unlock()

	tr := Tracer{record: true}
	for hdr := h.head.Load(); hdr != nil; hdr = hdr.next.Load() {
		tr.edges = tr.edges[:0]
		hdr.vtable.trace(hdr, &tr)

		var refs []uint64
		if len(tr.edges) > 0 {
			refs = make([]uint64, len(tr.edges))
			for i, e := range tr.edges {
				refs[i] = headerID(e)
			}
		}
		fn(ObjectInfo{
			ID:        headerID(hdr),
			Type:      hdr.vtable.elem.String(),
			Size:      uint64(hdr.vtable.size),
			RootCount: hdr.rootCount.Load(),
			Refs:      refs,
		})
	}
}
