// ABOUTME: The managed heap: allocation list, gray queue, phases, mark and sweep
// ABOUTME: Shared across goroutines; at most one collection cycle runs at a time

package gc

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
)

// Phase is the collector's position in its state machine. Legal transitions
// are Idle -> Marking -> Sweeping -> Idle; anything else is a corrupted
// collector and panics.
type Phase uint32

const (
	PhaseIdle Phase = iota
	PhaseMarking
	PhaseSweeping
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMarking:
		return "marking"
	case PhaseSweeping:
		return "sweeping"
	}
	return "invalid"
}

const (
	// minThreshold is the floor for the automatic collection threshold.
	minThreshold = 1 << 20
	// defaultStepBudget bounds gray-queue pops per incremental mark step.
	defaultStepBudget = 100

	allWork = math.MaxInt
)

// Heap owns every managed box: the intrusive allocation list threaded
// through box headers, the gray queue for marking, the phase machine, the
// byte counters that pace automatic collection, and the optional background
// collector. A Heap may be shared freely across goroutines; allocation and
// mutation continue while a cycle runs.
type Heap struct {
	// head of the intrusive allocation list. Allocators prepend with a CAS
	// loop; the sweep unlinks dead nodes; Close detaches the whole list. No
	// other writer touches it.
	head atomic.Pointer[Header]

	bytesAllocated atomic.Uint64
	threshold      atomic.Uint64
	phase          atomic.Uint32

	grayMu sync.Mutex
	gray   []*Header

	// collectMu serializes collection cycles and quiescent heap walks.
	collectMu sync.Mutex

	collector       *collector
	collectorFailed atomic.Bool
	closed          atomic.Bool
}

// NewHeap returns an empty heap with the default threshold. Most embedders
// go through NewContext instead.
func NewHeap() *Heap {
	h := &Heap{}
	h.threshold.Store(minThreshold)
	return h
}

// allocate reserves a box for value, pre-rooted with rootCount 1, and
// publishes it at the head of the allocation list. Pre-rooting happens
// before publication, so a marking cycle scanning the list can never observe
// the fresh box as unreachable.
func allocate[T any](h *Heap, value T) Rooted[T] {
	if h.closed.Load() {
		panic("gc: allocate on closed heap")
	}
	vt := vtableFor[T]()
	b := new(box[T])
	b.data = value
	hdr := &b.header
	hdr.vtable = vt
	hdr.rootCount.Store(1)
	for {
		head := h.head.Load()
		hdr.next.Store(head)
		if h.head.CompareAndSwap(head, hdr) {
			break
		}
	}
	h.bytesAllocated.Add(uint64(vt.size))
	return Rooted[T]{u: Unrooted[T]{h: hdr}}
}

// markGray is the shading primitive used by the root scan and the write
// barrier: transition a white header to gray and queue it. Gray and black
// headers are left alone. Edges found during marking are shaded by
// Tracer.Visit instead, and doMarkWork queues what it staged.
func (h *Heap) markGray(hdr *Header) {
	if hdr == nil {
		return
	}
	if hdr.color.cas(White, Gray) {
		h.grayMu.Lock()
		h.gray = append(h.gray, hdr)
		h.grayMu.Unlock()
	}
}

// beginMark transitions Idle -> Marking and seeds the gray queue with every
// rooted box on the allocation list. The scan races concurrent allocation,
// but new boxes are published pre-rooted, so a box the scan misses is safe
// for this cycle and is considered afresh in the next one.
func (h *Heap) beginMark() {
	if !h.phase.CompareAndSwap(uint32(PhaseIdle), uint32(PhaseMarking)) {
		panic("gc: mark began in phase " + Phase(h.phase.Load()).String())
	}
	// A store racing the tail of the previous cycle can leave an already
	// swept-to-white entry behind; the queue starts every cycle empty.
	h.grayMu.Lock()
	h.gray = h.gray[:0]
	h.grayMu.Unlock()
	for hdr := h.head.Load(); hdr != nil; hdr = hdr.next.Load() {
		if hdr.isRoot() {
			h.markGray(hdr)
		}
	}
}

// doMarkWork pops and scans up to budget gray headers, blackening each after
// its edges are staged. It reports whether the gray queue was drained; the
// bounded budget is what bounds the pause of one incremental step.
func (h *Heap) doMarkWork(budget int) bool {
	h.grayMu.Lock()
	defer h.grayMu.Unlock()
	var tr Tracer
	for done := 0; done < budget; done++ {
		n := len(h.gray)
		if n == 0 {
			return true
		}
		hdr := h.gray[n-1]
		h.gray[n-1] = nil
		h.gray = h.gray[:n-1]

		tr.pending = tr.pending[:0]
		hdr.vtable.trace(hdr, &tr)
		h.gray = append(h.gray, tr.pending...)

		hdr.color.cas(Gray, Black)
	}
	return len(h.gray) == 0
}

// sweep transitions Marking -> Sweeping, reclaims every white non-rooted
// box, resets survivors to white, retunes the threshold, and returns the
// heap to Idle.
//
// The walk keeps a single cursor on the previous next-link, which handles
// the head and interior nodes uniformly. Unlinking goes through a CAS: in
// the only contended case — the cursor still parked on the heap's head while
// an allocator prepends — the CAS fails, the cursor re-reads the link and
// the walk resumes through the freshly published (rooted, hence kept) nodes.
func (h *Heap) sweep() {
	if !h.phase.CompareAndSwap(uint32(PhaseMarking), uint32(PhaseSweeping)) {
		panic("gc: sweep began in phase " + Phase(h.phase.Load()).String())
	}

	var freed uint64
	cursor := &h.head
	node := cursor.Load()
	for node != nil {
		next := node.next.Load()
		if node.rootCount.Load() == 0 && node.color.load() == White {
			if cursor.CompareAndSwap(node, next) {
				freed += uint64(node.vtable.size)
				node.vtable.drop(node)
				node = next
			} else {
				node = cursor.Load()
			}
		} else {
			node.color.store(White)
			cursor = &node.next
			node = next
		}
	}

	h.bytesAllocated.Add(^(freed - 1))

	live := h.bytesAllocated.Load()
	target := live + live/2
	if target < minThreshold {
		target = minThreshold
	}
	h.threshold.Store(target)

	h.phase.Store(uint32(PhaseIdle))
}

// Collect runs a full stop-the-world cycle: seed roots, drain the gray
// queue in one step, sweep. On an idle heap with nothing to reclaim it is a
// no-op apart from the phase round-trip.
func (h *Heap) Collect() {
	h.collectMu.Lock()
	defer h.collectMu.Unlock()
	if h.closed.Load() {
		return
	}
	h.beginMark()
	h.doMarkWork(allWork)
	h.sweep()
}

// CollectIncremental runs a cycle draining the gray queue stepBudget headers
// at a time, yielding the processor between steps so mutators keep running.
// A budget <= 0 uses the default.
func (h *Heap) CollectIncremental(stepBudget int) {
	if stepBudget <= 0 {
		stepBudget = defaultStepBudget
	}
	h.collectMu.Lock()
	defer h.collectMu.Unlock()
	if h.closed.Load() {
		return
	}
	h.beginMark()
	for !h.doMarkWork(stepBudget) {
		runtime.Gosched()
	}
	h.sweep()
}

// shouldCollect reports whether allocated bytes have reached the threshold.
func (h *Heap) shouldCollect() bool {
	return h.bytesAllocated.Load() >= h.threshold.Load()
}

// Phase returns the collector's current phase.
func (h *Heap) Phase() Phase {
	return Phase(h.phase.Load())
}

func (h *Heap) isMarking() bool {
	return h.phase.Load() == uint32(PhaseMarking)
}

// BytesAllocated returns the bytes held by live boxes. The counter is
// advisory: it paces collection and is not read under any lock.
func (h *Heap) BytesAllocated() uint64 {
	return h.bytesAllocated.Load()
}

// SetThreshold overrides the byte count that authorizes automatic
// collection. The sweep retunes it after every cycle.
func (h *Heap) SetThreshold(bytes uint64) {
	h.threshold.Store(bytes)
}

// Threshold returns the current automatic collection threshold.
func (h *Heap) Threshold() uint64 {
	return h.threshold.Load()
}

// AllocationCount walks the allocation list and returns the number of live
// boxes.
func (h *Heap) AllocationCount() int {
	count := 0
	for hdr := h.head.Load(); hdr != nil; hdr = hdr.next.Load() {
		count++
	}
	return count
}

// CollectorFailed reports whether the background collector died to a panic.
// A failed collector stays down; manual collection remains available.
func (h *Heap) CollectorFailed() bool {
	return h.collectorFailed.Load()
}

// Close stops the background collector and releases every remaining box,
// rooted or not, running finalizers as it goes. Rooted handles that outlive
// Close are a usage error; dereferencing one afterwards observes a cleared
// value. Close is idempotent.
func (h *Heap) Close() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}
	h.stopCollector()

	h.collectMu.Lock()
	defer h.collectMu.Unlock()
	node := h.head.Swap(nil)
	for node != nil {
		next := node.next.Load()
		node.vtable.drop(node)
		node = next
	}
	h.bytesAllocated.Store(0)
	h.grayMu.Lock()
	h.gray = nil
	h.grayMu.Unlock()
}
