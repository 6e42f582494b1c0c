// ABOUTME: Rooted and Unrooted handles to managed boxes
// ABOUTME: Root-count discipline: live Rooted handles == rootCount, with multiplicity

package gc

import "unsafe"

// Unrooted is a plain one-word handle to a managed box. It carries no root
// reference: copying it is free and does not affect reachability. It cannot
// be dereferenced directly; promote it with Root, and only while some chain
// of Rooted handles and Trace edges keeps the target reachable. Unrooted is
// the handle kind to embed inside managed values.
type Unrooted[T any] struct {
	h *Header
}

// IsNil reports whether the handle refers to no box.
func (u Unrooted[T]) IsNil() bool {
	return u.h == nil
}

// Root promotes the handle to a Rooted one, adding one root count unit.
// The caller owns the returned handle and must Release it.
func (u Unrooted[T]) Root() Rooted[T] {
	if u.h == nil {
		panic("gc: rooting a nil handle")
	}
	u.h.incRoot()
	return Rooted[T]{u: u}
}

// Trace reports the handle's target as an outgoing edge.
func (u Unrooted[T]) Trace(tr *Tracer) {
	tr.Visit(u.h)
}

// Rooted owns exactly one root count unit on its target: while it is live
// the target cannot be reclaimed. It is the only handle kind that
// dereferences. Go has no destructors, so the unit is returned by an
// explicit Release; a Rooted handle must not be copied by assignment — use
// Clone, which accounts for the extra unit.
type Rooted[T any] struct {
	u Unrooted[T]
}

// Get returns the managed value. The pointer stays valid for as long as the
// box is reachable; holding it past Release without another live Rooted
// handle is a usage error.
func (r *Rooted[T]) Get() *T {
	if r.u.h == nil {
		panic("gc: dereference of released handle")
	}
	return &(*box[T])(unsafe.Pointer(r.u.h)).data
}

// Clone returns an independent Rooted handle, adding one root count unit.
func (r *Rooted[T]) Clone() Rooted[T] {
	return r.u.Root()
}

// Unrooted returns the embeddable form of the handle. The returned handle
// does not keep the target alive on its own.
func (r *Rooted[T]) Unrooted() Unrooted[T] {
	return r.u
}

// Release gives up the handle's root count unit. The target simply becomes
// eligible for the next cycle if this was the last unit; nothing is
// reclaimed eagerly. Release on an already-released handle panics.
func (r *Rooted[T]) Release() {
	if r.u.h == nil {
		panic("gc: double release of rooted handle")
	}
	r.u.h.decRoot()
	r.u.h = nil
}

// Trace reports the target as an outgoing edge. Embedding a Rooted handle
// inside a managed value is legal but rarely useful; the embedded handle
// keeps its own root unit, so the target is pinned until the handle is
// released regardless of tracing.
func (r *Rooted[T]) Trace(tr *Tracer) {
	tr.Visit(r.u.h)
}
