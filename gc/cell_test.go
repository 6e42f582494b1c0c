// ABOUTME: Tests for the write-barrier cell
// ABOUTME: Stores during marking must shade the incoming target

package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cellNode struct {
	value int
	next  Cell[cellNode]
}

func (n *cellNode) Trace(tr *Tracer) {
	n.next.Trace(tr)
}

func TestCellLoadStore(t *testing.T) {
	ctx := NewContext(false, 0)
	defer ctx.Close()

	a := Alloc(ctx, cellNode{value: 1})
	defer a.Release()
	b := Alloc(ctx, cellNode{value: 2})
	defer b.Release()

	var c Cell[cellNode]
	assert.True(t, c.Load().IsNil())

	c.Store(a.Unrooted())
	got := c.Load().Root()
	assert.Equal(t, 1, got.Get().value)
	got.Release()

	c.Store(b.Unrooted())
	got = c.Load().Root()
	assert.Equal(t, 2, got.Get().value)
	got.Release()

	c.Store(Unrooted[cellNode]{})
	assert.True(t, c.Load().IsNil())
}

func TestNewCell(t *testing.T) {
	ctx := NewContext(false, 0)
	defer ctx.Close()

	a := Alloc(ctx, cellNode{value: 5})
	defer a.Release()

	c := NewCell(a.Unrooted())
	assert.Equal(t, a.u.h, c.Load().h)
}

func TestCellStoreShadesDuringMarking(t *testing.T) {
	ctx := NewContext(false, 0)
	defer ctx.Close()
	h := ctx.Heap()

	holder := Alloc(ctx, cellNode{})
	defer holder.Release()
	target := Alloc(ctx, cellNode{value: 9})
	targetHdr := target.u.h
	target.Release() // unreachable except through the pending store

	h.beginMark()
	require.Equal(t, PhaseMarking, h.Phase())

	holder.Get().next.Store(Unrooted[cellNode]{h: targetHdr})
	assert.NotEqual(t, White, targetHdr.color.load(), "insertion barrier must shade the incoming target")

	for !h.doMarkWork(1) {
	}
	h.sweep()

	// The target survived the cycle it was installed during.
	got := holder.Get().next.Load().Root()
	assert.Equal(t, 9, got.Get().value)
	got.Release()
}

func TestCellStoreDoesNotShadeWhileIdle(t *testing.T) {
	ctx := NewContext(false, 0)
	defer ctx.Close()

	holder := Alloc(ctx, cellNode{})
	defer holder.Release()
	target := Alloc(ctx, cellNode{})
	defer target.Release()

	holder.Get().next.Store(target.Unrooted())
	assert.Equal(t, White, target.u.h.color.load())
}

func TestCellTraceReportsTarget(t *testing.T) {
	ctx := NewContext(false, 0)
	defer ctx.Close()

	a := Alloc(ctx, cellNode{})
	defer a.Release()
	b := Alloc(ctx, cellNode{})
	defer b.Release()
	a.Get().next.Store(b.Unrooted())

	tr := Tracer{record: true}
	a.Get().Trace(&tr)
	require.Len(t, tr.edges, 1)
	assert.Equal(t, b.u.h, tr.edges[0])
}
