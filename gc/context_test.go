// ABOUTME: Tests for the Context facade and the ambient current-heap slot
// ABOUTME: Contexts nest by save/restore and adopt shared heaps

package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextInstallsAmbientHeap(t *testing.T) {
	require.Nil(t, currentHeap.Load())

	ctx := NewContext(false, 0)
	assert.Same(t, ctx.Heap(), currentHeap.Load())

	ctx.Close()
	assert.Nil(t, currentHeap.Load())
}

func TestContextNesting(t *testing.T) {
	outer := NewContext(false, 0)
	inner := NewContext(false, 0)

	assert.Same(t, inner.Heap(), currentHeap.Load())
	inner.Close()
	assert.Same(t, outer.Heap(), currentHeap.Load())
	outer.Close()
	assert.Nil(t, currentHeap.Load())
}

func TestFromHeapDoesNotCloseHeap(t *testing.T) {
	owner := NewContext(false, 0)
	defer owner.Close()
	h := owner.Heap()

	borrowed := FromHeap(h)
	v := Alloc(borrowed, 11)
	borrowed.Close()

	// The heap outlives the borrowing context.
	assert.Equal(t, 11, *v.Get())
	v.Release()
	h.Collect()
	assert.Equal(t, 0, h.AllocationCount())
}

func TestContextCloseIdempotent(t *testing.T) {
	ctx := NewContext(false, 0)
	ctx.Close()
	ctx.Close()
	assert.Nil(t, currentHeap.Load())
}

func TestManualContextHasNoCollector(t *testing.T) {
	ctx := NewContext(false, 0)
	defer ctx.Close()
	assert.Nil(t, ctx.Heap().collector)
	assert.False(t, ctx.Heap().CollectorFailed())
}

func TestContextCollectDrivers(t *testing.T) {
	ctx := NewContext(false, 0)
	defer ctx.Close()

	a := Alloc(ctx, 1)
	b := Alloc(ctx, 2)
	a.Release()
	ctx.Collect()
	assert.Equal(t, 1, ctx.Heap().AllocationCount())

	b.Release()
	ctx.CollectIncremental(1)
	assert.Equal(t, 0, ctx.Heap().AllocationCount())
}
