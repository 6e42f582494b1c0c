// ABOUTME: Spike measuring stop-the-world vs incremental pause distributions
// ABOUTME: Times whole cycles per step budget; single steps are not timed

package main

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/prateek/trigc/gc"
)

type listNode struct {
	payload [64]byte
	next    gc.Cell[listNode]
}

func (n *listNode) Trace(tr *gc.Tracer) {
	n.next.Trace(tr)
}

// buildChain allocates a linked chain of n nodes and returns the rooted head.
func buildChain(ctx *gc.Context, n int) gc.Rooted[listNode] {
	head := gc.Alloc(ctx, listNode{})
	prev := head.Clone()
	for i := 1; i < n; i++ {
		node := gc.Alloc(ctx, listNode{})
		node.Get().next.Store(prev.Unrooted())
		prev.Release()
		prev = node
	}
	// Chain hangs off the last allocated node; keep that one rooted and
	// let the original head ride along as an interior node.
	head.Release()
	return prev
}

func summarize(name string, samples []float64) {
	mean := stat.Mean(samples, nil)
	sigma := stat.StdDev(samples, nil)
	max := samples[0]
	for _, s := range samples {
		if s > max {
			max = s
		}
	}
	fmt.Printf("%-24s n=%-5d mean=%8.1fus stddev=%8.1fus max=%8.1fus\n",
		name, len(samples), mean, sigma, max)
}

func main() {
	const chainLen = 50000
	const rounds = 20

	// Stop-the-world: one pause per cycle.
	var stw []float64
	func() {
		ctx := gc.NewContext(false, 0)
		defer ctx.Close()
		head := buildChain(ctx, chainLen)
		defer head.Release()
		for i := 0; i < rounds; i++ {
			start := time.Now()
			ctx.Collect()
			stw = append(stw, float64(time.Since(start).Microseconds()))
		}
	}()
	summarize("stop-the-world cycle", stw)

	// Incremental: the whole cycle still runs on this goroutine, but each
	// step is bounded, which is what an interleaved mutator would feel.
	for _, budget := range []int{10, 100, 1000} {
		var cycles []float64
		func() {
			ctx := gc.NewContext(false, 0)
			defer ctx.Close()
			head := buildChain(ctx, chainLen)
			defer head.Release()
			for i := 0; i < rounds; i++ {
				start := time.Now()
				ctx.CollectIncremental(budget)
				cycles = append(cycles, float64(time.Since(start).Microseconds()))
			}
		}()
		summarize(fmt.Sprintf("incremental budget=%d", budget), cycles)
	}
}
