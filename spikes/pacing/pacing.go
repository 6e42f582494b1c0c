// ABOUTME: Spike simulating threshold pacing against allocation patterns
// ABOUTME: Shows the 1.5x growth rule converging for steady and bursty load

package main

import (
	"fmt"

	"github.com/prateek/trigc/gc"
)

type payload struct {
	buf [4096]byte
}

// churn allocates count payloads, keeping every keepEvery-th one rooted,
// and returns the retained handles.
func churn(ctx *gc.Context, count, keepEvery int) []gc.Rooted[payload] {
	var kept []gc.Rooted[payload]
	for i := 0; i < count; i++ {
		p := gc.Alloc(ctx, payload{})
		if keepEvery > 0 && i%keepEvery == 0 {
			kept = append(kept, p)
		} else {
			p.Release()
		}
	}
	return kept
}

func report(h *gc.Heap, label string) {
	fmt.Printf("%-28s live=%10d threshold=%10d\n", label, h.BytesAllocated(), h.Threshold())
}

func main() {
	ctx := gc.NewContext(false, 0)
	defer ctx.Close()
	h := ctx.Heap()

	report(h, "startup")

	// Steady churn: every payload dies young; the threshold should stay at
	// the floor.
	var retained []gc.Rooted[payload]
	for round := 0; round < 5; round++ {
		kept := churn(ctx, 2000, 0)
		retained = append(retained, kept...)
		ctx.Collect()
		report(h, fmt.Sprintf("steady churn round %d", round))
	}

	// Growing live set: keep every 4th payload; the threshold should track
	// 1.5x the live bytes upward.
	for round := 0; round < 5; round++ {
		kept := churn(ctx, 2000, 4)
		retained = append(retained, kept...)
		ctx.Collect()
		report(h, fmt.Sprintf("growing live set round %d", round))
	}

	// Release everything and confirm the threshold falls back to the floor.
	for i := range retained {
		retained[i].Release()
	}
	ctx.Collect()
	report(h, "after releasing all roots")
}
