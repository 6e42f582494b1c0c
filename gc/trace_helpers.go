// ABOUTME: Trace helpers for containers of handles and cells
// ABOUTME: Composite values delegate their edge reporting through these

package gc

// TraceAll reports every handle in a slice as an outgoing edge. Slices of
// values without managed edges need no tracing at all.
func TraceAll[T any](tr *Tracer, handles []Unrooted[T]) {
	for _, u := range handles {
		u.Trace(tr)
	}
}

// TraceCells reports the current target of every cell in a slice.
func TraceCells[T any](tr *Tracer, cells []Cell[T]) {
	for i := range cells {
		cells[i].Trace(tr)
	}
}

// TraceMap reports every handle value in a map. Key order does not matter to
// the collector; shading is idempotent.
func TraceMap[K comparable, T any](tr *Tracer, m map[K]Unrooted[T]) {
	for _, u := range m {
		u.Trace(tr)
	}
}

// TraceValues reports every element of a slice of traceable values, for
// composites holding nested structs rather than handles.
func TraceValues[T any, PT interface {
	*T
	Trace(*Tracer)
}](tr *Tracer, values []T) {
	for i := range values {
		PT(&values[i]).Trace(tr)
	}
}
