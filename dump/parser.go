// ABOUTME: Parser interface for snapshot formats
// ABOUTME: Defines the contract for pluggable snapshot readers

package dump

import (
	"io"

	"github.com/prateek/trigc/graph"
)

// Parser reads a saved snapshot back into a graph.
type Parser interface {
	// CanParse checks if this parser can handle the given snapshot format.
	// The reader is a preview — implementations should read a small amount
	// to detect the format and not consume the entire stream
	CanParse(r io.Reader) bool

	// Parse reads the snapshot and builds a graph. The reader is a fresh
	// reader positioned at the start
	Parse(r io.Reader) (graph.Graph, error)
}
