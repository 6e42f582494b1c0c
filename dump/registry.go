// ABOUTME: Registry for snapshot parsers
// ABOUTME: Selects the parser that recognizes a saved snapshot's format

package dump

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/prateek/trigc/graph"
)

// ErrNoParser is returned when no registered parser recognizes the format.
var ErrNoParser = errors.New("no parser found for snapshot format")

type parserRegistry struct {
	mu      sync.RWMutex
	parsers []Parser
}

var registry = &parserRegistry{}

// Register adds a parser to the registry. Typically called from a parser
// package's init.
func Register(p Parser) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.parsers = append(registry.parsers, p)
}

// Open reads a saved snapshot, trying each registered parser until one
// recognizes the format.
func Open(r io.Reader) (graph.Graph, error) {
	// Buffer a detection window; each parser gets a fresh view of it, and
	// the winning parser re-reads it ahead of the rest of the stream.
	preview := make([]byte, 4096)
	n, err := io.ReadFull(r, preview)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	preview = preview[:n]

	registry.mu.RLock()
	defer registry.mu.RUnlock()

	for _, parser := range registry.parsers {
		if parser.CanParse(bytes.NewReader(preview)) {
			return parser.Parse(io.MultiReader(bytes.NewReader(preview), r))
		}
	}

	return nil, ErrNoParser
}
