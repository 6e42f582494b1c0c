// ABOUTME: JSON snapshot format: writer plus registered parser
// ABOUTME: Round-trips captured heaps for offline retainer analysis

package dump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/exp/slices"

	"github.com/prateek/trigc/graph"
)

// jsonSnapshot is the interchange schema.
type jsonSnapshot struct {
	Objects []jsonObject  `json:"objects"`
	Roots   []graph.BoxID `json:"roots"`
}

type jsonObject struct {
	ID   graph.BoxID   `json:"id"`
	Type string        `json:"type"`
	Size uint64        `json:"size"`
	Refs []graph.BoxID `json:"refs"`
}

// WriteJSON serializes a snapshot graph. Objects are ordered by ID and the
// root set is sorted, so identical snapshots serialize identically.
func WriteJSON(w io.Writer, g graph.Graph) error {
	snap := jsonSnapshot{
		Objects: make([]jsonObject, 0, g.NumObjects()),
	}
	g.ForEachObject(func(obj *graph.Object) {
		refs := obj.Refs
		if refs == nil {
			refs = []graph.BoxID{}
		}
		snap.Objects = append(snap.Objects, jsonObject{
			ID:   obj.ID,
			Type: obj.Type,
			Size: obj.Size,
			Refs: refs,
		})
	})
	slices.SortFunc(snap.Objects, func(a, b jsonObject) bool {
		return a.ID < b.ID
	})

	snap.Roots = append([]graph.BoxID(nil), g.GetRoots().IDs...)
	if snap.Roots == nil {
		snap.Roots = []graph.BoxID{}
	}
	slices.Sort(snap.Roots)

	enc := json.NewEncoder(w)
	return enc.Encode(snap)
}

// JSONParser reads snapshots written by WriteJSON.
type JSONParser struct{}

// CanParse checks for the snapshot schema's objects field. The preview may
// be a truncated prefix of a large snapshot, so this inspects bytes rather
// than decoding.
func (p *JSONParser) CanParse(r io.Reader) bool {
	buf := make([]byte, 1024)
	n, err := r.Read(buf)
	if (err != nil && err != io.EOF) || n == 0 {
		return false
	}
	head := bytes.TrimLeft(buf[:n], " \t\r\n")
	return len(head) > 0 && head[0] == '{' && bytes.Contains(head, []byte(`"objects"`))
}

// Parse reads a JSON snapshot and builds a graph.
func (p *JSONParser) Parse(r io.Reader) (graph.Graph, error) {
	var snap jsonSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode JSON snapshot: %w", err)
	}

	for i, obj := range snap.Objects {
		if obj.ID == 0 {
			return nil, fmt.Errorf("object at index %d missing id", i)
		}
	}

	g := graph.NewSnapshot()
	for _, obj := range snap.Objects {
		refs := obj.Refs
		if refs == nil {
			refs = []graph.BoxID{}
		}
		g.AddObject(&graph.Object{
			ID:   obj.ID,
			Type: obj.Type,
			Size: obj.Size,
			Refs: refs,
		})
	}

	roots := graph.Roots{IDs: snap.Roots}
	if roots.IDs == nil {
		roots.IDs = []graph.BoxID{}
	}
	g.SetRoots(roots)

	return g, nil
}

func init() {
	Register(&JSONParser{})
}
