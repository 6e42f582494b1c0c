// ABOUTME: Tests for reverse edges and paths-to-roots
// ABOUTME: Retainer chains must end at roots and cut cycles

package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond builds: root 1 -> {2, 3}, 2 -> 4, 3 -> 4.
func diamond() *Snapshot {
	s := NewSnapshot()
	s.AddObject(&Object{ID: 1, Refs: []BoxID{2, 3}})
	s.AddObject(&Object{ID: 2, Refs: []BoxID{4}})
	s.AddObject(&Object{ID: 3, Refs: []BoxID{4}})
	s.AddObject(&Object{ID: 4})
	s.SetRoots(Roots{IDs: []BoxID{1}})
	return s
}

func TestBuildReverseEdges(t *testing.T) {
	reverse := BuildReverseEdges(diamond())

	assert.Equal(t, []BoxID{1}, reverse[2])
	assert.Equal(t, []BoxID{1}, reverse[3])
	assert.Equal(t, []BoxID{2, 3}, reverse[4], "referrer lists come out sorted")
	assert.Empty(t, reverse[1])
}

func TestPathsToRootsDiamond(t *testing.T) {
	paths := PathsToRoots(diamond(), 4, 10)
	require.Len(t, paths, 2)

	for _, p := range paths {
		assert.Equal(t, BoxID(4), p.IDs[0])
		assert.Equal(t, BoxID(1), p.IDs[len(p.IDs)-1])
		assert.Len(t, p.IDs, 3)
	}
}

func TestPathsToRootsMaxPaths(t *testing.T) {
	paths := PathsToRoots(diamond(), 4, 1)
	assert.Len(t, paths, 1)

	assert.Nil(t, PathsToRoots(diamond(), 4, 0))
}

func TestPathsToRootsFromRoot(t *testing.T) {
	paths := PathsToRoots(diamond(), 1, 10)
	require.Len(t, paths, 1)
	assert.Equal(t, []BoxID{1}, paths[0].IDs)
}

func TestPathsToRootsUnreachable(t *testing.T) {
	s := diamond()
	s.AddObject(&Object{ID: 9})
	assert.Empty(t, PathsToRoots(s, 9, 10))
	assert.Empty(t, PathsToRoots(s, 12345, 10))
}

func TestPathsToRootsCutsCycles(t *testing.T) {
	// root 1 -> 2, 2 -> 3, 3 -> 2 (cycle off the path).
	s := NewSnapshot()
	s.AddObject(&Object{ID: 1, Refs: []BoxID{2}})
	s.AddObject(&Object{ID: 2, Refs: []BoxID{3}})
	s.AddObject(&Object{ID: 3, Refs: []BoxID{2}})
	s.SetRoots(Roots{IDs: []BoxID{1}})

	paths := PathsToRoots(s, 3, 10)
	require.Len(t, paths, 1)
	assert.Equal(t, []BoxID{3, 2, 1}, paths[0].IDs)
}
