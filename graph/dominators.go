// ABOUTME: Lengauer-Tarjan immediate dominators over snapshot graphs
// ABOUTME: A box's sole retainer chain runs through its dominators

package graph

// Dominators computes the immediate dominator of every box reachable from
// the root set, using the Lengauer-Tarjan algorithm with path compression.
// A synthetic super-root (ID 0) refers to every root, so boxes kept alive
// through several independent roots are dominated by the super-root alone.
// Returns a map from box ID to its immediate dominator; the super-root
// itself is omitted.
func Dominators(g Graph) map[BoxID]BoxID {
	// Forward adjacency, with the super-root edge into each root.
	adj := make(map[BoxID][]BoxID, g.NumObjects()+1)
	g.ForEachObject(func(obj *Object) {
		if len(obj.Refs) > 0 {
			adj[obj.ID] = append([]BoxID(nil), obj.Refs...)
		}
	})
	roots := g.GetRoots()
	if len(roots.IDs) > 0 {
		adj[0] = roots.IDs
	}

	// Iterative DFS from the super-root: number vertices and record
	// spanning-tree parents and predecessor lists. Unreachable boxes never
	// get a number and drop out of every later step.
	var (
		dfsNum int
		vertex []BoxID
		dfnum  = make(map[BoxID]int)
		parent = make(map[BoxID]int)
		semi   = make(map[BoxID]int)
		preds  = make(map[BoxID][]BoxID)
	)
	type frame struct {
		v BoxID
		p int
	}
	stack := []frame{{v: 0, p: -1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, visited := dfnum[f.v]; visited {
			continue
		}
		dfnum[f.v] = dfsNum
		vertex = append(vertex, f.v)
		parent[f.v] = f.p
		semi[f.v] = dfsNum
		dfsNum++
		succs := adj[f.v]
		for i := len(succs) - 1; i >= 0; i-- {
			stack = append(stack, frame{v: succs[i], p: dfnum[f.v]})
		}
	}
	for v, succs := range adj {
		if _, reachable := dfnum[v]; !reachable {
			continue
		}
		for _, w := range succs {
			preds[w] = append(preds[w], v)
		}
	}

	// Link-eval forest with path compression.
	ancestor := make(map[BoxID]int, dfsNum)
	best := make(map[BoxID]BoxID, dfsNum)
	samedom := make(map[BoxID]BoxID, dfsNum)
	idom := make(map[BoxID]BoxID, dfsNum)
	bucket := make(map[int][]BoxID)
	for _, v := range vertex {
		ancestor[v] = -1
		best[v] = v
		samedom[v] = v
	}

	var compress func(v BoxID)
	compress = func(v BoxID) {
		anc := vertex[ancestor[v]]
		if ancestor[anc] == -1 {
			return
		}
		compress(anc)
		if semi[best[anc]] < semi[best[v]] {
			best[v] = best[anc]
		}
		ancestor[v] = ancestor[anc]
	}
	eval := func(v BoxID) BoxID {
		if ancestor[v] == -1 {
			return v
		}
		compress(v)
		return best[v]
	}

	for i := dfsNum - 1; i > 0; i-- {
		w := vertex[i]

		// Semidominator of w: the smallest-numbered vertex from which w is
		// reachable along a path whose interior vertices are all numbered
		// higher than w.
		for _, v := range preds[w] {
			vNum, reachable := dfnum[v]
			if !reachable {
				continue
			}
			var u BoxID
			if vNum <= dfnum[w] {
				u = v
			} else {
				u = eval(v)
			}
			if semi[u] < semi[w] {
				semi[w] = semi[u]
			}
		}
		bucket[semi[w]] = append(bucket[semi[w]], w)
		ancestor[w] = parent[w]

		// Vertices whose semidominator is w's parent can be resolved now,
		// either to the parent itself or deferred through samedom.
		for _, v := range bucket[parent[w]] {
			u := eval(v)
			if semi[u] == semi[v] {
				idom[v] = vertex[parent[w]]
			} else {
				samedom[v] = u
			}
		}
		bucket[parent[w]] = nil
	}

	for i := 1; i < dfsNum; i++ {
		w := vertex[i]
		if samedom[w] != w {
			idom[w] = idom[samedom[w]]
		}
	}

	delete(idom, 0)
	return idom
}
