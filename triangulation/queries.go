// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package triangulation

import (
	"slices"

	"github.com/2dChan/apollonius/geom"
	"github.com/2dChan/apollonius/tuple"
)

// NeighborsMap returns, for every sphere of a quadruple, the other spheres
// it shares a quadruple with.
func NeighborsMap(qm QuadruplesMap) map[int]map[int]struct{} {
	res := make(map[int]map[int]struct{})
	for q := range qm {
		for _, a := range q {
			set, ok := res[a]
			if !ok {
				set = make(map[int]struct{})
				res[a] = set
			}
			for _, b := range q {
				if a != b {
					set[b] = struct{}{}
				}
			}
		}
	}
	return res
}

// NeighborsGraph returns the sorted neighbor list of every sphere in [0, n).
func NeighborsGraph(qm QuadruplesMap, n int) [][]int {
	graph := make([][]int, n)
	for id, set := range NeighborsMap(qm) {
		if id < 0 || id >= n {
			continue
		}
		for other := range set {
			graph[id] = append(graph[id], other)
		}
		slices.Sort(graph[id])
	}
	return graph
}

// PairsNeighbors returns, for every pair of a quadruple, the sorted union of
// the other members of the quadruples containing it.
func PairsNeighbors(qm QuadruplesMap) map[tuple.Pair][]int {
	sets := make(map[tuple.Pair]map[int]struct{})
	for q := range qm {
		for a := 0; a < 4; a++ {
			for b := a + 1; b < 4; b++ {
				p := tuple.NewPair(q[a], q[b])
				set, ok := sets[p]
				if !ok {
					set = make(map[int]struct{})
					sets[p] = set
				}
				for c := 0; c < 4; c++ {
					if c != a && c != b {
						set[q[c]] = struct{}{}
					}
				}
			}
		}
	}
	return flatten(sets)
}

// TriplesNeighbors returns, for every face, the sorted ids completing it to a quadruple.
func TriplesNeighbors(qm QuadruplesMap) map[tuple.Triple][]int {
	sets := make(map[tuple.Triple]map[int]struct{})
	for q := range qm {
		for i, t := range q.Triples() {
			set, ok := sets[t]
			if !ok {
				set = make(map[int]struct{})
				sets[t] = set
			}
			set[q[i]] = struct{}{}
		}
	}
	return flatten(sets)
}

// PairsVertices returns, for every pair, the tangent spheres of the
// quadruples containing it.
func PairsVertices(qm QuadruplesMap) map[tuple.Pair][]geom.Sphere {
	res := make(map[tuple.Pair][]geom.Sphere)
	for _, q := range sortedQuadruples(qm) {
		for _, p := range q.Pairs() {
			res[p] = append(res[p], qm[q]...)
		}
	}
	return res
}

// TriplesVertices returns, for every face, the tangent spheres of the
// quadruples containing it.
func TriplesVertices(qm QuadruplesMap) map[tuple.Triple][]geom.Sphere {
	res := make(map[tuple.Triple][]geom.Sphere)
	for _, q := range sortedQuadruples(qm) {
		for _, t := range q.Triples() {
			res[t] = append(res[t], qm[q]...)
		}
	}
	return res
}

// IDsVertices returns, for every sphere, the tangent spheres of the
// quadruples containing it.
func IDsVertices(qm QuadruplesMap) map[int][]geom.Sphere {
	res := make(map[int][]geom.Sphere)
	for _, q := range sortedQuadruples(qm) {
		for _, id := range q {
			res[id] = append(res[id], qm[q]...)
		}
	}
	return res
}

// OpenTriples returns the sorted faces that belong to exactly one quadruple.
func (r *Result) OpenTriples() []tuple.Triple {
	var open []tuple.Triple
	for t, ids := range TriplesNeighbors(r.Quadruples) {
		if len(ids) == 1 {
			open = append(open, t)
		}
	}
	slices.SortFunc(open, tuple.Triple.Compare)
	return open
}

func flatten[K comparable](sets map[K]map[int]struct{}) map[K][]int {
	res := make(map[K][]int, len(sets))
	for k, set := range sets {
		ids := make([]int, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		res[k] = ids
	}
	return res
}
