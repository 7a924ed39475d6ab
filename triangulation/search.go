// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package triangulation

import (
	"math"

	"github.com/2dChan/apollonius/bsh"
	"github.com/2dChan/apollonius/geom"
	"github.com/2dChan/apollonius/tuple"
	"github.com/golang/geo/r3"
)

// findAnyD records the first sphere that completes f beyond tangent plane n,
// looking first near the D already found beyond the other plane.
func findAnyD(h *bsh.Hierarchy, f *face, n int) bool {
	if f.hasD(n) {
		return false
	}
	var constraint geom.Sphere
	constrained := false
	if other := 1 - n; f.hasD(other) {
		constraint = f.d[other].tangent
		constrained = true
	}
	node := func(s geom.Sphere) bool {
		return (!constrained || f.tol.Intersect(constraint, s)) && f.sphereMayContainD(s, n)
	}
	leaf := func(id int, _ geom.Sphere) (bool, bool) {
		if ts, ok := f.checkCandidateForD(id, n); ok {
			f.setD(id, n, ts)
			return true, true
		}
		return false, false
	}
	h.Search(node, leaf)
	if constrained && !f.hasD(n) {
		constrained = false
		h.Search(node, leaf)
	}
	return f.hasD(n)
}

// findValidD replaces the D beyond plane n until its tangent sphere is empty.
func findValidD(h *bsh.Hierarchy, f *face, n int) bool {
	if !f.hasD(n) {
		return false
	}
	monitor := make(map[int]struct{})
	node := func(s geom.Sphere) bool {
		return f.hasD(n) && f.tol.Intersect(s, f.d[n].tangent)
	}
	leaf := func(id int, s geom.Sphere) (bool, bool) {
		if !f.hasD(n) || !f.tol.Intersect(s, f.d[n].tangent) {
			return false, false
		}
		if ts, ok := f.checkCandidateForD(id, n); ok {
			if _, seen := monitor[id]; !seen {
				f.setD(id, n, ts)
				monitor[id] = struct{}{}
				return true, true
			}
		}
		return true, false
	}
	for f.hasD(n) {
		results := h.Search(node, leaf)
		if len(results) == 0 {
			return true
		}
		if f.d[n].id != results[len(results)-1] {
			f.unsetD(n)
		}
	}
	return false
}

// findValidE records every sphere between the tangent planes of f whose
// tangent sphere with f is empty.
func findValidE(h *bsh.Hierarchy, f *face) bool {
	f.updateMiddleRegion()
	node := f.sphereMayContainE
	leaf := func(id int, _ geom.Sphere) (bool, bool) {
		added := false
		for _, ts := range f.checkCandidateForE(id) {
			if _, hit := h.FindAnyCollision(ts); !hit {
				f.addE(id, ts)
				added = true
			}
		}
		return added, false
	}
	return len(h.Search(node, leaf)) > 0
}

// selectStartingSphere returns the admitted sphere closest to the centroid
// of the admitted spheres.
func selectStartingSphere(spheres []geom.Sphere, admitted []bool) int {
	var center r3.Vector
	count := 0
	for i, s := range spheres {
		if admitted[i] {
			center = center.Add(s.Center)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	center = center.Mul(1 / float64(count))
	best, bestDist := 0, math.MaxFloat64
	for i, s := range spheres {
		if !admitted[i] {
			continue
		}
		if d := center.Distance(s.Center); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// findFirstValidFaces searches the neighborhood of start for a quadruple
// with an empty tangent sphere and returns one of its faces. With fixStart
// the face always contains start.
func findFirstValidFaces(h *bsh.Hierarchy, admitted []bool, start int, iterations *int,
	fixStart, allowTwo bool, maxTraversal int,
) []*face {
	spheres := h.Leaves()
	if len(spheres) < 4 || start < 0 || start >= len(spheres) {
		return nil
	}
	tol := h.Tolerance()
	traversal := bsh.SortByDistance(len(spheres), start, func(a, b int) float64 {
		return geom.MinDistance(spheres[a], spheres[b])
	})
	empty := func(s geom.Sphere) bool {
		_, hit := h.FindAnyCollision(s)
		return !hit
	}
	limit := min(len(traversal), maxTraversal)
	for d := 3; d < limit; d++ {
		aEnd := d
		if fixStart {
			aEnd = 1
		}
		for a := 0; a < aEnd; a++ {
			for b := a + 1; b < d; b++ {
				for c := b + 1; c < d; c++ {
					*iterations++
					ta, tb, tc := traversal[a], traversal[b], traversal[c]
					if !admitted[ta] && !admitted[tb] && !admitted[tc] {
						continue
					}
					td := traversal[d]
					ts := tol.TangentSpheres(spheres[ta], spheres[tb], spheres[tc], spheres[td])
					if (len(ts) == 1 && empty(ts[0])) ||
						(allowTwo && len(ts) == 2 && (empty(ts[0]) || empty(ts[1]))) {
						triple := tuple.NewTriple(ta, tb, tc)
						return []*face{newFace(spheres, triple, h.MinRadius(), tol)}
					}
				}
			}
		}
	}
	return nil
}
