// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package bsh

import (
	"slices"

	"github.com/2dChan/apollonius/geom"
)

// FindAnyCollision returns the id of some leaf intersecting s.
func (h *Hierarchy) FindAnyCollision(s geom.Sphere) (int, bool) {
	res := h.Search(
		func(n geom.Sphere) bool { return h.tol.Intersect(n, s) },
		func(_ int, l geom.Sphere) (bool, bool) {
			hit := h.tol.Intersect(l, s)
			return hit, hit
		},
	)
	if len(res) == 0 {
		return -1, false
	}
	return res[0], true
}

// FindAllCollisions returns the sorted ids of all leaves intersecting s.
func (h *Hierarchy) FindAllCollisions(s geom.Sphere) []int {
	res := h.Search(
		func(n geom.Sphere) bool { return h.tol.Intersect(n, s) },
		func(_ int, l geom.Sphere) (bool, bool) { return h.tol.Intersect(l, s), false },
	)
	slices.Sort(res)
	return res
}

// FindNearby returns the sorted ids of all leaves closer to s than expansion.
func (h *Hierarchy) FindNearby(s geom.Sphere, expansion float64) []int {
	return h.FindAllCollisions(s.Expand(expansion))
}

// FindAllHiddenSpheres returns the sorted ids of leaves enclosed by another
// leaf. Of several equal leaves all but the first one are hidden.
func (h *Hierarchy) FindAllHiddenSpheres() []int {
	var hidden []int
	for i, s := range h.leaves {
		res := h.Search(
			func(n geom.Sphere) bool { return !h.tol.Greater(n.Center.Distance(s.Center), n.R+s.R) },
			func(j int, l geom.Sphere) (bool, bool) {
				if j == i || !h.tol.Contains(l, s) {
					return false, false
				}
				if j > i && h.tol.SpheresEqual(l, s) {
					return false, false
				}
				return true, true
			},
		)
		if len(res) > 0 {
			hidden = append(hidden, i)
		}
	}
	return hidden
}
