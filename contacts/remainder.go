// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package contacts

import (
	"slices"

	"github.com/2dChan/apollonius/geom"
	"github.com/golang/geo/r3"
)

const remainderProjections = 10

// remainder is the part of the probe-expanded surface of a sphere that no
// neighbor's expanded sphere covers, as a list of triangles on it.
type remainder [][3]r3.Vector

type sphereInput struct {
	id        int
	tangents  []geom.Sphere
	neighbors []int
}

func remainderPossible(tangents []geom.Sphere, probe float64) bool {
	for _, t := range tangents {
		if t.R > probe {
			return true
		}
	}
	return false
}

func contactRemainder(spheres []geom.Sphere, si sphereInput, probe float64, base *geom.Icosahedron) remainder {
	if !remainderPossible(si.tangents, probe) || len(si.neighbors) == 0 {
		return nil
	}
	a := spheres[si.id]
	aExp := a.Expand(probe)

	ico := *base
	ico.Vertices = slices.Clone(base.Vertices)
	ico.FitIntoSphere(aExp.Center, aExp.R)
	rem := make(remainder, len(ico.Triangles))
	for i, t := range ico.Triangles {
		rem[i] = [3]r3.Vector{ico.Vertices[t[0]], ico.Vertices[t[1]], ico.Vertices[t[2]]}
	}

	neighbors := slices.Clone(si.neighbors)
	sortByDistance(spheres, a.Center, neighbors)
	for _, cID := range neighbors {
		rem = cutRemainder(rem, spheres[cID].Expand(probe), aExp)
	}
	return rem
}

func cutRemainder(rem remainder, s, surface geom.Sphere) remainder {
	res := make(remainder, 0, len(rem))
	for _, t := range rem {
		var marks [3]bool
		count := 0
		for i, p := range t {
			if p.Distance(s.Center) < s.R {
				marks[i] = true
				count++
			}
		}
		switch count {
		case 0:
			res = append(res, t)
		case 3:
		default:
			// s0 is the vertex alone on its side.
			s0 := slices.Index(marks[:], count == 1)
			s1, s2 := (s0+1)%3, (s0+2)%3
			c01, ok1 := geom.IntersectSegmentWithSphere(t[s0], t[s1], s)
			c02, ok2 := geom.IntersectSegmentWithSphere(t[s0], t[s2], s)
			if !ok1 || !ok2 {
				res = append(res, t)
				continue
			}
			c01 = projectOnSpheres(c01, surface, s)
			c02 = projectOnSpheres(c02, surface, s)
			if count == 2 {
				res = append(res, [3]r3.Vector{t[s0], c01, c02})
			} else {
				res = append(res, [3]r3.Vector{t[s1], c02, c01}, [3]r3.Vector{t[s1], t[s2], c02})
			}
		}
	}
	return res
}

func projectOnSpheres(p r3.Vector, a, b geom.Sphere) r3.Vector {
	for range remainderProjections {
		p = a.Center.Add(p.Sub(a.Center).Normalize().Mul(a.R))
		p = b.Center.Add(p.Sub(b.Center).Normalize().Mul(b.R))
	}
	return p
}

func (rem remainder) area(surface geom.Sphere) float64 {
	s := 0.0
	for _, t := range rem {
		s += geom.SphericalTriangleArea(surface, t[0], t[1], t[2])
	}
	return s
}

// direction returns the unit area-weighted mean direction of the remainder
// as seen from the center of surface.
func (rem remainder) direction(surface geom.Sphere) r3.Vector {
	var d r3.Vector
	for _, t := range rem {
		w := geom.SphericalTriangleArea(surface, t[0], t[1], t[2])
		for _, p := range t {
			d = d.Add(p.Sub(surface.Center).Mul(w / 3))
		}
	}
	if d.Norm() == 0 {
		return d
	}
	return d.Normalize()
}
