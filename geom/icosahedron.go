// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geom

import (
	"math"
	"slices"

	"github.com/2dChan/apollonius/tuple"
	"github.com/golang/geo/r3"
)

// Icosahedron is a subdivided icosahedron inscribed in a sphere.
type Icosahedron struct {
	Center    r3.Vector
	Radius    float64
	Vertices  []r3.Vector
	Triangles [][3]int
}

var icosahedronTriangles = [20][3]int{
	{0, 8, 4}, {1, 10, 7}, {2, 9, 11}, {7, 3, 1}, {0, 5, 10},
	{3, 9, 6}, {3, 11, 9}, {8, 6, 4}, {2, 4, 9}, {3, 7, 11},
	{4, 2, 0}, {9, 4, 6}, {2, 11, 5}, {0, 10, 8}, {5, 0, 2},
	{10, 5, 7}, {1, 6, 8}, {1, 8, 10}, {6, 1, 3}, {11, 7, 5},
}

// NewIcosahedron returns the unit icosahedron centered at the origin with
// every triangle split into four depth times.
func NewIcosahedron(depth int) *Icosahedron {
	t := (1 + math.Sqrt(5)) / 2
	raw := []r3.Vector{
		{X: t, Y: 1}, {X: -t, Y: 1}, {X: t, Y: -1}, {X: -t, Y: -1},
		{X: 1, Z: t}, {X: 1, Z: -t}, {X: -1, Z: t}, {X: -1, Z: -t},
		{Y: t, Z: 1}, {Y: -t, Z: 1}, {Y: t, Z: -1}, {Y: -t, Z: -1},
	}
	ico := &Icosahedron{
		Radius:    1,
		Vertices:  make([]r3.Vector, len(raw)),
		Triangles: slices.Clone(icosahedronTriangles[:]),
	}
	for i, v := range raw {
		ico.Vertices[i] = v.Normalize()
	}
	for range depth {
		ico.grow()
	}
	return ico
}

func (ico *Icosahedron) grow() {
	middles := make(map[tuple.Pair]int, len(ico.Triangles)*3/2)
	middle := func(a, b int) int {
		p := tuple.NewPair(a, b)
		if id, ok := middles[p]; ok {
			return id
		}
		m := ico.Vertices[a].Sub(ico.Center).Add(ico.Vertices[b].Sub(ico.Center)).Mul(0.5)
		ico.Vertices = append(ico.Vertices, ico.Center.Add(m.Normalize().Mul(ico.Radius)))
		middles[p] = len(ico.Vertices) - 1
		return middles[p]
	}

	triangles := make([][3]int, 0, len(ico.Triangles)*4)
	for _, tr := range ico.Triangles {
		m0 := middle(tr[1], tr[2])
		m1 := middle(tr[0], tr[2])
		m2 := middle(tr[0], tr[1])
		triangles = append(triangles,
			[3]int{tr[0], m2, m1},
			[3]int{tr[1], m0, m2},
			[3]int{tr[2], m1, m0},
			[3]int{m0, m1, m2},
		)
	}
	ico.Triangles = triangles
}

// FitIntoSphere moves and scales ico so that it is inscribed in the sphere.
func (ico *Icosahedron) FitIntoSphere(center r3.Vector, r float64) {
	for i, v := range ico.Vertices {
		ico.Vertices[i] = center.Add(v.Sub(ico.Center).Normalize().Mul(r))
	}
	ico.Center = center
	ico.Radius = r
}
