// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package hull computes the convex hull of sphere centers, the outer
// boundary of a tessellation.

package hull

import (
	"errors"
	"math"

	"github.com/2dChan/apollonius/geom"
	"github.com/golang/geo/r3"
	"github.com/markus-wa/quickhull-go/v2"
)

const DefaultEps = 1e-12

var (
	ErrTooFewPoints = errors.New("hull: insufficient points for a convex hull (minimum 4 required)")
	ErrDegenerate   = errors.New("hull: inconsistent triangulation returned from QuickHull")
)

type Hull struct {
	Points    []r3.Vector
	Triangles [][3]int
	// NOTE: Sorted CCW per point (looking from outside), empty for inner points.
	IncidentTriangleIndices []int
	IncidentTriangleOffsets []int
}

// IncidentTriangles returns the triangles around point pIdx, or nil when
// pIdx is not a point of the hull.
func (h *Hull) IncidentTriangles(pIdx int) []int {
	if pIdx < 0 || pIdx+1 >= len(h.IncidentTriangleOffsets) {
		return nil
	}
	return h.IncidentTriangleIndices[h.IncidentTriangleOffsets[pIdx]:h.IncidentTriangleOffsets[pIdx+1]]
}

// OnHull reports whether point pIdx is a vertex of the hull.
func (h *Hull) OnHull(pIdx int) bool {
	return len(h.IncidentTriangles(pIdx)) > 0
}

// Volume returns the volume enclosed by the hull.
func (h *Hull) Volume() float64 {
	c := geom.MassCenter(h.Points)
	v := 0.0
	for _, t := range h.Triangles {
		v += math.Abs(geom.SignedTetrahedronVolume(c, h.Points[t[0]], h.Points[t[1]], h.Points[t[2]]))
	}
	return v
}

// New computes the convex hull of points. Triangles index points and face outwards.
func New(points []r3.Vector, eps float64) (*Hull, error) {
	if len(points) < 4 {
		return nil, ErrTooFewPoints
	}
	if eps <= 0 {
		eps = DefaultEps
	}
	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(points, true, true, eps)
	if len(ch.Indices) == 0 || len(ch.Indices)%3 != 0 {
		return nil, ErrDegenerate
	}

	numPoints := len(points)
	numTriangles := len(ch.Indices) / 3
	h := &Hull{
		Points:                  points,
		Triangles:               make([][3]int, numTriangles),
		IncidentTriangleIndices: make([]int, numTriangles*3),
		IncidentTriangleOffsets: make([]int, numPoints+1),
	}
	for _, idx := range ch.Indices {
		h.IncidentTriangleOffsets[idx+1]++
	}
	for i := range numPoints {
		h.IncidentTriangleOffsets[i+1] += h.IncidentTriangleOffsets[i]
	}

	var inner r3.Vector
	for _, idx := range ch.Indices {
		inner = inner.Add(points[idx])
	}
	inner = inner.Mul(1 / float64(len(ch.Indices)))

	nxt := make([]int, numPoints)
	copy(nxt, h.IncidentTriangleOffsets[:numPoints])
	for i := range numTriangles {
		for j := range 3 {
			p := ch.Indices[i*3+j]
			h.Triangles[i][j] = p
			h.IncidentTriangleIndices[nxt[p]] = i
			nxt[p]++
		}
		orientOutwards(&h.Triangles[i], points, inner)
	}
	for i := range numPoints {
		sortIncidentTrianglesCCW(i, h.IncidentTriangles(i), h.Triangles)
	}
	return h, nil
}

func orientOutwards(t *[3]int, points []r3.Vector, inner r3.Vector) {
	p0, p1, p2 := points[t[0]], points[t[1]], points[t[2]]
	norm := p1.Sub(p0).Cross(p2.Sub(p0))
	if norm.Dot(p0.Sub(inner)) < 0 {
		t[1], t[2] = t[2], t[1]
	}
}

// sortIncidentTrianglesCCW orders the fan around pIdx by walking from each
// triangle to the one sharing its next edge. An open fan is left unchanged.
func sortIncidentTrianglesCCW(pIdx int, incident []int, tris [][3]int) {
	if len(incident) < 3 {
		return
	}
	byPrev := make(map[int]int, len(incident))
	for _, ti := range incident {
		if prev, ok := PrevVertex(tris[ti], pIdx); ok {
			byPrev[prev] = ti
		}
	}
	fan := make([]int, 0, len(incident))
	for ti, ok := incident[0], true; ok && len(fan) < len(incident); {
		fan = append(fan, ti)
		next, _ := NextVertex(tris[ti], pIdx)
		ti, ok = byPrev[next]
		ok = ok && ti != incident[0]
	}
	if len(fan) == len(incident) {
		copy(incident, fan)
	}
}

// PrevVertex returns the vertex preceding pIdx in t, counterclockwise.
func PrevVertex(t [3]int, pIdx int) (int, bool) {
	i := vertexPosition(t, pIdx)
	if i < 0 {
		return 0, false
	}
	return t[(i+2)%3], true
}

// NextVertex returns the vertex following pIdx in t, counterclockwise.
func NextVertex(t [3]int, pIdx int) (int, bool) {
	i := vertexPosition(t, pIdx)
	if i < 0 {
		return 0, false
	}
	return t[(i+1)%3], true
}

func vertexPosition(t [3]int, pIdx int) int {
	for i, v := range t {
		if v == pIdx {
			return i
		}
	}
	return -1
}
