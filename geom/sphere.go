// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geom

import (
	"errors"
	"math"

	"github.com/golang/geo/r3"
)

var ErrMismatchedLengths = errors.New("geom: centers and radii have different lengths")

// Sphere is a weighted point: a center and a non-negative radius.
type Sphere struct {
	Center r3.Vector
	R      float64
}

func NewSphere(x, y, z, r float64) Sphere {
	return Sphere{Center: r3.Vector{X: x, Y: y, Z: z}, R: r}
}

// SpheresFromArrays zips centers and radii into spheres.
func SpheresFromArrays(centers []r3.Vector, radii []float64) ([]Sphere, error) {
	if len(centers) != len(radii) {
		return nil, ErrMismatchedLengths
	}
	spheres := make([]Sphere, len(centers))
	for i := range centers {
		spheres[i] = Sphere{Center: centers[i], R: radii[i]}
	}
	return spheres, nil
}

// Valid reports whether s has finite coordinates and a finite non-negative radius.
func (s Sphere) Valid() bool {
	for _, v := range [4]float64{s.Center.X, s.Center.Y, s.Center.Z, s.R} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return s.R >= 0
}

// Expand returns s with its radius grown by d.
func (s Sphere) Expand(d float64) Sphere {
	return Sphere{Center: s.Center, R: s.R + d}
}

// MinDistance returns the gap between the surfaces of a and b,
// negative when they overlap.
func MinDistance(a, b Sphere) float64 {
	return a.Center.Distance(b.Center) - a.R - b.R
}

// MinDistanceFromPoint returns the signed distance from p to the surface of s.
func MinDistanceFromPoint(p r3.Vector, s Sphere) float64 {
	return p.Distance(s.Center) - s.R
}

// MaxDistanceFromPoint returns the distance from p to the far side of s.
func MaxDistanceFromPoint(p r3.Vector, s Sphere) float64 {
	return p.Distance(s.Center) + s.R
}

func (e Tolerance) Intersect(a, b Sphere) bool {
	return e.Less(a.Center.Distance(b.Center), a.R+b.R)
}

func (e Tolerance) IntersectWithExpansion(a, b Sphere, expansion float64) bool {
	return e.Less(a.Center.Distance(b.Center), a.R+b.R+expansion)
}

func (e Tolerance) Touch(a, b Sphere) bool {
	return e.Equal(a.Center.Distance(b.Center), a.R+b.R)
}

// Contains reports whether a encloses b.
func (e Tolerance) Contains(a, b Sphere) bool {
	return e.GreaterOrEqual(a.R, b.R) && e.LessOrEqual(a.Center.Distance(b.Center), a.R-b.R)
}

func (e Tolerance) SpheresEqual(a, b Sphere) bool {
	return e.Equal(a.Center.X, b.Center.X) &&
		e.Equal(a.Center.Y, b.Center.Y) &&
		e.Equal(a.Center.Z, b.Center.Z) &&
		e.Equal(a.R, b.R)
}

// HalfspaceOfPoint returns the side of the plane through p with normal n
// on which x lies: 1, -1 or 0 when on the plane.
func (e Tolerance) HalfspaceOfPoint(p, n, x r3.Vector) int {
	sd := SignedDistanceToPlane(p, n, x)
	switch {
	case e.Greater(sd, 0):
		return 1
	case e.Less(sd, 0):
		return -1
	}
	return 0
}

// HalfspaceOfSphere returns 1 or -1 when s lies strictly on one side of the
// plane and 0 when the plane cuts it.
func (e Tolerance) HalfspaceOfSphere(p, n r3.Vector, s Sphere) int {
	dc := SignedDistanceToPlane(p, n, s.Center)
	switch {
	case e.Greater(dc, 0) && e.Greater(dc-s.R, 0):
		return 1
	case e.Less(dc, 0) && e.Less(dc+s.R, 0):
		return -1
	}
	return 0
}

// BoundingSphere returns the sphere centered at the mass center of points
// that contains all of them.
func BoundingSphere(points []r3.Vector) Sphere {
	c := MassCenter(points)
	r := 0.0
	for _, p := range points {
		r = max(r, p.Distance(c))
	}
	return Sphere{Center: c, R: r}
}
