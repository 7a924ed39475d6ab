// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// Plane is given by a point on it and a unit normal.
type Plane struct {
	Point  r3.Vector
	Normal r3.Vector
}

// SignedDistanceToPlane returns the distance from x to the plane through p
// with normal n, positive on the side n points to.
func SignedDistanceToPlane(p, n, x r3.Vector) float64 {
	return n.Normalize().Dot(x.Sub(p))
}

// SignedTetrahedronVolume returns the oriented volume of the tetrahedron abcd.
func SignedTetrahedronVolume(a, b, c, d r3.Vector) float64 {
	return a.Sub(d).Dot(b.Sub(d).Cross(c.Sub(d))) / 6
}

func TriangleArea(a, b, c r3.Vector) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Norm() / 2
}

// SphericalTriangleArea returns the area of the spherical triangle cut on s
// by the rays from its center through a, b and c.
func SphericalTriangleArea(s Sphere, a, b, c r3.Vector) float64 {
	u := a.Sub(s.Center).Normalize()
	v := b.Sub(s.Center).Normalize()
	w := c.Sub(s.Center).Normalize()
	num := math.Abs(u.Dot(v.Cross(w)))
	den := 1 + u.Dot(v) + v.Dot(w) + w.Dot(u)
	return s.R * s.R * 2 * math.Atan2(num, den)
}

// PlaneNormal returns the unit normal of the plane through a, b and c.
func PlaneNormal(a, b, c r3.Vector) r3.Vector {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// AnyNormal returns some unit vector orthogonal to v.
func AnyNormal(v r3.Vector) r3.Vector {
	u := v.Normalize()
	other := r3.Vector{X: 1}
	if math.Abs(u.X) > 0.9 {
		other = r3.Vector{Y: 1}
	}
	return u.Cross(other).Normalize()
}

// DistanceToLine returns the distance from p to the line through s and e.
func DistanceToLine(p, s, e r3.Vector) float64 {
	sp := p.Sub(s)
	proj := e.Sub(s).Normalize().Dot(sp)
	return math.Sqrt(math.Max(sp.Norm2()-proj*proj, 0))
}

func MassCenter(points []r3.Vector) r3.Vector {
	var c r3.Vector
	if len(points) == 0 {
		return c
	}
	for _, p := range points {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(points)))
}

// IntersectionCircle returns the circle where the surfaces of a and b meet,
// as a sphere centered in the circle's plane. ok is false when the surfaces
// do not cross.
func IntersectionCircle(a, b Sphere) (Sphere, bool) {
	d := a.Center.Distance(b.Center)
	if d == 0 || d >= a.R+b.R || d <= math.Abs(a.R-b.R) {
		return Sphere{}, false
	}
	x := (d*d + a.R*a.R - b.R*b.R) / (2 * d)
	r := math.Sqrt(math.Max(a.R*a.R-x*x, 0))
	center := a.Center.Add(b.Center.Sub(a.Center).Normalize().Mul(x))
	return Sphere{Center: center, R: r}, true
}

// IntersectSegmentWithSphere returns the point where segment pq crosses the
// surface of s. ok is false when it does not.
func IntersectSegmentWithSphere(p, q r3.Vector, s Sphere) (r3.Vector, bool) {
	v := q.Sub(p)
	w := p.Sub(s.Center)
	a := v.Norm2()
	if a == 0 {
		return r3.Vector{}, false
	}
	roots := SolveQuadratic(a, 2*v.Dot(w), w.Norm2()-s.R*s.R)
	for _, t := range roots {
		if t >= 0 && t <= 1 {
			return p.Add(v.Mul(t)), true
		}
	}
	return r3.Vector{}, false
}

// SolveQuadratic returns the real roots of a*x^2+b*x+c in ascending order.
// A zero a reduces it to a linear equation.
func SolveQuadratic(a, b, c float64) []float64 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []float64{-c / b}
	}
	d := b*b - 4*a*c
	if d < 0 {
		return nil
	}
	if d == 0 {
		return []float64{-b / (2 * a)}
	}
	q := -0.5 * (b + math.Copysign(math.Sqrt(d), b))
	x1, x2 := q/a, c/q
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	return []float64{x1, x2}
}
