// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

// The hyperboloid of two spheres is the locus of points with equal tangent
// distance to both. Its sheet bends around the smaller sphere and becomes
// the bisector plane when the radii are equal.

type hyperboloidFrame struct {
	center r3.Vector
	axis   r3.Vector // unit, towards the smaller sphere
	a2     float64   // squared semi-axis along axis
	d2     float64   // squared focal half-distance
	r      float64
	d      float64
}

func newHyperboloidFrame(s1, s2 Sphere) hyperboloidFrame {
	if s1.R > s2.R {
		s1, s2 = s2, s1
	}
	dv := s1.Center.Sub(s2.Center).Mul(0.5)
	r := s2.R - s1.R
	d := dv.Norm()
	return hyperboloidFrame{
		center: s2.Center.Add(dv),
		axis:   dv.Normalize(),
		a2:     r * r / 4,
		d2:     d * d,
		r:      r,
		d:      d,
	}
}

// ProjectOnHyperboloid moves p along the axis of s1 and s2 onto their
// hyperboloid.
func ProjectOnHyperboloid(p r3.Vector, s1, s2 Sphere) r3.Vector {
	f := newHyperboloidFrame(s1, s2)
	cp := p.Sub(f.center)
	lz := f.axis.Dot(cp)
	lx := math.Sqrt(math.Max(cp.Norm2()-lz*lz, 0))
	r, d := f.r, f.d
	z := 2 * r * math.Sqrt(math.Max((4*d*d-r*r)*(4*lx*lx+4*d*d-r*r), 0)) / (16*d*d - 4*r*r)
	return p.Sub(f.axis.Mul(lz)).Add(f.axis.Mul(z))
}

// IntersectWithHyperboloid returns the distance from a towards b at which
// the segment ab crosses the hyperboloid of s1 and s2, or 0 if it does not.
func (e Tolerance) IntersectWithHyperboloid(a, b r3.Vector, s1, s2 Sphere) float64 {
	f := newHyperboloidFrame(s1, s2)
	length := a.Distance(b)
	if length == 0 {
		return 0
	}
	v := b.Sub(a).Mul(1 / length)
	w0 := a.Sub(f.center)
	z0 := f.axis.Dot(w0)
	vz := f.axis.Dot(v)

	if f.a2 == 0 {
		// Equal radii, the sheet is the bisector plane z = 0.
		if vz == 0 {
			return 0
		}
		if t := -z0 / vz; e.Greater(t, 0) && e.Less(t, length) {
			return t
		}
		return 0
	}

	// d2*z^2 - a2*|w|^2 = a2*(d2-a2) along w(t) = w0 + v*t
	qa := f.d2*vz*vz - f.a2
	qb := 2 * (f.d2*z0*vz - f.a2*w0.Dot(v))
	qc := f.d2*z0*z0 - f.a2*w0.Norm2() - f.a2*(f.d2-f.a2)
	for _, t := range SolveQuadratic(qa, qb, qc) {
		if !e.Greater(t, 0) || !e.Less(t, length) {
			continue
		}
		if e.GreaterOrEqual(z0+vz*t, 0) {
			return t
		}
	}
	return 0
}
