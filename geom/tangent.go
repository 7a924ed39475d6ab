// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geom

import (
	"math"

	"github.com/golang/geo/r3"
)

const maxCircleError = 0.001

// axis permutations in lexicographic order
var permutations = [6][3]int{
	{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
}

func component(v r3.Vector, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func minRadiusFirst(spheres []Sphere) {
	m := 0
	for i := range spheres {
		if spheres[i].R < spheres[m].R {
			m = i
		}
	}
	spheres[0], spheres[m] = spheres[m], spheres[0]
}

// TangentPlanes returns the planes touching a, b and c with all three spheres
// on the side opposite to the normal. There are at most two.
func (e Tolerance) TangentPlanes(a, b, c Sphere) []Plane {
	s := []Sphere{a, b, c}
	minRadiusFirst(s)
	sm, s1, s2 := s[0], s[1], s[2]
	d1, d2 := s1.Center.Sub(sm.Center), s2.Center.Sub(sm.Center)
	r1, r2 := s1.R-sm.R, s2.R-sm.R

	for _, perm := range permutations {
		x1, y1, z1 := component(d1, perm[0]), component(d1, perm[1]), component(d1, perm[2])
		x2, y2, z2 := component(d2, perm[0]), component(d2, perm[1]), component(d2, perm[2])
		if e.Equal(x1, 0) {
			continue
		}
		ad := -x1
		a0, ay, az := r1/ad, y1/ad, z1/ad
		bd := -(y2 + ay*x2)
		if e.Equal(bd, 0) {
			continue
		}
		b0 := (r2 + a0*x2) / bd
		bz := (z2 + az*x2) / bd
		c0 := a0 + ay*b0
		cz := ay*bz + az

		var planes []Plane
		for _, z := range SolveQuadratic(1+cz*cz+bz*bz, 2*(c0*cz+b0*bz), c0*c0+b0*b0-1) {
			var n [3]float64
			n[perm[0]] = c0 + z*cz
			n[perm[1]] = b0 + z*bz
			n[perm[2]] = z
			normal := r3.Vector{X: n[0], Y: n[1], Z: n[2]}
			if e.tangentPlaneValid(normal, sm, s1, s2) {
				planes = append(planes, Plane{Point: a.Center.Add(normal.Mul(a.R)), Normal: normal})
			}
		}
		return planes
	}
	return nil
}

func (e Tolerance) tangentPlaneValid(n r3.Vector, sm, s1, s2 Sphere) bool {
	ref := sm.Center.Add(n.Mul(sm.R))
	for _, s := range [2]Sphere{s1, s2} {
		if !e.Equal(s.Center.Add(n.Mul(s.R)).Sub(ref).Dot(n), 0) {
			return false
		}
	}
	return true
}

// TangentSpheres returns the spheres externally tangent to all of a, b, c
// and d. There are at most two.
func (e Tolerance) TangentSpheres(a, b, c, d Sphere) []Sphere {
	s := []Sphere{a, b, c, d}
	minRadiusFirst(s)
	sm := s[0]

	var x, y, z, r [3]float64
	for i := range 3 {
		v := s[i+1].Center.Sub(sm.Center)
		x[i], y[i], z[i], r[i] = v.X, v.Y, v.Z, s[i+1].R-sm.R
	}
	var ca, cb, cc, cd, co [3]float64
	for i := range 3 {
		ca[i], cb[i], cc[i], cd[i] = 2*x[i], 2*y[i], 2*z[i], 2*r[i]
		co[i] = r[i]*r[i] - x[i]*x[i] - y[i]*y[i] - z[i]*z[i]
	}
	a1, a2, a3 := ca[0], ca[1], ca[2]
	b1, b2, b3 := cb[0], cb[1], cb[2]
	c1, c2, c3 := cc[0], cc[1], cc[2]

	w := a1*(b3*c2-b2*c3) + b1*(a2*c3-a3*c2) + c1*(a3*b2-a2*b3)
	if w == 0 {
		return nil
	}
	solve := func(k [3]float64) r3.Vector {
		k1, k2, k3 := k[0], k[1], k[2]
		return r3.Vector{
			X: -(b1*(c3*k2-c2*k3) + c1*(b2*k3-b3*k2) + k1*(b3*c2-b2*c3)) / w,
			Y: (a1*(c3*k2-c2*k3) + c1*(a2*k3-a3*k2) + k1*(a3*c2-a2*c3)) / w,
			Z: -(a1*(b3*k2-b2*k3) + b1*(a2*k3-a3*k2) + k1*(a3*b2-a2*b3)) / w,
		}
	}
	u := solve(cd)
	v := solve(co)

	var result []Sphere
	for _, rr := range SolveQuadratic(u.Norm2()-1, 2*u.Dot(v), v.Norm2()) {
		if !(rr > 0) || math.IsInf(rr, 0) {
			continue
		}
		cand := Sphere{Center: u.Mul(rr).Add(v).Add(sm.Center), R: rr - sm.R}
		if e.Touch(cand, a) && e.Touch(cand, b) && e.Touch(cand, c) && e.Touch(cand, d) {
			result = append(result, cand)
		}
	}
	return result
}

// TangentCircle returns the spheres centered in the plane of a, b and c and
// externally tangent to all three. There are at most two.
func (e Tolerance) TangentCircle(a, b, c Sphere) []Sphere {
	s := []Sphere{a, b, c}
	minRadiusFirst(s)
	sm, s1, s2 := s[0], s[1], s[2]

	e1 := s1.Center.Sub(sm.Center).Normalize()
	v2 := s2.Center.Sub(sm.Center)
	x1 := sm.Center.Distance(s1.Center)
	x2 := e1.Dot(v2)
	y2 := math.Sqrt(math.Max(v2.Norm2()-x2*x2, 0))
	if x1 == 0 || y2 == 0 {
		return nil
	}
	e2 := v2.Sub(e1.Mul(x2)).Normalize()
	r1, r2 := s1.R-sm.R, s2.R-sm.R

	a1, a2 := 2*x1, 2*x2
	b1, b2 := 0.0, 2*y2
	d1, d2 := 2*r1, 2*r2
	o1 := r1*r1 - x1*x1
	o2 := r2*r2 - x2*x2 - y2*y2

	w := a2*b1 - a1*b2
	u1, v1 := (b2*d1-b1*d2)/w, (b2*o1-b1*o2)/w
	u2, v2y := -(a2*d1-a1*d2)/w, -(a2*o1-a1*o2)/w

	maxErr := math.Max(float64(e), maxCircleError)
	var result []Sphere
	for _, r := range SolveQuadratic(u1*u1+u2*u2-1, 2*(u1*v1+u2*v2y), v1*v1+v2y*v2y) {
		if !(r > 0) || math.IsInf(r, 0) {
			continue
		}
		cand := Sphere{
			Center: sm.Center.Add(e1.Mul(u1*r + v1)).Add(e2.Mul(u2*r + v2y)),
			R:      r - sm.R,
		}
		if len(result) > 0 && e.SpheresEqual(result[len(result)-1], cand) {
			continue
		}
		lo, hi := circleError(cand, sm, s1, s2)
		if lo < 0 {
			cand.R += lo
			lo, hi = circleError(cand, sm, s1, s2)
		}
		if math.Max(math.Abs(lo), math.Abs(hi)) < maxErr {
			result = append(result, cand)
		}
	}
	return result
}

func circleError(cand Sphere, spheres ...Sphere) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range spheres {
		d := MinDistance(cand, s)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
