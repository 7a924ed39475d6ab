// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package triangulation

import (
	"math"

	"github.com/2dChan/apollonius/geom"
	"github.com/2dChan/apollonius/tuple"
	"github.com/golang/geo/r3"
)

const npos = -1

type completion struct {
	id      int
	tangent geom.Sphere
}

type preface struct {
	triple tuple.Triple
	completion
}

// face is a triple of spheres being completed into quadruples. A face whose
// spheres have two tangent planes gets at most one D completion beyond each
// plane and any number of E completions between them.
type face struct {
	tol     geom.Tolerance
	spheres []geom.Sphere
	abc     tuple.Triple
	a, b, c geom.Sphere

	tangentPlanes []geom.Plane
	centralPlanes [2]geom.Plane
	canHaveD      bool
	canHaveE      bool
	canHaveNeg    bool

	d []completion
	e []completion

	middle   geom.Sphere
	middleOK bool
}

func newFace(spheres []geom.Sphere, abc tuple.Triple, minRadius float64, tol geom.Tolerance) *face {
	f := &face{
		tol:     tol,
		spheres: spheres,
		abc:     abc,
		a:       spheres[abc[0]],
		b:       spheres[abc[1]],
		c:       spheres[abc[2]],
	}
	f.tangentPlanes = tol.TangentPlanes(f.a, f.b, f.c)
	f.canHaveD = len(f.tangentPlanes) == 2
	f.canHaveE = !f.canHaveD ||
		tol.Greater(f.a.R, minRadius) || tol.Greater(f.b.R, minRadius) || tol.Greater(f.c.R, minRadius)
	if !f.canHaveD {
		f.tangentPlanes = nil
		return f
	}
	f.d = []completion{{id: npos}, {id: npos}}
	f.initCentralPlanes()
	f.initMiddleRegion()
	return f
}

func (f *face) initCentralPlanes() {
	n := geom.PlaneNormal(f.a.Center, f.b.Center, f.c.Center)
	tp := f.tangentPlanes[0]
	if f.tol.HalfspaceOfPoint(f.a.Center, n, tp.Point.Add(tp.Normal)) != 1 {
		n = n.Mul(-1)
	}
	f.centralPlanes[0] = geom.Plane{Point: f.a.Center, Normal: n}
	f.centralPlanes[1] = geom.Plane{Point: f.a.Center, Normal: n.Mul(-1)}
}

func (f *face) initMiddleRegion() {
	f.canHaveNeg = f.tol.Intersect(f.a, f.b) && f.tol.Intersect(f.a, f.c) && f.tol.Intersect(f.b, f.c)
	f.middleOK = false
	if !f.canHaveE || !f.canHaveD {
		return
	}
	touch := func(s geom.Sphere, n r3.Vector) geom.Sphere {
		return geom.Sphere{Center: s.Center.Add(n.Mul(s.R))}
	}
	disks := [2][]geom.Sphere{}
	for k, tp := range f.tangentPlanes {
		disks[k] = f.tol.TangentCircle(touch(f.a, tp.Normal), touch(f.b, tp.Normal), touch(f.c, tp.Normal))
	}
	f.setMiddleRegion(disks[0], disks[1])
}

func (f *face) updateMiddleRegion() {
	if !f.canHaveE || !f.hasD(0) || !f.hasD(1) {
		return
	}
	touch := func(s geom.Sphere, towards r3.Vector) geom.Sphere {
		return geom.Sphere{Center: s.Center.Add(towards.Sub(s.Center).Normalize().Mul(s.R))}
	}
	var disks [2][]geom.Sphere
	for k := range 2 {
		t := f.d[k].tangent.Center
		disks[k] = f.tol.TangentCircle(touch(f.a, t), touch(f.b, t), touch(f.c, t))
	}
	f.setMiddleRegion(disks[0], disks[1])
}

func (f *face) setMiddleRegion(disk0, disk1 []geom.Sphere) {
	if len(disk0) != 1 || len(disk1) != 1 {
		return
	}
	d0, d1 := disk0[0], disk1[0]
	center := d0.Center.Add(d1.Center).Mul(0.5)
	f.middle = geom.Sphere{
		Center: center,
		R:      math.Max(geom.MaxDistanceFromPoint(center, d0), geom.MaxDistanceFromPoint(center, d1)),
	}
	f.middleOK = true
}

func (f *face) halfspace(n int, s geom.Sphere) int {
	tp := f.tangentPlanes[n]
	return f.tol.HalfspaceOfSphere(tp.Point, tp.Normal, s)
}

func (f *face) hasD(n int) bool {
	return f.canHaveD && n < 2 && f.d[n].id != npos
}

func (f *face) hasE() bool {
	return len(f.e) > 0
}

func (f *face) sphereMayContainD(s geom.Sphere, n int) bool {
	return f.canHaveD && n < 2 && f.halfspace(n, s) >= 0
}

func (f *face) checkCandidateForD(id, n int) (geom.Sphere, bool) {
	if !f.canHaveD || id < 0 || id >= len(f.spheres) || n >= 2 ||
		id == f.d[n].id || f.abc.Contains(id) || f.halfspace(n, f.spheres[id]) < 0 {
		return geom.Sphere{}, false
	}
	ts := f.tol.TangentSpheres(f.a, f.b, f.c, f.spheres[id])
	if len(ts) == 0 {
		return geom.Sphere{}, false
	}
	i := 0
	if len(ts) == 2 {
		cp := f.centralPlanes[n]
		hs0 := f.tol.HalfspaceOfPoint(cp.Point, cp.Normal, ts[0].Center)
		hs1 := f.tol.HalfspaceOfPoint(cp.Point, cp.Normal, ts[1].Center)
		switch {
		case hs0 == 1 && hs1 == -1:
			i = 0
		case hs0 == -1 && hs1 == 1:
			i = 1
		case hs0 == -1 && hs1 == -1:
			if ts[0].R >= ts[1].R {
				i = 1
			}
		case hs0 == 1 && hs1 == 1:
			if ts[0].R <= ts[1].R {
				i = 1
			}
		}
	}
	if f.intersectsRecorded(ts[i]) {
		return geom.Sphere{}, false
	}
	return ts[i], true
}

func (f *face) setD(id, n int, tangent geom.Sphere) {
	if f.canHaveD && n < 2 && f.d[n].id != id {
		f.d[n] = completion{id: id, tangent: tangent}
	}
}

// setDWithSelection records a D known from a neighboring face on the side
// of the tangent planes it lies on.
func (f *face) setDWithSelection(id int, tangent geom.Sphere) {
	if !f.canHaveD {
		return
	}
	s := f.spheres[id]
	h0, h1 := f.halfspace(0, s), f.halfspace(1, s)
	switch {
	case h0 >= 0 && h1 == -1:
		f.setD(id, 0, tangent)
	case h0 == -1 && h1 >= 0:
		f.setD(id, 1, tangent)
	}
}

func (f *face) unsetD(n int) {
	if f.canHaveD && n < 2 {
		f.d[n] = completion{id: npos}
	}
}

func (f *face) sphereMayContainE(s geom.Sphere) bool {
	if !f.canHaveE {
		return false
	}
	if !f.canHaveD {
		return true
	}
	if f.middleOK && !f.tol.Intersect(f.middle, s) {
		return false
	}
	if f.hasD(0) && f.hasD(1) {
		t0, t1 := f.d[0].tangent, f.d[1].tangent
		nearAxis := geom.DistanceToLine(s.Center, t0.Center, t1.Center) < s.R+math.Max(t0.R, t1.R)
		negative := f.canHaveNeg && f.tol.Intersect(s, f.a) && f.tol.Intersect(s, f.b) && f.tol.Intersect(s, f.c)
		if !nearAxis && !negative {
			return false
		}
	}
	return f.halfspace(0, s) <= 0 && f.halfspace(1, s) <= 0
}

func (f *face) checkCandidateForE(id int) []geom.Sphere {
	if !f.canHaveE || id < 0 || id >= len(f.spheres) || f.abc.Contains(id) {
		return nil
	}
	s := f.spheres[id]
	if f.canHaveD {
		if id == f.d[0].id || id == f.d[1].id {
			return nil
		}
		if f.middleOK && !f.tol.Intersect(f.middle, s) {
			return nil
		}
		if f.halfspace(0, s) != -1 || f.halfspace(1, s) != -1 {
			return nil
		}
	}
	var valid []geom.Sphere
	for _, ts := range f.tol.TangentSpheres(f.a, f.b, f.c, s) {
		if !f.intersectsRecorded(ts) {
			valid = append(valid, ts)
		}
	}
	return valid
}

func (f *face) addE(id int, tangent geom.Sphere) {
	if f.canHaveE && id != npos {
		f.e = append(f.e, completion{id: id, tangent: tangent})
	}
}

// intersectsRecorded reports whether s intersects an input sphere already
// recorded as a completion of f.
func (f *face) intersectsRecorded(s geom.Sphere) bool {
	for _, rec := range f.d {
		if rec.id != npos && f.tol.Intersect(s, f.spheres[rec.id]) {
			return true
		}
	}
	for _, rec := range f.e {
		if rec.id != npos && f.tol.Intersect(s, f.spheres[rec.id]) {
			return true
		}
	}
	return false
}

func (f *face) recorded(withD0, withD1, withE bool) []completion {
	var res []completion
	if f.canHaveD && withD0 && f.d[0].id != npos {
		res = append(res, f.d[0])
	}
	if f.canHaveD && withD1 && f.d[1].id != npos {
		res = append(res, f.d[1])
	}
	if f.canHaveE && withE {
		res = append(res, f.e...)
	}
	return res
}

func (f *face) produceQuadruples(withD0, withD1, withE bool) []quadrupleWithTangent {
	recs := f.recorded(withD0, withD1, withE)
	res := make([]quadrupleWithTangent, len(recs))
	for i, rec := range recs {
		res[i] = quadrupleWithTangent{f.abc.Extend(rec.id), rec.tangent}
	}
	return res
}

func (f *face) producePrefaces(withD0, withD1, withE bool) []preface {
	recs := f.recorded(withD0, withD1, withE)
	res := make([]preface, 0, 3*len(recs))
	for j := range 3 {
		for _, rec := range recs {
			res = append(res, preface{
				triple:     f.abc.Exclude(j).Extend(rec.id),
				completion: completion{id: f.abc[j], tangent: rec.tangent},
			})
		}
	}
	return res
}

type quadrupleWithTangent struct {
	quadruple tuple.Quadruple
	tangent   geom.Sphere
}
