// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package contacts

import (
	"cmp"
	"math"
	"slices"

	"github.com/2dChan/apollonius/geom"
	"github.com/golang/geo/r3"
)

// pointRecord is a contour point with the ids of the spheres bounding the
// contour on its left and right.
type pointRecord struct {
	p           r3.Vector
	left, right int
}

// contour is a closed polyline, the last point connects to the first.
type contour []pointRecord

// pairInput describes one pair of spheres. The roles of a and b follow
// compareSpheres, not the indices, so a renumbered input builds the same
// contour.
type pairInput struct {
	a, b      int
	tangents  []geom.Sphere
	neighbors []int
}

// maxProjections bounds the projection cycles of a single point.
const maxProjections = 256

// convergence is the movement, relative to the step, under which a
// projection cycle is considered settled.
const convergence = 1e-4

// compareSpheres orders spheres by radius, then by center coordinates.
func compareSpheres(x, y geom.Sphere) int {
	if c := cmp.Compare(x.R, y.R); c != 0 {
		return c
	}
	if c := cmp.Compare(x.Center.X, y.Center.X); c != 0 {
		return c
	}
	if c := cmp.Compare(x.Center.Y, y.Center.Y); c != 0 {
		return c
	}
	return cmp.Compare(x.Center.Z, y.Center.Z)
}

// sortByDistance orders ids by the distance from p to their spheres. Ties
// are broken by geometry first so that the order does not depend on how the
// input was numbered.
func sortByDistance(spheres []geom.Sphere, p r3.Vector, ids []int) {
	slices.SortFunc(ids, func(x, y int) int {
		if c := cmp.Compare(geom.MinDistanceFromPoint(p, spheres[x]), geom.MinDistanceFromPoint(p, spheres[y])); c != 0 {
			return c
		}
		if c := compareSpheres(spheres[x], spheres[y]); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})
}

// gapMiddle returns the point halfway across the gap between a and b on
// the line of their centers.
func gapMiddle(a, b geom.Sphere) r3.Vector {
	dist := a.Center.Distance(b.Center)
	half := (dist - a.R - b.R) / 2
	return a.Center.Add(b.Center.Sub(a.Center).Normalize().Mul(a.R + half))
}

func boundingSphereOfTangents(tangents []geom.Sphere, extension float64) geom.Sphere {
	centers := make([]r3.Vector, len(tangents))
	for i, t := range tangents {
		centers[i] = t.Center
	}
	bs := geom.BoundingSphere(centers)
	bs.R += extension
	return bs
}

// contactContours returns the contours of the face shared by the cells of
// pi.a and pi.b within reach of the probe.
func contactContours(spheres []geom.Sphere, pi pairInput, prm Params, tol geom.Tolerance) []contour {
	a, b := spheres[pi.a], spheres[pi.b]
	if geom.MinDistance(a, b) >= 2*prm.Probe || len(pi.tangents) == 0 {
		return nil
	}
	initial := initialContour(a, b, pi, prm)
	if len(initial) == 0 {
		return nil
	}
	result := []contour{initial}
	bounding := boundingSphereOfTangents(pi.tangents, prm.Step)

	neighbors := slices.Clone(pi.neighbors)
	sortByDistance(spheres, gapMiddle(a, b), neighbors)
	for _, cID := range neighbors {
		c := spheres[cID]
		next := make([]contour, 0, len(result))
		for _, ct := range result {
			kept, segments, changed := cutAndSplit(a, c, cID, ct, tol)
			switch {
			case !changed:
				next = append(next, ct)
			case len(kept) > 0:
				kept = mend(a, b, c, cID, prm, kept)
				if reaches(bounding, kept) {
					next = append(next, kept)
				}
			default:
				for _, seg := range segments {
					seg = mend(a, b, c, cID, prm, seg)
					if reaches(bounding, seg) {
						next = append(next, seg)
					}
				}
			}
		}
		result = next
	}

	shrinkStrangeExtensions(a, b, 1.5*prm.Probe, result)
	return result
}

func initialContour(a, b geom.Sphere, pi pairInput, prm Params) contour {
	aExp, bExp := a.Expand(prm.Probe), b.Expand(prm.Probe)
	circle, ok := geom.IntersectionCircle(aExp, bExp)
	if !ok {
		return nil
	}
	axis := b.Center.Sub(a.Center).Normalize()
	belowProbe := len(pi.tangents) > 1
	for _, t := range pi.tangents {
		if t.R >= prm.Probe {
			belowProbe = false
			break
		}
	}
	if !belowProbe {
		return circularContour(pi.a, circle, axis, prm.Step)
	}
	ct := circularContour(pi.a, boundingSphereOfTangents(pi.tangents, prm.Step), axis, prm.Step)
	for i := range ct {
		ct[i].p = geom.ProjectOnHyperboloid(ct[i].p, a, b)
	}
	return ct
}

func circularContour(aID int, base geom.Sphere, axis r3.Vector, step float64) contour {
	first := geom.AnyNormal(axis).Mul(base.R)
	angleStep := max(min(360*(step/(2*math.Pi*base.R)), 60), 5)
	ct := contour{{p: base.Center.Add(first), left: aID, right: aID}}
	for angle := angleStep; angle < 360; angle += angleStep {
		ct = append(ct, pointRecord{p: base.Center.Add(geom.Rotate(first, axis, angle)), left: aID, right: aID})
	}
	return ct
}

// cutAndSplit removes the points of ct closer to c than to a and closes the
// gaps with points on their bounding hyperboloid. When the cuts make several
// pieces, ct is returned split into segments.
func cutAndSplit(a, c geom.Sphere, cID int, ct contour, tol geom.Tolerance) (contour, []contour, bool) {
	outside := make([]bool, len(ct))
	outsiders := 0
	for i, pr := range ct {
		if geom.MinDistanceFromPoint(pr.p, c) < geom.MinDistanceFromPoint(pr.p, a) {
			outside[i] = true
			outsiders++
		}
	}
	if outsiders == 0 {
		return ct, nil, false
	}
	if outsiders == len(ct) {
		return nil, nil, true
	}

	cut, cuts := cutContour(a, c, cID, ct, outside, tol)
	if len(cuts) > 2 && len(cuts)%2 == 0 {
		if segments := splitContour(cut, orderCuts(cut, cuts)); len(segments) > 0 {
			return nil, segments, true
		}
	}
	return cut, nil, true
}

func cutContour(a, c geom.Sphere, cID int, ct contour, outside []bool, tol geom.Tolerance) (contour, []int) {
	n := len(ct)
	start := slices.Index(outside, false)
	res := make(contour, 0, n+2)
	var cuts []int
	cutPoint := func(from, to r3.Vector) r3.Vector {
		l := tol.IntersectWithHyperboloid(from, to, a, c)
		return from.Add(to.Sub(from).Normalize().Mul(l))
	}
	for k := range n {
		i := (start + k) % n
		if !outside[i] {
			res = append(res, ct[i])
			continue
		}
		prev, next := (i+n-1)%n, (i+1)%n
		if !outside[prev] {
			cuts = append(cuts, len(res))
			res = append(res, pointRecord{p: cutPoint(ct[i].p, ct[prev].p), left: ct[prev].right, right: cID})
		}
		if !outside[next] {
			cuts = append(cuts, len(res))
			res = append(res, pointRecord{p: cutPoint(ct[i].p, ct[next].p), left: cID, right: ct[next].left})
		}
	}
	return res, cuts
}

// orderCuts pairs consecutive cuts so that the pairs span the shorter chords.
func orderCuts(ct contour, cuts []int) []int {
	sum := func(order []int) float64 {
		s := 0.0
		for i := 0; i+1 < len(order); i += 2 {
			s += ct[order[i]].p.Distance(ct[order[i+1]].p)
		}
		return s
	}
	shifted := append([]int{cuts[len(cuts)-1]}, cuts[:len(cuts)-1]...)
	if sum(cuts) < sum(shifted) {
		return cuts
	}
	return shifted
}

func splitContour(ct contour, cuts []int) []contour {
	n := len(ct)
	var segments []contour
	for i := 0; i+1 < len(cuts); i += 2 {
		from, to := cuts[i], cuts[i+1]
		if to == (from+1)%n {
			continue
		}
		var seg contour
		for j := from; ; j = (j + 1) % n {
			seg = append(seg, ct[j])
			if j == to {
				break
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// projectOnCurve moves p towards the curve of points with equal tangent
// distance to a, b and c by cycling projections onto their hyperboloids. It
// runs at least minCycles cycles and stops once a cycle moves p by no more
// than limit.
func projectOnCurve(p r3.Vector, a, b, c geom.Sphere, minCycles int, limit float64) r3.Vector {
	for i := range maxProjections {
		prev := p
		p = geom.ProjectOnHyperboloid(p, b, c)
		p = geom.ProjectOnHyperboloid(p, a, c)
		p = geom.ProjectOnHyperboloid(p, a, b)
		if i+1 >= minCycles && p.Distance(prev) <= limit {
			break
		}
	}
	return p
}

// mend fills the gaps left by cutting with c with points projected onto the
// three hyperboloids around a, b and c.
func mend(a, b, c geom.Sphere, cID int, prm Params, ct contour) contour {
	project := func(p r3.Vector) r3.Vector {
		return projectOnCurve(p, a, b, c, prm.Projections, convergence*prm.Step)
	}
	n := len(ct)
	inserts := make([][]r3.Vector, n)
	for i := range ct {
		j := (i + 1) % n
		if ct[i].left == cID || ct[i].right != cID || ct[j].left != cID {
			continue
		}
		ct[i].p = project(ct[i].p)
		ct[j].p = project(ct[j].p)
		p0, p1 := ct[i].p, ct[j].p
		dist := p0.Distance(p1)
		if dist <= prm.Step {
			continue
		}
		leaps := int(math.Floor(dist/prm.Step + 0.5))
		size := dist / float64(leaps)
		dir := p1.Sub(p0).Normalize()
		for leap := 1; leap < leaps; leap++ {
			inserts[i] = append(inserts[i], project(p0.Add(dir.Mul(size*float64(leap)))))
		}
	}
	res := make(contour, 0, n)
	for i, pr := range ct {
		res = append(res, pr)
		for _, p := range inserts[i] {
			res = append(res, pointRecord{p: p, left: cID, right: cID})
		}
	}
	return res
}

func reaches(shell geom.Sphere, ct contour) bool {
	for _, pr := range ct {
		if pr.p.Distance(shell.Center) <= shell.R {
			return true
		}
	}
	return false
}

// shrinkStrangeExtensions pulls points lying further than limit from a or b
// back towards the middle of the pair.
func shrinkStrangeExtensions(a, b geom.Sphere, limit float64, contours []contour) {
	far := func(p r3.Vector) bool {
		return geom.MinDistanceFromPoint(p, a) > limit || geom.MinDistanceFromPoint(p, b) > limit
	}
	mid := a.Center.Add(b.Center).Mul(0.5)
	for _, ct := range contours {
		for i := range ct {
			if far(ct[i].p) {
				ct[i].p = mid.Add(ct[i].p.Sub(mid).Normalize().Mul(min(a.R, b.R)))
			}
		}
	}
}

// fan is the triangulation of a contour around its projected mass center.
type fan struct {
	center  r3.Vector
	outline []r3.Vector
}

func newFan(ct contour, a, b geom.Sphere) fan {
	outline := make([]r3.Vector, len(ct))
	for i, pr := range ct {
		outline[i] = pr.p
	}
	return fan{
		center:  geom.ProjectOnHyperboloid(geom.MassCenter(outline), a, b),
		outline: outline,
	}
}

func (f fan) area() float64 {
	s := 0.0
	for i := range f.outline {
		s += geom.TriangleArea(f.center, f.outline[i], f.outline[(i+1)%len(f.outline)])
	}
	return s
}

// volume returns the volume of the cone from apex over the fan.
func (f fan) volume(apex r3.Vector) float64 {
	v := 0.0
	for i := range f.outline {
		v += math.Abs(geom.SignedTetrahedronVolume(apex, f.center, f.outline[i], f.outline[(i+1)%len(f.outline)]))
	}
	return v
}

// boundaryArc returns the length of the contour sections on the probe circle of a.
func boundaryArc(ct contour, aID int) float64 {
	s := 0.0
	for i, pr := range ct {
		next := ct[(i+1)%len(ct)]
		if pr.right == aID && next.left == aID {
			s += pr.p.Distance(next.p)
		}
	}
	return s
}
