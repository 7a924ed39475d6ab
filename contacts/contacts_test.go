// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package contacts

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/2dChan/apollonius/geom"
	"github.com/2dChan/apollonius/triangulation"
	"github.com/2dChan/apollonius/utils"
	"github.com/google/go-cmp/cmp"
)

// Params

func TestParams_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Params)
		want    func(Params) bool
		wantErr bool
	}{
		{"defaults", func(*Params) {}, func(p Params) bool { return p.Probe == DefaultProbe && p.NumInput == 10 }, false},
		{"probe clamped high", func(p *Params) { p.Probe = 100 }, func(p Params) bool { return p.Probe == 14 }, false},
		{"probe clamped low", func(p *Params) { p.Probe = 0 }, func(p Params) bool { return p.Probe == 0.01 }, false},
		{"step clamped", func(p *Params) { p.Step = 1 }, func(p Params) bool { return p.Step == 0.5 }, false},
		{"projections clamped", func(p *Params) { p.Projections = 0 }, func(p Params) bool { return p.Projections == 1 }, false},
		{"depth clamped", func(p *Params) { p.SIHDepth = 9 }, func(p Params) bool { return p.SIHDepth == 5 }, false},
		{"probe NaN", func(p *Params) { p.Probe = math.NaN() }, nil, true},
		{"step Inf", func(p *Params) { p.Step = math.Inf(1) }, nil, true},
		{"workers zero", func(p *Params) { p.Workers = 0 }, nil, true},
		{"num input too large", func(p *Params) { p.NumInput = 11 }, nil, true},
		{"num input negative", func(p *Params) { p.NumInput = -1 }, nil, true},
		{"tolerance kept", func(p *Params) { p.Tolerance = 1e-3 }, func(p Params) bool { return p.Tolerance == 1e-3 }, false},
		{"tolerance zero", func(p *Params) { p.Tolerance = 0 }, func(p Params) bool { return p.Tolerance == geom.DefaultTolerance }, false},
		{"tolerance negative", func(p *Params) { p.Tolerance = -1e-8 }, nil, true},
		{"tolerance NaN", func(p *Params) { p.Tolerance = geom.Tolerance(math.NaN()) }, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			got, err := p.normalize(10)
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalize(10) error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidParams) {
					t.Errorf("normalize(10) error = %v, want %v", err, ErrInvalidParams)
				}
				return
			}
			if !tt.want(got) {
				t.Errorf("normalize(10) = %+v, unexpected", got)
			}
			if got.Logger == nil {
				t.Errorf("normalize(10).Logger = nil, want discard logger")
			}
		})
	}
}

// Construct

func TestConstruct_InvalidVertex(t *testing.T) {
	spheres := tetrahedronSpheres()
	vertices := []triangulation.Vertex{{}}
	vertices[0].Quadruple[3] = 10
	if _, err := Construct(spheres, vertices, DefaultParams()); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("Construct(...) error = %v, want %v", err, ErrInvalidParams)
	}
}

func TestConstruct_TwoSpheres(t *testing.T) {
	spheres := []geom.Sphere{
		geom.NewSphere(0, 0, 0, 1),
		geom.NewSphere(2, 0, 0, 1),
	}
	prm := DefaultParams()
	prm.Volumes = true
	res := mustConstruct(t, spheres, prm)

	r := prm.Probe + 1
	wantArea := math.Pi * (r*r - 1)
	if got := res.Area(0, 1); math.Abs(got-wantArea) > 0.01*wantArea {
		t.Errorf("res.Area(0, 1) = %v, want ~%v", got, wantArea)
	}
	h := r - 1
	wantSolvent := 4*math.Pi*r*r - 2*math.Pi*r*h
	for id := range 2 {
		if got := res.SolventArea(id); math.Abs(got-wantSolvent) > 0.02*wantSolvent {
			t.Errorf("res.SolventArea(%d) = %v, want ~%v", id, got, wantSolvent)
		}
	}
	wantVolume := 4*math.Pi*r*r*r/3 - math.Pi*h*h*(3*r-h)/3
	for id := range 2 {
		if got := res.Volumes[id]; math.Abs(got-wantVolume) > 0.02*wantVolume {
			t.Errorf("res.Volumes[%d] = %v, want ~%v", id, got, wantVolume)
		}
	}
}

func TestConstruct_Tetrahedron(t *testing.T) {
	prm := DefaultParams()
	prm.TagCentrality = true
	prm.TagPeripheral = true
	res := mustConstruct(t, tetrahedronSpheres(), prm)

	pairs, solvent := 0, 0
	for _, c := range res.Contacts {
		if !(c.Area > 0) {
			t.Errorf("contact (%d, %d) area = %v, want > 0", c.A, c.B, c.Area)
		}
		if c.IsSolvent() {
			solvent++
			continue
		}
		pairs++
		if diff := cmp.Diff([]string{TagCentral, TagPeripherial}, c.Tags); diff != "" {
			t.Errorf("contact (%d, %d) tags mismatch (-want +got):\n%s", c.A, c.B, diff)
		}
	}
	if pairs != 6 || solvent != 4 {
		t.Errorf("contacts = %d pairs and %d solvent, want 6 and 4", pairs, solvent)
	}
	for a := range 4 {
		for b := range 4 {
			if a != b && res.Area(a, b) != res.Area(b, a) {
				t.Errorf("res.Area(%d, %d) = %v, res.Area(%d, %d) = %v, want equal", a, b, res.Area(a, b), b, a, res.Area(b, a))
			}
		}
	}
}

func TestConstruct_Sorted(t *testing.T) {
	spheres := utils.GenerateRandomSpheres(60, 1)
	res := mustConstruct(t, spheres, DefaultParams())
	for i, c := range res.Contacts {
		if !c.IsSolvent() && c.A >= c.B {
			t.Errorf("res.Contacts[%d] = (%d, %d), want A < B", i, c.A, c.B)
		}
		if c.B >= len(spheres) {
			t.Errorf("res.Contacts[%d] references boundary sphere %d", i, c.B)
		}
		if i > 0 {
			p := res.Contacts[i-1]
			if p.A > c.A || (p.A == c.A && p.B >= c.B) {
				t.Errorf("res.Contacts[%d] = (%d, %d) is not after (%d, %d)", i, c.A, c.B, p.A, p.B)
			}
		}
		if j, ok := res.Lookup(c.B, c.A); !ok || j != i {
			t.Errorf("res.Lookup(%d, %d) = %d, %v, want %d, true", c.B, c.A, j, ok, i)
		}
	}
}

func TestConstruct_WorkersAgree(t *testing.T) {
	spheres := utils.GenerateRandomSpheres(60, 2)
	area := func(c Contact) [3]float64 { return [3]float64{float64(c.A), float64(c.B), c.Area} }

	prm := DefaultParams()
	var want [][3]float64
	for _, c := range mustConstruct(t, spheres, prm).Contacts {
		want = append(want, area(c))
	}
	for _, workers := range []int{2, 5} {
		t.Run(fmt.Sprintf("W%d", workers), func(t *testing.T) {
			prm := DefaultParams()
			prm.Workers = workers
			var got [][3]float64
			for _, c := range mustConstruct(t, spheres, prm).Contacts {
				got = append(got, area(c))
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("contacts with %d workers mismatch (-want +got):\n%s", workers, diff)
			}
		})
	}
}

func TestConstruct_Graphics(t *testing.T) {
	prm := DefaultParams()
	prm.Draw = true
	prm.SolventDirection = true
	prm.BoundaryArcs = true
	res := mustConstruct(t, tetrahedronSpheres(), prm)
	for _, c := range res.Contacts {
		g := c.Graphics
		if g == nil || len(g.Vertices) == 0 || len(g.Vertices)%3 != 0 || len(g.Vertices) != len(g.Normals) {
			t.Fatalf("contact (%d, %d) has malformed graphics", c.A, c.B)
		}
		for i, n := range g.Normals {
			if math.Abs(n.Norm()-1) > 1e-9 {
				t.Errorf("contact (%d, %d) normal %d has norm %v, want 1", c.A, c.B, i, n.Norm())
			}
		}
		if c.IsSolvent() {
			d := math.Sqrt(c.Adjuncts[AdjunctSolvDirX]*c.Adjuncts[AdjunctSolvDirX] +
				c.Adjuncts[AdjunctSolvDirY]*c.Adjuncts[AdjunctSolvDirY] +
				c.Adjuncts[AdjunctSolvDirZ]*c.Adjuncts[AdjunctSolvDirZ])
			if math.Abs(d-1) > 1e-9 {
				t.Errorf("solvent contact %d direction norm = %v, want 1", c.A, d)
			}
			// The exposed side of a corner sphere faces away from the center.
			center := tetrahedronSpheres()[c.A].Center
			if dot := center.X*c.Adjuncts[AdjunctSolvDirX] + center.Y*c.Adjuncts[AdjunctSolvDirY] +
				center.Z*c.Adjuncts[AdjunctSolvDirZ]; dot <= 0 {
				t.Errorf("solvent contact %d direction points inwards", c.A)
			}
		} else if c.Adjuncts[AdjunctBoundaryArc] <= 0 {
			t.Errorf("contact (%d, %d) boundary arc = %v, want > 0", c.A, c.B, c.Adjuncts[AdjunctBoundaryArc])
		}
	}
}

func TestConstruct_Tolerance(t *testing.T) {
	prm := DefaultParams()
	prm.Tolerance = 1e-3
	if got := mustConstruct(t, tetrahedronSpheres(), prm).Eps; got != 1e-3 {
		t.Errorf("Construct(...).Eps = %v, want %v", got, 1e-3)
	}
	if got := mustConstruct(t, tetrahedronSpheres(), DefaultParams()).Eps; got != float64(geom.DefaultTolerance) {
		t.Errorf("Construct(...).Eps = %v, want %v", got, geom.DefaultTolerance)
	}
}

func TestConstruct_Renumbered(t *testing.T) {
	spheres := utils.GenerateRandomSpheres(80, 5)
	n := len(spheres)
	reversed := slices.Clone(spheres)
	slices.Reverse(reversed)

	prm := DefaultParams()
	prm.Volumes = true
	want := mustConstruct(t, spheres, prm)
	got := mustConstruct(t, reversed, prm)
	if len(got.Contacts) != len(want.Contacts) {
		t.Fatalf("len(Contacts) = %d after renumbering, want %d", len(got.Contacts), len(want.Contacts))
	}
	for _, c := range want.Contacts {
		b := c.B
		if !c.IsSolvent() {
			b = n - 1 - b
		}
		area := got.Area(n-1-c.A, b)
		if math.Abs(area-c.Area) > 1e-6*c.Area {
			t.Errorf("contact (%d, %d) area = %v after renumbering, want %v", c.A, c.B, area, c.Area)
		}
	}
	for id, v := range want.Volumes {
		if w := got.Volumes[n-1-id]; math.Abs(w-v) > 1e-6*v {
			t.Errorf("volume of %d = %v after renumbering, want %v", id, w, v)
		}
	}
}

func TestConstruct_ProjectionsConverge(t *testing.T) {
	spheres := utils.GenerateRandomSpheres(60, 3)
	total := func(projections int) float64 {
		prm := DefaultParams()
		prm.Projections = projections
		s := 0.0
		for _, c := range mustConstruct(t, spheres, prm).Contacts {
			if !c.IsSolvent() {
				s += c.Area
			}
		}
		return s
	}
	few, many := total(1), total(10)
	if math.Abs(few-many) > 1e-3*many {
		t.Errorf("total area = %v with 1 projection, %v with 10, want equal", few, many)
	}
}

// Contours

func TestProjectOnCurve(t *testing.T) {
	a := geom.NewSphere(0, 0, 0, 1)
	b := geom.NewSphere(3, 0, 0, 1.2)
	c := geom.NewSphere(1.5, 2.6, 0, 0.8)
	p := projectOnCurve(geom.NewSphere(1.5, 0.9, 0.7, 0).Center, a, b, c, 1, 1e-12)

	da := geom.MinDistanceFromPoint(p, a)
	for _, s := range []geom.Sphere{b, c} {
		if d := geom.MinDistanceFromPoint(p, s); math.Abs(d-da) > 1e-6 {
			t.Errorf("projectOnCurve(...) = %v, tangent distances %v and %v, want equal", p, da, d)
		}
	}
}

func TestCompareSpheres(t *testing.T) {
	tests := []struct {
		name string
		x, y geom.Sphere
		want int
	}{
		{"radius first", geom.NewSphere(9, 9, 9, 1), geom.NewSphere(0, 0, 0, 2), -1},
		{"then x", geom.NewSphere(1, 0, 0, 1), geom.NewSphere(0, 5, 5, 1), 1},
		{"then z", geom.NewSphere(1, 2, 3, 1), geom.NewSphere(1, 2, 4, 1), -1},
		{"equal", geom.NewSphere(1, 2, 3, 1), geom.NewSphere(1, 2, 3, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compareSpheres(tt.x, tt.y); got != tt.want {
				t.Errorf("compareSpheres(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestCircularContour(t *testing.T) {
	base := geom.NewSphere(0, 0, 0, 2)
	axis := geom.NewSphere(0, 0, 1, 0).Center
	ct := circularContour(7, base, axis, DefaultStep)
	if len(ct) < 6 || len(ct) > 72 {
		t.Fatalf("len(circularContour(...)) = %d, want in [6 72]", len(ct))
	}
	for i, pr := range ct {
		if math.Abs(pr.p.Norm()-2) > 1e-9 || math.Abs(pr.p.Z) > 1e-9 {
			t.Errorf("ct[%d].p = %v, want on the base circle", i, pr.p)
		}
		if pr.left != 7 || pr.right != 7 {
			t.Errorf("ct[%d] ids = (%d, %d), want (7, 7)", i, pr.left, pr.right)
		}
	}
}

func TestCutAndSplit_HalfPlane(t *testing.T) {
	// c cuts the circle around a along the plane x = 1.
	a := geom.NewSphere(0, 0, 0, 0)
	c := geom.NewSphere(2, 0, 0, 0)
	ct := circularContour(0, geom.NewSphere(0, 0, 0, 2), geom.NewSphere(0, 0, 1, 0).Center, DefaultStep)

	kept, segments, changed := cutAndSplit(a, c, 1, slices.Clone(ct), geom.DefaultTolerance)
	if !changed || len(segments) != 0 || len(kept) == 0 {
		t.Fatalf("cutAndSplit(...) = %d points, %d segments, %v, want one cut contour", len(kept), len(segments), changed)
	}
	cuts := 0
	for _, pr := range kept {
		if pr.p.X > 1+1e-9 {
			t.Errorf("point %v is closer to c than to a", pr.p)
		}
		if pr.left == 1 || pr.right == 1 {
			cuts++
			if math.Abs(pr.p.X-1) > 1e-6 {
				t.Errorf("cut point %v is not on the bisector", pr.p)
			}
		}
	}
	if cuts != 2 {
		t.Errorf("cut points = %d, want 2", cuts)
	}

	_, _, changed = cutAndSplit(a, geom.NewSphere(10, 0, 0, 0), 2, slices.Clone(ct), geom.DefaultTolerance)
	if changed {
		t.Errorf("cutAndSplit(far sphere) changed = true, want false")
	}
	kept, _, changed = cutAndSplit(geom.NewSphere(0, 0, 0, 0), geom.NewSphere(0, 0, 0, 5), 3, slices.Clone(ct), geom.DefaultTolerance)
	if !changed || kept != nil {
		t.Errorf("cutAndSplit(covering sphere) = %v, %v, want nil, true", kept, changed)
	}
}

func TestRemainder_Uncut(t *testing.T) {
	base := geom.NewIcosahedron(DefaultSIHDepth)
	spheres := []geom.Sphere{geom.NewSphere(0, 0, 0, 1), geom.NewSphere(100, 0, 0, 1)}
	si := sphereInput{id: 0, tangents: []geom.Sphere{geom.NewSphere(50, 0, 0, 49)}, neighbors: []int{1}}
	rem := contactRemainder(spheres, si, DefaultProbe, base)
	surface := spheres[0].Expand(DefaultProbe)
	want := 4 * math.Pi * surface.R * surface.R
	if got := rem.area(surface); math.Abs(got-want) > 1e-9*want {
		t.Errorf("rem.area(...) = %v, want %v", got, want)
	}

	si.tangents = []geom.Sphere{geom.NewSphere(50, 0, 0, 1)}
	if rem := contactRemainder(spheres, si, DefaultProbe, base); rem != nil {
		t.Errorf("contactRemainder(small tangents) = %d triangles, want nil", len(rem))
	}
}

// Benchmarks

func BenchmarkConstruct(b *testing.B) {
	for _, n := range []int{1e+2, 1e+3} {
		b.Run(fmt.Sprintf("N%d", n), func(b *testing.B) {
			spheres := utils.GenerateRandomSpheres(n, 0)
			all := append(slices.Clone(spheres), triangulation.ArtificialBoundary(spheres, 2*DefaultProbe)...)
			tr, err := triangulation.Construct(all)
			if err != nil {
				b.Fatalf("triangulation.Construct(...) error = %v, want nil", err)
			}
			vertices := tr.Vertices(all)
			prm := DefaultParams()
			prm.NumInput = n
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				if _, err := Construct(all, vertices, prm); err != nil {
					b.Fatalf("Construct(...) error = %v, want nil", err)
				}
			}
		})
	}
}

// Helpers

func mustConstruct(t *testing.T, spheres []geom.Sphere, prm Params) *Result {
	t.Helper()
	all := append(slices.Clone(spheres), triangulation.ArtificialBoundary(spheres, 2*prm.Probe)...)
	tr, err := triangulation.Construct(all)
	if err != nil {
		t.Fatalf("triangulation.Construct(...) error = %v, want nil", err)
	}
	prm.NumInput = len(spheres)
	res, err := Construct(all, tr.Vertices(all), prm)
	if err != nil {
		t.Fatalf("Construct(...) error = %v, want nil", err)
	}
	return res
}

// tetrahedronSpheres returns four touching unit spheres on a tetrahedron with edge 2.
func tetrahedronSpheres() []geom.Sphere {
	k := math.Sqrt2 / 2
	return []geom.Sphere{
		geom.NewSphere(k, k, k, 1),
		geom.NewSphere(k, -k, -k, 1),
		geom.NewSphere(-k, k, -k, 1),
		geom.NewSphere(-k, -k, k, 1),
	}
}
