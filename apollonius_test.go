// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package apollonius

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/2dChan/apollonius/contacts"
	"github.com/2dChan/apollonius/filter"
	"github.com/2dChan/apollonius/geom"
	"github.com/2dChan/apollonius/triangulation"
	"github.com/2dChan/apollonius/utils"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

// DiagramOptions

func TestDiagramOptions(t *testing.T) {
	tests := []struct {
		name    string
		opt     DiagramOption
		check   func(o *DiagramOptions) bool
		wantErr bool
	}{
		{"eps", WithEps(1e-6), func(o *DiagramOptions) bool { return o.Eps == 1e-6 }, false},
		{"eps zero", WithEps(0), nil, true},
		{"eps NaN", WithEps(math.NaN()), nil, true},
		{"probe", WithProbe(2), func(o *DiagramOptions) bool { return o.Contacts.Probe == 2 }, false},
		{"probe negative", WithProbe(-1), nil, true},
		{"step", WithStep(0.3), func(o *DiagramOptions) bool { return o.Contacts.Step == 0.3 }, false},
		{"step zero", WithStep(0), nil, true},
		{"projections", WithProjections(3), func(o *DiagramOptions) bool { return o.Contacts.Projections == 3 }, false},
		{"projections zero", WithProjections(0), nil, true},
		{"SIH depth", WithSIHDepth(2), func(o *DiagramOptions) bool { return o.Contacts.SIHDepth == 2 }, false},
		{"SIH depth zero", WithSIHDepth(0), nil, true},
		{"workers", WithWorkers(4), func(o *DiagramOptions) bool { return o.Contacts.Workers == 4 }, false},
		{"workers zero", WithWorkers(0), nil, true},
		{"without contacts", WithoutContacts(), func(o *DiagramOptions) bool { return o.NoContacts }, false},
		{"volumes", WithVolumes(), func(o *DiagramOptions) bool { return o.Contacts.Volumes }, false},
		{"graphics", WithGraphics(), func(o *DiagramOptions) bool { return o.Contacts.Draw }, false},
		{"tags", WithTags(), func(o *DiagramOptions) bool { return o.Contacts.TagCentrality && o.Contacts.TagPeripheral }, false},
		{"exclude hidden", WithExcludeHidden(), func(o *DiagramOptions) bool { return o.ExcludeHidden }, false},
		{"logger", WithLogger(logrus.New()), func(o *DiagramOptions) bool { return o.Logger != nil }, false},
		{"logger nil", WithLogger(nil), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &DiagramOptions{Eps: defaultEps, Contacts: contacts.DefaultParams()}
			err := tt.opt(opts)
			if (err != nil) != tt.wantErr {
				errValMsg := "nil"
				if tt.wantErr {
					errValMsg = "non-nil"
				}
				t.Fatalf("opt(opts) error = %v, want %s", err, errValMsg)
			}
			if err != nil && !errors.Is(err, ErrInvalidOption) {
				t.Errorf("opt(opts) error = %v, want wrapping %v", err, ErrInvalidOption)
			}
			if tt.check != nil && !tt.check(opts) {
				t.Errorf("opt(opts) left options %+v", opts)
			}
		})
	}
}

// Diagram

func TestNewDiagram_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		spheres []geom.Sphere
		opts    []DiagramOption
		wantErr error
	}{
		{"three spheres", tetrahedronSpheres()[:3], nil, triangulation.ErrTooFewSpheres},
		{"invalid sphere", append(tetrahedronSpheres(), geom.NewSphere(0, 0, 0, -1)), nil, triangulation.ErrInvalidSphere},
		{"bad option", tetrahedronSpheres(), []DiagramOption{WithWorkers(-1)}, ErrInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewDiagram(tt.spheres, tt.opts...); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewDiagram(...) error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewDiagram_Tetrahedron(t *testing.T) {
	spheres := tetrahedronSpheres()
	d, err := NewDiagram(spheres, WithVolumes(), WithTags())
	if err != nil {
		t.Fatalf("NewDiagram(...) error = %v, want nil", err)
	}
	if got := len(d.Contacts); got != 10 {
		t.Fatalf("len(d.Contacts) = %d, want 10", got)
	}
	if got := len(d.Vertices); got != 1 {
		t.Fatalf("len(d.Vertices) = %d, want 1", got)
	}
	// Regular tetrahedron with edge 2.
	if got, want := d.Vertices[0].Volume, 2*math.Sqrt2/3; math.Abs(got-want) > 1e-9 {
		t.Errorf("d.Vertices[0].Volume = %v, want %v", got, want)
	}
	pairs, solvent := 0, 0
	for _, c := range d.Contacts {
		switch {
		case c.IsSolvent():
			solvent++
		case c.Area > 0:
			pairs++
		}
	}
	if pairs != 6 || solvent != 4 {
		t.Errorf("contacts = %d pairs and %d solvent, want 6 and 4", pairs, solvent)
	}
	if got := len(d.OpenTriples()); got != 4 {
		t.Errorf("len(d.OpenTriples()) = %d, want 4", got)
	}

	for i := range d.NumCells() {
		c, err := d.Cell(i)
		if err != nil {
			t.Fatalf("d.Cell(%d) error = %v, want nil", i, err)
		}
		if got := c.NumContacts(); got != 4 {
			t.Errorf("cell %d: c.NumContacts() = %d, want 4", i, got)
		}
		first, err := c.Contact(0)
		if err != nil {
			t.Fatalf("c.Contact(0) error = %v, want nil", err)
		}
		if !first.IsSolvent() || first.A != i {
			t.Errorf("cell %d: first contact = (%d, %d), want solvent of %d", i, first.A, first.B, i)
		}
		if c.SolventArea() <= 0 || c.Volume() <= 0 {
			t.Errorf("cell %d: solvent area %v, volume %v, want positive", i, c.SolventArea(), c.Volume())
		}
		var want []int
		for j := range d.NumCells() {
			if j != i {
				want = append(want, j)
			}
		}
		if diff := cmp.Diff(want, c.NeighborIndices()); diff != "" {
			t.Errorf("cell %d: c.NeighborIndices() mismatch (-want +got):\n%s", i, diff)
		}
	}

	want := d.Area(0, 1)
	if !(want > 0) {
		t.Fatalf("d.Area(0, 1) = %v, want positive", want)
	}
	for a := range 4 {
		for b := range 4 {
			if a == b {
				continue
			}
			// Equal faces differ only by contour sampling.
			if got := d.Area(a, b); math.Abs(got-want) > 0.05*want {
				t.Errorf("d.Area(%d, %d) = %v, want ~%v", a, b, got, want)
			}
		}
	}
}

func TestNewDiagram_Eps(t *testing.T) {
	d, err := NewDiagram(tetrahedronSpheres(), WithEps(1e-3))
	if err != nil {
		t.Fatalf("NewDiagram(...) error = %v, want nil", err)
	}
	if d.Triangulation.Eps != 1e-3 {
		t.Errorf("d.Triangulation.Eps = %v, want %v", d.Triangulation.Eps, 1e-3)
	}
	if d.contacts.Eps != 1e-3 {
		t.Errorf("d.contacts.Eps = %v, want %v", d.contacts.Eps, 1e-3)
	}
}

func TestNewDiagram_Renumbered(t *testing.T) {
	spheres := utils.GenerateRandomSpheres(80, 5)
	n := len(spheres)
	reversed := make([]geom.Sphere, n)
	for i, s := range spheres {
		reversed[n-1-i] = s
	}
	want, err := NewDiagram(spheres)
	if err != nil {
		t.Fatalf("NewDiagram(...) error = %v, want nil", err)
	}
	got, err := NewDiagram(reversed)
	if err != nil {
		t.Fatalf("NewDiagram(reversed) error = %v, want nil", err)
	}
	if len(got.Contacts) != len(want.Contacts) {
		t.Fatalf("len(Contacts) = %d for reversed input, want %d", len(got.Contacts), len(want.Contacts))
	}
	for _, c := range want.Contacts {
		b := c.B
		if !c.IsSolvent() {
			b = n - 1 - b
		}
		if area := got.Area(n-1-c.A, b); math.Abs(area-c.Area) > 1e-6*c.Area {
			t.Errorf("contact (%d, %d) area = %v for reversed input, want %v", c.A, c.B, area, c.Area)
		}
	}
}

func TestNewDiagram_WithoutContacts(t *testing.T) {
	d, err := NewDiagram(utils.GenerateRandomSpheres(50, 1), WithoutContacts())
	if err != nil {
		t.Fatalf("NewDiagram(...) error = %v, want nil", err)
	}
	if len(d.Contacts) != 0 || len(d.CellContacts) != 0 {
		t.Errorf("NewDiagram(WithoutContacts) kept %d contacts", len(d.Contacts))
	}
	if got := len(d.CellOffsets); got != d.NumCells()+1 {
		t.Errorf("len(d.CellOffsets) = %d, want %d", got, d.NumCells()+1)
	}
	if got := d.Area(0, 1); got != 0 {
		t.Errorf("d.Area(0, 1) = %v, want 0", got)
	}
	if len(d.CellNeighbors) == 0 {
		t.Errorf("d.CellNeighbors is empty, want the tessellation graph")
	}
}

func TestDiagram_ContactIndex(t *testing.T) {
	d := mustNewDiagram(t, 100)
	n := d.NumCells()
	seen := make([]int, len(d.Contacts))
	for i := range n {
		c, err := d.Cell(i)
		if err != nil {
			t.Fatalf("d.Cell(%d) error = %v, want nil", i, err)
		}
		prev := math.MinInt
		for _, j := range c.ContactIndices() {
			ct := d.Contacts[j]
			if ct.A != i && ct.B != i {
				t.Fatalf("cell %d lists contact (%d, %d)", i, ct.A, ct.B)
			}
			p := partner(ct, i)
			if p <= prev {
				t.Errorf("cell %d: partners not increasing at %d", i, p)
			}
			prev = p
			seen[j]++
		}
	}
	for j, ct := range d.Contacts {
		want := 2
		if ct.IsSolvent() {
			want = 1
		}
		if seen[j] != want {
			t.Errorf("contact (%d, %d) listed %d times, want %d", ct.A, ct.B, seen[j], want)
		}
	}
}

func TestDiagram_NeighborsSymmetric(t *testing.T) {
	d := mustNewDiagram(t, 100)
	for i := range d.NumCells() {
		c, err := d.Cell(i)
		if err != nil {
			t.Fatalf("d.Cell(%d) error = %v, want nil", i, err)
		}
		for k := range c.NumNeighbors() {
			nc, err := c.Neighbor(k)
			if err != nil {
				t.Fatalf("c.Neighbor(%d) error = %v, want nil", k, err)
			}
			found := false
			for _, j := range nc.NeighborIndices() {
				found = found || j == i
			}
			if !found {
				t.Errorf("cell %d is a neighbor of %d but not vice versa", nc.SphereIndex(), i)
			}
		}
	}
}

func TestDiagram_Hull(t *testing.T) {
	points := utils.GenerateRandomPoints(60, 2)
	d, err := NewDiagram(points, WithoutContacts())
	if err != nil {
		t.Fatalf("NewDiagram(...) error = %v, want nil", err)
	}
	h, err := d.Hull()
	if err != nil {
		t.Fatalf("d.Hull() error = %v, want nil", err)
	}
	if got, want := len(d.OpenTriples()), len(h.Triangles); got != want {
		t.Errorf("len(d.OpenTriples()) = %d, want %d", got, want)
	}

	res, err := d.Match(context.Background(), filter.DefaultQuery())
	if err != nil {
		t.Fatalf("d.Match(...) error = %v, want nil", err)
	}
	if got, want := res.TotalVolume, h.Volume(); math.Abs(got-want) > 1e-6*want {
		t.Errorf("res.TotalVolume = %v, want hull volume %v", got, want)
	}
}

// Benchmarks

func BenchmarkNewDiagram(b *testing.B) {
	for _, n := range []int{1e+2, 1e+3} {
		b.Run(fmt.Sprintf("N%d", n), func(b *testing.B) {
			spheres := utils.GenerateRandomSpheres(n, 0)
			b.ReportAllocs()
			b.ResetTimer()
			for b.Loop() {
				_, _ = NewDiagram(spheres)
			}
		})
	}
}

// Helpers

func mustNewDiagram(t *testing.T, n int) *Diagram {
	t.Helper()
	d, err := NewDiagram(utils.GenerateRandomSpheres(n, 0), WithVolumes())
	if err != nil {
		t.Fatalf("NewDiagram(...) error = %v, want nil", err)
	}
	return d
}

// tetrahedronSpheres returns four unit spheres touching each other.
func tetrahedronSpheres() []geom.Sphere {
	k := math.Sqrt2 / 2
	return []geom.Sphere{
		geom.NewSphere(k, k, k, 1),
		geom.NewSphere(k, -k, -k, 1),
		geom.NewSphere(-k, k, -k, 1),
		geom.NewSphere(-k, -k, k, 1),
	}
}
