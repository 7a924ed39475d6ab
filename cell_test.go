// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package apollonius

import (
	"testing"

	"github.com/2dChan/apollonius/contacts"
	"github.com/google/go-cmp/cmp"
)

// Cell

func TestCell_SphereIndex(t *testing.T) {
	d := mustNewDiagram(t, 100)
	for i := range d.Spheres {
		c, err := d.Cell(i)
		if err != nil {
			t.Fatalf("d.Cell(%d) error = %v, want nil", i, err)
		}
		if got := c.SphereIndex(); got != i {
			t.Errorf("c.SphereIndex() = %v, want %v", got, i)
		}
		if got := c.Sphere(); got != d.Spheres[i] {
			t.Errorf("c.Sphere() = %v, want %v", got, d.Spheres[i])
		}
	}
}

func TestCell_ContactIndices(t *testing.T) {
	d := mustNewDiagram(t, 100)
	for i := range d.Spheres {
		c, err := d.Cell(i)
		if err != nil {
			t.Fatalf("d.Cell(%d) error = %v, want nil", i, err)
		}
		want := d.CellContacts[d.CellOffsets[i]:d.CellOffsets[i+1]]
		if diff := cmp.Diff(want, c.ContactIndices()); diff != "" {
			t.Errorf("c.ContactIndices() mismatch (-want +got):\n%s", diff)
		}
		if got := c.NumContacts(); got != len(want) {
			t.Errorf("c.NumContacts() = %v, want %v", got, len(want))
		}
	}
}

func TestCell_Contact(t *testing.T) {
	d := mustNewDiagram(t, 100)
	for i := range d.Spheres {
		c, err := d.Cell(i)
		if err != nil {
			t.Fatalf("d.Cell(%d) error = %v, want nil", i, err)
		}
		for j, idx := range c.ContactIndices() {
			got, err := c.Contact(j)
			if err != nil {
				t.Fatalf("c.Contact(%d) error = %v, want nil", j, err)
			}
			if diff := cmp.Diff(d.Contacts[idx], got); diff != "" {
				t.Errorf("c.Contact(%d) mismatch (-want +got):\n%s", j, diff)
			}
		}
	}
}

func TestCell_SolventArea(t *testing.T) {
	d := mustNewDiagram(t, 100)
	for i := range d.Spheres {
		c, err := d.Cell(i)
		if err != nil {
			t.Fatalf("d.Cell(%d) error = %v, want nil", i, err)
		}
		want := 0.0
		for _, idx := range c.ContactIndices() {
			if ct := d.Contacts[idx]; ct.IsSolvent() {
				want = ct.Area
			}
		}
		if got := c.SolventArea(); got != want {
			t.Errorf("c.SolventArea() = %v, want %v", got, want)
		}
		if got := d.Area(i, contacts.Solvent); got != want {
			t.Errorf("d.Area(%d, Solvent) = %v, want %v", i, got, want)
		}
	}
}

func TestCell_NeighborIndices(t *testing.T) {
	d := mustNewDiagram(t, 100)
	for i := range d.Spheres {
		c, err := d.Cell(i)
		if err != nil {
			t.Fatalf("d.Cell(%d) error = %v, want nil", i, err)
		}
		want := d.CellNeighbors[d.NeighborOffsets[i]:d.NeighborOffsets[i+1]]
		if diff := cmp.Diff(want, c.NeighborIndices()); diff != "" {
			t.Errorf("c.NeighborIndices() mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestCell_OutOfRange(t *testing.T) {
	d := mustNewDiagram(t, 10)
	tests := []struct {
		name string
		call func() error
	}{
		{"cell negative", func() error { _, err := d.Cell(-1); return err }},
		{"cell past end", func() error { _, err := d.Cell(d.NumCells()); return err }},
		{"contact negative", func() error {
			c, _ := d.Cell(0)
			_, err := c.Contact(-1)
			return err
		}},
		{"contact past end", func() error {
			c, _ := d.Cell(0)
			_, err := c.Contact(c.NumContacts())
			return err
		}},
		{"neighbor past end", func() error {
			c, _ := d.Cell(0)
			_, err := c.Neighbor(c.NumNeighbors())
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err == nil {
				t.Errorf("error = nil, want non-nil")
			}
		})
	}
}
