// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package apollonius implements additively weighted Voronoi diagrams of
// spheres in space, with the contact faces of their cells.

package apollonius

import (
	"fmt"

	"github.com/2dChan/apollonius/contacts"
	"github.com/2dChan/apollonius/geom"
)

// Cell represents the cell of one sphere. It is a view structure for accessing a cell in a Diagram.
// The cell's index corresponds to the index of its sphere in the Diagram's Spheres.
type Cell struct {
	idx int
	d   *Diagram
}

// SphereIndex returns the index of the sphere in the Diagram's Spheres.
func (c Cell) SphereIndex() int {
	return c.idx
}

// Sphere returns the generator sphere of the cell.
func (c Cell) Sphere() geom.Sphere {
	return c.d.Spheres[c.idx]
}

// NumContacts returns the number of contacts of the cell, the solvent one included.
func (c Cell) NumContacts() int {
	return c.d.CellOffsets[c.idx+1] - c.d.CellOffsets[c.idx]
}

// ContactIndices returns the indices of the cell's contacts in the Diagram's Contacts,
// sorted by partner index.
func (c Cell) ContactIndices() []int {
	return c.d.CellContacts[c.d.CellOffsets[c.idx]:c.d.CellOffsets[c.idx+1]]
}

// Contact returns the contact at the specified index.
// It returns an error if the index is out of range.
func (c Cell) Contact(i int) (contacts.Contact, error) {
	start := c.d.CellOffsets[c.idx]
	end := c.d.CellOffsets[c.idx+1]
	if i < 0 || i >= end-start {
		return contacts.Contact{}, fmt.Errorf("Contact: index %d out of range [0 %d)", i, end-start)
	}
	return c.d.Contacts[c.d.CellContacts[start+i]], nil
}

// SolventArea returns the solvent-accessible area of the cell.
func (c Cell) SolventArea() float64 {
	return c.d.Area(c.idx, contacts.Solvent)
}

// Volume returns the volume of the cell within reach of the probe, 0 unless
// the Diagram was built with volumes.
func (c Cell) Volume() float64 {
	if c.d.contacts == nil {
		return 0
	}
	return c.d.contacts.Volumes[c.idx]
}

// NumNeighbors returns the number of cells sharing a face with the cell.
func (c Cell) NumNeighbors() int {
	return c.d.NeighborOffsets[c.idx+1] - c.d.NeighborOffsets[c.idx]
}

// NeighborIndices returns the sorted indices of the neighboring cells in the Diagram.
func (c Cell) NeighborIndices() []int {
	return c.d.CellNeighbors[c.d.NeighborOffsets[c.idx]:c.d.NeighborOffsets[c.idx+1]]
}

// Neighbor returns the neighboring cell at the specified index.
// It returns an error if the index is out of range.
func (c Cell) Neighbor(i int) (Cell, error) {
	start := c.d.NeighborOffsets[c.idx]
	end := c.d.NeighborOffsets[c.idx+1]
	if i < 0 || i >= end-start {
		return Cell{}, fmt.Errorf("Neighbor: index %d out of range [0 %d)", i, end-start)
	}
	return c.d.Cell(c.d.CellNeighbors[start+i])
}
