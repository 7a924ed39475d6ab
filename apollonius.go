// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package apollonius

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/2dChan/apollonius/contacts"
	"github.com/2dChan/apollonius/filter"
	"github.com/2dChan/apollonius/geom"
	"github.com/2dChan/apollonius/hull"
	"github.com/2dChan/apollonius/triangulation"
	"github.com/2dChan/apollonius/tuple"
	"github.com/golang/geo/r3"
	"github.com/sirupsen/logrus"
)

const (
	defaultEps = float64(geom.DefaultTolerance)
)

var ErrInvalidOption = errors.New("apollonius: invalid option")

type DiagramOptions struct {
	Eps           float64
	ExcludeHidden bool
	// NoContacts skips the contact construction.
	NoContacts bool
	Contacts   contacts.Params
	Logger     *logrus.Logger
}

type DiagramOption func(*DiagramOptions) error

func WithEps(eps float64) DiagramOption {
	return func(o *DiagramOptions) error {
		if !(eps > 0) {
			return fmt.Errorf("%w: eps must be positive, got %v", ErrInvalidOption, eps)
		}
		o.Eps = eps
		return nil
	}
}

// WithProbe sets the radius of the rolling probe that bounds the contacts.
func WithProbe(probe float64) DiagramOption {
	return func(o *DiagramOptions) error {
		if !(probe > 0) {
			return fmt.Errorf("%w: probe must be positive, got %v", ErrInvalidOption, probe)
		}
		o.Contacts.Probe = probe
		return nil
	}
}

// WithStep sets the spacing of contour points.
func WithStep(step float64) DiagramOption {
	return func(o *DiagramOptions) error {
		if !(step > 0) {
			return fmt.Errorf("%w: step must be positive, got %v", ErrInvalidOption, step)
		}
		o.Contacts.Step = step
		return nil
	}
}

func WithProjections(n int) DiagramOption {
	return func(o *DiagramOptions) error {
		if n < 1 {
			return fmt.Errorf("%w: projections must be at least 1, got %d", ErrInvalidOption, n)
		}
		o.Contacts.Projections = n
		return nil
	}
}

// WithSIHDepth sets the subdivision depth of the icosahedron approximating
// solvent-accessible surfaces.
func WithSIHDepth(depth int) DiagramOption {
	return func(o *DiagramOptions) error {
		if depth < 1 {
			return fmt.Errorf("%w: SIH depth must be at least 1, got %d", ErrInvalidOption, depth)
		}
		o.Contacts.SIHDepth = depth
		return nil
	}
}

func WithWorkers(n int) DiagramOption {
	return func(o *DiagramOptions) error {
		if n < 1 {
			return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidOption, n)
		}
		o.Contacts.Workers = n
		return nil
	}
}

func WithoutContacts() DiagramOption {
	return func(o *DiagramOptions) error {
		o.NoContacts = true
		return nil
	}
}

func WithVolumes() DiagramOption {
	return func(o *DiagramOptions) error {
		o.Contacts.Volumes = true
		return nil
	}
}

// WithGraphics keeps the triangulated patch of every contact.
func WithGraphics() DiagramOption {
	return func(o *DiagramOptions) error {
		o.Contacts.Draw = true
		return nil
	}
}

// WithTags marks central and peripheral contacts.
func WithTags() DiagramOption {
	return func(o *DiagramOptions) error {
		o.Contacts.TagCentrality = true
		o.Contacts.TagPeripheral = true
		return nil
	}
}

func WithExcludeHidden() DiagramOption {
	return func(o *DiagramOptions) error {
		o.ExcludeHidden = true
		return nil
	}
}

func WithLogger(l *logrus.Logger) DiagramOption {
	return func(o *DiagramOptions) error {
		if l == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidOption)
		}
		o.Logger = l
		return nil
	}
}

type Diagram struct {
	Spheres       []geom.Sphere
	Triangulation *triangulation.Result
	Vertices      []triangulation.Vertex

	// Contacts are sorted by (A, B), empty when built without contacts.
	Contacts []contacts.Contact
	// NOTE: Sorted by partner per cell, the solvent contact first.
	CellContacts []int
	CellOffsets  []int

	// NOTE: Sorted by index per cell.
	CellNeighbors   []int
	NeighborOffsets []int

	contacts *contacts.Result
}

func (d *Diagram) NumCells() int {
	return len(d.Spheres)
}

func (d *Diagram) Cell(i int) (Cell, error) {
	if i < 0 || i >= d.NumCells() {
		return Cell{}, fmt.Errorf("Cell: index %d out of range [0 %d)", i, d.NumCells())
	}
	return Cell{idx: i, d: d}, nil
}

// Area returns the contact area of spheres a and b, contacts.Solvent as b
// gives the solvent-accessible area of a.
func (d *Diagram) Area(a, b int) float64 {
	if d.contacts == nil {
		return 0
	}
	return d.contacts.Area(a, b)
}

// OpenTriples returns the faces owned by a single quadruple.
func (d *Diagram) OpenTriples() []tuple.Triple {
	return d.Triangulation.OpenTriples()
}

// Match selects the vertices accepted by q.
func (d *Diagram) Match(ctx context.Context, q filter.Query) (*filter.MatchResult, error) {
	return filter.MatchVertices(ctx, d.Spheres, d.Vertices, q)
}

// Hull returns the convex hull of the sphere centers.
func (d *Diagram) Hull() (*hull.Hull, error) {
	centers := make([]r3.Vector, len(d.Spheres))
	for i, s := range d.Spheres {
		centers[i] = s.Center
	}
	return hull.New(centers, hull.DefaultEps)
}

func NewDiagram(spheres []geom.Sphere, setters ...DiagramOption) (*Diagram, error) {
	return NewDiagramContext(context.Background(), spheres, setters...)
}

// NewDiagramContext builds the tessellation of spheres and, unless disabled,
// their contacts. ctx only cancels the contact stage.
func NewDiagramContext(ctx context.Context, spheres []geom.Sphere, setters ...DiagramOption) (*Diagram, error) {
	opts := &DiagramOptions{
		Eps:      defaultEps,
		Contacts: contacts.DefaultParams(),
	}
	for _, set := range setters {
		if err := set(opts); err != nil {
			return nil, err
		}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
		opts.Logger.SetOutput(io.Discard)
	}

	trOpts := []triangulation.Option{
		triangulation.WithEps(opts.Eps),
		triangulation.WithExcludeHidden(opts.ExcludeHidden),
		triangulation.WithLogger(opts.Logger),
	}
	tr, err := triangulation.Construct(spheres, trOpts...)
	if err != nil {
		return nil, err
	}
	d := &Diagram{
		Spheres:       slices.Clone(spheres),
		Triangulation: tr,
		Vertices:      tr.Vertices(spheres),
	}
	d.indexNeighbors()

	if !opts.NoContacts {
		// Contacts need the cells closed, the boundary points keep every
		// input cell finite.
		prm := opts.Contacts
		prm.NumInput = len(spheres)
		prm.Tolerance = geom.Tolerance(opts.Eps)
		prm.Logger = opts.Logger
		all := append(slices.Clone(spheres), triangulation.ArtificialBoundary(spheres, 2*prm.Probe)...)
		closed, err := triangulation.Construct(all, trOpts...)
		if err != nil {
			return nil, fmt.Errorf("boundary tessellation: %w", err)
		}
		res, err := contacts.ConstructContext(ctx, all, closed.Vertices(all), prm)
		if err != nil {
			return nil, err
		}
		d.contacts = res
		d.Contacts = res.Contacts
	}
	d.indexContacts()

	return d, nil
}

func (d *Diagram) indexNeighbors() {
	graph := triangulation.NeighborsGraph(d.Triangulation.Quadruples, len(d.Spheres))
	d.NeighborOffsets = make([]int, len(d.Spheres)+1)
	for i, ns := range graph {
		d.NeighborOffsets[i+1] = d.NeighborOffsets[i] + len(ns)
		d.CellNeighbors = append(d.CellNeighbors, ns...)
	}
}

func (d *Diagram) indexContacts() {
	n := len(d.Spheres)
	d.CellOffsets = make([]int, n+1)
	for _, c := range d.Contacts {
		d.CellOffsets[c.A+1]++
		if !c.IsSolvent() {
			d.CellOffsets[c.B+1]++
		}
	}
	for i := range n {
		d.CellOffsets[i+1] += d.CellOffsets[i]
	}
	d.CellContacts = make([]int, d.CellOffsets[n])
	fill := slices.Clone(d.CellOffsets[:n])
	for j, c := range d.Contacts {
		d.CellContacts[fill[c.A]] = j
		fill[c.A]++
		if !c.IsSolvent() {
			d.CellContacts[fill[c.B]] = j
			fill[c.B]++
		}
	}
	for i := range n {
		cell := d.CellContacts[d.CellOffsets[i]:d.CellOffsets[i+1]]
		slices.SortFunc(cell, func(x, y int) int {
			return cmp.Compare(partner(d.Contacts[x], i), partner(d.Contacts[y], i))
		})
	}
}

// partner returns the other side of c seen from sphere i.
func partner(c contacts.Contact, i int) int {
	if c.A == i {
		return c.B
	}
	return c.A
}
