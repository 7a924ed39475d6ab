// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package contacts derives the contact faces between neighboring cells of a
// tessellation, constrained by a rolling probe, and the solvent-accessible
// remainders of the cells.

package contacts

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/2dChan/apollonius/geom"
	"github.com/2dChan/apollonius/triangulation"
	"github.com/2dChan/apollonius/tuple"
	"github.com/golang/geo/r3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Patch is a triangle soup, three vertices and three normals per triangle.
type Patch struct {
	Vertices []r3.Vector
	Normals  []r3.Vector
}

func (p *Patch) addTriangle(a, b, c, na, nb, nc r3.Vector) {
	p.Vertices = append(p.Vertices, a, b, c)
	p.Normals = append(p.Normals, na, nb, nc)
}

type Contact struct {
	A, B     int
	Area     float64
	Distance float64
	Tags     []string
	Adjuncts map[string]float64
	Graphics *Patch
}

// IsSolvent reports whether c is the solvent-accessible part of cell A.
func (c Contact) IsSolvent() bool {
	return c.B == Solvent
}

type Result struct {
	// Contacts are sorted by (A, B), solvent contacts first for each A.
	Contacts []Contact
	// Volumes holds the cell volumes when requested.
	Volumes map[int]float64
	// Eps is the tolerance the contacts were built with.
	Eps   float64
	index map[tuple.Pair]int
}

// Area returns the contact area of a and b in either order, 0 if they have none.
func (r *Result) Area(a, b int) float64 {
	if i, ok := r.index[tuple.NewPair(a, b)]; ok {
		return r.Contacts[i].Area
	}
	return 0
}

func (r *Result) SolventArea(a int) float64 {
	return r.Area(a, Solvent)
}

// Lookup returns the index of the contact of a and b in Contacts.
func (r *Result) Lookup(a, b int) (int, bool) {
	i, ok := r.index[tuple.NewPair(a, b)]
	return i, ok
}

// Construct derives the contacts of the tessellation given by vertices.
func Construct(spheres []geom.Sphere, vertices []triangulation.Vertex, params Params) (*Result, error) {
	return ConstructContext(context.Background(), spheres, vertices, params)
}

func ConstructContext(ctx context.Context, spheres []geom.Sphere, vertices []triangulation.Vertex, params Params) (*Result, error) {
	prm, err := params.normalize(len(spheres))
	if err != nil {
		return nil, err
	}
	for i, v := range vertices {
		if v.Quadruple[0] < 0 || v.Quadruple[3] >= len(spheres) {
			return nil, fmt.Errorf("%w: vertex %d references sphere out of range [0 %d)", ErrInvalidParams, i, len(spheres))
		}
	}

	pairs, ids := collectInputs(spheres, vertices, prm.NumInput)
	base := geom.NewIcosahedron(prm.SIHDepth)
	tol := prm.Tolerance

	type buffer struct {
		contacts []Contact
		volumes  map[int]float64
	}
	buffers := make([]buffer, prm.Workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := range prm.Workers {
		g.Go(func() error {
			buf := &buffers[w]
			if prm.Volumes {
				buf.volumes = make(map[int]float64)
			}
			for _, pi := range pairs {
				if int(tuple.NewPair(pi.a, pi.b).Hash()%uint32(prm.Workers)) != w {
					continue
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if c, ok := pairContact(spheres, pi, prm, tol, buf.volumes); ok {
					buf.contacts = append(buf.contacts, c)
				}
			}
			for _, si := range ids {
				if si.id%prm.Workers != w {
					continue
				}
				if err := ctx.Err(); err != nil {
					return err
				}
				if c, ok := solventContact(spheres, si, prm, base, buf.volumes); ok {
					buf.contacts = append(buf.contacts, c)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Eps: float64(tol), index: make(map[tuple.Pair]int)}
	if prm.Volumes {
		res.Volumes = make(map[int]float64)
	}
	for _, buf := range buffers {
		res.Contacts = append(res.Contacts, buf.contacts...)
		for id, v := range buf.volumes {
			res.Volumes[id] += v
		}
	}
	slices.SortFunc(res.Contacts, func(x, y Contact) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	solvent := 0
	for i, c := range res.Contacts {
		res.index[tuple.NewPair(c.A, c.B)] = i
		if c.IsSolvent() {
			solvent++
		}
	}

	prm.Logger.WithFields(logrus.Fields{
		"pairs":    len(pairs),
		"contacts": len(res.Contacts) - solvent,
		"solvent":  solvent,
		"workers":  prm.Workers,
		"probe":    prm.Probe,
	}).Debug("contacts constructed")

	return res, nil
}

// collectInputs gathers, for every pair and every sphere among the first
// numInput, the tangent spheres and the other members of their quadruples.
func collectInputs(spheres []geom.Sphere, vertices []triangulation.Vertex, numInput int) ([]pairInput, []sphereInput) {
	type gathered struct {
		tangents  []geom.Sphere
		neighbors map[int]struct{}
	}
	add := func(g *gathered, v triangulation.Vertex, skip ...int) {
		g.tangents = append(g.tangents, v.Tangent)
		if g.neighbors == nil {
			g.neighbors = make(map[int]struct{})
		}
		for _, id := range v.Quadruple {
			if !slices.Contains(skip, id) {
				g.neighbors[id] = struct{}{}
			}
		}
	}
	keys := func(m map[int]struct{}) []int {
		res := make([]int, 0, len(m))
		for id := range m {
			res = append(res, id)
		}
		slices.Sort(res)
		return res
	}

	byPair := make(map[tuple.Pair]*gathered)
	byID := make(map[int]*gathered)
	for _, v := range vertices {
		q := v.Quadruple
		for _, p := range q.Pairs() {
			if p[0] >= numInput || p[1] >= numInput {
				continue
			}
			g, ok := byPair[p]
			if !ok {
				g = &gathered{}
				byPair[p] = g
			}
			add(g, v, p[0], p[1])
		}
		for _, id := range q {
			if id >= numInput {
				continue
			}
			g, ok := byID[id]
			if !ok {
				g = &gathered{}
				byID[id] = g
			}
			add(g, v, id)
		}
	}

	pairs := make([]pairInput, 0, len(byPair))
	for p, g := range byPair {
		a, b := p[0], p[1]
		if compareSpheres(spheres[b], spheres[a]) < 0 {
			a, b = b, a
		}
		slices.SortFunc(g.tangents, compareSpheres)
		pairs = append(pairs, pairInput{a: a, b: b, tangents: g.tangents, neighbors: keys(g.neighbors)})
	}
	slices.SortFunc(pairs, func(x, y pairInput) int {
		return tuple.NewPair(x.a, x.b).Compare(tuple.NewPair(y.a, y.b))
	})
	ids := make([]sphereInput, 0, len(byID))
	for id, g := range byID {
		slices.SortFunc(g.tangents, compareSpheres)
		ids = append(ids, sphereInput{id: id, tangents: g.tangents, neighbors: keys(g.neighbors)})
	}
	slices.SortFunc(ids, func(x, y sphereInput) int { return cmp.Compare(x.id, y.id) })
	return pairs, ids
}

func pairContact(spheres []geom.Sphere, pi pairInput, prm Params, tol geom.Tolerance, volumes map[int]float64) (Contact, bool) {
	a, b := spheres[pi.a], spheres[pi.b]
	contours := contactContours(spheres, pi, prm, tol)
	ab := tuple.NewPair(pi.a, pi.b)
	c := Contact{A: ab[0], B: ab[1], Distance: a.Center.Distance(b.Center)}
	var arc float64
	for _, ct := range contours {
		if len(ct) == 0 {
			continue
		}
		f := newFan(ct, a, b)
		c.Area += f.area()
		if volumes != nil {
			volumes[pi.a] += f.volume(a.Center)
			volumes[pi.b] += f.volume(b.Center)
		}
		if prm.BoundaryArcs {
			arc += boundaryArc(ct, pi.a)
		}
		if prm.Draw {
			if c.Graphics == nil {
				c.Graphics = &Patch{}
			}
			n := spheres[c.B].Center.Sub(spheres[c.A].Center).Normalize()
			for i := range f.outline {
				c.Graphics.addTriangle(f.center, f.outline[i], f.outline[(i+1)%len(f.outline)], n, n, n)
			}
		}
	}
	if !(c.Area > 0) && !prm.IncludeZeroArea {
		return Contact{}, false
	}
	if prm.BoundaryArcs && arc > 0 {
		c.Adjuncts = map[string]float64{AdjunctBoundaryArc: arc}
	}
	if prm.TagCentrality && central(spheres, pi) {
		c.Tags = append(c.Tags, TagCentral)
	}
	if prm.TagPeripheral && remainderPossible(pi.tangents, prm.Probe) {
		c.Tags = append(c.Tags, TagPeripherial)
	}
	return c, true
}

// central reports whether the middle of the gap between a and b is no
// closer to any neighbor of the pair than to a and b.
func central(spheres []geom.Sphere, pi pairInput) bool {
	a, b := spheres[pi.a], spheres[pi.b]
	half := (a.Center.Distance(b.Center) - a.R - b.R) / 2
	p := gapMiddle(a, b)
	for _, id := range pi.neighbors {
		if geom.MinDistanceFromPoint(p, spheres[id]) < half {
			return false
		}
	}
	return true
}

func solventContact(spheres []geom.Sphere, si sphereInput, prm Params, base *geom.Icosahedron, volumes map[int]float64) (Contact, bool) {
	rem := contactRemainder(spheres, si, prm.Probe, base)
	if len(rem) == 0 {
		return Contact{}, false
	}
	a := spheres[si.id]
	surface := a.Expand(prm.Probe)
	c := Contact{A: si.id, B: Solvent, Area: rem.area(surface), Distance: a.R + 3*prm.Probe}
	if !(c.Area > 0) {
		return Contact{}, false
	}
	if volumes != nil {
		volumes[si.id] += c.Area * surface.R / 3
	}
	if prm.SolventDirection {
		d := rem.direction(surface)
		c.Adjuncts = map[string]float64{AdjunctSolvDirX: d.X, AdjunctSolvDirY: d.Y, AdjunctSolvDirZ: d.Z}
	}
	if prm.Draw {
		c.Graphics = &Patch{}
		for _, t := range rem {
			c.Graphics.addTriangle(t[0], t[1], t[2],
				t[0].Sub(a.Center).Normalize(), t[1].Sub(a.Center).Normalize(), t[2].Sub(a.Center).Normalize())
		}
	}
	return c, true
}
