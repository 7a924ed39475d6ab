// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package render exports contact patches as SVG drawings and STL meshes.
package render

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/2dChan/apollonius/contacts"
	"github.com/2dChan/apollonius/geom"
	svg "github.com/ajstarks/svgo"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/geo/r3"
)

const (
	margin = 10

	backgroundStyle = "fill:rgb(255,255,255)"
	sphereStyle     = "fill:none;stroke:rgb(170,170,170);stroke-width:1"
	contactStyle    = "fill:rgb(120,160,220);stroke:rgb(40,60,120);stroke-width:0.3;fill-opacity:0.8"
	solventStyle    = "fill:rgb(230,200,120);stroke:rgb(150,110,40);stroke-width:0.3;fill-opacity:0.6"
)

var ErrNoGraphics = errors.New("render: contacts carry no graphics")

type triangle struct {
	p       [3]r3.Vector
	solvent bool
}

func collectTriangles(cs []contacts.Contact) []triangle {
	var res []triangle
	for _, c := range cs {
		if c.Graphics == nil {
			continue
		}
		vs := c.Graphics.Vertices
		for i := 0; i+2 < len(vs); i += 3 {
			res = append(res, triangle{p: [3]r3.Vector{vs[i], vs[i+1], vs[i+2]}, solvent: c.IsSolvent()})
		}
	}
	return res
}

// projection maps the XY plane onto a width x height canvas, keeping the
// aspect ratio and flipping Y.
type projection struct {
	minX, maxY float64
	scale      float64
}

func newProjection(points []r3.Vector, spheres []geom.Sphere, width, height int) projection {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	extend := func(x, y, r float64) {
		minX, maxX = min(minX, x-r), max(maxX, x+r)
		minY, maxY = min(minY, y-r), max(maxY, y+r)
	}
	for _, p := range points {
		extend(p.X, p.Y, 0)
	}
	for _, s := range spheres {
		extend(s.Center.X, s.Center.Y, s.R)
	}
	if math.IsInf(minX, 1) {
		return projection{scale: 1}
	}
	w, h := float64(width-2*margin), float64(height-2*margin)
	scale := min(w/max(maxX-minX, 1e-9), h/max(maxY-minY, 1e-9))
	return projection{minX: minX, maxY: maxY, scale: scale}
}

func (pr projection) point(p r3.Vector) (int, int) {
	return margin + int(math.Round((p.X-pr.minX)*pr.scale)), margin + int(math.Round((pr.maxY-p.Y)*pr.scale))
}

// errWriter keeps the first write error, svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// WriteSVG draws the outlines of spheres and the contact patches seen along
// the Z axis. Patches are painted from the lowest to the highest.
func WriteSVG(w io.Writer, cs []contacts.Contact, spheres []geom.Sphere, width, height int) error {
	if width <= 2*margin || height <= 2*margin {
		return fmt.Errorf("render: canvas %dx%d is too small", width, height)
	}
	tris := collectTriangles(cs)
	slices.SortStableFunc(tris, func(a, b triangle) int {
		return cmp.Compare(a.p[0].Z+a.p[1].Z+a.p[2].Z, b.p[0].Z+b.p[1].Z+b.p[2].Z)
	})
	points := make([]r3.Vector, 0, 3*len(tris))
	for _, t := range tris {
		points = append(points, t.p[:]...)
	}
	pr := newProjection(points, spheres, width, height)

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, backgroundStyle)
	for _, s := range spheres {
		x, y := pr.point(s.Center)
		canvas.Circle(x, y, max(int(math.Round(s.R*pr.scale)), 1), sphereStyle)
	}
	xs, ys := make([]int, 3), make([]int, 3)
	for _, t := range tris {
		for i, p := range t.p {
			xs[i], ys[i] = pr.point(p)
		}
		style := contactStyle
		if t.solvent {
			style = solventStyle
		}
		canvas.Polygon(xs, ys, style)
	}
	canvas.End()
	return ew.err
}

// Triangles converts the contact patches into sdfx triangles.
func Triangles(cs []contacts.Contact) []*sdf.Triangle3 {
	tris := collectTriangles(cs)
	res := make([]*sdf.Triangle3, len(tris))
	for i, t := range tris {
		var st sdf.Triangle3
		for j, p := range t.p {
			st[j] = v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
		}
		res[i] = &st
	}
	return res
}

// WriteSTL saves the contact patches as an STL mesh at path.
func WriteSTL(path string, cs []contacts.Contact) error {
	mesh := Triangles(cs)
	if len(mesh) == 0 {
		return ErrNoGraphics
	}
	if err := render.SaveSTL(path, mesh); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}
