// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package filter selects subsets of tessellation vertices by member ids,
// tangent radius, edge length and tetrahedron volume.
package filter

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/2dChan/apollonius/bsh"
	"github.com/2dChan/apollonius/geom"
	"github.com/2dChan/apollonius/triangulation"
	"github.com/2dChan/apollonius/tuple"
	"golang.org/x/sync/errgroup"
)

const DefaultMinRadius = -1e6

var ErrInvalidQuery = errors.New("filter: invalid query")

type Query struct {
	// IDs are the sphere ids of interest, nil matches every vertex.
	IDs map[int]struct{}
	// Strict requires all four members (or four collided spheres) to be in
	// IDs instead of one.
	Strict bool
	// MinRadius and MaxRadius bound the tangent sphere radius, both exclusive.
	MinRadius float64
	MaxRadius float64
	// MaxEdge bounds the distance between member centers, exclusive.
	MaxEdge   float64
	MinVolume float64
	MaxVolume float64
	// Expansion, when positive, matches IDs against the spheres hit by the
	// tangent sphere grown by Expansion rather than against the members.
	Expansion float64
	// NumInput skips vertices touching spheres with ids >= NumInput, 0
	// disables the check.
	NumInput    int
	ExcludeHull bool
	Workers     int
	Tolerance   geom.Tolerance
}

// DefaultQuery returns a query matching every vertex.
func DefaultQuery() Query {
	return Query{
		MinRadius: DefaultMinRadius,
		MaxRadius: math.Inf(1),
		MaxEdge:   math.Inf(1),
		MaxVolume: math.Inf(1),
		Workers:   1,
		Tolerance: geom.DefaultTolerance,
	}
}

type VertexInfo struct {
	Quadruple tuple.Quadruple
	Tangent   geom.Sphere
	// ID is the index of the vertex in the input slice.
	ID     int
	Volume float64
}

type MatchResult struct {
	Vertices    []VertexInfo
	TotalVolume float64
}

func (q Query) validate() error {
	switch {
	case q.Workers < 1:
		return fmt.Errorf("%w: workers %d < 1", ErrInvalidQuery, q.Workers)
	case q.NumInput < 0:
		return fmt.Errorf("%w: negative num input %d", ErrInvalidQuery, q.NumInput)
	case math.IsNaN(q.MinRadius) || math.IsNaN(q.MaxRadius) || math.IsNaN(q.MaxEdge) ||
		math.IsNaN(q.MinVolume) || math.IsNaN(q.MaxVolume) || math.IsNaN(q.Expansion):
		return fmt.Errorf("%w: NaN bound", ErrInvalidQuery)
	}
	return nil
}

// MatchVertices returns the vertices accepted by q in their original order.
func MatchVertices(ctx context.Context, spheres []geom.Sphere, vertices []triangulation.Vertex, q Query) (*MatchResult, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	for i, v := range vertices {
		if v.Quadruple[0] < 0 || v.Quadruple[3] >= len(spheres) {
			return nil, fmt.Errorf("%w: vertex %d references sphere out of range [0 %d)", ErrInvalidQuery, i, len(spheres))
		}
	}

	var h *bsh.Hierarchy
	if q.Expansion > 0 {
		h = bsh.New(spheres, bsh.DefaultInitialRadius, bsh.DefaultMinClusters, q.Tolerance)
	}
	var hull map[tuple.Triple]struct{}
	if q.ExcludeHull {
		hull = OpenTriples(vertices)
	}

	chunks := make([][]VertexInfo, q.Workers)
	size := (len(vertices) + q.Workers - 1) / q.Workers
	g, ctx := errgroup.WithContext(ctx)
	for w := range q.Workers {
		from, to := min(w*size, len(vertices)), min((w+1)*size, len(vertices))
		g.Go(func() error {
			for i := from; i < to; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				v := vertices[i]
				if !q.accepts(spheres, h, hull, v) {
					continue
				}
				chunks[w] = append(chunks[w], VertexInfo{Quadruple: v.Quadruple, Tangent: v.Tangent, ID: i, Volume: v.Volume})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &MatchResult{}
	for _, chunk := range chunks {
		for _, vi := range chunk {
			res.Vertices = append(res.Vertices, vi)
			res.TotalVolume += vi.Volume
		}
	}
	return res, nil
}

func (q Query) accepts(spheres []geom.Sphere, h *bsh.Hierarchy, hull map[tuple.Triple]struct{}, v triangulation.Vertex) bool {
	quad := v.Quadruple
	if q.NumInput > 0 && quad[3] >= q.NumInput {
		return false
	}
	if !(v.Tangent.R > q.MinRadius && v.Tangent.R < q.MaxRadius) {
		return false
	}
	if v.Volume < q.MinVolume || v.Volume > q.MaxVolume {
		return false
	}
	if hull != nil {
		for _, t := range quad.Triples() {
			if _, ok := hull[t]; ok {
				return false
			}
		}
	}
	if q.IDs != nil {
		candidates := quad[:]
		if h != nil {
			candidates = h.FindAllCollisions(v.Tangent.Expand(q.Expansion))
		}
		found := 0
		for _, id := range candidates {
			if _, ok := q.IDs[id]; ok {
				found++
			}
		}
		if q.Strict && found < 4 || !q.Strict && found == 0 {
			return false
		}
	}
	if !math.IsInf(q.MaxEdge, 1) {
		for _, p := range quad.Pairs() {
			if spheres[p[0]].Center.Distance(spheres[p[1]].Center) >= q.MaxEdge {
				return false
			}
		}
	}
	return true
}

// OpenTriples returns the triples owned by a single quadruple of vertices.
func OpenTriples(vertices []triangulation.Vertex) map[tuple.Triple]struct{} {
	counts := make(map[tuple.Triple]int)
	seen := make(map[tuple.Quadruple]struct{}, len(vertices))
	for _, v := range vertices {
		if _, ok := seen[v.Quadruple]; ok {
			continue
		}
		seen[v.Quadruple] = struct{}{}
		for _, t := range v.Quadruple.Triples() {
			counts[t]++
		}
	}
	res := make(map[tuple.Triple]struct{})
	for t, c := range counts {
		if c == 1 {
			res[t] = struct{}{}
		}
	}
	return res
}

// ProbeVolumes returns the total tetrahedron volume of the distinct
// quadruples of vertices and, for every probe, the volume of those whose
// six member gaps are all below 2*probe.
func ProbeVolumes(spheres []geom.Sphere, vertices []triangulation.Vertex, probes []float64) (float64, []float64) {
	full := 0.0
	shaped := make([]float64, len(probes))
	seen := make(map[tuple.Quadruple]struct{}, len(vertices))
	for _, v := range vertices {
		if _, ok := seen[v.Quadruple]; ok {
			continue
		}
		seen[v.Quadruple] = struct{}{}
		full += v.Volume
		gap := math.Inf(-1)
		for _, p := range v.Quadruple.Pairs() {
			gap = max(gap, geom.MinDistance(spheres[p[0]], spheres[p[1]]))
		}
		for i, probe := range probes {
			if gap < 2*probe {
				shaped[i] += v.Volume
			}
		}
	}
	return full, shaped
}
