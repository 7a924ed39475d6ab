// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package bsh implements a layered hierarchy of bounding spheres for
// collision and proximity queries over a fixed set of spheres.

package bsh

import (
	"cmp"
	"math"
	"slices"

	"github.com/2dChan/apollonius/geom"
)

const (
	// DefaultInitialRadius is the expansion used to bucket the input spheres.
	DefaultInitialRadius = 3.5
	// DefaultMinClusters stops the layering once a layer is this small.
	DefaultMinClusters = 1

	maxPartSize = 10000
)

// Hierarchy is immutable after construction and safe for concurrent queries.
type Hierarchy struct {
	tol       geom.Tolerance
	leaves    []geom.Sphere
	minRadius float64
	maxRadius float64
	// levels[0] clusters leaves, levels[i] clusters levels[i-1].
	levels [][]cluster
}

type cluster struct {
	geom.Sphere
	children []int
	leaves   []int
}

// NodeChecker decides whether the bounding sphere of a node is worth descending into.
type NodeChecker func(s geom.Sphere) bool

// LeafChecker inspects a leaf. match adds id to the results,
// stop together with match ends the search.
type LeafChecker func(id int, s geom.Sphere) (match, stop bool)

// New builds a hierarchy over spheres. Spheres closer than initialRadius
// tend to share a bottom cluster; layering stops when a layer no longer
// shrinks or reaches minClusters.
func New(spheres []geom.Sphere, initialRadius float64, minClusters int, tol geom.Tolerance) *Hierarchy {
	h := &Hierarchy{
		tol:    tol,
		leaves: slices.Clone(spheres),
	}
	if len(spheres) == 0 {
		return h
	}

	h.minRadius, h.maxRadius = spheres[0].R, spheres[0].R
	for _, s := range spheres {
		h.minRadius = math.Min(h.minRadius, s.R)
		h.maxRadius = math.Max(h.maxRadius, s.R)
	}

	layer := clusterWithExpansion(spheres, initialRadius, tol)
	for i := range layer {
		layer[i].leaves = slices.Clone(layer[i].children)
	}
	h.levels = append(h.levels, layer)

	for len(h.levels[len(h.levels)-1]) > minClusters {
		prev := h.levels[len(h.levels)-1]
		prevSpheres := make([]geom.Sphere, len(prev))
		for i := range prev {
			prevSpheres[i] = prev[i].Sphere
		}
		next := clusterWithExpansion(prevSpheres, 0, tol)
		if len(next) >= len(prev) || len(next) <= minClusters {
			break
		}
		for i := range next {
			c := &next[i]
			for _, child := range c.children {
				c.leaves = append(c.leaves, prev[child].leaves...)
			}
			c.R = 0
			for _, id := range c.leaves {
				c.R = math.Max(c.R, geom.MaxDistanceFromPoint(c.Center, spheres[id]))
			}
		}
		h.levels = append(h.levels, next)
	}
	return h
}

// Leaves returns the spheres the hierarchy was built on.
func (h *Hierarchy) Leaves() []geom.Sphere { return h.leaves }

// MinRadius returns the smallest input radius, 0 for an empty hierarchy.
func (h *Hierarchy) MinRadius() float64 { return h.minRadius }

// MaxRadius returns the largest input radius, 0 for an empty hierarchy.
func (h *Hierarchy) MaxRadius() float64 { return h.maxRadius }

func (h *Hierarchy) Tolerance() geom.Tolerance { return h.tol }

// Levels returns the number of cluster layers.
func (h *Hierarchy) Levels() int { return len(h.levels) }

// BoundingSpheres returns the cluster spheres of the given level,
// or nil if the level does not exist.
func (h *Hierarchy) BoundingSpheres(level int) []geom.Sphere {
	if level < 0 || level >= len(h.levels) {
		return nil
	}
	res := make([]geom.Sphere, len(h.levels[level]))
	for i, c := range h.levels[level] {
		res[i] = c.Sphere
	}
	return res
}

type nodeCoordinates struct {
	level, cluster, child int
}

// Search descends from the top layer into every node accepted by node and
// returns the ids of the leaves matched by leaf, in visiting order.
func (h *Hierarchy) Search(node NodeChecker, leaf LeafChecker) []int {
	var results []int
	if len(h.levels) == 0 {
		return results
	}
	top := len(h.levels) - 1
	stack := make([]nodeCoordinates, 0, len(h.levels[top])+len(h.levels)+1)
	for id := range h.levels[top] {
		stack = append(stack, nodeCoordinates{level: top, cluster: id})
	}
	for len(stack) > 0 {
		nc := stack[len(stack)-1]
		c := &h.levels[nc.level][nc.cluster]
		if nc.child >= len(c.children) || (nc.child == 0 && !node(c.Sphere)) {
			stack = stack[:len(stack)-1]
			continue
		}
		if nc.level == 0 {
			for _, id := range c.children {
				match, stop := leaf(id, h.leaves[id])
				if match {
					results = append(results, id)
					if stop {
						return results
					}
				}
			}
			stack = stack[:len(stack)-1]
			continue
		}
		stack[len(stack)-1].child++
		stack = append(stack, nodeCoordinates{level: nc.level - 1, cluster: c.children[nc.child]})
	}
	return results
}

// SortByDistance returns start followed by the other indices in [0, n)
// ordered by dist(start, i), ties broken by index.
func SortByDistance(n, start int, dist func(a, b int) float64) []int {
	if start < 0 || start >= n {
		return nil
	}
	type entry struct {
		d  float64
		id int
	}
	entries := make([]entry, 0, n-1)
	for i := range n {
		if i != start {
			entries = append(entries, entry{dist(start, i), i})
		}
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(a.d, b.d); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	res := make([]int, 0, n)
	res = append(res, start)
	for _, e := range entries {
		res = append(res, e.id)
	}
	return res
}

func clusterWithExpansion(spheres []geom.Sphere, expansion float64, tol geom.Tolerance) []cluster {
	if len(spheres) <= maxPartSize {
		selection := make([]int, len(spheres))
		for i := range selection {
			selection[i] = i
		}
		return clusterUsingCenters(spheres, selection, selectCenters(spheres, expansion, tol))
	}
	var res []cluster
	for _, selection := range SplitForSizeOfPart(spheres, maxPartSize) {
		contents := make([]geom.Sphere, len(selection))
		for j, id := range selection {
			contents[j] = spheres[id]
		}
		res = append(res, clusterUsingCenters(spheres, selection, selectCenters(contents, expansion, tol))...)
	}
	return res
}

func selectCenters(spheres []geom.Sphere, expansion float64, tol geom.Tolerance) []geom.Sphere {
	if len(spheres) == 0 {
		return nil
	}
	var centers []geom.Sphere
	allowed := make([]bool, len(spheres))
	for i := range allowed {
		allowed[i] = true
	}
	traversal := SortByDistance(len(spheres), 0, func(a, b int) float64 {
		return geom.MaxDistanceFromPoint(spheres[a].Center, spheres[b])
	})
	for _, i := range traversal {
		if !allowed[i] {
			continue
		}
		centers = append(centers, spheres[i])
		allowed[i] = false
		for j := range spheres {
			if allowed[j] && tol.IntersectWithExpansion(spheres[i], spheres[j], expansion) {
				allowed[j] = false
			}
		}
	}
	return centers
}

func clusterUsingCenters(spheres []geom.Sphere, selection []int, centers []geom.Sphere) []cluster {
	if len(centers) == 0 {
		return nil
	}
	clusters := make([]cluster, len(centers))
	for i, c := range centers {
		clusters[i].Sphere = c
	}
	for _, id := range selection {
		s := spheres[id]
		best := 0
		bestDist := geom.MaxDistanceFromPoint(clusters[0].Center, s)
		for j := 1; j < len(clusters); j++ {
			if d := geom.MaxDistanceFromPoint(clusters[j].Center, s); d < bestDist {
				best, bestDist = j, d
			}
		}
		c := &clusters[best]
		c.R = math.Max(c.R, bestDist)
		c.children = append(c.children, id)
	}
	return slices.DeleteFunc(clusters, func(c cluster) bool { return len(c.children) == 0 })
}
