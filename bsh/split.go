// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package bsh

import (
	"cmp"
	"slices"

	"github.com/2dChan/apollonius/geom"
)

const maxSplitDepth = 16

// SplitForNumberOfParts splits the indices of spheres into about parts
// groups by recursive median cuts along x, y and z in turn.
func SplitForNumberOfParts(spheres []geom.Sphere, parts int) [][]int {
	return binarySplit(spheres, splitDepth(parts))
}

// SplitForSizeOfPart splits the indices of spheres into groups of about size members.
func SplitForSizeOfPart(spheres []geom.Sphere, size int) [][]int {
	if size <= 0 {
		size = 1
	}
	return binarySplit(spheres, splitDepth(len(spheres)/size))
}

func splitDepth(parts int) int {
	depth := 0
	for 1<<depth < parts && depth < maxSplitDepth {
		depth++
	}
	return depth
}

func binarySplit(spheres []geom.Sphere, depth int) [][]int {
	ids := make([]int, len(spheres))
	for i := range ids {
		ids[i] = i
	}
	result := [][]int{ids}
	for k := range depth {
		var next [][]int
		for _, part := range result {
			next = append(next, splitByMedian(spheres, part, k)...)
		}
		result = next
	}
	return result
}

func splitByMedian(spheres []geom.Sphere, ids []int, k int) [][]int {
	switch len(ids) {
	case 0:
		return nil
	case 1:
		return [][]int{ids}
	}
	ordered := slices.Clone(ids)
	slices.SortFunc(ordered, func(a, b int) int {
		if c := cmp.Compare(coord(spheres[a], k), coord(spheres[b], k)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	mid := len(ordered) / 2
	return [][]int{ordered[:mid], ordered[mid:]}
}

func coord(s geom.Sphere, k int) float64 {
	switch k % 3 {
	case 0:
		return s.Center.X
	case 1:
		return s.Center.Y
	}
	return s.Center.Z
}
