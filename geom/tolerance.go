// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package geom implements the 3D primitives of the weighted tessellation:
// spheres, tolerant comparisons, tangent constructions, hyperboloids of
// equal tangent distance and the subdivided icosahedron.

package geom

// Tolerance is the absolute epsilon used by every classifying predicate.
// Values are compared as equal when they differ by no more than the tolerance.
type Tolerance float64

// DefaultTolerance is used when no tolerance is configured.
const DefaultTolerance Tolerance = 1e-8

// Equal reports whether |a-b| <= e.
func (e Tolerance) Equal(a, b float64) bool {
	return a-b <= float64(e) && b-a <= float64(e)
}

// Less reports whether a is less than b by more than e.
func (e Tolerance) Less(a, b float64) bool {
	return a+float64(e) < b
}

// Greater reports whether a is greater than b by more than e.
func (e Tolerance) Greater(a, b float64) bool {
	return a-float64(e) > b
}

func (e Tolerance) LessOrEqual(a, b float64) bool {
	return e.Less(a, b) || e.Equal(a, b)
}

func (e Tolerance) GreaterOrEqual(a, b float64) bool {
	return e.Greater(a, b) || e.Equal(a, b)
}
