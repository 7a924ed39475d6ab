// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package triangulation

import (
	"math"

	"github.com/2dChan/apollonius/geom"
	"github.com/golang/geo/r3"
)

// ArtificialBoundary returns twelve weightless spheres on an icosahedron
// around the bounding box of spheres grown by shift. Appended to the input,
// they close every cell of the original spheres.
func ArtificialBoundary(spheres []geom.Sphere, shift float64) []geom.Sphere {
	if len(spheres) == 0 {
		return nil
	}
	lo := r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, s := range spheres {
		lo.X, hi.X = math.Min(lo.X, s.Center.X-s.R), math.Max(hi.X, s.Center.X+s.R)
		lo.Y, hi.Y = math.Min(lo.Y, s.Center.Y-s.R), math.Max(hi.Y, s.Center.Y+s.R)
		lo.Z, hi.Z = math.Min(lo.Z, s.Center.Z-s.R), math.Max(hi.Z, s.Center.Z+s.R)
	}
	lo = lo.Sub(r3.Vector{X: shift, Y: shift, Z: shift})
	hi = hi.Add(r3.Vector{X: shift, Y: shift, Z: shift})
	center := lo.Add(hi).Mul(0.5)
	r := hi.Sub(lo).Norm()/2 + shift

	ico := geom.NewIcosahedron(0)
	// The inscribed sphere of the icosahedron must hold the box.
	ico.FitIntoSphere(center, r*math.Sqrt(3))
	res := make([]geom.Sphere, len(ico.Vertices))
	for i, v := range ico.Vertices {
		res[i] = geom.Sphere{Center: v}
	}
	return res
}
