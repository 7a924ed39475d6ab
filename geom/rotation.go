// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geom

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Rotate turns v around axis by the given angle in degrees,
// counter-clockwise when looking against axis.
func Rotate(v, axis r3.Vector, degrees float64) r3.Vector {
	u := axis.Normalize()
	q := mgl64.QuatRotate(mgl64.DegToRad(degrees), mgl64.Vec3{u.X, u.Y, u.Z})
	r := q.Rotate(mgl64.Vec3{v.X, v.Y, v.Z})
	return r3.Vector{X: r[0], Y: r[1], Z: r[2]}
}
