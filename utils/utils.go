// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package utils provides deterministic sphere sets for tests, benchmarks and examples.

package utils

import (
	"math"
	"math/rand"

	"github.com/2dChan/apollonius/geom"
	"github.com/golang/geo/r3"
)

// GenerateRandomSpheres generates spheres with centers uniform in a cube and
// radii in [1, 2), the way atom balls are spread in a protein.
// The seed parameter ensures reproducibility.
func GenerateRandomSpheres(cnt int, seed int64) []geom.Sphere {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	side := boxSide(cnt, 2.5)
	spheres := make([]geom.Sphere, cnt)
	for i := range cnt {
		spheres[i] = geom.Sphere{Center: randomPoint(random, side), R: 1 + random.Float64()}
	}
	return spheres
}

// GenerateRandomPoints generates weightless spheres with centers uniform in a cube.
func GenerateRandomPoints(cnt int, seed int64) []geom.Sphere {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	side := boxSide(cnt, 2)
	spheres := make([]geom.Sphere, cnt)
	for i := range cnt {
		spheres[i] = geom.Sphere{Center: randomPoint(random, side)}
	}
	return spheres
}

// GeneratePackedSpheres generates non-overlapping spheres of equal radius r
// by rejection sampling. It may return fewer than cnt spheres when the box
// gets too crowded.
func GeneratePackedSpheres(cnt int, r float64, seed int64) []geom.Sphere {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	side := boxSide(cnt, 3*r)
	spheres := make([]geom.Sphere, 0, cnt)
	for attempts := 0; len(spheres) < cnt && attempts < cnt*1000; attempts++ {
		c := randomPoint(random, side)
		free := true
		for _, s := range spheres {
			if c.Distance(s.Center) < 2*r+r/10 {
				free = false
				break
			}
		}
		if free {
			spheres = append(spheres, geom.Sphere{Center: c, R: r})
		}
	}
	return spheres
}

func boxSide(cnt int, spacing float64) float64 {
	return spacing * math.Cbrt(float64(max(cnt, 1)))
}

func randomPoint(random *rand.Rand, side float64) r3.Vector {
	return r3.Vector{
		X: random.Float64() * side,
		Y: random.Float64() * side,
		Z: random.Float64() * side,
	}
}
