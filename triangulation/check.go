// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package triangulation

import (
	"errors"
	"fmt"

	"github.com/2dChan/apollonius/geom"
)

var ErrInconsistent = errors.New("triangulation: inconsistent quadruples")

// Check verifies the quadruples of qm by brute force: every tangent sphere
// touches its four spheres and intersects none of the input spheres.
func Check(spheres []geom.Sphere, qm QuadruplesMap, tol geom.Tolerance) error {
	for _, q := range sortedQuadruples(qm) {
		ts := qm[q]
		if q.HasRepetitions() || q[0] < 0 || q[3] >= len(spheres) {
			return fmt.Errorf("%w: bad quadruple %v", ErrInconsistent, q)
		}
		if len(ts) == 0 || len(ts) > 2 || (len(ts) == 2 && tol.SpheresEqual(ts[0], ts[1])) {
			return fmt.Errorf("%w: quadruple %v has %d tangent spheres", ErrInconsistent, q, len(ts))
		}
		for _, t := range ts {
			for _, id := range q {
				if !tol.Touch(t, spheres[id]) {
					return fmt.Errorf("%w: tangent sphere of %v does not touch %d", ErrInconsistent, q, id)
				}
			}
			for id, s := range spheres {
				if tol.Intersect(t, s) {
					return fmt.Errorf("%w: tangent sphere of %v intersects %d", ErrInconsistent, q, id)
				}
			}
		}
	}
	return nil
}
