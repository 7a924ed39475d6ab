// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package contacts

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/2dChan/apollonius/geom"
	"github.com/sirupsen/logrus"
)

// Solvent is the partner index of a solvent contact.
const Solvent = -1

const (
	DefaultProbe       = 1.4
	DefaultStep        = 0.2
	DefaultProjections = 5
	DefaultSIHDepth    = 3
)

const (
	TagCentral     = "central"
	TagPeripherial = "peripherial"

	AdjunctBoundaryArc = "boundary_arc"
	AdjunctSolvDirX    = "solvdir_x"
	AdjunctSolvDirY    = "solvdir_y"
	AdjunctSolvDirZ    = "solvdir_z"
)

var ErrInvalidParams = errors.New("contacts: invalid parameters")

type Params struct {
	Probe       float64
	Step        float64
	Projections int
	SIHDepth    int
	// Tolerance classifies contour points against the neighbor
	// hyperboloids. Zero means geom.DefaultTolerance.
	Tolerance geom.Tolerance

	// NumInput is the number of leading spheres that are real input,
	// the rest only bound the tessellation. Zero means all.
	NumInput int
	Workers  int

	IncludeZeroArea  bool
	Draw             bool
	TagCentrality    bool
	TagPeripheral    bool
	SolventDirection bool
	BoundaryArcs     bool
	Volumes          bool

	Logger *logrus.Logger
}

func DefaultParams() Params {
	return Params{
		Probe:       DefaultProbe,
		Step:        DefaultStep,
		Projections: DefaultProjections,
		SIHDepth:    DefaultSIHDepth,
		Tolerance:   geom.DefaultTolerance,
		Workers:     1,
	}
}

// normalize clamps the geometric parameters into their working ranges and
// rejects values that cannot be clamped.
func (p Params) normalize(numSpheres int) (Params, error) {
	for name, v := range map[string]float64{"probe": p.Probe, "step": p.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return p, fmt.Errorf("%w: %s is %v", ErrInvalidParams, name, v)
		}
	}
	if tol := float64(p.Tolerance); math.IsNaN(tol) || tol < 0 {
		return p, fmt.Errorf("%w: tolerance is %v", ErrInvalidParams, tol)
	}
	if p.Tolerance == 0 {
		p.Tolerance = geom.DefaultTolerance
	}
	if p.Workers < 1 {
		return p, fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidParams, p.Workers)
	}
	if p.NumInput < 0 || p.NumInput > numSpheres {
		return p, fmt.Errorf("%w: num input %d out of range [0 %d]", ErrInvalidParams, p.NumInput, numSpheres)
	}
	if p.NumInput == 0 {
		p.NumInput = numSpheres
	}
	p.Probe = min(max(p.Probe, 0.01), 14)
	p.Step = min(max(p.Step, 0.05), 0.5)
	p.Projections = min(max(p.Projections, 1), 10)
	p.SIHDepth = min(max(p.SIHDepth, 1), 5)
	if p.Logger == nil {
		p.Logger = logrus.New()
		p.Logger.SetOutput(io.Discard)
	}
	return p, nil
}
