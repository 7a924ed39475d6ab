// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package triangulation constructs the quadruples of the additively weighted
// Voronoi tessellation of a set of spheres: every quadruple of spheres that
// admits a tangent sphere intersecting no input sphere.

package triangulation

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/2dChan/apollonius/bsh"
	"github.com/2dChan/apollonius/geom"
	"github.com/2dChan/apollonius/tuple"
	"github.com/sirupsen/logrus"
)

const (
	defaultEps = float64(geom.DefaultTolerance)
	// DefaultInitRadius is the bucketing radius of the bounding-sphere hierarchy.
	DefaultInitRadius = bsh.DefaultInitialRadius

	restartTraversal = 25
)

var (
	ErrTooFewSpheres = errors.New("triangulation: insufficient spheres for triangulation (minimum 4 required)")
	ErrInvalidSphere = errors.New("triangulation: invalid sphere")
	ErrSeedNotFound  = errors.New("triangulation: no valid first quadruple")
	ErrEmptyResult   = errors.New("triangulation: no valid quadruples")
	ErrInvalidOption = errors.New("triangulation: invalid option")
)

// QuadruplesMap maps every quadruple to its one or two tangent spheres.
type QuadruplesMap map[tuple.Quadruple][]geom.Sphere

// SearchLog counts the work done while constructing the quadruples.
type SearchLog struct {
	AddedQuadruples       int
	AddedTangentSpheres   int
	ProcessedFaces        int
	DifficultFaces        int
	ProducedFaces         int
	UpdatedFaces          int
	TriplesRepetitions    int
	FirstFacesIterations  int
	SurplusQuadruples     int
	SurplusTangentSpheres int
}

type Result struct {
	Quadruples QuadruplesMap
	Log        SearchLog
	// Hidden lists the input spheres enclosed by other spheres and left out.
	Hidden []int
	// Ignored lists the input spheres that belong to no quadruple.
	Ignored []int
	Eps     float64
}

// Vertex is one tangent sphere of a quadruple.
type Vertex struct {
	Quadruple tuple.Quadruple
	Tangent   geom.Sphere
	// Volume is the unsigned volume of the tetrahedron of the quadruple's centers.
	Volume float64
}

type Options struct {
	Eps           float64
	InitRadius    float64
	ExcludeHidden bool
	Surplus       bool
	// Admittance restricts seeding to the listed spheres, nil admits all.
	Admittance []int
	Logger     *logrus.Logger
}

type Option func(*Options) error

func WithEps(eps float64) Option {
	return func(o *Options) error {
		if !(eps > 0) {
			return fmt.Errorf("%w: eps must be positive, got %v", ErrInvalidOption, eps)
		}
		o.Eps = eps
		return nil
	}
}

// WithInitRadius sets the bucketing radius of the bounding-sphere hierarchy.
func WithInitRadius(r float64) Option {
	return func(o *Options) error {
		if !(r > 1) {
			return fmt.Errorf("%w: init radius must be greater than 1, got %v", ErrInvalidOption, r)
		}
		o.InitRadius = r
		return nil
	}
}

// WithExcludeHidden leaves out spheres enclosed by other spheres.
func WithExcludeHidden(exclude bool) Option {
	return func(o *Options) error {
		o.ExcludeHidden = exclude
		return nil
	}
}

// WithSurplus adds every quadruple of a tangent sphere touching more than four spheres.
func WithSurplus(surplus bool) Option {
	return func(o *Options) error {
		o.Surplus = surplus
		return nil
	}
}

func WithAdmittance(ids []int) Option {
	return func(o *Options) error {
		o.Admittance = slices.Clone(ids)
		return nil
	}
}

func WithLogger(l *logrus.Logger) Option {
	return func(o *Options) error {
		if l == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidOption)
		}
		o.Logger = l
		return nil
	}
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Construct finds all quadruples of spheres.
func Construct(spheres []geom.Sphere, setters ...Option) (*Result, error) {
	opts := Options{
		Eps:        defaultEps,
		InitRadius: DefaultInitRadius,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}

	if len(spheres) < 4 {
		return nil, ErrTooFewSpheres
	}
	for i, s := range spheres {
		if !s.Valid() {
			return nil, fmt.Errorf("%w: index %d: %v", ErrInvalidSphere, i, s)
		}
	}

	tol := geom.Tolerance(opts.Eps)
	admitted := make([]bool, len(spheres))
	if opts.Admittance == nil {
		for i := range admitted {
			admitted[i] = true
		}
	}
	for _, id := range opts.Admittance {
		if id >= 0 && id < len(admitted) {
			admitted[id] = true
		}
	}

	res := &Result{Quadruples: make(QuadruplesMap), Eps: opts.Eps}
	h := bsh.New(spheres, opts.InitRadius, bsh.DefaultMinClusters, tol)
	var backward []int
	working := admitted
	if opts.ExcludeHidden {
		res.Hidden = h.FindAllHiddenSpheres()
		if len(res.Hidden) > 0 {
			refined := make([]geom.Sphere, 0, len(spheres)-len(res.Hidden))
			working = make([]bool, 0, cap(refined))
			for i, s := range spheres {
				if _, hidden := slices.BinarySearch(res.Hidden, i); !hidden {
					refined = append(refined, s)
					working = append(working, admitted[i])
					backward = append(backward, i)
				}
			}
			if len(refined) < 4 {
				return nil, fmt.Errorf("%w: %d spheres left after excluding hidden ones", ErrTooFewSpheres, len(refined))
			}
			h = bsh.New(refined, opts.InitRadius, bsh.DefaultMinClusters, tol)
		}
	}

	seeded := findValidQuadruples(h, working, res.Quadruples, &res.Log)
	if opts.Surplus {
		findSurplusQuadruples(h, res.Quadruples, &res.Log)
	}
	if backward != nil {
		res.Quadruples = renumber(res.Quadruples, backward)
	}
	res.Ignored = collectIgnored(admitted, res.Quadruples)

	if len(res.Quadruples) == 0 {
		if !seeded {
			return nil, fmt.Errorf("%w among %d spheres", ErrSeedNotFound, len(spheres))
		}
		return nil, ErrEmptyResult
	}

	opts.Logger.WithFields(logrus.Fields{
		"quadruples":       len(res.Quadruples),
		"tangent_spheres":  res.NumTangentSpheres(),
		"processed_faces":  res.Log.ProcessedFaces,
		"difficult_faces":  res.Log.DifficultFaces,
		"first_iterations": res.Log.FirstFacesIterations,
		"surplus":          res.Log.SurplusTangentSpheres,
		"excluded_hidden":  len(res.Hidden),
		"ignored":          len(res.Ignored),
		"epsilon":          opts.Eps,
	}).Debug("triangulation constructed")

	return res, nil
}

// findValidQuadruples propagates faces from a seed until no face can be
// completed, restarting from spheres that no face used. It reports whether
// the first seed was found.
func findValidQuadruples(h *bsh.Hierarchy, admitted []bool, qm QuadruplesMap, log *SearchLog) bool {
	spheres := h.Leaves()
	stack := findFirstValidFaces(h, admitted, selectStartingSphere(spheres, admitted),
		&log.FirstFacesIterations, false, true, math.MaxInt)
	seeded := len(stack) > 0
	processed := make(map[tuple.Triple]struct{})
	used := make([]bool, len(spheres))
	ignorable := make([]bool, len(spheres))

	for len(stack) > 0 {
		stackMap := make(map[tuple.Triple]int, len(stack))
		for i, f := range stack {
			stackMap[f.abc] = i
		}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			delete(stackMap, f.abc)
			processed[f.abc] = struct{}{}
			log.ProcessedFaces++
			if !f.canHaveD {
				log.DifficultFaces++
			}

			foundD0 := f.canHaveD && !f.hasD(0) && findAnyD(h, f, 0) && findValidD(h, f, 0)
			foundD1 := f.canHaveD && !f.hasD(1) && findAnyD(h, f, 1) && findValidD(h, f, 1)
			foundE := f.canHaveE && findValidE(h, f)
			if foundD0 || foundD1 || foundE {
				for _, qt := range f.produceQuadruples(foundD0, foundD1, foundE) {
					added, tangentAdded := augment(qm, qt.quadruple, qt.tangent, h.Tolerance())
					if added {
						log.AddedQuadruples++
					}
					if tangentAdded {
						log.AddedTangentSpheres++
					}
				}
				for _, p := range f.producePrefaces(foundD0, foundD1, foundE) {
					if !admitted[p.triple[0]] && !admitted[p.triple[1]] && !admitted[p.triple[2]] {
						continue
					}
					if _, done := processed[p.triple]; done {
						log.TriplesRepetitions++
						continue
					}
					if i, ok := stackMap[p.triple]; ok {
						stack[i].setDWithSelection(p.id, p.tangent)
						log.UpdatedFaces++
						continue
					}
					nf := newFace(spheres, p.triple, h.MinRadius(), h.Tolerance())
					nf.setDWithSelection(p.id, p.tangent)
					stackMap[p.triple] = len(stack)
					stack = append(stack, nf)
					log.ProducedFaces++
				}
			}
			if f.hasD(0) || f.hasD(1) || f.hasE() {
				for _, id := range f.abc {
					used[id] = true
				}
			}
		}
		for i := 0; i < len(spheres) && len(stack) == 0; i++ {
			if !used[i] && admitted[i] && !ignorable[i] {
				stack = findFirstValidFaces(h, admitted, i, &log.FirstFacesIterations, true, true, restartTraversal)
				ignorable[i] = true
			}
		}
	}
	return seeded
}

// augment adds the tangent sphere of q to qm. A quadruple keeps at most two
// distinct tangent spheres.
func augment(qm QuadruplesMap, q tuple.Quadruple, tangent geom.Sphere, tol geom.Tolerance) (added, tangentAdded bool) {
	ts, ok := qm[q]
	if !ok {
		qm[q] = []geom.Sphere{tangent}
		return true, true
	}
	if len(ts) == 1 && !tol.SpheresEqual(ts[0], tangent) {
		qm[q] = append(ts, tangent)
		return false, true
	}
	return false, false
}

// Merge adds the quadruples of src to dst.
func Merge(dst, src QuadruplesMap, tol geom.Tolerance) {
	for _, q := range sortedQuadruples(src) {
		for _, t := range src[q] {
			augment(dst, q, t, tol)
		}
	}
}

// findSurplusQuadruples adds the quadruples formed by every four of the
// spheres touched by a tangent sphere that touches more than four.
func findSurplusQuadruples(h *bsh.Hierarchy, qm QuadruplesMap, log *SearchLog) {
	tol := h.Tolerance()
	spheres := h.Leaves()
	var candidates []quadrupleWithTangent
	for _, q := range sortedQuadruples(qm) {
		for _, t := range qm[q] {
			var touching []int
			for _, id := range h.FindAllCollisions(t.Expand(3 * float64(tol))) {
				if tol.Touch(t, spheres[id]) {
					touching = append(touching, id)
				}
			}
			if len(touching) <= 4 {
				continue
			}
			n := len(touching)
			for a := 0; a < n; a++ {
				for b := a + 1; b < n; b++ {
					for c := b + 1; c < n; c++ {
						for d := c + 1; d < n; d++ {
							candidates = append(candidates, quadrupleWithTangent{
								tuple.NewQuadruple(touching[a], touching[b], touching[c], touching[d]), t,
							})
						}
					}
				}
			}
		}
	}
	for _, c := range candidates {
		added, tangentAdded := augment(qm, c.quadruple, c.tangent, tol)
		if added {
			log.SurplusQuadruples++
		}
		if tangentAdded {
			log.SurplusTangentSpheres++
		}
	}
}

func renumber(qm QuadruplesMap, mapping []int) QuadruplesMap {
	res := make(QuadruplesMap, len(qm))
	for q, ts := range qm {
		if q[3] >= len(mapping) {
			continue
		}
		res[tuple.NewQuadruple(mapping[q[0]], mapping[q[1]], mapping[q[2]], mapping[q[3]])] = ts
	}
	return res
}

func collectIgnored(admitted []bool, qm QuadruplesMap) []int {
	included := make([]bool, len(admitted))
	for q := range qm {
		for _, id := range q {
			if id < len(included) {
				included[id] = true
			}
		}
	}
	var ignored []int
	for i := range included {
		if !included[i] && admitted[i] {
			ignored = append(ignored, i)
		}
	}
	return ignored
}

func sortedQuadruples(qm QuadruplesMap) []tuple.Quadruple {
	qs := make([]tuple.Quadruple, 0, len(qm))
	for q := range qm {
		qs = append(qs, q)
	}
	slices.SortFunc(qs, tuple.Quadruple.Compare)
	return qs
}

// NumTangentSpheres returns the number of tangent spheres over all quadruples.
func (r *Result) NumTangentSpheres() int {
	n := 0
	for _, ts := range r.Quadruples {
		n += len(ts)
	}
	return n
}

// Vertices returns one record per tangent sphere, ordered by quadruple.
func (r *Result) Vertices(spheres []geom.Sphere) []Vertex {
	qs := sortedQuadruples(r.Quadruples)
	vertices := make([]Vertex, 0, len(qs))
	for _, q := range qs {
		vol := math.Abs(geom.SignedTetrahedronVolume(
			spheres[q[0]].Center, spheres[q[1]].Center, spheres[q[2]].Center, spheres[q[3]].Center))
		for _, t := range r.Quadruples[q] {
			vertices = append(vertices, Vertex{Quadruple: q, Tangent: t, Volume: vol})
		}
	}
	return vertices
}
