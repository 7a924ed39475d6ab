// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package tuple provides canonical sorted index tuples used as keys of the tessellation.

package tuple

import (
	"cmp"
	"fmt"
	"slices"
)

// Pair is a sorted pair of sphere indices.
type Pair [2]int

// Triple is a sorted triple of sphere indices.
type Triple [3]int

// Quadruple is a sorted quadruple of sphere indices.
type Quadruple [4]int

// NewPair returns the canonical pair of a and b.
func NewPair(a, b int) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{a, b}
}

// NewTriple returns the canonical triple of a, b and c.
func NewTriple(a, b, c int) Triple {
	t := Triple{a, b, c}
	sort3(&t)
	return t
}

// NewQuadruple returns the canonical quadruple of a, b, c and d.
func NewQuadruple(a, b, c, d int) Quadruple {
	q := Quadruple{a, b, c, d}
	slices.Sort(q[:])
	return q
}

func sort3(t *Triple) {
	if t[1] < t[0] {
		t[0], t[1] = t[1], t[0]
	}
	if t[2] < t[1] {
		t[1], t[2] = t[2], t[1]
	}
	if t[1] < t[0] {
		t[0], t[1] = t[1], t[0]
	}
}

// Contains reports whether x is a member of p.
func (p Pair) Contains(x int) bool { return p[0] == x || p[1] == x }

// HasRepetitions reports whether p holds the same index twice.
func (p Pair) HasRepetitions() bool { return p[0] == p[1] }

// Exclude returns the member other than the i-th.
func (p Pair) Exclude(i int) int {
	if i < 0 || i > 1 {
		panic(fmt.Sprintf("Exclude: index %d out of range [0 2)", i))
	}
	return p[1-i]
}

// Extend returns the triple made of p and x.
func (p Pair) Extend(x int) Triple { return NewTriple(p[0], p[1], x) }

// Compare orders pairs lexicographically.
func (p Pair) Compare(o Pair) int { return compareSlices(p[:], o[:]) }

// Hash returns a hash of the members.
func (p Pair) Hash() uint32 { return hash(p[:]) }

// Contains reports whether x is a member of t.
func (t Triple) Contains(x int) bool { return t[0] == x || t[1] == x || t[2] == x }

// HasRepetitions reports whether t holds the same index twice.
func (t Triple) HasRepetitions() bool { return t[0] == t[1] || t[1] == t[2] }

// Exclude returns the pair without the i-th member.
func (t Triple) Exclude(i int) Pair {
	switch i {
	case 0:
		return Pair{t[1], t[2]}
	case 1:
		return Pair{t[0], t[2]}
	case 2:
		return Pair{t[0], t[1]}
	}
	panic(fmt.Sprintf("Exclude: index %d out of range [0 3)", i))
}

// Extend returns the quadruple made of t and x.
func (t Triple) Extend(x int) Quadruple { return NewQuadruple(t[0], t[1], t[2], x) }

// Pairs returns the three pairs of t.
func (t Triple) Pairs() [3]Pair { return [3]Pair{t.Exclude(0), t.Exclude(1), t.Exclude(2)} }

// Compare orders triples lexicographically.
func (t Triple) Compare(o Triple) int { return compareSlices(t[:], o[:]) }

// Hash returns a hash of the members.
func (t Triple) Hash() uint32 { return hash(t[:]) }

// Contains reports whether x is a member of q.
func (q Quadruple) Contains(x int) bool {
	return q[0] == x || q[1] == x || q[2] == x || q[3] == x
}

// HasRepetitions reports whether q holds the same index twice.
func (q Quadruple) HasRepetitions() bool {
	return q[0] == q[1] || q[1] == q[2] || q[2] == q[3]
}

// Exclude returns the triple without the i-th member.
func (q Quadruple) Exclude(i int) Triple {
	if i < 0 || i > 3 {
		panic(fmt.Sprintf("Exclude: index %d out of range [0 4)", i))
	}
	var t Triple
	k := 0
	for j := range 4 {
		if j != i {
			t[k] = q[j]
			k++
		}
	}
	return t
}

// Triples returns the four faces of q, the i-th one opposite to q[i].
func (q Quadruple) Triples() [4]Triple {
	return [4]Triple{q.Exclude(0), q.Exclude(1), q.Exclude(2), q.Exclude(3)}
}

// Pairs returns the six edges of q.
func (q Quadruple) Pairs() [6]Pair {
	return [6]Pair{
		{q[0], q[1]}, {q[0], q[2]}, {q[0], q[3]},
		{q[1], q[2]}, {q[1], q[3]}, {q[2], q[3]},
	}
}

// NumberOfSubtuple returns the position of the member of q missing from t,
// or -1 if t is not a face of q.
func (q Quadruple) NumberOfSubtuple(t Triple) int {
	for i := range 4 {
		if q.Exclude(i) == t {
			return i
		}
	}
	return -1
}

// Compare orders quadruples lexicographically.
func (q Quadruple) Compare(o Quadruple) int { return compareSlices(q[:], o[:]) }

// Hash returns a hash of the members.
func (q Quadruple) Hash() uint32 { return hash(q[:]) }

func compareSlices(a, b []int) int {
	for i := range a {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Jenkins one-at-a-time over the members.
func hash(v []int) uint32 {
	var h uint32
	for _, x := range v {
		h += uint32(x)
		h += h << 10
		h ^= h >> 6
	}
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return h
}
