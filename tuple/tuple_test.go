// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package tuple

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Construction

func TestNewTriple_Sorted(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c int
		want    Triple
	}{
		{"sorted", 1, 2, 3, Triple{1, 2, 3}},
		{"reversed", 3, 2, 1, Triple{1, 2, 3}},
		{"middle first", 2, 3, 1, Triple{1, 2, 3}},
		{"last first", 3, 1, 2, Triple{1, 2, 3}},
		{"repeated", 5, 0, 5, Triple{0, 5, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTriple(tt.a, tt.b, tt.c)
			if got != tt.want {
				t.Errorf("NewTriple(%d, %d, %d) = %v, want %v", tt.a, tt.b, tt.c, got, tt.want)
			}
		})
	}
}

func TestNewQuadruple_Canonical(t *testing.T) {
	want := Quadruple{0, 4, 7, 9}
	perms := [][4]int{{9, 7, 4, 0}, {4, 0, 9, 7}, {0, 4, 7, 9}, {7, 9, 0, 4}}
	for _, p := range perms {
		if got := NewQuadruple(p[0], p[1], p[2], p[3]); got != want {
			t.Errorf("NewQuadruple(%v) = %v, want %v", p, got, want)
		}
	}
}

func TestHasRepetitions(t *testing.T) {
	if NewPair(1, 2).HasRepetitions() {
		t.Errorf("Pair{1 2}.HasRepetitions() = true, want false")
	}
	if !NewPair(2, 2).HasRepetitions() {
		t.Errorf("Pair{2 2}.HasRepetitions() = false, want true")
	}
	if !NewTriple(1, 3, 1).HasRepetitions() {
		t.Errorf("Triple{1 1 3}.HasRepetitions() = false, want true")
	}
	if !NewQuadruple(0, 8, 3, 8).HasRepetitions() {
		t.Errorf("Quadruple{0 3 8 8}.HasRepetitions() = false, want true")
	}
	if NewQuadruple(0, 1, 2, 3).HasRepetitions() {
		t.Errorf("Quadruple{0 1 2 3}.HasRepetitions() = true, want false")
	}
}

// Closure

func TestQuadruple_Closure(t *testing.T) {
	q := NewQuadruple(3, 11, 5, 8)
	triples := q.Triples()

	seen := make(map[Triple]bool)
	for i, tr := range triples {
		if seen[tr] {
			t.Errorf("q.Triples()[%d] = %v repeated", i, tr)
		}
		seen[tr] = true
		if tr.Contains(q[i]) {
			t.Errorf("q.Triples()[%d] = %v contains excluded %d", i, tr, q[i])
		}
		if got := tr.Extend(q[i]); got != q {
			t.Errorf("%v.Extend(%d) = %v, want %v", tr, q[i], got, q)
		}
		if got := q.NumberOfSubtuple(tr); got != i {
			t.Errorf("q.NumberOfSubtuple(%v) = %d, want %d", tr, got, i)
		}
	}

	pairs := make(map[Pair]bool)
	for _, p := range q.Pairs() {
		pairs[p] = true
	}
	if len(pairs) != 6 {
		t.Fatalf("len(q.Pairs()) distinct = %d, want 6", len(pairs))
	}
	for _, tr := range triples {
		for _, p := range tr.Pairs() {
			if !pairs[p] {
				t.Errorf("pair %v of %v is not an edge of %v", p, tr, q)
			}
		}
	}
}

func TestQuadruple_NumberOfSubtupleMissing(t *testing.T) {
	q := NewQuadruple(0, 1, 2, 3)
	if got := q.NumberOfSubtuple(NewTriple(0, 1, 4)); got != -1 {
		t.Errorf("q.NumberOfSubtuple(Triple{0 1 4}) = %d, want -1", got)
	}
}

func TestExclude(t *testing.T) {
	tr := NewTriple(2, 4, 6)
	tests := []struct {
		name string
		in   int
		want Pair
	}{
		{"index 0", 0, Pair{4, 6}},
		{"index 1", 1, Pair{2, 6}},
		{"index 2", 2, Pair{2, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.Exclude(tt.in); got != tt.want {
				t.Errorf("tr.Exclude(%d) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	assertPanic := func(in int) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("tr.Exclude(%d) did not panic, want panic", in)
			}
		}()
		tr.Exclude(in)
	}
	assertPanic(-1)
	assertPanic(3)
}

// Order and hashing

func TestCompare(t *testing.T) {
	qs := []Quadruple{
		NewQuadruple(1, 2, 3, 5),
		NewQuadruple(0, 2, 3, 4),
		NewQuadruple(1, 2, 3, 4),
	}
	want := []Quadruple{{0, 2, 3, 4}, {1, 2, 3, 4}, {1, 2, 3, 5}}
	sortQuadruples(qs)
	if diff := cmp.Diff(want, qs); diff != "" {
		t.Errorf("sorted quadruples mismatch (-want +got):\n%s", diff)
	}
}

func TestHash_OrderIndependent(t *testing.T) {
	if NewTriple(1, 2, 3).Hash() != NewTriple(3, 1, 2).Hash() {
		t.Errorf("Triple hash depends on construction order")
	}
	if NewPair(0, 1).Hash() == NewPair(0, 2).Hash() {
		t.Errorf("Pair{0 1}.Hash() == Pair{0 2}.Hash(), want different")
	}
}

// Helpers

func sortQuadruples(qs []Quadruple) {
	for i := 1; i < len(qs); i++ {
		for j := i; j > 0 && qs[j].Compare(qs[j-1]) < 0; j-- {
			qs[j], qs[j-1] = qs[j-1], qs[j]
		}
	}
}
