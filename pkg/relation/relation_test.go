package relation

import (
	"errors"
	"math/rand"
	"testing"
)

func mustNew(t testing.TB, rows, cols int, pairs ...Pair) *Relation {
	t.Helper()
	r, err := New(rows, cols, pairs...)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", rows, cols, err)
	}
	return r
}

func TestNewSetsRequestedBits(t *testing.T) {
	r := mustNew(t, 2, 3, Pair{0, 1}, Pair{1, 2})
	if r.Rows() != 2 || r.Cols() != 3 {
		t.Fatalf("shape = %s", r.Shape())
	}
	if got := r.String(); got != "010\n001" {
		t.Fatalf("String = %q", got)
	}
	if r.Count() != 2 || !r.Test(1, 2) || r.Test(0, 0) {
		t.Fatalf("unexpected bits %v", r.Pairs())
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(0, 2); !errors.Is(err, ErrDimension) {
		t.Fatalf("expected ErrDimension, got %v", err)
	}
	if _, err := New(2, 2, Pair{2, 0}); !errors.Is(err, ErrIndex) {
		t.Fatalf("expected ErrIndex, got %v", err)
	}
}

func TestConstants(t *testing.T) {
	o, _ := Empty(2, 2)
	l, _ := Universal(2, 3)
	i, _ := Identity(3, 3)
	if !o.IsEmpty() {
		t.Fatalf("empty relation has bits: %v", o.Pairs())
	}
	if l.String() != "111\n111" {
		t.Fatalf("universal = %q", l.String())
	}
	if i.String() != "100\n010\n001" {
		t.Fatalf("identity = %q", i.String())
	}
}

func TestComposition(t *testing.T) {
	a := mustNew(t, 2, 3, Pair{0, 1}, Pair{1, 0}, Pair{1, 2})
	b := mustNew(t, 3, 2, Pair{0, 0}, Pair{1, 1}, Pair{2, 1})
	got, err := a.Composition(b)
	if err != nil {
		t.Fatalf("Composition: %v", err)
	}
	want := mustNew(t, 2, 2, Pair{0, 1}, Pair{1, 0}, Pair{1, 1})
	if !got.Equals(want) {
		t.Fatalf("composition =\n%s\nwant\n%s", got, want)
	}

	if _, err := a.Composition(a); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestCompositionWithIdentityIsNeutral(t *testing.T) {
	r := mustNew(t, 3, 3, Pair{0, 2}, Pair{2, 1})
	id, _ := Identity(3, 3)
	got, err := r.Composition(id)
	if err != nil {
		t.Fatalf("Composition: %v", err)
	}
	if !got.Equals(r) {
		t.Fatalf("r;I != r:\n%s", got)
	}
}

func TestJoinMeetComplement(t *testing.T) {
	a := mustNew(t, 2, 2, Pair{0, 0}, Pair{0, 1})
	b := mustNew(t, 2, 2, Pair{0, 1}, Pair{1, 1})

	join, err := a.Join(b)
	if err != nil || join.String() != "11\n01" {
		t.Fatalf("join = %q (%v)", join, err)
	}
	meet, err := a.Meet(b)
	if err != nil || meet.String() != "01\n00" {
		t.Fatalf("meet = %q (%v)", meet, err)
	}
	if got := a.Complement().String(); got != "00\n11" {
		t.Fatalf("complement = %q", got)
	}
	if _, err := a.Join(mustNew(t, 1, 2)); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestTranspose(t *testing.T) {
	r := mustNew(t, 2, 2, Pair{0, 1})
	got := r.Transpose()
	if !got.Test(1, 0) || got.Test(0, 1) {
		t.Fatalf("transpose = %v", got.Pairs())
	}
	wide := mustNew(t, 1, 3, Pair{0, 2})
	if tr := wide.Transpose(); tr.Rows() != 3 || tr.Cols() != 1 || !tr.Test(2, 0) {
		t.Fatalf("transpose of %s = %s", wide.Shape(), tr.Shape())
	}
}

func TestOrderingComparisons(t *testing.T) {
	small := mustNew(t, 2, 2, Pair{0, 0})
	big := mustNew(t, 2, 2, Pair{0, 0}, Pair{1, 1})

	cases := []struct {
		name string
		fn   func() (bool, error)
		want bool
	}{
		{"small <= big", func() (bool, error) { return small.IsSubset(big) }, true},
		{"big <= small", func() (bool, error) { return big.IsSubset(small) }, false},
		{"small < big", func() (bool, error) { return small.IsStrictSubset(big) }, true},
		{"small < small", func() (bool, error) { return small.IsStrictSubset(small) }, false},
		{"big >= small", func() (bool, error) { return big.IsSuperset(small) }, true},
		{"big > small", func() (bool, error) { return big.IsStrictSuperset(small) }, true},
		{"big > big", func() (bool, error) { return big.IsStrictSuperset(big) }, false},
	}
	for _, tc := range cases {
		got, err := tc.fn()
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s = %v, want %v", tc.name, got, tc.want)
		}
	}
	if _, err := small.IsSubset(mustNew(t, 1, 1)); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}

func TestEqualsRequiresSameShape(t *testing.T) {
	if mustNew(t, 1, 2).Equals(mustNew(t, 2, 1)) {
		t.Fatalf("relations of different shape compared equal")
	}
	if !mustNew(t, 1, 1).NotEquals(mustNew(t, 1, 1, Pair{0, 0})) {
		t.Fatalf("NotEquals should differ")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	r := mustNew(t, 2, 2)
	c := r.Copy()
	if err := c.SetBits([]Pair{{1, 1}}, true); err != nil {
		t.Fatalf("SetBits: %v", err)
	}
	if !r.IsEmpty() {
		t.Fatalf("mutating the copy changed the original")
	}
}

func TestSetBitsIsAllOrNothing(t *testing.T) {
	r := mustNew(t, 2, 2, Pair{0, 0})
	if err := r.SetBits([]Pair{{1, 1}, {5, 5}}, true); !errors.Is(err, ErrIndex) {
		t.Fatalf("expected ErrIndex, got %v", err)
	}
	if r.Test(1, 1) {
		t.Fatalf("partial update applied")
	}
	if err := r.SetBits([]Pair{{0, 0}}, false); err != nil || !r.IsEmpty() {
		t.Fatalf("unset failed: %v", err)
	}
}

func TestVector(t *testing.T) {
	r := mustNew(t, 3, 2, Pair{0, 0})
	if err := r.Vector(1); err != nil {
		t.Fatalf("Vector: %v", err)
	}
	if r.String() != "00\n11\n00" {
		t.Fatalf("vector = %q", r.String())
	}
	if err := r.Vector(3); !errors.Is(err, ErrIndex) {
		t.Fatalf("expected ErrIndex, got %v", err)
	}
}

func TestRandomIsDeterministicForSeed(t *testing.T) {
	a := mustNew(t, 4, 4)
	b := mustNew(t, 4, 4)
	if err := a.Random(rand.New(rand.NewSource(7)), DefaultProbability); err != nil {
		t.Fatalf("Random: %v", err)
	}
	if err := b.Random(rand.New(rand.NewSource(7)), DefaultProbability); err != nil {
		t.Fatalf("Random: %v", err)
	}
	if !a.Equals(b) {
		t.Fatalf("same seed produced different relations")
	}

	full := mustNew(t, 2, 2)
	full.Random(rand.New(rand.NewSource(1)), 1)
	if full.Count() != 4 {
		t.Fatalf("probability 1 left bits unset: %q", full)
	}
	if err := full.Random(rand.New(rand.NewSource(1)), 1.5); !errors.Is(err, ErrProbability) {
		t.Fatalf("expected ErrProbability, got %v", err)
	}
}

func TestFormatUsesDisplay(t *testing.T) {
	r := mustNew(t, 2, 2, Pair{0, 1}, Pair{1, 0})
	if got := r.Format(Display{One: "#", Zero: "."}); got != ".#\n#." {
		t.Fatalf("Format = %q", got)
	}
}
