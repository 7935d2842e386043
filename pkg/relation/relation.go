// Package relation implements boolean relations: rows×cols bit matrices
// under relation algebra. Each row is stored as a bitset of width cols.
package relation

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrShape reports operands whose dimensions do not fit the operation.
	ErrShape = errors.New("dimension mismatch")
	// ErrIndex reports a coordinate outside the relation.
	ErrIndex = errors.New("index out of range")
	// ErrDimension reports a non-positive row or column count.
	ErrDimension = errors.New("invalid dimension")
	// ErrProbability reports a random fill probability outside [0, 1].
	ErrProbability = errors.New("probability must be between 0.0 and 1.0")
)

// DefaultProbability is used by Random when no probability is given.
const DefaultProbability = 0.5

// Pair is one (row, col) coordinate.
type Pair struct {
	Row int
	Col int
}

func (p Pair) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Relation is a rows×cols boolean matrix. The zero value is not usable;
// construct relations with New or one of the constants.
type Relation struct {
	rows int
	cols int
	bits []*bitset.BitSet
}

// New returns an empty rows×cols relation with the given bits set.
func New(rows, cols int, pairs ...Pair) (*Relation, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: [%d<->%d]", ErrDimension, rows, cols)
	}
	r := blank(rows, cols)
	if err := r.SetBits(pairs, true); err != nil {
		return nil, err
	}
	return r, nil
}

func blank(rows, cols int) *Relation {
	bits := make([]*bitset.BitSet, rows)
	for i := range bits {
		bits[i] = bitset.New(uint(cols))
	}
	return &Relation{rows: rows, cols: cols, bits: bits}
}

// Empty returns the relation with no bits set.
func Empty(rows, cols int) (*Relation, error) {
	return New(rows, cols)
}

// Universal returns the relation with every bit set.
func Universal(rows, cols int) (*Relation, error) {
	r, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	for _, row := range r.bits {
		row.FlipRange(0, uint(cols))
	}
	return r, nil
}

// Identity returns the relation whose diagonal is set.
func Identity(rows, cols int) (*Relation, error) {
	r, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < min(rows, cols); i++ {
		r.bits[i].Set(uint(i))
	}
	return r, nil
}

func (r *Relation) Rows() int { return r.rows }
func (r *Relation) Cols() int { return r.cols }

// Shape renders the dimensions as [rows<->cols].
func (r *Relation) Shape() string {
	return fmt.Sprintf("[%d<->%d]", r.rows, r.cols)
}

func (r *Relation) sameShape(other *Relation) bool {
	return r.rows == other.rows && r.cols == other.cols
}

func (r *Relation) checkSameShape(op string, other *Relation) error {
	if !r.sameShape(other) {
		return fmt.Errorf("%w: cannot %s %s and %s", ErrShape, op, r.Shape(), other.Shape())
	}
	return nil
}

func (r *Relation) inRange(p Pair) bool {
	return p.Row >= 0 && p.Row < r.rows && p.Col >= 0 && p.Col < r.cols
}

// Test reports whether bit (row, col) is set. Out of range bits are unset.
func (r *Relation) Test(row, col int) bool {
	if !r.inRange(Pair{row, col}) {
		return false
	}
	return r.bits[row].Test(uint(col))
}

// Pairs lists the set bits in row-major order.
func (r *Relation) Pairs() []Pair {
	var out []Pair
	for i, row := range r.bits {
		for j, ok := row.NextSet(0); ok; j, ok = row.NextSet(j + 1) {
			out = append(out, Pair{Row: i, Col: int(j)})
		}
	}
	return out
}

// Count returns the number of set bits.
func (r *Relation) Count() int {
	total := 0
	for _, row := range r.bits {
		total += int(row.Count())
	}
	return total
}

// Copy returns an independent deep copy.
func (r *Relation) Copy() *Relation {
	bits := make([]*bitset.BitSet, r.rows)
	for i, row := range r.bits {
		bits[i] = row.Clone()
	}
	return &Relation{rows: r.rows, cols: r.cols, bits: bits}
}

// IsEmpty reports whether no bit is set.
func (r *Relation) IsEmpty() bool {
	for _, row := range r.bits {
		if !row.None() {
			return false
		}
	}
	return true
}

//----------------------------------------------------------------------
// Algebra
//----------------------------------------------------------------------

// Composition returns r;other, defined when r.Cols == other.Rows. Row i of
// the result is the union of the rows of other selected by row i of r.
func (r *Relation) Composition(other *Relation) (*Relation, error) {
	if r.cols != other.rows {
		return nil, fmt.Errorf("%w: cannot compose %s with %s", ErrShape, r.Shape(), other.Shape())
	}
	out := blank(r.rows, other.cols)
	for i, row := range r.bits {
		for j, ok := row.NextSet(0); ok; j, ok = row.NextSet(j + 1) {
			out.bits[i].InPlaceUnion(other.bits[j])
		}
	}
	return out, nil
}

// Join is the element-wise union.
func (r *Relation) Join(other *Relation) (*Relation, error) {
	if err := r.checkSameShape("join", other); err != nil {
		return nil, err
	}
	out := &Relation{rows: r.rows, cols: r.cols, bits: make([]*bitset.BitSet, r.rows)}
	for i := range r.bits {
		out.bits[i] = r.bits[i].Union(other.bits[i])
	}
	return out, nil
}

// Meet is the element-wise intersection.
func (r *Relation) Meet(other *Relation) (*Relation, error) {
	if err := r.checkSameShape("meet", other); err != nil {
		return nil, err
	}
	out := &Relation{rows: r.rows, cols: r.cols, bits: make([]*bitset.BitSet, r.rows)}
	for i := range r.bits {
		out.bits[i] = r.bits[i].Intersection(other.bits[i])
	}
	return out, nil
}

// Transpose returns the converse relation.
func (r *Relation) Transpose() *Relation {
	out := blank(r.cols, r.rows)
	for i, row := range r.bits {
		for j, ok := row.NextSet(0); ok; j, ok = row.NextSet(j + 1) {
			out.bits[j].Set(uint(i))
		}
	}
	return out
}

// Complement flips every bit.
func (r *Relation) Complement() *Relation {
	out := &Relation{rows: r.rows, cols: r.cols, bits: make([]*bitset.BitSet, r.rows)}
	for i, row := range r.bits {
		out.bits[i] = row.Complement()
	}
	return out
}

// Equals reports whether both relations have the same shape and bits.
func (r *Relation) Equals(other *Relation) bool {
	if !r.sameShape(other) {
		return false
	}
	for i := range r.bits {
		if !r.bits[i].Equal(other.bits[i]) {
			return false
		}
	}
	return true
}

func (r *Relation) NotEquals(other *Relation) bool {
	return !r.Equals(other)
}

// IsSubset reports r ⊆ other.
func (r *Relation) IsSubset(other *Relation) (bool, error) {
	if err := r.checkSameShape("compare", other); err != nil {
		return false, err
	}
	for i := range r.bits {
		if !other.bits[i].IsSuperSet(r.bits[i]) {
			return false, nil
		}
	}
	return true, nil
}

// IsSuperset reports r ⊇ other.
func (r *Relation) IsSuperset(other *Relation) (bool, error) {
	return other.IsSubset(r)
}

// IsStrictSubset reports r ⊂ other.
func (r *Relation) IsStrictSubset(other *Relation) (bool, error) {
	sub, err := r.IsSubset(other)
	if err != nil || !sub {
		return false, err
	}
	return !r.Equals(other), nil
}

// IsStrictSuperset reports r ⊃ other.
func (r *Relation) IsStrictSuperset(other *Relation) (bool, error) {
	return other.IsStrictSubset(r)
}

//----------------------------------------------------------------------
// Mutation
//----------------------------------------------------------------------

// SetBits turns every listed bit on or off. No bit changes when any pair is
// out of range.
func (r *Relation) SetBits(pairs []Pair, on bool) error {
	for _, p := range pairs {
		if !r.inRange(p) {
			return fmt.Errorf("%w: bit %s in %s relation", ErrIndex, p, r.Shape())
		}
	}
	for _, p := range pairs {
		r.bits[p.Row].SetTo(uint(p.Col), on)
	}
	return nil
}

// Random replaces every bit with one drawn from rng, set with probability
// prob.
func (r *Relation) Random(rng *rand.Rand, prob float64) error {
	if prob < 0 || prob > 1 {
		return fmt.Errorf("%w: got %g", ErrProbability, prob)
	}
	for _, row := range r.bits {
		for j := 0; j < r.cols; j++ {
			row.SetTo(uint(j), rng.Float64() < prob)
		}
	}
	return nil
}

// Vector clears the relation and sets every bit of the given row.
func (r *Relation) Vector(row int) error {
	if row < 0 || row >= r.rows {
		return fmt.Errorf("%w: vector row %d in %s relation", ErrIndex, row, r.Shape())
	}
	for i, bits := range r.bits {
		bits.ClearAll()
		if i == row {
			bits.FlipRange(0, uint(r.cols))
		}
	}
	return nil
}

//----------------------------------------------------------------------
// Display
//----------------------------------------------------------------------

// Display holds the glyphs used to print set and unset bits.
type Display struct {
	One  string `yaml:"one"`
	Zero string `yaml:"zero"`
}

// DefaultDisplay prints bits as 1 and 0.
var DefaultDisplay = Display{One: "1", Zero: "0"}

// Format renders one line per row.
func (r *Relation) Format(d Display) string {
	var b strings.Builder
	for i, row := range r.bits {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j := 0; j < r.cols; j++ {
			if row.Test(uint(j)) {
				b.WriteString(d.One)
			} else {
				b.WriteString(d.Zero)
			}
		}
	}
	return b.String()
}

func (r *Relation) String() string {
	return r.Format(DefaultDisplay)
}
