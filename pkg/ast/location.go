package ast

import "fmt"

// Location is an immutable source span. Lines are 1-based, columns are
// 0-based and measured after tab expansion for indentation.
type Location struct {
	Source      string `json:"source"`
	Offset      int    `json:"offset"`
	LineBegin   int    `json:"lineBegin"`
	ColumnBegin int    `json:"columnBegin"`
	LineEnd     int    `json:"lineEnd"`
	ColumnEnd   int    `json:"columnEnd"`
}

// NoLocation marks values that do not originate from source text.
var NoLocation = Location{Source: "<unknown>"}

// NewLocation returns a zero-width location at the given point.
func NewLocation(source string, offset, line, column int) Location {
	return Location{
		Source:      source,
		Offset:      offset,
		LineBegin:   line,
		ColumnBegin: column,
		LineEnd:     line,
		ColumnEnd:   column,
	}
}

// Combine returns the smallest span covering both l and other.
func (l Location) Combine(other Location) Location {
	out := Location{Source: l.Source, Offset: min(l.Offset, other.Offset)}
	if l.Source == "" {
		out.Source = other.Source
	}
	if before(l.LineBegin, l.ColumnBegin, other.LineBegin, other.ColumnBegin) {
		out.LineBegin, out.ColumnBegin = l.LineBegin, l.ColumnBegin
	} else {
		out.LineBegin, out.ColumnBegin = other.LineBegin, other.ColumnBegin
	}
	if before(l.LineEnd, l.ColumnEnd, other.LineEnd, other.ColumnEnd) {
		out.LineEnd, out.ColumnEnd = other.LineEnd, other.ColumnEnd
	} else {
		out.LineEnd, out.ColumnEnd = l.LineEnd, l.ColumnEnd
	}
	return out
}

func before(lineA, colA, lineB, colB int) bool {
	if lineA != lineB {
		return lineA < lineB
	}
	return colA <= colB
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d %d.%d-%d.%d", l.Source, l.Offset, l.LineBegin, l.ColumnBegin, l.LineEnd, l.ColumnEnd)
}
