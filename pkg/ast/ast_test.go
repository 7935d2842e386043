package ast

import "testing"

func TestLocationCombineCoversBothSpans(t *testing.T) {
	a := Location{Source: "m.rel", Offset: 4, LineBegin: 1, ColumnBegin: 4, LineEnd: 1, ColumnEnd: 5}
	b := Location{Source: "m.rel", Offset: 10, LineBegin: 2, ColumnBegin: 1, LineEnd: 2, ColumnEnd: 3}

	got := a.Combine(b)
	want := Location{Source: "m.rel", Offset: 4, LineBegin: 1, ColumnBegin: 4, LineEnd: 2, ColumnEnd: 3}
	if got != want {
		t.Fatalf("Combine = %v, want %v", got, want)
	}
	if rev := b.Combine(a); rev != want {
		t.Fatalf("Combine is not symmetric: %v", rev)
	}
}

func TestEqualIgnoresLocations(t *testing.T) {
	left := Bin(STAR, ID("a"), Unary(CIRCUMFLEX, ID("b")))
	right := Bin(STAR, ID("a"), Unary(CIRCUMFLEX, ID("b")))
	SetLocation(left, NewLocation("x.rel", 0, 1, 0))
	SetLocation(right.Left, NewLocation("y.rel", 9, 3, 7))
	right.Operator.Location = NewLocation("y.rel", 2, 1, 2)

	if !Equal(left, right) {
		t.Fatalf("expected structurally equal trees")
	}
	if Equal(left, Bin(VBAR, ID("a"), Unary(CIRCUMFLEX, ID("b")))) {
		t.Fatalf("different operators compared equal")
	}
	if Equal(BoolOp(OR, ID("a"), ID("b")), Bin(OR, ID("a"), ID("b"))) {
		t.Fatalf("BooleanOperation compared equal to BinaryOperation")
	}
}

func TestTokenEqualityIgnoresLocation(t *testing.T) {
	a := NewToken(IDENTIFIER, "r", NewLocation("<stdin>", 0, 1, 0))
	b := NewToken(IDENTIFIER, "r", NewLocation("<stdin>", 5, 2, 3))
	if !a.Equal(b) {
		t.Fatalf("tokens should compare equal")
	}
	if a.Equal(NewToken(IDENTIFIER, "s", a.Location)) {
		t.Fatalf("tokens with different lexemes compared equal")
	}
}

func TestFormatExpression(t *testing.T) {
	cases := []struct {
		expr Expression
		want string
	}{
		{Bin(STAR, ID("a"), ID("b")), "(a * b)"},
		{Unary(TILDE, Unary(CIRCUMFLEX, ID("a"))), "(~(a^))"},
		{Call("new", Int(2), Int(2), Pairs([2]int64{0, 1})), "new(2, 2, [(0, 1)])"},
		{Ternary(ID("a"), Cmp(LESS, ID("a"), ID("b")), None()), "(a if (a < b) else None)"},
		{Flt(1), "1.0"},
		{Chr(`"`), `'"'`},
		{BoolOp(AND, Bool(true), Unary(NOT, Bool(false))), "(True and (not False))"},
	}
	for _, tc := range cases {
		if got := FormatExpression(tc.expr); got != tc.want {
			t.Fatalf("FormatExpression = %q, want %q", got, tc.want)
		}
	}
}

func TestFormatModuleIndentsSuites(t *testing.T) {
	mod := Mod(
		Def("f", []string{"a", "b"}, Ret(Bin(AMBER, ID("a"), ID("b")))),
		While(Cmp(NOTEQUAL, ID("r"), ID("s")), Assign("r", ID("s")), NewBreakStatement()),
	)
	want := "def f(a, b):\n\treturn (a & b)\nwhile (r != s):\n\tr = s\n\tbreak\n"
	if got := Format(mod); got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}
}
