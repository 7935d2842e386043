package parser

import (
	"errors"
	"testing"

	"github.com/Peter-Roger/relathon/pkg/ast"
)

func lexKinds(t testing.TB, source string) []ast.TokenKind {
	t.Helper()
	lexer := NewLexer("test", source)
	var kinds []ast.TokenKind
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("lex %q: %v", source, err)
		}
		kinds = append(kinds, tok.Kind)
		if tok.Kind == ast.EOF {
			return kinds
		}
	}
}

func lexError(source string) error {
	lexer := NewLexer("test", source)
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return err
		}
		if tok.Kind == ast.EOF {
			return nil
		}
	}
}

func checkKinds(t *testing.T, source string, want ...ast.TokenKind) {
	t.Helper()
	got := lexKinds(t, source)
	if len(got) != len(want) {
		t.Fatalf("lex %q: got %v, want %v", source, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lex %q: token %d is %s, want %s (all: %v)", source, i, got[i], want[i], got)
		}
	}
}

func TestLexKeywords(t *testing.T) {
	for word, kind := range map[string]ast.TokenKind{
		"def": ast.FUNCDEF, "return": ast.RETURN, "if": ast.IF, "elif": ast.ELIF,
		"else": ast.ELSE, "while": ast.WHILE, "continue": ast.CONTINUE, "break": ast.BREAK,
		"pass": ast.PASS, "and": ast.AND, "or": ast.OR, "not": ast.NOT,
		"True": ast.TRUE, "False": ast.FALSE, "None": ast.NONE, "import": ast.IMPORT,
	} {
		checkKinds(t, word, kind, ast.EOF)
	}
}

func TestLexIdentifiers(t *testing.T) {
	for _, id := range []string{"_", "_a", "_A", "a", "A", "Ba", "bA", "__", "_a0", "a_0", "a-b"} {
		checkKinds(t, id, ast.IDENTIFIER, ast.EOF)
	}
}

func TestLexLexemes(t *testing.T) {
	lexer := NewLexer("test", "func1(param1, param2):")
	want := []string{"func1", "(", "param1", ",", "param2", ")", ":", ""}
	for _, lexeme := range want {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		if tok.Lexeme != lexeme {
			t.Fatalf("lexeme = %q, want %q", tok.Lexeme, lexeme)
		}
	}
}

func TestLexNumerals(t *testing.T) {
	cases := []struct {
		text string
		kind ast.TokenKind
	}{
		{"0", ast.INTEGER},
		{"1", ast.INTEGER},
		{"99999", ast.INTEGER},
		{"0.1", ast.FLOAT},
		{".1", ast.FLOAT},
		{".9999", ast.FLOAT},
		{"15.456", ast.FLOAT},
	}
	for _, tc := range cases {
		checkKinds(t, tc.text, tc.kind, ast.EOF)
	}
	checkKinds(t, "01", ast.INTEGER, ast.INTEGER, ast.EOF)
	checkKinds(t, "00.5", ast.INTEGER, ast.FLOAT, ast.EOF)

	lexer := NewLexer("test", "00.5 10.25")
	for _, want := range []string{"0", "0.5", "10.25"} {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		if tok.Lexeme != want {
			t.Fatalf("lexeme = %q, want %q", tok.Lexeme, want)
		}
	}
}

func TestLexOperators(t *testing.T) {
	cases := map[string]ast.TokenKind{
		"*": ast.STAR, "|": ast.VBAR, "&": ast.AMBER, "^": ast.CIRCUMFLEX, "~": ast.TILDE,
		"==": ast.EQEQUAL, "!=": ast.NOTEQUAL, "<=": ast.LESSEQUAL, ">=": ast.GREATEREQUAL,
		"<": ast.LESS, ">": ast.GREATER, "*=": ast.STAREQUAL, "|=": ast.VBAREQUAL,
		"&=": ast.AMBEREQUAL, "=": ast.EQUAL, ";": ast.SEMI, ",": ast.COMMA, ":": ast.COLON,
	}
	for text, kind := range cases {
		checkKinds(t, text, kind, ast.EOF)
	}
}

func TestLexChars(t *testing.T) {
	lexer := NewLexer("test", `'#' "λ"`)
	for _, want := range []string{`'#'`, `"λ"`} {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		if tok.Kind != ast.CHAR || tok.Lexeme != want {
			t.Fatalf("got %v, want CHAR %s", tok, want)
		}
	}
}

func TestLexBrackets(t *testing.T) {
	checkKinds(t, "(())()", ast.LPAR, ast.LPAR, ast.RPAR, ast.RPAR, ast.LPAR, ast.RPAR, ast.EOF)
	checkKinds(t, "[][[]]", ast.LSQB, ast.RSQB, ast.LSQB, ast.LSQB, ast.RSQB, ast.RSQB, ast.EOF)
}

func TestLexLineStructure(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   []ast.TokenKind
	}{
		{"newline", "a\nb", []ast.TokenKind{ast.IDENTIFIER, ast.NEWLINE, ast.IDENTIFIER, ast.EOF}},
		{"crlf", "a\r\nb", []ast.TokenKind{ast.IDENTIFIER, ast.NEWLINE, ast.IDENTIFIER, ast.EOF}},
		{"blank lines", " \n\t\n \t\n\t  \t \n#", []ast.TokenKind{ast.EOF}},
		{"indent", "    a", []ast.TokenKind{ast.INDENT, ast.IDENTIFIER, ast.EOF}},
		{"blank indent", "\n\t\t\na", []ast.TokenKind{ast.IDENTIFIER, ast.EOF}},
		{"comment outdent", "\ta\n#", []ast.TokenKind{ast.INDENT, ast.IDENTIFIER, ast.NEWLINE, ast.EOF}},
		{"comment", "a #comment", []ast.TokenKind{ast.IDENTIFIER, ast.EOF}},
		{"comment newline", "a#comment\nb", []ast.TokenKind{ast.IDENTIFIER, ast.NEWLINE, ast.IDENTIFIER, ast.EOF}},
		{"indented comment", "    #comment\nb", []ast.TokenKind{ast.IDENTIFIER, ast.EOF}},
		{"line continuation", "a\\\nb", []ast.TokenKind{ast.IDENTIFIER, ast.IDENTIFIER, ast.EOF}},
		{"bracket continuation", "(a\n, b)", []ast.TokenKind{ast.LPAR, ast.IDENTIFIER, ast.COMMA, ast.IDENTIFIER, ast.RPAR, ast.EOF}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			checkKinds(t, tc.source, tc.want...)
		})
	}
}

func TestLexFunctionBlocks(t *testing.T) {
	checkKinds(t, "def bar(a, b):\n\treturn a",
		ast.FUNCDEF, ast.IDENTIFIER, ast.LPAR, ast.IDENTIFIER, ast.COMMA, ast.IDENTIFIER,
		ast.RPAR, ast.COLON, ast.NEWLINE, ast.INDENT, ast.RETURN, ast.IDENTIFIER, ast.EOF)

	checkKinds(t, "def foo(a):\n\treturn a\n\n\n\ndef bar(b):\n\treturn b\n",
		ast.FUNCDEF, ast.IDENTIFIER, ast.LPAR, ast.IDENTIFIER, ast.RPAR, ast.COLON,
		ast.NEWLINE, ast.INDENT, ast.RETURN, ast.IDENTIFIER, ast.NEWLINE, ast.DEDENT,
		ast.FUNCDEF, ast.IDENTIFIER, ast.LPAR, ast.IDENTIFIER, ast.RPAR, ast.COLON,
		ast.NEWLINE, ast.INDENT, ast.RETURN, ast.IDENTIFIER, ast.NEWLINE, ast.EOF)
}

func TestLexMultipleDedents(t *testing.T) {
	checkKinds(t, "a:\n  b:\n    c\nd",
		ast.IDENTIFIER, ast.COLON, ast.NEWLINE,
		ast.INDENT, ast.IDENTIFIER, ast.COLON, ast.NEWLINE,
		ast.INDENT, ast.IDENTIFIER, ast.NEWLINE,
		ast.DEDENT, ast.DEDENT, ast.IDENTIFIER, ast.EOF)
}

func TestLexTabsExpandToEightColumns(t *testing.T) {
	checkKinds(t, "a\n\tb\n        c", ast.IDENTIFIER, ast.NEWLINE, ast.INDENT, ast.IDENTIFIER, ast.NEWLINE, ast.IDENTIFIER, ast.EOF)
}

func TestLexBadDedent(t *testing.T) {
	err := lexError("a\n\t\tb\n\tc")
	var indentErr *IndentationError
	if !errors.As(err, &indentErr) || indentErr.Reason != BadDedent {
		t.Fatalf("expected BadDedent, got %v", err)
	}
	if indentErr.Location().LineBegin != 3 {
		t.Fatalf("error line = %d, want 3", indentErr.Location().LineBegin)
	}
}

func TestLexInvalidCharacter(t *testing.T) {
	for _, source := range []string{"$", "a ? b", "'ab'", "'"} {
		err := lexError(source)
		var lexErr *LexicalError
		if !errors.As(err, &lexErr) {
			t.Fatalf("lex %q: expected LexicalError, got %v", source, err)
		}
		if lexErr.Message() != "Invalid character" {
			t.Fatalf("message = %q", lexErr.Message())
		}
	}
}

func TestLexTokenLocations(t *testing.T) {
	lexer := NewLexer("m.rel", "a = b\n  cd")
	want := []ast.Location{
		{Source: "m.rel", Offset: 0, LineBegin: 1, ColumnBegin: 0, LineEnd: 1, ColumnEnd: 1},
		{Source: "m.rel", Offset: 2, LineBegin: 1, ColumnBegin: 2, LineEnd: 1, ColumnEnd: 3},
		{Source: "m.rel", Offset: 4, LineBegin: 1, ColumnBegin: 4, LineEnd: 1, ColumnEnd: 5},
	}
	for i, loc := range want {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		if tok.Location != loc {
			t.Fatalf("token %d location = %+v, want %+v", i, tok.Location, loc)
		}
	}
	lexer.NextToken() // NEWLINE
	lexer.NextToken() // INDENT
	tok, _ := lexer.NextToken()
	if tok.Location.LineBegin != 2 || tok.Location.ColumnBegin != 2 || tok.Location.ColumnEnd != 4 {
		t.Fatalf("cd location = %+v", tok.Location)
	}
}

func TestInteractiveLexerTracksOpenBlocks(t *testing.T) {
	lexer, err := NewInteractiveLexer("<stdin>", "while r:\n")
	if err != nil {
		t.Fatalf("NewInteractiveLexer: %v", err)
	}
	if !lexer.BlockExpected() {
		t.Fatalf("expected an open block after ':'")
	}

	lexer, err = NewInteractiveLexer("<stdin>", "while r:\n\tr = s\n\n")
	if err != nil {
		t.Fatalf("NewInteractiveLexer: %v", err)
	}
	if lexer.BlockExpected() {
		t.Fatalf("blank line should close the block")
	}

	lexer, err = NewInteractiveLexer("<stdin>", "new(2,\n")
	if err != nil {
		t.Fatalf("NewInteractiveLexer: %v", err)
	}
	if lexer.Nesting() != 1 {
		t.Fatalf("nesting = %d, want 1", lexer.Nesting())
	}
	last := lexer.Tokens()[len(lexer.Tokens())-1]
	if last.Kind != ast.EOF {
		t.Fatalf("last token = %v", last)
	}
}

func TestEOFRepeats(t *testing.T) {
	lexer := NewLexer("test", "a")
	lexer.NextToken()
	for i := 0; i < 3; i++ {
		tok, err := lexer.NextToken()
		if err != nil || tok.Kind != ast.EOF {
			t.Fatalf("expected EOF, got %v (%v)", tok, err)
		}
	}
}
