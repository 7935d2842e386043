// Package parser turns Relathon source text into an ast.Module.
//
// The lexer synthesises INDENT and DEDENT tokens from leading whitespace the
// way the parser's suite production expects them. Physical lines joined by
// open brackets or a trailing backslash form one logical line. Blank and
// comment-only lines never change the indentation level.
package parser

import (
	"unicode/utf8"

	"github.com/Peter-Roger/relathon/pkg/ast"
	"github.com/emirpasic/gods/stacks/arraystack"
)

// TabSize is the column width a leading tab expands to.
const TabSize = 8

// TokenSource is what the parser pulls tokens from.
type TokenSource interface {
	NextToken() (ast.Token, error)
}

// Lexer produces tokens on demand. In eager mode the whole input is
// tokenised up front and NextToken walks the buffer.
type Lexer struct {
	name  string
	input string

	pos    int
	line   int
	column int
	atBOL  bool

	nesting       int
	blockExpected bool

	indents        *arraystack.Stack
	pendingDedents int
	bolLoc         ast.Location

	eager  bool
	tokens []ast.Token
	index  int
}

// NewLexer returns a streaming lexer over input; name labels locations.
func NewLexer(name, input string) *Lexer {
	indents := arraystack.New()
	indents.Push(0)
	return &Lexer{
		name:    name,
		input:   input,
		line:    1,
		atBOL:   true,
		indents: indents,
	}
}

// NewInteractiveLexer tokenises input eagerly, as the console needs to
// inspect nesting and block state before parsing.
func NewInteractiveLexer(name, input string) (*Lexer, error) {
	l := NewLexer(name, input)
	l.eager = true
	for {
		tok, err := l.scan()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
		if tok.Kind == ast.EOF {
			return l, nil
		}
	}
}

// NextToken returns the next token. EOF repeats once input is exhausted.
func (l *Lexer) NextToken() (ast.Token, error) {
	if !l.eager {
		return l.scan()
	}
	tok := l.tokens[l.index]
	if l.index < len(l.tokens)-1 {
		l.index++
	}
	return tok, nil
}

// Tokens returns the eager-mode token buffer.
func (l *Lexer) Tokens() []ast.Token {
	return l.tokens
}

// Nesting is the count of currently open ( and [ brackets.
func (l *Lexer) Nesting() int {
	return l.nesting
}

// BlockExpected reports whether a ':' has been seen that no blank line
// has closed yet. Only meaningful for interactive input.
func (l *Lexer) BlockExpected() bool {
	return l.blockExpected
}

func (l *Lexer) here() ast.Location {
	return ast.NewLocation(l.name, l.pos, l.line, l.column)
}

func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset < len(l.input) {
		return l.input[l.pos+offset]
	}
	return 0
}

// newlineWidth returns the length of a line break at pos+offset, or 0.
func (l *Lexer) newlineWidth(offset int) int {
	switch l.peekByte(offset) {
	case '\n':
		return 1
	case '\r':
		if l.peekByte(offset+1) == '\n' {
			return 2
		}
	}
	return 0
}

func (l *Lexer) nextLine(width int) {
	l.pos += width
	l.line++
	l.column = 0
}

func (l *Lexer) scan() (ast.Token, error) {
	for {
		if l.pendingDedents > 0 {
			l.pendingDedents--
			return ast.NewToken(ast.DEDENT, "DEDENT", l.bolLoc), nil
		}
		if l.pos >= len(l.input) {
			return ast.NewToken(ast.EOF, "", l.here()), nil
		}
		if l.atBOL {
			tok, ok, err := l.indentation()
			if err != nil || ok {
				return tok, err
			}
			continue
		}

		c := l.input[l.pos]
		switch {
		case c == ' ' || c == '\t':
			l.pos++
			l.column++
			continue
		case c == '\\' && l.newlineWidth(1) > 0:
			l.nextLine(1 + l.newlineWidth(1))
			continue
		case c == '#':
			for l.pos < len(l.input) && l.newlineWidth(0) == 0 {
				l.pos++
			}
			continue
		case l.newlineWidth(0) > 0:
			width := l.newlineWidth(0)
			if l.nesting > 0 {
				l.nextLine(width)
				continue
			}
			loc := l.here()
			loc.ColumnEnd = 0
			l.nextLine(width)
			l.atBOL = true
			return ast.NewToken(ast.NEWLINE, "\n", loc), nil
		}
		return l.lexeme()
	}
}

// indentation handles the start of a logical line. It reports ok when a
// token (INDENT or the first DEDENT) should be returned.
func (l *Lexer) indentation() (ast.Token, bool, error) {
	start := l.pos
	width := 0
	for ; l.pos < len(l.input); l.pos++ {
		c := l.input[l.pos]
		if c == ' ' {
			width++
		} else if c == '\t' {
			width += TabSize
		} else {
			break
		}
	}

	switch {
	case l.pos >= len(l.input):
		return ast.Token{}, false, nil
	case l.newlineWidth(0) > 0:
		if l.eager {
			l.blockExpected = false
		}
		l.nextLine(l.newlineWidth(0))
		return ast.Token{}, false, nil
	case l.input[l.pos] == '\\' && l.newlineWidth(1) > 0:
		l.nextLine(1 + l.newlineWidth(1))
		return ast.Token{}, false, nil
	case l.input[l.pos] == '#':
		for l.pos < len(l.input) && l.newlineWidth(0) == 0 {
			l.pos++
		}
		if l.pos < len(l.input) {
			l.nextLine(l.newlineWidth(0))
		}
		return ast.Token{}, false, nil
	}

	l.atBOL = false
	l.column = width
	loc := ast.Location{
		Source:      l.name,
		Offset:      start,
		LineBegin:   l.line,
		ColumnBegin: 0,
		LineEnd:     l.line,
		ColumnEnd:   width,
	}
	top := l.topIndent()
	switch {
	case width > top:
		l.indents.Push(width)
		return ast.NewToken(ast.INDENT, "INDENT", loc), true, nil
	case width < top:
		dedents := 0
		for l.indents.Size() > 1 && width < l.topIndent() {
			l.indents.Pop()
			dedents++
		}
		if width != l.topIndent() {
			return ast.Token{}, false, &IndentationError{Loc: loc, Reason: BadDedent}
		}
		l.bolLoc = loc
		l.pendingDedents = dedents - 1
		return ast.NewToken(ast.DEDENT, "DEDENT", loc), true, nil
	}
	return ast.Token{}, false, nil
}

func (l *Lexer) topIndent() int {
	top, _ := l.indents.Peek()
	return top.(int)
}

func (l *Lexer) lexeme() (ast.Token, error) {
	start := l.pos
	c := l.input[l.pos]
	var kind ast.TokenKind

	switch {
	case isIdentStart(c):
		l.pos++
		for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
			l.pos++
		}
		kind = ast.LookupIdent(l.input[start:l.pos])
	case isDigit(c) || (c == '.' && isDigit(l.peekByte(1))):
		kind = l.number()
	case c == '"' || c == '\'':
		r, size := utf8.DecodeRuneInString(l.input[l.pos+1:])
		closing := l.pos + 1 + size
		if size == 0 || r == '\n' || closing >= len(l.input) || l.input[closing] != c {
			return ast.Token{}, l.invalid()
		}
		l.pos = closing + 1
		kind = ast.CHAR
	default:
		var ok bool
		if kind, ok = operator(c, l.peekByte(1)); !ok {
			return ast.Token{}, l.invalid()
		}
		l.pos += len(kind.Spelling())
	}

	switch kind {
	case ast.LPAR, ast.LSQB:
		l.nesting++
	case ast.RPAR, ast.RSQB:
		if l.nesting > 0 {
			l.nesting--
		}
	case ast.COLON:
		l.blockExpected = true
	}

	text := l.input[start:l.pos]
	loc := ast.NewLocation(l.name, start, l.line, l.column)
	l.column += utf8.RuneCountInString(text)
	loc.ColumnEnd = l.column
	return ast.NewToken(kind, text, loc), nil
}

// number scans INTEGER (0 or [1-9][0-9]*) or FLOAT ((0|[1-9][0-9]*)?.[0-9]+).
func (l *Lexer) number() ast.TokenKind {
	end := l.pos
	if end < len(l.input) && l.input[end] == '0' {
		end++
	} else {
		for end < len(l.input) && isDigit(l.input[end]) {
			end++
		}
	}
	if end+1 < len(l.input) && l.input[end] == '.' && isDigit(l.input[end+1]) {
		end++
		for end < len(l.input) && isDigit(l.input[end]) {
			end++
		}
		l.pos = end
		return ast.FLOAT
	}
	l.pos = end
	return ast.INTEGER
}

func (l *Lexer) invalid() error {
	loc := l.here()
	loc.ColumnEnd++
	return &LexicalError{Loc: loc}
}

func operator(c, next byte) (ast.TokenKind, bool) {
	if next == '=' {
		switch c {
		case '*':
			return ast.STAREQUAL, true
		case '|':
			return ast.VBAREQUAL, true
		case '&':
			return ast.AMBEREQUAL, true
		case '=':
			return ast.EQEQUAL, true
		case '!':
			return ast.NOTEQUAL, true
		case '<':
			return ast.LESSEQUAL, true
		case '>':
			return ast.GREATEREQUAL, true
		}
	}
	switch c {
	case '(':
		return ast.LPAR, true
	case ')':
		return ast.RPAR, true
	case '[':
		return ast.LSQB, true
	case ']':
		return ast.RSQB, true
	case ':':
		return ast.COLON, true
	case ',':
		return ast.COMMA, true
	case ';':
		return ast.SEMI, true
	case '*':
		return ast.STAR, true
	case '|':
		return ast.VBAR, true
	case '&':
		return ast.AMBER, true
	case '^':
		return ast.CIRCUMFLEX, true
	case '<':
		return ast.LESS, true
	case '>':
		return ast.GREATER, true
	case '=':
		return ast.EQUAL, true
	case '~':
		return ast.TILDE, true
	}
	return "", false
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
