package parser

import (
	"errors"

	"github.com/Peter-Roger/relathon/pkg/ast"
)

// Diagnostic is implemented by every error the lexer and parser produce.
type Diagnostic interface {
	error
	Kind() string
	Location() ast.Location
	Message() string
}

// LexicalError reports a character that starts no token.
type LexicalError struct {
	Loc ast.Location
}

func (e *LexicalError) Error() string          { return e.Message() }
func (e *LexicalError) Kind() string           { return "Lexical" }
func (e *LexicalError) Location() ast.Location { return e.Loc }
func (e *LexicalError) Message() string        { return "Invalid character" }

type IndentationReason int

const (
	// BadDedent: a dedent to a level never pushed.
	BadDedent IndentationReason = iota
	ExpectedIndent
	UnexpectedIndent
)

type IndentationError struct {
	Loc    ast.Location
	Reason IndentationReason
}

func (e *IndentationError) Error() string          { return e.Message() }
func (e *IndentationError) Kind() string           { return "Indentation" }
func (e *IndentationError) Location() ast.Location { return e.Loc }

func (e *IndentationError) Message() string {
	switch e.Reason {
	case BadDedent:
		return "unindent does not match any outer indentation level"
	case ExpectedIndent:
		return "expected an indented block"
	default:
		return "unexpected indent"
	}
}

// SyntaxError is a grammar violation. Tag is the kind of the offending token.
type SyntaxError struct {
	Loc ast.Location
	Msg string
	Tag ast.TokenKind
}

func (e *SyntaxError) Error() string          { return e.Message() }
func (e *SyntaxError) Kind() string           { return "Syntax" }
func (e *SyntaxError) Location() ast.Location { return e.Loc }

func (e *SyntaxError) Message() string {
	if e.Msg == "" {
		return "Invalid Syntax."
	}
	return e.Msg
}

// NeedsMoreInput reports whether err only means the input stopped early:
// an unclosed block or bracket, or a dedent the next line may still fix.
func NeedsMoreInput(err error) bool {
	var indentErr *IndentationError
	if errors.As(err, &indentErr) {
		return indentErr.Reason == ExpectedIndent || indentErr.Reason == BadDedent
	}
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Tag == ast.EOF || syntaxErr.Tag == ast.NEWLINE
	}
	return false
}
