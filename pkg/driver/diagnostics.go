package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Peter-Roger/relathon/pkg/ast"
	"github.com/Peter-Roger/relathon/pkg/parser"
)

// FormatFrame renders the `File "<name>", line <n>[, in <scope>]` header
// shared by syntax diagnostics and tracebacks.
func FormatFrame(loc ast.Location, scope string) string {
	header := fmt.Sprintf("  File \"%s\", line %d", loc.Source, loc.LineBegin)
	if scope != "" {
		header += ", in " + scope
	}
	return header
}

// RenderSyntaxError formats a lexer or parser diagnostic for the CLI:
// the frame header, the offending line, a caret under the column (not
// for indentation errors) and the `<Kind>Error: <msg>` trailer.
func RenderSyntaxError(diag parser.Diagnostic, sources *Sources) string {
	loc := diag.Location()
	raw := sources.Line(loc.Source, loc.LineBegin)
	line := strings.TrimSpace(raw)

	var b strings.Builder
	b.WriteString(FormatFrame(loc, ""))
	b.WriteString("\n    ")
	b.WriteString(line)
	var indentErr *parser.IndentationError
	if !errors.As(diag, &indentErr) {
		b.WriteString("\n    ")
		b.WriteString(strings.Repeat(" ", caretColumn(raw, loc.ColumnBegin)))
		b.WriteString("^")
	}
	b.WriteString("\n")
	b.WriteString(diag.Kind())
	b.WriteString("Error: ")
	b.WriteString(strings.TrimRight(diag.Message(), " \t\n"))
	return b.String()
}

// caretColumn maps a tab-expanded column onto the stripped line.
func caretColumn(raw string, column int) int {
	width := 0
	for _, c := range raw {
		if c == ' ' {
			width++
		} else if c == '\t' {
			width += parser.TabSize
		} else {
			break
		}
	}
	if column < width {
		return 0
	}
	return column - width
}
