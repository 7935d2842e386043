package ast

import (
	"strconv"
	"strings"
)

// Format renders node back to source text. Compound expressions are
// parenthesised so the output re-parses to an equal tree.
func Format(node Node) string {
	var b strings.Builder
	f := formatter{b: &b}
	f.node(node, 0)
	return b.String()
}

type formatter struct {
	b *strings.Builder
}

func (f formatter) line(depth int, text string) {
	f.b.WriteString(strings.Repeat("\t", depth))
	f.b.WriteString(text)
	f.b.WriteByte('\n')
}

func (f formatter) node(node Node, depth int) {
	switch n := node.(type) {
	case *Module:
		f.statements(n.Statements, depth)
	case *Suite:
		f.statements(n.Statements, depth)
	case *FunctionDefinition:
		names := make([]string, 0, len(n.Parameters))
		for _, p := range n.Parameters {
			names = append(names, p.Variable.Name)
		}
		f.line(depth, "def "+n.Name.Name+"("+strings.Join(names, ", ")+"):")
		f.node(n.Body, depth+1)
	case *IfStatement:
		f.line(depth, "if "+FormatExpression(n.Condition)+":")
		f.node(n.Body, depth+1)
		for _, elif := range n.Elifs {
			f.line(depth, "elif "+FormatExpression(elif.Condition)+":")
			f.node(elif.Body, depth+1)
		}
		if n.Else != nil && len(n.Else.Statements) > 0 {
			f.line(depth, "else:")
			f.node(n.Else, depth+1)
		}
	case *WhileStatement:
		f.line(depth, "while "+FormatExpression(n.Condition)+":")
		f.node(n.Body, depth+1)
		if n.Else != nil && len(n.Else.Statements) > 0 {
			f.line(depth, "else:")
			f.node(n.Else, depth+1)
		}
	case *Null:
	default:
		if stmt, ok := node.(Statement); ok {
			f.line(depth, formatSimple(stmt))
		}
	}
}

// statements writes one line per statement; a nested Suite is a `;` line.
func (f formatter) statements(stmts []Statement, depth int) {
	for _, stmt := range stmts {
		line, ok := stmt.(*Suite)
		if !ok {
			f.node(stmt, depth)
			continue
		}
		parts := make([]string, 0, len(line.Statements))
		for _, small := range line.Statements {
			parts = append(parts, formatSimple(small))
		}
		f.line(depth, strings.Join(parts, "; "))
	}
}

func formatSimple(stmt Statement) string {
	switch n := stmt.(type) {
	case *ImportStatement:
		return "import " + n.Name.Name
	case *ReturnStatement:
		if n.Expression == nil {
			return "return"
		}
		return "return " + FormatExpression(n.Expression)
	case *Assignment:
		return n.Target.Name + " " + n.Operator.Kind.Spelling() + " " + FormatExpression(n.Expression)
	case *BreakStatement:
		return "break"
	case *ContinueStatement:
		return "continue"
	case *PassStatement:
		return "pass"
	case Expression:
		return FormatExpression(n)
	default:
		return ""
	}
}

// FormatExpression renders a single expression.
func FormatExpression(expr Expression) string {
	switch n := expr.(type) {
	case *Variable:
		return n.Name
	case *Integer:
		return strconv.FormatInt(n.Value, 10)
	case *Float:
		text := strconv.FormatFloat(n.Value, 'f', -1, 64)
		if !strings.Contains(text, ".") {
			text += ".0"
		}
		return text
	case *Boolean:
		if n.Value {
			return "True"
		}
		return "False"
	case *Char:
		if n.Value == `"` {
			return `'"'`
		}
		return `"` + n.Value + `"`
	case *NoneLiteral:
		return "None"
	case *OrderedPairs:
		parts := make([]string, 0, len(n.Pairs))
		for _, p := range n.Pairs {
			parts = append(parts, "("+FormatExpression(p.Row)+", "+FormatExpression(p.Col)+")")
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *FunctionCall:
		args := make([]string, 0, len(n.Arguments))
		for _, a := range n.Arguments {
			args = append(args, FormatExpression(a))
		}
		return FormatExpression(n.Callee) + "(" + strings.Join(args, ", ") + ")"
	case *UnaryOperation:
		switch n.Operator.Kind {
		case CIRCUMFLEX:
			return "(" + FormatExpression(n.Operand) + "^)"
		case NOT:
			return "(not " + FormatExpression(n.Operand) + ")"
		default:
			return "(" + n.Operator.Kind.Spelling() + FormatExpression(n.Operand) + ")"
		}
	case *BinaryOperation:
		return formatBinary(n)
	case *BooleanOperation:
		return formatBinary(&n.BinaryOperation)
	case *Comparison:
		return formatBinary(&n.BinaryOperation)
	case *TernaryOperation:
		return "(" + FormatExpression(n.Expr) + " if " + FormatExpression(n.Condition) + " else " + FormatExpression(n.OrElse) + ")"
	default:
		return ""
	}
}

func formatBinary(n *BinaryOperation) string {
	return "(" + FormatExpression(n.Left) + " " + n.Operator.Kind.Spelling() + " " + FormatExpression(n.Right) + ")"
}
