package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Peter-Roger/relathon/pkg/ast"
)

var (
	assignOps  = []ast.TokenKind{ast.EQUAL, ast.STAREQUAL, ast.VBAREQUAL, ast.AMBEREQUAL}
	compareOps = []ast.TokenKind{ast.LESS, ast.GREATER, ast.EQEQUAL, ast.LESSEQUAL, ast.GREATEREQUAL, ast.NOTEQUAL}
)

// Parser is a recursive-descent parser with one token of lookahead. Each
// method below corresponds to one grammar production.
type Parser struct {
	tokens    TokenSource
	lookahead ast.Token
	last      ast.Location
	primed    bool
	inLoop    bool
}

func NewParser(tokens TokenSource) *Parser {
	return &Parser{tokens: tokens}
}

// ParseModule lexes and parses a whole source file.
func ParseModule(name, source string) (*ast.Module, error) {
	return NewParser(NewLexer(name, source)).Module()
}

// ParseInteractive parses one console submission. complete is false when
// the input is a prefix of a longer statement and more lines should be read.
func ParseInteractive(name, source string) (stmt ast.Statement, complete bool, err error) {
	lexer, err := NewInteractiveLexer(name, source)
	if err != nil {
		return nil, true, err
	}
	p := NewParser(lexer)
	if lexer.Nesting() > 0 || lexer.BlockExpected() {
		if _, err := p.SingleInput(); err != nil && !NeedsMoreInput(err) {
			return nil, true, err
		}
		return nil, false, nil
	}
	stmt, err = p.SingleInput()
	if err != nil {
		return nil, true, err
	}
	return stmt, true, nil
}

//----------------------------------------------------------------------
// Token plumbing
//----------------------------------------------------------------------

func (p *Parser) prime() error {
	if p.primed {
		return nil
	}
	p.primed = true
	tok, err := p.tokens.NextToken()
	if err != nil {
		return err
	}
	p.lookahead = tok
	p.last = ast.NewLocation(tok.Location.Source, 0, 1, 0)
	return nil
}

func (p *Parser) consume() error {
	p.last = p.lookahead.Location
	tok, err := p.tokens.NextToken()
	if err != nil {
		return err
	}
	p.lookahead = tok
	return nil
}

func (p *Parser) at(kinds ...ast.TokenKind) bool {
	for _, kind := range kinds {
		if p.lookahead.Kind == kind {
			return true
		}
	}
	return false
}

// match consumes the lookahead if it is one of kinds and returns it.
func (p *Parser) match(kinds ...ast.TokenKind) (ast.Token, error) {
	tok := p.lookahead
	if !p.at(kinds...) {
		return tok, p.fail(kinds, nil)
	}
	return tok, p.consume()
}

func (p *Parser) begin() ast.Location {
	return p.lookahead.Location
}

func (p *Parser) span(begin ast.Location) ast.Location {
	return begin.Combine(p.last)
}

func (p *Parser) locate(node ast.Node, begin ast.Location) {
	ast.SetLocation(node, p.span(begin))
}

// fail classifies the unexpected lookahead into the right error type.
func (p *Parser) fail(expected []ast.TokenKind, target ast.Node) error {
	tok := p.lookahead
	var msg string
	switch {
	case tok.Kind == ast.EOF:
		msg = "unexpected EOF while parsing"
	case tok.Kind == ast.BREAK || tok.Kind == ast.CONTINUE:
		return &SyntaxError{
			Loc: tok.Location,
			Msg: fmt.Sprintf("'%s' not properly in loop.", tok.Lexeme),
			Tag: tok.Kind,
		}
	case target != nil && p.at(assignOps...):
		msg = fmt.Sprintf("Can't assign to %s", target.NodeType())
	default:
		msg = "invalid syntax"
	}
	if tok.Kind == ast.INDENT {
		return &IndentationError{Loc: tok.Location, Reason: UnexpectedIndent}
	}
	if len(expected) > 0 {
		names := make([]string, 0, len(expected))
		for _, kind := range expected {
			names = append(names, string(kind))
		}
		msg += fmt.Sprintf(", expected %s but found \"%s\"", strings.Join(names, " or "), tok.Lexeme)
	}
	return &SyntaxError{Loc: tok.Location, Msg: msg, Tag: tok.Kind}
}

//----------------------------------------------------------------------
// Entry points
//----------------------------------------------------------------------

// Module parses `(NEWLINE | statement)* EOF`.
func (p *Parser) Module() (*ast.Module, error) {
	if err := p.prime(); err != nil {
		return nil, err
	}
	begin := p.begin()
	var stmts []ast.Statement
	for !p.at(ast.EOF) {
		if p.at(ast.NEWLINE) {
			if err := p.consume(); err != nil {
				return nil, err
			}
			continue
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	mod := ast.NewModule(stmts)
	p.locate(mod, begin)
	return mod, nil
}

// SingleInput parses `NEWLINE | EOF | simple_stmt | compound_stmt`.
// A blank input yields ast.Null.
func (p *Parser) SingleInput() (ast.Statement, error) {
	if err := p.prime(); err != nil {
		return nil, err
	}
	if p.at(ast.NEWLINE, ast.EOF) {
		begin := p.begin()
		if err := p.consume(); err != nil {
			return nil, err
		}
		null := ast.NewNull()
		ast.SetLocation(null, begin)
		return null, nil
	}
	return p.statement()
}

//----------------------------------------------------------------------
// Statements
//----------------------------------------------------------------------

func (p *Parser) statement() (ast.Statement, error) {
	switch p.lookahead.Kind {
	case ast.IF:
		return p.ifStmt()
	case ast.WHILE:
		return p.whileStmt()
	case ast.FUNCDEF:
		return p.functionDef()
	default:
		return p.simpleStmt()
	}
}

// simpleStmt collapses several `;`-separated statements into a Suite.
func (p *Parser) simpleStmt() (ast.Statement, error) {
	begin := p.begin()
	first, err := p.smallStmt()
	if err != nil {
		return nil, err
	}
	stmts := []ast.Statement{first}
	for p.at(ast.SEMI) {
		if err := p.consume(); err != nil {
			return nil, err
		}
		if p.at(ast.NEWLINE, ast.EOF) {
			break
		}
		stmt, err := p.smallStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.match(ast.NEWLINE, ast.EOF); err != nil {
		return nil, err
	}
	if len(stmts) == 1 {
		return first, nil
	}
	suite := ast.NewSuite(stmts)
	p.locate(suite, begin)
	return suite, nil
}

func (p *Parser) smallStmt() (ast.Statement, error) {
	begin := p.begin()
	switch p.lookahead.Kind {
	case ast.BREAK, ast.CONTINUE, ast.PASS:
		return p.controlStmt()
	case ast.RETURN:
		if err := p.consume(); err != nil {
			return nil, err
		}
		var expr ast.Expression
		if !p.at(ast.NEWLINE, ast.EOF, ast.SEMI) {
			var err error
			if expr, err = p.expr(); err != nil {
				return nil, err
			}
		}
		stmt := ast.NewReturnStatement(expr)
		p.locate(stmt, begin)
		return stmt, nil
	case ast.IMPORT:
		if err := p.consume(); err != nil {
			return nil, err
		}
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		stmt := ast.NewImportStatement(name)
		p.locate(stmt, begin)
		return stmt, nil
	default:
		return p.exprStmt()
	}
}

// exprStmt parses an expression, optionally followed by an assignment
// operator when the expression is a bare identifier.
func (p *Parser) exprStmt() (ast.Statement, error) {
	begin := p.begin()
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.at(assignOps...) {
		return expr, nil
	}
	target, ok := expr.(*ast.Variable)
	if !ok {
		return nil, p.fail(nil, expr)
	}
	op, err := p.match(assignOps...)
	if err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	stmt := ast.NewAssignment(target, op, value)
	p.locate(stmt, begin)
	return stmt, nil
}

func (p *Parser) controlStmt() (ast.Statement, error) {
	begin := p.begin()
	var stmt ast.Statement
	switch p.lookahead.Kind {
	case ast.BREAK:
		if !p.inLoop {
			return nil, p.fail(nil, nil)
		}
		stmt = ast.NewBreakStatement()
	case ast.CONTINUE:
		if !p.inLoop {
			return nil, p.fail(nil, nil)
		}
		stmt = ast.NewContinueStatement()
	default:
		stmt = ast.NewPassStatement()
	}
	if err := p.consume(); err != nil {
		return nil, err
	}
	p.locate(stmt, begin)
	return stmt, nil
}

// functionDef parses `def NAME (params) : suite` and the `= expr` form,
// which expands to a suite holding a single return.
func (p *Parser) functionDef() (ast.Statement, error) {
	begin := p.begin()
	if _, err := p.match(ast.FUNCDEF); err != nil {
		return nil, err
	}
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	params, err := p.paramList()
	if err != nil {
		return nil, err
	}

	outerLoop := p.inLoop
	p.inLoop = false
	defer func() { p.inLoop = outerLoop }()

	var body *ast.Suite
	switch p.lookahead.Kind {
	case ast.COLON:
		if err := p.consume(); err != nil {
			return nil, err
		}
		if body, err = p.suite(); err != nil {
			return nil, err
		}
	case ast.EQUAL:
		if err := p.consume(); err != nil {
			return nil, err
		}
		exprBegin := p.begin()
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		ret := ast.NewReturnStatement(expr)
		p.locate(ret, exprBegin)
		body = ast.NewSuite([]ast.Statement{ret})
		p.locate(body, exprBegin)
		if _, err := p.match(ast.NEWLINE, ast.EOF); err != nil {
			return nil, err
		}
	default:
		return nil, p.fail([]ast.TokenKind{ast.COLON, ast.EQUAL}, nil)
	}
	def := ast.NewFunctionDefinition(name, params, body)
	p.locate(def, begin)
	return def, nil
}

func (p *Parser) paramList() ([]*ast.Parameter, error) {
	if _, err := p.match(ast.LPAR); err != nil {
		return nil, err
	}
	var params []*ast.Parameter
	for !p.at(ast.RPAR) {
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		param := ast.NewParameter(name)
		ast.SetLocation(param, name.Location())
		params = append(params, param)
		if p.at(ast.COMMA) {
			if err := p.consume(); err != nil {
				return nil, err
			}
		} else if !p.at(ast.RPAR) {
			return nil, p.fail([]ast.TokenKind{ast.COMMA, ast.RPAR}, nil)
		}
	}
	if err := p.consume(); err != nil {
		return nil, err
	}
	return params, nil
}

// suite parses `simple_stmt | NEWLINE INDENT statement+ DEDENT`; a block
// may also be closed by EOF since no dedents are produced at end of input.
func (p *Parser) suite() (*ast.Suite, error) {
	begin := p.begin()
	var stmts []ast.Statement
	if !p.at(ast.NEWLINE, ast.EOF, ast.INDENT) {
		stmt, err := p.simpleStmt()
		if err != nil {
			return nil, err
		}
		if line, ok := stmt.(*ast.Suite); ok {
			// an inline `;` line is the whole block
			return line, nil
		}
		stmts = append(stmts, stmt)
	} else if p.at(ast.NEWLINE) {
		if err := p.consume(); err != nil {
			return nil, err
		}
		if p.at(ast.INDENT) {
			if err := p.consume(); err != nil {
				return nil, err
			}
			for {
				stmt, err := p.statement()
				if err != nil {
					return nil, err
				}
				stmts = append(stmts, stmt)
				if p.at(ast.DEDENT, ast.EOF) {
					break
				}
			}
			if p.at(ast.DEDENT) {
				if err := p.consume(); err != nil {
					return nil, err
				}
			}
		}
	}
	if len(stmts) == 0 {
		return nil, &IndentationError{Loc: p.lookahead.Location, Reason: ExpectedIndent}
	}
	suite := ast.NewSuite(stmts)
	p.locate(suite, begin)
	return suite, nil
}

func (p *Parser) ifStmt() (ast.Statement, error) {
	begin := p.begin()
	cond, body, err := p.conditionalBlock(ast.IF)
	if err != nil {
		return nil, err
	}
	var elifs []*ast.ElifStatement
	for p.at(ast.ELIF) {
		elifBegin := p.begin()
		elifCond, elifBody, err := p.conditionalBlock(ast.ELIF)
		if err != nil {
			return nil, err
		}
		elif := ast.NewElifStatement(elifCond, elifBody)
		p.locate(elif, elifBegin)
		elifs = append(elifs, elif)
	}
	elseSuite, err := p.elseClause()
	if err != nil {
		return nil, err
	}
	stmt := ast.NewIfStatement(cond, body, elifs, elseSuite)
	p.locate(stmt, begin)
	return stmt, nil
}

func (p *Parser) whileStmt() (ast.Statement, error) {
	begin := p.begin()
	outerLoop := p.inLoop
	p.inLoop = true
	cond, body, err := p.conditionalBlock(ast.WHILE)
	p.inLoop = outerLoop
	if err != nil {
		return nil, err
	}
	elseSuite, err := p.elseClause()
	if err != nil {
		return nil, err
	}
	stmt := ast.NewWhileStatement(cond, body, elseSuite)
	p.locate(stmt, begin)
	return stmt, nil
}

// conditionalBlock parses `keyword expr ':' suite`.
func (p *Parser) conditionalBlock(keyword ast.TokenKind) (ast.Expression, *ast.Suite, error) {
	if _, err := p.match(keyword); err != nil {
		return nil, nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.match(ast.COLON); err != nil {
		return nil, nil, err
	}
	body, err := p.suite()
	if err != nil {
		return nil, nil, err
	}
	return cond, body, nil
}

func (p *Parser) elseClause() (*ast.Suite, error) {
	if !p.at(ast.ELSE) {
		return nil, nil
	}
	if err := p.consume(); err != nil {
		return nil, err
	}
	if _, err := p.match(ast.COLON); err != nil {
		return nil, err
	}
	return p.suite()
}

//----------------------------------------------------------------------
// Expressions
//----------------------------------------------------------------------

// expr parses `or_expr ['if' expr 'else' expr]`.
func (p *Parser) expr() (ast.Expression, error) {
	begin := p.begin()
	expr, err := p.orExpr()
	if err != nil || !p.at(ast.IF) {
		return expr, err
	}
	if err := p.consume(); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.match(ast.ELSE); err != nil {
		return nil, err
	}
	orElse, err := p.expr()
	if err != nil {
		return nil, err
	}
	node := ast.NewTernaryOperation(expr, cond, orElse)
	p.locate(node, begin)
	return node, nil
}

type binaryBuilder func(left ast.Expression, op ast.Token, right ast.Expression) ast.Expression

// rightChain parses `operand [op self]`, the right-recursive shape shared by
// every binary precedence level.
func (p *Parser) rightChain(operand, self func() (ast.Expression, error), build binaryBuilder, ops ...ast.TokenKind) (ast.Expression, error) {
	begin := p.begin()
	left, err := operand()
	if err != nil || !p.at(ops...) {
		return left, err
	}
	op := p.lookahead
	if err := p.consume(); err != nil {
		return nil, err
	}
	right, err := self()
	if err != nil {
		return nil, err
	}
	node := build(left, op, right)
	p.locate(node, begin)
	return node, nil
}

func booleanOperation(left ast.Expression, op ast.Token, right ast.Expression) ast.Expression {
	return ast.NewBooleanOperation(left, op, right)
}

func comparison(left ast.Expression, op ast.Token, right ast.Expression) ast.Expression {
	return ast.NewComparison(left, op, right)
}

func binaryOperation(left ast.Expression, op ast.Token, right ast.Expression) ast.Expression {
	return ast.NewBinaryOperation(left, op, right)
}

func (p *Parser) orExpr() (ast.Expression, error) {
	return p.rightChain(p.andExpr, p.orExpr, booleanOperation, ast.OR)
}

func (p *Parser) andExpr() (ast.Expression, error) {
	return p.rightChain(p.notExpr, p.andExpr, booleanOperation, ast.AND)
}

func (p *Parser) notExpr() (ast.Expression, error) {
	if !p.at(ast.NOT) {
		return p.comparison()
	}
	begin := p.begin()
	op := p.lookahead
	if err := p.consume(); err != nil {
		return nil, err
	}
	operand, err := p.notExpr()
	if err != nil {
		return nil, err
	}
	node := ast.NewUnaryOperation(operand, op)
	p.locate(node, begin)
	return node, nil
}

func (p *Parser) comparison() (ast.Expression, error) {
	return p.rightChain(p.factor, p.comparison, comparison, compareOps...)
}

func (p *Parser) factor() (ast.Expression, error) {
	return p.rightChain(p.term, p.factor, binaryOperation, ast.VBAR, ast.AMBER)
}

func (p *Parser) term() (ast.Expression, error) {
	return p.rightChain(p.unaryTerm, p.term, binaryOperation, ast.STAR)
}

// unaryTerm parses `'~' unary_term | atom_expr ('^')*`.
func (p *Parser) unaryTerm() (ast.Expression, error) {
	begin := p.begin()
	if p.at(ast.TILDE) {
		op := p.lookahead
		if err := p.consume(); err != nil {
			return nil, err
		}
		operand, err := p.unaryTerm()
		if err != nil {
			return nil, err
		}
		node := ast.NewUnaryOperation(operand, op)
		p.locate(node, begin)
		return node, nil
	}
	term, err := p.atomExpr()
	if err != nil {
		return nil, err
	}
	for p.at(ast.CIRCUMFLEX) {
		op := p.lookahead
		if err := p.consume(); err != nil {
			return nil, err
		}
		node := ast.NewUnaryOperation(term, op)
		p.locate(node, begin)
		term = node
	}
	return term, nil
}

// atomExpr parses `atom ['(' arglist ')']`.
func (p *Parser) atomExpr() (ast.Expression, error) {
	begin := p.begin()
	atom, err := p.atom()
	if err != nil || !p.at(ast.LPAR) {
		return atom, err
	}
	if err := p.consume(); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for !p.at(ast.RPAR) {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.at(ast.COMMA) {
			break
		}
		if err := p.consume(); err != nil {
			return nil, err
		}
	}
	if _, err := p.match(ast.RPAR); err != nil {
		return nil, err
	}
	call := ast.NewFunctionCall(atom, args)
	p.locate(call, begin)
	return call, nil
}

func (p *Parser) atom() (ast.Expression, error) {
	switch p.lookahead.Kind {
	case ast.IDENTIFIER:
		return p.name()
	case ast.INTEGER, ast.FLOAT, ast.TRUE, ast.FALSE, ast.CHAR, ast.NONE:
		return p.literal()
	case ast.LPAR:
		if err := p.consume(); err != nil {
			return nil, err
		}
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(ast.RPAR); err != nil {
			return nil, err
		}
		return expr, nil
	case ast.LSQB:
		return p.orderedPairs()
	default:
		return nil, p.fail(nil, nil)
	}
}

func (p *Parser) name() (*ast.Variable, error) {
	tok, err := p.match(ast.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	v := ast.NewVariable(tok.Lexeme)
	ast.SetLocation(v, tok.Location)
	return v, nil
}

func (p *Parser) literal() (ast.Expression, error) {
	tok := p.lookahead
	var lit ast.Expression
	switch tok.Kind {
	case ast.INTEGER:
		return p.integer()
	case ast.FLOAT:
		value, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.fail(nil, nil)
		}
		lit = ast.NewFloat(value)
	case ast.TRUE, ast.FALSE:
		lit = ast.NewBoolean(tok.Kind == ast.TRUE)
	case ast.CHAR:
		lit = ast.NewChar(tok.Lexeme[1 : len(tok.Lexeme)-1])
	default:
		lit = ast.NewNoneLiteral()
	}
	if err := p.consume(); err != nil {
		return nil, err
	}
	ast.SetLocation(lit, tok.Location)
	return lit, nil
}

func (p *Parser) integer() (*ast.Integer, error) {
	tok := p.lookahead
	if !p.at(ast.INTEGER) {
		return nil, p.fail([]ast.TokenKind{ast.INTEGER}, nil)
	}
	value, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		return nil, p.fail(nil, nil)
	}
	if err := p.consume(); err != nil {
		return nil, err
	}
	lit := ast.NewInteger(value)
	ast.SetLocation(lit, tok.Location)
	return lit, nil
}

// orderedPairs parses `'[' [pair (',' pair)* [',']] ']'`.
func (p *Parser) orderedPairs() (ast.Expression, error) {
	begin := p.begin()
	if _, err := p.match(ast.LSQB); err != nil {
		return nil, err
	}
	var pairs []ast.Pair
	for !p.at(ast.RSQB) {
		pair, err := p.pair()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
		if !p.at(ast.COMMA) {
			break
		}
		if err := p.consume(); err != nil {
			return nil, err
		}
	}
	if _, err := p.match(ast.RSQB); err != nil {
		return nil, err
	}
	node := ast.NewOrderedPairs(pairs)
	p.locate(node, begin)
	return node, nil
}

func (p *Parser) pair() (ast.Pair, error) {
	if _, err := p.match(ast.LPAR); err != nil {
		return ast.Pair{}, err
	}
	row, err := p.integer()
	if err != nil {
		return ast.Pair{}, err
	}
	if _, err := p.match(ast.COMMA); err != nil {
		return ast.Pair{}, err
	}
	col, err := p.integer()
	if err != nil {
		return ast.Pair{}, err
	}
	if _, err := p.match(ast.RPAR); err != nil {
		return ast.Pair{}, err
	}
	return ast.Pair{Row: row, Col: col}, nil
}
