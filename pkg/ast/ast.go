package ast

type NodeType string

const (
	NodeModule             NodeType = "Module"
	NodeSuite              NodeType = "Suite"
	NodeImportStatement    NodeType = "ImportStatement"
	NodeFunctionDefinition NodeType = "FunctionDefinition"
	NodeParameter          NodeType = "Parameter"
	NodeReturnStatement    NodeType = "ReturnStatement"
	NodeAssignment         NodeType = "Assignment"
	NodeWhileStatement     NodeType = "WhileStatement"
	NodeIfStatement        NodeType = "IfStatement"
	NodeElifStatement      NodeType = "ElifStatement"
	NodeBreakStatement     NodeType = "BreakStatement"
	NodeContinueStatement  NodeType = "ContinueStatement"
	NodePassStatement      NodeType = "PassStatement"
	NodeTernaryOperation   NodeType = "TernaryOperation"
	NodeBinaryOperation    NodeType = "BinaryOperation"
	NodeBooleanOperation   NodeType = "BooleanOperation"
	NodeComparison         NodeType = "Comparison"
	NodeUnaryOperation     NodeType = "UnaryOperation"
	NodeFunctionCall       NodeType = "FunctionCall"
	NodeVariable           NodeType = "Variable"
	NodeOrderedPairs       NodeType = "OrderedPairs"
	NodeInteger            NodeType = "Integer"
	NodeFloat              NodeType = "Float"
	NodeBoolean            NodeType = "Boolean"
	NodeChar               NodeType = "Char"
	NodeNoneLiteral        NodeType = "NoneLiteral"
	NodeNull               NodeType = "Null"
)

type Node interface {
	NodeType() NodeType
	Location() Location
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	loc  Location
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType      { return n.Type }
func (n nodeImpl) Location() Location      { return n.loc }
func (nodeImpl) isNode()                   {}
func (n *nodeImpl) setLocation(l Location) { n.loc = l }

// SetLocation annotates node with loc.
func SetLocation(node Node, loc Location) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setLocation(Location) }); ok {
		setter.setLocation(loc)
	}
}

// Marker interfaces.

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Expression nodes double as expression statements.
type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

//----------------------------------------------------------------------
// Program structure
//----------------------------------------------------------------------

type Module struct {
	nodeImpl

	Statements []Statement `json:"statements"`
}

func NewModule(statements []Statement) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Statements: statements}
}

// Suite is an indented block, or several small statements sharing a line.
type Suite struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"statements"`
}

func NewSuite(statements []Statement) *Suite {
	return &Suite{nodeImpl: newNodeImpl(NodeSuite), Statements: statements}
}

type ImportStatement struct {
	nodeImpl
	statementMarker

	Name *Variable `json:"name"`
}

func NewImportStatement(name *Variable) *ImportStatement {
	return &ImportStatement{nodeImpl: newNodeImpl(NodeImportStatement), Name: name}
}

type FunctionDefinition struct {
	nodeImpl
	statementMarker

	Name       *Variable    `json:"name"`
	Parameters []*Parameter `json:"parameters"`
	Body       *Suite       `json:"body"`
}

func NewFunctionDefinition(name *Variable, params []*Parameter, body *Suite) *FunctionDefinition {
	return &FunctionDefinition{
		nodeImpl:   newNodeImpl(NodeFunctionDefinition),
		Name:       name,
		Parameters: params,
		Body:       body,
	}
}

type Parameter struct {
	nodeImpl

	Variable *Variable `json:"variable"`
}

func NewParameter(variable *Variable) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter), Variable: variable}
}

//----------------------------------------------------------------------
// Statements
//----------------------------------------------------------------------

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression,omitempty"`
}

func NewReturnStatement(expr Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Expression: expr}
}

type Assignment struct {
	nodeImpl
	statementMarker

	Target     *Variable  `json:"target"`
	Operator   Token      `json:"operator"`
	Expression Expression `json:"expression"`
}

func NewAssignment(target *Variable, op Token, expr Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Target: target, Operator: op, Expression: expr}
}

// IsAugmented reports whether the operator is *=, |= or &=.
func (a *Assignment) IsAugmented() bool {
	switch a.Operator.Kind {
	case STAREQUAL, VBAREQUAL, AMBEREQUAL:
		return true
	default:
		return false
	}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      *Suite     `json:"body"`
	Else      *Suite     `json:"else,omitempty"`
}

func NewWhileStatement(cond Expression, body, elseSuite *Suite) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: cond, Body: body, Else: elseSuite}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression       `json:"condition"`
	Body      *Suite           `json:"body"`
	Elifs     []*ElifStatement `json:"elifs"`
	Else      *Suite           `json:"else,omitempty"`
}

func NewIfStatement(cond Expression, body *Suite, elifs []*ElifStatement, elseSuite *Suite) *IfStatement {
	return &IfStatement{
		nodeImpl:  newNodeImpl(NodeIfStatement),
		Condition: cond,
		Body:      body,
		Elifs:     elifs,
		Else:      elseSuite,
	}
}

type ElifStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      *Suite     `json:"body"`
}

func NewElifStatement(cond Expression, body *Suite) *ElifStatement {
	return &ElifStatement{nodeImpl: newNodeImpl(NodeElifStatement), Condition: cond, Body: body}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

type PassStatement struct {
	nodeImpl
	statementMarker
}

func NewPassStatement() *PassStatement {
	return &PassStatement{nodeImpl: newNodeImpl(NodePassStatement)}
}

// Null stands for "no statement", e.g. a blank interactive line.
type Null struct {
	nodeImpl
	statementMarker
}

func NewNull() *Null {
	return &Null{nodeImpl: newNodeImpl(NodeNull)}
}

//----------------------------------------------------------------------
// Expressions
//----------------------------------------------------------------------

// TernaryOperation is `Expr if Condition else OrElse`.
type TernaryOperation struct {
	nodeImpl
	expressionMarker
	statementMarker

	Expr      Expression `json:"expr"`
	Condition Expression `json:"condition"`
	OrElse    Expression `json:"orElse"`
}

func NewTernaryOperation(expr, cond, orElse Expression) *TernaryOperation {
	return &TernaryOperation{nodeImpl: newNodeImpl(NodeTernaryOperation), Expr: expr, Condition: cond, OrElse: orElse}
}

type BinaryOperation struct {
	nodeImpl
	expressionMarker
	statementMarker

	Left     Expression `json:"left"`
	Operator Token      `json:"operator"`
	Right    Expression `json:"right"`
}

func NewBinaryOperation(left Expression, op Token, right Expression) *BinaryOperation {
	return &BinaryOperation{nodeImpl: newNodeImpl(NodeBinaryOperation), Left: left, Operator: op, Right: right}
}

// BooleanOperation is an `and` / `or` binary operation.
type BooleanOperation struct {
	BinaryOperation
}

func NewBooleanOperation(left Expression, op Token, right Expression) *BooleanOperation {
	node := &BooleanOperation{BinaryOperation: *NewBinaryOperation(left, op, right)}
	node.Type = NodeBooleanOperation
	return node
}

// Comparison is a binary operation whose result is a truth relation.
type Comparison struct {
	BinaryOperation
}

func NewComparison(left Expression, op Token, right Expression) *Comparison {
	node := &Comparison{BinaryOperation: *NewBinaryOperation(left, op, right)}
	node.Type = NodeComparison
	return node
}

type UnaryOperation struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operand  Expression `json:"operand"`
	Operator Token      `json:"operator"`
}

func NewUnaryOperation(operand Expression, op Token) *UnaryOperation {
	return &UnaryOperation{nodeImpl: newNodeImpl(NodeUnaryOperation), Operand: operand, Operator: op}
}

type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee Expression, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

type Variable struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`
}

func NewVariable(name string) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name}
}

// Pair is one (row, col) coordinate of an ordered-pairs literal.
type Pair struct {
	Row Expression `json:"row"`
	Col Expression `json:"col"`
}

type OrderedPairs struct {
	nodeImpl
	expressionMarker
	statementMarker

	Pairs []Pair `json:"pairs"`
}

func NewOrderedPairs(pairs []Pair) *OrderedPairs {
	return &OrderedPairs{nodeImpl: newNodeImpl(NodeOrderedPairs), Pairs: pairs}
}

//----------------------------------------------------------------------
// Literals
//----------------------------------------------------------------------

type Integer struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value int64 `json:"value"`
}

func NewInteger(value int64) *Integer {
	return &Integer{nodeImpl: newNodeImpl(NodeInteger), Value: value}
}

type Float struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value float64 `json:"value"`
}

func NewFloat(value float64) *Float {
	return &Float{nodeImpl: newNodeImpl(NodeFloat), Value: value}
}

type Boolean struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBoolean(value bool) *Boolean {
	return &Boolean{nodeImpl: newNodeImpl(NodeBoolean), Value: value}
}

// Char holds the single character between the quotes.
type Char struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value string `json:"value"`
}

func NewChar(value string) *Char {
	return &Char{nodeImpl: newNodeImpl(NodeChar), Value: value}
}

type NoneLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker
}

func NewNoneLiteral() *NoneLiteral {
	return &NoneLiteral{nodeImpl: newNodeImpl(NodeNoneLiteral)}
}
