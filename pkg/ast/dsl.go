package ast

func ID(name string) *Variable {
	return NewVariable(name)
}

func Int(value int64) *Integer {
	return NewInteger(value)
}

func Flt(value float64) *Float {
	return NewFloat(value)
}

func Bool(value bool) *Boolean {
	return NewBoolean(value)
}

func Chr(value string) *Char {
	return NewChar(value)
}

func None() *NoneLiteral {
	return NewNoneLiteral()
}

// Pairs builds an ordered-pairs literal from flat row/col integers.
func Pairs(coords ...[2]int64) *OrderedPairs {
	pairs := make([]Pair, 0, len(coords))
	for _, c := range coords {
		pairs = append(pairs, Pair{Row: Int(c[0]), Col: Int(c[1])})
	}
	return NewOrderedPairs(pairs)
}

func Call(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(name), args)
}

func Bin(kind TokenKind, left, right Expression) *BinaryOperation {
	return NewBinaryOperation(left, Op(kind), right)
}

func BoolOp(kind TokenKind, left, right Expression) *BooleanOperation {
	return NewBooleanOperation(left, Op(kind), right)
}

func Cmp(kind TokenKind, left, right Expression) *Comparison {
	return NewComparison(left, Op(kind), right)
}

func Unary(kind TokenKind, operand Expression) *UnaryOperation {
	return NewUnaryOperation(operand, Op(kind))
}

func Ternary(expr, cond, orElse Expression) *TernaryOperation {
	return NewTernaryOperation(expr, cond, orElse)
}

func Assign(name string, expr Expression) *Assignment {
	return NewAssignment(ID(name), Op(EQUAL), expr)
}

func AugAssign(name string, kind TokenKind, expr Expression) *Assignment {
	return NewAssignment(ID(name), Op(kind), expr)
}

func Ret(expr Expression) *ReturnStatement {
	return NewReturnStatement(expr)
}

func Block(stmts ...Statement) *Suite {
	return NewSuite(stmts)
}

func Def(name string, params []string, body ...Statement) *FunctionDefinition {
	out := make([]*Parameter, 0, len(params))
	for _, p := range params {
		out = append(out, NewParameter(ID(p)))
	}
	return NewFunctionDefinition(ID(name), out, Block(body...))
}

func While(cond Expression, body ...Statement) *WhileStatement {
	return NewWhileStatement(cond, Block(body...), nil)
}

func If(cond Expression, body *Suite, elifs []*ElifStatement, elseSuite *Suite) *IfStatement {
	return NewIfStatement(cond, body, elifs, elseSuite)
}

func Elif(cond Expression, body ...Statement) *ElifStatement {
	return NewElifStatement(cond, Block(body...))
}

func Import(name string) *ImportStatement {
	return NewImportStatement(ID(name))
}

func Mod(stmts ...Statement) *Module {
	return NewModule(stmts)
}
