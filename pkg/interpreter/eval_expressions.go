package interpreter

import (
	"context"
	"fmt"

	"github.com/Peter-Roger/relathon/pkg/ast"
	"github.com/Peter-Roger/relathon/pkg/relation"
	"github.com/Peter-Roger/relathon/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(ctx context.Context, node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Integer:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.Float:
		return runtime.FloatValue{Val: n.Value}, nil
	case *ast.Char:
		return runtime.CharValue{Val: n.Value}, nil
	case *ast.NoneLiteral:
		return runtime.None, nil
	case *ast.Boolean:
		return i.truth(n.Value), nil
	case *ast.Variable:
		val, ok := env.Resolve(n.Name)
		if !ok {
			return nil, i.raise(KindName, n.Location(), env.Name(), nil, "name '%s' is not defined", n.Name)
		}
		return val, nil
	case *ast.OrderedPairs:
		return i.evaluateOrderedPairs(ctx, n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(ctx, n, env)
	case *ast.TernaryOperation:
		ok, err := i.condition(ctx, n.Condition, n, env)
		if err != nil {
			return nil, err
		}
		if ok {
			return i.evaluateExpression(ctx, n.Expr, env)
		}
		return i.evaluateExpression(ctx, n.OrElse, env)
	case *ast.BinaryOperation:
		return i.evaluateBinary(ctx, n, env)
	case *ast.BooleanOperation:
		return i.evaluateBinary(ctx, &n.BinaryOperation, env)
	case *ast.Comparison:
		return i.evaluateBinary(ctx, &n.BinaryOperation, env)
	case *ast.UnaryOperation:
		return i.evaluateUnary(ctx, n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", node.NodeType())
	}
}

func (i *Interpreter) evaluateOrderedPairs(ctx context.Context, n *ast.OrderedPairs, env *runtime.Environment) (runtime.Value, error) {
	pairs := make([]relation.Pair, 0, len(n.Pairs))
	for _, p := range n.Pairs {
		row, err := i.coordinate(ctx, p.Row, env)
		if err != nil {
			return nil, err
		}
		col, err := i.coordinate(ctx, p.Col, env)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, relation.Pair{Row: row, Col: col})
	}
	return runtime.PairsValue{Pairs: pairs}, nil
}

func (i *Interpreter) coordinate(ctx context.Context, expr ast.Expression, env *runtime.Environment) (int, error) {
	val, err := i.evaluateExpression(ctx, expr, env)
	if err != nil {
		return 0, err
	}
	n, ok := val.(runtime.IntegerValue)
	if !ok {
		return 0, i.raise(KindType, expr.Location(), env.Name(), nil, "pair coordinates must be int, not %s", runtime.TypeName(val))
	}
	return int(n.Val), nil
}

//----------------------------------------------------------------------
// Operators
//----------------------------------------------------------------------

type relationOp func(a, b *relation.Relation) (runtime.Value, error)

func (i *Interpreter) relationResult(rel *relation.Relation, err error) (runtime.Value, error) {
	if err != nil {
		return nil, err
	}
	return runtime.RelationValue{Rel: rel}, nil
}

func (i *Interpreter) truthResult(b bool, err error) (runtime.Value, error) {
	if err != nil {
		return nil, err
	}
	return i.truth(b), nil
}

// binaryOperation maps an operator kind onto the relation algebra.
func (i *Interpreter) binaryOperation(kind ast.TokenKind) (relationOp, bool) {
	switch kind {
	case ast.STAR:
		return func(a, b *relation.Relation) (runtime.Value, error) { return i.relationResult(a.Composition(b)) }, true
	case ast.VBAR, ast.OR:
		return func(a, b *relation.Relation) (runtime.Value, error) { return i.relationResult(a.Join(b)) }, true
	case ast.AMBER, ast.AND:
		return func(a, b *relation.Relation) (runtime.Value, error) { return i.relationResult(a.Meet(b)) }, true
	case ast.EQEQUAL:
		return func(a, b *relation.Relation) (runtime.Value, error) { return i.truth(a.Equals(b)), nil }, true
	case ast.NOTEQUAL:
		return func(a, b *relation.Relation) (runtime.Value, error) { return i.truth(a.NotEquals(b)), nil }, true
	case ast.LESSEQUAL:
		return func(a, b *relation.Relation) (runtime.Value, error) { return i.truthResult(a.IsSubset(b)) }, true
	case ast.GREATEREQUAL:
		return func(a, b *relation.Relation) (runtime.Value, error) { return i.truthResult(a.IsSuperset(b)) }, true
	case ast.LESS:
		return func(a, b *relation.Relation) (runtime.Value, error) { return i.truthResult(a.IsStrictSubset(b)) }, true
	case ast.GREATER:
		return func(a, b *relation.Relation) (runtime.Value, error) { return i.truthResult(a.IsStrictSuperset(b)) }, true
	default:
		return nil, false
	}
}

func operatorText(op ast.Token) string {
	if op.Lexeme != "" {
		return op.Lexeme
	}
	return op.Kind.Spelling()
}

func (i *Interpreter) evaluateBinary(ctx context.Context, n *ast.BinaryOperation, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(ctx, n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(ctx, n.Right, env)
	if err != nil {
		return nil, err
	}
	op, ok := i.binaryOperation(n.Operator.Kind)
	if !ok {
		return nil, fmt.Errorf("unsupported binary operator %s", n.Operator.Kind)
	}
	lrel, lok := left.(runtime.RelationValue)
	rrel, rok := right.(runtime.RelationValue)
	if !lok || !rok {
		return nil, i.raise(KindType, n.Location(), env.Name(), nil,
			"unsupported operand type for %s: '%s' and '%s'",
			operatorText(n.Operator), runtime.TypeName(left), runtime.TypeName(right))
	}
	result, err := op(lrel.Rel, rrel.Rel)
	if err != nil {
		return nil, i.raise(KindRelation, n.Location(), env.Name(), err, "%s", err.Error())
	}
	return result, nil
}

func (i *Interpreter) evaluateUnary(ctx context.Context, n *ast.UnaryOperation, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(ctx, n.Operand, env)
	if err != nil {
		return nil, err
	}
	rel, ok := operand.(runtime.RelationValue)
	if !ok {
		return nil, i.raise(KindType, n.Location(), env.Name(), nil,
			"bad operand type for unary %s: '%s'.", operatorText(n.Operator), runtime.TypeName(operand))
	}
	switch n.Operator.Kind {
	case ast.TILDE, ast.NOT:
		return runtime.RelationValue{Rel: rel.Rel.Complement()}, nil
	case ast.CIRCUMFLEX:
		return runtime.RelationValue{Rel: rel.Rel.Transpose()}, nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %s", n.Operator.Kind)
	}
}

//----------------------------------------------------------------------
// Calls
//----------------------------------------------------------------------

func (i *Interpreter) evaluateFunctionCall(ctx context.Context, n *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(ctx, n.Callee, env)
	if err != nil {
		return nil, err
	}
	switch callee.(type) {
	case *runtime.FunctionValue, runtime.NativeFunctionValue:
	default:
		return nil, i.raise(KindType, n.Location(), env.Name(), nil, "'%s' object is not callable", runtime.TypeName(callee))
	}

	i.pushCall(n.Location(), env.Name())
	defer i.popCall()
	if err := ctx.Err(); err != nil {
		return nil, i.raise(KindRuntime, n.Location(), env.Name(), err, "evaluation cancelled")
	}
	if len(i.callStack) > i.maxDepth {
		return nil, i.raise(KindRuntime, n.Location(), env.Name(), nil, "maximum recursion depth exceeded")
	}

	args := make([]runtime.Value, 0, len(n.Arguments))
	for _, arg := range n.Arguments {
		val, err := i.evaluateExpression(ctx, arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.callFunction(ctx, fn, args, n.Location(), env)
	case runtime.NativeFunctionValue:
		result, err := fn.Call(&runtime.NativeCallContext{Env: env, Location: n.Location()}, args)
		if err != nil {
			return nil, i.callError(err, fn.Name, n.Location(), env)
		}
		return result, nil
	}
	return runtime.None, nil
}

// callFunction runs a user function in a fresh scope linked below the
// caller's scope.
func (i *Interpreter) callFunction(ctx context.Context, fn *runtime.FunctionValue, args []runtime.Value, site ast.Location, caller *runtime.Environment) (runtime.Value, error) {
	local, err := fn.Bind(args)
	if err != nil {
		return nil, i.callError(err, fn.Name(), site, caller)
	}
	local.Link(caller)
	if _, err := i.evaluateSuite(ctx, fn.Declaration.Body, local); err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return runtime.None, nil
}
