package interpreter

import (
	"context"
	"fmt"

	"github.com/Peter-Roger/relathon/pkg/ast"
	"github.com/Peter-Roger/relathon/pkg/runtime"
)

const conditionShapeMessage = "condition must reduce to a relation of type [1<->1]"

func (i *Interpreter) evaluateStatement(ctx context.Context, node ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case nil, *ast.Null:
		return runtime.None, nil
	case ast.Expression:
		return i.evaluateExpression(ctx, n, env)
	case *ast.Suite:
		return i.evaluateSuite(ctx, n, env)
	case *ast.FunctionDefinition:
		env.Define(n.Name.Name, &runtime.FunctionValue{Declaration: n})
		return runtime.None, nil
	case *ast.Assignment:
		return i.evaluateAssignment(ctx, n, env)
	case *ast.ReturnStatement:
		var value runtime.Value = runtime.None
		if n.Expression != nil {
			val, err := i.evaluateExpression(ctx, n.Expression, env)
			if err != nil {
				return nil, err
			}
			value = val
		}
		return nil, returnSignal{value: value}
	case *ast.ImportStatement:
		return i.evaluateImport(ctx, n, env)
	case *ast.WhileStatement:
		return i.evaluateWhile(ctx, n, env)
	case *ast.IfStatement:
		return i.evaluateIf(ctx, n, env)
	case *ast.BreakStatement:
		return nil, breakSignal{}
	case *ast.ContinueStatement:
		return nil, continueSignal{}
	case *ast.PassStatement:
		return runtime.None, nil
	default:
		return nil, fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateSuite(ctx context.Context, suite *ast.Suite, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.None
	for _, stmt := range suite.Statements {
		val, err := i.evaluateStatement(ctx, stmt, env)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

var augmentedOperators = map[ast.TokenKind]ast.TokenKind{
	ast.STAREQUAL:  ast.STAR,
	ast.VBAREQUAL:  ast.VBAR,
	ast.AMBEREQUAL: ast.AMBER,
}

func (i *Interpreter) evaluateAssignment(ctx context.Context, n *ast.Assignment, env *runtime.Environment) (runtime.Value, error) {
	expr := n.Expression
	if n.IsAugmented() {
		op := ast.Op(augmentedOperators[n.Operator.Kind])
		op.Location = n.Operator.Location
		binary := ast.NewBinaryOperation(n.Target, op, n.Expression)
		ast.SetLocation(binary, n.Location())
		expr = binary
	}
	value, err := i.evaluateExpression(ctx, expr, env)
	if err != nil {
		return nil, err
	}
	if c, ok := value.(runtime.Copier); ok {
		value = c.Copy()
	}
	env.Define(n.Target.Name, value)
	return runtime.None, nil
}

// condition evaluates a control-flow test, which must be a 1×1 relation.
func (i *Interpreter) condition(ctx context.Context, expr ast.Expression, at ast.Node, env *runtime.Environment) (bool, error) {
	val, err := i.evaluateExpression(ctx, expr, env)
	if err != nil {
		return false, err
	}
	rel, ok := runtime.IsTruth(val)
	if !ok {
		return false, i.raise(KindType, at.Location(), env.Name(), nil, conditionShapeMessage)
	}
	return rel.Equals(i.trueRel.Rel), nil
}

// evaluateWhile runs the body while the condition holds. The else suite is
// parsed but never run.
func (i *Interpreter) evaluateWhile(ctx context.Context, n *ast.WhileStatement, env *runtime.Environment) (runtime.Value, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, i.raise(KindRuntime, n.Location(), env.Name(), err, "evaluation cancelled")
		}
		ok, err := i.condition(ctx, n.Condition, n, env)
		if err != nil {
			return nil, err
		}
		if !ok {
			return runtime.None, nil
		}
		if _, err := i.evaluateSuite(ctx, n.Body, env); err != nil {
			switch err.(type) {
			case breakSignal:
				return runtime.None, nil
			case continueSignal:
				continue
			default:
				return nil, err
			}
		}
	}
}

func (i *Interpreter) evaluateIf(ctx context.Context, n *ast.IfStatement, env *runtime.Environment) (runtime.Value, error) {
	ok, err := i.condition(ctx, n.Condition, n, env)
	if err != nil {
		return nil, err
	}
	if ok {
		return i.evaluateSuite(ctx, n.Body, env)
	}
	for _, elif := range n.Elifs {
		ok, err := i.condition(ctx, elif.Condition, elif, env)
		if err != nil {
			return nil, err
		}
		if ok {
			return i.evaluateSuite(ctx, elif.Body, env)
		}
	}
	if n.Else != nil {
		return i.evaluateSuite(ctx, n.Else, env)
	}
	return runtime.None, nil
}
