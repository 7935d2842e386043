package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Peter-Roger/relathon/pkg/ast"
	"github.com/Peter-Roger/relathon/pkg/relation"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindChar
	KindNone
	KindPairs
	KindRelation
	KindFunction
	KindNativeFunction
)

// String returns the type label used in error messages.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindNone:
		return "NoneType"
	case KindPairs:
		return "OrderedPairs"
	case KindRelation:
		return "Relation"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "builtin_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

// Copier is implemented by values with mutable state. Assignment stores
// the copy instead of the original.
type Copier interface {
	Copy() Value
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

// CharValue holds a single character.
type CharValue struct {
	Val string
}

func (v CharValue) Kind() Kind { return KindChar }

type NoneValue struct{}

func (NoneValue) Kind() Kind { return KindNone }

// None is the shared none value.
var None = NoneValue{}

// PairsValue is an evaluated ordered-pairs literal.
type PairsValue struct {
	Pairs []relation.Pair
}

func (v PairsValue) Kind() Kind { return KindPairs }

//-----------------------------------------------------------------------------
// Relations
//-----------------------------------------------------------------------------

type RelationValue struct {
	Rel *relation.Relation
}

func (v RelationValue) Kind() Kind { return KindRelation }

func (v RelationValue) Copy() Value {
	return RelationValue{Rel: v.Rel.Copy()}
}

// IsTruth reports whether v is a 1×1 relation, the only shape allowed as a
// condition.
func IsTruth(v Value) (*relation.Relation, bool) {
	rel, ok := v.(RelationValue)
	if !ok || rel.Rel.Rows() != 1 || rel.Rel.Cols() != 1 {
		return nil, false
	}
	return rel.Rel, true
}

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// FunctionValue is a user-defined function. Its body is evaluated in a
// fresh environment linked to the caller's at call time.
type FunctionValue struct {
	Declaration *ast.FunctionDefinition
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) Name() string {
	return v.Declaration.Name.Name
}

func (v *FunctionValue) Parameters() []string {
	out := make([]string, 0, len(v.Declaration.Parameters))
	for _, p := range v.Declaration.Parameters {
		out = append(out, p.Variable.Name)
	}
	return out
}

func (v *FunctionValue) Arity() Arity {
	n := len(v.Declaration.Parameters)
	return Range(n, n)
}

// Bind checks the argument count and returns an unlinked environment
// holding the parameters. Arguments are bound by copy.
func (v *FunctionValue) Bind(args []Value) (*Environment, error) {
	params := v.Parameters()
	if err := v.Arity().Check(v.Name(), params, len(args)); err != nil {
		return nil, err
	}
	env := NewEnvironment(v.Name(), nil)
	for i, name := range params {
		arg := args[i]
		if c, ok := arg.(Copier); ok {
			arg = c.Copy()
		}
		env.Define(name, arg)
	}
	return env, nil
}

// NativeCallContext is passed to every builtin invocation.
type NativeCallContext struct {
	Env      *Environment
	Location ast.Location
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

type NativeFunctionValue struct {
	Name       string
	Arity      Arity
	Parameters []string
	// Overload picks the arity and parameter names from the arguments of
	// one call. When set it replaces Arity and Parameters.
	Overload func(args []Value) (Arity, []string)
	Impl     NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// Call checks the declared arity before running the implementation.
func (v NativeFunctionValue) Call(ctx *NativeCallContext, args []Value) (Value, error) {
	arity, params := v.Arity, v.Parameters
	if v.Overload != nil {
		arity, params = v.Overload(args)
	}
	if err := arity.Check(v.Name, params, len(args)); err != nil {
		return nil, err
	}
	return v.Impl(ctx, args)
}

//-----------------------------------------------------------------------------
// Display
//-----------------------------------------------------------------------------

// Format renders v for print and the console echo.
func Format(v Value, display relation.Display) string {
	switch val := v.(type) {
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10)
	case FloatValue:
		text := strconv.FormatFloat(val.Val, 'f', -1, 64)
		if !strings.ContainsAny(text, ".NI") {
			text += ".0"
		}
		return text
	case CharValue:
		return val.Val
	case NoneValue:
		return "None"
	case PairsValue:
		parts := make([]string, 0, len(val.Pairs))
		for _, p := range val.Pairs {
			parts = append(parts, p.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case RelationValue:
		return val.Rel.Format(display)
	case *FunctionValue:
		return "<function " + val.Name() + ">"
	case NativeFunctionValue:
		return "<built-in function " + val.Name + ">"
	case nil:
		return "None"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// TypeName is the label used for v in type errors.
func TypeName(v Value) string {
	if v == nil {
		return KindNone.String()
	}
	return v.Kind().String()
}
