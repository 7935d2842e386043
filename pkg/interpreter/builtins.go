package interpreter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Peter-Roger/relathon/pkg/relation"
	"github.com/Peter-Roger/relathon/pkg/runtime"
)

func (i *Interpreter) initBuiltins() {
	natives := []runtime.NativeFunctionValue{
		i.newBuiltin(),
		i.copyBuiltin(),
		i.randomBuiltin(),
		i.vecBuiltin(),
		i.setBitsBuiltin("set", true),
		i.setBitsBuiltin("unset", false),
		i.setCharsBuiltin(),
		i.printBuiltin(),
		constantBuiltin("O", relation.Empty),
		constantBuiltin("L", relation.Universal),
		constantBuiltin("I", relation.Identity),
		i.emptyBuiltin(),
	}
	for _, fn := range natives {
		i.builtins.Define(fn.Name, fn)
	}
	i.builtins.Define("True", i.trueRel)
	i.builtins.Define("False", i.falseRel)
}

// overloadOnRelation picks the relation form when the first argument is a
// relation and the dimension form otherwise.
func overloadOnRelation(relArity runtime.Arity, relParams []string, dimArity runtime.Arity, dimParams []string) func([]runtime.Value) (runtime.Arity, []string) {
	return func(args []runtime.Value) (runtime.Arity, []string) {
		if len(args) > 0 {
			if _, ok := args[0].(runtime.RelationValue); ok {
				return relArity, relParams
			}
		}
		return dimArity, dimParams
	}
}

func asRelation(v runtime.Value) (*relation.Relation, bool) {
	rel, ok := v.(runtime.RelationValue)
	if !ok {
		return nil, false
	}
	return rel.Rel, true
}

// dimensions reads rows and cols from two int arguments.
func dimensions(a, b runtime.Value) (int, int, bool) {
	rows, ok := a.(runtime.IntegerValue)
	if !ok {
		return 0, 0, false
	}
	cols, ok := b.(runtime.IntegerValue)
	if !ok {
		return 0, 0, false
	}
	return int(rows.Val), int(cols.Val), true
}

func (i *Interpreter) newBuiltin() runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name:       "new",
		Arity:      runtime.Range(2, 3),
		Parameters: []string{"rows", "cols", "bits"},
		Overload: overloadOnRelation(
			runtime.Range(1, 2), []string{"relation", "bits"},
			runtime.Range(2, 3), []string{"rows", "cols", "bits"},
		),
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			var rows, cols int
			rest := args[1:]
			if rel, ok := asRelation(args[0]); ok {
				rows, cols = rel.Rows(), rel.Cols()
			} else {
				var ok bool
				rows, cols, ok = dimensions(args[0], args[1])
				if !ok {
					return nil, typeErrorf("new() expects either a relation or two ints for the dimension.")
				}
				rest = args[2:]
			}
			var pairs []relation.Pair
			if len(rest) > 0 {
				bits, ok := rest[0].(runtime.PairsValue)
				if !ok {
					return nil, typeErrorf("bits argument must be an OrderedPair.")
				}
				pairs = bits.Pairs
			}
			rel, err := relation.New(rows, cols, pairs...)
			if err != nil {
				return nil, err
			}
			return runtime.RelationValue{Rel: rel}, nil
		},
	}
}

func (i *Interpreter) copyBuiltin() runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name:       "copy",
		Arity:      runtime.Exactly(1),
		Parameters: []string{"relation"},
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			rel, ok := asRelation(args[0])
			if !ok {
				return nil, typeErrorf("copy() argument must be a relation, not %s.", runtime.TypeName(args[0]))
			}
			return runtime.RelationValue{Rel: rel.Copy()}, nil
		},
	}
}

// randomBuiltin fills a relation in place, or a new one of the given shape.
func (i *Interpreter) randomBuiltin() runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name:       "random",
		Arity:      runtime.Range(2, 3),
		Parameters: []string{"rows", "cols", "prob"},
		Overload: overloadOnRelation(
			runtime.Range(1, 2), []string{"relation", "prob"},
			runtime.Range(2, 3), []string{"rows", "cols", "prob"},
		),
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			rel, ok := asRelation(args[0])
			rest := args[1:]
			if !ok {
				rows, cols, ok := dimensions(args[0], args[1])
				if !ok {
					return nil, typeErrorf("Invalid arguments passed to random function.")
				}
				fresh, err := relation.New(rows, cols)
				if err != nil {
					return nil, err
				}
				rel, rest = fresh, args[2:]
			}
			prob := relation.DefaultProbability
			if len(rest) > 0 {
				f, ok := rest[0].(runtime.FloatValue)
				if !ok {
					return nil, typeErrorf("Probability argument must be a float.")
				}
				prob = f.Val
			}
			if err := rel.Random(i.rng, prob); err != nil {
				return nil, err
			}
			return runtime.RelationValue{Rel: rel}, nil
		},
	}
}

func (i *Interpreter) vecBuiltin() runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name:       "vec",
		Arity:      runtime.Range(2, 3),
		Parameters: []string{"rows", "cols", "vec"},
		Overload: overloadOnRelation(
			runtime.Range(1, 2), []string{"relation", "vec"},
			runtime.Range(2, 3), []string{"rows", "cols", "vec"},
		),
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			var rows, cols int
			rest := args[1:]
			if rel, ok := asRelation(args[0]); ok {
				rows, cols = rel.Rows(), rel.Cols()
			} else {
				var ok bool
				rows, cols, ok = dimensions(args[0], args[1])
				if !ok {
					return nil, typeErrorf("vec argument must be an int.")
				}
				rest = args[2:]
			}
			row := 0
			if len(rest) > 0 {
				n, ok := rest[0].(runtime.IntegerValue)
				if !ok {
					return nil, typeErrorf("vec argument must be an int.")
				}
				row = int(n.Val)
			}
			rel, err := relation.New(rows, cols)
			if err != nil {
				return nil, err
			}
			if err := rel.Vector(row); err != nil {
				return nil, err
			}
			return runtime.RelationValue{Rel: rel}, nil
		},
	}
}

func (i *Interpreter) setBitsBuiltin(name string, on bool) runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name:       name,
		Arity:      runtime.Exactly(2),
		Parameters: []string{"relation", "bits"},
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			rel, relOK := asRelation(args[0])
			bits, bitsOK := args[1].(runtime.PairsValue)
			if !relOK || !bitsOK {
				return nil, typeErrorf("%s() arguments must be a Relation and a OrderedPair, not %s and %s",
					name, runtime.TypeName(args[0]), runtime.TypeName(args[1]))
			}
			if err := rel.SetBits(bits.Pairs, on); err != nil {
				return nil, err
			}
			return runtime.None, nil
		},
	}
}

func (i *Interpreter) setCharsBuiltin() runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name:       "setchars",
		Arity:      runtime.Exactly(2),
		Parameters: []string{"one_ch", "zero_ch"},
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			one, oneOK := args[0].(runtime.CharValue)
			zero, zeroOK := args[1].(runtime.CharValue)
			if !oneOK || !zeroOK || utf8.RuneCountInString(one.Val) != 1 || utf8.RuneCountInString(zero.Val) != 1 {
				return nil, typeErrorf("setchars() arguments must both be single characters, not %s and %s",
					runtime.TypeName(args[0]), runtime.TypeName(args[1]))
			}
			i.display = relation.Display{One: one.Val, Zero: zero.Val}
			return runtime.None, nil
		},
	}
}

func (i *Interpreter) printBuiltin() runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name:  "print",
		Arity: runtime.Variadic,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			parts := make([]string, 0, len(args))
			for _, arg := range args {
				parts = append(parts, runtime.Format(arg, i.display))
			}
			if _, err := fmt.Fprintln(i.output, strings.Join(parts, "\n")); err != nil {
				return nil, err
			}
			return runtime.None, nil
		},
	}
}

// constantBuiltin returns O, L or I: the constant relation shaped like a
// relation argument or given by two ints.
func constantBuiltin(name string, constant func(rows, cols int) (*relation.Relation, error)) runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name:       name,
		Arity:      runtime.Exactly(2),
		Parameters: []string{"rows", "cols"},
		Overload: overloadOnRelation(
			runtime.Exactly(1), []string{"relation"},
			runtime.Exactly(2), []string{"rows", "cols"},
		),
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			var rows, cols int
			if rel, ok := asRelation(args[0]); ok {
				rows, cols = rel.Rows(), rel.Cols()
			} else {
				var ok bool
				rows, cols, ok = dimensions(args[0], args[1])
				if !ok {
					return nil, typeErrorf("%s() expects either a relation or two ints for the dimension.", name)
				}
			}
			rel, err := constant(rows, cols)
			if err != nil {
				return nil, err
			}
			return runtime.RelationValue{Rel: rel}, nil
		},
	}
}

func (i *Interpreter) emptyBuiltin() runtime.NativeFunctionValue {
	return runtime.NativeFunctionValue{
		Name:       "empty",
		Arity:      runtime.Exactly(1),
		Parameters: []string{"relation"},
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			rel, ok := asRelation(args[0])
			if !ok {
				return nil, typeErrorf("empty() argument must be a relation, not %s.", runtime.TypeName(args[0]))
			}
			return i.truth(rel.IsEmpty()), nil
		},
	}
}
