package runtime

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Peter-Roger/relathon/pkg/ast"
	"github.com/Peter-Roger/relathon/pkg/relation"
)

func TestEnvironmentResolveWalksParents(t *testing.T) {
	root := NewEnvironment("_builtins_", nil)
	globals := NewEnvironment("globals", root)
	call := NewEnvironment("f", globals)

	root.Define("print", IntegerValue{Val: 1})
	globals.Define("r", IntegerValue{Val: 2})
	call.Define("r", IntegerValue{Val: 3})

	if globals.Level() != 1 || call.Level() != 2 {
		t.Fatalf("levels = %d, %d", globals.Level(), call.Level())
	}
	if v, ok := call.Resolve("r"); !ok || v.(IntegerValue).Val != 3 {
		t.Fatalf("inner r = %v, %v", v, ok)
	}
	if v, ok := globals.Resolve("r"); !ok || v.(IntegerValue).Val != 2 {
		t.Fatalf("outer r = %v, %v", v, ok)
	}
	if _, ok := call.Resolve("print"); !ok {
		t.Fatalf("builtin not visible from call scope")
	}
	if _, ok := call.Resolve("missing"); ok {
		t.Fatalf("missing name resolved")
	}
	if call.Root() != root {
		t.Fatalf("Root did not reach the builtins scope")
	}
}

func TestEnvironmentResolveDistinguishesFalsyValues(t *testing.T) {
	env := NewEnvironment("globals", nil)
	env.Define("none", None)
	v, ok := env.Resolve("none")
	if !ok || v.Kind() != KindNone {
		t.Fatalf("a bound None must resolve, got %v, %v", v, ok)
	}
}

func TestEnvironmentKeepsDefinitionOrder(t *testing.T) {
	env := NewEnvironment("globals", nil)
	for _, name := range []string{"z", "a", "m"} {
		env.Define(name, None)
	}
	env.Define("a", IntegerValue{Val: 1})
	if got := env.Keys(); !reflect.DeepEqual(got, []string{"z", "a", "m"}) {
		t.Fatalf("Keys = %v", got)
	}
	var seen []string
	env.Each(func(name string, _ Value) { seen = append(seen, name) })
	if len(seen) != 3 || env.Len() != 3 {
		t.Fatalf("Each visited %v", seen)
	}
}

func TestEnvironmentLinkUpdatesLevel(t *testing.T) {
	globals := NewEnvironment("globals", NewEnvironment("_builtins_", nil))
	env := NewEnvironment("f", nil)
	if env.Level() != 0 {
		t.Fatalf("unlinked level = %d", env.Level())
	}
	env.Link(globals)
	if env.Level() != 2 || env.Parent() != globals {
		t.Fatalf("linked level = %d", env.Level())
	}
}

func TestArityMessages(t *testing.T) {
	cases := []struct {
		arity  Arity
		params []string
		argc   int
		want   string
	}{
		{Range(2, 3), []string{"rows", "cols", "bits"}, 4, "new() takes from 2 to 3 positional arguments but 4 were given"},
		{Exactly(1), []string{"relation"}, 2, "new() takes 1 positional argument but 2 were given"},
		{Exactly(0), nil, 1, "new() takes 0 positional arguments but 1 was given"},
		{Exactly(2), []string{"a", "b"}, 3, "new() takes 2 positional arguments but 3 were given"},
		{Exactly(1), []string{"relation"}, 0, "new() missing 1 required positional argument: 'relation'."},
		{Range(2, 3), []string{"rows", "cols", "bits"}, 0, "new() missing 2 required positional arguments: 'rows' and 'cols'."},
		{Exactly(3), []string{"a", "b", "c"}, 0, "new() missing 3 required positional arguments: 'a', 'b', and 'c'."},
		{Exactly(3), []string{"a", "b", "c"}, 1, "new() missing 2 required positional arguments: 'b' and 'c'."},
	}
	for _, tc := range cases {
		err := tc.arity.Check("new", tc.params, tc.argc)
		var arityErr *ArityError
		if !errors.As(err, &arityErr) {
			t.Fatalf("expected ArityError, got %v", err)
		}
		if arityErr.Error() != tc.want {
			t.Fatalf("message = %q, want %q", arityErr.Error(), tc.want)
		}
	}
	if err := Variadic.Check("print", nil, 12); err != nil {
		t.Fatalf("variadic rejected arguments: %v", err)
	}
}

func TestFunctionBind(t *testing.T) {
	decl := ast.Def("f", []string{"a", "b"}, ast.Ret(ast.ID("a")))
	fn := &FunctionValue{Declaration: decl}
	env, err := fn.Bind([]Value{IntegerValue{Val: 1}, None})
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if env.Name() != "f" || !reflect.DeepEqual(env.Keys(), []string{"a", "b"}) {
		t.Fatalf("env = %s %v", env.Name(), env.Keys())
	}
	if _, err := fn.Bind(nil); err == nil || err.Error() != "f() missing 2 required positional arguments: 'a' and 'b'." {
		t.Fatalf("Bind(nil) error = %v", err)
	}
}

func TestFormatValues(t *testing.T) {
	rel, _ := relation.New(2, 2, relation.Pair{Row: 0, Col: 1})
	cases := []struct {
		value Value
		want  string
	}{
		{IntegerValue{Val: 42}, "42"},
		{FloatValue{Val: 1}, "1.0"},
		{FloatValue{Val: 0.25}, "0.25"},
		{CharValue{Val: "x"}, "x"},
		{None, "None"},
		{PairsValue{Pairs: []relation.Pair{{Row: 0, Col: 1}, {Row: 2, Col: 3}}}, "[(0, 1), (2, 3)]"},
		{RelationValue{Rel: rel}, "01\n00"},
		{&FunctionValue{Declaration: ast.Def("f", nil, ast.Ret(nil))}, "<function f>"},
		{NativeFunctionValue{Name: "new"}, "<built-in function new>"},
	}
	for _, tc := range cases {
		if got := Format(tc.value, relation.DefaultDisplay); got != tc.want {
			t.Fatalf("Format(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestRelationCopyIsDeep(t *testing.T) {
	rel, _ := relation.New(1, 1)
	orig := RelationValue{Rel: rel}
	copied := orig.Copy().(RelationValue)
	copied.Rel.SetBits([]relation.Pair{{Row: 0, Col: 0}}, true)
	if !orig.Rel.IsEmpty() {
		t.Fatalf("copy aliases the original")
	}
}

func TestIsTruth(t *testing.T) {
	one, _ := relation.New(1, 1)
	two, _ := relation.New(2, 2)
	if _, ok := IsTruth(RelationValue{Rel: one}); !ok {
		t.Fatalf("1x1 relation rejected")
	}
	if _, ok := IsTruth(RelationValue{Rel: two}); ok {
		t.Fatalf("2x2 relation accepted")
	}
	if _, ok := IsTruth(IntegerValue{Val: 1}); ok {
		t.Fatalf("integer accepted as condition")
	}
}
