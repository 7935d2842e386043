package runtime

import (
	"fmt"
	"strings"
)

// Arity is the accepted argument count of a callable. Max < 0 means
// variadic.
type Arity struct {
	Min int
	Max int
}

// Variadic accepts any number of arguments.
var Variadic = Arity{Min: 0, Max: -1}

func Range(min, max int) Arity {
	return Arity{Min: min, Max: max}
}

func Exactly(n int) Arity {
	return Arity{Min: n, Max: n}
}

func (a Arity) Variadic() bool {
	return a.Max < 0
}

func (a Arity) Accepts(argc int) bool {
	return a.Variadic() || (argc >= a.Min && argc <= a.Max)
}

// ArityError reports a call with the wrong number of arguments.
type ArityError struct {
	Callee string
	Msg    string
}

func (e *ArityError) Error() string { return e.Msg }

// Check validates argc against a. params names the positional parameters
// and is used to list the missing ones.
func (a Arity) Check(callee string, params []string, argc int) error {
	if a.Accepts(argc) {
		return nil
	}
	if argc > a.Max {
		takes := fmt.Sprintf("from %d to %d positional arguments", a.Min, a.Max)
		if a.Min == a.Max {
			takes = fmt.Sprintf("%d positional %s", a.Min, pluralize(a.Min, "argument", "arguments"))
		}
		return &ArityError{
			Callee: callee,
			Msg:    fmt.Sprintf("%s() takes %s but %d %s given", callee, takes, argc, pluralize(argc, "was", "were")),
		}
	}

	missing := make([]string, 0, a.Min-argc)
	for i := argc; i < a.Min; i++ {
		name := fmt.Sprintf("arg%d", i+1)
		if i < len(params) {
			name = params[i]
		}
		missing = append(missing, "'"+name+"'")
	}
	return &ArityError{
		Callee: callee,
		Msg: fmt.Sprintf("%s() missing %d required positional %s: %s.",
			callee, len(missing), pluralize(len(missing), "argument", "arguments"), joinNames(missing)),
	}
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// joinNames renders 'a', 'a' and 'b', or 'a', 'b', and 'c'.
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
