package interpreter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Peter-Roger/relathon/pkg/ast"
	"github.com/Peter-Roger/relathon/pkg/driver"
	"github.com/Peter-Roger/relathon/pkg/relation"
	"github.com/Peter-Roger/relathon/pkg/runtime"
)

// ErrorKind classifies runtime errors. The String form is the label
// printed before "Error:".
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindName
	KindType
	KindArity
	KindRelation
	KindModuleNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindName:
		return "Name"
	case KindType:
		return "Type"
	case KindArity:
		return "Arity"
	case KindRelation:
		return "Relation"
	case KindModuleNotFound:
		return "ModuleNotFound"
	default:
		return "Runtime"
	}
}

// CallFrame records one active invocation for diagnostics.
type CallFrame struct {
	Location ast.Location
	Scope    string
}

// RuntimeError is raised during evaluation. Stack is a snapshot of the
// call stack when the error was raised.
type RuntimeError struct {
	Kind     ErrorKind
	Message  string
	Location ast.Location
	Scope    string
	Stack    []CallFrame
	Err      error
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a RuntimeError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var rtErr *RuntimeError
	return errors.As(err, &rtErr) && rtErr.Kind == kind
}

// Render formats the traceback followed by `<Kind>Error: <msg>`.
// Consecutive frames on the same line are printed once; source lines are
// omitted in interactive mode. The stack is cleared afterwards.
func (e *RuntimeError) Render(sources *driver.Sources, interactive bool) string {
	var trace []string
	prevSource, prevLine := "", -1
	emit := func(loc ast.Location, scope string) {
		if loc.Source != prevSource || loc.LineBegin != prevLine {
			trace = append(trace, driver.FormatFrame(loc, scope))
			if !interactive {
				trace = append(trace, "    "+strings.TrimSpace(sources.Line(loc.Source, loc.LineBegin)))
			}
		}
		prevSource, prevLine = loc.Source, loc.LineBegin
	}
	for _, frame := range e.Stack {
		emit(frame.Location, frame.Scope)
	}
	emit(e.Location, e.Scope)

	var b strings.Builder
	if len(e.Stack) > 0 {
		b.WriteString("Traceback (most recent call last):\n")
	}
	e.Stack = nil
	for _, line := range trace {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(e.Kind.String())
	b.WriteString("Error: ")
	b.WriteString(strings.TrimRight(e.Message, " \t\n"))
	return b.String()
}

// raise builds a RuntimeError carrying a snapshot of the call stack.
func (i *Interpreter) raise(kind ErrorKind, loc ast.Location, scope string, cause error, format string, args ...any) *RuntimeError {
	stack := make([]CallFrame, len(i.callStack))
	copy(stack, i.callStack)
	return &RuntimeError{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
		Scope:    scope,
		Stack:    stack,
		Err:      cause,
	}
}

// typeError is returned by builtins; the call site turns it into a Type
// runtime error scoped to the builtin.
type typeError struct {
	msg string
}

func (e *typeError) Error() string { return e.msg }

func typeErrorf(format string, args ...any) error {
	return &typeError{msg: fmt.Sprintf(format, args...)}
}

func isRelationFailure(err error) bool {
	for _, target := range []error{relation.ErrShape, relation.ErrIndex, relation.ErrDimension, relation.ErrProbability} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// callError converts an error returned by a callee into a RuntimeError
// located at the call site.
func (i *Interpreter) callError(err error, callee string, site ast.Location, env *runtime.Environment) error {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return err
	}
	var arityErr *runtime.ArityError
	if errors.As(err, &arityErr) {
		return i.raise(KindArity, site, callee, err, "%s", arityErr.Msg)
	}
	var tErr *typeError
	if errors.As(err, &tErr) {
		return i.raise(KindType, site, callee, err, "%s", tErr.msg)
	}
	if isRelationFailure(err) {
		return i.raise(KindRelation, site, env.Name(), err, "%s", err.Error())
	}
	return i.raise(KindRuntime, site, env.Name(), err, "%s", err.Error())
}
