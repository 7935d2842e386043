// Package interpreter executes Relathon programs by walking the AST built by
// pkg/parser. Values come from pkg/runtime and relation operators dispatch
// to pkg/relation. Runtime failures surface as *RuntimeError values that
// carry the call stack for traceback rendering.
package interpreter
