package runtime

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Environment is one scope of named bindings. Bindings keep their
// definition order so imports copy them deterministically.
type Environment struct {
	name   string
	level  int
	parent *Environment
	values *linkedhashmap.Map
}

// NewEnvironment creates a scope nested one level below parent, or a root
// scope when parent is nil.
func NewEnvironment(name string, parent *Environment) *Environment {
	env := &Environment{name: name, values: linkedhashmap.New()}
	env.Link(parent)
	return env
}

func (e *Environment) Name() string { return e.name }
func (e *Environment) Level() int   { return e.level }

// Parent exposes the enclosing scope (nil for the root).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Link attaches e below parent and updates its nesting level.
func (e *Environment) Link(parent *Environment) {
	e.parent = parent
	e.level = 0
	if parent != nil {
		e.level = parent.level + 1
	}
}

// Root walks to the outermost scope.
func (e *Environment) Root() *Environment {
	env := e
	for env.parent != nil {
		env = env.parent
	}
	return env
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.values.Put(name, value)
}

// Resolve searches outward through the scope chain. ok is false when no
// scope binds name.
func (e *Environment) Resolve(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, found := env.values.Get(name); found {
			return v.(Value), true
		}
	}
	return nil, false
}

// HasInCurrentScope reports whether the binding exists in this scope.
func (e *Environment) HasInCurrentScope(name string) bool {
	_, found := e.values.Get(name)
	return found
}

// Keys returns this scope's names in definition order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, e.values.Size())
	for _, k := range e.values.Keys() {
		keys = append(keys, k.(string))
	}
	return keys
}

func (e *Environment) Len() int {
	return e.values.Size()
}

// Each visits this scope's bindings in definition order.
func (e *Environment) Each(fn func(name string, value Value)) {
	e.values.Each(func(key, value interface{}) {
		fn(key.(string), value.(Value))
	})
}
