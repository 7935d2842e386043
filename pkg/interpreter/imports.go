package interpreter

import (
	"context"
	"errors"

	"github.com/Peter-Roger/relathon/pkg/ast"
	"github.com/Peter-Roger/relathon/pkg/driver"
	"github.com/Peter-Roger/relathon/pkg/parser"
	"github.com/Peter-Roger/relathon/pkg/runtime"
)

// evaluateImport runs the named module in its own scope below the builtins
// root and copies its top-level bindings into env. Importing a module that
// is still being imported does nothing.
func (i *Interpreter) evaluateImport(ctx context.Context, n *ast.ImportStatement, env *runtime.Environment) (runtime.Value, error) {
	name := n.Name.Name
	if i.importing[name] {
		return runtime.None, nil
	}
	if i.loader == nil {
		return nil, i.raise(KindModuleNotFound, n.Location(), env.Name(), driver.ErrModuleNotFound, "No module named '%s'", name)
	}
	mod, err := i.loader.Load(name)
	if err != nil {
		if errors.Is(err, driver.ErrModuleNotFound) {
			return nil, i.raise(KindModuleNotFound, n.Location(), env.Name(), err, "No module named '%s'", name)
		}
		return nil, i.raise(KindRuntime, n.Location(), env.Name(), err, "%s", err.Error())
	}

	i.sources.Add(mod.Path, mod.Source)
	module, err := parser.ParseModule(mod.Path, mod.Source)
	if err != nil {
		return nil, err
	}

	i.importing[name] = true
	defer delete(i.importing, name)

	scope := runtime.NewEnvironment(globalsScope, env.Root())
	if err := i.runModule(ctx, module, scope); err != nil {
		return nil, err
	}
	scope.Each(func(key string, value runtime.Value) {
		env.Define(key, value)
	})
	i.logger.Debug("import module", "module", name, "path", mod.Path, "bindings", scope.Len())
	return runtime.None, nil
}
