package main

import (
	"log/slog"
	"os"

	"github.com/Peter-Roger/relathon/pkg/driver"
	"github.com/Peter-Roger/relathon/pkg/interpreter"
)

// newInterpreter wires the loader and the manifest settings into a fresh
// interpreter that prints to stdout.
func newInterpreter(loader *driver.Loader, manifest *driver.Manifest, logger *slog.Logger) *interpreter.Interpreter {
	opts := []interpreter.Option{
		interpreter.WithLogger(logger),
		interpreter.WithOutput(os.Stdout),
		interpreter.WithLoader(loader.WithLogger(logger)),
	}
	if manifest != nil {
		if manifest.Display != nil {
			opts = append(opts, interpreter.WithDisplay(*manifest.Display))
		}
		if manifest.MaxDepth > 0 {
			opts = append(opts, interpreter.WithMaxDepth(manifest.MaxDepth))
		}
	}
	return interpreter.New(opts...)
}

// prepareLoader resolves the manifest near dir and builds a host loader
// rooted at base.
func prepareLoader(dir, base string) (*driver.Loader, *driver.Manifest, error) {
	manifest, err := loadManifestFrom(dir)
	if err != nil {
		return nil, nil, err
	}
	lock, err := loadLockfileForManifest(manifest)
	if err != nil {
		return nil, nil, err
	}
	searchPaths, err := collectSearchPaths(base, manifest, lock)
	if err != nil {
		return nil, nil, err
	}
	loader, err := driver.NewOSLoader(searchPaths)
	if err != nil {
		return nil, nil, err
	}
	return loader, manifest, nil
}
