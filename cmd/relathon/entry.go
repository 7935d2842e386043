package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/Peter-Roger/relathon/pkg/driver"
	"github.com/Peter-Roger/relathon/pkg/interpreter"
	"github.com/Peter-Roger/relathon/pkg/parser"
)

const stdinName = "<stdin>"

func runEntry(args []string, logger *slog.Logger) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}
	if len(args) == 1 {
		return executeFile(args[0], logger)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return 1
	}
	manifest, err := loadManifestFrom(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	if manifest == nil {
		fmt.Fprintf(os.Stderr, "relathon run requires a source file (%s not found)\n", driver.ManifestName)
		return 1
	}
	entry := manifest.MainPath()
	if entry == "" {
		fmt.Fprintf(os.Stderr, "manifest %s does not define main\n", manifest.Path)
		return 1
	}
	return executeFile(entry, logger)
}

func executeFile(entry string, logger *slog.Logger) int {
	entryAbs, err := filepath.Abs(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve entry path: %v\n", err)
		return 1
	}
	dir := filepath.Dir(entryAbs)
	loader, manifest, err := prepareLoader(dir, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to prepare execution environment: %v\n", err)
		return 1
	}

	program, err := loader.Open(entryAbs)
	if err != nil {
		reason := err.Error()
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			reason = pathErr.Err.Error()
		}
		fmt.Fprintf(os.Stderr, "Relathon can't open file '%s': %s\n", entry, reason)
		return 1
	}

	interp := newInterpreter(loader, manifest, logger)
	return runProgram(interp, entry, program.Source)
}

func runStdin(logger *slog.Logger) int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return 1
	}
	loader, manifest, err := prepareLoader(cwd, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to prepare execution environment: %v\n", err)
		return 1
	}
	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
		return 1
	}
	interp := newInterpreter(loader, manifest, logger)
	return runProgram(interp, stdinName, string(source))
}

// runProgram evaluates a whole program; an interrupt cancels evaluation.
func runProgram(interp *interpreter.Interpreter, name, source string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return reportError(os.Stderr, interp, interp.RunSource(ctx, name, source), false)
}

// reportError renders err to w and returns the exit status.
func reportError(w io.Writer, interp *interpreter.Interpreter, err error, interactive bool) int {
	if err == nil {
		return 0
	}
	var rtErr *interpreter.RuntimeError
	var diag parser.Diagnostic
	switch {
	case errors.As(err, &rtErr):
		fmt.Fprintln(w, rtErr.Render(interp.Sources(), interactive))
	case errors.As(err, &diag):
		fmt.Fprintln(w, driver.RenderSyntaxError(diag, interp.Sources()))
	default:
		fmt.Fprintf(w, "error: %v\n", err)
	}
	return 1
}
