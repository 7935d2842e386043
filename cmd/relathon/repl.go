package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"

	"github.com/Peter-Roger/relathon/pkg/interpreter"
	"github.com/Peter-Roger/relathon/pkg/parser"
	"github.com/Peter-Roger/relathon/pkg/runtime"
)

const (
	promptMain = ">>> "
	promptCont = "... "
)

// lineReader is the part of liner.State the console loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

type replSession struct {
	interp *interpreter.Interpreter
	out    io.Writer
	errOut io.Writer
}

func runRepl(args []string, logger *slog.Logger) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "relathon repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return 1
	}
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

	session := &replSession{
		interp: newInterpreter(loader, manifest, logger),
		out:    os.Stdout,
		errOut: os.Stderr,
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := resolveHistoryPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintln(os.Stdout, cliToolVersion)
	session.loop(ln, ln.AppendHistory)
	return 0
}

// loop reads submissions until EOF. Each complete submission is recorded
// with remember before it runs.
func (s *replSession) loop(reader lineReader, remember func(string)) {
	for {
		source, ok := s.read(reader)
		if !ok {
			fmt.Fprintln(s.out)
			return
		}
		if strings.TrimSpace(source) == "" {
			continue
		}
		if remember != nil {
			remember(strings.TrimRight(source, "\n"))
		}
		s.run(source)
	}
}

// read collects lines until they form a complete statement or a syntax
// error. ok is false at end of input.
func (s *replSession) read(reader lineReader) (string, bool) {
	var lines []string
	for {
		prompt := promptMain
		if len(lines) > 0 {
			prompt = promptCont
		}
		line, err := reader.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(s.errOut, "KeyboardInterrupt")
			lines = lines[:0]
			continue
		}
		if err != nil {
			return "", false
		}
		lines = append(lines, line)
		source := strings.Join(lines, "\n") + "\n"
		if _, complete, _ := parser.ParseInteractive(stdinName, source); complete {
			return source, true
		}
	}
}

// run evaluates one submission and echoes the value of an expression
// statement.
func (s *replSession) run(source string) {
	s.interp.Sources().Add(stdinName, source)
	stmt, _, err := parser.ParseInteractive(stdinName, source)
	if err != nil {
		reportError(s.errOut, s.interp, err, true)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	val, err := s.interp.EvaluateStatement(ctx, stmt)
	if err != nil {
		reportError(s.errOut, s.interp, err, true)
		return
	}
	if val != nil && val != runtime.None {
		fmt.Fprintln(s.out, runtime.Format(val, s.interp.Display()))
	}
}
