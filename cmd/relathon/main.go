package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const cliToolVersion = "Relathon 0.1.1"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printUsage()
		return 1
	}
	logger := newLogger(os.Stderr, opts.debug)

	if len(remaining) == 0 {
		return runDefault(logger)
	}

	switch remaining[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(remaining[1:], logger)
	case "repl":
		return runRepl(remaining[1:], logger)
	case "deps":
		return runDeps(remaining[1:], logger)
	default:
		if strings.HasPrefix(remaining[0], "-") && remaining[0] != "-" {
			fmt.Fprintf(os.Stderr, "unknown flag %s\n", remaining[0])
			printUsage()
			return 1
		}
		return runEntry(remaining, logger)
	}
}

// runDefault starts the console on a terminal and otherwise runs the
// program read from stdin.
func runDefault(logger *slog.Logger) int {
	if stdinIsTerminal() {
		return runRepl(nil, logger)
	}
	return runStdin(logger)
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
