package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type cliOptions struct {
	debug bool
}

// parseGlobalFlags strips the flags accepted before any subcommand.
// RELATHON_DEBUG enables debug logging unless --debug=false overrides it.
func parseGlobalFlags(args []string) (cliOptions, []string, error) {
	opts := cliOptions{debug: envFlag("RELATHON_DEBUG")}
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		switch {
		case arg == "--debug":
			opts.debug = true
		case strings.HasPrefix(arg, "--debug="):
			value, err := strconv.ParseBool(strings.TrimPrefix(arg, "--debug="))
			if err != nil {
				return opts, nil, fmt.Errorf("invalid --debug value %q (expected true or false)", strings.TrimPrefix(arg, "--debug="))
			}
			opts.debug = value
		default:
			remaining = append(remaining, args[i:]...)
			return opts, remaining, nil
		}
	}
	return opts, remaining, nil
}

func envFlag(name string) bool {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return false
	}
	enabled, err := strconv.ParseBool(value)
	return err == nil && enabled
}

// newLogger writes records as text; debug lowers the level from Warn.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
