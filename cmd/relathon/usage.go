package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  relathon [--debug] [file.rel]")
	fmt.Fprintln(os.Stderr, "  relathon [--debug] run [file.rel]")
	fmt.Fprintln(os.Stderr, "  relathon [--debug] repl")
	fmt.Fprintln(os.Stderr, "  relathon deps install")
	fmt.Fprintln(os.Stderr, "  relathon deps update [dependency ...]")
	fmt.Fprintln(os.Stderr, "  relathon --version")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "With no file, relathon starts the console when stdin is a terminal")
	fmt.Fprintln(os.Stderr, "and otherwise runs stdin as a program.")
}
