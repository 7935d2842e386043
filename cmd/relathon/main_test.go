package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestVersionAndUsage(t *testing.T) {
	code, stdout, _ := captureCLI(t, "", "--version")
	if code != 0 {
		t.Fatalf("--version exit code = %d", code)
	}
	assertText(t, "stdout", stdout, "Relathon 0.1.1\n")

	code, _, stderr := captureCLI(t, "", "--nope")
	if code != 1 {
		t.Fatalf("unknown flag exit code = %d", code)
	}
	if !strings.Contains(stderr, "unknown flag --nope") || !strings.Contains(stderr, "Usage:") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRunFilePrintsOutput(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "prog.rel"), `
r = new(2,2,[(0,1)])
print(r, r^)
`)
	code, stdout, stderr := captureCLI(t, "", "prog.rel")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	assertText(t, "stdout", stdout, "01\n00\n00\n10\n")
}

func TestRunMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	code, _, stderr := captureCLI(t, "", "nope.rel")
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
	assertText(t, "stderr", stderr, "Relathon can't open file 'nope.rel': no such file or directory\n")
}

func TestRunRendersTraceback(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "prog.rel"), `
def f(a) = a * new(3,3)
f(new(2,2))
`)
	code, _, stderr := captureCLI(t, "", "run", "prog.rel")
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
	assertText(t, "stderr", stderr, `Traceback (most recent call last):
  File "prog.rel", line 2, in globals
    f(new(2,2))
  File "prog.rel", line 1, in f
    def f(a) = a * new(3,3)
RelationError: dimension mismatch: cannot compose [2<->2] with [3<->3]
`)
}

func TestRunRendersSyntaxError(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "prog.rel"), "r = new(1,1)\nr = $\n")
	code, stdout, stderr := captureCLI(t, "", "prog.rel")
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
	if stdout != "" {
		t.Fatalf("nothing should run before a syntax error, got %q", stdout)
	}
	assertText(t, "stderr", stderr, `  File "prog.rel", line 2
    r = $
        ^
LexicalError: Invalid character
`)
}

func TestRunStdinWhenNotATerminal(t *testing.T) {
	chdir(t, t.TempDir())
	code, stdout, stderr := captureCLI(t, "print(I(2,2))\nx\n")
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
	assertText(t, "stdout", stdout, "10\n01\n")
	assertText(t, "stderr", stderr, "  File \"<stdin>\", line 2, in globals\n    x\nNameError: name 'x' is not defined\n")
}

func TestRunUsesManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "relathon.yml"), `
name: demo
version: 0.1.0
main: src/main.rel
paths: [lib]
display: {one: "#", zero: "."}
max_depth: 20
`)
	writeFile(t, filepath.Join(dir, "lib", "graphs.rel"), `
def flip(a) = a^
edge = new(2,2,[(0,1)])
`)
	writeFile(t, filepath.Join(dir, "src", "main.rel"), `
import graphs
print(flip(edge))
`)
	writeFile(t, filepath.Join(dir, "src", "deep.rel"), `
def f(a) = f(a)
f(new(1,1))
`)
	chdir(t, dir)

	code, stdout, stderr := captureCLI(t, "", "--debug", "run")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	assertText(t, "stdout", stdout, "..\n#.\n")
	if !strings.Contains(stderr, `msg="resolve module" module=graphs`) {
		t.Fatalf("debug log missing module resolution:\n%s", stderr)
	}

	code, _, stderr = captureCLI(t, "", filepath.Join("src", "deep.rel"))
	if code != 1 || !strings.Contains(stderr, "RuntimeError: maximum recursion depth exceeded") {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
}

func TestRunWithoutManifestOrFile(t *testing.T) {
	chdir(t, t.TempDir())
	code, _, stderr := captureCLI(t, "", "run")
	if code != 1 || !strings.Contains(stderr, "relathon run requires a source file") {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
}

func TestParseGlobalFlags(t *testing.T) {
	t.Setenv("RELATHON_DEBUG", "1")
	opts, rest, err := parseGlobalFlags([]string{"--debug=false", "run", "--debug"})
	if err != nil {
		t.Fatalf("parseGlobalFlags: %v", err)
	}
	if opts.debug {
		t.Fatalf("--debug=false should override RELATHON_DEBUG")
	}
	if strings.Join(rest, " ") != "run --debug" {
		t.Fatalf("remaining = %v", rest)
	}
	if _, _, err := parseGlobalFlags([]string{"--debug=maybe"}); err == nil {
		t.Fatalf("expected an error for a non-boolean --debug value")
	}
}
