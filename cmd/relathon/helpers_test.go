package main

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Peter-Roger/relathon/pkg/driver"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimLeft(contents, "\n")), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

// assertText fails with a character diff when got differs from want.
func assertText(t *testing.T, label, got, want string) {
	t.Helper()
	if got == want {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	t.Fatalf("%s mismatch (-want +got):\n%s\n\ngot:\n%s", label, dmp.DiffPrettyText(diffs), got)
}

func initGitRepo(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		_, err = worktree.Add(filepath.ToSlash(rel))
		return err
	}); err != nil {
		t.Fatalf("stage files: %v", err)
	}
	hash, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Relathon CLI",
			Email: "relathon@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash.String()
}

// captureCLI runs the command with stdin fed from input and returns the
// exit code, stdout and stderr.
func captureCLI(t *testing.T, input string, args ...string) (int, string, string) {
	t.Helper()

	stdin, stdout, stderr := os.Stdin, os.Stdout, os.Stderr

	inFile := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(inFile, []byte(input), 0o644); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	rIn, err := os.Open(inFile)
	if err != nil {
		t.Fatalf("open stdin: %v", err)
	}
	defer rIn.Close()
	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("stderr pipe: %v", err)
	}

	outCh := make(chan string)
	errCh := make(chan string)
	go func() { b, _ := io.ReadAll(rOut); outCh <- string(b) }()
	go func() { b, _ := io.ReadAll(rErr); errCh <- string(b) }()

	os.Stdin, os.Stdout, os.Stderr = rIn, wOut, wErr
	code := run(args)
	os.Stdin, os.Stdout, os.Stderr = stdin, stdout, stderr

	_ = wOut.Close()
	_ = wErr.Close()
	out, errOut := <-outCh, <-errCh
	_ = rOut.Close()
	_ = rErr.Close()
	return code, out, errOut
}

func lockedPackage(t *testing.T, dir, name string) *driver.LockedPackage {
	t.Helper()
	lock, err := driver.LoadLockfile(filepath.Join(dir, driver.LockfileName))
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	pkg, ok := lock.Find(name)
	if !ok {
		t.Fatalf("lockfile has no %s entry: %#v", name, lock.Packages)
	}
	return pkg
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory %s: %v", old, err)
		}
	})
}
