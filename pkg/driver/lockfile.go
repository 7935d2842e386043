package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source prefixes recorded in relathon.lock.
const (
	GitSourcePrefix  = "git+"
	PathSourcePrefix = "path:"
)

// Lockfile pins every dependency of a project so module search roots are
// reproducible between runs.
type Lockfile struct {
	Path      string           `yaml:"-"`
	Root      string           `yaml:"root"`
	Generated string           `yaml:"generated"`
	Tool      string           `yaml:"tool"`
	Packages  []*LockedPackage `yaml:"packages"`
}

// LockedPackage captures a single resolved dependency entry. For git
// dependencies Version is the pinned version: the commit, or the requested
// tag or branch followed by @commit.
type LockedPackage struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Source   string `yaml:"source"`
	Checksum string `yaml:"checksum"`
}

func NewLockfile(root, tool string) *Lockfile {
	return &Lockfile{
		Root:      strings.TrimSpace(root),
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Packages:  []*LockedPackage{},
	}
}

// LoadLockfile parses relathon.lock from disk. Unknown keys are rejected.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	lock := &Lockfile{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(lock); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}
	lock.Path = abs
	lock.normalize()
	return lock, nil
}

// WriteLockfile writes lock to path, or to lock.Path when path is empty.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		path = lock.Path
	}
	if path == "" {
		return fmt.Errorf("lockfile: missing path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Find returns the locked entry for name.
func (l *Lockfile) Find(name string) (*LockedPackage, bool) {
	if l == nil {
		return nil, false
	}
	for _, pkg := range l.Packages {
		if pkg.Name == name {
			return pkg, true
		}
	}
	return nil, false
}

// Upsert replaces the entry with the same name or appends pkg.
func (l *Lockfile) Upsert(pkg *LockedPackage) {
	for i, existing := range l.Packages {
		if existing.Name == pkg.Name {
			l.Packages[i] = pkg
			return
		}
	}
	l.Packages = append(l.Packages, pkg)
}

// GitPackages returns the entries fetched from repositories, in name order.
func (l *Lockfile) GitPackages() []*LockedPackage {
	if l == nil {
		return nil
	}
	var out []*LockedPackage
	for _, pkg := range l.Packages {
		if _, _, ok := pkg.GitSource(); ok {
			out = append(out, pkg)
		}
	}
	return out
}

// GitSource splits a "git+<url>@<commit>" source.
func (p *LockedPackage) GitSource() (url, commit string, ok bool) {
	rest, found := strings.CutPrefix(p.Source, GitSourcePrefix)
	if !found {
		return "", "", false
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return rest, "", true
	}
	return rest[:at], rest[at+1:], true
}

// LocalPath returns the directory of a path dependency.
func (p *LockedPackage) LocalPath() (string, bool) {
	return strings.CutPrefix(p.Source, PathSourcePrefix)
}

func (l *Lockfile) normalize() {
	l.Root = strings.TrimSpace(l.Root)
	l.Generated = strings.TrimSpace(l.Generated)
	l.Tool = strings.TrimSpace(l.Tool)
	pkgs := l.Packages[:0]
	for _, pkg := range l.Packages {
		if pkg == nil {
			continue
		}
		pkg.Name = strings.TrimSpace(pkg.Name)
		pkg.Version = strings.TrimSpace(pkg.Version)
		pkg.Source = strings.TrimSpace(pkg.Source)
		pkg.Checksum = strings.TrimSpace(pkg.Checksum)
		pkgs = append(pkgs, pkg)
	}
	sort.SliceStable(pkgs, func(i, j int) bool {
		return pkgs[i].Name < pkgs[j].Name
	})
	l.Packages = pkgs
}
