package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/Peter-Roger/relathon/pkg/relation"
)

// ManifestName is the project file looked up by FindManifest.
const ManifestName = "relathon.yml"

// LockfileName sits next to the manifest.
const LockfileName = "relathon.lock"

// ErrManifestNotFound is returned by FindManifest when no ancestor holds a
// manifest.
var ErrManifestNotFound = errors.New("manifest: relathon.yml not found")

// Manifest represents the parsed contents of relathon.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Main         string
	Paths        []string
	Display      *relation.Display
	MaxDepth     int
	Dependencies map[string]*DependencySpec
}

// DependencySpec describes one entry of the dependencies mapping.
type DependencySpec struct {
	Git    string `yaml:"git"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type manifestFile struct {
	Name         string                     `yaml:"name"`
	Version      string                     `yaml:"version"`
	Main         string                     `yaml:"main"`
	Paths        []string                   `yaml:"paths"`
	Display      *relation.Display          `yaml:"display"`
	MaxDepth     int                        `yaml:"max_depth"`
	Dependencies map[string]*DependencySpec `yaml:"dependencies"`
}

// LoadManifest parses relathon.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from start towards the filesystem root and returns the
// first relathon.yml it meets.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", start, err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}

func (mf manifestFile) toManifest(path string) *Manifest {
	m := &Manifest{
		Path:         path,
		Name:         strings.TrimSpace(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Main:         strings.TrimSpace(mf.Main),
		MaxDepth:     mf.MaxDepth,
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies)),
	}
	for _, p := range mf.Paths {
		m.Paths = append(m.Paths, strings.TrimSpace(p))
	}
	if mf.Display != nil {
		display := *mf.Display
		m.Display = &display
	}
	for name, dep := range mf.Dependencies {
		if dep == nil {
			dep = &DependencySpec{}
		}
		dep.normalize()
		m.Dependencies[strings.TrimSpace(name)] = dep
	}
	return m
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for i, p := range m.Paths {
		if p == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("paths[%d] must be a non-empty string", i))
		}
	}
	if m.Display != nil {
		if utf8.RuneCountInString(m.Display.One) != 1 {
			errs.Issues = append(errs.Issues, fmt.Sprintf("display.one must be a single character, got %q", m.Display.One))
		}
		if utf8.RuneCountInString(m.Display.Zero) != 1 {
			errs.Issues = append(errs.Issues, fmt.Sprintf("display.zero must be a single character, got %q", m.Display.Zero))
		}
	}
	if m.MaxDepth < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_depth must not be negative, got %d", m.MaxDepth))
	}
	for _, name := range m.DependencyNames() {
		if name == "" {
			errs.Issues = append(errs.Issues, "dependencies must not use empty keys")
			continue
		}
		for _, issue := range m.Dependencies[name].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// DependencyNames returns the dependency keys in sorted order.
func (m *Manifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dir is the directory holding the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// MainPath resolves the main entry relative to the manifest.
func (m *Manifest) MainPath() string {
	if m.Main == "" {
		return ""
	}
	return m.resolve(m.Main)
}

// SearchPaths returns the project's module roots: the manifest directory,
// then each configured path, then every local path dependency.
func (m *Manifest) SearchPaths() []SearchPath {
	roots := []SearchPath{{Path: m.Dir(), Kind: RootUser}}
	for _, p := range m.Paths {
		roots = append(roots, SearchPath{Path: m.resolve(p), Kind: RootUser})
	}
	for _, name := range m.DependencyNames() {
		if dep := m.Dependencies[name]; dep.Path != "" {
			roots = append(roots, SearchPath{Path: m.resolve(dep.Path), Kind: RootDependency})
		}
	}
	return roots
}

// LockfilePath is relathon.lock next to the manifest.
func (m *Manifest) LockfilePath() string {
	return filepath.Join(m.Dir(), LockfileName)
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(m.Dir(), p)
}

func (d *DependencySpec) normalize() {
	d.Git = strings.TrimSpace(d.Git)
	d.Rev = strings.TrimSpace(d.Rev)
	d.Tag = strings.TrimSpace(d.Tag)
	d.Branch = strings.TrimSpace(d.Branch)
	d.Path = strings.TrimSpace(d.Path)
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d.Git == "" && d.Path == "" {
		errs = append(errs, "must specify git or path")
	}
	if d.Git != "" && d.Path != "" {
		errs = append(errs, "path dependencies cannot also specify git")
	}
	refs := 0
	for _, ref := range []string{d.Rev, d.Tag, d.Branch} {
		if ref != "" {
			refs++
		}
	}
	if refs > 0 && d.Git == "" {
		errs = append(errs, "rev, tag and branch apply only to git dependencies")
	}
	if refs > 1 {
		errs = append(errs, "specify at most one of rev, tag or branch")
	}
	return errs
}

// IsGit reports whether the dependency is fetched from a repository.
func (d *DependencySpec) IsGit() bool {
	return d.Git != ""
}
