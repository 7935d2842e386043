package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// SourceExtension is appended to module names during resolution.
const SourceExtension = ".rel"

type RootKind int

const (
	RootUser RootKind = iota
	RootDependency
)

func (k RootKind) String() string {
	if k == RootDependency {
		return "dependency"
	}
	return "user"
}

// SearchPath describes a module search root.
type SearchPath struct {
	Path string
	Kind RootKind
}

// Module is the source text of one resolved .rel file.
type Module struct {
	Name   string
	Path   string
	Source string
}

// ErrModuleNotFound is returned by Load when no search root holds the module.
var ErrModuleNotFound = errors.New("module not found")

// Loader resolves module names to source files on a billy filesystem.
type Loader struct {
	fs          billy.Filesystem
	searchPaths []SearchPath
	logger      *slog.Logger
}

// NewLoader constructs a loader over fsys. Duplicate roots are dropped,
// keeping the first occurrence.
func NewLoader(fsys billy.Filesystem, searchPaths []SearchPath) (*Loader, error) {
	if fsys == nil {
		return nil, fmt.Errorf("loader: nil filesystem")
	}
	unique := make([]SearchPath, 0, len(searchPaths))
	seen := make(map[string]struct{}, len(searchPaths))
	for _, sp := range searchPaths {
		if strings.TrimSpace(sp.Path) == "" {
			continue
		}
		clean := filepath.Clean(sp.Path)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		kind := sp.Kind
		if kind != RootDependency {
			kind = RootUser
		}
		unique = append(unique, SearchPath{Path: clean, Kind: kind})
	}
	return &Loader{fs: fsys, searchPaths: unique, logger: slog.Default()}, nil
}

// NewOSLoader constructs a loader on the host filesystem. Relative roots
// are resolved against the working directory.
func NewOSLoader(searchPaths []SearchPath) (*Loader, error) {
	abs := make([]SearchPath, 0, len(searchPaths))
	for _, sp := range searchPaths {
		if strings.TrimSpace(sp.Path) == "" {
			continue
		}
		path, err := filepath.Abs(sp.Path)
		if err != nil {
			return nil, fmt.Errorf("loader: resolve search path %q: %w", sp.Path, err)
		}
		abs = append(abs, SearchPath{Path: path, Kind: sp.Kind})
	}
	return NewLoader(osfs.New("/"), abs)
}

// WithLogger replaces the loader's logger.
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// SearchPaths returns the deduplicated roots in lookup order.
func (l *Loader) SearchPaths() []SearchPath {
	out := make([]SearchPath, len(l.searchPaths))
	copy(out, l.searchPaths)
	return out
}

// Load resolves name to <root>/<name>.rel in the first root that has it.
func (l *Loader) Load(name string) (*Module, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("loader: invalid module name %q", name)
	}
	for _, sp := range l.searchPaths {
		path := l.fs.Join(sp.Path, name+SourceExtension)
		data, err := util.ReadFile(l.fs, path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("loader: read %s: %w", path, err)
		}
		l.logger.Debug("resolve module", "module", name, "path", path, "root", sp.Kind.String())
		return &Module{Name: name, Path: path, Source: string(data)}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
}

// Open reads a program file by path. The underlying *fs.PathError is
// returned unwrapped so callers can report the OS reason.
func (l *Loader) Open(path string) (*Module, error) {
	data, err := util.ReadFile(l.fs, path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), SourceExtension)
	return &Module{Name: name, Path: path, Source: string(data)}, nil
}

// Sources remembers the text of every parsed source so diagnostics can
// quote the offending line.
type Sources struct {
	texts map[string]string
}

func NewSources() *Sources {
	return &Sources{texts: make(map[string]string)}
}

// Add records text under name, replacing any earlier text.
func (s *Sources) Add(name, text string) {
	s.texts[name] = text
}

// Text returns the full text recorded for name.
func (s *Sources) Text(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	text, ok := s.texts[name]
	return text, ok
}

// Line returns the 1-based line of source, without its line break. It is
// empty when the source or line is unknown.
func (s *Sources) Line(source string, line int) string {
	text, ok := s.Text(source)
	if !ok || line < 1 {
		return ""
	}
	for n := 1; ; n++ {
		end := strings.IndexByte(text, '\n')
		if n == line {
			if end < 0 {
				return strings.TrimSuffix(text, "\r")
			}
			return strings.TrimSuffix(text[:end], "\r")
		}
		if end < 0 {
			return ""
		}
		text = text[end+1:]
	}
}
