package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/Peter-Roger/relathon/pkg/driver"
)

// gitFetcher materialises git dependencies under
// <RELATHON_HOME>/pkg/src/<name>/<pinned version>.
type gitFetcher struct {
	cacheDir string
	logger   *slog.Logger
}

type gitCheckout struct {
	dir     string
	version string
	commit  string
}

func newGitFetcher(cacheDir string, logger *slog.Logger) *gitFetcher {
	if cacheDir == "" {
		return nil
	}
	return &gitFetcher{cacheDir: cacheDir, logger: logger}
}

// Fetch checks out the dependency and returns its lock entry.
func (g *gitFetcher) Fetch(name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	if g == nil {
		return nil, errors.New("git fetcher unavailable")
	}
	if spec.Git == "" {
		return nil, fmt.Errorf("dependency %q: git URL required", name)
	}
	co, err := g.checkout(name, spec)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: %w", name, err)
	}
	checksum, err := dirChecksum(co.dir)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: checksum %s: %w", name, co.dir, err)
	}
	g.logger.Debug("fetch dependency", "dependency", name, "url", spec.Git, "commit", co.commit, "dir", co.dir)
	return &driver.LockedPackage{
		Name:     sanitizeName(name),
		Version:  co.version,
		Source:   driver.GitSourcePrefix + spec.Git + "@" + co.commit,
		Checksum: checksum,
	}, nil
}

func gitCheckoutDir(cacheDir, name, version string) string {
	return filepath.Join(cacheDir, "pkg", "src", sanitizeName(name), sanitizePathSegment(version))
}

// checkout clones into a staging directory beside the final location and
// renames it into place once the revision is checked out. A pinned rev
// that is already cached is reused without touching the network.
func (g *gitFetcher) checkout(name string, spec *driver.DependencySpec) (*gitCheckout, error) {
	if spec.Rev != "" {
		dir := gitCheckoutDir(g.cacheDir, name, spec.Rev)
		if _, err := os.Stat(dir); err == nil {
			return &gitCheckout{dir: dir, version: spec.Rev, commit: spec.Rev}, nil
		}
	}

	parent := filepath.Join(g.cacheDir, "pkg", "src", sanitizeName(name))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, err
	}
	staging, err := os.MkdirTemp(parent, "git-fetch-*")
	if err != nil {
		return nil, err
	}
	if err := os.RemoveAll(staging); err != nil {
		return nil, err
	}
	placed := false
	defer func() {
		if !placed {
			_ = os.RemoveAll(staging)
		}
	}()

	repo, err := git.PlainClone(staging, false, &git.CloneOptions{URL: spec.Git})
	if err != nil {
		return nil, fmt.Errorf("git clone %s: %w", spec.Git, err)
	}
	revision, descriptor := gitRevisionFromSpec(spec)
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		return nil, fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	co := &gitCheckout{
		version: gitPinnedVersion(descriptor, hash.String()),
		commit:  hash.String(),
	}
	co.dir = gitCheckoutDir(g.cacheDir, name, co.version)
	if _, err := os.Stat(co.dir); err == nil {
		return co, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return nil, fmt.Errorf("git checkout %s: %w", revision, err)
	}
	if err := os.Rename(staging, co.dir); err != nil {
		return nil, err
	}
	placed = true
	return co, nil
}

func gitPinnedVersion(descriptor, commit string) string {
	switch {
	case commit == "":
		return descriptor
	case descriptor == "" || descriptor == commit:
		return commit
	default:
		return descriptor + "@" + commit
	}
}

// gitRevisionFromSpec maps rev, tag or branch onto a revision of the fresh
// clone; without any of them the remote HEAD is used.
func gitRevisionFromSpec(spec *driver.DependencySpec) (plumbing.Revision, string) {
	switch {
	case spec.Rev != "":
		return plumbing.Revision(spec.Rev), spec.Rev
	case spec.Tag != "":
		return plumbing.Revision(plumbing.NewTagReferenceName(spec.Tag)), spec.Tag
	case spec.Branch != "":
		return plumbing.Revision(plumbing.NewRemoteReferenceName("origin", spec.Branch)), spec.Branch
	default:
		return plumbing.Revision(plumbing.HEAD), ""
	}
}

// dirChecksum hashes relative file names and contents under root, skipping
// .git directories.
func dirChecksum(root string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sanitizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, segment)
}
