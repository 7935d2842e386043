package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Peter-Roger/relathon/pkg/driver"
)

// collectSearchPaths orders module roots: the entry directory, the
// manifest's roots, RELATHON_PATH, then installed git dependencies.
func collectSearchPaths(base string, manifest *driver.Manifest, lock *driver.Lockfile) ([]driver.SearchPath, error) {
	var paths []driver.SearchPath
	if base != "" {
		paths = append(paths, driver.SearchPath{Path: base, Kind: driver.RootUser})
	}
	if manifest != nil {
		paths = append(paths, manifest.SearchPaths()...)
	}
	for _, part := range splitPathListEnv(os.Getenv("RELATHON_PATH")) {
		paths = append(paths, driver.SearchPath{Path: part, Kind: driver.RootUser})
	}
	if lock == nil {
		return paths, nil
	}

	cacheDir, err := resolveRelathonHome()
	if err != nil {
		return nil, err
	}
	for _, pkg := range lock.GitPackages() {
		paths = append(paths, driver.SearchPath{
			Path: gitCheckoutDir(cacheDir, pkg.Name, pkg.Version),
			Kind: driver.RootDependency,
		})
	}
	return paths, nil
}

func splitPathListEnv(value string) []string {
	if value == "" {
		return nil
	}
	raw := strings.Split(value, string(os.PathListSeparator))
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func resolveRelathonHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("RELATHON_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve RELATHON_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".relathon"), nil
}

func resolveHistoryPath() string {
	if path := strings.TrimSpace(os.Getenv("RELATHON_HISTORY")); path != "" {
		return path
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(userHome, ".relathon_history")
}

// loadManifestFrom returns the nearest manifest above dir, or nil when
// there is none.
func loadManifestFrom(dir string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(dir)
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return driver.LoadManifest(path)
}

// loadLockfileForManifest reads relathon.lock. A missing lockfile is only
// an error when git dependencies need installing.
func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	if manifest == nil {
		return nil, nil
	}
	lock, err := driver.LoadLockfile(manifest.LockfilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if manifestHasGitDependencies(manifest) {
				return nil, fmt.Errorf("%s missing for %q; run `relathon deps install`", driver.LockfileName, manifest.Name)
			}
			return nil, nil
		}
		return nil, err
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	return lock, nil
}

func manifestHasGitDependencies(manifest *driver.Manifest) bool {
	for _, dep := range manifest.Dependencies {
		if dep != nil && dep.IsGit() {
			return true
		}
	}
	return false
}
