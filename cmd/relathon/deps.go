package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Peter-Roger/relathon/pkg/driver"
)

func runDeps(args []string, logger *slog.Logger) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "relathon deps requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "relathon deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return runDepsCommand(nil, false, logger)
	case "update":
		return runDepsCommand(args[1:], true, logger)
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

// runDepsCommand installs missing dependencies. With update set, the named
// git dependencies (all of them when targets is empty) are fetched again.
func runDepsCommand(targets []string, update bool, logger *slog.Logger) int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return 1
	}
	manifest, err := loadManifestFrom(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return 1
	}
	if manifest == nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s from %s\n", driver.ManifestName, cwd)
		return 1
	}
	cacheDir, err := resolveRelathonHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve RELATHON_HOME: %v\n", err)
		return 1
	}

	refresh := make(map[string]bool)
	if update {
		if len(targets) == 0 {
			targets = manifest.DependencyNames()
		}
		for _, target := range targets {
			if _, ok := manifest.Dependencies[target]; !ok {
				fmt.Fprintf(os.Stderr, "dependency %q not declared in manifest\n", target)
				return 1
			}
			refresh[target] = true
		}
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Root package: %s\n", manifest.Name)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.Dependencies))
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", cacheDir)

	lockPath := manifest.LockfilePath()
	lock, err := driver.LoadLockfile(lockPath)
	lockCreated := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return 1
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lockCreated = true
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return 1
	}
	lock.Tool = cliToolVersion

	installer := newDependencyInstaller(manifest, cacheDir, logger)
	changed, logs, err := installer.Install(lock, refresh)
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return 1
	}

	if changed || lockCreated {
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileName, lock.Path)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, lockPath)
	}
	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return 0
}

type dependencyInstaller struct {
	manifest *driver.Manifest
	cacheDir string
	git      *gitFetcher
	logger   *slog.Logger
	logs     []string
}

func newDependencyInstaller(manifest *driver.Manifest, cacheDir string, logger *slog.Logger) *dependencyInstaller {
	if logger == nil {
		logger = slog.Default()
	}
	return &dependencyInstaller{
		manifest: manifest,
		cacheDir: cacheDir,
		git:      newGitFetcher(cacheDir, logger),
		logger:   logger,
	}
}

// Install resolves every manifest dependency into lock and drops entries
// the manifest no longer declares. Git dependencies already locked and
// present in the cache are kept unless named in refresh.
func (d *dependencyInstaller) Install(lock *driver.Lockfile, refresh map[string]bool) (bool, []string, error) {
	d.logs = nil
	desired := make([]*driver.LockedPackage, 0, len(d.manifest.Dependencies))
	for _, name := range d.manifest.DependencyNames() {
		spec := d.manifest.Dependencies[name]
		current, _ := lock.Find(sanitizeName(name))
		pkg, err := d.resolve(name, spec, current, refresh[name])
		if err != nil {
			return false, d.logs, err
		}
		desired = append(desired, pkg)
	}

	changed := len(desired) != len(lock.Packages)
	for _, pkg := range desired {
		if current, ok := lock.Find(pkg.Name); !ok || *current != *pkg {
			changed = true
		}
	}
	if changed {
		lock.Packages = desired
	}
	return changed, d.logs, nil
}

func (d *dependencyInstaller) resolve(name string, spec *driver.DependencySpec, current *driver.LockedPackage, refresh bool) (*driver.LockedPackage, error) {
	if !spec.IsGit() {
		return d.resolvePath(name, spec)
	}
	if current != nil && !refresh {
		// a changed URL or a missing checkout forces a fetch
		url, _, isGit := current.GitSource()
		if isGit && url == spec.Git {
			if _, err := os.Stat(gitCheckoutDir(d.cacheDir, current.Name, current.Version)); err == nil {
				d.logf("Using %s %s (locked)", current.Name, current.Version)
				return current, nil
			}
		}
	}
	pkg, err := d.git.Fetch(name, spec)
	if err != nil {
		return nil, err
	}
	d.logf("Fetched %s %s", pkg.Name, pkg.Version)
	return pkg, nil
}

// resolvePath locks a local dependency. Its version comes from a
// relathon.yml in the dependency directory when one exists.
func (d *dependencyInstaller) resolvePath(name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	dir := spec.Path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(d.manifest.Dir(), dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: %w", name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dependency %q: %s is not a directory", name, dir)
	}
	version := "0.0.0"
	manifestPath := filepath.Join(dir, driver.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		depManifest, err := driver.LoadManifest(manifestPath)
		if err != nil {
			return nil, fmt.Errorf("dependency %q: %w", name, err)
		}
		if depManifest.Version != "" {
			version = depManifest.Version
		}
	}
	checksum, err := dirChecksum(dir)
	if err != nil {
		return nil, fmt.Errorf("dependency %q: checksum %s: %w", name, dir, err)
	}
	d.logger.Debug("lock path dependency", "dependency", name, "dir", dir, "checksum", checksum)
	d.logf("Using %s %s (path %s)", sanitizeName(name), version, dir)
	return &driver.LockedPackage{
		Name:     sanitizeName(name),
		Version:  version,
		Source:   driver.PathSourcePrefix + filepath.Clean(dir),
		Checksum: checksum,
	}, nil
}

func (d *dependencyInstaller) logf(format string, args ...any) {
	d.logs = append(d.logs, fmt.Sprintf(format, args...))
}
