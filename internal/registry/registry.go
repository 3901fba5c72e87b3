// Package registry resolves named environments under the root directory.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hbjs97/vew/internal/session"
)

var (
	// ErrRootMissing is returned when the root directory does not exist.
	ErrRootMissing = errors.New("root directory does not exist")
	// ErrEnvironmentMissing is returned when a named environment does not exist.
	ErrEnvironmentMissing = errors.New("environment does not exist")
	// ErrNoActiveEnvironment is returned when no environment is active.
	ErrNoActiveEnvironment = errors.New("no virtual environment is active")
	// ErrInvalidName is returned for names that cannot identify a root subdirectory.
	ErrInvalidName = errors.New("invalid environment name")
)

// ActivateScript is the native activation entry point, relative to an environment.
const ActivateScript = "bin/activate"

// MarkerVar is set by native activation to the active environment's directory.
const MarkerVar = "VIRTUAL_ENV"

// Registry looks up environments under Root.
type Registry struct {
	Root string
}

// New returns a Registry for the given (already normalized) root.
func New(root string) *Registry {
	return &Registry{Root: root}
}

// Path returns the directory of the named environment.
func (r *Registry) Path(name string) string {
	return filepath.Join(r.Root, name)
}

// ValidateName rejects names that are empty, contain a path separator, or
// refer to the root itself or its parent.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("registry.ValidateName: %q: %w", name, ErrInvalidName)
	}
	return nil
}

// VerifyRoot fails with ErrRootMissing if Root is not a directory.
func (r *Registry) VerifyRoot() error {
	if !isDir(r.Root) {
		return fmt.Errorf("registry.VerifyRoot: %s: %w", r.Root, ErrRootMissing)
	}
	return nil
}

// VerifyEnvironment fails with ErrEnvironmentMissing if Root/name is not a directory.
func (r *Registry) VerifyEnvironment(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if !isDir(r.Path(name)) {
		return fmt.Errorf("registry.VerifyEnvironment: %s: %w", name, ErrEnvironmentMissing)
	}
	return nil
}

// VerifyActivatable fails like VerifyEnvironment, and also when the
// environment has no activation script.
func (r *Registry) VerifyActivatable(name string) error {
	if err := r.VerifyEnvironment(name); err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(r.Path(name), ActivateScript)); err != nil {
		return fmt.Errorf("registry.VerifyActivatable: %s has no %s: %w", name, ActivateScript, ErrEnvironmentMissing)
	}
	return nil
}

// VerifyActive fails with ErrNoActiveEnvironment if the session has no
// active environment or its directory is gone.
func (r *Registry) VerifyActive(sess *session.Session) error {
	dir := sess.Get(MarkerVar)
	if dir == "" || !isDir(dir) {
		return fmt.Errorf("registry.VerifyActive: %w", ErrNoActiveEnvironment)
	}
	return nil
}

// Active returns the name of the session's active environment if it lives
// directly under Root.
func (r *Registry) Active(sess *session.Session) (string, bool) {
	dir := sess.Get(MarkerVar)
	if dir == "" {
		return "", false
	}
	if !SameDir(filepath.Dir(dir), r.Root) {
		return "", false
	}
	return filepath.Base(dir), true
}

// SameDir reports whether a and b name the same directory, following symlinks.
func SameDir(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ra, err := filepath.EvalSymlinks(a)
	if err != nil {
		return false
	}
	rb, err := filepath.EvalSymlinks(b)
	return err == nil && ra == rb
}

// List returns every subdirectory of Root that has an activation entry
// point, sorted lexicographically.
func (r *Registry) List() ([]string, error) {
	if err := r.VerifyRoot(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(r.Root)
	if err != nil {
		return nil, fmt.Errorf("registry.List: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if !isDir(filepath.Join(r.Root, e.Name())) {
			continue
		}
		if _, err := os.Stat(filepath.Join(r.Root, e.Name(), ActivateScript)); err != nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
