// Package native performs an environment's own activation: marking it
// current and putting its executables first on the search path.
package native

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hbjs97/vew/internal/registry"
	"github.com/hbjs97/vew/internal/session"
)

// ErrUnknownMode is returned by New for an unsupported activation mode.
var ErrUnknownMode = errors.New("unknown activation mode")

const (
	// ModeBuiltin sets the activation variables directly.
	ModeBuiltin = "builtin"
	// ModeScript sources the environment's bin/activate.
	ModeScript = "script"
)

// Handle undoes one native activation. Restore maps every variable the
// activation changed to its prior value, nil meaning it was unset.
type Handle struct {
	Restore map[string]*string
}

// Deactivate restores the variables recorded in h.
func (h Handle) Deactivate(sess *session.Session) {
	for k, v := range h.Restore {
		if v == nil {
			sess.Unset(k)
		} else {
			sess.Set(k, *v)
		}
	}
}

// Capture records how to turn after back into before for every variable
// that differs, ignoring the deactivate handler slot.
func Capture(before, after *session.Session) Handle {
	restore := make(map[string]*string)
	for _, c := range after.Diff(before) {
		if c.Key == session.HandlerVar {
			continue
		}
		if v, ok := before.Lookup(c.Key); ok {
			restore[c.Key] = &v
		} else {
			restore[c.Key] = nil
		}
	}
	return Handle{Restore: restore}
}

// Activator performs native activation of the environment at envDir.
type Activator interface {
	Activate(ctx context.Context, sess *session.Session, envDir string) (Handle, error)
}

// Sourcer sources a script into the session.
type Sourcer interface {
	RunInContext(ctx context.Context, sess *session.Session, path string) error
}

// New returns the Activator for mode. Script mode needs a Sourcer.
func New(mode string, src Sourcer) (Activator, error) {
	switch mode {
	case "", ModeBuiltin:
		return Builtin{}, nil
	case ModeScript:
		return Script{Sourcer: src}, nil
	default:
		return nil, fmt.Errorf("native.New: %q: %w", mode, ErrUnknownMode)
	}
}

// Builtin reproduces what bin/activate does to the exported environment.
type Builtin struct{}

// Activate sets VIRTUAL_ENV, prepends envDir/bin to PATH and unsets PYTHONHOME.
func (Builtin) Activate(_ context.Context, sess *session.Session, envDir string) (Handle, error) {
	before := sess.Clone()
	bin := filepath.Join(envDir, "bin")
	sess.Set(registry.MarkerVar, envDir)
	if path, ok := sess.Lookup("PATH"); ok && path != "" {
		sess.Set("PATH", bin+string(os.PathListSeparator)+path)
	} else {
		sess.Set("PATH", bin)
	}
	sess.Unset("PYTHONHOME")
	return Capture(before, sess), nil
}

// Script sources envDir/bin/activate and records what it changed.
type Script struct {
	Sourcer Sourcer
}

// Activate sources the activation script. It fails if the script is missing
// or did not set VIRTUAL_ENV.
func (s Script) Activate(ctx context.Context, sess *session.Session, envDir string) (Handle, error) {
	script := filepath.Join(envDir, registry.ActivateScript)
	if _, err := os.Stat(script); err != nil {
		return Handle{}, fmt.Errorf("native.Script: %w", err)
	}
	before := sess.Clone()
	if err := s.Sourcer.RunInContext(ctx, sess, script); err != nil {
		return Handle{}, fmt.Errorf("native.Script: %w", err)
	}
	if strings.TrimSpace(sess.Get(registry.MarkerVar)) == "" {
		h := Capture(before, sess)
		h.Deactivate(sess)
		return Handle{}, fmt.Errorf("native.Script: %s did not set %s", script, registry.MarkerVar)
	}
	return Capture(before, sess), nil
}
