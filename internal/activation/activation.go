// Package activation implements switching the active environment of a
// session and the deactivate handler that undoes it.
//
// The session is either Inactive (no handler installed) or Active(name).
// Activating while Active first runs the installed handler, so a switch is
// a full deactivate followed by a full activate. Hook order:
//
//	activate:   global preactivate, local preactivate, native activate,
//	            global postactivate, local postactivate
//	deactivate: local predeactivate, global predeactivate, native deactivate,
//	            local postdeactivate, global postdeactivate
//
// Hooks are best-effort: their failures never fail a transition.
package activation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hbjs97/vew/internal/hook"
	"github.com/hbjs97/vew/internal/native"
	"github.com/hbjs97/vew/internal/registry"
	"github.com/hbjs97/vew/internal/session"
)

// ErrNoTarget is returned by ListOrSwitch when no environment name was given.
// It is informational; the listing is returned alongside it.
var ErrNoTarget = errors.New("no environment given")

// Hooks resolves hook paths into runnable hooks.
type Hooks interface {
	Sourced(path string) hook.Hook
}

// Machine performs activate and deactivate transitions.
type Machine struct {
	Registry *registry.Registry
	Hooks    Hooks
	Native   native.Activator
	Logger   *slog.Logger
}

// New creates a Machine.
func New(reg *registry.Registry, hooks Hooks, act native.Activator, logger *slog.Logger) *Machine {
	return &Machine{Registry: reg, Hooks: hooks, Native: act, Logger: logger}
}

// Active returns the name of the environment whose handler is installed.
func (m *Machine) Active(sess *session.Session) (string, bool) {
	h := sess.Handler()
	if h == nil {
		return "", false
	}
	return h.Env, true
}

// Activate makes name the session's active environment. Validation happens
// before anything else, so an invalid target leaves the session untouched.
func (m *Machine) Activate(ctx context.Context, sess *session.Session, name string) error {
	if err := m.Registry.VerifyRoot(); err != nil {
		return err
	}
	if err := m.Registry.VerifyActivatable(name); err != nil {
		return err
	}

	if err := m.Deactivate(ctx, sess); err != nil {
		return err
	}

	envDir := m.Registry.Path(name)
	root := m.Registry.Root
	m.source(ctx, sess, hook.GlobalPath(root, hook.PreActivate))
	m.source(ctx, sess, hook.LocalPath(envDir, hook.PreActivate))

	nh, err := m.Native.Activate(ctx, sess, envDir)
	if err != nil {
		return fmt.Errorf("activation.Activate: %s: %w", name, err)
	}

	handler := &session.Handler{
		Env:                 name,
		EnvDir:              envDir,
		LocalPreDeactivate:  hook.LocalPath(envDir, hook.PreDeactivate),
		LocalPostDeactivate: hook.LocalPath(envDir, hook.PostDeactivate),
		Restore:             nh.Restore,
	}
	if err := sess.SetHandler(handler); err != nil {
		return fmt.Errorf("activation.Activate: %w", err)
	}
	m.Logger.Debug("activated", "env", name, "dir", envDir)

	m.source(ctx, sess, hook.GlobalPath(root, hook.PostActivate))
	m.source(ctx, sess, hook.LocalPath(envDir, hook.PostActivate))
	return nil
}

// Deactivate runs the installed handler and clears it. With no handler
// installed it does nothing.
func (m *Machine) Deactivate(ctx context.Context, sess *session.Session) error {
	h := sess.Handler()
	if h == nil {
		return nil
	}
	root := m.Registry.Root

	m.source(ctx, sess, h.LocalPreDeactivate)
	m.source(ctx, sess, hook.GlobalPath(root, hook.PreDeactivate))

	native.Handle{Restore: h.Restore}.Deactivate(sess)
	if err := sess.SetHandler(nil); err != nil {
		return fmt.Errorf("activation.Deactivate: %w", err)
	}
	m.Logger.Debug("deactivated", "env", h.Env)

	m.source(ctx, sess, h.LocalPostDeactivate)
	m.source(ctx, sess, hook.GlobalPath(root, hook.PostDeactivate))
	return nil
}

// ListOrSwitch activates name, or when name is empty returns the available
// environments together with ErrNoTarget.
func (m *Machine) ListOrSwitch(ctx context.Context, sess *session.Session, name string) ([]string, error) {
	if name == "" {
		names, err := m.Registry.List()
		if err != nil {
			return nil, err
		}
		return names, ErrNoTarget
	}
	return nil, m.Activate(ctx, sess, name)
}

// source runs a hook in the session. Hook failures are logged, never returned.
func (m *Machine) source(ctx context.Context, sess *session.Session, path string) {
	if err := m.Hooks.Sourced(path).Run(ctx, sess); err != nil {
		m.Logger.Warn("hook could not be run", "path", path, "error", err)
	}
}
