// Package lifecycle creates and removes environments, delegating the actual
// build to an external builder and running the create/remove hooks.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hbjs97/vew/internal/cmdexec"
	"github.com/hbjs97/vew/internal/hook"
	"github.com/hbjs97/vew/internal/registry"
	"github.com/hbjs97/vew/internal/session"
)

var (
	// ErrMissingName is returned when no environment name was given.
	ErrMissingName = errors.New("environment name is required")
	// ErrCannotRemoveActive is returned when removing the active environment.
	ErrCannotRemoveActive = errors.New("cannot remove the active environment; deactivate it first")
)

// Builder builds a new environment. It runs with root as the working
// directory; args end with the environment name.
type Builder interface {
	Build(ctx context.Context, sess *session.Session, root string, args []string) error
}

// CommandBuilder runs an external builder such as virtualenv.
type CommandBuilder struct {
	Commander cmdexec.Commander
	Command   string
	// Args are prepended to every build's arguments.
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
}

// Build runs the builder command inside root.
func (b *CommandBuilder) Build(ctx context.Context, sess *session.Session, root string, args []string) error {
	argv := append(append([]string{}, b.Args...), args...)
	return b.Commander.Stream(ctx, cmdexec.StreamOptions{
		Dir:    root,
		Env:    sess.Environ(),
		Stdout: b.Stdout,
		Stderr: b.Stderr,
	}, b.Command, argv...)
}

// Hooks resolves hook paths into runnable hooks.
type Hooks interface {
	Subprocess(path string) hook.Hook
	Sourced(path string) hook.Hook
}

// Activator is the part of the activation machine lifecycle depends on.
type Activator interface {
	Activate(ctx context.Context, sess *session.Session, name string) error
}

// Lifecycle creates and removes environments.
type Lifecycle struct {
	Registry  *registry.Registry
	Hooks     Hooks
	Activator Activator
	Builder   Builder
	Logger    *slog.Logger
}

// New creates a Lifecycle.
func New(reg *registry.Registry, hooks Hooks, act Activator, b Builder, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{Registry: reg, Hooks: hooks, Activator: act, Builder: b, Logger: logger}
}

// Create builds the environment name and activates it. The builder's exit
// status is not inspected: if Root/name does not exist afterwards, whether
// because the builder failed or only printed help, Create returns nil
// without running any hook.
func (l *Lifecycle) Create(ctx context.Context, sess *session.Session, name string, builderArgs ...string) error {
	if name == "" {
		return fmt.Errorf("lifecycle.Create: %w", ErrMissingName)
	}
	if err := registry.ValidateName(name); err != nil {
		return err
	}
	if err := l.Registry.VerifyRoot(); err != nil {
		return err
	}

	args := append(append([]string{}, builderArgs...), name)
	if err := l.Builder.Build(ctx, sess, l.Registry.Root, args); err != nil {
		l.Logger.Debug("builder exited with error", "env", name, "error", err)
	}
	if err := l.Registry.VerifyEnvironment(name); err != nil {
		l.Logger.Info("no environment created", "env", name)
		return nil
	}

	envDir := l.Registry.Path(name)
	l.run(ctx, sess, l.Hooks.Subprocess(hook.GlobalPath(l.Registry.Root, hook.PreCreate)), envDir)
	if err := hook.EnsureLocal(envDir); err != nil {
		l.Logger.Warn("could not create environment hooks", "env", name, "error", err)
	}

	if err := l.Activator.Activate(ctx, sess, name); err != nil {
		return err
	}

	l.run(ctx, sess, l.Hooks.Sourced(hook.GlobalPath(l.Registry.Root, hook.PostCreate)))
	return nil
}

// Remove deletes the environment name. The active environment cannot be
// removed. Hooks observe the removal; they cannot prevent it.
func (l *Lifecycle) Remove(ctx context.Context, sess *session.Session, name string) error {
	if name == "" {
		return fmt.Errorf("lifecycle.Remove: %w", ErrMissingName)
	}
	if err := l.Registry.VerifyRoot(); err != nil {
		return err
	}
	if err := l.Registry.VerifyEnvironment(name); err != nil {
		return err
	}
	if l.isActive(sess, name) {
		return fmt.Errorf("lifecycle.Remove: %s: %w", name, ErrCannotRemoveActive)
	}

	envDir := l.Registry.Path(name)
	l.run(ctx, sess, l.Hooks.Subprocess(hook.GlobalPath(l.Registry.Root, hook.PreRemove)), envDir)
	if err := os.RemoveAll(envDir); err != nil {
		return fmt.Errorf("lifecycle.Remove: %w", err)
	}
	l.Logger.Debug("removed", "env", name, "dir", envDir)
	l.run(ctx, sess, l.Hooks.Subprocess(hook.GlobalPath(l.Registry.Root, hook.PostRemove)), envDir)
	return nil
}

// isActive reports whether name is the session's active environment, either
// by the installed handler or by VIRTUAL_ENV.
func (l *Lifecycle) isActive(sess *session.Session, name string) bool {
	envDir := l.Registry.Path(name)
	if h := sess.Handler(); h != nil && registry.SameDir(h.EnvDir, envDir) {
		return true
	}
	active, ok := l.Registry.Active(sess)
	return ok && active == name
}

func (l *Lifecycle) run(ctx context.Context, sess *session.Session, h hook.Hook, args ...string) {
	if err := h.Run(ctx, sess, args...); err != nil {
		l.Logger.Warn("hook could not be run", "error", err)
	}
}
