// Package hook locates, stubs and runs user lifecycle hook scripts.
//
// Hooks are plain executable files found by path convention: global hooks
// live at Root/<event>, per-environment hooks at Root/<name>/bin/<event>.
// A hook runs either as a child process, which cannot affect the caller, or
// sourced into the session, in which case the exported environment it
// leaves behind replaces the session's.
package hook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hbjs97/vew/internal/cmdexec"
	"github.com/hbjs97/vew/internal/session"
)

// Event names a lifecycle hook point. The value doubles as the hook's file name.
type Event string

const (
	PreCreate      Event = "premkvirtualenv"
	PostCreate     Event = "postmkvirtualenv"
	PreRemove      Event = "prermvirtualenv"
	PostRemove     Event = "postrmvirtualenv"
	PreActivate    Event = "preactivate"
	PostActivate   Event = "postactivate"
	PreDeactivate  Event = "predeactivate"
	PostDeactivate Event = "postdeactivate"
)

// GlobalEvents are the events stubbed under Root at initialization.
var GlobalEvents = []Event{
	PreCreate, PostCreate, PreRemove, PostRemove,
	PreActivate, PostActivate, PreDeactivate, PostDeactivate,
}

// LocalStubEvents are the per-environment hooks stubbed when an environment is created.
var LocalStubEvents = []Event{PostActivate, PreDeactivate, PostDeactivate}

var descriptions = map[Event]string{
	PreCreate:      "This hook is run after a new virtualenv is created and before it is activated.",
	PostCreate:     "This hook is sourced after a new virtualenv is activated.",
	PreRemove:      "This hook is run before a virtualenv is deleted.",
	PostRemove:     "This hook is run after a virtualenv is deleted.",
	PreActivate:    "This hook is sourced before a virtualenv is activated.",
	PostActivate:   "This hook is sourced after a virtualenv is activated.",
	PreDeactivate:  "This hook is sourced before a virtualenv is deactivated.",
	PostDeactivate: "This hook is sourced after a virtualenv is deactivated.",
}

// Description returns the one-line comment written into a stub for e.
func (e Event) Description() string {
	return descriptions[e]
}

// GlobalPath returns the location of the global hook for e.
func GlobalPath(root string, e Event) string {
	return filepath.Join(root, string(e))
}

// LocalPath returns the location of the per-environment hook for e.
func LocalPath(envDir string, e Event) string {
	return filepath.Join(envDir, "bin", string(e))
}

// Hook is a runnable hook script.
type Hook interface {
	Run(ctx context.Context, sess *session.Session, args ...string) error
}

// Runner executes hook scripts.
type Runner struct {
	Commander cmdexec.Commander
	Logger    *slog.Logger
	// Shell sources in-context hooks. Defaults to /bin/sh.
	Shell string
	// Stdout and Stderr receive hook output. nil means the process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates a Runner using /bin/sh.
func NewRunner(cmd cmdexec.Commander, logger *slog.Logger) *Runner {
	return &Runner{Commander: cmd, Logger: logger, Shell: "/bin/sh"}
}

// Subprocess returns a Hook that runs path as a child process.
func (r *Runner) Subprocess(path string) Hook {
	return subprocessHook{runner: r, path: path}
}

// Sourced returns a Hook that sources path into the session.
func (r *Runner) Sourced(path string) Hook {
	return sourcedHook{runner: r, path: path}
}

type subprocessHook struct {
	runner *Runner
	path   string
}

func (h subprocessHook) Run(ctx context.Context, sess *session.Session, args ...string) error {
	return h.runner.RunSubprocess(ctx, sess, h.path, args...)
}

type sourcedHook struct {
	runner *Runner
	path   string
}

// Run ignores args; sourced hooks take no arguments.
func (h sourcedHook) Run(ctx context.Context, sess *session.Session, _ ...string) error {
	return h.runner.RunInContext(ctx, sess, h.path)
}

// EnsureStub creates an empty executable hook at path if none exists, or
// adds the execute bits to an existing one. Existing content is never touched.
func EnsureStub(path, description string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		content := fmt.Sprintf("#!/bin/sh\n# %s\n\n", description)
		if err := os.WriteFile(path, []byte(content), 0755); err != nil {
			return fmt.Errorf("hook.EnsureStub: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("hook.EnsureStub: %w", err)
	}
	if info.Mode()&0111 == 0 {
		if err := os.Chmod(path, info.Mode()|0111); err != nil {
			return fmt.Errorf("hook.EnsureStub: %w", err)
		}
	}
	return nil
}

// InitializeGlobal ensures a stub exists for every global event under root.
func InitializeGlobal(root string) error {
	for _, e := range GlobalEvents {
		if err := EnsureStub(GlobalPath(root, e), e.Description()); err != nil {
			return err
		}
	}
	return nil
}

// EnsureLocal creates the per-environment stubs in envDir/bin.
func EnsureLocal(envDir string) error {
	if err := os.MkdirAll(filepath.Join(envDir, "bin"), 0755); err != nil {
		return fmt.Errorf("hook.EnsureLocal: %w", err)
	}
	for _, e := range LocalStubEvents {
		if err := EnsureStub(LocalPath(envDir, e), e.Description()); err != nil {
			return err
		}
	}
	return nil
}

// RunSubprocess runs path as a child process with the session environment,
// from the directory containing it. A missing hook is a no-op; a hook that
// is not executable only produces a warning. The hook's exit status is
// logged and never returned.
func (r *Runner) RunSubprocess(ctx context.Context, sess *session.Session, path string, args ...string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		r.Logger.Warn("hook not accessible", "path", path, "error", err)
		return nil
	}
	if info.Mode()&0111 == 0 {
		r.Logger.Warn("hook exists but is not executable", "path", path)
		return nil
	}

	r.Logger.Debug("running hook", "path", path, "args", args)
	err = r.Commander.Stream(ctx, cmdexec.StreamOptions{
		Dir:    filepath.Dir(path),
		Env:    sess.Environ(),
		Stdout: r.Stdout,
		Stderr: r.Stderr,
	}, path, args...)
	if err != nil {
		r.Logger.Debug("hook failed", "path", path, "error", err)
	}
	return nil
}

// sourceScript sources $1 and dumps the resulting exported environment to $2.
const sourceScript = `. "$1"; command -p env -0 > "$2"`

// shellOwned variables are managed by the sourcing shell itself and are not
// carried back into the session.
var shellOwned = []string{"_", "SHLVL", "PWD", "OLDPWD"}

// RunInContext sources path into the session: the exported environment
// the hook leaves behind replaces the session's. A missing hook is a no-op.
// A hook that aborts the sourcing shell leaves the session unchanged.
// Failures inside the hook are not returned.
func (r *Runner) RunInContext(ctx context.Context, sess *session.Session, path string) error {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			r.Logger.Warn("hook not accessible", "path", path, "error", err)
		}
		return nil
	}

	dump, err := os.CreateTemp("", "vew-env-*")
	if err != nil {
		return fmt.Errorf("hook.RunInContext: %w", err)
	}
	dumpPath := dump.Name()
	dump.Close()
	defer os.Remove(dumpPath)

	r.Logger.Debug("sourcing hook", "path", path)
	err = r.Commander.Stream(ctx, cmdexec.StreamOptions{
		Env:    sess.Environ(),
		Stdout: r.Stdout,
		Stderr: r.Stderr,
	}, r.shell(), "-c", sourceScript, "vew-hook", path, dumpPath)
	if err != nil {
		r.Logger.Debug("hook failed", "path", path, "error", err)
	}

	data, err := os.ReadFile(dumpPath)
	if err != nil || len(data) == 0 {
		r.Logger.Warn("hook did not finish; environment unchanged", "path", path)
		return nil
	}

	env := ParseEnvDump(data)
	// /bin/sh drops variables whose names it cannot represent; keep the session's.
	for k := range env {
		if !session.IsName(k) {
			delete(env, k)
		}
	}
	for k, v := range sess.Vars() {
		if !session.IsName(k) {
			env[k] = v
		}
	}
	for _, k := range shellOwned {
		if v, ok := sess.Lookup(k); ok {
			env[k] = v
		} else {
			delete(env, k)
		}
	}
	sess.Replace(env)
	return nil
}

func (r *Runner) shell() string {
	if r.Shell == "" {
		return "/bin/sh"
	}
	return r.Shell
}

// ParseEnvDump parses NUL-separated KEY=VALUE records as written by env -0.
func ParseEnvDump(data []byte) map[string]string {
	env := make(map[string]string)
	for _, rec := range bytes.Split(data, []byte{0}) {
		k, v, ok := bytes.Cut(rec, []byte{'='})
		if !ok || len(k) == 0 {
			continue
		}
		env[string(k)] = string(v)
	}
	return env
}
