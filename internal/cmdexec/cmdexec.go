// Package cmdexec abstracts external command execution for testability.
// Production code uses Commander interface; tests inject FakeCommander from testutil.
package cmdexec

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// StreamOptions configures an attached (non-captured) command execution.
type StreamOptions struct {
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env replaces the process environment when non-nil.
	Env []string
	// Stdin, Stdout and Stderr default to the process streams when nil.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Commander abstracts external command execution.
type Commander interface {
	// Run executes an external command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// Stream executes an external command with its stdio attached to the
	// writers in opts and blocks until it exits.
	Stream(ctx context.Context, opts StreamOptions, name string, args ...string) error
}

// RealCommander executes actual external commands via os/exec.
type RealCommander struct{}

// Run executes the command using os/exec.CommandContext.
func (c *RealCommander) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Stream runs the command with attached stdio.
func (c *RealCommander) Stream(ctx context.Context, opts StreamOptions, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env
	cmd.Stdin = orReader(opts.Stdin, os.Stdin)
	cmd.Stdout = orWriter(opts.Stdout, os.Stdout)
	cmd.Stderr = orWriter(opts.Stderr, os.Stderr)
	return cmd.Run()
}

func orReader(r, def io.Reader) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orWriter(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
