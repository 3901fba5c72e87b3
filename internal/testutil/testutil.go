// Package testutil provides common test helpers for the vew project.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// activateStub mirrors the variables a real bin/activate exports.
const activateStub = `# generated by testutil.MakeEnv
VIRTUAL_ENV='%s'
export VIRTUAL_ENV
PATH="$VIRTUAL_ENV/bin:$PATH"
export PATH
`

// MakeEnv creates Root/name/bin/activate so the directory looks like a
// virtual environment, and returns the environment directory.
func MakeEnv(t *testing.T, root, name string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0755); err != nil {
		t.Fatalf("MakeEnv: mkdir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bin", "activate"), []byte(fmt.Sprintf(activateStub, dir)), 0644); err != nil {
		t.Fatalf("MakeEnv: write failed: %v", err)
	}
	return dir
}

// WriteScript writes an executable /bin/sh script with the given body.
func WriteScript(t *testing.T, path, body string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("WriteScript: mkdir failed: %v", err)
	}
	content := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), 0755); err != nil {
		t.Fatalf("WriteScript: write failed: %v", err)
	}
}

// TraceScript writes an executable script that appends label to logPath
// when run. Sourced scripts append the same way, so both execution modes
// can be traced through one file.
func TraceScript(t *testing.T, path, logPath, label string) {
	t.Helper()
	WriteScript(t, path, "echo "+label+" >> '"+logPath+"'")
}

// ReadTrace returns the labels written to logPath, in order.
func ReadTrace(t *testing.T, logPath string) []string {
	t.Helper()

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("ReadTrace: read failed: %v", err)
	}
	return strings.Fields(string(data))
}

// TempConfigFile creates a temporary config.toml with the given content
// and returns its path. The file is automatically cleaned up.
func TempConfigFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("TempConfigFile: write failed: %v", err)
	}

	return path
}

// ListDir returns the sorted entry names of dir.
func ListDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ListDir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
