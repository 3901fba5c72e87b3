package hook_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hbjs97/vew/internal/cmdexec"
	"github.com/hbjs97/vew/internal/hook"
	"github.com/hbjs97/vew/internal/logging"
	"github.com/hbjs97/vew/internal/session"
	"github.com/hbjs97/vew/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) (*hook.Runner, *bytes.Buffer) {
	t.Helper()
	logs := new(bytes.Buffer)
	r := hook.NewRunner(&cmdexec.RealCommander{}, logging.NewWriter(logs, slog.LevelDebug))
	r.Stdout = new(bytes.Buffer)
	r.Stderr = new(bytes.Buffer)
	return r, logs
}

func TestEnsureStub_CreatesExecutablePlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postactivate")

	require.NoError(t, hook.EnsureStub(path, "sourced after activation"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0111, "stub must be executable")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "#!/bin/sh\n"))
	assert.Contains(t, string(data), "# sourced after activation")
}

func TestEnsureStub_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preactivate")
	require.NoError(t, hook.EnsureStub(path, "first"))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho custom\n"), 0755))

	require.NoError(t, hook.EnsureStub(path, "second"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho custom\n", string(data))
}

func TestEnsureStub_MakesExistingFileExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predeactivate")
	require.NoError(t, os.WriteFile(path, []byte("echo hi\n"), 0644))

	require.NoError(t, hook.EnsureStub(path, "ignored"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	data, _ := os.ReadFile(path)
	assert.Equal(t, "echo hi\n", string(data))
}

func TestInitializeGlobalAndEnsureLocal(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, hook.InitializeGlobal(root))
	for _, e := range hook.GlobalEvents {
		assert.FileExists(t, hook.GlobalPath(root, e))
	}

	envDir := filepath.Join(root, "web")
	require.NoError(t, hook.EnsureLocal(envDir))
	for _, e := range hook.LocalStubEvents {
		assert.FileExists(t, hook.LocalPath(envDir, e))
	}
	assert.NoFileExists(t, hook.LocalPath(envDir, hook.PreActivate))
}

func TestRunSubprocess_PassesArgsAndEnv(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	path := filepath.Join(dir, "prermvirtualenv")
	testutil.WriteScript(t, path, `echo "$1 $VEW_TEST $(pwd -P)" > '`+out+`'; exit 7`)

	r, _ := newRunner(t)
	sess := session.FromEnviron(os.Environ())
	sess.Set("VEW_TEST", "yes")

	require.NoError(t, r.RunSubprocess(context.Background(), sess, path, "/envs/web"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "/envs/web yes ")
	assert.Contains(t, string(data), filepath.Base(dir))
}

func TestRunSubprocess_ChildCannotMutateSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "premkvirtualenv")
	testutil.WriteScript(t, path, "export LEAK=1")

	r, _ := newRunner(t)
	sess := session.FromEnviron(os.Environ())
	before := sess.Clone()

	require.NoError(t, r.RunSubprocess(context.Background(), sess, path))
	assert.Empty(t, sess.Diff(before))
}

func TestRunSubprocess_MissingIsNoop(t *testing.T) {
	fc := testutil.NewFakeCommander()
	r := hook.NewRunner(fc, logging.NewNop())

	err := r.RunSubprocess(context.Background(), session.New(), filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, fc.Calls)
}

func TestRunSubprocess_NotExecutableWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postrmvirtualenv")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0644))

	fc := testutil.NewFakeCommander()
	logs := new(bytes.Buffer)
	r := hook.NewRunner(fc, logging.NewWriter(logs, slog.LevelInfo))

	require.NoError(t, r.RunSubprocess(context.Background(), session.New(), path))
	assert.Empty(t, fc.Calls)
	assert.Contains(t, logs.String(), "not executable")
}

func TestRunInContext_AppliesExportedChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postactivate")
	testutil.WriteScript(t, path, strings.Join([]string{
		"export ADDED='a b'",
		`export CHANGED="x:$CHANGED"`,
		"unset REMOVED",
		"NOT_EXPORTED=1",
		"echo visible",
	}, "\n"))

	r, _ := newRunner(t)
	sess := session.FromEnviron(os.Environ())
	sess.Set("CHANGED", "y")
	sess.Set("REMOVED", "gone")
	before := sess.Clone()

	require.NoError(t, r.RunInContext(context.Background(), sess, path))

	assert.Equal(t, "a b", sess.Get("ADDED"))
	assert.Equal(t, "x:y", sess.Get("CHANGED"))
	_, ok := sess.Lookup("REMOVED")
	assert.False(t, ok)
	_, ok = sess.Lookup("NOT_EXPORTED")
	assert.False(t, ok)
	assert.Contains(t, r.Stdout.(*bytes.Buffer).String(), "visible")

	changed := map[string]bool{}
	for _, c := range sess.Diff(before) {
		changed[c.Key] = true
	}
	assert.Equal(t, map[string]bool{"ADDED": true, "CHANGED": true, "REMOVED": true}, changed)
}

func TestRunInContext_KeepsVariablesShellCannotName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preactivate")
	testutil.WriteScript(t, path, "export TOUCHED=1")
	stub := filepath.Join(t.TempDir(), "postactivate")
	require.NoError(t, hook.EnsureStub(stub, "empty"))

	r, _ := newRunner(t)
	sess := session.FromEnviron(os.Environ())
	sess.Set("BASH_FUNC_foo%%", "() {  echo foo\n}")
	sess.Set("my.var", "1")
	before := sess.Clone()

	require.NoError(t, r.RunInContext(context.Background(), sess, stub))
	assert.Empty(t, sess.Diff(before), "an empty hook must not change the session")

	require.NoError(t, r.RunInContext(context.Background(), sess, path))
	assert.Equal(t, []session.Change{{Key: "TOUCHED", Value: "1"}}, sess.Diff(before))
	assert.Equal(t, "1", sess.Get("my.var"))
}

func TestRunInContext_NeedsNoExecuteBit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preactivate")
	require.NoError(t, os.WriteFile(path, []byte("export FROM_PLAIN_FILE=1\n"), 0644))

	r, _ := newRunner(t)
	sess := session.FromEnviron(os.Environ())
	require.NoError(t, r.RunInContext(context.Background(), sess, path))
	assert.Equal(t, "1", sess.Get("FROM_PLAIN_FILE"))
}

func TestRunInContext_ExitLeavesSessionUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postactivate")
	testutil.WriteScript(t, path, "export HALF=1\nexit 1")

	r, logs := newRunner(t)
	sess := session.FromEnviron(os.Environ())
	before := sess.Clone()

	require.NoError(t, r.RunInContext(context.Background(), sess, path))
	assert.Empty(t, sess.Diff(before))
	assert.Contains(t, logs.String(), "environment unchanged")
}

func TestRunInContext_MissingIsNoop(t *testing.T) {
	fc := testutil.NewFakeCommander()
	r := hook.NewRunner(fc, logging.NewNop())

	require.NoError(t, r.RunInContext(context.Background(), session.New(), filepath.Join(t.TempDir(), "nope")))
	assert.Empty(t, fc.Calls)
}

func TestHookVariants(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "trace")
	sub := filepath.Join(dir, "sub")
	src := filepath.Join(dir, "src")
	testutil.TraceScript(t, sub, logPath, "sub")
	testutil.TraceScript(t, src, logPath, "src")

	r, _ := newRunner(t)
	sess := session.FromEnviron(os.Environ())

	require.NoError(t, r.Subprocess(sub).Run(context.Background(), sess, "arg"))
	require.NoError(t, r.Sourced(src).Run(context.Background(), sess))

	assert.Equal(t, []string{"sub", "src"}, testutil.ReadTrace(t, logPath))
}

func TestParseEnvDump(t *testing.T) {
	env := hook.ParseEnvDump([]byte("A=1\x00B=x=y\x00MULTI=line1\nline2\x00\x00=bad\x00"))
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y", "MULTI": "line1\nline2"}, env)
}
