package shell_test

import (
	"os/exec"
	"testing"

	"github.com/hbjs97/vew/internal/session"
	"github.com/hbjs97/vew/internal/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activationChanges() []session.Change {
	return []session.Change{
		{Key: "PATH", Value: "/envs/web/bin:/usr/bin"},
		{Key: "PYTHONHOME", Unset: true},
		{Key: session.HandlerVar, Value: `{"env":"web"}`},
		{Key: "VIRTUAL_ENV", Value: "/envs/it's here"},
	}
}

func TestScript_Posix(t *testing.T) {
	out := shell.Script(activationChanges(), "zsh")
	assert.Contains(t, out, `export PATH='/envs/web/bin:/usr/bin'`)
	assert.Contains(t, out, "unset PYTHONHOME")
	assert.Contains(t, out, `export VIRTUAL_ENV='/envs/it'\''s here'`)
	assert.Contains(t, out, "deactivate() {")
	assert.Contains(t, out, "vew --shell zsh deactivate")
	assert.Contains(t, out, "hash -r")
}

func TestScript_Fish(t *testing.T) {
	out := shell.Script(activationChanges(), "fish")
	assert.Contains(t, out, `set -gx PATH '/envs/web/bin:/usr/bin'`)
	assert.Contains(t, out, "set -e PYTHONHOME")
	assert.Contains(t, out, `set -gx VIRTUAL_ENV '/envs/it\'s here'`)
	assert.Contains(t, out, "function deactivate")
	assert.NotContains(t, out, "hash -r")
}

func TestScript_HandlerRemoved(t *testing.T) {
	changes := []session.Change{{Key: session.HandlerVar, Unset: true}, {Key: "VIRTUAL_ENV", Unset: true}}
	assert.Contains(t, shell.Script(changes, "bash"), "unset -f deactivate")
	assert.Contains(t, shell.Script(changes, "fish"), "functions -e deactivate")
	assert.NotContains(t, shell.Script(changes, "bash"), "deactivate() {")
}

func TestScript_SkipsKeysShellCannotName(t *testing.T) {
	changes := []session.Change{
		{Key: "BASH_FUNC_foo%%", Unset: true},
		{Key: "my.var", Value: "1"},
		{Key: "VIRTUAL_ENV", Value: "/envs/web"},
	}
	for _, sh := range shell.Supported {
		out := shell.Script(changes, sh)
		assert.NotContains(t, out, "BASH_FUNC_foo")
		assert.NotContains(t, out, "my.var")
		assert.Contains(t, out, "VIRTUAL_ENV")
	}
}

func TestScript_Empty(t *testing.T) {
	assert.Empty(t, shell.Script(nil, "bash"))
}

func TestScript_EvaluatesInSh(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	changes := []session.Change{
		{Key: "VEW_QUOTED", Value: `a 'b' "c" $d`},
		{Key: "VEW_NEWLINE", Value: "one\ntwo"},
	}
	script := shell.Script(changes, "bash") + `printf '%s|%s' "$VEW_QUOTED" "$VEW_NEWLINE"`

	out, err := exec.Command("sh", "-c", script).Output()
	require.NoError(t, err)
	assert.Equal(t, "a 'b' \"c\" $d|one\ntwo", string(out))
}

func TestSnippet(t *testing.T) {
	for _, sh := range []string{"bash", "zsh"} {
		snippet := shell.Snippet(sh)
		assert.Contains(t, snippet, "vew shell integration ("+sh+")")
		assert.Contains(t, snippet, "workon()")
		assert.Contains(t, snippet, "mkvirtualenv()")
		assert.Contains(t, snippet, "vew --shell "+sh+" workon")
		assert.Contains(t, snippet, "export VEW_SHELL="+sh)
	}
	fish := shell.Snippet("fish")
	assert.Contains(t, fish, "function workon")
	assert.Contains(t, fish, "string collect")
	assert.Contains(t, fish, "set -gx VEW_SHELL fish")
	assert.Empty(t, shell.Snippet("tcsh"))
}

func TestIsSupported(t *testing.T) {
	assert.True(t, shell.IsSupported("fish"))
	assert.False(t, shell.IsSupported("tcsh"))
}
