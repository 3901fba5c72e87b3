package setup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectShell(t *testing.T) {
	tests := map[string]string{
		"/bin/zsh":            "zsh",
		"/usr/bin/bash":       "bash",
		"/usr/local/bin/fish": "fish",
		"/bin/tcsh":           "tcsh",
	}
	for in, want := range tests {
		t.Run(want, func(t *testing.T) {
			t.Setenv("SHELL", in)
			assert.Equal(t, want, DetectShell())
		})
	}
}

func TestShellRCPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/.zshrc", ShellRCPath("zsh"))
	assert.Equal(t, "/home/tester/.bashrc", ShellRCPath("bash"))
	assert.Equal(t, "/home/tester/.config/fish/conf.d/vew.fish", ShellRCPath("fish"))
	assert.Empty(t, ShellRCPath("tcsh"))
}

func TestInstallShellHook_Zsh(t *testing.T) {
	rcPath := filepath.Join(t.TempDir(), ".zshrc")

	require.NoError(t, InstallShellHook("zsh", rcPath))

	content, err := os.ReadFile(rcPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "vew shell integration")
	assert.Contains(t, string(content), "vew setup --print --shell zsh")
}

func TestInstallShellHook_FishCreatesConfDir(t *testing.T) {
	rcPath := filepath.Join(t.TempDir(), "fish", "conf.d", "vew.fish")

	require.NoError(t, InstallShellHook("fish", rcPath))

	content, err := os.ReadFile(rcPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "| source")
}

func TestInstallShellHook_AlreadyInstalled(t *testing.T) {
	rcPath := filepath.Join(t.TempDir(), ".bashrc")
	require.NoError(t, InstallShellHook("bash", rcPath))
	require.NoError(t, InstallShellHook("bash", rcPath))

	content, err := os.ReadFile(rcPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), "vew shell integration"))
}

func TestInstallShellHook_UnsupportedShell(t *testing.T) {
	err := InstallShellHook("tcsh", filepath.Join(t.TempDir(), ".tcshrc"))
	assert.Error(t, err)
}

func TestInstallShellHook_AppendsToExisting(t *testing.T) {
	rcPath := filepath.Join(t.TempDir(), ".zshrc")
	require.NoError(t, os.WriteFile(rcPath, []byte("# existing content\n"), 0600))

	require.NoError(t, InstallShellHook("zsh", rcPath))

	content, err := os.ReadFile(rcPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "# existing content\n"))
	assert.Contains(t, string(content), "vew shell integration")
}
