package cmdexec_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/hbjs97/vew/internal/cmdexec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealCommander_StreamUsesDirAndEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var out bytes.Buffer
	c := &cmdexec.RealCommander{}

	err := c.Stream(context.Background(), cmdexec.StreamOptions{
		Dir:    dir,
		Env:    []string{"GREETING=hello"},
		Stdout: &out,
	}, "/bin/sh", "-c", `printf '%s %s' "$GREETING" "$(pwd -P)"`)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "hello ")
	assert.Contains(t, out.String(), filepath.Base(dir))
}

func TestRealCommander_StreamReturnsExitError(t *testing.T) {
	t.Parallel()

	c := &cmdexec.RealCommander{}
	err := c.Stream(context.Background(), cmdexec.StreamOptions{Stdout: &bytes.Buffer{}}, "/bin/sh", "-c", "exit 3")
	assert.Error(t, err)
}
