package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danmuck/devkit/internal/testutil/testlog"
)

func TestWriteThenValidate(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "devkit.toml")

	require.NoError(t, run("server", path, "", false, false))
	require.Error(t, run("server", path, "", false, false))
	require.NoError(t, run("server", path, "", false, true))
	require.NoError(t, run("server", "", path, true, false))

	require.NoError(t, os.WriteFile(path, []byte(`addr = "bogus"`), 0o600))
	require.Error(t, run("server", "", path, true, false))
	require.Error(t, run("mirage", path, "", false, true))
}
