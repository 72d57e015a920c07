package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureParentDir_CreatesDirectory(t *testing.T) {
	tmp := t.TempDir()

	got, err := EnsureParentDir(filepath.Join(tmp, "state", "session.db"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "state", "session.db"), got)

	fi, err := os.Stat(filepath.Join(tmp, "state"))
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureParentDir_RelativeToWorkingDir(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureParentDir("session.db")
	require.NoError(t, err)

	want, err := filepath.Abs("session.db")
	require.NoError(t, err)
	require.Equal(t, want, got)

	again, err := EnsureParentDir("session.db")
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestEnsureParentDir_FailsIfFileBlocksDirectory(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "state")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureParentDir(filepath.Join(blocker, "session.db"))
	require.Error(t, err, "should fail when a file exists with the directory name")
}
