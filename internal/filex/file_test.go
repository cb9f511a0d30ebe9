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

func TestEnsureSubdDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubdDir("exports")
	require.NoError(t, err)

	want := filepath.Join(tmp, "exports")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		require.Equal(t, os.FileMode(0o700), perm&0o700)
	}
}

func TestEnsureSubdDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	first, err := EnsureSubdDir("exports")
	require.NoError(t, err)

	second, err := EnsureSubdDir("exports")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureSubdDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("exports", []byte("x"), 0o660))

	_, err := EnsureSubdDir("exports")
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestSaveToSubDir(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	path, err := SaveToSubDir("exports", "inventory.csv", []byte("ID,Name\n"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "exports", "inventory.csv"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "ID,Name\n", string(got))

	// overwrite replaces content
	_, err = SaveToSubDir("exports", "inventory.csv", []byte("new"))
	require.NoError(t, err)
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "new", string(got))

	entries, err := os.ReadDir(filepath.Join(tmp, "exports"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files may be left behind")
}

func TestSaveToSubDir_RejectsPaths(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	for _, name := range []string{"", "../escape.csv", "a/b.csv", ".hidden"} {
		_, err := SaveToSubDir("exports", name, []byte("x"))
		require.Error(t, err, name)
	}
}
