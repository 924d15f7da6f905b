package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestEnsureDir_RelativeResolvedAgainstCWD(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	got, err := EnsureDir(filepath.Join("exports", "2024"))
	require.NoError(t, err)

	// macOS tmp dirs live behind a symlink
	wantReal, _ := filepath.EvalSymlinks(filepath.Join(tmp, "exports", "2024"))
	gotReal, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, wantReal, gotReal)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestEnsureDir_AbsoluteAndIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	got, err := EnsureDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = EnsureDir(dir)
	require.NoError(t, err)
}

func TestEnsureDir_FailsWhenPathIsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))

	_, err := EnsureDir(f)
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteFileAtomic(dir, "report.csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	_, err = WriteFileAtomic(dir, "report.csv", []byte("c,d\n"))
	require.NoError(t, err)
	data, _ = os.ReadFile(path)
	assert.Equal(t, "c,d\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	_, err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope"), "x.csv", nil)
	assert.Error(t, err)
}
