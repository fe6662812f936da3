package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDirs(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "state", "nested", "movie.db")

	require.NoError(t, EnsureParentDir(path))

	fi, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, fi.IsDir())
}

func TestEnsureParentDir_BareFileName(t *testing.T) {
	require.NoError(t, EnsureParentDir("movie.db"))
}

func TestReadOrCreate_CreatesOnceThenReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "secret")

	calls := 0
	gen := func() []byte {
		calls++
		return []byte("generated")
	}

	first, err := ReadOrCreate(path, gen)
	require.NoError(t, err)
	require.Equal(t, []byte("generated"), first)

	second, err := ReadOrCreate(path, gen)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls, "generator must run only when the file is missing")

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}
}

func TestReadOrCreate_ReadErrorIsReturned(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadOrCreate(dir, func() []byte { return nil })
	require.Error(t, err, "reading a directory as a file must fail")
}
