package safewrite

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/vcproj2cmake/observability"
)

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestCommit_NewFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "CMakeLists.txt")

	res, err := New(0, nil).Commit([]byte("project(hello)\n"), out)

	require.NoError(t, err)
	assert.Equal(t, Wrote, res)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "project(hello)\n", string(data))
	assert.Equal(t, []string{"CMakeLists.txt"}, listDir(t, dir))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(out)
		require.NoError(t, err)
		assert.Equal(t, DefaultPerm, info.Mode().Perm())
	}
}

func TestCommit_UnchangedLeavesFileAlone(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "CMakeLists.txt")
	content := []byte("project(hello)\n")
	require.NoError(t, os.WriteFile(out, content, 0o600))
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(out, old, old))

	log := observability.NewRecordingLogger()
	res, err := New(0, log).Commit(content, out)

	require.NoError(t, err)
	assert.Equal(t, Unchanged, res)
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old))
	assert.Equal(t, []string{"CMakeLists.txt"}, listDir(t, dir))
	assert.True(t, log.Contains(observability.DebugLevel, "up to date"))
}

func TestCommit_ChangedKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "CMakeLists.txt")
	require.NoError(t, os.WriteFile(out, []byte("old\n"), 0o644))

	res, err := New(0, nil).Commit([]byte("new\n"), out)

	require.NoError(t, err)
	assert.Equal(t, Wrote, res)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
	prev, err := os.ReadFile(out + PreviousSuffix)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(prev))
	assert.ElementsMatch(t, []string{"CMakeLists.txt", "CMakeLists.txt.previous"}, listDir(t, dir))
}

func TestCommit_FailedPromoteRestoresOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "CMakeLists.txt")
	require.NoError(t, os.WriteFile(out, []byte("old\n"), 0o644))

	log := observability.NewRecordingLogger()
	c := New(0, log)
	c.rename = func(from, to string) error {
		if to == out && from != out+PreviousSuffix {
			return errors.New("disk full")
		}
		return rename(from, to)
	}

	_, err := c.Commit([]byte("new\n"), out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "promote output")
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(data))
	assert.Equal(t, []string{"CMakeLists.txt"}, listDir(t, dir))
	assert.True(t, log.Contains(observability.WarnLevel, "Restored"))
}

func TestCommit_ReplacesOlderPrevious(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "CMakeLists.txt")
	require.NoError(t, os.WriteFile(out, []byte("v2\n"), 0o644))
	require.NoError(t, os.WriteFile(out+PreviousSuffix, []byte("v1\n"), 0o644))

	_, err := New(0, nil).Commit([]byte("v3\n"), out)

	require.NoError(t, err)
	prev, err := os.ReadFile(out + PreviousSuffix)
	require.NoError(t, err)
	assert.Equal(t, "v2\n", string(prev))
}

func TestCommit_SecondRunIsUnchanged(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "CMakeLists.txt")
	c := New(0, nil)

	res, err := c.Commit([]byte("a\n"), out)
	require.NoError(t, err)
	assert.Equal(t, Wrote, res)

	res, err = c.Commit([]byte("a\n"), out)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, res)
	_, err = os.Stat(out + PreviousSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestCommit_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on windows")
	}
	dir := t.TempDir()
	out := filepath.Join(dir, "CMakeLists.txt")

	_, err := New(0o640, nil).Commit([]byte("a\n"), out)

	require.NoError(t, err)
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestCommit_MissingDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "CMakeLists.txt")

	_, err := New(0, nil).Commit([]byte("a\n"), out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create scratch file")
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "wrote", Wrote.String())
	assert.Equal(t, "unchanged", Unchanged.String())
	assert.Equal(t, "Result(7)", Result(7).String())
}
