package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/treediff/pkg/logging"
	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func newLocal(t *testing.T, dir string) *storage.Billy {
	t.Helper()
	backend, err := storage.NewLocal(dir)
	require.NoError(t, err)
	return backend
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello")
	writeFile(t, dir, "docs/readme.txt", "read me")
	writeFile(t, dir, "docs/deep/nested/n.bin", "0123456789")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "empty"), 0755))

	collector := logging.NewCollector(nil)
	snap := NewBuilder(newLocal(t, dir), 4, nil, collector).Build(context.Background())

	assert.Equal(t, []string{
		"a.txt",
		"docs",
		filepath.Join("docs", "deep"),
		filepath.Join("docs", "deep", "nested"),
		filepath.Join("docs", "deep", "nested", "n.bin"),
		filepath.Join("docs", "readme.txt"),
		"empty",
	}, snap.Paths())

	assert.NotContains(t, snap, ".", "root must not be recorded")
	assert.NotContains(t, snap, "")

	a := snap["a.txt"]
	assert.Equal(t, int64(5), a.Size)
	assert.False(t, a.IsDir)
	assert.Equal(t, dir, a.Root)

	docs := snap["docs"]
	assert.True(t, docs.IsDir)
	assert.Equal(t, int64(0), docs.Size, "directories are recorded with size 0")

	files, dirs := snap.Counts()
	assert.Equal(t, 3, files)
	assert.Equal(t, 4, dirs)
	assert.Equal(t, 0, collector.Len())
}

func TestBuildSingleWorker(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"a/1", "a/b/2", "a/b/c/3", "d/4", "e/f/g/h/5"} {
		writeFile(t, dir, rel, rel)
	}

	snap := NewBuilder(newLocal(t, dir), 1, nil, nil).Build(context.Background())
	files, dirs := snap.Counts()
	assert.Equal(t, 5, files)
	assert.Equal(t, 8, dirs)
}

func TestBuildExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.txt", "k")
	writeFile(t, dir, "skip.tmp", "s")
	writeFile(t, dir, ".git/config", "c")
	writeFile(t, dir, "src/main.go", "m")
	writeFile(t, dir, "src/cache/blob", "b")

	snap := NewBuilder(newLocal(t, dir), 2, []string{"*.tmp", ".git/", "**/cache"}, nil).Build(context.Background())

	assert.Equal(t, []string{"keep.txt", "src", filepath.Join("src", "main.go")}, snap.Paths())
}

func TestBuildMissingRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tree")
	require.NoError(t, os.Mkdir(dir, 0755))
	backend := newLocal(t, dir)
	require.NoError(t, os.Remove(dir))

	collector := logging.NewCollector(nil)
	snap := NewBuilder(backend, 2, nil, collector).Build(context.Background())

	assert.Empty(t, snap)
	failures := collector.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, models.OpWalk, failures[0].Op)
	assert.Equal(t, dir, failures[0].Path)
}

func TestBuildSymlinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "target.txt", "target")
	writeFile(t, dir, "real/inner.txt", "inner")
	require.NoError(t, os.Symlink("target.txt", filepath.Join(dir, "link.txt")))
	require.NoError(t, os.Symlink("real", filepath.Join(dir, "linkdir")))
	require.NoError(t, os.Symlink("missing.txt", filepath.Join(dir, "broken")))

	collector := logging.NewCollector(nil)
	snap := NewBuilder(newLocal(t, dir), 2, nil, collector).Build(context.Background())

	t.Run("FileLinkFollowed", func(t *testing.T) {
		require.Contains(t, snap, "link.txt")
		assert.Equal(t, int64(6), snap["link.txt"].Size)
		assert.False(t, snap["link.txt"].IsDir)
	})

	t.Run("DirectoryLinkNotDescended", func(t *testing.T) {
		require.Contains(t, snap, "linkdir")
		assert.True(t, snap["linkdir"].IsDir)
		assert.NotContains(t, snap, filepath.Join("linkdir", "inner.txt"))
	})

	t.Run("BrokenLinkSkipped", func(t *testing.T) {
		assert.NotContains(t, snap, "broken")
		failures := collector.Failures()
		require.Len(t, failures, 1)
		assert.Equal(t, "broken", failures[0].Path)
		assert.Equal(t, models.OpStat, failures[0].Op)
	})

	assert.Contains(t, snap, filepath.Join("real", "inner.txt"))
}

func TestBuildPair(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, src, "docs/readme.txt", "read me")
	writeFile(t, dst, "old/readme.txt", "read me")

	sourceSnap, destSnap := BuildPair(context.Background(),
		NewBuilder(newLocal(t, src), 2, nil, nil),
		NewBuilder(newLocal(t, dst), 2, nil, nil),
	)

	assert.Equal(t, []string{"docs", filepath.Join("docs", "readme.txt")}, sourceSnap.Paths())
	assert.Equal(t, []string{"old", filepath.Join("old", "readme.txt")}, destSnap.Paths())
}

func TestBuildCanceledRecordsWalkFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/f.txt", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	collector := logging.NewCollector(nil)
	backend := newLocal(t, dir)
	snap := NewBuilder(backend, 2, nil, collector).Build(ctx)

	assert.Empty(t, snap)
	failures := collector.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, models.OpWalk, failures[0].Op)
	assert.Equal(t, backend.Root(), failures[0].Path)
	assert.Contains(t, failures[0].Error, context.Canceled.Error())
}
