package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	files := map[string]string{
		"b.mixin":           "b(), <p/>",
		"a.mixin":           "a(), <p/>",
		"notes.txt":         "not a mixin",
		"subdir/c.mx":       "c(), <p/>",
		"subdir/d.mixin.go": "package subdir",
		".git/e.mixin":      "e(), <p/>",
		"vendor/f.mixin":    "f(), <p/>",
		"node_modules/g.mx": "g(), <p/>",
		"deep/er/h.mixin":   "h(), <p/>",
	}
	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}

	scannedFiles, err := New(tempDir, ".mixin", ".mx").Scan()
	require.NoError(t, err)

	var paths []string
	for _, file := range scannedFiles {
		rel, err := filepath.Rel(tempDir, file.Path)
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
		assert.Greater(t, file.Size, int64(0), "File size should be greater than 0")
	}
	assert.Equal(t, []string{"a.mixin", "b.mixin", "deep/er/h.mixin", "subdir/c.mx"}, paths)
}

func TestScanRootMayBeHidden(t *testing.T) {
	t.Parallel()
	root := filepath.Join(t.TempDir(), ".mixins")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.mixin"), []byte("a(), <p/>"), 0o644))

	scannedFiles, err := New(root, ".mixin").Scan()
	require.NoError(t, err)
	assert.Len(t, scannedFiles, 1)
}

func TestIsTargetFile(t *testing.T) {
	t.Parallel()
	s := New(".", ".mixin")
	assert.True(t, s.IsTargetFile("views/a.mixin"))
	assert.False(t, s.IsTargetFile("views/a.mixin.go"))
	assert.False(t, s.IsTargetFile("mixin"))

	assert.True(t, New(".").IsTargetFile("anything.txt"))
}

func TestScanMissingRoot(t *testing.T) {
	t.Parallel()
	_, err := New(filepath.Join(t.TempDir(), "missing")).Scan()
	assert.Error(t, err)
}
