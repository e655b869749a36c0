package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirConcurrent(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = EnsureDir(dir)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// again, already present
	assert.NoError(t, EnsureDir(dir))
}

func TestIsImageFile(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"shoe.PNG":     true,
		"shoe.jpeg":    true,
		"shoe.webp":    true,
		"notes.txt":    false,
		"no-extension": false,
	}
	for name, want := range tests {
		assert.Equal(t, want, IsImageFile(name), name)
	}
}

func TestListImageFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	for _, name := range []string{"a.png", "nested/b.jpg", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	files, err := ListImageFiles(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "nested", "b.jpg"),
	}, files)
}

func TestRandomID(t *testing.T) {
	t.Parallel()

	re := regexp.MustCompile(`^[0-9a-z]{9}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := RandomID(9)
		require.NoError(t, err)
		assert.Regexp(t, re, id)
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestSanitizeTag(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "clean_center", SanitizeTag("clean_center"))
	assert.Equal(t, "a_b_c", SanitizeTag("a/b c"))
	assert.Equal(t, "x", SanitizeTag("..x"))
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "f.png")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir))
}
