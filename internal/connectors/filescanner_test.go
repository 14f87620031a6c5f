package connectors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDiscoverFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.csv"), "x\n")
	writeFile(t, filepath.Join(root, "b.CSV"), "x\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "x\n")
	writeFile(t, filepath.Join(root, "nested", "c.csv"), "x\n")

	files, err := DiscoverFiles(root, ".csv", DiscoveryOptions{})
	require.NoError(t, err)
	assert.Len(t, files, 2)

	files, err = DiscoverFiles(root, "csv", DiscoveryOptions{Recursive: true})
	require.NoError(t, err)
	assert.Len(t, files, 3)

	files, err = DiscoverFiles(root, "csv", DiscoveryOptions{Recursive: true, MinSize: 100})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverFilesErrors(t *testing.T) {
	_, err := DiscoverFiles("", "csv", DiscoveryOptions{})
	assert.Error(t, err)

	_, err = DiscoverFiles(filepath.Join(t.TempDir(), "missing"), "csv", DiscoveryOptions{})
	assert.Error(t, err)

	_, err = DiscoverFiles(t.TempDir(), "", DiscoveryOptions{})
	assert.Error(t, err)
}

func TestLocateSources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "exports", "AppleStore.csv"), "x\n")
	writeFile(t, filepath.Join(root, "googleplaystore.csv"), "x\n")

	found, err := LocateSources(root, "AppleStore.csv", "googleplaystore.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "exports", "AppleStore.csv"), found["AppleStore.csv"])
	assert.Equal(t, filepath.Join(root, "googleplaystore.csv"), found["googleplaystore.csv"])

	_, err = LocateSources(root, "missing.csv")
	assert.Error(t, err)
}
