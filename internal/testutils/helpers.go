package testutils

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupSequenceDir creates a temporary directory holding one file per name.
// Each file contains its own original name so tests can follow renames.
// It returns the absolute path and fails the test immediately on error.
func SetupSequenceDir(t *testing.T, names ...string) string {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	WriteFiles(t, absPath, names...)
	return absPath
}

// WriteFiles creates dir if needed and writes one file per name into it.
func WriteFiles(t *testing.T, dir string, names ...string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0o755), "Failed to create %s", dir)
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644), "Failed to write %s", name)
	}
}

// ReadNames returns the sorted names of the regular files in dir.
func ReadNames(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err, "Failed to read %s", dir)

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names
}

// Origin returns the name a file was created with by SetupSequenceDir.
func Origin(t *testing.T, dir, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err, "Failed to read %s", name)
	return string(data)
}
