package digest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_MatchesBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.py")
	content := []byte("def f():\n    pass\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	assert.Equal(t, Bytes(content), File(path))
}

func TestFile_Deterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.py")
	require.NoError(t, os.WriteFile(path, []byte("same content"), 0o644))

	assert.Equal(t, File(path), File(path))
}

func TestFile_ContentSensitive(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, []byte("one"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("two"), 0o644))

	assert.NotEqual(t, File(a), File(b))
}

func TestFile_MissingReturnsUnknown(t *testing.T) {
	assert.Equal(t, Unknown, File(filepath.Join(t.TempDir(), "nope")))
}
