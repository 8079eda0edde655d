package codescan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPolicy(t *testing.T, root string, ignoreDirs, globs []string, artifacts ...string) *Policy {
	t.Helper()
	p, err := NewPolicy(root, ignoreDirs, globs, artifacts...)
	require.NoError(t, err)
	return p
}

func TestPolicy_DefaultNamesMatchByComponent(t *testing.T) {
	root := t.TempDir()
	p := newTestPolicy(t, root, nil, nil)

	assert.True(t, p.Excluded(filepath.Join(root, "node_modules"), true))
	assert.True(t, p.Excluded(filepath.Join(root, "a", "node_modules", "x.js"), false))
	assert.True(t, p.Excluded(filepath.Join(root, "pkg", "__pycache__", "m.pyc"), false))
	assert.True(t, p.Excluded(filepath.Join(root, ".git", "HEAD"), false))
	assert.False(t, p.Excluded(filepath.Join(root, "src", "main.py"), false))
	// Name-set matching, not substring: a directory merely containing the
	// name as a prefix is fine.
	assert.False(t, p.Excluded(filepath.Join(root, "vendored_docs", "a.py"), false))
}

func TestPolicy_ExtraDirContainment(t *testing.T) {
	root := t.TempDir()
	p := newTestPolicy(t, root, []string{"generated", filepath.Join(root, "third_party")}, nil)

	assert.True(t, p.Excluded(filepath.Join(root, "generated", "a.py"), false))
	assert.True(t, p.Excluded(filepath.Join(root, "third_party", "dep", "b.py"), false))
	assert.False(t, p.Excluded(filepath.Join(root, "generated_v2", "c.py"), false))
}

func TestPolicy_Globs(t *testing.T) {
	root := t.TempDir()
	p := newTestPolicy(t, root, nil, []string{"**/*.min.js", "docs/**"})

	assert.True(t, p.Excluded(filepath.Join(root, "static", "app.min.js"), false))
	assert.True(t, p.Excluded(filepath.Join(root, "docs", "guide", "x.md"), false))
	assert.False(t, p.Excluded(filepath.Join(root, "static", "app.js"), false))
}

func TestPolicy_InvalidGlob(t *testing.T) {
	_, err := NewPolicy(t.TempDir(), nil, []string{"[unclosed"})
	require.Error(t, err)
}

func TestPolicy_Artifacts(t *testing.T) {
	root := t.TempDir()
	rep := filepath.Join(root, "codescan-report.json")
	p := newTestPolicy(t, root, nil, nil, rep)

	assert.True(t, p.Excluded(rep, false))
	assert.False(t, p.Excluded(filepath.Join(root, "other.json"), false))
}

func TestPolicy_OutsideRoot(t *testing.T) {
	root := t.TempDir()
	p := newTestPolicy(t, root, nil, nil)
	assert.True(t, p.Excluded(filepath.Join(t.TempDir(), "elsewhere.py"), false))
}
