package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Missing(t *testing.T) {
	c, reset := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NotNil(t, c)
	assert.False(t, reset)
	assert.Equal(t, 0, c.Len())
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	c, reset := Load(path)
	assert.True(t, reset, "corrupt cache resets to empty")
	assert.Equal(t, 0, c.Len())
}

func TestSaveTo_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "cache.json")

	c := New()
	c.Update("a.py", "aaaa")
	c.Update("b/c.py", "bbbb")
	require.NoError(t, c.SaveTo(path))

	loaded, reset := Load(path)
	assert.False(t, reset)
	d, ok := loaded.Get("a.py")
	require.True(t, ok)
	assert.Equal(t, "aaaa", d)
	d, ok = loaded.Get("b/c.py")
	require.True(t, ok)
	assert.Equal(t, "bbbb", d)
}

func TestClassify(t *testing.T) {
	c := New()
	c.Update("same.py", "h1")
	c.Update("diff.py", "h2")
	c.Update("bad.py", "")

	assert.Equal(t, Unseen, c.Classify("new.py", "h9"))
	assert.Equal(t, Unchanged, c.Classify("same.py", "h1"))
	assert.Equal(t, Changed, c.Classify("diff.py", "h3"))
	// An unknown digest on either side always classifies as changed.
	assert.Equal(t, Changed, c.Classify("bad.py", ""))
	assert.Equal(t, Changed, c.Classify("same.py", ""))
}

func TestDetectMoves_Rename(t *testing.T) {
	c := New()
	c.Update("a.py", "H")

	moves, removed := c.DetectMoves(map[string]string{"b.py": "H"})
	require.Len(t, moves, 1)
	assert.Equal(t, Move{From: "a.py", To: "b.py"}, moves[0])
	assert.Empty(t, removed)

	_, ok := c.Get("a.py")
	assert.False(t, ok)
	d, ok := c.Get("b.py")
	require.True(t, ok)
	assert.Equal(t, "H", d)
}

func TestDetectMoves_Removal(t *testing.T) {
	c := New()
	c.Update("gone.py", "H")

	moves, removed := c.DetectMoves(map[string]string{"other.py": "X"})
	assert.Empty(t, moves)
	assert.Equal(t, []string{"gone.py"}, removed)
	assert.Equal(t, 0, c.Len())
}

func TestDetectMoves_TieBreakLexicographic(t *testing.T) {
	c := New()
	c.Update("old.py", "H")

	// Two current files share the digest; the lexicographically first
	// unclaimed path wins.
	moves, removed := c.DetectMoves(map[string]string{
		"z_copy.py": "H",
		"a_copy.py": "H",
	})
	require.Len(t, moves, 1)
	assert.Equal(t, "a_copy.py", moves[0].To)
	assert.Empty(t, removed)
}

func TestDetectMoves_EachTargetClaimedOnce(t *testing.T) {
	c := New()
	c.Update("one.py", "H")
	c.Update("two.py", "H")

	moves, removed := c.DetectMoves(map[string]string{
		"a.py": "H",
		"b.py": "H",
	})
	require.Len(t, moves, 2)
	// Missing entries process in lexicographic order and each claims the
	// first unclaimed target.
	assert.Equal(t, Move{From: "one.py", To: "a.py"}, moves[0])
	assert.Equal(t, Move{From: "two.py", To: "b.py"}, moves[1])
	assert.Empty(t, removed)
}

func TestDetectMoves_TrackedTargetNotClaimed(t *testing.T) {
	c := New()
	c.Update("old.py", "H")
	c.Update("existing.py", "H")

	// existing.py is still present and already tracked; it must not be
	// claimed as old.py's new location.
	moves, removed := c.DetectMoves(map[string]string{"existing.py": "H"})
	assert.Empty(t, moves)
	assert.Equal(t, []string{"old.py"}, removed)
	_, ok := c.Get("existing.py")
	assert.True(t, ok)
}

func TestDetectMoves_UnknownDigestNeverMatches(t *testing.T) {
	c := New()
	c.Update("old.py", "")

	moves, removed := c.DetectMoves(map[string]string{"new.py": ""})
	assert.Empty(t, moves)
	assert.Equal(t, []string{"old.py"}, removed)
}
