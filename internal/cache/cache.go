// Package cache persists the per-file content digests from the previous
// scan and classifies the current file set against them: unchanged files
// are skipped, renamed files are detected by digest matching, and entries
// for deleted files are dropped.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mkarlsen/codescan/internal/digest"
)

// State classifies a relative path against the previous scan.
type State int

const (
	// Unseen means the path has no cache entry.
	Unseen State = iota
	// Unchanged means the stored digest matches the current one.
	Unchanged
	// Changed means the stored digest differs, or either digest is the
	// unknown sentinel.
	Changed
)

// Move records one cache entry renamed during move detection.
type Move struct {
	From string
	To   string
}

// Cache is a mutex-guarded map of relative path to content digest. Workers
// read and update it concurrently; the keyspace itself is only mutated by
// DetectMoves, which runs before any worker starts.
type Cache struct {
	mu      sync.Mutex
	entries map[string]string
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Load reads a cache file written by SaveTo. A missing file yields an empty
// cache. A corrupt or unreadable file also yields an empty cache (forcing a
// full rescan) and reports reset=true so the caller can log it.
func Load(path string) (c *Cache, reset bool) {
	c = New()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, false
		}
		return c, true
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return New(), true
	}
	if entries != nil {
		c.entries = entries
	}
	return c, false
}

// SaveTo writes the cache as a JSON object to path, creating parent
// directories as needed. The write is atomic: a temp file in the same
// directory is renamed over the target.
func (c *Cache) SaveTo(path string) error {
	c.mu.Lock()
	data, err := json.MarshalIndent(c.entries, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("create temp cache: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cache: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename cache: %w", err)
	}
	return nil
}

// Classify reports how rel with the given current digest compares to the
// previous scan. An unknown digest on either side always classifies as
// Changed.
func (c *Cache) Classify(rel, current string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	old, ok := c.entries[rel]
	if !ok {
		return Unseen
	}
	if old == digest.Unknown || current == digest.Unknown {
		return Changed
	}
	if old == current {
		return Unchanged
	}
	return Changed
}

// Update stores the digest for rel. Called by workers after a successful
// analysis, under the cache's own lock.
func (c *Cache) Update(rel, d string) {
	c.mu.Lock()
	c.entries[rel] = d
	c.mu.Unlock()
}

// Get returns the stored digest for rel.
func (c *Cache) Get(rel string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[rel]
	return d, ok
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// DetectMoves reconciles cache entries whose paths are absent from the
// current file set. current maps relative path to digest for every
// discovered file.
//
// For each missing entry, a current file with the same digest that has no
// cache entry of its own is taken as the new location: the entry is renamed
// and the file needs no re-analysis, since its content did not change.
// Entries with no match are removed (the file was deleted).
//
// The digest index over current files is built once, so the whole pass is
// O(missing + current). Tie-break when several current files share a digest:
// missing entries are processed in lexicographic order and each claims the
// lexicographically first unclaimed matching path. This is a documented
// policy, not an artifact of map iteration.
//
// DetectMoves mutates the cache keyspace and must run single-threaded,
// before any worker starts.
func (c *Cache) DetectMoves(current map[string]string) (moves []Move, removed []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var missing []string
	for rel := range c.entries {
		if _, ok := current[rel]; !ok {
			missing = append(missing, rel)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}
	sort.Strings(missing)

	// Candidate rename targets: current files not already tracked under
	// their own path, indexed by digest, matched lexicographically first.
	byDigest := make(map[string][]string)
	for rel, d := range current {
		if d == digest.Unknown {
			continue
		}
		if _, tracked := c.entries[rel]; tracked {
			continue
		}
		byDigest[d] = append(byDigest[d], rel)
	}
	for _, paths := range byDigest {
		sort.Strings(paths)
	}

	claimed := make(map[string]bool)
	for _, old := range missing {
		d := c.entries[old]
		target := ""
		if d != digest.Unknown {
			for _, candidate := range byDigest[d] {
				if !claimed[candidate] {
					target = candidate
					break
				}
			}
		}
		delete(c.entries, old)
		if target == "" {
			removed = append(removed, old)
			continue
		}
		claimed[target] = true
		c.entries[target] = d
		moves = append(moves, Move{From: old, To: target})
	}
	return moves, removed
}
