// Package report holds the aggregated scan output: a map of relative path
// to analysis result, loaded at scan start so unchanged files keep their
// entries, and rewritten whole at scan end.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mkarlsen/codescan/internal/analyze"
)

// Report is a mutex-guarded map of relative path to analysis result.
// Workers publish results concurrently; everything else runs single-threaded
// around them. JSON serialization sorts map keys, so two scans over the same
// tree produce byte-identical files.
type Report struct {
	mu    sync.Mutex
	files map[string]*analyze.Result
}

// New returns an empty report.
func New() *Report {
	return &Report{files: make(map[string]*analyze.Result)}
}

// Load reads a report file written by SaveTo. Missing or corrupt files yield
// an empty report; the affected entries will be regenerated by analysis.
func Load(path string) *Report {
	r := New()
	data, err := os.ReadFile(path)
	if err != nil {
		return r
	}
	var files map[string]*analyze.Result
	if err := json.Unmarshal(data, &files); err != nil {
		return New()
	}
	if files != nil {
		r.files = files
	}
	return r
}

// Set publishes the result for rel, replacing any previous entry.
func (r *Report) Set(rel string, res *analyze.Result) {
	r.mu.Lock()
	r.files[rel] = res
	r.mu.Unlock()
}

// Get returns the entry for rel.
func (r *Report) Get(rel string) (*analyze.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.files[rel]
	return res, ok
}

// Delete drops the entry for rel.
func (r *Report) Delete(rel string) {
	r.mu.Lock()
	delete(r.files, rel)
	r.mu.Unlock()
}

// Rename moves the entry for from to to, if present. Used when move
// detection relocates a file whose content did not change.
func (r *Report) Rename(from, to string) {
	r.mu.Lock()
	if res, ok := r.files[from]; ok {
		delete(r.files, from)
		r.files[to] = res
	}
	r.mu.Unlock()
}

// Len returns the number of entries.
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

// Each calls fn for every entry. The lock is held for the duration; fn may
// mutate the results in place (the categorizer does) but must not call back
// into the report.
func (r *Report) Each(fn func(rel string, res *analyze.Result)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for rel, res := range r.files {
		fn(rel, res)
	}
}

// SaveTo writes the report as an indented JSON object to path. The write is
// atomic: a temp file in the same directory is renamed over the target.
func (r *Report) SaveTo(path string) error {
	r.mu.Lock()
	data, err := json.MarshalIndent(r.files, "", "  ")
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}
