package codescan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mkarlsen/codescan/internal/analyze"
	"github.com/mkarlsen/codescan/internal/cache"
	"github.com/mkarlsen/codescan/internal/digest"
	"github.com/mkarlsen/codescan/internal/report"
)

// Scanner orchestrates one project's scans: discovery, change detection,
// parallel analysis, and persistence of the report and digest cache. It is
// constructed once per project root; Scan may be called repeatedly and each
// run reconciles against the state the previous run persisted.
type Scanner struct {
	root       string
	cachePath  string
	reportPath string
	workers    int
	ignoreDirs []string
	globs      []string
	registry   *analyze.Registry
	policy     *Policy
	logf       func(format string, args ...any)

	lastReport *report.Report
}

// Stats summarizes one scan run. Analyzed counts analyzer invocations that
// produced a result; a second run over an unmodified tree reports zero.
type Stats struct {
	Discovered int
	Analyzed   int
	Unchanged  int
	Moved      int
	Removed    int
	Failed     int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers sets the worker pool size. Values below one fall back to the
// logical CPU count.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithIgnoreDirs adds directories to exclude from discovery. Relative paths
// are anchored at the project root.
func WithIgnoreDirs(dirs ...string) Option {
	return func(s *Scanner) {
		s.ignoreDirs = append(s.ignoreDirs, dirs...)
	}
}

// WithExcludeGlobs adds doublestar patterns, matched against root-relative
// slash paths, to exclude from discovery.
func WithExcludeGlobs(globs ...string) Option {
	return func(s *Scanner) {
		s.globs = append(s.globs, globs...)
	}
}

// WithCachePath overrides the digest cache location
// (default <root>/.codescan/hashcache.json).
func WithCachePath(path string) Option {
	return func(s *Scanner) { s.cachePath = path }
}

// WithReportPath overrides the report location
// (default <root>/codescan-report.json).
func WithReportPath(path string) Option {
	return func(s *Scanner) { s.reportPath = path }
}

// WithRegistry substitutes the analyzer registry. Used to restrict
// languages, change the route vocabulary, or exercise grammar degradation.
func WithRegistry(r *analyze.Registry) Option {
	return func(s *Scanner) { s.registry = r }
}

// WithLogf sets the sink for per-file warnings (failed analyses, unreadable
// paths, cache resets). The default discards them.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(s *Scanner) {
		if logf != nil {
			s.logf = logf
		}
	}
}

// New creates a Scanner for the project at root. A missing or non-directory
// root is the one construction-time failure; everything else degrades at
// scan time instead.
func New(root string, opts ...Option) (*Scanner, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("project root not found: %s", abs)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root is not a directory: %s", abs)
	}

	s := &Scanner{
		root:    abs,
		workers: runtime.NumCPU(),
		logf:    func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cachePath == "" {
		s.cachePath = filepath.Join(abs, ".codescan", "hashcache.json")
	}
	if s.reportPath == "" {
		s.reportPath = filepath.Join(abs, "codescan-report.json")
	}
	if s.registry == nil {
		s.registry = analyze.NewRegistry()
	}

	// The scanner's own artifacts live inside the tree; excluding them keeps
	// back-to-back runs idempotent.
	s.policy, err = NewPolicy(abs, s.ignoreDirs, s.globs, s.cachePath, s.reportPath)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Root returns the absolute project root.
func (s *Scanner) Root() string { return s.root }

// CachePath returns where the digest cache is persisted.
func (s *Scanner) CachePath() string { return s.cachePath }

// ReportPath returns where the aggregated report is persisted.
func (s *Scanner) ReportPath() string { return s.reportPath }

// Report returns the aggregated report from the most recent Scan, or nil
// before the first run.
func (s *Scanner) Report() *report.Report { return s.lastReport }

// Scan runs one full pass: discover, digest, reconcile the cache, analyze
// changed files in parallel, and persist the report and cache. Per-file
// failures are logged and counted in Stats.Failed; Scan itself fails only on
// catastrophic conditions (unreadable root, unwritable state files, context
// cancellation).
func (s *Scanner) Scan(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	c, reset := cache.Load(s.cachePath)
	if reset {
		s.logf("cache unreadable, forcing full rescan: %s", s.cachePath)
	}
	rep := report.Load(s.reportPath)

	files, err := s.discover()
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	stats.Discovered = len(files)

	// Every candidate is digested exactly once, serially; workers reuse the
	// digest for the cache check and move detection reuses the whole index.
	current := make(map[string]string, len(files))
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := digest.File(filepath.Join(s.root, rel))
		if d == digest.Unknown {
			s.logf("hash %s: unreadable, treating as changed", rel)
		}
		current[rel] = d
	}

	// Move detection mutates the cache keyspace and must finish before any
	// worker starts.
	moves, removed := c.DetectMoves(current)
	for _, m := range moves {
		rep.Rename(m.From, m.To)
	}
	for _, rel := range removed {
		rep.Delete(rel)
	}
	stats.Moved = len(moves)
	stats.Removed = len(removed)

	if err := s.runWorkers(ctx, files, current, c, rep, stats); err != nil {
		return nil, err
	}

	if err := c.SaveTo(s.cachePath); err != nil {
		return nil, fmt.Errorf("persist cache: %w", err)
	}
	if err := rep.SaveTo(s.reportPath); err != nil {
		return nil, fmt.Errorf("persist report: %w", err)
	}
	s.lastReport = rep
	return stats, nil
}
