// Package codescan is a concurrent, cache-aware, multi-language structural
// code scanner built on tree-sitter. It walks a source tree, extracts
// per-file facts (functions, classes, route-like declarations, a crude
// complexity score), skips files whose content digest is unchanged since the
// last run, detects renamed files by digest matching, and aggregates
// everything into one JSON report.
//
// # Pipeline
//
// A scan runs in three phases:
//
//  1. Prepare (serial): discover candidate files under the exclusion policy,
//     digest each one, and reconcile the persisted cache — unchanged entries
//     are kept, renamed files are relocated by digest match without
//     re-analysis, and entries for deleted files are dropped.
//
//  2. Analyze (parallel): a fixed worker pool drains the remaining files.
//     Each worker dispatches to the language analyzer for the file's
//     extension, updates the cache entry on success, and publishes the
//     result. Per-file failures are logged and skipped; one bad file never
//     aborts a run.
//
//  3. Aggregate (serial): results merge into the report, and both the report
//     and the cache are rewritten atomically.
//
// # Usage
//
// Create a Scanner and run it:
//
//	s, err := codescan.New("path/to/project",
//		codescan.WithIgnoreDirs("third_party"),
//		codescan.WithWorkers(8),
//	)
//	if err != nil { ... }
//
//	stats, err := s.Scan(context.Background())
//
// The aggregated report is available via [Scanner.Report] and on disk at
// [Scanner.ReportPath].
//
// # Languages
//
// Python, Rust, JavaScript, and TypeScript are analyzed with tree-sitter
// grammars; every other extension yields a zero-valued result tagged with
// the extension. A language whose grammar is unavailable degrades to a no-op
// analyzer at construction time instead of failing the scan.
package codescan
