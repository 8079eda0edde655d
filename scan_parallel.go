package codescan

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/mkarlsen/codescan/internal/analyze"
	"github.com/mkarlsen/codescan/internal/cache"
	"github.com/mkarlsen/codescan/internal/report"
)

// scanTask is one file handed to a worker: its root-relative path and the
// digest computed during the serial prepare phase.
type scanTask struct {
	rel    string
	digest string
}

// outcome is one worker's verdict on a task. A nil res with a nil err means
// the file was unchanged and emitted nothing.
type outcome struct {
	rel string
	res *analyze.Result
	err error
}

// runWorkers drains the changed files through a fixed worker pool. Each
// worker consults the cache (unchanged files emit no result), runs the
// matching analyzer, and updates the cache entry on success; the collector
// merges results into the report after the pool drains. Closing the task
// channel is the per-worker shutdown signal.
func (s *Scanner) runWorkers(ctx context.Context, files []string, current map[string]string, c *cache.Cache, rep *report.Report, stats *Stats) error {
	var pending []scanTask
	for _, rel := range files {
		d := current[rel]
		if c.Classify(rel, d) == cache.Unchanged {
			// An unchanged file is only skippable while its report entry
			// survives; a lost or corrupt report self-heals here.
			if _, ok := rep.Get(rel); ok {
				stats.Unchanged++
				continue
			}
		}
		pending = append(pending, scanTask{rel: rel, digest: d})
	}
	if len(pending) == 0 {
		return ctx.Err()
	}

	numWorkers := min(s.workers, len(pending))
	if numWorkers < 1 {
		numWorkers = 1
	}

	workCh := make(chan scanTask, len(pending))
	for _, t := range pending {
		workCh <- t
	}
	close(workCh)

	resultCh := make(chan outcome, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range workCh {
				if ctx.Err() != nil {
					resultCh <- outcome{rel: t.rel, err: ctx.Err()}
					continue
				}
				res, err := s.analyzeOne(t)
				if err == nil {
					// Overwrite only after a successful analysis, under
					// the cache's own lock.
					c.Update(t.rel, t.digest)
				}
				resultCh <- outcome{rel: t.rel, res: res, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for out := range resultCh {
		if out.err != nil {
			stats.Failed++
			s.logf("analyze %s: %v", out.rel, out.err)
			continue
		}
		rep.Set(out.rel, out.res)
		stats.Analyzed++
	}
	return ctx.Err()
}

// analyzeOne reads the file and dispatches to its language analyzer. Errors
// are per-file; the task is never retried.
func (s *Scanner) analyzeOne(t scanTask) (*analyze.Result, error) {
	src, err := os.ReadFile(filepath.Join(s.root, t.rel))
	if err != nil {
		return nil, err
	}
	return s.registry.For(t.rel).Analyze(t.rel, src)
}
