package codescan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultIgnoreNames is the fixed set of directory names never scanned,
// matched by path-component membership anywhere under the root: dependency
// and package directories, VCS metadata, build output, caches, and
// virtualenvs.
var defaultIgnoreNames = map[string]bool{
	".git":             true,
	".hg":              true,
	".svn":             true,
	".idea":            true,
	".vscode":          true,
	".cache":           true,
	".codescan":        true,
	".tox":             true,
	".venv":            true,
	"venv":             true,
	"env":              true,
	"node_modules":     true,
	"vendor":           true,
	"__pycache__":      true,
	".pytest_cache":    true,
	".mypy_cache":      true,
	"site-packages":    true,
	"dist":             true,
	"build":            true,
	"target":           true,
	"out":              true,
	".eggs":            true,
	".ruff_cache":      true,
	".terraform":       true,
	"bower_components": true,
}

// Policy is the pure exclusion predicate: it decides whether a path is
// scanned and has no side effects.
type Policy struct {
	root      string
	extraDirs []string // absolute, cleaned
	globs     []string // doublestar, against root-relative slash paths
	artifacts map[string]bool
	selfPath  string // running binary, best-effort
}

// NewPolicy resolves configured ignore directories (relative ones anchored
// at root), validates glob patterns, and records the scanner's own artifact
// paths and binary for self-exclusion. Self-exclusion is best-effort: in
// restricted execution contexts os.Executable fails and the check is simply
// absent.
func NewPolicy(root string, ignoreDirs, globs []string, artifacts ...string) (*Policy, error) {
	p := &Policy{
		root:      root,
		artifacts: make(map[string]bool, len(artifacts)),
	}
	for _, dir := range ignoreDirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		p.extraDirs = append(p.extraDirs, filepath.Clean(dir))
	}
	for _, g := range globs {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid exclude pattern %q", g)
		}
		p.globs = append(p.globs, g)
	}
	for _, a := range artifacts {
		p.artifacts[filepath.Clean(a)] = true
	}
	if exe, err := os.Executable(); err == nil {
		p.selfPath = filepath.Clean(exe)
	}
	return p, nil
}

// Excluded reports whether the absolute path should be skipped.
func (p *Policy) Excluded(path string, isDir bool) bool {
	path = filepath.Clean(path)

	rel, err := filepath.Rel(p.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return true // outside the root entirely
	}
	relSlash := filepath.ToSlash(rel)

	for _, part := range strings.Split(relSlash, "/") {
		if defaultIgnoreNames[strings.ToLower(part)] {
			return true
		}
	}
	for _, dir := range p.extraDirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	for _, g := range p.globs {
		if ok, _ := doublestar.Match(g, relSlash); ok {
			return true
		}
	}
	if !isDir {
		if p.artifacts[path] {
			return true
		}
		if p.selfPath != "" && path == p.selfPath {
			return true
		}
	}
	return false
}

// discover walks the project tree and returns the sorted root-relative
// (slash-separated) paths of every candidate file. Unreadable subtrees are
// logged and skipped; only a walk failure at the root itself is fatal.
func (s *Scanner) discover() ([]string, error) {
	var rels []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if filepath.Clean(path) == s.root {
				return err
			}
			s.logf("walk %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if path != s.root && s.policy.Excluded(path, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if s.policy.Excluded(path, false) {
			return nil
		}
		rel, rerr := filepath.Rel(s.root, path)
		if rerr != nil {
			return nil
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(rels)
	return rels, nil
}
