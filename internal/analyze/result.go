// Package analyze extracts per-file structural facts (functions, classes,
// route declarations, a crude complexity score) using tree-sitter grammars.
// Each supported language is a strategy implementing [Analyzer]; languages
// whose grammar is unavailable degrade to a no-op variant selected once at
// registry construction.
package analyze

// Result is the normalized structural summary for one file. It is created
// once per file per scan and never mutated after the analyzer returns it;
// the report owns it from then on.
type Result struct {
	Language   string                `json:"language"`
	Functions  []string              `json:"functions"`
	Classes    map[string]*ClassInfo `json:"classes"`
	Routes     []Route               `json:"routes"`
	Complexity int                   `json:"complexity"`
}

// ClassInfo summarizes one class (or struct) declaration. BaseClasses holds
// dotted base names; a nil element marks a base expression the analyzer
// could not resolve to a name. Maturity and AgentType are empty until the
// downstream categorizer fills them in.
type ClassInfo struct {
	Methods     []string  `json:"methods"`
	Docstring   string    `json:"docstring,omitempty"`
	BaseClasses []*string `json:"baseClasses"`
	Maturity    string    `json:"maturity,omitempty"`
	AgentType   string    `json:"agentType,omitempty"`
}

// Route is one sniffed endpoint declaration.
type Route struct {
	Function string `json:"function"`
	Method   string `json:"method"`
	Path     string `json:"path"`
}

// newResult returns a Result with empty (non-nil) collections so zero-fact
// files serialize as [] and {} rather than null.
func newResult(language string) *Result {
	return &Result{
		Language:  language,
		Functions: []string{},
		Classes:   map[string]*ClassInfo{},
		Routes:    []Route{},
	}
}

// newClassInfo returns a ClassInfo with empty (non-nil) collections.
func newClassInfo() *ClassInfo {
	return &ClassInfo{
		Methods:     []string{},
		BaseClasses: []*string{},
	}
}

// class returns the ClassInfo for name, creating it on first use. Rust impl
// blocks and forward references may attribute methods before the type
// declaration itself is seen.
func (r *Result) class(name string) *ClassInfo {
	ci, ok := r.Classes[name]
	if !ok {
		ci = newClassInfo()
		r.Classes[name] = ci
	}
	return ci
}
