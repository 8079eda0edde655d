package analyze

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Analyzer extracts a structural summary from one source file. Analyze must
// be safe for concurrent use; scan workers share analyzer instances.
type Analyzer interface {
	// Language returns the canonical language tag stamped on results.
	Language() string
	// Analyze parses src and returns the structural summary. Errors are
	// per-file: the caller logs them and continues the scan.
	Analyze(path string, src []byte) (*Result, error)
}

// noop is the degraded variant selected when a language's grammar is
// unavailable. It satisfies the same contract with constant empty results,
// so call sites never branch on grammar availability.
type noop struct {
	language string
}

func (n noop) Language() string { return n.language }

func (n noop) Analyze(string, []byte) (*Result, error) {
	return newResult(n.language), nil
}

// unsupported handles every extension outside the variant set. Its result is
// zero-valued and tagged with the extension; this is a legitimate outcome,
// not an error.
type unsupported struct{}

func (unsupported) Language() string { return "unsupported" }

func (unsupported) Analyze(path string, _ []byte) (*Result, error) {
	tag := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if tag == "" {
		tag = "unknown"
	}
	return newResult(tag), nil
}

// Registry dispatches file paths to analyzers by extension. It is built once
// per scan; grammar availability is checked here, never at analysis time.
type Registry struct {
	byExt    map[string]Analyzer
	fallback Analyzer
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	disabled map[string]bool
	verbs    []string
}

// WithoutGrammar forces the named languages onto the degraded no-op variant
// even when their grammar is compiled in. Used to exercise the degradation
// path in tests and to disable a misbehaving grammar in the field.
func WithoutGrammar(langs ...string) RegistryOption {
	return func(cfg *registryConfig) {
		for _, l := range langs {
			cfg.disabled[l] = true
		}
	}
}

// WithRouteVerbs overrides the route-sniffing vocabulary for all analyzers.
func WithRouteVerbs(verbs ...string) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.verbs = verbs
	}
}

// NewRegistry builds the extension dispatch table. Each language resolves to
// its grammar-backed analyzer, or to the no-op variant when the grammar is
// missing or disabled.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := &registryConfig{disabled: make(map[string]bool)}
	for _, opt := range opts {
		opt(cfg)
	}
	sniffer := NewRouteSniffer(cfg.verbs...)

	build := func(lang string, mk func(*sitter.Language) Analyzer) Analyzer {
		grammar, ok := GrammarFor(lang)
		if !ok || cfg.disabled[lang] {
			return noop{language: lang}
		}
		return mk(grammar)
	}

	analyzers := map[string]Analyzer{
		LangPython: build(LangPython, func(g *sitter.Language) Analyzer {
			return &pythonAnalyzer{grammar: g, sniffer: sniffer}
		}),
		LangRust: build(LangRust, func(g *sitter.Language) Analyzer {
			return &rustAnalyzer{grammar: g}
		}),
		LangJavaScript: build(LangJavaScript, func(g *sitter.Language) Analyzer {
			return &javascriptAnalyzer{language: LangJavaScript, grammar: g, sniffer: sniffer}
		}),
		LangTypeScript: build(LangTypeScript, func(g *sitter.Language) Analyzer {
			return &javascriptAnalyzer{language: LangTypeScript, grammar: g, sniffer: sniffer}
		}),
	}

	byExt := make(map[string]Analyzer, len(extToLanguage))
	for ext, lang := range extToLanguage {
		byExt[ext] = analyzers[lang]
	}
	return &Registry{byExt: byExt, fallback: unsupported{}}
}

// For returns the analyzer responsible for path. Unrecognized extensions get
// the unsupported variant; For never returns nil.
func (r *Registry) For(path string) Analyzer {
	ext := strings.ToLower(filepath.Ext(path))
	if a, ok := r.byExt[ext]; ok {
		return a
	}
	return r.fallback
}
