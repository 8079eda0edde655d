package analyze

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Canonical language names.
const (
	LangPython     = "python"
	LangRust       = "rust"
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
)

// extToLanguage maps file extensions to canonical language names.
var extToLanguage = map[string]string{
	".py":  LangPython,
	".pyw": LangPython,
	".rs":  LangRust,
	".js":  LangJavaScript,
	".jsx": LangJavaScript,
	".mjs": LangJavaScript,
	".ts":  LangTypeScript,
	".tsx": LangTypeScript,
}

// langToGrammar maps language names to tree-sitter Language objects.
// Lazily initialized on first call via sync.Once.
var (
	langToGrammar map[string]*sitter.Language
	grammarsOnce  sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		langToGrammar = map[string]*sitter.Language{
			LangPython:     python.GetLanguage(),
			LangRust:       rust.GetLanguage(),
			LangJavaScript: javascript.GetLanguage(),
			LangTypeScript: ts.GetLanguage(),
		}
	})
}

// GrammarFor returns the tree-sitter grammar for a canonical language name.
// Returns (nil, false) when no grammar is available; callers degrade to the
// no-op analyzer rather than failing.
func GrammarFor(lang string) (*sitter.Language, bool) {
	initGrammars()
	g, ok := langToGrammar[lang]
	return g, ok && g != nil
}

// parse runs a fresh parser over src. Parsers are not goroutine-safe, so one
// is created per call; each scan worker therefore parses independently.
func parse(grammar *sitter.Language, src []byte) *sitter.Tree {
	p := sitter.NewParser()
	p.SetLanguage(grammar)
	return p.Parse(nil, src)
}
