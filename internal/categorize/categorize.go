// Package categorize annotates scanned classes after a scan completes. For
// every class entry it reads the methods, docstring, and base classes and
// writes back a maturity tier and an agent-type tag. It runs on the in-memory
// report only; the scanner has no further obligation once it returns.
package categorize

import (
	"strings"

	"github.com/mkarlsen/codescan/internal/analyze"
	"github.com/mkarlsen/codescan/internal/report"
)

// Maturity tiers, ordered.
const (
	MaturityPrototype  = "prototype"
	MaturityDeveloping = "developing"
	MaturityMature     = "mature"
)

// agentTypeKeywords maps a lowercase substring of the class name or a base
// class name to the assigned agent type. First match in order wins.
var agentTypeKeywords = []struct {
	keyword string
	tag     string
}{
	{"scraper", "scraper"},
	{"crawler", "scraper"},
	{"bot", "bot"},
	{"agent", "agent"},
	{"worker", "worker"},
	{"scheduler", "worker"},
	{"manager", "coordinator"},
	{"orchestrator", "coordinator"},
	{"controller", "coordinator"},
	{"handler", "handler"},
	{"client", "client"},
}

// Apply annotates every class entry in the report in place.
func Apply(rep *report.Report) {
	rep.Each(func(_ string, res *analyze.Result) {
		for name, ci := range res.Classes {
			ci.Maturity = maturityOf(ci)
			ci.AgentType = agentTypeOf(name, ci)
		}
	})
}

// maturityOf scores a class by method count and docstring presence: three or
// more methods plus a docstring is mature, a docstring or at least two
// methods is developing, everything else is a prototype.
func maturityOf(ci *analyze.ClassInfo) string {
	documented := strings.TrimSpace(ci.Docstring) != ""
	switch {
	case documented && len(ci.Methods) >= 3:
		return MaturityMature
	case documented || len(ci.Methods) >= 2:
		return MaturityDeveloping
	default:
		return MaturityPrototype
	}
}

// agentTypeOf tags a class by keyword match over its own name and its base
// class names; unmatched classes are tagged "generic".
func agentTypeOf(name string, ci *analyze.ClassInfo) string {
	haystack := strings.ToLower(name)
	for _, base := range ci.BaseClasses {
		if base != nil {
			haystack += " " + strings.ToLower(*base)
		}
	}
	for _, kt := range agentTypeKeywords {
		if strings.Contains(haystack, kt.keyword) {
			return kt.tag
		}
	}
	return "generic"
}
