package analyze

import "strings"

// UnknownPath is the route path used when a declaration carries no string
// literal path argument.
const UnknownPath = "/unknown"

// DefaultRouteVerbs is the decorator / call-expression vocabulary treated as
// endpoint declarations. Matching is case-insensitive.
var DefaultRouteVerbs = []string{"route", "get", "post", "put", "delete", "patch"}

// RouteSniffer decides which decorator and call-expression names look like
// endpoint declarations. It is shared by all language analyzers so a new
// framework vocabulary can be added without touching any AST traversal.
type RouteSniffer struct {
	verbs map[string]bool
}

// NewRouteSniffer builds a sniffer over the given verb vocabulary. With no
// verbs it falls back to DefaultRouteVerbs.
func NewRouteSniffer(verbs ...string) *RouteSniffer {
	if len(verbs) == 0 {
		verbs = DefaultRouteVerbs
	}
	m := make(map[string]bool, len(verbs))
	for _, v := range verbs {
		m[strings.ToLower(v)] = true
	}
	return &RouteSniffer{verbs: m}
}

// Match reports whether name is a route verb and returns its canonical
// (uppercased) HTTP method form.
func (s *RouteSniffer) Match(name string) (method string, ok bool) {
	lower := strings.ToLower(name)
	if !s.verbs[lower] {
		return "", false
	}
	return strings.ToUpper(lower), true
}
