package analyze

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// javascriptAnalyzer serves both JavaScript and TypeScript; the grammars
// share the node vocabulary this walk relies on. It records function
// declarations, arrow-function bindings, class declarations with their
// methods, and obj.verb(path, ...) call expressions as routes.
//
// Complexity for JS/TS counts functions only; class methods do not
// contribute. This asymmetry with the Python analyzer is intentional and
// kept as-is.
type javascriptAnalyzer struct {
	language string
	grammar  *sitter.Language
	sniffer  *RouteSniffer
}

func (a *javascriptAnalyzer) Language() string { return a.language }

func (a *javascriptAnalyzer) Analyze(path string, src []byte) (*Result, error) {
	tree := parse(a.grammar, src)
	if tree == nil {
		return nil, fmt.Errorf("parse %s: tree-sitter returned no tree", path)
	}
	defer tree.Close()

	res := newResult(a.language)
	a.visitChildren(tree.RootNode(), res, src)

	res.Complexity = len(res.Functions)
	return res, nil
}

func (a *javascriptAnalyzer) visit(n *sitter.Node, res *Result, src []byte) {
	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			res.Functions = append(res.Functions, name.Content(src))
		}
		if body := n.ChildByFieldName("body"); body != nil {
			a.visitChildren(body, res, src)
		}

	case "class_declaration":
		a.collectClass(n, res, src)

	case "lexical_declaration", "variable_declaration":
		a.collectBindings(n, res, src)

	case "call_expression":
		a.sniffRoute(n, res, src)
		a.visitChildren(n, res, src)

	default:
		a.visitChildren(n, res, src)
	}
}

func (a *javascriptAnalyzer) visitChildren(n *sitter.Node, res *Result, src []byte) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		a.visit(n.NamedChild(i), res, src)
	}
}

func (a *javascriptAnalyzer) collectClass(n *sitter.Node, res *Result, src []byte) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	ci := res.class(name.Content(src))
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		if member.Type() != "method_definition" {
			continue
		}
		if mname := member.ChildByFieldName("name"); mname != nil {
			ci.Methods = append(ci.Methods, mname.Content(src))
		}
		if mbody := member.ChildByFieldName("body"); mbody != nil {
			a.visitChildren(mbody, res, src)
		}
	}
}

// collectBindings records const/let/var bindings whose initializer is an
// arrow function or function expression, e.g. const handler = () => {...}.
func (a *javascriptAnalyzer) collectBindings(n *sitter.Node, res *Result, src []byte) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		decl := n.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		name := decl.ChildByFieldName("name")
		value := decl.ChildByFieldName("value")
		if name == nil || value == nil {
			continue
		}
		switch value.Type() {
		case "arrow_function", "function", "function_expression", "generator_function":
			if name.Type() == "identifier" {
				res.Functions = append(res.Functions, name.Content(src))
			}
			if body := value.ChildByFieldName("body"); body != nil {
				a.visitChildren(body, res, src)
			}
		default:
			a.visit(value, res, src)
		}
	}
}

// sniffRoute matches call expressions of the shape obj.verb(path, ...)
// where verb is in the route vocabulary. The route's function field carries
// the full callee text (e.g. "app.get"); call-expression routes have no
// declared handler name.
func (a *javascriptAnalyzer) sniffRoute(n *sitter.Node, res *Result, src []byte) {
	callee := n.ChildByFieldName("function")
	if callee == nil || callee.Type() != "member_expression" {
		return
	}
	prop := callee.ChildByFieldName("property")
	if prop == nil {
		return
	}
	method, ok := a.sniffer.Match(prop.Content(src))
	if !ok {
		return
	}

	path := UnknownPath
	if args := n.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
		if lit, ok := jsStringLiteral(args.NamedChild(0), src); ok {
			path = lit
		}
	}
	res.Routes = append(res.Routes, Route{
		Function: callee.Content(src),
		Method:   method,
		Path:     path,
	})
}

// jsStringLiteral unquotes a plain string node. Template strings with no
// substitutions also qualify.
func jsStringLiteral(n *sitter.Node, src []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "string":
		s := n.Content(src)
		if len(s) >= 2 {
			return s[1 : len(s)-1], true
		}
		return "", false
	case "template_string":
		if n.NamedChildCount() > 0 {
			return "", false
		}
		s := n.Content(src)
		if len(s) >= 2 {
			return s[1 : len(s)-1], true
		}
	}
	return "", false
}
