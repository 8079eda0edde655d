package analyze

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// pythonAnalyzer walks the tree-sitter Python grammar. It records every
// function definition at any nesting level, attributes direct class-body
// functions to their class as methods, reconstructs dotted base-class names,
// captures class docstrings, and sniffs HTTP-verb decorators into routes.
type pythonAnalyzer struct {
	grammar *sitter.Language
	sniffer *RouteSniffer
}

func (a *pythonAnalyzer) Language() string { return LangPython }

func (a *pythonAnalyzer) Analyze(path string, src []byte) (*Result, error) {
	tree := parse(a.grammar, src)
	if tree == nil {
		return nil, fmt.Errorf("parse %s: tree-sitter returned no tree", path)
	}
	defer tree.Close()

	res := newResult(LangPython)
	a.visitChildren(tree.RootNode(), false, res, src)

	res.Complexity = len(res.Functions)
	for _, ci := range res.Classes {
		res.Complexity += len(ci.Methods)
	}
	return res, nil
}

// visit dispatches one node. direct is true only for immediate children of a
// class body: function definitions there are methods, not free functions.
func (a *pythonAnalyzer) visit(n *sitter.Node, direct bool, res *Result, src []byte) {
	switch n.Type() {
	case "decorated_definition":
		def := n.ChildByFieldName("definition")
		if def != nil && def.Type() == "function_definition" {
			a.sniffRoutes(n, def, res, src)
		}
		if def != nil {
			a.visit(def, direct, res, src)
		}

	case "function_definition":
		if name := n.ChildByFieldName("name"); name != nil && !direct {
			res.Functions = append(res.Functions, name.Content(src))
		}
		if body := n.ChildByFieldName("body"); body != nil {
			a.visitChildren(body, false, res, src)
		}

	case "class_definition":
		a.collectClass(n, res, src)
		if body := n.ChildByFieldName("body"); body != nil {
			a.visitChildren(body, true, res, src)
		}

	default:
		a.visitChildren(n, false, res, src)
	}
}

func (a *pythonAnalyzer) visitChildren(n *sitter.Node, direct bool, res *Result, src []byte) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		a.visit(n.NamedChild(i), direct, res, src)
	}
}

// collectClass records the class name, docstring, direct method names, and
// resolved base-class names for one class_definition node.
func (a *pythonAnalyzer) collectClass(n *sitter.Node, res *Result, src []byte) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	ci := res.class(name.Content(src))

	if bases := n.ChildByFieldName("superclasses"); bases != nil {
		for i := 0; i < int(bases.NamedChildCount()); i++ {
			arg := bases.NamedChild(i)
			// Keyword arguments (metaclass=...) are not bases.
			if arg.Type() == "keyword_argument" {
				continue
			}
			ci.BaseClasses = append(ci.BaseClasses, dottedName(arg, src))
		}
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	if doc, ok := docstringOf(body, src); ok {
		ci.Docstring = doc
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		def := stmt
		if stmt.Type() == "decorated_definition" {
			def = stmt.ChildByFieldName("definition")
			if def == nil {
				continue
			}
		}
		if def.Type() != "function_definition" {
			continue
		}
		if mname := def.ChildByFieldName("name"); mname != nil {
			ci.Methods = append(ci.Methods, mname.Content(src))
		}
	}
}

// sniffRoutes inspects the decorators of a decorated function definition.
// A decorator of the shape name(...) or obj.verb(...) whose callee name is
// in the verb vocabulary yields one route per declared HTTP method: the
// methods=[...] keyword overrides the default (the verb uppercased), and the
// first positional string literal supplies the path.
func (a *pythonAnalyzer) sniffRoutes(decorated, def *sitter.Node, res *Result, src []byte) {
	fnNode := def.ChildByFieldName("name")
	if fnNode == nil {
		return
	}
	fnName := fnNode.Content(src)

	for i := 0; i < int(decorated.NamedChildCount()); i++ {
		dec := decorated.NamedChild(i)
		if dec.Type() != "decorator" || dec.NamedChildCount() == 0 {
			continue
		}
		call := dec.NamedChild(0)
		if call.Type() != "call" {
			continue
		}
		callee := call.ChildByFieldName("function")
		if callee == nil {
			continue
		}

		var verb string
		switch callee.Type() {
		case "attribute":
			if attr := callee.ChildByFieldName("attribute"); attr != nil {
				verb = attr.Content(src)
			}
		case "identifier":
			verb = callee.Content(src)
		}
		method, ok := a.sniffer.Match(verb)
		if !ok {
			continue
		}

		path := UnknownPath
		methods := []string{method}
		if args := call.ChildByFieldName("arguments"); args != nil {
			sawPositional := false
			for j := 0; j < int(args.NamedChildCount()); j++ {
				arg := args.NamedChild(j)
				if arg.Type() == "keyword_argument" {
					kw := arg.ChildByFieldName("name")
					if kw != nil && kw.Content(src) == "methods" {
						if declared := stringListOf(arg.ChildByFieldName("value"), src); len(declared) > 0 {
							methods = declared
						}
					}
					continue
				}
				if !sawPositional {
					sawPositional = true
					if lit, ok := stringLiteral(arg, src); ok {
						path = lit
					}
				}
			}
		}

		for _, m := range methods {
			res.Routes = append(res.Routes, Route{Function: fnName, Method: m, Path: path})
		}
	}
}

// docstringOf returns the class docstring when the first body statement is a
// bare string expression.
func docstringOf(body *sitter.Node, src []byte) (string, bool) {
	if body.NamedChildCount() == 0 {
		return "", false
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return "", false
	}
	return stringLiteral(first.NamedChild(0), src)
}

// stringListOf extracts the string elements of a list/tuple literal.
func stringListOf(n *sitter.Node, src []byte) []string {
	if n == nil {
		return nil
	}
	if n.Type() != "list" && n.Type() != "tuple" && n.Type() != "set" {
		return nil
	}
	var out []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if lit, ok := stringLiteral(n.NamedChild(i), src); ok {
			out = append(out, lit)
		}
	}
	return out
}

// stringLiteral unquotes a Python string node, tolerating prefix letters
// (r, b, u, f) and single/triple quoting.
func stringLiteral(n *sitter.Node, src []byte) (string, bool) {
	if n == nil || n.Type() != "string" {
		return "", false
	}
	s := n.Content(src)
	s = strings.TrimLeft(s, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)], true
		}
	}
	return s, true
}

// dottedName resolves a base-class expression to a dotted name. Simple
// identifiers pass through; attribute chains are rejoined root-first with
// dots. Any other shape resolves to nil, the null placeholder.
func dottedName(n *sitter.Node, src []byte) *string {
	switch n.Type() {
	case "identifier":
		s := n.Content(src)
		return &s
	case "attribute":
		obj := n.ChildByFieldName("object")
		attr := n.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			return nil
		}
		root := dottedName(obj, src)
		if root == nil {
			return nil
		}
		s := *root + "." + attr.Content(src)
		return &s
	}
	return nil
}
