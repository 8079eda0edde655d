package analyze

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// rustAnalyzer walks the tree-sitter Rust grammar: free function_items
// become functions, struct_items become class entries, and impl-block
// function_items are attributed as methods of the type being implemented.
type rustAnalyzer struct {
	grammar *sitter.Language
}

func (a *rustAnalyzer) Language() string { return LangRust }

func (a *rustAnalyzer) Analyze(path string, src []byte) (*Result, error) {
	tree := parse(a.grammar, src)
	if tree == nil {
		return nil, fmt.Errorf("parse %s: tree-sitter returned no tree", path)
	}
	defer tree.Close()

	res := newResult(LangRust)
	a.visitChildren(tree.RootNode(), res, src)

	res.Complexity = len(res.Functions)
	for _, ci := range res.Classes {
		res.Complexity += len(ci.Methods)
	}
	return res, nil
}

func (a *rustAnalyzer) visit(n *sitter.Node, res *Result, src []byte) {
	switch n.Type() {
	case "function_item":
		if name := n.ChildByFieldName("name"); name != nil {
			res.Functions = append(res.Functions, name.Content(src))
		}
		if body := n.ChildByFieldName("body"); body != nil {
			a.visitChildren(body, res, src)
		}

	case "struct_item":
		if name := n.ChildByFieldName("name"); name != nil {
			res.class(name.Content(src))
		}

	case "impl_item":
		a.collectImpl(n, res, src)

	default:
		a.visitChildren(n, res, src)
	}
}

func (a *rustAnalyzer) visitChildren(n *sitter.Node, res *Result, src []byte) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		a.visit(n.NamedChild(i), res, src)
	}
}

// collectImpl attributes the functions declared in an impl block to the
// struct the block implements. Bodies are still walked so functions nested
// inside methods are recorded.
func (a *rustAnalyzer) collectImpl(n *sitter.Node, res *Result, src []byte) {
	typeName := implTypeName(n.ChildByFieldName("type"), src)
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	if typeName == "" {
		a.visitChildren(body, res, src)
		return
	}
	ci := res.class(typeName)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		item := body.NamedChild(i)
		if item.Type() != "function_item" {
			continue
		}
		if name := item.ChildByFieldName("name"); name != nil {
			ci.Methods = append(ci.Methods, name.Content(src))
		}
		if mbody := item.ChildByFieldName("body"); mbody != nil {
			a.visitChildren(mbody, res, src)
		}
	}
}

// implTypeName extracts the implemented type's base identifier, looking
// through generic parameters (impl Foo<T> attributes to Foo).
func implTypeName(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "type_identifier":
		return n.Content(src)
	case "generic_type":
		return implTypeName(n.ChildByFieldName("type"), src)
	case "reference_type":
		return implTypeName(n.ChildByFieldName("type"), src)
	}
	return ""
}
