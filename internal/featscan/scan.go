package featscan

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"
)

// CallSite is one recognized sst.<Marker>(...) call, extracted from
// source text without ever executing it.
type CallSite struct {
	Kind ItemKind
	Marker string
	Flags  itemFlags

	// Args holds every positional argument's literal source text,
	// unparsed. A quoted string argument keeps its quotes stripped; any
	// other argument (an identifier, a flag expression like
	// ConArchive|ConCheat, a function literal) is kept as raw source.
	Args []string

	// VarName is the identifier on the left of "var X = sst.DefCvar(...)",
	// empty if the call wasn't a var initializer.
	VarName string

	Package  string
	File     string
	Line     int
}

// importAlias is the name feature packages use for the sst import; SST's
// own module path's last component, matching every example feature file
// in this tree (`import "github.com/sstools/sst"` binds the identifier
// "sst" by Go's default last-path-element rule).
const importAlias = "sst"

// Lifecycle records which of the three conventional lifecycle function
// names (PreInit, Init, End) a feature package defines at top level, so
// codegen only wires FeatureDescriptor fields that have something real to
// point at instead of naming a symbol that doesn't exist.
type Lifecycle struct {
	HasPreInit, HasInit, HasEnd bool
}

func (l *Lifecycle) merge(o Lifecycle) {
	l.HasPreInit = l.HasPreInit || o.HasPreInit
	l.HasInit = l.HasInit || o.HasInit
	l.HasEnd = l.HasEnd || o.HasEnd
}

// ScanFile parses one Go source file's bytes and returns every recognized
// marker call site plus which lifecycle functions it defines, tolerating
// unrelated syntax elsewhere in the file (tree-sitter always produces a
// best-effort concrete syntax tree, even over code that wouldn't compile).
func ScanFile(pkg, filename string, src []byte) ([]CallSite, Lifecycle, error) {
	lang := sitter.NewLanguage(golang.Language())
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, Lifecycle{}, fmt.Errorf("featscan: %s: set language: %w", filename, err)
	}
	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, Lifecycle{}, fmt.Errorf("featscan: %s: tree-sitter produced no tree", filename)
	}
	defer tree.Close()

	var sites []CallSite
	var lc Lifecycle
	walkDecls(tree.RootNode(), src, pkg, filename, &sites)
	walkFuncDecls(tree.RootNode(), src, &lc)
	return sites, lc, nil
}

// walkFuncDecls looks for top-level "func PreInit()" / "func Init()" /
// "func End()" declarations, the three conventional lifecycle names
// marker.go's Feature doc describes.
func walkFuncDecls(n *sitter.Node, src []byte, lc *Lifecycle) {
	if n == nil {
		return
	}
	if n.Kind() == "function_declaration" {
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(uint(i))
			if c.Kind() != "identifier" {
				continue
			}
			switch nodeText(c, src) {
			case "PreInit":
				lc.HasPreInit = true
			case "Init":
				lc.HasInit = true
			case "End":
				lc.HasEnd = true
			}
			break
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walkFuncDecls(n.Child(uint(i)), src, lc)
	}
}

// walkDecls looks for top-level var_spec and function_declaration nodes
// (a feature file's markers are always either a package-level var
// initializer or a call inside func init()), recursing into init()'s body
// for OnEvent/OnPredicate calls that don't need a var binding.
func walkDecls(n *sitter.Node, src []byte, pkg, filename string, out *[]CallSite) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "var_spec":
		handleVarSpec(n, src, pkg, filename, out)
		return
	case "call_expression":
		if site, ok := extractCall(n, src, pkg, filename, ""); ok {
			*out = append(*out, site)
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walkDecls(n.Child(uint(i)), src, pkg, filename, out)
	}
}

// handleVarSpec handles "var X = sst.Marker(...)"; it still recurses
// (rather than assuming the initializer is always a bare call) so nested
// expressions are also visited.
func handleVarSpec(n *sitter.Node, src []byte, pkg, filename string, out *[]CallSite) {
	var name string
	var value *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(uint(i))
		switch c.Kind() {
		case "identifier":
			if name == "" {
				name = nodeText(c, src)
			}
		case "call_expression":
			value = c
		case "expression_list":
			// tree-sitter-go wraps a var_spec's initializer in an
			// expression_list; bind the name to its first call.
			for j := 0; j < int(c.ChildCount()) && value == nil; j++ {
				if e := c.Child(uint(j)); e != nil && e.Kind() == "call_expression" {
					value = e
				}
			}
		}
	}
	if value != nil {
		if site, ok := extractCall(value, src, pkg, filename, name); ok {
			*out = append(*out, site)
			return
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walkDecls(n.Child(uint(i)), src, pkg, filename, out)
	}
}

// extractCall recognizes a call_expression shaped like
// <importAlias>.<Marker>(arg, arg, ...) and extracts its arguments as raw
// source snippets.
func extractCall(n *sitter.Node, src []byte, pkg, filename, varName string) (CallSite, bool) {
	if n.Kind() != "call_expression" || n.ChildCount() == 0 {
		return CallSite{}, false
	}
	fn := n.Child(0)
	if fn == nil || fn.Kind() != "selector_expression" {
		return CallSite{}, false
	}
	var operand, field string
	for i := 0; i < int(fn.ChildCount()); i++ {
		c := fn.Child(uint(i))
		switch c.Kind() {
		case "identifier", "package_identifier":
			if operand == "" {
				operand = nodeText(c, src)
			}
		case "field_identifier":
			field = nodeText(c, src)
		}
	}
	if operand != importAlias {
		return CallSite{}, false
	}
	kind, ok := markerKind[field]
	if !ok {
		return CallSite{}, false
	}

	var args []string
	for i := 1; i < int(n.ChildCount()); i++ {
		c := n.Child(uint(i))
		if c.Kind() != "argument_list" {
			continue
		}
		for j := 0; j < int(c.ChildCount()); j++ {
			a := c.Child(uint(j))
			switch a.Kind() {
			case "(", ")", ",":
				continue
			}
			args = append(args, argText(a, src))
		}
	}

	line := int(n.StartPoint().Row) + 1
	return CallSite{
		Kind:    kind,
		Marker:  field,
		Flags:   cvarFlags(field),
		Args:    args,
		VarName: varName,
		Package: pkg,
		File:    filename,
		Line:    line,
	}, true
}

func argText(n *sitter.Node, src []byte) string {
	text := nodeText(n, src)
	if n.Kind() == "interpreted_string_literal" || n.Kind() == "raw_string_literal" {
		return strings.Trim(text, "`\"")
	}
	return text
}

func nodeText(n *sitter.Node, src []byte) string {
	return string(src[n.StartByte():n.EndByte()])
}
