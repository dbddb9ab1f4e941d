package entprops

import (
	"fmt"
	"strings"

	"github.com/sstools/sst/internal/trie"
)

// PropNode is one segment of a property path: either a leaf declaring a
// variable, an interior node with a nested subtable, or both (a variable
// capturing the SendTable's own base offset while also descending into its
// children, mirroring mkentprops.c's art_leaf having both varstr and
// subtree set simultaneously).
type PropNode struct {
	Seg      string
	VarName  string
	HasVar   bool
	Children *trie.Trie[*PropNode]
	NSubs    int
}

// ClassEntry is one ServerClass's root, fanning out into the property-path
// trie the class's SendTable is walked against at init time.
type ClassEntry struct {
	Class string
	Props *trie.Trie[*PropNode]
}

// Tree is the full two-level class→property-path structure built from a
// parsed declaration stream, the Go analogue of mkentprops.c's single
// art_root instance (here, the outer trie's values are themselves inner
// tries rather than bare leaves, per SPEC_FULL.md §4.M's "nesting one trie
// instance per outer (class-name) leaf" note).
type Tree struct {
	Classes *trie.Trie[*ClassEntry]
	// Decls lists every declared variable in file order, for zz_entprops_gen.go's
	// stable decl/init ordering (mkentprops.c's decls[] array).
	Decls []string
}

// Build groups a parsed entry stream into a Tree, rejecting duplicate
// variable declarations and malformed paths per handleentry()'s checks.
func Build(rows []rawEntry) (*Tree, error) {
	t := &Tree{Classes: trie.New[*ClassEntry]()}
	seenVars := trie.New[rawEntry]()

	for _, row := range rows {
		if !seenVars.Insert(row.Var, row) {
			first, _ := seenVars.Lookup(row.Var)
			return nil, &ParseError{row.File, row.Line,
				fmt.Errorf("entprops: duplicate variable %q (first declared %s:%d)", row.Var, first.File, first.Line)}
		}

		segs := strings.Split(row.Path, "/")
		if len(segs) < 2 {
			return nil, &ParseError{row.File, row.Line, ErrNoSlash}
		}
		for _, s := range segs {
			if s == "" {
				return nil, &ParseError{row.File, row.Line, fmt.Errorf("entprops: empty path segment in %q", row.Path)}
			}
		}

		class, ok := t.Classes.Lookup(segs[0])
		if !ok {
			class = &ClassEntry{Class: segs[0], Props: trie.New[*PropNode]()}
			t.Classes.Insert(segs[0], class)
		}

		cur := class.Props
		var parent *PropNode
		for i, seg := range segs[1:] {
			last := i == len(segs)-2
			node, created := cur.GetOrInsert(seg, func() *PropNode {
				return &PropNode{Seg: seg, Children: trie.New[*PropNode]()}
			})
			if created && parent != nil {
				parent.NSubs++
			}
			if last {
				if node.HasVar {
					return nil, &ParseError{row.File, row.Line,
						fmt.Errorf("entprops: duplicate property name %q", row.Path)}
				}
				node.VarName = row.Var
				node.HasVar = true
			}
			parent = node
			cur = node.Children
		}

		t.Decls = append(t.Decls, row.Var)
	}
	return t, nil
}
