package gendsl

import (
	"fmt"

	"github.com/sstools/sst/internal/trie"
)

// Rule is one flattened (tag, expr) pair for a gamedata entry, ordered so
// that more deeply nested (more specific) conditions precede the less
// specific ones they refine — see node.flatten's doc comment for why that
// order reproduces the original's nested-if override semantics under a
// flat first-match-wins evaluator (sst.NewGamedataStore).
type Rule struct {
	Tag  string
	Expr string
}

// Entry is one top-level (indent-0) gamedata declaration together with
// its flattened rule list and, when it has no default, the direct-child
// tag set used for the _GAMES_WITH_ feature-elision optimisation
// (SPEC_FULL.md §4.E/§4.L).
type Entry struct {
	Name      string
	Default   string
	HasDef    bool
	Rules     []Rule
	GamesWith []string
	File      string
	Line      int
}

// node is the intermediate per-entry conditional tree built from the flat
// indent-tagged rawEntry list, one level of recursion per indentation
// level.
type node struct {
	Tag      string
	Expr     string
	Children []*node
}

// flatten emits this node's children's rules before its own, in declared
// sibling order: a flat evaluator checking rules top-to-bottom then picks
// the most deeply-nested matching condition first, exactly mirroring the
// nested `if (...) { x = a; if (...) { x = b; } }` C output where the
// inner assignment silently overrides the outer one when both conditions
// hold.
func (n *node) flatten(out []Rule) []Rule {
	for _, c := range n.Children {
		out = c.flatten(out)
	}
	if n.Expr != "" {
		out = append(out, Rule{Tag: n.Tag, Expr: n.Expr})
	}
	return out
}

// parseNodes consumes every row at exactly `level` starting at idx,
// recursing into a deeper level whenever the next row is more indented,
// and returns the sibling list plus the index just past the group.
func parseNodes(rows []rawEntry, idx, level int) ([]*node, int) {
	var nodes []*node
	for idx < len(rows) && rows[idx].Indent == level {
		n := &node{Tag: rows[idx].Key, Expr: rows[idx].Expr}
		idx++
		if idx < len(rows) && rows[idx].Indent > level {
			var children []*node
			children, idx = parseNodes(rows, idx, level+1)
			n.Children = children
		}
		nodes = append(nodes, n)
	}
	return nodes, idx
}

// BuildEntries groups a flat rawEntry stream (as produced by Parse) into
// one Entry per indent-0 declaration, rejecting duplicate entry names via
// a shared internal/trie radix trie per spec.md §4.K's duplicate-detection
// requirement (reused here for Component L, per SPEC_FULL.md §4.M's
// trie-sharing note).
func BuildEntries(rows []rawEntry) ([]Entry, error) {
	seen := trie.New[rawEntry]()
	var out []Entry
	i := 0
	for i < len(rows) {
		if rows[i].Indent != 0 {
			return nil, &ParseError{rows[i].File, rows[i].Line, fmt.Errorf("gendsl: internal error: orphaned indented row for %q", rows[i].Key)}
		}
		if !seen.Insert(rows[i].Key, rows[i]) {
			first, _ := seen.Lookup(rows[i].Key)
			return nil, &ParseError{rows[i].File, rows[i].Line,
				fmt.Errorf("gendsl: duplicate gamedata entry %q (first declared %s:%d)", rows[i].Key, first.File, first.Line)}
		}

		e := Entry{Name: rows[i].Key, File: rows[i].File, Line: rows[i].Line}
		if rows[i].Expr != "" {
			e.Default = rows[i].Expr
			e.HasDef = true
		}

		j := i + 1
		for j < len(rows) && rows[j].Indent > 0 {
			j++
		}
		children := rows[i+1 : j]

		nodes, consumed := parseNodes(children, 0, 1)
		if consumed != len(children) {
			return nil, &ParseError{rows[i].File, rows[i].Line, fmt.Errorf("gendsl: internal error: did not consume all child rows for %q", rows[i].Key)}
		}
		var rules []Rule
		for _, n := range nodes {
			rules = n.flatten(rules)
		}
		e.Rules = rules

		if !e.HasDef {
			for _, c := range children {
				if c.Indent == 1 {
					e.GamesWith = append(e.GamesWith, c.Key)
				}
			}
		}

		out = append(out, e)
		i = j
	}
	return out, nil
}
