package entprops

import (
	"fmt"
	"go/format"
	"sort"
	"strings"

	"github.com/sstools/sst/internal/trie"
)

const genHeader = `// Code generated by sstgen entprops; DO NOT EDIT.

package sst
`

// Generate renders a complete zz_entprops_gen.go source file (package sst)
// from a built Tree: one var <varname> int and one has<Varname>() bool
// function per declared variable, plus an entPropsClasses table of
// ClassDescriptor values for sst.WalkServerClasses to walk.
func Generate(t *Tree) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(genHeader)

	var classNames []string
	t.Classes.WalkPrefix("", func(key string, _ *ClassEntry) {
		classNames = append(classNames, key)
	})
	sort.Strings(classNames)

	sb.WriteString("var entPropsClasses = []ClassDescriptor{\n")
	for _, cn := range classNames {
		ce, _ := t.Classes.Lookup(cn)
		fmt.Fprintf(&sb, "\t{\n\t\tName: %q,\n\t\tProps: %s,\n\t},\n", cn, propsLiteral(ce.Props, 1))
	}
	sb.WriteString("}\n\n")

	for _, v := range t.Decls {
		fmt.Fprintf(&sb, "var %s int\n", v)
	}
	sb.WriteString("\n")
	for _, v := range t.Decls {
		fmt.Fprintf(&sb, "func has%s() bool { return %s != 0 }\n", exportName(v), v)
	}

	out, err := format.Source([]byte(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("entprops: generated source does not gofmt: %w\n%s", err, sb.String())
	}
	return out, nil
}

// propsLiteral recursively renders one trie level's PropDescriptor slice
// literal, sorting keys for deterministic output across runs.
func propsLiteral(pt *trie.Trie[*PropNode], depth int) string {
	var names []string
	pt.WalkPrefix("", func(key string, _ *PropNode) {
		names = append(names, key)
	})
	sort.Strings(names)

	pad := strings.Repeat("\t", depth)
	var sb strings.Builder
	sb.WriteString("[]PropDescriptor{\n")
	for _, name := range names {
		n, _ := pt.Lookup(name)
		sb.WriteString(pad + "\t{\n")
		fmt.Fprintf(&sb, pad+"\t\tName: %q,\n", n.Seg)
		if n.HasVar {
			fmt.Fprintf(&sb, pad+"\t\tVarPtr: &%s,\n", n.VarName)
		}
		if n.Children.Size() > 0 {
			sb.WriteString(pad + "\t\tChildren: " + propsLiteral(n.Children, depth+2) + ",\n")
		}
		sb.WriteString(pad + "\t},\n")
	}
	sb.WriteString(pad + "}")
	return sb.String()
}

// exportName turns a snake_case variable name into the CamelCase suffix
// used for its has<Varname> accessor.
func exportName(v string) string {
	parts := strings.Split(v, "_")
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	return sb.String()
}
