package featscan

import (
	"fmt"
	"go/format"
	"sort"
	"strings"
)

const genHeader = `// Code generated by sstgen scan; DO NOT EDIT.

package main

import "github.com/sstools/sst"
`

// Generate renders a complete zz_features_gen.go source file (package
// main, living in the plugin entry point rather than package sst — see
// DESIGN.md's Component K entry for why) from a Build result. pkgImport
// maps each feature package's short name (the grouping key Build used,
// ordinarily the package's directory base name) to its full import path;
// every package mentioned in res must have an entry.
//
// The generated file wires three tables: the feature descriptors
// Registry.NewRegistry consumes, the event Handlers EmitEvent/EmitPredicate
// consume, and an explicit RegisterVar/RegisterCmd call per declared cvar
// and command, mirroring spec.md §9's recommended descriptor-table shape
// with Go's lack of a preprocessor collapsing what the original emits as
// three separate generated headers into one generated Go file.
func Generate(res *Result, pkgImport map[string]string) ([]byte, error) {
	alias, err := buildAliases(res, pkgImport)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(genHeader)

	sort.Strings(alias.importOrder)
	for _, path := range alias.importOrder {
		fmt.Fprintf(&sb, "import %s %q\n", alias.byPath[path], path)
	}

	sb.WriteString("\nvar zzFeatures = []sst.FeatureDescriptor{\n")
	feats := append([]FeatureDecl(nil), res.Features...)
	sort.Slice(feats, func(i, j int) bool { return feats[i].Name < feats[j].Name })
	for _, f := range feats {
		pkg := alias.byShort[f.Package]
		fmt.Fprintf(&sb, "\t{\n\t\tName: %q,\n\t\tDesc: %q,\n", f.Name, f.Desc)
		if f.HasTags {
			fmt.Fprintf(&sb, "\t\tTags: %s,\n\t\tHasTags: true,\n", tagsExpr(f.Tags))
		}
		if len(f.RequiredGD) > 0 {
			fmt.Fprintf(&sb, "\t\tRequiredGD: %s,\n", stringSliceExpr(f.RequiredGD))
		}
		if len(f.RequiredVars) > 0 {
			fmt.Fprintf(&sb, "\t\tRequiredVars: %s,\n", stringSliceExpr(f.RequiredVars))
		}
		if len(f.Require) > 0 {
			fmt.Fprintf(&sb, "\t\tRequire: %s,\n", stringSliceExpr(f.Require))
		}
		if len(f.Request) > 0 {
			fmt.Fprintf(&sb, "\t\tRequest: %s,\n", stringSliceExpr(f.Request))
		}
		if f.Lifecycle.HasPreInit {
			fmt.Fprintf(&sb, "\t\tPreInit: %s.PreInit,\n", pkg)
		}
		if f.Lifecycle.HasInit {
			fmt.Fprintf(&sb, "\t\tInit: %s.Init,\n", pkg)
		}
		if f.Lifecycle.HasEnd {
			fmt.Fprintf(&sb, "\t\tEnd: %s.End,\n", pkg)
		}
		sb.WriteString("\t},\n")
	}
	sb.WriteString("}\n")

	sb.WriteString("\n// zzEventHandlersByName holds every OnEvent/OnPredicate registration,\n")
	sb.WriteString("// keyed by event name, each list in declared source order.\n")
	sb.WriteString("// sst_GameFrame/sst_ClientActive pass the reserved \"frame\"/\"clientactive\"\n")
	sb.WriteString("// entries to the adapter; entries under other event names are not read.\n")
	sb.WriteString("var zzEventHandlersByName = map[string][]sst.Handler{\n")
	handlers := append([]HandlerDecl(nil), res.Handlers...)
	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].EventName < handlers[j].EventName
	})
	byEvent := map[string][]HandlerDecl{}
	var eventOrder []string
	for _, h := range handlers {
		if _, ok := byEvent[h.EventName]; !ok {
			eventOrder = append(eventOrder, h.EventName)
		}
		byEvent[h.EventName] = append(byEvent[h.EventName], h)
	}
	sort.Strings(eventOrder)
	for _, name := range eventOrder {
		fmt.Fprintf(&sb, "\t%q: {\n", name)
		for _, h := range byEvent[name] {
			pkg := alias.byShort[h.Package]
			if h.Predicate {
				fmt.Fprintf(&sb, "\t\t{Feature: %q, Call: %s.%s},\n", h.Feature, pkg, h.FuncExpr)
			} else {
				fmt.Fprintf(&sb, "\t\t{Feature: %q, Call: func(args []any) bool { %s.%s(args); return true }},\n",
					h.Feature, pkg, h.FuncExpr)
			}
		}
		sb.WriteString("\t},\n")
	}
	sb.WriteString("}\n")

	sb.WriteString("\nfunc zzRegisterConsole(reg *sst.ConRegistry) {\n")
	cvars := append([]CvarDecl(nil), res.Cvars...)
	sort.Slice(cvars, func(i, j int) bool { return cvars[i].Name < cvars[j].Name })
	for _, c := range cvars {
		pkg := alias.byShort[c.Package]
		fmt.Fprintf(&sb, "\t_ = reg.RegisterVar(%s.%s)\n", pkg, c.VarName)
	}
	ccmds := append([]CcmdDecl(nil), res.Ccmds...)
	sort.Slice(ccmds, func(i, j int) bool { return ccmds[i].Name < ccmds[j].Name })
	for _, c := range ccmds {
		pkg := alias.byShort[c.Package]
		fmt.Fprintf(&sb, "\t_ = reg.RegisterCmd(%s.%s)\n", pkg, c.VarName)
	}
	sb.WriteString("}\n")

	out, err := format.Source([]byte(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("featscan: generated source does not gofmt: %w\n%s", err, sb.String())
	}
	return out, nil
}

type aliasTable struct {
	byShort     map[string]string // package short name -> import alias used in the file
	byPath      map[string]string // import path -> alias
	importOrder []string
}

// buildAliases assigns each referenced package's import path an alias
// distinct from the "sst" import, using the package's short name verbatim
// when it doesn't collide with "sst" or another package's alias.
func buildAliases(res *Result, pkgImport map[string]string) (*aliasTable, error) {
	at := &aliasTable{byShort: map[string]string{}, byPath: map[string]string{}}
	var shorts []string
	seen := map[string]bool{}
	for _, f := range res.Features {
		if !seen[f.Package] {
			seen[f.Package] = true
			shorts = append(shorts, f.Package)
		}
	}
	sort.Strings(shorts)

	usedAlias := map[string]bool{"sst": true}
	for _, short := range shorts {
		path, ok := pkgImport[short]
		if !ok {
			return nil, fmt.Errorf("featscan: no import path given for feature package %q", short)
		}
		alias := short
		for usedAlias[alias] {
			alias += "_"
		}
		usedAlias[alias] = true
		at.byShort[short] = alias
		at.byPath[path] = alias
		at.importOrder = append(at.importOrder, path)
	}
	return at, nil
}

func tagsExpr(tags []string) string {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	return strings.Join(sorted, " | ")
}

func stringSliceExpr(ss []string) string {
	sorted := append([]string(nil), ss...)
	sort.Strings(sorted)
	quoted := make([]string, len(sorted))
	for i, s := range sorted {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
