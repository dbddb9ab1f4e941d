package featscan

import (
	"errors"
	"fmt"

	"github.com/sstools/sst/internal/trie"
)

// FeatureDecl is one package's worth of feature markers, collected under
// the single sst.Feature(...) call that package-scoped a scan grouping
// convention requires every feature package declare exactly once.
type FeatureDecl struct {
	Name, Desc   string
	Package      string
	File         string
	Line         int
	Require      []string
	Request      []string
	RequiredGD   []string
	RequiredVars []string
	Tags         []string // GameTag identifier expressions, OR'd at codegen
	HasTags      bool
	Lifecycle    Lifecycle
}

// EventDecl is one sst.DefEvent/DefPredicate declaration.
type EventDecl struct {
	Name            string
	Predicate       bool
	DefiningFeature string
	File            string
	Line            int
}

// HandlerDecl is one sst.OnEvent/OnPredicate registration.
type HandlerDecl struct {
	EventName string
	Feature   string
	Package   string
	FuncExpr  string
	Predicate bool
	File      string
	Line      int
}

// CvarDecl is one sst.DefCvar* declaration, keyed by the Go identifier it
// was assigned to (VarName) so codegen can reference the real, already-
// constructed *ConVar value rather than re-building it.
type CvarDecl struct {
	VarName              string
	Feature              string
	Package              string
	Name, Help, Default  string
	FlagsExpr            string
	MinExpr, MaxExpr     string
	Flags                itemFlags
	File                 string
	Line                 int
}

// CcmdDecl is one sst.DefCcmd declaration.
type CcmdDecl struct {
	VarName   string
	Feature   string
	Package   string
	Name      string
	Help      string
	FlagsExpr string
	File      string
	Line      int
}

// Result is the fully cross-referenced scan output, ready for codegen.
type Result struct {
	Features []FeatureDecl
	Events   []EventDecl
	Handlers []HandlerDecl
	Cvars    []CvarDecl
	Ccmds    []CcmdDecl
}

var (
	ErrMarkerOutsideFeature = errors.New("featscan: marker call in a package with no sst.Feature(...) declaration")
	ErrDuplicateFeature     = errors.New("featscan: duplicate feature name")
	ErrDuplicateCvar        = errors.New("featscan: duplicate cvar name")
	ErrDuplicateCcmd        = errors.New("featscan: duplicate command name")
	ErrUndefinedEvent       = errors.New("featscan: handler names an event no feature defines")
	ErrPredicateMismatch    = errors.New("featscan: handler predicate-ness does not match the event's definition")
	ErrFeatureCycle         = errors.New("featscan: feature dependency cycle")
	ErrDuplicateEvent       = errors.New("featscan: duplicate event/predicate definition")
	ErrPreInitWithDeps      = errors.New("featscan: feature uses PreInit together with Require/Request")
	ErrRequireNoInit        = errors.New("featscan: feature requires another feature with no Init")
)

// builtinEvents are the reserved, always-defined ordinary event names the
// adapter itself emits every frame/lifecycle transition (adapter.go's
// GameFrame/ClientActive), rather than anything a feature declares with
// DefEvent. OnEvent may target these with no matching DefEvent call.
var builtinEvents = map[string]bool{
	"frame":        true,
	"clientactive": true,
}

// Build groups every scanned call site by its enclosing package,
// requiring each such package to have exactly one sst.Feature(...) call,
// and attaches every other marker in that package (plus its merged
// Lifecycle, keyed the same way) to the resulting FeatureDecl.
func Build(sites []CallSite, lifecycle map[string]Lifecycle) (*Result, error) {
	byPkg := make(map[string][]CallSite)
	var pkgOrder []string
	for _, s := range sites {
		if _, ok := byPkg[s.Package]; !ok {
			pkgOrder = append(pkgOrder, s.Package)
		}
		byPkg[s.Package] = append(byPkg[s.Package], s)
	}

	var res Result
	for _, pkg := range pkgOrder {
		pkgSites := byPkg[pkg]
		var feat *FeatureDecl
		for _, s := range pkgSites {
			if s.Kind == ItemFeature {
				if feat != nil {
					return nil, fmt.Errorf("%w: %s:%d: package %s declares a second feature", ErrDuplicateFeature, s.File, s.Line, pkg)
				}
				name, desc := arg(s, 0), arg(s, 1)
				feat = &FeatureDecl{Name: name, Desc: desc, Package: pkg, File: s.File, Line: s.Line}
			}
		}
		if feat == nil {
			for _, s := range pkgSites {
				return nil, fmt.Errorf("%w (%s, %s:%d)", ErrMarkerOutsideFeature, pkg, s.File, s.Line)
			}
			continue
		}

		for _, s := range pkgSites {
			switch s.Kind {
			case ItemFeature:
				// handled above
			case ItemRequire:
				feat.Require = append(feat.Require, s.Args...)
			case ItemRequest:
				feat.Request = append(feat.Request, s.Args...)
			case ItemRequireGamedata:
				feat.RequiredGD = append(feat.RequiredGD, s.Args...)
			case ItemRequireGlobal:
				feat.RequiredVars = append(feat.RequiredVars, s.Args...)
			case ItemGameSpecific:
				feat.HasTags = true
				feat.Tags = append(feat.Tags, s.Args...)
			case ItemDefEvent:
				res.Events = append(res.Events, EventDecl{Name: arg(s, 0), DefiningFeature: feat.Name, File: s.File, Line: s.Line})
			case ItemDefPredicate:
				res.Events = append(res.Events, EventDecl{Name: arg(s, 0), Predicate: true, DefiningFeature: feat.Name, File: s.File, Line: s.Line})
			case ItemOnEvent:
				res.Handlers = append(res.Handlers, HandlerDecl{EventName: arg(s, 0), Feature: feat.Name, Package: pkg, FuncExpr: arg(s, 1), File: s.File, Line: s.Line})
			case ItemOnPredicate:
				res.Handlers = append(res.Handlers, HandlerDecl{EventName: arg(s, 0), Feature: feat.Name, Package: pkg, FuncExpr: arg(s, 1), Predicate: true, File: s.File, Line: s.Line})
			case ItemConVar:
				res.Cvars = append(res.Cvars, cvarFromSite(s, feat.Name, pkg))
			case ItemConCommand:
				res.Ccmds = append(res.Ccmds, CcmdDecl{
					VarName: s.VarName, Feature: feat.Name, Package: pkg,
					Name: arg(s, 0), Help: arg(s, 1), FlagsExpr: arg(s, 2),
					File: s.File, Line: s.Line,
				})
			}
		}
		feat.Lifecycle = lifecycle[pkg]
		res.Features = append(res.Features, *feat)
	}

	if err := validate(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func arg(s CallSite, i int) string {
	if i < len(s.Args) {
		return s.Args[i]
	}
	return ""
}

func cvarFromSite(s CallSite, feature, pkg string) CvarDecl {
	d := CvarDecl{VarName: s.VarName, Feature: feature, Package: pkg,
		Name: arg(s, 0), Help: arg(s, 1), Default: arg(s, 2), FlagsExpr: arg(s, 3),
		Flags: s.Flags, File: s.File, Line: s.Line}
	switch s.Marker {
	case "DefCvarMin":
		d.MinExpr = arg(s, 4)
	case "DefCvarMax":
		d.MaxExpr = arg(s, 4)
	case "DefCvarMinMax":
		d.MinExpr = arg(s, 4)
		d.MaxExpr = arg(s, 5)
	}
	return d
}

// validate runs the scanner's cross-reference checks: no duplicate
// feature/cvar/command/event names, no feature mixing PreInit with
// Require/Request, every handled event has a definer with matching
// predicate-ness, every Require names a feature that actually runs an
// Init, and the declared Require/Request graph is acyclic.
func validate(r *Result) error {
	names := trie.New[string]()
	for _, f := range r.Features {
		if !names.Insert(f.Name, f.Package) {
			first, _ := names.Lookup(f.Name)
			return fmt.Errorf("%w %q (first in package %s, again in %s)", ErrDuplicateFeature, f.Name, first, f.Package)
		}
	}

	cvarNames := trie.New[string]()
	for _, c := range r.Cvars {
		if !cvarNames.Insert(c.Name, c.Package) {
			first, _ := cvarNames.Lookup(c.Name)
			return fmt.Errorf("%w %q (first in package %s, again in %s)", ErrDuplicateCvar, c.Name, first, c.Package)
		}
	}

	ccmdNames := trie.New[string]()
	for _, c := range r.Ccmds {
		if !ccmdNames.Insert(c.Name, c.Package) {
			first, _ := ccmdNames.Lookup(c.Name)
			return fmt.Errorf("%w %q (first in package %s, again in %s)", ErrDuplicateCcmd, c.Name, first, c.Package)
		}
	}

	for _, f := range r.Features {
		if f.Lifecycle.HasPreInit && (len(f.Require) > 0 || len(f.Request) > 0) {
			return fmt.Errorf("%w: %q (%s)", ErrPreInitWithDeps, f.Name, f.Package)
		}
	}

	eventNames := trie.New[string]()
	events := make(map[string]EventDecl, len(r.Events)+len(builtinEvents))
	for name := range builtinEvents {
		events[name] = EventDecl{Name: name}
	}
	for _, e := range r.Events {
		if !eventNames.Insert(e.Name, e.DefiningFeature) {
			first, _ := eventNames.Lookup(e.Name)
			return fmt.Errorf("%w %q (first defined by %s, again by %s)", ErrDuplicateEvent, e.Name, first, e.DefiningFeature)
		}
		events[e.Name] = e
	}
	for _, h := range r.Handlers {
		e, ok := events[h.EventName]
		if !ok {
			return fmt.Errorf("%w: %q (handled in %s)", ErrUndefinedEvent, h.EventName, h.Package)
		}
		if e.Predicate != h.Predicate {
			return fmt.Errorf("%w: %q", ErrPredicateMismatch, h.EventName)
		}
	}

	if err := checkRequireHasInit(r.Features); err != nil {
		return err
	}

	return checkAcyclic(r.Features)
}

// checkRequireHasInit enforces that a required feature actually does
// something at init time: a Require naming a feature with no Init can
// never have established the dependency it's there for.
func checkRequireHasInit(feats []FeatureDecl) error {
	byName := make(map[string]FeatureDecl, len(feats))
	for _, f := range feats {
		byName[f.Name] = f
	}
	for _, f := range feats {
		for _, dep := range f.Require {
			target, ok := byName[dep]
			if !ok {
				continue // unresolved cross-package dep checked at runtime, not here
			}
			if !target.Lifecycle.HasInit {
				return fmt.Errorf("%w: %q requires %q, which has no Init", ErrRequireNoInit, f.Name, dep)
			}
		}
	}
	return nil
}

// checkAcyclic runs a plain DFS cycle check over the combined Require +
// Request edges, the same two edge sets Registry.NewRegistry counts at
// runtime, so a cyclic declaration is caught here instead of surfacing as
// ErrFeatureCycle only once the plugin actually loads.
func checkAcyclic(feats []FeatureDecl) error {
	byName := make(map[string]FeatureDecl, len(feats))
	for _, f := range feats {
		byName[f.Name] = f
	}
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(feats))
	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("%w: %v", ErrFeatureCycle, append(path, name))
		}
		color[name] = gray
		f := byName[name]
		for _, dep := range append(append([]string{}, f.Require...), f.Request...) {
			if _, ok := byName[dep]; !ok {
				continue // unresolved cross-package dep checked at runtime, not here
			}
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		color[name] = black
		return nil
	}
	for _, f := range feats {
		if err := visit(f.Name, nil); err != nil {
			return err
		}
	}
	return nil
}
