// Copyright © Michael Smith <mikesmiffy128@gmail.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted, provided that the above
// copyright notice and this permission notice appear in all copies.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.

package sst

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
)

// ErrFeatureCycle is returned by NewRegistry when the declared REQUIRE and
// REQUEST edges between known features form a cycle; the generator-side check (internal/featscan) is
// expected to catch this earlier, but the runtime re-validates since a
// hand-built descriptor table (e.g. in tests) could still be cyclic.
var ErrFeatureCycle = errors.New("sst: feature dependency cycle")

// Registry holds every known feature and drives init/teardown in
// dependency order. Unlike the teacher's worker.go (a concurrent,
// channel-driven job scheduler), Init here runs entirely on the calling
// goroutine: spec.md §5 requires feature init to happen on the host's main
// thread, so the dependency-counting idiom worker.go uses for a ready
// queue is kept (it's still the right way to get a deterministic
// topological order out of a DAG) but the channel/goroutine plumbing
// around it is not.
type Registry struct {
	byName   map[string]*Feature
	ordered  []*Feature // topological order, computed once at construction
	gamedata *GamedataStore
	globals  map[string]bool // REQUIRE_GLOBAL name -> non-null?
}

// NewRegistry builds a Registry from generated feature descriptors,
// computing a topological order via Kahn's algorithm over the REQUIRE and
// REQUEST edges between features present in descs; both kinds take part
// in ordering and in cycle detection. A dependency naming a feature not in
// descs adds no edge: a missing REQUIRE then yields StatusReqFail in
// InitAll, and a missing REQUEST is ignored. Features that become ready at
// the same point keep their descs order.
func NewRegistry(descs []FeatureDescriptor, gd *GamedataStore, globals map[string]bool) (*Registry, error) {
	r := &Registry{
		byName:   make(map[string]*Feature, len(descs)),
		gamedata: gd,
		globals:  globals,
	}
	for _, d := range descs {
		r.byName[d.Name] = &Feature{FeatureDescriptor: d}
	}

	numDeps := make(map[string]int, len(descs))
	dependents := make(map[string][]string, len(descs))
	for _, d := range descs {
		deps := append(append([]string{}, d.Require...), d.Request...)
		numDeps[d.Name] = 0
		for _, dep := range deps {
			if _, known := r.byName[dep]; !known {
				continue
			}
			numDeps[d.Name]++
			dependents[dep] = append(dependents[dep], d.Name)
		}
	}

	var ready []string
	for _, d := range descs {
		if numDeps[d.Name] == 0 {
			ready = append(ready, d.Name)
		}
	}
	var order []string
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		for _, dep := range dependents[name] {
			numDeps[dep]--
			if numDeps[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}
	if len(order) != len(descs) {
		return nil, fmt.Errorf("%w: %d of %d features unreachable in topological sort", ErrFeatureCycle, len(descs)-len(order), len(descs))
	}
	for _, name := range order {
		r.ordered = append(r.ordered, r.byName[name])
	}
	return r, nil
}

// Status returns the current status of a named feature, or StatusSkip for
// an unknown name (the same "pretend it doesn't exist" treatment the
// original gives FEAT_SKIP).
func (r *Registry) Status(name string) FeatureStatus {
	if f, ok := r.byName[name]; ok {
		return f.Status
	}
	return StatusSkip
}

// Has reports whether a feature is present and reached StatusOK, the
// runtime form of the generated has_<feature> boolean.
func (r *Registry) Has(name string) bool {
	return r.Status(name) == StatusOK
}

// InitAll runs PreInit (if present) then the §4.F step-3 checks and Init
// for every feature in topological order, returning the final status of
// each in that same order.
func (r *Registry) InitAll(identity GameTag) []FeatureStatus {
	statuses := make([]FeatureStatus, 0, len(r.ordered))
	for _, f := range r.ordered {
		r.initOne(identity, f)
		statuses = append(statuses, f.Status)
	}
	return statuses
}

func (r *Registry) initOne(identity GameTag, f *Feature) {
	if f.PreInit != nil {
		res := f.PreInit()
		if res != InitOK {
			f.Status = preInitFailStatus(res)
			glog.Warningf("sst: feature %q pre-init: %s", f.Name, f.Status)
			return
		}
	}

	if f.HasTags && identity&f.Tags == 0 {
		f.Status = StatusSkip
		return
	}

	if missing, ok := r.gamedata.RequireAll(f.RequiredGD); !ok {
		glog.Warningf("sst: feature %q missing gamedata %q", f.Name, missing)
		f.Status = StatusNoGamedata
		return
	}

	for _, v := range f.RequiredVars {
		if !r.globals[v] {
			glog.Warningf("sst: feature %q missing global %q", f.Name, v)
			f.Status = StatusNoGlobal
			return
		}
	}

	for _, dep := range f.Require {
		if r.Status(dep) != StatusOK {
			glog.Warningf("sst: feature %q requires %q which is not OK", f.Name, dep)
			f.Status = StatusReqFail
			return
		}
	}

	if f.Init == nil {
		f.Status = StatusOK
		return
	}
	switch res := f.Init(); res {
	case InitOK:
		f.Status = StatusOK
	case InitSkip:
		f.Status = StatusSkip
	case InitIncompat:
		f.Status = StatusIncompat
	default:
		glog.Errorf("sst: feature %q init failed", f.Name)
		f.Status = StatusFail
	}
}

func preInitFailStatus(res InitResult) FeatureStatus {
	switch res {
	case InitSkip:
		return StatusSkip
	case InitIncompat:
		return StatusIncompat
	default:
		return StatusPreFail
	}
}

// TeardownAll calls End on every successfully initialised feature, in the
// reverse of the order in which they *successfully* initialised — not
// simply the reverse topological order, since some features in that order
// may have ended up skipped or failed.
func (r *Registry) TeardownAll() {
	var ranOK []*Feature
	for _, f := range r.ordered {
		if f.HasRun() {
			ranOK = append(ranOK, f)
		}
	}
	for i := len(ranOK) - 1; i >= 0; i-- {
		f := ranOK[i]
		if f.End != nil {
			glog.V(1).Infof("sst: tearing down feature %q", f.Name)
			f.End()
		}
	}
}
