// Copyright © 2023 Michael Smith <mikesmiffy128@gmail.com>
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

import "math"

// GameTag is one bit of the process-wide game-identity bitmask: engine
// branch, interface version, game family, or a specific version range.
// Tags are OR'd together during early adapter init and never change again.
type GameTag uint64

const (
	TagHL2 GameTag = 1 << iota
	TagPortal1
	TagPortal2
	TagL4D1
	TagL4D2
	TagTF2
	TagCSS
	TagEngineOrangeBox
	TagEngineNewer
	TagEngineOldest
)

// sentinelMissing is the reserved "no value in this game" marker: the
// lowest signed 32-bit integer, chosen because it's not a plausible offset
// or v-table index.
const sentinelMissing int32 = math.MinInt32

// GamedataEntry is the runtime form of one declared gamedata fact: either
// a compile-time constant (no conditional form existed at generation time)
// or a value assigned by NewGamedataStore by matching the identity
// bitmask against the entry's declared tag/expr pairs in order.
type GamedataEntry struct {
	Name  string
	Value int32
	Has   bool
}

// gamedataRule is one `tag expr` line under an entry in the DSL, kept in
// declared order since the first match wins (see §4.E).
type gamedataRule struct {
	Tags GameTag
	Expr int32
}

// GamedataDescriptor is what internal/gendsl emits one of per declared
// entry; NewGamedataStore consumes a slice of these.
type GamedataDescriptor struct {
	Name    string
	Default int32
	HasDef  bool
	Rules   []gamedataRule
	// GamesWith is the _GAMES_WITH_<entry> bitmask: the OR of the Tags of
	// the entry's top-level (unnested) rules, present only when HasDef is false (see §4.E's feature-elision
	// optimisation).
	GamesWith GameTag
}

// GamedataStore holds every entry's resolved value for the current game
// identity. Populated once during early adapter Load and read-only
// thereafter — no locking, matching spec.md §5's shared-resource model.
type GamedataStore struct {
	entries map[string]*GamedataEntry
}

// NewGamedataStore builds the runtime table from generated descriptors
// (internal/gendsl's zz_gamedata_gen.go output) by evaluating each
// descriptor's rules against identity in declared order and keeping the
// first match, or the default, or the sentinel.
func NewGamedataStore(identity GameTag, descs []GamedataDescriptor) *GamedataStore {
	s := &GamedataStore{entries: make(map[string]*GamedataEntry, len(descs))}
	for _, d := range descs {
		e := &GamedataEntry{Name: d.Name}
		assigned := false
		for _, r := range d.Rules {
			if identity&r.Tags != 0 {
				e.Value = r.Expr
				e.Has = true
				assigned = true
				break
			}
		}
		if !assigned {
			if d.HasDef {
				e.Value = d.Default
				e.Has = true
			} else {
				e.Value = sentinelMissing
				e.Has = false
			}
		}
		s.entries[d.Name] = e
	}
	return s
}

// Lookup returns the entry for name and whether it was declared at all
// (distinct from Has, which says whether it has a valid value in this
// game).
func (s *GamedataStore) Lookup(name string) (*GamedataEntry, bool) {
	e, ok := s.entries[name]
	return e, ok
}

// RequireAll reports whether every named entry both exists and has a
// valid value for the current game, the check behind a feature's
// REQUIRE_GAMEDATA declarations (§4.F step 3b, status NO_GD on failure).
func (s *GamedataStore) RequireAll(names []string) (missing string, ok bool) {
	for _, n := range names {
		e, found := s.entries[n]
		if !found || !e.Has {
			return n, false
		}
	}
	return "", true
}
