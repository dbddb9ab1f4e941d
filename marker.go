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

// This file declares the marker functions a feature package calls at
// package scope to declare itself to internal/featscan, the Go analogue
// of cmeta.h's DEF_FEAT/REQUIRE/DEF_CVAR macro family. Every marker here
// is fully real Go — calling one does exactly what its doc comment says,
// nothing more — but the lifecycle/event wiring that actually drives a
// feature comes from the generated registration table internal/featscan
// builds by reading these call sites as source text, not from any
// runtime side effect the calls themselves have. A feature package
// should read as ordinary working Go to anyone who doesn't know or care
// that a generator also looks at it.

// Feature declares name as a feature this package implements, with the
// given human-readable description ("" for an internal feature never
// listed to users). Write it once per feature package as a package-level
// var:
//
//	var _ = sst.Feature("housekeeping", "periodic state bookkeeping")
//
// internal/featscan also looks, in the same package, for the functions
// PreInit, Init and End (each optional) to fill in the generated
// FeatureDescriptor's lifecycle callbacks.
func Feature(name, desc string) struct{} { return struct{}{} }

// Require lists other features this one hard-depends on: if any of them
// does not reach StatusOK, this feature gets StatusReqFail without its
// own Init ever running.
func Require(names ...string) struct{} { return struct{}{} }

// Request lists other features this one soft-depends on: it influences
// init order (requested features, if present at all, initialise first)
// but never forces a failure.
func Request(names ...string) struct{} { return struct{}{} }

// RequireGamedata lists gamedata entry names this feature needs resolved
// (to any rule, not necessarily the default) before it can run.
func RequireGamedata(names ...string) struct{} { return struct{}{} }

// RequireGlobal lists external global pointers/values (resolved directly
// against the host, outside the gamedata store) this feature needs
// non-null before it can run.
func RequireGlobal(names ...string) struct{} { return struct{}{} }

// GameSpecific restricts this feature to hosts whose detected identity
// matches at least one of the given tags.
func GameSpecific(tags ...GameTag) struct{} { return struct{}{} }

// DefCvar declares a console variable owned by the enclosing feature.
// Unlike the other markers, this one's return value is used directly:
// assign it to a package-level var and use that var as the live cvar.
func DefCvar(name, help, def string, flags ConFlag) *ConVar {
	return NewConVar(name, help, def, flags)
}

// DefCvarMin is DefCvar with a floor clamp.
func DefCvarMin(name, help, def string, flags ConFlag, min float32) *ConVar {
	return NewConVar(name, help, def, flags).WithMin(min)
}

// DefCvarMax is DefCvar with a ceiling clamp.
func DefCvarMax(name, help, def string, flags ConFlag, max float32) *ConVar {
	return NewConVar(name, help, def, flags).WithMax(max)
}

// DefCvarMinMax is DefCvar with both a floor and ceiling clamp.
func DefCvarMinMax(name, help, def string, flags ConFlag, min, max float32) *ConVar {
	return NewConVarMinMax(name, help, def, flags, min, max)
}

// DefCcmd declares a console command owned by the enclosing feature.
func DefCcmd(name, help string, flags ConFlag, cb func(argv []string)) *ConCommand {
	return &ConCommand{Name: name, Help: help, Flags: flags, Callback: cb}
}

// DefEvent declares name as a new ordinary event other features may
// handle via OnEvent, owned by (defined by) the enclosing feature.
// internal/featscan rejects any OnEvent/OnPredicate call naming an event
// no feature has declared with DefEvent/DefPredicate.
func DefEvent(name, desc string) struct{} { return struct{}{} }

// DefPredicate is DefEvent for a short-circuiting predicate event.
func DefPredicate(name, desc string) struct{} { return struct{}{} }

// OnEvent registers fn as a handler for the named ordinary event, run in
// declared order alongside every other feature's handler for the same
// event whenever EmitEvent fires it. fn must be a reference to an
// exported, package-level function (never a closure literal): the
// generated registration table refers to it by qualified name from
// outside the package, and a closure has no such name to take.
func OnEvent(eventName string, fn func(args []any)) struct{} { return struct{}{} }

// OnPredicate registers fn as a handler for the named predicate event;
// EmitPredicate stops at the first OK feature's handler that returns
// false. Same naming restriction as OnEvent applies to fn.
func OnPredicate(eventName string, fn func(args []any) bool) struct{} { return struct{}{} }
