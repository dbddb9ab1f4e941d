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

// Handler is one feature's registration for an event: Feature is the
// owning feature's name used to guard the call on Registry.Has (empty
// string means unconditional, declared outside any feature), and Call
// invokes the feature's handler with untyped args. The generated
// zzEventHandlersByName table (cmd/sstplugin/zz_features_gen.go) wraps
// each ordinary-event handler in a closure that calls it and returns true,
// and uses each predicate handler as Call directly.
type Handler struct {
	Feature string
	Call    func(args []any) (predicateResult bool)
}

// EmitEvent calls every ordinary-event handler in declared order and
// ignores each Call's bool result (events are void-returning by contract;
// Call returns one so a single Handler type serves both event kinds).
func EmitEvent(reg *Registry, handlers []Handler, args ...any) {
	for _, h := range handlers {
		if h.Feature != "" && !reg.Has(h.Feature) {
			continue
		}
		h.Call(args)
	}
}

// EmitPredicate calls every predicate handler in declared order, stopping
// (and returning false) at the first handler from an OK feature that
// itself returns false — the short-circuit spec.md §4.G and §8 scenario 5
// describe.
func EmitPredicate(reg *Registry, handlers []Handler, args ...any) bool {
	for _, h := range handlers {
		if h.Feature != "" && !reg.Has(h.Feature) {
			continue
		}
		if !h.Call(args) {
			return false
		}
	}
	return true
}
