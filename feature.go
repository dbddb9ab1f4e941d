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

// InitResult is what a feature's own Init/PreInit function returns,
// mirroring FEAT_SKIP/FEAT_OK/FEAT_FAIL/FEAT_INCOMPAT from feature.h.
type InitResult int

const (
	InitSkip InitResult = iota - 1
	InitOK
	InitFail
	InitIncompat
)

// FeatureStatus is the driver-assigned terminal state for a feature,
// strictly richer than InitResult: it also records *why* a feature never
// got to run its own Init at all (REQ_FAIL, NO_GD, NO_GLOBAL, PRE_FAIL).
type FeatureStatus int

const (
	StatusSkip FeatureStatus = iota
	StatusOK
	StatusReqFail
	StatusPreFail
	StatusNoGamedata
	StatusNoGlobal
	StatusFail
	StatusIncompat
)

func (s FeatureStatus) String() string {
	switch s {
	case StatusSkip:
		return "SKIP"
	case StatusOK:
		return "OK"
	case StatusReqFail:
		return "REQ_FAIL"
	case StatusPreFail:
		return "PRE_FAIL"
	case StatusNoGamedata:
		return "NO_GD"
	case StatusNoGlobal:
		return "NO_GLOBAL"
	case StatusFail:
		return "FAIL"
	case StatusIncompat:
		return "INCOMPAT"
	default:
		return "UNKNOWN"
	}
}

// FeatureDescriptor is the generated descriptor for one declared feature,
// the Go analogue of spec.md §9's recommended generated descriptor table
// entry. The slice of these is emitted by internal/featscan as
// zz_features_gen.go's package-level []FeatureDescriptor and converted
// into live Features by NewRegistry when the adapter runs its deferred
// init (Adapter.RunDeferredInit, on the first GameFrame after Load).
type FeatureDescriptor struct {
	Name         string
	Desc         string // empty => internal feature, not listed to users
	Tags         GameTag
	HasTags      bool // true if GAMESPECIFIC(...) was declared
	RequiredGD   []string
	RequiredVars []string // REQUIRE_GLOBAL names
	Require      []string // hard deps
	Request      []string // soft deps
	PreInit      func() InitResult
	Init         func() InitResult
	End          func()
}

// Feature is the live, mutable counterpart tracked by a Registry.
type Feature struct {
	FeatureDescriptor
	Status FeatureStatus
}

// HasRun reports whether this feature successfully reached OK, the
// condition under which its End routine must be invoked exactly once on
// teardown (§3's invariant).
func (f *Feature) HasRun() bool {
	return f.Status == StatusOK
}
