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
)

// ABIKind identifies which of the handful of known con_var/con_cmdbase
// struct shapes the host engine binary actually uses. The shape varies by
// compiler (MSVC vs Itanium-ABI GCC/Clang) and, independently, by engine
// branch: older branches pack con_var_common's hasmin/hasmax bools
// differently to stay binary-compatible with even older SDKs (see
// con_.h's "better packing here, would break engine ABI" comment).
type ABIKind int

const (
	ABIUnknown ABIKind = iota
	ABIMSVCOld
	ABIMSVCNew
	ABIItaniumOld
	ABIItaniumNew
)

func (k ABIKind) String() string {
	switch k {
	case ABIMSVCOld:
		return "msvc-old"
	case ABIMSVCNew:
		return "msvc-new"
	case ABIItaniumOld:
		return "itanium-old"
	case ABIItaniumNew:
		return "itanium-new"
	default:
		return "unknown"
	}
}

// cvarShape is a byte-offset table into a live con_var struct, one
// instance per known ABIKind. Everything here is data, not code: the
// four known shapes are declared as package vars in conabi_msvc.go and
// conabi_itanium.go, and DetectABI just figures out which one matches.
type cvarShape struct {
	kind ABIKind

	// offsets within con_cmdbase, common to every shape.
	cmdbaseNext     uintptr
	cmdbaseName     uintptr
	cmdbaseHelp     uintptr
	cmdbaseFlags    uintptr
	cmdbaseSize     uintptr // sizeof(con_cmdbase), i.e. where con_var's union starts

	// commonOffset locates con_var_common within con_var's union (counted
	// from cmdbaseSize): 0 for the
	// itanium layout (no vtable_iconvar indirection struct wrapping it),
	// pointer-sized for MSVC's v1/v2 union member after the IConVar
	// vtable pointer.
	commonOffset uintptr

	// offsets within con_var_common.
	commonParent     uintptr
	commonDefaultVal uintptr
	commonStrVal     uintptr
	commonStrLen     uintptr
	commonFVal       uintptr
	commonIVal       uintptr
	commonHasMin     uintptr
	commonMinVal     uintptr
	commonHasMax     uintptr
	commonMaxVal     uintptr

	vtableSlotsVar     int // len(_con_vtab_var)
	vtableSlotsIConVar int // len(_con_vtab_iconvar), 0 if this shape predates IConVar
}

// ErrABIUnrecognised is returned by DetectABI when no known shape's
// defaultval field, read back through the probe pointer, matches the
// expected string.
var ErrABIUnrecognised = errors.New("sst: no known ConVar ABI shape matched")

// knownShapes is consulted in this fixed order and the first match wins.
// probeMatches compares only the defaultval pointer, read at
// cmdbaseSize+commonOffset+commonDefaultVal, so shapes that put it at the
// same offset (msvcOldShape, itaniumNewShape and itaniumOldShape do) are
// not told apart: the earliest listed of them is reported.
var knownShapes = []*cvarShape{
	&msvcNewShape,
	&msvcOldShape,
	&itaniumNewShape,
	&itaniumOldShape,
}

// DetectABI identifies the host engine's ConVar ABI by reading a
// known-existing variable's raw bytes through plat and checking, for each
// candidate shape, whether the defaultval field (interpreted as a
// C-string pointer at that shape's offset) dereferences to wantDefault.
// This is the "version-unique variable name" probe: callers pass the
// address of some engine cvar whose default value string is known ahead
// of time (sv_cheats's "0", for instance) and unique enough not to
// false-positive against a neighbouring field under the wrong shape.
func DetectABI(plat Platform, varAddr uintptr, wantDefault string) (ABIKind, *cvarShape, error) {
	for _, shape := range knownShapes {
		if probeMatches(plat, varAddr, shape, wantDefault) {
			return shape.kind, shape, nil
		}
	}
	return ABIUnknown, nil, fmt.Errorf("%w (probed %d candidates)", ErrABIUnrecognised, len(knownShapes))
}

func probeMatches(plat Platform, varAddr uintptr, shape *cvarShape, want string) bool {
	base := varAddr + shape.cmdbaseSize + shape.commonOffset + shape.commonDefaultVal
	raw := plat.ReadExecutable(base, 8)
	if len(raw) < 8 {
		return false
	}
	ptr := uintptr(loadU64(raw))
	if ptr == 0 {
		return false
	}
	s := readCStringAt(plat, ptr, len(want)+1)
	return s == want
}

// readCStringAt reads up to max bytes starting at addr and returns the
// portion before the first NUL, or "" if none is found in range.
func readCStringAt(plat Platform, addr uintptr, max int) string {
	raw := plat.ReadExecutable(addr, max)
	for i, b := range raw {
		if b == 0 {
			return string(raw[:i])
		}
	}
	return ""
}
