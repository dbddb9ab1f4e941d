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

// MSVC lays out con_cmdbase with a single leading vtable pointer (no RTTI
// offset field ahead of it — the msvc_rtti_locator instead sits *before*
// the vtable itself, found by walking backwards, which is why cmdbaseNext
// starts right after one pointer width). All offsets below are byte
// offsets, written as multiples of ptrSize for a 32-bit Source engine
// build, since every engine this targets so far is x86-32.
const ptrSize = 4

var msvcNewShape = cvarShape{
	kind: ABIMSVCNew,

	cmdbaseNext:  ptrSize,
	cmdbaseName:  ptrSize * 2,
	cmdbaseHelp:  ptrSize * 3,
	cmdbaseFlags: ptrSize * 4,
	cmdbaseSize:  ptrSize * 5,

	// con_var adds its own IConVar vtable pointer before v2, so the
	// common struct starts one pointer past the end of con_cmdbase.
	commonOffset: ptrSize,

	commonParent:     0,
	commonDefaultVal: ptrSize,
	commonStrVal:     ptrSize * 2,
	commonStrLen:     ptrSize * 3,
	commonFVal:       ptrSize*3 + 4,
	commonIVal:       ptrSize*3 + 8,
	commonHasMin:     ptrSize*3 + 12,
	commonMinVal:     ptrSize*3 + 16,
	commonHasMax:     ptrSize*3 + 20,
	commonMaxVal:     ptrSize*3 + 24,

	vtableSlotsVar:     19,
	vtableSlotsIConVar: 8,
}

// msvcOldShape is the pre-IConVar branch: no second vtable pointer, and
// hasmax packed immediately after hasmin rather than after minval, per
// con_.h's note that the "better packing" layout "would break engine
// ABI" on branches that predate the split.
var msvcOldShape = cvarShape{
	kind: ABIMSVCOld,

	cmdbaseNext:  ptrSize,
	cmdbaseName:  ptrSize * 2,
	cmdbaseHelp:  ptrSize * 3,
	cmdbaseFlags: ptrSize * 4,
	cmdbaseSize:  ptrSize * 5,

	commonOffset: 0,

	commonParent:     0,
	commonDefaultVal: ptrSize,
	commonStrVal:     ptrSize * 2,
	commonStrLen:     ptrSize * 3,
	commonFVal:       ptrSize*3 + 4,
	commonIVal:       ptrSize*3 + 8,
	commonHasMin:     ptrSize*3 + 12,
	commonHasMax:     ptrSize*3 + 13,
	commonMinVal:     ptrSize*3 + 16,
	commonMaxVal:     ptrSize*3 + 20,

	vtableSlotsVar:     19,
	vtableSlotsIConVar: 0,
}
