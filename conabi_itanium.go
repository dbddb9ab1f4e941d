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

// Itanium-ABI builds (Linux GCC/Clang) keep RTTI reachable purely through
// the vtable (no separate locator struct ahead of it the way MSVC needs),
// so con_var_common sits directly inside con_var with no extra pointer in
// between — commonOffset is 0 for both Itanium shapes.

var itaniumNewShape = cvarShape{
	kind: ABIItaniumNew,

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
	commonMinVal:     ptrSize*3 + 16,
	commonHasMax:     ptrSize*3 + 20,
	commonMaxVal:     ptrSize*3 + 24,

	vtableSlotsVar:     19,
	vtableSlotsIConVar: 8,
}

var itaniumOldShape = cvarShape{
	kind: ABIItaniumOld,

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
