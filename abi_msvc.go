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

//go:build windows

package sst

import "unsafe"

// msvcRTTILocator is a minimal stand-in for MSVC's internal
// RTTICompleteObjectLocator: on this ABI the host only ever reads our
// v-table through a plain function-pointer array, never performs
// dynamic_cast on it, so the locator needs no real type descriptors —
// it exists purely so the pointer-sized slot immediately before the
// v-table array is present and zeroed, matching the layout con_.h's
// `_con_vtab_var_wrap` assumes for engine-owned objects of this shape.
type msvcRTTILocator struct {
	_ uintptr
}

// pluginVTableWrap lays out a single static object: an RTTI locator
// pointer slot followed by the v-table array itself. CreateInterface
// returns &pluginVTableWrap.vtable[0], exactly what the host expects to
// find at a C++ object's first field.
type pluginVTableWrap struct {
	rtti   *msvcRTTILocator
	vtable [int(SlotOnEdictFreed) + 1]uintptr
}

var pluginVTable pluginVTableWrap

// BuildPluginVTable populates the static v-table object's first n slots
// (per version.SlotCount()) with the given function pointers, in slot
// order, and returns the address the host's CreateInterface call should
// receive.
func BuildPluginVTable(version InterfaceVersion, fnPtrs []uintptr) unsafe.Pointer {
	n := version.SlotCount()
	for i := 0; i < n && i < len(fnPtrs); i++ {
		pluginVTable.vtable[i] = fnPtrs[i]
	}
	return unsafe.Pointer(&pluginVTable.vtable[0])
}
