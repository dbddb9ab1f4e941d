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

//go:build !windows

package sst

import "unsafe"

// itaniumVMITypeInfo stands in for the Itanium C++ ABI's
// __vmi_class_type_info: present ahead of the v-table purely so the
// object's shape matches what a real engine-side RTTI walk (e.g. a
// dynamic_cast against IServerPluginCallbacks) would find, per con_.h's
// `_con_vtab_var_wrap` precedent for this ABI (topoffset then rtti
// pointer, both ahead of the vtable array).
type itaniumVMITypeInfo struct {
	_ uintptr
}

type pluginVTableWrap struct {
	topOffset uintptr
	rtti      *itaniumVMITypeInfo
	vtable    [int(SlotOnEdictFreed) + 1]uintptr
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
