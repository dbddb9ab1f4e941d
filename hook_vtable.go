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

import "unsafe"

// VTableHook remembers one replaced slot so Unhook can restore it.
type VTableHook struct {
	slots    []uintptr
	index    int
	original uintptr
}

// HookVTable replaces the function pointer at the given index of a C++
// virtual dispatch table (vtbl points at slot 0) with replacement, and
// returns a VTableHook that can restore the previous value. The caller
// must have already made the containing page writable (component C /
// Platform.Protect) — this function assumes it can write directly.
func HookVTable(vtbl unsafe.Pointer, index int, replacement uintptr) *VTableHook {
	slots := unsafe.Slice((*uintptr)(vtbl), index+1)
	h := &VTableHook{slots: slots, index: index, original: slots[index]}
	slots[index] = replacement
	return h
}

// Unhook writes the saved original function pointer back into its slot.
func (h *VTableHook) Unhook() {
	h.slots[h.index] = h.original
}

// Original returns the function pointer that was in the slot before
// hooking, for hooks that need to chain to the real implementation.
func (h *VTableHook) Original() uintptr {
	return h.original
}
