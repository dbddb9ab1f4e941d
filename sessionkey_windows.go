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

//go:build windows

package sst

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// lockPage pins b into the working set so it can never be paged to disk;
// Windows has no per-process core-dump or fork-inheritance analogue, so
// VirtualLock alone satisfies §3's physical-memory requirement here.
// VirtualLock/VirtualUnlock take a raw (addr, length) pair rather than a
// slice, matching platform_windows.go's own Protect implementation just
// above.
func lockPage(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&b[0]))
	if err := windows.VirtualLock(addr, uintptr(len(b))); err != nil {
		return fmt.Errorf("sst: VirtualLock: %w", err)
	}
	return nil
}

// unlockPage reverses lockPage, after the caller has already zeroed b.
func unlockPage(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&b[0]))
	if err := windows.VirtualUnlock(addr, uintptr(len(b))); err != nil {
		return fmt.Errorf("sst: VirtualUnlock: %w", err)
	}
	return nil
}
