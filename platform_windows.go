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

// WindowsPlatform implements Platform for the Windows builds of the Source
// engine. MSVC single-inheritance v-table layout (with RTTI locators) is
// assumed elsewhere; this file only covers the OS seam.
type WindowsPlatform struct{}

var _ Platform = WindowsPlatform{}

func (WindowsPlatform) PageSize() uintptr {
	var si windows.SystemInfo
	windows.GetSystemInfo(&si)
	return uintptr(si.PageSize)
}

func winProt(p Prot) uint32 {
	switch p {
	case ProtReadOnly:
		return windows.PAGE_READONLY
	case ProtReadWrite:
		return windows.PAGE_READWRITE
	case ProtExecRead:
		return windows.PAGE_EXECUTE_READ
	case ProtExecReadWrite:
		return windows.PAGE_EXECUTE_READWRITE
	default:
		return windows.PAGE_NOACCESS
	}
}

func (w WindowsPlatform) Protect(b []byte, prot Prot) error {
	if len(b) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&b[0]))
	start, size := pageRound(addr, uintptr(len(b)), w.PageSize())
	var old uint32
	if err := windows.VirtualProtect(start, size, winProt(prot), &old); err != nil {
		return &LastError{Code: int32(err.(windows.Errno)), Op: "VirtualProtect"}
	}
	return nil
}

func (WindowsPlatform) ReadExecutable(addr uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}

func (WindowsPlatform) SliceAddr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

func (WindowsPlatform) OpenModule(name string) (ModuleHandle, error) {
	// Narrow-to-wide conversion happens right at this syscall boundary,
	// not anywhere inside the core, per spec.md's platform-seam note.
	u16, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, fmt.Errorf("sst: encode module name %q: %w", name, err)
	}
	h, err := windows.GetModuleHandle(u16)
	if err != nil {
		return 0, fmt.Errorf("sst: GetModuleHandle(%q): %w", name, err)
	}
	return ModuleHandle(h), nil
}

func (WindowsPlatform) Symbol(mod ModuleHandle, name string) (uintptr, error) {
	proc, err := windows.GetProcAddress(windows.Handle(mod), name)
	if err != nil {
		return 0, fmt.Errorf("sst: GetProcAddress(%q): %w", name, err)
	}
	return proc, nil
}

func (WindowsPlatform) ModulePath(mod ModuleHandle) (string, error) {
	buf := make([]uint16, windows.MAX_PATH)
	n, err := windows.GetModuleFileName(windows.Handle(mod), &buf[0], uint32(len(buf)))
	if err != nil || n == 0 {
		return "", fmt.Errorf("sst: GetModuleFileName: %w", err)
	}
	return windows.UTF16ToString(buf[:n]), nil
}

func (WindowsPlatform) RandomBytes(b []byte) error {
	return windows.RtlGenRandom(b)
}
