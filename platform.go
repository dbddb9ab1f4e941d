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

// Prot is a page-protection request, named after the Windows PAGE_* and
// POSIX PROT_* constants it's translated to on each platform.
type Prot int

const (
	ProtNone Prot = iota
	ProtReadOnly
	ProtReadWrite
	ProtExecRead
	ProtExecReadWrite
)

// Platform is the seam between the runtime and the two operating systems
// SST loads into. Implementations must not allocate on the hot paths
// (Protect, ReadExecutable) since those run from inside inline-hook setup,
// which in turn may run from inside a feature's init on the host's main
// thread.
type Platform interface {
	// Protect changes the page protection covering b's backing memory,
	// rounding to page boundaries internally.
	Protect(b []byte, prot Prot) error

	// ReadExecutable returns a view of n bytes of executable memory at
	// addr, for instruction decoding. The returned slice aliases live
	// process memory; callers must not retain it past the immediate scan.
	ReadExecutable(addr uintptr, n int) []byte

	// SliceAddr returns the absolute address backing a byte slice
	// previously obtained from this Platform (e.g. a trampoline slot),
	// for relative-jump displacement arithmetic.
	SliceAddr(b []byte) uintptr

	// OpenModule resolves a dynamic-library/module name to a handle, the
	// in-process analogue of dlopen/GetModuleHandle for libraries already
	// loaded by the host.
	OpenModule(name string) (ModuleHandle, error)

	// Symbol resolves an exported symbol's address within a module.
	Symbol(mod ModuleHandle, name string) (uintptr, error)

	// ModulePath returns the on-disk path a module handle was loaded
	// from, used by the autoload-file writer to compute a relative path.
	ModulePath(mod ModuleHandle) (string, error)

	// RandomBytes fills b with cryptographically secure random bytes,
	// backing the session-key feature's PRNG seed.
	RandomBytes(b []byte) error

	// PageSize reports the platform's memory page granularity.
	PageSize() uintptr
}

// ModuleHandle is an opaque, platform-specific module identifier.
type ModuleHandle uintptr

// LastError is a per-goroutine analogue of the original's per-thread "last
// error" integer, deliberately distinct from whatever the stdlib os.*
// functions report, since the platform seam talks directly to raw syscalls
// on the hot paths above rather than going through os.File.
type LastError struct {
	Code int32
	Op   string
}

func (e *LastError) Error() string {
	if e == nil {
		return "sst: no error"
	}
	return e.Op + ": platform error " + itoa(e.Code)
}

func itoa(n int32) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
