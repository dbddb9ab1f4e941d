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

//go:build !windows

package sst

import (
	"fmt"

	"github.com/golang/glog"
	"golang.org/x/sys/unix"
)

// lockPage pins b (already page-sized and page-aligned) into physical
// memory and excludes it from core dumps, so a crash handler or ptrace
// snapshot taken by anything other than the process itself never sees
// the session key.
func lockPage(b []byte) error {
	if err := unix.Mlock(b); err != nil {
		return fmt.Errorf("sst: mlock: %w", err)
	}
	if err := unix.Madvise(b, unix.MADV_DONTDUMP); err != nil {
		// Not fatal: MADV_DONTDUMP is a hardening measure, not a
		// correctness requirement, and is absent on some kernels this
		// runtime still otherwise supports.
		glog.Warningf("sst: madvise(MADV_DONTDUMP) unsupported: %v", err)
	}
	if err := unix.Madvise(b, unix.MADV_DONTFORK); err != nil {
		// Same deal for fork exclusion: best-effort, per §3's "no fork
		// inheritance" wording rather than a hard guarantee.
		glog.Warningf("sst: madvise(MADV_DONTFORK) unsupported: %v", err)
	}
	return nil
}

// unlockPage reverses lockPage, after the caller has already zeroed b.
func unlockPage(b []byte) error {
	if err := unix.Munlock(b); err != nil {
		return fmt.Errorf("sst: munlock: %w", err)
	}
	return nil
}
