// Copyright © Michael Smith <mikesmiffy128@gmail.com>
// Copyright © Willian Henrique <wsimanbrazil@yahoo.com.br>
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

import "testing"

// These tests exercise hook_inline_prep's bookkeeping (thunk-chasing,
// prologue-length accumulation, trampoline byte layout) against literal
// byte sequences. The true end-to-end trampoline round-trip described in
// spec scenario 1 — installing a hook over a live, callable function and
// observing the patched behaviour — needs a native test harness that can
// call through a raw code pointer, and these tests do not cover it, since
// constructing a callable function value from a bare uintptr is not
// something plain Go supports without cgo or assembly stubs.

func TestPrepInlineHookSimpleProlgue(t *testing.T) {
	// push ebp; mov ebp, esp; sub esp, 0x18; ...
	fn := []byte{0x55, 0x89, 0xE5, 0x83, 0xEC, 0x18, 0xC3}
	length, tramp, err := prepInlineHook(fn, func(addr uintptr, n int) []byte {
		t.Fatalf("readExec should not be called when there's no thunk")
		return nil
	}, 0x1000)
	if err != nil {
		t.Fatalf("prepInlineHook: %v", err)
	}
	if length < 5 {
		t.Errorf("prologue length = %d, want >= 5", length)
	}
	if len(tramp) != length {
		t.Errorf("trampoline copy length = %d, want %d", len(tramp), length)
	}
	for i := range tramp {
		if tramp[i] != fn[i] {
			t.Errorf("trampoline[%d] = %#x, want copied byte %#x", i, tramp[i], fn[i])
		}
	}
	// the jmp opcode immediately follows the copied prologue.
	if trampolineArena.buf[trampolineArena.off-5] != x86JmpIW {
		t.Errorf("trampoline tail is not a near jump")
	}
}

func TestPrepInlineHookThunkChase(t *testing.T) {
	thunk := []byte{0xE9, 0x0A, 0x00, 0x00, 0x00} // jmp +10
	real := []byte{0x55, 0x89, 0xE5, 0x83, 0xEC, 0x18, 0xC3}
	calls := 0
	_, _, err := prepInlineHook(thunk, func(addr uintptr, n int) []byte {
		calls++
		return real
	}, 0x2000)
	if err != nil {
		t.Fatalf("prepInlineHook: %v", err)
	}
	if calls != 1 {
		t.Errorf("readExec called %d times, want 1 (single thunk hop)", calls)
	}
}

func TestPrepInlineHookRejectsCall(t *testing.T) {
	fn := []byte{0xE8, 0x00, 0x00, 0x00, 0x00, 0x90, 0x90, 0x90}
	_, _, err := prepInlineHook(fn, nil, 0x3000)
	if err != ErrCallInPrologue {
		t.Errorf("err = %v, want ErrCallInPrologue", err)
	}
}

func TestPrepInlineHookThunkChaseLimit(t *testing.T) {
	thunk := []byte{0xE9, 0x00, 0x00, 0x00, 0x00}
	_, _, err := prepInlineHook(thunk, func(addr uintptr, n int) []byte {
		return thunk // infinite self-loop
	}, 0x4000)
	if err != ErrThunkChaseLimit {
		t.Errorf("err = %v, want ErrThunkChaseLimit", err)
	}
}
