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

import (
	"errors"
	"sync"

	"github.com/golang/glog"
)

// Warning: half-arsed hacky implementation (because that's all we really
// need). Almost certainly breaks in some weird cases. Most of the time,
// v-table hooking is more reliable; this is only for emergencies.

const (
	trampolineArenaSize = 4096
	x86JmpIW            = 0xE9
	x86Call             = 0xE8
	maxThunkChase       = 16
)

var (
	ErrUnrecognizedInstruction = errors.New("sst: unknown or invalid instruction")
	ErrCallInPrologue          = errors.New("sst: can't trampoline call instructions")
	ErrJumpInPrologue          = errors.New("sst: can't trampoline jump instructions")
	ErrThunkChaseLimit         = errors.New("sst: thunk chase exceeded limit")
	ErrTrampolineArenaFull     = errors.New("sst: trampoline arena exhausted")
)

var trampolineArena struct {
	mu  sync.Mutex
	buf [trampolineArenaSize]byte
	off int
}

// InitHookArena marks the trampoline arena executable. Must be called once,
// before any call to HookInline, from the adapter's Load sequence.
func InitHookArena(plat Platform) error {
	return plat.Protect(trampolineArena.buf[:], ProtExecReadWrite)
}

// InlineHook is the installed state of one inline hook: the patched
// prologue address and the trampoline that replays the original bytes.
type InlineHook struct {
	Prologue   []byte // the patched bytes at the original function entry
	Trampoline []byte // callable: runs the original prologue, jumps back
}

// prepInlineHook implements hook_inline_prep: it thunk-chases to the real
// function entry, walks instructions via x86Len until at least 5 bytes of
// prologue are covered, and carves a trampoline out of the shared arena.
// It does not touch the target's memory protection or write the jump; that
// is HookInline's job, so that a failed prep never mutates the hookee.
func prepInlineHook(fn []byte, readExec func(addr uintptr, n int) []byte, addr uintptr) (prologueLen int, trampoline []byte, err error) {
	chases := 0
	for fn[0] == x86JmpIW {
		disp := loadS32(fn[1:5])
		addr = addr + uintptr(5+int(disp))
		fn = readExec(addr, 16)
		chases++
		if chases > maxThunkChase {
			return 0, nil, ErrThunkChaseLimit
		}
	}

	length := 0
	for {
		if fn[length] == x86Call {
			return 0, nil, ErrCallInPrologue
		}
		ilen := x86Len(fn[length:])
		if ilen == -1 {
			return 0, nil, ErrUnrecognizedInstruction
		}
		length += ilen
		if length >= 5 {
			break
		}
		if fn[length] == x86JmpIW {
			return 0, nil, ErrJumpInPrologue
		}
	}

	tramp, err := allocTrampoline(fn[:length], length)
	if err != nil {
		return 0, nil, err
	}
	return length, tramp, nil
}

// allocTrampoline carves 1 (length byte) + length (copied prologue) + 5
// (jmp rel32 opcode+operand) bytes out of the shared arena, mirroring
// hook_inline_prep's layout exactly: a length-prefix byte behind the
// returned slice recording how many prologue bytes were copied.
func allocTrampoline(prologue []byte, length int) ([]byte, error) {
	trampolineArena.mu.Lock()
	defer trampolineArena.mu.Unlock()

	need := 1 + length + 5
	if trampolineArena.off+need > trampolineArenaSize {
		return nil, ErrTrampolineArenaFull
	}
	base := trampolineArena.off
	trampolineArena.buf[base] = byte(length)
	tramp := trampolineArena.buf[base+1 : base+1+length]
	copy(tramp, prologue)
	trampolineArena.off = base + need

	jmpAt := trampolineArena.buf[base+1+length : base+1+length+5]
	jmpAt[0] = x86JmpIW
	// the relative displacement back to the instruction following the
	// patched prologue is filled in by HookInline once the true target
	// address is known; zero it here.
	storeS32(jmpAt[1:5], 0)

	return tramp, nil
}

// HookInline installs a 5-byte near jump at the start of fn that transfers
// control to handler, and returns the trampoline that replays fn's original
// prologue before jumping back to the first untouched instruction. plat
// provides the page-protection flip (component C's job is done via plat).
func HookInline(plat Platform, fnAddr uintptr, fn []byte, handlerAddr uintptr) (*InlineHook, error) {
	length, tramp, err := prepInlineHook(fn, func(addr uintptr, n int) []byte {
		return plat.ReadExecutable(addr, n)
	}, fnAddr)
	if err != nil {
		glog.Warningf("sst: inline hook prep failed at %#x: %v", fnAddr, err)
		return nil, err
	}

	// patch the trampoline's trailing jump to point back at fnAddr+length.
	contAddr := fnAddr + uintptr(length)
	trampJmpOperand := tramp[length+1 : length+5]
	diff := int32(int64(contAddr) - int64(trampolineAddr(plat, tramp)+uintptr(length)+5))
	storeS32(trampJmpOperand, diff)

	if err := plat.Protect(fn[:5], ProtExecReadWrite); err != nil {
		glog.Errorf("sst: mprotect failed hooking %#x: %v", fnAddr, err)
		return nil, err
	}
	hookDiff := int32(int64(handlerAddr) - int64(fnAddr+5))
	fn[0] = x86JmpIW
	storeS32(fn[1:5], hookDiff)

	return &InlineHook{Prologue: fn[:length], Trampoline: tramp}, nil
}

// trampolineAddr recovers the absolute address of a trampoline slice for
// relative-jump arithmetic; the arena is a single static buffer so this is
// just base-plus-offset.
func trampolineAddr(plat Platform, tramp []byte) uintptr {
	return plat.SliceAddr(tramp)
}

// UnhookInline restores len(hook.Prologue) original bytes (the count the
// trampoline's length-prefix byte also records) from the trampoline copy. The
// write is not atomic: callers must ensure no other thread is executing the
// prologue concurrently, matching the original's own caveat — in practice
// enforced by SST never unhooking off the host's main thread while other
// threads could be mid-call through the hook.
func UnhookInline(hook *InlineHook) {
	copy(hook.Prologue, hook.Trampoline[:len(hook.Prologue)])
}
