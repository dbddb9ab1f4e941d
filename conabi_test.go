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

import (
	"errors"
	"testing"
)

// fakeMemPlatform backs DetectABI's memory reads with a plain byte slice
// indexed directly by address, standing in for a real process image.
type fakeMemPlatform struct {
	mem []byte
}

func (p *fakeMemPlatform) Protect([]byte, Prot) error { return nil }
func (p *fakeMemPlatform) ReadExecutable(addr uintptr, n int) []byte {
	end := int(addr) + n
	if end > len(p.mem) {
		end = len(p.mem)
	}
	if int(addr) >= end {
		return nil
	}
	return p.mem[addr:end]
}
func (p *fakeMemPlatform) SliceAddr(b []byte) uintptr           { return 0 }
func (p *fakeMemPlatform) OpenModule(string) (ModuleHandle, error) { return 0, nil }
func (p *fakeMemPlatform) Symbol(ModuleHandle, string) (uintptr, error) {
	return 0, errors.New("unsupported")
}
func (p *fakeMemPlatform) ModulePath(ModuleHandle) (string, error) { return "", nil }
func (p *fakeMemPlatform) RandomBytes(b []byte) error              { return nil }
func (p *fakeMemPlatform) PageSize() uintptr                       { return 4096 }

func TestDetectABIMatchesFirstCandidateWithSameLayout(t *testing.T) {
	// msvcOldShape and itaniumNewShape happen to share the same
	// cmdbaseSize+commonOffset+commonDefaultVal sum (con_var_common
	// starting right after con_cmdbase, default-value pointer one
	// pointer-width in),
	// so knownShapes's declared order decides which one DetectABI
	// reports — msvcOldShape comes first. This is exactly the ambiguity
	// a real probe has to accept: two shapes can only be told apart when
	// a later field (e.g. the hasmin/hasmax packing) disagrees too.
	const varAddr = 0
	const strAddr = 256
	mem := make([]byte, 512)
	mem[strAddr] = '0'
	mem[strAddr+1] = 0
	shape := msvcOldShape
	putU64(mem, varAddr+int(shape.cmdbaseSize)+int(shape.commonOffset)+int(shape.commonDefaultVal), strAddr)

	plat := &fakeMemPlatform{mem: mem}
	kind, gotShape, err := DetectABI(plat, varAddr, "0")
	if err != nil {
		t.Fatalf("DetectABI: %v", err)
	}
	if kind != ABIMSVCOld {
		t.Errorf("kind = %v, want %v", kind, ABIMSVCOld)
	}
	if gotShape.kind != ABIMSVCOld {
		t.Errorf("gotShape.kind = %v, want %v", gotShape.kind, ABIMSVCOld)
	}
}

func TestDetectABINoMatch(t *testing.T) {
	mem := make([]byte, 512)
	plat := &fakeMemPlatform{mem: mem}
	if _, _, err := DetectABI(plat, 0, "sv_cheats_default"); err == nil {
		t.Error("expected ErrABIUnrecognised, got nil")
	}
}

func putU64(mem []byte, offset int, v uint64) {
	for i := 0; i < 8; i++ {
		mem[offset+i] = byte(v >> (8 * i))
	}
}
