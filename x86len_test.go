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

import "testing"

func TestX86Len(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want int
	}{
		{"nop", []byte{0x90, 0xCC}, 1},
		{"push-ebp", []byte{0x55}, 1},
		{"mov-eax-imm32", []byte{0xB8, 0x01, 0x02, 0x03, 0x04}, 5},
		{"mov-al-imm8", []byte{0xB0, 0x2A}, 2},
		{"jmp-rel32", []byte{0xE9, 0x00, 0x00, 0x00, 0x00}, 5},
		{"jmp-rel8", []byte{0xEB, 0x10}, 2},
		{"ret", []byte{0xC3}, 1},
		{"retn-imm16", []byte{0xC2, 0x04, 0x00}, 3},
		{"mov-reg-modrm", []byte{0x89, 0xC0}, 2}, // mov eax, eax
		{"mov-modrm-disp8", []byte{0x89, 0x45, 0xFC}, 3},
		{"group1-imm8", []byte{0x83, 0xC0, 0x04}, 3}, // add eax, 4
		{"group1-imm32", []byte{0x81, 0xC0, 0x01, 0x02, 0x03, 0x04}, 6},
		{"lea-sib", []byte{0x8D, 0x04, 0x24}, 3}, // lea eax, [esp]
		{"fstp-sib-regression", []byte{0xD9, 0x1C, 0x24}, 3},
		{"two-byte-movzx", []byte{0x0F, 0xB6, 0xC0}, 3},
		{"operand-size-prefix-mov", []byte{0x66, 0xB8, 0x01, 0x02}, 4},
		{"unrecognised", []byte{0x0F, 0x38, 0x00}, -1}, // unsupported 3-byte escape
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := x86Len(tt.in)
			if got != tt.want {
				t.Errorf("x86Len(% X) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestX86LenModRMDisp32(t *testing.T) {
	// mov [eax+disp32], eax — ModR/M mod=10, reg=000, rm=000 -> 0x80
	in := []byte{0x89, 0x80, 0x10, 0x20, 0x00, 0x00}
	if got := x86Len(in); got != 6 {
		t.Errorf("x86Len(% X) = %d, want 6", in, got)
	}
}

func TestX86LenThunkPrologueSum(t *testing.T) {
	// a typical 32-bit function prologue: push ebp; mov ebp, esp; sub esp, N
	insns := [][]byte{
		{0x55},
		{0x89, 0xE5},
		{0x83, 0xEC, 0x18},
	}
	total := 0
	for _, in := range insns {
		n := x86Len(in)
		if n < 0 {
			t.Fatalf("x86Len(% X) returned -1", in)
		}
		total += n
	}
	if total < 5 {
		t.Errorf("prologue total length = %d, want >= 5 for a hookable prologue", total)
	}
}
