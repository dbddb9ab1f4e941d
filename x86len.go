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

// x86 prefix bytes recognised before the opcode proper.
const (
	x86PfxAdsz = 0x67
	x86PfxOpsz = 0x66
	x86PfxLock = 0xF0
	x86PfxRepn = 0xF2
	x86PfxRep  = 0xF3
	x86Seg1    = 0x26
	x86Seg2    = 0x2E
	x86Seg3    = 0x36
	x86Seg4    = 0x3E
	x86Seg5    = 0x64
	x86Seg6    = 0x65

	x862Byte  = 0x0F
	x86Enter  = 0xC8
	x86Crazy8 = 0xF6
	x86CrazyW = 0xF7

	x863Byte1 = 0x38
	x863Byte2 = 0x3A
	x863DNow  = 0x0F // placeholder handled explicitly below
)

// opcode shape classification, mirroring the curated table the original
// groups under X86_OPS_*_* macros.
type opShape byte

const (
	shapeUnknown opShape = iota
	shapeNoOperand
	shapeImm8
	shapeImmWord
	shapeImm16
	shapeModRM
	shapeModRMImm8
	shapeModRMImmWord
)

var oneByteShape [256]opShape
var twoByteShape [256]opShape

func init() {
	set := func(tbl *[256]opShape, shape opShape, bytes ...byte) {
		for _, b := range bytes {
			tbl[b] = shape
		}
	}

	// one-byte opcodes with no operand at all (register forms of
	// arithmetic ops, push/pop reg, inc/dec reg, misc single-byte insns).
	var noOperand []byte
	for _, base := range []byte{0x50, 0x58} { // push/pop r32
		for i := byte(0); i < 8; i++ {
			noOperand = append(noOperand, base+i)
		}
	}
	for _, base := range []byte{0x40, 0x48} { // inc/dec r32 (not valid w/ REX but fine in 32-bit mode)
		for i := byte(0); i < 8; i++ {
			noOperand = append(noOperand, base+i)
		}
	}
	for _, base := range []byte{0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97} { // xchg eAX, rN
		noOperand = append(noOperand, base)
	}
	noOperand = append(noOperand,
		0x90,       // nop
		0x98, 0x99, // cwde, cdq
		0x9C, 0x9D, // pushf, popf
		0xC3, 0xC9, // ret, leave
		0xCC,       // int3
		0xF4,       // hlt
		0xF5,       // cmc
		0xF8, 0xF9, // clc, stc
		0xFA, 0xFB, // cli, sti
		0xFC, 0xFD, // cld, std
	)
	set(&oneByteShape, shapeNoOperand, noOperand...)

	// 8-bit immediate only.
	var imm8 []byte
	for i := byte(0); i < 8; i++ {
		imm8 = append(imm8, 0x04+i*8) // al, $imm8 forms (add/or/adc/sbb/and/sub/xor/cmp)
	}
	imm8 = append(imm8,
		0x6A,       // push imm8
		0xA8,       // test al, imm8
		0xCD,       // int imm8
		0xEB,       // jmp rel8
		0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x76, 0x77, // jcc rel8
		0x78, 0x79, 0x7A, 0x7B, 0x7C, 0x7D, 0x7E, 0x7F,
	)
	for i := byte(0); i < 8; i++ {
		imm8 = append(imm8, 0xB0+i) // mov r8, imm8
	}
	set(&oneByteShape, shapeImm8, imm8...)

	// word/dword immediate, operand-size dependent.
	var immW []byte
	for i := byte(0); i < 8; i++ {
		immW = append(immW, 0x05+i*8) // eAX, $immW forms
	}
	immW = append(immW, 0x68, 0xA9, 0xE8, 0xE9) // push immW, test eAX, call rel32, jmp rel32
	for i := byte(0); i < 8; i++ {
		immW = append(immW, 0xB8+i) // mov r32, immW
	}
	set(&oneByteShape, shapeImmWord, immW...)

	// fixed 16-bit immediate (retn imm16).
	set(&oneByteShape, shapeImm16, 0xC2)

	// ModR/M only, no immediate.
	var modrm []byte
	modrm = append(modrm,
		0x00, 0x01, 0x02, 0x03, 0x08, 0x09, 0x0A, 0x0B,
		0x10, 0x11, 0x12, 0x13, 0x18, 0x19, 0x1A, 0x1B,
		0x20, 0x21, 0x22, 0x23, 0x28, 0x29, 0x2A, 0x2B,
		0x30, 0x31, 0x32, 0x33, 0x38, 0x39, 0x3A, 0x3B,
		0x84, 0x85, 0x86, 0x87, // test/xchg
		0x88, 0x89, 0x8A, 0x8B, // mov
		0x8D,       // lea
		0x8F,       // pop r/m
		0xD1, 0xD3, // shift group, cl/1
		0xFE, 0xFF, // inc/dec/call/jmp/push group
	)
	for i := byte(0xD8); i <= 0xDF; i++ { // x87 FPU escape opcodes, all ModR/M
		modrm = append(modrm, i)
	}
	set(&oneByteShape, shapeModRM, modrm...)

	// ModR/M plus an 8-bit immediate.
	set(&oneByteShape, shapeModRMImm8,
		0x6B, // imul r, r/m, imm8
		0x80, // group1 r/m8, imm8
		0x82,
		0x83,       // group1 r/m32, sign-extended imm8
		0xC0, 0xC1, // shift group, imm8
		0xC6, // mov r/m8, imm8
	)

	// ModR/M plus a word/dword immediate.
	set(&oneByteShape, shapeModRMImmWord,
		0x69, // imul r, r/m, immW
		0x81, // group1 r/m, immW
		0xC7, // mov r/m, immW
	)

	// two-byte (0F xx) opcodes.
	set(&twoByteShape, shapeNoOperand,
		0x05, 0x31, // syscall, rdtsc
		0x77, // emms
		0xA2, // cpuid
	)
	var jccRel []byte
	for i := byte(0x80); i <= 0x8F; i++ {
		jccRel = append(jccRel, i)
	}
	set(&twoByteShape, shapeImmWord, jccRel...)
	set(&twoByteShape, shapeModRM,
		0x1F,       // nop r/m
		0xAF,       // imul
		0xB6, 0xB7, // movzx
		0xBE, 0xBF, // movsx
		0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47, // cmovcc
		0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F,
		0x90, 0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97, // setcc
		0x98, 0x99, 0x9A, 0x9B, 0x9C, 0x9D, 0x9E, 0x9F,
	)
	set(&twoByteShape, shapeModRMImm8,
		0xA4, 0xAC, // shld/shrd imm8
		0xBA, // group, r/m, imm8
	)
}

// mrmsib computes the length, in bytes, of a ModR/M byte plus any SIB and
// displacement bytes that follow it, given addrlen (2 for 16-bit addressing,
// 4 for 32-bit addressing). Ported line-for-line from the reference
// implementation; the author's own code comment about not fully
// understanding it is kept because it is still true.
func mrmsib(p []byte, addrlen int) int {
	// I won't lie: I thought I almost understood this, but after having it
	// explained I now realise that I don't really understand it at all.
	if addrlen == 4 || p[0]&0xC0 != 0 {
		sib := 0
		if addrlen == 4 && p[0] < 0xC0 && p[0]&7 == 4 {
			sib = 1
		}
		switch p[0] & 0xC0 {
		case 0x40: // disp8
			return 2 + sib
		case 0x00: // disp16/32, or [disp32]/SIB special case
			if p[0]&7 != 5 {
				if sib == 1 && p[1]&7 == 5 {
					if p[0]&0x40 != 0 {
						return 3
					}
					return 6
				}
				return 1 + sib
			}
			return 1 + addrlen + sib
		case 0x80:
			return 1 + addrlen + sib
		}
	}
	if addrlen == 2 && p[0] == 0x26 {
		return 3
	}
	return 1 // includes the ModR/M byte itself
}

// x86Len returns the length, in bytes, of the single x86-32 instruction
// beginning at insn, or -1 if the leading byte sequence is not recognised.
// The decoder never reads past the returned length's worth of input plus a
// small bounded lookahead for ModR/M/SIB bytes, and never writes anything;
// a wrong answer here silently corrupts whatever trampoline is built from
// it, so every new opcode added to the tables above needs a regression
// case in x86len_test.go.
func x86Len(insn []byte) int {
	pfxlen := 0
	addrlen := 4
	operandlen := 4

	i := 0
prefixes:
	for i < len(insn) {
		switch insn[i] {
		case x86PfxAdsz:
			addrlen = 2
		case x86PfxOpsz:
			operandlen = 2
		case x86Seg1, x86Seg2, x86Seg3, x86Seg4, x86Seg5, x86Seg6,
			x86PfxLock, x86PfxRepn, x86PfxRep:
			// fallthrough to prefix-length accounting below
		default:
			break prefixes
		}
		pfxlen++
		i++
		if pfxlen == 14 {
			// instructions are architecturally capped at 15 bytes; bail
			// out rather than scanning forever on garbage input.
			return -1
		}
	}
	if i >= len(insn) {
		return -1
	}

	op := insn[i]
	switch {
	case op == x862Byte:
		if i+1 >= len(insn) {
			return -1
		}
		return twoByteLen(insn[i+1:], pfxlen, addrlen, operandlen)
	case op == x86Enter:
		return pfxlen + 4
	case op == x86Crazy8 || op == x86CrazyW:
		if i+1 >= len(insn) {
			return -1
		}
		opl := 4
		if op == x86Crazy8 {
			opl = 1
		}
		if insn[i+1]&0x38 >= 0x10 {
			opl = 0
		}
		return pfxlen + 1 + opl + mrmsib(insn[i+1:], addrlen)
	}

	switch oneByteShape[op] {
	case shapeNoOperand:
		return pfxlen + 1
	case shapeImm8:
		return pfxlen + 2
	case shapeImmWord:
		return pfxlen + 1 + operandlen
	case shapeImm16:
		return pfxlen + 3
	case shapeModRM:
		if i+1 >= len(insn) {
			return -1
		}
		return pfxlen + 1 + mrmsib(insn[i+1:], addrlen)
	case shapeModRMImm8:
		if i+1 >= len(insn) {
			return -1
		}
		return pfxlen + 1 + 1 + mrmsib(insn[i+1:], addrlen)
	case shapeModRMImmWord:
		if i+1 >= len(insn) {
			return -1
		}
		return pfxlen + 1 + operandlen + mrmsib(insn[i+1:], addrlen)
	}
	return -1
}

func twoByteLen(insn []byte, pfxlen, addrlen, operandlen int) int {
	op := insn[0]
	switch op {
	case x863Byte1, x863Byte2:
		// no supported 3-byte opcodes; implement if ever needed.
		return -1
	}
	switch twoByteShape[op] {
	case shapeNoOperand:
		return pfxlen + 2
	case shapeImmWord:
		return pfxlen + 2 + operandlen
	case shapeModRM:
		if len(insn) < 2 {
			return -1
		}
		return pfxlen + 2 + mrmsib(insn[1:], addrlen)
	case shapeModRMImm8:
		if len(insn) < 2 {
			return -1
		}
		return pfxlen + 2 + 1 + mrmsib(insn[1:], addrlen)
	}
	return -1
}
