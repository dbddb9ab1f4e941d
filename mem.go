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

import (
	"encoding/binary"
	"image/color"
)

// loadU32 reads an unaligned little-endian 32-bit integer starting at p[0].
func loadU32(p []byte) uint32 {
	return binary.LittleEndian.Uint32(p)
}

// loadS32 is loadU32 reinterpreted as signed, matching mem_loads32 in the
// original, used by the inline hooker to read relative jump displacements.
func loadS32(p []byte) int32 {
	return int32(loadU32(p))
}

// storeS32 writes v as an unaligned little-endian 32-bit integer into p[0:4].
func storeS32(p []byte, v int32) {
	binary.LittleEndian.PutUint32(p, uint32(v))
}

func loadU64(p []byte) uint64 {
	return binary.LittleEndian.Uint64(p)
}

// pageRound rounds addr down to the start of its containing page and
// returns the page-aligned start plus the number of pages (of size
// pageSize) needed to cover length bytes starting at the original addr.
func pageRound(addr, length, pageSize uintptr) (start uintptr, size uintptr) {
	start = addr &^ (pageSize - 1)
	end := (addr + length + pageSize - 1) &^ (pageSize - 1)
	return start, end - start
}

// ParseHexColor parses a 6- or 8-character hex RGB/RGBA string (with or
// without a leading '#') as the console's colour cvars do. On any parse
// failure it returns opaque white, matching the original's white fallback
// rather than an error a cvar-setting caller would have to handle specially.
func ParseHexColor(s string) color.NRGBA {
	s = trimHexPrefix(s)
	switch len(s) {
	case 6:
		r, ok1 := parseHexByte(s[0:2])
		g, ok2 := parseHexByte(s[2:4])
		b, ok3 := parseHexByte(s[4:6])
		if ok1 && ok2 && ok3 {
			return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
		}
	case 8:
		r, ok1 := parseHexByte(s[0:2])
		g, ok2 := parseHexByte(s[2:4])
		b, ok3 := parseHexByte(s[4:6])
		a, ok4 := parseHexByte(s[6:8])
		if ok1 && ok2 && ok3 && ok4 {
			return color.NRGBA{R: r, G: g, B: b, A: a}
		}
	}
	return color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
}

func trimHexPrefix(s string) string {
	if len(s) > 0 && s[0] == '#' {
		return s[1:]
	}
	return s
}

func parseHexByte(s string) (byte, bool) {
	hi, ok1 := hexDigit(s[0])
	lo, ok2 := hexDigit(s[1])
	if !ok1 || !ok2 {
		return 0, false
	}
	return hi<<4 | lo, true
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
