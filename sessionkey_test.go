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
	"bytes"
	"errors"
	"testing"
)

// fakeRandPlatform fills RandomBytes with a counter-derived stream
// instead of zeros, so Reset produces a distinguishable keypair on each
// call without pulling in a real CSPRNG for the test.
type fakeRandPlatform struct {
	n byte
}

func (p *fakeRandPlatform) Protect([]byte, Prot) error { return nil }
func (p *fakeRandPlatform) ReadExecutable(uintptr, int) []byte { return nil }
func (p *fakeRandPlatform) SliceAddr([]byte) uintptr           { return 0 }
func (p *fakeRandPlatform) OpenModule(string) (ModuleHandle, error) { return 0, nil }
func (p *fakeRandPlatform) Symbol(ModuleHandle, string) (uintptr, error) {
	return 0, errors.New("unsupported")
}
func (p *fakeRandPlatform) ModulePath(ModuleHandle) (string, error) { return "", nil }
func (p *fakeRandPlatform) PageSize() uintptr                       { return 4096 }

func (p *fakeRandPlatform) RandomBytes(b []byte) error {
	for i := range b {
		p.n++
		b[i] = p.n
	}
	return nil
}

func TestSessionKeyResetDerivesDistinctKeypairs(t *testing.T) {
	sk, err := NewSessionKey(&fakeRandPlatform{})
	if err != nil {
		t.Fatalf("NewSessionKey: %v", err)
	}
	defer sk.Close()

	if err := sk.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	pub1 := sk.Public()
	if len(pub1) != skPubLen {
		t.Fatalf("public key length = %d, want %d", len(pub1), skPubLen)
	}

	if err := sk.Reset(); err != nil {
		t.Fatalf("second Reset: %v", err)
	}
	pub2 := sk.Public()
	if bytes.Equal(pub1, pub2) {
		t.Fatalf("two Resets with different rng output produced the same public key")
	}
}

func TestSessionKeyDeriveSharedAgreesBothDirections(t *testing.T) {
	alice, err := NewSessionKey(&fakeRandPlatform{n: 1})
	if err != nil {
		t.Fatalf("NewSessionKey(alice): %v", err)
	}
	defer alice.Close()
	bob, err := NewSessionKey(&fakeRandPlatform{n: 200})
	if err != nil {
		t.Fatalf("NewSessionKey(bob): %v", err)
	}
	defer bob.Close()

	if err := alice.Reset(); err != nil {
		t.Fatalf("alice.Reset: %v", err)
	}
	if err := bob.Reset(); err != nil {
		t.Fatalf("bob.Reset: %v", err)
	}

	if err := alice.DeriveShared(bob.Public()); err != nil {
		t.Fatalf("alice.DeriveShared: %v", err)
	}
	if err := bob.DeriveShared(alice.Public()); err != nil {
		t.Fatalf("bob.DeriveShared: %v", err)
	}

	if !bytes.Equal(alice.Shared(), bob.Shared()) {
		t.Fatalf("shared keys disagree: alice=%x bob=%x", alice.Shared(), bob.Shared())
	}
}

func TestSessionKeyWipeZeroesEverythingButRNGState(t *testing.T) {
	sk, err := NewSessionKey(&fakeRandPlatform{n: 42})
	if err != nil {
		t.Fatalf("NewSessionKey: %v", err)
	}
	defer sk.Close()

	if err := sk.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := sk.DeriveShared(sk.Public()); err != nil {
		t.Fatalf("DeriveShared: %v", err)
	}
	sk.NextNonce()

	rngBefore := make([]byte, skRNGLen)
	copy(rngBefore, sk.rng())

	sk.Wipe()

	if !bytes.Equal(sk.rng(), rngBefore) {
		t.Fatalf("Wipe altered the RNG reservoir, want it preserved")
	}
	for i, b := range sk.page[skPrivOff:skUsedLen] {
		if b != 0 {
			t.Fatalf("byte %d past RNG region is %#x after Wipe, want 0", skPrivOff+i, b)
		}
	}
	if sk.Nonce() != 0 {
		t.Fatalf("nonce after Wipe = %d, want 0", sk.Nonce())
	}
}

func TestSessionKeyNextNonceIsMonotone(t *testing.T) {
	sk, err := NewSessionKey(&fakeRandPlatform{})
	if err != nil {
		t.Fatalf("NewSessionKey: %v", err)
	}
	defer sk.Close()

	var last uint64
	for i := 0; i < 5; i++ {
		n := sk.NextNonce()
		if n <= last {
			t.Fatalf("nonce did not increase: got %d after %d", n, last)
		}
		last = n
	}
}
