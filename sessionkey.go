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
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/curve25519"
)

// Layout of the locked page backing a SessionKey: one 4-KiB allocation
// sliced into fixed regions rather than four separate allocations, so a
// single lockPage/unlockPage pair covers all of it.
const (
	skRNGOff    = 0
	skRNGLen    = 32
	skPrivOff   = skRNGOff + skRNGLen
	skPrivLen   = 32
	skPubOff    = skPrivOff + skPrivLen
	skPubLen    = 32
	skSharedOff = skPubOff + skPubLen
	skSharedLen = 32
	skNonceOff  = skSharedOff + skSharedLen
	skNonceLen  = 8

	skUsedLen = skNonceOff + skNonceLen
)

// SessionKey is the per-feature state described in §3: a single physical
// page, locked against swap/core-dump/fork-inheritance, holding a PRNG
// reservoir, an X25519 keypair, a derived shared key and a monotone
// nonce. It demonstrates the state shape every other per-feature state
// container in a complete plugin would follow; SST's broader
// cryptographic feature policy is out of scope (spec.md §1) and lives
// above this type, not in it.
type SessionKey struct {
	plat   Platform
	page   []byte
	locked bool
}

// NewSessionKey allocates and locks a SessionKey's backing page. The
// page starts zeroed and unkeyed; call Reset before first use.
func NewSessionKey(plat Platform) (*SessionKey, error) {
	sz := int(plat.PageSize())
	if sz < skUsedLen {
		sz = skUsedLen
	}
	sk := &SessionKey{plat: plat, page: make([]byte, sz)}
	if err := lockPage(sk.page); err != nil {
		return nil, fmt.Errorf("sst: session key: %w", err)
	}
	sk.locked = true
	return sk, nil
}

func (sk *SessionKey) rng() []byte    { return sk.page[skRNGOff : skRNGOff+skRNGLen] }
func (sk *SessionKey) priv() []byte   { return sk.page[skPrivOff : skPrivOff+skPrivLen] }
func (sk *SessionKey) pub() []byte    { return sk.page[skPubOff : skPubOff+skPubLen] }
func (sk *SessionKey) shared() []byte { return sk.page[skSharedOff : skSharedOff+skSharedLen] }

// Public returns the current X25519 public key, valid after Reset.
func (sk *SessionKey) Public() []byte {
	p := make([]byte, skPubLen)
	copy(p, sk.pub())
	return p
}

// Nonce returns the current nonce value without advancing it.
func (sk *SessionKey) Nonce() uint64 {
	return binary.LittleEndian.Uint64(sk.page[skNonceOff : skNonceOff+skNonceLen])
}

// NextNonce increments and returns the session's monotone nonce; callers
// use a fresh value per message so a recorded demo never replays one.
func (sk *SessionKey) NextNonce() uint64 {
	n := sk.Nonce() + 1
	binary.LittleEndian.PutUint64(sk.page[skNonceOff:skNonceOff+skNonceLen], n)
	return n
}

// Reset implements the demo-recording-start transition of §3: the whole
// page is zeroed, the RNG reservoir is reseeded from the platform CSPRNG,
// a fresh X25519 keypair is derived from it, and the nonce restarts at
// zero.
func (sk *SessionKey) Reset() error {
	for i := range sk.page {
		sk.page[i] = 0
	}
	if err := sk.plat.RandomBytes(sk.rng()); err != nil {
		return fmt.Errorf("sst: session key reset: seeding rng: %w", err)
	}

	// The reservoir is expanded into a clamped X25519 scalar through a
	// keyed hash rather than used directly, so the private key depends
	// on the whole 32-byte reservoir through a one-way step instead of
	// being a bare copy of platform RNG output.
	h, err := blake2b.New256(nil)
	if err != nil {
		return fmt.Errorf("sst: session key reset: %w", err)
	}
	h.Write(sk.rng())
	h.Write([]byte("sst-session-key-private"))
	scalar := h.Sum(nil)
	copy(sk.priv(), scalar)

	pub, err := curve25519.X25519(sk.priv(), curve25519.Basepoint)
	if err != nil {
		return fmt.Errorf("sst: session key reset: deriving public key: %w", err)
	}
	copy(sk.pub(), pub)
	return nil
}

// DeriveShared computes the X25519 shared secret against a peer's public
// key, runs it through blake2b as a one-step KDF, and stores the result.
func (sk *SessionKey) DeriveShared(peerPublic []byte) error {
	if len(peerPublic) != skPubLen {
		return fmt.Errorf("sst: session key: peer public key must be %d bytes, got %d", skPubLen, len(peerPublic))
	}
	raw, err := curve25519.X25519(sk.priv(), peerPublic)
	if err != nil {
		return fmt.Errorf("sst: session key: deriving shared secret: %w", err)
	}
	sum := blake2b.Sum256(raw)
	copy(sk.shared(), sum[:])
	return nil
}

// Shared returns the most recently derived shared key.
func (sk *SessionKey) Shared() []byte {
	s := make([]byte, skSharedLen)
	copy(s, sk.shared())
	return s
}

// Wipe implements the demo-recording-stop transition of §3: every region
// except the RNG reservoir is zeroed, satisfying the "zero at all bytes
// outside the RNG state" invariant while leaving the page locked for the
// next Reset.
func (sk *SessionKey) Wipe() {
	for i := skPrivOff; i < skUsedLen; i++ {
		sk.page[i] = 0
	}
}

// Close unlocks and releases the backing page. Callers must have called
// Wipe first if any key material might still be live.
func (sk *SessionKey) Close() error {
	if !sk.locked {
		return nil
	}
	sk.locked = false
	if err := unlockPage(sk.page); err != nil {
		return fmt.Errorf("sst: session key: %w", err)
	}
	return nil
}
