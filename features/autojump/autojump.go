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

// Package autojump holds the jump button down across a landing frame,
// the speedrunning trick usually called "auto bunnyhop" or "scroll jump"
// done for the player instead of by spamming a bind.
package autojump

import (
	"github.com/sstools/sst"
	"github.com/sstools/sst/features/housekeeping"
)

var _ = sst.Feature("autojump", "automatic bunnyhop")
var _ = sst.Require("housekeeping")
var _ = sst.RequireGamedata("off_entpos")
var _ = sst.GameSpecific(sst.TagL4D1, sst.TagL4D2, sst.TagPortal1, sst.TagPortal2)

// CvEnabled toggles the feature without unloading it; cheat-gated since
// holding jump for the player is exactly the kind of input automation
// competitive servers disable sv_cheats to forbid.
var CvEnabled = sst.DefCvar("sst_autojump", "hold jump across every landing", "0", sst.ConCheat)

var wantJump bool

func init() {
	sst.OnEvent("frame", OnFrame)
}

// OnFrame piggybacks on housekeeping's shared low-frequency timer to avoid
// re-evaluating the enabled check every single frame.
func OnFrame(args []any) {
	if !housekeeping.Ticked() {
		return
	}
	wantJump = CvEnabled.Int() != 0
}

// WantsJump reports whether the next move command's input hook (installed
// separately, over the engine's usercmd processing) should force the jump
// button on.
func WantsJump() bool { return wantJump }

// Init starts with the trick off regardless of the cvar's persisted value,
// matching spec.md's "a feature's own state resets every Init" contract.
func Init() sst.InitResult {
	wantJump = false
	return sst.InitOK
}
