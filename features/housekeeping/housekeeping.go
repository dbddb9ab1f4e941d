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

// Package housekeeping runs small periodic bookkeeping every so many game
// ticks: nothing any other feature strictly depends on, but a convenient
// place to hang a heartbeat other features' tests can hook into.
package housekeeping

import (
	"github.com/golang/glog"
	"github.com/sstools/sst"
)

var _ = sst.Feature("housekeeping", "periodic state bookkeeping")

// CvTickRate controls how many frames pass between the counter rollovers
// Ticked reports, clamped to something that can't pin a frame hook in a
// busy loop nor go so sparse it never rolls over within a short demo.
var CvTickRate = sst.DefCvarMinMax("sst_hk_rate", "bookkeeping tick interval", "20", sst.ConArchive, 1, 600)

var tickCounter int

// ticked is set on whichever frame the counter rolls over, for other
// features' OnFrame handlers to check without each keeping their own timer.
var ticked bool

func init() {
	sst.OnEvent("frame", OnFrame)
}

// OnFrame is called once per game frame ("frame" is a reserved built-in
// event name the adapter fires every GameFrame, not something this package
// declares itself) and rolls tickCounter over at the configured rate.
func OnFrame(args []any) {
	tickCounter++
	ticked = tickCounter >= int(CvTickRate.Int())
	if ticked {
		tickCounter = 0
	}
}

// Ticked reports whether this was a rollover frame, letting other features
// poll a shared low-frequency timer instead of each running their own.
func Ticked() bool { return ticked }

// PreInit never fails; housekeeping has no host-ABI prerequisites.
func PreInit() sst.InitResult { return sst.InitOK }

// Init resets bookkeeping state for the new game session.
func Init() sst.InitResult {
	tickCounter = 0
	return sst.InitOK
}

// End logs a shutdown notice; there is no external state to release.
func End() {
	glog.V(1).Info("housekeeping: shutting down")
}
