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
	"strconv"

	"github.com/golang/glog"
)

// ConVarChangeFunc is called after a ConVar's value changes, receiving the
// string form of the previous value — the Go analogue of con_varcb, minus
// the IConVar-vs-ConVar ABI distinction the engine itself has to make.
type ConVarChangeFunc func(cv *ConVar, oldStr string)

// ConVar is the runtime, engine-independent form of a console variable.
// Where the original generalises var.go's Var interface (Flavor/Origin/
// IsDefined) across four different mutually-incompatible make-variable
// flavors, ConVar instead generalises it across the *one* Source-engine
// value flavor but several on-disk struct layouts (see conabi.go) — the
// interesting variation here is ABI shape, not value semantics.
type ConVar struct {
	Name  string
	Help  string
	Flags ConFlag

	defaultVal string
	strVal     string
	fVal       float32
	iVal       int32

	hasMin bool
	minVal float32
	hasMax bool
	maxVal float32

	onChange ConVarChangeFunc

	registered bool
}

// NewConVar constructs an unregistered, unclamped variable with the given
// default value (WithMin/WithMax add a clamp); ConRegistry.RegisterVar
// makes it visible to con_findvar-equivalent lookups.
func NewConVar(name, help, def string, flags ConFlag) *ConVar {
	v := &ConVar{Name: name, Help: help, Flags: flags, defaultVal: def}
	v.setStringUnclamped(def)
	return v
}

// NewConVarMinMax constructs a clamped ConVar in one call, the Go analogue
// of the original's DEF_CVAR_MINMAX macro.
func NewConVarMinMax(name, help, def string, flags ConFlag, min, max float32) *ConVar {
	return NewConVar(name, help, def, flags).WithMin(min).WithMax(max)
}

// NewFeatureConVar constructs a cvar logically owned by feat. This is the
// Go analogue of DEF_FEAT_CVAR, which compiles the underlying DEF_CVAR call
// inside the owning feature's own translation unit; here ownership carries
// no extra behaviour by itself, but documents the association and gives
// NewFeatureConVarHiddenOnFail something to key off.
func NewFeatureConVar(feat *Feature, name, help, def string, flags ConFlag) *ConVar {
	return NewConVar(name, help, def, flags)
}

// NewFeatureConVarHiddenOnFail is NewFeatureConVar, except the resulting
// cvar additionally gets ConHidden set whenever feat did not reach
// StatusOK — for cvars that must keep existing (other code, or a user's
// saved config, may still reference them) without cluttering cvar listings
// once it's known the owning feature isn't doing anything.
func NewFeatureConVarHiddenOnFail(feat *Feature, name, help, def string, flags ConFlag) *ConVar {
	if feat.Status != StatusOK {
		flags |= ConHidden
	}
	return NewConVar(name, help, def, flags)
}

// WithMin sets a numeric floor; values set below it are clamped up.
func (v *ConVar) WithMin(min float32) *ConVar {
	v.hasMin, v.minVal = true, min
	return v
}

// WithMax sets a numeric ceiling; values set above it are clamped down.
func (v *ConVar) WithMax(max float32) *ConVar {
	v.hasMax, v.maxVal = true, max
	return v
}

// OnChange installs a change callback, fired once per successful Set*
// call whose new value differs from the old one.
func (v *ConVar) OnChange(f ConVarChangeFunc) *ConVar {
	v.onChange = f
	return v
}

// String returns the cvar's current value as a string — cvar values are
// always strings internally; numeric views are interpretations of it.
func (v *ConVar) String() string { return v.strVal }

// Float returns the cvar's current value interpreted as a float.
func (v *ConVar) Float() float32 { return v.fVal }

// Int returns the cvar's current value interpreted as an int.
func (v *ConVar) Int() int32 { return v.iVal }

// IsRegistered reports whether RegisterVar has been called for this cvar.
func (v *ConVar) IsRegistered() bool { return v.registered }

func (v *ConVar) setStringUnclamped(s string) {
	v.strVal = s
	if f, err := strconv.ParseFloat(s, 32); err == nil {
		v.fVal = float32(f)
		v.iVal = int32(f)
	} else {
		v.fVal = 0
		v.iVal = 0
	}
}

func (v *ConVar) clampFloat(f float32) float32 {
	if v.hasMin && f < v.minVal {
		f = v.minVal
	}
	if v.hasMax && f > v.maxVal {
		f = v.maxVal
	}
	return f
}

// SetString assigns a new string value. A value that doesn't parse as a
// number falls back to the cvar's default, with a warning, matching
// ConVar::InternalSetValue's StringToFloat failure path (con_.c). A value
// that parses but falls outside a declared min/max is clamped, same as
// SetFloat, and its string reformatted from the clamped float; an
// in-range value keeps the exact string it was set with, so
// get_string(v) == s holds for any already-in-range s (con_.c only
// rewrites the string when ClampValue actually clamped).
func (v *ConVar) SetString(s string) {
	old := v.strVal
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		glog.Warningf("sst: cvar %q: invalid value %q, falling back to default %q", v.Name, s, v.defaultVal)
		v.setStringUnclamped(v.defaultVal)
		v.fire(old)
		return
	}
	clamped := v.clampFloat(float32(f))
	if clamped != float32(f) {
		v.setClampedFloat(clamped)
	} else {
		v.strVal = s
		v.fVal = clamped
		v.iVal = int32(clamped)
	}
	v.fire(old)
}

// setClampedFloat stores f (already clamped) as both the numeric views and
// the canonical reformatted string.
func (v *ConVar) setClampedFloat(f float32) {
	v.fVal = f
	v.iVal = int32(f)
	v.strVal = strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// SetFloat assigns a new value via its float representation, clamping to
// any declared min/max first.
func (v *ConVar) SetFloat(f float32) {
	old := v.strVal
	v.setClampedFloat(v.clampFloat(f))
	v.fire(old)
}

// SetInt assigns a new value via its integer representation.
func (v *ConVar) SetInt(i int32) {
	v.SetFloat(float32(i))
}

func (v *ConVar) fire(old string) {
	if v.onChange != nil && old != v.strVal {
		v.onChange(v, old)
	}
}
