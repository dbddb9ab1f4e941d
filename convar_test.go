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

import "testing"

func TestConVarClamp(t *testing.T) {
	v := NewConVar("sst_test_clamp", "", "5", ConArchive).WithMin(0).WithMax(10)
	v.SetFloat(50)
	if v.Float() != 10 {
		t.Errorf("Float() = %v, want clamped to 10", v.Float())
	}
	v.SetFloat(-50)
	if v.Float() != 0 {
		t.Errorf("Float() = %v, want clamped to 0", v.Float())
	}
}

func TestConVarSetStringPreservesSourceStringInRange(t *testing.T) {
	v := NewConVarMinMax("sst_test_instring", "", "0", 0, 0, 60)
	v.SetString("1.0")
	if v.String() != "1.0" {
		t.Errorf("String() = %q, want the exact in-range string %q", v.String(), "1.0")
	}
	if v.Float() != 1 {
		t.Errorf("Float() = %v, want 1", v.Float())
	}
}

func TestConVarSetStringReformatsWhenClamped(t *testing.T) {
	v := NewConVarMinMax("sst_test_outstring", "", "0", 0, 0, 60)
	v.SetString("9001")
	if v.String() != "60" {
		t.Errorf("String() = %q, want reformatted clamped value %q", v.String(), "60")
	}
	if v.Float() != 60 {
		t.Errorf("Float() = %v, want 60", v.Float())
	}
}

func TestConVarSetStringMalformedFallsBackToDefault(t *testing.T) {
	v := NewConVar("sst_test_malformed", "", "5", 0)
	v.SetString("notanumber")
	if v.String() != "5" {
		t.Errorf("String() = %q, want default %q", v.String(), "5")
	}
	if v.Float() != 5 {
		t.Errorf("Float() = %v, want 5", v.Float())
	}
}

func TestConVarChangeCallback(t *testing.T) {
	var gotOld string
	calls := 0
	v := NewConVar("sst_test_cb", "", "0", 0).OnChange(func(cv *ConVar, old string) {
		calls++
		gotOld = old
	})
	v.SetString("1")
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if gotOld != "0" {
		t.Errorf("gotOld = %q, want %q", gotOld, "0")
	}
	v.SetString("1") // no change, callback must not fire again
	if calls != 1 {
		t.Errorf("calls = %d after no-op set, want still 1", calls)
	}
}

func TestNewConVarMinMax(t *testing.T) {
	v := NewConVarMinMax("sst_test_minmax", "", "5", 0, 1, 9)
	v.SetFloat(100)
	if v.Float() != 9 {
		t.Errorf("Float() = %v, want clamped to 9", v.Float())
	}
}

func TestNewFeatureConVarHiddenOnFail(t *testing.T) {
	ok := &Feature{Status: StatusOK}
	v := NewFeatureConVarHiddenOnFail(ok, "sst_test_feat_ok", "", "1", 0)
	if v.Flags.Has(ConHidden) {
		t.Error("cvar for an OK feature should not be hidden")
	}

	failed := &Feature{Status: StatusFail}
	v2 := NewFeatureConVarHiddenOnFail(failed, "sst_test_feat_fail", "", "1", 0)
	if !v2.Flags.Has(ConHidden) {
		t.Error("cvar for a failed feature should be hidden")
	}
}

func TestConRegistryRegisterAndFind(t *testing.T) {
	r := NewConRegistry()
	v := NewConVar("sst_test_var", "", "1", 0)
	if err := r.RegisterVar(v); err != nil {
		t.Fatalf("RegisterVar: %v", err)
	}
	if got := r.FindVar("sst_test_var"); got != v {
		t.Errorf("FindVar returned %v, want %v", got, v)
	}
	if err := r.RegisterVar(v); err == nil {
		t.Error("expected error re-registering the same name")
	}
}

func TestConRegistryHideFeatureVars(t *testing.T) {
	r := NewConRegistry()
	v := NewConVar("sst_test_hide", "", "1", 0)
	r.RegisterVar(v)
	r.HideFeatureVars([]string{"sst_test_hide"})
	if !v.Flags.Has(ConHidden) {
		t.Error("expected ConHidden to be set after HideFeatureVars")
	}
}
