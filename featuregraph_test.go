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

func TestRegistryDependencySkip(t *testing.T) {
	// scenario 3: B REQUIRE(A); A returns INCOMPAT => B becomes REQ_FAIL
	// and B's init is never called.
	bInitCalled := false
	descs := []FeatureDescriptor{
		{Name: "a", Init: func() InitResult { return InitIncompat }},
		{Name: "b", Require: []string{"a"}, Init: func() InitResult {
			bInitCalled = true
			return InitOK
		}},
	}
	gd := NewGamedataStore(0, nil)
	reg, err := NewRegistry(descs, gd, nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	reg.InitAll(0)

	if got := reg.Status("a"); got != StatusIncompat {
		t.Errorf("status(a) = %v, want INCOMPAT", got)
	}
	if got := reg.Status("b"); got != StatusReqFail {
		t.Errorf("status(b) = %v, want REQ_FAIL", got)
	}
	if bInitCalled {
		t.Errorf("b's init was called despite failed hard requirement")
	}
}

func TestRegistryCycleDetected(t *testing.T) {
	descs := []FeatureDescriptor{
		{Name: "a", Require: []string{"b"}},
		{Name: "b", Require: []string{"a"}},
	}
	_, err := NewRegistry(descs, NewGamedataStore(0, nil), nil)
	if err == nil {
		t.Fatal("expected a cycle error, got nil")
	}
}

func TestRegistryTeardownReverseOfSuccessfulInit(t *testing.T) {
	var endOrder []string
	mkEnd := func(name string) func() {
		return func() { endOrder = append(endOrder, name) }
	}
	descs := []FeatureDescriptor{
		{Name: "a", Init: func() InitResult { return InitOK }, End: mkEnd("a")},
		{Name: "b", Require: []string{"a"}, Init: func() InitResult { return InitOK }, End: mkEnd("b")},
		{Name: "c", Require: []string{"b"}, Init: func() InitResult { return InitSkip }, End: mkEnd("c")},
	}
	reg, err := NewRegistry(descs, NewGamedataStore(0, nil), nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	reg.InitAll(0)
	reg.TeardownAll()

	want := []string{"b", "a"}
	if len(endOrder) != len(want) {
		t.Fatalf("endOrder = %v, want %v", endOrder, want)
	}
	for i := range want {
		if endOrder[i] != want[i] {
			t.Errorf("endOrder = %v, want %v", endOrder, want)
			break
		}
	}
}

func TestRegistryGamespecificSkip(t *testing.T) {
	descs := []FeatureDescriptor{
		{Name: "portal-only", HasTags: true, Tags: TagPortal1, Init: func() InitResult { return InitOK }},
	}
	reg, err := NewRegistry(descs, NewGamedataStore(0, nil), nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	reg.InitAll(TagHL2)
	if got := reg.Status("portal-only"); got != StatusSkip {
		t.Errorf("status = %v, want SKIP under mismatched identity", got)
	}
}
