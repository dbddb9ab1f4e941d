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
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// TestAutoloadEnableWritesExpectedPath is scenario 4 from §8: a game
// whose mod directory is C:\Games\Foo\bar and whose plugin binary is
// C:\Games\Foo\bar\addons\sst.dll gets a VDF naming "addons/sst.dll".
func TestAutoloadEnableWritesExpectedPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewAutoloadWriter(fs, `C:\Games\Foo\bar`, `C:\Games\Foo\bar\addons\sst.dll`)

	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	data, err := afero.ReadFile(fs, `C:/Games/Foo/bar/addons/SourceSpeedrunTools.vdf`)
	if err != nil {
		t.Fatalf("reading written vdf: %v", err)
	}
	if !strings.Contains(string(data), `"addons/sst.dll"`) {
		t.Fatalf("vdf contents = %q, want it to contain %q", data, `"addons/sst.dll"`)
	}
	if !strings.Contains(string(data), "Plugin") {
		t.Fatalf("vdf contents = %q, want a Plugin block", data)
	}
	if !w.Enabled() {
		t.Fatalf("Enabled() = false after Enable")
	}
}

func TestAutoloadEnableRefusesCrossDrive(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewAutoloadWriter(fs, `C:\Games\Foo\bar`, `D:\SST\sst.dll`)

	err := w.Enable()
	if err == nil {
		t.Fatalf("Enable across drives succeeded, want ErrCrossDrive")
	}
	if err != ErrCrossDrive {
		t.Fatalf("Enable error = %v, want %v", err, ErrCrossDrive)
	}
	if w.Enabled() {
		t.Fatalf("Enabled() = true after a refused Enable")
	}
}

func TestAutoloadDisableRemovesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewAutoloadWriter(fs, "/games/foo", "/games/foo/addons/sst.so")

	if err := w.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if !w.Enabled() {
		t.Fatalf("Enabled() = false after Enable")
	}
	if err := w.Disable(); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if w.Enabled() {
		t.Fatalf("Enabled() = true after Disable")
	}
}

func TestAutoloadDisableIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewAutoloadWriter(fs, "/games/foo", "/games/foo/addons/sst.so")

	if err := w.Disable(); err != nil {
		t.Fatalf("Disable on a never-enabled writer: %v", err)
	}
}

func TestRegisterCoreCommandsInstallsAllThree(t *testing.T) {
	reg := NewConRegistry()
	fs := afero.NewMemMapFs()
	w := NewAutoloadWriter(fs, "/games/foo", "/games/foo/addons/sst.so")

	registerCoreCommands(reg, w)

	for _, name := range []string{"sst_autoload_enable", "sst_autoload_disable", "sst_printversion"} {
		if reg.FindCmd(name) == nil {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestCheckUpdateNoticeClearsVariableOnlyWhenSet(t *testing.T) {
	var unsetCalled bool
	env := map[string]string{}
	getenv := func(k string) string { return env[k] }
	unsetenv := func(k string) error { unsetCalled = true; delete(env, k); return nil }

	checkUpdateNotice(getenv, unsetenv)
	if unsetCalled {
		t.Fatalf("unsetenv called with no SST_UPDATED set")
	}

	env["SST_UPDATED"] = "1"
	checkUpdateNotice(getenv, unsetenv)
	if !unsetCalled {
		t.Fatalf("unsetenv not called with SST_UPDATED set")
	}
	if _, ok := env["SST_UPDATED"]; ok {
		t.Fatalf("SST_UPDATED still set after checkUpdateNotice")
	}
}
