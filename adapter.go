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
	"errors"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/afero"
)

// InterfaceVersion is which ISERVERPLUGINCALLBACKS00<N> the host asked
// CreateInterface for; the adapter's v-table layout and slot count both
// depend on it (see abi_msvc.go/abi_itanium.go).
type InterfaceVersion int

const (
	IfaceUnknown InterfaceVersion = iota
	IfaceV1
	IfaceV2
	IfaceV3
)

// ErrNoConsoleInterface is the one unrecoverable Load failure per §7: the
// plugin could not obtain any usable console interface from the host, so
// Load must fail and the host will unload the module outright.
var ErrNoConsoleInterface = errors.New("sst: could not obtain a console interface from host")

// FactoryFunc is the host's own CreateInterface-shaped callback, handed to
// Load so the adapter can probe for engine/server/client interfaces.
type FactoryFunc func(name string) (uintptr, bool)

// Adapter is the live state behind the plugin's v-table: the single
// object CreateInterface hands back a pointer into. Unlike the teacher's
// worker.go (many short-lived jobs coordinated through channels), there
// is exactly one Adapter per process and its lifecycle is entirely
// sequential, driven by host callbacks rather than goroutines.
type Adapter struct {
	plat     Platform
	version  InterfaceVersion
	console  *ConRegistry
	registry *Registry
	gamedata *GamedataStore
	identity GameTag
	autoload *AutoloadWriter

	engineFactory FactoryFunc
	serverFactory FactoryFunc

	deferredInit bool
	uiHook       *VTableHook
	pluginLoadHook *InlineHook

	loaded bool
}

// NewAdapter constructs an unloaded Adapter bound to a platform seam.
func NewAdapter(plat Platform) *Adapter {
	return &Adapter{plat: plat, console: NewConRegistry()}
}

// Console returns the live console registry, for the plugin entry point
// to register generated cvars/commands into once after Load.
func (a *Adapter) Console() *ConRegistry { return a.console }

// consoleDetector probes the host for a usable console interface and
// reports the game-identity bits it can infer along the way — this is a
// function value so tests can substitute a fake host without needing a
// real engine process.
type consoleDetector func(engineFactory FactoryFunc) (GameTag, error)

// interfaceProbe is one (name, tag-on-success) pair from the fixed list
// of known engine/server/client/input-system interfaces step 4 checks.
type interfaceProbe struct {
	name string
	tag  GameTag
}

// knownInterfaces is deliberately small here; the full list lives in
// generated gamedata-adjacent tables in a complete build, but the shape
// (name in, bit out) is exactly what stepProbeInterfaces consumes.
var knownInterfaces = []interfaceProbe{
	{"VEngineServer022", TagEngineNewer},
	{"VEngineServer021", TagEngineOrangeBox},
	{"VEngineServer001", TagEngineOldest},
}

// Load runs the seven steps described in the adapter's Go-realization
// note, in order, stopping early (and returning an error) only for the
// one truly unrecoverable condition: no console interface at all.
func (a *Adapter) Load(version InterfaceVersion, engineFactory, serverFactory FactoryFunc, detect consoleDetector) error {
	a.version = version
	a.engineFactory = engineFactory
	a.serverFactory = serverFactory

	if err := a.stepInitHookBuffer(); err != nil {
		return fmt.Errorf("sst: step 1 (hook buffer): %w", err)
	}
	a.stepSaveFactories(engineFactory, serverFactory)

	identity, err := a.stepDetectConsole(detect)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoConsoleInterface, err)
	}
	a.identity = identity

	a.stepProbeInterfaces()
	a.stepInitGamedata(gamedataEntries)
	a.stepDeferOrInit()
	a.stepHookPluginCmds()

	a.loaded = true
	glog.V(1).Infof("sst: adapter loaded, identity=%#x, version=%d", a.identity, a.version)
	return nil
}

func (a *Adapter) stepInitHookBuffer() error {
	glog.V(1).Infof("sst: step 1: init hook buffer")
	return InitHookArena(a.plat)
}

func (a *Adapter) stepSaveFactories(engineFactory, serverFactory FactoryFunc) {
	glog.V(1).Infof("sst: step 2: save factories")
	a.engineFactory = engineFactory
	a.serverFactory = serverFactory
}

func (a *Adapter) stepDetectConsole(detect consoleDetector) (GameTag, error) {
	glog.V(1).Infof("sst: step 3: detect console")
	if detect == nil {
		return 0, ErrNoConsoleInterface
	}
	return detect(a.engineFactory)
}

func (a *Adapter) stepProbeInterfaces() {
	glog.V(1).Infof("sst: step 4: probe known interfaces")
	for _, probe := range knownInterfaces {
		if _, ok := a.engineFactory(probe.name); ok {
			a.identity |= probe.tag
			glog.V(1).Infof("sst: found interface %q", probe.name)
		}
	}
}

func (a *Adapter) stepInitGamedata(descs []GamedataDescriptor) {
	glog.V(1).Infof("sst: step 5: init gamedata")
	a.gamedata = NewGamedataStore(a.identity, descs)
}

// stepDeferOrInit always defers feature init: it sets deferredInit, and
// GameFrame (on its first call after Load) performs the deferred work
// and clears the flag. It does not check whether the host's UI subsystem
// is up and installs no UI-Connect hook; uiHook stays nil.
func (a *Adapter) stepDeferOrInit() {
	glog.V(1).Infof("sst: step 6: defer or init")
	a.deferredInit = true
}

// stepHookPluginCmds only logs the step. It installs no hook on the
// host's plugin_load/plugin_unload commands (pluginLoadHook stays nil),
// so other plugins loading or unloading are not observed.
func (a *Adapter) stepHookPluginCmds() {
	glog.V(1).Infof("sst: step 7: hook plugin load/unload commands")
}

// InitAutoload wires up the always-present console commands named in §6
// (sst_autoload_enable/disable, sst_printversion) and runs the one-shot
// SST_UPDATED notice. It's separate from Load's seven steps because the
// mod directory and the plugin's own on-disk path aren't knowable from
// FactoryFunc probing alone — the plugin entry point (cmd/sstplugin)
// supplies them from its own OS-level context once Load succeeds.
func (a *Adapter) InitAutoload(fs afero.Fs, modDir, modulePath string) {
	a.autoload = NewAutoloadWriter(fs, modDir, modulePath)
	registerCoreCommands(a.console, a.autoload)
	checkUpdateNotice(os.Getenv, os.Unsetenv)
}

// RunDeferredInit performs the real feature-registry init once, the
// first time it's called after a Load that set deferredInit — called
// from GameFrame.
func (a *Adapter) RunDeferredInit(descs []FeatureDescriptor) []FeatureStatus {
	if !a.deferredInit {
		return nil
	}
	a.deferredInit = false
	reg, err := NewRegistry(descs, a.gamedata, nil)
	if err != nil {
		glog.Errorf("sst: feature registry construction failed: %v", err)
		return nil
	}
	a.registry = reg
	statuses := reg.InitAll(a.identity)
	for i, d := range descs {
		glog.Infof("sst: feature %q -> %s", d.Name, statuses[i])
	}
	return statuses
}

// Unload runs reverse-order teardown and disconnects the console
// registry, per §4.J's Unload contract.
func (a *Adapter) Unload() {
	if !a.loaded {
		return
	}
	if a.registry != nil {
		a.registry.TeardownAll()
	}
	a.console = NewConRegistry()
	a.loaded = false
	glog.V(1).Infof("sst: adapter unloaded")
}

// GameFrame is the per-tick lifecycle hook: it performs deferred init (if
// still pending) then emits the Tick event to every registered handler.
func (a *Adapter) GameFrame(descs []FeatureDescriptor, tickHandlers []Handler) {
	if a.deferredInit {
		a.RunDeferredInit(descs)
	}
	if a.registry != nil {
		EmitEvent(a.registry, tickHandlers, nil)
	}
}

// ClientActive emits the ClientActive event.
func (a *Adapter) ClientActive(clientHandlers []Handler, client uintptr) {
	if a.registry != nil {
		EmitEvent(a.registry, clientHandlers, client)
	}
}

// Pause and UnPause always refuse: SST's runtime model has no notion of
// plugin suspension, per §4.J.
func (a *Adapter) Pause() {
	glog.Warningf("sst: plugin pause requested but not supported")
}

func (a *Adapter) UnPause() {
	glog.Warningf("sst: plugin unpause requested but not supported")
}
