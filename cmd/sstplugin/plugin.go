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

// Command sstplugin is the in-process entry point the Source engine
// actually dlopen()s/LoadLibrary()s. Build with -buildmode=c-shared; the
// resulting shared object exports a single C symbol, CreateInterface,
// matching the factory convention every Source-engine module uses.
package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef void *(*sst_factory_fn)(const char *name, int *status);

// Prototypes for the functions //export below generates; cgo also emits
// these into _cgo_export.h, declaring them again here just lets this
// preamble take their address before that header exists in this reading.
extern int sst_Load(sst_factory_fn interfaceFactory, sst_factory_fn gameServerFactory);
extern void sst_Unload(void);
extern void sst_Pause(void);
extern void sst_UnPause(void);
extern const char *sst_GetPluginDescription(void);
extern void sst_LevelInit(const char *pMapName);
extern void sst_ServerActivate(void *pEdictList, int edictCount, int clientMax);
extern void sst_GameFrame(int simulating);
extern void sst_LevelShutdown(void);
extern void sst_ClientActive(void *pEntity);

static void *sstLoadAddr(void)    { return (void *)sst_Load; }
static void *sstUnloadAddr(void)  { return (void *)sst_Unload; }
static void *sstPauseAddr(void)   { return (void *)sst_Pause; }
static void *sstUnPauseAddr(void) { return (void *)sst_UnPause; }
static void *sstGetPluginDescriptionAddr(void) { return (void *)sst_GetPluginDescription; }
static void *sstLevelInitAddr(void)             { return (void *)sst_LevelInit; }
static void *sstServerActivateAddr(void)        { return (void *)sst_ServerActivate; }
static void *sstGameFrameAddr(void)             { return (void *)sst_GameFrame; }
static void *sstLevelShutdownAddr(void)         { return (void *)sst_LevelShutdown; }
static void *sstClientActiveAddr(void)          { return (void *)sst_ClientActive; }

static void *sst_call_factory(sst_factory_fn f, const char *name, int *status) {
	return f(name, status);
}
*/
import "C"

import (
	"os"
	"unsafe"

	"github.com/golang/glog"
	"github.com/spf13/afero"

	"github.com/sstools/sst"
)

var adapter *sst.Adapter

// pluginDescription is cached once, rather than allocated fresh on
// every sst_GetPluginDescription call, since the returned *C.char must
// stay valid for as long as the host might hold onto it.
var pluginDescription *C.char

func init() {
	glog.CopyStandardLogTo("INFO")
	adapter = sst.NewAdapter(hostPlatform())
	pluginDescription = C.CString("SST (SourceSpeedrunTools) v" + sst.Version)
}

// hostPlatform picks the live Platform implementation; split out of
// init so tests can substitute a fake one without touching cgo.
func hostPlatform() sst.Platform {
	return sst.NewRuntimePlatform()
}

//export CreateInterface
func CreateInterface(name *C.char, status *C.int) unsafe.Pointer {
	goName := C.GoString(name)
	version := sst.InterfaceName(goName)
	if version == sst.IfaceUnknown {
		if status != nil {
			*status = 1 // IFACE_FAILED
		}
		return nil
	}
	if status != nil {
		*status = 0 // IFACE_OK
	}
	return sst.BuildPluginVTable(version, exportedSlotAddrs())
}

// exportedSlotAddrs returns the addresses of the cgo-exported Go
// functions below, in PluginSlot order; cgo gives each //export function
// a stable C symbol address for the life of the process, which is what
// the "single static object, never moved" requirement in SPEC_FULL.md
// §4.J actually needs. It covers every slot through SlotClientActive
// (the ten fixed slots every supported interface version shares); the
// version-dependent tail (ClientFullyConnect onward, SPEC_FULL.md §6)
// has no marshaling defined yet for the engine structures those
// callbacks take (edict_t, usercmd_t and friends) and is left null, a
// gap documented in DESIGN.md rather than papered over with unsafe
// guesses at layouts this tree has no gamedata for.
func exportedSlotAddrs() []uintptr {
	return []uintptr{
		uintptr(C.sstLoadAddr()),
		uintptr(C.sstUnloadAddr()),
		uintptr(C.sstPauseAddr()),
		uintptr(C.sstUnPauseAddr()),
		uintptr(C.sstGetPluginDescriptionAddr()),
		uintptr(C.sstLevelInitAddr()),
		uintptr(C.sstServerActivateAddr()),
		uintptr(C.sstGameFrameAddr()),
		uintptr(C.sstLevelShutdownAddr()),
		uintptr(C.sstClientActiveAddr()),
	}
}

//export sst_Load
func sst_Load(interfaceFactory C.sst_factory_fn, gameServerFactory C.sst_factory_fn) C.int {
	engineFactory := wrapFactory(interfaceFactory)
	serverFactory := wrapFactory(gameServerFactory)
	err := adapter.Load(sst.IfaceV3, engineFactory, serverFactory, detectConsole)
	if err != nil {
		glog.Errorf("sst: Load failed: %v", err)
		return 0
	}
	zzRegisterConsole(adapter.Console())
	initAutoload()
	return 1
}

// initAutoload supplies the mod directory and the plugin's own on-disk
// path InitAutoload needs. The game's actual mod directory comes from
// host-side interfaces not modelled here yet, so the process's current
// working directory stands in for it — true whenever the engine
// launches with the mod directory as cwd, which every supported branch
// does for its primary game executable. The module path passed on is the
// host executable's own path (os.Executable), not the plugin's location:
// no self module-handle lookup is done, so Enable refuses it unless that
// executable lies under the mod directory, and otherwise records the
// executable's path rather than the plugin's.
func initAutoload() {
	modDir, err := os.Getwd()
	if err != nil {
		glog.Errorf("sst: autoload: could not determine mod directory: %v", err)
		return
	}
	self, err := os.Executable()
	if err != nil {
		glog.Errorf("sst: autoload: could not determine plugin path: %v", err)
		return
	}
	adapter.InitAutoload(afero.NewOsFs(), modDir, self)
}

// knownCvarInterfaces is the small set of ICvar factory names seen across
// engine branches; stepProbeInterfaces (adapter.go) separately widens
// a.identity once the real interface pointer is in hand, so this probe
// only needs to succeed against the oldest name every branch still
// exports for backward compatibility, "VEngineCvar0".
var knownCvarInterfaces = []string{"VEngineCvar0", "VEngineCvar003", "VEngineCvar002"}

// detectConsole is the one consoleDetector the plugin actually runs: a
// build of the plugin with no console interface available at all is the
// single unrecoverable Load failure Adapter.Load defines, so this just
// probes the known factory names and fails if none answer.
func detectConsole(engineFactory sst.FactoryFunc) (sst.GameTag, error) {
	for _, name := range knownCvarInterfaces {
		if _, ok := engineFactory(name); ok {
			return 0, nil
		}
	}
	return 0, sst.ErrNoConsoleInterface
}

//export sst_Unload
func sst_Unload() {
	adapter.Unload()
}

//export sst_Pause
func sst_Pause() { adapter.Pause() }

//export sst_UnPause
func sst_UnPause() { adapter.UnPause() }

//export sst_GetPluginDescription
func sst_GetPluginDescription() *C.char { return pluginDescription }

//export sst_LevelInit
func sst_LevelInit(mapName *C.char) {
	glog.V(1).Infof("sst: level init: %s", C.GoString(mapName))
}

//export sst_ServerActivate
func sst_ServerActivate(edictList unsafe.Pointer, edictCount C.int, clientMax C.int) {
	glog.V(1).Infof("sst: server activate: %d edicts, maxclients %d", int(edictCount), int(clientMax))
}

//export sst_LevelShutdown
func sst_LevelShutdown() {
	glog.V(1).Infof("sst: level shutdown")
}

//export sst_GameFrame
func sst_GameFrame(simulating C.int) {
	adapter.GameFrame(zzFeatures, zzEventHandlersByName["frame"])
}

//export sst_ClientActive
func sst_ClientActive(pEntity unsafe.Pointer) {
	adapter.ClientActive(zzEventHandlersByName["clientactive"], uintptr(pEntity))
}

func wrapFactory(f C.sst_factory_fn) sst.FactoryFunc {
	return func(name string) (uintptr, bool) {
		if f == nil {
			return 0, false
		}
		cname := C.CString(name)
		defer C.free(unsafe.Pointer(cname))
		var status C.int
		p := C.sst_call_factory(f, cname, &status)
		if p == nil {
			return 0, false
		}
		return uintptr(p), true
	}
}

func main() {
	// Never actually runs: the host loads this as a shared library and
	// calls CreateInterface directly. Present only because a
	// c-shared-mode package main requires one.
	os.Exit(0)
}
