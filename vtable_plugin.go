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

// PluginSlot names one function-pointer position in the
// IServerPluginCallbacks v-table; the first ten are fixed across every
// supported interface version, and the tail varies.
type PluginSlot int

const (
	SlotLoad PluginSlot = iota
	SlotUnload
	SlotPause
	SlotUnPause
	SlotGetPluginDescription
	SlotLevelInit
	SlotServerActivate
	SlotGameFrame
	SlotLevelShutdown
	SlotClientActive
	// tail, version-dependent from here on
	SlotClientFullyConnect
	SlotClientDisconnect
	SlotClientPutInServer
	SlotSetCommandClient
	SlotClientSettingsChanged
	SlotClientConnect
	SlotClientCommand
	SlotNetworkIDValidated
	SlotOnQueryCvarValueFinished
	SlotOnEdictAllocated
	SlotOnEdictFreed
)

// pluginSlotCounts gives the number of populated v-table slots for each
// supported interface version — version 1 lacks ClientFullyConnect
// onward, version 2 adds most of the tail, version 3 adds the final two
// edict-lifecycle callbacks.
var pluginSlotCounts = map[InterfaceVersion]int{
	IfaceV1: int(SlotClientActive) + 1,
	IfaceV2: int(SlotOnQueryCvarValueFinished) + 1,
	IfaceV3: int(SlotOnEdictFreed) + 1,
}

// SlotCount returns how many v-table entries must be populated for a
// given requested interface version, or 0 for an unrecognised one.
func (v InterfaceVersion) SlotCount() int {
	return pluginSlotCounts[v]
}

// InterfaceName maps a requested name to the version it identifies, or
// IfaceUnknown if the name isn't one CreateInterface understands.
func InterfaceName(name string) InterfaceVersion {
	switch name {
	case "ISERVERPLUGINCALLBACKS001":
		return IfaceV1
	case "ISERVERPLUGINCALLBACKS002":
		return IfaceV2
	case "ISERVERPLUGINCALLBACKS003":
		return IfaceV3
	default:
		return IfaceUnknown
	}
}
