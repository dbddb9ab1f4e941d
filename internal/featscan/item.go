// Package featscan implements SST's feature/event source scanner
// (SPEC_FULL.md §4.K / Component K): a tree-sitter-based scan of every
// feature package's Go source for the marker-function call sites declared
// in marker.go (sst.Feature, sst.Require, sst.DefCvar, sst.OnEvent, ...),
// turned into a validated, cross-referenced set of declarations that
// internal/featscan's codegen then renders into a generated registration
// file a plugin binary wires into its Adapter.
//
// The scan never executes the source it reads — tree-sitter parses text
// into a concrete syntax tree without requiring it to type-check, let
// alone run, the same tolerant-parse idiom nmakod-codecontext's
// cpp_parser.go uses for a different language.
package featscan

import "fmt"

// ItemKind classifies one scanned marker call site, the Go analogue of
// cmeta.h's cmeta_item kind tag (SPEC_FULL.md §12's supplemented item
// taxonomy).
type ItemKind int

const (
	ItemFeature ItemKind = iota
	ItemRequire
	ItemRequest
	ItemRequireGamedata
	ItemRequireGlobal
	ItemGameSpecific
	ItemConVar
	ItemConCommand
	ItemDefEvent
	ItemDefPredicate
	ItemOnEvent
	ItemOnPredicate
)

func (k ItemKind) String() string {
	switch k {
	case ItemFeature:
		return "Feature"
	case ItemRequire:
		return "Require"
	case ItemRequest:
		return "Request"
	case ItemRequireGamedata:
		return "RequireGamedata"
	case ItemRequireGlobal:
		return "RequireGlobal"
	case ItemGameSpecific:
		return "GameSpecific"
	case ItemConVar:
		return "ConVar"
	case ItemConCommand:
		return "ConCommand"
	case ItemDefEvent:
		return "DefEvent"
	case ItemDefPredicate:
		return "DefPredicate"
	case ItemOnEvent:
		return "OnEvent"
	case ItemOnPredicate:
		return "OnPredicate"
	default:
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
}

// itemFlags records kind-specific detail the original's cmeta_flag_* bits
// carry: whether a cvar declaration included a min and/or max clamp, and
// whether a command is one half of a PLUS_/MINUS_ pair (spec.md §4.D).
type itemFlags uint8

const (
	flagHasMin itemFlags = 1 << iota
	flagHasMax
	flagPlusMinus
)

// markerKind maps a marker function's bare name (the selector field of an
// sst.<Marker>(...) call) onto its ItemKind, or false if the identifier
// isn't one of ours.
var markerKind = map[string]ItemKind{
	"Feature":         ItemFeature,
	"Require":         ItemRequire,
	"Request":         ItemRequest,
	"RequireGamedata": ItemRequireGamedata,
	"RequireGlobal":   ItemRequireGlobal,
	"GameSpecific":    ItemGameSpecific,
	"DefCvar":         ItemConVar,
	"DefCvarMin":      ItemConVar,
	"DefCvarMax":      ItemConVar,
	"DefCvarMinMax":   ItemConVar,
	"DefCcmd":         ItemConCommand,
	"DefEvent":        ItemDefEvent,
	"DefPredicate":    ItemDefPredicate,
	"OnEvent":         ItemOnEvent,
	"OnPredicate":     ItemOnPredicate,
}

func cvarFlags(marker string) itemFlags {
	switch marker {
	case "DefCvarMin":
		return flagHasMin
	case "DefCvarMax":
		return flagHasMax
	case "DefCvarMinMax":
		return flagHasMin | flagHasMax
	default:
		return 0
	}
}
