package featscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const housekeepingSrc = `package housekeeping

import "github.com/sstools/sst"

var _ = sst.Feature("housekeeping", "periodic state bookkeeping")

var CvTickRate = sst.DefCvarMinMax("sst_hk_rate", "bookkeeping interval", "1", 0, 0, 60)

var _ = sst.DefEvent("tick", "fires once per bookkeeping interval")
var _ = sst.DefEvent("shutdown", "fires once before the plugin unloads")

func init() {
	sst.OnEvent("shutdown", OnShutdown)
}

func OnShutdown(args []any) {}

func PreInit() sst.InitResult { return sst.InitOK }
func Init() sst.InitResult    { return sst.InitOK }
`

const autojumpSrc = `package autojump

import "github.com/sstools/sst"

var _ = sst.Feature("autojump", "automatic bunnyhop")
var _ = sst.Require("housekeeping")
var _ = sst.RequireGamedata("off_entpos")
var _ = sst.GameSpecific(sst.TagL4D2, sst.TagL4D1)

var CvEnabled = sst.DefCvar("sst_autojump", "enable autojump", "0", 0)

func init() {
	sst.OnEvent("tick", OnTick)
}

func OnTick(args []any) {}
`

func scan(t *testing.T, pkg, filename, src string) ([]CallSite, Lifecycle) {
	t.Helper()
	sites, lc, err := ScanFile(pkg, filename, []byte(src))
	require.NoError(t, err)
	return sites, lc
}

func TestScanFileFindsFeatureAndCvar(t *testing.T) {
	sites, lc := scan(t, "housekeeping", "housekeeping.go", housekeepingSrc)

	var kinds []ItemKind
	for _, s := range sites {
		kinds = append(kinds, s.Kind)
	}
	assert.Contains(t, kinds, ItemFeature)
	assert.Contains(t, kinds, ItemConVar)
	assert.Contains(t, kinds, ItemDefEvent)
	assert.Contains(t, kinds, ItemOnEvent)

	for _, s := range sites {
		if s.Kind == ItemConVar {
			assert.Equal(t, "CvTickRate", s.VarName)
			assert.Equal(t, "sst_hk_rate", s.Args[0])
			assert.Equal(t, flagHasMin|flagHasMax, s.Flags)
		}
		if s.Kind == ItemFeature {
			assert.Equal(t, "housekeeping", s.Args[0])
		}
	}

	assert.True(t, lc.HasPreInit)
	assert.True(t, lc.HasInit)
	assert.False(t, lc.HasEnd)
}

func TestScanFileFindsGameSpecificAndRequireGamedata(t *testing.T) {
	sites, _ := scan(t, "autojump", "autojump.go", autojumpSrc)

	var gotTags, gotGD bool
	for _, s := range sites {
		if s.Kind == ItemGameSpecific {
			gotTags = true
			assert.ElementsMatch(t, []string{"sst.TagL4D2", "sst.TagL4D1"}, s.Args)
		}
		if s.Kind == ItemRequireGamedata {
			gotGD = true
			assert.Equal(t, []string{"off_entpos"}, s.Args)
		}
	}
	assert.True(t, gotTags)
	assert.True(t, gotGD)
}

func TestBuildCrossReferencesAcrossPackages(t *testing.T) {
	hkSites, hkLC := scan(t, "housekeeping", "housekeeping.go", housekeepingSrc)
	ajSites, ajLC := scan(t, "autojump", "autojump.go", autojumpSrc)

	res, err := Build(append(hkSites, ajSites...), map[string]Lifecycle{
		"housekeeping": hkLC,
		"autojump":     ajLC,
	})
	require.NoError(t, err)

	require.Len(t, res.Features, 2)
	require.Len(t, res.Cvars, 2)
	require.Len(t, res.Events, 2)
	require.Len(t, res.Handlers, 2)

	var aj, hk FeatureDecl
	for _, f := range res.Features {
		switch f.Name {
		case "autojump":
			aj = f
		case "housekeeping":
			hk = f
		}
	}
	assert.Equal(t, []string{"housekeeping"}, aj.Require)
	assert.True(t, aj.HasTags)
	assert.True(t, hk.Lifecycle.HasPreInit)
	assert.True(t, hk.Lifecycle.HasInit)
	assert.False(t, aj.Lifecycle.HasPreInit)
}

func TestBuildRejectsUndefinedEvent(t *testing.T) {
	const src = `package bad

import "github.com/sstools/sst"

var _ = sst.Feature("bad", "")

func init() {
	sst.OnEvent("nonexistent", OnNonexistent)
}

func OnNonexistent(args []any) {}
`
	sites, lc := scan(t, "bad", "bad.go", src)
	_, err := Build(sites, map[string]Lifecycle{"bad": lc})
	require.ErrorIs(t, err, ErrUndefinedEvent)
}

func TestBuildRejectsFeatureCycle(t *testing.T) {
	const aSrc = `package a

import "github.com/sstools/sst"

var _ = sst.Feature("a", "")
var _ = sst.Require("b")

func Init() sst.InitResult { return sst.InitOK }
`
	const bSrc = `package b

import "github.com/sstools/sst"

var _ = sst.Feature("b", "")
var _ = sst.Require("a")

func Init() sst.InitResult { return sst.InitOK }
`
	aSites, aLC := scan(t, "a", "a.go", aSrc)
	bSites, bLC := scan(t, "b", "b.go", bSrc)

	_, err := Build(append(aSites, bSites...), map[string]Lifecycle{"a": aLC, "b": bLC})
	require.ErrorIs(t, err, ErrFeatureCycle)
}

func TestBuildRejectsDuplicateCvarName(t *testing.T) {
	const aSrc = `package a

import "github.com/sstools/sst"

var _ = sst.Feature("a", "")
var cv1 = sst.DefCvar("sst_dup", "", "0", 0)
`
	const bSrc = `package b

import "github.com/sstools/sst"

var _ = sst.Feature("b", "")
var cv2 = sst.DefCvar("sst_dup", "", "0", 0)
`
	aSites, aLC := scan(t, "a", "a.go", aSrc)
	bSites, bLC := scan(t, "b", "b.go", bSrc)

	_, err := Build(append(aSites, bSites...), map[string]Lifecycle{"a": aLC, "b": bLC})
	require.ErrorIs(t, err, ErrDuplicateCvar)
}

func TestGenerateProducesPlausibleRegistrationFile(t *testing.T) {
	hkSites, hkLC := scan(t, "housekeeping", "housekeeping.go", housekeepingSrc)
	ajSites, ajLC := scan(t, "autojump", "autojump.go", autojumpSrc)

	res, err := Build(append(hkSites, ajSites...), map[string]Lifecycle{
		"housekeeping": hkLC,
		"autojump":     ajLC,
	})
	require.NoError(t, err)

	out, err := Generate(res, map[string]string{
		"housekeeping": "github.com/sstools/sst/features/housekeeping",
		"autojump":     "github.com/sstools/sst/features/autojump",
	})
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "package main")
	// gofmt aligns each descriptor's values to its longest key
	// ("PreInit:" for housekeeping, "RequiredGD:" for autojump).
	assert.Contains(t, src, `Name:    "housekeeping"`)
	assert.Contains(t, src, `Name:       "autojump"`)
	assert.Contains(t, src, "Require:    []string{\"housekeeping\"}")
	assert.Contains(t, src, "PreInit: housekeeping.PreInit")
	assert.Contains(t, src, "Init:    housekeeping.Init")
	assert.Contains(t, src, "sst.TagL4D1 | sst.TagL4D2")
	assert.Contains(t, src, "_ = reg.RegisterVar(housekeeping.CvTickRate)")
	assert.Contains(t, src, "_ = reg.RegisterVar(autojump.CvEnabled)")
	assert.Contains(t, src, `"tick": {`)
	assert.Contains(t, src, "autojump.OnTick(args); return true")
	assert.Contains(t, src, "housekeeping.OnShutdown(args); return true")
}

func TestBuildRejectsPreInitWithDeps(t *testing.T) {
	const src = `package bad

import "github.com/sstools/sst"

var _ = sst.Feature("bad", "")
var _ = sst.Require("housekeeping")

func PreInit() sst.InitResult { return sst.InitOK }
`
	sites, lc := scan(t, "bad", "bad.go", src)
	_, err := Build(sites, map[string]Lifecycle{"bad": lc})
	require.ErrorIs(t, err, ErrPreInitWithDeps)
}

func TestBuildRejectsDuplicateEvent(t *testing.T) {
	const aSrc = `package a

import "github.com/sstools/sst"

var _ = sst.Feature("a", "")
var _ = sst.DefEvent("dup", "")
`
	const bSrc = `package b

import "github.com/sstools/sst"

var _ = sst.Feature("b", "")
var _ = sst.DefEvent("dup", "")
`
	aSites, aLC := scan(t, "a", "a.go", aSrc)
	bSites, bLC := scan(t, "b", "b.go", bSrc)

	_, err := Build(append(aSites, bSites...), map[string]Lifecycle{"a": aLC, "b": bLC})
	require.ErrorIs(t, err, ErrDuplicateEvent)
}

func TestBuildRejectsRequireOfFeatureWithNoInit(t *testing.T) {
	const aSrc = `package a

import "github.com/sstools/sst"

var _ = sst.Feature("a", "")
var _ = sst.Require("b")
`
	const bSrc = `package b

import "github.com/sstools/sst"

var _ = sst.Feature("b", "")
`
	aSites, aLC := scan(t, "a", "a.go", aSrc)
	bSites, bLC := scan(t, "b", "b.go", bSrc)

	_, err := Build(append(aSites, bSites...), map[string]Lifecycle{"a": aLC, "b": bLC})
	require.ErrorIs(t, err, ErrRequireNoInit)
}

func TestBuildRejectsMarkerOutsideFeature(t *testing.T) {
	const src = `package stray

import "github.com/sstools/sst"

var cv = sst.DefCvar("sst_stray", "", "0", 0)
`
	sites, lc := scan(t, "stray", "stray.go", src)
	_, err := Build(sites, map[string]Lifecycle{"stray": lc})
	require.ErrorIs(t, err, ErrMarkerOutsideFeature)
}
