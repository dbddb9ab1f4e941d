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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sstools/sst/internal/featscan"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Scan feature packages and write the registration table",
	Long: `scan walks a directory of feature packages (one subdirectory per
package, each containing exactly one sst.Feature(...) declaration),
statically extracts every marker call with internal/featscan, and writes
a generated zz_features_gen.go the plugin's package main imports.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "features"
		if len(args) == 1 {
			dir = args[0]
		}
		out, _ := cmd.Flags().GetString("out")
		run := func() error { return runScan(dir, out) }
		if viper.GetBool("watch") {
			return watchAndRun([]string{dir}, run)
		}
		return run()
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().String("out", "cmd/sstplugin/zz_features_gen.go", "generated file to write")
}

func runScan(dir, out string) error {
	pkgDirs, err := featurePackageDirs(dir)
	if err != nil {
		return fmt.Errorf("sstgen scan: %w", err)
	}

	var allSites []featscan.CallSite
	lifecycles := make(map[string]featscan.Lifecycle)
	pkgImport := make(map[string]string)
	modulePath := viper.GetString("module")

	for _, pd := range pkgDirs {
		pkg := filepath.Base(pd)
		entries, err := os.ReadDir(pd)
		if err != nil {
			return fmt.Errorf("sstgen scan: reading %s: %w", pd, err)
		}
		var files []string
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") || strings.HasSuffix(e.Name(), "_test.go") {
				continue
			}
			files = append(files, e.Name())
		}
		sort.Strings(files)

		var lc featscan.Lifecycle
		for _, name := range files {
			full := filepath.Join(pd, name)
			src, err := os.ReadFile(full)
			if err != nil {
				return fmt.Errorf("sstgen scan: reading %s: %w", full, err)
			}
			sites, fileLC, err := featscan.ScanFile(pkg, full, src)
			if err != nil {
				return fmt.Errorf("sstgen scan: %s: %w", full, err)
			}
			allSites = append(allSites, sites...)
			lc.HasPreInit = lc.HasPreInit || fileLC.HasPreInit
			lc.HasInit = lc.HasInit || fileLC.HasInit
			lc.HasEnd = lc.HasEnd || fileLC.HasEnd
		}
		lifecycles[pkg] = lc
		rel, err := filepath.Rel(".", pd)
		if err != nil {
			rel = pd
		}
		pkgImport[pkg] = modulePath + "/" + filepath.ToSlash(rel)
	}

	res, err := featscan.Build(allSites, lifecycles)
	if err != nil {
		return fmt.Errorf("sstgen scan: %w", err)
	}
	src, err := featscan.Generate(res, pkgImport)
	if err != nil {
		return fmt.Errorf("sstgen scan: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("sstgen scan: %w", err)
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("sstgen scan: writing %s: %w", out, err)
	}
	fmt.Printf("sstgen scan: wrote %s (%d features, %d cvars, %d commands, %d handlers)\n",
		out, len(res.Features), len(res.Cvars), len(res.Ccmds), len(res.Handlers))
	return nil
}

// featurePackageDirs returns every immediate subdirectory of root that
// holds at least one non-test .go file, sorted for deterministic output.
func featurePackageDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		full := filepath.Join(root, e.Name())
		sub, err := os.ReadDir(full)
		if err != nil {
			return nil, err
		}
		for _, s := range sub {
			if !s.IsDir() && strings.HasSuffix(s.Name(), ".go") && !strings.HasSuffix(s.Name(), "_test.go") {
				dirs = append(dirs, full)
				break
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
