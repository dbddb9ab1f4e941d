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

	"github.com/sstools/sst/internal/gendsl"
)

var gamedataCmd = &cobra.Command{
	Use:   "gamedata [dir]",
	Short: "Compile *.gamedata files into the offset/signature lookup table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "gamedata"
		if len(args) == 1 {
			dir = args[0]
		}
		out, _ := cmd.Flags().GetString("out")
		run := func() error { return runGamedata(dir, out) }
		if viper.GetBool("watch") {
			return watchAndRun([]string{dir}, run)
		}
		return run()
	},
}

func init() {
	rootCmd.AddCommand(gamedataCmd)
	gamedataCmd.Flags().String("out", "zz_gamedata_gen.go", "generated file to write")
}

func runGamedata(dir, out string) error {
	files, order, err := readOrdered(dir, ".gamedata")
	if err != nil {
		return fmt.Errorf("sstgen gamedata: %w", err)
	}
	rows, err := gendsl.Parse(files, order)
	if err != nil {
		return fmt.Errorf("sstgen gamedata: %w", err)
	}
	entries, err := gendsl.BuildEntries(rows)
	if err != nil {
		return fmt.Errorf("sstgen gamedata: %w", err)
	}
	src, err := gendsl.Generate(entries)
	if err != nil {
		return fmt.Errorf("sstgen gamedata: %w", err)
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("sstgen gamedata: writing %s: %w", out, err)
	}
	fmt.Printf("sstgen gamedata: wrote %s (%d entries)\n", out, len(entries))
	return nil
}

// readOrdered reads every file under dir with the given extension, in
// sorted name order, returning both the file map Parse wants and the
// same names again as an explicit order slice (Go map iteration order
// is random, and both generators need a stable merge order across files
// to produce reproducible output).
func readOrdered(dir, ext string) (map[string][]byte, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	var order []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		order = append(order, e.Name())
	}
	sort.Strings(order)

	files := make(map[string][]byte, len(order))
	for _, name := range order {
		full := filepath.Join(dir, name)
		src, err := os.ReadFile(full)
		if err != nil {
			return nil, nil, err
		}
		files[name] = src
	}
	return files, order, nil
}
