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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sstools/sst/internal/entprops"
)

var entpropsCmd = &cobra.Command{
	Use:   "entprops [dir]",
	Short: "Compile *.entprops files into the server-class property table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "entprops_data"
		if len(args) == 1 {
			dir = args[0]
		}
		out, _ := cmd.Flags().GetString("out")
		run := func() error { return runEntprops(dir, out) }
		if viper.GetBool("watch") {
			return watchAndRun([]string{dir}, run)
		}
		return run()
	},
}

func init() {
	rootCmd.AddCommand(entpropsCmd)
	entpropsCmd.Flags().String("out", "zz_entprops_gen.go", "generated file to write")
}

func runEntprops(dir, out string) error {
	files, order, err := readOrdered(dir, ".entprops")
	if err != nil {
		return fmt.Errorf("sstgen entprops: %w", err)
	}
	rows, err := entprops.Parse(files, order)
	if err != nil {
		return fmt.Errorf("sstgen entprops: %w", err)
	}
	tree, err := entprops.Build(rows)
	if err != nil {
		return fmt.Errorf("sstgen entprops: %w", err)
	}
	src, err := entprops.Generate(tree)
	if err != nil {
		return fmt.Errorf("sstgen entprops: %w", err)
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("sstgen entprops: writing %s: %w", out, err)
	}
	fmt.Printf("sstgen entprops: wrote %s\n", out)
	return nil
}
