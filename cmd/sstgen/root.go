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
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "sstgen",
	Short: "Generate registration tables for an sst plugin build",
	Long: `sstgen reads the declarative sources of an sst plugin tree
(feature packages, *.gamedata files, *.entprops files) and writes the
generated Go files the plugin binary imports at build time.`,
}

func init() {
	rootCmd.PersistentFlags().String("module", "github.com/sstools/sst", "module path the generated imports are rooted at")
	viper.BindPFlag("module", rootCmd.PersistentFlags().Lookup("module"))

	rootCmd.PersistentFlags().Bool("watch", false, "re-run generation whenever an input file changes")
	viper.BindPFlag("watch", rootCmd.PersistentFlags().Lookup("watch"))
}
