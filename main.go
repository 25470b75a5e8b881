//go:build !( js || wasm)

package main

import (
	"github.com/Myriad-Dreamin/tinymist-sub003/cmd"
	"github.com/spf13/cobra"
	"os"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "tyck [subcommand]",
	Short:        "tyck\n type inference and signature resolution for document scripts",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.RefineCmd)
	rootCmd.AddCommand(cmd.HintsCmd)
}
