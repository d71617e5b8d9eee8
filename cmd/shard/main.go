package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

// cmdRoot is the base command when no other command has been specified.
var cmdRoot = &cobra.Command{
	Use:   "shard",
	Short: "Inspect and export legacy game world assets",
	Long: `
shard reads the legacy asset archives of a static game world - tile
graphics, terrain, stretched textures and tile properties - from either
the indexed twin-file form or the hash-indexed package form, and lets you
inspect the containers or export decoded content.
`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(0)
	},
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
