package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyline93/shard/internal/world"
)

var cmdInfo = &cobra.Command{
	Use:   "info",
	Short: "Summarize the archives found in a data directory",
	Long: `
The "info" command probes a data directory for the fixed candidate asset
files, loads what it finds and prints a summary of each container: which
structural revision was detected, how many records it holds and which
optional content types are missing.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(infoOptions.Data, infoOptions.Config)
	},
}

// InfoOptions bundles all options for the info command.
type InfoOptions struct {
	Data   string
	Config string
}

var infoOptions InfoOptions

func init() {
	cmdRoot.AddCommand(cmdInfo)

	f := cmdInfo.Flags()
	f.StringVar(&infoOptions.Data, "data", "", "asset data directory")
	f.StringVar(&infoOptions.Config, "config", "", "optional YAML config file")
}

func loadConfig(dataDir, configPath string) (world.Config, error) {
	if configPath != "" {
		cfg, err := world.LoadConfig(configPath)
		if err != nil {
			return world.Config{}, err
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		return cfg, nil
	}
	return world.DefaultConfig(dataDir), nil
}

func runInfo(dataDir, configPath string) error {
	cfg, err := loadConfig(dataDir, configPath)
	if err != nil {
		return err
	}

	w, err := world.Open(cfg)
	if err != nil {
		return err
	}
	defer w.Close()

	tiles := w.Tiles()
	layout := "classic"
	if tiles.Extended {
		layout = "extended"
	}
	fmt.Printf("property table: %d land, %d static records (%s layout)\n",
		len(tiles.Lands), len(tiles.Statics), layout)

	for _, mc := range cfg.Maps {
		m, ok := w.Map(mc.Index)
		if !ok {
			continue
		}
		width, height := m.Dimensions()
		fmt.Printf("map %d: %dx%d blocks (%dx%d tiles)\n",
			mc.Index, width, height, width*8, height*8)
	}

	if _, err := w.Land(3); err == nil {
		fmt.Println("tile graphics: available")
	} else {
		fmt.Println("tile graphics: absent")
	}
	if _, err := w.Texture(1); err == nil {
		fmt.Println("stretched textures: available")
	} else {
		fmt.Println("stretched textures: absent")
	}

	return nil
}
