package main

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/skyline93/shard/internal/shard"
	"github.com/skyline93/shard/internal/world"
)

var cmdExport = &cobra.Command{
	Use:   "export",
	Short: "Export one decoded raster to a PNG file",
	Long: `
The "export" command decodes a single land tile, static tile or stretched
texture and writes it out as PNG. With --paletted the 32-bit raster is
quantized down to a 256-color palette first. A hue identifier applies that
palette substitution before export.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(exportOptions)
	},
}

// ExportOptions bundles all options for the export command.
type ExportOptions struct {
	Data     string
	Config   string
	Kind     string
	ID       int
	Hue      int
	Partial  bool
	Out      string
	Paletted bool
}

var exportOptions ExportOptions

func init() {
	cmdRoot.AddCommand(cmdExport)

	f := cmdExport.Flags()
	f.StringVar(&exportOptions.Data, "data", "", "asset data directory")
	f.StringVar(&exportOptions.Config, "config", "", "optional YAML config file")
	f.StringVar(&exportOptions.Kind, "kind", "static", "what to export: land, static or texture")
	f.IntVar(&exportOptions.ID, "id", 0, "tile identifier or texture index")
	f.IntVar(&exportOptions.Hue, "hue", 0, "hue identifier to apply (0: none)")
	f.BoolVar(&exportOptions.Partial, "partial", false, "apply the hue to the gray ramp only")
	f.StringVar(&exportOptions.Out, "out", "out.png", "output file")
	f.BoolVar(&exportOptions.Paletted, "paletted", false, "quantize to a 256-color palette")
}

func runExport(opts ExportOptions) error {
	cfg, err := loadConfig(opts.Data, opts.Config)
	if err != nil {
		return err
	}

	w, err := world.Open(cfg)
	if err != nil {
		return err
	}
	defer w.Close()

	var r *shard.Raster
	switch opts.Kind {
	case "land":
		r, err = w.Land(opts.ID)
	case "static":
		r, err = w.Static(opts.ID)
	case "texture":
		r, err = w.Texture(opts.ID)
	default:
		return errors.Errorf("unknown kind %q", opts.Kind)
	}
	if err != nil {
		return err
	}

	if opts.Hue != 0 {
		h, ok := w.Hue(opts.Hue)
		if !ok {
			return errors.Errorf("hue %d not loaded", opts.Hue)
		}
		h.ApplyTo(r, opts.Partial)
	}

	var img image.Image = r.RGBA()
	if opts.Paletted {
		q := quantize.MedianCutQuantizer{}
		b := img.Bounds()
		pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, 256), img))
		draw.Draw(pm, b, img, b.Min, draw.Src)
		img = pm
	}

	out, err := os.Create(opts.Out)
	if err != nil {
		return err
	}
	defer out.Close()

	return png.Encode(out, img)
}
