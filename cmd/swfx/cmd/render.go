package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turnforge/swfx/internal/draw"
	"github.com/turnforge/swfx/internal/svgcanvas"
)

var (
	renderCharacterID int
	renderName        string
	renderFrame       int
)

var renderCmd = &cobra.Command{
	Use:   "render <bundle.json>",
	Short: "Render one character frame to an SVG document",
	Long: `Render draws a single character — looked up by --character id or
--name — at the given --frame and writes one standalone SVG document.

Examples:
  swfx render movie.json --name=Hero
  swfx render movie.json --character=42 --frame=3 --out=./frames`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().IntVar(&renderCharacterID, "character", 0, "character id to render")
	renderCmd.Flags().StringVar(&renderName, "name", "", "exported character name to render")
	renderCmd.Flags().IntVar(&renderFrame, "frame", 0, "frame index to render")
	rootCmd.AddCommand(renderCmd)
}

func runRender(c *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ex, err := openExtractor(args[0], cfg)
	if err != nil {
		return err
	}
	defer startMemoryWatch(cfg, ex)()

	var drawable draw.Drawable
	switch {
	case renderName != "":
		drawable, err = ex.ByName(renderName)
		if err != nil {
			return fmt.Errorf("swfx: %w", err)
		}
	case renderCharacterID != 0:
		drawable = ex.Character(renderCharacterID)
	default:
		return fatalf("swfx: render requires --character or --name")
	}

	canvas := svgcanvas.NewRoot(drawable.Bounds())
	if err := drawable.Draw(canvas, renderFrame); err != nil {
		return fmt.Errorf("swfx: drawing frame %d: %w", renderFrame, err)
	}
	svg, err := canvas.Render()
	if err != nil {
		return err
	}

	return writeSVG(cfg, fmt.Sprintf("frame-%d.svg", renderFrame), svg)
}
