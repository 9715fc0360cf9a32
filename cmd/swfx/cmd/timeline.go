package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turnforge/swfx/internal/geom"
	"github.com/turnforge/swfx/internal/svgcanvas"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <bundle.json>",
	Short: "Render the root timeline to one SVG document with one <g> per frame",
	Long: `Timeline walks the file's top-level display list and emits one SVG
document whose top-level groups each carry a data-frame attribute, so a
viewer can step through frames by toggling visibility.

Examples:
  swfx timeline movie.json --out=./frames`,
	Args: cobra.ExactArgs(1),
	RunE: runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(c *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ex, err := openExtractor(args[0], cfg)
	if err != nil {
		return err
	}
	defer startMemoryWatch(cfg, ex)()

	tl, err := ex.Timeline(cfg.UseFileBounds)
	if err != nil {
		return fmt.Errorf("swfx: building timeline: %w", err)
	}

	root := svgcanvas.NewRoot(tl.Bounds)
	for i, frame := range tl.Frames {
		child := root.NewChild()
		for _, obj := range frame.Objects {
			if obj.Drawable == nil {
				continue
			}
			ct := geom.IdentityColorTransform
			if obj.HasColorTransform {
				ct = obj.ColorTransform
			}
			child.Push(obj.Matrix, ct)
			if err := obj.Drawable.Draw(child, 0); err != nil {
				return fmt.Errorf("swfx: drawing frame %d: %w", i, err)
			}
			child.Pop()
		}
		root.UseChildAsFrame(child, i, frame.Label)
	}

	svg, err := root.Render()
	if err != nil {
		return err
	}
	return writeSVG(cfg, "timeline.svg", svg)
}
