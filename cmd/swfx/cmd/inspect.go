package cmd

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turnforge/swfx/internal/draw"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <bundle.json>",
	Short: "Print the character dictionary",
	Long: `Inspect lists every character in the dictionary — shapes, morph shapes,
sprites, and images — with its id, kind, frame count, bounds, and any
exported name.

Examples:
  swfx inspect movie.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

type dictRow struct {
	id       int
	kind     string
	frames   int
	drawable draw.Drawable
}

func runInspect(c *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ex, err := openExtractor(args[0], cfg)
	if err != nil {
		return err
	}

	var rows []dictRow
	for id, s := range ex.Shapes() {
		rows = append(rows, dictRow{id: id, kind: "shape", frames: s.FramesCount(false), drawable: s})
	}
	for id, m := range ex.MorphShapes() {
		rows = append(rows, dictRow{id: id, kind: "morph", frames: m.FramesCount(false), drawable: m})
	}
	for id, sp := range ex.Sprites() {
		rows = append(rows, dictRow{id: id, kind: "sprite", frames: sp.FramesCount(false), drawable: sp})
	}
	for id, img := range ex.Images() {
		rows = append(rows, dictRow{id: id, kind: "image", frames: img.FramesCount(false), drawable: img})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })

	names := make(map[int]string)
	for name, id := range ex.Exported() {
		if existing, ok := names[id]; !ok || name < existing {
			names[id] = name
		}
	}

	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Println(bold("ID\tKIND\tFRAMES\tBOUNDS\tNAME"))
	for _, r := range rows {
		b := r.drawable.Bounds()
		name := names[r.id]
		fmt.Printf("%d\t%s\t%d\t[%d,%d,%d,%d]\t%s\n", r.id, cyan(r.kind), r.frames, b.XMin, b.YMin, b.XMax, b.YMax, name)
	}
	return nil
}
