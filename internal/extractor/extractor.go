// Package extractor implements C9: the entry-point facade owning the
// parsed tag stream, its character dictionary, and the root timeline
// (spec.md §4.1).
package extractor

import (
	"context"
	"log/slog"

	"github.com/turnforge/swfx/internal/budget"
	"github.com/turnforge/swfx/internal/dict"
	"github.com/turnforge/swfx/internal/draw"
	"github.com/turnforge/swfx/internal/errmask"
	"github.com/turnforge/swfx/internal/geom"
	"github.com/turnforge/swfx/internal/obs"
	"github.com/turnforge/swfx/internal/tags"
	"github.com/turnforge/swfx/internal/timeline"
)

// Extractor is the entry point bound to one parsed SWF tag stream. Each
// instance is single-threaded cooperative (spec.md §5: "concurrent calls on
// the same instance are undefined") — callers wanting parallelism construct
// one Extractor per file per worker.
type Extractor struct {
	src         tags.Source
	displayBounds geom.Rectangle
	mask        errmask.Mask
	dict        *dict.Dictionary

	// Logger receives masked-off-error Warn records from the dictionary
	// and timeline processor (SPEC_FULL.md §4.8). Nil-safe; set by the
	// caller after New, mirroring budget.Governor.Logger.
	Logger *slog.Logger
}

// New constructs an Extractor over src. displayBounds is the file's
// declared stage bounds, used by Timeline when useFileBounds is true.
func New(src tags.Source, displayBounds geom.Rectangle, mask errmask.Mask) *Extractor {
	return &Extractor{src: src, displayBounds: displayBounds, mask: mask, dict: dict.New(src, mask)}
}

// Shapes returns the memoized id→ShapeDef dictionary.
func (e *Extractor) Shapes() map[int]*dict.ShapeDef { return e.dict.Shapes() }

// MorphShapes returns the memoized id→MorphShapeDef dictionary.
func (e *Extractor) MorphShapes() map[int]*dict.MorphShapeDef { return e.dict.MorphShapes() }

// Sprites returns the memoized id→SpriteDef dictionary.
func (e *Extractor) Sprites() map[int]*dict.SpriteDef { return e.dict.Sprites() }

// Images returns the memoized id→image-Drawable dictionary.
func (e *Extractor) Images() map[int]draw.Drawable { return e.dict.Images() }

// Character resolves id across every dictionary, returning
// dict.MissingCharacter when absent.
func (e *Extractor) Character(id int) draw.Drawable { return e.dict.Character(id) }

// ByName resolves an exported name to its Drawable.
func (e *Extractor) ByName(name string) (draw.Drawable, error) { return e.dict.ByName(name) }

// Exported returns the memoized exported-name→id table.
func (e *Extractor) Exported() map[string]int { return e.dict.Exported() }

// Timeline builds the root Timeline from the file's top-level display-list
// tags. When useFileBounds is true, every frame's bounds is rewritten to
// the file's declared display bounds instead of the computed union (spec.md
// §4.1).
func (e *Extractor) Timeline(useFileBounds bool) (timeline.Timeline, error) {
	_, span := obs.StartSpan(context.Background(), "extractor.Timeline")
	defer span.End()

	e.dict.Logger = e.Logger
	proc := timeline.NewProcessor(e.dict, e.mask)
	proc.Logger = e.Logger
	tl, err := proc.Process(e.src)
	if err != nil {
		return timeline.Timeline{}, err
	}
	if useFileBounds && !e.displayBounds.IsEmpty() {
		tl.Bounds = e.displayBounds
		for i := range tl.Frames {
			tl.Frames[i].Bounds = e.displayBounds
		}
	}
	return tl, nil
}

// Release drops every cache in the character dictionary back to the
// uninitialized state (spec.md §5).
func (e *Extractor) Release() { e.dict.Release() }

// ReleaseIfOverBudget compares current process RSS against limit, when
// non-nil, or else against 75% of total system memory, and calls Release
// when exceeded (spec.md §5). It delegates to a budget.Governor constructed
// with this Extractor as its Releaser.
func (e *Extractor) ReleaseIfOverBudget(limit *uint64) error {
	return budget.NewGovernor(e).Check(limit)
}
