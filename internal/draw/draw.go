// Package draw defines the capability contract every dictionary definition
// satisfies: bounds, frame count, rendering, and color-transform rebinding
// (spec.md §3 "Drawable"). It deliberately knows nothing about the
// dictionary or the tag stream, so timeline and dict can each depend on it
// without depending on each other.
package draw

import (
	"github.com/turnforge/swfx/internal/fill"
	"github.com/turnforge/swfx/internal/geom"
	"github.com/turnforge/swfx/internal/shape"
)

// Drawable is implemented by every character definition: shapes,
// morph-shapes (at a bound ratio), sprites, and images.
type Drawable interface {
	// Bounds returns the definition's bounding rectangle in twips.
	Bounds() geom.Rectangle
	// FramesCount returns the number of frames this definition animates
	// over. Shapes and images always report 1. When recursive is true, a
	// sprite reports the largest frame count among its own timeline and
	// its nested sprite children (spec.md §3).
	FramesCount(recursive bool) int
	// Draw replays this definition's content for the given zero-based
	// frame index onto d.
	Draw(d Drawer, frame int) error
	// TransformColors returns a copy of this definition with ct applied to
	// every fill/stroke color it owns directly (spec.md §3, §4.3).
	TransformColors(ct geom.ColorTransform) Drawable
}

// Drawer receives the flattened drawing commands emitted by Drawable.Draw:
// a shape's paths, or a placed bitmap image. The SVG canvas builder
// (internal/svgcanvas) implements it.
type Drawer interface {
	// Shape emits a fully resolved shape at the drawer's current transform.
	Shape(s *shape.Shape)
	// Bitmap emits an image placed under matrix m.
	Bitmap(img fill.Bitmap, m geom.Matrix)
	// Push enters a nested transform/color-transform scope (used for placed
	// sprite children); Pop leaves it.
	Push(m geom.Matrix, ct geom.ColorTransform)
	Pop()
}
