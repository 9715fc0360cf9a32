// Package shapeproc implements C4: turning a parsed DefineShape tag into a
// concrete shape.Shape by walking its StyleChange/StraightEdge/CurvedEdge/
// EndShape records with an implicit current-point and active-style
// registers (spec.md §4.2).
package shapeproc

import (
	"github.com/turnforge/swfx/internal/fill"
	"github.com/turnforge/swfx/internal/geom"
	"github.com/turnforge/swfx/internal/shape"
	"github.com/turnforge/swfx/internal/tags"
)

// BitmapResolver resolves a fill's bitmap character id to the fill.Bitmap
// used for pattern emission, falling back to fill.EmptyImage when the id is
// missing or not an image (spec.md §4.3, §8).
type BitmapResolver func(id int) fill.Bitmap

// ToFillStyle converts a tag-level fill style record into a fill.Style,
// resolving any bitmap reference through resolve.
func ToFillStyle(r tags.FillStyleRecord, resolve BitmapResolver) fill.Style {
	switch r.Kind {
	case tags.FillSolid:
		return fill.Solid(r.Color)
	case tags.FillLinearGradient:
		return fill.LinearGradient(r.Matrix, toStops(r.Stops))
	case tags.FillRadialGradient:
		return fill.RadialGradient(r.Matrix, toStops(r.Stops), 0, false)
	case tags.FillFocalRadialGradient:
		return fill.RadialGradient(r.Matrix, toStops(r.Stops), r.Focal, true)
	case tags.FillBitmap:
		img := resolveBitmap(resolve, r.BitmapID)
		return fill.BitmapFill(img, r.Matrix, r.Smoothed, r.Repeating)
	default:
		return fill.Solid(geom.Opaque(0, 0, 0))
	}
}

func resolveBitmap(resolve BitmapResolver, id int) fill.Bitmap {
	if resolve == nil {
		return fill.EmptyImage{}
	}
	if img := resolve(id); img != nil {
		return img
	}
	return fill.EmptyImage{}
}

func toStops(recs []tags.GradientStopRecord) []fill.GradientStop {
	out := make([]fill.GradientStop, len(recs))
	for i, r := range recs {
		out[i] = fill.GradientStop{Ratio: r.Ratio, Color: r.Color}
	}
	return out
}

func toLineStyle(r tags.LineStyleRecord, resolve BitmapResolver) (lineFill, lineColor fill.Style, hasFill bool) {
	if r.HasFill {
		return ToFillStyle(r.Fill, resolve), fill.Style{}, true
	}
	return fill.Style{}, fill.Solid(r.Color), false
}

// accumulator tracks the in-progress edge run for the currently active
// fill0/fill1/line styles.
type accumulator struct {
	edges        []shape.Edge
	startX, startY float64
}

func (a *accumulator) reset(x, y float64) {
	a.edges = nil
	a.startX, a.startY = x, y
}

// Process converts tag into a Shape per spec.md §4.2. resolve may be nil,
// in which case every bitmap fill degrades to fill.EmptyImage.
func Process(tag *tags.DefineShapeTag, resolve BitmapResolver) *shape.Shape {
	fillTable := append([]tags.FillStyleRecord(nil), tag.FillStyles...)
	lineTable := append([]tags.LineStyleRecord(nil), tag.LineStyles...)

	var curX, curY float64
	fillStyle0, fillStyle1, lineStyle := 0, 0, 0
	acc := &accumulator{}

	var paths []shape.Path

	flush := func() {
		if len(acc.edges) == 0 {
			return
		}
		if fillStyle0 > 0 && fillStyle0 <= len(fillTable) {
			st := ToFillStyle(fillTable[fillStyle0-1], resolve)
			p := shape.Path{
				Style:  shape.PathStyle{HasFill: true, Fill: st},
				Edges:  append([]shape.Edge(nil), acc.edges...),
				StartX: acc.startX,
				StartY: acc.startY,
			}
			paths = append(paths, p.Reversed())
		}
		if fillStyle1 > 0 && fillStyle1 <= len(fillTable) {
			st := ToFillStyle(fillTable[fillStyle1-1], resolve)
			paths = append(paths, shape.Path{
				Style:  shape.PathStyle{HasFill: true, Fill: st},
				Edges:  append([]shape.Edge(nil), acc.edges...),
				StartX: acc.startX,
				StartY: acc.startY,
			})
		}
		if lineStyle > 0 && lineStyle <= len(lineTable) {
			rec := lineTable[lineStyle-1]
			lf, lc, hasFill := toLineStyle(rec, resolve)
			paths = append(paths, shape.Path{
				Style: shape.PathStyle{
					HasLine: true, HasLineFill: hasFill,
					LineFill: lf, LineColor: lc, LineWidth: rec.Width,
				},
				Edges:  append([]shape.Edge(nil), acc.edges...),
				StartX: acc.startX,
				StartY: acc.startY,
			})
		}
		acc.reset(curX, curY)
	}

	for _, rec := range tag.Records {
		switch rec.Kind {
		case tags.RecordStyleChange:
			flush()
			if rec.HasNewStyles {
				fillTable = append([]tags.FillStyleRecord(nil), rec.NewFillStyles...)
				lineTable = append([]tags.LineStyleRecord(nil), rec.NewLineStyles...)
				fillStyle0, fillStyle1, lineStyle = 0, 0, 0
			}
			if rec.HasFillStyle0 {
				fillStyle0 = rec.FillStyle0
			}
			if rec.HasFillStyle1 {
				fillStyle1 = rec.FillStyle1
			}
			if rec.HasLineStyle {
				lineStyle = rec.LineStyle
			}
			if rec.MoveTo {
				curX, curY = rec.MoveX, rec.MoveY
				acc.reset(curX, curY)
			}
		case tags.RecordStraightEdge:
			acc.edges = append(acc.edges, shape.Straight(rec.ToX, rec.ToY))
			curX, curY = rec.ToX, rec.ToY
		case tags.RecordCurvedEdge:
			acc.edges = append(acc.edges, shape.Curved(rec.ControlX, rec.ControlY, rec.ToX, rec.ToY))
			curX, curY = rec.ToX, rec.ToY
		case tags.RecordEndShape:
			flush()
		}
	}
	flush()

	return &shape.Shape{
		Width:   tag.ShapeBounds.Width(),
		Height:  tag.ShapeBounds.Height(),
		XOffset: tag.ShapeBounds.XMin,
		YOffset: tag.ShapeBounds.YMin,
		Paths:   paths,
	}
}
