// Package morph implements C5: pairing a morph-shape tag's start/end edge
// streams and interpolating a concrete shape.Shape at a ratio r∈[0,1]
// (spec.md §4.3).
package morph

import (
	"fmt"
	"math"
	"sync"

	"github.com/turnforge/swfx/internal/fill"
	"github.com/turnforge/swfx/internal/geom"
	"github.com/turnforge/swfx/internal/shape"
	"github.com/turnforge/swfx/internal/shapeproc"
	"github.com/turnforge/swfx/internal/tags"
)

// Processor interpolates a single DefineMorphShape tag, memoizing results by
// a 4-decimal rounded ratio key (spec.md §4.3, §9).
type Processor struct {
	tag     *tags.DefineMorphShapeTag
	resolve shapeproc.BitmapResolver

	mu    sync.Mutex
	cache map[string]*shape.Shape
}

// New constructs a Processor for tag. resolve may be nil.
func New(tag *tags.DefineMorphShapeTag, resolve shapeproc.BitmapResolver) *Processor {
	return &Processor{tag: tag, resolve: resolve, cache: make(map[string]*shape.Shape)}
}

func clampRatio(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func memoKey(r float64) string { return fmt.Sprintf("%.4f", r) }

// Process returns the interpolated shape at ratio r, clamped to [0,1] and
// memoized at 4-decimal precision.
func (p *Processor) Process(r float64) *shape.Shape {
	r = clampRatio(r)
	key := memoKey(r)

	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.cache[key]; ok {
		return s
	}
	s := p.process(r)
	p.cache[key] = s
	return s
}

func (p *Processor) process(r float64) *shape.Shape {
	t := p.tag
	bounds := lerpRect(t.StartBounds, t.EndBounds, r)

	startFills := append([]tags.FillStyleRecord(nil), t.FillStyles...)
	endFills := t.EndFillStyles
	startLines := append([]tags.LineStyleRecord(nil), t.LineStyles...)
	endLines := t.EndLineStyles

	paths := pairAndInterpolate(t.StartEdges, t.EndEdges, startFills, endFills, startLines, endLines, r, p.resolve)

	return &shape.Shape{
		Width:   bounds.Width(),
		Height:  bounds.Height(),
		XOffset: bounds.XMin,
		YOffset: bounds.YMin,
		Paths:   paths,
	}
}

func lerpRect(a, b geom.Rectangle, r float64) geom.Rectangle {
	return geom.Rectangle{
		XMin: lerpInt(a.XMin, b.XMin, r),
		XMax: lerpInt(a.XMax, b.XMax, r),
		YMin: lerpInt(a.YMin, b.YMin, r),
		YMax: lerpInt(a.YMax, b.YMax, r),
	}
}

func lerpInt(a, b int, r float64) int {
	return int(math.Round(float64(a) + (float64(b)-float64(a))*r))
}

func lerpFloat(a, b, r float64) float64 { return a + (b-a)*r }

func lerpMatrix(a, b geom.Matrix, r float64) geom.Matrix {
	return geom.Matrix{
		ScaleX:      lerpFloat(a.ScaleX, b.ScaleX, r),
		ScaleY:      lerpFloat(a.ScaleY, b.ScaleY, r),
		RotateSkew0: lerpFloat(a.RotateSkew0, b.RotateSkew0, r),
		RotateSkew1: lerpFloat(a.RotateSkew1, b.RotateSkew1, r),
		TranslateX:  lerpInt(a.TranslateX, b.TranslateX, r),
		TranslateY:  lerpInt(a.TranslateY, b.TranslateY, r),
	}
}

// accState tracks the current point and active style indices for one side
// (start or end) of the morph pair.
type accState struct {
	x, y                     float64
	fillStyle0, fillStyle1   int
	lineStyle                int
}

// pairAndInterpolate walks the start and end edge streams in lock-step,
// letting the end-edge index independently advance through inert
// StyleChange records (spec.md §4.3), pairing geometric edges and
// interpolating fills/strokes at ratio r.
func pairAndInterpolate(startRecs, endRecs []tags.ShapeRecord,
	startFills, endFills []tags.FillStyleRecord,
	startLines, endLines []tags.LineStyleRecord,
	r float64, resolve shapeproc.BitmapResolver) []shape.Path {

	start := &accState{}
	end := &accState{}

	var acc []shape.Edge
	accStartX, accStartY := 0.0, 0.0
	var paths []shape.Path

	flush := func() {
		if len(acc) == 0 {
			return
		}
		emit := func(idx int, reverse bool) {
			if idx <= 0 || idx > len(startFills) || idx > len(endFills) {
				return
			}
			sf := shapeproc.ToFillStyle(startFills[idx-1], resolve)
			ef := shapeproc.ToFillStyle(endFills[idx-1], resolve)
			st := interpolateFillStyle(sf, ef, r)
			edges := append([]shape.Edge(nil), acc...)
			p := shape.Path{Style: shape.PathStyle{HasFill: true, Fill: st}, Edges: edges, StartX: accStartX, StartY: accStartY}
			if reverse {
				p = p.Reversed()
			}
			paths = append(paths, p)
		}
		emit(start.fillStyle0, true)
		emit(start.fillStyle1, false)

		if start.lineStyle > 0 && start.lineStyle <= len(startLines) && start.lineStyle <= len(endLines) {
			sl := startLines[start.lineStyle-1]
			el := endLines[start.lineStyle-1]
			width := lerpInt(sl.Width, el.Width, r)
			var st shape.PathStyle
			st.HasLine = true
			st.LineWidth = width
			if sl.HasFill && el.HasFill {
				st.HasLineFill = true
				st.LineFill = interpolateFillStyle(shapeproc.ToFillStyle(sl.Fill, resolve), shapeproc.ToFillStyle(el.Fill, resolve), r)
			} else {
				st.LineColor = fill.Solid(geom.LerpColor(sl.Color, el.Color, r))
			}
			paths = append(paths, shape.Path{Style: st, Edges: append([]shape.Edge(nil), acc...), StartX: accStartX, StartY: accStartY})
		}
		acc = nil
		accStartX, accStartY = start.x, start.y
	}

	ei := 0
	for _, srec := range startRecs {
		switch srec.Kind {
		case tags.RecordStyleChange:
			flush()
			applyStyleChange(start, srec)
			if srec.MoveTo {
				start.x, start.y = srec.MoveX, srec.MoveY
				accStartX, accStartY = start.x, start.y
			}
			// advance end index through any inert StyleChange records
			for ei < len(endRecs) && endRecs[ei].Kind == tags.RecordStyleChange {
				erec := endRecs[ei]
				applyStyleChange(end, erec)
				if erec.MoveTo {
					end.x, end.y = erec.MoveX, erec.MoveY
				}
				ei++
			}
		case tags.RecordStraightEdge, tags.RecordCurvedEdge:
			var erec tags.ShapeRecord
			if ei < len(endRecs) {
				erec = endRecs[ei]
				ei++
			} else {
				erec = srec
			}
			acc = append(acc, interpolateEdge(srec, erec, start.x, start.y, end.x, end.y, r))
			start.x, start.y = srec.ToX, srec.ToY
			end.x, end.y = erec.ToX, erec.ToY
		case tags.RecordEndShape:
			flush()
		}
	}
	flush()
	return paths
}

func applyStyleChange(s *accState, rec tags.ShapeRecord) {
	if rec.HasFillStyle0 {
		s.fillStyle0 = rec.FillStyle0
	}
	if rec.HasFillStyle1 {
		s.fillStyle1 = rec.FillStyle1
	}
	if rec.HasLineStyle {
		s.lineStyle = rec.LineStyle
	}
}

// interpolateEdge blends one paired start/end edge at ratio r. When the
// topologies differ (a straight edge paired with a curved edge), the
// straight edge is promoted to a degenerate quadratic using its own
// midpoint as control point before blending, and the result is always
// emitted as a curved edge (spec.md §4.3).
func interpolateEdge(s, e tags.ShapeRecord, sx, sy, ex, ey float64, r float64) shape.Edge {
	sEdge := toEdge(s)
	eEdge := toEdge(e)
	if sEdge.Kind != eEdge.Kind {
		sEdge = sEdge.PromoteToCurve(sx, sy)
		eEdge = eEdge.PromoteToCurve(ex, ey)
	}
	if sEdge.Kind == shape.EdgeCurved {
		return shape.Curved(
			lerpFloat(sEdge.ControlX, eEdge.ControlX, r),
			lerpFloat(sEdge.ControlY, eEdge.ControlY, r),
			lerpFloat(sEdge.ToX, eEdge.ToX, r),
			lerpFloat(sEdge.ToY, eEdge.ToY, r),
		)
	}
	return shape.Straight(
		lerpFloat(sEdge.ToX, eEdge.ToX, r),
		lerpFloat(sEdge.ToY, eEdge.ToY, r),
	)
}

func toEdge(r tags.ShapeRecord) shape.Edge {
	if r.Kind == tags.RecordCurvedEdge {
		return shape.Curved(r.ControlX, r.ControlY, r.ToX, r.ToY)
	}
	return shape.Straight(r.ToX, r.ToY)
}

// interpolateFillStyle blends two same-shaped fill styles at ratio r per
// spec.md §4.3: solids interpolate color; gradients interpolate per-stop
// colors/ratios and the gradient matrix; bitmap fills interpolate only the
// matrix (the resolved image is carried from the start side).
func interpolateFillStyle(a, b fill.Style, r float64) fill.Style {
	switch a.Kind {
	case fill.KindSolid:
		return fill.Solid(geom.LerpColor(a.Solid, b.Solid, r))
	case fill.KindLinearGradient, fill.KindRadialGradient:
		n := min(len(a.Stops), len(b.Stops))
		stops := make([]fill.GradientStop, n)
		for i := 0; i < n; i++ {
			stops[i] = fill.GradientStop{
				Ratio: uint8(lerpInt(int(a.Stops[i].Ratio), int(b.Stops[i].Ratio), r)),
				Color: geom.LerpColor(a.Stops[i].Color, b.Stops[i].Color, r),
			}
		}
		m := lerpMatrix(a.Matrix, b.Matrix, r)
		if a.Kind == fill.KindLinearGradient {
			return fill.LinearGradient(m, stops)
		}
		return fill.RadialGradient(m, stops, lerpFloat(a.FocalPoint, b.FocalPoint, r), a.HasFocal)
	case fill.KindBitmap:
		m := lerpMatrix(a.Matrix, b.Matrix, r)
		return fill.BitmapFill(a.Image, m, a.Smoothed, a.Repeat)
	default:
		return a
	}
}
