// Package shape models the immutable geometry produced by the shape and
// morph-shape processors: paths built from straight and curved edges.
package shape

import (
	"github.com/turnforge/swfx/internal/fill"
	"github.com/turnforge/swfx/internal/geom"
)

// EdgeKind distinguishes a straight line segment from a quadratic curve.
type EdgeKind int

const (
	EdgeStraight EdgeKind = iota
	EdgeCurved
)

// Edge is one segment of a path, relative to an implicit current point
// carried by the containing Path's edge list. Straight edges only use
// ToX/ToY; curved edges also use ControlX/ControlY.
type Edge struct {
	Kind                   EdgeKind
	ControlX, ControlY     float64
	ToX, ToY               float64
}

// Straight constructs a line segment ending at (x,y).
func Straight(x, y float64) Edge { return Edge{Kind: EdgeStraight, ToX: x, ToY: y} }

// Curved constructs a quadratic curve through control point (cx,cy) ending
// at (x,y).
func Curved(cx, cy, x, y float64) Edge {
	return Edge{Kind: EdgeCurved, ControlX: cx, ControlY: cy, ToX: x, ToY: y}
}

// PromoteToCurve converts a straight edge to a degenerate quadratic curve
// whose control point is the segment's own midpoint, per spec.md §4.3's
// morph-interpolation topology-mixing rule. fromX/fromY is the edge's
// starting point, needed to compute the midpoint.
func (e Edge) PromoteToCurve(fromX, fromY float64) Edge {
	if e.Kind == EdgeCurved {
		return e
	}
	return Curved((fromX+e.ToX)/2, (fromY+e.ToY)/2, e.ToX, e.ToY)
}

// PathStyle carries the fill(s)/line style active for a Path. At most one of
// Fill/LineFill is meaningful depending on whether the path is a fill
// outline or a stroked line; LineWidth is in twips.
type PathStyle struct {
	Fill        fill.Style
	HasFill     bool
	HasLine     bool
	HasLineFill bool // true when the stroke itself is gradient/bitmap filled
	LineFill    fill.Style
	LineColor   fill.Style // solid-color convenience when HasLine && !HasLineFill
	LineWidth   int
}

// Path is one contiguous subpath: a style plus an ordered edge list. The
// shape and morph processors reverse fillStyle0 runs eagerly through
// Reversed (spec.md §4.2), so their paths always carry Reverse false; the
// SVG canvas does not read the flag.
type Path struct {
	Style   PathStyle
	Edges   []Edge
	Reverse bool
	StartX  float64
	StartY  float64
}

// Reversed returns a copy of p with its edge list walked backwards and
// endpoints swapped, turning a fillStyle0 accumulation into the same
// direction as a fillStyle1 accumulation (spec.md §4.2).
func (p Path) Reversed() Path {
	n := len(p.Edges)
	out := make([]Edge, n)
	curX, curY := p.StartX, p.StartY
	// Walk the original edges forward only to know each edge's start point;
	// then emit them in reverse order with swapped endpoints.
	starts := make([][2]float64, n)
	for i, e := range p.Edges {
		starts[i] = [2]float64{curX, curY}
		curX, curY = e.ToX, e.ToY
	}
	endX, endY := curX, curY
	for i := n - 1; i >= 0; i-- {
		e := p.Edges[i]
		from := starts[i]
		switch e.Kind {
		case EdgeStraight:
			out[n-1-i] = Straight(from[0], from[1])
		case EdgeCurved:
			out[n-1-i] = Curved(e.ControlX, e.ControlY, from[0], from[1])
		}
	}
	return Path{Style: p.Style, Edges: out, Reverse: false, StartX: endX, StartY: endY}
}

// Shape is the immutable geometry built by the shape/morph processors:
// declared extent and offset in twips plus an ordered list of paths, one per contiguous
// style run (spec.md §3, §4.2).
type Shape struct {
	Width, Height    int
	XOffset, YOffset int
	Paths            []Path
}

// TransformColors returns a new Shape with every path's fill/line colors
// clamp-transformed by ct; the edge geometry is shared, not copied, since it
// is immutable (spec.md §3).
func (s Shape) TransformColors(ct geom.ColorTransform) Shape {
	paths := make([]Path, len(s.Paths))
	for i, p := range s.Paths {
		style := p.Style
		if style.HasFill {
			style.Fill = style.Fill.TransformColors(ct)
		}
		if style.HasLine {
			if style.HasLineFill {
				style.LineFill = style.LineFill.TransformColors(ct)
			} else {
				style.LineColor = style.LineColor.TransformColors(ct)
			}
		}
		p.Style = style
		paths[i] = p
	}
	s.Paths = paths
	return s
}
