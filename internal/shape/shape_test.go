package shape

import (
	"testing"

	"github.com/turnforge/swfx/internal/fill"
	"github.com/turnforge/swfx/internal/geom"
)

func TestPromoteStraightToCurve(t *testing.T) {
	e := Straight(200, 0)
	promoted := e.PromoteToCurve(0, 0)
	if promoted.Kind != EdgeCurved {
		t.Fatalf("PromoteToCurve() kind = %v, want EdgeCurved", promoted.Kind)
	}
	if promoted.ControlX != 100 || promoted.ControlY != 0 {
		t.Errorf("PromoteToCurve() control = (%v,%v), want midpoint (100,0)", promoted.ControlX, promoted.ControlY)
	}
	if promoted.ToX != 200 || promoted.ToY != 0 {
		t.Errorf("PromoteToCurve() endpoint changed: (%v,%v)", promoted.ToX, promoted.ToY)
	}
}

func TestPromoteCurveIsNoop(t *testing.T) {
	e := Curved(5, 5, 10, 10)
	if got := e.PromoteToCurve(0, 0); got != e {
		t.Errorf("PromoteToCurve() on a curve changed it: %+v", got)
	}
}

func TestPathReversed(t *testing.T) {
	p := Path{
		StartX: 0, StartY: 0,
		Edges: []Edge{Straight(100, 0), Straight(100, 100)},
	}
	rev := p.Reversed()
	if rev.StartX != 100 || rev.StartY != 100 {
		t.Errorf("Reversed() start = (%v,%v), want (100,100)", rev.StartX, rev.StartY)
	}
	if len(rev.Edges) != 2 {
		t.Fatalf("Reversed() edge count = %d, want 2", len(rev.Edges))
	}
	if rev.Edges[0].ToX != 100 || rev.Edges[0].ToY != 0 {
		t.Errorf("Reversed() first edge = %+v, want end at (100,0)", rev.Edges[0])
	}
	if rev.Edges[1].ToX != 0 || rev.Edges[1].ToY != 0 {
		t.Errorf("Reversed() last edge = %+v, want end at origin", rev.Edges[1])
	}
}

func TestShapeTransformColors(t *testing.T) {
	s := Shape{
		Width: 200, Height: 100,
		Paths: []Path{{
			Style: PathStyle{HasFill: true, Fill: fill.Solid(geom.Opaque(200, 200, 200))},
			Edges: []Edge{Straight(200, 0), Straight(200, 100), Straight(0, 100)},
		}},
	}
	dim := geom.ColorTransform{RedMul: 0.5, GreenMul: 0.5, BlueMul: 0.5, AlphaMul: 1}
	out := s.TransformColors(dim)
	if out.Paths[0].Style.Fill.Solid.Red != 100 {
		t.Errorf("TransformColors red = %d, want 100", out.Paths[0].Style.Fill.Solid.Red)
	}
	if len(s.Paths[0].Edges) != len(out.Paths[0].Edges) {
		t.Errorf("TransformColors must preserve edge geometry")
	}
}
