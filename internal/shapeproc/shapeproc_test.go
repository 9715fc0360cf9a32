package shapeproc

import (
	"testing"

	"github.com/turnforge/swfx/internal/fill"
	"github.com/turnforge/swfx/internal/geom"
	"github.com/turnforge/swfx/internal/tags"
)

// rectangleTag builds the DefineShape scenario from spec.md §8, scenario 2:
// a 200x100-twip red rectangle with a single fillStyle1-fill.
func rectangleTag() *tags.DefineShapeTag {
	return &tags.DefineShapeTag{
		ID:          1,
		ShapeBounds: geom.Rectangle{XMin: 0, XMax: 200, YMin: 0, YMax: 100},
		FillStyles: []tags.FillStyleRecord{
			{Kind: tags.FillSolid, Color: geom.Opaque(255, 0, 0)},
		},
		Records: []tags.ShapeRecord{
			{Kind: tags.RecordStyleChange, MoveTo: true, MoveX: 0, MoveY: 0, HasFillStyle1: true, FillStyle1: 1},
			{Kind: tags.RecordStraightEdge, ToX: 200, ToY: 0},
			{Kind: tags.RecordStraightEdge, ToX: 200, ToY: 100},
			{Kind: tags.RecordStraightEdge, ToX: 0, ToY: 100},
			{Kind: tags.RecordStraightEdge, ToX: 0, ToY: 0},
			{Kind: tags.RecordEndShape},
		},
	}
}

func TestProcessSingleRectangle(t *testing.T) {
	s := Process(rectangleTag(), nil)

	if s.Width != 200 || s.Height != 100 {
		t.Fatalf("shape bounds = %dx%d, want 200x100", s.Width, s.Height)
	}
	if len(s.Paths) != 1 {
		t.Fatalf("len(Paths) = %d, want 1", len(s.Paths))
	}
	p := s.Paths[0]
	if !p.Style.HasFill {
		t.Fatal("expected a fill-only path")
	}
	if p.Style.Fill.Solid.Hex() != "#ff0000" {
		t.Errorf("fill color = %s, want #ff0000", p.Style.Fill.Solid.Hex())
	}
	if p.Style.Fill.Solid.Alpha != nil {
		t.Errorf("opaque solid should carry a nil Alpha, not emit fill-opacity")
	}
	if len(p.Edges) != 4 {
		t.Errorf("len(Edges) = %d, want 4", len(p.Edges))
	}
}

func TestProcessFillStyle0Reversed(t *testing.T) {
	tag := &tags.DefineShapeTag{
		ID:          2,
		ShapeBounds: geom.Rectangle{XMin: 0, XMax: 100, YMin: 0, YMax: 100},
		FillStyles: []tags.FillStyleRecord{
			{Kind: tags.FillSolid, Color: geom.Opaque(0, 255, 0)},
		},
		Records: []tags.ShapeRecord{
			{Kind: tags.RecordStyleChange, MoveTo: true, HasFillStyle0: true, FillStyle0: 1},
			{Kind: tags.RecordStraightEdge, ToX: 100, ToY: 0},
			{Kind: tags.RecordStraightEdge, ToX: 100, ToY: 100},
			{Kind: tags.RecordEndShape},
		},
	}
	s := Process(tag, nil)
	if len(s.Paths) != 1 {
		t.Fatalf("len(Paths) = %d, want 1", len(s.Paths))
	}
	// fillStyle0 accumulation is reversed: it should now start at the final
	// accumulated point (100,100) rather than the origin.
	if s.Paths[0].StartX != 100 || s.Paths[0].StartY != 100 {
		t.Errorf("reversed path start = (%v,%v), want (100,100)", s.Paths[0].StartX, s.Paths[0].StartY)
	}
}

func TestProcessEmptyShapeYieldsNoPaths(t *testing.T) {
	tag := &tags.DefineShapeTag{
		ID:          3,
		ShapeBounds: geom.Rectangle{},
		Records:     []tags.ShapeRecord{{Kind: tags.RecordEndShape}},
	}
	s := Process(tag, nil)
	if len(s.Paths) != 0 {
		t.Errorf("len(Paths) = %d, want 0 for a degenerate shape", len(s.Paths))
	}
}

func TestProcessMissingBitmapFallsBackToEmptyImage(t *testing.T) {
	tag := &tags.DefineShapeTag{
		ID:          4,
		ShapeBounds: geom.Rectangle{XMin: 0, XMax: 10, YMin: 0, YMax: 10},
		FillStyles: []tags.FillStyleRecord{
			{Kind: tags.FillBitmap, BitmapID: 99},
		},
		Records: []tags.ShapeRecord{
			{Kind: tags.RecordStyleChange, MoveTo: true, HasFillStyle1: true, FillStyle1: 1},
			{Kind: tags.RecordStraightEdge, ToX: 10, ToY: 0},
			{Kind: tags.RecordEndShape},
		},
	}
	s := Process(tag, func(id int) fill.Bitmap { return nil })
	if s.Paths[0].Style.Fill.Image.BitmapHash() != "empty" {
		t.Errorf("missing bitmap fill should resolve to EmptyImage")
	}
}
