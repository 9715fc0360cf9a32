package morph

import (
	"testing"

	"github.com/turnforge/swfx/internal/geom"
	"github.com/turnforge/swfx/internal/shape"
	"github.com/turnforge/swfx/internal/tags"
)

// triangleMorph builds the scenario from spec.md §8 scenario 3: identical
// start/end triangles whose fill interpolates from black to white.
func triangleMorph(startColor, endColor geom.Color) *tags.DefineMorphShapeTag {
	edges := []tags.ShapeRecord{
		{Kind: tags.RecordStyleChange, MoveTo: true, HasFillStyle1: true, FillStyle1: 1},
		{Kind: tags.RecordStraightEdge, ToX: 100, ToY: 0},
		{Kind: tags.RecordStraightEdge, ToX: 50, ToY: 100},
		{Kind: tags.RecordEndShape},
	}
	return &tags.DefineMorphShapeTag{
		ID:          1,
		StartBounds: geom.Rectangle{XMin: 0, XMax: 100, YMin: 0, YMax: 100},
		EndBounds:   geom.Rectangle{XMin: 0, XMax: 100, YMin: 0, YMax: 100},
		FillStyles:    []tags.FillStyleRecord{{Kind: tags.FillSolid, Color: startColor}},
		EndFillStyles: []tags.FillStyleRecord{{Kind: tags.FillSolid, Color: endColor}},
		StartEdges: edges,
		EndEdges:   edges,
	}
}

func TestMorphMidpointColor(t *testing.T) {
	tag := triangleMorph(geom.WithAlpha(0, 0, 0, 255), geom.WithAlpha(255, 255, 255, 255))
	p := New(tag, nil)
	s := p.Process(0.5)
	if len(s.Paths) != 1 {
		t.Fatalf("len(Paths) = %d, want 1", len(s.Paths))
	}
	if got := s.Paths[0].Style.Fill.Solid.Hex(); got != "#808080" {
		t.Errorf("midpoint fill = %s, want #808080", got)
	}
}

func TestMorphEndpointsMatchStartAndEnd(t *testing.T) {
	tag := triangleMorph(geom.WithAlpha(10, 20, 30, 255), geom.WithAlpha(200, 210, 220, 255))
	p := New(tag, nil)

	at0 := p.Process(0)
	if got := at0.Paths[0].Style.Fill.Solid.Hex(); got != "#0a141e" {
		t.Errorf("Process(0) fill = %s, want start color #0a141e", got)
	}
	at1 := p.Process(1)
	if got := at1.Paths[0].Style.Fill.Solid.Hex(); got != "#c8d2dc" {
		t.Errorf("Process(1) fill = %s, want end color #c8d2dc", got)
	}
}

func TestMorphRatioClamped(t *testing.T) {
	tag := triangleMorph(geom.WithAlpha(0, 0, 0, 255), geom.WithAlpha(255, 255, 255, 255))
	p := New(tag, nil)
	below := p.Process(-1)
	above := p.Process(2)
	if below.Paths[0].Style.Fill.Solid.Hex() != "#000000" {
		t.Errorf("Process(-1) should clamp to ratio 0")
	}
	if above.Paths[0].Style.Fill.Solid.Hex() != "#ffffff" {
		t.Errorf("Process(2) should clamp to ratio 1")
	}
}

func TestMorphMemoizationCoarseness(t *testing.T) {
	if memoKey(0.12340) != memoKey(0.12344) {
		t.Errorf("memoKey should coalesce nearby ratios at 4-decimal precision")
	}
	if memoKey(0.1) == memoKey(0.2) {
		t.Errorf("memoKey must distinguish ratios a decimal apart")
	}
}

func TestMorphPromotesStraightToCurveWhenPairedWithCurve(t *testing.T) {
	startEdges := []tags.ShapeRecord{
		{Kind: tags.RecordStyleChange, MoveTo: true, HasFillStyle1: true, FillStyle1: 1},
		{Kind: tags.RecordStraightEdge, ToX: 100, ToY: 0},
		{Kind: tags.RecordEndShape},
	}
	endEdges := []tags.ShapeRecord{
		{Kind: tags.RecordStyleChange, MoveTo: true, HasFillStyle1: true, FillStyle1: 1},
		{Kind: tags.RecordCurvedEdge, ControlX: 60, ControlY: 40, ToX: 100, ToY: 0},
		{Kind: tags.RecordEndShape},
	}
	tag := &tags.DefineMorphShapeTag{
		ID:            2,
		StartBounds:   geom.Rectangle{XMin: 0, XMax: 100, YMin: 0, YMax: 100},
		EndBounds:     geom.Rectangle{XMin: 0, XMax: 100, YMin: 0, YMax: 100},
		FillStyles:    []tags.FillStyleRecord{{Kind: tags.FillSolid, Color: geom.Opaque(255, 0, 0)}},
		EndFillStyles: []tags.FillStyleRecord{{Kind: tags.FillSolid, Color: geom.Opaque(255, 0, 0)}},
		StartEdges:    startEdges,
		EndEdges:      endEdges,
	}
	p := New(tag, nil)
	s := p.Process(0.5)
	if s.Paths[0].Edges[0].Kind != shape.EdgeCurved {
		t.Errorf("mixed straight/curved pairing must emit a CurvedEdge, got kind %v", s.Paths[0].Edges[0].Kind)
	}
}
