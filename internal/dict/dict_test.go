package dict

import (
	"testing"

	"github.com/turnforge/swfx/internal/errmask"
	"github.com/turnforge/swfx/internal/geom"
	"github.com/turnforge/swfx/internal/tags"
)

func rectShapeTag(id int) *tags.DefineShapeTag {
	return &tags.DefineShapeTag{
		ID:          id,
		ShapeBounds: geom.Rectangle{XMax: 100, YMax: 100},
		FillStyles:  []tags.FillStyleRecord{{Kind: tags.FillSolid, Color: geom.Opaque(0, 0, 255)}},
		Records: []tags.ShapeRecord{
			{Kind: tags.RecordStyleChange, MoveTo: true, HasFillStyle1: true, FillStyle1: 1},
			{Kind: tags.RecordStraightEdge, ToX: 100, ToY: 0},
			{Kind: tags.RecordStraightEdge, ToX: 100, ToY: 100},
			{Kind: tags.RecordEndShape},
		},
	}
}

func TestShapesSkipsZeroID(t *testing.T) {
	src := tags.Slice{rectShapeTag(0), rectShapeTag(5)}
	d := New(src, 0)
	shapes := d.Shapes()
	if _, ok := shapes[0]; ok {
		t.Error("character id 0 must be skipped")
	}
	if _, ok := shapes[5]; !ok {
		t.Error("expected shape id 5 to be present")
	}
}

func TestImagesFirstSeenBiasAcrossCategories(t *testing.T) {
	src := tags.Slice{
		&tags.DefineBitsLosslessTag{ID: 1, Width: 10, Height: 10, ContentHash: "lossless"},
		&tags.DefineBitsJPEGTag{ID: 1, Width: 20, Height: 20, ContentHash: "jpeg"},
	}
	d := New(src, 0)
	images := d.Images()
	img, ok := images[1].(*LosslessImage)
	if !ok {
		t.Fatalf("expected id 1 to resolve to the first-seen lossless image, got %T", images[1])
	}
	if img.hash != "lossless" {
		t.Errorf("hash = %s, want lossless (first-seen wins)", img.hash)
	}
}

func TestExportedEarlierMappingWins(t *testing.T) {
	src := tags.Slice{
		&tags.ExportAssetsTag{Exports: map[string]int{"hero": 1}},
		&tags.ExportAssetsTag{Exports: map[string]int{"hero": 2}},
	}
	d := New(src, 0)
	id, ok := d.Exported()["hero"]
	if !ok || id != 1 {
		t.Errorf("Exported()[hero] = %d, want 1 (earlier mapping wins)", id)
	}
}

func TestByNameNotExported(t *testing.T) {
	d := New(tags.Slice{}, 0)
	if _, err := d.ByName("missing"); err == nil {
		t.Fatal("expected an error for an unexported name")
	}
}

func TestCharacterMissingReturnsSentinel(t *testing.T) {
	d := New(tags.Slice{}, 0)
	c := d.Character(999)
	if _, ok := c.(MissingCharacter); !ok {
		t.Fatalf("expected MissingCharacter, got %T", c)
	}
	if !c.Bounds().IsEmpty() {
		t.Error("MissingCharacter bounds must be empty")
	}
}

func TestCircularSpriteReturnsEmptyTimelineWhenMasked(t *testing.T) {
	spriteTags := tags.Slice{
		&tags.PlaceObjectTag{Depth: 1, HasCharacterID: true, CharacterID: 10},
		&tags.ShowFrameTag{},
	}
	src := tags.Slice{&tags.DefineSpriteTag{ID: 10, FrameCount: 1, Tags: spriteTags}}
	d := New(src, 0)
	sprite := d.Sprites()[10]
	tl, err := sprite.Timeline()
	if err != nil {
		t.Fatalf("Timeline() error = %v, want nil (CircularReference masked off)", err)
	}
	if len(tl.Frames) != 1 {
		t.Fatalf("expected the empty timeline sentinel, got %d frames", len(tl.Frames))
	}
}

func TestCircularSpriteRaisesWhenEnabled(t *testing.T) {
	spriteTags := tags.Slice{
		&tags.PlaceObjectTag{Depth: 1, HasCharacterID: true, CharacterID: 10},
		&tags.ShowFrameTag{},
	}
	src := tags.Slice{&tags.DefineSpriteTag{ID: 10, FrameCount: 1, Tags: spriteTags}}
	d := New(src, errmask.CircularReference)
	sprite := d.Sprites()[10]
	if _, err := sprite.Timeline(); err == nil {
		t.Fatal("expected CircularReference error")
	}
}

func TestReleaseClearsMemoization(t *testing.T) {
	src := tags.Slice{rectShapeTag(1)}
	d := New(src, 0)
	d.Shapes()
	d.Release()
	if d.shapesDone {
		t.Error("Release must reset shapesDone so the next access rebuilds")
	}
	rebuilt := d.Shapes()
	if _, ok := rebuilt[1]; !ok {
		t.Error("rebuilt dictionary should still contain shape 1")
	}
}
