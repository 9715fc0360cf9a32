package fixture

import (
	"testing"

	"github.com/turnforge/swfx/internal/tags"
)

const sampleBundle = `{
  "displayBounds": {"XMin": 0, "XMax": 2000, "YMin": 0, "YMax": 1000},
  "tags": [
    {
      "kind": "DefineShape",
      "id": 1,
      "bounds": {"XMin": 0, "XMax": 200, "YMin": 0, "YMax": 200},
      "fillStyles": [{"kind": "solid", "color": {"Red": 255, "Green": 0, "Blue": 0}}],
      "records": [
        {"kind": "styleChange", "moveTo": true, "moveX": 0, "moveY": 0, "fillStyle0": 1},
        {"kind": "straight", "toX": 200, "toY": 0},
        {"kind": "straight", "toX": 200, "toY": 200},
        {"kind": "straight", "toX": 0, "toY": 0},
        {"kind": "end"}
      ]
    },
    {"kind": "ExportAssets", "exports": {"Square": 1}},
    {"kind": "PlaceObject", "depth": 1, "characterId": 1, "matrix": {"ScaleX": 1, "ScaleY": 1, "TranslateX": 0, "TranslateY": 0}},
    {"kind": "ShowFrame"},
    {"kind": "End"}
  ]
}`

func TestLoadDecodesShapeAndDisplayList(t *testing.T) {
	bundle, err := Load([]byte(sampleBundle))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if bundle.DisplayBounds.XMax != 2000 {
		t.Errorf("DisplayBounds.XMax = %d, want 2000", bundle.DisplayBounds.XMax)
	}
	if len(bundle.Tags) != 5 {
		t.Fatalf("len(Tags) = %d, want 5", len(bundle.Tags))
	}
	shapeTag, ok := bundle.Tags[0].(*tags.DefineShapeTag)
	if !ok {
		t.Fatalf("Tags[0] type = %T, want *tags.DefineShapeTag", bundle.Tags[0])
	}
	if shapeTag.ID != 1 {
		t.Errorf("shape id = %d, want 1", shapeTag.ID)
	}
	if len(shapeTag.Records) != 5 {
		t.Errorf("len(Records) = %d, want 5", len(shapeTag.Records))
	}
	place, ok := bundle.Tags[2].(*tags.PlaceObjectTag)
	if !ok {
		t.Fatalf("Tags[2] type = %T, want *tags.PlaceObjectTag", bundle.Tags[2])
	}
	if !place.HasCharacterID || place.CharacterID != 1 {
		t.Errorf("place.CharacterID = %d (has=%v), want 1", place.CharacterID, place.HasCharacterID)
	}
}

func TestLoadRejectsUnknownKind(t *testing.T) {
	_, err := Load([]byte(`{"tags": [{"kind": "Bogus"}]}`))
	if err == nil {
		t.Fatal("expected an error for an unknown tag kind")
	}
}

func TestLoadDecodesNestedSprite(t *testing.T) {
	doc := `{"tags": [
		{"kind": "DefineSprite", "id": 5, "frameCount": 1, "tags": [
			{"kind": "ShowFrame"}
		]}
	]}`
	bundle, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	sprite, ok := bundle.Tags[0].(*tags.DefineSpriteTag)
	if !ok {
		t.Fatalf("Tags[0] type = %T, want *tags.DefineSpriteTag", bundle.Tags[0])
	}
	if len(sprite.Tags) != 1 {
		t.Errorf("len(sprite.Tags) = %d, want 1", len(sprite.Tags))
	}
}
