// Package fixture decodes the JSON tag-bundle format cmd/swfx accepts as
// input: a test/demo fixture, not a SWF-byte parser (that stays an
// external collaborator per spec.md §1). It is the one place swfx depends
// on encoding/json for its own domain model, converting a flat, human-
// writable record shape into internal/tags.Tag values.
package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/turnforge/swfx/internal/geom"
	"github.com/turnforge/swfx/internal/tags"
)

// record is the on-disk shape of one tag. Kind selects which fields are
// meaningful; unused fields are simply omitted by the fixture author.
type record struct {
	Kind string `json:"kind"`

	ID     int `json:"id,omitempty"`
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Bounds      *rect `json:"bounds,omitempty"`
	StartBounds *rect `json:"startBounds,omitempty"`
	EndBounds   *rect `json:"endBounds,omitempty"`

	FillStyles    []fillStyle `json:"fillStyles,omitempty"`
	EndFillStyles []fillStyle `json:"endFillStyles,omitempty"`
	LineStyles    []lineStyle `json:"lineStyles,omitempty"`
	EndLineStyles []lineStyle `json:"endLineStyles,omitempty"`
	Records       []record_   `json:"records,omitempty"`
	StartEdges    []record_   `json:"startEdges,omitempty"`
	EndEdges      []record_   `json:"endEdges,omitempty"`

	FrameCount int       `json:"frameCount,omitempty"`
	Tags       []record  `json:"tags,omitempty"`

	HasAlpha bool   `json:"hasAlpha,omitempty"`
	Hash     string `json:"hash,omitempty"`

	Exports map[string]int `json:"exports,omitempty"`
	Label   string         `json:"label,omitempty"`

	Depth       int      `json:"depth,omitempty"`
	Move        bool     `json:"move,omitempty"`
	CharacterID *int     `json:"characterId,omitempty"`
	Matrix      *matrix  `json:"matrix,omitempty"`
	Ratio       *float64 `json:"ratio,omitempty"`
	ClipDepth   *int     `json:"clipDepth,omitempty"`
	Name        *string  `json:"name,omitempty"`
	Filters     []string `json:"filters,omitempty"`
	BlendMode   *string  `json:"blendMode,omitempty"`

	Bytes []byte `json:"bytes,omitempty"`
}

type rect struct{ XMin, XMax, YMin, YMax int }

type matrix struct {
	ScaleX, RotateSkew0, RotateSkew1, ScaleY float64
	TranslateX, TranslateY                  int
}

type color struct {
	Red, Green, Blue uint8
	Alpha            *uint8
}

type gradientStop struct {
	Ratio uint8
	Color color
}

type fillStyle struct {
	Kind      string
	Color     *color
	Matrix    *matrix
	Stops     []gradientStop
	Focal     float64
	BitmapID  int
	Smoothed  bool
	Repeating bool
}

type lineStyle struct {
	Width   int
	Color   *color
	HasFill bool
	Fill    *fillStyle
}

// record_ is a shape-record entry (StyleChange/StraightEdge/CurvedEdge/
// EndShape); distinct from the outer tag record for readability only.
type record_ struct {
	Kind string

	MoveTo        bool
	MoveX, MoveY  float64
	NewFillStyles []fillStyle
	NewLineStyles []lineStyle

	FillStyle0 *int
	FillStyle1 *int
	LineStyle  *int

	ControlX, ControlY float64
	ToX, ToY           float64
}

func (r rect) toRectangle() geom.Rectangle {
	return geom.Rectangle{XMin: r.XMin, XMax: r.XMax, YMin: r.YMin, YMax: r.YMax}
}

func (m matrix) toMatrix() geom.Matrix {
	return geom.Matrix{
		ScaleX: m.ScaleX, RotateSkew0: m.RotateSkew0, RotateSkew1: m.RotateSkew1, ScaleY: m.ScaleY,
		TranslateX: m.TranslateX, TranslateY: m.TranslateY,
	}
}

func (c color) toColor() geom.Color {
	if c.Alpha != nil {
		return geom.WithAlpha(c.Red, c.Green, c.Blue, *c.Alpha)
	}
	return geom.Opaque(c.Red, c.Green, c.Blue)
}

func colorOrBlack(c *color) geom.Color {
	if c == nil {
		return geom.Opaque(0, 0, 0)
	}
	return c.toColor()
}

var fillKinds = map[string]tags.FillKind{
	"solid":          tags.FillSolid,
	"linear":         tags.FillLinearGradient,
	"radial":         tags.FillRadialGradient,
	"focalRadial":    tags.FillFocalRadialGradient,
	"bitmap":         tags.FillBitmap,
}

func (f fillStyle) toFillStyleRecord() tags.FillStyleRecord {
	stops := make([]tags.GradientStopRecord, len(f.Stops))
	for i, s := range f.Stops {
		stops[i] = tags.GradientStopRecord{Ratio: s.Ratio, Color: s.Color.toColor()}
	}
	rec := tags.FillStyleRecord{
		Kind:      fillKinds[f.Kind],
		Color:     colorOrBlack(f.Color),
		Stops:     stops,
		Focal:     f.Focal,
		BitmapID:  f.BitmapID,
		Smoothed:  f.Smoothed,
		Repeating: f.Repeating,
	}
	if f.Matrix != nil {
		rec.Matrix = f.Matrix.toMatrix()
	} else {
		rec.Matrix = geom.Identity
	}
	return rec
}

func (l lineStyle) toLineStyleRecord() tags.LineStyleRecord {
	rec := tags.LineStyleRecord{Width: l.Width, Color: colorOrBlack(l.Color), HasFill: l.HasFill}
	if l.Fill != nil {
		rec.Fill = l.Fill.toFillStyleRecord()
	}
	return rec
}

var shapeRecordKinds = map[string]tags.ShapeRecordKind{
	"styleChange": tags.RecordStyleChange,
	"straight":    tags.RecordStraightEdge,
	"curved":      tags.RecordCurvedEdge,
	"end":         tags.RecordEndShape,
}

func (r record_) toShapeRecord() tags.ShapeRecord {
	out := tags.ShapeRecord{
		Kind:      shapeRecordKinds[r.Kind],
		MoveTo:    r.MoveTo,
		MoveX:     r.MoveX,
		MoveY:     r.MoveY,
		ControlX:  r.ControlX,
		ControlY:  r.ControlY,
		ToX:       r.ToX,
		ToY:       r.ToY,
	}
	if r.NewFillStyles != nil || r.NewLineStyles != nil {
		out.HasNewStyles = true
		for _, f := range r.NewFillStyles {
			out.NewFillStyles = append(out.NewFillStyles, f.toFillStyleRecord())
		}
		for _, l := range r.NewLineStyles {
			out.NewLineStyles = append(out.NewLineStyles, l.toLineStyleRecord())
		}
	}
	if r.FillStyle0 != nil {
		out.HasFillStyle0, out.FillStyle0 = true, *r.FillStyle0
	}
	if r.FillStyle1 != nil {
		out.HasFillStyle1, out.FillStyle1 = true, *r.FillStyle1
	}
	if r.LineStyle != nil {
		out.HasLineStyle, out.LineStyle = true, *r.LineStyle
	}
	return out
}

func toShapeRecords(recs []record_) []tags.ShapeRecord {
	out := make([]tags.ShapeRecord, len(recs))
	for i, r := range recs {
		out[i] = r.toShapeRecord()
	}
	return out
}

func toFillStyleRecords(fs []fillStyle) []tags.FillStyleRecord {
	out := make([]tags.FillStyleRecord, len(fs))
	for i, f := range fs {
		out[i] = f.toFillStyleRecord()
	}
	return out
}

func toLineStyleRecords(ls []lineStyle) []tags.LineStyleRecord {
	out := make([]tags.LineStyleRecord, len(ls))
	for i, l := range ls {
		out[i] = l.toLineStyleRecord()
	}
	return out
}

// Bundle is a fully decoded fixture: the top-level tag sequence plus the
// file's declared display bounds (used by Extractor.Timeline's
// useFileBounds rewrite).
type Bundle struct {
	DisplayBounds geom.Rectangle
	Tags          tags.Slice
}

// Load decodes a JSON tag-bundle document into a Bundle.
func Load(data []byte) (Bundle, error) {
	var doc struct {
		DisplayBounds rect     `json:"displayBounds"`
		Tags          []record `json:"tags"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Bundle{}, fmt.Errorf("swfx: decoding tag bundle: %w", err)
	}
	out := make(tags.Slice, 0, len(doc.Tags))
	for _, r := range doc.Tags {
		t, err := toTag(r)
		if err != nil {
			return Bundle{}, err
		}
		if t != nil {
			out = append(out, t)
		}
	}
	return Bundle{DisplayBounds: doc.DisplayBounds.toRectangle(), Tags: out}, nil
}

func toTag(r record) (tags.Tag, error) {
	switch r.Kind {
	case "DefineShape":
		bounds := geom.Rectangle{}
		if r.Bounds != nil {
			bounds = r.Bounds.toRectangle()
		}
		return &tags.DefineShapeTag{
			ID:          r.ID,
			ShapeBounds: bounds,
			FillStyles:  toFillStyleRecords(r.FillStyles),
			LineStyles:  toLineStyleRecords(r.LineStyles),
			Records:     toShapeRecords(r.Records),
		}, nil
	case "DefineMorphShape":
		start, end := geom.Rectangle{}, geom.Rectangle{}
		if r.StartBounds != nil {
			start = r.StartBounds.toRectangle()
		}
		if r.EndBounds != nil {
			end = r.EndBounds.toRectangle()
		}
		return &tags.DefineMorphShapeTag{
			ID:            r.ID,
			StartBounds:   start,
			EndBounds:     end,
			FillStyles:    toFillStyleRecords(r.FillStyles),
			EndFillStyles: toFillStyleRecords(r.EndFillStyles),
			LineStyles:    toLineStyleRecords(r.LineStyles),
			EndLineStyles: toLineStyleRecords(r.EndLineStyles),
			StartEdges:    toShapeRecords(r.StartEdges),
			EndEdges:      toShapeRecords(r.EndEdges),
		}, nil
	case "DefineSprite":
		child := make(tags.Slice, 0, len(r.Tags))
		for _, cr := range r.Tags {
			ct, err := toTag(cr)
			if err != nil {
				return nil, err
			}
			if ct != nil {
				child = append(child, ct)
			}
		}
		return &tags.DefineSpriteTag{ID: r.ID, FrameCount: r.FrameCount, Tags: child}, nil
	case "DefineBitsLossless":
		return &tags.DefineBitsLosslessTag{ID: r.ID, Width: r.Width, Height: r.Height, HasAlpha: r.HasAlpha, ContentHash: r.Hash}, nil
	case "JPEGTables":
		return &tags.JPEGTablesTag{Data: r.Bytes}, nil
	case "DefineBits":
		return &tags.DefineBitsTag{ID: r.ID, Width: r.Width, Height: r.Height, ContentHash: r.Hash}, nil
	case "DefineBitsJPEG":
		return &tags.DefineBitsJPEGTag{ID: r.ID, Width: r.Width, Height: r.Height, HasAlpha: r.HasAlpha, ContentHash: r.Hash}, nil
	case "ExportAssets":
		return &tags.ExportAssetsTag{Exports: r.Exports}, nil
	case "ShowFrame":
		return &tags.ShowFrameTag{}, nil
	case "FrameLabel":
		return &tags.FrameLabelTag{Label: r.Label}, nil
	case "PlaceObject":
		out := &tags.PlaceObjectTag{Move: r.Move, Depth: r.Depth}
		if r.CharacterID != nil {
			out.HasCharacterID, out.CharacterID = true, *r.CharacterID
		}
		if r.Matrix != nil {
			out.HasMatrix, out.Matrix = true, r.Matrix.toMatrix()
		}
		if r.Ratio != nil {
			out.HasRatio, out.Ratio = true, *r.Ratio
		}
		if r.ClipDepth != nil {
			out.HasClipDepth, out.ClipDepth = true, *r.ClipDepth
		}
		if r.Name != nil {
			out.HasName, out.Name = true, *r.Name
		}
		if r.Filters != nil {
			out.HasFilters, out.Filters = true, r.Filters
		}
		if r.BlendMode != nil {
			out.HasBlendMode, out.BlendMode = true, *r.BlendMode
		}
		return out, nil
	case "RemoveObject":
		return &tags.RemoveObjectTag{Depth: r.Depth}, nil
	case "DoAction":
		return &tags.DoActionTag{Bytes: r.Bytes}, nil
	case "End":
		return &tags.EndTag{}, nil
	default:
		return nil, fmt.Errorf("swfx: unknown tag kind %q", r.Kind)
	}
}
