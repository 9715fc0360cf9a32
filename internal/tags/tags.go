// Package tags defines the typed tag-record contract the extractor and
// processors consume from an upstream byte-level SWF parser (out of scope
// per spec.md §1), plus a restartable in-memory adapter for callers who
// already hold parsed records.
package tags

import (
	"iter"

	"github.com/turnforge/swfx/internal/geom"
)

// Kind identifies the record variety of a Tag.
type Kind int

const (
	KindDefineShape Kind = iota
	KindDefineMorphShape
	KindDefineSprite
	KindDefineBitsLossless
	KindDefineBits
	KindJPEGTables
	KindDefineBitsJPEG
	KindExportAssets
	KindShowFrame
	KindFrameLabel
	KindPlaceObject
	KindRemoveObject
	KindDoAction
	KindEnd
)

// Tag is the minimal capability every record exposes: its kind, and the
// character id it defines or references, when applicable (spec.md §6: "each
// tag exposes its character id through a side accessor").
type Tag interface {
	Kind() Kind
	CharacterID() (id int, ok bool)
}

// Source is a restartable finite sequence of tags: callers are allowed to
// range over the same tag range multiple times (shapes, then morph shapes,
// then sprites each re-scan), per spec.md §9's "generator-like iteration"
// design note.
type Source interface {
	Tags() iter.Seq[Tag]
}

// Slice is a Source backed by an in-memory tag list — the adapter an
// embedder uses once an external parser has already produced typed records.
type Slice []Tag

func (s Slice) Tags() iter.Seq[Tag] {
	return func(yield func(Tag) bool) {
		for _, t := range s {
			if !yield(t) {
				return
			}
		}
	}
}

// --- Shape definitions -----------------------------------------------------

// FillKind identifies a fill-style record's variant (spec.md §4.2).
type FillKind int

const (
	FillSolid FillKind = iota
	FillLinearGradient
	FillRadialGradient
	FillFocalRadialGradient
	FillBitmap
)

// FillStyleRecord is the raw tag-level fill style table entry; the shape
// processor resolves it into a fill.Style (bitmap ids are resolved lazily
// against the character dictionary by the caller, per spec.md §4.3/§8).
type FillStyleRecord struct {
	Kind      FillKind
	Color     geom.Color
	Matrix    geom.Matrix
	Stops     []GradientStopRecord
	Focal     float64
	BitmapID  int
	Smoothed  bool
	Repeating bool
}

// GradientStopRecord is one ratio/color pair in a gradient fill record.
type GradientStopRecord struct {
	Ratio uint8
	Color geom.Color
}

// LineStyleRecord is a raw tag-level line style table entry. HasFill
// distinguishes LineStyle2/MorphLineStyle2 records carrying a fill style
// for the stroke (spec.md §4.3) from the plain-color variants.
type LineStyleRecord struct {
	Width   int
	Color   geom.Color
	HasFill bool
	Fill    FillStyleRecord
}

// ShapeRecordKind identifies a shape-record variant walked by the shape
// processor (spec.md §4.2).
type ShapeRecordKind int

const (
	RecordStyleChange ShapeRecordKind = iota
	RecordStraightEdge
	RecordCurvedEdge
	RecordEndShape
)

// ShapeRecord is one record in a shape's edge stream.
type ShapeRecord struct {
	Kind ShapeRecordKind

	// RecordStyleChange
	MoveTo           bool
	MoveX, MoveY     float64
	HasNewStyles     bool
	NewFillStyles    []FillStyleRecord
	NewLineStyles    []LineStyleRecord

	HasFillStyle0 bool
	FillStyle0    int // 1-based index into current fill table; 0 = none
	HasFillStyle1 bool
	FillStyle1    int
	HasLineStyle  bool
	LineStyle     int

	// RecordStraightEdge / RecordCurvedEdge (deltas are absolute endpoints;
	// the processor tracks the current point itself per spec.md §4.2)
	ControlX, ControlY float64
	ToX, ToY           float64
}

// DefineShapeTag is a DefineShape{1..4} record.
type DefineShapeTag struct {
	ID          int
	ShapeBounds geom.Rectangle
	FillStyles  []FillStyleRecord
	LineStyles  []LineStyleRecord
	Records     []ShapeRecord
}

func (t *DefineShapeTag) Kind() Kind                    { return KindDefineShape }
func (t *DefineShapeTag) CharacterID() (int, bool)      { return t.ID, true }

// DefineMorphShapeTag is a DefineMorphShape{1,2} record.
type DefineMorphShapeTag struct {
	ID          int
	StartBounds geom.Rectangle
	EndBounds   geom.Rectangle
	FillStyles  []FillStyleRecord // start fill styles; End* mirrors below
	EndFillStyles []FillStyleRecord
	LineStyles  []LineStyleRecord
	EndLineStyles []LineStyleRecord
	StartEdges  []ShapeRecord
	EndEdges    []ShapeRecord
}

func (t *DefineMorphShapeTag) Kind() Kind               { return KindDefineMorphShape }
func (t *DefineMorphShapeTag) CharacterID() (int, bool) { return t.ID, true }

// DefineSpriteTag is a DefineSprite record: a nested control-tag stream.
type DefineSpriteTag struct {
	ID        int
	FrameCount int
	Tags      Slice
}

func (t *DefineSpriteTag) Kind() Kind               { return KindDefineSprite }
func (t *DefineSpriteTag) CharacterID() (int, bool) { return t.ID, true }

// --- Images -----------------------------------------------------------------

// DefineBitsLosslessTag is a DefineBitsLossless{1,2} record.
type DefineBitsLosslessTag struct {
	ID            int
	Width, Height int
	HasAlpha      bool
	ContentHash   string // stable identity of the decoded pixel content
}

func (t *DefineBitsLosslessTag) Kind() Kind               { return KindDefineBitsLossless }
func (t *DefineBitsLosslessTag) CharacterID() (int, bool) { return t.ID, true }

// JPEGTablesTag carries shared JPEG encoder tables preceding a DefineBits
// tag; it defines no character of its own.
type JPEGTablesTag struct {
	Data []byte
}

func (t *JPEGTablesTag) Kind() Kind               { return KindJPEGTables }
func (t *JPEGTablesTag) CharacterID() (int, bool) { return 0, false }

// DefineBitsTag is a DefineBits tag, valid only when preceded by a
// JPEGTablesTag in the same tag stream (spec.md §4.1).
type DefineBitsTag struct {
	ID            int
	Width, Height int
	ContentHash   string
}

func (t *DefineBitsTag) Kind() Kind               { return KindDefineBits }
func (t *DefineBitsTag) CharacterID() (int, bool) { return t.ID, true }

// DefineBitsJPEGTag is a DefineBitsJPEG{2,3,4} record (self-contained, no
// JPEGTables dependency).
type DefineBitsJPEGTag struct {
	ID            int
	Width, Height int
	HasAlpha      bool
	ContentHash   string
}

func (t *DefineBitsJPEGTag) Kind() Kind               { return KindDefineBitsJPEG }
func (t *DefineBitsJPEGTag) CharacterID() (int, bool) { return t.ID, true }

// --- Export / display list ---------------------------------------------------

// ExportAssetsTag carries a batch of exported name -> id pairs.
type ExportAssetsTag struct {
	Exports map[string]int
}

func (t *ExportAssetsTag) Kind() Kind               { return KindExportAssets }
func (t *ExportAssetsTag) CharacterID() (int, bool) { return 0, false }

// ShowFrameTag terminates the current frame's display-list accumulation.
type ShowFrameTag struct{}

func (t *ShowFrameTag) Kind() Kind               { return KindShowFrame }
func (t *ShowFrameTag) CharacterID() (int, bool) { return 0, false }

// FrameLabelTag names the frame currently being accumulated.
type FrameLabelTag struct {
	Label string
}

func (t *FrameLabelTag) Kind() Kind               { return KindFrameLabel }
func (t *FrameLabelTag) CharacterID() (int, bool) { return 0, false }

// PlaceObjectTag unifies PlaceObject/PlaceObject2/PlaceObject3: every field
// beyond Depth is optional, with HasX flags marking presence (spec.md §4.4's
// "replaced only when present in the tag" modify semantics).
type PlaceObjectTag struct {
	Move  bool
	Depth int

	HasCharacterID bool
	CharacterID    int

	HasMatrix bool
	Matrix    geom.Matrix

	HasColorTransform bool
	ColorTransform    geom.ColorTransform

	HasRatio bool
	Ratio    float64

	HasClipDepth bool
	ClipDepth    int

	HasName bool
	Name    string

	HasFilters bool
	Filters    []string

	HasBlendMode bool
	BlendMode    string
}

func (t *PlaceObjectTag) Kind() Kind { return KindPlaceObject }
func (t *PlaceObjectTag) CharacterID() (int, bool) {
	return t.CharacterID, t.HasCharacterID
}

// RemoveObjectTag removes whatever object currently occupies Depth
// (RemoveObject{1,2} unified; the character-id-qualified v1 variant is
// accepted but depth is always authoritative, per spec.md §4.4).
type RemoveObjectTag struct {
	Depth int
}

func (t *RemoveObjectTag) Kind() Kind               { return KindRemoveObject }
func (t *RemoveObjectTag) CharacterID() (int, bool) { return 0, false }

// DoActionTag carries an opaque ActionScript byte blob; swfx never executes
// it (spec.md §1 non-goals) but preserves it on the Frame for a downstream
// consumer that does.
type DoActionTag struct {
	Bytes []byte
}

func (t *DoActionTag) Kind() Kind               { return KindDoAction }
func (t *DoActionTag) CharacterID() (int, bool) { return 0, false }

// EndTag terminates a tag stream (file-level or sprite-level).
type EndTag struct{}

func (t *EndTag) Kind() Kind               { return KindEnd }
func (t *EndTag) CharacterID() (int, bool) { return 0, false }
