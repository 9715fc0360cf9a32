// Package timeline implements C7: replaying a tag stream's display-list
// control records (Place/Remove/ShowFrame/FrameLabel) into a depth-ordered
// sequence of Frames with a final union bounds rewrite (spec.md §4.4).
package timeline

import (
	"errors"
	"log/slog"
	"math"
	"sort"

	"github.com/turnforge/swfx/internal/draw"
	"github.com/turnforge/swfx/internal/errmask"
	"github.com/turnforge/swfx/internal/geom"
	"github.com/turnforge/swfx/internal/obs"
	"github.com/turnforge/swfx/internal/tags"
	"github.com/turnforge/swfx/internal/xerrors"
)

// MaxBounds is the largest extent (twips) a running union bounds, or any
// single object, may reach before being excluded (spec.md §4.4: 163,840
// twips = 8,192 px).
const MaxBounds = 163840

// CharacterResolver resolves a character id to its Drawable, as owned by
// whatever dictionary the caller maintains. Defined here (rather than
// imported from a dictionary package) so this package has no dependency on
// dict, avoiding the dict↔timeline import cycle a sprite's self-reference
// would otherwise create.
type CharacterResolver interface {
	Resolve(id int) (draw.Drawable, bool)
}

// FrameObject is one occupant of a depth slot at the moment a Frame was
// captured (spec.md §3).
type FrameObject struct {
	CharacterID int
	Depth       int
	Bounds      geom.Rectangle
	Matrix      geom.Matrix

	HasColorTransform bool
	ColorTransform    geom.ColorTransform

	HasRatio bool
	Ratio    float64

	HasClipDepth bool
	ClipDepth    int

	HasName bool
	Name    string

	Filters   []string
	BlendMode string

	Drawable draw.Drawable

	// ExtraColorTransforms is a list of additional transforms to layer on
	// top of ColorTransform. The processor only copies it on clone: nothing
	// in this package appends to it, and the SVG canvas does not read it;
	// transforms of enclosing placements are folded in order by the
	// drawer's Push stack instead.
	ExtraColorTransforms []geom.ColorTransform
}

func (o FrameObject) clone() FrameObject {
	o.Filters = append([]string(nil), o.Filters...)
	o.ExtraColorTransforms = append([]geom.ColorTransform(nil), o.ExtraColorTransforms...)
	return o
}

// Frame is one rendered display-list state, produced by a single ShowFrame
// record (spec.md §3).
type Frame struct {
	Bounds  geom.Rectangle
	Objects []FrameObject
	Actions [][]byte
	Label   string
}

// Timeline is an ordered, non-empty sequence of Frames sharing one final
// union bounds (spec.md §3).
type Timeline struct {
	Bounds geom.Rectangle
	Frames []Frame
}

// Empty is the sentinel timeline substituted for a circular sprite
// reference, or an input with zero ShowFrame records, when the
// corresponding error class is masked off (spec.md §4.4, §8 scenario 5).
var Empty = Timeline{
	Bounds: geom.EmptyRectangle,
	Frames: []Frame{{Bounds: geom.EmptyRectangle}},
}

// Processor replays a tag stream's display-list records into a Timeline.
type Processor struct {
	resolver CharacterResolver
	mask     errmask.Mask

	// Logger receives a Warn record whenever a per-tag placement error is
	// downgraded to a dropped tag by the error mask (SPEC_FULL.md §4.8).
	// Nil-safe: resolved through obs.Or at the call site.
	Logger *slog.Logger
}

// NewProcessor constructs a Processor resolving characters through
// resolver under the given error mask.
func NewProcessor(resolver CharacterResolver, mask errmask.Mask) *Processor {
	return &Processor{resolver: resolver, mask: mask}
}

// Process walks src's tags up to the first End record, handling ShowFrame,
// FrameLabel, PlaceObject, RemoveObject, and DoAction records per spec.md
// §4.4, and returns the resulting Timeline.
func (p *Processor) Process(src tags.Source) (Timeline, error) {
	objectsByDepth := make(map[int]FrameObject)
	var pendingActions [][]byte
	var frameLabel string
	var frames []Frame

	runXMin, runYMin := math.Inf(1), math.Inf(1)
	runXMax, runYMax := math.Inf(-1), math.Inf(-1)
	unionSet := false

	union := func() geom.Rectangle {
		if !unionSet {
			return geom.EmptyRectangle
		}
		return geom.Rectangle{XMin: int(runXMin), XMax: int(runXMax), YMin: int(runYMin), YMax: int(runYMax)}
	}

	tryUnion := func(b geom.Rectangle) {
		if b.IsEmpty() {
			return
		}
		if b.Width() > MaxBounds || b.Height() > MaxBounds {
			return
		}
		nxmin, nymin := math.Min(runXMin, float64(b.XMin)), math.Min(runYMin, float64(b.YMin))
		nxmax, nymax := math.Max(runXMax, float64(b.XMax)), math.Max(runYMax, float64(b.YMax))
		if (nxmax-nxmin) > MaxBounds || (nymax-nymin) > MaxBounds {
			return
		}
		runXMin, runYMin, runXMax, runYMax = nxmin, nymin, nxmax, nymax
		unionSet = true
	}

loop:
	for t := range src.Tags() {
		switch tag := t.(type) {
		case *tags.EndTag:
			break loop

		case *tags.ShowFrameTag:
			objs := make([]FrameObject, 0, len(objectsByDepth))
			for _, o := range objectsByDepth {
				objs = append(objs, o)
			}
			sort.Slice(objs, func(i, j int) bool { return objs[i].Depth < objs[j].Depth })
			frames = append(frames, Frame{
				Bounds:  union(),
				Objects: objs,
				Actions: pendingActions,
				Label:   frameLabel,
			})
			pendingActions = nil
			frameLabel = ""

		case *tags.FrameLabelTag:
			frameLabel = tag.Label

		case *tags.DoActionTag:
			pendingActions = append(pendingActions, tag.Bytes)

		case *tags.RemoveObjectTag:
			delete(objectsByDepth, tag.Depth)

		case *tags.PlaceObjectTag:
			obj, err := p.place(objectsByDepth, tag)
			if err != nil {
				if errors.Is(err, xerrors.ErrCircularReference) || p.mask.Has(errmask.UnprocessableData) {
					return Timeline{}, err
				}
				obs.Or(p.Logger).Warn("placement error downgraded by mask, dropping tag", "depth", tag.Depth, "err", err)
				continue
			}
			objectsByDepth[tag.Depth] = obj
			tryUnion(obj.Bounds)
		}
	}

	if len(frames) == 0 {
		if p.mask.Has(errmask.UnprocessableData) {
			return Timeline{}, xerrors.NewProcessingInvalidData("timeline has no ShowFrame records")
		}
		return Empty, nil
	}

	final := union()
	for i := range frames {
		frames[i].Bounds = final
	}
	return Timeline{Bounds: final, Frames: frames}, nil
}

// place applies one PlaceObject record's new-or-modify semantics (spec.md
// §4.4).
func (p *Processor) place(objectsByDepth map[int]FrameObject, tag *tags.PlaceObjectTag) (FrameObject, error) {
	if !tag.Move {
		if !tag.HasCharacterID {
			return FrameObject{}, xerrors.NewProcessingInvalidData("new placement at depth %d lacks a characterId", tag.Depth)
		}
		drawable, ok := p.resolveCharacter(tag.CharacterID)
		if !ok {
			return FrameObject{}, xerrors.NewProcessingInvalidData("placement references unknown characterId %d", tag.CharacterID)
		}
		charBounds, err := drawableBounds(drawable)
		if err != nil {
			return FrameObject{}, err
		}
		obj := FrameObject{CharacterID: tag.CharacterID, Depth: tag.Depth, Drawable: drawable}
		applyMatrix(&obj, tag, charBounds)
		applyOptionalFields(&obj, tag)
		return obj, nil
	}

	existing, ok := objectsByDepth[tag.Depth]
	if !ok {
		return FrameObject{}, xerrors.NewProcessingInvalidData("modify of empty depth %d", tag.Depth)
	}
	obj := existing.clone()
	if tag.HasCharacterID && tag.CharacterID != obj.CharacterID {
		drawable, ok := p.resolveCharacter(tag.CharacterID)
		if !ok {
			return FrameObject{}, xerrors.NewProcessingInvalidData("modify references unknown characterId %d", tag.CharacterID)
		}
		obj.CharacterID = tag.CharacterID
		obj.Drawable = drawable
		charBounds, err := drawableBounds(drawable)
		if err != nil {
			return FrameObject{}, err
		}
		applyMatrix(&obj, tag, charBounds)
	} else if tag.HasMatrix {
		bounds := geom.EmptyRectangle
		if obj.Drawable != nil {
			b, err := drawableBounds(obj.Drawable)
			if err != nil {
				return FrameObject{}, err
			}
			bounds = b
		}
		applyMatrix(&obj, tag, bounds)
	}
	applyOptionalFields(&obj, tag)
	return obj, nil
}

func (p *Processor) resolveCharacter(id int) (draw.Drawable, bool) {
	if p.resolver == nil {
		return nil, false
	}
	return p.resolver.Resolve(id)
}

// boundsErrorer is implemented by Drawables (sprites) whose Bounds() can
// mask a materialization failure behind an empty rectangle. place() uses
// it to surface that failure — a masked-on CircularReference — instead of
// treating the fallback empty bounds as a successful placement.
type boundsErrorer interface {
	BoundsErr() (geom.Rectangle, error)
}

func drawableBounds(d draw.Drawable) (geom.Rectangle, error) {
	if be, ok := d.(boundsErrorer); ok {
		return be.BoundsErr()
	}
	return d.Bounds(), nil
}

// applyMatrix composes M' = tag.matrix · translate(charBounds.xmin,
// charBounds.ymin) and projects charBounds through tag.matrix, per spec.md
// §4.4. The placement bounds are projected through tag.matrix alone — M'
// only folds the character's local origin into the object's own drawing
// matrix, it does not belong in the bounds projection.
func applyMatrix(obj *FrameObject, tag *tags.PlaceObjectTag, charBounds geom.Rectangle) {
	m := geom.Identity
	if tag.HasMatrix {
		m = tag.Matrix
	}
	obj.Matrix = m.Multiply(geom.Identity.Translate(charBounds.XMin, charBounds.YMin))
	obj.Bounds = charBounds.Transform(m)
}

func applyOptionalFields(obj *FrameObject, tag *tags.PlaceObjectTag) {
	if tag.HasColorTransform {
		obj.HasColorTransform = true
		obj.ColorTransform = tag.ColorTransform
	}
	if tag.HasRatio {
		obj.HasRatio = true
		obj.Ratio = tag.Ratio
	}
	if tag.HasClipDepth {
		obj.HasClipDepth = true
		obj.ClipDepth = tag.ClipDepth
	}
	if tag.HasName {
		obj.HasName = true
		obj.Name = tag.Name
	}
	if tag.HasFilters {
		obj.Filters = tag.Filters
	}
	if tag.HasBlendMode {
		obj.BlendMode = tag.BlendMode
	}
}
