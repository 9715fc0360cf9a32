// Package dict implements C6: the lazy, id-keyed character dictionary that
// groups a tag stream's definitions by kind, resolves exported names, and
// materializes sprite timelines while breaking the sprite self-reference
// cycle (spec.md §3, §4.1).
package dict

import (
	"log/slog"
	"sync"

	"github.com/turnforge/swfx/internal/draw"
	"github.com/turnforge/swfx/internal/errmask"
	"github.com/turnforge/swfx/internal/fill"
	"github.com/turnforge/swfx/internal/geom"
	"github.com/turnforge/swfx/internal/morph"
	"github.com/turnforge/swfx/internal/obs"
	"github.com/turnforge/swfx/internal/shape"
	"github.com/turnforge/swfx/internal/shapeproc"
	"github.com/turnforge/swfx/internal/tags"
	"github.com/turnforge/swfx/internal/timeline"
	"github.com/turnforge/swfx/internal/xerrors"
)

// Dictionary lazily builds and memoizes every character dictionary over a
// tag source: shapes, morph shapes, sprites, images, and the exported-name
// table (spec.md §4.1). Zero value is not usable; construct with New.
//
// The RWMutex exists only to make Release() safe to call concurrently with
// an in-flight accessor — e.g. from a budget.Governor goroutine watching
// memory pressure in the background while a render is still running. It
// does not relax the rule that concurrent *extraction* calls on the same
// Extractor are undefined; only Release() takes the write lock outside of
// first-population.
type Dictionary struct {
	src  tags.Source
	mask errmask.Mask

	// Logger receives a Warn record whenever a masked-off error is
	// downgraded to a sentinel value (SPEC_FULL.md §4.8). Nil-safe:
	// resolved through obs.Or at each call site.
	Logger *slog.Logger

	mu         sync.RWMutex
	shapes     map[int]*ShapeDef
	morphs     map[int]*MorphShapeDef
	sprites    map[int]*SpriteDef
	images     map[int]draw.Drawable
	exported   map[string]int
	shapesDone, morphsDone, spritesDone, imagesDone, exportedDone bool
}

// New constructs a Dictionary scanning src lazily under the given error
// mask.
func New(src tags.Source, mask errmask.Mask) *Dictionary {
	return &Dictionary{src: src, mask: mask}
}

// Release drops every cache back to the uninitialized state (spec.md §3,
// §4.1); subsequent accessors rebuild from src.
func (d *Dictionary) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shapes, d.morphs, d.sprites, d.images, d.exported = nil, nil, nil, nil, nil
	d.shapesDone, d.morphsDone, d.spritesDone, d.imagesDone, d.exportedDone = false, false, false, false, false
}

func scanShapes(src tags.Source, d *Dictionary) map[int]*ShapeDef {
	out := make(map[int]*ShapeDef)
	for t := range src.Tags() {
		tag, ok := t.(*tags.DefineShapeTag)
		if !ok {
			continue
		}
		id, _ := tag.CharacterID()
		if id == 0 {
			continue
		}
		out[id] = &ShapeDef{id: id, tag: tag, dict: d}
	}
	return out
}

func scanMorphs(src tags.Source, d *Dictionary) map[int]*MorphShapeDef {
	out := make(map[int]*MorphShapeDef)
	for t := range src.Tags() {
		tag, ok := t.(*tags.DefineMorphShapeTag)
		if !ok {
			continue
		}
		id, _ := tag.CharacterID()
		if id == 0 {
			continue
		}
		out[id] = &MorphShapeDef{id: id, tag: tag, dict: d, proc: morph.New(tag, d.resolveBitmap)}
	}
	return out
}

func scanSprites(src tags.Source, d *Dictionary) map[int]*SpriteDef {
	out := make(map[int]*SpriteDef)
	for t := range src.Tags() {
		tag, ok := t.(*tags.DefineSpriteTag)
		if !ok {
			continue
		}
		id, _ := tag.CharacterID()
		if id == 0 {
			continue
		}
		out[id] = &SpriteDef{id: id, tag: tag, dict: d}
	}
	return out
}

// scanImages unions the three image tag families with first-seen bias:
// lossless, then DefineBits+JPEGTables, then DefineBitsJPEG2/3/4 (spec.md
// §4.1 — "later categories may not overwrite earlier ids").
func scanImages(src tags.Source) map[int]draw.Drawable {
	out := make(map[int]draw.Drawable)
	var lastJPEGTables *tags.JPEGTablesTag
	for t := range src.Tags() {
		switch tag := t.(type) {
		case *tags.DefineBitsLosslessTag:
			if _, exists := out[tag.ID]; !exists {
				out[tag.ID] = &LosslessImage{id: tag.ID, width: tag.Width, height: tag.Height, hasAlpha: tag.HasAlpha, hash: tag.ContentHash}
			}
		case *tags.JPEGTablesTag:
			lastJPEGTables = tag
		case *tags.DefineBitsTag:
			if _, exists := out[tag.ID]; !exists && lastJPEGTables != nil {
				out[tag.ID] = &JpegImage{id: tag.ID, width: tag.Width, height: tag.Height, hash: tag.ContentHash}
			}
		case *tags.DefineBitsJPEGTag:
			if _, exists := out[tag.ID]; !exists {
				out[tag.ID] = &BitsImage{id: tag.ID, width: tag.Width, height: tag.Height, hasAlpha: tag.HasAlpha, hash: tag.ContentHash}
			}
		}
	}
	return out
}

func scanExported(src tags.Source) map[string]int {
	out := make(map[string]int)
	for t := range src.Tags() {
		tag, ok := t.(*tags.ExportAssetsTag)
		if !ok {
			continue
		}
		for name, id := range tag.Exports {
			if _, exists := out[name]; !exists {
				out[name] = id
			}
		}
	}
	return out
}

// Shapes returns the memoized id→ShapeDef dictionary, double-checked-locking
// the first scan (spec.md §4.1).
func (d *Dictionary) Shapes() map[int]*ShapeDef {
	d.mu.RLock()
	if d.shapesDone {
		defer d.mu.RUnlock()
		return d.shapes
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.shapesDone {
		d.shapes, d.shapesDone = scanShapes(d.src, d), true
	}
	return d.shapes
}

// MorphShapes returns the memoized id→MorphShapeDef dictionary.
func (d *Dictionary) MorphShapes() map[int]*MorphShapeDef {
	d.mu.RLock()
	if d.morphsDone {
		defer d.mu.RUnlock()
		return d.morphs
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.morphsDone {
		d.morphs, d.morphsDone = scanMorphs(d.src, d), true
	}
	return d.morphs
}

// Sprites returns the memoized id→SpriteDef dictionary.
func (d *Dictionary) Sprites() map[int]*SpriteDef {
	d.mu.RLock()
	if d.spritesDone {
		defer d.mu.RUnlock()
		return d.sprites
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.spritesDone {
		d.sprites, d.spritesDone = scanSprites(d.src, d), true
	}
	return d.sprites
}

// Images returns the memoized id→image-Drawable dictionary.
func (d *Dictionary) Images() map[int]draw.Drawable {
	d.mu.RLock()
	if d.imagesDone {
		defer d.mu.RUnlock()
		return d.images
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.imagesDone {
		d.images, d.imagesDone = scanImages(d.src), true
	}
	return d.images
}

// Exported returns the memoized exported-name→id table.
func (d *Dictionary) Exported() map[string]int {
	d.mu.RLock()
	if d.exportedDone {
		defer d.mu.RUnlock()
		return d.exported
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.exportedDone {
		d.exported, d.exportedDone = scanExported(d.src), true
	}
	return d.exported
}

// Character resolves id against the union of all four dictionaries,
// returning MissingCharacter when absent (spec.md §4.1 — "never fails").
func (d *Dictionary) Character(id int) draw.Drawable {
	if s, ok := d.Shapes()[id]; ok {
		return s
	}
	if m, ok := d.MorphShapes()[id]; ok {
		return m
	}
	if sp, ok := d.Sprites()[id]; ok {
		return sp
	}
	if img, ok := d.Images()[id]; ok {
		return img
	}
	return MissingCharacter{id: id}
}

// Resolve implements timeline.CharacterResolver.
func (d *Dictionary) Resolve(id int) (draw.Drawable, bool) {
	c := d.Character(id)
	if _, missing := c.(MissingCharacter); missing {
		return nil, false
	}
	return c, true
}

// ByName looks up name in Exported, returning ErrNameNotExported if absent
// (spec.md §4.1).
func (d *Dictionary) ByName(name string) (draw.Drawable, error) {
	id, ok := d.Exported()[name]
	if !ok {
		return nil, xerrors.ErrNameNotExported
	}
	return d.Character(id), nil
}

// resolveBitmap resolves a fill's bitmap character reference to a
// fill.Bitmap, used as the BitmapResolver passed to shapeproc and morph
// processors.
func (d *Dictionary) resolveBitmap(id int) fill.Bitmap {
	c := d.Character(id)
	if b, ok := c.(fill.Bitmap); ok {
		return b
	}
	return fill.EmptyImage{}
}

// --- ShapeDef ---------------------------------------------------------------

// ShapeDef is the Drawable wrapping one DefineShape tag, lazily processed
// into a shape.Shape on first Draw/Bounds access (spec.md §3).
type ShapeDef struct {
	id   int
	tag  *tags.DefineShapeTag
	dict *Dictionary

	once  sync.Once
	built *shape.Shape
}

func (s *ShapeDef) materialize() *shape.Shape {
	s.once.Do(func() {
		s.built = shapeproc.Process(s.tag, s.dict.resolveBitmap)
	})
	return s.built
}

func (s *ShapeDef) Bounds() geom.Rectangle { return s.tag.ShapeBounds }
func (s *ShapeDef) FramesCount(recursive bool) int { return 1 }

func (s *ShapeDef) Draw(d draw.Drawer, frame int) error {
	d.Shape(s.materialize())
	return nil
}

func (s *ShapeDef) TransformColors(ct geom.ColorTransform) draw.Drawable {
	transformed := s.materialize().TransformColors(ct)
	return &transformedShape{bounds: s.Bounds(), shape: &transformed}
}

// transformedShape is the Drawable returned by TransformColors: a shape
// already baked with a color transform, decoupled from its originating tag
// so repeated transforms don't re-walk the shape records.
type transformedShape struct {
	bounds geom.Rectangle
	shape  *shape.Shape
}

func (t *transformedShape) Bounds() geom.Rectangle          { return t.bounds }
func (t *transformedShape) FramesCount(recursive bool) int  { return 1 }
func (t *transformedShape) Draw(d draw.Drawer, frame int) error {
	d.Shape(t.shape)
	return nil
}
func (t *transformedShape) TransformColors(ct geom.ColorTransform) draw.Drawable {
	s := t.shape.TransformColors(ct)
	return &transformedShape{bounds: t.bounds, shape: &s}
}

// --- MorphShapeDef -----------------------------------------------------------

// MorphShapeDef is the Drawable wrapping one DefineMorphShape tag; Draw
// interprets the FrameObject's Ratio field as the morph ratio (spec.md
// §4.3).
type MorphShapeDef struct {
	id   int
	tag  *tags.DefineMorphShapeTag
	dict *Dictionary
	proc *morph.Processor
}

func (m *MorphShapeDef) Bounds() geom.Rectangle {
	return m.tag.StartBounds.Union(m.tag.EndBounds)
}
func (m *MorphShapeDef) FramesCount(recursive bool) int { return 1 }

func (m *MorphShapeDef) Draw(d draw.Drawer, frame int) error {
	d.Shape(m.proc.Process(0))
	return nil
}

// DrawAtRatio renders the morph shape at an explicit ratio, used by a
// FrameObject carrying HasRatio (spec.md §3's "ratio? (morph ratio)").
func (m *MorphShapeDef) DrawAtRatio(d draw.Drawer, ratio float64) {
	d.Shape(m.proc.Process(ratio))
}

func (m *MorphShapeDef) TransformColors(ct geom.ColorTransform) draw.Drawable {
	s := m.proc.Process(0).TransformColors(ct)
	return &transformedShape{bounds: m.Bounds(), shape: &s}
}

// --- SpriteDef ---------------------------------------------------------------

// SpriteDef is the Drawable wrapping one DefineSprite tag. Its Timeline is
// materialized lazily and memoized; re-entrant materialization (a sprite
// that places itself, directly or transitively) is detected via the
// in-flight flag and handled per the dictionary's error mask (spec.md §3,
// §4.4, §8 scenario 5).
type SpriteDef struct {
	id   int
	tag  *tags.DefineSpriteTag
	dict *Dictionary

	mu         sync.Mutex
	processing bool
	built      bool
	timeline   timeline.Timeline
	buildErr   error
}

func (s *SpriteDef) Bounds() geom.Rectangle {
	b, _ := s.BoundsErr()
	return b
}

// BoundsErr is Bounds with the materialization error Bounds alone discards.
// The timeline processor placing a self-referential sprite calls this
// instead of Bounds so a masked-on CircularReference failure surfaces
// through place() rather than being swallowed as an empty rectangle
// (spec.md §4.4, §8 scenario 5).
func (s *SpriteDef) BoundsErr() (geom.Rectangle, error) {
	tl, err := s.Timeline()
	if err != nil {
		return geom.EmptyRectangle, err
	}
	if len(tl.Frames) == 0 {
		return geom.EmptyRectangle, nil
	}
	return tl.Bounds, nil
}

func (s *SpriteDef) FramesCount(recursive bool) int {
	tl, err := s.Timeline()
	if err != nil {
		return 0
	}
	n := len(tl.Frames)
	if !recursive {
		return n
	}
	for _, f := range tl.Frames {
		for _, o := range f.Objects {
			if child, ok := o.Drawable.(*SpriteDef); ok {
				if c := child.FramesCount(true); c > n {
					n = c
				}
			}
		}
	}
	return n
}

func (s *SpriteDef) Draw(d draw.Drawer, frame int) error {
	tl, err := s.Timeline()
	if err != nil {
		return err
	}
	if frame < 0 || frame >= len(tl.Frames) {
		return nil
	}
	f := tl.Frames[frame]
	for _, obj := range f.Objects {
		if obj.Drawable == nil {
			continue
		}
		ct := geom.IdentityColorTransform
		if obj.HasColorTransform {
			ct = obj.ColorTransform
		}
		d.Push(obj.Matrix, ct)
		if morphDef, ok := obj.Drawable.(*MorphShapeDef); ok && obj.HasRatio {
			morphDef.DrawAtRatio(d, obj.Ratio)
		} else {
			childFrame := 0
			if sprite, ok := obj.Drawable.(*SpriteDef); ok {
				childFrame = frame % max(1, len(mustTimeline(sprite).Frames))
			}
			_ = obj.Drawable.Draw(d, childFrame)
		}
		d.Pop()
	}
	return nil
}

func mustTimeline(s *SpriteDef) timeline.Timeline {
	tl, _ := s.Timeline()
	return tl
}

func (s *SpriteDef) TransformColors(ct geom.ColorTransform) draw.Drawable {
	return &transformedSprite{inner: s, ct: ct}
}

// transformedSprite wraps a SpriteDef with an extra ColorTransform applied
// lazily to every object drawn from its timeline (spec.md §3's "lazy list
// of additional ColorTransforms").
type transformedSprite struct {
	inner *SpriteDef
	ct    geom.ColorTransform
}

func (t *transformedSprite) Bounds() geom.Rectangle { return t.inner.Bounds() }
func (t *transformedSprite) BoundsErr() (geom.Rectangle, error) { return t.inner.BoundsErr() }
func (t *transformedSprite) FramesCount(recursive bool) int { return t.inner.FramesCount(recursive) }
func (t *transformedSprite) Draw(d draw.Drawer, frame int) error {
	d.Push(geom.Identity, t.ct)
	defer d.Pop()
	return t.inner.Draw(d, frame)
}
func (t *transformedSprite) TransformColors(ct geom.ColorTransform) draw.Drawable {
	return &transformedSprite{inner: t.inner, ct: ct}
}

// Timeline materializes and memoizes this sprite's Timeline, guarding
// against re-entrant self-reference (spec.md §4.4, §5).
func (s *SpriteDef) Timeline() (timeline.Timeline, error) {
	s.mu.Lock()
	if s.built {
		tl, err := s.timeline, s.buildErr
		s.mu.Unlock()
		return tl, err
	}
	if s.processing {
		s.mu.Unlock()
		if s.dict.mask.Has(errmask.CircularReference) {
			return timeline.Timeline{}, xerrors.ErrCircularReference
		}
		obs.Or(s.dict.Logger).Warn("circular sprite reference downgraded to empty timeline", "characterId", s.id)
		return timeline.Empty, nil
	}
	s.processing = true
	s.mu.Unlock()

	proc := timeline.NewProcessor(s.dict, s.dict.mask)
	tl, err := proc.Process(s.tag.Tags)

	s.mu.Lock()
	s.processing = false
	s.built = true
	s.timeline, s.buildErr = tl, err
	s.mu.Unlock()
	return tl, err
}

// --- Images -------------------------------------------------------------

// LosslessImage is the Drawable/Bitmap wrapping a DefineBitsLossless tag.
type LosslessImage struct {
	id            int
	width, height int
	hasAlpha      bool
	hash          string
}

func (i *LosslessImage) Bounds() geom.Rectangle { return geom.Rectangle{XMax: i.width, YMax: i.height} }
func (i *LosslessImage) FramesCount(recursive bool) int { return 1 }
func (i *LosslessImage) Draw(d draw.Drawer, frame int) error {
	d.Bitmap(i, geom.Identity)
	return nil
}
func (i *LosslessImage) TransformColors(ct geom.ColorTransform) draw.Drawable { return i }
func (i *LosslessImage) BitmapBounds() (int, int)                            { return i.width, i.height }
func (i *LosslessImage) BitmapHash() string                                  { return i.hash }

// JpegImage is the Drawable/Bitmap wrapping a DefineBits tag paired with a
// preceding JPEGTables tag.
type JpegImage struct {
	id            int
	width, height int
	hash          string
}

func (i *JpegImage) Bounds() geom.Rectangle { return geom.Rectangle{XMax: i.width, YMax: i.height} }
func (i *JpegImage) FramesCount(recursive bool) int { return 1 }
func (i *JpegImage) Draw(d draw.Drawer, frame int) error {
	d.Bitmap(i, geom.Identity)
	return nil
}
func (i *JpegImage) TransformColors(ct geom.ColorTransform) draw.Drawable { return i }
func (i *JpegImage) BitmapBounds() (int, int)                            { return i.width, i.height }
func (i *JpegImage) BitmapHash() string                                  { return i.hash }

// BitsImage is the Drawable/Bitmap wrapping a self-contained
// DefineBitsJPEG{2,3,4} tag.
type BitsImage struct {
	id            int
	width, height int
	hasAlpha      bool
	hash          string
}

func (i *BitsImage) Bounds() geom.Rectangle { return geom.Rectangle{XMax: i.width, YMax: i.height} }
func (i *BitsImage) FramesCount(recursive bool) int { return 1 }
func (i *BitsImage) Draw(d draw.Drawer, frame int) error {
	d.Bitmap(i, geom.Identity)
	return nil
}
func (i *BitsImage) TransformColors(ct geom.ColorTransform) draw.Drawable { return i }
func (i *BitsImage) BitmapBounds() (int, int)                            { return i.width, i.height }
func (i *BitsImage) BitmapHash() string                                  { return i.hash }

// MissingCharacter is the sentinel Drawable returned by Character for an
// unknown id: zero bounds, zero frames, a no-op Draw (spec.md §4.1, §7).
type MissingCharacter struct{ id int }

func (m MissingCharacter) Bounds() geom.Rectangle                          { return geom.EmptyRectangle }
func (m MissingCharacter) FramesCount(recursive bool) int                  { return 0 }
func (m MissingCharacter) Draw(d draw.Drawer, frame int) error             { return nil }
func (m MissingCharacter) TransformColors(ct geom.ColorTransform) draw.Drawable { return m }
