// Package svgcanvas implements C8: a draw.Drawer that plans shapes and
// bitmaps drawn against it, then serializes a single SVG document with a
// shared, deduplicated <defs> section (spec.md §4.5). Building is two-pass:
// Draw calls only accumulate planned elements and def entries in memory;
// Render walks the accumulated plan once to produce the final markup, so
// every <defs> entry exists before any <use> site references it regardless
// of how deeply sprites are nested.
package svgcanvas

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/turnforge/swfx/internal/draw"
	"github.com/turnforge/swfx/internal/fill"
	"github.com/turnforge/swfx/internal/geom"
	"github.com/turnforge/swfx/internal/shape"
)

// shared is the state every canvas in one render tree points at: the defs
// table, dedup indices, and object-id counter (spec.md §4.5).
type shared struct {
	nextObjectID int
	defsOrder    []string
	defsContent  map[string]string
	styleDedup   map[string]bool // hash already has a <defs> entry
	childDedup   map[*Canvas]string
	// subpixelStrokeWidth disables the <1px clamp/vector-effect rule when
	// true (spec.md §4.5).
	subpixelStrokeWidth bool
}

// Canvas is a draw.Drawer rendering onto one SVG scope: the root stage, or
// a nested <g> created for a sprite's frame. It satisfies draw.Drawer.
type Canvas struct {
	sh     *shared
	parent *Canvas
	isRoot bool
	bounds geom.Rectangle

	matrixStack []geom.Matrix
	ctStack     [][]geom.ColorTransform

	elements []string
	rendered bool
}

var _ draw.Drawer = (*Canvas)(nil)

// NewRoot constructs the root canvas for a Timeline/Frame whose stage
// extent is bounds (twips).
func NewRoot(bounds geom.Rectangle) *Canvas {
	return &Canvas{
		sh: &shared{
			defsContent: make(map[string]string),
			styleDedup:  make(map[string]bool),
			childDedup:  make(map[*Canvas]string),
		},
		isRoot:      true,
		bounds:      bounds,
		matrixStack: []geom.Matrix{geom.Identity},
	}
}

// NewChild constructs a nested canvas sharing this canvas's defs/dedup
// state, used to render one sprite frame into its own <g> inside the root
// <defs> (spec.md §4.5). Pass the returned canvas to this canvas's UseChild
// or UseChildAsFrame to register its content as a <defs> entry and reference
// it via <use>; calling Render on it returns an error.
func (c *Canvas) NewChild() *Canvas {
	return &Canvas{
		sh:          c.sh,
		parent:      c,
		bounds:      c.bounds,
		matrixStack: []geom.Matrix{geom.Identity},
	}
}

func (c *Canvas) nextObjectID() string {
	c.sh.nextObjectID++
	return fmt.Sprintf("object-%d", c.sh.nextObjectID)
}

func (c *Canvas) currentMatrix() geom.Matrix {
	return c.matrixStack[len(c.matrixStack)-1]
}

// Push enters a nested transform/color-transform scope (draw.Drawer).
func (c *Canvas) Push(m geom.Matrix, ct geom.ColorTransform) {
	c.matrixStack = append(c.matrixStack, c.currentMatrix().Multiply(m))
	var outer []geom.ColorTransform
	if len(c.ctStack) > 0 {
		outer = c.ctStack[len(c.ctStack)-1]
	}
	c.ctStack = append(c.ctStack, append(append([]geom.ColorTransform(nil), outer...), ct))
}

// Pop leaves the most recently pushed transform/color-transform scope.
func (c *Canvas) Pop() {
	if len(c.matrixStack) > 1 {
		c.matrixStack = c.matrixStack[:len(c.matrixStack)-1]
	}
	if len(c.ctStack) > 0 {
		c.ctStack = c.ctStack[:len(c.ctStack)-1]
	}
}

func (c *Canvas) activeColorTransforms() []geom.ColorTransform {
	if len(c.ctStack) == 0 {
		return nil
	}
	return c.ctStack[len(c.ctStack)-1]
}

// Shape emits one shape's paths wrapped in a <g transform="matrix(...)">
// carrying the canvas's current transform, so the <path> elements
// themselves carry only their own local coordinates (spec.md §6).
func (c *Canvas) Shape(s *shape.Shape) {
	if len(s.Paths) == 0 {
		return
	}
	cts := c.activeColorTransforms()
	var body strings.Builder
	for _, p := range s.Paths {
		body.WriteString(c.renderPath(p, cts))
	}
	c.elements = append(c.elements, fmt.Sprintf(`<g transform="%s">%s</g>`, c.currentMatrix().SVG(), body.String()))
}

// Bitmap emits a placed bitmap image as a planned <image> element.
func (c *Canvas) Bitmap(img fill.Bitmap, m geom.Matrix) {
	id := c.registerImage(img)
	w, h := img.BitmapBounds()
	full := c.currentMatrix().Multiply(m)
	c.elements = append(c.elements, fmt.Sprintf(
		`<use xlink:href="#%s" width="%d" height="%d" transform="%s"/>`,
		id, w, h, full.SVG(),
	))
}

// UseChild plans a <use> reference to a previously rendered child canvas
// (spec.md §4.5: "the parent renders a <use xlink:href=\"#id\">").
func (c *Canvas) UseChild(child *Canvas) {
	id, ok := c.sh.childDedup[child]
	if !ok {
		id = child.renderAsDef()
		c.sh.childDedup[child] = id
	}
	c.elements = append(c.elements, fmt.Sprintf(`<use xlink:href="#%s" transform="%s"/>`, id, c.currentMatrix().SVG()))
}

// UseChildAsFrame plans a <g data-frame="N"> wrapping a <use> reference to
// child, for a Timeline's per-frame groups (SPEC_FULL.md §4.7). label is
// omitted from the attribute when empty.
func (c *Canvas) UseChildAsFrame(child *Canvas, frame int, label string) {
	id, ok := c.sh.childDedup[child]
	if !ok {
		id = child.renderAsDef()
		c.sh.childDedup[child] = id
	}
	var labelAttr string
	if label != "" {
		labelAttr = fmt.Sprintf(` data-label="%s"`, label)
	}
	c.elements = append(c.elements, fmt.Sprintf(
		`<g data-frame="%d"%s><use xlink:href="#%s" transform="%s"/></g>`,
		frame, labelAttr, id, c.currentMatrix().SVG(),
	))
}

// renderAsDef finalizes a non-root (child) canvas's accumulated elements
// into a root-level <defs><g id="object-N">…</g></defs> entry and returns
// its id. Calling Render on a child is a usage error (spec.md §4.5).
func (c *Canvas) renderAsDef() string {
	if c.isRoot {
		panic("svgcanvas: renderAsDef called on the root canvas")
	}
	id := c.nextObjectID()
	body := strings.Join(c.elements, "")
	c.addDef(id, fmt.Sprintf(`<g id="%s">%s</g>`, id, body))
	c.rendered = true
	return id
}

func (c *Canvas) addDef(id, content string) {
	if c.sh.styleDedup[id] {
		return
	}
	c.sh.styleDedup[id] = true
	c.sh.defsOrder = append(c.sh.defsOrder, id)
	c.sh.defsContent[id] = content
}

// registerStyle ensures a fill.Style's gradient/pattern def exists, adding
// it on first encounter, and returns its hash id.
func (c *Canvas) registerStyle(st fill.Style) string {
	hash := st.Hash()
	if c.sh.styleDedup[hash] {
		return hash
	}
	switch st.Kind {
	case fill.KindLinearGradient:
		c.addDef(hash, renderLinearGradient(hash, st))
	case fill.KindRadialGradient:
		c.addDef(hash, renderRadialGradient(hash, st))
	case fill.KindBitmap:
		imgID := c.registerImage(st.Image)
		c.addDef(hash, renderPattern(hash, st, imgID))
	}
	return hash
}

// registerImage ensures a bitmap's <image> def exists and returns its id,
// "image-"+MD5 of its base64 payload (spec.md §4.5). Real pixel encoding is
// out of scope (spec.md §1); the payload is a stable placeholder keyed by
// the bitmap's own content hash.
func (c *Canvas) registerImage(img fill.Bitmap) string {
	data := base64.StdEncoding.EncodeToString([]byte(img.BitmapHash()))
	sum := md5.Sum([]byte(data))
	id := "image-" + hex.EncodeToString(sum[:])
	if c.sh.styleDedup[id] {
		return id
	}
	w, h := img.BitmapBounds()
	c.addDef(id, fmt.Sprintf(
		`<image id="%s" width="%d" height="%d" xlink:href="data:image/png;base64,%s"/>`,
		id, w, h, data,
	))
	return id
}

// renderPath converts one Path into an SVG <path> element carrying only its
// own local coordinates and lazily-folded color transforms; the enclosing
// <g> (see Shape) carries the placement transform (spec.md §4.5, §6).
func (c *Canvas) renderPath(p shape.Path, cts []geom.ColorTransform) string {
	d := pathData(p)
	var b strings.Builder
	fmt.Fprintf(&b, `<path d="%s"`, d)
	if p.Style.HasFill {
		fmt.Fprintf(&b, ` fill-rule="evenodd"`)
		writeFillAttrs(&b, c, "fill", p.Style.Fill, cts)
	} else {
		b.WriteString(` fill="none"`)
	}
	if p.Style.HasLine {
		width := p.Style.LineWidth / 20
		var extra string
		if !c.sh.subpixelStrokeWidth && width < 1 {
			width = 1
			extra = ` vector-effect="non-scaling-stroke"`
		}
		fmt.Fprintf(&b, ` stroke-width="%d" stroke-linecap="round" stroke-linejoin="round"%s`, width, extra)
		if p.Style.HasLineFill {
			writeFillAttrs(&b, c, "stroke", p.Style.LineFill, cts)
		} else {
			writeFillAttrs(&b, c, "stroke", p.Style.LineColor, cts)
		}
	}
	b.WriteString(`/>`)
	return b.String()
}

func writeFillAttrs(b *strings.Builder, c *Canvas, attr string, st fill.Style, cts []geom.ColorTransform) {
	switch st.Kind {
	case fill.KindSolid:
		col := geom.ApplyAll(st.Solid, cts)
		fmt.Fprintf(b, ` %s="%s"`, attr, col.Hex())
		if a := col.AlphaOr255(); a < 255 {
			fmt.Fprintf(b, ` %s-opacity="%s"`, attr, trimFloat(float64(a)/255))
		}
	case fill.KindLinearGradient, fill.KindRadialGradient, fill.KindBitmap:
		id := c.registerStyle(st)
		fmt.Fprintf(b, ` %s="url(#%s)"`, attr, id)
	}
}

// pathData renders p's edges as an SVG path "d" attribute, converting twips
// to pixels (divide by 20).
func pathData(p shape.Path) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M%s,%s", trimFloat(p.StartX/20), trimFloat(p.StartY/20))
	for _, e := range p.Edges {
		switch e.Kind {
		case shape.EdgeStraight:
			fmt.Fprintf(&b, " L%s,%s", trimFloat(e.ToX/20), trimFloat(e.ToY/20))
		case shape.EdgeCurved:
			fmt.Fprintf(&b, " Q%s,%s %s,%s", trimFloat(e.ControlX/20), trimFloat(e.ControlY/20), trimFloat(e.ToX/20), trimFloat(e.ToY/20))
		}
	}
	b.WriteString(" Z")
	return b.String()
}

func trimFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// renderLinearGradient emits a <linearGradient> def per spec.md §4.5's
// fixed x1=-819.2/x2=819.2 gradient-space convention.
func renderLinearGradient(id string, st fill.Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<linearGradient id="%s" x1="-819.2" y1="0" x2="819.2" y2="0" gradientUnits="userSpaceOnUse" gradientTransform="%s">`, id, st.Matrix.SVG())
	writeStops(&b, st.Stops)
	b.WriteString(`</linearGradient>`)
	return b.String()
}

// renderRadialGradient emits a <radialGradient> def centered at the
// origin with radius 819.2 and an optional focal point (spec.md §4.5).
func renderRadialGradient(id string, st fill.Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<radialGradient id="%s" cx="0" cy="0" r="819.2" gradientUnits="userSpaceOnUse" gradientTransform="%s"`, id, st.Matrix.SVG())
	if st.HasFocal {
		fmt.Fprintf(&b, ` fx="0" fy="%s"`, trimFloat(st.FocalPoint*819.2))
	}
	b.WriteString(`>`)
	writeStops(&b, st.Stops)
	b.WriteString(`</radialGradient>`)
	return b.String()
}

func writeStops(b *strings.Builder, stops []fill.GradientStop) {
	for _, s := range stops {
		offset := float64(s.Ratio) / 255
		fmt.Fprintf(b, `<stop offset="%s" stop-color="%s"`, trimFloat(offset), s.Color.Hex())
		if a := s.Color.AlphaOr255(); a < 255 {
			fmt.Fprintf(b, ` stop-opacity="%s"`, trimFloat(float64(a)/255))
		}
		b.WriteString(`/>`)
	}
}

// renderPattern emits a <pattern> def wrapping one <use> of the bitmap's
// <image> def, with the fill matrix's 1/20 twip-to-pixel scale folded into
// patternTransform (spec.md §4.5).
func renderPattern(id string, st fill.Style, imageID string) string {
	w, h := st.Image.BitmapBounds()
	scaled := geom.Matrix{
		ScaleX: st.Matrix.ScaleX / 20, RotateSkew0: st.Matrix.RotateSkew0 / 20,
		RotateSkew1: st.Matrix.RotateSkew1 / 20, ScaleY: st.Matrix.ScaleY / 20,
		TranslateX: st.Matrix.TranslateX, TranslateY: st.Matrix.TranslateY,
	}
	return fmt.Sprintf(
		`<pattern id="%s" patternUnits="userSpaceOnUse" width="%d" height="%d" viewBox="0 0 %d %d" patternTransform="%s"><use xlink:href="#%s"/></pattern>`,
		id, w, h, w, h, scaled.SVG(), imageID,
	)
}

// Render serializes the root canvas's accumulated plan into a complete SVG
// document. Calling Render on a non-root (child) canvas is a usage error
// (spec.md §4.5).
func (c *Canvas) Render() (string, error) {
	if !c.isRoot {
		return "", fmt.Errorf("svgcanvas: Render called on a non-root canvas")
	}
	w, h := c.bounds.Width()/20, c.bounds.Height()/20

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%dpx" height="%dpx" viewBox="0 0 %d %d">`, w, h, w, h)
	if len(c.sh.defsOrder) > 0 {
		b.WriteString(`<defs>`)
		for _, id := range c.sh.defsOrder {
			b.WriteString(c.sh.defsContent[id])
		}
		b.WriteString(`</defs>`)
	}
	for _, el := range c.elements {
		b.WriteString(el)
	}
	b.WriteString(`</svg>`)
	return b.String(), nil
}
