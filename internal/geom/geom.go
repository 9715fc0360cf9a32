// Package geom holds the twip-space affine geometry primitives shared by the
// shape, morph and timeline processors: rectangles, 2x3 matrices, and colors.
package geom

import (
	"fmt"
	"math"
	"strconv"
)

// Rectangle is an axis-aligned bounding box in twips (1/20 pixel).
type Rectangle struct {
	XMin, XMax, YMin, YMax int
}

// EmptyRectangle is the additive identity for Union: unioning it with any
// rectangle yields that rectangle unchanged.
var EmptyRectangle = Rectangle{
	XMin: math.MaxInt32,
	XMax: math.MinInt32,
	YMin: math.MaxInt32,
	YMax: math.MinInt32,
}

// IsEmpty reports whether r has never been unioned with anything.
func (r Rectangle) IsEmpty() bool {
	return r.XMin > r.XMax || r.YMin > r.YMax
}

// Width returns xmax-xmin.
func (r Rectangle) Width() int { return r.XMax - r.XMin }

// Height returns ymax-ymin.
func (r Rectangle) Height() int { return r.YMax - r.YMin }

// Union returns the smallest rectangle containing both r and o. An empty
// operand is absorbed without affecting the result.
func (r Rectangle) Union(o Rectangle) Rectangle {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return Rectangle{
		XMin: min(r.XMin, o.XMin),
		XMax: max(r.XMax, o.XMax),
		YMin: min(r.YMin, o.YMin),
		YMax: max(r.YMax, o.YMax),
	}
}

// Transform returns the axis-aligned bounding box of r's four corners
// projected through m.
func (r Rectangle) Transform(m Matrix) Rectangle {
	if r.IsEmpty() {
		return r
	}
	corners := [4][2]float64{
		{float64(r.XMin), float64(r.YMin)},
		{float64(r.XMax), float64(r.YMin)},
		{float64(r.XMax), float64(r.YMax)},
		{float64(r.XMin), float64(r.YMax)},
	}
	out := Rectangle{XMin: math.MaxInt32, XMax: math.MinInt32, YMin: math.MaxInt32, YMax: math.MinInt32}
	for _, c := range corners {
		x, y := m.Apply(c[0], c[1])
		xi, yi := int(math.Round(x)), int(math.Round(y))
		out.XMin = min(out.XMin, xi)
		out.XMax = max(out.XMax, xi)
		out.YMin = min(out.YMin, yi)
		out.YMax = max(out.YMax, yi)
	}
	return out
}

// Matrix is the SWF 2x3 affine transform: scaleX, rotateSkew0 / rotateSkew1,
// scaleY applied to (x,y), followed by an integer-twip translation.
type Matrix struct {
	ScaleX, RotateSkew0, RotateSkew1, ScaleY float64
	TranslateX, TranslateY                   int
}

// Identity is the neutral affine transform.
var Identity = Matrix{ScaleX: 1, ScaleY: 1}

// Apply projects a point through m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	nx := m.ScaleX*x + m.RotateSkew1*y + float64(m.TranslateX)
	ny := m.RotateSkew0*x + m.ScaleY*y + float64(m.TranslateY)
	return nx, ny
}

// Translate composes a translation by (dx,dy) on the right of m, i.e. returns
// a matrix equivalent to "apply m, then translate".
func (m Matrix) Translate(dx, dy int) Matrix {
	m.TranslateX += dx
	m.TranslateY += dy
	return m
}

// Multiply returns the matrix equivalent to applying o first, then m
// (m.Multiply(o) === m ∘ o).
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		ScaleX:      m.ScaleX*o.ScaleX + m.RotateSkew1*o.RotateSkew0,
		RotateSkew0: m.RotateSkew0*o.ScaleX + m.ScaleY*o.RotateSkew0,
		RotateSkew1: m.ScaleX*o.RotateSkew1 + m.RotateSkew1*o.ScaleY,
		ScaleY:      m.RotateSkew0*o.RotateSkew1 + m.ScaleY*o.ScaleY,
		TranslateX:  int(math.Round(m.ScaleX*float64(o.TranslateX)+m.RotateSkew1*float64(o.TranslateY))) + m.TranslateX,
		TranslateY:  int(math.Round(m.RotateSkew0*float64(o.TranslateX)+m.ScaleY*float64(o.TranslateY))) + m.TranslateY,
	}
}

// SVG renders m as the six components of an SVG matrix() transform function,
// with the translation components converted from twips to pixels.
func (m Matrix) SVG() string {
	return FormatMatrix(m.ScaleX, m.RotateSkew0, m.RotateSkew1, m.ScaleY, float64(m.TranslateX)/20, float64(m.TranslateY)/20)
}

// FormatMatrix renders six affine components as an SVG matrix() transform
// function, trimming to the shortest unambiguous decimal representation.
func FormatMatrix(a, b, c, d, e, f float64) string {
	fm := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return fmt.Sprintf("matrix(%s, %s, %s, %s, %s, %s)", fm(a), fm(b), fm(c), fm(d), fm(e), fm(f))
}

// Color is an RGB color with an optional alpha channel. A nil Alpha denotes
// an opaque color whose SVG serialization omits any opacity attribute.
type Color struct {
	Red, Green, Blue uint8
	Alpha            *uint8
}

// Opaque constructs a Color with no alpha channel.
func Opaque(r, g, b uint8) Color { return Color{Red: r, Green: g, Blue: b} }

// WithAlpha constructs a Color carrying an explicit alpha channel.
func WithAlpha(r, g, b, a uint8) Color { return Color{Red: r, Green: g, Blue: b, Alpha: &a} }

// AlphaOr255 returns the color's alpha, treating a nil Alpha as fully opaque
// (255) per spec.md §4.3's "null alpha treated as 255" rule.
func (c Color) AlphaOr255() uint8 {
	if c.Alpha == nil {
		return 255
	}
	return *c.Alpha
}

// Hex renders the RGB components as a "#rrggbb" string for SVG fill/stroke.
func (c Color) Hex() string {
	const hex = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	put := func(i int, v uint8) {
		b[i] = hex[v>>4]
		b[i+1] = hex[v&0xf]
	}
	put(1, c.Red)
	put(3, c.Green)
	put(5, c.Blue)
	return string(b)
}

// LerpColor linearly interpolates between two colors at ratio t∈[0,1],
// rounding each channel independently. A nil Alpha on either endpoint is
// treated as 255 before blending (spec.md §4.3).
func LerpColor(a, b Color, t float64) Color {
	aa, ba := a.AlphaOr255(), b.AlphaOr255()
	r := lerpByte(a.Red, b.Red, t)
	g := lerpByte(a.Green, b.Green, t)
	bl := lerpByte(a.Blue, b.Blue, t)
	al := lerpByte(aa, ba, t)
	return WithAlpha(r, g, bl, al)
}

func lerpByte(a, b uint8, t float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*t
	return clampByte(math.Round(v))
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ColorTransform is a SWF color transform: six (multiply, add) pairs applied
// across R,G,B,A. Application clamps each channel to [0,255] after the
// multiply-then-add stage.
type ColorTransform struct {
	RedMul, RedAdd     float64
	GreenMul, GreenAdd float64
	BlueMul, BlueAdd   float64
	AlphaMul, AlphaAdd float64
}

// IdentityColorTransform leaves colors unchanged.
var IdentityColorTransform = ColorTransform{RedMul: 1, GreenMul: 1, BlueMul: 1, AlphaMul: 1}

// Apply transforms c: each channel is multiplied then offset, then clamped.
// Because clamping happens per application, composing two transforms by
// multiplying/adding their coefficients is NOT equivalent to applying them
// in sequence (spec.md §3) — callers that need to apply several transforms
// must call Apply once per transform, in order.
func (ct ColorTransform) Apply(c Color) Color {
	a := float64(c.AlphaOr255())
	r := clampByte(float64(c.Red)*ct.RedMul + ct.RedAdd)
	g := clampByte(float64(c.Green)*ct.GreenMul + ct.GreenAdd)
	b := clampByte(float64(c.Blue)*ct.BlueMul + ct.BlueAdd)
	na := clampByte(a*ct.AlphaMul + ct.AlphaAdd)
	return WithAlpha(r, g, b, na)
}

// ApplyAll folds a list of ColorTransforms left-to-right against c,
// re-clamping after each stage, per spec.md §3 and §9 ("lazy color
// transforms").
func ApplyAll(c Color, cts []ColorTransform) Color {
	for _, ct := range cts {
		c = ct.Apply(c)
	}
	return c
}
