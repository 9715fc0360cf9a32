// Package fill models SWF fill and stroke styles: solids, gradients and
// bitmap fills, with a stable hash used to deduplicate reusable SVG <defs>.
package fill

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/turnforge/swfx/internal/geom"
)

// Kind identifies which concrete fill variant a Style holds.
type Kind int

const (
	KindSolid Kind = iota
	KindLinearGradient
	KindRadialGradient
	KindBitmap
)

// GradientStop is one color stop in a gradient ramp, positioned by a
// 0-255 ratio as emitted by the SWF gradient record.
type GradientStop struct {
	Ratio uint8
	Color geom.Color
}

// Bitmap is the minimal bitmap-character surface a fill needs: its pixel
// bounds and a content identity used for defs dedup. Real pixel data lives
// in the image character itself (out of scope here per spec.md §1); this
// type only carries what fill/bitmap-pattern emission needs.
type Bitmap interface {
	BitmapBounds() (width, height int)
	BitmapHash() string
}

// EmptyImage is the sentinel bitmap substituted when a fill references a
// character id that is missing or not an image (spec.md §4.3, §8).
type EmptyImage struct{}

func (EmptyImage) BitmapBounds() (int, int) { return 1, 1 }
func (EmptyImage) BitmapHash() string       { return "empty" }

// Style is a tagged union over the four SWF fill kinds. Exactly the fields
// relevant to Kind are populated.
type Style struct {
	Kind Kind

	// KindSolid
	Solid geom.Color

	// KindLinearGradient / KindRadialGradient
	Matrix      geom.Matrix
	Stops       []GradientStop
	FocalPoint  float64 // radial only; 0 for linear
	HasFocal    bool
	SpreadPad   bool // true => "pad" spread mode (the only mode spec.md models)

	// KindBitmap
	Image    Bitmap
	Smoothed bool
	Repeat   bool
}

// Solid builds an opaque or alpha-bearing solid fill.
func Solid(c geom.Color) Style { return Style{Kind: KindSolid, Solid: c} }

// LinearGradient builds a linear gradient fill.
func LinearGradient(m geom.Matrix, stops []GradientStop) Style {
	return Style{Kind: KindLinearGradient, Matrix: m, Stops: stops}
}

// RadialGradient builds a radial gradient fill, optionally with a focal
// point offset in [-1,1], which the SVG canvas places on the gradient's
// local y-axis (fy).
func RadialGradient(m geom.Matrix, stops []GradientStop, focal float64, hasFocal bool) Style {
	return Style{Kind: KindRadialGradient, Matrix: m, Stops: stops, FocalPoint: focal, HasFocal: hasFocal}
}

// BitmapFill builds a bitmap fill referencing an already-resolved image.
func BitmapFill(img Bitmap, m geom.Matrix, smoothed, repeat bool) Style {
	return Style{Kind: KindBitmap, Image: img, Matrix: m, Smoothed: smoothed, Repeat: repeat}
}

// TransformColors returns a copy of s with every color clamp-transformed by
// ct, leaving the bitmap/matrix fields untouched (spec.md §3
// Shape.transformColors only touches color data).
func (s Style) TransformColors(ct geom.ColorTransform) Style {
	switch s.Kind {
	case KindSolid:
		s.Solid = ct.Apply(s.Solid)
	case KindLinearGradient, KindRadialGradient:
		stops := make([]GradientStop, len(s.Stops))
		for i, st := range s.Stops {
			stops[i] = GradientStop{Ratio: st.Ratio, Color: ct.Apply(st.Color)}
		}
		s.Stops = stops
	}
	return s
}

// Hash returns a stable, collision-resistant (for the inputs used in one
// render) identifier suitable for a <defs> element id, per spec.md §4.5 and
// §9's open question on hash precision. Gradients and bitmap patterns that
// hash equal are rendered once and referenced via url(#hash)/<use>.
func (s Style) Hash() string {
	var b strings.Builder
	fmt.Fprintf(&b, "k%d|", s.Kind)
	switch s.Kind {
	case KindSolid:
		fmt.Fprintf(&b, "%02x%02x%02x%02x", s.Solid.Red, s.Solid.Green, s.Solid.Blue, s.Solid.AlphaOr255())
	case KindLinearGradient, KindRadialGradient:
		fmt.Fprintf(&b, "m%s|f%.6f,%v|", matrixKey(s.Matrix), s.FocalPoint, s.HasFocal)
		for _, st := range s.Stops {
			fmt.Fprintf(&b, "s%d:%02x%02x%02x%02x;", st.Ratio, st.Color.Red, st.Color.Green, st.Color.Blue, st.Color.AlphaOr255())
		}
	case KindBitmap:
		w, h := s.Image.BitmapBounds()
		fmt.Fprintf(&b, "img%s|%dx%d|m%s|smooth%v|repeat%v", s.Image.BitmapHash(), w, h, matrixKey(s.Matrix), s.Smoothed, s.Repeat)
	}
	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func matrixKey(m geom.Matrix) string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f,%d,%d", m.ScaleX, m.RotateSkew0, m.RotateSkew1, m.ScaleY, m.TranslateX, m.TranslateY)
}
