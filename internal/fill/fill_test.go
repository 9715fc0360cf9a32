package fill

import (
	"testing"

	"github.com/turnforge/swfx/internal/geom"
)

func TestSolidHashStable(t *testing.T) {
	a := Solid(geom.Opaque(10, 20, 30))
	b := Solid(geom.Opaque(10, 20, 30))
	if a.Hash() != b.Hash() {
		t.Errorf("identical solids hashed differently: %s vs %s", a.Hash(), b.Hash())
	}
}

func TestGradientHashDedupesIdenticalDefinitions(t *testing.T) {
	stops := []GradientStop{
		{Ratio: 0, Color: geom.Opaque(255, 0, 0)},
		{Ratio: 255, Color: geom.Opaque(0, 0, 255)},
	}
	a := LinearGradient(geom.Identity, stops)
	b := LinearGradient(geom.Identity, append([]GradientStop(nil), stops...))
	if a.Hash() != b.Hash() {
		t.Errorf("two shapes referencing the same gradient must hash identically")
	}

	c := LinearGradient(geom.Identity.Translate(10, 0), stops)
	if a.Hash() == c.Hash() {
		t.Errorf("different gradient matrices must not collide")
	}
}

func TestTransformColorsLeavesBitmapUntouched(t *testing.T) {
	s := BitmapFill(EmptyImage{}, geom.Identity, true, false)
	out := s.TransformColors(geom.ColorTransform{RedMul: 0.5, GreenMul: 0.5, BlueMul: 0.5, AlphaMul: 1})
	if out.Image != s.Image || out.Matrix != s.Matrix {
		t.Errorf("TransformColors must not mutate bitmap fill matrix/image")
	}
}

func TestSolidTransformColors(t *testing.T) {
	s := Solid(geom.Opaque(200, 200, 200))
	dim := geom.ColorTransform{RedMul: 0.5, GreenMul: 0.5, BlueMul: 0.5, AlphaMul: 1}
	out := s.TransformColors(dim)
	if out.Solid.Red != 100 {
		t.Errorf("TransformColors red = %d, want 100", out.Solid.Red)
	}
}
