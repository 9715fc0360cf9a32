package geom

import "testing"

func TestRectangleUnion(t *testing.T) {
	a := Rectangle{XMin: 0, XMax: 100, YMin: 0, YMax: 50}
	b := Rectangle{XMin: -10, XMax: 20, YMin: 40, YMax: 200}

	got := a.Union(b)
	want := Rectangle{XMin: -10, XMax: 100, YMin: 0, YMax: 200}
	if got != want {
		t.Errorf("Union() = %+v, want %+v", got, want)
	}

	if EmptyRectangle.Union(a) != a {
		t.Errorf("union with empty rectangle should be absorbed")
	}
}

func TestRectangleIsEmpty(t *testing.T) {
	if !EmptyRectangle.IsEmpty() {
		t.Error("EmptyRectangle.IsEmpty() = false, want true")
	}
	r := Rectangle{XMin: 0, XMax: 10, YMin: 0, YMax: 10}
	if r.IsEmpty() {
		t.Error("non-degenerate rectangle reported empty")
	}
}

func TestRectangleTransform(t *testing.T) {
	r := Rectangle{XMin: 0, XMax: 200, YMin: 0, YMax: 100}
	m := Matrix{ScaleX: 1, ScaleY: 1, TranslateX: 10, TranslateY: -5}
	got := r.Transform(m)
	want := Rectangle{XMin: 10, XMax: 210, YMin: -5, YMax: 95}
	if got != want {
		t.Errorf("Transform() = %+v, want %+v", got, want)
	}
}

func TestMatrixTranslate(t *testing.T) {
	m := Identity.Translate(2000, 0)
	if m.TranslateX != 2000 || m.TranslateY != 0 {
		t.Errorf("Translate() = %+v, want TranslateX=2000", m)
	}
}

func TestMatrixSVG(t *testing.T) {
	got := Identity.SVG()
	want := "matrix(1, 0, 0, 1, 0, 0)"
	if got != want {
		t.Errorf("SVG() = %q, want %q", got, want)
	}
}

func TestColorHex(t *testing.T) {
	c := Opaque(255, 0, 0)
	if got := c.Hex(); got != "#ff0000" {
		t.Errorf("Hex() = %q, want #ff0000", got)
	}
}

func TestColorAlphaOr255(t *testing.T) {
	if Opaque(1, 2, 3).AlphaOr255() != 255 {
		t.Error("opaque color should report alpha 255")
	}
	c := WithAlpha(1, 2, 3, 128)
	if c.AlphaOr255() != 128 {
		t.Errorf("AlphaOr255() = %d, want 128", c.AlphaOr255())
	}
}

func TestLerpColorMidpoint(t *testing.T) {
	start := WithAlpha(0, 0, 0, 255)
	end := WithAlpha(255, 255, 255, 255)
	mid := LerpColor(start, end, 0.5)
	if mid.Hex() != "#808080" {
		t.Errorf("LerpColor midpoint = %s, want #808080", mid.Hex())
	}
}

func TestColorTransformClamp(t *testing.T) {
	ct := ColorTransform{RedMul: 2, GreenMul: 1, BlueMul: 1, AlphaMul: 1}
	c := Opaque(200, 10, 10)
	got := ct.Apply(c)
	if got.Red != 255 {
		t.Errorf("Apply() red = %d, want clamp to 255", got.Red)
	}
}

func TestApplyAllMonotoneDimming(t *testing.T) {
	c := Opaque(200, 200, 200)
	dim := ColorTransform{RedMul: 0.5, GreenMul: 0.5, BlueMul: 0.5, AlphaMul: 1}
	out := ApplyAll(c, []ColorTransform{dim})
	if out.Red > c.Red || out.Green > c.Green || out.Blue > c.Blue {
		t.Errorf("ApplyAll with scale<1 brightened the color: %+v -> %+v", c, out)
	}
}
