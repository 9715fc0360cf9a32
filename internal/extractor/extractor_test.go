package extractor

import (
	"testing"

	"github.com/turnforge/swfx/internal/geom"
	"github.com/turnforge/swfx/internal/tags"
)

func TestTimelineUsesFileBoundsWhenRequested(t *testing.T) {
	src := tags.Slice{
		&tags.PlaceObjectTag{Depth: 1},
		&tags.ShowFrameTag{},
	}
	fileBounds := geom.Rectangle{XMax: 5000, YMax: 3000}
	e := New(src, fileBounds, 0)

	tl, err := e.Timeline(true)
	if err != nil {
		t.Fatalf("Timeline() error = %v", err)
	}
	if tl.Bounds != fileBounds {
		t.Errorf("Bounds = %+v, want file bounds %+v", tl.Bounds, fileBounds)
	}
	for _, f := range tl.Frames {
		if f.Bounds != fileBounds {
			t.Errorf("frame bounds = %+v, want file bounds %+v", f.Bounds, fileBounds)
		}
	}
}

func TestEmptyExtractorMissingCharacter(t *testing.T) {
	e := New(tags.Slice{}, geom.EmptyRectangle, 0)
	c := e.Character(42)
	if !c.Bounds().IsEmpty() {
		t.Errorf("unresolved character should have empty bounds")
	}
}

func TestReleaseIsSafeBetweenCalls(t *testing.T) {
	e := New(tags.Slice{}, geom.EmptyRectangle, 0)
	e.Shapes()
	e.Release()
	e.Shapes()
}

func TestReleaseIfOverBudgetUnderExplicitLimit(t *testing.T) {
	e := New(tags.Slice{}, geom.EmptyRectangle, 0)
	limit := uint64(1) // any real process RSS exceeds 1 byte
	if err := e.ReleaseIfOverBudget(&limit); err != nil {
		t.Fatalf("ReleaseIfOverBudget() error = %v", err)
	}
}
