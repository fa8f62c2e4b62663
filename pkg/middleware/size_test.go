package middleware

import (
	"testing"

	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

func TestSizeAvailable(t *testing.T) {
	p := newTestPlatform(geom.Rect{Width: 100, Height: 100}, geom.Dimensions{Width: 50, Height: 50})

	var applied geom.Dimensions
	res := run(p, geom.PlacementBottom, Size(SizeOptions{
		Apply: func(_ position.State, available geom.Dimensions) { applied = available },
	}))

	want := geom.Dimensions{Width: 100, Height: 900}
	if applied != want {
		t.Errorf("applied = %+v, want %+v", applied, want)
	}
	d, _ := position.DataAs[SizeData](res.MiddlewareData, SizeName)
	if d.AvailableWidth != 100 || d.AvailableHeight != 900 {
		t.Errorf("data = %+v", d)
	}
	if res.Resets != 0 {
		t.Errorf("Resets = %d, want 0", res.Resets)
	}
}

func TestSizeWithShift(t *testing.T) {
	p := newTestPlatform(geom.Rect{Width: 100, Height: 100}, geom.Dimensions{Width: 50, Height: 50})

	res := run(p, geom.PlacementBottom, Shift(ShiftOptions{}), Size(SizeOptions{}))

	d, _ := position.DataAs[SizeData](res.MiddlewareData, SizeName)
	// shift checked the x axis, so the whole clipping width is available
	if d.AvailableWidth != 1000 {
		t.Errorf("AvailableWidth = %v, want 1000", d.AvailableWidth)
	}
}

func TestSizeRemeasuresAfterApply(t *testing.T) {
	p := newTestPlatform(geom.Rect{Y: 900, Width: 100, Height: 50}, geom.Dimensions{Width: 50, Height: 100})

	res := run(p, geom.PlacementBottom, Size(SizeOptions{
		Apply: func(_ position.State, available geom.Dimensions) {
			p.floating.Height = min(p.floating.Height, available.Height)
		},
	}))

	if p.floating.Height != 50 {
		t.Fatalf("floating height = %v, want 50", p.floating.Height)
	}
	if res.Resets != 1 {
		t.Errorf("Resets = %d, want 1", res.Resets)
	}
	if res.Y != 950 {
		t.Errorf("Y = %v, want 950", res.Y)
	}
}
