package middleware

import (
	"testing"

	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

func TestShiftMainAxis(t *testing.T) {
	p := newTestPlatform(geom.Rect{Y: 100, Width: 100, Height: 20}, geom.Dimensions{Width: 200, Height: 50})

	res := run(p, geom.PlacementBottom, Shift(ShiftOptions{}))

	if res.Coords() != (geom.Coords{X: 0, Y: 120}) {
		t.Errorf("coords = %+v, want (0, 120)", res.Coords())
	}
	d, _ := position.DataAs[ShiftData](res.MiddlewareData, ShiftName)
	want := ShiftData{X: 50, Y: 0, Enabled: ShiftEnabled{X: true, Y: false}}
	if d != want {
		t.Errorf("data = %+v, want %+v", d, want)
	}
}

func TestShiftPadding(t *testing.T) {
	p := newTestPlatform(geom.Rect{Y: 100, Width: 100, Height: 20}, geom.Dimensions{Width: 200, Height: 50})

	res := run(p, geom.PlacementBottom, Shift(ShiftOptions{
		DetectOverflowOptions: position.DetectOverflowOptions{Padding: geom.UniformPadding(5)},
	}))

	if res.X != 5 {
		t.Errorf("X = %v, want 5", res.X)
	}
}

func TestShiftCrossAxis(t *testing.T) {
	p := newTestPlatform(geom.Rect{Y: 980, Width: 100, Height: 10}, geom.Dimensions{Width: 50, Height: 50})

	without := run(p, geom.PlacementBottom, Shift(ShiftOptions{}))
	if without.Y != 990 {
		t.Errorf("Y without cross axis = %v, want 990", without.Y)
	}

	with := run(p, geom.PlacementBottom, Shift(ShiftOptions{CrossAxis: Bool(true)}))
	if with.Y != 950 {
		t.Errorf("Y with cross axis = %v, want 950", with.Y)
	}
	d, _ := position.DataAs[ShiftData](with.MiddlewareData, ShiftName)
	if !d.Enabled.X || !d.Enabled.Y {
		t.Errorf("enabled = %+v, want both", d.Enabled)
	}
}

func TestShiftDisabledMainAxis(t *testing.T) {
	p := newTestPlatform(geom.Rect{Y: 100, Width: 100, Height: 20}, geom.Dimensions{Width: 200, Height: 50})

	res := run(p, geom.PlacementBottom, Shift(ShiftOptions{MainAxis: Bool(false)}))
	if res.X != -50 {
		t.Errorf("X = %v, want -50", res.X)
	}
}

func TestLimitShift(t *testing.T) {
	p := newTestPlatform(geom.Rect{X: -100, Y: 100, Width: 20, Height: 20}, geom.Dimensions{Width: 50, Height: 50})

	free := run(p, geom.PlacementBottom, Shift(ShiftOptions{}))
	if free.X != 0 {
		t.Errorf("unlimited X = %v, want 0", free.X)
	}

	limited := run(p, geom.PlacementBottom, Shift(ShiftOptions{Limiter: LimitShift(LimitShiftOptions{})}))
	if limited.X != -80 {
		t.Errorf("limited X = %v, want -80", limited.X)
	}
	d, _ := position.DataAs[ShiftData](limited.MiddlewareData, ShiftName)
	if d.X != 35 {
		t.Errorf("data X = %v, want 35", d.X)
	}

	offset := run(p, geom.PlacementBottom, Shift(ShiftOptions{
		Limiter: LimitShift(LimitShiftOptions{Offset: LimitOffsetValue(5)}),
	}))
	if offset.X != -85 {
		t.Errorf("limited X with offset = %v, want -85", offset.X)
	}

	derived := run(p, geom.PlacementBottom, Shift(ShiftOptions{
		Limiter: LimitShift(LimitShiftOptions{
			Offset: position.Derived(func(s position.State) LimitOffset {
				return LimitOffset{MainAxis: s.Rects.Reference.Width / 4}
			}),
		}),
	}))
	if derived.X != -85 {
		t.Errorf("limited X with derived offset = %v, want -85", derived.X)
	}
}

func TestLimitShiftCrossAxisUsesOffsetData(t *testing.T) {
	state := position.State{
		X:         0,
		Y:         -500,
		Placement: geom.PlacementLeft,
		Rects: geom.ElementRects{
			Reference: geom.Rect{X: 100, Y: 100, Width: 20, Height: 20},
			Floating:  geom.Rect{Width: 50, Height: 50},
		},
		MiddlewareData: position.NewMiddlewareData(),
	}
	state.MiddlewareData.Merge(OffsetName, OffsetData{X: -8, Y: 0, Placement: geom.PlacementLeft})

	got := limitShift(state, LimitShiftOptions{MainAxis: Bool(false)})
	// left is an origin side: the cross axis (x) lower bound includes the offset
	if got.X != 42 {
		t.Errorf("X = %v, want 42", got.X)
	}
	if got.Y != -500 {
		t.Errorf("Y = %v, main axis should be untouched", got.Y)
	}
}
