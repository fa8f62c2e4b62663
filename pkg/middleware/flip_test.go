package middleware

import (
	"slices"
	"testing"

	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

func TestFlipToOpposite(t *testing.T) {
	p := newTestPlatform(geom.Rect{Y: 950, Width: 100, Height: 20}, geom.Dimensions{Width: 50, Height: 50})

	res := run(p, geom.PlacementBottom, Flip(FlipOptions{}))

	if res.Placement != geom.PlacementTop {
		t.Fatalf("Placement = %s, want top", res.Placement)
	}
	rects := p.GetElementRects(position.ElementRectsArgs{Reference: refEl, Floating: floatEl})
	want := position.ComputeCoordsFromPlacement(rects, geom.PlacementTop, false)
	if res.Coords() != want {
		t.Errorf("coords = %+v, want initializer output %+v", res.Coords(), want)
	}
	if res.Resets != 1 {
		t.Errorf("Resets = %d, want 1", res.Resets)
	}

	d, ok := position.DataAs[FlipData](res.MiddlewareData, FlipName)
	if !ok || d.Index == nil || *d.Index != 1 {
		t.Fatalf("flip data = %+v, want index 1", d)
	}
	if len(d.Overflows) != 1 || d.Overflows[0].Placement != geom.PlacementBottom {
		t.Errorf("overflows = %+v, want one entry for bottom", d.Overflows)
	}
	if d.Overflows[0].Overflows[0] != 20 {
		t.Errorf("bottom main-axis overflow = %v, want 20", d.Overflows[0].Overflows[0])
	}
}

func TestFlipKeepsFittingPlacement(t *testing.T) {
	p := newTestPlatform(geom.Rect{Y: 400, Width: 100, Height: 20}, geom.Dimensions{Width: 50, Height: 50})

	res := run(p, geom.PlacementBottom, Flip(FlipOptions{}))
	if res.Placement != geom.PlacementBottom || res.Resets != 0 {
		t.Errorf("placement = %s after %d resets, want bottom unchanged", res.Placement, res.Resets)
	}
	if _, ok := res.MiddlewareData.Get(FlipName); ok {
		t.Error("flip stored data although nothing overflowed")
	}
}

func TestFlipFallbackStrategy(t *testing.T) {
	// 100px tall clipping rect: bottom overflows by 15, top by 5
	newPlatform := func() *testPlatform {
		p := newTestPlatform(geom.Rect{Y: 45, Width: 100, Height: 20}, geom.Dimensions{Width: 50, Height: 50})
		p.clip = geom.Rect{Width: 1000, Height: 100}
		return p
	}

	tests := []struct {
		strategy FallbackStrategy
		want     geom.Placement
		wantY    float64
	}{
		{BestFit, geom.PlacementTop, -5},
		{"", geom.PlacementTop, -5},
		{InitialPlacement, geom.PlacementBottom, 65},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			res := run(newPlatform(), geom.PlacementBottom, Flip(FlipOptions{FallbackStrategy: tt.strategy}))
			if res.Placement != tt.want {
				t.Errorf("Placement = %s, want %s", res.Placement, tt.want)
			}
			if res.Y != tt.wantY {
				t.Errorf("Y = %v, want %v", res.Y, tt.wantY)
			}
		})
	}
}

func TestFlipCandidates(t *testing.T) {
	tests := []struct {
		name    string
		initial geom.Placement
		opts    FlipOptions
		want    []geom.Placement
	}{
		{
			"centered", geom.PlacementBottom, FlipOptions{},
			[]geom.Placement{geom.PlacementBottom, geom.PlacementTop},
		},
		{
			"aligned", geom.PlacementTopStart, FlipOptions{},
			[]geom.Placement{geom.PlacementTopStart, geom.PlacementTopEnd, geom.PlacementBottomStart, geom.PlacementBottomEnd},
		},
		{
			"aligned without flipping alignment", geom.PlacementTopStart, FlipOptions{FlipAlignment: Bool(false)},
			[]geom.Placement{geom.PlacementTopStart, geom.PlacementBottomStart},
		},
		{
			"with cross axis direction", geom.PlacementTop, FlipOptions{FallbackAxisSideDirection: geom.AlignEnd},
			[]geom.Placement{geom.PlacementTop, geom.PlacementBottom, geom.PlacementRight, geom.PlacementLeft},
		},
		{
			"explicit fallbacks", geom.PlacementTop,
			FlipOptions{
				FallbackPlacements:        []geom.Placement{geom.PlacementRight},
				FallbackAxisSideDirection: geom.AlignStart,
			},
			[]geom.Placement{geom.PlacementTop, geom.PlacementRight},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlipCandidates(tt.initial, tt.opts, false)
			if !slices.Equal(got, tt.want) {
				t.Errorf("FlipCandidates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlipExplicitFallbacks(t *testing.T) {
	// no room below or above, plenty to the right
	p := newTestPlatform(geom.Rect{Y: 10, Width: 100, Height: 20}, geom.Dimensions{Width: 50, Height: 50})
	p.clip = geom.Rect{Width: 1000, Height: 40}

	res := run(p, geom.PlacementBottom, Flip(FlipOptions{
		FallbackPlacements: []geom.Placement{geom.PlacementTop, geom.PlacementRight},
		CrossAxis:          Bool(false),
	}))
	if res.Placement != geom.PlacementRight {
		t.Errorf("Placement = %s, want right", res.Placement)
	}
}
