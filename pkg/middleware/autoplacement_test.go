package middleware

import (
	"slices"
	"testing"

	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

func TestAutoPlacementPicksMostSpace(t *testing.T) {
	// reference in the top-left corner: right and bottom have room
	p := newTestPlatform(geom.Rect{Width: 100, Height: 100}, geom.Dimensions{Width: 50, Height: 50})

	res := run(p, geom.PlacementBottom, AutoPlacement(AutoPlacementOptions{}))

	if res.Placement != geom.PlacementRight {
		t.Errorf("Placement = %s, want right", res.Placement)
	}
	if res.Coords() != (geom.Coords{X: 100, Y: 25}) {
		t.Errorf("coords = %+v, want (100, 25)", res.Coords())
	}

	d, ok := position.DataAs[AutoPlacementData](res.MiddlewareData, AutoPlacementName)
	if !ok {
		t.Fatal("autoPlacement data missing")
	}
	var tried []geom.Placement
	for _, o := range d.Overflows {
		tried = append(tried, o.Placement)
	}
	want := []geom.Placement{geom.PlacementTop, geom.PlacementRight, geom.PlacementBottom, geom.PlacementLeft}
	if !slices.Equal(tried, want) {
		t.Errorf("tried %v, want %v", tried, want)
	}
}

func TestAutoPlacementAllowed(t *testing.T) {
	p := newTestPlatform(geom.Rect{Width: 100, Height: 100}, geom.Dimensions{Width: 50, Height: 50})

	res := run(p, geom.PlacementTop, AutoPlacement(AutoPlacementOptions{
		AllowedPlacements: []geom.Placement{geom.PlacementTop, geom.PlacementLeft},
	}))

	// both overflow by the same amount; the stable sort keeps the first
	if res.Placement != geom.PlacementTop {
		t.Errorf("Placement = %s, want top", res.Placement)
	}
}

func TestAutoPlacementCandidates(t *testing.T) {
	tests := []struct {
		name string
		opts AutoPlacementOptions
		want []geom.Placement
	}{
		{
			"default sides", AutoPlacementOptions{},
			[]geom.Placement{geom.PlacementTop, geom.PlacementRight, geom.PlacementBottom, geom.PlacementLeft},
		},
		{
			"start alignment", AutoPlacementOptions{Alignment: geom.AlignStart},
			[]geom.Placement{
				geom.PlacementTopStart, geom.PlacementRightStart, geom.PlacementBottomStart, geom.PlacementLeftStart,
				geom.PlacementTopEnd, geom.PlacementRightEnd, geom.PlacementBottomEnd, geom.PlacementLeftEnd,
			},
		},
		{
			"start alignment without auto alignment", AutoPlacementOptions{Alignment: geom.AlignStart, AutoAlignment: Bool(false)},
			[]geom.Placement{geom.PlacementTopStart, geom.PlacementRightStart, geom.PlacementBottomStart, geom.PlacementLeftStart},
		},
		{
			"explicit list", AutoPlacementOptions{AllowedPlacements: []geom.Placement{geom.PlacementLeftEnd, geom.PlacementTop}},
			[]geom.Placement{geom.PlacementLeftEnd, geom.PlacementTop},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AutoPlacementCandidates(tt.opts); !slices.Equal(got, tt.want) {
				t.Errorf("AutoPlacementCandidates = %v, want %v", got, tt.want)
			}
		})
	}
}
