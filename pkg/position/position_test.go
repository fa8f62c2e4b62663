package position

import (
	"context"
	"encoding/json"
	"slices"
	"testing"

	"github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/geom"
)

// testPlatform measures fixed rects inside a 1000x1000 clipping rect.
type testPlatform struct {
	rects    geom.ElementRects
	clip     geom.Rect
	rtl      bool
	measured int
}

func newTestPlatform() *testPlatform {
	return &testPlatform{
		rects: geom.ElementRects{
			Reference: geom.Rect{Width: 100, Height: 100},
			Floating:  geom.Rect{Width: 50, Height: 50},
		},
		clip: geom.Rect{Width: 1000, Height: 1000},
	}
}

func (p *testPlatform) GetElementRects(ElementRectsArgs) geom.ElementRects {
	p.measured++
	return p.rects
}

func (p *testPlatform) GetClippingRect(ClippingRectArgs) geom.Rect { return p.clip }

func (p *testPlatform) GetDimensions(Element) geom.Dimensions {
	return geom.Dimensions{Width: 10, Height: 10}
}

func (p *testPlatform) IsRTL(Element) bool { return p.rtl }

func TestComputeCoordsFromPlacement(t *testing.T) {
	rects := geom.ElementRects{
		Reference: geom.Rect{Width: 100, Height: 100},
		Floating:  geom.Rect{Width: 50, Height: 50},
	}
	tests := []struct {
		p    geom.Placement
		want geom.Coords
	}{
		{geom.PlacementTop, geom.Coords{X: 25, Y: -50}},
		{geom.PlacementTopStart, geom.Coords{X: 0, Y: -50}},
		{geom.PlacementTopEnd, geom.Coords{X: 50, Y: -50}},
		{geom.PlacementRight, geom.Coords{X: 100, Y: 25}},
		{geom.PlacementRightStart, geom.Coords{X: 100, Y: 0}},
		{geom.PlacementRightEnd, geom.Coords{X: 100, Y: 50}},
		{geom.PlacementBottom, geom.Coords{X: 25, Y: 100}},
		{geom.PlacementBottomStart, geom.Coords{X: 0, Y: 100}},
		{geom.PlacementBottomEnd, geom.Coords{X: 50, Y: 100}},
		{geom.PlacementLeft, geom.Coords{X: -50, Y: 25}},
		{geom.PlacementLeftStart, geom.Coords{X: -50, Y: 0}},
		{geom.PlacementLeftEnd, geom.Coords{X: -50, Y: 50}},
	}
	for _, tt := range tests {
		t.Run(string(tt.p), func(t *testing.T) {
			if got := ComputeCoordsFromPlacement(rects, tt.p, false); got != tt.want {
				t.Errorf("ComputeCoordsFromPlacement(%s) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeCoordsFromPlacementRTL(t *testing.T) {
	rects := geom.ElementRects{
		Reference: geom.Rect{Width: 100, Height: 100},
		Floating:  geom.Rect{Width: 50, Height: 50},
	}
	tests := []struct {
		p    geom.Placement
		want geom.Coords
	}{
		{geom.PlacementTopStart, geom.Coords{X: 50, Y: -50}},
		{geom.PlacementBottomEnd, geom.Coords{X: 0, Y: 100}},
		{geom.PlacementTop, geom.Coords{X: 25, Y: -50}},
		// horizontal placements are not mirrored
		{geom.PlacementRightStart, geom.Coords{X: 100, Y: 0}},
		{geom.PlacementLeftEnd, geom.Coords{X: -50, Y: 50}},
	}
	for _, tt := range tests {
		t.Run(string(tt.p), func(t *testing.T) {
			if got := ComputeCoordsFromPlacement(rects, tt.p, true); got != tt.want {
				t.Errorf("ComputeCoordsFromPlacement(%s, rtl) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDetectOverflow(t *testing.T) {
	plat := newTestPlatform()
	state := func(x, y float64) State {
		return State{
			X:        x,
			Y:        y,
			Rects:    plat.rects,
			Platform: plat,
			Strategy: geom.Absolute,
		}
	}

	tests := []struct {
		name  string
		state State
		opts  DetectOverflowOptions
		want  geom.SideObject
	}{
		{
			name:  "inside",
			state: state(25, 100),
			want:  geom.SideObject{Top: -100, Right: -925, Bottom: -850, Left: -25},
		},
		{
			name:  "crossing left edge",
			state: state(-10, 100),
			want:  geom.SideObject{Top: -100, Right: -960, Bottom: -850, Left: 10},
		},
		{
			name:  "padding",
			state: state(-10, 100),
			opts:  DetectOverflowOptions{Padding: geom.UniformPadding(5)},
			want:  geom.SideObject{Top: -95, Right: -955, Bottom: -845, Left: 15},
		},
		{
			name:  "exactly on edge",
			state: state(0, 0),
			want:  geom.SideObject{Top: 0, Right: -950, Bottom: -950, Left: 0},
		},
		{
			name:  "reference context",
			state: state(500, 500),
			opts:  DetectOverflowOptions{ElementContext: ReferenceContext},
			want:  geom.SideObject{Top: 0, Right: -900, Bottom: -900, Left: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectOverflow(tt.state, tt.opts); got != tt.want {
				t.Errorf("DetectOverflow = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDetectOverflowSignConvention(t *testing.T) {
	floating := geom.Rect{X: 100, Y: 100, Width: 50, Height: 50}
	tests := []struct {
		name string
		clip geom.Rect
		want geom.SideObject
	}{
		{"identical", floating, geom.SideObject{}},
		{"top shrunk", geom.Rect{X: 100, Y: 110, Width: 50, Height: 40}, geom.SideObject{Top: 10}},
		{"right shrunk", geom.Rect{X: 100, Y: 100, Width: 40, Height: 50}, geom.SideObject{Right: 10}},
		{"bottom shrunk", geom.Rect{X: 100, Y: 100, Width: 50, Height: 40}, geom.SideObject{Bottom: 10}},
		{"left shrunk", geom.Rect{X: 110, Y: 100, Width: 40, Height: 50}, geom.SideObject{Left: 10}},
		{"grown", geom.Rect{X: 90, Y: 90, Width: 70, Height: 70}, geom.SideObject{Top: -10, Right: -10, Bottom: -10, Left: -10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plat := newTestPlatform()
			plat.clip = tt.clip
			got := DetectOverflow(State{
				X:        floating.X,
				Y:        floating.Y,
				Rects:    geom.ElementRects{Floating: floating},
				Platform: plat,
			}, DetectOverflowOptions{})
			if got != tt.want {
				t.Errorf("DetectOverflow = %+v, want %+v", got, tt.want)
			}
		})
	}
}

type scaledPlatform struct {
	*testPlatform
}

func (scaledPlatform) GetOffsetParent(Element) (Element, bool) { return "parent", true }
func (scaledPlatform) GetScale(Element) geom.Coords            { return geom.Coords{X: 2, Y: 4} }

func TestDetectOverflowScale(t *testing.T) {
	plat := scaledPlatform{newTestPlatform()}
	got := DetectOverflow(State{
		X:        -10,
		Y:        -20,
		Rects:    plat.rects,
		Platform: plat,
	}, DetectOverflowOptions{})
	if got.Left != 5 || got.Top != 5 {
		t.Errorf("scaled overflow = %+v, want left 5 and top 5", got)
	}
}

func TestComputePositionDefaults(t *testing.T) {
	plat := newTestPlatform()
	res := ComputePosition(context.Background(), "ref", "float", Config{Platform: plat})

	if res.Placement != geom.PlacementBottom {
		t.Errorf("Placement = %s, want bottom", res.Placement)
	}
	if res.Strategy != geom.Absolute {
		t.Errorf("Strategy = %s, want absolute", res.Strategy)
	}
	if res.X != 25 || res.Y != 100 {
		t.Errorf("coords = (%v, %v), want (25, 100)", res.X, res.Y)
	}
	if res.MiddlewareData.Len() != 0 {
		t.Errorf("MiddlewareData has %d entries, want 0", res.MiddlewareData.Len())
	}
	if plat.measured != 1 {
		t.Errorf("measured %d times, want 1", plat.measured)
	}
}

func deltaMiddleware(name string, dx, dy float64) Middleware {
	return MiddlewareFunc(name, func(s State) Return {
		return Return{X: Coord(s.X + dx), Y: Coord(s.Y + dy)}
	})
}

func TestComputePositionDeltasCompose(t *testing.T) {
	plat := newTestPlatform()
	ctx := context.Background()

	two := ComputePosition(ctx, "ref", "float", Config{
		Placement: geom.PlacementRight,
		Platform:  plat,
		Middleware: []Middleware{
			deltaMiddleware("a", 1, 2),
			nil,
			deltaMiddleware("b", 3, 4),
		},
	})
	one := ComputePosition(ctx, "ref", "float", Config{
		Placement:  geom.PlacementRight,
		Platform:   plat,
		Middleware: []Middleware{deltaMiddleware("ab", 4, 6)},
	})

	if two.Coords() != one.Coords() {
		t.Errorf("sequential deltas = %+v, summed delta = %+v", two.Coords(), one.Coords())
	}
	if two.Coords() != (geom.Coords{X: 104, Y: 31}) {
		t.Errorf("coords = %+v, want (104, 31)", two.Coords())
	}
	if two.Placement != geom.PlacementRight || two.MiddlewareData.Len() != 0 {
		t.Errorf("pure deltas changed placement (%s) or data (%d entries)", two.Placement, two.MiddlewareData.Len())
	}
}

func TestComputePositionDataMerge(t *testing.T) {
	calls := 0
	m := MiddlewareFunc("custom", func(s State) Return {
		calls++
		if calls == 1 {
			return Return{Data: Record{"a": 1}, Reset: Restart{}}
		}
		return Return{Data: Record{"a": nil, "b": 2}}
	})

	res := ComputePosition(context.Background(), "ref", "float", Config{
		Platform:   newTestPlatform(),
		Middleware: []Middleware{m},
	})

	got, ok := DataAs[Record](res.MiddlewareData, "custom")
	if !ok {
		t.Fatal("custom data missing")
	}
	if got["a"] != 1 || got["b"] != 2 || len(got) != 2 {
		t.Errorf("merged data = %v, want map[a:1 b:2]", got)
	}
}

func TestComputePositionResetBound(t *testing.T) {
	before, always := 0, 0
	res := ComputePosition(context.Background(), "ref", "float", Config{
		Platform: newTestPlatform(),
		Middleware: []Middleware{
			MiddlewareFunc("before", func(State) Return {
				before++
				return Return{}
			}),
			MiddlewareFunc("always", func(State) Return {
				always++
				return Return{Reset: Restart{}}
			}),
		},
	})

	if always != MaxResets+1 {
		t.Errorf("resetting middleware ran %d times, want %d", always, MaxResets+1)
	}
	if before != MaxResets+1 {
		t.Errorf("preceding middleware ran %d times, want %d", before, MaxResets+1)
	}
	if res.Resets != MaxResets {
		t.Errorf("Resets = %d, want %d", res.Resets, MaxResets)
	}
}

func TestComputePositionResetTo(t *testing.T) {
	plat := newTestPlatform()
	var seen []geom.Placement
	m := MiddlewareFunc("switch", func(s State) Return {
		seen = append(seen, s.Placement)
		if s.Placement == geom.PlacementBottom {
			return Return{X: Coord(999), Reset: ResetTo{Placement: geom.PlacementTop, Remeasure: true}}
		}
		return Return{}
	})

	res := ComputePosition(context.Background(), "ref", "float", Config{
		Platform:   plat,
		Middleware: []Middleware{m},
	})

	if !slices.Equal(seen, []geom.Placement{geom.PlacementBottom, geom.PlacementTop}) {
		t.Errorf("placements seen = %v", seen)
	}
	if res.Placement != geom.PlacementTop {
		t.Errorf("Placement = %s, want top", res.Placement)
	}
	// coordinates are recomputed for the new placement, the returned x is discarded
	if res.Coords() != (geom.Coords{X: 25, Y: -50}) {
		t.Errorf("coords = %+v, want (25, -50)", res.Coords())
	}
	if plat.measured != 2 {
		t.Errorf("measured %d times, want 2", plat.measured)
	}
}

func TestComputePositionResetToExplicitRects(t *testing.T) {
	rects := geom.ElementRects{
		Reference: geom.Rect{X: 200, Y: 200, Width: 10, Height: 10},
		Floating:  geom.Rect{Width: 10, Height: 10},
	}
	var got geom.ElementRects
	m := MiddlewareFunc("rects", func(s State) Return {
		got = s.Rects
		if s.Rects.Reference.X != 200 {
			return Return{Reset: ResetTo{Rects: &rects}}
		}
		return Return{}
	})

	res := ComputePosition(context.Background(), "ref", "float", Config{
		Platform:   newTestPlatform(),
		Middleware: []Middleware{m},
	})

	if got != rects {
		t.Errorf("rects after reset = %+v", got)
	}
	if res.Coords() != (geom.Coords{X: 200, Y: 210}) {
		t.Errorf("coords = %+v, want (200, 210)", res.Coords())
	}
}

func TestComputePositionRestartKeepsCoords(t *testing.T) {
	calls := 0
	m := MiddlewareFunc("nudge", func(s State) Return {
		calls++
		if calls == 1 {
			return Return{X: Coord(s.X + 7), Reset: Restart{}}
		}
		return Return{}
	})

	res := ComputePosition(context.Background(), "ref", "float", Config{
		Platform:   newTestPlatform(),
		Middleware: []Middleware{m},
	})

	if res.X != 32 {
		t.Errorf("X = %v, want 32", res.X)
	}
	if res.Resets != 1 {
		t.Errorf("Resets = %d, want 1", res.Resets)
	}
}

type otherData struct{}

func (otherData) Merge(Data) Data { return otherData{} }

func TestComputePositionContractViolation(t *testing.T) {
	calls := 0
	m := MiddlewareFunc("bad", func(State) Return {
		calls++
		if calls == 1 {
			return Return{Data: Record{"a": 1}, Reset: Restart{}}
		}
		return Return{Data: otherData{}}
	})

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, errors.ErrCodeContract) {
			t.Errorf("recovered %v, want contract violation", r)
		}
	}()

	ComputePosition(context.Background(), "ref", "float", Config{
		Platform:   newTestPlatform(),
		Middleware: []Middleware{m},
	})
	t.Error("expected panic")
}

func TestMiddlewareDataJSONKeepsOrder(t *testing.T) {
	md := NewMiddlewareData()
	md.Merge("zeta", Record{"v": 1})
	md.Merge("alpha", Record{"v": 2})
	md.Merge("zeta", Record{"w": 3})

	b, err := json.Marshal(md)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"zeta":{"v":1,"w":3},"alpha":{"v":2}}`
	if string(b) != want {
		t.Errorf("json = %s, want %s", b, want)
	}
	if !slices.Equal(md.Keys(), []string{"zeta", "alpha"}) {
		t.Errorf("Keys() = %v", md.Keys())
	}
}

func TestDerivable(t *testing.T) {
	s := State{X: 3}
	if got := Static(5).Evaluate(s); got != 5 {
		t.Errorf("Static.Evaluate = %d, want 5", got)
	}
	d := Derived(func(s State) float64 { return s.X * 2 })
	if got := d.Evaluate(s); got != 6 {
		t.Errorf("Derived.Evaluate = %v, want 6", got)
	}
}
