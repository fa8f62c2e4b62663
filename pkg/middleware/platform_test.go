package middleware

import (
	"context"

	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

const (
	refEl   = "reference"
	floatEl = "floating"
	arrowEl = "arrow"
)

// testPlatform serves fixed measurements. The reference's clipping rect can
// differ from the floating element's to exercise alternate boundaries.
type testPlatform struct {
	reference   geom.Rect
	floating    geom.Dimensions
	clip        geom.Rect
	refClip     *geom.Rect
	rtl         bool
	arrow       geom.Dimensions
	clientRects []geom.ClientRect
}

func newTestPlatform(ref geom.Rect, floating geom.Dimensions) *testPlatform {
	return &testPlatform{
		reference: ref,
		floating:  floating,
		clip:      geom.Rect{Width: 1000, Height: 1000},
		arrow:     geom.Dimensions{Width: 10, Height: 10},
	}
}

func (p *testPlatform) GetElementRects(args position.ElementRectsArgs) geom.ElementRects {
	ref := p.reference
	if v, ok := args.Reference.(position.VirtualElement); ok {
		ref = v.GetBoundingClientRect().Rect()
	}
	return geom.ElementRects{
		Reference: ref,
		Floating:  geom.Rect{Width: p.floating.Width, Height: p.floating.Height},
	}
}

func (p *testPlatform) GetClippingRect(args position.ClippingRectArgs) geom.Rect {
	if args.Element == refEl && p.refClip != nil {
		return *p.refClip
	}
	return p.clip
}

func (p *testPlatform) GetDimensions(el position.Element) geom.Dimensions {
	if el == arrowEl {
		return p.arrow
	}
	return p.floating
}

func (p *testPlatform) IsRTL(position.Element) bool { return p.rtl }

func (p *testPlatform) GetClientRects(position.Element) []geom.ClientRect { return p.clientRects }

func run(p *testPlatform, placement geom.Placement, mw ...position.Middleware) position.Result {
	return position.ComputePosition(context.Background(), refEl, floatEl, position.Config{
		Placement:  placement,
		Platform:   p,
		Middleware: mw,
	})
}

func f(v float64) *float64 { return &v }
