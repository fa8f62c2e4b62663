package middleware

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

// InlineOptions configure [Inline].
type InlineOptions struct {
	// X and Y are a point, usually the pointer, used to pick between two
	// disjoint fragments.
	X *float64
	Y *float64
	// Padding widens each fragment when testing the point. Default 2 on
	// every side.
	Padding *geom.Padding
}

// Inline anchors the floating element to one line of a reference that
// wraps across lines, such as a link or a text selection.
func Inline(opts InlineOptions) position.Middleware {
	return InlineFunc(func(position.State) InlineOptions { return opts })
}

// InlineFunc is [Inline] with options derived from the state.
func InlineFunc(fn func(position.State) InlineOptions) position.Middleware {
	return derived[InlineOptions]{name: InlineName, opts: position.Derived(fn), fn: inline}
}

func inline(state position.State, opts InlineOptions) position.Return {
	native := referenceClientRects(state)
	if len(native) == 0 {
		return position.Return{}
	}

	pad := geom.UniformPadding(2)
	if opts.Padding != nil {
		pad = *opts.Padding
	}
	rect := InlineRect(state.Placement, native, opts.X, opts.Y, pad.Object())

	var contextEl position.Element
	if position.IsElement(state.Platform, state.Elements.Reference) {
		contextEl = state.Elements.Reference
	} else if v, ok := state.Elements.Reference.(position.VirtualElement); ok {
		contextEl = v.ContextElement()
	}

	rects := state.Platform.GetElementRects(position.ElementRectsArgs{
		Reference: position.VirtualRect{Rect: rect, Fragments: native, Context: contextEl},
		Floating:  state.Elements.Floating,
		Strategy:  state.Strategy,
	})
	if rects.Reference != state.Rects.Reference {
		return position.Return{Reset: position.ResetTo{Rects: &rects}}
	}
	return position.Return{}
}

func referenceClientRects(state position.State) []geom.ClientRect {
	if v, ok := state.Elements.Reference.(position.VirtualElement); ok {
		if rects := v.GetClientRects(); len(rects) > 0 {
			return rects
		}
	}
	if g, ok := state.Platform.(position.ClientRectsGetter); ok {
		return g.GetClientRects(state.Elements.Reference)
	}
	return nil
}

// InlineRect chooses the rect the floating element is anchored to among a
// reference's client rects.
//
// With two disjoint fragments and a point, the fragment containing the
// point (within padding) wins. With two or more lines, top/bottom
// placements anchor to the first/last line spanning all lines vertically,
// and left/right placements to the lines touching the leftmost/rightmost
// edge. Otherwise the bounding rect of all fragments is used.
func InlineRect(p geom.Placement, native []geom.ClientRect, x, y *float64, pad geom.SideObject) geom.ClientRect {
	lines := RectsByLine(native)
	fallback := geom.RectToClientRect(boundingRect(native))

	if len(lines) == 2 && lines[0].Left > lines[1].Right && x != nil && y != nil {
		for _, r := range lines {
			if *x > r.Left-pad.Left && *x < r.Right+pad.Right &&
				*y > r.Top-pad.Top && *y < r.Bottom+pad.Bottom {
				return r
			}
		}
		return fallback
	}

	if len(lines) < 2 {
		return fallback
	}

	if p.SideAxis() == geom.AxisY {
		first, last := lines[0], lines[len(lines)-1]
		edge := last
		if p.Side() == geom.Top {
			edge = first
		}
		return edgesRect(first.Top, edge.Right, last.Bottom, edge.Left)
	}

	maxRight, minLeft := math.Inf(-1), math.Inf(1)
	for _, r := range lines {
		maxRight = max(maxRight, r.Right)
		minLeft = min(minLeft, r.Left)
	}
	measure := slices.DeleteFunc(slices.Clone(lines), func(r geom.ClientRect) bool {
		if p.Side() == geom.Left {
			return r.Left != minLeft
		}
		return r.Right != maxRight
	})
	return edgesRect(measure[0].Top, maxRight, measure[len(measure)-1].Bottom, minLeft)
}

// RectsByLine groups client rects into lines. Rects are sorted by y; a rect
// starts a new line when its top is more than half the previous rect's
// height below the previous rect's top.
func RectsByLine(rects []geom.ClientRect) []geom.ClientRect {
	sorted := slices.Clone(rects)
	slices.SortStableFunc(sorted, func(a, b geom.ClientRect) int { return cmp.Compare(a.Y, b.Y) })

	var groups [][]geom.ClientRect
	for i, r := range sorted {
		if i == 0 || r.Y-sorted[i-1].Y > sorted[i-1].Height/2 {
			groups = append(groups, []geom.ClientRect{r})
		} else {
			groups[len(groups)-1] = append(groups[len(groups)-1], r)
		}
	}

	lines := make([]geom.ClientRect, 0, len(groups))
	for _, g := range groups {
		lines = append(lines, geom.RectToClientRect(boundingRect(g)))
	}
	return lines
}

func boundingRect(rects []geom.ClientRect) geom.Rect {
	if len(rects) == 0 {
		return geom.Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX = min(minX, r.Left)
		minY = min(minY, r.Top)
		maxX = max(maxX, r.Right)
		maxY = max(maxY, r.Bottom)
	}
	return geom.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func edgesRect(top, right, bottom, left float64) geom.ClientRect {
	return geom.ClientRect{
		X: left, Y: top,
		Width: right - left, Height: bottom - top,
		Top: top, Right: right, Bottom: bottom, Left: left,
	}
}
