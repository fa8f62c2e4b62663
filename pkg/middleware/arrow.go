package middleware

import (
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

// ArrowOptions configure [Arrow].
type ArrowOptions struct {
	// Element is the arrow. Arrow does nothing while it is nil.
	Element position.Element
	// Padding keeps the arrow away from the floating element's corners.
	Padding geom.Padding
}

// ArrowData is stored under [ArrowName].
type ArrowData struct {
	// X or Y (the alignment axis) is the arrow's offset inside the floating
	// element.
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	// CenterOffset is how far the arrow is from pointing at the reference's
	// center.
	CenterOffset float64 `json:"centerOffset"`
	// AlignmentOffset is set when the floating element itself was moved so
	// the arrow can point at a small reference.
	AlignmentOffset *float64 `json:"alignmentOffset,omitempty"`
}

// Merge keeps previous fields the receiver leaves unset.
func (d ArrowData) Merge(prev position.Data) position.Data {
	if p, ok := prev.(ArrowData); ok {
		if d.X == nil {
			d.X = p.X
		}
		if d.Y == nil {
			d.Y = p.Y
		}
		if d.AlignmentOffset == nil {
			d.AlignmentOffset = p.AlignmentOffset
		}
	}
	return d
}

// Arrow positions an arrow element so it points at the reference.
func Arrow(opts ArrowOptions) position.Middleware {
	return ArrowFunc(func(position.State) ArrowOptions { return opts })
}

// ArrowFunc is [Arrow] with options derived from the state.
func ArrowFunc(fn func(position.State) ArrowOptions) position.Middleware {
	return derived[ArrowOptions]{name: ArrowName, opts: position.Derived(fn), fn: arrow}
}

func arrow(state position.State, opts ArrowOptions) position.Return {
	if opts.Element == nil {
		return position.Return{}
	}

	plat := state.Platform
	pad := opts.Padding.Object()
	coords := state.Coords()
	axis := state.Placement.AlignmentAxis()
	length := axis.Length()
	ref, fl := state.Rects.Reference, state.Rects.Floating
	arrowLen := plat.GetDimensions(opts.Element).Length(length)

	minSide, maxSide := geom.Left, geom.Right
	if axis == geom.AxisY {
		minSide, maxSide = geom.Top, geom.Bottom
	}

	endDiff := ref.Length(length) + ref.Axis(axis) - coords.Axis(axis) - fl.Length(length)
	startDiff := coords.Axis(axis) - ref.Axis(axis)

	clientSize := arrowClientSize(plat, opts.Element, state.Elements.Floating, length)
	if clientSize == 0 {
		clientSize = fl.Length(length)
	}

	centerToReference := endDiff/2 - startDiff/2
	// keeps the arrow from overflowing the floating element when the
	// padding is larger than half its size
	largestPadding := clientSize/2 - arrowLen/2 - 1
	minPadding := min(pad.Side(minSide), largestPadding)
	maxPadding := min(pad.Side(maxSide), largestPadding)

	lo := minPadding
	hi := clientSize - arrowLen - maxPadding
	center := clientSize/2 - arrowLen/2 + centerToReference
	offset := geom.Clamp(lo, center, hi)

	_, ran := state.MiddlewareData.Get(ArrowName)
	edgePadding := maxPadding
	if center < lo {
		edgePadding = minPadding
	}
	shouldAddOffset := !ran &&
		state.Placement.Alignment() != geom.AlignNone &&
		center != offset &&
		ref.Length(length)/2-edgePadding-arrowLen/2 < 0

	var alignmentOffset float64
	if shouldAddOffset {
		if center < lo {
			alignmentOffset = center - lo
		} else {
			alignmentOffset = center - hi
		}
	}

	data := ArrowData{CenterOffset: center - offset - alignmentOffset}
	if axis == geom.AxisX {
		data.X = position.Coord(offset)
	} else {
		data.Y = position.Coord(offset)
	}
	if shouldAddOffset {
		data.AlignmentOffset = position.Coord(alignmentOffset)
	}

	ret := position.Return{Data: data}
	moved := position.Coord(coords.Axis(axis) + alignmentOffset)
	if axis == geom.AxisX {
		ret.X = moved
	} else {
		ret.Y = moved
	}
	if shouldAddOffset {
		ret.Reset = position.Restart{}
	}
	return ret
}

// arrowClientSize is the inner length of the arrow's offset parent, falling
// back to the floating element's.
func arrowClientSize(plat position.Platform, arrowEl, floating position.Element, l geom.Length) float64 {
	cl, ok := plat.(position.ClientLengthGetter)
	if !ok {
		return 0
	}
	if g, ok := plat.(position.OffsetParentGetter); ok {
		if parent, found := g.GetOffsetParent(arrowEl); found && parent != nil && position.IsElement(plat, parent) {
			if v := cl.GetClientLength(parent, l); v != 0 {
				return v
			}
		}
	}
	return cl.GetClientLength(floating, l)
}
