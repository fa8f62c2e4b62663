package middleware

import (
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

// ApplyFunc receives the space available to the floating element. It is
// expected to resize the element; [Size] remeasures afterwards.
type ApplyFunc func(state position.State, available geom.Dimensions)

// SizeOptions configure [Size].
type SizeOptions struct {
	position.DetectOverflowOptions

	Apply ApplyFunc
}

// SizeData is stored under [SizeName].
type SizeData struct {
	AvailableWidth  float64 `json:"availableWidth"`
	AvailableHeight float64 `json:"availableHeight"`
}

// Merge replaces the previous value.
func (d SizeData) Merge(position.Data) position.Data { return d }

// Size computes the width and height the floating element can take without
// overflowing and hands them to Apply. When the element's dimensions change
// as a result, the pipeline is reset with remeasured rects.
func Size(opts SizeOptions) position.Middleware {
	return SizeFunc(func(position.State) SizeOptions { return opts })
}

// SizeFunc is [Size] with options derived from the state.
func SizeFunc(fn func(position.State) SizeOptions) position.Middleware {
	return derived[SizeOptions]{name: SizeName, opts: position.Derived(fn), fn: size}
}

// AvailableSize returns the space [Size] would report for state.
func AvailableSize(state position.State, opts position.DetectOverflowOptions) geom.Dimensions {
	overflow := position.DetectOverflow(state, opts)
	side := state.Placement.Side()
	align := state.Placement.Alignment()
	isYAxis := state.Placement.SideAxis() == geom.AxisY
	width, height := state.Rects.Floating.Width, state.Rects.Floating.Height

	var heightSide, widthSide geom.Side
	if side == geom.Top || side == geom.Bottom {
		heightSide = side
		grow := geom.AlignEnd
		if state.IsRTL() {
			grow = geom.AlignStart
		}
		if align == grow {
			widthSide = geom.Left
		} else {
			widthSide = geom.Right
		}
	} else {
		widthSide = side
		if align == geom.AlignEnd {
			heightSide = geom.Top
		} else {
			heightSide = geom.Bottom
		}
	}

	maxClipHeight := height - overflow.Top - overflow.Bottom
	maxClipWidth := width - overflow.Left - overflow.Right
	availHeight := min(height-overflow.Side(heightSide), maxClipHeight)
	availWidth := min(width-overflow.Side(widthSide), maxClipWidth)

	shiftData, shifted := position.DataAs[ShiftData](state.MiddlewareData, ShiftName)
	if shifted && shiftData.Enabled.X {
		availWidth = maxClipWidth
	}
	if shifted && shiftData.Enabled.Y {
		availHeight = maxClipHeight
	}

	if !shifted && align == geom.AlignNone {
		xMin, xMax := max(overflow.Left, 0), max(overflow.Right, 0)
		yMin, yMax := max(overflow.Top, 0), max(overflow.Bottom, 0)
		if isYAxis {
			if xMin != 0 || xMax != 0 {
				availWidth = width - 2*(xMin+xMax)
			} else {
				availWidth = width - 2*max(overflow.Left, overflow.Right)
			}
		} else {
			if yMin != 0 || yMax != 0 {
				availHeight = height - 2*(yMin+yMax)
			} else {
				availHeight = height - 2*max(overflow.Top, overflow.Bottom)
			}
		}
	}

	return geom.Dimensions{Width: availWidth, Height: availHeight}
}

func size(state position.State, opts SizeOptions) position.Return {
	avail := AvailableSize(state, opts.DetectOverflowOptions)
	if opts.Apply != nil {
		opts.Apply(state, avail)
	}

	ret := position.Return{Data: SizeData{AvailableWidth: avail.Width, AvailableHeight: avail.Height}}
	next := state.Platform.GetDimensions(state.Elements.Floating)
	if next.Width != state.Rects.Floating.Width || next.Height != state.Rects.Floating.Height {
		ret.Reset = position.ResetTo{Remeasure: true}
	}
	return ret
}
