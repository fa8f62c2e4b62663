package middleware

import (
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

// Limiter caps the coordinates [Shift] produced. It receives the state with
// the shifted coordinates.
type Limiter interface {
	Limit(state position.State) geom.Coords
}

// LimiterFunc adapts a function to [Limiter].
type LimiterFunc func(state position.State) geom.Coords

// Limit calls f.
func (f LimiterFunc) Limit(state position.State) geom.Coords { return f(state) }

// ShiftOptions configure [Shift].
type ShiftOptions struct {
	position.DetectOverflowOptions

	// MainAxis shifts along the reference's side. Default true.
	MainAxis *bool
	// CrossAxis shifts away from the reference, letting the floating element
	// overlap it. Default false.
	CrossAxis *bool
	// Limiter caps the shift. Default: none.
	Limiter Limiter
}

// ShiftEnabled records which axes [Shift] checked.
type ShiftEnabled struct {
	X bool `json:"x"`
	Y bool `json:"y"`
}

// ShiftData is stored under [ShiftName].
type ShiftData struct {
	// X and Y are the distance moved.
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Enabled ShiftEnabled `json:"enabled"`
}

// Merge replaces the previous value.
func (d ShiftData) Merge(position.Data) position.Data { return d }

// Shift moves the floating element back into view.
func Shift(opts ShiftOptions) position.Middleware {
	return ShiftFunc(func(position.State) ShiftOptions { return opts })
}

// ShiftFunc is [Shift] with options derived from the state.
func ShiftFunc(fn func(position.State) ShiftOptions) position.Middleware {
	return derived[ShiftOptions]{name: ShiftName, opts: position.Derived(fn), fn: shift}
}

func shift(state position.State, opts ShiftOptions) position.Return {
	checkMain := boolOr(opts.MainAxis, true)
	checkCross := boolOr(opts.CrossAxis, false)

	overflow := position.DetectOverflow(state, opts.DetectOverflowOptions)
	crossAxis := state.Placement.SideAxis()
	mainAxis := crossAxis.Opposite()

	coords := state.Coords()
	clampAxis := func(axis geom.Axis) {
		minSide, maxSide := geom.Left, geom.Right
		if axis == geom.AxisY {
			minSide, maxSide = geom.Top, geom.Bottom
		}
		v := coords.Axis(axis)
		coords = coords.WithAxis(axis, geom.Clamp(v+overflow.Side(minSide), v, v-overflow.Side(maxSide)))
	}
	if checkMain {
		clampAxis(mainAxis)
	}
	if checkCross {
		clampAxis(crossAxis)
	}

	limited := coords
	if opts.Limiter != nil {
		shifted := state
		shifted.X, shifted.Y = coords.X, coords.Y
		limited = opts.Limiter.Limit(shifted)
	}

	enabled := ShiftEnabled{}
	if mainAxis == geom.AxisX {
		enabled.X, enabled.Y = checkMain, checkCross
	} else {
		enabled.X, enabled.Y = checkCross, checkMain
	}

	return position.Return{
		X: position.Coord(limited.X),
		Y: position.Coord(limited.Y),
		Data: ShiftData{
			X:       limited.X - state.X,
			Y:       limited.Y - state.Y,
			Enabled: enabled,
		},
	}
}

// LimitOffset is the distance [LimitShift] keeps from the reference's edges.
type LimitOffset struct {
	MainAxis  float64
	CrossAxis float64
}

// LimitOffsetValue is a fixed main-axis limit offset.
func LimitOffsetValue(mainAxis float64) position.Derivable[LimitOffset] {
	return position.Static(LimitOffset{MainAxis: mainAxis})
}

// LimitShiftOptions configure [LimitShift].
type LimitShiftOptions struct {
	// Offset shrinks (positive) or grows (negative) the range the floating
	// element may shift within. It is evaluated against the state on every
	// invocation. Default 0.
	Offset position.Derivable[LimitOffset]
	// MainAxis limits the shift along the reference's side. Default true.
	MainAxis *bool
	// CrossAxis limits the cross-axis shift. Default true.
	CrossAxis *bool
}

// LimitShift stops [Shift] once the floating element would no longer touch
// the reference.
func LimitShift(opts LimitShiftOptions) Limiter {
	return LimitShiftFunc(func(position.State) LimitShiftOptions { return opts })
}

// LimitShiftFunc is [LimitShift] with options derived from the state.
func LimitShiftFunc(fn func(position.State) LimitShiftOptions) Limiter {
	return LimiterFunc(func(state position.State) geom.Coords {
		return limitShift(state, fn(state))
	})
}

func limitShift(state position.State, opts LimitShiftOptions) geom.Coords {
	crossAxis := state.Placement.SideAxis()
	mainAxis := crossAxis.Opposite()
	ref, fl := state.Rects.Reference, state.Rects.Floating
	coords := state.Coords()
	off := opts.Offset.Evaluate(state)

	if boolOr(opts.MainAxis, true) {
		length := mainAxis.Length()
		lo := ref.Axis(mainAxis) - fl.Length(length) + off.MainAxis
		hi := ref.Axis(mainAxis) + ref.Length(length) - off.MainAxis
		coords = coords.WithAxis(mainAxis, limit(coords.Axis(mainAxis), lo, hi))
	}

	if boolOr(opts.CrossAxis, true) {
		length := crossAxis.Length()
		side := state.Placement.Side()
		isOrigin := side == geom.Top || side == geom.Left

		var offsetCross float64
		if d, ok := position.DataAs[OffsetData](state.MiddlewareData, OffsetName); ok {
			offsetCross = geom.Coords{X: d.X, Y: d.Y}.Axis(crossAxis)
		}

		lo := ref.Axis(crossAxis) - fl.Length(length)
		hi := ref.Axis(crossAxis) + ref.Length(length)
		if isOrigin {
			lo += offsetCross
			hi -= off.CrossAxis
		} else {
			lo += off.CrossAxis
			hi += offsetCross
		}
		coords = coords.WithAxis(crossAxis, limit(coords.Axis(crossAxis), lo, hi))
	}

	return coords
}

// limit is a clamp where the lower bound is checked first.
func limit(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
