package middleware

import (
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

// OffsetOptions configure [Offset].
type OffsetOptions struct {
	// MainAxis is the distance between reference and floating element.
	MainAxis float64
	// CrossAxis slides the floating element along the reference's side.
	CrossAxis float64
	// AlignmentAxis replaces CrossAxis for aligned placements and is
	// measured from the aligned edge: negated for end alignment.
	AlignmentAxis *float64
}

// OffsetData is stored under [OffsetName].
type OffsetData struct {
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Placement geom.Placement `json:"placement"`
}

// Merge replaces the previous value.
func (d OffsetData) Merge(position.Data) position.Data { return d }

// Offset displaces the floating element from its initial position.
func Offset(opts OffsetOptions) position.Middleware {
	return OffsetFunc(func(position.State) OffsetOptions { return opts })
}

// OffsetValue is [Offset] with a main-axis distance only.
func OffsetValue(mainAxis float64) position.Middleware {
	return Offset(OffsetOptions{MainAxis: mainAxis})
}

// OffsetFunc is [Offset] with options derived from the state.
func OffsetFunc(fn func(position.State) OffsetOptions) position.Middleware {
	return derived[OffsetOptions]{name: OffsetName, opts: position.Derived(fn), fn: offset}
}

func offset(state position.State, opts OffsetOptions) position.Return {
	diff := offsetCoords(state, opts)

	prev, ran := position.DataAs[OffsetData](state.MiddlewareData, OffsetName)
	if ran && prev.Placement == state.Placement && arrowAligned(state.MiddlewareData) {
		// the arrow already restarted the pipeline with coordinates that
		// include this offset
		return position.Return{}
	}

	return position.Return{
		X:    position.Coord(state.X + diff.X),
		Y:    position.Coord(state.Y + diff.Y),
		Data: OffsetData{X: diff.X, Y: diff.Y, Placement: state.Placement},
	}
}

func offsetCoords(state position.State, opts OffsetOptions) geom.Coords {
	side := state.Placement.Side()
	align := state.Placement.Alignment()
	isVertical := state.Placement.SideAxis() == geom.AxisY

	mainMulti := 1.0
	if side == geom.Left || side == geom.Top {
		mainMulti = -1
	}
	crossMulti := 1.0
	if isVertical && state.IsRTL() {
		crossMulti = -1
	}

	main, cross := opts.MainAxis, opts.CrossAxis
	if align != geom.AlignNone && opts.AlignmentAxis != nil {
		cross = *opts.AlignmentAxis
		if align == geom.AlignEnd {
			cross = -cross
		}
	}

	if isVertical {
		return geom.Coords{X: cross * crossMulti, Y: main * mainMulti}
	}
	return geom.Coords{X: main * mainMulti, Y: cross * crossMulti}
}

func arrowAligned(md *position.MiddlewareData) bool {
	a, ok := position.DataAs[ArrowData](md, ArrowName)
	return ok && a.AlignmentOffset != nil && *a.AlignmentOffset != 0
}
