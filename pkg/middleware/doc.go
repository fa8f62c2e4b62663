// Package middleware provides the standard positioning middleware.
//
// Each constructor returns a [position.Middleware] that stores its data
// under a fixed name (the *Name constants) and is configured either with a
// fixed options struct or, through the *Func variant, with options derived
// from the current state on every run.
//
//   - [Offset] moves the floating element away from the reference.
//   - [Shift] keeps it inside the clipping rect along the reference's side;
//     [LimitShift] stops it from detaching from the reference.
//   - [Flip] tries fallback placements when the current one overflows.
//   - [AutoPlacement] picks the placement with the most space.
//   - [Size] reports the space available to the floating element.
//   - [Arrow] centers an arrow element on the reference.
//   - [Hide] reports whether the reference is clipped or the floating
//     element escaped its clipping context.
//   - [Inline] picks a line fragment of a multi-line reference.
//
// Options whose default is true are *bool fields; use [Bool] to set them.
package middleware

import (
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

// Names of the built-in middleware and the keys their data is stored under.
const (
	OffsetName        = "offset"
	ShiftName         = "shift"
	FlipName          = "flip"
	AutoPlacementName = "autoPlacement"
	SizeName          = "size"
	ArrowName         = "arrow"
	HideName          = "hide"
	InlineName        = "inline"
)

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// PlacementOverflow records the overflow measured for a candidate placement.
type PlacementOverflow struct {
	Placement geom.Placement `json:"placement"`
	Overflows []float64      `json:"overflows"`
}

// derived wraps a middleware body that needs its options resolved first.
type derived[T any] struct {
	name string
	opts position.Derivable[T]
	fn   func(position.State, T) position.Return
}

func (d derived[T]) Name() string { return d.name }

func (d derived[T]) Compute(state position.State) position.Return {
	return d.fn(state, d.opts.Evaluate(state))
}
