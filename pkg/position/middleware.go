package position

import "github.com/matzehuels/floatplace/pkg/geom"

// State is the snapshot a middleware computes from.
type State struct {
	X                float64
	Y                float64
	InitialPlacement geom.Placement
	Placement        geom.Placement
	Strategy         geom.Strategy
	MiddlewareData   *MiddlewareData
	Rects            geom.ElementRects
	Platform         Platform
	Elements         Elements
}

// Coords returns the state's current coordinates.
func (s State) Coords() geom.Coords {
	return geom.Coords{X: s.X, Y: s.Y}
}

// IsRTL reports whether the floating element lays out right-to-left.
func (s State) IsRTL() bool {
	return IsRTL(s.Platform, s.Elements.Floating)
}

// Return is what a middleware hands back to the driver. Nil coordinates keep
// the current value; nil Data stores nothing; nil Reset advances to the next
// middleware.
type Return struct {
	X     *float64
	Y     *float64
	Data  Data
	Reset Reset
}

// Coord returns a pointer to v for use in [Return].
func Coord(v float64) *float64 {
	return &v
}

// Middleware adjusts the state of a computation.
type Middleware interface {
	// Name is the key the middleware's data is stored under.
	Name() string
	Compute(state State) Return
}

type funcMiddleware struct {
	name string
	fn   func(State) Return
}

func (m funcMiddleware) Name() string               { return m.name }
func (m funcMiddleware) Compute(state State) Return { return m.fn(state) }

// MiddlewareFunc adapts a function to the [Middleware] interface.
func MiddlewareFunc(name string, fn func(State) Return) Middleware {
	return funcMiddleware{name: name, fn: fn}
}

// Reset asks the driver to run the pipeline again from the first middleware.
// It is implemented by [Restart] and [ResetTo].
type Reset interface {
	isReset()
}

// Restart re-runs the pipeline keeping the current coordinates, placement
// and rects.
type Restart struct{}

// ResetTo re-runs the pipeline after switching placement and/or rects. The
// coordinates are recomputed from the resulting placement and rects.
type ResetTo struct {
	// Placement replaces the current placement when set.
	Placement geom.Placement
	// Rects replaces the measured rects when non-nil.
	Rects *geom.ElementRects
	// Remeasure asks the platform for fresh rects. Ignored when Rects is set.
	Remeasure bool
}

func (Restart) isReset() {}
func (ResetTo) isReset() {}

// Derivable holds a middleware option that is either fixed or computed from
// the state on every invocation.
type Derivable[T any] struct {
	value T
	fn    func(State) T
}

// Static returns an option with a fixed value.
func Static[T any](v T) Derivable[T] {
	return Derivable[T]{value: v}
}

// Derived returns an option computed from the state.
func Derived[T any](fn func(State) T) Derivable[T] {
	return Derivable[T]{fn: fn}
}

// Evaluate resolves the option against state.
func (d Derivable[T]) Evaluate(state State) T {
	if d.fn != nil {
		return d.fn(state)
	}
	return d.value
}
