package position

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/observability"
)

// MaxResets is the number of reset requests honoured per computation.
const MaxResets = 50

// Config configures [ComputePosition].
type Config struct {
	// Placement is the requested placement. Default: bottom.
	Placement geom.Placement
	// Strategy is the CSS positioning strategy. Default: absolute.
	Strategy geom.Strategy
	// Middleware run in order. Nil entries are skipped.
	Middleware []Middleware
	// Platform measures the elements. Required.
	Platform Platform
	// Logger receives debug output about each step. Default: discard.
	Logger *log.Logger
}

// Result is the outcome of a computation.
type Result struct {
	X              float64         `json:"x"`
	Y              float64         `json:"y"`
	Placement      geom.Placement  `json:"placement"`
	Strategy       geom.Strategy   `json:"strategy"`
	MiddlewareData *MiddlewareData `json:"middlewareData"`
	// Resets counts the honoured reset requests.
	Resets int `json:"resets"`
}

// Coords returns the result's coordinates.
func (r Result) Coords() geom.Coords {
	return geom.Coords{X: r.X, Y: r.Y}
}

// ComputePosition returns the coordinates of floating next to reference.
//
// RTL is queried once and the rects are measured once up front; the
// platform is consulted again only when a middleware asks for remeasured
// rects. ctx is passed to observability hooks and never cancels the
// computation. ComputePosition panics when cfg.Platform is nil, and when a
// middleware violates the data merge contract.
func ComputePosition(ctx context.Context, reference Reference, floating Element, cfg Config) Result {
	if cfg.Platform == nil {
		panic(errors.New(errors.ErrCodeInvalidInput, "position: Config.Platform is required"))
	}
	plat := cfg.Platform
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	placement := cfg.Placement.Or(geom.PlacementBottom)
	strategy := cfg.Strategy.Or(geom.Absolute)

	middleware := make([]Middleware, 0, len(cfg.Middleware))
	for _, m := range cfg.Middleware {
		if m != nil {
			middleware = append(middleware, m)
		}
	}

	hooks := observability.Position()
	hooks.OnComputeStart(ctx, string(placement), len(middleware))
	start := time.Now()

	rtl := IsRTL(plat, floating)
	measure := func() geom.ElementRects {
		return plat.GetElementRects(ElementRectsArgs{Reference: reference, Floating: floating, Strategy: strategy})
	}
	rects := measure()
	coords := ComputeCoordsFromPlacement(rects, placement, rtl)
	x, y := coords.X, coords.Y

	current := placement
	data := NewMiddlewareData()
	resets := 0
	elements := Elements{Reference: reference, Floating: floating}

	logger.Debug("computing position", "placement", placement, "strategy", strategy, "rtl", rtl, "x", x, "y", y)

	for i := 0; i < len(middleware); {
		m := middleware[i]
		name := m.Name()

		t := time.Now()
		ret := m.Compute(State{
			X:                x,
			Y:                y,
			InitialPlacement: placement,
			Placement:        current,
			Strategy:         strategy,
			MiddlewareData:   data,
			Rects:            rects,
			Platform:         plat,
			Elements:         elements,
		})
		hooks.OnMiddleware(ctx, name, time.Since(t))

		if ret.X != nil {
			x = *ret.X
		}
		if ret.Y != nil {
			y = *ret.Y
		}
		data.Merge(name, ret.Data)

		if ret.Reset == nil {
			i++
			continue
		}
		if resets >= MaxResets {
			logger.Warn("reset limit reached, ignoring reset", "middleware", name, "limit", MaxResets)
			hooks.OnReset(ctx, name, resets, false)
			i++
			continue
		}
		resets++
		hooks.OnReset(ctx, name, resets, true)

		if r, ok := ret.Reset.(ResetTo); ok {
			if r.Placement != "" {
				current = r.Placement
			}
			switch {
			case r.Rects != nil:
				rects = *r.Rects
			case r.Remeasure:
				rects = measure()
			}
			coords := ComputeCoordsFromPlacement(rects, current, rtl)
			x, y = coords.X, coords.Y
		}
		logger.Debug("reset", "middleware", name, "count", resets, "placement", current, "x", x, "y", y)
		i = 0
	}

	hooks.OnComputeComplete(ctx, string(current), resets, time.Since(start))
	logger.Debug("computed position", "placement", current, "x", x, "y", y, "resets", resets)

	return Result{
		X:              x,
		Y:              y,
		Placement:      current,
		Strategy:       strategy,
		MiddlewareData: data,
		Resets:         resets,
	}
}
