package pipeline

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/middleware"
	"github.com/matzehuels/floatplace/pkg/platform"
	"github.com/matzehuels/floatplace/pkg/position"
	"github.com/matzehuels/floatplace/pkg/scene"
)

// SweepOptions configure [Runner.Sweep].
type SweepOptions struct {
	// Step is the distance between samples on both axes. It must be at
	// least MinSweepStep. Default DefaultSweepStep.
	Step float64
	// Placement overrides the scene's placement.
	Placement geom.Placement
	// Progress, if set, is called after every sample.
	Progress func(done, total int)
}

// SweepResult tallies the final placements of a sweep.
type SweepResult struct {
	Samples int
	// Hidden counts the samples hide reported as hidden or escaped.
	Hidden int
	Counts map[geom.Placement]int
}

// PlacementCount is one row of [SweepResult.Ranked].
type PlacementCount struct {
	Placement geom.Placement
	Count     int
}

// Ranked returns the placements that occurred, most frequent first. Ties
// keep the canonical placement order.
func (s *SweepResult) Ranked() []PlacementCount {
	var out []PlacementCount
	for _, p := range geom.AllPlacements {
		if n := s.Counts[p]; n > 0 {
			out = append(out, PlacementCount{Placement: p, Count: n})
		}
	}
	slices.SortStableFunc(out, func(a, b PlacementCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}

// Share returns the fraction of samples that ended at p.
func (s *SweepResult) Share(p geom.Placement) float64 {
	if s.Samples == 0 {
		return 0
	}
	return float64(s.Counts[p]) / float64(s.Samples)
}

// Sweep slides the reference across the viewport on a grid and computes the
// position at every sample. The reference keeps its size; samples start at
// the viewport origin and stop where the reference would leave the
// viewport. The sweep stops early when ctx is cancelled.
func (r *Runner) Sweep(ctx context.Context, sc *scene.Scene, opts SweepOptions) (*SweepResult, error) {
	step := opts.Step
	if step == 0 {
		step = DefaultSweepStep
	}
	if step < MinSweepStep || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sweep step must be at least %v, got %v", MinSweepStep, step)
	}
	if opts.Placement != "" {
		if !opts.Placement.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidPlacement, "unknown placement %q", opts.Placement)
		}
		sc = sc.WithPlacement(opts.Placement)
	}

	base, err := sc.Platform()
	if err != nil {
		return nil, err
	}
	ref, err := ReferenceRect(sc)
	if err != nil {
		return nil, err
	}
	xs := samples(sc.Viewport.Width-ref.Width, step)
	ys := samples(sc.Viewport.Height-ref.Height, step)
	total := len(xs) * len(ys)

	r.Logger.Debug("sweeping scene", "name", sc.Name, "samples", total, "step", step)

	out := &SweepResult{Counts: make(map[geom.Placement]int)}
	for _, y := range ys {
		for _, x := range xs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			c, err := r.computeAt(ctx, sc, base.Clone(), geom.Rect{X: x, Y: y, Width: ref.Width, Height: ref.Height})
			if err != nil {
				return nil, err
			}
			res := c.Result
			out.Samples++
			out.Counts[res.Placement]++
			if hd, ok := position.DataAs[middleware.HideData](res.MiddlewareData, middleware.HideName); ok {
				if hd.IsReferenceHidden() || hd.IsEscaped() {
					out.Hidden++
				}
			}
			if opts.Progress != nil {
				opts.Progress(out.Samples, total)
			}
		}
	}
	return out, nil
}

// ComputeAt positions sc with its reference moved to at. Virtual
// references are moved the same way. sc itself is not modified.
func (r *Runner) ComputeAt(ctx context.Context, sc *scene.Scene, at geom.Rect) (Computation, error) {
	p, err := sc.Platform()
	if err != nil {
		return Computation{}, err
	}
	return r.computeAt(ctx, sc, p, at)
}

func (r *Runner) computeAt(ctx context.Context, sc *scene.Scene, p *platform.Static, at geom.Rect) (Computation, error) {
	if sc.Virtual != nil {
		v := *sc.Virtual
		v.X, v.Y = at.X, at.Y
		moved := *sc
		moved.Virtual = &v
		sc = &moved
	} else if err := p.Move(sc.Reference, at); err != nil {
		return Computation{}, err
	}
	return Computation{Scene: sc, Platform: p, Result: sc.ComputeOn(ctx, p, r.Logger)}, nil
}

// ReferenceRect returns the viewport rect of the scene's reference.
func ReferenceRect(sc *scene.Scene) (geom.Rect, error) {
	if sc.Virtual != nil {
		return sc.Virtual.Rect(), nil
	}
	p, err := sc.Platform()
	if err != nil {
		return geom.Rect{}, err
	}
	n, ok := p.Node(sc.Reference)
	if !ok {
		return geom.Rect{}, errors.New(errors.ErrCodeElementNotFound, "unknown reference %q", sc.Reference)
	}
	return n.Rect, nil
}

// samples returns the offsets 0, step, 2*step... up to span. A negative
// span yields the single offset 0.
func samples(span, step float64) []float64 {
	if span <= 0 {
		return []float64{0}
	}
	n := int(math.Floor(span/step)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * step
	}
	return out
}
