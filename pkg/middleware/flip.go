package middleware

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

// FallbackStrategy decides the placement when no candidate fits.
type FallbackStrategy string

const (
	// BestFit picks the candidate with the least total overflow.
	BestFit FallbackStrategy = "bestFit"
	// InitialPlacement reverts to the requested placement.
	InitialPlacement FallbackStrategy = "initialPlacement"
)

// FlipOptions configure [Flip].
type FlipOptions struct {
	position.DetectOverflowOptions

	// MainAxis checks overflow on the placement's side. Default true.
	MainAxis *bool
	// CrossAxis checks overflow on the alignment sides. Default true.
	CrossAxis *bool
	// FallbackPlacements replaces the generated candidate list.
	FallbackPlacements []geom.Placement
	// FallbackStrategy applies when no candidate fits. Default BestFit.
	FallbackStrategy FallbackStrategy
	// FallbackAxisSideDirection adds the perpendicular placements to the
	// generated candidates, ordered by direction. Default: none.
	FallbackAxisSideDirection geom.Alignment
	// FlipAlignment includes the opposite-alignment variants. Default true.
	FlipAlignment *bool
}

// FlipData is stored under [FlipName].
type FlipData struct {
	// Index is the position of the candidate being tried.
	Index *int `json:"index,omitempty"`
	// Overflows accumulates the measurement of every candidate tried.
	Overflows []PlacementOverflow `json:"overflows,omitempty"`
}

// Merge keeps previous fields the receiver leaves unset.
func (d FlipData) Merge(prev position.Data) position.Data {
	if p, ok := prev.(FlipData); ok {
		if d.Index == nil {
			d.Index = p.Index
		}
		if d.Overflows == nil {
			d.Overflows = p.Overflows
		}
	}
	return d
}

// Flip changes the placement when the current one overflows. Candidates are
// tried one reset at a time in order; the first one that fits wins.
func Flip(opts FlipOptions) position.Middleware {
	return FlipFunc(func(position.State) FlipOptions { return opts })
}

// FlipFunc is [Flip] with options derived from the state.
func FlipFunc(fn func(position.State) FlipOptions) position.Middleware {
	return derived[FlipOptions]{name: FlipName, opts: position.Derived(fn), fn: flip}
}

// FlipCandidates returns the placements flip tries, starting with the
// initial placement.
func FlipCandidates(initial geom.Placement, opts FlipOptions, rtl bool) []geom.Placement {
	flipAlignment := boolOr(opts.FlipAlignment, true)

	var fallbacks []geom.Placement
	switch {
	case opts.FallbackPlacements != nil:
		fallbacks = slices.Clone(opts.FallbackPlacements)
	case initial.Alignment() == geom.AlignNone || !flipAlignment:
		fallbacks = []geom.Placement{initial.Opposite()}
	default:
		fallbacks = geom.ExpandedPlacements(initial)
	}
	if opts.FallbackPlacements == nil && opts.FallbackAxisSideDirection != geom.AlignNone {
		fallbacks = append(fallbacks, geom.OppositeAxisPlacements(initial, flipAlignment, opts.FallbackAxisSideDirection, rtl)...)
	}
	return append([]geom.Placement{initial}, fallbacks...)
}

func flip(state position.State, opts FlipOptions) position.Return {
	if arrowAligned(state.MiddlewareData) {
		return position.Return{}
	}

	checkMain := boolOr(opts.MainAxis, true)
	checkCross := boolOr(opts.CrossAxis, true)
	strategy := opts.FallbackStrategy
	if strategy == "" {
		strategy = BestFit
	}

	rtl := state.IsRTL()
	candidates := FlipCandidates(state.InitialPlacement, opts, rtl)
	overflow := position.DetectOverflow(state, opts.DetectOverflowOptions)

	var overflows []float64
	if checkMain {
		overflows = append(overflows, overflow.Side(state.Placement.Side()))
	}
	if checkCross {
		main, cross := geom.AlignmentSides(state.Placement, state.Rects, rtl)
		overflows = append(overflows, overflow.Side(main), overflow.Side(cross))
	}

	prev, _ := position.DataAs[FlipData](state.MiddlewareData, FlipName)
	history := append(slices.Clone(prev.Overflows), PlacementOverflow{
		Placement: state.Placement,
		Overflows: overflows,
	})

	fits := func(vs []float64) bool {
		for _, v := range vs {
			if v > 0 {
				return false
			}
		}
		return true
	}
	if fits(overflows) {
		return position.Return{}
	}

	index := 1
	if prev.Index != nil {
		index = *prev.Index + 1
	}
	if index < len(candidates) {
		return position.Return{
			Data:  FlipData{Index: &index, Overflows: history},
			Reset: position.ResetTo{Placement: candidates[index]},
		}
	}

	// Every candidate was tried. Prefer one that fits on its main side,
	// least cross-axis overflow first.
	var resetPlacement geom.Placement
	fitting := slices.DeleteFunc(slices.Clone(history), func(o PlacementOverflow) bool {
		return at(o.Overflows, 0) > 0
	})
	slices.SortStableFunc(fitting, func(a, b PlacementOverflow) int {
		return cmp.Compare(at(a.Overflows, 1), at(b.Overflows, 1))
	})
	if len(fitting) > 0 {
		resetPlacement = fitting[0].Placement
	}

	if resetPlacement == "" {
		switch strategy {
		case BestFit:
			initialAxis := state.InitialPlacement.SideAxis()
			best, bestSum := geom.Placement(""), math.Inf(1)
			for _, o := range history {
				if opts.FallbackAxisSideDirection != geom.AlignNone {
					axis := o.Placement.SideAxis()
					if axis != initialAxis && axis != geom.AxisY {
						continue
					}
				}
				var sum float64
				for _, v := range o.Overflows {
					if v > 0 {
						sum += v
					}
				}
				if sum < bestSum {
					best, bestSum = o.Placement, sum
				}
			}
			resetPlacement = best
		case InitialPlacement:
			resetPlacement = state.InitialPlacement
		}
	}

	if resetPlacement != "" && resetPlacement != state.Placement {
		return position.Return{Reset: position.ResetTo{Placement: resetPlacement}}
	}
	return position.Return{}
}

// at returns vs[i], or 0 when vs is too short.
func at(vs []float64, i int) float64 {
	if i < len(vs) {
		return vs[i]
	}
	return 0
}
