package middleware

import (
	"cmp"
	"slices"

	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

// AutoPlacementOptions configure [AutoPlacement].
type AutoPlacementOptions struct {
	position.DetectOverflowOptions

	// CrossAxis scores aligned placements by their side and first alignment
	// side overflow combined. Default false.
	CrossAxis bool
	// Alignment prefers placements with this alignment. Default: none, which
	// restricts the candidates to the four sides unless AllowedPlacements is
	// set.
	Alignment geom.Alignment
	// AutoAlignment also tries the opposite alignment when Alignment is set.
	// Default true.
	AutoAlignment *bool
	// AllowedPlacements restricts the candidates. Default: all twelve.
	AllowedPlacements []geom.Placement
}

// AutoPlacementData is stored under [AutoPlacementName].
type AutoPlacementData struct {
	Index     *int                `json:"index,omitempty"`
	Overflows []PlacementOverflow `json:"overflows,omitempty"`
}

// Merge keeps previous fields the receiver leaves unset.
func (d AutoPlacementData) Merge(prev position.Data) position.Data {
	if p, ok := prev.(AutoPlacementData); ok {
		if d.Index == nil {
			d.Index = p.Index
		}
		if d.Overflows == nil {
			d.Overflows = p.Overflows
		}
	}
	return d
}

// AutoPlacement measures every candidate placement, one reset at a time,
// and settles on the one with the most space.
func AutoPlacement(opts AutoPlacementOptions) position.Middleware {
	return AutoPlacementFunc(func(position.State) AutoPlacementOptions { return opts })
}

// AutoPlacementFunc is [AutoPlacement] with options derived from the state.
func AutoPlacementFunc(fn func(position.State) AutoPlacementOptions) position.Middleware {
	return derived[AutoPlacementOptions]{name: AutoPlacementName, opts: position.Derived(fn), fn: autoPlacement}
}

// AutoPlacementCandidates returns the placements autoPlacement measures, in
// order.
func AutoPlacementCandidates(opts AutoPlacementOptions) []geom.Placement {
	if opts.Alignment == geom.AlignNone && opts.AllowedPlacements != nil {
		return slices.Clone(opts.AllowedPlacements)
	}
	allowed := opts.AllowedPlacements
	if allowed == nil {
		allowed = geom.AllPlacements
	}
	return placementList(opts.Alignment, boolOr(opts.AutoAlignment, true), allowed)
}

func placementList(align geom.Alignment, autoAlignment bool, allowed []geom.Placement) []geom.Placement {
	var sorted []geom.Placement
	if align != geom.AlignNone {
		for _, p := range allowed {
			if p.Alignment() == align {
				sorted = append(sorted, p)
			}
		}
		for _, p := range allowed {
			if p.Alignment() != align {
				sorted = append(sorted, p)
			}
		}
	} else {
		for _, p := range allowed {
			if p.Alignment() == geom.AlignNone {
				sorted = append(sorted, p)
			}
		}
	}

	if align == geom.AlignNone {
		return sorted
	}
	return slices.DeleteFunc(sorted, func(p geom.Placement) bool {
		if p.Alignment() == align {
			return false
		}
		return !(autoAlignment && p.OppositeAlignment() != p)
	})
}

func autoPlacement(state position.State, opts AutoPlacementOptions) position.Return {
	candidates := AutoPlacementCandidates(opts)
	overflow := position.DetectOverflow(state, opts.DetectOverflowOptions)

	prev, _ := position.DataAs[AutoPlacementData](state.MiddlewareData, AutoPlacementName)
	index := 0
	if prev.Index != nil {
		index = *prev.Index
	}
	if index >= len(candidates) {
		return position.Return{}
	}
	current := candidates[index]

	if state.Placement != current {
		return position.Return{Reset: position.ResetTo{Placement: candidates[0]}}
	}

	main, cross := geom.AlignmentSides(current, state.Rects, state.IsRTL())
	history := append(slices.Clone(prev.Overflows), PlacementOverflow{
		Placement: current,
		Overflows: []float64{overflow.Side(current.Side()), overflow.Side(main), overflow.Side(cross)},
	})

	next := index + 1
	if next < len(candidates) {
		return position.Return{
			Data:  AutoPlacementData{Index: &next, Overflows: history},
			Reset: position.ResetTo{Placement: candidates[next]},
		}
	}

	type scored struct {
		placement geom.Placement
		score     float64
		overflows []float64
	}
	byScore := make([]scored, 0, len(history))
	for _, o := range history {
		score := o.Overflows[0]
		if o.Placement.Alignment() != geom.AlignNone && opts.CrossAxis {
			score = o.Overflows[0] + o.Overflows[1]
		}
		byScore = append(byScore, scored{o.Placement, score, o.Overflows})
	}
	slices.SortStableFunc(byScore, func(a, b scored) int { return cmp.Compare(a.score, b.score) })

	reset := byScore[0].placement
	for _, s := range byScore {
		checked := s.overflows
		if s.placement.Alignment() != geom.AlignNone {
			checked = checked[:2]
		}
		if !slices.ContainsFunc(checked, func(v float64) bool { return v > 0 }) {
			reset = s.placement
			break
		}
	}

	if reset != state.Placement {
		return position.Return{
			Data:  AutoPlacementData{Index: &next, Overflows: history},
			Reset: position.ResetTo{Placement: reset},
		}
	}
	return position.Return{}
}
