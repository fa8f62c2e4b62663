package geom

// Clamp returns value limited to [start, end]. When start > end, start wins.
func Clamp(start, value, end float64) float64 {
	return max(start, min(value, end))
}

// AlignmentSides returns the side an aligned floating element overflows
// first along its alignment axis, and its opposite.
//
// On the x axis a start alignment (end alignment in RTL) grows toward the
// right; on the y axis start grows toward the bottom. When the reference is
// longer than the floating element along that axis the sides swap, since the
// floating element then sits inside the reference's span.
func AlignmentSides(p Placement, rects ElementRects, rtl bool) (Side, Side) {
	align := p.Alignment()
	axis := p.AlignmentAxis()
	length := axis.Length()

	var main Side
	if axis == AxisX {
		grow := AlignStart
		if rtl {
			grow = AlignEnd
		}
		if align == grow {
			main = Right
		} else {
			main = Left
		}
	} else {
		if align == AlignStart {
			main = Bottom
		} else {
			main = Top
		}
	}

	if rects.Reference.Length(length) > rects.Floating.Length(length) {
		main = main.Opposite()
	}
	return main, main.Opposite()
}

// ExpandedPlacements returns the fallbacks flip tries for an aligned
// placement: same side with the other alignment, the opposite side, and the
// opposite side with the other alignment.
func ExpandedPlacements(p Placement) []Placement {
	opp := p.Opposite()
	return []Placement{p.OppositeAlignment(), opp, opp.OppositeAlignment()}
}

// SideList orders the sides of the perpendicular axis. Vertical sides yield
// left then right when isStart (reversed otherwise, and mirrored again in
// RTL); horizontal sides yield top then bottom when isStart.
func SideList(side Side, isStart, rtl bool) []Side {
	lr := []Side{Left, Right}
	rl := []Side{Right, Left}
	switch side {
	case Top, Bottom:
		if rtl {
			if isStart {
				return rl
			}
			return lr
		}
		if isStart {
			return lr
		}
		return rl
	case Left, Right:
		if isStart {
			return []Side{Top, Bottom}
		}
		return []Side{Bottom, Top}
	}
	return nil
}

// OppositeAxisPlacements lists the perpendicular-axis placements that keep
// p's alignment, ordered by direction. With flipAlignment set the list is
// followed by the same placements with the alignment swapped.
func OppositeAxisPlacements(p Placement, flipAlignment bool, direction Alignment, rtl bool) []Placement {
	align := p.Alignment()
	sides := SideList(p.Side(), direction == AlignStart, rtl)

	list := make([]Placement, 0, 2*len(sides))
	for _, s := range sides {
		list = append(list, NewPlacement(s, align))
	}
	if align != AlignNone && flipAlignment {
		for _, s := range sides {
			list = append(list, NewPlacement(s, align.Opposite()))
		}
	}
	return list
}
