package middleware

import (
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

// HideStrategy selects what [Hide] checks.
type HideStrategy string

const (
	// ReferenceHidden checks whether the reference is clipped away.
	ReferenceHidden HideStrategy = "referenceHidden"
	// Escaped checks whether the floating element left the reference's
	// clipping context.
	Escaped HideStrategy = "escaped"
)

// HideOptions configure [Hide].
type HideOptions struct {
	position.DetectOverflowOptions

	// Strategy defaults to ReferenceHidden.
	Strategy HideStrategy
}

// HideData is stored under [HideName]. Each strategy sets its own pair of
// fields; running Hide twice with different strategies keeps both.
type HideData struct {
	ReferenceHidden        *bool            `json:"referenceHidden,omitempty"`
	ReferenceHiddenOffsets *geom.SideObject `json:"referenceHiddenOffsets,omitempty"`
	Escaped                *bool            `json:"escaped,omitempty"`
	EscapedOffsets         *geom.SideObject `json:"escapedOffsets,omitempty"`
}

// Merge keeps previous fields the receiver leaves unset.
func (d HideData) Merge(prev position.Data) position.Data {
	if p, ok := prev.(HideData); ok {
		if d.ReferenceHidden == nil {
			d.ReferenceHidden = p.ReferenceHidden
		}
		if d.ReferenceHiddenOffsets == nil {
			d.ReferenceHiddenOffsets = p.ReferenceHiddenOffsets
		}
		if d.Escaped == nil {
			d.Escaped = p.Escaped
		}
		if d.EscapedOffsets == nil {
			d.EscapedOffsets = p.EscapedOffsets
		}
	}
	return d
}

// IsReferenceHidden reports the referenceHidden flag, false when unset.
func (d HideData) IsReferenceHidden() bool {
	return d.ReferenceHidden != nil && *d.ReferenceHidden
}

// IsEscaped reports the escaped flag, false when unset.
func (d HideData) IsEscaped() bool {
	return d.Escaped != nil && *d.Escaped
}

// Hide reports whether the floating element should be hidden. It never
// moves the element.
func Hide(opts HideOptions) position.Middleware {
	return HideFunc(func(position.State) HideOptions { return opts })
}

// HideFunc is [Hide] with options derived from the state.
func HideFunc(fn func(position.State) HideOptions) position.Middleware {
	return derived[HideOptions]{name: HideName, opts: position.Derived(fn), fn: hide}
}

func hide(state position.State, opts HideOptions) position.Return {
	detect := opts.DetectOverflowOptions
	switch opts.Strategy {
	case ReferenceHidden, "":
		detect.ElementContext = position.ReferenceContext
		offsets := sideOffsets(position.DetectOverflow(state, detect), state.Rects.Reference)
		hidden := anySideFullyClipped(offsets)
		return position.Return{Data: HideData{ReferenceHidden: &hidden, ReferenceHiddenOffsets: &offsets}}
	case Escaped:
		detect.AltBoundary = true
		offsets := sideOffsets(position.DetectOverflow(state, detect), state.Rects.Floating)
		escaped := anySideFullyClipped(offsets)
		return position.Return{Data: HideData{Escaped: &escaped, EscapedOffsets: &offsets}}
	}
	return position.Return{}
}

// sideOffsets subtracts the element's extent from its overflow: a side is
// fully clipped once the result is non-negative.
func sideOffsets(overflow geom.SideObject, r geom.Rect) geom.SideObject {
	return geom.SideObject{
		Top:    overflow.Top - r.Height,
		Right:  overflow.Right - r.Width,
		Bottom: overflow.Bottom - r.Height,
		Left:   overflow.Left - r.Width,
	}
}

func anySideFullyClipped(o geom.SideObject) bool {
	for _, s := range geom.AllSides {
		if o.Side(s) >= 0 {
			return true
		}
	}
	return false
}
