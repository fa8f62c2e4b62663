package position

import "github.com/matzehuels/floatplace/pkg/geom"

// DetectOverflowOptions configure [DetectOverflow]. The zero value measures
// the floating element against its clipping ancestors and the viewport with
// no padding.
type DetectOverflowOptions struct {
	Boundary       Boundary
	RootBoundary   RootBoundary
	ElementContext ElementContext
	// AltBoundary measures against the clipping boundary of the other
	// element: the reference's when measuring the floating element.
	AltBoundary bool
	// Padding is added to the overflow on each side, shrinking the usable
	// area.
	Padding geom.Padding
}

// DetectOverflow returns how far the element selected by opts crosses each
// side of its clipping rectangle at the state's coordinates. Positive values
// overflow, negative values are the room left.
func DetectOverflow(state State, opts DetectOverflowOptions) geom.SideObject {
	plat := state.Platform
	pad := opts.Padding.Object()

	elCtx := opts.ElementContext
	if elCtx == "" {
		elCtx = FloatingContext
	}
	target := elCtx
	if opts.AltBoundary {
		target = elCtx.Alt()
	}

	var el Element = state.Elements.Floating
	if target == ReferenceContext {
		el = state.Elements.Reference
	}

	clip := geom.RectToClientRect(plat.GetClippingRect(ClippingRectArgs{
		Element:      clippingElement(plat, el, state.Elements.Floating),
		Boundary:     opts.Boundary,
		RootBoundary: opts.RootBoundary,
		Strategy:     state.Strategy,
	}))

	rect := state.Rects.Reference
	if elCtx == FloatingContext {
		rect = geom.Rect{
			X:      state.X,
			Y:      state.Y,
			Width:  state.Rects.Floating.Width,
			Height: state.Rects.Floating.Height,
		}
	}

	var offsetParent Element
	if g, ok := plat.(OffsetParentGetter); ok {
		if p, found := g.GetOffsetParent(state.Elements.Floating); found {
			offsetParent = p
		}
	}
	scale := geom.Coords{X: 1, Y: 1}
	if offsetParent != nil && IsElement(plat, offsetParent) {
		scale = ScaleOf(plat, offsetParent)
	}
	if conv, ok := plat.(ViewportRectConverter); ok {
		rect = conv.ConvertOffsetParentRelativeRectToViewportRelativeRect(ConvertRectArgs{
			Elements:     state.Elements,
			Rect:         rect,
			OffsetParent: offsetParent,
			Strategy:     state.Strategy,
		})
	}
	er := geom.RectToClientRect(rect)

	return geom.SideObject{
		Top:    (clip.Top - er.Top + pad.Top) / scale.Y,
		Bottom: (er.Bottom - clip.Bottom + pad.Bottom) / scale.Y,
		Left:   (clip.Left - er.Left + pad.Left) / scale.X,
		Right:  (er.Right - clip.Right + pad.Right) / scale.X,
	}
}

// clippingElement resolves a virtual reference to the element its clipping
// ancestors come from: its context element, else the floating element's
// document element.
func clippingElement(plat Platform, el Element, floating Element) Element {
	if IsElement(plat, el) {
		return el
	}
	if v, ok := el.(VirtualElement); ok {
		if ctx := v.ContextElement(); ctx != nil {
			return ctx
		}
	}
	if d, ok := plat.(DocumentElementGetter); ok {
		return d.GetDocumentElement(floating)
	}
	return nil
}
