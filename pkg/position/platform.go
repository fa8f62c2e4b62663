package position

import "github.com/matzehuels/floatplace/pkg/geom"

// Element is an opaque handle to an element understood by a [Platform].
type Element = any

// Reference is the element a floating element is anchored to. It is either a
// platform [Element] or a [VirtualElement].
type Reference = any

// VirtualElement is a reference without a backing element, such as a text
// selection or a mouse position.
type VirtualElement interface {
	GetBoundingClientRect() geom.ClientRect
	// GetClientRects returns the rects of each fragment, or nil when the
	// element is a single box.
	GetClientRects() []geom.ClientRect
	// ContextElement returns the element whose clipping ancestors apply, or
	// nil.
	ContextElement() Element
}

// Elements are the two elements taking part in a computation.
type Elements struct {
	Reference Reference
	Floating  Element
}

// ElementRectsArgs are passed to [Platform.GetElementRects].
type ElementRectsArgs struct {
	Reference Reference
	Floating  Element
	Strategy  geom.Strategy
}

// ClippingRectArgs are passed to [Platform.GetClippingRect].
type ClippingRectArgs struct {
	Element      Element
	Boundary     Boundary
	RootBoundary RootBoundary
	Strategy     geom.Strategy
}

// ConvertRectArgs are passed to
// [ViewportRectConverter.ConvertOffsetParentRelativeRectToViewportRelativeRect].
type ConvertRectArgs struct {
	Elements     Elements
	Rect         geom.Rect
	OffsetParent Element
	Strategy     geom.Strategy
}

// Platform measures elements. The engine calls it synchronously and treats
// every value it returns as authoritative.
type Platform interface {
	// GetElementRects returns the reference rect relative to the floating
	// element's offset parent and the floating element's size (its x and y
	// are normally zero).
	GetElementRects(args ElementRectsArgs) geom.ElementRects
	// GetClippingRect returns the visible area the element is clipped to.
	GetClippingRect(args ClippingRectArgs) geom.Rect
	// GetDimensions returns the element's current size.
	GetDimensions(el Element) geom.Dimensions
}

// Optional platform capabilities. The engine and the middleware discover
// them with type assertions and fall back to a neutral default when a
// platform does not implement one.
type (
	// RTLChecker reports whether an element lays out right-to-left.
	// Default: false.
	RTLChecker interface {
		IsRTL(el Element) bool
	}

	// ElementChecker reports whether a value is a real element rather than
	// a virtual one. Default: every non-virtual value is an element.
	ElementChecker interface {
		IsElement(v any) bool
	}

	// OffsetParentGetter returns the element's offset parent.
	OffsetParentGetter interface {
		GetOffsetParent(el Element) (Element, bool)
	}

	// ViewportRectConverter converts a rect relative to an offset parent into
	// viewport coordinates.
	ViewportRectConverter interface {
		ConvertOffsetParentRelativeRectToViewportRelativeRect(args ConvertRectArgs) geom.Rect
	}

	// DocumentElementGetter returns the root element of the document the
	// element belongs to.
	DocumentElementGetter interface {
		GetDocumentElement(el Element) Element
	}

	// ClientRectsGetter returns the client rects of a possibly fragmented
	// element.
	ClientRectsGetter interface {
		GetClientRects(el Element) []geom.ClientRect
	}

	// ScaleGetter returns the element's scale. Default: 1 on both axes.
	ScaleGetter interface {
		GetScale(el Element) geom.Coords
	}

	// ClientLengthGetter returns the inner width or height of an element.
	ClientLengthGetter interface {
		GetClientLength(el Element, l geom.Length) float64
	}
)

// IsRTL reports whether the platform lays el out right-to-left.
func IsRTL(p Platform, el Element) bool {
	if c, ok := p.(RTLChecker); ok {
		return c.IsRTL(el)
	}
	return false
}

// IsElement reports whether v is a platform element rather than a virtual
// element.
func IsElement(p Platform, v any) bool {
	if _, ok := v.(VirtualElement); ok {
		return false
	}
	if c, ok := p.(ElementChecker); ok {
		return c.IsElement(v)
	}
	return true
}

// ScaleOf returns the platform-reported scale of el, or (1, 1).
func ScaleOf(p Platform, el Element) geom.Coords {
	if s, ok := p.(ScaleGetter); ok && el != nil {
		return s.GetScale(el)
	}
	return geom.Coords{X: 1, Y: 1}
}

// Boundary selects the clipping boundary. The zero value means the
// element's clipping ancestors.
type Boundary struct {
	Elements []Element
	Rect     *geom.Rect
}

// ClippingAncestors reports whether b is the default boundary.
func (b Boundary) ClippingAncestors() bool {
	return len(b.Elements) == 0 && b.Rect == nil
}

// RootBoundary is the outermost boundary intersected with the clipping
// boundary. The zero value is the viewport.
type RootBoundary struct {
	Document bool
	Rect     *geom.Rect
}

// ElementContext selects the element whose overflow is measured.
type ElementContext string

const (
	FloatingContext  ElementContext = "floating"
	ReferenceContext ElementContext = "reference"
)

// Alt returns the other context.
func (c ElementContext) Alt() ElementContext {
	if c == ReferenceContext {
		return FloatingContext
	}
	return ReferenceContext
}

// VirtualRect is a [VirtualElement] with a fixed bounding rect, such as a
// caret or a pointer position.
type VirtualRect struct {
	Rect geom.ClientRect
	// Fragments are the rects of each line box. Nil for a single box.
	Fragments []geom.ClientRect
	// Context is the element whose clipping ancestors apply.
	Context Element
}

func (v VirtualRect) GetBoundingClientRect() geom.ClientRect { return v.Rect }
func (v VirtualRect) GetClientRects() []geom.ClientRect      { return v.Fragments }
func (v VirtualRect) ContextElement() Element                { return v.Context }
