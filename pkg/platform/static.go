package platform

import (
	"slices"

	"github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

// DocumentID is the element handle of the document root.
const DocumentID = "#document"

// Direction is the text direction of a node.
type Direction string

const (
	// Inherit takes the direction of the closest ancestor that sets one.
	Inherit Direction = ""
	LTR     Direction = "ltr"
	RTL     Direction = "rtl"
)

// ParseDirection parses "", "ltr" or "rtl".
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Inherit, LTR, RTL:
		return d, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown direction %q (valid: ltr, rtl)", s)
}

// Node is a rectangular element in viewport coordinates.
type Node struct {
	ID   string
	Rect geom.Rect
	// ClientRects are the line fragments of an inline node. Empty for a
	// single box.
	ClientRects []geom.Rect
	// Clip hides the overflow of descendants.
	Clip bool
	Dir  Direction
	// Scale is the node's transform scale. The zero value means 1.
	Scale geom.Coords
	// Parent is the ID of the enclosing node, or empty for a top-level
	// node.
	Parent string
}

// scale returns the node's scale with zero components replaced by 1.
func (n Node) scale() geom.Coords {
	s := n.Scale
	if s.X == 0 {
		s.X = 1
	}
	if s.Y == 0 {
		s.Y = 1
	}
	return s
}

// Static is an in-memory platform. The zero value is not usable; create one
// with [New].
type Static struct {
	// Viewport is the default root boundary.
	Viewport geom.Rect
	// Document is the root boundary when the document is requested. A zero
	// rect falls back to the viewport.
	Document geom.Rect
	// Dir is the document direction, inherited by nodes that set none.
	Dir Direction

	nodes map[string]*Node
	order []string
}

// New returns an empty platform with the given viewport.
func New(viewport geom.Rect) *Static {
	return &Static{Viewport: viewport, nodes: make(map[string]*Node)}
}

// Add inserts a node. Parents must be added before their children.
func (s *Static) Add(n Node) error {
	if err := errors.ValidateElementID(n.ID); err != nil {
		return err
	}
	if n.ID == DocumentID {
		return errors.New(errors.ErrCodeInvalidScene, "element id %q is reserved", n.ID)
	}
	if _, dup := s.nodes[n.ID]; dup {
		return errors.New(errors.ErrCodeInvalidScene, "duplicate element id %q", n.ID)
	}
	if n.Parent != "" {
		if _, ok := s.nodes[n.Parent]; !ok {
			return errors.New(errors.ErrCodeElementNotFound, "element %q: unknown parent %q", n.ID, n.Parent)
		}
	}
	if err := errors.ValidateSize(n.ID, n.Rect.Width, n.Rect.Height); err != nil {
		return err
	}
	n.ClientRects = slices.Clone(n.ClientRects)
	s.nodes[n.ID] = &n
	s.order = append(s.order, n.ID)
	return nil
}

// Node returns a copy of the node with the given ID.
func (s *Static) Node(id string) (Node, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns copies of all nodes in insertion order, so parents come
// before their children.
func (s *Static) Nodes() []Node {
	out := make([]Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.nodes[id])
	}
	return out
}

// Move sets the node's rect. Its client rects are translated by the same
// amount.
func (s *Static) Move(id string, r geom.Rect) error {
	n, ok := s.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeElementNotFound, "unknown element %q", id)
	}
	dx, dy := r.X-n.Rect.X, r.Y-n.Rect.Y
	for i := range n.ClientRects {
		n.ClientRects[i].X += dx
		n.ClientRects[i].Y += dy
	}
	n.Rect = r
	return nil
}

// Resize sets the node's width and height and keeps its origin.
func (s *Static) Resize(id string, d geom.Dimensions) error {
	n, ok := s.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeElementNotFound, "unknown element %q", id)
	}
	n.Rect.Width, n.Rect.Height = d.Width, d.Height
	return nil
}

// Clone returns a deep copy.
func (s *Static) Clone() *Static {
	c := New(s.Viewport)
	c.Document = s.Document
	c.Dir = s.Dir
	for _, id := range s.order {
		n := *s.nodes[id]
		n.ClientRects = slices.Clone(n.ClientRects)
		c.nodes[id] = &n
		c.order = append(c.order, id)
	}
	return c
}

// ClippingAncestors returns the clipping ancestors of the element, closest
// first.
func (s *Static) ClippingAncestors(id string) []Node {
	var out []Node
	n, ok := s.nodes[id]
	for ok && n.Parent != "" {
		n, ok = s.nodes[n.Parent]
		if ok && n.Clip {
			out = append(out, *n)
		}
	}
	return out
}

// ToViewport maps a rect relative to the floating element's offset parent
// to viewport coordinates.
func (s *Static) ToViewport(floating position.Element, r geom.Rect) geom.Rect {
	origin, scale := s.offsetFrame(floating)
	return geom.Rect{
		X:      r.X*scale.X + origin.X,
		Y:      r.Y*scale.Y + origin.Y,
		Width:  r.Width * scale.X,
		Height: r.Height * scale.Y,
	}
}

// offsetFrame returns the origin and scale of the element's offset parent.
func (s *Static) offsetFrame(el position.Element) (geom.Coords, geom.Coords) {
	n := s.lookup(el)
	if n == nil || n.Parent == "" {
		return geom.Coords{}, geom.Coords{X: 1, Y: 1}
	}
	p := s.nodes[n.Parent]
	return geom.Coords{X: p.Rect.X, Y: p.Rect.Y}, p.scale()
}

func (s *Static) lookup(el position.Element) *Node {
	id, ok := el.(string)
	if !ok {
		return nil
	}
	return s.nodes[id]
}

func (s *Static) rectOf(ref position.Reference) geom.Rect {
	if v, ok := ref.(position.VirtualElement); ok {
		return v.GetBoundingClientRect().Rect()
	}
	if n := s.lookup(ref); n != nil {
		return n.Rect
	}
	return geom.Rect{}
}

// GetElementRects returns the reference rect relative to the floating
// element's offset parent and the floating element's size at the origin.
func (s *Static) GetElementRects(args position.ElementRectsArgs) geom.ElementRects {
	origin, scale := s.offsetFrame(args.Floating)
	r := s.rectOf(args.Reference)
	ref := geom.Rect{
		X:      (r.X - origin.X) / scale.X,
		Y:      (r.Y - origin.Y) / scale.Y,
		Width:  r.Width / scale.X,
		Height: r.Height / scale.Y,
	}
	d := s.GetDimensions(args.Floating)
	return geom.ElementRects{
		Reference: ref,
		Floating:  geom.Rect{Width: d.Width, Height: d.Height},
	}
}

// GetClippingRect intersects the root boundary with the boundary rects: the
// element's clipping ancestors by default.
func (s *Static) GetClippingRect(args position.ClippingRectArgs) geom.Rect {
	var rects []geom.Rect
	switch b := args.Boundary; {
	case b.Rect != nil:
		rects = append(rects, *b.Rect)
	case len(b.Elements) > 0:
		for _, el := range b.Elements {
			rects = append(rects, s.rectOf(el))
		}
	default:
		if id, ok := args.Element.(string); ok {
			for _, n := range s.ClippingAncestors(id) {
				rects = append(rects, n.Rect)
			}
		}
	}
	rects = append(rects, s.rootRect(args.RootBoundary))

	clip := geom.RectToClientRect(rects[0])
	for _, r := range rects[1:] {
		c := geom.RectToClientRect(r)
		clip.Top = max(clip.Top, c.Top)
		clip.Left = max(clip.Left, c.Left)
		clip.Right = min(clip.Right, c.Right)
		clip.Bottom = min(clip.Bottom, c.Bottom)
	}
	return geom.Rect{
		X:      clip.Left,
		Y:      clip.Top,
		Width:  clip.Right - clip.Left,
		Height: clip.Bottom - clip.Top,
	}
}

func (s *Static) rootRect(rb position.RootBoundary) geom.Rect {
	switch {
	case rb.Rect != nil:
		return *rb.Rect
	case rb.Document && s.Document != (geom.Rect{}):
		return s.Document
	}
	return s.Viewport
}

// GetDimensions returns the node's size, or zero for unknown elements.
func (s *Static) GetDimensions(el position.Element) geom.Dimensions {
	if n := s.lookup(el); n != nil {
		return n.Rect.Dimensions()
	}
	return geom.Dimensions{}
}

// IsRTL walks up from el and returns the first direction set, falling back
// to the document direction.
func (s *Static) IsRTL(el position.Element) bool {
	for n := s.lookup(el); n != nil; n = s.nodes[n.Parent] {
		if n.Dir != Inherit {
			return n.Dir == RTL
		}
	}
	return s.Dir == RTL
}

// IsElement reports whether v is a known node or the document root.
func (s *Static) IsElement(v any) bool {
	id, ok := v.(string)
	if !ok {
		return false
	}
	_, known := s.nodes[id]
	return known || id == DocumentID
}

// GetOffsetParent returns the node's parent, or the document root for a
// top-level node.
func (s *Static) GetOffsetParent(el position.Element) (position.Element, bool) {
	n := s.lookup(el)
	if n == nil {
		return nil, false
	}
	if n.Parent == "" {
		return DocumentID, true
	}
	return n.Parent, true
}

// ConvertOffsetParentRelativeRectToViewportRelativeRect implements
// [position.ViewportRectConverter].
func (s *Static) ConvertOffsetParentRelativeRectToViewportRelativeRect(args position.ConvertRectArgs) geom.Rect {
	return s.ToViewport(args.Elements.Floating, args.Rect)
}

// GetDocumentElement returns [DocumentID].
func (s *Static) GetDocumentElement(position.Element) position.Element {
	return DocumentID
}

// GetClientRects returns the node's line fragments, or its rect when it
// has none.
func (s *Static) GetClientRects(el position.Element) []geom.ClientRect {
	n := s.lookup(el)
	if n == nil {
		return nil
	}
	if len(n.ClientRects) == 0 {
		return []geom.ClientRect{geom.RectToClientRect(n.Rect)}
	}
	out := make([]geom.ClientRect, len(n.ClientRects))
	for i, r := range n.ClientRects {
		out[i] = geom.RectToClientRect(r)
	}
	return out
}

// GetScale returns the node's scale, or (1, 1).
func (s *Static) GetScale(el position.Element) geom.Coords {
	if n := s.lookup(el); n != nil {
		return n.scale()
	}
	return geom.Coords{X: 1, Y: 1}
}

// GetClientLength returns the node's inner width or height. Nodes have no
// borders or scrollbars, so this is the rect's length.
func (s *Static) GetClientLength(el position.Element, l geom.Length) float64 {
	if n := s.lookup(el); n != nil {
		return n.Rect.Length(l)
	}
	return 0
}

var (
	_ position.Platform              = (*Static)(nil)
	_ position.RTLChecker            = (*Static)(nil)
	_ position.ElementChecker        = (*Static)(nil)
	_ position.OffsetParentGetter    = (*Static)(nil)
	_ position.ViewportRectConverter = (*Static)(nil)
	_ position.DocumentElementGetter = (*Static)(nil)
	_ position.ClientRectsGetter     = (*Static)(nil)
	_ position.ScaleGetter           = (*Static)(nil)
	_ position.ClientLengthGetter    = (*Static)(nil)
)
