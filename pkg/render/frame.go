package render

import (
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/middleware"
	"github.com/matzehuels/floatplace/pkg/platform"
	"github.com/matzehuels/floatplace/pkg/position"
	"github.com/matzehuels/floatplace/pkg/scene"
)

// Frame is a drawable snapshot. All rects are in viewport coordinates.
type Frame struct {
	Title    string
	Viewport geom.Rect
	// Elements are the scene's elements in tree order, without the
	// floating element and the arrow.
	Elements  []platform.Node
	Reference geom.Rect
	Floating  geom.Rect
	Arrow     *geom.Rect
	Placement geom.Placement
	// Coords are the computed coordinates relative to the offset parent.
	Coords geom.Coords
	// Hidden is set when hide reported the reference hidden or the
	// floating element escaped.
	Hidden bool
}

// NewFrame builds the frame of res computed on p.
func NewFrame(sc *scene.Scene, p *platform.Static, res position.Result) Frame {
	f := Frame{
		Title:     sc.Name,
		Viewport:  p.Viewport,
		Floating:  scene.NewResult(sc, p, res).Rect,
		Placement: res.Placement,
		Coords:    res.Coords(),
	}

	for _, n := range p.Nodes() {
		if n.ID == scene.FloatingID || n.ID == scene.ArrowID {
			continue
		}
		f.Elements = append(f.Elements, n)
	}

	switch ref := sc.ReferenceElement().(type) {
	case position.VirtualElement:
		f.Reference = ref.GetBoundingClientRect().Rect()
	case string:
		if n, ok := p.Node(ref); ok {
			f.Reference = n.Rect
		}
	}

	if hd, ok := position.DataAs[middleware.HideData](res.MiddlewareData, middleware.HideName); ok {
		f.Hidden = hd.IsReferenceHidden() || hd.IsEscaped()
	}

	if ad, ok := position.DataAs[middleware.ArrowData](res.MiddlewareData, middleware.ArrowName); ok {
		if r, ok := arrowRect(p, res, ad); ok {
			f.Arrow = &r
		}
	}
	return f
}

// arrowRect places the arrow on the floating element's edge facing the
// reference, centred on that edge.
func arrowRect(p *platform.Static, res position.Result, d middleware.ArrowData) (geom.Rect, bool) {
	an, ok := p.Node(scene.ArrowID)
	if !ok {
		return geom.Rect{}, false
	}
	fl := p.GetDimensions(scene.FloatingID)
	aw, ah := an.Rect.Width, an.Rect.Height

	r := geom.Rect{X: res.X, Y: res.Y, Width: aw, Height: ah}
	if d.X != nil {
		r.X += *d.X
	}
	if d.Y != nil {
		r.Y += *d.Y
	}
	switch res.Placement.Side() {
	case geom.Bottom:
		r.Y = res.Y - ah/2
	case geom.Top:
		r.Y = res.Y + fl.Height - ah/2
	case geom.Right:
		r.X = res.X - aw/2
	case geom.Left:
		r.X = res.X + fl.Width - aw/2
	}
	return p.ToViewport(scene.FloatingID, r), true
}
