package geom

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x" toml:"x"`
	Y      float64 `json:"y" toml:"y"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Axis returns the origin coordinate on axis a.
func (r Rect) Axis(a Axis) float64 {
	if a == AxisY {
		return r.Y
	}
	return r.X
}

// Length returns the width or height.
func (r Rect) Length(l Length) float64 {
	if l == Height {
		return r.Height
	}
	return r.Width
}

// Dimensions returns the rectangle's size.
func (r Rect) Dimensions() Dimensions {
	return Dimensions{Width: r.Width, Height: r.Height}
}

// Contains reports whether the point lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// ClientRect is a [Rect] with its edges precomputed.
type ClientRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// RectToClientRect derives top = y, left = x, right = x + width and
// bottom = y + height.
func RectToClientRect(r Rect) ClientRect {
	return ClientRect{
		X:      r.X,
		Y:      r.Y,
		Width:  r.Width,
		Height: r.Height,
		Top:    r.Y,
		Right:  r.X + r.Width,
		Bottom: r.Y + r.Height,
		Left:   r.X,
	}
}

// Rect drops the derived edges.
func (c ClientRect) Rect() Rect {
	return Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

// Side returns the coordinate of edge s.
func (c ClientRect) Side(s Side) float64 {
	switch s {
	case Top:
		return c.Top
	case Right:
		return c.Right
	case Bottom:
		return c.Bottom
	}
	return c.Left
}

// Coords is a point.
type Coords struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Axis returns the coordinate on axis a.
func (c Coords) Axis(a Axis) float64 {
	if a == AxisY {
		return c.Y
	}
	return c.X
}

// WithAxis returns a copy of c with the coordinate on axis a set to v.
func (c Coords) WithAxis(a Axis, v float64) Coords {
	if a == AxisY {
		c.Y = v
	} else {
		c.X = v
	}
	return c
}

// Dimensions is a width and height.
type Dimensions struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Length returns the width or height.
func (d Dimensions) Length(l Length) float64 {
	if l == Height {
		return d.Height
	}
	return d.Width
}

// ElementRects holds the measured reference and floating rectangles.
type ElementRects struct {
	Reference Rect `json:"reference"`
	Floating  Rect `json:"floating"`
}

// SideObject carries one value per side.
type SideObject struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Side returns the value for s.
func (o SideObject) Side(s Side) float64 {
	switch s {
	case Top:
		return o.Top
	case Right:
		return o.Right
	case Bottom:
		return o.Bottom
	}
	return o.Left
}

// PartialSideObject is a [SideObject] whose sides may be left unset.
type PartialSideObject struct {
	Top    *float64 `json:"top,omitempty" toml:"top"`
	Right  *float64 `json:"right,omitempty" toml:"right"`
	Bottom *float64 `json:"bottom,omitempty" toml:"bottom"`
	Left   *float64 `json:"left,omitempty" toml:"left"`
}

// Padding is either one value for every side or a per-side value where
// missing sides are zero. The zero Padding is zero on every side.
type Padding struct {
	all   float64
	sides *PartialSideObject
}

// UniformPadding pads every side by v.
func UniformPadding(v float64) Padding {
	return Padding{all: v}
}

// SidePadding pads each side independently.
func SidePadding(p PartialSideObject) Padding {
	return Padding{sides: &p}
}

// Object expands the padding into a full [SideObject].
func (p Padding) Object() SideObject {
	if p.sides == nil {
		return SideObject{Top: p.all, Right: p.all, Bottom: p.all, Left: p.all}
	}
	get := func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	}
	return SideObject{
		Top:    get(p.sides.Top),
		Right:  get(p.sides.Right),
		Bottom: get(p.sides.Bottom),
		Left:   get(p.sides.Left),
	}
}
