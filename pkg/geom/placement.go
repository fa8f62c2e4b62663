package geom

import (
	"strings"

	"github.com/matzehuels/floatplace/pkg/errors"
)

// Side is one of the four sides of a rectangle.
type Side string

const (
	Top    Side = "top"
	Right  Side = "right"
	Bottom Side = "bottom"
	Left   Side = "left"
)

// AllSides lists the sides in top, right, bottom, left order.
var AllSides = []Side{Top, Right, Bottom, Left}

// Opposite returns the side across the rectangle.
func (s Side) Opposite() Side {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	}
	return s
}

// Axis returns y for top/bottom and x for left/right.
func (s Side) Axis() Axis {
	if s == Top || s == Bottom {
		return AxisY
	}
	return AxisX
}

// Valid reports whether s is one of the four sides.
func (s Side) Valid() bool {
	return s == Top || s == Right || s == Bottom || s == Left
}

func (s Side) String() string { return string(s) }

// ParseSide parses "top", "right", "bottom" or "left".
func ParseSide(s string) (Side, error) {
	side := Side(strings.ToLower(strings.TrimSpace(s)))
	if !side.Valid() {
		return "", errors.New(errors.ErrCodeInvalidPlacement, "unknown side %q", s)
	}
	return side, nil
}

// Alignment is the position of the floating element along the side it is
// placed on. The empty alignment means centered.
type Alignment string

const (
	AlignNone  Alignment = ""
	AlignStart Alignment = "start"
	AlignEnd   Alignment = "end"
)

// Opposite swaps start and end. Centered stays centered.
func (a Alignment) Opposite() Alignment {
	switch a {
	case AlignStart:
		return AlignEnd
	case AlignEnd:
		return AlignStart
	}
	return a
}

// ParseAlignment parses "", "none", "start" or "end".
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "center":
		return AlignNone, nil
	case "start":
		return AlignStart, nil
	case "end":
		return AlignEnd, nil
	}
	return "", errors.New(errors.ErrCodeInvalidPlacement, "unknown alignment %q", s)
}

// Axis is a coordinate axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Opposite returns the other axis.
func (a Axis) Opposite() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

// Length returns the dimension measured along the axis.
func (a Axis) Length() Length {
	if a == AxisY {
		return Height
	}
	return Width
}

// Length names a rectangle dimension.
type Length string

const (
	Width  Length = "width"
	Height Length = "height"
)

// Placement is a side with an optional alignment, written "side" or
// "side-alignment". The empty placement is unset; callers resolve it with
// [Placement.Or].
type Placement string

const (
	PlacementTop         Placement = "top"
	PlacementTopStart    Placement = "top-start"
	PlacementTopEnd      Placement = "top-end"
	PlacementRight       Placement = "right"
	PlacementRightStart  Placement = "right-start"
	PlacementRightEnd    Placement = "right-end"
	PlacementBottom      Placement = "bottom"
	PlacementBottomStart Placement = "bottom-start"
	PlacementBottomEnd   Placement = "bottom-end"
	PlacementLeft        Placement = "left"
	PlacementLeftStart   Placement = "left-start"
	PlacementLeftEnd     Placement = "left-end"
)

// AllPlacements lists the twelve placements in canonical order.
var AllPlacements = []Placement{
	PlacementTop, PlacementTopStart, PlacementTopEnd,
	PlacementRight, PlacementRightStart, PlacementRightEnd,
	PlacementBottom, PlacementBottomStart, PlacementBottomEnd,
	PlacementLeft, PlacementLeftStart, PlacementLeftEnd,
}

// NewPlacement combines a side and an alignment.
func NewPlacement(side Side, align Alignment) Placement {
	if align == AlignNone {
		return Placement(side)
	}
	return Placement(string(side) + "-" + string(align))
}

// ParsePlacement parses a placement name such as "bottom-end". Matching is
// case-insensitive.
func ParsePlacement(s string) (Placement, error) {
	p := Placement(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", errors.New(errors.ErrCodeInvalidPlacement,
			"unknown placement %q (valid: top, right, bottom, left with optional -start/-end)", s)
	}
	return p, nil
}

// Valid reports whether p is one of the twelve placements.
func (p Placement) Valid() bool {
	side, align, aligned := strings.Cut(string(p), "-")
	if !Side(side).Valid() {
		return false
	}
	if !aligned {
		return true
	}
	return Alignment(align) == AlignStart || Alignment(align) == AlignEnd
}

// Or returns p, or def when p is unset.
func (p Placement) Or(def Placement) Placement {
	if p == "" {
		return def
	}
	return p
}

// Side returns the side component.
func (p Placement) Side() Side {
	side, _, _ := strings.Cut(string(p), "-")
	return Side(side)
}

// Alignment returns the alignment component, or [AlignNone].
func (p Placement) Alignment() Alignment {
	_, align, _ := strings.Cut(string(p), "-")
	return Alignment(align)
}

// SideAxis is the axis perpendicular to the placement's side.
func (p Placement) SideAxis() Axis { return p.Side().Axis() }

// AlignmentAxis is the axis along the placement's side. It is always the
// opposite of [Placement.SideAxis].
func (p Placement) AlignmentAxis() Axis { return p.SideAxis().Opposite() }

// Opposite mirrors the side and keeps the alignment: top-start becomes
// bottom-start.
func (p Placement) Opposite() Placement {
	return NewPlacement(p.Side().Opposite(), p.Alignment())
}

// OppositeAlignment swaps start and end and keeps the side. A placement
// without alignment is returned unchanged.
func (p Placement) OppositeAlignment() Placement {
	return NewPlacement(p.Side(), p.Alignment().Opposite())
}

func (p Placement) String() string { return string(p) }

// UnmarshalText validates the placement name.
func (p *Placement) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*p = ""
		return nil
	}
	v, err := ParsePlacement(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Strategy is the CSS positioning strategy of the floating element.
type Strategy string

const (
	Absolute Strategy = "absolute"
	Fixed    Strategy = "fixed"
)

// Or returns s, or def when s is unset.
func (s Strategy) Or(def Strategy) Strategy {
	if s == "" {
		return def
	}
	return s
}

// ParseStrategy parses "absolute" or "fixed".
func ParseStrategy(s string) (Strategy, error) {
	switch v := Strategy(strings.ToLower(strings.TrimSpace(s))); v {
	case Absolute, Fixed:
		return v, nil
	case "":
		return Absolute, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown strategy %q (valid: absolute, fixed)", s)
}
