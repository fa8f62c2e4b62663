package position

import "github.com/matzehuels/floatplace/pkg/geom"

// ComputeCoordsFromPlacement places the floating rect flush against the
// reference on the placement's side and centers it on the alignment axis.
// Start and end alignment line up the matching edges instead; in RTL the
// horizontal alignment of top/bottom placements is mirrored.
func ComputeCoordsFromPlacement(rects geom.ElementRects, placement geom.Placement, rtl bool) geom.Coords {
	ref, fl := rects.Reference, rects.Floating
	alignAxis := placement.AlignmentAxis()
	alignLength := alignAxis.Length()
	isVertical := placement.SideAxis() == geom.AxisY

	commonX := ref.X + ref.Width/2 - fl.Width/2
	commonY := ref.Y + ref.Height/2 - fl.Height/2
	commonAlign := ref.Length(alignLength)/2 - fl.Length(alignLength)/2

	var c geom.Coords
	switch placement.Side() {
	case geom.Top:
		c = geom.Coords{X: commonX, Y: ref.Y - fl.Height}
	case geom.Bottom:
		c = geom.Coords{X: commonX, Y: ref.Y + ref.Height}
	case geom.Right:
		c = geom.Coords{X: ref.X + ref.Width, Y: commonY}
	case geom.Left:
		c = geom.Coords{X: ref.X - fl.Width, Y: commonY}
	default:
		c = geom.Coords{X: ref.X, Y: ref.Y}
	}

	dir := 1.0
	if rtl && isVertical {
		dir = -1
	}
	switch placement.Alignment() {
	case geom.AlignStart:
		c = c.WithAxis(alignAxis, c.Axis(alignAxis)-commonAlign*dir)
	case geom.AlignEnd:
		c = c.WithAxis(alignAxis, c.Axis(alignAxis)+commonAlign*dir)
	}
	return c
}
