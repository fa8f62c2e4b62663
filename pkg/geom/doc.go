// Package geom provides the placement algebra and rectangle types shared by
// the positioning engine and its middleware.
//
// # Overview
//
// A floating element (tooltip, popover, dropdown) is positioned next to a
// reference element. Where it goes is described by a [Placement]: a [Side]
// of the reference ("top", "right", "bottom", "left") plus an optional
// [Alignment] along that side ("start" or "end"). The twelve placements are
// listed, in canonical order, in [AllPlacements].
//
// Each placement has two axes. The side axis is the axis the floating element
// moves along to get away from the reference (y for top/bottom, x for
// left/right). The alignment axis is always the other one:
//
//	p := geom.PlacementTopStart
//	p.Side()          // top
//	p.Alignment()     // start
//	p.SideAxis()      // y
//	p.AlignmentAxis() // x
//
// # Rectangles
//
// [Rect] is the minimal x/y/width/height rectangle. [ClientRect] adds the
// derived top/right/bottom/left edges and is produced by [RectToClientRect].
// [SideObject] carries one number per side; the overflow detector uses it to
// report how far an element crosses each edge of its clipping rectangle.
//
// # Fallback Lists
//
// [ExpandedPlacements], [OppositeAxisPlacements] and [AlignmentSides] are the
// building blocks flip and autoPlacement use to generate candidate placements
// and to decide which sides an aligned element can overflow.
//
// All functions in this package are pure and safe for concurrent use.
package geom
