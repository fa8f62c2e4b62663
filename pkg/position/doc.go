// Package position computes where a floating element goes relative to a
// reference element.
//
// # Overview
//
// [ComputePosition] is the entry point. It measures both elements through a
// [Platform], derives initial coordinates from the requested placement with
// [ComputeCoordsFromPlacement], and then feeds the state through an ordered
// list of [Middleware]. Each middleware may move the element, publish data
// under its own name, or ask the driver to start over:
//
//	res := position.ComputePosition(ctx, button, tooltip, position.Config{
//	    Placement: geom.PlacementTop,
//	    Platform:  plat,
//	    Middleware: []position.Middleware{
//	        middleware.Offset(middleware.OffsetOptions{MainAxis: 8}),
//	        middleware.Flip(middleware.FlipOptions{}),
//	        middleware.Shift(middleware.ShiftOptions{}),
//	    },
//	})
//	fmt.Println(res.X, res.Y, res.Placement)
//
// # Resets
//
// A middleware that returns a [Reset] rewinds the pipeline to its first
// middleware. [Restart] keeps the current coordinates; [ResetTo] switches
// placement and/or rects and recomputes the coordinates from scratch. At most
// [MaxResets] resets are honoured per computation; later requests are
// ignored, which bounds oscillating middleware (flip and shift fighting over
// an edge, for instance) without reporting an error.
//
// # Middleware Data
//
// [MiddlewareData] maps middleware names to [Data] values in insertion order.
// Writes to an existing name are merged: fields the new value leaves unset
// never erase what an earlier run stored. [Record] is the open-ended variant
// for custom middleware; the built-in middleware in package middleware use
// typed structs.
//
// # Overflow
//
// [DetectOverflow] reports, per side, how far an element crosses its clipping
// rectangle. Positive values overflow, negative values are free space, zero
// sits exactly on the edge. Most middleware are built on it.
//
// The engine performs no I/O, spawns no goroutines and keeps no state
// between calls. It trusts the platform's measurements as given.
package position
