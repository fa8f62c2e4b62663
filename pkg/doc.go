// Package pkg provides the libraries behind floatplace, a positioning engine
// for floating elements such as tooltips, popovers and dropdown menus.
//
// # Overview
//
// Given a reference element, a floating element and a requested placement,
// floatplace computes where the floating element goes. A chain of middleware
// refines the result: offsetting it, flipping it to the other side when it
// overflows, shifting it back into view, sizing it to the room left and
// pointing an arrow at the reference. The pkg directory is organized into:
//
//  1. [geom] - Rects, sides, alignments and the placement algebra
//  2. [position] - The engine, overflow detection and the platform contract
//  3. [middleware] - The built-in middleware
//  4. [platform] - An in-memory platform of nested rectangles
//  5. [scene] - TOML and JSON scene files
//  6. [pipeline] - Orchestration (load → compute → render) with caching
//  7. [render] - SVG and text grid output
//
// # Architecture
//
// The typical data flow through floatplace:
//
//	Scene file (TOML/JSON)
//	         ↓
//	    [scene] package (validate, build platform and middleware)
//	         ↓
//	    [position] package (initial coords + middleware pipeline)
//	         ↓
//	    [render] package (frame of rects)
//	         ↓
//	SVG/JSON/TXT output
//
// # Quick Start
//
// Position a tooltip below a button and keep it in view:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/floatplace/pkg/geom"
//	    "github.com/matzehuels/floatplace/pkg/middleware"
//	    "github.com/matzehuels/floatplace/pkg/platform"
//	    "github.com/matzehuels/floatplace/pkg/position"
//	)
//
//	p := platform.New(geom.Rect{Width: 800, Height: 600})
//	p.Add(platform.Node{ID: "button", Rect: geom.Rect{X: 40, Y: 560, Width: 80, Height: 30}})
//	p.Add(platform.Node{ID: "tooltip", Rect: geom.Rect{Width: 120, Height: 40}})
//
//	res := position.ComputePosition(context.Background(), "button", "tooltip", position.Config{
//	    Placement: geom.PlacementBottom,
//	    Platform:  p,
//	    Middleware: []position.Middleware{
//	        middleware.Offset(middleware.OffsetOptions{MainAxis: 8}),
//	        middleware.Flip(middleware.FlipOptions{}),
//	        middleware.Shift(middleware.ShiftOptions{}),
//	    },
//	})
//
// # Supporting Packages
//
//   - [cache] - Content-addressed caching on disk or in Redis
//   - [errors] - Coded errors shared by the CLI and the HTTP API
//   - [observability] - Hooks for metrics and tracing
//   - [httputil] - Request IDs and JSON responses for the HTTP API
//   - [buildinfo] - Version information
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/floatplace/pkg/geom
// [position]: https://pkg.go.dev/github.com/matzehuels/floatplace/pkg/position
// [middleware]: https://pkg.go.dev/github.com/matzehuels/floatplace/pkg/middleware
// [platform]: https://pkg.go.dev/github.com/matzehuels/floatplace/pkg/platform
// [scene]: https://pkg.go.dev/github.com/matzehuels/floatplace/pkg/scene
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/floatplace/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/floatplace/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/floatplace/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/floatplace/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/floatplace/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/floatplace/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/floatplace/pkg/buildinfo
package pkg
