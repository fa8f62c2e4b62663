// Package scene loads positioning scenes from TOML or JSON.
//
// A scene describes a viewport, a tree of elements, the floating element
// (and optionally its arrow) and the middleware stack to run:
//
//	placement = "top-start"
//	reference = "button"
//
//	[viewport]
//	width = 800
//	height = 600
//
//	[[element]]
//	id = "scroller"
//	x = 0
//	y = 0
//	width = 400
//	height = 300
//	clip = true
//
//	[[element]]
//	id = "button"
//	parent = "scroller"
//	x = 100
//	y = 20
//	width = 80
//	height = 30
//
//	[floating]
//	width = 200
//	height = 120
//
//	[[middleware]]
//	type = "offset"
//	main_axis = 8
//
//	[[middleware]]
//	type = "shift"
//	padding = 5
//	limit = { offset = 0 }
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults. The floating element and the arrow are added to the platform
// under the reserved IDs [FloatingID] and [ArrowID].
//
// [Scene.Platform] builds a fresh [platform.Static] for every computation,
// because middleware such as size with apply enabled resize the floating
// element while they run.
package scene
