// Package platform provides an in-memory [position.Platform].
//
// A [Static] platform holds a tree of rectangular nodes laid out in viewport
// coordinates. It answers every measurement the positioning engine asks for
// from that tree, which makes computations deterministic and lets scene
// files, the CLI and the HTTP API place floating elements without a
// browser.
//
// # Elements
//
// Elements are referred to by their node ID (a string). [DocumentID] names
// the document root, which has no rect of its own and never clips. Virtual
// references ([position.VirtualElement]) are accepted wherever the engine
// passes a reference.
//
// # Clipping
//
// A node with Clip set hides the overflow of its descendants. The clipping
// rect of an element is the intersection of the root boundary (the viewport,
// the document or an explicit rect) with every clipping ancestor, or with
// the explicit boundary when one is given.
//
// # Offset parents
//
// The floating element is positioned relative to its parent node, or to the
// viewport origin when it has none. A parent with a Scale other than 1
// scales the coordinates the engine computes; [Static.ToViewport] maps them
// back.
//
// Static is not safe for concurrent mutation. Use [Static.Clone] to give
// each goroutine its own copy.
package platform
