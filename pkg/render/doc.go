// Package render draws the outcome of a positioning computation.
//
// A [Frame] collects everything worth drawing from a scene and its
// result: the viewport, the element tree, the reference, the floating
// element at its computed position and the arrow. Frames are rendered by
//
//   - [RenderSVG]: a standalone SVG document with clipping ancestors
//     outlined, the reference and floating element filled and the final
//     placement labelled;
//   - [NewGrid]: a character grid for terminals, used by the interactive
//     explorer and the compute preview.
//
// Basic usage:
//
//	res, plat, _ := sc.Compute(ctx, logger)
//	frame := render.NewFrame(sc, plat, res)
//	svg := render.RenderSVG(frame, render.WithLabels(), render.WithTheme(render.Dark))
//	fmt.Print(render.NewGrid(frame, 60, 20))
package render
