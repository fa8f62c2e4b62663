package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/pipeline"
	"github.com/matzehuels/floatplace/pkg/render"
	"github.com/matzehuels/floatplace/pkg/scene"
)

// computeCommand creates the compute command for positioning a scene.
func (c *CLI) computeCommand() *cobra.Command {
	var (
		placement string
		asJSON    bool
		preview   bool
	)
	opts := pipeline.Options{}
	opts.SetRenderDefaults()

	cmd := &cobra.Command{
		Use:   "compute [scene.toml]",
		Short: "Position the floating element of a scene",
		Long: `Position the floating element of a scene and print the result.

The scene file describes the viewport, the elements on the page, the floating
element and the middleware stack. Files ending in .json are read as JSON,
everything else as TOML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePlacementFlag(placement)
			if err != nil {
				return err
			}
			opts.ScenePath = args[0]
			opts.Placement = p
			return c.runCompute(cmd.Context(), opts, asJSON, preview)
		},
	}

	cmd.Flags().StringVarP(&placement, "placement", "p", "", "override the scene's placement")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&preview, "preview", false, "print a character grid of the scene")
	cmd.Flags().IntVar(&opts.Cols, "cols", opts.Cols, "preview width in cells")
	cmd.Flags().IntVar(&opts.Rows, "rows", opts.Rows, "preview height in cells")

	return cmd
}

// runCompute loads the scene, positions it and prints the outcome.
func (c *CLI) runCompute(ctx context.Context, opts pipeline.Options, asJSON, preview bool) error {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	opts.Logger = c.Logger

	sc, _, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	comp, err := runner.Compute(ctx, sc, opts)
	if err != nil {
		return err
	}

	if asJSON {
		return scene.WriteResult(os.Stdout, comp.SceneResult())
	}

	printComputation(comp)
	if preview {
		printNewline()
		fmt.Print(render.NewGrid(comp.Frame(), opts.Cols, opts.Rows).String())
	}
	return nil
}

// printComputation prints a summary of a computed position.
func printComputation(comp pipeline.Computation) {
	res := comp.SceneResult()
	name := res.Scene
	if name == "" {
		name = "scene"
	}

	printSuccess("Positioned %s", StyleHighlight.Render(name))
	printKeyValue("placement", string(res.Placement))
	printKeyValue("position", fmt.Sprintf("%s, %s", formatCoord(res.X), formatCoord(res.Y)))
	printKeyValue("rect", fmt.Sprintf("%s, %s  %s×%s",
		formatCoord(res.Rect.X), formatCoord(res.Rect.Y), formatCoord(res.Rect.Width), formatCoord(res.Rect.Height)))
	printKeyValue("resets", fmt.Sprint(res.Resets))

	data := res.MiddlewareData
	if data.Len() == 0 {
		return
	}
	printNewline()
	for _, key := range data.Keys() {
		d, _ := data.Get(key)
		raw, err := json.Marshal(d)
		if err != nil {
			printWarning("%s: %v", key, err)
			continue
		}
		printKeyValue(key, string(raw))
	}
}

// parsePlacementFlag validates an optional placement flag.
func parsePlacementFlag(s string) (geom.Placement, error) {
	if s == "" {
		return "", nil
	}
	return geom.ParsePlacement(s)
}

// formatCoord formats a coordinate without trailing zeros.
func formatCoord(v float64) string {
	return fmt.Sprintf("%g", v)
}
