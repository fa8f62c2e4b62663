package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/pipeline"
)

// renderCommand creates the render command for generating artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		placement  string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}
	opts.SetRenderDefaults()

	cmd := &cobra.Command{
		Use:   "render [scene.toml]",
		Short: "Render a positioned scene to SVG, JSON or a text grid",
		Long: `Render a positioned scene to SVG, JSON or a text grid.

The scene is positioned first and the result drawn in each requested format.
Artifacts are cached locally by scene content and render options; use
--no-cache to bypass the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateTheme(opts.Theme); err != nil {
				return err
			}
			if output != "" {
				if err := errors.ValidatePath(output); err != nil {
					return err
				}
			}
			p, err := parsePlacementFlag(placement)
			if err != nil {
				return err
			}
			opts.ScenePath = args[0]
			opts.Placement = p
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render and overwrite cached artifacts")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, txt (comma-separated)")
	cmd.Flags().StringVarP(&placement, "placement", "p", "", "override the scene's placement")
	cmd.Flags().StringVar(&opts.Theme, "theme", opts.Theme, "SVG theme: light (default), dark")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "label elements in the SVG")
	cmd.Flags().IntVar(&opts.Cols, "cols", opts.Cols, "text grid width in cells")
	cmd.Flags().IntVar(&opts.Rows, "rows", opts.Rows, "text grid height in cells")

	return cmd
}

// runRender executes the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(result.Artifacts)))

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.ScenePath,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
		result:    result,
	})
}

// artifactWriteParams groups the inputs of writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
	result    *pipeline.Result
}

// writeArtifacts writes each artifact next to the input or to the output
// path, then prints a summary.
func writeArtifacts(p artifactWriteParams) error {
	paths := outputPaths(p.input, p.output, p.formats)
	for _, format := range p.formats {
		path := paths[format]
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	printSuccess("Render complete")
	for _, format := range p.formats {
		printFile(paths[format])
	}
	if p.result != nil {
		printStats(p.result.Stats, p.cacheHit)
	}
	return nil
}

// outputPaths maps each format to its output file. A single format is
// written to output as given; several formats share output (or the input)
// as a base path with the format as extension. The input is never
// overwritten.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
		if paths[f] == input {
			paths[f] = base + ".result." + f
		}
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .json, .txt), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
