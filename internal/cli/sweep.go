package cli

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floatplace/pkg/pipeline"
)

// sweepCommand creates the sweep command.
func (c *CLI) sweepCommand() *cobra.Command {
	var (
		step      float64
		placement string
	)

	cmd := &cobra.Command{
		Use:   "sweep [scene.toml]",
		Short: "Slide the reference across the viewport and tally final placements",
		Long: `Slide the reference across the viewport and tally final placements.

The reference is moved on a grid of --step pixels, the scene is positioned at
every sample and the placements the middleware settled on are counted. This
shows how often flip or autoPlacement move the floating element away from the
requested side.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePlacementFlag(placement)
			if err != nil {
				return err
			}
			return c.runSweep(cmd.Context(), args[0], pipeline.SweepOptions{Step: step, Placement: p})
		},
	}

	cmd.Flags().Float64Var(&step, "step", pipeline.DefaultSweepStep, "distance between samples in pixels")
	cmd.Flags().StringVarP(&placement, "placement", "p", "", "override the scene's placement")

	return cmd
}

// runSweep loads the scene and runs the sweep behind a spinner.
func (c *CLI) runSweep(ctx context.Context, path string, opts pipeline.SweepOptions) error {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	sc, _, err := runner.Load(ctx, pipeline.Options{ScenePath: path, Logger: c.Logger})
	if err != nil {
		return err
	}

	var done, total atomic.Int64
	opts.Progress = func(n, t int) {
		done.Store(int64(n))
		total.Store(int64(t))
	}

	spinner := newSpinner(ctx, os.Stderr, "Sweeping "+path, func() string {
		if t := total.Load(); t > 0 {
			return fmt.Sprintf("%d/%d", done.Load(), t)
		}
		return ""
	})
	spinner.Start()

	result, err := runner.Sweep(ctx, sc, opts)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Sweep stopped after %d samples", done.Load()))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Swept %d positions", result.Samples))

	fmt.Println(renderSweepTable(result))
	if result.Hidden > 0 {
		printWarning("%d of %d samples were hidden", result.Hidden, result.Samples)
	}
	return nil
}

// renderSweepTable renders the placement tally, most frequent first.
func renderSweepTable(r *pipeline.SweepResult) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	var rows [][]string
	for _, pc := range r.Ranked() {
		rows = append(rows, []string{
			string(pc.Placement),
			fmt.Sprint(pc.Count),
			fmt.Sprintf("%.1f%%", 100*r.Share(pc.Placement)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Placement", "Samples", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == 0:
				return StyleSuccess
			case col == 0:
				return StyleValue
			default:
				return StyleNumber
			}
		})
	return t.Render()
}
