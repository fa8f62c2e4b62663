package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floatplace/pkg/pipeline"
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		step       float64
		cols, rows int
	)

	cmd := &cobra.Command{
		Use:   "explore [scene.toml]",
		Short: "Move the reference interactively and watch the floating element follow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], step, cols, rows)
		},
	}

	cmd.Flags().Float64Var(&step, "step", 10, "distance the reference moves per key press")
	cmd.Flags().IntVar(&cols, "cols", pipeline.DefaultCols, "grid width in cells")
	cmd.Flags().IntVar(&rows, "rows", pipeline.DefaultRows, "grid height in cells")

	return cmd
}

// runExplore starts the explore program.
func (c *CLI) runExplore(ctx context.Context, path string, step float64, cols, rows int) error {
	if step <= 0 {
		return fmt.Errorf("step must be positive, got %v", step)
	}

	// Engine logs would draw over the program's screen.
	runner := pipeline.NewRunner(nil, nil, newLogger(io.Discard, LogInfo))

	sc, _, err := runner.Load(ctx, pipeline.Options{ScenePath: path, Logger: c.Logger})
	if err != nil {
		return err
	}
	model, err := NewExploreModel(sc, runner, step, cols, rows)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
