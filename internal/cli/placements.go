package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/position"
)

// placementRow is the initial position of one placement.
type placementRow struct {
	Placement geom.Placement `json:"placement"`
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
}

// placementRows computes the initial coordinates of all twelve placements.
func placementRows(rects geom.ElementRects, rtl bool) []placementRow {
	rows := make([]placementRow, 0, len(geom.AllPlacements))
	for _, p := range geom.AllPlacements {
		c := position.ComputeCoordsFromPlacement(rects, p, rtl)
		rows = append(rows, placementRow{Placement: p, X: c.X, Y: c.Y})
	}
	return rows
}

// placementsCommand creates the placements command.
func (c *CLI) placementsCommand() *cobra.Command {
	var (
		reference = "100x40"
		floating  = "60x30"
		at        = "0,0"
		rtl       bool
	)

	cmd := &cobra.Command{
		Use:   "placements",
		Short: "Show the initial coordinates of every placement",
		Long: `Show where each of the twelve placements puts the floating element before
any middleware runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseSize(reference)
			if err != nil {
				return err
			}
			fl, err := parseSize(floating)
			if err != nil {
				return err
			}
			origin, err := parsePoint(at)
			if err != nil {
				return err
			}
			rects := geom.ElementRects{
				Reference: geom.Rect{X: origin.X, Y: origin.Y, Width: ref.Width, Height: ref.Height},
				Floating:  geom.Rect{Width: fl.Width, Height: fl.Height},
			}
			fmt.Println(renderPlacementTable(placementRows(rects, rtl)))
			return nil
		},
	}

	cmd.Flags().StringVar(&reference, "reference", reference, "reference size as WxH")
	cmd.Flags().StringVar(&floating, "floating", floating, "floating size as WxH")
	cmd.Flags().StringVar(&at, "at", at, "reference origin as X,Y")
	cmd.Flags().BoolVar(&rtl, "rtl", false, "lay out right-to-left")

	return cmd
}

// renderPlacementTable renders placement rows as a table.
func renderPlacementTable(rows []placementRow) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		align := string(r.Placement.Alignment())
		if align == "" {
			align = "—"
		}
		cells = append(cells, []string{
			string(r.Placement), string(r.Placement.Side()), align, formatCoord(r.X), formatCoord(r.Y),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Placement", "Side", "Alignment", "X", "Y").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col >= 3:
				return StyleNumber
			default:
				return StyleDim
			}
		})
	return t.Render()
}

// parseSize parses "WxH".
func parseSize(s string) (geom.Dimensions, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return geom.Dimensions{}, errors.New(errors.ErrCodeInvalidInput, "invalid size %q (want WxH)", s)
	}
	width, err1 := strconv.ParseFloat(strings.TrimSpace(w), 64)
	height, err2 := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err1 != nil || err2 != nil || width < 0 || height < 0 {
		return geom.Dimensions{}, errors.New(errors.ErrCodeInvalidInput, "invalid size %q (want WxH)", s)
	}
	return geom.Dimensions{Width: width, Height: height}, nil
}

// parsePoint parses "X,Y".
func parsePoint(s string) (geom.Coords, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Coords{}, errors.New(errors.ErrCodeInvalidInput, "invalid point %q (want X,Y)", s)
	}
	x, err1 := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, err2 := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err1 != nil || err2 != nil {
		return geom.Coords{}, errors.New(errors.ErrCodeInvalidInput, "invalid point %q (want X,Y)", s)
	}
	return geom.Coords{X: x, Y: y}, nil
}
