package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/pipeline"
	"github.com/matzehuels/floatplace/pkg/render"
	"github.com/matzehuels/floatplace/pkg/scene"
)

// Grid styles
var (
	gridEmptyStyle     = lipgloss.NewStyle().Foreground(colorDim)
	gridElementStyle   = lipgloss.NewStyle().Foreground(colorGray)
	gridReferenceStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	gridFloatingStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	gridHiddenStyle    = lipgloss.NewStyle().Foreground(colorRed)
	gridArrowStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// =============================================================================
// ExploreModel - Interactive reference positioning
// =============================================================================

// ExploreModel is the bubbletea model of the explore command. Arrow keys
// move the reference, p cycles the requested placement and the grid is
// recomputed after every key.
type ExploreModel struct {
	Scene     *scene.Scene
	Runner    *pipeline.Runner
	Placement geom.Placement
	Reference geom.Rect
	Step      float64
	Cols      int
	Rows      int

	origin geom.Rect
	comp   pipeline.Computation
	err    error
}

// NewExploreModel creates an explore model for sc and computes the first
// frame.
func NewExploreModel(sc *scene.Scene, runner *pipeline.Runner, step float64, cols, rows int) (ExploreModel, error) {
	ref, err := pipeline.ReferenceRect(sc)
	if err != nil {
		return ExploreModel{}, err
	}
	m := ExploreModel{
		Scene:     sc,
		Runner:    runner,
		Placement: sc.Placement.Or(geom.PlacementBottom),
		Reference: ref,
		Step:      step,
		Cols:      cols,
		Rows:      rows,
		origin:    ref,
	}
	m.recompute()
	return m, m.err
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(0, -m.Step)
		case "down", "j":
			m.move(0, m.Step)
		case "left", "h":
			m.move(-m.Step, 0)
		case "right", "l":
			m.move(m.Step, 0)
		case "p":
			m.Placement = cyclePlacement(m.Placement, 1)
		case "P":
			m.Placement = cyclePlacement(m.Placement, -1)
		case "r":
			m.Reference = m.origin
			m.Placement = m.Scene.Placement.Or(geom.PlacementBottom)
		default:
			return m, nil
		}
		m.recompute()
	case tea.WindowSizeMsg:
		m.Cols = max(10, msg.Width-2)
		m.Rows = max(5, msg.Height-8)
		m.recompute()
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	title := m.Scene.Name
	if title == "" {
		title = "scene"
	}
	b.WriteString(StyleTitle.Render("Explore " + title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←↑↓→ move reference  p/P cycle placement  r reset  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n")
		return b.String()
	}

	grid := render.NewGrid(m.comp.Frame(), m.Cols, m.Rows)
	for _, line := range grid.Lines() {
		b.WriteString(colorizeGridLine(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	res := m.comp.Result
	status := fmt.Sprintf("  requested %s  final %s  at %s, %s  resets %d",
		StyleHighlight.Render(string(m.Placement)),
		StyleHighlight.Render(string(res.Placement)),
		formatCoord(res.X), formatCoord(res.Y), res.Resets)
	b.WriteString(status)
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  reference %s, %s", formatCoord(m.Reference.X), formatCoord(m.Reference.Y))))

	return b.String()
}

// move shifts the reference and keeps it inside the viewport.
func (m *ExploreModel) move(dx, dy float64) {
	vp := m.Scene.Viewport
	m.Reference.X = geom.Clamp(0, m.Reference.X+dx, max(0, vp.Width-m.Reference.Width))
	m.Reference.Y = geom.Clamp(0, m.Reference.Y+dy, max(0, vp.Height-m.Reference.Height))
}

// recompute positions the scene at the current reference and placement.
func (m *ExploreModel) recompute() {
	sc := m.Scene.WithPlacement(m.Placement)
	m.comp, m.err = m.Runner.ComputeAt(context.Background(), sc, m.Reference)
}

// cyclePlacement returns the placement dir steps away in canonical order.
func cyclePlacement(p geom.Placement, dir int) geom.Placement {
	n := len(geom.AllPlacements)
	i := slices.Index(geom.AllPlacements, p)
	if i < 0 {
		return geom.AllPlacements[0]
	}
	return geom.AllPlacements[((i+dir)%n+n)%n]
}

// colorizeGridLine styles each grid cell by what it shows.
func colorizeGridLine(line string) string {
	var b strings.Builder
	for _, r := range line {
		s := string(r)
		switch render.Cell(r) {
		case render.CellReference:
			b.WriteString(gridReferenceStyle.Render(s))
		case render.CellFloating:
			b.WriteString(gridFloatingStyle.Render(s))
		case render.CellHidden:
			b.WriteString(gridHiddenStyle.Render(s))
		case render.CellArrow:
			b.WriteString(gridArrowStyle.Render(s))
		case render.CellEmpty:
			b.WriteString(gridEmptyStyle.Render(s))
		default:
			b.WriteString(gridElementStyle.Render(s))
		}
	}
	return b.String()
}
