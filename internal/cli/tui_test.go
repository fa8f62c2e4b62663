package cli

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/pipeline"
	"github.com/matzehuels/floatplace/pkg/scene"
)

func newTestExploreModel(t *testing.T) ExploreModel {
	t.Helper()
	sc, err := scene.Parse([]byte(testScene))
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	m, err := NewExploreModel(sc, runner, 10, 40, 12)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func press(m ExploreModel, keys ...tea.KeyMsg) ExploreModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(ExploreModel)
	}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestExploreModelMove(t *testing.T) {
	m := newTestExploreModel(t)
	if m.comp.Result.X != 170 || m.comp.Result.Y != 170 {
		t.Fatalf("initial = (%g, %g), want (170, 170)", m.comp.Result.X, m.comp.Result.Y)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRight}, runeKey('j'))
	if m.Reference.X != 160 || m.Reference.Y != 140 {
		t.Errorf("reference = (%g, %g), want (160, 140)", m.Reference.X, m.Reference.Y)
	}
	if m.comp.Result.X != 180 || m.comp.Result.Y != 180 {
		t.Errorf("result = (%g, %g), want (180, 180)", m.comp.Result.X, m.comp.Result.Y)
	}

	// The reference stays inside the viewport.
	for i := 0; i < 30; i++ {
		m = press(m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.Reference.X != 0 || m.Reference.Y != 260 {
		t.Errorf("clamped reference = (%g, %g), want (0, 260)", m.Reference.X, m.Reference.Y)
	}

	m = press(m, runeKey('r'))
	if m.Reference != m.origin {
		t.Errorf("reset reference = %+v, want %+v", m.Reference, m.origin)
	}
}

func TestExploreModelCyclePlacement(t *testing.T) {
	m := newTestExploreModel(t)

	m = press(m, runeKey('p'))
	if m.Placement != geom.PlacementBottomStart {
		t.Errorf("placement = %s, want bottom-start", m.Placement)
	}
	if m.comp.Result.Placement != geom.PlacementBottomStart || m.comp.Result.X != 150 {
		t.Errorf("result = %s at x %g, want bottom-start at 150", m.comp.Result.Placement, m.comp.Result.X)
	}

	m = press(m, runeKey('P'), runeKey('P'))
	if m.Placement != geom.PlacementRightEnd {
		t.Errorf("placement = %s, want right-end", m.Placement)
	}
}

func TestExploreModelQuit(t *testing.T) {
	m := newTestExploreModel(t)
	for _, k := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		if _, cmd := m.Update(k); cmd == nil {
			t.Errorf("Update(%s) returned no command", k)
		}
	}
	if _, cmd := m.Update(runeKey('x')); cmd != nil {
		t.Error("unbound key returned a command")
	}
}

func TestExploreModelView(t *testing.T) {
	m := newTestExploreModel(t)
	view := m.View()
	for _, want := range []string{"Explore tooltip", "bottom", "170"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestCyclePlacement(t *testing.T) {
	tests := []struct {
		in   geom.Placement
		dir  int
		want geom.Placement
	}{
		{geom.PlacementTop, 1, geom.PlacementTopStart},
		{geom.PlacementTop, -1, geom.PlacementLeftEnd},
		{geom.PlacementLeftEnd, 1, geom.PlacementTop},
		{geom.Placement("bogus"), 1, geom.PlacementTop},
	}
	for _, tt := range tests {
		if got := cyclePlacement(tt.in, tt.dir); got != tt.want {
			t.Errorf("cyclePlacement(%s, %d) = %s, want %s", tt.in, tt.dir, got, tt.want)
		}
	}
}
