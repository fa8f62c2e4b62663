package scene

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/middleware"
	"github.com/matzehuels/floatplace/pkg/platform"
	"github.com/matzehuels/floatplace/pkg/position"
)

const minimal = `
reference = "anchor"

[viewport]
width = 800
height = 600

[[element]]
id = "anchor"
x = 0
y = 500
width = 100
height = 50

[floating]
width = 100
height = 200
`

func mustParse(t *testing.T, src string) *Scene {
	t.Helper()
	sc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return sc
}

func TestLoad(t *testing.T) {
	for _, name := range []string{"popover.toml", "popover.json"} {
		t.Run(name, func(t *testing.T) {
			sc, err := Load(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if sc.Name != "popover" || sc.Placement != geom.PlacementTopStart || sc.Reference != "button" {
				t.Errorf("header = %q %q %q", sc.Name, sc.Placement, sc.Reference)
			}
			if len(sc.Elements) != 2 || !sc.Elements[0].Clip {
				t.Errorf("elements = %+v", sc.Elements)
			}

			var kinds []string
			for _, m := range sc.Stack {
				kinds = append(kinds, m.Kind())
			}
			if got := strings.Join(kinds, ","); got != "offset,flip,shift" {
				t.Errorf("stack = %s", got)
			}
			shift := sc.Stack[2].(*ShiftSpec)
			if shift.Padding != 5 || shift.Limit == nil {
				t.Errorf("shift = %+v", shift)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestCompute(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "popover.toml"))
	if err != nil {
		t.Fatal(err)
	}

	res, plat, err := sc.Compute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	// top-start and top-end leave the viewport, bottom-start fits
	if res.Placement != geom.PlacementBottomStart {
		t.Errorf("placement = %s, want bottom-start", res.Placement)
	}
	if res.Coords() != (geom.Coords{X: 100, Y: 58}) {
		t.Errorf("coords = %+v, want (100, 58)", res.Coords())
	}
	if res.Resets != 2 {
		t.Errorf("resets = %d, want 2", res.Resets)
	}

	out := NewResult(sc, plat, res)
	if out.Rect != (geom.Rect{X: 100, Y: 58, Width: 200, Height: 120}) {
		t.Errorf("rect = %+v", out.Rect)
	}
}

func TestComputeWithPlacementOverride(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "popover.toml"))
	if err != nil {
		t.Fatal(err)
	}
	res, _, err := sc.WithPlacement(geom.PlacementRight).Compute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	// left overflows the viewport on the main axis, so flip returns to
	// right and shift keeps the top edge 5px inside the viewport
	if res.Placement != geom.PlacementRight || res.Coords() != (geom.Coords{X: 188, Y: 5}) {
		t.Errorf("got %s %+v, want right (188, 5)", res.Placement, res.Coords())
	}
	if sc.Placement != geom.PlacementTopStart {
		t.Error("WithPlacement modified the original scene")
	}
}

func TestSizeApplyShrinksFloating(t *testing.T) {
	sc := mustParse(t, minimal+`
[[middleware]]
type = "size"
apply = true
`)
	res, plat, err := sc.Compute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if res.Resets != 1 {
		t.Errorf("resets = %d, want 1", res.Resets)
	}
	if d := plat.GetDimensions(FloatingID); d != (geom.Dimensions{Width: 100, Height: 50}) {
		t.Errorf("floating = %+v, want 100x50", d)
	}
	data, _ := position.DataAs[middleware.SizeData](res.MiddlewareData, middleware.SizeName)
	if data.AvailableHeight != 50 {
		t.Errorf("availableHeight = %v, want 50", data.AvailableHeight)
	}
}

func TestSizeApplyWithoutFloatingElement(t *testing.T) {
	sc := mustParse(t, minimal+`
[[middleware]]
type = "size"
apply = true
`)
	p := platform.New(geom.Rect{Width: 800, Height: 600})
	if err := p.Add(platform.Node{ID: "anchor", Rect: geom.Rect{Y: 500, Width: 100, Height: 50}}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	res := position.ComputePosition(context.Background(), "anchor", FloatingID, position.Config{
		Platform:   p,
		Middleware: sc.Middleware(p, log.New(&buf)),
	})

	if res.Resets != 0 {
		t.Errorf("resets = %d, want 0", res.Resets)
	}
	if !strings.Contains(buf.String(), "size not applied") {
		t.Errorf("missing resize warning, log:\n%s", buf.String())
	}
	if _, ok := p.Node(FloatingID); ok {
		t.Error("floating element was created")
	}
}

func TestVirtualReference(t *testing.T) {
	sc := mustParse(t, `
[viewport]
width = 800
height = 600

[virtual]
x = 400
y = 300
width = 0
height = 0

[floating]
width = 100
height = 50
`)
	ref, ok := sc.ReferenceElement().(position.VirtualRect)
	if !ok {
		t.Fatalf("reference = %T, want VirtualRect", sc.ReferenceElement())
	}
	if ref.Context != nil {
		t.Errorf("context = %v, want nil", ref.Context)
	}

	res, _, err := sc.Compute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Coords() != (geom.Coords{X: 350, Y: 300}) {
		t.Errorf("coords = %+v, want (350, 300)", res.Coords())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"unknown top-level key", minimal + "placment = \"top\"\n", errors.ErrCodeInvalidScene},
		{"unknown middleware key", minimal + "[[middleware]]\ntype = \"offset\"\nmain_axes = 1\n", errors.ErrCodeInvalidScene},
		{"unknown middleware type", minimal + "[[middleware]]\ntype = \"teleport\"\n", errors.ErrCodeInvalidMiddleware},
		{"missing middleware type", minimal + "[[middleware]]\nmain_axis = 1\n", errors.ErrCodeInvalidMiddleware},
		{"arrow without table", minimal + "[[middleware]]\ntype = \"arrow\"\n", errors.ErrCodeInvalidMiddleware},
		{"bad fallback strategy", minimal + "[[middleware]]\ntype = \"flip\"\nfallback_strategy = \"random\"\n", errors.ErrCodeInvalidMiddleware},
		{"unknown boundary", minimal + "[[middleware]]\ntype = \"shift\"\nboundary = [\"nope\"]\n", errors.ErrCodeInvalidMiddleware},
		{"inline half point", minimal + "[[middleware]]\ntype = \"inline\"\nx = 1\n", errors.ErrCodeInvalidMiddleware},
		{"bad placement", "placement = \"middle\"\n" + minimal, errors.ErrCodeInvalidScene},
		{"bad strategy", "strategy = \"sticky\"\n" + minimal, errors.ErrCodeInvalidInput},
		{"unknown reference", strings.Replace(minimal, `reference = "anchor"`, `reference = "nope"`, 1), errors.ErrCodeElementNotFound},
		{"missing reference", strings.Replace(minimal, `reference = "anchor"`, ``, 1), errors.ErrCodeInvalidScene},
		{"reserved id", strings.Replace(minimal, `id = "anchor"`, `id = "floating"`, 1), errors.ErrCodeInvalidScene},
		{"empty viewport", strings.Replace(minimal, "width = 800", "width = 0", 1), errors.ErrCodeInvalidScene},
		{"malformed", "reference = ", errors.ErrCodeInvalidScene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestParseJSONRejectsUnknownFields(t *testing.T) {
	_, err := ParseJSON([]byte(`{"viewport": {"width": 1, "height": 1}, "reference": "a", "colour": "red"}`))
	if !errors.Is(err, errors.ErrCodeInvalidScene) {
		t.Errorf("ParseJSON() = %v, want %s", err, errors.ErrCodeInvalidScene)
	}

	_, err = ParseJSON([]byte(`{"viewport": {"width": 1, "height": 1}, "middleware": [{"type": "offset", "mainAxes": 1}]}`))
	if !errors.Is(err, errors.ErrCodeInvalidMiddleware) {
		t.Errorf("ParseJSON() = %v, want %s", err, errors.ErrCodeInvalidMiddleware)
	}
}

func TestMarshalResultKeepsDataOrder(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "popover.toml"))
	if err != nil {
		t.Fatal(err)
	}
	res, plat, err := sc.Compute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	data, err := MarshalResult(NewResult(sc, plat, res))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	offset, flip, shift := strings.Index(s, `"offset"`), strings.Index(s, `"flip"`), strings.Index(s, `"shift"`)
	if offset < 0 || !(offset < flip && flip < shift) {
		t.Errorf("middleware data out of order:\n%s", s)
	}
	for _, want := range []string{`"scene": "popover"`, `"placement": "bottom-start"`, `"resets": 2`} {
		if !strings.Contains(s, want) {
			t.Errorf("result missing %s:\n%s", want, s)
		}
	}
}

func TestExampleScenes(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "scenes", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example scenes")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			sc, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			res, _, err := sc.Compute(context.Background(), nil)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if res.Placement == "" {
				t.Error("empty placement")
			}
		})
	}
}
