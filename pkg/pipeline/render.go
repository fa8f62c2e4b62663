package pipeline

import (
	"fmt"

	"github.com/matzehuels/floatplace/pkg/platform"
	"github.com/matzehuels/floatplace/pkg/position"
	"github.com/matzehuels/floatplace/pkg/render"
	"github.com/matzehuels/floatplace/pkg/scene"
)

// Computation is a scene positioned on its platform.
type Computation struct {
	Scene    *scene.Scene
	Platform *platform.Static
	Result   position.Result
}

// SceneResult returns the serializable result.
func (c Computation) SceneResult() scene.Result {
	return scene.NewResult(c.Scene, c.Platform, c.Result)
}

// Frame returns the drawable snapshot of the computation.
func (c Computation) Frame() render.Frame {
	return render.NewFrame(c.Scene, c.Platform, c.Result)
}

// Render generates output artifacts in the requested formats.
func Render(c Computation, opts Options) (map[string][]byte, error) {
	frame := c.Frame()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.RenderSVG(frame, buildSVGOptions(opts)...)
		case FormatJSON:
			data, err = scene.MarshalResult(c.SceneResult())
		case FormatTXT:
			data = []byte(render.NewGrid(frame, opts.Cols, opts.Rows).String())
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions constructs SVG rendering options.
func buildSVGOptions(opts Options) []render.SVGOption {
	var out []render.SVGOption
	if t, ok := ValidThemes[opts.Theme]; ok {
		out = append(out, render.WithTheme(t))
	}
	if opts.Labels {
		out = append(out, render.WithLabels())
	}
	return out
}
