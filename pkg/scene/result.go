package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/platform"
	"github.com/matzehuels/floatplace/pkg/position"
)

// Result is the serialized outcome of a scene computation.
type Result struct {
	Scene string `json:"scene,omitempty"`
	position.Result
	// Rect is the floating element's final rect in viewport coordinates.
	Rect geom.Rect `json:"rect"`
}

// NewResult pairs res with the floating element's viewport rect on p.
func NewResult(s *Scene, p *platform.Static, res position.Result) Result {
	d := p.GetDimensions(FloatingID)
	return Result{
		Scene:  s.Name,
		Result: res,
		Rect:   p.ToViewport(FloatingID, geom.Rect{X: res.X, Y: res.Y, Width: d.Width, Height: d.Height}),
	}
}

// MarshalResult encodes r as indented JSON. Middleware data keeps the
// order in which it was first written.
func MarshalResult(r Result) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteResult writes r to w as indented JSON.
func WriteResult(w io.Writer, r Result) error {
	data, err := MarshalResult(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteResultFile writes r to a JSON file at path.
func WriteResultFile(path string, r Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResult(f, r)
}
