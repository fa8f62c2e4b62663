package scene

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/platform"
	"github.com/matzehuels/floatplace/pkg/position"
)

// Reserved element IDs.
const (
	FloatingID = "floating"
	ArrowID    = "arrow"
)

// Size is a width and height.
type Size struct {
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
}

// Element is a node of the scene's element tree, in viewport coordinates.
type Element struct {
	ID     string  `toml:"id" json:"id"`
	Parent string  `toml:"parent" json:"parent,omitempty"`
	X      float64 `toml:"x" json:"x"`
	Y      float64 `toml:"y" json:"y"`
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
	// Clip hides the overflow of the element's descendants.
	Clip bool `toml:"clip" json:"clip,omitempty"`
	// Dir is "ltr", "rtl" or empty to inherit.
	Dir    string  `toml:"dir" json:"dir,omitempty"`
	ScaleX float64 `toml:"scale_x" json:"scaleX,omitempty"`
	ScaleY float64 `toml:"scale_y" json:"scaleY,omitempty"`
	// Lines are the line fragments of an inline element.
	Lines []geom.Rect `toml:"lines" json:"lines,omitempty"`
}

// Rect returns the element's rect.
func (e Element) Rect() geom.Rect {
	return geom.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// Floating is the element being positioned.
type Floating struct {
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
	// Parent is the element the floating element is positioned relative
	// to. Empty means the viewport origin.
	Parent string `toml:"parent" json:"parent,omitempty"`
}

// Virtual is a reference without an element, such as a caret or a
// pointer position.
type Virtual struct {
	X      float64 `toml:"x" json:"x"`
	Y      float64 `toml:"y" json:"y"`
	Width  float64 `toml:"width" json:"width"`
	Height float64 `toml:"height" json:"height"`
	// Context is the element whose clipping ancestors apply.
	Context string `toml:"context" json:"context,omitempty"`
}

// Rect returns the virtual reference's rect.
func (v Virtual) Rect() geom.Rect {
	return geom.Rect{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
}

// Scene is a parsed scene file.
type Scene struct {
	Name      string         `toml:"name" json:"name,omitempty"`
	Placement geom.Placement `toml:"placement" json:"placement,omitempty"`
	Strategy  string         `toml:"strategy" json:"strategy,omitempty"`
	RTL       bool           `toml:"rtl" json:"rtl,omitempty"`
	// Reference is the ID of the reference element. Ignored when Virtual
	// is set.
	Reference string    `toml:"reference" json:"reference,omitempty"`
	Virtual   *Virtual  `toml:"virtual" json:"virtual,omitempty"`
	Viewport  Size      `toml:"viewport" json:"viewport"`
	Document  *Size     `toml:"document" json:"document,omitempty"`
	Elements  []Element `toml:"element" json:"elements"`
	Floating  Floating  `toml:"floating" json:"floating"`
	Arrow     *Size     `toml:"arrow" json:"arrow,omitempty"`

	// Stack is the middleware list, in order.
	Stack []MiddlewareSpec `toml:"-" json:"-"`
}

type tomlScene struct {
	Scene
	Middleware []toml.Primitive `toml:"middleware"`
}

type jsonScene struct {
	Scene
	Middleware []json.RawMessage `json:"middleware"`
}

// Load reads and parses a TOML scene file. Files ending in .json are
// parsed as JSON.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return ParseJSON(data)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML scene.
func Parse(data []byte) (*Scene, error) {
	var raw tomlScene
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}

	sc := raw.Scene
	for i, prim := range raw.Middleware {
		spec, err := decodeMiddleware(i, func(v any) error { return md.PrimitiveDecode(prim, v) })
		if err != nil {
			return nil, err
		}
		sc.Stack = append(sc.Stack, spec)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidScene, "unknown keys: %s", strings.Join(keys, ", "))
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// ParseJSON decodes and validates a JSON scene. Field names are the
// camelCase forms of the TOML keys and the element list is "elements".
func ParseJSON(data []byte) (*Scene, error) {
	var raw jsonScene
	if err := strictJSON(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode scene")
	}

	sc := raw.Scene
	for i, msg := range raw.Middleware {
		spec, err := decodeMiddleware(i, func(v any) error { return strictJSON(msg, v) })
		if err != nil {
			return nil, err
		}
		sc.Stack = append(sc.Stack, spec)
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func strictJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Validate checks the scene for unknown references and invalid values.
func (s *Scene) Validate() error {
	if err := errors.ValidateSize("viewport", s.Viewport.Width, s.Viewport.Height); err != nil {
		return err
	}
	if s.Viewport.Width == 0 || s.Viewport.Height == 0 {
		return errors.New(errors.ErrCodeInvalidScene, "viewport must have a width and a height")
	}
	if _, err := geom.ParseStrategy(s.Strategy); err != nil {
		return err
	}
	if err := errors.ValidateSize("floating", s.Floating.Width, s.Floating.Height); err != nil {
		return err
	}
	if s.Floating.Parent != "" && !s.HasElement(s.Floating.Parent) {
		return errors.New(errors.ErrCodeElementNotFound, "floating: unknown parent %q", s.Floating.Parent)
	}
	if s.Arrow != nil {
		if err := errors.ValidateSize("arrow", s.Arrow.Width, s.Arrow.Height); err != nil {
			return err
		}
	}

	for _, e := range s.Elements {
		if e.ID == FloatingID || e.ID == ArrowID {
			return errors.New(errors.ErrCodeInvalidScene, "element id %q is reserved", e.ID)
		}
		if _, err := platform.ParseDirection(e.Dir); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "element %s", e.ID)
		}
		for _, v := range []float64{e.X, e.Y, e.ScaleX, e.ScaleY} {
			if err := errors.ValidateFinite(e.ID, v); err != nil {
				return err
			}
		}
	}

	switch {
	case s.Virtual != nil:
		if err := errors.ValidateSize("virtual", s.Virtual.Width, s.Virtual.Height); err != nil {
			return err
		}
		if s.Virtual.Context != "" && !s.HasElement(s.Virtual.Context) {
			return errors.New(errors.ErrCodeElementNotFound, "virtual: unknown context %q", s.Virtual.Context)
		}
	case s.Reference == "":
		return errors.New(errors.ErrCodeInvalidScene, "scene needs a reference element or a [virtual] reference")
	case !s.HasElement(s.Reference):
		return errors.New(errors.ErrCodeElementNotFound, "unknown reference %q", s.Reference)
	}

	for i, m := range s.Stack {
		if err := m.validate(s); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidMiddleware, err, "middleware[%d] (%s)", i, m.Kind())
		}
	}

	// building the platform checks ids, parents and sizes
	_, err := s.Platform()
	return err
}

// HasElement reports whether the scene declares an element with the id.
func (s *Scene) HasElement(id string) bool {
	return slices.ContainsFunc(s.Elements, func(e Element) bool { return e.ID == id })
}

// Platform builds a fresh platform holding the scene's elements, the
// floating element and the arrow.
func (s *Scene) Platform() (*platform.Static, error) {
	p := platform.New(geom.Rect{Width: s.Viewport.Width, Height: s.Viewport.Height})
	if s.Document != nil {
		p.Document = geom.Rect{Width: s.Document.Width, Height: s.Document.Height}
	}
	if s.RTL {
		p.Dir = platform.RTL
	}

	for _, e := range s.Elements {
		err := p.Add(platform.Node{
			ID:          e.ID,
			Parent:      e.Parent,
			Rect:        e.Rect(),
			ClientRects: e.Lines,
			Clip:        e.Clip,
			Dir:         platform.Direction(e.Dir),
			Scale:       geom.Coords{X: e.ScaleX, Y: e.ScaleY},
		})
		if err != nil {
			return nil, err
		}
	}

	err := p.Add(platform.Node{
		ID:     FloatingID,
		Parent: s.Floating.Parent,
		Rect:   geom.Rect{Width: s.Floating.Width, Height: s.Floating.Height},
	})
	if err != nil {
		return nil, err
	}
	if s.Arrow != nil {
		err := p.Add(platform.Node{
			ID:     ArrowID,
			Parent: FloatingID,
			Rect:   geom.Rect{Width: s.Arrow.Width, Height: s.Arrow.Height},
		})
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ReferenceElement returns the reference handle: the element ID or a
// [position.VirtualRect].
func (s *Scene) ReferenceElement() position.Reference {
	if s.Virtual == nil {
		return s.Reference
	}
	v := position.VirtualRect{Rect: geom.RectToClientRect(s.Virtual.Rect())}
	if s.Virtual.Context != "" {
		v.Context = s.Virtual.Context
	}
	return v
}

// Middleware builds the middleware stack bound to p. logger receives
// warnings from middleware that change p; nil discards them.
func (s *Scene) Middleware(p *platform.Static, logger *log.Logger) []position.Middleware {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	out := make([]position.Middleware, 0, len(s.Stack))
	for _, m := range s.Stack {
		out = append(out, m.build(p, logger))
	}
	return out
}

// Config returns the compute configuration for p.
func (s *Scene) Config(p *platform.Static, logger *log.Logger) position.Config {
	strategy, _ := geom.ParseStrategy(s.Strategy)
	return position.Config{
		Placement:  s.Placement,
		Strategy:   strategy,
		Middleware: s.Middleware(p, logger),
		Platform:   p,
		Logger:     logger,
	}
}

// Compute builds a platform and positions the floating element. The
// platform is returned so callers can read the floating element's final
// size.
func (s *Scene) Compute(ctx context.Context, logger *log.Logger) (position.Result, *platform.Static, error) {
	p, err := s.Platform()
	if err != nil {
		return position.Result{}, nil, err
	}
	return s.ComputeOn(ctx, p, logger), p, nil
}

// ComputeOn positions the floating element on an existing platform.
func (s *Scene) ComputeOn(ctx context.Context, p *platform.Static, logger *log.Logger) position.Result {
	return position.ComputePosition(ctx, s.ReferenceElement(), FloatingID, s.Config(p, logger))
}

// WithPlacement returns a copy of the scene with the placement replaced.
func (s *Scene) WithPlacement(p geom.Placement) *Scene {
	c := *s
	c.Placement = p
	return &c
}
