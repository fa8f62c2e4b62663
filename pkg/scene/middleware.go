package scene

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/middleware"
	"github.com/matzehuels/floatplace/pkg/platform"
	"github.com/matzehuels/floatplace/pkg/position"
)

// MiddlewareSpec is one entry of a scene's middleware list.
type MiddlewareSpec interface {
	// Kind is the value of the entry's type key.
	Kind() string
	validate(s *Scene) error
	build(p *platform.Static, logger *log.Logger) position.Middleware
}

// decodeMiddleware reads the type key of entry i and decodes the entry
// into the matching spec.
func decodeMiddleware(i int, decode func(v any) error) (MiddlewareSpec, error) {
	var head struct {
		Type string `toml:"type" json:"type"`
	}
	// the head decode is lenient; the typed decode below rejects unknown
	// keys
	if err := decode(&head); err != nil && head.Type == "" {
		return nil, errors.Wrap(errors.ErrCodeInvalidMiddleware, err, "middleware[%d]", i)
	}

	var spec MiddlewareSpec
	switch head.Type {
	case middleware.OffsetName:
		spec = &OffsetSpec{}
	case middleware.ShiftName:
		spec = &ShiftSpec{}
	case middleware.FlipName:
		spec = &FlipSpec{}
	case middleware.AutoPlacementName:
		spec = &AutoPlacementSpec{}
	case middleware.SizeName:
		spec = &SizeSpec{}
	case middleware.ArrowName:
		spec = &ArrowSpec{}
	case middleware.HideName:
		spec = &HideSpec{}
	case middleware.InlineName:
		spec = &InlineSpec{}
	case "":
		return nil, errors.New(errors.ErrCodeInvalidMiddleware, "middleware[%d]: missing type", i)
	default:
		return nil, errors.New(errors.ErrCodeInvalidMiddleware,
			"middleware[%d]: unknown type %q (valid: offset, shift, flip, autoPlacement, size, arrow, hide, inline)", i, head.Type)
	}
	if err := decode(spec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMiddleware, err, "middleware[%d] (%s)", i, head.Type)
	}
	return spec, nil
}

// OverflowSpec holds the overflow detection keys shared by several
// middleware.
type OverflowSpec struct {
	// Boundary lists element IDs to clip against instead of the clipping
	// ancestors.
	Boundary []string `toml:"boundary" json:"boundary,omitempty"`
	// RootBoundary is "viewport" (default) or "document".
	RootBoundary   string  `toml:"root_boundary" json:"rootBoundary,omitempty"`
	ElementContext string  `toml:"element_context" json:"elementContext,omitempty"`
	AltBoundary    bool    `toml:"alt_boundary" json:"altBoundary,omitempty"`
	Padding        float64 `toml:"padding" json:"padding,omitempty"`
}

func (o OverflowSpec) validate(s *Scene) error {
	for _, id := range o.Boundary {
		if !s.HasElement(id) {
			return errors.New(errors.ErrCodeElementNotFound, "unknown boundary element %q", id)
		}
	}
	switch o.RootBoundary {
	case "", "viewport", "document":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown root_boundary %q (valid: viewport, document)", o.RootBoundary)
	}
	switch position.ElementContext(o.ElementContext) {
	case "", position.FloatingContext, position.ReferenceContext:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown element_context %q (valid: floating, reference)", o.ElementContext)
	}
	return errors.ValidateFinite("padding", o.Padding)
}

func (o OverflowSpec) options() position.DetectOverflowOptions {
	opts := position.DetectOverflowOptions{
		RootBoundary:   position.RootBoundary{Document: o.RootBoundary == "document"},
		ElementContext: position.ElementContext(o.ElementContext),
		AltBoundary:    o.AltBoundary,
		Padding:        geom.UniformPadding(o.Padding),
	}
	for _, id := range o.Boundary {
		opts.Boundary.Elements = append(opts.Boundary.Elements, id)
	}
	return opts
}

func validatePlacements(key string, ps []geom.Placement) error {
	for _, p := range ps {
		if !p.Valid() {
			return errors.New(errors.ErrCodeInvalidPlacement, "%s: invalid placement %q", key, p)
		}
	}
	return nil
}

// OffsetSpec configures offset.
type OffsetSpec struct {
	Type          string   `toml:"type" json:"type"`
	MainAxis      float64  `toml:"main_axis" json:"mainAxis,omitempty"`
	CrossAxis     float64  `toml:"cross_axis" json:"crossAxis,omitempty"`
	AlignmentAxis *float64 `toml:"alignment_axis" json:"alignmentAxis,omitempty"`
}

func (*OffsetSpec) Kind() string { return middleware.OffsetName }

func (o *OffsetSpec) validate(*Scene) error {
	if err := errors.ValidateFinite("main_axis", o.MainAxis); err != nil {
		return err
	}
	return errors.ValidateFinite("cross_axis", o.CrossAxis)
}

func (o *OffsetSpec) build(*platform.Static, *log.Logger) position.Middleware {
	return middleware.Offset(middleware.OffsetOptions{
		MainAxis:      o.MainAxis,
		CrossAxis:     o.CrossAxis,
		AlignmentAxis: o.AlignmentAxis,
	})
}

// LimitSpec configures the limiter of shift.
type LimitSpec struct {
	Offset      float64 `toml:"offset" json:"offset,omitempty"`
	CrossOffset float64 `toml:"cross_offset" json:"crossOffset,omitempty"`
	MainAxis    *bool   `toml:"main_axis" json:"mainAxis,omitempty"`
	CrossAxis   *bool   `toml:"cross_axis" json:"crossAxis,omitempty"`
}

// ShiftSpec configures shift.
type ShiftSpec struct {
	Type string `toml:"type" json:"type"`
	OverflowSpec
	MainAxis  *bool      `toml:"main_axis" json:"mainAxis,omitempty"`
	CrossAxis *bool      `toml:"cross_axis" json:"crossAxis,omitempty"`
	Limit     *LimitSpec `toml:"limit" json:"limit,omitempty"`
}

func (*ShiftSpec) Kind() string { return middleware.ShiftName }

func (o *ShiftSpec) validate(s *Scene) error { return o.OverflowSpec.validate(s) }

func (o *ShiftSpec) build(*platform.Static, *log.Logger) position.Middleware {
	opts := middleware.ShiftOptions{
		DetectOverflowOptions: o.options(),
		MainAxis:              o.MainAxis,
		CrossAxis:             o.CrossAxis,
	}
	if o.Limit != nil {
		opts.Limiter = middleware.LimitShift(middleware.LimitShiftOptions{
			Offset:    position.Static(middleware.LimitOffset{MainAxis: o.Limit.Offset, CrossAxis: o.Limit.CrossOffset}),
			MainAxis:  o.Limit.MainAxis,
			CrossAxis: o.Limit.CrossAxis,
		})
	}
	return middleware.Shift(opts)
}

// FlipSpec configures flip.
type FlipSpec struct {
	Type string `toml:"type" json:"type"`
	OverflowSpec
	MainAxis                  *bool            `toml:"main_axis" json:"mainAxis,omitempty"`
	CrossAxis                 *bool            `toml:"cross_axis" json:"crossAxis,omitempty"`
	FallbackPlacements        []geom.Placement `toml:"fallback_placements" json:"fallbackPlacements,omitempty"`
	FallbackStrategy          string           `toml:"fallback_strategy" json:"fallbackStrategy,omitempty"`
	FallbackAxisSideDirection string           `toml:"fallback_axis_side_direction" json:"fallbackAxisSideDirection,omitempty"`
	FlipAlignment             *bool            `toml:"flip_alignment" json:"flipAlignment,omitempty"`
}

func (*FlipSpec) Kind() string { return middleware.FlipName }

func (o *FlipSpec) validate(s *Scene) error {
	switch middleware.FallbackStrategy(o.FallbackStrategy) {
	case "", middleware.BestFit, middleware.InitialPlacement:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"unknown fallback_strategy %q (valid: bestFit, initialPlacement)", o.FallbackStrategy)
	}
	if _, err := geom.ParseAlignment(o.FallbackAxisSideDirection); err != nil {
		return err
	}
	if err := validatePlacements("fallback_placements", o.FallbackPlacements); err != nil {
		return err
	}
	return o.OverflowSpec.validate(s)
}

func (o *FlipSpec) build(*platform.Static, *log.Logger) position.Middleware {
	dir, _ := geom.ParseAlignment(o.FallbackAxisSideDirection)
	return middleware.Flip(middleware.FlipOptions{
		DetectOverflowOptions:     o.options(),
		MainAxis:                  o.MainAxis,
		CrossAxis:                 o.CrossAxis,
		FallbackPlacements:        o.FallbackPlacements,
		FallbackStrategy:          middleware.FallbackStrategy(o.FallbackStrategy),
		FallbackAxisSideDirection: dir,
		FlipAlignment:             o.FlipAlignment,
	})
}

// AutoPlacementSpec configures autoPlacement.
type AutoPlacementSpec struct {
	Type string `toml:"type" json:"type"`
	OverflowSpec
	CrossAxis         bool             `toml:"cross_axis" json:"crossAxis,omitempty"`
	Alignment         string           `toml:"alignment" json:"alignment,omitempty"`
	AutoAlignment     *bool            `toml:"auto_alignment" json:"autoAlignment,omitempty"`
	AllowedPlacements []geom.Placement `toml:"allowed_placements" json:"allowedPlacements,omitempty"`
}

func (*AutoPlacementSpec) Kind() string { return middleware.AutoPlacementName }

func (o *AutoPlacementSpec) validate(s *Scene) error {
	if _, err := geom.ParseAlignment(o.Alignment); err != nil {
		return err
	}
	if err := validatePlacements("allowed_placements", o.AllowedPlacements); err != nil {
		return err
	}
	return o.OverflowSpec.validate(s)
}

func (o *AutoPlacementSpec) build(*platform.Static, *log.Logger) position.Middleware {
	align, _ := geom.ParseAlignment(o.Alignment)
	return middleware.AutoPlacement(middleware.AutoPlacementOptions{
		DetectOverflowOptions: o.options(),
		CrossAxis:             o.CrossAxis,
		Alignment:             align,
		AutoAlignment:         o.AutoAlignment,
		AllowedPlacements:     o.AllowedPlacements,
	})
}

// SizeSpec configures size. With Apply set the floating element is shrunk
// to the available space, which makes the engine remeasure it.
type SizeSpec struct {
	Type string `toml:"type" json:"type"`
	OverflowSpec
	Apply bool `toml:"apply" json:"apply,omitempty"`
}

func (*SizeSpec) Kind() string { return middleware.SizeName }

func (o *SizeSpec) validate(s *Scene) error { return o.OverflowSpec.validate(s) }

// build shrinks the floating element to the available space when Apply is
// set. A platform without the floating element is left untouched.
func (o *SizeSpec) build(p *platform.Static, logger *log.Logger) position.Middleware {
	opts := middleware.SizeOptions{DetectOverflowOptions: o.options()}
	if o.Apply {
		opts.Apply = func(state position.State, available geom.Dimensions) {
			cur := p.GetDimensions(state.Elements.Floating)
			err := p.Resize(FloatingID, geom.Dimensions{
				Width:  max(0, min(cur.Width, available.Width)),
				Height: max(0, min(cur.Height, available.Height)),
			})
			if err != nil {
				logger.Warn("size not applied", "error", err)
			}
		}
	}
	return middleware.Size(opts)
}

// ArrowSpec configures arrow. The scene must declare an [arrow] table.
type ArrowSpec struct {
	Type    string  `toml:"type" json:"type"`
	Padding float64 `toml:"padding" json:"padding,omitempty"`
}

func (*ArrowSpec) Kind() string { return middleware.ArrowName }

func (o *ArrowSpec) validate(s *Scene) error {
	if s.Arrow == nil {
		return errors.New(errors.ErrCodeInvalidScene, "arrow middleware needs an [arrow] table")
	}
	return errors.ValidateFinite("padding", o.Padding)
}

func (o *ArrowSpec) build(*platform.Static, *log.Logger) position.Middleware {
	return middleware.Arrow(middleware.ArrowOptions{
		Element: ArrowID,
		Padding: geom.UniformPadding(o.Padding),
	})
}

// HideSpec configures hide.
type HideSpec struct {
	Type string `toml:"type" json:"type"`
	OverflowSpec
	Strategy string `toml:"strategy" json:"strategy,omitempty"`
}

func (*HideSpec) Kind() string { return middleware.HideName }

func (o *HideSpec) validate(s *Scene) error {
	switch middleware.HideStrategy(o.Strategy) {
	case "", middleware.ReferenceHidden, middleware.Escaped:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown strategy %q (valid: referenceHidden, escaped)", o.Strategy)
	}
	return o.OverflowSpec.validate(s)
}

func (o *HideSpec) build(*platform.Static, *log.Logger) position.Middleware {
	return middleware.Hide(middleware.HideOptions{
		DetectOverflowOptions: o.options(),
		Strategy:              middleware.HideStrategy(o.Strategy),
	})
}

// InlineSpec configures inline.
type InlineSpec struct {
	Type    string   `toml:"type" json:"type"`
	X       *float64 `toml:"x" json:"x,omitempty"`
	Y       *float64 `toml:"y" json:"y,omitempty"`
	Padding *float64 `toml:"padding" json:"padding,omitempty"`
}

func (*InlineSpec) Kind() string { return middleware.InlineName }

func (o *InlineSpec) validate(*Scene) error {
	if (o.X == nil) != (o.Y == nil) {
		return errors.New(errors.ErrCodeInvalidInput, "x and y must be set together")
	}
	return nil
}

func (o *InlineSpec) build(*platform.Static, *log.Logger) position.Middleware {
	opts := middleware.InlineOptions{X: o.X, Y: o.Y}
	if o.Padding != nil {
		pad := geom.UniformPadding(*o.Padding)
		opts.Padding = &pad
	}
	return middleware.Inline(opts)
}
