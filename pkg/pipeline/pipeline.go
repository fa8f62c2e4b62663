// Package pipeline provides the load → compute → render pipeline for
// floatplace scenes.
//
// The CLI and the HTTP API both go through a [Runner], so a scene is
// parsed, positioned, rendered and cached the same way regardless of the
// entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and validate a TOML or JSON scene
//  2. Compute: Run the scene's middleware stack on an in-memory platform
//  3. Render: Generate output in various formats (SVG, JSON, text grid)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ScenePath: "popover.toml",
//	    Formats:   []string{"svg", "json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	sc, hash, err := runner.Load(ctx, opts)
//	c, err := runner.Compute(ctx, sc, opts)
//	artifacts, err := runner.Render(ctx, c, hash, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floatplace/pkg/cache"
	"github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/render"
	"github.com/matzehuels/floatplace/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultCols is the default width of the text grid in cells.
	DefaultCols = 64

	// DefaultRows is the default height of the text grid in cells.
	DefaultRows = 24

	// DefaultTheme is the default SVG theme.
	DefaultTheme = ThemeLight

	// MaxCols and MaxRows bound the text grid.
	MaxCols = render.MaxGridSize
	MaxRows = render.MaxGridSize

	// DefaultSweepStep is the default distance between sweep samples.
	DefaultSweepStep = 20.0

	// MinSweepStep is the smallest accepted distance between sweep samples.
	MinSweepStep = 0.5
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatTXT  = "txt"
)

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Scene source formats.
const (
	SceneTOML = "toml"
	SceneJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatTXT:  true,
}

// ValidThemes maps theme names to SVG themes.
var ValidThemes = map[string]render.Theme{
	ThemeLight: render.Light,
	ThemeDark:  render.Dark,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. SceneData takes precedence over ScenePath.
	ScenePath   string `json:"scene_path,omitempty"`
	SceneData   []byte `json:"-"`
	SceneFormat string `json:"scene_format,omitempty"` // toml or json; inferred from ScenePath
	Refresh     bool   `json:"refresh,omitempty"`

	// Compute options
	Placement geom.Placement `json:"placement,omitempty"` // Overrides the scene's placement

	// Render options
	Formats []string `json:"formats,omitempty"`
	Theme   string   `json:"theme,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	Cols    int      `json:"cols,omitempty"`
	Rows    int      `json:"rows,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Computation is the positioned scene.
	Computation Computation

	// SceneHash is the content hash of the scene source.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ElementCount    int
	MiddlewareCount int
	Resets          int
	LoadTime        time.Duration
	ComputeTime     time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, txt)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that a theme is valid.
func ValidateTheme(theme string) error {
	if _, ok := ValidThemes[theme]; !ok {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid theme: %q (must be one of: light, dark)", theme)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForCompute(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that a scene source is set.
func (o *Options) ValidateForLoad() error {
	if len(o.SceneData) == 0 && o.ScenePath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "scene path or data is required")
	}
	if o.SceneFormat == "" {
		o.SceneFormat = SceneTOML
		if len(o.SceneData) == 0 && hasJSONExt(o.ScenePath) {
			o.SceneFormat = SceneJSON
		}
	}
	if o.SceneFormat != SceneTOML && o.SceneFormat != SceneJSON {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid scene format: %q (must be one of: toml, json)", o.SceneFormat)
	}
	o.setLogger()
	return nil
}

// ValidateForCompute checks the placement override.
func (o *Options) ValidateForCompute() error {
	if o.Placement != "" && !o.Placement.Valid() {
		return errors.New(errors.ErrCodeInvalidPlacement, "unknown placement %q", o.Placement)
	}
	o.setLogger()
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Cols <= 0 {
		o.Cols = DefaultCols
	}
	if o.Rows <= 0 {
		o.Rows = DefaultRows
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Cols > MaxCols || o.Rows > MaxRows {
		return errors.New(errors.ErrCodeInvalidInput,
			"grid %dx%d exceeds the maximum of %dx%d", o.Cols, o.Rows, MaxCols, MaxRows)
	}
	return ValidateTheme(o.Theme)
}

// ResultKeyOpts returns cache key options for a computed result.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{Placement: string(o.Placement)}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Placement: string(o.Placement)}
	switch format {
	case FormatSVG:
		k.Theme, k.Labels = o.Theme, o.Labels
	case FormatTXT:
		k.Cols, k.Rows = o.Cols, o.Rows
	}
	return k
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func hasJSONExt(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".json")
}

// parseScene decodes data in the given source format.
func parseScene(data []byte, format string) (*scene.Scene, error) {
	switch format {
	case SceneJSON:
		return scene.ParseJSON(data)
	case SceneTOML, "":
		return scene.Parse(data)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported scene format: %s", format)
	}
}
