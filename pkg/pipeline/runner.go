package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floatplace/pkg/cache"
	"github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/observability"
	"github.com/matzehuels/floatplace/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → compute → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	sc, hash, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.SceneHash = hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ElementCount = len(sc.Elements)
	result.Stats.MiddlewareCount = len(sc.Stack)

	r.Logger.Info("loaded scene",
		"name", sc.Name,
		"elements", len(sc.Elements),
		"middleware", len(sc.Stack),
		"duration", result.Stats.LoadTime)

	// Stage 2: Compute
	computeStart := time.Now()
	c, err := r.Compute(ctx, sc, opts)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}
	result.Computation = c
	result.Stats.ComputeTime = time.Since(computeStart)
	result.Stats.Resets = c.Result.Resets

	r.Logger.Info("computed position",
		"placement", c.Result.Placement,
		"x", c.Result.X,
		"y", c.Result.Y,
		"resets", c.Result.Resets,
		"duration", result.Stats.ComputeTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, c, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and validates the scene named by opts. It returns the scene
// together with the content hash of its source, which keys every cache
// entry derived from it.
func (r *Runner) Load(ctx context.Context, opts Options) (*scene.Scene, string, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, "", err
	}

	source := opts.ScenePath
	if len(opts.SceneData) > 0 {
		source = "<data>"
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	sc, hash, err := loadScene(opts)
	count := 0
	if sc != nil {
		count = len(sc.Elements)
	}
	hooks.OnLoadComplete(ctx, source, count, time.Since(start), err)
	if err != nil {
		return nil, "", err
	}
	return sc, hash, nil
}

func loadScene(opts Options) (*scene.Scene, string, error) {
	data := opts.SceneData
	if len(data) == 0 {
		var err error
		data, err = os.ReadFile(opts.ScenePath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", opts.ScenePath)
			}
			return nil, "", fmt.Errorf("read %s: %w", opts.ScenePath, err)
		}
	}
	sc, err := parseScene(data, opts.SceneFormat)
	if err != nil {
		return nil, "", err
	}
	return sc, cache.Hash(data), nil
}

// Compute positions the scene's floating element. A placement set in opts
// replaces the scene's own.
func (r *Runner) Compute(ctx context.Context, sc *scene.Scene, opts Options) (Computation, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompute(); err != nil {
		return Computation{}, err
	}

	if opts.Placement != "" {
		sc = sc.WithPlacement(opts.Placement)
	}
	res, p, err := sc.Compute(ctx, opts.Logger)
	if err != nil {
		return Computation{}, err
	}
	return Computation{Scene: sc, Platform: p, Result: res}, nil
}

// Position loads the scene and returns its result as JSON. Results are
// cached by scene hash and placement; Refresh skips the lookup but still
// stores the fresh result.
func (r *Runner) Position(ctx context.Context, opts Options) ([]byte, bool, error) {
	sc, hash, err := r.Load(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	if err := opts.ValidateForCompute(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.ResultKey(hash, opts.ResultKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "result")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	c, err := r.Compute(ctx, sc, opts)
	if err != nil {
		return nil, false, err
	}
	data, err := scene.MarshalResult(c.SceneResult())
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, "result", cacheKey, data, cache.TTLResult)
	return data, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// sceneHash is the hash returned by [Runner.Load].
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c Computation, sceneHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	// Try to get all formats from cache
	if !opts.Refresh && sceneHash != "" {
		allCached := true
		artifacts := make(map[string][]byte)

		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}

		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
			return artifacts, true, nil // All artifacts from cache
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Render all formats
	rendered, err := Render(c, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	if sceneHash != "" {
		for format, data := range rendered {
			cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			r.store(ctx, "artifact", cacheKey, data, cache.TTLArtifact)
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, c Computation, sceneHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, c, sceneHash, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
