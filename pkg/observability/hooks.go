// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about position computations, pipeline stages, cache
// operations and HTTP requests served by the API.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the engine packages stay
// free of any metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPositionHooks(&myPositionHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Position().OnComputeStart(ctx, "bottom", len(middleware))
//	// ... run the middleware pipeline ...
//	observability.Position().OnComputeComplete(ctx, "top", resets, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Position Hooks
// =============================================================================

// PositionHooks receives events from the positioning engine.
type PositionHooks interface {
	// OnComputeStart is called once per computation with the requested
	// placement and the number of middleware in the pipeline.
	OnComputeStart(ctx context.Context, placement string, middlewareCount int)

	// OnMiddleware is called after each middleware invocation.
	OnMiddleware(ctx context.Context, name string, duration time.Duration)

	// OnReset is called for every reset request. Honoured is false when the
	// reset ceiling was reached and the request was ignored.
	OnReset(ctx context.Context, name string, resetCount int, honoured bool)

	// OnComputeComplete is called with the final placement.
	OnComputeComplete(ctx context.Context, placement string, resets int, duration time.Duration)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the load/compute/render pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, elementCount int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, requestID, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, requestID, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPositionHooks is a no-op implementation of PositionHooks.
type NoopPositionHooks struct{}

func (NoopPositionHooks) OnComputeStart(context.Context, string, int)                    {}
func (NoopPositionHooks) OnMiddleware(context.Context, string, time.Duration)            {}
func (NoopPositionHooks) OnReset(context.Context, string, int, bool)                     {}
func (NoopPositionHooks) OnComputeComplete(context.Context, string, int, time.Duration) {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	positionHooks PositionHooks = NoopPositionHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPositionHooks registers custom positioning hooks.
// This should be called once at application startup before any computation.
func SetPositionHooks(h PositionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		positionHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Position returns the registered positioning hooks.
func Position() PositionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return positionHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	positionHooks = NoopPositionHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
