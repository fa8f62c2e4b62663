package cli

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floatplace/pkg/observability"
)

// logHooks reports engine, pipeline, cache and HTTP events as logs.
type logHooks struct {
	observability.NoopPositionHooks
	observability.NoopCacheHooks
	logger *log.Logger
}

// RegisterHooks routes observability events to the CLI logger.
func (c *CLI) RegisterHooks() {
	h := &logHooks{logger: c.Logger}
	observability.SetPositionHooks(h)
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// ===== Position =====

func (h *logHooks) OnComputeStart(_ context.Context, placement string, middleware int) {
	h.logger.Debug("computing", "placement", placement, "middleware", middleware)
}

func (h *logHooks) OnReset(_ context.Context, name string, resets int, honoured bool) {
	if !honoured {
		h.logger.Warn("reset ignored, limit reached", "middleware", name, "resets", resets)
		return
	}
	h.logger.Debug("reset", "middleware", name, "resets", resets)
}

func (h *logHooks) OnComputeComplete(_ context.Context, placement string, resets int, d time.Duration) {
	h.logger.Debug("computed", "placement", placement, "resets", resets, "duration", d)
}

// ===== Pipeline =====

func (h *logHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("loading scene", "source", source)
}

func (h *logHooks) OnLoadComplete(_ context.Context, source string, elements int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", source, "error", err)
		return
	}
	h.logger.Debug("loaded scene", "source", source, "elements", elements, "duration", d)
}

func (h *logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("rendering", "formats", strings.Join(formats, ","))
}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", strings.Join(formats, ","), "error", err)
		return
	}
	h.logger.Debug("rendered", "formats", strings.Join(formats, ","), "duration", d)
}

// ===== Cache =====

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

// ===== HTTP =====

func (h *logHooks) OnRequest(context.Context, string, string, string) {}

func (h *logHooks) OnResponse(_ context.Context, requestID, method, path string, status int, d time.Duration) {
	l := h.logger.With("request_id", requestID, "method", method, "path", path, "status", status, "duration", d)
	if status >= 500 {
		l.Warn("request failed")
		return
	}
	l.Debug("request")
}
