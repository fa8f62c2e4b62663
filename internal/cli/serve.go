package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floatplace/pkg/buildinfo"
	"github.com/matzehuels/floatplace/pkg/cache"
	ferrors "github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/geom"
	"github.com/matzehuels/floatplace/pkg/httputil"
	"github.com/matzehuels/floatplace/pkg/pipeline"
)

const (
	// redisKeyPrefix namespaces the API's entries in a shared Redis.
	redisKeyPrefix = "floatplace:"
	requestTimeout = 30 * time.Second
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatTXT:  "text/plain; charset=utf-8",
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the positioning engine over HTTP",
		Long: `Serve the positioning engine over HTTP.

Endpoints:
  POST /v1/position   scene (TOML, or JSON with a JSON content type) → result JSON
  POST /v1/render     scene → artifact (?format=svg|json|txt)
  GET  /v1/placements initial coordinates of every placement
  GET  /healthz       liveness

Results and artifacts are cached on disk, or in Redis when --redis or
` + envRedisURL + ` is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if redisURL == "" {
				redisURL = os.Getenv(envRedisURL)
			}
			return c.runServe(cmd.Context(), addr, redisURL, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for the shared cache (default $"+envRedisURL+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe starts the server and shuts it down when ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, redisURL string, noCache bool) error {
	runner, err := c.newServeRunner(ctx, redisURL, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(runner, c.Logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	c.Logger.Info("serving", "addr", addr, "version", buildinfo.Version)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newServeRunner picks the cache backend for the API.
func (c *CLI) newServeRunner(ctx context.Context, redisURL string, noCache bool) (*pipeline.Runner, error) {
	if noCache || redisURL == "" {
		return c.newRunner(noCache)
	}
	rc, err := cache.NewRedisCache(ctx, redisURL)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	c.Logger.Info("using redis cache")
	return pipeline.NewRunner(rc, cache.NewScopedKeyer(nil, redisKeyPrefix), c.Logger), nil
}

// =============================================================================
// Server
// =============================================================================

// server holds the HTTP API's dependencies.
type server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

func newServer(runner *pipeline.Runner, logger *log.Logger) *server {
	return &server{runner: runner, logger: logger}
}

// routes builds the API router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(httputil.RequestID)
	r.Use(httputil.Observe)
	r.Use(s.requestLogger)
	r.Use(middleware.Timeout(requestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, r, ferrors.New(ferrors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, r, ferrors.New(ferrors.ErrCodeMethodNotAllowed, "%s not allowed on %s", r.Method, r.URL.Path))
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/position", s.handlePosition)
		r.Post("/render", s.handleRender)
		r.Get("/placements", s.handlePlacements)
	})
	return r
}

// requestLogger attaches a logger tagged with the request ID. Completed
// requests are logged by the HTTP hooks.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := s.logger.With("request_id", httputil.RequestIDFrom(r.Context()))
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), l)))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *server) handlePosition(w http.ResponseWriter, r *http.Request) {
	opts, err := sceneOptions(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	data, hit, err := s.runner.Position(r.Context(), opts)
	if err != nil {
		loggerFromContext(r.Context()).Debug("position failed", "error", err)
		httputil.WriteError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	httputil.Write(w, http.StatusOK, contentTypes[pipeline.FormatJSON], data)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := sceneOptions(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}
	opts.Theme = q.Get("theme")
	opts.Labels = q.Get("labels") == "true"
	if opts.Cols, err = intParam(q.Get("cols")); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if opts.Rows, err = intParam(q.Get("rows")); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		loggerFromContext(r.Context()).Debug("render failed", "error", err)
		httputil.WriteError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(result.CacheInfo.RenderHit))
	httputil.Write(w, http.StatusOK, contentTypes[format], result.Artifacts[format])
}

func (s *server) handlePlacements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ref, err := parseSize(queryOr(q.Get("reference"), "100x40"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	fl, err := parseSize(queryOr(q.Get("floating"), "60x30"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	at, err := parsePoint(queryOr(q.Get("at"), "0,0"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	rects := geom.ElementRects{
		Reference: geom.Rect{X: at.X, Y: at.Y, Width: ref.Width, Height: ref.Height},
		Floating:  geom.Rect{Width: fl.Width, Height: fl.Height},
	}
	httputil.WriteJSON(w, http.StatusOK, placementRows(rects, q.Get("rtl") == "true"))
}

// sceneOptions reads the scene body and the query parameters shared by
// the scene endpoints.
func sceneOptions(r *http.Request) (pipeline.Options, error) {
	body, err := httputil.ReadBody(r, 0)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		SceneData:   body,
		SceneFormat: pipeline.SceneTOML,
		Refresh:     r.URL.Query().Get("refresh") == "true",
		Logger:      loggerFromContext(r.Context()),
	}
	if strings.Contains(r.Header.Get("Content-Type"), "json") {
		opts.SceneFormat = pipeline.SceneJSON
	}
	if p := r.URL.Query().Get("placement"); p != "" {
		if opts.Placement, err = geom.ParsePlacement(p); err != nil {
			return pipeline.Options{}, err
		}
	}
	return opts, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, ferrors.New(ferrors.ErrCodeInvalidInput, "invalid integer %q", s)
	}
	return n, nil
}

func queryOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
