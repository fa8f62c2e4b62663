package httputil

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/floatplace/pkg/errors"
	"github.com/matzehuels/floatplace/pkg/observability"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

// DefaultMaxBody is the default request body limit (1 MiB).
const DefaultMaxBody = 1 << 20

type ctxKey int

const requestIDKey ctxKey = 0

// RequestID tags each request with an ID. A valid UUID sent by the client
// is kept; anything else is replaced by a fresh one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

// WithRequestID returns a context carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request ID stored in ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Observe reports every request to the registered HTTP hooks. It must run
// after [RequestID].
func Observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		id := RequestIDFrom(r.Context())
		hooks.OnRequest(r.Context(), id, r.Method, r.URL.Path)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), id, r.Method, r.URL.Path, status, time.Since(start))
	})
}

// ReadBody reads the request body. Bodies that are empty or larger than
// limit bytes are rejected with an INVALID_INPUT error. A limit of zero
// means DefaultMaxBody.
func ReadBody(r *http.Request, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxBody
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if int64(len(data)) > limit {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", limit)
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}
	return data, nil
}
