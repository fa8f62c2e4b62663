package httputil

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/floatplace/pkg/errors"
)

// ErrorBody is the JSON body written by [WriteError].
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// WriteJSON encodes v as the response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":{"code":"INTERNAL_ERROR","message":"encode response"}}`, http.StatusInternalServerError)
		return
	}
	Write(w, status, "application/json", append(data, '\n'))
}

// Write sends data with the given content type.
func Write(w http.ResponseWriter, status int, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// WriteError writes err as an [ErrorBody]. The status comes from the
// error's code; an expired request context becomes 504 TIMEOUT and other
// uncoded errors become 500 INTERNAL_ERROR.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.GetCode(err) == "" && stderrors.Is(err, context.DeadlineExceeded) {
		err = errors.Wrap(errors.ErrCodeTimeout, err, "request timed out")
	}
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code, msg = errors.ErrCodeInternal, "internal error"
	}
	WriteJSON(w, errors.HTTPStatus(err), ErrorBody{Error: ErrorDetail{
		Code:      code,
		Message:   msg,
		RequestID: RequestIDFrom(r.Context()),
	}})
}
