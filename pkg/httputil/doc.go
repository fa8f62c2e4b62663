// Package httputil provides HTTP helpers for the floatplace API server.
//
// # Overview
//
// The API handlers share a few small pieces of infrastructure:
//
//   - [RequestID]: Tags every request with an ID and echoes it in the
//     X-Request-ID response header
//   - [Observe]: Reports requests and responses to the observability hooks
//   - [WriteJSON] and [WriteError]: Encode responses and coded errors
//   - [ReadBody]: Read a request body with a size limit
//
// # Errors
//
// [WriteError] maps coded errors from pkg/errors to HTTP status codes and
// writes a JSON body:
//
//	{"error": {"code": "INVALID_SCENE", "message": "...", "request_id": "..."}}
//
// Errors without a code are reported as 500 with a generic message, so
// internal details never reach clients.
package httputil
