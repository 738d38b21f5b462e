package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"modelq/internal/llm"
	"modelq/internal/manager"
	"modelq/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case manager.IsResponseParseFailure(err):
		return http.StatusBadGateway
	case manager.IsEngineNotReady(err), manager.IsEngineLoadFailure(err), manager.IsClosed(err):
		return http.StatusServiceUnavailable
	case llm.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeServiceError writes the mapped error for a failed service call.
// Nothing is written when the client has already gone away.
func writeServiceError(w http.ResponseWriter, r *http.Request, lvl LogLevel, start time.Time, op string, err error) {
	if r.Context().Err() != nil {
		return
	}
	status := statusForError(err)
	if status == http.StatusGatewayTimeout {
		IncrementWaitTimeout(op)
	}
	resp := types.ErrorResponse{Error: err.Error(), Code: status}
	if raw, ok := manager.RawOutput(err); ok {
		resp.Raw = raw
	}
	writeJSON(w, status, resp)
	logEnd(r, lvl, op, status, start, err)
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
