package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/logging"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// errBadParam marks a malformed query parameter.
var errBadParam = errors.New("invalid parameter")

// errorCode maps an error onto a stable machine-readable code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, grid.ErrUnknownColumn):
		return "UNKNOWN_COLUMN"
	case errors.Is(err, errBadParam):
		return "INVALID_PARAMETER"
	default:
		return "INTERNAL"
	}
}

// respondError logs err and writes it as JSON.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	reqID := middleware.GetReqID(r.Context())
	logging.FromContext(r.Context()).Warn("request error",
		"path", r.URL.Path,
		"status", status,
		"error", err.Error(),
	)
	writeJSON(w, r, status, ErrorResponse{Error: err.Error(), Code: errorCode(err), RequestID: reqID})
}

// writeJSON encodes v before committing the status, so a value JSON
// cannot represent turns into a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		reqID := middleware.GetReqID(r.Context())
		logging.FromContext(r.Context()).Error("encode response",
			"path", r.URL.Path,
			"error", err.Error(),
		)
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(ErrorResponse{
			Error:     "cannot encode response",
			Code:      "INTERNAL",
			RequestID: reqID,
		})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
