package web

import (
	"encoding/json"
	"net/http"

	"expense-desk/internal/core"
)

type errorResponse struct {
	Error     string        `json:"error"`
	Code      string        `json:"code"`
	RequestID string        `json:"request_id,omitempty"`
	Errors    core.ErrorSet `json:"errors,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeValidationError writes HTTP 422 carrying the per-field error set so
// clients can surface every failing path at once.
func writeValidationError(w http.ResponseWriter, r *http.Request, errs core.ErrorSet) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	resp := errorResponse{
		Error:     "draft is not ready to submit",
		Code:      "VALIDATION_FAILED",
		RequestID: requestIDFromContext(r.Context()),
		Errors:    errs,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
