package web

// errors.go provides unified error response handling for the web layer.
//
// Technical detail is logged server-side with the request ID; the client
// receives a JSON body with an operator-facing message. Domain and format
// errors map to 400, everything else to 500 with a generic message.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/shekhar1luitel/quizHub/internal/bulkimport"
	"github.com/shekhar1luitel/quizHub/internal/xlsx"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError logs err and writes the appropriate JSON error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classifyError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"request_id", middleware.GetReqID(r.Context()),
	)

	respondMessage(w, status, message)
}

// classifyError maps an error to an HTTP status and a client-safe message.
func classifyError(err error) (int, string) {
	var domainErr *bulkimport.DomainError
	if errors.As(err, &domainErr) {
		return http.StatusBadRequest, domainErr.Message
	}
	var formatErr *xlsx.FormatError
	if errors.As(err, &formatErr) {
		return http.StatusBadRequest, "The file is not a readable .xlsx workbook: " + formatErr.Reason + "."
	}
	return http.StatusInternalServerError, "Internal server error."
}

// respondMessage writes a JSON error body with the given status.
func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON encodes v as JSON. Encoding errors are logged since headers
// are already sent.
func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
