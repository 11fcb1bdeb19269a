package middleware

import (
	"encoding/json"
	"net/http"

	chiMid "github.com/go-chi/chi/v5/middleware"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError answers htmx requests with JSON and browsers with plain text.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	if IsHTMX(r.Context()) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: msg, RequestID: chiMid.GetReqID(r.Context())})
		return
	}
	http.Error(w, msg, code)
}
