package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/movaengine/runner/internal/logging"
)

// errorBody is the error envelope shared by all endpoints.
type errorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("encode response")
	}
}

// writeError writes the error envelope. Messages are already sanitized by
// the components that produced them; nothing here may add filesystem or
// environment detail.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
