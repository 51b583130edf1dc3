// Package http exposes the engine's surfaces: the admin RPC endpoints,
// the public tracking endpoints and the provider webhook ingress.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// MissingParameterError is an error type for missing URL parameters
type MissingParameterError struct {
	Param string
}

// Error returns the error message
func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("Missing parameter: %s", e.Param)
}

// WriteJSONError writes a JSON error response with the given message and status code.
// It sets the Content-Type header to application/json and automatically formats
// the response as {"error": "message"}.
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes a JSON response with the given status code and data.
// It sets the Content-Type header to application/json.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// parseIntParam parses a string to an integer
func parseIntParam(s string) (int, error) {
	var result int
	_, err := fmt.Sscanf(s, "%d", &result)
	if err != nil {
		return 0, err
	}
	return result, nil
}
