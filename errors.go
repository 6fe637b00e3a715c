package userhub

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ApiError is an HTTP-mapped error. Handlers return one of the four
// kinds below and a single response-translation layer turns it into a
// JSON error response, so no handler carries status-code knowledge of
// its own.
type ApiError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *ApiError) Error() string { return e.Message }

// NewValidationError reports malformed or missing input (400).
func NewValidationError(message string) *ApiError {
	return &ApiError{Status: http.StatusBadRequest, Message: message}
}

// NewConflictError reports a duplicate-email registration (409).
func NewConflictError(message string) *ApiError {
	return &ApiError{Status: http.StatusConflict, Message: message}
}

// NewAuthError reports missing or invalid credentials (401).
func NewAuthError(message string) *ApiError {
	return &ApiError{Status: http.StatusUnauthorized, Message: message}
}

// NewNotFoundError reports an unknown user or token (404).
func NewNotFoundError(message string) *ApiError {
	return &ApiError{Status: http.StatusNotFound, Message: message}
}

// apiHandler is a handler that reports failure by returning an error
// instead of writing a status itself.
type apiHandler func(w http.ResponseWriter, r *http.Request) error

// ServeHTTP forwards handler errors to the centralized responder.
// Anything that is not an *ApiError surfaces as a generic 500; no error
// is ever swallowed.
func (h apiHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h(w, r)
	if err == nil {
		return
	}

	apiErr, ok := err.(*ApiError)
	if !ok {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		apiErr = &ApiError{Status: http.StatusInternalServerError, Message: "internal server error"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(apiErr)
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
