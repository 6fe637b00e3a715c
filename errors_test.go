package userhub

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiHandlerTranslatesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{"validation", NewValidationError("bad input"), http.StatusBadRequest, "bad input"},
		{"conflict", NewConflictError("email already in use"), http.StatusConflict, "email already in use"},
		{"auth", NewAuthError("Not authorized"), http.StatusUnauthorized, "Not authorized"},
		{"not found", NewNotFoundError("User not found"), http.StatusNotFound, "User not found"},
		{"untyped errors become 500", errors.New("database exploded"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := apiHandler(func(w http.ResponseWriter, r *http.Request) error {
				return tt.err
			})

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp struct {
				Message string `json:"message"`
			}
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.expectedMessage, resp.Message)
		})
	}
}

func TestApiHandlerPassesThroughSuccess(t *testing.T) {
	t.Parallel()

	handler := apiHandler(func(w http.ResponseWriter, r *http.Request) error {
		return writeJSON(w, http.StatusTeapot, map[string]string{"ok": "yes"})
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	t.Parallel()

	handler := apiHandler(func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("dsn=postgres://secret@host")
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotContains(t, rr.Body.String(), "secret")
}
