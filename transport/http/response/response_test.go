package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"todolist/shared/failure"
	"todolist/transport/http/response"
)

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]any{"id": 1, "completed": false})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"id":1,"completed":false}}`, rec.Body.String())
}

func TestWithJSON_EmptySlice(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusOK, []string{})

	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestWithRaw(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithRaw(rec, http.StatusOK, map[string]string{"access_token": "abc", "token_type": "bearer"})

	assert.JSONEq(t, `{"access_token":"abc","token_type":"bearer"}`, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestWithNoContent(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithNoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		body    string
		wwwAuth string
	}{
		{name: "not found", err: failure.NotFound("todo not found"), code: http.StatusNotFound, body: `{"error":"todo not found"}`},
		{name: "wrapped conflict", err: fmt.Errorf("register: %w", failure.ErrEmailTaken), code: http.StatusConflict, body: `{"error":"email already registered"}`},
		{name: "unauthorized", err: failure.ErrInvalidCredentials, code: http.StatusUnauthorized, body: `{"error":"incorrect email or password"}`, wwwAuth: "Bearer"},
		{name: "internal hides detail", err: errors.New("pq: connection refused"), code: http.StatusInternalServerError, body: `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
			assert.Equal(t, tt.wwwAuth, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestWithPreparingShutdown(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithPreparingShutdown(rec)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"SERVER PREPARING TO SHUT DOWN"}`, rec.Body.String())
}
