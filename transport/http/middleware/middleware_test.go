package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"todolist/config"
	"todolist/infras/otel/mocks"
	"todolist/internal/domains/auth/model/dto"
	authMocks "todolist/internal/domains/auth/service/mocks"
	"todolist/shared/failure"
	"todolist/transport/http/middleware"
)

func TestAuth(t *testing.T) {
	expiresAt := time.Now().Add(30 * time.Minute)

	tests := []struct {
		name       string
		header     string
		setupMock  func(svc *authMocks.MockAuth)
		wantStatus int
	}{
		{
			name:       "missing header",
			setupMock:  func(_ *authMocks.MockAuth) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic YWxpY2U6cHcxMjM=",
			setupMock:  func(_ *authMocks.MockAuth) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "rejected token",
			header: "Bearer expired",
			setupMock: func(svc *authMocks.MockAuth) {
				svc.EXPECT().ResolveCurrentUser(gomock.Any(), "expired").Return(dto.Principal{}, failure.Unauthorized("token has expired"))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "valid token",
			header: "Bearer good",
			setupMock: func(svc *authMocks.MockAuth) {
				svc.EXPECT().ResolveCurrentUser(gomock.Any(), "good").Return(dto.Principal{
					UserID:    7,
					Email:     "alice@example.com",
					Role:      "user",
					TokenID:   "jti-7",
					ExpiresAt: expiresAt,
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := authMocks.NewMockAuth(ctrl)
			tt.setupMock(svc)

			auth := middleware.NewAuthMiddleware(svc, mocks.NewOtel())

			handler := auth.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := middleware.UserID(r.Context())
				require.True(t, ok)
				assert.Equal(t, int64(7), id)

				tokenID, exp, ok := middleware.TokenID(r.Context())
				require.True(t, ok)
				assert.Equal(t, "jti-7", tokenID)
				assert.Equal(t, expiresAt, exp)

				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/v1/todos", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestUserID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := middleware.UserID(req.Context())
	assert.False(t, ok)

	_, _, ok = middleware.TokenID(req.Context())
	assert.False(t, ok)
}

func TestAppMiddleware(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "todolist"

	app := middleware.NewAppMiddleware(mocks.NewOtel(), cfg)

	router := chi.NewRouter()
	router.Use(app.Logger, app.Tracing)
	router.Get("/todos/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/todos/1", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
