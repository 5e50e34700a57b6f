package auth_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	otelMocks "todolist/infras/otel/mocks"
	"todolist/internal/domains/auth/model/dto"
	"todolist/internal/domains/auth/service/mocks"
	"todolist/internal/handlers/auth"
	"todolist/shared/failure"
	authMocks "todolist/transport/http/middleware/mocks"
)

var tokenResponse = dto.TokenResponse{
	AccessToken:  "access",
	TokenType:    "bearer",
	ExpiresIn:    1800,
	RefreshToken: "refresh",
}

func newRouter(svc *mocks.MockAuth, middleware *authMocks.Auth) http.Handler {
	handler := auth.New(svc, middleware, otelMocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router
}

func TestLogin(t *testing.T) {
	form := url.Values{"username": {"alice@example.com"}, "password": {"pw123"}}.Encode()

	tests := []struct {
		name        string
		contentType string
		body        string
		setupMock   func(svc *mocks.MockAuth)
		wantStatus  int
	}{
		{
			name:        "password form",
			contentType: "application/x-www-form-urlencoded",
			body:        form,
			setupMock: func(svc *mocks.MockAuth) {
				svc.EXPECT().
					Login(gomock.Any(), dto.LoginRequest{Username: "alice@example.com", Password: "pw123"}).
					Return(tokenResponse, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "json body with email",
			contentType: "application/json",
			body:        `{"email":"alice@example.com","password":"pw123"}`,
			setupMock: func(svc *mocks.MockAuth) {
				svc.EXPECT().
					Login(gomock.Any(), dto.LoginRequest{Email: "alice@example.com", Password: "pw123"}).
					Return(tokenResponse, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "wrong password",
			contentType: "application/x-www-form-urlencoded",
			body:        url.Values{"username": {"alice@example.com"}, "password": {"nope"}}.Encode(),
			setupMock: func(svc *mocks.MockAuth) {
				svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(dto.TokenResponse{}, failure.ErrInvalidCredentials)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "missing username",
			contentType: "application/x-www-form-urlencoded",
			body:        url.Values{"password": {"pw123"}}.Encode(),
			setupMock:   func(_ *mocks.MockAuth) {},
			wantStatus:  http.StatusUnprocessableEntity,
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"email"`,
			setupMock:   func(_ *mocks.MockAuth) {},
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockAuth(ctrl)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			rec := httptest.NewRecorder()
			newRouter(svc, authMocks.NewAuth(1)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLogin_TokenBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAuth(ctrl)
	svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(tokenResponse, nil)

	body := url.Values{"username": {"alice@example.com"}, "password": {"pw123"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	newRouter(svc, authMocks.NewAuth(1)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t,
		`{"access_token":"access","token_type":"bearer","expires_in":1800,"refresh_token":"refresh"}`,
		rec.Body.String(),
	)
}

func TestLogin_InvalidCredentialsChallenge(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAuth(ctrl)
	svc.EXPECT().Login(gomock.Any(), gomock.Any()).Return(dto.TokenResponse{}, failure.ErrInvalidCredentials)

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(`{"username":"alice@example.com","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	newRouter(svc, authMocks.NewAuth(1)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"error":"incorrect email or password"}`, rec.Body.String())
}

func TestRefreshToken(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		setupMock   func(svc *mocks.MockAuth)
		wantStatus  int
	}{
		{
			name:        "form",
			contentType: "application/x-www-form-urlencoded",
			body:        url.Values{"refresh_token": {"refresh"}}.Encode(),
			setupMock: func(svc *mocks.MockAuth) {
				svc.EXPECT().
					RefreshToken(gomock.Any(), dto.RefreshTokenRequest{RefreshToken: "refresh"}).
					Return(tokenResponse, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "json",
			contentType: "application/json",
			body:        `{"refresh_token":"refresh"}`,
			setupMock: func(svc *mocks.MockAuth) {
				svc.EXPECT().
					RefreshToken(gomock.Any(), dto.RefreshTokenRequest{RefreshToken: "refresh"}).
					Return(tokenResponse, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "missing token",
			contentType: "application/json",
			body:        `{}`,
			setupMock:   func(_ *mocks.MockAuth) {},
			wantStatus:  http.StatusUnprocessableEntity,
		},
		{
			name:        "rejected token",
			contentType: "application/json",
			body:        `{"refresh_token":"revoked"}`,
			setupMock: func(svc *mocks.MockAuth) {
				svc.EXPECT().
					RefreshToken(gomock.Any(), gomock.Any()).
					Return(dto.TokenResponse{}, failure.Unauthorized("token has been revoked"))
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockAuth(ctrl)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/token/refresh", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			rec := httptest.NewRecorder()
			newRouter(svc, authMocks.NewAuth(1)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRevoke(t *testing.T) {
	middleware := authMocks.NewAuth(1)

	ctrl := gomock.NewController(t)
	svc := mocks.NewMockAuth(ctrl)
	svc.EXPECT().Logout(gomock.Any(), middleware.TokenID, middleware.ExpiresAt).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/token/revoke", nil)

	rec := httptest.NewRecorder()
	newRouter(svc, middleware).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Token revoked successfully"}`, rec.Body.String())
}
