package middleware

import (
	"context"
	"net/http"
	"time"
	"todolist/infras/jwt"
	"todolist/infras/otel"
	authService "todolist/internal/domains/auth/service"
	"todolist/shared/constant"
	"todolist/shared/failure"
	"todolist/transport/http/response"
)

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
}

type authImpl struct {
	authService authService.Auth
	otel        otel.Otel
}

func NewAuthMiddleware(authService authService.Auth, otel otel.Otel) Auth {
	return &authImpl{
		authService: authService,
		otel:        otel,
	}
}

// Auth resolves the caller from the bearer token and stores it in the request context.
func (m *authImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelMiddlewareScopeName, "auth.middleware")

		tokenString, err := jwt.ExtractTokenFromHeader(request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			err = failure.Unauthorized("not authenticated")
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		principal, err := m.authService.ResolveCurrentUser(ctx, tokenString)
		if err != nil {
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.SetAttribute("user.id", principal.UserID)
		scope.End()

		ctx = context.WithValue(request.Context(), constant.ContextKeyUserID, principal.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, principal.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, principal.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, principal.TokenID)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenExp, principal.ExpiresAt)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// UserID returns the authenticated caller's id.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(constant.ContextKeyUserID).(int64)

	return id, ok && id > 0
}

// TokenID returns the id and expiry of the access token used for the request.
func TokenID(ctx context.Context) (string, time.Time, bool) {
	id, ok := ctx.Value(constant.ContextKeyTokenID).(string)
	exp, _ := ctx.Value(constant.ContextKeyTokenExp).(time.Time)

	return id, exp, ok && id != ""
}
