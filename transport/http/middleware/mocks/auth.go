package mocks

import (
	"context"
	"net/http"
	"time"
	"todolist/shared/constant"
)

// Auth authenticates every request as a fixed user.
type Auth struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

func NewAuth(userID int64) *Auth {
	return &Auth{
		UserID:    userID,
		TokenID:   "test-jti",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
}

func (a *Auth) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), constant.ContextKeyUserID, a.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, a.TokenID)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenExp, a.ExpiresAt)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
