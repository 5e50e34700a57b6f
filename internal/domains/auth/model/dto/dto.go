package dto

import (
	"strings"
	"time"
	"todolist/infras/jwt"
	userModel "todolist/internal/domains/user/model"
	gModel "todolist/shared/model"
	"todolist/shared/timezone"
)

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// Normalize trims the email and lower-cases it so lookups are case-insensitive.
func (r *RegisterRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	now := timezone.Now()

	return userModel.User{
		Email:          r.Email,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsSuperuser:    false,
		Metadata: gModel.Metadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// LoginRequest follows the OAuth2 password grant: the email travels as username.
// JSON clients may send email instead.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required_without=Email,omitempty,email"`
	Email    string `json:"email"    form:"email"    validate:"omitempty,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (l *LoginRequest) Normalize() {
	l.Username = NormalizeEmail(l.Username)
	l.Email = NormalizeEmail(l.Email)
}

func (l *LoginRequest) Identifier() string {
	if l.Username != "" {
		return l.Username
	}

	return l.Email
}

// TokenResponse is the RFC 6749 section 5.1 access token body.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

func (t *TokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	t.AccessToken = tokenPair.AccessToken
	t.TokenType = tokenPair.TokenType
	t.ExpiresIn = tokenPair.ExpiresIn
	t.RefreshToken = tokenPair.RefreshToken
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" validate:"required"`
}

// Principal is the caller resolved from a valid access token.
type Principal struct {
	UserID    int64
	Email     string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
