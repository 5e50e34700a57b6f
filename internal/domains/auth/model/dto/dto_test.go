package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"todolist/infras/jwt"
	"todolist/internal/domains/auth/model/dto"
	"todolist/shared/validator"
)

func TestTokenResponse_FromTokenPair(t *testing.T) {
	var res dto.TokenResponse
	res.FromTokenPair(&jwt.TokenPair{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "bearer",
		ExpiresIn:    1800,
	})

	assert.Equal(t, dto.TokenResponse{
		AccessToken:  "access",
		TokenType:    "bearer",
		ExpiresIn:    1800,
		RefreshToken: "refresh",
	}, res)
}

func TestRegisterRequest(t *testing.T) {
	req := dto.RegisterRequest{Email: "  Alice@Example.COM ", Password: "pw123"}
	req.Normalize()

	assert.Equal(t, "alice@example.com", req.Email)
	assert.NoError(t, validator.ValidateStruct(&req))

	user := req.ToUserModel("hashed")
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "hashed", user.HashedPassword)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsSuperuser)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRegisterRequest_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.RegisterRequest
	}{
		{name: "malformed email", req: dto.RegisterRequest{Email: "alice", Password: "pw123"}},
		{name: "missing email", req: dto.RegisterRequest{Password: "pw123"}},
		{name: "empty password", req: dto.RegisterRequest{Email: "alice@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, validator.ValidateStruct(&tt.req))
		})
	}
}

func TestLoginRequest(t *testing.T) {
	form := dto.LoginRequest{Username: "Alice@example.com", Password: "pw123"}
	form.Normalize()

	assert.Equal(t, "alice@example.com", form.Identifier())
	assert.NoError(t, validator.ValidateStruct(&form))

	json := dto.LoginRequest{Email: "bob@example.com", Password: "pw"}
	assert.Equal(t, "bob@example.com", json.Identifier())
	assert.NoError(t, validator.ValidateStruct(&json))

	assert.Error(t, validator.ValidateStruct(&dto.LoginRequest{Password: "pw"}))
	assert.Error(t, validator.ValidateStruct(&dto.LoginRequest{Username: "alice@example.com"}))
}
