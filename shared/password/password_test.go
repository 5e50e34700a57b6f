package password_test

import (
	"strings"
	"testing"
	"todolist/config"
	"todolist/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newHasher() password.Hasher {
	return password.NewWithCost(bcrypt.MinCost)
}

func TestNew_CostFallback(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.BcryptCost = 99

	hash, err := password.New(cfg).Hash("secret")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, password.DefaultCost, cost)
}

func TestHash(t *testing.T) {
	tests := []struct {
		name          string
		password      string
		expectedError error
	}{
		{name: "valid password", password: "pw123"},
		{name: "special characters", password: "P@ssw0rd!#$%^&*()"},
		{name: "unicode", password: "пароль123"},
		{name: "exactly 72 bytes", password: strings.Repeat("a", 72)},
		{name: "empty", password: "", expectedError: password.ErrEmptyPassword},
		{name: "too long", password: strings.Repeat("a", 73), expectedError: password.ErrPasswordTooLong},
	}

	hasher := newHasher()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.True(t, password.IsInvalidInput(err))
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, strings.HasPrefix(hash, "$2a$"), "expected bcrypt hash, got %s", hash)
			assert.True(t, hasher.Verify(tt.password, hash))
		})
	}
}

func TestHash_Salted(t *testing.T) {
	hasher := newHasher()

	first, err := hasher.Hash("pw123")
	require.NoError(t, err)

	second, err := hasher.Hash("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	hasher := newHasher()

	validHash, err := hasher.Hash("pw123")
	require.NoError(t, err)

	otherHash, err := hasher.Hash("pw124")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		expected bool
	}{
		{name: "match", password: "pw123", hash: validHash, expected: true},
		{name: "other password's hash", password: "pw123", hash: otherHash, expected: false},
		{name: "wrong password", password: "wrong", hash: validHash, expected: false},
		{name: "empty password", password: "", hash: validHash, expected: false},
		{name: "empty hash", password: "pw123", hash: "", expected: false},
		{name: "malformed hash", password: "pw123", hash: "not-a-hash", expected: false},
		{name: "truncated hash", password: "pw123", hash: validHash[:10], expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, hasher.Verify(tt.password, tt.hash))
		})
	}
}
