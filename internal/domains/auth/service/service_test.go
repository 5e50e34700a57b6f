package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"todolist/infras/jwt"
	jwtMocks "todolist/infras/jwt/mocks"
	"todolist/infras/otel/mocks"
	pgMocks "todolist/infras/postgres/mocks"
	"todolist/internal/domains/auth/model/dto"
	"todolist/internal/domains/auth/service"
	userMocks "todolist/internal/domains/user/mocks"
	userModel "todolist/internal/domains/user/model"
	cacheMocks "todolist/shared/cache/mocks"
	"todolist/shared/constant"
	gDto "todolist/shared/dto"
	"todolist/shared/failure"
	"todolist/shared/password"
)

type fixture struct {
	svc      service.Auth
	userRepo *userMocks.MockUser
	jwt      *jwtMocks.MockJWT
	cache    *cacheMocks.MockRedisCache
	hasher   password.Hasher
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		userRepo: userMocks.NewMockUser(ctrl),
		jwt:      jwtMocks.NewMockJWT(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		hasher:   password.NewWithCost(bcrypt.MinCost),
	}
	f.svc = service.New(f.userRepo, pgMocks.NewTransactor(), f.hasher, f.jwt, f.cache, mocks.NewOtel())

	return f
}

func (f fixture) storedUser(t *testing.T, active bool) userModel.User {
	t.Helper()

	hash, err := f.hasher.Hash("pw123")
	require.NoError(t, err)

	return userModel.User{
		ID:             1,
		Email:          "alice@example.com",
		HashedPassword: hash,
		IsActive:       active,
	}
}

func accessClaims(userID int64) *jwt.Claims {
	return &jwt.Claims{
		UserID: userID,
		Email:  "alice@example.com",
		Type:   jwt.AccessToken,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
		},
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Run("stores hash and returns user", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		f.userRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, user userModel.User) (int64, error) {
				assert.Equal(t, "alice@example.com", user.Email)
				assert.NotEqual(t, "pw123", user.HashedPassword)
				assert.True(t, f.hasher.Verify("pw123", user.HashedPassword))
				assert.True(t, user.IsActive)

				return 1, nil
			})

		res, err := f.svc.Register(context.Background(), dto.RegisterRequest{Email: " Alice@Example.com", Password: "pw123"})

		require.NoError(t, err)
		assert.Equal(t, int64(1), res.ID)
		assert.Equal(t, "alice@example.com", res.Email)
		assert.True(t, res.IsActive)
		assert.NotEmpty(t, res.CreatedAt)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().
			ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (bool, error) {
				email, ok := filter.Value(userModel.FieldEmail)
				require.True(t, ok)
				assert.Equal(t, "alice@example.com", email)

				return true, nil
			})

		_, err := f.svc.Register(context.Background(), dto.RegisterRequest{Email: "alice@example.com", Password: "pw123"})

		require.ErrorIs(t, err, failure.ErrEmailTaken)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("concurrent duplicate hits unique constraint", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
		f.userRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), &pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		_, err := f.svc.Register(context.Background(), dto.RegisterRequest{Email: "alice@example.com", Password: "pw123"})

		assert.ErrorIs(t, err, failure.ErrEmailTaken)
	})

	t.Run("validation errors touch nothing", func(t *testing.T) {
		f := newFixture(t)

		for _, req := range []dto.RegisterRequest{
			{Email: "not-an-email", Password: "pw123"},
			{Email: "alice@example.com", Password: ""},
		} {
			_, err := f.svc.Register(context.Background(), req)

			require.Error(t, err)
			assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
		}
	})

	t.Run("repository error", func(t *testing.T) {
		f := newFixture(t)

		f.userRepo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("database error"))

		_, err := f.svc.Register(context.Background(), dto.RegisterRequest{Email: "alice@example.com", Password: "pw123"})

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("issues bearer token", func(t *testing.T) {
		f := newFixture(t)
		user := f.storedUser(t, true)

		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
		f.jwt.EXPECT().
			GenerateTokenPair(int64(1), "alice@example.com", constant.RoleUser).
			Return(&jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "bearer", ExpiresIn: 1800}, nil)

		res, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "ALICE@example.com", Password: "pw123"})

		require.NoError(t, err)
		assert.Equal(t, "access", res.AccessToken)
		assert.Equal(t, "bearer", res.TokenType)
		assert.Equal(t, int64(1800), res.ExpiresIn)
	})

	tests := []struct {
		name     string
		user     func(f fixture) userModel.User
		password string
	}{
		{name: "unknown email", user: func(_ fixture) userModel.User { return userModel.User{} }, password: "pw123"},
		{name: "wrong password", user: func(f fixture) userModel.User { return f.storedUser(t, true) }, password: "wrong"},
		{name: "inactive user", user: func(f fixture) userModel.User { return f.storedUser(t, false) }, password: "pw123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.user(f), nil)

			_, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "alice@example.com", Password: tt.password})

			require.ErrorIs(t, err, failure.ErrInvalidCredentials)
			assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
		})
	}
}

func TestAuthService_ResolveCurrentUser(t *testing.T) {
	t.Run("valid token yields its user", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().ValidateToken("token", jwt.AccessToken).Return(accessClaims(1), nil)
		f.cache.EXPECT().Exists(gomock.Any(), "token:revoked:jti-1").Return(false, nil)
		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(f.storedUser(t, true), nil)

		principal, err := f.svc.ResolveCurrentUser(context.Background(), "token")

		require.NoError(t, err)
		assert.Equal(t, int64(1), principal.UserID)
		assert.Equal(t, "alice@example.com", principal.Email)
		assert.Equal(t, "jti-1", principal.TokenID)
		assert.False(t, principal.ExpiresAt.IsZero())
	})

	t.Run("expired token", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().ValidateToken("token", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)

		_, err := f.svc.ResolveCurrentUser(context.Background(), "token")

		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
		assert.Equal(t, "token has expired", err.Error())
	})

	t.Run("malformed token", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().ValidateToken("token", jwt.AccessToken).Return(nil, jwt.ErrInvalidToken)

		_, err := f.svc.ResolveCurrentUser(context.Background(), "token")

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("revoked token", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().ValidateToken("token", jwt.AccessToken).Return(accessClaims(1), nil)
		f.cache.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := f.svc.ResolveCurrentUser(context.Background(), "token")

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("denylist unavailable fails open", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().ValidateToken("token", jwt.AccessToken).Return(accessClaims(1), nil)
		f.cache.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused"))
		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(f.storedUser(t, true), nil)

		_, err := f.svc.ResolveCurrentUser(context.Background(), "token")

		assert.NoError(t, err)
	})

	for name, user := range map[string]func(f fixture) userModel.User{
		"deleted user":  func(_ fixture) userModel.User { return userModel.User{} },
		"inactive user": func(f fixture) userModel.User { return f.storedUser(t, false) },
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)

			f.jwt.EXPECT().ValidateToken("token", jwt.AccessToken).Return(accessClaims(1), nil)
			f.cache.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(false, nil)
			f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user(f), nil)

			_, err := f.svc.ResolveCurrentUser(context.Background(), "token")

			assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("rotates refresh token", func(t *testing.T) {
		f := newFixture(t)

		claims := accessClaims(1)
		claims.Type = jwt.RefreshToken

		f.jwt.EXPECT().ValidateToken("refresh", jwt.RefreshToken).Return(claims, nil)
		f.cache.EXPECT().Exists(gomock.Any(), "token:revoked:jti-1").Return(false, nil)
		f.userRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(f.storedUser(t, true), nil)
		f.jwt.EXPECT().
			GenerateTokenPair(int64(1), "alice@example.com", constant.RoleUser).
			Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh", TokenType: "bearer"}, nil)
		f.cache.EXPECT().Save(gomock.Any(), "token:revoked:jti-1", "1", gomock.Any()).Return(nil)

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

		require.NoError(t, err)
		assert.Equal(t, "new-access", res.AccessToken)
		assert.Equal(t, "new-refresh", res.RefreshToken)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().ValidateToken("refresh", jwt.RefreshToken).Return(nil, jwt.ErrInvalidClaim)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})

	t.Run("missing refresh token", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{})

		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("denylists until expiry", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().
			Save(gomock.Any(), "token:revoked:jti-1", "1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ any, ttl time.Duration) error {
				assert.Greater(t, ttl, 29*time.Minute)
				assert.LessOrEqual(t, ttl, 30*time.Minute)

				return nil
			})

		require.NoError(t, f.svc.Logout(context.Background(), "jti-1", time.Now().Add(30*time.Minute)))
	})

	t.Run("expired token needs nothing", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.svc.Logout(context.Background(), "jti-1", time.Now().Add(-time.Minute)))
	})

	t.Run("cache error", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		assert.Error(t, f.svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Minute)))
	})
}
