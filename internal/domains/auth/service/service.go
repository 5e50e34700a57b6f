package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todolist/infras/jwt"
	"todolist/infras/otel"
	"todolist/infras/postgres"
	"todolist/internal/domains/auth/model/dto"
	userModel "todolist/internal/domains/user/model"
	userDto "todolist/internal/domains/user/model/dto"
	userRepo "todolist/internal/domains/user/repository"
	"todolist/shared"
	"todolist/shared/cache"
	"todolist/shared/constant"
	"todolist/shared/failure"
	"todolist/shared/password"
	"todolist/shared/timezone"
	"todolist/shared/validator"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	errCouldNotValidate = "could not validate credentials"
	errTokenExpired     = "token has expired"
	errTokenRevoked     = "token has been revoked"
)

// Auth owns user registration, credential checks and the bearer token lifecycle.
type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (userDto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.TokenResponse, error)
	ResolveCurrentUser(ctx context.Context, token string) (dto.Principal, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type serviceImpl struct {
	userRepo   userRepo.User
	transactor postgres.Transactor
	hasher     password.Hasher
	jwtService jwt.JWT
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	userRepo userRepo.User,
	transactor postgres.Transactor,
	hasher password.Hasher,
	jwtService jwt.JWT,
	cache cache.RedisCache,
	otel otel.Otel,
) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		transactor: transactor,
		hasher:     hasher,
		jwtService: jwtService,
		cache:      cache,
		otel:       otel,
	}
}

func revokedTokenKey(tokenID string) string {
	return shared.BuildCacheKey(constant.CacheKeyRevokedTokens, tokenID)
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Normalize()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		if password.IsInvalidInput(err) {
			return res, failure.Unprocessable(err.Error())
		}

		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(hashedPassword)

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		exists, txErr := s.userRepo.ExistTx(ctx, tx, userRepo.FilterByEmail(user.Email))
		if txErr != nil {
			return fmt.Errorf("failed to check if user exists: %w", txErr)
		}

		if exists {
			return failure.ErrEmailTaken
		}

		user.ID, txErr = s.userRepo.InsertTx(ctx, tx, user)
		if txErr != nil {
			if postgres.IsUniqueViolation(txErr) {
				return failure.ErrEmailTaken
			}

			return fmt.Errorf("failed to create user: %w", txErr)
		}

		return nil
	})
	if err != nil {
		if !failure.IsFailure(err) {
			log.Error().Err(err).Msg("failed to register user")
		}

		return res, err
	}

	log.Info().Int64("user_id", user.ID).Msg("user registered")

	res.FromModel(user)

	return res, nil
}

// Login never reveals whether the email or the password was wrong.
func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Normalize()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	user, err := s.userRepo.Get(ctx, userRepo.FilterByEmail(req.Identifier()))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == 0 {
		log.Warn().Msg("login attempt with unknown email")

		return res, failure.ErrInvalidCredentials
	}

	if !s.hasher.Verify(req.Password, user.HashedPassword) {
		log.Warn().Int64("user_id", user.ID).Msg("login attempt with wrong password")

		return res, failure.ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Warn().Int64("user_id", user.ID).Msg("login attempt on inactive account")

		return res, failure.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *serviceImpl) issue(user userModel.User) (res dto.TokenResponse, err error) {
	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role())
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

// RefreshToken exchanges a refresh token for a new pair. The used refresh token is revoked.
func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	claims, err := s.jwtService.ValidateToken(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("refresh with invalid token")

		return res, tokenFailure(err)
	}

	if s.isRevoked(ctx, claims.ID) {
		return res, failure.Unauthorized(errTokenRevoked)
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return res, err
	}

	res, err = s.issue(user)
	if err != nil {
		return res, err
	}

	if revokeErr := s.Logout(ctx, claims.ID, claims.ExpiresAt.Time); revokeErr != nil {
		log.Warn().Err(revokeErr).Msg("failed to revoke used refresh token")
	}

	return res, nil
}

// ResolveCurrentUser checks signature, expiry and revocation of an access token and
// that its user still exists and is active.
func (s *serviceImpl) ResolveCurrentUser(ctx context.Context, token string) (res dto.Principal, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ResolveCurrentUser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	claims, err := s.jwtService.ValidateToken(token, jwt.AccessToken)
	if err != nil {
		return res, tokenFailure(err)
	}

	if s.isRevoked(ctx, claims.ID) {
		return res, failure.Unauthorized(errTokenRevoked)
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return res, err
	}

	return dto.Principal{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role(),
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout puts the token id on the denylist until the token would have expired anyway.
func (s *serviceImpl) Logout(ctx context.Context, tokenID string, expiresAt time.Time) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Logout")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ttl := expiresAt.Sub(timezone.Now())
	if ttl <= 0 {
		return nil
	}

	if err = s.cache.Save(ctx, revokedTokenKey(tokenID), "1", ttl); err != nil {
		log.Error().Err(err).Msg("failed to revoke token")

		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

// isRevoked fails open: when the denylist is unreachable the token is accepted.
func (s *serviceImpl) isRevoked(ctx context.Context, tokenID string) bool {
	revoked, err := s.cache.Exists(ctx, revokedTokenKey(tokenID))
	if err != nil {
		log.Warn().Err(err).Msg("could not check revoked tokens, accepting token")

		return false
	}

	return revoked
}

func (s *serviceImpl) activeUser(ctx context.Context, userID int64) (userModel.User, error) {
	user, err := s.userRepo.Get(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == 0 || !user.IsActive {
		return userModel.User{}, failure.Unauthorized(errCouldNotValidate)
	}

	return user, nil
}

func tokenFailure(err error) error {
	if errors.Is(err, jwt.ErrExpiredToken) {
		return failure.Unauthorized(errTokenExpired)
	}

	return failure.Unauthorized(errCouldNotValidate)
}
