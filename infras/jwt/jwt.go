package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"todolist/config"
	"todolist/shared/constant"
	"todolist/shared/timezone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
)

// TokenType represents the type of JWT token
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims represents the JWT claims structure. The subject carries the user id
// as a decimal string, ID carries the token id used for revocation.
type Claims struct {
	UserID int64     `json:"uid"`
	Email  string    `json:"email"`
	Role   string    `json:"role,omitempty"`
	Type   TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair represents access and refresh token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// JWT handles JWT operations
type JWT interface {
	GenerateTokenPair(userID int64, email, role string) (*TokenPair, error)
	ValidateToken(tokenString string, tokenType TokenType) (*Claims, error)
}

// Service handles JWT operations
type Service struct {
	config *config.Config
	method jwt.SigningMethod
}

// New creates a new JWT service. Only HMAC algorithms are accepted.
func New(cfg *config.Config) JWT {
	if cfg.JWT.AccessSecret == "" {
		log.Fatal().Msg("JWT_ACCESS_SECRET must be set")
	}

	method, ok := jwt.GetSigningMethod(cfg.JWT.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		log.Fatal().Str("algorithm", cfg.JWT.Algorithm).Msg("Unsupported JWT algorithm, expected HS256, HS384 or HS512")
	}

	return &Service{
		config: cfg,
		method: method,
	}
}

// NewWithMethod builds a service without the startup checks.
func NewWithMethod(cfg *config.Config, method jwt.SigningMethod) *Service {
	return &Service{
		config: cfg,
		method: method,
	}
}

// GenerateTokenPair generates both access and refresh tokens
func (s *Service) GenerateTokenPair(userID int64, email, role string) (*TokenPair, error) {
	now := timezone.Now()

	accessToken, err := s.generateToken(userID, email, role, AccessToken, now, s.config.JWT.AccessExpireMin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateToken(userID, email, role, RefreshToken, now, s.config.JWT.RefreshExpireMin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constant.TokenTypeBearer,
		ExpiresIn:    int64(s.config.JWT.AccessExpireMin * constant.MinutesToSeconds),
	}, nil
}

// generateToken creates a JWT token with the specified parameters
func (s *Service) generateToken(userID int64, email, role string, tokenType TokenType, issuedAt time.Time, expireMin int) (string, error) {
	secret, err := s.secret(tokenType)
	if err != nil {
		return "", err
	}

	expiresAt := issuedAt.Add(time.Duration(expireMin) * time.Minute)

	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.config.App.Name,
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.New().String(),
		},
	}

	signedToken, err := jwt.NewWithClaims(s.method, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// secret picks the signing key. The refresh secret falls back to the access secret.
func (s *Service) secret(tokenType TokenType) (string, error) {
	switch tokenType {
	case AccessToken:
		return s.config.JWT.AccessSecret, nil
	case RefreshToken:
		if s.config.JWT.RefreshSecret == "" {
			return s.config.JWT.AccessSecret, nil
		}

		return s.config.JWT.RefreshSecret, nil
	default:
		return "", fmt.Errorf("unknown token type: %s", tokenType)
	}
}

// ValidateToken validates and parses a JWT token
func (s *Service) ValidateToken(tokenString string, tokenType TokenType) (*Claims, error) {
	secret, err := s.secret(tokenType)
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != tokenType || claims.UserID <= 0 || claims.ID == "" {
		return nil, ErrInvalidClaim
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts JWT token from Authorization header
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is required")
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, constant.TokenTypeBearer) {
		return "", errors.New("authorization header must start with 'Bearer '")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("bearer token is empty")
	}

	return token, nil
}
