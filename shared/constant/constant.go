package constant

import (
	"time"
)

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
	ContextKeyTokenID   contextKey = "token_id"
	ContextKeyTokenExp  contextKey = "token_exp"
)

const (
	RoleSuperuser = "superuser"
	RoleUser      = "user"
)

const (
	RequestParamID        = "id"
	RequestParamTitle     = "title"
	RequestParamCompleted = "completed"
)

const (
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

const (
	PqErrorCodeUniqueViolation = "23505"
	PqErrorCodeFkViolation     = "23503"
)

const (
	DateFormat = time.RFC3339
)

const (
	MinutesToSeconds = 60
)

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelMiddlewareScopeName = "middleware"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization = "Authorization"
	RequestHeaderUserAgent     = "User-Agent"
	RequestHeaderContentType   = "Content-Type"
	RequestHeaderRequestID     = "X-Request-ID"
	RequestHeaderWWWAuth       = "WWW-Authenticate"
)

const (
	ContentTypeJSON           = "application/json"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
)

const (
	TokenTypeBearer = "bearer"
)

const (
	ResponseErrorPrepareShutdown = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy       = "SERVER UNHEALTHY"
	ResponseErrorInternal        = "internal server error"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	CacheKeySeparator     = ":"
	CacheKeyRevokedTokens = "token:revoked"
)
