package auth

import (
	"mime"
	"net/http"
	"net/url"
	"todolist/infras/otel"
	"todolist/internal/domains/auth/model/dto"
	"todolist/internal/domains/auth/service"
	"todolist/shared/constant"
	"todolist/shared/failure"
	"todolist/shared/validator"
	"todolist/transport/http/middleware"
	"todolist/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	formFieldUsername     = "username"
	formFieldEmail        = "email"
	formFieldPassword     = "password"
	formFieldRefreshToken = "refresh_token"
)

type Handler struct {
	service    service.Auth
	middleware middleware.Auth
	otel       otel.Otel
}

func New(service service.Auth, middleware middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/token", func(r chi.Router) {
		r.Post("/", handler.Login)
		r.Post("/refresh", handler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(handler.middleware.Auth)
			r.Post("/revoke", handler.Revoke)
		})
	})
}

// Login handles the OAuth2 password grant
// @Summary Issue an access token
// @Description Exchange an email and password for a bearer token. Accepts an OAuth2 password form with the email in username, or the same fields as JSON.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} dto.TokenResponse "Token issued"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/token [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Login")
	defer scope.End()

	req := dto.LoginRequest{}

	if err := bind(r, &req, func(form url.Values) {
		req.Username = form.Get(formFieldUsername)
		req.Email = form.Get(formFieldEmail)
		req.Password = form.Get(formFieldPassword)
	}); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to login user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User logged in successfully")

	response.WithRaw(w, http.StatusOK, res)
}

// RefreshToken handles token refresh
// @Summary Refresh user token
// @Description Exchange a refresh token for a new token pair. The used refresh token is revoked.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} dto.TokenResponse "Token refreshed successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/token/refresh [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RefreshToken")
	defer scope.End()

	req := dto.RefreshTokenRequest{}

	if err := bind(r, &req, func(form url.Values) {
		req.RefreshToken = form.Get(formFieldRefreshToken)
	}); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.RefreshToken(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to refresh token")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Token refreshed successfully")

	response.WithRaw(w, http.StatusOK, res)
}

// Revoke handles logout
// @Summary Revoke the current access token
// @Description Revoke the bearer token used for this request until it expires.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Message "Token revoked successfully"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/token/revoke [post]
// @Security BearerAuth
func (handler *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Revoke")
	defer scope.End()

	tokenID, expiresAt, ok := middleware.TokenID(ctx)
	if !ok {
		response.WithError(w, failure.Unauthorized("not authenticated"))

		return
	}

	if err := handler.service.Logout(ctx, tokenID, expiresAt); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to revoke token")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Token revoked successfully")

	response.WithMessage(w, http.StatusOK, "Token revoked successfully")
}

// bind fills data from an urlencoded form through fill, or decodes it as JSON otherwise,
// and validates the result.
func bind[T any](r *http.Request, data *T, fill func(form url.Values)) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get(constant.RequestHeaderContentType))
	if mediaType != constant.ContentTypeFormURLEncoded {
		return validator.Validate(r.Body, data) //nolint:wrapcheck
	}

	if err := r.ParseForm(); err != nil {
		return failure.BadRequest(err) //nolint:wrapcheck
	}

	fill(r.PostForm)

	return validator.ValidateStruct(data) //nolint:wrapcheck
}
