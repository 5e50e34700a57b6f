package user

import (
	"net/http"
	"todolist/infras/otel"
	authDto "todolist/internal/domains/auth/model/dto"
	authService "todolist/internal/domains/auth/service"
	"todolist/internal/domains/user/service"
	"todolist/shared/constant"
	"todolist/shared/failure"
	"todolist/shared/validator"
	"todolist/transport/http/middleware"
	"todolist/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service     service.User
	authService authService.Auth
	middleware  middleware.Auth
	otel        otel.Otel
}

func New(service service.User, authService authService.Auth, middleware middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service:     service,
		authService: authService,
		middleware:  middleware,
		otel:        otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/users", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateUser)

		routerGroup.Group(func(protected chi.Router) {
			protected.Use(handler.middleware.Auth)
			protected.Get("/me", handler.GetCurrentUser)
		})
	})
}

// CreateUser handles user registration.
// @Summary Register a new user
// @Description Create an account with an email and password. The email must not be registered yet.
// @Tags User
// @Accept json
// @Produce json
// @Param request body authDto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Data[dto.UserResponse] "Registered user"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users [post]
func (handler *Handler) CreateUser(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateUser")
	defer scope.End()

	req := authDto.RegisterRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	user, err := handler.authService.Register(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to register user")

		response.WithError(writer, err)

		return
	}

	scope.SetAttribute("user.id", user.ID)
	scope.AddEvent("User registered successfully")

	response.WithJSON(writer, http.StatusCreated, user)
}

// GetCurrentUser returns the authenticated user.
// @Summary Get the current user
// @Description Retrieve the account that owns the bearer token.
// @Tags User
// @Produce json
// @Success 200 {object} response.Data[dto.UserResponse] "Current user"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users/me [get]
// @Security BearerAuth
func (handler *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCurrentUser")
	defer scope.End()

	userID, ok := middleware.UserID(ctx)
	if !ok {
		response.WithError(w, failure.Unauthorized("not authenticated"))

		return
	}

	user, err := handler.service.Get(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to get current user")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, user)
}
