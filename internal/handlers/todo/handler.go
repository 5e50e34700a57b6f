package todo

import (
	"net/http"
	"todolist/infras/otel"
	"todolist/internal/domains/todo/model/dto"
	"todolist/internal/domains/todo/service"
	"todolist/shared"
	"todolist/shared/constant"
	"todolist/shared/failure"
	"todolist/shared/validator"
	"todolist/transport/http/middleware"
	"todolist/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service    service.Todo
	middleware middleware.Auth
	otel       otel.Otel
}

func New(service service.Todo, middleware middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		service:    service,
		middleware: middleware,
		otel:       otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/todos", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.Auth)

		routerGroup.Post("/", handler.CreateTodo)
		routerGroup.Get("/", handler.GetTodos)
		routerGroup.Get("/{id}", handler.GetTodoByID)
		routerGroup.Put("/{id}", handler.UpdateTodo)
		routerGroup.Patch("/{id}", handler.UpdateTodo)
		routerGroup.Delete("/{id}", handler.DeleteTodo)
	})
}

// CreateTodo handles the creation of a new todo item.
// @Summary Create a new todo item
// @Description Create a new todo item owned by the caller. New items start with completed set to false.
// @Tags Todo
// @Accept json
// @Produce json
// @Param request body dto.CreateTodoRequest true "Create Todo Request"
// @Success 201 {object} response.Data[dto.TodoResponse] "Created todo item"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos [post]
// @Security BearerAuth
func (handler *Handler) CreateTodo(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTodo")
	defer scope.End()

	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		response.WithError(writer, failure.Unauthorized("not authenticated"))

		return
	}

	req := dto.CreateTodoRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	todo, err := handler.service.Create(ctx, ownerID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create todo")

		response.WithError(writer, err)

		return
	}

	scope.SetAttribute("todo.id", todo.ID)
	scope.AddEvent("Todo created successfully")

	response.WithJSON(writer, http.StatusCreated, todo)
}

// GetTodos retrieves the caller's todo items.
// @Summary Get all todo items
// @Description Retrieve the caller's todo items with optional filtering.
// @Tags Todo
// @Accept json
// @Produce json
// @Param title query string false "Filter by title substring"
// @Param completed query boolean false "Filter by completion status"
// @Success 200 {object} response.Data[[]dto.TodoResponse] "List of todo items"
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos [get]
// @Security BearerAuth
func (handler *Handler) GetTodos(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodos")
	defer scope.End()

	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		response.WithError(w, failure.Unauthorized("not authenticated"))

		return
	}

	filter := dto.ListTodoFilter{
		Completed: shared.ConvertStringToBool(r.URL.Query().Get(constant.RequestParamCompleted)),
		Title:     r.URL.Query().Get(constant.RequestParamTitle),
	}

	todos, err := handler.service.GetAll(ctx, ownerID, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get todos")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Todos retrieved successfully")

	response.WithJSON(w, http.StatusOK, todos)
}

// GetTodoByID retrieves a todo item by its ID.
// @Summary Get a todo item by ID
// @Description Retrieve one of the caller's todo items by its unique identifier.
// @Tags Todo
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} response.Data[dto.TodoResponse] "Todo item details"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTodoByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTodoByID")
	defer scope.End()

	ownerID, id, err := handler.target(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	todo, err := handler.service.Get(ctx, ownerID, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to get todo by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Todo retrieved successfully")

	response.WithJSON(w, http.StatusOK, todo)
}

// UpdateTodo updates an existing todo item by its ID.
// @Summary Update a todo item by ID
// @Description Update any of title, description or completed on one of the caller's todo items.
// @Tags Todo
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param request body dto.UpdateTodoRequest true "Update Todo Request"
// @Success 200 {object} response.Data[dto.TodoResponse] "Updated todo item"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos/{id} [put]
// @Router /v1/todos/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTodo")
	defer scope.End()

	ownerID, id, err := handler.target(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.UpdateTodoRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	todo, err := handler.service.Update(ctx, ownerID, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to update todo")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Todo updated successfully")

	response.WithJSON(w, http.StatusOK, todo)
}

// DeleteTodo deletes a todo item by its ID.
// @Summary Delete a todo item by ID
// @Description Delete one of the caller's todo items using its unique identifier.
// @Tags Todo
// @Param id path int true "Todo ID"
// @Success 204 "Todo deleted"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/todos/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTodo")
	defer scope.End()

	ownerID, id, err := handler.target(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Delete(ctx, ownerID, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("id", id).Msg("failed to delete todo")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Todo deleted successfully")

	response.WithNoContent(w)
}

// target returns the caller and the item addressed by the {id} path parameter.
func (handler *Handler) target(r *http.Request) (int64, int64, error) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		return 0, 0, failure.Unauthorized("not authenticated")
	}

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		return 0, 0, err
	}

	return ownerID, id, nil
}
