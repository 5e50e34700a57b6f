package router

import (
	"todolist/config"
	_ "todolist/docs" // swagger spec
	"todolist/internal/handlers/auth"
	"todolist/internal/handlers/todo"
	"todolist/internal/handlers/user"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Auth auth.Handler
	User user.Handler
	Todo todo.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Config         *config.Config
}

func (r *Router) SetupRoutes(router chi.Router) {
	if !r.Config.IsProduction() {
		router.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Todo.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, config *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Config:         config,
	}
}
