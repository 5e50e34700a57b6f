//go:build wireinject
// +build wireinject

package di

import (
	"todolist/config"
	"todolist/infras/jwt"
	"todolist/infras/otel"
	"todolist/infras/postgres"
	"todolist/infras/redis"
	"todolist/shared/cache"
	"todolist/shared/password"
	"todolist/transport/http"
	"todolist/transport/http/middleware"
	"todolist/transport/http/router"

	todoRepository "todolist/internal/domains/todo/repository"
	todoService "todolist/internal/domains/todo/service"

	"github.com/google/wire"

	authService "todolist/internal/domains/auth/service"
	userRepository "todolist/internal/domains/user/repository"
	userService "todolist/internal/domains/user/service"
	authHandler "todolist/internal/handlers/auth"
	todoHandler "todolist/internal/handlers/todo"
	userHandler "todolist/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.Transactor), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	password.New,
)

var todoDomain = wire.NewSet(
	todoRepository.New,
	todoService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var domains = wire.NewSet(
	todoDomain,
	userDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	todoHandler.New,
	userHandler.New,
	authHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
