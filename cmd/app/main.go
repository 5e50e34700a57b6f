package main

import (
	"todolist/config"
	"todolist/di"
	"todolist/helper"
	"todolist/shared/logger"
	"todolist/shared/timezone"

	"github.com/rs/zerolog/log"
)

// @title Todolist API
// @version 1.0
// @description Per-user to-do lists behind bearer token authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	timezone.Init(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
