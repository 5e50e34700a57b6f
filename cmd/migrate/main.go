package main

import (
	"os"
	"todolist/config"
	"todolist/helper"
	"todolist/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration direction (up/down) is required")
	}

	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	switch os.Args[1] {
	case "up":
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
	case "down":
		if err := helper.Down(cfg); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
	case "drop":
		if err := helper.Drop(cfg); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
	case "step-up":
		if err := helper.StepUp(cfg); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
	case "version":
		if err := helper.Version(cfg); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
	default:
		log.Fatal().Msg("Invalid direction. Use 'up', 'down', 'drop', 'step-up' or 'version'")
	}
}
