package handler

import (
	"net/http"
	"sync"
	"todolist/config"
	"todolist/di"
	"todolist/shared/logger"
	"todolist/shared/timezone"
)

var (
	app     http.Handler
	appOnce sync.Once
)

// Handler is the serverless entrypoint. The dependency graph is built on the first request
// and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	appOnce.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)

		logger.SetLogLevel(cfg)

		timezone.Init(cfg)

		app = di.InitializeService().Handler()
	})

	app.ServeHTTP(w, r)
}
