package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	"todolist/config"
	"todolist/infras/otel"
	"todolist/infras/postgres"
	"todolist/shared/constant"
	"todolist/transport/http/middleware"
	"todolist/transport/http/response"
	"todolist/transport/http/router"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

const healthCheckTimeout = 2 * time.Second

type ServerState int32

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

// Database is the part of the storage layer the server checks and closes.
type Database interface {
	Ping(ctx context.Context) error
	Close() error
}

type HTTP struct {
	Config     *config.Config
	Router     router.Router
	Middleware middleware.AppMiddleware
	DB         Database
	Otel       otel.Otel

	state  atomic.Int32
	once   sync.Once
	mux    *chi.Mux
	server *http.Server
}

func New(cfg *config.Config, r router.Router, appMiddleware middleware.AppMiddleware, db *postgres.Connection, otel otel.Otel) *HTTP {
	return NewWithDatabase(cfg, r, appMiddleware, db, otel)
}

func NewWithDatabase(cfg *config.Config, r router.Router, appMiddleware middleware.AppMiddleware, db Database, otel otel.Otel) *HTTP {
	return &HTTP{
		Config:     cfg,
		Router:     r,
		Middleware: appMiddleware,
		DB:         db,
		Otel:       otel,
	}
}

// Serve blocks until the server has been shut down.
func (h *HTTP) Serve() {
	h.setup()

	h.server = &http.Server{
		Addr:         net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:      h.mux,
		ReadTimeout:  time.Duration(h.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(h.Config.Server.WriteTimeoutSeconds) * time.Second,
	}

	done := make(chan struct{})

	h.setupGracefulShutdown(done)

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}

	<-done
}

// Handler returns the routed handler without binding a listener.
func (h *HTTP) Handler() http.Handler {
	h.setup()

	return h.mux
}

func (h *HTTP) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *HTTP) SetState(state ServerState) {
	h.state.Store(int32(state))
}

func (h *HTTP) setup() {
	h.once.Do(func() {
		h.setupRoutes()
		h.SetState(ServerStateReady)
	})
}

func (h *HTTP) setupRoutes() {
	h.mux = chi.NewRouter()

	h.mux.Use(
		chiMiddleware.RequestID,
		chiMiddleware.RealIP,
		h.Middleware.Logger,
		chiMiddleware.Recoverer,
		h.Middleware.Tracing,
	)

	if corsConfig := h.Config.App.CORS; corsConfig.Enable {
		h.mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsConfig.AllowedOrigins,
			AllowedMethods:   corsConfig.AllowedMethods,
			AllowedHeaders:   corsConfig.AllowedHeaders,
			AllowCredentials: corsConfig.AllowCredentials,
			MaxAge:           corsConfig.MaxAgeSeconds,
		}))
	}

	h.mux.Get("/health", h.health)

	h.Router.SetupRoutes(h.mux)
}

func (h *HTTP) health(w http.ResponseWriter, r *http.Request) {
	if h.State() != ServerStateReady {
		response.WithPreparingShutdown(w)

		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		response.WithUnhealthy(w)

		return
	}

	response.WithMessage(w, http.StatusOK, "OK")
}

func (h *HTTP) setupGracefulShutdown(done chan struct{}) {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh, done)
}

func (h *HTTP) respondToSigterm(signals chan os.Signal, done chan struct{}) {
	<-signals

	defer close(done)

	shutdownConfig := h.Config.Server.Shutdown

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")
	} else {
		log.Info().Msg("Received SIGTERM.")
		log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

		h.SetState(ServerStateInGracePeriod)

		time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)
	}

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.SetState(ServerStateInCleanupPeriod)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	h.cleanup(ctx)

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

func (h *HTTP) cleanup(ctx context.Context) {
	if err := h.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to drain HTTP server")
	}

	if err := h.Otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	if err := h.DB.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}
}
