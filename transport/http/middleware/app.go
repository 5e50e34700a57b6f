package middleware

import (
	"fmt"
	"net/http"
	"time"
	"todolist/config"
	"todolist/infras/otel"
	"todolist/shared/constant"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const (
	otelHTTPScopeName = "http"
)

type AppMiddleware interface {
	Tracing(next http.Handler) http.Handler
	Logger(next http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
}

func NewAppMiddleware(otel otel.Otel, config *config.Config) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
	}
}

// Tracing opens one span per request. The route pattern is only known once chi has
// matched it, so it is recorded after the handler returns.
func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := a.otel.NewScope(request.Context(), otelHTTPScopeName, fmt.Sprintf("%s %s", request.Method, request.URL.Path))
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       request.URL.Path,
			"http.method":     request.Method,
			"http.user_agent": request.Header.Get(constant.RequestHeaderUserAgent),
			"http.host":       request.Host,
			"http.source":     request.RemoteAddr,
			"http.request_id": chiMiddleware.GetReqID(request.Context()),
		})

		ww := chiMiddleware.NewWrapResponseWriter(writer, request.ProtoMajor)

		next.ServeHTTP(ww, request.WithContext(ctx))

		if rctx := chi.RouteContext(request.Context()); rctx != nil {
			scope.SetAttribute("http.route", rctx.RoutePattern())
		}

		scope.SetAttribute("http.status_code", ww.Status())

		if ww.Status() >= http.StatusInternalServerError {
			scope.TraceError(fmt.Errorf("http status %d", ww.Status()))
		}
	})
}

// Logger writes one structured line per request.
func (a *appMiddleware) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(writer, request.ProtoMajor)

		next.ServeHTTP(ww, request)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		event := log.Info()

		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		}

		event.
			Str("method", request.Method).
			Str("path", request.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", chiMiddleware.GetReqID(request.Context())).
			Msg("HTTP request")
	})
}
