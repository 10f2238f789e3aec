package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"gymhub/internal/platform/metrics"
	"gymhub/internal/transport/http/api"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logger logs one line per request, at warn for 4xx and error for 5xx, and feeds the request metrics.
func Logger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			elapsed := time.Since(start)

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			metrics.ObserveRequest(r.Method, route, recorder.status, elapsed)

			var event *zerolog.Event
			switch {
			case recorder.status >= 500:
				event = log.Error()
			case recorder.status >= 400:
				event = log.Warn()
			default:
				event = log.Info()
			}
			event.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", recorder.status).
				Dur("latency", elapsed).
				Str("requestId", GetRequestID(r.Context())).
				Msg("request processed")
		})
	}
}

// Instrument logs and recovers each request. Recovery sits inside the logger so a
// panic still produces a logged and counted 500.
func Instrument(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return Logger(log)(Recoverer(log)(next))
	}
}

func Recoverer(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error().
						Interface("panic", rec).
						Bytes("stack", debug.Stack()).
						Str("requestId", GetRequestID(r.Context())).
						Msg("panic recovered")
					api.Fail(w, http.StatusInternalServerError, "internal_error", "internal error", GetRequestID(r.Context()))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
