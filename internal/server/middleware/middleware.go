// Package middleware wraps the trailmap API mux: request ids, access
// logging, panic recovery, Prometheus counters, CORS and API keys.
package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trailmap/trailmap/internal/metrics"
	"github.com/trailmap/trailmap/internal/server/response"
	"github.com/trailmap/trailmap/pkg/logging"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Middleware decorates a handler.
type Middleware = func(http.Handler) http.Handler

// Chain composes mws so that mws[0] sees the request first.
func Chain(mws ...Middleware) Middleware {
	return func(h http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h)
		}
		return h
	}
}

// RequestID reuses an incoming X-Request-ID or mints one, echoes it on the
// response and stores it on the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// Logger writes one access line per request. Handlers find a logger
// scoped to the request with zerolog.Ctx.
func Logger(logger *zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			fields := logger.With().Str("method", r.Method).Str("path", r.URL.Path)
			if id := logging.RequestID(r.Context()); id != "" {
				fields = fields.Str("request_id", id)
			}
			reqLogger := fields.Logger()

			sw := wrap(w)
			next.ServeHTTP(sw, r.WithContext(reqLogger.WithContext(r.Context())))

			level := zerolog.InfoLevel
			if sw.status >= http.StatusInternalServerError {
				level = zerolog.WarnLevel
			}
			reqLogger.WithLevel(level).
				Int("status", sw.status).
				Int("bytes", sw.written).
				Dur("duration_ms", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP request")
		})
	}
}

// Metrics counts requests by method, matched route and status. It has to
// wrap the mux directly, since r.Pattern is only set on the request the
// mux itself received.
func Metrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := wrap(w)
			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(r.Method, route, sw.status)
		})
	}
}

// Recovery answers a panicking handler with a 500 envelope.
func Recovery(logger *zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error().
					Interface("panic", v).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", logging.RequestID(r.Context())).
					Msg("Panic recovered")
				response.InternalError(w, fmt.Errorf("panic: %v", v))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// statusWriter remembers the status and body size written through it.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func wrap(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

// Unwrap lets http.ResponseController reach the connection.
func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Hijack is needed by the websocket upgrader, which type-asserts for it.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer %T cannot be hijacked", w.ResponseWriter)
	}
	return h.Hijack()
}
