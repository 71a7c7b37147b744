package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/felixge/httpsnoop"
	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/models/dto"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so that the first one is the outermost.
func Chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// Recover turns a panic in next into a logged 500 with an empty error list.
// The panic value and stack stay in the server log.
func Recover(logger interfaces.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("Recovered from panic while handling request",
					"method", r.Method, "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(dto.UserSignupErrorResponseDTO{ErrorMessages: []string{}})
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs every request with its status and duration.
func RequestLogger(logger interfaces.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)
			logger.Info("Request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", m.Code,
				"bytes", m.Written,
				"duration", m.Duration.String())
		})
	}
}
