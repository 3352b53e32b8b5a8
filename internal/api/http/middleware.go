// Package http serves the DDL front end over HTTP.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/arkilian/tsddl/internal/auth"
	"github.com/arkilian/tsddl/internal/errors"
)

type contextKey string

const (
	requestIDKey     contextKey = "request_id"
	correlationIDKey contextKey = "correlation_id"
	userKey          contextKey = "user"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// RequestIDMiddleware adds a unique request_id to each request.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CorrelationIDMiddleware propagates X-Correlation-ID, falling back to the request id.
func CorrelationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get("X-Correlation-ID")
		if correlationID == "" {
			correlationID = GetRequestID(r.Context())
		}
		if correlationID == "" {
			correlationID = uuid.New().String()
		}
		w.Header().Set("X-Correlation-ID", correlationID)

		ctx := context.WithValue(r.Context(), correlationIDKey, correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RecoveryMiddleware turns a panic into a 500 response.
func RecoveryMiddleware(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					requestID := GetRequestID(r.Context())
					log.WithFields(logrus.Fields{
						"request_id": requestID,
						"panic":      p,
					}).Error("Handler panicked")
					writeError(w, http.StatusInternalServerError, "internal server error", errors.CodeUnexpected, requestID)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs one line per request at Info.
func LoggingMiddleware(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"request_id": GetRequestID(r.Context()),
				"status":     rec.status,
				"duration":   time.Since(start),
			}).Info("Request served")
		})
	}
}

// AuthMiddleware resolves the caller from the Authorization header. A nil
// provider lets every request through as the anonymous user.
func AuthMiddleware(provider auth.UserProvider, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authorize(provider, r.Header.Get("Authorization"))
			if err != nil {
				requestID := GetRequestID(r.Context())
				log.WithFields(logrus.Fields{
					"request_id": requestID,
					"code":       errors.GetCode(err),
				}).Warn("Authorization failed")
				w.Header().Set("WWW-Authenticate", `Basic realm="tsddl"`)
				writeError(w, http.StatusUnauthorized, err.Error(), errors.GetCode(err), requestID)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ChainMiddleware applies middlewares so that the first one runs outermost.
func ChainMiddleware(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// DefaultMiddleware returns the chain every route is served through.
func DefaultMiddleware(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return ChainMiddleware(
		RecoveryMiddleware(log),
		RequestIDMiddleware,
		CorrelationIDMiddleware,
		LoggingMiddleware(log),
	)
}

func writeError(w http.ResponseWriter, statusCode int, message, code, requestID string) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestID,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetCorrelationID retrieves the correlation ID from the context.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// GetUser returns the authorized caller, or nil outside AuthMiddleware.
func GetUser(ctx context.Context) *auth.UserInfo {
	if u, ok := ctx.Value(userKey).(*auth.UserInfo); ok {
		return u
	}
	return nil
}
