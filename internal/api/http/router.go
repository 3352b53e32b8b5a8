package http

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/arkilian/tsddl/internal/auth"
	"github.com/arkilian/tsddl/internal/ddl/parser"
	"github.com/arkilian/tsddl/internal/observability"
)

// NewRouter wires the DDL, stats and health routes. Health is served
// without authorization.
func NewRouter(d parser.Dialect, maxBytes int64, provider auth.UserProvider, stats *observability.StatementStats, log logrus.FieldLogger) http.Handler {
	authorize := AuthMiddleware(provider, log)

	mux := http.NewServeMux()
	mux.Handle("/v1/ddl", authorize(NewDDLHandler(d, maxBytes, stats, log)))
	mux.Handle("/v1/stats", authorize(StatsHandler(stats)))
	mux.Handle("/health", HealthHandler(d))
	return DefaultMiddleware(log)(mux)
}
