package http

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/arkilian/tsddl/internal/ddl/ast"
	"github.com/arkilian/tsddl/internal/ddl/parser"
	"github.com/arkilian/tsddl/internal/errors"
	"github.com/arkilian/tsddl/internal/observability"
)

// DDLRequest is the body of POST /v1/ddl.
type DDLRequest struct {
	SQL string `json:"sql"`
}

// DDLResponse carries the parsed statements in their JSON envelopes.
type DDLResponse struct {
	Statements []ast.Tagged `json:"statements"`
	RequestID  string       `json:"request_id"`
}

// DDLHandler handles POST /v1/ddl requests.
type DDLHandler struct {
	dialect  parser.Dialect
	maxBytes int64
	stats    *observability.StatementStats
	log      logrus.FieldLogger
}

// NewDDLHandler creates a handler parsing with the given dialect. Bodies
// larger than maxBytes are rejected. stats may be nil.
func NewDDLHandler(d parser.Dialect, maxBytes int64, stats *observability.StatementStats, log logrus.FieldLogger) *DDLHandler {
	return &DDLHandler{
		dialect:  d,
		maxBytes: maxBytes,
		stats:    stats,
		log:      log,
	}
}

// ServeHTTP parses every statement of the request and returns their ASTs.
func (h *DDLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "", requestID)
		return
	}

	var req DDLRequest
	body := http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", h.maxBytes), "", requestID)
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), "", requestID)
		return
	}

	if req.SQL == "" {
		writeError(w, http.StatusBadRequest, "sql is required", "", requestID)
		return
	}

	log := h.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user":       username(r),
	})

	stmts, err := parser.ParseStatements(req.SQL, h.dialect)
	if err != nil {
		log.WithField("code", errors.GetCode(err)).Info("Statement rejected")
		if h.stats != nil {
			h.stats.RecordRejected(errors.GetCode(err))
		}
		writeError(w, statusFor(err), err.Error(), errors.GetCode(err), requestID)
		return
	}

	resp := DDLResponse{
		Statements: make([]ast.Tagged, len(stmts)),
		RequestID:  requestID,
	}
	for i, stmt := range stmts {
		resp.Statements[i] = ast.Tag(stmt)
		if ct, ok := stmt.(*ast.CreateTable); ok {
			fields := logrus.Fields{"table": ct.Name.String()}
			if ti, ok := ct.TimeIndexColumn(); ok {
				fields["time_index"] = ti.Value
			}
			log.WithFields(fields).Debug("Table parsed")
		}
		if h.stats != nil {
			h.stats.RecordAccepted(statementKind(stmt))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func username(r *http.Request) string {
	if u := GetUser(r.Context()); u != nil {
		return u.Username
	}
	return ""
}

func statementKind(stmt ast.Statement) string {
	switch stmt.(type) {
	case *ast.CreateTable:
		return "create_table"
	case *ast.CreateDatabase:
		return "create_database"
	default:
		return "other"
	}
}

// statusFor maps an error category to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCategory(err) {
	case errors.ErrCategorySyntax, errors.ErrCategoryValidation:
		return http.StatusBadRequest
	case errors.ErrCategoryAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// HealthHandler reports liveness and the configured dialect.
func HealthHandler(d parser.Dialect) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "tsddl",
			"dialect": d.Name(),
		})
	}
}

// StatsHandler serves the statement counters, pruning idle entries first.
func StatsHandler(stats *observability.StatementStats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats.Prune()
		writeJSON(w, http.StatusOK, stats.Snapshot())
	}
}
