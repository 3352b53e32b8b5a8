package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkilian/tsddl/internal/auth"
	"github.com/arkilian/tsddl/internal/ddl/parser"
	"github.com/arkilian/tsddl/internal/errors"
	"github.com/arkilian/tsddl/internal/logging"
	"github.com/arkilian/tsddl/internal/observability"
)

func newTestRouter(provider auth.UserProvider) http.Handler {
	return NewRouter(parser.GenericDialect{}, 1<<10, provider, observability.NewStatementStats(0), logging.Discard())
}

func postDDL(t *testing.T, h http.Handler, sql string, header string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(DDLRequest{SQL: sql})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/ddl", strings.NewReader(string(body)))
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDDLHandler_Success(t *testing.T) {
	h := newTestRouter(nil)
	rec := postDDL(t, h, "create database test; create table demo(ts timestamp time index, host string)", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var resp struct {
		Statements []map[string]json.RawMessage `json:"statements"`
		RequestID  string                       `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Statements, 2)
	assert.Contains(t, resp.Statements[0], "create_database")
	assert.Contains(t, resp.Statements[1], "create_table")
	assert.Equal(t, rec.Header().Get("X-Request-ID"), resp.RequestID)
}

func TestDDLHandler_Rejected(t *testing.T) {
	h := newTestRouter(nil)
	rec := postDDL(t, h, "create table t(a int, b string) partition by range columns (x) (partition r0 values less than (maxvalue))", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.CodeInvalidSQL, resp.Code)
	assert.Contains(t, resp.Error, `Partition column "x" not defined!`)
}

func TestDDLHandler_BadRequests(t *testing.T) {
	h := newTestRouter(nil)

	rec := postDDL(t, h, "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/ddl", strings.NewReader("{not json"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/ddl", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = postDDL(t, h, "create database "+strings.Repeat("x", 2048), "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDDLHandler_Auth(t *testing.T) {
	h := newTestRouter(auth.NewCredentialsStore(map[string]string{"greptime": "greptime"}))

	rec := postDDL(t, h, "create database test", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.CodeMissingAuthHeader, resp.Code)

	rec = postDDL(t, h, "create database test", "Basic dXNlcm5hbWU6cGFzc3dvcmQ=")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postDDL(t, h, "create database test", "Basic Z3JlcHRpbWU6Z3JlcHRpbWU=")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth(t *testing.T) {
	h := newTestRouter(auth.NewCredentialsStore(map[string]string{"greptime": "greptime"}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dialect":"generic"`)
}

func TestStats(t *testing.T) {
	h := newTestRouter(nil)
	postDDL(t, h, "create database a; create table t(ts timestamp time index)", "")
	postDDL(t, h, "drop table t", "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap observability.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Len(t, snap.Accepted, 2)
	require.Len(t, snap.Rejected, 1)
	assert.Equal(t, errors.CodeUnsupported, snap.Rejected[0].Key)
}

func TestDDLHandler_LogsCallerAndTimeIndex(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.NewWithOutput(&buf, "debug")
	require.NoError(t, err)

	store := auth.NewCredentialsStore(map[string]string{"greptime": "greptime"})
	h := NewRouter(parser.GenericDialect{}, 1<<10, store, observability.NewStatementStats(0), log)
	rec := postDDL(t, h, "create table demo(host string, ts timestamp time index)", "Basic Z3JlcHRpbWU6Z3JlcHRpbWU=")
	require.Equal(t, http.StatusOK, rec.Code)

	out := buf.String()
	assert.Contains(t, out, "Table parsed")
	assert.Contains(t, out, "time_index")
	assert.Contains(t, out, "greptime")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(errors.InvalidSQL("x")))
	assert.Equal(t, http.StatusBadRequest, statusFor(errors.Unsupported("drop table t", "DROP")))
	assert.Equal(t, http.StatusUnauthorized, statusFor(errors.NewAuthError(errors.CodeAuthFailed, "x", nil)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.NewInternalError("x", nil)))
}
