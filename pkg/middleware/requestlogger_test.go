package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/DannyJSullivan/card-inventory-api/pkg/logger"
)

func newTestLogger(w *bytes.Buffer) *slog.Logger {
	return logger.NewWithWriter("cardinventory", "info", w)
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var out map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &out))
	return out
}

func logFromHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).InfoContext(r.Context(), "handler log")
	})
}

func TestRequestLogger_StoresEnrichedLogger(t *testing.T) {
	var buf bytes.Buffer

	ctx := logger.WithCorrelationID(context.Background(), "corr-123")
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	RequestLogger(newTestLogger(&buf))(logFromHandler()).ServeHTTP(httptest.NewRecorder(), req)

	out := lastLine(t, &buf)
	assert.Equal(t, "handler log", out["msg"])
	assert.Equal(t, "corr-123", out["correlation_id"])
	assert.NotContains(t, out, "username")
}

func TestRequestLogger_IncludesTraceFields(t *testing.T) {
	var buf bytes.Buffer

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	RequestLogger(newTestLogger(&buf))(logFromHandler()).ServeHTTP(httptest.NewRecorder(), req)

	out := lastLine(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", out["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", out["span_id"])
}

func TestRequestLogger_ThenAuthAddsUsername(t *testing.T) {
	var buf bytes.Buffer
	validate := func(context.Context, string) (string, error) { return "alice", nil }

	h := RequestLogger(newTestLogger(&buf))(Auth(validate)(logFromHandler()))
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "alice", lastLine(t, &buf)["username"])
}

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	var buf bytes.Buffer

	var seen string
	h := RequestLogging(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(CorrelationIDHeader))

	out := lastLine(t, &buf)
	assert.Equal(t, "http request", out["msg"])
	assert.Equal(t, "INFO", out["level"])
	assert.EqualValues(t, http.StatusCreated, out["status"])
	assert.Equal(t, seen, out["correlation_id"])
}

func TestRequestLogging_ReusesInboundCorrelationID(t *testing.T) {
	var buf bytes.Buffer

	h := RequestLogging(newTestLogger(&buf))(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationIDHeader, "from-gateway")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "from-gateway", rec.Header().Get(CorrelationIDHeader))
}

func TestRequestLogging_ServerErrorLogsAtError(t *testing.T) {
	var buf bytes.Buffer

	h := RequestLogging(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "ERROR", lastLine(t, &buf)["level"])
}
