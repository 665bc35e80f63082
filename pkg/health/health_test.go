package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(context.Context) error { return nil }

func failing(msg string) Checker {
	return func(context.Context) error { return fmt.Errorf("%s", msg) }
}

func serveReady(t *testing.T, h *Handler) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestLivenessHandler_ReportsHealthy(t *testing.T) {
	h := NewHandler()
	h.Register("postgres", failing("down"))

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestReadinessHandler_AllHealthy(t *testing.T) {
	h := NewHandler()
	h.Register("postgres", ok)
	h.RegisterNonCritical("db_pool", ok)

	rec, resp := serveReady(t, h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusHealthy, resp.Status)
	require.NotNil(t, resp.Timestamp)
	assert.Len(t, resp.Checks, 2)
}

func TestReadinessHandler_NoCheckers(t *testing.T) {
	rec, resp := serveReady(t, NewHandler())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusHealthy, resp.Status)
}

func TestReadinessHandler_CriticalDown_Returns503(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("postgres", failing("connection refused"))
	h.RegisterNonCritical("db_pool", ok)

	rec, resp := serveReady(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.True(t, resp.Checks["postgres"].Critical)
	assert.Equal(t, "connection refused", resp.Checks["postgres"].Error)
}

func TestReadinessHandler_NonCriticalDown_ReturnsDegraded200(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("postgres", ok)
	h.RegisterNonCritical("db_pool", failing("pool exhausted"))

	rec, resp := serveReady(t, h)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Equal(t, StatusHealthy, resp.Checks["postgres"].Status)
	assert.False(t, resp.Checks["db_pool"].Critical)
}

func TestReadinessHandler_CriticalOutranksDegraded(t *testing.T) {
	h := NewHandler()
	h.RegisterNonCritical("a_pool", failing("pool exhausted"))
	h.RegisterCritical("postgres", failing("db down"))

	rec, resp := serveReady(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, StatusUnhealthy, resp.Status)
}

func TestRegister_IsCriticalAndOverwrites(t *testing.T) {
	h := NewHandler()
	h.RegisterNonCritical("postgres", ok)
	h.Register("postgres", failing("fail"))

	rec, resp := serveReady(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Len(t, resp.Checks, 1)
	assert.True(t, resp.Checks["postgres"].Critical)
}

func TestEvaluate_HonorsContextDeadline(t *testing.T) {
	h := NewHandler()
	h.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	resp := h.Evaluate(ctx)
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Contains(t, resp.Checks["slow"].Error, "deadline exceeded")
}
