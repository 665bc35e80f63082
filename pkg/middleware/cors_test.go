package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func corsRequest(h http.Handler, method, origin string, preflight bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/auth/login", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCORS_DefaultOrigins_Allowed(t *testing.T) {
	h := CORS(DefaultCORSConfig())(okHandler())

	for _, origin := range []string{
		"http://localhost:3000", "http://127.0.0.1:3000",
		"http://localhost:5173", "http://127.0.0.1:5173",
	} {
		rr := corsRequest(h, http.MethodGet, origin, false)
		assert.Equal(t, origin, rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Origin", rr.Header().Get("Vary"))
		assert.Equal(t, CorrelationIDHeader, rr.Header().Get("Access-Control-Expose-Headers"))
	}
}

func TestCORS_RejectedOrigin_NoHeaders(t *testing.T) {
	h := CORS(DefaultCORSConfig())(okHandler())

	rr := corsRequest(h, http.MethodGet, "https://evil.example", false)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_RejectedOrigin_PreflightForbidden(t *testing.T) {
	h := CORS(DefaultCORSConfig())(okHandler())

	rr := corsRequest(h, http.MethodOptions, "https://evil.example", true)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCORS_NoOrigin_PassesThrough(t *testing.T) {
	h := CORS(DefaultCORSConfig())(okHandler())

	rr := corsRequest(h, http.MethodGet, "", false)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight_Returns204(t *testing.T) {
	called := false
	h := CORS(DefaultCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := corsRequest(h, http.MethodOptions, "http://localhost:5173", true)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, called)
	assert.Equal(t, "GET, POST, PUT, PATCH, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Equal(t, "600", rr.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_Wildcard(t *testing.T) {
	t.Run("without credentials", func(t *testing.T) {
		h := CORS(CORSConfig{AllowedOrigins: []string{"*"}})(okHandler())
		rr := corsRequest(h, http.MethodGet, "https://any.example", false)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("with credentials echoes origin", func(t *testing.T) {
		h := CORS(CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true})(okHandler())
		rr := corsRequest(h, http.MethodGet, "https://any.example", false)
		assert.Equal(t, "https://any.example", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestCORS_EmptyConfigUsesDefaults(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"https://cards.example/"}})(okHandler())

	rr := corsRequest(h, http.MethodOptions, "https://cards.example", true)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://cards.example", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
}
