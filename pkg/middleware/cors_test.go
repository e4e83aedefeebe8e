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

func serveCORS(cfg CORSConfig, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/google-reviews?placeId=abc", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rr := httptest.NewRecorder()
	CORS(cfg)(okHandler()).ServeHTTP(rr, req)
	return rr
}

func TestCORS_DevMode_AllowsWildcard(t *testing.T) {
	rr := serveCORS(CORSConfig{Environment: "development"}, http.MethodGet, "https://elsewhere.test")

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORS_ProdMode_AllowedOrigin(t *testing.T) {
	cfg := CORSConfig{
		AllowedOrigins: []string{"https://expedicionandina.com.ar", "https://www.expedicionandina.com.ar/"},
		Environment:    "production",
	}

	rr := serveCORS(cfg, http.MethodGet, "https://www.expedicionandina.com.ar")

	assert.Equal(t, "https://www.expedicionandina.com.ar", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rr.Header().Get("Vary"))
}

func TestCORS_ProdMode_RejectedOrigin(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"https://expedicionandina.com.ar"}, Environment: "production"}

	rr := serveCORS(cfg, http.MethodGet, "https://evil.test")

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	// The request itself is still served; the browser enforces the policy.
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORS_ProdMode_WildcardInList_AllowsAll(t *testing.T) {
	rr := serveCORS(CORSConfig{AllowedOrigins: []string{"*"}, Environment: "production"}, http.MethodGet, "https://any.test")
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightOptions_Returns204(t *testing.T) {
	called := false
	handler := CORS(DefaultCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/google-reviews", nil)
	req.Header.Set("Origin", "https://expedicionandina.com.ar")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, called, "preflight must not reach the handler")
}

func TestCORS_Defaults(t *testing.T) {
	rr := serveCORS(CORSConfig{Environment: "production"}, http.MethodGet, "")

	assert.Equal(t, "GET, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Accept, Content-Type, X-Correlation-ID", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
	assert.Empty(t, rr.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORS_ExposedHeadersAndCredentials(t *testing.T) {
	cfg := CORSConfig{
		AllowedOrigins:   []string{"https://expedicionandina.com.ar"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           600,
	}

	rr := serveCORS(cfg, http.MethodGet, "https://expedicionandina.com.ar")

	assert.Equal(t, "X-Correlation-ID", rr.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "600", rr.Header().Get("Access-Control-Max-Age"))
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "development", cfg.Environment)
	assert.Contains(t, cfg.AllowedMethods, http.MethodGet)
}
