package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ready(t *testing.T, h *Handler) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func up(context.Context) error { return nil }

func TestLivenessHandler_AlwaysReturns200(t *testing.T) {
	h := NewHandler()
	h.Register("places", func(context.Context) error { return fmt.Errorf("down") })

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, StatusUp, resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
	assert.Empty(t, resp.Checks)
}

func TestReadinessHandler_NoCheckers(t *testing.T) {
	code, resp := ready(t, NewHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Nil(t, resp.Info)
}

func TestReadinessHandler_AllUp(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("config", up)
	h.RegisterNonCritical("places", up)

	code, resp := ready(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Status)
	assert.True(t, resp.Checks["config"].Critical)
	assert.False(t, resp.Checks["places"].Critical)
}

func TestReadinessHandler_NonCriticalDown_ReturnsDegraded200(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("config", up)
	h.RegisterNonCritical("places", func(context.Context) error { return fmt.Errorf("dial tcp: no route to host") })

	code, resp := ready(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Equal(t, StatusUp, resp.Checks["config"].Status)
	assert.Equal(t, StatusDown, resp.Checks["places"].Status)
	assert.Equal(t, "dial tcp: no route to host", resp.Checks["places"].Error)
}

func TestReadinessHandler_CriticalDown_Returns503(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("config", func(context.Context) error { return fmt.Errorf("bad") })
	h.RegisterNonCritical("places", func(context.Context) error { return fmt.Errorf("also bad") })

	code, resp := ready(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusDown, resp.Status)
}

func TestRegister_IsCriticalAndOverwrites(t *testing.T) {
	h := NewHandler()
	h.Register("config", func(context.Context) error { return fmt.Errorf("fail") })

	code, resp := ready(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.True(t, resp.Checks["config"].Critical)

	h.Register("config", up)
	code, _ = ready(t, h)
	assert.Equal(t, http.StatusOK, code)
}

func TestReadinessHandler_IncludesInfo(t *testing.T) {
	h := NewHandler()
	h.SetInfo("places_configured", false)

	_, resp := ready(t, h)

	assert.Equal(t, false, resp.Info["places_configured"])
}

func TestTCPDialChecker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	require.NoError(t, TCPDialChecker(srv.URL)(context.Background()))

	addr := srv.URL
	srv.Close()
	assert.Error(t, TCPDialChecker(addr)(context.Background()))
	assert.Error(t, TCPDialChecker("://bad")(context.Background()))
}
