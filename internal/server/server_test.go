// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/delivery-admin/internal/config"
)

type drainRecorder struct{ shutdown bool }

func (d *drainRecorder) SetShutdown(v bool) { d.shutdown = v }

func testConfig() config.ServerConfig {
	return config.ServerConfig{
		Host:         "127.0.0.1",
		Port:         0,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Second,
	}
}

func TestRouterServesMetricsAndRecovers(t *testing.T) {
	srv := New(Config{ServerConfig: testConfig()})
	srv.MountMetrics("/metrics")
	srv.Router().Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestShutdownMarksDraining(t *testing.T) {
	drain := &drainRecorder{}
	srv := New(Config{ServerConfig: testConfig(), HealthHandler: drain})

	require.NoError(t, srv.Shutdown(context.Background(), 0))
	assert.True(t, drain.shutdown)
	require.NoError(t, srv.Start())
}
