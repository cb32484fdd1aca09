package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashbonde99/CarRentalServicesProject/pkg/health"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthGet(t *testing.T) {
	t.Run("healthy with reachable database", func(t *testing.T) {
		handler := health.HealthGet(pingerFunc(func(ctx context.Context) error { return nil }))

		req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response health.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "ok", response.Database)
		assert.NotEmpty(t, response.GoVersion)
	})

	t.Run("degraded when the database is unreachable", func(t *testing.T) {
		handler := health.HealthGet(pingerFunc(func(ctx context.Context) error { return errors.New("dial refused") }))

		req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response health.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "degraded", response.Status)
		assert.Equal(t, "unreachable", response.Database)
	})

	t.Run("nil pinger skips the database check", func(t *testing.T) {
		handler := health.HealthGet(nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response health.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Empty(t, response.Database)
	})

	t.Run("rejects non-GET methods", func(t *testing.T) {
		handler := health.HealthGet(nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/health", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
