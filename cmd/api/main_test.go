package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schemalens/core/internal/config"
	"github.com/schemalens/core/internal/handlers"
	"github.com/schemalens/core/internal/service"
)

type stubService struct{}

func (s *stubService) EnsureGraph(ctx context.Context, req service.EnsureRequest) (*service.GraphResult, error) {
	return &service.GraphResult{FromCache: true, Timestamp: 1700000000000}, nil
}

func (s *stubService) ClearGraph(ctx context.Context, instance string) error {
	return nil
}

func testRouter() http.Handler {
	cfg := &config.Config{}
	cfg.CORS.AllowedOrigin = "*"
	return newRouter(&stubService{}, cfg, zap.NewNop())
}

func TestMainRoutes(t *testing.T) {
	router := testRouter()

	t.Run("health endpoint is accessible", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("ensure endpoint is accessible", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/graph/ensure",
			strings.NewReader(`{"instance": "acme.my.salesforce.com"}`))
		req.Header.Set("Authorization", "Bearer tok")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var result service.GraphResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
		assert.True(t, result.FromCache)
	})

	t.Run("clear endpoint is accessible", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/v1/graph?instance=acme.my.salesforce.com", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("cors headers are set", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight is answered", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/graph/ensure", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("non-existent route returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("wrong method returns 405", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/graph/ensure", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("ensure without a token returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/graph/ensure",
			strings.NewReader(`{"instance": "acme.my.salesforce.com"}`))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

var _ handlers.GraphService = (*stubService)(nil)
