package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cruduser/cruduser/internal/health"
	"github.com/cruduser/cruduser/internal/users"
)

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

func newTestRouter(t *testing.T, pinger health.Pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	store := users.NewInMemoryStore()
	if pinger == nil {
		pinger = store
	}

	service := users.NewUserService(store, users.MD5Hasher{})
	healthManager := health.NewManager(logger)
	healthManager.AddChecker(health.NewStoreChecker(pinger))

	return NewRouter(RouterConfig{MaxRequestSize: 1024}, logger, users.NewUserHandlers(service, logger, false), healthManager)
}

func TestCORSAllowsAnyOriginWithCredentials(t *testing.T) {
	router := newTestRouter(t, nil)

	t.Run("Preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/users", nil)
		req.Header.Set("Origin", "http://frontend.test")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://frontend.test", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	})

	t.Run("SimpleRequest", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Origin", "https://another.example")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://another.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		w := httptest.NewRecorder()
		newTestRouter(t, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"healthy"`)
		assert.Contains(t, w.Body.String(), `"database":"healthy"`)
	})

	t.Run("StoreDown", func(t *testing.T) {
		w := httptest.NewRecorder()
		newTestRouter(t, failingPinger{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"unhealthy"`)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestOversizedBodyIsRejected(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{"email":"a@x.com","name":"` + strings.Repeat("A", 2048) + `","password":"pw1"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
}
