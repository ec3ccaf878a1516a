//go:build unit

package middleware_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"stayfinder/internal/handler/middleware"
	"stayfinder/internal/pkg/config"
	"stayfinder/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frontend = "http://localhost:5173"

func newCORSRouter(cfg config.CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := middleware.NewLogger(config.LogConfig{Level: "error", TimeZone: "UTC"})
	router.Use(middleware.NewCORSMiddleware(cfg), logger.LoggingMiddleware())
	router.GET("/api/listings", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"listings": []any{}}) })
	return router
}

func corsConfig(origins ...string) config.CORSConfig {
	return config.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}
}

func headerList(w interface{ Header() http.Header }, key string) string {
	return strings.ToLower(w.Header().Get(key))
}

func TestCORS(t *testing.T) {
	t.Run("preflight from the frontend", func(t *testing.T) {
		router := newCORSRouter(corsConfig(frontend))

		w := httptest.PerformPreflight(t, router, "/api/listings", frontend, http.MethodGet)

		assert.Equal(t, http.StatusNoContent, w.Code)
		httptest.AssertHeaders(t, w, map[string]string{
			"Access-Control-Allow-Origin":      frontend,
			"Access-Control-Allow-Credentials": "true",
		})
		assert.Contains(t, headerList(w, "Access-Control-Allow-Headers"), "x-request-id")
	})

	t.Run("preflight from an unknown origin is refused", func(t *testing.T) {
		router := newCORSRouter(corsConfig(frontend))

		w := httptest.PerformPreflight(t, router, "/api/listings", "http://evil.example", http.MethodGet)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("request id is readable cross-origin", func(t *testing.T) {
		router := newCORSRouter(corsConfig(frontend))

		w := httptest.PerformRequest(t, router, http.MethodGet, "/api/listings", nil, "",
			httptest.WithHeader("Origin", frontend),
			httptest.WithHeader("X-Request-ID", "req-42"),
		)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
		exposed := headerList(w, "Access-Control-Expose-Headers")
		assert.Contains(t, exposed, "x-request-id")
		assert.Contains(t, exposed, "content-length")
	})

	t.Run("configured request id header is not duplicated", func(t *testing.T) {
		cfg := corsConfig(frontend)
		cfg.ExposeHeaders = []string{"x-request-id"}
		router := newCORSRouter(cfg)

		w := httptest.PerformRequest(t, router, http.MethodGet, "/api/listings", nil, "",
			httptest.WithHeader("Origin", frontend))

		assert.Equal(t, 1, strings.Count(headerList(w, "Access-Control-Expose-Headers"), "x-request-id"))
	})

	t.Run("wildcard origin drops credentials", func(t *testing.T) {
		router := newCORSRouter(corsConfig("*"))

		w := httptest.PerformPreflight(t, router, "/api/listings", "http://anywhere.example", http.MethodGet)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})
}
