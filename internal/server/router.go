package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cruduser/cruduser/internal/health"
	"github.com/cruduser/cruduser/internal/users"
)

// RouterConfig carries the HTTP settings the router needs
type RouterConfig struct {
	MaxRequestSize int64
}

// NewRouter builds the gin engine serving the user API
func NewRouter(cfg RouterConfig, logger *zap.Logger, userHandlers *users.UserHandlers, healthManager *health.Manager) *gin.Engine {
	router := gin.New()

	router.Use(cors.New(CORSConfig()))
	router.Use(RequestLogger(logger))
	router.Use(gin.Recovery())
	if cfg.MaxRequestSize > 0 {
		router.Use(MaxBodySize(cfg.MaxRequestSize))
	}

	router.GET("/health", func(c *gin.Context) {
		results := healthManager.RuntimeHealthCheck(c.Request.Context())

		services := gin.H{}
		for name, err := range results {
			if err != nil {
				logger.Warn("Health check failed", zap.String("service", name), zap.Error(err))
				services[name] = "unhealthy"
				continue
			}
			services[name] = "healthy"
		}

		status, code := "healthy", http.StatusOK
		if !healthManager.Healthy(results) {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"services":  services,
		})
	})

	userHandlers.RegisterRoutes(router)

	return router
}

// CORSConfig permits any origin with credentials. The request origin is
// echoed back since browsers reject a wildcard on credentialed requests.
func CORSConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOriginFunc = func(origin string) bool { return true }
	cfg.AllowCredentials = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "Accept")
	return cfg
}
