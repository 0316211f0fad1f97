package handler

import (
	"context"
	"net/http"
	"time"

	"stayhost/internal/middleware"
	"stayhost/internal/service"
	"stayhost/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports database reachability for /health
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig carries the process-wide singletons the routes depend on
type RouterConfig struct {
	AllowedOrigins []string
	Cookies        CookieConfig
	JWT            *utils.JWTUtil
	Log            *zap.Logger
	Metrics        *middleware.HTTPMetrics
	DB             Pinger

	Auth     service.AuthService
	Listings service.ListingService
	Media    service.MediaService
}

const healthTimeout = 2 * time.Second

// NewRouter wires middleware and every route onto a fresh gin engine
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	jwtAuthMW := middleware.JWTAuthMiddleware(cfg.JWT)

	NewAuthHandler(cfg.Auth, cfg.JWT, cfg.Cookies, cfg.Log).RegisterAuthRoutes(router)
	NewUploadHandler(cfg.Media, cfg.Log).RegisterUploadRoutes(router)
	NewPlaceHandler(cfg.Listings, cfg.Log).RegisterPlaceRoutes(router, jwtAuthMW)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "server is running"})
	})

	router.GET("/health", func(c *gin.Context) {
		if cfg.DB == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unconfigured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := cfg.DB.Ping(ctx); err != nil {
			middleware.Logger(c, cfg.Log).Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	return router
}
