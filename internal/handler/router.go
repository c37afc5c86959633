package handler

import (
	"net/http"
	"time"

	"task_manager/internal/middleware"
	"task_manager/internal/repository"
	"task_manager/internal/service"
	"task_manager/internal/utils"

	"github.com/gin-gonic/gin"
)

// RouterConfig carries everything the HTTP layer depends on
type RouterConfig struct {
	Store         repository.Store
	JWT           *utils.JWTUtil
	AllowedOrigin string
	SecureCookies bool

	// StorageTimeout is the deadline put on every request context
	StorageTimeout time.Duration

	// AccessLog enables gin's request logger
	AccessLog bool
}

// NewRouter wires services, handlers and middleware into a gin engine
func NewRouter(cfg RouterConfig) *gin.Engine {
	cookies := CookieConfig{Secure: cfg.SecureCookies, MaxAge: cfg.JWT.Expiration()}

	authHandler := NewAuthHandler(service.NewAuthService(cfg.Store, cfg.JWT), cookies)
	taskHandler := NewTaskHandler(service.NewTaskService(cfg.Store))
	adminHandler := NewAdminHandler(service.NewAdminService(cfg.Store, cfg.JWT), cookies)

	router := gin.New()
	if cfg.AccessLog {
		router.Use(gin.Logger())
	}
	router.Use(
		Recovery(),
		middleware.RequestID(),
		middleware.CORS(cfg.AllowedOrigin),
		middleware.RequestTimeout(cfg.StorageTimeout),
	)
	router.NoRoute(NoRoute)

	root := router.Group("")
	authHandler.RegisterAuthRoutes(root, middleware.RequireUser(cfg.JWT, cfg.Store))
	taskHandler.RegisterTaskRoutes(root, middleware.RequireUser(cfg.JWT, cfg.Store))
	adminHandler.RegisterAdminRoutes(root, middleware.RequireAdmin(cfg.JWT, cfg.Store))

	router.GET("/health", func(c *gin.Context) {
		if err := cfg.Store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"mensaje": "Base de datos no disponible", "status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"mensaje": "OK", "status": "ok", "db": "healthy"})
	})

	return router
}
