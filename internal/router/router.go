// Package router assembles the gin engine shared by every service.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinichub/clinic-services/internal/config"
	"github.com/clinichub/clinic-services/internal/handler"
	"github.com/clinichub/clinic-services/internal/middleware"
)

// Handler is anything that can attach its routes to the engine.
type Handler interface {
	RegisterRoutes(gin.IRouter)
}

// New builds the engine with the common middleware chain, the health and
// metrics endpoints, and every given handler's routes.
func New(cfg *config.Config, handlers ...Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	metrics := middleware.NewMetrics(cfg.ServiceName)

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		metrics.Middleware(),
	)
	if cfg.RateLimit > 0 {
		engine.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Middleware())
	}

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", middleware.RequestIDKey)
	engine.Use(cors.New(corsCfg))

	engine.GET("/health", handler.Health(cfg.ServiceName))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	for _, h := range handlers {
		h.RegisterRoutes(engine)
	}
	return engine
}
