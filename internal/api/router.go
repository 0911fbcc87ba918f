package api

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	Handler        *Handler
	ServiceName    string
	AllowedOrigins []string
	APIKey         string
	RateLimiter    *RateLimiter // nil disables per-IP limiting
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(RequestLogger(cfg.Handler.log))
	router.Use(CORS(cfg.AllowedOrigins))
	if cfg.RateLimiter != nil {
		router.Use(cfg.RateLimiter.Middleware())
	}

	cfg.Handler.RegisterRoutes(router, APIKeyAuth(cfg.APIKey))
	return router
}
