package routes

import (
	"time"

	"chat-relay/docs"
	"chat-relay/internal/api/handlers"
	"chat-relay/internal/api/middleware"
	"chat-relay/internal/websocket"
	"chat-relay/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterOptions struct {
	AllowedOrigins []string

	// RateLimit is nil when no Redis is configured.
	RateLimit  *middleware.RateLimitMiddleware
	RateLimitN int
	RateWindow time.Duration
}

type Router struct {
	engine        *gin.Engine
	wsHandler     *handlers.WSHandler
	healthHandler *handlers.HealthHandler
	opts          RouterOptions
}

func NewRouter(hub *websocket.Hub, log *logger.Logger, opts RouterOptions) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(opts.AllowedOrigins))
	engine.Use(middleware.LogApi(log.With("component", "http").Logger))

	return &Router{
		engine:        engine,
		wsHandler:     handlers.NewWSHandler(hub),
		healthHandler: handlers.NewHealthHandler(hub),
		opts:          opts,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", r.healthHandler.Health)

	docs.SwaggerInfo.BasePath = "/"
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// WebSocket endpoint, rate limited per IP when Redis is configured
	ws := r.engine.Group("/")
	if r.opts.RateLimit != nil {
		ws.Use(r.opts.RateLimit.WebSocketRateLimitIP(r.opts.RateLimitN, r.opts.RateWindow))
	}
	r.wsHandler.RegisterRoutes(ws)
	r.wsHandler.RegisterRoutes(ws.Group("/api/v1"))

	api := r.engine.Group("/api/v1")
	{
		api.GET("/stats", r.healthHandler.Stats)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
