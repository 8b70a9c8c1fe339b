package main

// @title           Consultation Chat Relay API
// @version         1.0
// @description     Real-time relay that rooms socket sessions by user id and fans chat messages out to sender and recipient.
// @host            localhost:3001
// @BasePath        /
// @schemes         http ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chat-relay/internal/api/middleware"
	"chat-relay/internal/api/routes"
	"chat-relay/internal/config"
	"chat-relay/internal/database"
	"chat-relay/internal/services"
	"chat-relay/internal/websocket"
	"chat-relay/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	appLogger.Info("Starting chat relay", "port", cfg.Server.Port)

	routerOpts := routes.RouterOptions{
		AllowedOrigins: cfg.WebSocket.AllowedOrigins,
		RateLimitN:     cfg.WebSocket.RateLimit,
		RateWindow:     cfg.WebSocket.RateWindow,
	}

	// Redis only backs connect rate limiting; the relay runs without it
	if cfg.Redis.URI != "" {
		redisClient, err := database.NewRedisConnection(cfg.Redis, appLogger)
		if err != nil {
			appLogger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		redisService := services.NewRedisService(redisClient)
		routerOpts.RateLimit = middleware.NewRateLimitMiddleware(redisService, appLogger.Logger)
	} else {
		appLogger.Info("REDIS_URL not set, WebSocket rate limiting disabled")
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub(websocket.HubConfig{
		SendBufferSize: cfg.WebSocket.SendBufferSize,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		AllowedOrigins: cfg.WebSocket.AllowedOrigins,
	}, appLogger.With("component", "hub"))
	go hub.Run()

	router := routes.NewRouter(hub, appLogger, routerOpts)
	router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown; the hub closes them
	hub.Stop()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server stopped")
}
