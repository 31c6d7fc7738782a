package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ridelink/internal/config"
	"ridelink/internal/handlers"
	"ridelink/internal/middleware"
	"ridelink/internal/repositories/mongodb"
	"ridelink/internal/services"
	"ridelink/pkg/cache"
	"ridelink/pkg/database"
	"ridelink/pkg/logger"
	"ridelink/pkg/websocket"
	"ridelink/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Storage
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	if err := database.EnsureIndexes(db.Database); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	loginLimiter := cache.NewSlidingWindowLimiter(
		redisCache,
		"login_attempts",
		cfg.Security.MaxLoginAttempts,
		cfg.Security.LoginLockoutTime,
	)

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database)
	riderRepo := mongodb.NewRiderRepository(db.Database)
	rideRepo := mongodb.NewRideRepository(db.Database)
	ratingRepo := mongodb.NewRatingRepository(db.Database)

	// Services
	authService := services.NewAuthService(userRepo, loginLimiter, cfg.Security.JWTSecret, cfg.Security.JWTTokenTTL, log)
	rideService := services.NewRideService(rideRepo, riderRepo, userRepo, log)
	riderService := services.NewRiderService(riderRepo, rideRepo, ratingRepo, redisCache, log)
	ratingService := services.NewRatingService(ratingRepo, rideRepo, riderRepo, redisCache, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	rideHandler := handlers.NewRideHandler(rideService, log)
	riderHandler := handlers.NewRiderHandler(riderService, ratingService, log)
	ratingHandler := handlers.NewRatingHandler(ratingService, log)

	// API server
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))

	api := router.Group("/api")
	{
		routes.SetupAuthRoutes(api, authHandler, cfg.Security.JWTSecret)
		routes.SetupRideRoutes(api, rideHandler, ratingHandler, cfg.Security.JWTSecret)
		routes.SetupRiderRoutes(api, riderHandler, cfg.Security.JWTSecret)
		routes.SetupRatingRoutes(api, ratingHandler, cfg.Security.JWTSecret)
	}

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": cfg.App.Version,
		})
	})

	// Chat broker on its own port
	chatHandler := websocket.NewHandler(log)
	chatRouter := gin.New()
	chatRouter.Use(gin.Recovery())
	chatRouter.GET(cfg.Chat.Path, chatHandler.HandleWebSocket)

	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}
	chatServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Chat.Port),
		Handler: chatRouter,
	}

	go func() {
		log.Infof("API server listening on port %d", cfg.App.Port)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	go func() {
		log.Infof("Chat broker listening on port %d", cfg.Chat.Port)
		if err := chatServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Chat broker failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Errorf("API server shutdown: %v", err)
	}
	if err := chatServer.Shutdown(ctx); err != nil {
		log.Errorf("Chat broker shutdown: %v", err)
	}
}
