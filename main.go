package main

import (
	"log"
	"math/rand"
	"time"

	"dominion/config"
	"dominion/handlers"
	"dominion/logger"
	"dominion/middleware"
	"dominion/models"
	"dominion/routes"
	"dominion/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zlog, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Player{},
		&models.Building{},
		&models.Fleet{},
		&models.Ship{},
	)
	if err != nil {
		zlog.Fatal("failed to migrate database", zap.Error(err))
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize websocket hub
	hub := services.NewHub(zlog)
	go hub.Run()

	// Initialize services
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	playerService := services.NewPlayerService(db, cfg, zlog)
	leaderboardService := services.NewLeaderboardService(playerService, redisClient, cfg, zlog)
	galaxyService := services.NewGalaxyService(playerService, cfg, zlog)
	invasionService := services.NewInvasionService(db, cfg, rng, hub, zlog)
	authService := services.NewAuthService(playerService, cfg.JWTSecret)

	// Initialize handlers
	playerHandler := handlers.NewPlayerHandler(playerService, leaderboardService, hub)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	galaxyHandler := handlers.NewGalaxyHandler(galaxyService, invasionService)
	authHandler := handlers.NewAuthHandler(authService)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.CORS())

	routes.SetupRoutes(router, playerHandler, leaderboardHandler, galaxyHandler, authHandler,
		hub, cfg.JWTSecret, cfg.Galaxy.InvadeRatePerMinute, zlog)

	// Start server
	zlog.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
