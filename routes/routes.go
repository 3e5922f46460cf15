package routes

import (
	"net/http"
	"time"

	"dominion/handlers"
	"dominion/middleware"
	"dominion/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	playerHandler *handlers.PlayerHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	galaxyHandler *handlers.GalaxyHandler,
	authHandler *handlers.AuthHandler,
	hub *services.Hub,
	jwtSecret string,
	invadeRatePerMinute int,
	log *zap.Logger,
) {
	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "ok",
				"timestamp": time.Now().UnixMilli(),
			})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/session", authHandler.CreateSession)
			auth.GET("/profile", middleware.AuthMiddleware(jwtSecret), authHandler.GetProfile)
		}

		player := api.Group("/player")
		{
			player.GET("/:address", playerHandler.GetPlayer)
			player.POST("/:address", playerHandler.UpdatePlayer)
			player.DELETE("/:address", playerHandler.DeletePlayer)
			player.GET("/:address/rank", playerHandler.GetPlayerRank)
		}

		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		galaxy := api.Group("/galaxy")
		{
			galaxy.GET("/players", galaxyHandler.ListPlayers)
			galaxy.GET("/player/:address", galaxyHandler.GetInvasionInfo)
			galaxy.POST("/invade", middleware.RateLimit(invadeRatePerMinute), galaxyHandler.Invade)
		}
	}

	// Live galaxy event feed for connected map clients.
	router.GET("/ws/galaxy", func(c *gin.Context) {
		address := c.Query("address")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
			return
		}

		hub.RegisterClient(conn, address)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
