package handlers

import (
	"net/http"
	"time"

	"dominion/services"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	sortBy := c.DefaultQuery("sortBy", "score")
	limit := services.ParseLimit(c.Query("limit"))

	entries, totalPlayers := h.leaderboardService.GetLeaderboard(sortBy, limit)

	c.JSON(http.StatusOK, gin.H{
		"leaderboard":  entries,
		"totalPlayers": totalPlayers,
		"lastUpdated":  time.Now().UnixMilli(),
	})
}
