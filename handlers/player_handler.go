package handlers

import (
	"errors"
	"net/http"

	"dominion/services"

	"github.com/gin-gonic/gin"
)

type PlayerHandler struct {
	playerService      *services.PlayerService
	leaderboardService *services.LeaderboardService
	hub                *services.Hub
}

func NewPlayerHandler(playerService *services.PlayerService, leaderboardService *services.LeaderboardService, hub *services.Hub) *PlayerHandler {
	return &PlayerHandler{
		playerService:      playerService,
		leaderboardService: leaderboardService,
		hub:                hub,
	}
}

func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address required"})
		return
	}

	player, err := h.playerService.GetPlayer(address)
	if err != nil {
		if errors.Is(err, services.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load player"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":     player.Address,
		"playerName":  player.PlayerName,
		"homeX":       player.HomeX,
		"homeY":       player.HomeY,
		"resources":   player.Resources,
		"buildings":   player.Buildings,
		"fleets":      player.Fleets,
		"lastUpdated": player.LastUpdated,
		"score":       services.ComputeScore(player),
	})
}

func (h *PlayerHandler) UpdatePlayer(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address required"})
		return
	}

	var req services.UpdatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.playerService.UpsertPlayer(address, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save player"})
		return
	}

	// Let connected galaxy maps refresh this commander.
	if h.hub != nil {
		h.hub.BroadcastEvent("player_update", gin.H{"address": player.Address})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"player":  player,
		"score":   services.ComputeScore(player),
	})
}

func (h *PlayerHandler) DeletePlayer(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address required"})
		return
	}

	if err := h.playerService.DeletePlayer(address); err != nil {
		if errors.Is(err, services.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete player"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PlayerHandler) GetPlayerRank(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address required"})
		return
	}

	rank, err := h.leaderboardService.GetPlayerRank(address)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address":      rank.Address,
		"rank":         rank.Rank,
		"totalPlayers": rank.TotalPlayers,
		"score":        rank.Score,
	})
}
