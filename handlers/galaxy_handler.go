package handlers

import (
	"errors"
	"net/http"
	"time"

	"dominion/services"

	"github.com/gin-gonic/gin"
)

// Invader resolves invasion requests. Satisfied by services.InvasionService.
type Invader interface {
	Invade(req *services.InvasionRequest) (*services.InvasionOutcome, error)
}

type GalaxyHandler struct {
	galaxyService   *services.GalaxyService
	invasionService Invader
}

func NewGalaxyHandler(galaxyService *services.GalaxyService, invasionService Invader) *GalaxyHandler {
	return &GalaxyHandler{
		galaxyService:   galaxyService,
		invasionService: invasionService,
	}
}

func (h *GalaxyHandler) ListPlayers(c *gin.Context) {
	excludeAddress := c.Query("excludeAddress")

	players := h.galaxyService.ListPlayers(excludeAddress)

	c.JSON(http.StatusOK, gin.H{
		"players":      players,
		"totalPlayers": len(players),
		"timestamp":    time.Now().UnixMilli(),
	})
}

func (h *GalaxyHandler) GetInvasionInfo(c *gin.Context) {
	defenderAddress := c.Param("address")
	if defenderAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address required"})
		return
	}
	attackerAddress := c.Query("attackerAddress")

	defender, invasion, err := h.galaxyService.GetInvasionInfo(defenderAddress, attackerAddress)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"defender": defender,
		"invasion": invasion,
	})
}

func (h *GalaxyHandler) Invade(c *gin.Context) {
	var req services.InvasionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.invasionService.Invade(&req)
	if err != nil {
		var insufficient *services.ErrInsufficientShips
		switch {
		case errors.As(err, &insufficient):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    "Not enough ships to invade",
				"required": insufficient.Required,
				"have":     insufficient.Have,
			})
		case errors.Is(err, services.ErrMissingAddress), errors.Is(err, services.ErrSelfInvasion):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAttackerNotFound), errors.Is(err, services.ErrDefenderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve invasion"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"victory": outcome.Victory,
		"battle":  outcome.Battle,
		"loot":    outcome.Loot,
		"message": outcome.Message,
	})
}
