package services

import (
	"dominion/models"
)

// Weights for the competitive score formula.
const (
	buildingScoreWeight      = 100
	buildingLevelScoreWeight = 50
	fleetScoreWeight         = 200
	shipScoreWeight          = 10
	resourceScoreDivisor     = 100
)

// ScoreBreakdown is the per-component view of a player's score. It is
// recomputed on every request and never stored.
type ScoreBreakdown struct {
	BuildingScore      int `json:"buildingScore"`
	BuildingLevelScore int `json:"buildingLevelScore"`
	FleetScore         int `json:"fleetScore"`
	ShipScore          int `json:"shipScore"`
	ResourceScore      int `json:"resourceScore"`
	Total              int `json:"total"`
}

// ComputeScore maps a player record to its integer score. Total
// function: missing collections count as empty, missing numbers as
// zero, and the result is non-negative for non-negative inputs.
func ComputeScore(player *models.Player) int {
	return ComputeScoreBreakdown(player).Total
}

// ComputeScoreBreakdown computes every score component.
func ComputeScoreBreakdown(player *models.Player) ScoreBreakdown {
	b := ScoreBreakdown{}
	if player == nil {
		return b
	}

	b.BuildingScore = len(player.Buildings) * buildingScoreWeight
	b.BuildingLevelScore = player.TotalBuildingLevels() * buildingLevelScoreWeight
	b.FleetScore = len(player.Fleets) * fleetScoreWeight
	b.ShipScore = player.TotalShips() * shipScoreWeight

	r := player.Resources
	b.ResourceScore = int((r.Iron + r.Deuterium*2 + r.Crystals*5) / resourceScoreDivisor)

	b.Total = b.BuildingScore + b.BuildingLevelScore + b.FleetScore + b.ShipScore + b.ResourceScore
	return b
}

// PowerLevel is the coarse strength indicator shown on the galaxy map.
func PowerLevel(score int) int {
	return score / 100
}
