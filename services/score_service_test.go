package services

import (
	"testing"

	"dominion/models"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestComputeScoreEmptyPlayer(t *testing.T) {
	assert.Equal(t, 0, ComputeScore(&models.Player{Address: "0xabc"}))
	assert.Equal(t, 0, ComputeScore(nil))
}

func TestComputeScoreWorkedExample(t *testing.T) {
	// 2 buildings (levels 1 and 2), 1 fleet of 10 scouts, 1000 iron.
	player := &models.Player{
		Address: "0xabc",
		Buildings: []models.Building{
			{Type: "miner_drone", Level: 1},
			{Type: "shipyard", Level: 2},
		},
		Fleets: []models.Fleet{
			{ID: "f1", Name: "First Fleet", Ships: []models.Ship{
				{Type: "scout", Quantity: 10},
			}},
		},
		Resources: models.Resources{Iron: 1000},
	}

	breakdown := ComputeScoreBreakdown(player)
	assert.Equal(t, 200, breakdown.BuildingScore)
	assert.Equal(t, 150, breakdown.BuildingLevelScore)
	assert.Equal(t, 200, breakdown.FleetScore)
	assert.Equal(t, 100, breakdown.ShipScore)
	assert.Equal(t, 10, breakdown.ResourceScore)
	assert.Equal(t, 660, breakdown.Total)
	assert.Equal(t, 660, ComputeScore(player))
}

func TestComputeScoreZeroLevelCountsAsOne(t *testing.T) {
	player := &models.Player{
		Address:   "0xabc",
		Buildings: []models.Building{{Type: "warp_gate"}},
	}
	// 1*100 + 1*50
	assert.Equal(t, 150, ComputeScore(player))
}

func TestComputeScoreResourceWeights(t *testing.T) {
	player := &models.Player{
		Address:   "0xabc",
		Resources: models.Resources{Iron: 100, Deuterium: 100, Crystals: 100},
	}
	// (100 + 200 + 500) / 100
	assert.Equal(t, 8, ComputeScore(player))
}

func TestPowerLevel(t *testing.T) {
	assert.Equal(t, 0, PowerLevel(99))
	assert.Equal(t, 1, PowerLevel(100))
	assert.Equal(t, 6, PowerLevel(660))
}

func TestComputeScoreMonotonicityProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	basePlayer := func(buildings, ships int, iron int64) *models.Player {
		p := &models.Player{Address: "0xabc", Resources: models.Resources{Iron: iron}}
		for i := 0; i < buildings; i++ {
			p.Buildings = append(p.Buildings, models.Building{Type: "miner_drone", Level: 1})
		}
		p.Fleets = []models.Fleet{{ID: "f1", Ships: []models.Ship{{Type: "scout", Quantity: ships}}}}
		return p
	}

	properties.Property("score never decreases when a building is added", prop.ForAll(
		func(buildings, ships int, iron int64) bool {
			before := ComputeScore(basePlayer(buildings, ships, iron))
			after := ComputeScore(basePlayer(buildings+1, ships, iron))
			return after >= before
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 1000),
		gen.Int64Range(0, 1_000_000),
	))

	properties.Property("score never decreases when ships are added", prop.ForAll(
		func(buildings, ships, extra int, iron int64) bool {
			before := ComputeScore(basePlayer(buildings, ships, iron))
			after := ComputeScore(basePlayer(buildings, ships+extra, iron))
			return after >= before
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
		gen.Int64Range(0, 1_000_000),
	))

	properties.Property("score never decreases when iron is added", prop.ForAll(
		func(buildings, ships int, iron, extra int64) bool {
			before := ComputeScore(basePlayer(buildings, ships, iron))
			after := ComputeScore(basePlayer(buildings, ships, iron+extra))
			return after >= before
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 1000),
		gen.Int64Range(0, 1_000_000),
		gen.Int64Range(0, 1_000_000),
	))

	properties.Property("score is non-negative for non-negative inputs", prop.ForAll(
		func(buildings, ships int, iron int64) bool {
			return ComputeScore(basePlayer(buildings, ships, iron)) >= 0
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 1000),
		gen.Int64Range(0, 1_000_000),
	))

	properties.TestingRun(t)
}
