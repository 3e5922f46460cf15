package services

import (
	"math/rand"
	"testing"

	"dominion/config"
	"dominion/models"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBalance() config.BalanceConfig {
	return config.BalanceConfig{
		MinShipsRatio:       0.25,
		MinShipsBase:        2,
		VictoryChanceFactor: 0.4,
		VictoryChanceCap:    0.9,
		LootRatioFactor:     0.25,
		LootRatioCap:        0.5,
		AttackerWinLossMin:  0.1,
		AttackerWinLossMax:  0.3,
		AttackerLoseLossMin: 0.3,
		AttackerLoseLossMax: 0.7,
		DefenderWinLossMin:  0.3,
		DefenderWinLossMax:  0.6,
		DefenderLoseLossMin: 0.1,
		DefenderLoseLossMax: 0.3,
	}
}

func fleetOf(id string, quantity int) models.Fleet {
	return models.Fleet{
		ID:    id,
		Ships: []models.Ship{{Type: "fighter", Quantity: quantity}},
	}
}

func TestMinShipsRequiredWorkedExample(t *testing.T) {
	// Defender with 20 ships: floor(20*0.25)+2 = 7.
	assert.Equal(t, 7, MinShipsRequired(20, testBalance()))
	assert.Equal(t, 2, MinShipsRequired(0, testBalance()))
	assert.Equal(t, 2, MinShipsRequired(3, testBalance()))
}

func TestCheckInvasionThresholdRejectsWithoutMutation(t *testing.T) {
	attacker := &models.Player{
		Address:   "0xatk",
		Fleets:    []models.Fleet{fleetOf("a1", 5)},
		Resources: models.Resources{Iron: 300},
	}
	defender := &models.Player{
		Address:   "0xdef",
		Fleets:    []models.Fleet{fleetOf("d1", 20)},
		Resources: models.Resources{Iron: 1000},
	}

	err := checkInvasionThreshold(attacker, defender, testBalance())

	var insufficient *ErrInsufficientShips
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 7, insufficient.Required)
	assert.Equal(t, 5, insufficient.Have)

	// A rejected invasion changes nothing on either side.
	assert.Equal(t, 5, attacker.TotalShips())
	assert.Equal(t, 20, defender.TotalShips())
	assert.Equal(t, int64(300), attacker.Resources.Iron)
	assert.Equal(t, int64(1000), defender.Resources.Iron)

	// At the threshold the invasion proceeds.
	attacker.Fleets = []models.Fleet{fleetOf("a1", 7)}
	assert.NoError(t, checkInvasionThreshold(attacker, defender, testBalance()))
}

// fixedRand always returns the same draw, pinning the victory branch.
type fixedRand struct{ value float64 }

func (f fixedRand) Float64() float64 { return f.value }

func TestResolveBattleDeterministicWithSeededRand(t *testing.T) {
	run := func() BattleResult {
		attacker := &models.Player{Address: "0xatk", Fleets: []models.Fleet{fleetOf("a1", 100)}}
		defender := &models.Player{
			Address:   "0xdef",
			Fleets:    []models.Fleet{fleetOf("d1", 40)},
			Resources: models.Resources{Iron: 1000, Deuterium: 400, Crystals: 20},
		}
		return ResolveBattle(attacker, defender, rand.New(rand.NewSource(42)), testBalance())
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestResolveBattleVictoryTransfersLoot(t *testing.T) {
	attacker := &models.Player{Address: "0xatk", Fleets: []models.Fleet{fleetOf("a1", 100)}}
	defender := &models.Player{
		Address:   "0xdef",
		Fleets:    []models.Fleet{fleetOf("d1", 40)},
		Resources: models.Resources{Iron: 1000, Deuterium: 400, Crystals: 20},
	}
	before := defender.Resources

	// powerRatio 2.5 caps victoryChance at 0.9; a low draw wins.
	result := ResolveBattle(attacker, defender, fixedRand{value: 0.0}, testBalance())

	require.True(t, result.Victory)
	require.NotNil(t, result.Loot)

	// powerRatio*0.25 would be 0.625, so loot is capped at half.
	assert.Equal(t, int64(500), result.Loot.Iron)
	assert.Equal(t, int64(200), result.Loot.Deuterium)
	assert.Equal(t, int64(10), result.Loot.Crystals)

	assert.Equal(t, before.Iron-result.Loot.Iron, defender.Resources.Iron)
	assert.Equal(t, result.Loot.Iron, attacker.Resources.Iron)
}

func TestResolveBattleVictoryChanceCapped(t *testing.T) {
	overwhelming := func() (*models.Player, *models.Player) {
		attacker := &models.Player{Address: "0xatk", Fleets: []models.Fleet{fleetOf("a1", 1_000_000)}}
		defender := &models.Player{
			Address:   "0xdef",
			Fleets:    []models.Fleet{fleetOf("d1", 1)},
			Resources: models.Resources{Iron: 1000},
		}
		return attacker, defender
	}

	// Just under the cap wins, just over it loses, no matter how
	// lopsided the power ratio is.
	attacker, defender := overwhelming()
	result := ResolveBattle(attacker, defender, fixedRand{value: 0.89}, testBalance())
	assert.True(t, result.Victory)

	attacker, defender = overwhelming()
	result = ResolveBattle(attacker, defender, fixedRand{value: 0.91}, testBalance())
	assert.False(t, result.Victory)
	assert.Nil(t, result.Loot)
	assert.Equal(t, int64(1000), defender.Resources.Iron)
}

func TestResolveBattleDefeatLeavesResourcesAlone(t *testing.T) {
	attacker := &models.Player{Address: "0xatk", Fleets: []models.Fleet{fleetOf("a1", 10)}}
	defender := &models.Player{
		Address:   "0xdef",
		Fleets:    []models.Fleet{fleetOf("d1", 40)},
		Resources: models.Resources{Iron: 1000},
	}

	// powerRatio 0.25 gives victoryChance 0.1; a high draw loses.
	result := ResolveBattle(attacker, defender, fixedRand{value: 0.99}, testBalance())

	assert.False(t, result.Victory)
	assert.Nil(t, result.Loot)
	assert.Equal(t, int64(1000), defender.Resources.Iron)
	assert.Equal(t, int64(0), attacker.Resources.Iron)
}

func TestResolveBattleNoNegativeQuantities(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("no ship quantity or resource goes negative", prop.ForAll(
		func(attackerShips, defenderShips int, iron int64, seed int64) bool {
			attacker := &models.Player{Address: "0xatk", Fleets: []models.Fleet{fleetOf("a1", attackerShips)}}
			defender := &models.Player{
				Address:   "0xdef",
				Fleets:    []models.Fleet{fleetOf("d1", defenderShips)},
				Resources: models.Resources{Iron: iron},
			}

			ResolveBattle(attacker, defender, rand.New(rand.NewSource(seed)), testBalance())

			for _, p := range []*models.Player{attacker, defender} {
				if p.Resources.Iron < 0 || p.Resources.Deuterium < 0 || p.Resources.Crystals < 0 {
					return false
				}
				for _, fleet := range p.Fleets {
					for _, ship := range fleet.Ships {
						if ship.Quantity < 0 {
							return false
						}
					}
				}
			}
			return true
		},
		gen.IntRange(0, 10_000),
		gen.IntRange(0, 10_000),
		gen.Int64Range(0, 1_000_000),
		gen.Int64(),
	))

	properties.Property("loot never exceeds half the defender stores", prop.ForAll(
		func(attackerShips, defenderShips int, iron int64, seed int64) bool {
			defender := &models.Player{
				Address:   "0xdef",
				Fleets:    []models.Fleet{fleetOf("d1", defenderShips)},
				Resources: models.Resources{Iron: iron},
			}
			attacker := &models.Player{Address: "0xatk", Fleets: []models.Fleet{fleetOf("a1", attackerShips)}}

			result := ResolveBattle(attacker, defender, rand.New(rand.NewSource(seed)), testBalance())
			if result.Loot == nil {
				return true
			}
			return result.Loot.Iron <= iron/2+1
		},
		gen.IntRange(1, 100_000),
		gen.IntRange(0, 100),
		gen.Int64Range(0, 1_000_000),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestResolveBattleShipsLostAccounting(t *testing.T) {
	attacker := &models.Player{Address: "0xatk", Fleets: []models.Fleet{fleetOf("a1", 100)}}
	defender := &models.Player{Address: "0xdef", Fleets: []models.Fleet{fleetOf("d1", 40)}}

	result := ResolveBattle(attacker, defender, rand.New(rand.NewSource(7)), testBalance())

	assert.Equal(t, 100-attacker.TotalShips(), result.AttackerShipsLost)
	assert.Equal(t, 40-defender.TotalShips(), result.DefenderShipsLost)
}
