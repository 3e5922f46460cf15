package services

import (
	"testing"

	"dominion/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRankedPlayers() []models.Player {
	return []models.Player{
		{
			Address:   "0xccc",
			Resources: models.Resources{Iron: 10_000}, // resourceScore 100
		},
		{
			Address:    "0xaaa",
			PlayerName: "Ada",
			Buildings: []models.Building{
				{Type: "miner_drone", Level: 3},
				{Type: "shipyard", Level: 1},
			}, // score 400
		},
		{
			Address: "0xbbb",
			Fleets: []models.Fleet{
				{ID: "f1", Ships: []models.Ship{{Type: "fighter", Quantity: 30}}},
			}, // score 500
		},
	}
}

func TestBuildLeaderboardSortsByScoreDescending(t *testing.T) {
	entries := BuildLeaderboard(makeRankedPlayers(), "score", 100)

	require.Len(t, entries, 3)
	assert.Equal(t, "0xbbb", entries[0].Address)
	assert.Equal(t, "0xaaa", entries[1].Address)
	assert.Equal(t, "0xccc", entries[2].Address)

	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, entries[i-1].Score, e.Score)
		}
	}
}

func TestBuildLeaderboardSortMetrics(t *testing.T) {
	players := makeRankedPlayers()

	byBuildings := BuildLeaderboard(players, "buildings", 100)
	assert.Equal(t, "0xaaa", byBuildings[0].Address)

	byShips := BuildLeaderboard(players, "ships", 100)
	assert.Equal(t, "0xbbb", byShips[0].Address)

	byResources := BuildLeaderboard(players, "resources", 100)
	assert.Equal(t, "0xccc", byResources[0].Address)

	// Unknown metric falls back to score.
	byUnknown := BuildLeaderboard(players, "bogus", 100)
	assert.Equal(t, "0xbbb", byUnknown[0].Address)
}

func TestBuildLeaderboardTiesBrokenByAddress(t *testing.T) {
	players := []models.Player{
		{Address: "0xbbb"},
		{Address: "0xaaa"},
		{Address: "0xccc"},
	}

	entries := BuildLeaderboard(players, "score", 100)
	require.Len(t, entries, 3)
	assert.Equal(t, "0xaaa", entries[0].Address)
	assert.Equal(t, "0xbbb", entries[1].Address)
	assert.Equal(t, "0xccc", entries[2].Address)
}

func TestBuildLeaderboardTruncatesAndRanksContiguously(t *testing.T) {
	entries := BuildLeaderboard(makeRankedPlayers(), "score", 2)

	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestBuildLeaderboardDefaultsMissingName(t *testing.T) {
	entries := BuildLeaderboard([]models.Player{{Address: "0xabc"}}, "score", 100)
	require.Len(t, entries, 1)
	assert.Equal(t, models.DefaultPlayerName, entries[0].PlayerName)
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 100, ParseLimit(""))
	assert.Equal(t, 100, ParseLimit("abc"))
	assert.Equal(t, 100, ParseLimit("-5"))
	assert.Equal(t, 100, ParseLimit("0"))
	assert.Equal(t, 25, ParseLimit("25"))
}

func TestRankOf(t *testing.T) {
	players := makeRankedPlayers()

	rank, ok := RankOf(players, "0xAAA") // mixed case lookup
	require.True(t, ok)
	assert.Equal(t, "0xaaa", rank.Address)
	assert.Equal(t, 2, rank.Rank)
	assert.Equal(t, 3, rank.TotalPlayers)
	assert.Equal(t, 400, rank.Score)

	assert.GreaterOrEqual(t, rank.Rank, 1)
	assert.LessOrEqual(t, rank.Rank, rank.TotalPlayers)

	_, ok = RankOf(players, "0xdead")
	assert.False(t, ok)
}
