package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"dominion/config"
	"dominion/metrics"
	"dominion/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultLeaderboardLimit = 100

// LeaderboardEntry is one ranked row. Recomputed per request, never
// stored.
type LeaderboardEntry struct {
	Rank           int              `json:"rank"`
	Address        string           `json:"address"`
	PlayerName     string           `json:"playerName"`
	Buildings      int              `json:"buildings"`
	BuildingLevels int              `json:"buildingLevels"`
	Fleets         int              `json:"fleets"`
	Ships          int              `json:"ships"`
	Resources      models.Resources `json:"resources"`
	Score          int              `json:"score"`
	LastUpdated    int64            `json:"lastUpdated"`
}

// PlayerRank is the single-address rank lookup result.
type PlayerRank struct {
	Address      string `json:"address"`
	Rank         int    `json:"rank"`
	TotalPlayers int    `json:"totalPlayers"`
	Score        int    `json:"score"`
}

type LeaderboardService struct {
	players *PlayerService
	redis   *redis.Client
	cfg     *config.Config
	log     *zap.Logger
}

func NewLeaderboardService(players *PlayerService, redisClient *redis.Client, cfg *config.Config, log *zap.Logger) *LeaderboardService {
	return &LeaderboardService{
		players: players,
		redis:   redisClient,
		cfg:     cfg,
		log:     log,
	}
}

// ParseLimit parses the limit query parameter; un-parseable, absent
// or non-positive values fall back to the default page size.
func ParseLimit(raw string) int {
	if raw == "" {
		return defaultLeaderboardLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultLeaderboardLimit
	}
	return limit
}

// sortKey returns the value an entry is ranked by for a given metric.
func sortKey(e LeaderboardEntry, sortBy string) int64 {
	switch sortBy {
	case "buildings":
		return int64(e.Buildings)
	case "ships":
		return int64(e.Ships)
	case "resources":
		return e.Resources.Total()
	default: // score, including unknown metrics
		return int64(e.Score)
	}
}

// BuildLeaderboard builds, sorts and truncates entries for a player
// set. Descending by the chosen metric, ties broken by ascending
// address so ordering is deterministic. Ranks are the 1-based
// positions in the truncated sequence.
func BuildLeaderboard(players []models.Player, sortBy string, limit int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(players))
	for i := range players {
		p := &players[i]
		entries = append(entries, LeaderboardEntry{
			Address:        p.Address,
			PlayerName:     p.DisplayName(),
			Buildings:      len(p.Buildings),
			BuildingLevels: p.TotalBuildingLevels(),
			Fleets:         len(p.Fleets),
			Ships:          p.TotalShips(),
			Resources:      p.Resources,
			Score:          ComputeScore(p),
			LastUpdated:    p.LastUpdated,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		ki, kj := sortKey(entries[i], sortBy), sortKey(entries[j], sortBy)
		if ki != kj {
			return ki > kj
		}
		return entries[i].Address < entries[j].Address
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// RankOf finds a player's 1-based position when the full set is
// ranked by score only. Returns false when the address is absent.
func RankOf(players []models.Player, address string) (PlayerRank, bool) {
	normalized := models.NormalizeAddress(address)
	entries := BuildLeaderboard(players, "score", 0)
	for _, e := range entries {
		if e.Address == normalized {
			return PlayerRank{
				Address:      normalized,
				Rank:         e.Rank,
				TotalPlayers: len(players),
				Score:        e.Score,
			}, true
		}
	}
	return PlayerRank{}, false
}

// GetLeaderboard returns one ranked page plus the total player count.
// Pages are cached in Redis with a short TTL; cache failures fall
// through to the database.
func (s *LeaderboardService) GetLeaderboard(sortBy string, limit int) ([]LeaderboardEntry, int) {
	type cachedPage struct {
		Entries []LeaderboardEntry `json:"entries"`
		Total   int                `json:"total"`
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%d", sortBy, limit)
	if s.redis != nil {
		data, err := s.redis.Get(context.Background(), cacheKey).Result()
		if err == nil {
			var page cachedPage
			if err := json.Unmarshal([]byte(data), &page); err == nil {
				metrics.LeaderboardCacheHitsTotal.Inc()
				return page.Entries, page.Total
			}
		} else if err != redis.Nil {
			s.log.Warn("redis error reading leaderboard cache", zap.Error(err))
		}
	}

	metrics.LeaderboardCacheMissesTotal.Inc()
	players := s.players.ListPlayers()
	entries := BuildLeaderboard(players, sortBy, limit)

	if s.redis != nil {
		data, err := json.Marshal(cachedPage{Entries: entries, Total: len(players)})
		if err == nil {
			ttl := time.Duration(s.cfg.Galaxy.LeaderboardCacheSeconds) * time.Second
			if err := s.redis.Set(context.Background(), cacheKey, data, ttl).Err(); err != nil {
				s.log.Warn("failed to cache leaderboard page", zap.Error(err))
			}
		}
	}

	return entries, len(players)
}

// GetPlayerRank ranks the full player set by score and locates one
// address in it.
func (s *LeaderboardService) GetPlayerRank(address string) (*PlayerRank, error) {
	players := s.players.ListPlayers()
	rank, ok := RankOf(players, address)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return &rank, nil
}
