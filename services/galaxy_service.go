package services

import (
	"fmt"
	"time"

	"dominion/config"
	"dominion/models"

	"go.uber.org/zap"
)

// GalaxyPlayerView is the enriched map entry for one visible player.
type GalaxyPlayerView struct {
	Address             string `json:"address"`
	PlayerName          string `json:"playerName"`
	HomeX               int    `json:"homeX"`
	HomeY               int    `json:"homeY"`
	Score               int    `json:"score"`
	PowerLevel          int    `json:"powerLevel"`
	TotalShips          int    `json:"totalShips"`
	TotalBuildingLevels int    `json:"totalBuildingLevels"`
	FleetCount          int    `json:"fleetCount"`
	LastUpdated         int64  `json:"lastUpdated"`
}

// InvasionInfo is the pre-battle eligibility estimate.
type InvasionInfo struct {
	DefenderShips      int     `json:"defenderShips"`
	AttackerShips      int     `json:"attackerShips"`
	MinShipsRequired   int     `json:"minShipsRequired"`
	CanInvade          bool    `json:"canInvade"`
	EstimatedLootRatio float64 `json:"estimatedLootRatio"`
}

type GalaxyService struct {
	players *PlayerService
	cfg     *config.Config
	log     *zap.Logger
}

func NewGalaxyService(players *PlayerService, cfg *config.Config, log *zap.Logger) *GalaxyService {
	return &GalaxyService{
		players: players,
		cfg:     cfg,
		log:     log,
	}
}

// MinShipsRequired derives the invasion eligibility threshold from
// the defender's total fleet size.
func MinShipsRequired(defenderShips int, balance config.BalanceConfig) int {
	return int(float64(defenderShips)*balance.MinShipsRatio) + balance.MinShipsBase
}

// EstimatedLootRatio is the capped fraction of defender resources an
// attacker of the given strength would take on victory.
func EstimatedLootRatio(attackerShips, defenderShips int, balance config.BalanceConfig) float64 {
	divisor := defenderShips
	if divisor < 1 {
		divisor = 1
	}
	ratio := float64(attackerShips) / float64(divisor) * balance.LootRatioFactor
	if ratio > balance.LootRatioCap {
		ratio = balance.LootRatioCap
	}
	return ratio
}

// FilterGalaxyPlayers maps the stored set to galaxy views, dropping
// the caller's own address and anyone outside the activity window.
// Players that never wrote (zero lastUpdated) are invisible.
func FilterGalaxyPlayers(players []models.Player, excludeAddress string, window time.Duration, now time.Time) []GalaxyPlayerView {
	exclude := models.NormalizeAddress(excludeAddress)
	cutoff := now.Add(-window).UnixMilli()

	views := make([]GalaxyPlayerView, 0, len(players))
	for i := range players {
		p := &players[i]
		if exclude != "" && p.Address == exclude {
			continue
		}
		if p.LastUpdated == 0 || p.LastUpdated < cutoff {
			continue
		}

		score := ComputeScore(p)
		views = append(views, GalaxyPlayerView{
			Address:             p.Address,
			PlayerName:          p.DisplayName(),
			HomeX:               p.HomeX,
			HomeY:               p.HomeY,
			Score:               score,
			PowerLevel:          PowerLevel(score),
			TotalShips:          p.TotalShips(),
			TotalBuildingLevels: p.TotalBuildingLevels(),
			FleetCount:          len(p.Fleets),
			LastUpdated:         p.LastUpdated,
		})
	}
	return views
}

// ListPlayers returns every active player visible to the caller.
func (s *GalaxyService) ListPlayers(excludeAddress string) []GalaxyPlayerView {
	players := s.players.ListPlayers()
	window := time.Duration(s.cfg.Galaxy.ActivityWindowDays) * 24 * time.Hour
	return FilterGalaxyPlayers(players, excludeAddress, window, time.Now())
}

// GetInvasionInfo reports a defender's profile plus the eligibility
// numbers for a prospective attacker. The attacker may be unknown, in
// which case it counts zero ships.
func (s *GalaxyService) GetInvasionInfo(defenderAddress, attackerAddress string) (*GalaxyPlayerView, *InvasionInfo, error) {
	defender, err := s.players.GetPlayer(defenderAddress)
	if err != nil {
		return nil, nil, err
	}

	attackerShips := 0
	if attackerAddress != "" {
		if attacker, err := s.players.GetPlayer(attackerAddress); err == nil {
			attackerShips = attacker.TotalShips()
		}
	}

	defenderShips := defender.TotalShips()
	score := ComputeScore(defender)
	view := &GalaxyPlayerView{
		Address:             defender.Address,
		PlayerName:          defender.DisplayName(),
		HomeX:               defender.HomeX,
		HomeY:               defender.HomeY,
		Score:               score,
		PowerLevel:          PowerLevel(score),
		TotalShips:          defenderShips,
		TotalBuildingLevels: defender.TotalBuildingLevels(),
		FleetCount:          len(defender.Fleets),
		LastUpdated:         defender.LastUpdated,
	}

	required := MinShipsRequired(defenderShips, s.cfg.Balance)
	info := &InvasionInfo{
		DefenderShips:      defenderShips,
		AttackerShips:      attackerShips,
		MinShipsRequired:   required,
		CanInvade:          attackerShips >= required,
		EstimatedLootRatio: EstimatedLootRatio(attackerShips, defenderShips, s.cfg.Balance),
	}

	s.log.Debug("invasion info computed",
		zap.String("defender", defender.Address),
		zap.String("attacker", models.NormalizeAddress(attackerAddress)),
		zap.String("threshold", fmt.Sprintf("%d vs %d", attackerShips, required)))

	return view, info, nil
}
