package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"dominion/config"
	"dominion/metrics"
	"dominion/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrMissingAddress   = errors.New("attacker and defender addresses are required")
	ErrSelfInvasion     = errors.New("cannot invade your own base")
	ErrAttackerNotFound = errors.New("attacker not found")
	ErrDefenderNotFound = errors.New("defender not found")
)

// ErrInsufficientShips rejects an invasion below the eligibility
// threshold, carrying the numbers the client needs to display.
type ErrInsufficientShips struct {
	Required int
	Have     int
}

func (e *ErrInsufficientShips) Error() string {
	return fmt.Sprintf("not enough ships to invade: need %d, have %d", e.Required, e.Have)
}

// Rand is the random source for battle resolution. Production uses a
// time-seeded math/rand; tests inject a fixed seed.
type Rand interface {
	Float64() float64
}

type InvasionRequest struct {
	AttackerAddress string `json:"attackerAddress"`
	DefenderAddress string `json:"defenderAddress"`
	FleetID         string `json:"fleetId"`
}

// BattleReport summarizes one resolved battle for the response and
// the galaxy event feed.
type BattleReport struct {
	AttackerShipsLost int    `json:"attackerShipsLost"`
	DefenderShipsLost int    `json:"defenderShipsLost"`
	PowerRatio        string `json:"powerRatio"`
	FleetID           string `json:"fleetId,omitempty"`
}

// InvasionOutcome is the full result handed back to the handler.
type InvasionOutcome struct {
	Victory  bool              `json:"victory"`
	Battle   BattleReport      `json:"battle"`
	Loot     *models.Resources `json:"loot"`
	Message  string            `json:"message"`
	Attacker string            `json:"attacker"`
	Defender string            `json:"defender"`
}

type InvasionService struct {
	db  *gorm.DB
	cfg *config.Config
	rng Rand
	hub *Hub
	log *zap.Logger
}

func NewInvasionService(db *gorm.DB, cfg *config.Config, rng Rand, hub *Hub, log *zap.Logger) *InvasionService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &InvasionService{
		db:  db,
		cfg: cfg,
		rng: rng,
		hub: hub,
		log: log,
	}
}

// BattleResult is the side-effect-free resolution of one battle,
// computed on in-memory copies before anything is persisted.
type BattleResult struct {
	Victory           bool
	PowerRatio        float64
	AttackerShipsLost int
	DefenderShipsLost int
	Loot              *models.Resources
}

// checkInvasionThreshold gates an invasion on the attacker's fleet
// size. Read-only: a rejection leaves both records untouched.
func checkInvasionThreshold(attacker, defender *models.Player, balance config.BalanceConfig) error {
	required := MinShipsRequired(defender.TotalShips(), balance)
	if have := attacker.TotalShips(); have < required {
		return &ErrInsufficientShips{Required: required, Have: have}
	}
	return nil
}

func uniform(rng Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// applyLosses floors losses per stack and clamps quantities at zero,
// returning the total ships destroyed.
func applyLosses(fleets []models.Fleet, lossRatio float64) int {
	lost := 0
	for i := range fleets {
		for j := range fleets[i].Ships {
			q := fleets[i].Ships[j].Quantity
			if q <= 0 {
				fleets[i].Ships[j].Quantity = 0
				continue
			}
			losses := int(float64(q) * lossRatio)
			if losses > q {
				losses = q
			}
			fleets[i].Ships[j].Quantity = q - losses
			lost += losses
		}
	}
	return lost
}

// ResolveBattle mutates both players' fleets (and resources on a
// victory) in memory and reports the outcome. Deterministic for a
// deterministic rng.
func ResolveBattle(attacker, defender *models.Player, rng Rand, balance config.BalanceConfig) BattleResult {
	attackerShips := attacker.TotalShips()
	defenderShips := defender.TotalShips()

	divisor := defenderShips
	if divisor < 1 {
		divisor = 1
	}
	powerRatio := float64(attackerShips) / float64(divisor)

	victoryChance := powerRatio * balance.VictoryChanceFactor
	if victoryChance > balance.VictoryChanceCap {
		victoryChance = balance.VictoryChanceCap
	}
	victory := rng.Float64() < victoryChance

	var attackerLossRatio, defenderLossRatio float64
	if victory {
		attackerLossRatio = uniform(rng, balance.AttackerWinLossMin, balance.AttackerWinLossMax)
		defenderLossRatio = uniform(rng, balance.DefenderWinLossMin, balance.DefenderWinLossMax)
	} else {
		attackerLossRatio = uniform(rng, balance.AttackerLoseLossMin, balance.AttackerLoseLossMax)
		defenderLossRatio = uniform(rng, balance.DefenderLoseLossMin, balance.DefenderLoseLossMax)
	}

	result := BattleResult{
		Victory:           victory,
		PowerRatio:        powerRatio,
		AttackerShipsLost: applyLosses(attacker.Fleets, attackerLossRatio),
		DefenderShipsLost: applyLosses(defender.Fleets, defenderLossRatio),
	}

	if victory {
		lootRatio := powerRatio * balance.LootRatioFactor
		if lootRatio > balance.LootRatioCap {
			lootRatio = balance.LootRatioCap
		}
		loot := models.Resources{
			Iron:      int64(float64(defender.Resources.Iron) * lootRatio),
			Deuterium: int64(float64(defender.Resources.Deuterium) * lootRatio),
			Crystals:  int64(float64(defender.Resources.Crystals) * lootRatio),
		}
		defender.Resources = defender.Resources.SaturatingSub(loot)
		attacker.Resources = attacker.Resources.Add(loot)
		result.Loot = &loot
	}

	return result
}

// Invade runs the full state machine: validate both parties, resolve
// the battle, and persist both mutated records. Everything happens in
// one transaction with both player rows locked in address order, so
// racing invasions against the same defender serialize instead of
// losing updates. Validation failures leave no trace.
func (s *InvasionService) Invade(req *InvasionRequest) (*InvasionOutcome, error) {
	attackerAddr := models.NormalizeAddress(req.AttackerAddress)
	defenderAddr := models.NormalizeAddress(req.DefenderAddress)

	if attackerAddr == "" || defenderAddr == "" {
		metrics.InvasionsRejectedTotal.Inc()
		return nil, ErrMissingAddress
	}
	if attackerAddr == defenderAddr {
		metrics.InvasionsRejectedTotal.Inc()
		return nil, ErrSelfInvasion
	}

	started := time.Now()
	var outcome *InvasionOutcome

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock both rows in a fixed order so two opposite invasions
		// cannot deadlock.
		first, second := attackerAddr, defenderAddr
		if second < first {
			first, second = second, first
		}
		for _, addr := range []string{first, second} {
			var locked models.Player
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("address").First(&locked, "address = ?", addr).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if addr == attackerAddr {
					return ErrAttackerNotFound
				}
				return ErrDefenderNotFound
			}
			if err != nil {
				return err
			}
		}

		var attacker, defender models.Player
		if err := tx.Preload("Buildings").Preload("Fleets.Ships").
			First(&attacker, "address = ?", attackerAddr).Error; err != nil {
			return err
		}
		if err := tx.Preload("Buildings").Preload("Fleets.Ships").
			First(&defender, "address = ?", defenderAddr).Error; err != nil {
			return err
		}

		if err := checkInvasionThreshold(&attacker, &defender, s.cfg.Balance); err != nil {
			return err
		}

		result := ResolveBattle(&attacker, &defender, s.rng, s.cfg.Balance)

		attacker.Touch()
		defender.Touch()
		for _, p := range []*models.Player{&attacker, &defender} {
			if err := tx.Model(&models.Player{}).Where("address = ?", p.Address).
				Updates(map[string]interface{}{
					"iron":         p.Resources.Iron,
					"deuterium":    p.Resources.Deuterium,
					"crystals":     p.Resources.Crystals,
					"last_updated": p.LastUpdated,
				}).Error; err != nil {
				return err
			}
			for _, fleet := range p.Fleets {
				for _, ship := range fleet.Ships {
					if err := tx.Model(&models.Ship{}).Where("id = ?", ship.ID).
						Update("quantity", ship.Quantity).Error; err != nil {
						return err
					}
				}
			}
		}

		message := fmt.Sprintf("%s repelled the invasion from %s", defender.DisplayName(), attacker.DisplayName())
		if result.Victory {
			message = fmt.Sprintf("%s conquered %s and plundered their stores", attacker.DisplayName(), defender.DisplayName())
		}

		outcome = &InvasionOutcome{
			Victory: result.Victory,
			Battle: BattleReport{
				AttackerShipsLost: result.AttackerShipsLost,
				DefenderShipsLost: result.DefenderShipsLost,
				PowerRatio:        fmt.Sprintf("%.2f", result.PowerRatio),
				FleetID:           req.FleetID,
			},
			Loot:     result.Loot,
			Message:  message,
			Attacker: attackerAddr,
			Defender: defenderAddr,
		}
		return nil
	})
	if err != nil {
		var insufficient *ErrInsufficientShips
		if errors.Is(err, ErrAttackerNotFound) || errors.Is(err, ErrDefenderNotFound) || errors.As(err, &insufficient) {
			metrics.InvasionsRejectedTotal.Inc()
			return nil, err
		}
		metrics.StorageErrorsTotal.Inc()
		s.log.Error("invasion transaction failed",
			zap.String("attacker", attackerAddr),
			zap.String("defender", defenderAddr),
			zap.Error(err))
		return nil, err
	}

	metrics.InvasionsAttemptedTotal.Inc()
	if outcome.Victory {
		metrics.InvasionVictoriesTotal.Inc()
	}
	metrics.InvasionDurations.Observe(time.Since(started).Seconds())

	s.log.Info("invasion resolved",
		zap.String("attacker", attackerAddr),
		zap.String("defender", defenderAddr),
		zap.Bool("victory", outcome.Victory),
		zap.Int("attackerShipsLost", outcome.Battle.AttackerShipsLost),
		zap.Int("defenderShipsLost", outcome.Battle.DefenderShipsLost))

	if s.hub != nil {
		s.hub.BroadcastEvent("battle_result", outcome)
	}

	return outcome, nil
}
