package services

import (
	"errors"
	"math/rand"

	"dominion/config"
	"dominion/metrics"
	"dominion/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerService struct {
	db  *gorm.DB
	cfg *config.Config
	log *zap.Logger
}

func NewPlayerService(db *gorm.DB, cfg *config.Config, log *zap.Logger) *PlayerService {
	return &PlayerService{
		db:  db,
		cfg: cfg,
		log: log,
	}
}

// UpdatePlayerRequest carries a partial player payload. Pointer
// fields distinguish "absent" from "set to zero value": absent fields
// keep their stored values, present collections replace wholesale.
type UpdatePlayerRequest struct {
	PlayerName *string            `json:"playerName"`
	HomeX      *int               `json:"homeX"`
	HomeY      *int               `json:"homeY"`
	Resources  *ResourcesPayload  `json:"resources"`
	Buildings  *[]BuildingPayload `json:"buildings"`
	Fleets     *[]FleetPayload    `json:"fleets"`
}

type ResourcesPayload struct {
	Iron      int64 `json:"iron"`
	Deuterium int64 `json:"deuterium"`
	Crystals  int64 `json:"crystals"`
}

type BuildingPayload struct {
	Type  string `json:"type"`
	Level int    `json:"level"`
}

type FleetPayload struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Ships []ShipPayload `json:"ships"`
}

type ShipPayload struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// GetPlayer loads one record with its buildings and fleets.
func (s *PlayerService) GetPlayer(address string) (*models.Player, error) {
	normalized := models.NormalizeAddress(address)

	var player models.Player
	err := s.db.Preload("Buildings").Preload("Fleets.Ships").
		First(&player, "address = ?", normalized).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		metrics.StorageErrorsTotal.Inc()
		return nil, err
	}

	return &player, nil
}

// ListPlayers loads every record. Read failures are logged and
// recovered as an empty set so listing callers never fail.
func (s *PlayerService) ListPlayers() []models.Player {
	var players []models.Player
	if err := s.db.Preload("Buildings").Preload("Fleets.Ships").Find(&players).Error; err != nil {
		metrics.StorageErrorsTotal.Inc()
		s.log.Error("failed to load players, returning empty set", zap.Error(err))
		return []models.Player{}
	}
	return players
}

// UpsertPlayer merges a partial payload into the stored record,
// creating it on first write. The merge runs in one transaction with
// the player row locked, and any persistence failure propagates to
// the caller.
func (s *PlayerService) UpsertPlayer(address string, req *UpdatePlayerRequest) (*models.Player, error) {
	normalized := models.NormalizeAddress(address)

	var result models.Player
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Load the full record under the row lock so the merged result
		// handed back to the handler carries the untouched collections.
		var player models.Player
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Buildings").Preload("Fleets.Ships").
			First(&player, "address = ?", normalized).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			player = s.newPlayer(normalized)
			if err := tx.Create(&player).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		if req.Buildings != nil {
			if err := tx.Where("player_address = ?", normalized).Delete(&models.Building{}).Error; err != nil {
				return err
			}
		}
		if req.Fleets != nil {
			var fleetIDs []string
			if err := tx.Model(&models.Fleet{}).Where("player_address = ?", normalized).
				Pluck("id", &fleetIDs).Error; err != nil {
				return err
			}
			if len(fleetIDs) > 0 {
				if err := tx.Where("fleet_id IN ?", fleetIDs).Delete(&models.Ship{}).Error; err != nil {
					return err
				}
				if err := tx.Where("player_address = ?", normalized).Delete(&models.Fleet{}).Error; err != nil {
					return err
				}
			}
		}

		applyPlayerUpdate(&player, req)
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&player).Error; err != nil {
			return err
		}

		result = player
		return nil
	})
	if err != nil {
		metrics.StorageErrorsTotal.Inc()
		s.log.Error("failed to upsert player", zap.String("address", normalized), zap.Error(err))
		return nil, err
	}

	metrics.PlayerWritesTotal.Inc()
	return &result, nil
}

// DeletePlayer removes a record and its children. Hard delete, no
// soft-delete semantics.
func (s *PlayerService) DeletePlayer(address string) error {
	normalized := models.NormalizeAddress(address)

	return s.db.Transaction(func(tx *gorm.DB) error {
		var player models.Player
		if err := tx.First(&player, "address = ?", normalized).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}
			metrics.StorageErrorsTotal.Inc()
			return err
		}

		var fleetIDs []string
		if err := tx.Model(&models.Fleet{}).Where("player_address = ?", normalized).
			Pluck("id", &fleetIDs).Error; err != nil {
			return err
		}
		if len(fleetIDs) > 0 {
			if err := tx.Where("fleet_id IN ?", fleetIDs).Delete(&models.Ship{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("player_address = ?", normalized).Delete(&models.Fleet{}).Error; err != nil {
			return err
		}
		if err := tx.Where("player_address = ?", normalized).Delete(&models.Building{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Player{}, "address = ?", normalized).Error; err != nil {
			return err
		}

		metrics.PlayerDeletesTotal.Inc()
		return nil
	})
}

// applyPlayerUpdate merges a partial payload into a loaded record.
// Absent fields keep their stored values; present collections replace
// the stored ones wholesale. Quantities and resource amounts clamp at
// zero, and fleets without an id get a fresh one.
func applyPlayerUpdate(player *models.Player, req *UpdatePlayerRequest) {
	if req.PlayerName != nil {
		player.PlayerName = *req.PlayerName
	}
	if req.HomeX != nil {
		player.HomeX = *req.HomeX
	}
	if req.HomeY != nil {
		player.HomeY = *req.HomeY
	}
	if req.Resources != nil {
		player.Resources = models.Resources{
			Iron:      max64(0, req.Resources.Iron),
			Deuterium: max64(0, req.Resources.Deuterium),
			Crystals:  max64(0, req.Resources.Crystals),
		}
	}

	if req.Buildings != nil {
		player.Buildings = make([]models.Building, 0, len(*req.Buildings))
		for _, b := range *req.Buildings {
			player.Buildings = append(player.Buildings, models.Building{
				PlayerAddress: player.Address,
				Type:          b.Type,
				Level:         b.Level,
			})
		}
	}

	if req.Fleets != nil {
		player.Fleets = make([]models.Fleet, 0, len(*req.Fleets))
		for _, f := range *req.Fleets {
			fleetID := f.ID
			if fleetID == "" {
				fleetID = uuid.NewString()
			}
			fleet := models.Fleet{
				ID:            fleetID,
				PlayerAddress: player.Address,
				Name:          f.Name,
			}
			for _, ship := range f.Ships {
				fleet.Ships = append(fleet.Ships, models.Ship{
					FleetID:  fleetID,
					Type:     ship.Type,
					Quantity: maxInt(0, ship.Quantity),
				})
			}
			player.Fleets = append(player.Fleets, fleet)
		}
	}

	player.Touch()
}

// newPlayer builds a fresh record for an address seen for the first
// time. Home coordinates are rolled once here and persisted, so the
// map position is stable across reads.
func (s *PlayerService) newPlayer(address string) models.Player {
	span := s.cfg.Galaxy.HomeRange
	return models.Player{
		Address: address,
		HomeX:   rand.Intn(2*span+1) - span,
		HomeY:   rand.Intn(2*span+1) - span,
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
