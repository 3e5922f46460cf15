package models

import (
	"strings"
	"time"
)

const DefaultPlayerName = "Unknown Commander"

// Resources are the three raw materials a commander can hold.
// Amounts never go below zero; every mutation clamps at zero.
type Resources struct {
	Iron      int64 `json:"iron" gorm:"not null;default:0"`
	Deuterium int64 `json:"deuterium" gorm:"not null;default:0"`
	Crystals  int64 `json:"crystals" gorm:"not null;default:0"`
}

func (r Resources) Total() int64 {
	return r.Iron + r.Deuterium + r.Crystals
}

// SaturatingSub subtracts other from r, clamping each amount at zero.
func (r Resources) SaturatingSub(other Resources) Resources {
	sub := func(a, b int64) int64 {
		if b >= a {
			return 0
		}
		return a - b
	}
	return Resources{
		Iron:      sub(r.Iron, other.Iron),
		Deuterium: sub(r.Deuterium, other.Deuterium),
		Crystals:  sub(r.Crystals, other.Crystals),
	}
}

func (r Resources) Add(other Resources) Resources {
	return Resources{
		Iron:      r.Iron + other.Iron,
		Deuterium: r.Deuterium + other.Deuterium,
		Crystals:  r.Crystals + other.Crystals,
	}
}

// Player is one commander record, keyed by lowercase wallet address.
type Player struct {
	Address     string     `json:"address" gorm:"primaryKey"`
	PlayerName  string     `json:"playerName"`
	HomeX       int        `json:"homeX"`
	HomeY       int        `json:"homeY"`
	Resources   Resources  `json:"resources" gorm:"embedded"`
	Buildings   []Building `json:"buildings" gorm:"foreignKey:PlayerAddress;references:Address;constraint:OnDelete:CASCADE"`
	Fleets      []Fleet    `json:"fleets" gorm:"foreignKey:PlayerAddress;references:Address;constraint:OnDelete:CASCADE"`
	LastUpdated int64      `json:"lastUpdated"` // epoch milliseconds, set on every write
}

// NormalizeAddress lowercases a wallet address. Every lookup, insert
// and delete goes through this first.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// DisplayName returns the player name or the default for unnamed commanders.
func (p *Player) DisplayName() string {
	if p.PlayerName == "" {
		return DefaultPlayerName
	}
	return p.PlayerName
}

// TotalShips counts every ship quantity across all fleets.
func (p *Player) TotalShips() int {
	total := 0
	for _, fleet := range p.Fleets {
		for _, ship := range fleet.Ships {
			total += ship.Quantity
		}
	}
	return total
}

// TotalBuildingLevels sums building levels, treating a missing level as 1.
func (p *Player) TotalBuildingLevels() int {
	total := 0
	for _, b := range p.Buildings {
		total += b.EffectiveLevel()
	}
	return total
}

// Touch stamps the record with the current time.
func (p *Player) Touch() {
	p.LastUpdated = time.Now().UnixMilli()
}
